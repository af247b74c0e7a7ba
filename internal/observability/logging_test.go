package observability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/spec-kit/employee-directory/internal/config"
)

func TestNewLogger_Levels(t *testing.T) {
	app := config.AppConfig{Name: "employee-directory", Env: "test", Version: "dev"}

	logger, err := NewLogger(config.LoggerConfig{Level: "DEBUG"}, app)
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))

	logger, err = NewLogger(config.LoggerConfig{Level: "chatty"}, app)
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))
}
