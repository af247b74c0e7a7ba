package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/employee-directory/internal/config"
	"github.com/spec-kit/employee-directory/internal/events"
	"github.com/spec-kit/employee-directory/internal/persistence"
)

// ChangePublisher forwards serialized events to an external channel.
type ChangePublisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

const publishTimeout = 2 * time.Second

// NotificationService logs directory changes and fans them out to subscribers
// of the configured Redis channel.
type NotificationService struct {
	dispatcher events.Dispatcher
	publisher  ChangePublisher
	logger     *zap.Logger
	cfg        config.EventsConfig
}

// NewNotificationService creates the service. publisher may be nil.
func NewNotificationService(dispatcher events.Dispatcher, publisher ChangePublisher, logger *zap.Logger, cfg config.EventsConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		publisher:  publisher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventEmployeeCreated, n.logEmployeeChange)
	n.dispatcher.Subscribe(events.EventEmployeeReplaced, n.logEmployeeChange)
	n.dispatcher.Subscribe(events.EventCompensationCreated, n.logCompensationCreated)
	n.dispatcher.Subscribe(events.AnyEvent, n.forward)
}

func (n *NotificationService) logEmployeeChange(_ context.Context, event events.Event) error {
	n.logger.Info(string(event.Type), zap.String("employee_id", event.EmployeeID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) logCompensationCreated(_ context.Context, event events.Event) error {
	// salary stays out of the logs
	n.logger.Info(string(event.Type), zap.String("employee_id", event.EmployeeID))
	return nil
}

func (n *NotificationService) forward(ctx context.Context, event events.Event) error {
	if n.publisher == nil || strings.TrimSpace(n.cfg.Channel) == "" {
		return nil
	}
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", event.Type, err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	if err := n.publisher.Publish(ctx, n.cfg.Channel, body); err != nil {
		if errors.Is(err, persistence.ErrRedisDisabled) {
			return nil
		}
		return fmt.Errorf("publish %s event: %w", event.Type, err)
	}
	n.logger.Debug("event published",
		zap.String("channel", n.cfg.Channel),
		zap.String("event_type", string(event.Type)),
		zap.String("employee_id", event.EmployeeID))
	return nil
}
