package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/employee-directory/internal/domain"
	"github.com/spec-kit/employee-directory/internal/events"
	"github.com/spec-kit/employee-directory/internal/observability"
	"github.com/spec-kit/employee-directory/internal/repository"
	apperrors "github.com/spec-kit/employee-directory/pkg/util/errorutil"
)

type fixture struct {
	svc       *EmployeeService
	store     *repository.MemoryStore
	published []events.Event
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{store: repository.NewMemoryStore()}
	dispatcher := events.NewInMemoryDispatcher()
	for _, et := range []events.EventType{events.EventEmployeeCreated, events.EventEmployeeReplaced, events.EventCompensationCreated} {
		dispatcher.Subscribe(et, func(_ context.Context, e events.Event) error {
			f.published = append(f.published, e)
			return nil
		})
	}
	f.svc = NewEmployeeService(EmployeeDependencies{
		EmployeeRepo:     f.store.Employees(),
		CompensationRepo: f.store.Compensations(),
		Dispatcher:       dispatcher,
		Metrics:          observability.NewMetrics(),
	})
	return f
}

func (f *fixture) mustCreate(t *testing.T, first string, reports ...string) *domain.Employee {
	t.Helper()
	emp, err := f.svc.Create(context.Background(), &domain.Employee{FirstName: first, DirectReports: reports})
	require.NoError(t, err)
	return emp
}

func TestCreate_AssignsIdentifierAndRoundTrips(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	in := &domain.Employee{ID: "client-id", FirstName: " Debbie ", LastName: "Downer", Position: "Receiver", Department: "Complaints"}
	created, err := f.svc.Create(ctx, in)
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.NotEqual(t, "client-id", created.ID)
	assert.Equal(t, "Debbie", created.FirstName)

	got, err := f.svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.FirstName, got.FirstName)
	assert.Equal(t, created.LastName, got.LastName)
	assert.Equal(t, created.Position, got.Position)
	assert.Equal(t, created.Department, got.Department)
	assert.Empty(t, got.DirectReports)

	require.Len(t, f.published, 1)
	assert.Equal(t, events.EventEmployeeCreated, f.published[0].Type)
	assert.Equal(t, created.ID, f.published[0].EmployeeID)
}

func TestCreate_RejectsDuplicateDirectReports(t *testing.T) {
	f := newFixture(t)
	p := f.mustCreate(t, "Paul")

	_, err := f.svc.Create(context.Background(), &domain.Employee{FirstName: "John", DirectReports: []string{p.ID, p.ID}})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestCreate_RejectsEmptyDirectReportID(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), &domain.Employee{FirstName: "John", DirectReports: []string{" "}})
	require.Error(t, err)
	de := apperrors.ToDomainError(err)
	assert.Equal(t, apperrors.CodeValidationFailed, de.Code)
	assert.Contains(t, de.Details, "directReports[0]")
}

func TestCreate_RejectsUnknownDirectReport(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), &domain.Employee{FirstName: "John", DirectReports: []string{"ghost"}})
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
	assert.Empty(t, f.published)
}

func TestCreate_RejectsOverlongFields(t *testing.T) {
	f := newFixture(t)
	long := make([]byte, 201)
	for i := range long {
		long[i] = 'x'
	}

	_, err := f.svc.Create(context.Background(), &domain.Employee{FirstName: string(long)})
	require.Error(t, err)
	assert.Equal(t, "max=200", apperrors.ToDomainError(err).Details["firstName"])
}

func TestGetByID_Unknown(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.GetByID(context.Background(), "nope")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestReplace_UpdatesMutableFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	report := f.mustCreate(t, "George")
	emp := f.mustCreate(t, "Pete")

	existing, err := f.svc.GetByID(ctx, emp.ID)
	require.NoError(t, err)
	updated, err := f.svc.Replace(ctx, existing, &domain.Employee{
		FirstName:     "Pete",
		LastName:      "Best",
		Position:      "Developer VI",
		Department:    "Engineering",
		DirectReports: []string{report.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, emp.ID, updated.ID)

	got, err := f.svc.GetByID(ctx, emp.ID)
	require.NoError(t, err)
	assert.Equal(t, "Developer VI", got.Position)
	assert.Equal(t, []string{report.ID}, got.DirectReports)
	assert.Equal(t, events.EventEmployeeReplaced, f.published[len(f.published)-1].Type)
}

func TestReplace_RejectsSelfReference(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	emp := f.mustCreate(t, "Ringo")

	_, err := f.svc.Replace(ctx, emp, &domain.Employee{FirstName: "Ringo", DirectReports: []string{emp.ID}})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))

	got, err := f.svc.GetByID(ctx, emp.ID)
	require.NoError(t, err)
	assert.Empty(t, got.DirectReports)
}

func TestReplace_RejectsMismatchedBodyID(t *testing.T) {
	f := newFixture(t)
	a := f.mustCreate(t, "A")
	b := f.mustCreate(t, "B")

	_, err := f.svc.Replace(context.Background(), a, &domain.Employee{ID: b.ID, FirstName: "A"})
	assert.True(t, apperrors.IsValidation(err))
}

func TestReplace_UnknownTargetReportsNotFoundWithoutMutation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ghost := &domain.Employee{ID: "ghost"}
	_, err := f.svc.Replace(ctx, ghost, &domain.Employee{FirstName: "Sunny"})
	assert.True(t, apperrors.IsNotFound(err))

	_, err = f.svc.GetByID(ctx, "ghost")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestGetReportingStructure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	s := f.mustCreate(t, "S")
	q := f.mustCreate(t, "Q")
	p := f.mustCreate(t, "P", s.ID)
	r := f.mustCreate(t, "R", p.ID, q.ID)

	rs, err := f.svc.GetReportingStructure(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, rs.NumberOfReports)
	assert.Equal(t, "R", rs.Employee.FirstName)

	rs, err = f.svc.GetReportingStructure(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, rs.NumberOfReports)

	// close a cycle S -> R through a replace; the count must stay finite
	_, err = f.svc.Replace(ctx, s, &domain.Employee{FirstName: "S", DirectReports: []string{r.ID}})
	require.NoError(t, err)
	rs, err = f.svc.GetReportingStructure(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, rs.NumberOfReports)

	_, err = f.svc.GetReportingStructure(ctx, "missing")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestCreateCompensation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	emp := f.mustCreate(t, "John")
	effective := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)

	comp, err := f.svc.CreateCompensation(ctx, &domain.Compensation{
		ID:            "client-id",
		EmployeeID:    emp.ID,
		Salary:        decimal.RequireFromString("1500.50"),
		EffectiveDate: effective,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, comp.ID)
	assert.NotEqual(t, "client-id", comp.ID)
	require.NotNil(t, comp.Employee)
	assert.Equal(t, "John", comp.Employee.FirstName)

	got, err := f.svc.GetCompensationByEmployeeID(ctx, emp.ID)
	require.NoError(t, err)
	assert.Equal(t, comp.ID, got.ID)
	assert.True(t, got.Salary.Equal(decimal.RequireFromString("1500.5")))
	assert.True(t, got.EffectiveDate.Equal(effective))
	assert.Equal(t, emp.ID, got.Employee.ID)
}

func TestCreateCompensation_Validation(t *testing.T) {
	f := newFixture(t)
	emp := f.mustCreate(t, "John")
	now := time.Now()

	cases := []struct {
		name string
		comp domain.Compensation
	}{
		{"negative salary", domain.Compensation{EmployeeID: emp.ID, Salary: decimal.NewFromInt(-1), EffectiveDate: now}},
		{"missing employee", domain.Compensation{Salary: decimal.NewFromInt(1), EffectiveDate: now}},
		{"missing effective date", domain.Compensation{EmployeeID: emp.ID, Salary: decimal.NewFromInt(1)}},
		{"salary at upper bound", domain.Compensation{EmployeeID: emp.ID, Salary: decimal.New(1, 12), EffectiveDate: now}},
		{"salary far above bound", domain.Compensation{EmployeeID: emp.ID, Salary: decimal.RequireFromString("1234567890123.456789"), EffectiveDate: now}},
		{"salary with three decimals", domain.Compensation{EmployeeID: emp.ID, Salary: decimal.RequireFromString("1500.505"), EffectiveDate: now}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			comp := tc.comp
			_, err := f.svc.CreateCompensation(context.Background(), &comp)
			require.Error(t, err)
			assert.True(t, apperrors.IsValidation(err))
		})
	}
}

func TestCreateCompensation_SalaryBoundsAccepted(t *testing.T) {
	f := newFixture(t)
	emp := f.mustCreate(t, "John")

	for _, raw := range []string{"999999999999.99", "0.01", "0", "1500.500"} {
		t.Run(raw, func(t *testing.T) {
			comp := &domain.Compensation{EmployeeID: emp.ID, Salary: decimal.RequireFromString(raw), EffectiveDate: time.Now()}
			created, err := f.svc.CreateCompensation(context.Background(), comp)
			require.NoError(t, err)

			stored, err := f.svc.GetCompensationByEmployeeID(context.Background(), emp.ID)
			require.NoError(t, err)
			assert.True(t, stored.Salary.Equal(created.Salary), "stored %s, returned %s", stored.Salary, created.Salary)
		})
	}
}

func TestCreateCompensation_UnknownEmployee(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateCompensation(ctx, &domain.Compensation{
		EmployeeID:    "ghost",
		Salary:        decimal.NewFromInt(100),
		EffectiveDate: time.Now(),
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))

	_, err = f.svc.GetCompensationByEmployeeID(ctx, "ghost")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestGetCompensation_NoneRecorded(t *testing.T) {
	f := newFixture(t)
	emp := f.mustCreate(t, "Paul")

	_, err := f.svc.GetCompensationByEmployeeID(context.Background(), emp.ID)
	require.Error(t, err)
	assert.Equal(t, "compensation not found", apperrors.ToDomainError(err).Message)
}
