package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/employee-directory/internal/domain"
	"github.com/spec-kit/employee-directory/internal/events"
	"github.com/spec-kit/employee-directory/internal/hierarchy"
	"github.com/spec-kit/employee-directory/internal/observability"
	"github.com/spec-kit/employee-directory/internal/repository"
	apperrors "github.com/spec-kit/employee-directory/pkg/util/errorutil"
)

// EmployeeService coordinates employee, compensation and hierarchy workflows.
type EmployeeService struct {
	employees     repository.EmployeeRepository
	compensations repository.CompensationRepository
	resolver      *hierarchy.Resolver
	dispatcher    events.Dispatcher
	metrics       *observability.Metrics
	logger        *zap.Logger
}

// EmployeeDependencies bundles collaborators for the employee service.
type EmployeeDependencies struct {
	EmployeeRepo     repository.EmployeeRepository
	CompensationRepo repository.CompensationRepository
	Resolver         *hierarchy.Resolver
	Dispatcher       events.Dispatcher
	Metrics          *observability.Metrics
	Logger           *zap.Logger
}

// NewEmployeeService constructs the service. A nil Resolver is built over EmployeeRepo.
func NewEmployeeService(deps EmployeeDependencies) *EmployeeService {
	resolver := deps.Resolver
	if resolver == nil {
		resolver = hierarchy.NewResolver(deps.EmployeeRepo)
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmployeeService{
		employees:     deps.EmployeeRepo,
		compensations: deps.CompensationRepo,
		resolver:      resolver,
		dispatcher:    deps.Dispatcher,
		metrics:       deps.Metrics,
		logger:        logger,
	}
}

// Create stores a new employee. Any identifier on emp is discarded; the store
// assigns a fresh one.
func (s *EmployeeService) Create(ctx context.Context, emp *domain.Employee) (*domain.Employee, error) {
	emp.ID = ""
	normalizeEmployee(emp)
	if err := validateEmployee(emp, ""); err != nil {
		return nil, err
	}
	if err := s.ensureEmployeesExist(ctx, emp.DirectReports); err != nil {
		return nil, err
	}
	if err := s.employees.Create(ctx, emp); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	s.publishEvent(ctx, employeeEvent(events.EventEmployeeCreated, emp))
	return emp, nil
}

// GetByID fetches an employee.
func (s *EmployeeService) GetByID(ctx context.Context, id string) (*domain.Employee, error) {
	emp, err := s.employees.GetByID(ctx, id)
	if err != nil {
		return nil, mapLookupError(err, "employee", map[string]any{"employeeId": id})
	}
	return emp, nil
}

// Replace overwrites existing with the fields of updated. existing must come
// from a lookup the caller just made; its identifier is kept.
func (s *EmployeeService) Replace(ctx context.Context, existing, updated *domain.Employee) (*domain.Employee, error) {
	if updated.ID != "" && updated.ID != existing.ID {
		return nil, apperrors.NewValidationError("employeeId does not match the target employee", map[string]any{
			"employeeId": updated.ID,
		})
	}
	normalizeEmployee(updated)
	if err := validateEmployee(updated, existing.ID); err != nil {
		return nil, err
	}
	if err := s.ensureEmployeesExist(ctx, updated.DirectReports); err != nil {
		return nil, err
	}
	if err := s.employees.Replace(ctx, existing.ID, updated); err != nil {
		return nil, mapLookupError(err, "employee", map[string]any{"employeeId": existing.ID})
	}
	s.publishEvent(ctx, employeeEvent(events.EventEmployeeReplaced, updated))
	return updated, nil
}

// GetReportingStructure resolves the transitive report count for id.
func (s *EmployeeService) GetReportingStructure(ctx context.Context, id string) (*domain.ReportingStructure, error) {
	rs, err := s.resolver.Resolve(ctx, id)
	if err != nil {
		return nil, mapLookupError(err, "employee", map[string]any{"employeeId": id})
	}
	s.metrics.ObserveReports(rs.NumberOfReports)
	return rs, nil
}

// CreateCompensation records a compensation for an existing employee and
// returns it with the employee's current record attached.
func (s *EmployeeService) CreateCompensation(ctx context.Context, comp *domain.Compensation) (*domain.Compensation, error) {
	comp.ID = ""
	if err := validateCompensation(comp); err != nil {
		return nil, err
	}
	if err := s.compensations.Create(ctx, comp); err != nil {
		return nil, mapLookupError(err, "employee", map[string]any{"employeeId": comp.EmployeeID})
	}
	if err := s.attachEmployee(ctx, comp); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:       events.EventCompensationCreated,
		EmployeeID: comp.EmployeeID,
		Payload: events.CompensationCreatedPayload{
			CompensationID: comp.ID,
			Salary:         comp.Salary,
			EffectiveDate:  comp.EffectiveDate,
		},
	})
	return comp, nil
}

// GetCompensationByEmployeeID returns the employee's current compensation.
func (s *EmployeeService) GetCompensationByEmployeeID(ctx context.Context, employeeID string) (*domain.Compensation, error) {
	comp, err := s.compensations.GetCurrentByEmployeeID(ctx, employeeID)
	if err != nil {
		return nil, mapLookupError(err, "compensation", map[string]any{"employeeId": employeeID})
	}
	if err := s.attachEmployee(ctx, comp); err != nil {
		return nil, err
	}
	return comp, nil
}

func (s *EmployeeService) attachEmployee(ctx context.Context, comp *domain.Compensation) error {
	emp, err := s.employees.GetByID(ctx, comp.EmployeeID)
	if err != nil {
		return mapLookupError(err, "employee", map[string]any{"employeeId": comp.EmployeeID})
	}
	comp.Employee = emp
	return nil
}

// ensureEmployeesExist rejects direct-report references that do not resolve.
func (s *EmployeeService) ensureEmployeesExist(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	found, err := s.employees.GetByIDs(ctx, ids)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	var missing []string
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return apperrors.NewNotFound("direct report", map[string]any{"directReports": missing})
	}
	return nil
}

func (s *EmployeeService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event delivery failed",
			zap.String("event_type", string(event.Type)),
			zap.String("employee_id", event.EmployeeID),
			zap.Error(err))
	}
}

func employeeEvent(eventType events.EventType, emp *domain.Employee) events.Event {
	return events.Event{
		Type:       eventType,
		EmployeeID: emp.ID,
		Payload: events.EmployeeChangedPayload{
			FirstName:     emp.FirstName,
			LastName:      emp.LastName,
			Position:      emp.Position,
			Department:    emp.Department,
			DirectReports: append([]string(nil), emp.DirectReports...),
		},
	}
}

func mapLookupError(err error, resource string, details map[string]any) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NewNotFound(resource, details)
	}
	return apperrors.MapError(err)
}
