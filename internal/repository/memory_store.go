package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/employee-directory/internal/domain"
)

// MemoryStore keeps employees and compensations in process memory. Records are
// copied on the way in and out so callers never share memory with the store.
type MemoryStore struct {
	mu            sync.RWMutex
	employees     map[string]*domain.Employee
	compensations map[string][]*domain.Compensation
	now           func() time.Time
}

// NewMemoryStore builds an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		employees:     make(map[string]*domain.Employee),
		compensations: make(map[string][]*domain.Compensation),
		now:           time.Now,
	}
}

// Employees exposes the store through the EmployeeRepository contract.
func (s *MemoryStore) Employees() EmployeeRepository {
	return memoryEmployees{s}
}

// Compensations exposes the store through the CompensationRepository contract.
func (s *MemoryStore) Compensations() CompensationRepository {
	return memoryCompensations{s}
}

// Ping always succeeds; it lets the memory store back readiness checks.
func (s *MemoryStore) Ping(context.Context) error {
	return nil
}

type memoryEmployees struct {
	s *MemoryStore
}

func (r memoryEmployees) Create(_ context.Context, emp *domain.Employee) error {
	s := r.s
	now := s.now()
	emp.ID = uuid.NewString()
	emp.CreatedAt = now
	emp.UpdatedAt = now

	s.mu.Lock()
	defer s.mu.Unlock()
	s.employees[emp.ID] = emp.Clone()
	return nil
}

func (r memoryEmployees) Replace(_ context.Context, id string, emp *domain.Employee) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.employees[id]
	if !ok {
		return ErrNotFound
	}
	next := emp.Clone()
	next.ID = id
	next.CreatedAt = current.CreatedAt
	next.UpdatedAt = s.now()
	s.employees[id] = next

	emp.ID = next.ID
	emp.CreatedAt = next.CreatedAt
	emp.UpdatedAt = next.UpdatedAt
	return nil
}

func (r memoryEmployees) GetByID(_ context.Context, id string) (*domain.Employee, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	emp, ok := s.employees[id]
	if !ok {
		return nil, ErrNotFound
	}
	return emp.Clone(), nil
}

func (r memoryEmployees) GetByIDs(_ context.Context, ids []string) (map[string]*domain.Employee, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string]*domain.Employee, len(ids))
	for _, id := range ids {
		if emp, ok := s.employees[id]; ok {
			result[id] = emp.Clone()
		}
	}
	return result, nil
}

func (r memoryEmployees) Import(_ context.Context, employees []domain.Employee) error {
	s := r.s
	now := s.now()

	for i := range employees {
		if employees[i].ID == "" {
			return fmt.Errorf("import employee %d: missing id", i)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range employees {
		emp := employees[i].Clone()
		if emp.CreatedAt.IsZero() {
			emp.CreatedAt = now
		}
		emp.UpdatedAt = now
		s.employees[emp.ID] = emp
	}
	return nil
}

type memoryCompensations struct {
	s *MemoryStore
}

func (r memoryCompensations) Create(_ context.Context, comp *domain.Compensation) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.employees[comp.EmployeeID]; !ok {
		return ErrNotFound
	}
	comp.ID = uuid.NewString()
	comp.CreatedAt = s.now()

	stored := comp.Clone()
	stored.Employee = nil
	s.compensations[comp.EmployeeID] = append(s.compensations[comp.EmployeeID], stored)
	return nil
}

func (r memoryCompensations) GetCurrentByEmployeeID(_ context.Context, employeeID string) (*domain.Compensation, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	var current *domain.Compensation
	// Records are kept in insertion order.
	for _, comp := range s.compensations[employeeID] {
		if comp.Supersedes(current) {
			current = comp
		}
	}
	if current == nil {
		return nil, ErrNotFound
	}
	return current.Clone(), nil
}
