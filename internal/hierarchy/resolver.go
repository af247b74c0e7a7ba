// Package hierarchy computes reporting structures over the direct-report graph.
//
// The graph is stored as manager -> direct report references and nothing
// guarantees it is a tree: an employee may be listed under two managers, and a
// malformed chain may loop back on itself. The resolver walks it level by level
// with an explicit frontier and a visited set, so every walk terminates and
// counts each employee at most once.
package hierarchy

import (
	"context"
	"fmt"

	"github.com/spec-kit/employee-directory/internal/domain"
)

// EmployeeReader is the read-only slice of the record store the resolver uses.
type EmployeeReader interface {
	GetByID(ctx context.Context, id string) (*domain.Employee, error)
	GetByIDs(ctx context.Context, ids []string) (map[string]*domain.Employee, error)
}

// Resolver computes transitive report counts. It keeps no state between calls.
type Resolver struct {
	employees EmployeeReader
}

// NewResolver builds a resolver reading through employees.
func NewResolver(employees EmployeeReader) *Resolver {
	return &Resolver{employees: employees}
}

// Resolve returns the root employee as stored together with the number of
// distinct employees reachable from it through direct-report links. The
// root's lookup error is returned unchanged, so a missing root surfaces as the
// store's not-found error.
func (r *Resolver) Resolve(ctx context.Context, rootID string) (*domain.ReportingStructure, error) {
	root, err := r.employees.GetByID(ctx, rootID)
	if err != nil {
		return nil, err
	}
	reports, err := r.walk(ctx, root)
	if err != nil {
		return nil, err
	}
	return &domain.ReportingStructure{
		Employee:        root,
		NumberOfReports: len(reports),
	}, nil
}

// walk returns the ids of every employee reporting to root directly or
// transitively, in breadth-first order. Ids that do not resolve are left out.
func (r *Resolver) walk(ctx context.Context, root *domain.Employee) ([]string, error) {
	// The root is seeded as visited so a cycle back to it is not counted.
	visited := map[string]struct{}{root.ID: {}}
	frontier := unvisited(root.DirectReports, visited)

	var reports []string
	for len(frontier) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		found, err := r.employees.GetByIDs(ctx, frontier)
		if err != nil {
			return nil, fmt.Errorf("load reports of %s: %w", root.ID, err)
		}

		var next []string
		for _, id := range frontier {
			emp, ok := found[id]
			if !ok {
				// dangling reference
				continue
			}
			reports = append(reports, id)
			next = append(next, unvisited(emp.DirectReports, visited)...)
		}
		frontier = next
	}
	return reports, nil
}

// unvisited returns the ids not yet in visited, marking them as it goes.
func unvisited(ids []string, visited map[string]struct{}) []string {
	var out []string
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, seen := visited[id]; seen {
			continue
		}
		visited[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
