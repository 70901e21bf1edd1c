// Package staffing wires keyword synthesis and the matching engine to the
// staffing record store. It owns searches, record mutations and the employee
// keyword recomputation cascade.
package staffing

import (
	"context"

	"github.com/sha1n/staffing-mcp/internal/domain"
	"github.com/sha1n/staffing-mcp/internal/matching"
)

// SearchRepository is the read side used by searches.
type SearchRepository interface {
	GetProjectKeywords(ctx context.Context, projectID int64) (string, error)
	GetPositionsWithSkills(ctx context.Context, projectID int64) ([]domain.Position, error)
	GetAllEmployees(ctx context.Context) ([]domain.Employee, error)
	GetEmployeesWithAllKeywordTokens(ctx context.Context, tokens []string) ([]domain.Employee, error)
}

// ProfileRepository reads employee profiles and writes back their aggregate
// keyword documents.
type ProfileRepository interface {
	LoadEmployeeProfile(ctx context.Context, employeeID int64) (*domain.EmployeeProfile, error)
	UpdateEmployeeKeywords(ctx context.Context, employeeID int64, keywords string) error
}

// RecordRepository persists staffing records.
type RecordRepository interface {
	SaveProject(ctx context.Context, p *domain.Project) error
	GetProject(ctx context.Context, id int64) (*domain.Project, error)
	GetPositionsWithSkills(ctx context.Context, projectID int64) ([]domain.Position, error)
	DeleteProject(ctx context.Context, id int64) error
	ListProjects(ctx context.Context) ([]domain.Summary, error)

	SavePosition(ctx context.Context, p *domain.Position) error
	DeletePosition(ctx context.Context, id int64) error

	SaveEmployee(ctx context.Context, e *domain.Employee) error
	GetEmployee(ctx context.Context, id int64) (*domain.Employee, error)
	DeleteEmployee(ctx context.Context, id int64) error
	ListEmployees(ctx context.Context) ([]domain.Summary, error)

	SaveExperience(ctx context.Context, e *domain.Experience) error
	ListExperiences(ctx context.Context, employeeID int64) ([]domain.Experience, error)
	DeleteExperience(ctx context.Context, id int64) (*domain.Experience, error)
}

// Ranker orders candidate keyword documents against a query document.
// *matching.Engine implements it.
type Ranker interface {
	Rank(ctx context.Context, query string, candidates []domain.KeywordDocument, limit int) ([]matching.Match, error)
}

// KeywordRecomputer refreshes an employee's aggregate keyword document.
// *Recomputer implements it.
type KeywordRecomputer interface {
	Recompute(ctx context.Context, employeeID int64)
}
