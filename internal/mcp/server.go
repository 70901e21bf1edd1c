package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/sha1n/staffing-mcp/internal/domain"
)

// SearchService ranks employees for projects and positions.
type SearchService interface {
	SearchProjectWide(ctx context.Context, projectID int64, limit int) ([]domain.ScoredEmployee, error)
	SearchByPosition(ctx context.Context, projectID int64, limit int) ([]domain.PositionResult, error)
	QualifiedEmployees(ctx context.Context, skills []string) ([]domain.Summary, error)
	MaxLimit() int
}

// RecordService maintains staffing records.
type RecordService interface {
	SaveProject(ctx context.Context, p domain.Project) (*domain.Project, error)
	GetProject(ctx context.Context, id int64) (*domain.ProjectDetails, error)
	DeleteProject(ctx context.Context, id int64) error
	ListProjects(ctx context.Context) ([]domain.Summary, error)
	SavePosition(ctx context.Context, p domain.Position) (*domain.Position, error)
	DeletePosition(ctx context.Context, id int64) error
	SaveEmployee(ctx context.Context, e domain.Employee) (*domain.Employee, error)
	GetEmployee(ctx context.Context, id int64) (*domain.EmployeeDetails, error)
	DeleteEmployee(ctx context.Context, id int64) error
	ListEmployees(ctx context.Context) ([]domain.Summary, error)
	SaveExperience(ctx context.Context, e domain.Experience) (*domain.Experience, error)
	DeleteExperience(ctx context.Context, id int64) error
}

// ServerConfig contains configuration for creating an MCP server
type ServerConfig struct {
	Name    string
	Version string

	// Search enables the search tools when set.
	Search SearchService
	// DefaultLimit is used when a search call omits its limit.
	DefaultLimit int

	// Records enables the record maintenance tools when set.
	Records RecordService
}

// CreateServer creates and configures the MCP server
func CreateServer(cfg ServerConfig) *mcp.Server {
	s := mcp.NewServer(&mcp.Implementation{
		Name:    cfg.Name,
		Version: cfg.Version,
	}, nil)

	if cfg.Search != nil {
		RegisterSearchTools(s, cfg.Search, cfg.DefaultLimit)
	}
	if cfg.Records != nil {
		RegisterRecordTools(s, cfg.Records)
	}

	return s
}
