package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/sha1n/staffing-mcp/internal/domain"
)

// DefaultSearchLimit applies when neither the call nor the server sets a limit.
const DefaultSearchLimit = 10

// SearchArgument selects the project to staff.
type SearchArgument struct {
	ProjectID int64 `json:"project_id" jsonschema:"ID of the project to find employees for"`
	Limit     *int  `json:"limit,omitempty" jsonschema:"maximum number of employees to return per result list"`
}

// QualifiedArgument lists skills every returned employee must have.
type QualifiedArgument struct {
	Skills []string `json:"skills" jsonschema:"skill names that must all appear in the employee's keywords"`
}

// ProjectSearchResult is the response of search_project.
type ProjectSearchResult struct {
	ProjectID int64                   `json:"project_id"`
	Results   []domain.ScoredEmployee `json:"results"`
}

// PositionSearchResult is the response of search_positions.
type PositionSearchResult struct {
	ProjectID int64                   `json:"project_id"`
	Positions []domain.PositionResult `json:"positions"`
}

// SearchHandler handles the search MCP tools.
type SearchHandler struct {
	service      SearchService
	defaultLimit int
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(service SearchService, defaultLimit int) *SearchHandler {
	if defaultLimit <= 0 {
		defaultLimit = DefaultSearchLimit
	}
	return &SearchHandler{
		service:      service,
		defaultLimit: defaultLimit,
	}
}

func (h *SearchHandler) limit(args SearchArgument) int {
	if args.Limit == nil {
		return h.defaultLimit
	}
	return *args.Limit
}

// HandleProject ranks all employees against the whole project.
func (h *SearchHandler) HandleProject(ctx context.Context, _ *mcp.CallToolRequest, args SearchArgument) (*mcp.CallToolResult, any, error) {
	results, err := h.service.SearchProjectWide(ctx, args.ProjectID, h.limit(args))
	if err != nil {
		return errorResult("Search failed", err), nil, nil
	}
	return jsonResult(ProjectSearchResult{ProjectID: args.ProjectID, Results: results}), nil, nil
}

// HandlePositions ranks employees separately for each project position.
func (h *SearchHandler) HandlePositions(ctx context.Context, _ *mcp.CallToolRequest, args SearchArgument) (*mcp.CallToolResult, any, error) {
	positions, err := h.service.SearchByPosition(ctx, args.ProjectID, h.limit(args))
	if err != nil {
		return errorResult("Search failed", err), nil, nil
	}
	return jsonResult(PositionSearchResult{ProjectID: args.ProjectID, Positions: positions}), nil, nil
}

// HandleQualified lists employees having all of the given skills.
func (h *SearchHandler) HandleQualified(ctx context.Context, _ *mcp.CallToolRequest, args QualifiedArgument) (*mcp.CallToolResult, any, error) {
	employees, err := h.service.QualifiedEmployees(ctx, args.Skills)
	if err != nil {
		return errorResult("Lookup failed", err), nil, nil
	}
	return jsonResult(employees), nil, nil
}

// RegisterSearchTools registers the search tools with an MCP server.
func RegisterSearchTools(server *mcp.Server, service SearchService, defaultLimit int) {
	handler := NewSearchHandler(service, defaultLimit)

	limits := fmt.Sprintf("limit defaults to %d and may be at most %d", handler.defaultLimit, service.MaxLimit())

	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_project",
		Description: "Rank all employees by how well their skills and experience match a project; " + limits,
	}, handler.HandleProject)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_positions",
		Description: "Rank employees for every position of a project. Employees lacking a compulsory skill of a position are excluded from it; " + limits + " per position",
	}, handler.HandlePositions)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "find_qualified_employees",
		Description: "List employees whose profile mentions every given skill as a whole word",
	}, handler.HandleQualified)
}
