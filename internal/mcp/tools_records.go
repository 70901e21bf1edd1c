package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/sha1n/staffing-mcp/internal/domain"
)

// SkillArgument is a named skill with a non-negative level.
type SkillArgument struct {
	Name  string `json:"name" jsonschema:"skill name"`
	Level int    `json:"level" jsonschema:"non-negative skill level; higher levels weigh more in matching"`
}

// PositionSkillArgument is a position requirement.
type PositionSkillArgument struct {
	Name       string `json:"name" jsonschema:"skill name"`
	Level      int    `json:"level" jsonschema:"non-negative required level"`
	Compulsory bool   `json:"compulsory,omitempty" jsonschema:"exclude employees lacking this skill from the position's results"`
}

// IDArgument identifies a record.
type IDArgument struct {
	ID int64 `json:"id" jsonschema:"record ID"`
}

// ListArgument takes no parameters.
type ListArgument struct{}

// SaveProjectArgument creates (id omitted) or updates a project.
type SaveProjectArgument struct {
	ID          int64  `json:"id,omitempty" jsonschema:"project ID to update; omit to create"`
	Name        string `json:"name" jsonschema:"project name"`
	Description string `json:"description,omitempty" jsonschema:"project description"`
}

// SavePositionArgument creates or updates a project position.
type SavePositionArgument struct {
	ID          int64                   `json:"id,omitempty" jsonschema:"position ID to update; omit to create"`
	ProjectID   int64                   `json:"project_id,omitempty" jsonschema:"owning project ID, required when creating"`
	Name        string                  `json:"name" jsonschema:"position name"`
	Description string                  `json:"description,omitempty" jsonschema:"position description"`
	Skills      []PositionSkillArgument `json:"skills,omitempty" jsonschema:"required skills; replaces the stored list"`
}

// SaveEmployeeArgument creates or updates an employee.
type SaveEmployeeArgument struct {
	ID          int64           `json:"id,omitempty" jsonschema:"employee ID to update; omit to create"`
	Name        string          `json:"name" jsonschema:"employee name"`
	Email       string          `json:"email,omitempty" jsonschema:"employee email"`
	Preferences string          `json:"preferences,omitempty" jsonschema:"free-text work preferences"`
	Skills      []SkillArgument `json:"skills,omitempty" jsonschema:"employee skills; replaces the stored list"`
}

// SaveExperienceArgument creates or updates an experience record.
type SaveExperienceArgument struct {
	ID          int64    `json:"id,omitempty" jsonschema:"experience ID to update; omit to create"`
	EmployeeID  int64    `json:"employee_id,omitempty" jsonschema:"owning employee ID, required when creating"`
	Name        string   `json:"name" jsonschema:"engagement name"`
	Customer    string   `json:"customer,omitempty" jsonschema:"customer name"`
	Position    string   `json:"position,omitempty" jsonschema:"title held in the engagement"`
	Description string   `json:"description,omitempty" jsonschema:"engagement description"`
	Skills      []string `json:"skills,omitempty" jsonschema:"skills used"`
}

type deletedResult struct {
	Deleted int64 `json:"deleted"`
}

// RecordsHandler handles the record maintenance MCP tools.
type RecordsHandler struct {
	service RecordService
}

// NewRecordsHandler creates a new records handler.
func NewRecordsHandler(service RecordService) *RecordsHandler {
	return &RecordsHandler{service: service}
}

// HandleSaveProject creates or updates a project.
func (h *RecordsHandler) HandleSaveProject(ctx context.Context, _ *mcp.CallToolRequest, args SaveProjectArgument) (*mcp.CallToolResult, any, error) {
	p, err := h.service.SaveProject(ctx, domain.Project{
		ID:          args.ID,
		Name:        args.Name,
		Description: args.Description,
	})
	if err != nil {
		return errorResult("Failed to save project", err), nil, nil
	}
	return jsonResult(p), nil, nil
}

// HandleSavePosition creates or updates a position.
func (h *RecordsHandler) HandleSavePosition(ctx context.Context, _ *mcp.CallToolRequest, args SavePositionArgument) (*mcp.CallToolResult, any, error) {
	skills := make([]domain.PositionSkill, len(args.Skills))
	for i, s := range args.Skills {
		skills[i] = domain.PositionSkill{
			Skill:      domain.Skill{Name: s.Name, Level: s.Level},
			Compulsory: s.Compulsory,
		}
	}

	p, err := h.service.SavePosition(ctx, domain.Position{
		ID:          args.ID,
		ProjectID:   args.ProjectID,
		Name:        args.Name,
		Description: args.Description,
		Skills:      skills,
	})
	if err != nil {
		return errorResult("Failed to save position", err), nil, nil
	}
	return jsonResult(p), nil, nil
}

// HandleSaveEmployee creates or updates an employee.
func (h *RecordsHandler) HandleSaveEmployee(ctx context.Context, _ *mcp.CallToolRequest, args SaveEmployeeArgument) (*mcp.CallToolResult, any, error) {
	skills := make([]domain.Skill, len(args.Skills))
	for i, s := range args.Skills {
		skills[i] = domain.Skill{Name: s.Name, Level: s.Level}
	}

	e, err := h.service.SaveEmployee(ctx, domain.Employee{
		ID:          args.ID,
		Name:        args.Name,
		Email:       args.Email,
		Preferences: args.Preferences,
		Skills:      skills,
	})
	if err != nil {
		return errorResult("Failed to save employee", err), nil, nil
	}
	return jsonResult(e), nil, nil
}

// HandleSaveExperience creates or updates an experience record.
func (h *RecordsHandler) HandleSaveExperience(ctx context.Context, _ *mcp.CallToolRequest, args SaveExperienceArgument) (*mcp.CallToolResult, any, error) {
	e, err := h.service.SaveExperience(ctx, domain.Experience{
		ID:          args.ID,
		EmployeeID:  args.EmployeeID,
		Name:        args.Name,
		Customer:    args.Customer,
		Position:    args.Position,
		Description: args.Description,
		Skills:      args.Skills,
	})
	if err != nil {
		return errorResult("Failed to save experience", err), nil, nil
	}
	return jsonResult(e), nil, nil
}

// HandleDeleteProject deletes a project and its positions.
func (h *RecordsHandler) HandleDeleteProject(ctx context.Context, _ *mcp.CallToolRequest, args IDArgument) (*mcp.CallToolResult, any, error) {
	return h.deleted(args.ID, "Failed to delete project", h.service.DeleteProject(ctx, args.ID)), nil, nil
}

// HandleDeletePosition deletes a position.
func (h *RecordsHandler) HandleDeletePosition(ctx context.Context, _ *mcp.CallToolRequest, args IDArgument) (*mcp.CallToolResult, any, error) {
	return h.deleted(args.ID, "Failed to delete position", h.service.DeletePosition(ctx, args.ID)), nil, nil
}

// HandleDeleteEmployee deletes an employee and its experience.
func (h *RecordsHandler) HandleDeleteEmployee(ctx context.Context, _ *mcp.CallToolRequest, args IDArgument) (*mcp.CallToolResult, any, error) {
	return h.deleted(args.ID, "Failed to delete employee", h.service.DeleteEmployee(ctx, args.ID)), nil, nil
}

// HandleDeleteExperience deletes an experience record.
func (h *RecordsHandler) HandleDeleteExperience(ctx context.Context, _ *mcp.CallToolRequest, args IDArgument) (*mcp.CallToolResult, any, error) {
	return h.deleted(args.ID, "Failed to delete experience", h.service.DeleteExperience(ctx, args.ID)), nil, nil
}

// HandleListProjects lists all projects.
func (h *RecordsHandler) HandleListProjects(ctx context.Context, _ *mcp.CallToolRequest, _ ListArgument) (*mcp.CallToolResult, any, error) {
	projects, err := h.service.ListProjects(ctx)
	if err != nil {
		return errorResult("Failed to list projects", err), nil, nil
	}
	return jsonResult(projects), nil, nil
}

// HandleGetProject returns a project with its positions.
func (h *RecordsHandler) HandleGetProject(ctx context.Context, _ *mcp.CallToolRequest, args IDArgument) (*mcp.CallToolResult, any, error) {
	p, err := h.service.GetProject(ctx, args.ID)
	if err != nil {
		return errorResult("Failed to get project", err), nil, nil
	}
	return jsonResult(p), nil, nil
}

// HandleGetEmployee returns an employee with its skills and experience.
func (h *RecordsHandler) HandleGetEmployee(ctx context.Context, _ *mcp.CallToolRequest, args IDArgument) (*mcp.CallToolResult, any, error) {
	e, err := h.service.GetEmployee(ctx, args.ID)
	if err != nil {
		return errorResult("Failed to get employee", err), nil, nil
	}
	return jsonResult(e), nil, nil
}

// HandleListEmployees lists all employees.
func (h *RecordsHandler) HandleListEmployees(ctx context.Context, _ *mcp.CallToolRequest, _ ListArgument) (*mcp.CallToolResult, any, error) {
	employees, err := h.service.ListEmployees(ctx)
	if err != nil {
		return errorResult("Failed to list employees", err), nil, nil
	}
	return jsonResult(employees), nil, nil
}

func (h *RecordsHandler) deleted(id int64, action string, err error) *mcp.CallToolResult {
	if err != nil {
		return errorResult(action, err)
	}
	return jsonResult(deletedResult{Deleted: id})
}

// RegisterRecordTools registers the record maintenance tools with an MCP server.
func RegisterRecordTools(server *mcp.Server, service RecordService) {
	h := NewRecordsHandler(service)

	mcp.AddTool(server, &mcp.Tool{Name: "save_project", Description: "Create a project, or update it when id is given"}, h.HandleSaveProject)
	mcp.AddTool(server, &mcp.Tool{Name: "delete_project", Description: "Delete a project together with its positions"}, h.HandleDeleteProject)
	mcp.AddTool(server, &mcp.Tool{Name: "get_project", Description: "Get a project with its positions and their skills"}, h.HandleGetProject)
	mcp.AddTool(server, &mcp.Tool{Name: "list_projects", Description: "List all projects"}, h.HandleListProjects)

	mcp.AddTool(server, &mcp.Tool{Name: "save_position", Description: "Create a project position, or update it when id is given"}, h.HandleSavePosition)
	mcp.AddTool(server, &mcp.Tool{Name: "delete_position", Description: "Delete a project position"}, h.HandleDeletePosition)

	mcp.AddTool(server, &mcp.Tool{Name: "save_employee", Description: "Create an employee, or update it when id is given"}, h.HandleSaveEmployee)
	mcp.AddTool(server, &mcp.Tool{Name: "delete_employee", Description: "Delete an employee together with its experience"}, h.HandleDeleteEmployee)
	mcp.AddTool(server, &mcp.Tool{Name: "get_employee", Description: "Get an employee with skills, keywords and experience"}, h.HandleGetEmployee)
	mcp.AddTool(server, &mcp.Tool{Name: "list_employees", Description: "List all employees"}, h.HandleListEmployees)

	mcp.AddTool(server, &mcp.Tool{Name: "save_experience", Description: "Record a past engagement of an employee, or update it when id is given"}, h.HandleSaveExperience)
	mcp.AddTool(server, &mcp.Tool{Name: "delete_experience", Description: "Delete an experience record"}, h.HandleDeleteExperience)
}
