package staffing

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sha1n/staffing-mcp/internal/domain"
	"github.com/sha1n/staffing-mcp/internal/keywords"
)

// RecordService creates, updates and deletes staffing records. Project,
// position and experience keyword documents are synthesized before the record
// is written; employee documents go through the KeywordRecomputer.
type RecordService struct {
	repo       RecordRepository
	recomputer KeywordRecomputer
	logger     *slog.Logger
}

// NewRecordService creates a record service.
func NewRecordService(repo RecordRepository, recomputer KeywordRecomputer, logger *slog.Logger) (*RecordService, error) {
	if repo == nil {
		return nil, fmt.Errorf("%w: record repository is required", domain.ErrInvalidInput)
	}
	if recomputer == nil {
		return nil, fmt.Errorf("%w: keyword recomputer is required", domain.ErrInvalidInput)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RecordService{
		repo:       repo,
		recomputer: recomputer,
		logger:     logger,
	}, nil
}

// SaveProject creates the project when p.ID is zero, otherwise updates it.
func (s *RecordService) SaveProject(ctx context.Context, p domain.Project) (*domain.Project, error) {
	if err := requireName("project", p.Name); err != nil {
		return nil, err
	}
	if p.ID < 0 {
		return nil, invalidID("project", p.ID)
	}

	p.Keywords = keywords.Project(p)
	if err := s.repo.SaveProject(ctx, &p); err != nil {
		return nil, err
	}

	s.logger.Debug("Saved project", "project_id", p.ID)
	return &p, nil
}

// GetProject returns a project with its positions and their skills.
func (s *RecordService) GetProject(ctx context.Context, id int64) (*domain.ProjectDetails, error) {
	if id <= 0 {
		return nil, invalidID("project", id)
	}

	p, err := s.repo.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}
	positions, err := s.repo.GetPositionsWithSkills(ctx, id)
	if err != nil {
		return nil, err
	}
	return &domain.ProjectDetails{Project: *p, Positions: positions}, nil
}

// DeleteProject deletes a project with all of its positions.
func (s *RecordService) DeleteProject(ctx context.Context, id int64) error {
	if id <= 0 {
		return invalidID("project", id)
	}
	return s.repo.DeleteProject(ctx, id)
}

// SavePosition creates or updates a position. Its skills replace the
// previously stored ones.
func (s *RecordService) SavePosition(ctx context.Context, p domain.Position) (*domain.Position, error) {
	if err := requireName("position", p.Name); err != nil {
		return nil, err
	}
	if p.ID < 0 {
		return nil, invalidID("position", p.ID)
	}
	if p.ID == 0 && p.ProjectID <= 0 {
		return nil, invalidID("project", p.ProjectID)
	}
	for _, skill := range p.Skills {
		if err := validateSkill(skill.Skill); err != nil {
			return nil, err
		}
		if skill.Compulsory && keywords.Token(skill.Name) == "" {
			return nil, fmt.Errorf("%w: compulsory skill %q has no searchable words", domain.ErrInvalidInput, skill.Name)
		}
	}

	p.Keywords = keywords.Position(p)
	if err := s.repo.SavePosition(ctx, &p); err != nil {
		return nil, err
	}

	s.logger.Debug("Saved position", "position_id", p.ID, "project_id", p.ProjectID)
	return &p, nil
}

// DeletePosition deletes a position.
func (s *RecordService) DeletePosition(ctx context.Context, id int64) error {
	if id <= 0 {
		return invalidID("position", id)
	}
	return s.repo.DeletePosition(ctx, id)
}

// SaveEmployee creates or updates an employee and then refreshes its
// aggregate keyword document. The returned record carries the keyword
// document as stored at return time.
func (s *RecordService) SaveEmployee(ctx context.Context, e domain.Employee) (*domain.Employee, error) {
	if err := requireName("employee", e.Name); err != nil {
		return nil, err
	}
	if e.ID < 0 {
		return nil, invalidID("employee", e.ID)
	}
	for _, skill := range e.Skills {
		if err := validateSkill(skill); err != nil {
			return nil, err
		}
	}

	if err := s.repo.SaveEmployee(ctx, &e); err != nil {
		return nil, err
	}
	s.recomputer.Recompute(ctx, e.ID)

	saved, err := s.repo.GetEmployee(ctx, e.ID)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("Saved employee", "employee_id", saved.ID)
	return saved, nil
}

// GetEmployee returns an employee with its skills and experience records.
func (s *RecordService) GetEmployee(ctx context.Context, id int64) (*domain.EmployeeDetails, error) {
	if id <= 0 {
		return nil, invalidID("employee", id)
	}

	e, err := s.repo.GetEmployee(ctx, id)
	if err != nil {
		return nil, err
	}
	experiences, err := s.repo.ListExperiences(ctx, id)
	if err != nil {
		return nil, err
	}
	return &domain.EmployeeDetails{Employee: *e, Experiences: experiences}, nil
}

// DeleteEmployee deletes an employee with its skills and experience.
func (s *RecordService) DeleteEmployee(ctx context.Context, id int64) error {
	if id <= 0 {
		return invalidID("employee", id)
	}
	return s.repo.DeleteEmployee(ctx, id)
}

// SaveExperience creates or updates an experience record and refreshes the
// owning employee's keyword document.
func (s *RecordService) SaveExperience(ctx context.Context, e domain.Experience) (*domain.Experience, error) {
	if err := requireName("experience", e.Name); err != nil {
		return nil, err
	}
	if e.ID < 0 {
		return nil, invalidID("experience", e.ID)
	}
	if e.ID == 0 && e.EmployeeID <= 0 {
		return nil, invalidID("employee", e.EmployeeID)
	}

	e.Keywords = keywords.Experience(e)
	if err := s.repo.SaveExperience(ctx, &e); err != nil {
		return nil, err
	}
	s.recomputer.Recompute(ctx, e.EmployeeID)

	s.logger.Debug("Saved experience", "experience_id", e.ID, "employee_id", e.EmployeeID)
	return &e, nil
}

// DeleteExperience deletes an experience record and refreshes the keyword
// document of the employee it belonged to.
func (s *RecordService) DeleteExperience(ctx context.Context, id int64) error {
	if id <= 0 {
		return invalidID("experience", id)
	}

	deleted, err := s.repo.DeleteExperience(ctx, id)
	if err != nil {
		return err
	}
	s.recomputer.Recompute(ctx, deleted.EmployeeID)
	return nil
}

// ListProjects returns all projects as id/name pairs.
func (s *RecordService) ListProjects(ctx context.Context) ([]domain.Summary, error) {
	return s.repo.ListProjects(ctx)
}

// ListEmployees returns all employees as id/name pairs.
func (s *RecordService) ListEmployees(ctx context.Context) ([]domain.Summary, error) {
	return s.repo.ListEmployees(ctx)
}

func requireName(kind, name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: %s name is required", domain.ErrInvalidInput, kind)
	}
	return nil
}

func invalidID(kind string, id int64) error {
	return fmt.Errorf("%w: %s id must be positive, got %d", domain.ErrInvalidInput, kind, id)
}

func validateSkill(s domain.Skill) error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("%w: skill name is required", domain.ErrInvalidInput)
	}
	if s.Level < 0 {
		return fmt.Errorf("%w: skill %q has negative level %d", domain.ErrInvalidInput, s.Name, s.Level)
	}
	return nil
}
