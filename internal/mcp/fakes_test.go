package mcp

import (
	"context"
	"fmt"

	"github.com/sha1n/staffing-mcp/internal/domain"
)

type fakeSearch struct {
	gotProjectID int64
	gotLimit     int
	gotSkills    []string
	err          error
}

func (f *fakeSearch) MaxLimit() int { return 100 }

func (f *fakeSearch) SearchProjectWide(_ context.Context, projectID int64, limit int) ([]domain.ScoredEmployee, error) {
	f.gotProjectID, f.gotLimit = projectID, limit
	if f.err != nil {
		return nil, f.err
	}
	return []domain.ScoredEmployee{{Score: 0.5, EmployeeID: 3, Name: "Aino"}}, nil
}

func (f *fakeSearch) SearchByPosition(_ context.Context, projectID int64, limit int) ([]domain.PositionResult, error) {
	f.gotProjectID, f.gotLimit = projectID, limit
	if f.err != nil {
		return nil, f.err
	}
	return []domain.PositionResult{
		{PositionID: 1, PositionName: "Dev", Results: []domain.ScoredEmployee{{Score: 1, EmployeeID: 3, Name: "Aino"}}},
		{PositionID: 2, PositionName: "Ops", Results: []domain.ScoredEmployee{}},
	}, nil
}

func (f *fakeSearch) QualifiedEmployees(_ context.Context, skills []string) ([]domain.Summary, error) {
	f.gotSkills = skills
	if f.err != nil {
		return nil, f.err
	}
	return []domain.Summary{{ID: 3, Name: "Aino"}}, nil
}

// fakeRecords keeps records in memory and echoes saves back with an ID.
type fakeRecords struct {
	nextID     int64
	deleted    []int64
	positions  []domain.Position
	employees  []domain.Employee
	experience []domain.Experience
	err        error
}

func (f *fakeRecords) id(current int64) int64 {
	if current != 0 {
		return current
	}
	f.nextID++
	return f.nextID
}

func (f *fakeRecords) SaveProject(_ context.Context, p domain.Project) (*domain.Project, error) {
	if f.err != nil {
		return nil, f.err
	}
	p.ID = f.id(p.ID)
	p.Keywords = "kw"
	return &p, nil
}

func (f *fakeRecords) SavePosition(_ context.Context, p domain.Position) (*domain.Position, error) {
	if f.err != nil {
		return nil, f.err
	}
	p.ID = f.id(p.ID)
	f.positions = append(f.positions, p)
	return &p, nil
}

func (f *fakeRecords) SaveEmployee(_ context.Context, e domain.Employee) (*domain.Employee, error) {
	if f.err != nil {
		return nil, f.err
	}
	e.ID = f.id(e.ID)
	f.employees = append(f.employees, e)
	return &e, nil
}

func (f *fakeRecords) SaveExperience(_ context.Context, e domain.Experience) (*domain.Experience, error) {
	if f.err != nil {
		return nil, f.err
	}
	e.ID = f.id(e.ID)
	f.experience = append(f.experience, e)
	return &e, nil
}

func (f *fakeRecords) delete(id int64) error {
	if f.err != nil {
		return f.err
	}
	if id == 404 {
		return fmt.Errorf("record %d: %w", id, domain.ErrNotFound)
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeRecords) DeleteProject(_ context.Context, id int64) error    { return f.delete(id) }
func (f *fakeRecords) DeletePosition(_ context.Context, id int64) error   { return f.delete(id) }
func (f *fakeRecords) DeleteEmployee(_ context.Context, id int64) error   { return f.delete(id) }
func (f *fakeRecords) DeleteExperience(_ context.Context, id int64) error { return f.delete(id) }

func (f *fakeRecords) ListProjects(context.Context) ([]domain.Summary, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []domain.Summary{{ID: 1, Name: "Alpha"}}, nil
}

func (f *fakeRecords) ListEmployees(context.Context) ([]domain.Summary, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []domain.Summary{}, nil
}

func (f *fakeRecords) GetProject(_ context.Context, id int64) (*domain.ProjectDetails, error) {
	if f.err != nil {
		return nil, f.err
	}
	if id == 404 {
		return nil, fmt.Errorf("project %d: %w", id, domain.ErrNotFound)
	}
	return &domain.ProjectDetails{
		Project:   domain.Project{ID: id, Name: "Alpha"},
		Positions: f.positions,
	}, nil
}

func (f *fakeRecords) GetEmployee(_ context.Context, id int64) (*domain.EmployeeDetails, error) {
	if f.err != nil {
		return nil, f.err
	}
	if id == 404 {
		return nil, fmt.Errorf("employee %d: %w", id, domain.ErrNotFound)
	}
	return &domain.EmployeeDetails{
		Employee:    domain.Employee{ID: id, Name: "Aino", Skills: []domain.Skill{{Name: "go", Level: 2}}},
		Experiences: f.experience,
	}, nil
}
