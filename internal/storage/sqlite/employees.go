package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sha1n/staffing-mcp/internal/domain"
)

// SaveEmployee inserts or updates an employee and replaces its skills.
// The aggregate keyword document is not written here; it is maintained
// through UpdateEmployeeKeywords.
func (s *Store) SaveEmployee(ctx context.Context, e *domain.Employee) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if e.ID == 0 {
			res, err := tx.ExecContext(ctx, `
				INSERT INTO employees (name, email, preferences) VALUES (?, ?, ?)
			`, e.Name, e.Email, e.Preferences)
			if err != nil {
				return fmt.Errorf("inserting employee: %w", err)
			}
			if e.ID, err = res.LastInsertId(); err != nil {
				return fmt.Errorf("reading employee id: %w", err)
			}
		} else {
			res, err := tx.ExecContext(ctx, `
				UPDATE employees SET name = ?, email = ?, preferences = ?, updated_at = CURRENT_TIMESTAMP
				WHERE id = ?
			`, e.Name, e.Email, e.Preferences, e.ID)
			if err != nil {
				return fmt.Errorf("updating employee: %w", err)
			}
			if err := requireRow(res, "employee", e.ID); err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, "DELETE FROM employee_skills WHERE employee_id = ?", e.ID); err != nil {
				return fmt.Errorf("clearing employee skills: %w", err)
			}
		}

		for _, skill := range e.Skills {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO employee_skills (employee_id, name, level) VALUES (?, ?, ?)
			`, e.ID, skill.Name, skill.Level); err != nil {
				return fmt.Errorf("inserting employee skill: %w", err)
			}
		}
		return nil
	})
}

// DeleteEmployee removes an employee with its skills and experiences.
func (s *Store) DeleteEmployee(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM employees WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting employee: %w", err)
	}
	return requireRow(res, "employee", id)
}

// ListEmployees returns id/name summaries of all employees ordered by ID.
func (s *Store) ListEmployees(ctx context.Context) ([]domain.Summary, error) {
	return s.listSummaries(ctx, "employees")
}

// GetAllEmployees returns every employee with skills and keywords, ordered by ID.
func (s *Store) GetAllEmployees(ctx context.Context) ([]domain.Employee, error) {
	return s.queryEmployees(ctx, "SELECT id, name, email, preferences, keywords FROM employees ORDER BY id")
}

// GetEmployeesWithAllKeywordTokens returns the employees whose keyword
// document contains every token as a whole space-delimited word.
// With no tokens every employee qualifies.
func (s *Store) GetEmployeesWithAllKeywordTokens(ctx context.Context, tokens []string) ([]domain.Employee, error) {
	query := "SELECT id, name, email, preferences, keywords FROM employees"
	args := make([]any, 0, len(tokens))
	for i, token := range tokens {
		if i == 0 {
			query += " WHERE "
		} else {
			query += " AND "
		}
		query += "instr(' ' || keywords || ' ', ?) > 0"
		args = append(args, " "+token+" ")
	}
	query += " ORDER BY id"

	return s.queryEmployees(ctx, query, args...)
}

// GetEmployee retrieves an employee by ID, with skills.
func (s *Store) GetEmployee(ctx context.Context, id int64) (*domain.Employee, error) {
	employees, err := s.queryEmployees(ctx,
		"SELECT id, name, email, preferences, keywords FROM employees WHERE id = ?", id)
	if err != nil {
		return nil, err
	}
	if len(employees) == 0 {
		return nil, fmt.Errorf("employee %d: %w", id, domain.ErrNotFound)
	}
	return &employees[0], nil
}

// LoadEmployeeProfile gathers the inputs of an employee's aggregate keyword
// document. Experience keywords are returned in creation order.
func (s *Store) LoadEmployeeProfile(ctx context.Context, employeeID int64) (*domain.EmployeeProfile, error) {
	profile := &domain.EmployeeProfile{EmployeeID: employeeID}

	err := s.db.QueryRowContext(ctx, "SELECT preferences FROM employees WHERE id = ?", employeeID).
		Scan(&profile.Preferences)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("employee %d: %w", employeeID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("scanning employee: %w", err)
	}

	skills, err := s.employeeSkills(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	profile.Skills = skills[employeeID]

	rows, err := s.db.QueryContext(ctx,
		"SELECT keywords FROM experiences WHERE employee_id = ? ORDER BY id", employeeID)
	if err != nil {
		return nil, fmt.Errorf("querying experience keywords: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var kw string
		if err := rows.Scan(&kw); err != nil {
			return nil, fmt.Errorf("scanning experience keywords: %w", err)
		}
		profile.ExperienceKeywords = append(profile.ExperienceKeywords, kw)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating experience keywords: %w", err)
	}

	return profile, nil
}

// UpdateEmployeeKeywords overwrites the aggregate keyword document of an employee.
func (s *Store) UpdateEmployeeKeywords(ctx context.Context, employeeID int64, keywords string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE employees SET keywords = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?", keywords, employeeID)
	if err != nil {
		return fmt.Errorf("updating employee keywords: %w", err)
	}
	return requireRow(res, "employee", employeeID)
}

func (s *Store) queryEmployees(ctx context.Context, query string, args ...any) ([]domain.Employee, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying employees: %w", err)
	}
	defer rows.Close()

	employees := []domain.Employee{}
	for rows.Next() {
		var e domain.Employee
		if err := rows.Scan(&e.ID, &e.Name, &e.Email, &e.Preferences, &e.Keywords); err != nil {
			return nil, fmt.Errorf("scanning employee: %w", err)
		}
		employees = append(employees, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating employees: %w", err)
	}
	if len(employees) == 0 {
		return employees, nil
	}

	ids := make([]int64, len(employees))
	for i, e := range employees {
		ids[i] = e.ID
	}
	skills, err := s.employeeSkills(ctx, ids...)
	if err != nil {
		return nil, err
	}
	for i := range employees {
		employees[i].Skills = skills[employees[i].ID]
	}

	return employees, nil
}

// skillBatchSize bounds the ids bound into one skills query; SQLite rejects
// statements with more than 32766 parameters.
const skillBatchSize = 500

// employeeSkills loads the skills of the given employees keyed by employee ID.
func (s *Store) employeeSkills(ctx context.Context, ids ...int64) (map[int64][]domain.Skill, error) {
	result := make(map[int64][]domain.Skill, len(ids))
	for start := 0; start < len(ids); start += skillBatchSize {
		end := min(start+skillBatchSize, len(ids))
		if err := s.loadEmployeeSkills(ctx, ids[start:end], result); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (s *Store) loadEmployeeSkills(ctx context.Context, ids []int64, into map[int64][]domain.Skill) error {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT employee_id, name, level FROM employee_skills
		WHERE employee_id IN (`+placeholders(len(ids))+`) ORDER BY id
	`, args...)
	if err != nil {
		return fmt.Errorf("querying employee skills: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var employeeID int64
		var skill domain.Skill
		if err := rows.Scan(&employeeID, &skill.Name, &skill.Level); err != nil {
			return fmt.Errorf("scanning employee skill: %w", err)
		}
		into[employeeID] = append(into[employeeID], skill)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating employee skills: %w", err)
	}
	return nil
}
