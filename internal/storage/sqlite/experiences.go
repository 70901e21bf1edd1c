package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sha1n/staffing-mcp/internal/domain"
)

// SaveExperience inserts or updates an experience record. The employee
// must exist. On update the stored employee link wins over e.EmployeeID.
func (s *Store) SaveExperience(ctx context.Context, e *domain.Experience) error {
	if e.Skills == nil {
		e.Skills = []string{}
	}
	skillsJSON, err := json.Marshal(e.Skills)
	if err != nil {
		return fmt.Errorf("marshaling experience skills: %w", err)
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		if e.ID == 0 {
			ok, err := exists(ctx, tx, "employees", e.EmployeeID)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("employee %d: %w", e.EmployeeID, domain.ErrNotFound)
			}

			res, err := tx.ExecContext(ctx, `
				INSERT INTO experiences (employee_id, name, customer, position, description, skills, keywords)
				VALUES (?, ?, ?, ?, ?, ?, ?)
			`, e.EmployeeID, e.Name, e.Customer, e.Position, e.Description, string(skillsJSON), e.Keywords)
			if err != nil {
				return fmt.Errorf("inserting experience: %w", err)
			}
			if e.ID, err = res.LastInsertId(); err != nil {
				return fmt.Errorf("reading experience id: %w", err)
			}
			return nil
		}

		err := tx.QueryRowContext(ctx, "SELECT employee_id FROM experiences WHERE id = ?", e.ID).Scan(&e.EmployeeID)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("experience %d: %w", e.ID, domain.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("scanning experience: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE experiences
			SET name = ?, customer = ?, position = ?, description = ?, skills = ?, keywords = ?,
				updated_at = CURRENT_TIMESTAMP
			WHERE id = ?
		`, e.Name, e.Customer, e.Position, e.Description, string(skillsJSON), e.Keywords, e.ID); err != nil {
			return fmt.Errorf("updating experience: %w", err)
		}
		return nil
	})
}

const experienceColumns = "id, employee_id, name, customer, position, description, skills, keywords"

// GetExperience retrieves an experience record by ID.
func (s *Store) GetExperience(ctx context.Context, id int64) (*domain.Experience, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+experienceColumns+" FROM experiences WHERE id = ?", id)
	e, err := scanExperience(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("experience %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

// ListExperiences returns the experience records of an employee in creation
// order. An unknown employee is ErrNotFound.
func (s *Store) ListExperiences(ctx context.Context, employeeID int64) ([]domain.Experience, error) {
	ok, err := exists(ctx, s.db, "employees", employeeID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("employee %d: %w", employeeID, domain.ErrNotFound)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+experienceColumns+" FROM experiences WHERE employee_id = ? ORDER BY id", employeeID)
	if err != nil {
		return nil, fmt.Errorf("querying experiences: %w", err)
	}
	defer rows.Close()

	experiences := []domain.Experience{}
	for rows.Next() {
		e, err := scanExperience(rows)
		if err != nil {
			return nil, err
		}
		experiences = append(experiences, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating experiences: %w", err)
	}
	return experiences, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExperience(row rowScanner) (*domain.Experience, error) {
	var e domain.Experience
	var skillsJSON string
	err := row.Scan(&e.ID, &e.EmployeeID, &e.Name, &e.Customer, &e.Position, &e.Description, &skillsJSON, &e.Keywords)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scanning experience: %w", err)
	}
	if err := json.Unmarshal([]byte(skillsJSON), &e.Skills); err != nil {
		return nil, fmt.Errorf("unmarshaling experience skills: %w", err)
	}
	return &e, nil
}

// DeleteExperience removes an experience record and returns it, so callers
// know which employee's aggregate became stale.
func (s *Store) DeleteExperience(ctx context.Context, id int64) (*domain.Experience, error) {
	e, err := s.GetExperience(ctx, id)
	if err != nil {
		return nil, err
	}

	res, err := s.db.ExecContext(ctx, "DELETE FROM experiences WHERE id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("deleting experience: %w", err)
	}
	if err := requireRow(res, "experience", id); err != nil {
		return nil, err
	}
	return e, nil
}
