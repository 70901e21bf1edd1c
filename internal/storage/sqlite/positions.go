package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sha1n/staffing-mcp/internal/domain"
)

// SavePosition inserts or updates a position and replaces its skills.
// The owning project must exist. On update the project of an existing
// position is kept; moving positions between projects is not supported.
func (s *Store) SavePosition(ctx context.Context, p *domain.Position) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if p.ID == 0 {
			ok, err := exists(ctx, tx, "projects", p.ProjectID)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("project %d: %w", p.ProjectID, domain.ErrNotFound)
			}

			res, err := tx.ExecContext(ctx, `
				INSERT INTO positions (project_id, name, description, keywords) VALUES (?, ?, ?, ?)
			`, p.ProjectID, p.Name, p.Description, p.Keywords)
			if err != nil {
				return fmt.Errorf("inserting position: %w", err)
			}
			if p.ID, err = res.LastInsertId(); err != nil {
				return fmt.Errorf("reading position id: %w", err)
			}
		} else {
			err := tx.QueryRowContext(ctx, "SELECT project_id FROM positions WHERE id = ?", p.ID).Scan(&p.ProjectID)
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("position %d: %w", p.ID, domain.ErrNotFound)
			}
			if err != nil {
				return fmt.Errorf("scanning position: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				UPDATE positions SET name = ?, description = ?, keywords = ?, updated_at = CURRENT_TIMESTAMP
				WHERE id = ?
			`, p.Name, p.Description, p.Keywords, p.ID); err != nil {
				return fmt.Errorf("updating position: %w", err)
			}
			if _, err := tx.ExecContext(ctx, "DELETE FROM position_skills WHERE position_id = ?", p.ID); err != nil {
				return fmt.Errorf("clearing position skills: %w", err)
			}
		}

		for _, skill := range p.Skills {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO position_skills (position_id, name, level, compulsory) VALUES (?, ?, ?, ?)
			`, p.ID, skill.Name, skill.Level, boolToInt(skill.Compulsory)); err != nil {
				return fmt.Errorf("inserting position skill: %w", err)
			}
		}
		return nil
	})
}

// DeletePosition removes a position and its skills.
func (s *Store) DeletePosition(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM positions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting position: %w", err)
	}
	return requireRow(res, "position", id)
}

// GetPositionsWithSkills returns the positions of a project in creation
// order, each with its skills.
func (s *Store) GetPositionsWithSkills(ctx context.Context, projectID int64) ([]domain.Position, error) {
	ok, err := exists(ctx, s.db, "projects", projectID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("project %d: %w", projectID, domain.ErrNotFound)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, project_id, name, description, keywords
		FROM positions WHERE project_id = ? ORDER BY id
	`, projectID)
	if err != nil {
		return nil, fmt.Errorf("querying positions: %w", err)
	}
	defer rows.Close()

	positions := []domain.Position{}
	byID := make(map[int64]int)
	for rows.Next() {
		var p domain.Position
		if err := rows.Scan(&p.ID, &p.ProjectID, &p.Name, &p.Description, &p.Keywords); err != nil {
			return nil, fmt.Errorf("scanning position: %w", err)
		}
		byID[p.ID] = len(positions)
		positions = append(positions, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating positions: %w", err)
	}

	skillRows, err := s.db.QueryContext(ctx, `
		SELECT ps.position_id, ps.name, ps.level, ps.compulsory
		FROM position_skills ps JOIN positions p ON p.id = ps.position_id
		WHERE p.project_id = ? ORDER BY ps.id
	`, projectID)
	if err != nil {
		return nil, fmt.Errorf("querying position skills: %w", err)
	}
	defer skillRows.Close()

	for skillRows.Next() {
		var positionID int64
		var skill domain.PositionSkill
		var compulsory int
		if err := skillRows.Scan(&positionID, &skill.Name, &skill.Level, &compulsory); err != nil {
			return nil, fmt.Errorf("scanning position skill: %w", err)
		}
		skill.Compulsory = compulsory != 0
		if i, ok := byID[positionID]; ok {
			positions[i].Skills = append(positions[i].Skills, skill)
		}
	}
	if err := skillRows.Err(); err != nil {
		return nil, fmt.Errorf("iterating position skills: %w", err)
	}

	return positions, nil
}
