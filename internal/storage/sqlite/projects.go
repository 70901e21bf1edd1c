package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sha1n/staffing-mcp/internal/domain"
)

// SaveProject inserts the project when its ID is zero and updates it
// otherwise. On insert the generated ID is written back to p.
func (s *Store) SaveProject(ctx context.Context, p *domain.Project) error {
	if p.ID == 0 {
		res, err := s.db.ExecContext(ctx, `
			INSERT INTO projects (name, description, keywords) VALUES (?, ?, ?)
		`, p.Name, p.Description, p.Keywords)
		if err != nil {
			return fmt.Errorf("inserting project: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("reading project id: %w", err)
		}
		p.ID = id
		return nil
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE projects SET name = ?, description = ?, keywords = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, p.Name, p.Description, p.Keywords, p.ID)
	if err != nil {
		return fmt.Errorf("updating project: %w", err)
	}
	return requireRow(res, "project", p.ID)
}

// GetProject retrieves a project by ID.
func (s *Store) GetProject(ctx context.Context, id int64) (*domain.Project, error) {
	var p domain.Project
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, description, keywords FROM projects WHERE id = ?
	`, id).Scan(&p.ID, &p.Name, &p.Description, &p.Keywords)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("project %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("scanning project: %w", err)
	}
	return &p, nil
}

// GetProjectKeywords returns the stored keyword document of a project.
func (s *Store) GetProjectKeywords(ctx context.Context, projectID int64) (string, error) {
	var keywords string
	err := s.db.QueryRowContext(ctx, "SELECT keywords FROM projects WHERE id = ?", projectID).Scan(&keywords)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("project %d: %w", projectID, domain.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("scanning project keywords: %w", err)
	}
	return keywords, nil
}

// ListProjects returns id/name summaries of all projects ordered by ID.
func (s *Store) ListProjects(ctx context.Context) ([]domain.Summary, error) {
	return s.listSummaries(ctx, "projects")
}

// DeleteProject removes a project together with its positions and their skills.
func (s *Store) DeleteProject(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM projects WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}
	return requireRow(res, "project", id)
}

func (s *Store) listSummaries(ctx context.Context, table string) ([]domain.Summary, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name FROM "+table+" ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", table, err)
	}
	defer rows.Close()

	summaries := []domain.Summary{}
	for rows.Next() {
		var sum domain.Summary
		if err := rows.Scan(&sum.ID, &sum.Name); err != nil {
			return nil, fmt.Errorf("scanning %s: %w", table, err)
		}
		summaries = append(summaries, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating %s: %w", table, err)
	}
	return summaries, nil
}
