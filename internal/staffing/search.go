package staffing

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/sha1n/staffing-mcp/internal/domain"
	"github.com/sha1n/staffing-mcp/internal/keywords"
	"github.com/sha1n/staffing-mcp/internal/matching"
)

const (
	// DefaultMaxLimit is the largest accepted result limit.
	DefaultMaxLimit = 100

	// DefaultPositionWorkers bounds how many positions are ranked at once.
	DefaultPositionWorkers = 4
)

// SearchService ranks employees against projects and their positions.
type SearchService struct {
	repo            SearchRepository
	ranker          Ranker
	maxLimit        int
	positionWorkers int
	pool            *ants.Pool
	logger          *slog.Logger
}

// SearchOption configures a SearchService.
type SearchOption func(*SearchService)

// WithRanker replaces the default matching engine.
func WithRanker(r Ranker) SearchOption {
	return func(s *SearchService) {
		if r != nil {
			s.ranker = r
		}
	}
}

// WithMaxLimit sets the largest accepted limit.
// Default is DefaultMaxLimit.
func WithMaxLimit(limit int) SearchOption {
	return func(s *SearchService) {
		if limit > 0 {
			s.maxLimit = limit
		}
	}
}

// WithPositionWorkers sets how many positions are ranked concurrently.
// A value of 1 ranks positions one after another.
func WithPositionWorkers(n int) SearchOption {
	return func(s *SearchService) {
		if n < 1 {
			n = 1
		}
		s.positionWorkers = n
	}
}

// WithSearchLogger sets a custom logger.
// Default is slog.Default().
func WithSearchLogger(logger *slog.Logger) SearchOption {
	return func(s *SearchService) {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
	}
}

// NewSearchService creates a search service over repo.
// Close must be called to release the position worker pool.
func NewSearchService(repo SearchRepository, opts ...SearchOption) (*SearchService, error) {
	if repo == nil {
		return nil, fmt.Errorf("%w: search repository is required", domain.ErrInvalidInput)
	}

	s := &SearchService{
		repo:            repo,
		maxLimit:        DefaultMaxLimit,
		positionWorkers: DefaultPositionWorkers,
		logger:          slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.ranker == nil {
		s.ranker = matching.NewEngine(matching.WithLogger(s.logger))
	}

	if s.positionWorkers > 1 {
		pool, err := ants.NewPool(s.positionWorkers)
		if err != nil {
			return nil, fmt.Errorf("failed to create position worker pool: %w", err)
		}
		s.pool = pool
	}

	return s, nil
}

// Close releases the position worker pool.
func (s *SearchService) Close() {
	if s.pool != nil {
		s.pool.Release()
	}
}

// MaxLimit returns the largest accepted limit.
func (s *SearchService) MaxLimit() int {
	return s.maxLimit
}

// SearchProjectWide ranks all employees against the project's keyword document.
func (s *SearchService) SearchProjectWide(ctx context.Context, projectID int64, limit int) ([]domain.ScoredEmployee, error) {
	if err := s.validate(projectID, limit); err != nil {
		return nil, err
	}

	query, err := s.repo.GetProjectKeywords(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load project keywords: %w", err)
	}

	employees, err := s.repo.GetAllEmployees(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load employees: %w", err)
	}

	return s.rank(ctx, query, employees, limit)
}

// SearchByPosition ranks employees separately for every position of the
// project. Employees lacking any compulsory skill of a position are left out
// of that position's corpus. Results follow the project's position order.
// A ranking failure on any position fails the whole search.
func (s *SearchService) SearchByPosition(ctx context.Context, projectID int64, limit int) ([]domain.PositionResult, error) {
	if err := s.validate(projectID, limit); err != nil {
		return nil, err
	}

	positions, err := s.repo.GetPositionsWithSkills(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load positions: %w", err)
	}
	if len(positions) == 0 {
		return []domain.PositionResult{}, nil
	}

	employees, err := s.repo.GetAllEmployees(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load employees: %w", err)
	}

	results := make([]domain.PositionResult, len(positions))

	if s.pool == nil || len(positions) == 1 {
		for i, p := range positions {
			res, err := s.searchPosition(ctx, p, employees, limit)
			if err != nil {
				return nil, err
			}
			results[i] = res
		}
		return results, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg       sync.WaitGroup
		once     sync.Once
		firstErr error
	)
	fail := func(err error) {
		once.Do(func() {
			firstErr = err
			cancel()
		})
	}

	for i, p := range positions {
		wg.Add(1)
		submitErr := s.pool.Submit(func() {
			defer wg.Done()
			res, err := s.searchPosition(ctx, p, employees, limit)
			if err != nil {
				fail(err)
				return
			}
			results[i] = res
		})
		if submitErr != nil {
			wg.Done()
			fail(fmt.Errorf("failed to schedule position %d: %w", p.ID, submitErr))
			break
		}
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return results, nil
}

// QualifiedEmployees returns the employees whose keyword documents contain
// every given skill as a whole word.
func (s *SearchService) QualifiedEmployees(ctx context.Context, skills []string) ([]domain.Summary, error) {
	tokens := keywords.Tokens(skills)
	if len(tokens) == 0 {
		return nil, fmt.Errorf("%w: at least one searchable skill is required", domain.ErrInvalidInput)
	}

	employees, err := s.repo.GetEmployeesWithAllKeywordTokens(ctx, tokens)
	if err != nil {
		return nil, fmt.Errorf("failed to load qualified employees: %w", err)
	}

	summaries := make([]domain.Summary, len(employees))
	for i, e := range employees {
		summaries[i] = domain.Summary{ID: e.ID, Name: e.Name}
	}
	return summaries, nil
}

func (s *SearchService) searchPosition(ctx context.Context, p domain.Position, employees []domain.Employee, limit int) (domain.PositionResult, error) {
	result := domain.PositionResult{
		PositionID:   p.ID,
		PositionName: p.Name,
		Results:      []domain.ScoredEmployee{},
	}

	pool := employees
	if tokens := compulsoryTokens(p); len(tokens) > 0 {
		pool = make([]domain.Employee, 0, len(employees))
		for _, e := range employees {
			if keywords.ContainsAllTokens(e.Keywords, tokens) {
				pool = append(pool, e)
			}
		}
	}
	if len(pool) == 0 {
		s.logger.Debug("No eligible employees for position", "position_id", p.ID)
		return result, nil
	}

	ranked, err := s.rank(ctx, p.Keywords, pool, limit)
	if err != nil {
		return domain.PositionResult{}, fmt.Errorf("position %d: %w", p.ID, err)
	}
	result.Results = ranked
	return result, nil
}

func (s *SearchService) rank(ctx context.Context, query string, employees []domain.Employee, limit int) ([]domain.ScoredEmployee, error) {
	docs := make([]domain.KeywordDocument, len(employees))
	for i, e := range employees {
		docs[i] = domain.KeywordDocument{
			ID:       strconv.FormatInt(e.ID, 10),
			Keywords: e.Keywords,
		}
	}

	matches, err := s.ranker.Rank(ctx, query, docs, limit)
	if err != nil {
		return nil, err
	}

	scored := make([]domain.ScoredEmployee, len(matches))
	for i, m := range matches {
		e := employees[m.Index]
		scored[i] = domain.ScoredEmployee{
			Score:      m.Score,
			EmployeeID: e.ID,
			Name:       e.Name,
		}
	}
	return scored, nil
}

func (s *SearchService) validate(projectID int64, limit int) error {
	if projectID <= 0 {
		return fmt.Errorf("%w: project id must be positive, got %d", domain.ErrInvalidInput, projectID)
	}
	if limit < 1 || limit > s.maxLimit {
		return fmt.Errorf("%w: limit must be between 1 and %d, got %d", domain.ErrInvalidInput, s.maxLimit, limit)
	}
	return nil
}

// compulsoryTokens returns the keyword tokens of the position's compulsory
// skills. Skills whose names normalize to nothing cannot be matched and are
// not used as a filter.
func compulsoryTokens(p domain.Position) []string {
	compulsory := p.CompulsorySkills()
	if len(compulsory) == 0 {
		return nil
	}
	names := make([]string, len(compulsory))
	for i, s := range compulsory {
		names[i] = s.Name
	}
	return keywords.Tokens(names)
}
