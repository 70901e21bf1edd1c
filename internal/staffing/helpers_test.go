package staffing

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sha1n/staffing-mcp/internal/domain"
	"github.com/sha1n/staffing-mcp/internal/matching"
	"github.com/sha1n/staffing-mcp/internal/storage/sqlite"
)

type testEnv struct {
	store      *sqlite.Store
	search     *SearchService
	records    *RecordService
	recomputer *Recomputer
}

func newTestEnv(t *testing.T, searchOpts ...SearchOption) *testEnv {
	t.Helper()

	store, err := sqlite.NewStore(t.TempDir())
	require.NoError(t, err)

	recomputer, err := NewRecomputer(store, WithRecomputeRetries(0))
	require.NoError(t, err)

	records, err := NewRecordService(store, recomputer, nil)
	require.NoError(t, err)

	search, err := NewSearchService(store, searchOpts...)
	require.NoError(t, err)

	t.Cleanup(func() {
		search.Close()
		recomputer.Close()
		require.NoError(t, store.Close())
	})

	return &testEnv{store: store, search: search, records: records, recomputer: recomputer}
}

func (env *testEnv) project(t *testing.T, name, description string) *domain.Project {
	t.Helper()
	p, err := env.records.SaveProject(context.Background(), domain.Project{Name: name, Description: description})
	require.NoError(t, err)
	return p
}

func (env *testEnv) position(t *testing.T, projectID int64, name string, skills ...domain.PositionSkill) *domain.Position {
	t.Helper()
	p, err := env.records.SavePosition(context.Background(), domain.Position{ProjectID: projectID, Name: name, Skills: skills})
	require.NoError(t, err)
	return p
}

func (env *testEnv) employee(t *testing.T, name string, skills ...domain.Skill) *domain.Employee {
	t.Helper()
	e, err := env.records.SaveEmployee(context.Background(), domain.Employee{Name: name, Skills: skills})
	require.NoError(t, err)
	return e
}

// employeeWithKeywords stores an employee whose keyword document is set verbatim.
func (env *testEnv) employeeWithKeywords(t *testing.T, name, kw string) *domain.Employee {
	t.Helper()
	e := env.employee(t, name)
	require.NoError(t, env.store.UpdateEmployeeKeywords(context.Background(), e.ID, kw))
	e.Keywords = kw
	return e
}

func skill(name string, level int) domain.Skill {
	return domain.Skill{Name: name, Level: level}
}

func required(name string, level int) domain.PositionSkill {
	return domain.PositionSkill{Skill: skill(name, level), Compulsory: true}
}

func optional(name string, level int) domain.PositionSkill {
	return domain.PositionSkill{Skill: skill(name, level)}
}

func employeeIDs(results []domain.ScoredEmployee) []int64 {
	ids := make([]int64, len(results))
	for i, r := range results {
		ids[i] = r.EmployeeID
	}
	return ids
}

// stubRanker fails or delays per query document and otherwise scores every
// candidate 1.
type stubRanker struct {
	mu     sync.Mutex
	fail   map[string]error
	delay  map[string]time.Duration
	called []string
}

func (r *stubRanker) Rank(ctx context.Context, query string, candidates []domain.KeywordDocument, limit int) ([]matching.Match, error) {
	r.mu.Lock()
	r.called = append(r.called, query)
	err := r.fail[query]
	delay := r.delay[query]
	r.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}

	matches := make([]matching.Match, 0, len(candidates))
	for i, c := range candidates {
		if i == limit {
			break
		}
		matches = append(matches, matching.Match{Index: i, ID: c.ID, Score: 1})
	}
	return matches, nil
}

// flakyProfiles is a ProfileRepository whose writes fail a configurable
// number of times.
type flakyProfiles struct {
	mu        sync.Mutex
	profiles  map[int64]domain.EmployeeProfile
	keywords  map[int64]string
	failures  int
	failWith  error
	loadCalls int
	block     chan struct{}
}

func newFlakyProfiles() *flakyProfiles {
	return &flakyProfiles{
		profiles: map[int64]domain.EmployeeProfile{},
		keywords: map[int64]string{},
		failWith: errors.New("database is locked"),
	}
}

func (f *flakyProfiles) LoadEmployeeProfile(_ context.Context, employeeID int64) (*domain.EmployeeProfile, error) {
	if f.block != nil {
		<-f.block
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.loadCalls++
	p, ok := f.profiles[employeeID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

func (f *flakyProfiles) UpdateEmployeeKeywords(_ context.Context, employeeID int64, kw string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failures > 0 {
		f.failures--
		return f.failWith
	}
	f.keywords[employeeID] = kw
	return nil
}

func (f *flakyProfiles) stored(employeeID int64) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	kw, ok := f.keywords[employeeID]
	return kw, ok
}

func (f *flakyProfiles) loads() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loadCalls
}
