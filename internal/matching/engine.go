// Package matching ranks candidate keyword documents against a query
// document with a tf-idf vector space fitted per call.
package matching

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/sha1n/staffing-mcp/internal/domain"
)

// Match is one ranked candidate.
type Match struct {
	// Index is the candidate's position in the slice passed to Rank.
	Index int
	// ID is the candidate document ID.
	ID    string
	Score float64
}

// Engine ranks candidates. It holds no state between calls; every Rank builds
// and tears down its own corpus.
type Engine struct {
	logger *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
	}
}

// NewEngine creates a new ranking engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{logger: slog.Default()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Rank scores every candidate against query and returns at most limit
// matches ordered by descending score. Equal scores keep input order.
// An empty candidate list yields an empty result. Corpus failures are
// reported wrapped in domain.ErrIndexBuild and no partial result is returned.
func (e *Engine) Rank(ctx context.Context, query string, candidates []domain.KeywordDocument, limit int) (matches []Match, err error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive, got %d", domain.ErrInvalidInput, limit)
	}
	if len(candidates) == 0 {
		return []Match{}, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	corpus, err := NewCorpus(candidates)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrIndexBuild, err)
	}
	defer func() {
		if cerr := corpus.Close(); cerr != nil && err == nil {
			matches = nil
			err = fmt.Errorf("%w: failed to close corpus: %w", domain.ErrIndexBuild, cerr)
		}
	}()

	space, err := Fit(ctx, corpus)
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrIndexBuild, err)
	}

	queryVector := space.Transform(query)

	matches = make([]Match, len(candidates))
	for i, doc := range candidates {
		if i%256 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		matches[i] = Match{
			Index: i,
			ID:    doc.ID,
			Score: queryVector.Dot(space.Transform(doc.Keywords)),
		}
	}

	slices.SortStableFunc(matches, func(a, b Match) int {
		return cmp.Compare(b.Score, a.Score)
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}

	e.logger.Debug("Ranked candidates",
		"candidates", corpus.Len(),
		"vocabulary", space.Dimensions(),
		"returned", len(matches),
		"duration", time.Since(start))

	return matches, nil
}
