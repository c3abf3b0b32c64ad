package session

import (
	"context"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spiraldrift/spiraldrift/internal/compile"
	"github.com/spiraldrift/spiraldrift/internal/drift"
	"github.com/spiraldrift/spiraldrift/internal/scorer"
)

// Analyzer runs the full pipeline over a transcript: score every text unit,
// detect drift, aggregate into a Profile. Per-unit scans are pure functions
// of (text, compiled set), so they run on a bounded worker pool; results are
// keyed by sequence index, never by completion order.
type Analyzer struct {
	set      *compile.MarkerSet
	scorer   *scorer.Scorer
	detector *drift.Detector
	workers  int
	log      *zap.Logger
}

// AnalyzerOption configures an Analyzer.
type AnalyzerOption func(*Analyzer)

// WithWorkers caps the scoring worker pool. Values below 1 fall back to
// GOMAXPROCS.
func WithWorkers(n int) AnalyzerOption {
	return func(a *Analyzer) {
		if n > 0 {
			a.workers = n
		}
	}
}

// WithLogger attaches a logger; the default is a no-op logger.
func WithLogger(log *zap.Logger) AnalyzerOption {
	return func(a *Analyzer) {
		if log != nil {
			a.log = log
		}
	}
}

// WithScoringMode selects presence or frequency scoring.
func WithScoringMode(m scorer.Mode) AnalyzerOption {
	return func(a *Analyzer) {
		a.scorer = scorer.New(a.set, scorer.WithMode(m))
	}
}

// NewAnalyzer builds an Analyzer over a compiled marker set.
func NewAnalyzer(set *compile.MarkerSet, opts ...AnalyzerOption) *Analyzer {
	a := &Analyzer{
		set:      set,
		scorer:   scorer.New(set),
		detector: drift.New(set),
		workers:  runtime.GOMAXPROCS(0),
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run scores all texts, detects drift and aggregates. Cancellation is
// cooperative: the context is checked between text units, not mid-pattern.
func (a *Analyzer) Run(ctx context.Context, texts []string) (*Profile, []scorer.Result, error) {
	if len(texts) == 0 {
		return nil, nil, ErrEmptyTranscript
	}

	results := make([]scorer.Result, len(texts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)

	for i, text := range texts {
		i, text := i, text
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = a.scorer.Score(text)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	events, err := a.detector.DetectCtx(ctx, texts)
	if err != nil {
		return nil, nil, err
	}

	profile, err := Aggregate(a.set.Order, results, events)
	if err != nil {
		return nil, nil, err
	}

	a.log.Debug("transcript analyzed",
		zap.Int("texts", len(texts)),
		zap.Int("drift_events", len(events)),
		zap.String("dominant", string(profile.Dominant)),
	)
	return profile, results, nil
}
