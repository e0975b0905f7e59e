package pipeline

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"github.com/ppiankov/noosphere/internal/extract"
	"github.com/ppiankov/noosphere/internal/logging"
	"github.com/ppiankov/noosphere/internal/model"
	"github.com/ppiankov/noosphere/internal/score"
	"github.com/ppiankov/noosphere/internal/validate"
	"github.com/ppiankov/noosphere/internal/worker"
	"go.uber.org/zap"
)

// Assimilator turns approved submissions into provisional heuristics.
// It never writes to the heuristic stores.
type Assimilator struct {
	resonance    *score.ResonanceScorer
	claims       *extract.ClaimExtractor
	consistency  *validate.ConsistencyChecker
	minResonance float64
	patterns     []string
	workers      int
	dryRun       bool
	logger       *zap.Logger
	now          func() time.Time
}

// Option configures an Assimilator
type Option func(*Assimilator)

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(a *Assimilator) { a.logger = logging.OrNop(l) }
}

// WithClock overrides the clock used for last_validated
func WithClock(now func() time.Time) Option {
	return func(a *Assimilator) { a.now = now }
}

// WithWorkers sets the batch concurrency
func WithWorkers(n int) Option {
	return func(a *Assimilator) { a.workers = n }
}

// WithDryRun marks file and directory runs as dry runs
func WithDryRun(dryRun bool) Option {
	return func(a *Assimilator) { a.dryRun = dryRun }
}

// NewAssimilator creates an assimilator from ingest configuration
func NewAssimilator(cfg model.IngestConfig, opts ...Option) *Assimilator {
	a := &Assimilator{
		resonance:    score.NewResonanceScorer(cfg.Lexicons),
		claims:       extract.NewClaimExtractor(),
		consistency:  validate.NewConsistencyChecker(cfg.Contradictions),
		minResonance: cfg.MinResonance,
		patterns:     cfg.Patterns,
		workers:      1,
		logger:       zap.NewNop(),
		now:          time.Now,
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Assimilate scores a submission and returns its provisional heuristic, or
// nil when the submission is rejected. dryRun never changes the result; it
// only tells the caller not to persist it.
func (a *Assimilator) Assimilate(sub *model.Submission, dryRun bool) *model.Heuristic {
	h, reason := a.Evaluate(sub)
	if h == nil {
		a.logger.Debug("submission rejected",
			zap.String("file", sub.Filename),
			zap.String("reason", string(reason)),
			zap.Bool("dry_run", dryRun))
		return nil
	}

	a.logger.Debug("submission assimilated",
		zap.String("file", sub.Filename),
		zap.String("heuristic_id", h.HeuristicID),
		zap.String("voice", h.Voice.String()),
		zap.Bool("dry_run", dryRun))
	return h
}

// Evaluate runs the assimilation steps and reports why a submission was rejected
func (a *Assimilator) Evaluate(sub *model.Submission) (*model.Heuristic, model.RejectReason) {
	// 1. Voice resonance and relevance gate
	resonance := a.resonance.Score(sub.Body)
	primary := resonance.Primary()
	if primary.Score < a.minResonance {
		return nil, model.RejectNoResonance
	}

	// 2. Claim extraction
	claim, ok := a.claims.Formulation(sub.Body)
	if !ok {
		return nil, model.RejectNoClaim
	}
	a.logger.Debug("claim extracted",
		zap.String("file", sub.Filename),
		zap.String("pattern", claim.Pattern))

	// 3. Contradiction check
	if token, ok := a.consistency.Check(claim.Text); !ok {
		a.logger.Debug("claim contradicts treatise",
			zap.String("file", sub.Filename),
			zap.String("pattern", claim.Pattern),
			zap.String("token", token))
		return nil, model.RejectContradiction
	}

	// 4. Record assembly
	h := &model.Heuristic{
		HeuristicID:    HeuristicID(sub.Content),
		Formulation:    claim.Text,
		Voice:          primary.Voice,
		Confidence:     model.CommunityConfidence,
		Status:         model.StatusCommunityDerived,
		Source:         sub.Filename,
		VoiceResonance: resonance.Map(),
		DerivedFrom:    "Dropbox submission: " + sub.Filename,
		LastValidated:  a.now().Format(time.RFC3339),
		Evidence:       []any{sub.Filename},
		Contradictions: []any{},
	}

	return h, ""
}

// AssimilateFile loads and assimilates a single named submission.
// A file that cannot be read is an error; a rejection is (nil, nil).
func (a *Assimilator) AssimilateFile(path string) (*model.Heuristic, error) {
	sub, err := extract.LoadSubmission(path)
	if err != nil {
		return nil, err
	}
	return a.Assimilate(sub, a.dryRun), nil
}

// AssimilateDir assimilates every matching submission in dir. Files that
// fail to load are logged and skipped; the batch never aborts on them.
func (a *Assimilator) AssimilateDir(ctx context.Context, dir string, since time.Time) ([]model.Heuristic, error) {
	paths, err := ListSubmissions(dir, a.patterns, since)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	if paths == nil {
		if _, statErr := os.Stat(dir); statErr != nil {
			a.logger.Warn("approved directory not found", zap.String("dir", dir))
		}
	}

	processor := worker.NewBatchProcessor(a.workers)
	results := processor.AssimilateFiles(ctx, a, paths)

	heuristics := []model.Heuristic{}
	for _, res := range results {
		if res.Error != nil {
			a.logger.Warn("skipping submission", zap.String("path", res.Path), zap.Error(res.Error))
			continue
		}
		if res.Heuristic != nil {
			heuristics = append(heuristics, *res.Heuristic)
		}
	}

	if err := ctx.Err(); err != nil {
		return heuristics, fmt.Errorf("assimilate %s: %w", dir, err)
	}

	return heuristics, nil
}

// HeuristicID derives a stable identifier from the full submission content,
// so re-assimilating identical text yields the same id
func HeuristicID(content string) string {
	sum := md5.Sum([]byte(content))
	return "community-" + hex.EncodeToString(sum[:])[:8]
}
