package recall

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/ppiankov/noosphere/internal/logging"
	"github.com/ppiankov/noosphere/internal/model"
	"github.com/ppiankov/noosphere/internal/score"
	"go.uber.org/zap"
)

const (
	DefaultMinConfidence = 0.6
	DefaultMaxResults    = 12
)

// Query describes one recall request
type Query struct {
	Context       string
	Voices        []model.Voice // Empty keeps every voice
	MinConfidence float64
	MaxResults    int // Negative means no limit
}

// NewQuery returns a query with the default threshold and result limit
func NewQuery(context string) Query {
	return Query{
		Context:       context,
		MinConfidence: DefaultMinConfidence,
		MaxResults:    DefaultMaxResults,
	}
}

// ParseVoices parses a voice filter. "all" or an empty string disables
// filtering; otherwise names are comma-separated and matched exactly.
func ParseVoices(value string) []model.Voice {
	value = strings.TrimSpace(value)
	if value == "" || value == "all" {
		return nil
	}

	var voices []model.Voice
	for _, name := range strings.Split(value, ",") {
		if name = strings.TrimSpace(name); name != "" {
			voices = append(voices, model.Voice(name))
		}
	}
	return voices
}

// HeuristicLoader supplies the records a recall ranks
type HeuristicLoader interface {
	Load(ctx context.Context) ([]model.Heuristic, error)
}

// Engine retrieves the heuristics most relevant to a context
type Engine struct {
	loader HeuristicLoader
	scorer *score.Scorer
	logger *zap.Logger
}

// EngineOption configures an Engine
type EngineOption func(*Engine)

// WithLogger sets the logger
func WithLogger(l *zap.Logger) EngineOption {
	return func(e *Engine) { e.logger = logging.OrNop(l) }
}

// NewEngine creates a recall engine over loader
func NewEngine(loader HeuristicLoader, opts ...EngineOption) *Engine {
	e := &Engine{
		loader: loader,
		scorer: score.NewScorer(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Recall loads every store and ranks its records against q
func (e *Engine) Recall(ctx context.Context, q Query) ([]model.ScoredHeuristic, error) {
	records, err := e.loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("recall: %w", err)
	}

	ranked := e.Rank(records, q)
	e.logger.Debug("recall complete",
		zap.Int("loaded", len(records)),
		zap.Int("returned", len(ranked)),
		zap.Float64("min_confidence", q.MinConfidence))
	return ranked, nil
}

// Rank filters records by confidence and voice, scores them against the
// context and returns at most q.MaxResults in non-increasing relevance.
// Equal relevance keeps load order.
func (e *Engine) Rank(records []model.Heuristic, q Query) []model.ScoredHeuristic {
	allowed := make(map[model.Voice]bool, len(q.Voices))
	for _, v := range q.Voices {
		allowed[v] = true
	}

	scored := make([]model.ScoredHeuristic, 0, len(records))
	for _, h := range records {
		if h.Confidence < q.MinConfidence {
			continue
		}
		if len(allowed) > 0 && !allowed[h.Voice] {
			continue
		}
		scored = append(scored, e.scorer.Score(q.Context, h))
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Relevance > scored[j].Relevance
	})

	if q.MaxResults >= 0 && len(scored) > q.MaxResults {
		scored = scored[:q.MaxResults]
	}
	return scored
}
