package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ppiankov/noosphere/internal/cache"
	"github.com/ppiankov/noosphere/internal/logging"
	"github.com/ppiankov/noosphere/internal/model"
	"github.com/ppiankov/noosphere/internal/validate"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// Loader reads every registered store and returns normalized records.
// Stores are read-only; the loader never writes to them.
type Loader struct {
	registry *Registry
	cache    cache.Cache
	ttl      time.Duration
	logger   *zap.Logger
}

// LoaderOption configures a Loader
type LoaderOption func(*Loader)

// WithCache memoizes decoded documents. A nil cache disables memoization.
func WithCache(c cache.Cache, ttl time.Duration) LoaderOption {
	return func(l *Loader) {
		l.cache = c
		l.ttl = ttl
	}
}

// WithLoaderLogger sets the logger
func WithLoaderLogger(logger *zap.Logger) LoaderOption {
	return func(l *Loader) { l.logger = logging.OrNop(logger) }
}

// NewLoader creates a loader over registry
func NewLoader(registry *Registry, opts ...LoaderOption) *Loader {
	l := &Loader{
		registry: registry,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads all sources concurrently and returns their records in registry
// order. Unreadable or malformed stores contribute no records; only
// cancellation is an error.
func (l *Loader) Load(ctx context.Context) ([]model.Heuristic, error) {
	srcs := l.registry.Sources()
	slots := make([][]model.Heuristic, len(srcs))

	eg, egCtx := errgroup.WithContext(ctx)
	for i, src := range srcs {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			slots[i] = l.LoadSource(src)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("load sources: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("load sources: %w", err)
	}

	var all []model.Heuristic
	for _, records := range slots {
		all = append(all, records...)
	}
	return all, nil
}

// LoadSource reads and normalizes a single source, dropping invalid records
func (l *Loader) LoadSource(src Source) []model.Heuristic {
	doc, err := l.document(src.Path)
	if err != nil {
		l.logger.Debug("source unavailable",
			zap.String("source", src.Name()),
			zap.String("path", src.Path),
			zap.Error(err))
		return nil
	}

	var out []model.Heuristic
	for _, h := range src.Normalize(doc) {
		if err := validate.Record(h); err != nil {
			l.logger.Debug("dropping record",
				zap.String("source", src.Name()),
				zap.Error(err))
			continue
		}
		out = append(out, h)
	}

	l.logger.Debug("source loaded",
		zap.String("source", src.Name()),
		zap.Int("records", len(out)))
	return out
}

// document returns the decoded document at path, from the cache when its
// file metadata is unchanged
func (l *Loader) document(path string) (map[string]any, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat store: %w", err)
	}

	var key string
	if l.cache != nil {
		key = cache.DocumentKey(path, info.ModTime(), info.Size())
		if doc, ok := l.cache.Get(key); ok {
			return doc, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read store: %w", err)
	}

	doc, err := Decode(path, data)
	if err != nil {
		return nil, err
	}

	if l.cache != nil {
		l.cache.Set(key, doc, l.ttl)
	}
	return doc, nil
}

// Decode parses a store document as YAML when path has a .yaml or .yml
// extension, and as JSON otherwise. The top level must be an object.
func Decode(path string, data []byte) (map[string]any, error) {
	var doc map[string]any

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decode yaml %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decode json %s: %w", path, err)
		}
	}

	if doc == nil {
		return nil, fmt.Errorf("decode %s: empty document", path)
	}
	return doc, nil
}
