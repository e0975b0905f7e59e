package watch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/ppiankov/noosphere/internal/logging"
	"github.com/ppiankov/noosphere/internal/model"
	"github.com/ppiankov/noosphere/internal/pipeline"
	"github.com/ppiankov/noosphere/internal/worker"
	"go.uber.org/zap"
)

const defaultDebounce = 300 * time.Millisecond

// Handler receives every heuristic assimilated from a watched file
type Handler func(h model.Heuristic) error

// Stats counts watcher activity
type Stats struct {
	Events      int
	Assimilated int
	Rejected    int
	Throttled   int
	Errors      int
}

// pendingPath is a changed file waiting to settle
type pendingPath struct {
	changed   time.Time
	throttled bool
}

// Watcher assimilates submissions as they land in the approved directory.
// Writes to a path are debounced and then rate limited per path.
type Watcher struct {
	dir         string
	patterns    []string
	assimilator worker.Assimilator
	limiter     *worker.Limiter
	handler     Handler
	logger      *zap.Logger
	debounce    time.Duration

	mu      sync.Mutex
	pending map[string]pendingPath
	stats   Stats
}

// Option configures a Watcher
type Option func(*Watcher)

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(w *Watcher) { w.logger = logging.OrNop(l) }
}

// WithDebounce sets how long a path must be quiet before it is processed
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// New creates a watcher over dir. Only files matching patterns are assimilated.
func New(dir string, patterns []string, assimilator worker.Assimilator, limiter *worker.Limiter, handler Handler, opts ...Option) *Watcher {
	w := &Watcher{
		dir:         dir,
		patterns:    patterns,
		assimilator: assimilator,
		limiter:     limiter,
		handler:     handler,
		logger:      zap.NewNop(),
		debounce:    defaultDebounce,
		pending:     make(map[string]pendingPath),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run watches until ctx is done. It returns nil on cancellation.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	w.logger.Info("watching approved directory", zap.String("dir", w.dir))

	tick := w.debounce / 3
	if tick < 10*time.Millisecond {
		tick = 10 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", zap.Error(err))
			w.count(func(s *Stats) { s.Errors++ })

		case <-ticker.C:
			w.processSettled(time.Now())
		}
	}
}

// Stats returns a snapshot of the watcher counters
func (w *Watcher) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !pipeline.Matches(event.Name, w.patterns) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	switch {
	case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
		w.stats.Events++
		entry := w.pending[event.Name]
		entry.changed = time.Now()
		w.pending[event.Name] = entry
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		delete(w.pending, event.Name)
		w.limiter.Forget(event.Name)
	}
}

// processSettled assimilates every pending path quiet since before now-debounce.
// A throttled path stays pending and is retried on a later tick; it is
// counted as throttled once until it is processed.
func (w *Watcher) processSettled(now time.Time) {
	var ready []string

	w.mu.Lock()
	for path, entry := range w.pending {
		if now.Sub(entry.changed) < w.debounce {
			continue
		}
		if !w.limiter.Allow(path) {
			if !entry.throttled {
				entry.throttled = true
				w.pending[path] = entry
				w.stats.Throttled++
			}
			continue
		}
		ready = append(ready, path)
		delete(w.pending, path)
	}
	w.mu.Unlock()

	for _, path := range ready {
		w.process(path)
	}
}

func (w *Watcher) process(path string) {
	h, err := w.assimilator.AssimilateFile(path)
	if err != nil {
		w.logger.Warn("skipping submission", zap.String("path", path), zap.Error(err))
		w.count(func(s *Stats) { s.Errors++ })
		return
	}

	if h == nil {
		w.count(func(s *Stats) { s.Rejected++ })
		return
	}

	w.count(func(s *Stats) { s.Assimilated++ })
	if err := w.handler(*h); err != nil {
		w.logger.Warn("handler failed", zap.String("path", path), zap.Error(err))
		w.count(func(s *Stats) { s.Errors++ })
	}
}

func (w *Watcher) count(f func(*Stats)) {
	w.mu.Lock()
	f(&w.stats)
	w.mu.Unlock()
}
