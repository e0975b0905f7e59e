package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/ppiankov/noosphere/internal/model"
	"github.com/ppiankov/noosphere/internal/pipeline"
	"github.com/ppiankov/noosphere/internal/worker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAssimilator struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (f *fakeAssimilator) AssimilateFile(path string) (*model.Heuristic, error) {
	f.mu.Lock()
	f.calls = append(f.calls, path)
	f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}
	if filepath.Base(path) == "reject.md" {
		return nil, nil
	}
	return &model.Heuristic{HeuristicID: "community-" + filepath.Base(path)}, nil
}

func (f *fakeAssimilator) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func discard(model.Heuristic) error { return nil }

func TestWatcher_DebouncesWrites(t *testing.T) {
	fake := &fakeAssimilator{}
	w := New(t.TempDir(), []string{"*.md"}, fake, worker.NewLimiter(100, 10), discard, WithDebounce(time.Second))

	start := time.Now()
	w.handleEvent(fsnotify.Event{Name: "/d/a.md", Op: fsnotify.Create})
	w.handleEvent(fsnotify.Event{Name: "/d/a.md", Op: fsnotify.Write})
	w.handleEvent(fsnotify.Event{Name: "/d/a.txt", Op: fsnotify.Write})

	w.processSettled(start)
	assert.Empty(t, fake.Calls())

	w.processSettled(start.Add(2 * time.Second))
	assert.Equal(t, []string{"/d/a.md"}, fake.Calls())

	stats := w.Stats()
	assert.Equal(t, 2, stats.Events)
	assert.Equal(t, 1, stats.Assimilated)
}

func TestWatcher_RemoveDropsPending(t *testing.T) {
	fake := &fakeAssimilator{}
	w := New(t.TempDir(), nil, fake, worker.NewLimiter(100, 10), discard, WithDebounce(0))

	w.handleEvent(fsnotify.Event{Name: "/d/a.md", Op: fsnotify.Write})
	w.handleEvent(fsnotify.Event{Name: "/d/a.md", Op: fsnotify.Remove})
	w.processSettled(time.Now())

	assert.Empty(t, fake.Calls())
}

func TestWatcher_ThrottledPathStaysPending(t *testing.T) {
	fake := &fakeAssimilator{}
	limiter := worker.NewLimiter(0.001, 1)
	w := New(t.TempDir(), nil, fake, limiter, discard, WithDebounce(0))

	w.handleEvent(fsnotify.Event{Name: "/d/a.md", Op: fsnotify.Write})
	w.processSettled(time.Now())
	w.handleEvent(fsnotify.Event{Name: "/d/a.md", Op: fsnotify.Write})
	w.processSettled(time.Now())

	assert.Len(t, fake.Calls(), 1)
	assert.Equal(t, 1, w.Stats().Throttled)

	w.mu.Lock()
	_, pending := w.pending["/d/a.md"]
	w.mu.Unlock()
	assert.True(t, pending)
}

func TestWatcher_ThrottleCountedOncePerPendingPath(t *testing.T) {
	fake := &fakeAssimilator{}
	limiter := worker.NewLimiter(0.001, 1)
	w := New(t.TempDir(), nil, fake, limiter, discard, WithDebounce(0))

	w.handleEvent(fsnotify.Event{Name: "/d/a.md", Op: fsnotify.Write})
	w.processSettled(time.Now())

	w.handleEvent(fsnotify.Event{Name: "/d/a.md", Op: fsnotify.Write})
	for i := 0; i < 5; i++ {
		w.processSettled(time.Now())
	}
	w.handleEvent(fsnotify.Event{Name: "/d/a.md", Op: fsnotify.Write})
	w.processSettled(time.Now())

	assert.Len(t, fake.Calls(), 1)
	assert.Equal(t, 1, w.Stats().Throttled)

	// A second path throttled alongside is its own entry
	limiter.Allow("/d/b.md")
	w.handleEvent(fsnotify.Event{Name: "/d/b.md", Op: fsnotify.Write})
	w.processSettled(time.Now())
	w.processSettled(time.Now())

	assert.Equal(t, 2, w.Stats().Throttled)
}

func TestWatcher_CountsRejectionsAndErrors(t *testing.T) {
	fake := &fakeAssimilator{}
	handlerErr := errors.New("closed pipe")
	w := New(t.TempDir(), nil, fake, worker.NewLimiter(100, 10),
		func(model.Heuristic) error { return handlerErr }, WithDebounce(0))

	w.process("/d/reject.md")
	w.process("/d/ok.md")

	fake.err = os.ErrNotExist
	w.process("/d/gone.md")

	stats := w.Stats()
	assert.Equal(t, 1, stats.Rejected)
	assert.Equal(t, 1, stats.Assimilated)
	assert.Equal(t, 2, stats.Errors)
}

func TestWatcher_RunAssimilatesNewFiles(t *testing.T) {
	dir := t.TempDir()
	assimilator := pipeline.NewAssimilator(model.DefaultConfig().Ingest)

	got := make(chan model.Heuristic, 8)
	w := New(dir, []string{"*.md"}, assimilator, worker.NewLimiter(100, 10),
		func(h model.Heuristic) error {
			got <- h
			return nil
		},
		WithDebounce(20*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Give the watcher time to register the directory
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "new.md"),
		[]byte("We must resist corporate control of the commons."), 0644))

	select {
	case h := <-got:
		assert.Equal(t, "resist corporate control of the commons", h.Formulation)
		assert.Equal(t, "new.md", h.Source)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for assimilation")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatcher_RunMissingDir(t *testing.T) {
	w := New(filepath.Join(t.TempDir(), "missing"), nil, &fakeAssimilator{}, worker.NewLimiter(1, 1), discard)
	assert.Error(t, w.Run(context.Background()))
}
