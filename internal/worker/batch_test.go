package worker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/noosphere/internal/model"
)

// mockAssimilator implements Assimilator
type mockAssimilator struct{}

func (m *mockAssimilator) AssimilateFile(path string) (*model.Heuristic, error) {
	time.Sleep(5 * time.Millisecond) // Simulate work
	switch {
	case strings.HasSuffix(path, "missing.md"):
		return nil, errors.New("read submission: not found")
	case strings.HasSuffix(path, "rejected.md"):
		return nil, nil
	}
	return &model.Heuristic{HeuristicID: "community-" + filepath.Base(path)}, nil
}

// mockRecaller implements Recaller
type mockRecaller struct{}

func (m *mockRecaller) RecallReport(ctx context.Context, query string) (string, error) {
	if query == "fail" {
		return "", errors.New("recall error")
	}
	return "report:" + query, nil
}

func TestBatchProcessor_AssimilateFiles(t *testing.T) {
	processor := NewBatchProcessor(2)

	paths := []string{"a.md", "missing.md", "rejected.md", "b.md"}
	results := processor.AssimilateFiles(context.Background(), &mockAssimilator{}, paths)

	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}

	for i, res := range results {
		if res.Path != paths[i] {
			t.Errorf("result %d: expected path %s, got %s", i, paths[i], res.Path)
		}
	}

	if results[0].Heuristic == nil || results[0].Heuristic.HeuristicID != "community-a.md" {
		t.Errorf("expected heuristic for a.md, got %+v", results[0].Heuristic)
	}
	if results[1].Error == nil {
		t.Error("expected error for missing.md")
	}
	if results[2].Error != nil || results[2].Heuristic != nil {
		t.Errorf("expected silent rejection for rejected.md, got %+v", results[2])
	}
	if results[3].Heuristic == nil {
		t.Error("expected heuristic for b.md")
	}
}

func TestBatchProcessor_RecallContexts(t *testing.T) {
	processor := NewBatchProcessor(3)

	contexts := []string{"one", "fail", "three"}
	results := processor.RecallContexts(context.Background(), &mockRecaller{}, contexts)

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if results[0].Report != "report:one" {
		t.Errorf("expected report:one, got %q", results[0].Report)
	}
	if results[1].GetError() == nil {
		t.Error("expected error for failing context")
	}
	if results[2].Context != "three" {
		t.Errorf("expected context three, got %q", results[2].Context)
	}
}

func TestBatchProcessor_Empty(t *testing.T) {
	processor := NewBatchProcessor(2)

	if results := processor.AssimilateFiles(context.Background(), &mockAssimilator{}, nil); len(results) != 0 {
		t.Errorf("expected 0 results, got %d", len(results))
	}
}

func TestAssimilateJob_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	job := &AssimilateJob{Index: 3, Path: "a.md", Assimilator: &mockAssimilator{}}
	res := job.Execute(ctx).(*AssimilateResult)

	if !errors.Is(res.Error, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", res.Error)
	}
	if res.Position() != 3 {
		t.Errorf("expected position 3, got %d", res.Position())
	}
}

func TestReadLines(t *testing.T) {
	content := `
# Deliberation contexts
corporate exploitation of systems

human oversight
corporate exploitation of systems

`
	tmpfile, err := os.CreateTemp("", "contexts.txt")
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.Remove(tmpfile.Name()) }()

	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	lines, err := ReadLines(tmpfile.Name())
	if err != nil {
		t.Fatalf("ReadLines failed: %v", err)
	}

	if len(lines) != 2 {
		t.Fatalf("expected 2 unique lines, got %d: %v", len(lines), lines)
	}
	if lines[0] != "corporate exploitation of systems" || lines[1] != "human oversight" {
		t.Errorf("unexpected lines: %v", lines)
	}
}

func TestReadLines_Missing(t *testing.T) {
	if _, err := ReadLines(filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Error("expected error for missing file")
	}
}
