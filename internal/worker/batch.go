package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/noosphere/internal/model"
)

// Assimilator defines the interface for assimilating one submission file
type Assimilator interface {
	AssimilateFile(path string) (*model.Heuristic, error)
}

// AssimilateJob assimilates a single submission file
type AssimilateJob struct {
	Index       int
	Path        string
	Assimilator Assimilator
}

// Execute executes the assimilation job
func (j *AssimilateJob) Execute(ctx context.Context) Result {
	if err := ctx.Err(); err != nil {
		return &AssimilateResult{Index: j.Index, Path: j.Path, Error: err}
	}

	h, err := j.Assimilator.AssimilateFile(j.Path)
	return &AssimilateResult{
		Index:     j.Index,
		Path:      j.Path,
		Heuristic: h,
		Error:     err,
	}
}

// AssimilateResult represents the result of an assimilation job.
// Heuristic is nil when the submission was rejected.
type AssimilateResult struct {
	Index     int
	Path      string
	Heuristic *model.Heuristic
	Error     error
}

// GetError returns the error from the assimilation result
func (r *AssimilateResult) GetError() error {
	return r.Error
}

// Position returns the submission order of the job
func (r *AssimilateResult) Position() int {
	return r.Index
}

// Recaller defines the interface for rendering a recall report for one context
type Recaller interface {
	RecallReport(ctx context.Context, query string) (string, error)
}

// RecallJob renders the recall report for one context
type RecallJob struct {
	Index    int
	Context  string
	Recaller Recaller
}

// Execute executes the recall job
func (j *RecallJob) Execute(ctx context.Context) Result {
	if err := ctx.Err(); err != nil {
		return &RecallResult{Index: j.Index, Context: j.Context, Error: err}
	}

	report, err := j.Recaller.RecallReport(ctx, j.Context)
	return &RecallResult{
		Index:   j.Index,
		Context: j.Context,
		Report:  report,
		Error:   err,
	}
}

// RecallResult represents the result of a recall job
type RecallResult struct {
	Index   int
	Context string
	Report  string
	Error   error
}

// GetError returns the error from the recall result
func (r *RecallResult) GetError() error {
	return r.Error
}

// Position returns the submission order of the job
func (r *RecallResult) Position() int {
	return r.Index
}

// BatchProcessor fans assimilation and recall work out over a worker pool.
// Results always come back in input order.
type BatchProcessor struct {
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(concurrency int) *BatchProcessor {
	return &BatchProcessor{
		concurrency: concurrency,
	}
}

// AssimilateFiles assimilates every path concurrently
func (b *BatchProcessor) AssimilateFiles(ctx context.Context, a Assimilator, paths []string) []*AssimilateResult {
	jobs := make([]Job, len(paths))
	for i, path := range paths {
		jobs[i] = &AssimilateJob{Index: i, Path: path, Assimilator: a}
	}

	results := Run(ctx, b.concurrency, jobs)

	out := make([]*AssimilateResult, len(results))
	for i, result := range results {
		out[i] = result.(*AssimilateResult)
	}
	return out
}

// RecallContexts renders one recall report per context concurrently
func (b *BatchProcessor) RecallContexts(ctx context.Context, r Recaller, contexts []string) []*RecallResult {
	jobs := make([]Job, len(contexts))
	for i, c := range contexts {
		jobs[i] = &RecallJob{Index: i, Context: c, Recaller: r}
	}

	results := Run(ctx, b.concurrency, jobs)

	out := make([]*RecallResult, len(results))
	for i, result := range results {
		out[i] = result.(*RecallResult)
	}
	return out
}

// ReadLines reads non-empty, non-comment lines from a file, deduplicated
func ReadLines(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var lines []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			lines = append(lines, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return lines, nil
}
