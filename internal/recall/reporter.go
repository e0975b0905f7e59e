package recall

import (
	"context"
)

// Reporter renders recall reports for many contexts sharing one query template
type Reporter struct {
	engine   *Engine
	template Query
	format   Format
}

// NewReporter creates a reporter. The template's Context is ignored.
func NewReporter(engine *Engine, template Query, format Format) *Reporter {
	return &Reporter{engine: engine, template: template, format: format}
}

// RecallReport recalls and renders the report for one context
func (r *Reporter) RecallReport(ctx context.Context, text string) (string, error) {
	q := r.template
	q.Context = text

	records, err := r.engine.Recall(ctx, q)
	if err != nil {
		return "", err
	}
	return Render(r.format, records), nil
}
