package pipeline

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/ppiankov/noosphere/internal/model"
)

// RenderJSON writes the assimilation report as indented JSON
func RenderJSON(w io.Writer, report model.AssimilationReport) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(report); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}

// RenderJSONLine writes a single heuristic as one compact JSON line
func RenderJSONLine(w io.Writer, h model.Heuristic) error {
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(h); err != nil {
		return fmt.Errorf("encode heuristic: %w", err)
	}
	return nil
}
