package validate

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/ppiankov/noosphere/internal/model"
)

var (
	ErrEmptyFormulation = errors.New("empty formulation")
	ErrUnknownVoice     = errors.New("unknown voice")
	ErrConfidenceRange  = errors.New("confidence out of range")
)

// Record checks the invariants every heuristic must satisfy before it is
// ranked or emitted: non-empty formulation, an enumerated voice and a
// confidence in [0,1].
func Record(h model.Heuristic) error {
	if strings.TrimSpace(h.Formulation) == "" {
		return fmt.Errorf("heuristic %q: %w", h.HeuristicID, ErrEmptyFormulation)
	}
	if !h.Voice.IsKnown() {
		return fmt.Errorf("heuristic %q: %w: %q", h.HeuristicID, ErrUnknownVoice, h.Voice)
	}
	if math.IsNaN(h.Confidence) || h.Confidence < 0 || h.Confidence > 1 {
		return fmt.Errorf("heuristic %q: %w: %v", h.HeuristicID, ErrConfidenceRange, h.Confidence)
	}
	return nil
}
