package score

import (
	"regexp"
	"strings"

	"github.com/ppiankov/noosphere/internal/model"
)

const (
	overlapWeight   = 0.4
	signatureWeight = 0.1
	markerWeight    = 0.05
)

// wordPattern matches runs of Unicode letters, digits and underscores
var wordPattern = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// Scorer calculates per-query relevance of heuristics
type Scorer struct{}

// NewScorer creates a new scorer
func NewScorer() *Scorer {
	return &Scorer{}
}

// Relevance scores h against a free-text context.
//
// Formula: 0.4 * |tokens(formulation) ∩ tokens(context)| / |tokens(formulation)|
// + 0.1 per matching signature (or indicator) + 0.05 per matching marker,
// clamped to 1.0. The formulation's token count is the denominator, so
// short, specific formulations score higher on partial overlap.
func (s *Scorer) Relevance(context string, h model.Heuristic) (float64, model.RelevanceBreakdown) {
	contextLower := strings.ToLower(context)
	var breakdown model.RelevanceBreakdown

	if h.Formulation != "" {
		keywords := tokenSet(h.Formulation)
		contextWords := tokenSet(contextLower)

		overlap := 0
		for w := range keywords {
			if contextWords[w] {
				overlap++
			}
		}

		size := len(keywords)
		if size == 0 {
			size = 1
		}
		breakdown.Overlap = float64(overlap) / float64(size) * overlapWeight
	}

	for _, sig := range h.Cues() {
		if entryMatches(contextLower, sig) {
			breakdown.SignatureMatches++
		}
	}

	for _, marker := range h.Markers {
		if entryMatches(contextLower, marker) {
			breakdown.MarkerMatches++
		}
	}

	breakdown.Raw = breakdown.Overlap +
		float64(breakdown.SignatureMatches)*signatureWeight +
		float64(breakdown.MarkerMatches)*markerWeight

	relevance := breakdown.Raw
	if relevance > 1.0 {
		relevance = 1.0
	}
	return relevance, breakdown
}

// Score wraps h with its relevance for context
func (s *Scorer) Score(context string, h model.Heuristic) model.ScoredHeuristic {
	relevance, breakdown := s.Relevance(context, h)
	return model.ScoredHeuristic{
		Heuristic: h,
		Relevance: relevance,
		Breakdown: breakdown,
	}
}

// tokenSet returns the lowercase word tokens of text
func tokenSet(text string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range wordPattern.FindAllString(strings.ToLower(text), -1) {
		set[w] = true
	}
	return set
}

// entryMatches reports whether any whitespace-separated word of entry
// occurs as a substring of the lowercased context
func entryMatches(contextLower string, entry string) bool {
	for _, word := range strings.Fields(strings.ToLower(entry)) {
		if strings.Contains(contextLower, word) {
			return true
		}
	}
	return false
}
