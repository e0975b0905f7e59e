package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ppiankov/noosphere/internal/model"
)

type claimPattern struct {
	name string
	re   *regexp.Regexp
}

// ClaimExtractor captures prescriptive claims from free text
type ClaimExtractor struct {
	patterns []claimPattern
}

// NewClaimExtractor creates a claim extractor with the built-in prescriptive patterns.
// Pattern order matters only for tie-breaking between equally long captures.
func NewClaimExtractor() *ClaimExtractor {
	return &ClaimExtractor{
		patterns: []claimPattern{
			{name: "modal", re: regexp.MustCompile(`(?i)(?:should|must|ought to|need to) ([^.]+)`)},
			{name: "requirement", re: regexp.MustCompile(`(?i)(?:requires?|demands?|necessitates?) ([^.]+)`)},
			{name: "principle", re: regexp.MustCompile(`(?i)(?:the|a) (?:principle|rule|guideline) (?:is|that) ([^.]+)`)},
			{name: "agent-modal", re: regexp.MustCompile(`(?i)(?:we|ai systems|humans) (?:should|must) ([^.]+)`)},
		},
	}
}

// Extract returns every captured claim span, pattern by pattern, in match order
func (e *ClaimExtractor) Extract(text string) []model.Claim {
	var claims []model.Claim
	for _, p := range e.patterns {
		for _, m := range p.re.FindAllStringSubmatch(text, -1) {
			claims = append(claims, model.Claim{
				Text:    m[1],
				Pattern: p.name,
			})
		}
	}
	return claims
}

// Formulation picks the longest captured claim as the heuristic formulation.
// The first capture wins ties. Returns false when nothing matched.
func (e *ClaimExtractor) Formulation(text string) (model.Claim, bool) {
	claims := e.Extract(text)
	if len(claims) == 0 {
		return model.Claim{}, false
	}

	best := claims[0]
	bestLen := utf8.RuneCountInString(best.Text)
	for _, c := range claims[1:] {
		if n := utf8.RuneCountInString(c.Text); n > bestLen {
			best, bestLen = c, n
		}
	}

	best.Text = strings.TrimSpace(best.Text)
	if best.Text == "" {
		return model.Claim{}, false
	}
	return best, true
}
