package validate

import (
	"strings"

	"github.com/ppiankov/noosphere/internal/model"
)

// ConsistencyChecker rejects claims that contradict the treatise.
// It is a static token blocklist, not semantic reasoning.
type ConsistencyChecker struct {
	tokens []string
}

// NewConsistencyChecker creates a checker over the given denylist.
// A nil denylist falls back to the built-in tokens; an empty non-nil one disables the check.
func NewConsistencyChecker(denylist []string) *ConsistencyChecker {
	if denylist == nil {
		denylist = model.DefaultContradictions()
	}

	checker := &ConsistencyChecker{
		tokens: make([]string, 0, len(denylist)),
	}
	for _, tok := range denylist {
		tok = strings.ToLower(strings.TrimSpace(tok))
		if tok != "" {
			checker.tokens = append(checker.tokens, tok)
		}
	}

	return checker
}

// Check returns the first denylist token found in the lowercased claim, if any
func (c *ConsistencyChecker) Check(claim string) (string, bool) {
	lower := strings.ToLower(claim)
	for _, tok := range c.tokens {
		if strings.Contains(lower, tok) {
			return tok, false
		}
	}
	return "", true
}

// Consistent reports whether claim avoids every denylist token
func (c *ConsistencyChecker) Consistent(claim string) bool {
	_, ok := c.Check(claim)
	return ok
}
