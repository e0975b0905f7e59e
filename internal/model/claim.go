package model

// Claim is a prescriptive span captured from a submission body
type Claim struct {
	Text    string `json:"text"`              // The captured span, trimmed
	Pattern string `json:"pattern,omitempty"` // Which extraction pattern matched (e.g., "modal:must")
}

// RejectReason explains why a submission produced no heuristic.
// Rejections are normal outcomes, not errors.
type RejectReason string

const (
	RejectNoResonance   RejectReason = "no_resonance"  // No voice reached the relevance gate
	RejectNoClaim       RejectReason = "no_claim"      // No prescriptive pattern matched
	RejectContradiction RejectReason = "contradiction" // Claim hit the contradiction denylist
)
