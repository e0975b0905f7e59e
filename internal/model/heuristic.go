package model

import "math"

// Heuristic is a confidence-scored prescriptive statement with provenance.
// The JSON field names are the storage contract shared by assimilation and recall.
type Heuristic struct {
	HeuristicID string  `json:"heuristic_id"`
	Formulation string  `json:"formulation"`
	Voice       Voice   `json:"voice"`
	Confidence  float64 `json:"confidence"`
	Status      string  `json:"status,omitempty"`
	Category    string  `json:"category,omitempty"`

	// Optional fields carried through from stores when present
	Signatures     []string `json:"signatures,omitempty"`
	Indicators     []string `json:"indicators,omitempty"`
	Markers        []string `json:"markers,omitempty"`
	Evidence       []any    `json:"evidence,omitempty"`
	Contradictions []any    `json:"contradictions"`

	// Set by assimilation only
	Source         string            `json:"source,omitempty"`
	VoiceResonance map[Voice]float64 `json:"voice_resonance,omitempty"`
	DerivedFrom    string            `json:"derived_from,omitempty"`
	LastValidated  string            `json:"last_validated,omitempty"`
}

// Cues returns the signature-like entries used for relevance scoring:
// signatures when present, otherwise indicators.
func (h Heuristic) Cues() []string {
	if len(h.Signatures) > 0 {
		return h.Signatures
	}
	return h.Indicators
}

// ClampConfidence bounds c to [0,1]. NaN becomes 0.
func ClampConfidence(c float64) float64 {
	if math.IsNaN(c) || c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}

const (
	// StatusCommunityDerived marks records produced by assimilation
	StatusCommunityDerived = "community-derived"

	// CommunityConfidence is the provisional confidence of every assimilated record
	CommunityConfidence = 0.5
)
