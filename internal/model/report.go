package model

// AssimilationReport is the document printed by the assimilate command
type AssimilationReport struct {
	AssimilatedCount int         `json:"assimilated_count"`
	DryRun           bool        `json:"dry_run"`
	Heuristics       []Heuristic `json:"heuristics"`
}

// NewAssimilationReport builds a report over the given records
func NewAssimilationReport(heuristics []Heuristic, dryRun bool) AssimilationReport {
	if heuristics == nil {
		heuristics = []Heuristic{}
	}
	return AssimilationReport{
		AssimilatedCount: len(heuristics),
		DryRun:           dryRun,
		Heuristics:       heuristics,
	}
}

// ScoredHeuristic pairs a heuristic with its per-query relevance.
// Relevance is transient and never persisted.
type ScoredHeuristic struct {
	Heuristic
	Relevance float64            `json:"relevance"`
	Breakdown RelevanceBreakdown `json:"breakdown"`
}

// RelevanceBreakdown keeps the individual contributions to a relevance score
// so a ranking can be explained
type RelevanceBreakdown struct {
	Overlap          float64 `json:"overlap"`           // 0.4 * |F ∩ C| / |F|
	SignatureMatches int     `json:"signature_matches"` // +0.1 each
	MarkerMatches    int     `json:"marker_matches"`    // +0.05 each
	Raw              float64 `json:"raw"`               // Sum before clamping
}
