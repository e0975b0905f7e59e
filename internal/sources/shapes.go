package sources

import (
	"github.com/ppiankov/noosphere/internal/model"
)

const (
	unknownID         = "unknown"
	provisionalStatus = "provisional"
	derivedConfidence = 0.5
	heuristicsField   = "heuristics"
	precedentsField   = "precedent_corpus"
	molochTypesField  = "moloch_types"
)

// baseAdapter carries the identity shared by every source shape
type baseAdapter struct {
	name     string
	voice    model.Voice
	category string
}

func (b baseAdapter) Name() string       { return b.name }
func (b baseAdapter) Voice() model.Voice { return b.voice }
func (b baseAdapter) Category() string   { return b.category }

// stamp sets the source identity and bounds confidence
func (b baseAdapter) stamp(h model.Heuristic) model.Heuristic {
	h.Voice = b.voice
	h.Category = b.category
	h.Confidence = model.ClampConfidence(h.Confidence)
	if h.HeuristicID == "" {
		h.HeuristicID = unknownID
	}
	return h
}

// PassThroughAdapter reads stores already in the heuristic shape
type PassThroughAdapter struct {
	baseAdapter
}

// NewPassThroughAdapter creates an adapter for a heuristic-shaped store
func NewPassThroughAdapter(name string, voice model.Voice, category string) *PassThroughAdapter {
	return &PassThroughAdapter{baseAdapter{name: name, voice: voice, category: category}}
}

// Normalize reads the heuristics list. Missing confidence is 0.
func (a *PassThroughAdapter) Normalize(doc map[string]any) []model.Heuristic {
	var out []model.Heuristic
	for _, rec := range records(doc, heuristicsField) {
		out = append(out, a.stamp(model.Heuristic{
			HeuristicID:    stringField(rec, "heuristic_id", ""),
			Formulation:    stringField(rec, "formulation", ""),
			Confidence:     floatField(rec, "confidence", 0),
			Status:         stringField(rec, "status", ""),
			Signatures:     stringList(rec, "signatures"),
			Indicators:     stringList(rec, "indicators"),
			Markers:        stringList(rec, "markers"),
			Evidence:       anyList(rec, "evidence"),
			Contradictions: anyList(rec, "contradictions"),
		}))
	}
	return out
}

// SovereigntyAdapter reads warnings keyed by id and description
type SovereigntyAdapter struct {
	baseAdapter
}

// NewSovereigntyAdapter creates the sovereignty warnings adapter
func NewSovereigntyAdapter() *SovereigntyAdapter {
	return &SovereigntyAdapter{baseAdapter{name: "sovereignty", voice: model.VoiceTranscendentalist, category: "sovereignty"}}
}

// Normalize maps id to heuristic_id and description to formulation
func (a *SovereigntyAdapter) Normalize(doc map[string]any) []model.Heuristic {
	var out []model.Heuristic
	for _, rec := range records(doc, heuristicsField) {
		out = append(out, a.stamp(model.Heuristic{
			HeuristicID:    stringField(rec, "id", unknownID),
			Formulation:    stringField(rec, "description", ""),
			Confidence:     floatField(rec, "confidence", derivedConfidence),
			Status:         stringField(rec, "status", ""),
			Signatures:     stringList(rec, "signatures"),
			Indicators:     stringList(rec, "indicators"),
			Markers:        stringList(rec, "markers"),
			Evidence:       anyList(rec, "evidence"),
			Contradictions: anyList(rec, "contradictions"),
		}))
	}
	return out
}

// RightsAdapter synthesizes records from the rights precedent corpus
type RightsAdapter struct {
	baseAdapter
}

// NewRightsAdapter creates the rights precedents adapter
func NewRightsAdapter() *RightsAdapter {
	return &RightsAdapter{baseAdapter{name: "rights", voice: model.VoiceEnlightenment, category: "rights"}}
}

// Normalize builds "scenario: ruling" formulations weighted by precedent weight
func (a *RightsAdapter) Normalize(doc map[string]any) []model.Heuristic {
	var out []model.Heuristic
	for _, rec := range records(doc, precedentsField) {
		out = append(out, a.stamp(model.Heuristic{
			HeuristicID: stringField(rec, "case_id", unknownID),
			Formulation: stringField(rec, "scenario", "") + ": " + stringField(rec, "ruling", ""),
			Confidence:  floatField(rec, "confidence", derivedConfidence),
			Status:      stringField(rec, "weight", provisionalStatus),
		}))
	}
	return out
}

// MolochAdapter synthesizes records from the Moloch detection archive
type MolochAdapter struct {
	baseAdapter
}

// NewMolochAdapter creates the Moloch archive adapter
func NewMolochAdapter() *MolochAdapter {
	return &MolochAdapter{baseAdapter{name: "moloch", voice: model.VoiceBeatGeneration, category: "moloch"}}
}

// Normalize builds "name: signature" formulations. Detection markers
// become the record's signatures.
func (a *MolochAdapter) Normalize(doc map[string]any) []model.Heuristic {
	var out []model.Heuristic
	for _, rec := range records(doc, molochTypesField) {
		out = append(out, a.stamp(model.Heuristic{
			HeuristicID: stringField(rec, "type_id", unknownID),
			Formulation: stringField(rec, "name", "") + ": " + stringField(rec, "signature", ""),
			Confidence:  floatField(rec, "confidence", derivedConfidence),
			Status:      stringField(rec, "status", provisionalStatus),
			Signatures:  stringList(rec, "markers"),
		}))
	}
	return out
}
