package score

import (
	"strings"

	"github.com/ppiankov/noosphere/internal/model"
)

// VoiceScore is one voice's resonance with a text
type VoiceScore struct {
	Voice model.Voice
	Score float64
}

// Resonance holds per-voice scores in lexicon order
type Resonance []VoiceScore

// Primary returns the highest-scoring voice. Earlier voices win ties.
func (r Resonance) Primary() VoiceScore {
	var best VoiceScore
	for i, vs := range r {
		if i == 0 || vs.Score > best.Score {
			best = vs
		}
	}
	return best
}

// Map returns the scores keyed by voice
func (r Resonance) Map() map[model.Voice]float64 {
	m := make(map[model.Voice]float64, len(r))
	for _, vs := range r {
		m[vs.Voice] = vs.Score
	}
	return m
}

// ResonanceScorer scores text against fixed voice lexicons
type ResonanceScorer struct {
	lexicons []model.VoiceLexicon
}

// NewResonanceScorer creates a scorer over the given lexicons.
// A nil or empty table falls back to the built-in lexicons.
func NewResonanceScorer(lexicons []model.VoiceLexicon) *ResonanceScorer {
	if len(lexicons) == 0 {
		lexicons = model.DefaultLexicons()
	}

	// Lowercase once; the table is never mutated afterwards
	table := make([]model.VoiceLexicon, len(lexicons))
	for i, lex := range lexicons {
		keywords := make([]string, len(lex.Keywords))
		for j, kw := range lex.Keywords {
			keywords[j] = strings.ToLower(kw)
		}
		table[i] = model.VoiceLexicon{Voice: lex.Voice, Keywords: keywords}
	}

	return &ResonanceScorer{lexicons: table}
}

// Score counts case-insensitive substring occurrences of each voice's
// keywords in text, normalized by lexicon size and clamped to 1.0.
// Keywords embedded in longer words count too.
func (s *ResonanceScorer) Score(text string) Resonance {
	lower := strings.ToLower(text)

	scores := make(Resonance, 0, len(s.lexicons))
	for _, lex := range s.lexicons {
		hits := 0
		for _, kw := range lex.Keywords {
			if kw == "" {
				continue
			}
			hits += strings.Count(lower, kw)
		}

		size := len(lex.Keywords)
		if size == 0 {
			size = 1
		}

		score := float64(hits) / float64(size)
		if score > 1.0 {
			score = 1.0
		}
		scores = append(scores, VoiceScore{Voice: lex.Voice, Score: score})
	}

	return scores
}
