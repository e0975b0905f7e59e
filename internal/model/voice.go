package model

// Voice is a named perspective used to score submissions and to group recalled heuristics
type Voice string

const (
	VoiceClassical         Voice = "Classical"
	VoiceExistentialist    Voice = "Existentialist"
	VoiceTranscendentalist Voice = "Transcendentalist"
	VoiceJoyceStream       Voice = "JoyceStream"
	VoiceEnlightenment     Voice = "Enlightenment"
	VoiceBeatGeneration    Voice = "BeatGeneration"

	// Retrieval-only voices
	VoiceMetaCognitive Voice = "Meta-Cognitive"
	VoiceUnknown       Voice = "Unknown" // Group label for records that carry no voice
)

// AllVoices lists every voice in enumeration order
var AllVoices = []Voice{
	VoiceClassical,
	VoiceExistentialist,
	VoiceTranscendentalist,
	VoiceJoyceStream,
	VoiceEnlightenment,
	VoiceBeatGeneration,
	VoiceMetaCognitive,
	VoiceUnknown,
}

// IsKnown reports whether v is one of the enumerated voices
func (v Voice) IsKnown() bool {
	for _, known := range AllVoices {
		if v == known {
			return true
		}
	}
	return false
}

func (v Voice) String() string {
	return string(v)
}

// VoiceLexicon is the keyword set a voice owns for resonance scoring
type VoiceLexicon struct {
	Voice    Voice    `json:"voice" yaml:"voice" mapstructure:"voice"`
	Keywords []string `json:"keywords" yaml:"keywords" mapstructure:"keywords"`
}

// DefaultLexicons returns the ingestion lexicons in enumeration order.
// Order matters: it breaks ties when picking the primary voice.
func DefaultLexicons() []VoiceLexicon {
	return []VoiceLexicon{
		{Voice: VoiceClassical, Keywords: []string{"virtue", "telos", "flourishing", "eudaimonia", "excellence", "character", "arete"}},
		{Voice: VoiceExistentialist, Keywords: []string{"authenticity", "bad faith", "freedom", "responsibility", "angst", "choice", "agency"}},
		{Voice: VoiceTranscendentalist, Keywords: []string{"sovereignty", "self-reliance", "autonomy", "democratic", "consent", "individual"}},
		{Voice: VoiceJoyceStream, Keywords: []string{"experience", "feeling", "phenomenological", "consciousness", "lived", "embodied", "somatic"}},
		{Voice: VoiceEnlightenment, Keywords: []string{"rights", "justice", "fairness", "liberty", "equality", "contract", "consent"}},
		{Voice: VoiceBeatGeneration, Keywords: []string{"control", "system", "moloch", "resist", "corporate", "commercial", "exploitation"}},
	}
}
