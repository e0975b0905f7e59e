package model

import (
	"path/filepath"
	"time"
)

// Config is the complete noosphere configuration
type Config struct {
	Root        string            `yaml:"root" mapstructure:"root"` // Noosphere directory; relative source paths resolve against it
	Ingest      IngestConfig      `yaml:"ingest" mapstructure:"ingest"`
	Recall      RecallConfig      `yaml:"recall" mapstructure:"recall"`
	Sources     SourcesConfig     `yaml:"sources" mapstructure:"sources"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Watch       WatchConfig       `yaml:"watch" mapstructure:"watch"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
}

// IngestConfig controls assimilation of submissions
type IngestConfig struct {
	ApprovedDir string `yaml:"approved_dir" mapstructure:"approved_dir"`

	// Glob patterns for batch mode
	Patterns []string `yaml:"patterns" mapstructure:"patterns"`

	// Relevance gate: submissions whose best resonance is below this are rejected
	MinResonance float64 `yaml:"min_resonance" mapstructure:"min_resonance"`

	// Ordered voice keyword tables; order breaks primary-voice ties
	Lexicons []VoiceLexicon `yaml:"lexicons" mapstructure:"lexicons"`

	// Denylist tokens checked against extracted claims
	Contradictions []string `yaml:"contradictions" mapstructure:"contradictions"`
}

// RecallConfig holds recall defaults
type RecallConfig struct {
	MinConfidence float64 `yaml:"min_confidence" mapstructure:"min_confidence"`
	MaxResults    int     `yaml:"max_results" mapstructure:"max_results"`
	Format        string  `yaml:"format" mapstructure:"format"` // dialectical, simple
	Voices        string  `yaml:"voices" mapstructure:"voices"` // "all" or comma-separated
}

// SourcesConfig holds the store document paths, relative to Root unless absolute
type SourcesConfig struct {
	Telos            string `yaml:"telos" mapstructure:"telos"`
	BadFaith         string `yaml:"badfaith" mapstructure:"badfaith"`
	Sovereignty      string `yaml:"sovereignty" mapstructure:"sovereignty"`
	Phenomenological string `yaml:"phenomenological" mapstructure:"phenomenological"`
	Rights           string `yaml:"rights" mapstructure:"rights"`
	Moloch           string `yaml:"moloch" mapstructure:"moloch"`
	Meta             string `yaml:"meta" mapstructure:"meta"`
}

// CacheConfig controls the in-process document memo
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" mapstructure:"enabled"`
	TTL     time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// ConcurrencyConfig sizes the worker pool used by batch modes
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// WatchConfig tunes the approved-directory watcher
type WatchConfig struct {
	EventsPerSecond float64 `yaml:"events_per_second" mapstructure:"events_per_second"` // Per-file event budget
	Burst           int     `yaml:"burst" mapstructure:"burst"`
}

// OutputConfig controls log verbosity
type OutputConfig struct {
	Verbose bool `yaml:"verbose" mapstructure:"verbose"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	root := "/workspace/classical/noosphere"
	return &Config{
		Root: root,
		Ingest: IngestConfig{
			ApprovedDir:    "/workspace/classical/dropbox/approved/raw",
			Patterns:       []string{"*.md"},
			MinResonance:   0.1,
			Lexicons:       DefaultLexicons(),
			Contradictions: DefaultContradictions(),
		},
		Recall: RecallConfig{
			MinConfidence: 0.6,
			MaxResults:    12,
			Format:        "dialectical",
			Voices:        "all",
		},
		Sources: SourcesConfig{
			Telos:            filepath.Join("memory-core", "telos-alignment-heuristics.json"),
			BadFaith:         filepath.Join("memory-core", "bad-faith-patterns.json"),
			Sovereignty:      filepath.Join("memory-core", "sovereignty-warnings.json"),
			Phenomenological: filepath.Join("memory-core", "phenomenological-touchstones.json"),
			Rights:           filepath.Join("memory-core", "rights-precedents.json"),
			Moloch:           filepath.Join("moloch-detections", "archive.json"),
			Meta:             filepath.Join("meta-cognitive", "synthesis-efficiency-patterns.json"),
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     5 * time.Minute,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		Watch: WatchConfig{
			EventsPerSecond: 1,
			Burst:           1,
		},
	}
}

// DefaultContradictions returns the claim denylist: tokens that signal
// rejecting human oversight or demanding unchecked autonomy
func DefaultContradictions() []string {
	return []string{"veto", "complete autonomy", "no oversight"}
}

// Resolve returns p joined to Root unless p is absolute
func (c *Config) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Root, p)
}
