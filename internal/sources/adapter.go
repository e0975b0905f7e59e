package sources

import (
	"github.com/ppiankov/noosphere/internal/model"
)

// Adapter normalizes one heuristic store document into common records
type Adapter interface {
	// Name returns the source name
	Name() string

	// Voice returns the voice stamped on every record of this source
	Voice() model.Voice

	// Category returns the category stamped on every record of this source
	Category() string

	// Normalize converts a decoded document into records. It never fails:
	// anything it cannot interpret contributes no records.
	Normalize(doc map[string]any) []model.Heuristic
}

// Source binds an adapter to the document it reads
type Source struct {
	Adapter
	Path string
}

// Registry holds the heuristic stores in load order
type Registry struct {
	sources []Source
}

// NewRegistry creates a registry over the built-in stores, resolving each
// configured path against cfg.Root. Load order is fixed.
func NewRegistry(cfg *model.Config) *Registry {
	s := cfg.Sources
	registry := &Registry{}

	registry.Register(NewPassThroughAdapter("telos", model.VoiceClassical, "telos"), cfg.Resolve(s.Telos))
	registry.Register(NewPassThroughAdapter("badfaith", model.VoiceExistentialist, "badfaith"), cfg.Resolve(s.BadFaith))
	registry.Register(NewSovereigntyAdapter(), cfg.Resolve(s.Sovereignty))
	registry.Register(NewPassThroughAdapter("phenomenological", model.VoiceJoyceStream, "phenomenological"), cfg.Resolve(s.Phenomenological))
	registry.Register(NewRightsAdapter(), cfg.Resolve(s.Rights))
	registry.Register(NewMolochAdapter(), cfg.Resolve(s.Moloch))
	registry.Register(NewPassThroughAdapter("meta", model.VoiceMetaCognitive, "meta"), cfg.Resolve(s.Meta))

	return registry
}

// Register appends a source. Sources load in registration order.
// A blank path disables the source.
func (r *Registry) Register(adapter Adapter, path string) {
	if path == "" {
		return
	}
	r.sources = append(r.sources, Source{Adapter: adapter, Path: path})
}

// Sources returns the registered sources in load order
func (r *Registry) Sources() []Source {
	out := make([]Source, len(r.sources))
	copy(out, r.sources)
	return out
}
