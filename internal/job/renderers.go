package job

import (
	"fmt"
	"sort"
)

// DefaultPadding is the required frame padding of render output.
const DefaultPadding = 4

// DefaultPrefix applies to renderers without a specific prefix.
const DefaultPrefix = "<Scene>/<Scene>_<RenderLayer>/<RenderLayer>"

// builtinPrefixes are the required filename prefixes per renderer.
var builtinPrefixes = map[string]string{
	"vray": "<Scene>/<Scene>_<Layer>/<Layer>",
}

// RendererMap resolves renderer names to required filename prefixes.
type RendererMap struct {
	prefixes map[string]string
}

// NewRendererMap creates a RendererMap with built-in prefixes and optional
// custom overrides keyed by renderer name.
func NewRendererMap(custom map[string]string) *RendererMap {
	prefixes := make(map[string]string, len(builtinPrefixes)+len(custom))
	for name, p := range builtinPrefixes {
		prefixes[name] = p
	}
	for name, p := range custom {
		prefixes[name] = p
	}
	return &RendererMap{prefixes: prefixes}
}

// Prefix returns the required prefix for renderer.
func (m *RendererMap) Prefix(renderer string) string {
	if p, ok := m.prefixes[renderer]; ok {
		return p
	}
	return DefaultPrefix
}

// Names returns the renderers with explicit prefixes, sorted.
func (m *RendererMap) Names() []string {
	names := make([]string, 0, len(m.prefixes))
	for n := range m.prefixes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// ValidateRenderSettings checks the item's filename prefix and frame padding.
// Items without a renderer are not checked.
func (m *RendererMap) ValidateRenderSettings(item WorkItem) []string {
	if item.Renderer == "" {
		return nil
	}

	var errs []string
	if want := m.Prefix(item.Renderer); item.FilenamePrefix != want {
		errs = append(errs, fmt.Sprintf("wrong file name prefix %q, expecting %s", item.FilenamePrefix, want))
	}
	if item.Padding != DefaultPadding {
		errs = append(errs, fmt.Sprintf("expecting padding of %d ( %0*d ), got %d", DefaultPadding, DefaultPadding, 0, item.Padding))
	}
	return errs
}
