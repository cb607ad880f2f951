package module

import (
	"fmt"
	"sort"
	"strings"
)

// Registry maps module type names to renderers. Names are matched
// case-insensitively. A Registry is immutable once built.
type Registry struct {
	renderers map[string]Renderer
}

// NewRegistry builds a Registry from renderers.
func NewRegistry(renderers ...Renderer) (*Registry, error) {
	m := make(map[string]Renderer, len(renderers))
	for _, r := range renderers {
		if r == nil {
			continue
		}
		name := strings.ToLower(strings.TrimSpace(r.Type()))
		if name == "" {
			return nil, fmt.Errorf("%w: empty type name", ErrUnsupportedType)
		}
		if _, exists := m[name]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateType, name)
		}
		m[name] = r
	}
	return &Registry{renderers: m}, nil
}

// DefaultRegistry returns a Registry with every built-in renderer.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(PageRenderer{}, GlossaryRenderer{}, SlideshowRenderer{}, SimpleQuizRenderer{})
	if err != nil {
		panic(err) // built-in names are distinct
	}
	return r
}

// Resolve returns the renderer for name or an error wrapping
// ErrUnsupportedType.
func (r *Registry) Resolve(name string) (Renderer, error) {
	if rr, ok := r.renderers[strings.ToLower(name)]; ok {
		return rr, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, name)
}

// Supports reports whether name has a renderer.
func (r *Registry) Supports(name string) bool {
	_, ok := r.renderers[strings.ToLower(name)]
	return ok
}

// Supported returns the registered type names, sorted.
func (r *Registry) Supported() []string {
	names := make([]string, 0, len(r.renderers))
	for name := range r.renderers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
