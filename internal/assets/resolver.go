package assets

import "errors"

// Resolver combines a custom filesystem loader with the embedded assets.
// Custom assets take precedence; a missing custom asset falls back to the
// embedded one with the same name.
type Resolver struct {
	custom   Loader // nil if no custom path configured
	embedded Loader
}

// NewResolver creates a Resolver.
// If customBasePath is empty, only embedded assets are used.
// Returns error if customBasePath is set but invalid.
func NewResolver(customBasePath string) (*Resolver, error) {
	r := &Resolver{embedded: NewEmbeddedLoader()}

	if customBasePath != "" {
		fsLoader, err := NewFilesystemLoader(customBasePath)
		if err != nil {
			return nil, err
		}
		r.custom = fsLoader
	}
	return r, nil
}

// LoadStyle loads a CSS style, trying the custom loader first.
func (r *Resolver) LoadStyle(name string) (string, error) {
	return r.loadWithFallback(func(l Loader) (string, error) {
		return l.LoadStyle(name)
	})
}

// LoadTemplate loads an HTML template, trying the custom loader first.
func (r *Resolver) LoadTemplate(name string) (string, error) {
	return r.loadWithFallback(func(l Loader) (string, error) {
		return l.LoadTemplate(name)
	})
}

func (r *Resolver) loadWithFallback(load func(Loader) (string, error)) (string, error) {
	if r.custom == nil {
		return load(r.embedded)
	}

	content, err := load(r.custom)
	if err == nil {
		return content, nil
	}

	// Validation and I/O errors are not masked by the fallback.
	if !isNotFoundError(err) {
		return "", err
	}
	return load(r.embedded)
}

func isNotFoundError(err error) bool {
	return errors.Is(err, ErrStyleNotFound) || errors.Is(err, ErrTemplateNotFound)
}

// HasCustomLoader reports whether a custom asset directory is configured.
func (r *Resolver) HasCustomLoader() bool {
	return r.custom != nil
}

// Compile-time interface check.
var _ Loader = (*Resolver)(nil)
