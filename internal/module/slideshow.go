package module

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/alnah/go-course2pdf/internal/textformat"
)

// SlideshowRenderer renders slideshow activities, one block per slide.
type SlideshowRenderer struct{}

// Type implements Renderer.
func (SlideshowRenderer) Type() string { return "slideshow" }

// Render writes the slides in sort order. The slideshow intro is not part of
// the output; the exporter prints every activity intro itself.
func (SlideshowRenderer) Render(ctx context.Context, env Env, act Activity) (string, error) {
	slides, err := env.Data.Slides(ctx, act.Instance)
	if err != nil {
		return "", fmt.Errorf("slideshow %d: %w", act.Instance, err)
	}

	var b strings.Builder
	b.WriteString(`<div class="slideshow"><div class="slides">`)
	for _, s := range slides {
		content, err := env.Text.Format(ctx, s.Content, s.ContentFormat, textformat.Options{Trusted: true})
		if err != nil {
			return "", fmt.Errorf("slide %d: %w", s.ID, err)
		}
		b.WriteString(`<div class="slide"><h3>`)
		b.WriteString(html.EscapeString(s.Title))
		b.WriteString("</h3><div>")
		b.WriteString(content)
		b.WriteString("</div></div>")
	}
	b.WriteString("</div></div>")
	return b.String(), nil
}
