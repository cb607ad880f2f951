package module

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/alnah/go-course2pdf/internal/textformat"
)

// GlossaryRenderer renders glossary activities as a list of concepts.
type GlossaryRenderer struct{}

// Type implements Renderer.
func (GlossaryRenderer) Type() string { return "glossary" }

// Render writes one heading per concept followed by its definition.
// Definitions may come from students and are sanitized.
func (GlossaryRenderer) Render(ctx context.Context, env Env, act Activity) (string, error) {
	entries, err := env.Data.GlossaryEntries(ctx, act.Instance)
	if err != nil {
		return "", fmt.Errorf("glossary %d: %w", act.Instance, err)
	}

	var b strings.Builder
	b.WriteString("<div>")
	for _, e := range entries {
		def, err := env.Text.Format(ctx, e.Definition, e.DefinitionFormat, textformat.Options{})
		if err != nil {
			return "", fmt.Errorf("glossary entry %d: %w", e.ID, err)
		}
		b.WriteString("<h3>")
		b.WriteString(html.EscapeString(e.Concept))
		b.WriteString("</h3><span>")
		b.WriteString(def)
		b.WriteString("</span>")
	}
	b.WriteString("</div>")
	return b.String(), nil
}
