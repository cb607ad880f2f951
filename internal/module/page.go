package module

import (
	"context"
	"fmt"

	"github.com/alnah/go-course2pdf/internal/textformat"
)

// PageRenderer renders page activities.
type PageRenderer struct{}

// Type implements Renderer.
func (PageRenderer) Type() string { return "page" }

// Render returns the formatted page content. Page content is authored by
// teachers and formatted as trusted text.
func (PageRenderer) Render(ctx context.Context, env Env, act Activity) (string, error) {
	page, err := env.Data.Page(ctx, act.Instance)
	if err != nil {
		return "", fmt.Errorf("page %d: %w", act.Instance, err)
	}
	content, err := env.Text.Format(ctx, page.Content, page.ContentFormat, textformat.Options{Trusted: true})
	if err != nil {
		return "", fmt.Errorf("page %d: %w", act.Instance, err)
	}
	return content, nil
}
