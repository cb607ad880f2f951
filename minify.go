package course2pdf

import (
	"fmt"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	minhtml "github.com/tdewolff/minify/v2/html"
)

// newMinifier returns a minifier for the final document. Document and end
// tags are kept so the browser sees the same structure as the unminified
// output.
func newMinifier() *minify.M {
	m := minify.New()
	m.AddFunc("text/css", css.Minify)
	m.Add("text/html", &minhtml.Minifier{
		KeepDocumentTags:    true,
		KeepEndTags:         true,
		KeepQuotes:          true,
		KeepDefaultAttrVals: true,
	})
	return m
}

func minifyHTML(m *minify.M, doc string) (string, error) {
	out, err := m.String("text/html", doc)
	if err != nil {
		return "", fmt.Errorf("minifying HTML: %w", err)
	}
	return out, nil
}
