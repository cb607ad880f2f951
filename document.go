package course2pdf

import (
	"bytes"
	"fmt"
	"html"
	"html/template"
	"strings"

	"github.com/alnah/go-course2pdf/internal/assets"
)

// coverData feeds the cover template.
type coverData struct {
	Title       string
	TitleStyle  template.CSS
	RuleStyle   template.CSS
	AuthorLabel string
	Authors     []string
	Date        string
	EnrolURL    string
	EnrolLabel  string
}

// documentData feeds the document template.
type documentData struct {
	Lang    string
	Title   string
	CSS     template.CSS
	Cover   template.HTML
	Outline template.HTML
	Body    template.HTML
}

// documentBuilder renders the cover and the final HTML document from the
// cover and document templates.
type documentBuilder struct {
	cover    *template.Template
	document *template.Template
}

func newDocumentBuilder(loader assets.Loader) (*documentBuilder, error) {
	cover, err := parseTemplate(loader, assets.CoverTemplateName)
	if err != nil {
		return nil, err
	}
	document, err := parseTemplate(loader, assets.DocumentTemplateName)
	if err != nil {
		return nil, err
	}
	return &documentBuilder{cover: cover, document: document}, nil
}

func parseTemplate(loader assets.Loader, name string) (*template.Template, error) {
	src, err := loader.LoadTemplate(name)
	if err != nil {
		return nil, fmt.Errorf("loading %s template: %w", name, err)
	}
	t, err := template.New(name).Parse(src)
	if err != nil {
		return nil, fmt.Errorf("parsing %s template: %w", name, err)
	}
	return t, nil
}

func (d *documentBuilder) renderCover(data coverData) (string, error) {
	var buf bytes.Buffer
	if err := d.cover.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: cover: %v", ErrTemplateRender, err)
	}
	return buf.String(), nil
}

func (d *documentBuilder) render(data documentData) (string, error) {
	var buf bytes.Buffer
	if err := d.document.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: document: %v", ErrTemplateRender, err)
	}
	return buf.String(), nil
}

// coverStyles returns the inline styles of the cover title and rule.
func coverStyles() (title, rule template.CSS) {
	title = template.CSS(fontCoverTitle.CSS() + "; color: " + colorCoverTitle.CSS())
	rule = template.CSS("border-top-color: " + colorSeparator.CSS())
	return title, rule
}

// buildOutline renders bookmarks of level 1 and deeper as nested ordered
// lists linking to their anchors. Level 0 marks the document itself.
func buildOutline(title string, marks []bookmark) string {
	var b strings.Builder
	depth := 0
	for _, m := range marks {
		if m.Level < 1 {
			continue
		}
		if m.Level > depth {
			for depth < m.Level {
				b.WriteString("<ol>")
				depth++
				if depth < m.Level {
					b.WriteString("<li>")
				}
			}
		} else {
			b.WriteString("</li>")
			for depth > m.Level {
				b.WriteString("</ol></li>")
				depth--
			}
		}
		fmt.Fprintf(&b, `<li><a href="#%s">%s</a>`, m.ID, html.EscapeString(m.Title))
	}
	if depth == 0 {
		return ""
	}
	for ; depth > 0; depth-- {
		b.WriteString("</li></ol>")
	}

	heading := ""
	if title != "" {
		heading = "<h2>" + html.EscapeString(title) + "</h2>"
	}
	return `<nav class="outline">` + heading + b.String() + `</nav>`
}
