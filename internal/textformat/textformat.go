// Package textformat turns stored rich text into HTML fit for embedding in
// the exported document. Each stored text carries a format code saying how
// it was authored.
package textformat

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// Format is a stored text format code.
type Format int

// Format codes as stored alongside each text field.
const (
	FormatMoodle   Format = 0 // auto-format: HTML allowed, newlines are breaks
	FormatHTML     Format = 1
	FormatPlain    Format = 2
	FormatMarkdown Format = 4
)

func (f Format) String() string {
	switch f {
	case FormatMoodle:
		return "moodle"
	case FormatHTML:
		return "html"
	case FormatPlain:
		return "plain"
	case FormatMarkdown:
		return "markdown"
	}
	return fmt.Sprintf("format(%d)", int(f))
}

// Sentinel errors for formatting.
var (
	ErrUnknownFormat = errors.New("unknown text format")
	ErrConversion    = errors.New("text conversion failed")
)

// Options controls how a text is filtered.
type Options struct {
	// Trusted skips sanitizing. Use it only for content authored by
	// people allowed to embed arbitrary HTML in the course.
	Trusted bool
}

// Formatter formats stored text. Safe for concurrent use.
type Formatter struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

// New creates a Formatter with GFM markdown, syntax highlighting and a
// user-generated-content sanitizing policy.
func New() *Formatter {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle("github"),
				highlighting.WithFormatOptions(
					// Inline styles: the printed document has no chroma stylesheet.
					chromahtml.WithClasses(false),
				),
			),
		),
		goldmark.WithRendererOptions(
			gmhtml.WithHardWraps(),
			gmhtml.WithXHTML(),
		),
	)

	return &Formatter{md: md, policy: newPolicy()}
}

func newPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowStyles(
		"color", "background-color", "font-size", "font-weight", "font-style",
		"text-align", "text-decoration", "width", "height", "margin", "padding",
		"line-height",
	).Globally()
	p.AllowAttrs("width", "height").OnElements("table", "td", "th", "col")
	return p
}

// Format converts text authored in format to HTML.
func (f *Formatter) Format(ctx context.Context, text string, format Format, opts Options) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var out string
	switch format {
	case FormatHTML:
		out = text
	case FormatMoodle:
		out = autoFormat(text)
	case FormatPlain:
		// Escaped already; nothing left to sanitize.
		return plainToHTML(text), nil
	case FormatMarkdown:
		var err error
		if out, err = f.markdown(ctx, text); err != nil {
			return "", err
		}
	default:
		return "", fmt.Errorf("%w: %d", ErrUnknownFormat, int(format))
	}

	if opts.Trusted {
		return out, nil
	}
	return f.policy.Sanitize(out), nil
}

// markdown converts in a goroutine so a canceled context is honoured even
// though goldmark itself does not take one.
func (f *Formatter) markdown(ctx context.Context, text string) (string, error) {
	type result struct {
		html string
		err  error
	}
	done := make(chan result, 1)

	go func() {
		var buf bytes.Buffer
		if err := f.md.Convert([]byte(text), &buf); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrConversion, err)}
			return
		}
		done <- result{html: buf.String()}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.html, r.err
	}
}

func normalizeNewlines(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "\r\n", "\n"), "\r", "\n")
}

// autoFormat keeps embedded HTML and turns line breaks into <br />.
func autoFormat(text string) string {
	text = strings.TrimSpace(normalizeNewlines(text))
	if text == "" {
		return ""
	}
	return `<div class="text_to_html">` + strings.ReplaceAll(text, "\n", "<br />\n") + `</div>`
}

// plainToHTML escapes text and keeps its line breaks and runs of spaces.
func plainToHTML(text string) string {
	text = html.EscapeString(normalizeNewlines(text))
	text = strings.ReplaceAll(text, "  ", " &nbsp;")
	return strings.ReplaceAll(text, "\n", "<br />")
}
