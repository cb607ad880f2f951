package pipeline

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// DefaultInertScriptType marks the script placeholders a client-side math
// filter leaves behind. They have no meaning in a static document.
const DefaultInertScriptType = "math/tex"

// Fragment is a parsed HTML fragment. It is owned by a single
// normalization pass and must not be shared.
type Fragment struct {
	root *html.Node
	raw  string // set when the parser gave up; rendered verbatim
}

// ParseFragment parses content permissively in a body context. Malformed
// markup is repaired by the parser; parse errors are never returned.
func ParseFragment(content string) *Fragment {
	context := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Body,
		Data:     "body",
	}
	nodes, err := html.ParseFragment(strings.NewReader(content), context)
	if err != nil {
		return &Fragment{raw: content}
	}

	// A document node gives traversal a single root.
	root := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		root.AppendChild(n)
	}
	return &Fragment{root: root}
}

// Root returns the container of the top-level nodes, or nil if the
// fragment could not be parsed.
func (f *Fragment) Root() *html.Node {
	return f.root
}

// Render serializes the top-level nodes.
func (f *Fragment) Render() (string, error) {
	if f.root == nil {
		return f.raw, nil
	}

	var buf strings.Builder
	for c := f.root.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

// Sanitizer removes nodes that must not reach the printed document.
type Sanitizer struct {
	inertType string
}

// NewSanitizer creates a Sanitizer removing scripts whose type attribute
// equals inertType. An empty inertType uses DefaultInertScriptType.
func NewSanitizer(inertType string) *Sanitizer {
	if inertType == "" {
		inertType = DefaultInertScriptType
	}
	return &Sanitizer{inertType: inertType}
}

// StripInertScripts removes every inert script from f and returns how many
// were removed. Other nodes keep their order.
func (s *Sanitizer) StripInertScripts(f *Fragment) int {
	if f.root == nil {
		return 0
	}

	sel := goquery.NewDocumentFromNode(f.root).
		Find("script").
		FilterFunction(func(_ int, script *goquery.Selection) bool {
			typ, _ := script.Attr("type")
			return typ == s.inertType
		})

	// Snapshot first; removing while iterating a live list skips nodes.
	nodes := append([]*html.Node(nil), sel.Nodes...)
	for i := len(nodes) - 1; i >= 0; i-- {
		if n := nodes[i]; n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
	}
	return len(nodes)
}

// Wrap encloses a serialized fragment in a block container.
func Wrap(content string) string {
	return "<div>" + content + "</div>"
}

// SanitizeCSS escapes "</" so style content cannot close its <style> block.
func SanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}
