package pipeline

import (
	"fmt"
	"html"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	xhtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/alnah/go-course2pdf/internal/symbols"
)

// AssetChecker reports whether an image exists for an emoji asset key and
// returns a reference to it.
type AssetChecker interface {
	Lookup(key string) (ref string, ok bool)
}

// emojiFiller takes the place of the space an inline image would otherwise
// lack, so wrapping matches text where the emoji followed a space.
const emojiFiller = "&#12288;"

const emojiImageFormat = `<img src="%s" alt="" width="1.35em" height="1.35em">`

// EmojiRewriter replaces emoji clusters with inline images.
type EmojiRewriter struct {
	tables *symbols.Tables
	assets AssetChecker
	logger *zap.Logger
}

// NewEmojiRewriter creates an EmojiRewriter. A nil assets drops every
// emoji; a nil logger discards logs.
func NewEmojiRewriter(tables *symbols.Tables, assets AssetChecker, logger *zap.Logger) *EmojiRewriter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmojiRewriter{tables: tables, assets: assets, logger: logger}
}

// Rewrite replaces every table emoji in content, which must be escaped
// text rather than markup. Buckets are applied longest first so a sequence
// is never split by one of its prefixes.
// A cluster after a space keeps the space; any other cluster gets the
// filler. Emoji without an image are replaced by the space or filler alone.
func (r *EmojiRewriter) Rewrite(content string) string {
	if !hasNonASCII(content) {
		return content
	}

	for _, bucket := range r.tables.Buckets() {
		var pairs []string
		for _, e := range bucket.Emoji {
			if !strings.Contains(content, e.Cluster) {
				continue
			}
			img := r.image(e)
			// Argument order gives the spaced form priority at the same offset.
			pairs = append(pairs, " "+e.Cluster, " "+img, e.Cluster, emojiFiller+img)
		}
		if len(pairs) > 0 {
			content = strings.NewReplacer(pairs...).Replace(content)
		}
	}
	return content
}

func (r *EmojiRewriter) image(e symbols.Emoji) string {
	if r.assets == nil {
		return ""
	}
	ref, ok := r.assets.Lookup(e.Key)
	if !ok {
		r.logger.Debug("emoji image missing", zap.String("key", e.Key))
		return ""
	}
	return fmt.Sprintf(emojiImageFormat, html.EscapeString(ref))
}

func hasNonASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return true
		}
	}
	return false
}

// RewriteTree replaces emoji in the text nodes under n with image elements.
// Attribute values and the text of script, style and textarea elements are
// left untouched, so substitution never alters the tree's structure.
func (r *EmojiRewriter) RewriteTree(n *xhtml.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		switch {
		case c.Type == xhtml.TextNode:
			r.rewriteText(c)
		case c.Type == xhtml.ElementNode && isRawTextElement(c):
		default:
			r.RewriteTree(c)
		}
		c = next
	}
}

// rewriteText swaps a text node for the nodes of its rewritten markup.
func (r *EmojiRewriter) rewriteText(n *xhtml.Node) {
	if !hasNonASCII(n.Data) {
		return
	}
	escaped := html.EscapeString(n.Data)
	out := r.Rewrite(escaped)
	if out == escaped {
		return
	}

	nodes, err := xhtml.ParseFragment(strings.NewReader(out), inlineContext())
	if err != nil {
		return
	}
	parent := n.Parent
	for _, c := range nodes {
		parent.InsertBefore(c, n)
	}
	parent.RemoveChild(n)
}

func inlineContext() *xhtml.Node {
	return &xhtml.Node{Type: xhtml.ElementNode, DataAtom: atom.Span, Data: "span"}
}

func isRawTextElement(n *xhtml.Node) bool {
	switch n.DataAtom {
	case atom.Script, atom.Style, atom.Textarea:
		return true
	}
	return false
}
