package course2pdf

import (
	"fmt"
	"html"
	"strings"
)

// Font is a layout font; Size is in points.
type Font struct {
	Family string
	Bold   bool
	Italic bool
	Size   float64
}

// CSS returns the font as inline declarations.
func (f Font) CSS() string {
	var b strings.Builder
	fmt.Fprintf(&b, "font-family: %s; font-size: %gpt", f.Family, f.Size)
	if f.Bold {
		b.WriteString("; font-weight: bold")
	}
	if f.Italic {
		b.WriteString("; font-style: italic")
	}
	return b.String()
}

// Color is an RGB text colour.
type Color struct {
	R, G, B uint8
}

// CSS returns the colour as a CSS rgb() value.
func (c Color) CSS() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B)
}

// Layout constants.
const (
	fontFamily       = "helvetica"
	fontSize         = 12
	titleFontSize    = 25
	authorFontSize   = 16
	sectionFontSize  = 22
	activityFontSize = 16
)

var (
	fontBody       = Font{Family: fontFamily, Size: fontSize}
	fontCoverTitle = Font{Family: fontFamily, Bold: true, Size: titleFontSize}
	fontCoverBody  = Font{Family: fontFamily, Bold: true, Size: authorFontSize}
	fontSection    = Font{Family: fontFamily, Bold: true, Size: sectionFontSize}
	fontActivity   = Font{Family: fontFamily, Bold: true, Size: activityFontSize}

	colorText       = Color{0, 0, 0}
	colorCoverTitle = Color{0, 0, 145}
	colorSeparator  = Color{87, 87, 87}
	colorSection    = Color{46, 134, 193}
	colorActivity   = Color{93, 173, 226}
)

// bookmark is an outline entry pointing at an anchor in the body.
type bookmark struct {
	ID    string
	Title string
	Level int
}

// layoutSink receives structural commands and finished HTML fragments.
// Pagination, font metrics and serialization belong to the sink.
type layoutSink interface {
	AddPage()
	Bookmark(title string, level int)
	SetFont(f Font)
	SetTextColor(c Color)
	Cell(text, align string)
	WriteHTML(fragment string)
}

var _ layoutSink = (*htmlLayout)(nil)

// htmlLayout accumulates the document body. Each page is a section with a
// forced page break; font and colour state is applied inline to cells. A
// cell written right after a bookmark becomes the bookmark's heading.
type htmlLayout struct {
	body      strings.Builder
	bookmarks []bookmark
	pending   *bookmark
	font      Font
	color     Color
	open      bool
}

func newHTMLLayout() *htmlLayout {
	return &htmlLayout{font: fontBody, color: colorText}
}

// AddPage closes the current page and starts a new one.
func (l *htmlLayout) AddPage() {
	l.flushAnchor()
	l.closePage()
	l.body.WriteString(`<section class="page">`)
	l.open = true
}

// Bookmark records an outline entry anchored at the current position.
func (l *htmlLayout) Bookmark(title string, level int) {
	l.flushAnchor()
	l.bookmarks = append(l.bookmarks, bookmark{
		ID:    fmt.Sprintf("bm-%d", len(l.bookmarks)+1),
		Title: title,
		Level: level,
	})
	l.pending = &l.bookmarks[len(l.bookmarks)-1]
}

func (l *htmlLayout) SetFont(f Font) {
	l.font = f
}

func (l *htmlLayout) SetTextColor(c Color) {
	l.color = c
}

// Cell writes escaped text as a block in the current font and colour.
// Align is "L", "C" or "R"; anything else means left.
func (l *htmlLayout) Cell(text, align string) {
	tag, id := "div", ""
	if l.pending != nil {
		tag = fmt.Sprintf("h%d", min(l.pending.Level+1, 6))
		id = fmt.Sprintf(` id="%s"`, l.pending.ID)
		l.pending = nil
	}
	fmt.Fprintf(&l.body, `<%s%s class="cell" style="%s; color: %s; text-align: %s">%s</%s>`,
		tag, id, l.font.CSS(), l.color.CSS(), textAlign(align), html.EscapeString(text), tag)
}

// WriteHTML appends a trusted fragment as is.
func (l *htmlLayout) WriteHTML(fragment string) {
	l.flushAnchor()
	l.body.WriteString(fragment)
}

// Body returns the accumulated pages.
func (l *htmlLayout) Body() string {
	l.flushAnchor()
	l.closePage()
	return l.body.String()
}

// Bookmarks returns the outline entries in document order.
func (l *htmlLayout) Bookmarks() []bookmark {
	return l.bookmarks
}

// flushAnchor places a bare anchor for a bookmark no cell picked up.
func (l *htmlLayout) flushAnchor() {
	if l.pending != nil {
		fmt.Fprintf(&l.body, `<a id="%s"></a>`, l.pending.ID)
		l.pending = nil
	}
}

func (l *htmlLayout) closePage() {
	if l.open {
		l.body.WriteString(`</section>`)
		l.open = false
	}
}

func textAlign(align string) string {
	switch strings.ToUpper(align) {
	case "C":
		return "center"
	case "R":
		return "right"
	}
	return "left"
}
