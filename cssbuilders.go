package course2pdf

import (
	"fmt"
	"strings"
)

// defaultFontFamily is the fallback font stack for footers and generated content.
const defaultFontFamily = "sans-serif"

// escapeCSSString escapes a string for use inside a double-quoted CSS string.
func escapeCSSString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, "\n", `\A `)
	s = strings.ReplaceAll(s, "\r", "")
	return s
}

// buildPrintCSS generates the rules that keep titles with their content and
// set the body font. It comes before the style so the style can override it.
func buildPrintCSS(body Font) string {
	var buf strings.Builder

	buf.WriteString(fmt.Sprintf(`
/* Body font */
html {
  font-family: "%s", %s;
  font-size: %gpt;
}
`, escapeCSSString(body.Family), defaultFontFamily, body.Size))

	buf.WriteString(`
/* Page breaks: keep titles with the content that follows */
h1, h2, h3, h4, h5, h6, .cell {
  break-after: avoid;
  page-break-after: avoid;
  break-inside: avoid;
  page-break-inside: avoid;
}

/* Page breaks: orphan/widow control */
p, li, dd, dt, blockquote {
  orphans: 2;
  widows: 2;
}

/* Page breaks: one page per section, cover stands alone */
.page {
  break-before: page;
  page-break-before: always;
}
`)

	return buf.String()
}
