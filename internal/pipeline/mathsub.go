package pipeline

import (
	"strings"

	"github.com/alnah/go-course2pdf/internal/symbols"
)

// MathRewriter replaces Unicode math characters with inline TeX.
type MathRewriter struct {
	replacer *strings.Replacer
}

// NewMathRewriter builds a rewriter over the math table.
func NewMathRewriter(tables *symbols.Tables) *MathRewriter {
	math := tables.Math()
	pairs := make([]string, 0, 2*len(math))
	for _, m := range math {
		pairs = append(pairs, m.Char, m.Inline())
	}
	return &MathRewriter{replacer: strings.NewReplacer(pairs...)}
}

// Rewrite substitutes every table character in one pass. Inserted macros
// are never rescanned.
func (r *MathRewriter) Rewrite(content string) string {
	if !hasNonASCII(content) {
		return content
	}
	return r.replacer.Replace(content)
}
