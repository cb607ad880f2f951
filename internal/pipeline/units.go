package pipeline

import (
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"golang.org/x/net/html"
)

// UnitNormalizer rewrites rem and em lengths in style, width and height
// attributes to whole pixels.
//
// rem resolves against RootSize. em resolves against a running size that
// starts at BaseFontSize for each attribute value and becomes the result of
// every em resolved before it, so "2em 3em" at 10 gives "20px 60px".
// Results are truncated toward zero.
type UnitNormalizer struct {
	RootSize     float64
	BaseFontSize float64
}

// Normalize visits n and all its descendants.
func (u UnitNormalizer) Normalize(n *html.Node) {
	if n.Type == html.ElementNode {
		for i := range n.Attr {
			a := &n.Attr[i]
			if a.Namespace != "" || !isUnitAttr(a.Key) {
				continue
			}
			if v, ok := u.NormalizeValue(a.Val); ok {
				a.Val = v
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		u.Normalize(c)
	}
}

func isUnitAttr(key string) bool {
	return key == "style" || key == "width" || key == "height"
}

// NormalizeValue rewrites one attribute value. It reports false when the
// value is unchanged or cannot be tokenized.
func (u UnitNormalizer) NormalizeValue(v string) (string, bool) {
	if !strings.Contains(strings.ToLower(v), "em") {
		return v, false
	}

	l := css.NewLexer(parse.NewInputString(v))
	var b strings.Builder
	b.Grow(len(v))
	running := u.BaseFontSize
	for {
		tt, data := l.Next()
		if tt == css.ErrorToken {
			if l.Err() != io.EOF {
				return v, false
			}
			break
		}
		if tt == css.DimensionToken {
			if px, ok := u.resolve(data, &running); ok {
				b.WriteString(px)
				continue
			}
		}
		b.Write(data)
	}

	out := b.String()
	return out, out != v
}

func (u UnitNormalizer) resolve(dim []byte, running *float64) (string, bool) {
	numLen, _ := parse.Dimension(dim)
	num, err := strconv.ParseFloat(string(dim[:numLen]), 64)
	if err != nil {
		return "", false
	}

	var px int
	switch strings.ToLower(string(dim[numLen:])) {
	case "rem":
		px = truncPx(num * u.RootSize)
	case "em":
		px = truncPx(num * *running)
		*running = math.Abs(float64(px))
	default:
		return "", false
	}
	return strconv.Itoa(px) + "px", true
}

// pxEpsilon absorbs binary representation error, so 4.35 * 100 is 435
// rather than 434.99999999999994 before truncation.
const pxEpsilon = 1e-9

// truncPx truncates v toward zero after snapping it to a whole number
// it is within pxEpsilon of.
func truncPx(v float64) int {
	if r := math.Round(v); math.Abs(v-r) <= pxEpsilon*math.Max(1, math.Abs(r)) {
		return int(r)
	}
	return int(v)
}
