package pipeline

import (
	"testing"

	"github.com/alnah/go-course2pdf/internal/symbols"
)

// Clusters used across tests, spelled with escapes so invisible joiners
// and modifiers are explicit.
const (
	thumbsUp     = "\U0001F44D"
	thumbsUpTone = "\U0001F44D\U0001F3FD"
	family       = "\U0001F468\u200d\U0001F469\u200d\U0001F467"
	man          = "\U0001F468"
	grinning     = "\U0001F600"
)

type fakeAssets map[string]string

func (f fakeAssets) Lookup(key string) (string, bool) {
	ref, ok := f[key]
	return ref, ok
}

func img(src string) string {
	return `<img src="` + src + `" alt="" width="1.35em" height="1.35em">`
}

func testTables(t *testing.T) *symbols.Tables {
	t.Helper()
	tables, err := symbols.New(
		[]string{thumbsUp, thumbsUpTone, family, man, grinning},
		[]symbols.MathSymbol{
			{Char: "≤", TeX: `\leq`},
			{Char: "π", TeX: `\pi`},
			{Char: "∑", TeX: `\sum`},
		},
	)
	if err != nil {
		t.Fatalf("symbols.New() error = %v", err)
	}
	return tables
}

func allAssets() fakeAssets {
	return fakeAssets{
		"1f44d":                       "e/1f44d.svg",
		"1f44d_1f3fd":                 "e/1f44d_1f3fd.svg",
		"1f468_200d_1f469_200d_1f467": "e/family.svg",
		"1f468":                       "e/1f468.svg",
		"1f600":                       "e/1f600.svg",
	}
}

func defaultTables(t *testing.T) *symbols.Tables {
	t.Helper()
	tables, err := symbols.Default()
	if err != nil {
		t.Fatalf("symbols.Default() error = %v", err)
	}
	return tables
}
