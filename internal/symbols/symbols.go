// Package symbols holds the substitution tables that make user-authored
// course text printable: emoji clusters replaced by image assets and Unicode
// math characters replaced by inline TeX.
//
// The tables ship as embedded YAML and are decoded and validated once when
// the package is initialised. Tables are immutable and safe for concurrent
// use.
package symbols

import (
	"embed"
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/alnah/go-course2pdf/internal/yamlutil"
)

//go:embed data/emoji.yaml data/math.yaml
var data embed.FS

// ErrInvalidTable indicates malformed symbol table data.
var ErrInvalidTable = errors.New("invalid symbol table")

// Variation selectors are presentation hints and never part of an asset key.
const (
	textSelector  = '\ufe0e'
	emojiSelector = '\ufe0f'
)

// Emoji is one emoji cluster and the asset key derived from it.
type Emoji struct {
	Cluster string
	Key     string
}

// Bucket groups emoji clusters of the same code point length.
type Bucket struct {
	Length int
	Emoji  []Emoji
}

// MathSymbol maps a single Unicode character to a TeX macro.
type MathSymbol struct {
	Char string `yaml:"char"`
	TeX  string `yaml:"tex"`
}

// Inline returns the macro wrapped in inline-math delimiters.
func (m MathSymbol) Inline() string {
	return `\( ` + m.TeX + ` \)`
}

type emojiFile struct {
	Clusters []string `yaml:"clusters"`
}

type mathFile struct {
	Symbols []MathSymbol `yaml:"symbols"`
}

// Tables is a validated pair of emoji and math tables.
type Tables struct {
	buckets []Bucket
	math    []MathSymbol
	emoji   int
}

var defaultTables, defaultErr = loadEmbedded()

// Default returns the embedded tables. The error is non-nil only if the
// embedded data is malformed, which is a build defect.
func Default() (*Tables, error) {
	return defaultTables, defaultErr
}

func loadEmbedded() (*Tables, error) {
	var ef emojiFile
	if err := yamlutil.ReadFileStrict(data, "data/emoji.yaml", &ef); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTable, err)
	}
	var mf mathFile
	if err := yamlutil.ReadFileStrict(data, "data/math.yaml", &mf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTable, err)
	}
	return New(ef.Clusters, mf.Symbols)
}

// Load decodes tables from YAML documents shaped like the embedded ones.
func Load(emojiYAML, mathYAML []byte) (*Tables, error) {
	var ef emojiFile
	if err := yamlutil.UnmarshalStrict(emojiYAML, &ef); err != nil {
		return nil, fmt.Errorf("%w: emoji: %v", ErrInvalidTable, err)
	}
	var mf mathFile
	if err := yamlutil.UnmarshalStrict(mathYAML, &mf); err != nil {
		return nil, fmt.Errorf("%w: math: %v", ErrInvalidTable, err)
	}
	return New(ef.Clusters, mf.Symbols)
}

// New validates and builds tables from raw entries.
func New(clusters []string, math []MathSymbol) (*Tables, error) {
	buckets, err := bucketEmoji(clusters)
	if err != nil {
		return nil, err
	}
	if err := validateMath(math); err != nil {
		return nil, err
	}
	return &Tables{
		buckets: buckets,
		math:    append([]MathSymbol(nil), math...),
		emoji:   len(clusters),
	}, nil
}

func bucketEmoji(clusters []string) ([]Bucket, error) {
	seen := make(map[string]bool, len(clusters))
	byLen := make(map[int][]Emoji)
	for i, c := range clusters {
		if c == "" || !utf8.ValidString(c) {
			return nil, fmt.Errorf("%w: emoji entry %d is empty or not UTF-8", ErrInvalidTable, i)
		}
		if seen[c] {
			return nil, fmt.Errorf("%w: duplicate emoji %q", ErrInvalidTable, c)
		}
		seen[c] = true
		key := Key(c)
		if key == "" {
			return nil, fmt.Errorf("%w: emoji entry %d has no code points besides selectors", ErrInvalidTable, i)
		}
		n := utf8.RuneCountInString(c)
		byLen[n] = append(byLen[n], Emoji{Cluster: c, Key: key})
	}

	buckets := make([]Bucket, 0, len(byLen))
	for n, e := range byLen {
		buckets = append(buckets, Bucket{Length: n, Emoji: e})
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Length > buckets[j].Length })
	return buckets, nil
}

func validateMath(math []MathSymbol) error {
	keys := make(map[string]bool, len(math))
	for _, m := range math {
		if !utf8.ValidString(m.Char) || utf8.RuneCountInString(m.Char) != 1 {
			return fmt.Errorf("%w: math key %q is not a single character", ErrInvalidTable, m.Char)
		}
		if keys[m.Char] {
			return fmt.Errorf("%w: duplicate math key %q", ErrInvalidTable, m.Char)
		}
		if strings.TrimSpace(m.TeX) == "" {
			return fmt.Errorf("%w: math key %q has an empty macro", ErrInvalidTable, m.Char)
		}
		keys[m.Char] = true
	}

	// A macro containing a key would be rewritten again on a second pass.
	var all strings.Builder
	for k := range keys {
		all.WriteString(k)
	}
	for _, m := range math {
		if strings.ContainsAny(m.Inline(), all.String()) {
			return fmt.Errorf("%w: macro for %q contains a table key", ErrInvalidTable, m.Char)
		}
	}
	return nil
}

// Key derives the asset key for an emoji cluster: the lowercase hex value of
// each code point, at least four digits, joined by underscores. Variation
// selectors are dropped; zero-width joiners are kept.
func Key(cluster string) string {
	var b strings.Builder
	for _, r := range cluster {
		if r == textSelector || r == emojiSelector {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('_')
		}
		fmt.Fprintf(&b, "%04x", r)
	}
	return b.String()
}

// Buckets returns emoji grouped by code point length, longest first.
// The returned slice is shared and must not be modified.
func (t *Tables) Buckets() []Bucket {
	return t.buckets
}

// Math returns the math symbols in table order.
// The returned slice is shared and must not be modified.
func (t *Tables) Math() []MathSymbol {
	return t.math
}

// EmojiCount returns the number of emoji clusters.
func (t *Tables) EmojiCount() int {
	return t.emoji
}
