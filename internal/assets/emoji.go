package assets

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/jellydator/ttlcache/v3"
)

// Emoji image files follow the Noto naming scheme.
const (
	emojiFilePrefix = "emoji_u"
	emojiFileExt    = ".svg"
	maxEmojiKeyLen  = 128
)

// DefaultEmojiCacheTTL bounds how long a lookup result is reused.
const DefaultEmojiCacheTTL = 10 * time.Minute

const defaultEmojiCacheSize = 4096

// EmojiAssets resolves emoji asset keys to image files in a directory.
// Safe for concurrent use.
type EmojiAssets struct {
	dir     string
	baseURL string
	verify  bool
	ttl     time.Duration
	cache   *ttlcache.Cache[string, string]
}

// EmojiOption configures EmojiAssets.
type EmojiOption func(*EmojiAssets)

// WithEmojiBaseURL serves images from baseURL instead of file:// paths.
func WithEmojiBaseURL(baseURL string) EmojiOption {
	return func(a *EmojiAssets) {
		a.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithSVGVerification makes a file count as present only if it parses as
// an SVG document.
func WithSVGVerification(verify bool) EmojiOption {
	return func(a *EmojiAssets) {
		a.verify = verify
	}
}

// WithEmojiCacheTTL sets the lookup cache lifetime. Non-positive values
// keep the default.
func WithEmojiCacheTTL(d time.Duration) EmojiOption {
	return func(a *EmojiAssets) {
		if d > 0 {
			a.ttl = d
		}
	}
}

// NewEmojiAssets creates a lookup over the images in dir.
// Returns ErrInvalidBasePath if dir is not an existing directory.
func NewEmojiAssets(dir string, opts ...EmojiOption) (*EmojiAssets, error) {
	absDir, err := resolveDir(dir)
	if err != nil {
		return nil, err
	}

	a := &EmojiAssets{dir: absDir, ttl: DefaultEmojiCacheTTL}
	for _, opt := range opts {
		opt(a)
	}
	a.cache = ttlcache.New[string, string](
		ttlcache.WithTTL[string, string](a.ttl),
		ttlcache.WithCapacity[string, string](defaultEmojiCacheSize),
	)
	return a, nil
}

// Dir returns the resolved image directory.
func (a *EmojiAssets) Dir() string {
	return a.dir
}

// Lookup reports whether an image exists for key and returns a reference
// to it suitable for an img src attribute.
func (a *EmojiAssets) Lookup(key string) (string, bool) {
	if !isValidEmojiKey(key) {
		return "", false
	}

	if item := a.cache.Get(key); item != nil {
		ref := item.Value()
		return ref, ref != ""
	}

	// Misses are cached as "" so absent images are not stat'ed per cluster.
	ref := a.probe(key)
	a.cache.Set(key, ref, ttlcache.DefaultTTL)
	return ref, ref != ""
}

func (a *EmojiAssets) probe(key string) string {
	name := emojiFilePrefix + key + emojiFileExt
	path := filepath.Join(a.dir, name)

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return ""
	}
	if a.verify && !isSVG(path) {
		return ""
	}

	if a.baseURL != "" {
		return a.baseURL + "/" + name
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String()
}

func isSVG(path string) bool {
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(path); err != nil {
		return false
	}
	root := doc.Root()
	return root != nil && root.Tag == "svg"
}

// isValidEmojiKey accepts lowercase hex code points joined by underscores.
func isValidEmojiKey(key string) bool {
	if key == "" || len(key) > maxEmojiKeyLen {
		return false
	}
	for i := 0; i < len(key); i++ {
		c := key[i]
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c == '_':
		default:
			return false
		}
	}
	return true
}
