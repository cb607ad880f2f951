package pipeline

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"

	"github.com/alnah/go-course2pdf/internal/fileutil"
)

// pluginFilePrefix is the placeholder stored content uses for files
// attached to the activity.
const pluginFilePrefix = "@@PLUGINFILE@@/"

// FileRefRewriter points image sources at exported activity files.
//
// Rewrites:
//   - img[src] starting with @@PLUGINFILE@@/
//   - img[src] holding a relative path
//
// URLs, absolute paths and anything resolving outside BaseDir are left
// untouched.
type FileRefRewriter struct {
	BaseDir string // absolute
}

// NewFileRefRewriter resolves references against baseDir.
func NewFileRefRewriter(baseDir string) (*FileRefRewriter, error) {
	if baseDir == "" {
		return nil, errors.New("empty files directory")
	}
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, err
	}
	if !fileutil.DirExists(abs) {
		return nil, fmt.Errorf("files directory does not exist: %s", abs)
	}
	return &FileRefRewriter{BaseDir: abs}, nil
}

// Rewrite visits n and all its descendants.
func (r *FileRefRewriter) Rewrite(n *html.Node) {
	if n.Type == html.ElementNode && n.Data == "img" {
		for i, attr := range n.Attr {
			if attr.Key != "src" {
				continue
			}
			if ref, ok := r.resolve(attr.Val); ok {
				n.Attr[i].Val = ref
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		r.Rewrite(c)
	}
}

func (r *FileRefRewriter) resolve(src string) (string, bool) {
	rel, isPlaceholder := strings.CutPrefix(src, pluginFilePrefix)
	if !isPlaceholder && !isRelativePath(src) {
		return "", false
	}
	if unescaped, err := url.PathUnescape(rel); err == nil {
		rel = unescaped
	}
	if i := strings.IndexAny(rel, "?#"); i >= 0 {
		rel = rel[:i]
	}
	if rel == "" {
		return "", false
	}

	absPath := filepath.Join(r.BaseDir, filepath.FromSlash(rel))
	if !isPathUnderDir(absPath, r.BaseDir) {
		return "", false
	}
	return pathToFileURL(absPath), true
}

// isRelativePath reports whether src is a bare relative file path.
func isRelativePath(src string) bool {
	if src == "" || strings.HasPrefix(src, "#") || strings.HasPrefix(src, "//") {
		return false
	}
	if u, err := url.Parse(src); err == nil && u.Scheme != "" {
		return false
	}
	return !filepath.IsAbs(src) && !strings.HasPrefix(src, "/")
}

func isPathUnderDir(absPath, dir string) bool {
	cleanPath := filepath.Clean(absPath)
	cleanDir := filepath.Clean(dir)
	if !strings.HasSuffix(cleanDir, string(filepath.Separator)) {
		cleanDir += string(filepath.Separator)
	}
	return strings.HasPrefix(cleanPath+string(filepath.Separator), cleanDir)
}

func pathToFileURL(absPath string) string {
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(absPath)}
	return u.String()
}
