package assets

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// writeAsset creates dir/rel with content, creating parent directories.
func writeAsset(t *testing.T, dir, rel, content string) {
	t.Helper()
	path := filepath.Join(dir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", rel, err)
	}
}

func TestNewFilesystemLoader(t *testing.T) {
	t.Parallel()

	t.Run("valid directory", func(t *testing.T) {
		t.Parallel()

		if _, err := NewFilesystemLoader(t.TempDir()); err != nil {
			t.Fatalf("NewFilesystemLoader() error = %v", err)
		}
	})

	t.Run("empty path", func(t *testing.T) {
		t.Parallel()

		_, err := NewFilesystemLoader("")
		if !errors.Is(err, ErrInvalidBasePath) {
			t.Errorf("error = %v, want ErrInvalidBasePath", err)
		}
	})

	t.Run("nonexistent directory", func(t *testing.T) {
		t.Parallel()

		_, err := NewFilesystemLoader(filepath.Join(t.TempDir(), "missing"))
		if !errors.Is(err, ErrInvalidBasePath) {
			t.Errorf("error = %v, want ErrInvalidBasePath", err)
		}
	})

	t.Run("file instead of directory", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeAsset(t, dir, "file.txt", "x")

		_, err := NewFilesystemLoader(filepath.Join(dir, "file.txt"))
		if !errors.Is(err, ErrInvalidBasePath) {
			t.Errorf("error = %v, want ErrInvalidBasePath", err)
		}
	})
}

func TestFilesystemLoader_Load(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeAsset(t, dir, "styles/print.css", "body { color: red; }")
	writeAsset(t, dir, "templates/cover.html", "<section>{{.Title}}</section>")

	loader, err := NewFilesystemLoader(dir)
	if err != nil {
		t.Fatalf("NewFilesystemLoader() error = %v", err)
	}

	t.Run("style", func(t *testing.T) {
		t.Parallel()

		css, err := loader.LoadStyle("print")
		if err != nil {
			t.Fatalf("LoadStyle() error = %v", err)
		}
		if css != "body { color: red; }" {
			t.Errorf("LoadStyle() = %q", css)
		}
	})

	t.Run("template", func(t *testing.T) {
		t.Parallel()

		tmpl, err := loader.LoadTemplate("cover")
		if err != nil {
			t.Fatalf("LoadTemplate() error = %v", err)
		}
		if tmpl != "<section>{{.Title}}</section>" {
			t.Errorf("LoadTemplate() = %q", tmpl)
		}
	})

	t.Run("missing style", func(t *testing.T) {
		t.Parallel()

		_, err := loader.LoadStyle("missing")
		if !errors.Is(err, ErrStyleNotFound) {
			t.Errorf("error = %v, want ErrStyleNotFound", err)
		}
	})

	t.Run("missing template", func(t *testing.T) {
		t.Parallel()

		_, err := loader.LoadTemplate("document")
		if !errors.Is(err, ErrTemplateNotFound) {
			t.Errorf("error = %v, want ErrTemplateNotFound", err)
		}
	})
}

func TestFilesystemLoader_PathContainment(t *testing.T) {
	t.Parallel()

	outside := t.TempDir()
	writeAsset(t, outside, "secret.css", "secret")

	base := t.TempDir()
	if err := os.MkdirAll(filepath.Join(base, "styles"), 0o755); err != nil {
		t.Fatalf("failed to create styles dir: %v", err)
	}
	link := filepath.Join(base, "styles", "escape.css")
	if err := os.Symlink(filepath.Join(outside, "secret.css"), link); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	loader, err := NewFilesystemLoader(base)
	if err != nil {
		t.Fatalf("NewFilesystemLoader() error = %v", err)
	}

	_, err = loader.LoadStyle("escape")
	if !errors.Is(err, ErrPathTraversal) {
		t.Errorf("error = %v, want ErrPathTraversal", err)
	}
}
