package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("setup: %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Style != "" {
		t.Errorf("Style = %q, want empty", cfg.Style)
	}
	if !cfg.Footer.Enabled || !cfg.Footer.ShowPageNumber {
		t.Error("footer with page numbers should be enabled by default")
	}
	if cfg.Footer.Position != "right" {
		t.Errorf("Footer.Position = %q, want %q", cfg.Footer.Position, "right")
	}
	if !cfg.TOC.Enabled {
		t.Error("TOC.Enabled = false, want true")
	}
	if cfg.Assets.BasePath != "" {
		t.Errorf("Assets.BasePath = %q, want empty", cfg.Assets.BasePath)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v", err)
	}
}

func TestValidateFieldLength(t *testing.T) {
	tests := []struct {
		name      string
		fieldName string
		value     string
		maxLength int
		wantErr   bool
	}{
		{name: "empty value is valid", fieldName: "test", value: "", maxLength: 10},
		{name: "value at limit is valid", fieldName: "test", value: "1234567890", maxLength: 10},
		{name: "value under limit is valid", fieldName: "test", value: "12345", maxLength: 10},
		{name: "value over limit returns error", fieldName: "test.field", value: "12345678901", maxLength: 10, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateFieldLength(tt.fieldName, tt.value, tt.maxLength)
			if tt.wantErr {
				if !errors.Is(err, ErrFieldTooLong) {
					t.Errorf("error = %v, want ErrFieldTooLong", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
		wantMsg string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{
			name: "full valid config",
			mutate: func(c *Config) {
				c.Database.Path = "moodle.db"
				c.Content.RootFontSize = 16
				c.Content.ActivityTimeout = "45s"
				c.Content.OnMissingRecord = "Skip"
				c.Page = PageConfig{Size: "a4", Orientation: "landscape", Margin: 1}
				c.Workers = 4
				c.Timeout = "2m"
			},
		},
		{
			name:    "footer position",
			mutate:  func(c *Config) { c.Footer.Position = "top" },
			wantErr: ErrInvalidConfig,
			wantMsg: "footer.position",
		},
		{
			name:    "root font size too small",
			mutate:  func(c *Config) { c.Content.RootFontSize = 2 },
			wantErr: ErrInvalidConfig,
			wantMsg: "content.rootFontSize",
		},
		{
			name:    "root font size too large",
			mutate:  func(c *Config) { c.Content.RootFontSize = 100 },
			wantErr: ErrInvalidConfig,
			wantMsg: "content.rootFontSize",
		},
		{
			name:    "missing record policy",
			mutate:  func(c *Config) { c.Content.OnMissingRecord = "ignore" },
			wantErr: ErrInvalidConfig,
			wantMsg: "content.onMissingRecord",
		},
		{
			name:    "negative margin",
			mutate:  func(c *Config) { c.Page.Margin = -1 },
			wantErr: ErrInvalidConfig,
			wantMsg: "page.margin",
		},
		{
			name:    "margin too large",
			mutate:  func(c *Config) { c.Page.Margin = 5 },
			wantErr: ErrInvalidConfig,
			wantMsg: "page.margin",
		},
		{
			name:    "negative workers",
			mutate:  func(c *Config) { c.Workers = -1 },
			wantErr: ErrInvalidConfig,
			wantMsg: "workers",
		},
		{
			name:    "too many workers",
			mutate:  func(c *Config) { c.Workers = MaxWorkers + 1 },
			wantErr: ErrInvalidConfig,
			wantMsg: "workers",
		},
		{
			name:    "unparsable activity timeout",
			mutate:  func(c *Config) { c.Content.ActivityTimeout = "soon" },
			wantErr: ErrInvalidConfig,
			wantMsg: "content.activityTimeout",
		},
		{
			name:    "zero timeout",
			mutate:  func(c *Config) { c.Timeout = "0s" },
			wantErr: ErrInvalidConfig,
			wantMsg: "timeout",
		},
		{
			name:    "timeout above bound",
			mutate:  func(c *Config) { c.Timeout = "1h" },
			wantErr: ErrInvalidConfig,
			wantMsg: "timeout",
		},
		{
			name:    "footer text too long",
			mutate:  func(c *Config) { c.Footer.Text = strings.Repeat("x", MaxTextLength+1) },
			wantErr: ErrFieldTooLong,
			wantMsg: "footer.text",
		},
		{
			name:    "emoji base URL too long",
			mutate:  func(c *Config) { c.Assets.EmojiBaseURL = strings.Repeat("u", MaxURLLength+1) },
			wantErr: ErrFieldTooLong,
			wantMsg: "assets.emojiBaseURL",
		},
		{
			name:    "page size too long",
			mutate:  func(c *Config) { c.Page.Size = strings.Repeat("a", MaxPageSizeLength+1) },
			wantErr: ErrFieldTooLong,
			wantMsg: "page.size",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q should mention %q", err, tt.wantMsg)
			}
		})
	}
}

func TestConfig_Durations(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.ActivityTimeoutDuration() != 0 || cfg.TimeoutDuration() != 0 {
		t.Error("unset durations should be zero")
	}

	cfg.Content.ActivityTimeout = "45s"
	cfg.Timeout = "2m"
	if got := cfg.ActivityTimeoutDuration(); got != 45*time.Second {
		t.Errorf("ActivityTimeoutDuration() = %v, want 45s", got)
	}
	if got := cfg.TimeoutDuration(); got != 2*time.Minute {
		t.Errorf("TimeoutDuration() = %v, want 2m", got)
	}
}

func TestLoadConfig(t *testing.T) {
	t.Run("empty name returns ErrEmptyConfigName", func(t *testing.T) {
		_, err := LoadConfig("")
		if !errors.Is(err, ErrEmptyConfigName) {
			t.Errorf("error = %v, want ErrEmptyConfigName", err)
		}
	})

	t.Run("valid file path loads config", func(t *testing.T) {
		path := writeConfig(t, "test.yaml", `database:
  path: "moodle.db"
assets:
  emojiDir: "/srv/emoji"
  verifyEmoji: true
content:
  rootFontSize: 16
  onMissingRecord: skip
  activityTimeout: 10s
page:
  size: a4
  margin: 0.75
footer:
  position: "center"
output:
  dir: out
  minify: true
workers: 4
`)

		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Database.Path != "moodle.db" {
			t.Errorf("Database.Path = %q", cfg.Database.Path)
		}
		if cfg.Assets.EmojiDir != "/srv/emoji" || !cfg.Assets.VerifyEmoji {
			t.Errorf("Assets = %+v", cfg.Assets)
		}
		if cfg.Content.RootFontSize != 16 || cfg.Content.OnMissingRecord != OnMissingSkip {
			t.Errorf("Content = %+v", cfg.Content)
		}
		if cfg.ActivityTimeoutDuration() != 10*time.Second {
			t.Errorf("ActivityTimeoutDuration() = %v", cfg.ActivityTimeoutDuration())
		}
		if cfg.Page.Size != "a4" || cfg.Page.Margin != 0.75 {
			t.Errorf("Page = %+v", cfg.Page)
		}
		if cfg.Output.Dir != "out" || !cfg.Output.Minify {
			t.Errorf("Output = %+v", cfg.Output)
		}
		if cfg.Workers != 4 {
			t.Errorf("Workers = %d, want 4", cfg.Workers)
		}
	})

	t.Run("unset fields keep defaults", func(t *testing.T) {
		path := writeConfig(t, "partial.yaml", "footer:\n  position: left\n")

		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Footer.Position != "left" {
			t.Errorf("Footer.Position = %q, want left", cfg.Footer.Position)
		}
		if !cfg.Footer.ShowPageNumber || !cfg.TOC.Enabled {
			t.Error("defaults not kept for unset fields")
		}
	})

	t.Run("nonexistent file path returns ErrConfigNotFound", func(t *testing.T) {
		_, err := LoadConfig("/nonexistent/path/config.yaml")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("error = %v, want ErrConfigNotFound", err)
		}
	})

	t.Run("invalid YAML returns ErrConfigParse", func(t *testing.T) {
		path := writeConfig(t, "invalid.yaml", "style: [unclosed")

		_, err := LoadConfig(path)
		if !errors.Is(err, ErrConfigParse) {
			t.Errorf("error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("unknown field returns ErrConfigParse in strict mode", func(t *testing.T) {
		path := writeConfig(t, "unknown.yaml", "style: \"default\"\nunknownField: \"should fail\"\n")

		_, err := LoadConfig(path)
		if !errors.Is(err, ErrConfigParse) {
			t.Errorf("error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("invalid value returns ErrInvalidConfig", func(t *testing.T) {
		path := writeConfig(t, "bad.yaml", "workers: 1000\n")

		_, err := LoadConfig(path)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("error = %v, want ErrInvalidConfig", err)
		}
	})

	t.Run("field too long returns ErrFieldTooLong", func(t *testing.T) {
		path := writeConfig(t, "toolong.yaml", "lang: \""+strings.Repeat("x", MaxLangLength+1)+"\"\n")

		_, err := LoadConfig(path)
		if !errors.Is(err, ErrFieldTooLong) {
			t.Errorf("error = %v, want ErrFieldTooLong", err)
		}
	})

	t.Run("config name resolves yaml in current directory", func(t *testing.T) {
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, "myconfig.yaml"), []byte("style: fromname\n"), 0600); err != nil {
			t.Fatalf("setup: %v", err)
		}
		t.Chdir(dir)

		cfg, err := LoadConfig("myconfig")
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Style != "fromname" {
			t.Errorf("Style = %q, want %q", cfg.Style, "fromname")
		}
	})

	t.Run("config name resolves yml extension", func(t *testing.T) {
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, "other.yml"), []byte("lang: fr\n"), 0600); err != nil {
			t.Fatalf("setup: %v", err)
		}
		t.Chdir(dir)

		cfg, err := LoadConfig("other")
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Lang != "fr" {
			t.Errorf("Lang = %q, want fr", cfg.Lang)
		}
	})

	t.Run("unknown config name lists tried paths", func(t *testing.T) {
		t.Chdir(t.TempDir())

		_, err := LoadConfig("missing-config-name")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Fatalf("error = %v, want ErrConfigNotFound", err)
		}
		if !strings.Contains(err.Error(), "missing-config-name.yaml") {
			t.Errorf("error %q should list tried paths", err)
		}
	})
}

func TestIsFilePath(t *testing.T) {
	tests := map[string]bool{
		"work":           false,
		"./work.yaml":    true,
		"configs/a.yaml": true,
		`C:\cfg\a.yaml`:  true,
		"work.yaml":      false,
	}
	for input, want := range tests {
		if got := isFilePath(input); got != want {
			t.Errorf("isFilePath(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestSearchPaths(t *testing.T) {
	t.Parallel()

	paths := SearchPaths("work")
	if len(paths) < 2 {
		t.Fatalf("SearchPaths() = %v, want at least the local candidates", paths)
	}
	if paths[0] != "work.yaml" || paths[1] != "work.yml" {
		t.Errorf("local candidates = %v, want work.yaml then work.yml", paths[:2])
	}
	for _, p := range paths[2:] {
		if !strings.Contains(p, filepath.Join("go-course2pdf", "work")) {
			t.Errorf("user candidate %q outside go-course2pdf config dir", p)
		}
	}
}
