package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-course2pdf/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidConfig   = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxPathLength        = 4096 // PATH_MAX on Linux
	MaxURLLength         = 2048 // Browser limit
	MaxTextLength        = 500  // Footer/free-form text
	MaxLabelLength       = 100  // Cover labels, TOC title
	MaxPageSizeLength    = 10   // "letter", "a4", "legal"
	MaxOrientationLength = 10   // "portrait", "landscape"
	MaxStyleLength       = 100  // Style name or path
	MaxScriptTypeLength  = 100  // "math/tex"
	MaxLangLength        = 35   // BCP 47 tag
	MaxDurationLength    = 20   // "30s", "2m"
)

// Numeric bounds.
const (
	MinRootFontSize = 4
	MaxRootFontSize = 72
	MaxWorkers      = 64
	MaxMargin       = 3.0 // inches
	MaxTimeout      = 30 * time.Minute
)

// Missing record policies.
const (
	OnMissingAbort = "abort"
	OnMissingSkip  = "skip"
)

// Config holds all configuration for a course export.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Assets   AssetsConfig   `yaml:"assets"`
	Content  ContentConfig  `yaml:"content"`
	Page     PageConfig     `yaml:"page"`
	Footer   FooterConfig   `yaml:"footer"`
	Cover    CoverConfig    `yaml:"cover"`
	TOC      TOCConfig      `yaml:"toc"`
	Output   OutputConfig   `yaml:"output"`
	Style    string         `yaml:"style"`   // Style name or CSS path (empty = default style)
	Lang     string         `yaml:"lang"`    // Document language (default: "en")
	Workers  int            `yaml:"workers"` // Parallel activity rendering (0 = sequential)
	Timeout  string         `yaml:"timeout"` // PDF generation budget, e.g. "2m"
}

// DatabaseConfig defines where course data is read from.
type DatabaseConfig struct {
	Path string `yaml:"path"` // SQLite file, opened read-only
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath     string `yaml:"basePath"`     // Empty = use embedded assets
	EmojiDir     string `yaml:"emojiDir"`     // Directory of emoji_u<key>.svg files (empty = no emoji images)
	EmojiBaseURL string `yaml:"emojiBaseURL"` // Optional URL prefix for emoji images
	VerifyEmoji  bool   `yaml:"verifyEmoji"`  // Parse each emoji file and require an <svg> root
}

// ContentConfig defines how activity content is normalized.
type ContentConfig struct {
	RootFontSize    float64 `yaml:"rootFontSize"`    // px per rem and em (default: 15)
	InertScriptType string  `yaml:"inertScriptType"` // Script type stripped from output (default: "math/tex")
	FilesDir        string  `yaml:"filesDir"`        // Where embedded images live (empty = leave sources alone)
	ActivityTimeout string  `yaml:"activityTimeout"` // Per-activity budget (default: "30s")
	OnMissingRecord string  `yaml:"onMissingRecord"` // "abort" or "skip" (default: "abort")
}

// PageConfig defines PDF page settings.
type PageConfig struct {
	Size        string  `yaml:"size"`        // "letter", "a4", "legal" (default: "a4")
	Orientation string  `yaml:"orientation"` // "portrait", "landscape" (default: "portrait")
	Margin      float64 `yaml:"margin"`      // inches (default: 0.8)
}

// FooterConfig defines page footer options.
type FooterConfig struct {
	Enabled        bool   `yaml:"enabled"`
	Position       string `yaml:"position"` // "left", "center", "right" (default: "right")
	ShowPageNumber bool   `yaml:"showPageNumber"`
	Text           string `yaml:"text"` // Optional free-form text
}

// CoverConfig defines cover page options.
type CoverConfig struct {
	AuthorLabel string `yaml:"authorLabel"` // Label above teacher names (default: "Published by")
	DateFormat  string `yaml:"dateFormat"`  // "auto", "auto:FORMAT", or literal (default: "auto:daydate")
	SiteURL     string `yaml:"siteURL"`     // LMS root URL; when set the cover links to the enrolment page
}

// TOCConfig defines the outline page.
type TOCConfig struct {
	Enabled bool   `yaml:"enabled"`
	Title   string `yaml:"title"` // Empty = no title above the outline
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	Dir      string `yaml:"dir"`      // Output directory (default: current directory)
	Minify   bool   `yaml:"minify"`   // Minify the intermediate HTML
	KeepHTML bool   `yaml:"keepHTML"` // Also write the HTML document next to the PDF
}

// Validate checks field lengths and value ranges.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	lengths := []struct {
		field string
		value string
		max   int
	}{
		{"database.path", c.Database.Path, MaxPathLength},
		{"assets.basePath", c.Assets.BasePath, MaxPathLength},
		{"assets.emojiDir", c.Assets.EmojiDir, MaxPathLength},
		{"assets.emojiBaseURL", c.Assets.EmojiBaseURL, MaxURLLength},
		{"content.inertScriptType", c.Content.InertScriptType, MaxScriptTypeLength},
		{"content.filesDir", c.Content.FilesDir, MaxPathLength},
		{"content.activityTimeout", c.Content.ActivityTimeout, MaxDurationLength},
		{"page.size", c.Page.Size, MaxPageSizeLength},
		{"page.orientation", c.Page.Orientation, MaxOrientationLength},
		{"footer.text", c.Footer.Text, MaxTextLength},
		{"cover.authorLabel", c.Cover.AuthorLabel, MaxLabelLength},
		{"cover.dateFormat", c.Cover.DateFormat, MaxLabelLength},
		{"cover.siteURL", c.Cover.SiteURL, MaxURLLength},
		{"toc.title", c.TOC.Title, MaxLabelLength},
		{"output.dir", c.Output.Dir, MaxPathLength},
		{"style", c.Style, MaxStyleLength},
		{"lang", c.Lang, MaxLangLength},
		{"timeout", c.Timeout, MaxDurationLength},
	}
	for _, l := range lengths {
		if err := validateFieldLength(l.field, l.value, l.max); err != nil {
			return err
		}
	}

	if c.Footer.Position != "" {
		switch strings.ToLower(c.Footer.Position) {
		case "left", "center", "right":
			// valid
		default:
			return fmt.Errorf("%w: footer.position %q (must be left, center, or right)", ErrInvalidConfig, c.Footer.Position)
		}
	}

	if c.Content.RootFontSize != 0 && (c.Content.RootFontSize < MinRootFontSize || c.Content.RootFontSize > MaxRootFontSize) {
		return fmt.Errorf("%w: content.rootFontSize must be between %d and %d, got %.2f",
			ErrInvalidConfig, MinRootFontSize, MaxRootFontSize, c.Content.RootFontSize)
	}

	switch strings.ToLower(c.Content.OnMissingRecord) {
	case "", OnMissingAbort, OnMissingSkip:
		// valid
	default:
		return fmt.Errorf("%w: content.onMissingRecord %q (must be abort or skip)", ErrInvalidConfig, c.Content.OnMissingRecord)
	}

	if c.Page.Margin < 0 || c.Page.Margin > MaxMargin {
		return fmt.Errorf("%w: page.margin must be between 0 and %.1f, got %.2f", ErrInvalidConfig, MaxMargin, c.Page.Margin)
	}

	if c.Workers < 0 || c.Workers > MaxWorkers {
		return fmt.Errorf("%w: workers must be between 0 and %d, got %d", ErrInvalidConfig, MaxWorkers, c.Workers)
	}

	if _, err := parseDuration("content.activityTimeout", c.Content.ActivityTimeout); err != nil {
		return err
	}
	if _, err := parseDuration("timeout", c.Timeout); err != nil {
		return err
	}

	return nil
}

// ActivityTimeoutDuration returns content.activityTimeout, 0 when unset.
func (c *Config) ActivityTimeoutDuration() time.Duration {
	d, _ := parseDuration("content.activityTimeout", c.Content.ActivityTimeout)
	return d
}

// TimeoutDuration returns timeout, 0 when unset.
func (c *Config) TimeoutDuration() time.Duration {
	d, _ := parseDuration("timeout", c.Timeout)
	return d
}

// parseDuration parses an optional positive duration bounded by MaxTimeout.
func parseDuration(field, value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q: %v", ErrInvalidConfig, field, value, err)
	}
	if d <= 0 || d > MaxTimeout {
		return 0, fmt.Errorf("%w: %s must be between 0 and %s, got %s", ErrInvalidConfig, field, MaxTimeout, d)
	}
	return d, nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Footer: FooterConfig{Enabled: true, Position: "right", ShowPageNumber: true},
		TOC:    TOCConfig{Enabled: true, Title: "Contents"},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if isFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// SearchPaths returns the files LoadConfig tries for a config name, in order:
// <name>.yaml and <name>.yml in the current directory, then in
// ~/.config/go-course2pdf/.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2) // 2 locations

	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, "go-course2pdf", name+ext))
		}
	}
	return paths
}

// resolveConfigPath searches for a config file by name in standard locations.
func resolveConfigPath(name string) (string, error) {
	triedPaths := SearchPaths(name)
	for _, p := range triedPaths {
		if fileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}

// fileExists returns true if the path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
