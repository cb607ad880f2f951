package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/alnah/go-course2pdf/internal/config"
)

// envPrefix marks the variables course2pdf reads.
const envPrefix = "COURSE2PDF_"

// defaultDotEnv is read from the working directory when present.
const defaultDotEnv = ".env"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string        // COURSE2PDF_CONFIG: config file path
	DB         string        // COURSE2PDF_DB: course database path
	OutputDir  string        // COURSE2PDF_OUTPUT_DIR: output directory
	EmojiDir   string        // COURSE2PDF_EMOJI_DIR: emoji image directory
	Timeout    time.Duration // COURSE2PDF_TIMEOUT: PDF generation timeout
	Workers    int           // COURSE2PDF_WORKERS: parallel activity rendering
	Style      string        // COURSE2PDF_STYLE: CSS style name or path
	PageSize   string        // COURSE2PDF_PAGE_SIZE: a4, letter, legal
}

// knownEnvVars lists valid COURSE2PDF_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"COURSE2PDF_CONFIG":     true,
	"COURSE2PDF_DB":         true,
	"COURSE2PDF_OUTPUT_DIR": true,
	"COURSE2PDF_EMOJI_DIR":  true,
	"COURSE2PDF_TIMEOUT":    true,
	"COURSE2PDF_WORKERS":    true,
	"COURSE2PDF_STYLE":      true,
	"COURSE2PDF_PAGE_SIZE":  true,
}

// envSource resolves variables from the process first, then from a .env file.
type envSource struct {
	getenv  func(string) string
	environ func() []string
	dotenv  map[string]string
}

// newEnvSource reads the .env file at path. A missing file is not an error.
func newEnvSource(env *Environment, path string) (*envSource, error) {
	src := &envSource{getenv: env.Getenv, environ: env.Environ}
	if path == "" {
		return src, nil
	}
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return src, nil
		}
		return nil, fmt.Errorf("%w: reading %s: %v", ErrUsage, path, err)
	}
	src.dotenv = values
	return src, nil
}

// Get returns the value of name; process variables win over .env values.
func (s *envSource) Get(name string) string {
	if v := s.getenv(name); v != "" {
		return v
	}
	return s.dotenv[name]
}

// names returns every COURSE2PDF_* name set in the process or .env, sorted.
func (s *envSource) names() []string {
	seen := make(map[string]bool)
	for _, kv := range s.environ() {
		name, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(name, envPrefix) {
			seen[name] = true
		}
	}
	for name := range s.dotenv {
		if strings.HasPrefix(name, envPrefix) {
			seen[name] = true
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// loadEnvConfig reads configuration from environment variables.
// Invalid durations and worker counts are ignored.
func loadEnvConfig(src *envSource) *envConfig {
	cfg := &envConfig{
		ConfigPath: src.Get("COURSE2PDF_CONFIG"),
		DB:         src.Get("COURSE2PDF_DB"),
		OutputDir:  src.Get("COURSE2PDF_OUTPUT_DIR"),
		EmojiDir:   src.Get("COURSE2PDF_EMOJI_DIR"),
		Style:      src.Get("COURSE2PDF_STYLE"),
		PageSize:   src.Get("COURSE2PDF_PAGE_SIZE"),
	}

	if timeout := src.Get("COURSE2PDF_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	if workers := src.Get("COURSE2PDF_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized COURSE2PDF_* variables.
func warnUnknownEnvVars(w io.Writer, src *envSource) {
	for _, name := range src.names() {
		if !knownEnvVars[name] {
			fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
		}
	}
}

// applyEnvConfig applies environment variable values to config.
// Only sets values if the env var is set AND the config value is empty/zero.
// This ensures: CLI flags > env vars > config file > defaults
// (CLI flags are applied later via mergeFlags)
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.DB != "" && cfg.Database.Path == "" {
		cfg.Database.Path = env.DB
	}
	if env.OutputDir != "" && cfg.Output.Dir == "" {
		cfg.Output.Dir = env.OutputDir
	}
	if env.EmojiDir != "" && cfg.Assets.EmojiDir == "" {
		cfg.Assets.EmojiDir = env.EmojiDir
	}
	if env.Timeout > 0 && cfg.Timeout == "" {
		cfg.Timeout = env.Timeout.String()
	}
	if env.Workers > 0 && cfg.Workers == 0 {
		cfg.Workers = env.Workers
	}
	if env.Style != "" && cfg.Style == "" {
		cfg.Style = env.Style
	}
	if env.PageSize != "" && cfg.Page.Size == "" {
		cfg.Page.Size = env.PageSize
	}
}
