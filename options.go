package course2pdf

import (
	"time"

	"go.uber.org/zap"

	"github.com/alnah/go-course2pdf/internal/module"
	"github.com/alnah/go-course2pdf/internal/pipeline"
)

// Default budgets.
const (
	defaultTimeout         = 30 * time.Second
	defaultActivityTimeout = 30 * time.Second
	defaultLang            = "en"
)

// Option configures an Exporter.
type Option func(*Exporter)

// exporterConfig holds internal configuration for Exporter.
type exporterConfig struct {
	timeout         time.Duration
	activityTimeout time.Duration
	workers         int
	missing         MissingRecordPolicy
	styleInput      string
	assetPath       string
	minify          bool
	lang            string
	rootFontSize    float64
	inertScriptType string
	filesDir        string
	emoji           pipeline.AssetChecker
}

// WithTimeout sets the PDF generation timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("course2pdf: WithTimeout duration must be positive")
	}
	return func(e *Exporter) {
		e.cfg.timeout = d
	}
}

// WithActivityTimeout bounds the time spent rendering a single activity.
// Panics if d <= 0.
func WithActivityTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("course2pdf: WithActivityTimeout duration must be positive")
	}
	return func(e *Exporter) {
		e.cfg.activityTimeout = d
	}
}

// WithWorkers renders up to n activities concurrently. Values below 2 keep
// rendering sequential. Output order never depends on n.
func WithWorkers(n int) Option {
	return func(e *Exporter) {
		e.cfg.workers = n
	}
}

// WithLogger sets the logger. Nil keeps the no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Exporter) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithRegistry replaces the built-in activity renderers.
func WithRegistry(r *module.Registry) Option {
	return func(e *Exporter) {
		if r != nil {
			e.registry = r
		}
	}
}

// WithMissingRecordPolicy decides whether a missing activity record aborts
// the export (default) or is skipped.
func WithMissingRecordPolicy(p MissingRecordPolicy) Option {
	return func(e *Exporter) {
		e.cfg.missing = p
	}
}

// WithEmojiAssets sets where emoji images are looked up. Without it every
// emoji is dropped from the output.
func WithEmojiAssets(a pipeline.AssetChecker) Option {
	return func(e *Exporter) {
		e.cfg.emoji = a
	}
}

// WithRootFontSize sets the px size of 1rem and 1em used when relative CSS
// units are converted.
func WithRootFontSize(px float64) Option {
	return func(e *Exporter) {
		e.cfg.rootFontSize = px
	}
}

// WithInertScriptType sets the script type removed from activity content.
func WithInertScriptType(t string) Option {
	return func(e *Exporter) {
		e.cfg.inertScriptType = t
	}
}

// WithFilesDir rewrites relative image sources against dir.
func WithFilesDir(dir string) Option {
	return func(e *Exporter) {
		e.cfg.filesDir = dir
	}
}

// WithStyle sets the document style: a built-in name, a CSS file path, or
// raw CSS.
func WithStyle(style string) Option {
	return func(e *Exporter) {
		e.cfg.styleInput = style
	}
}

// WithAssetPath loads styles and templates from dir, falling back to the
// embedded ones.
func WithAssetPath(dir string) Option {
	return func(e *Exporter) {
		e.cfg.assetPath = dir
	}
}

// WithMinify minifies the generated HTML document.
func WithMinify(enabled bool) Option {
	return func(e *Exporter) {
		e.cfg.minify = enabled
	}
}

// WithLang sets the document language attribute.
func WithLang(lang string) Option {
	return func(e *Exporter) {
		if lang != "" {
			e.cfg.lang = lang
		}
	}
}
