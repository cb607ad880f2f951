package course2pdf

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"os"
	"time"

	"github.com/ecodeclub/ekit/slice"
	"github.com/tdewolff/minify/v2"
	"go.uber.org/zap"

	"github.com/alnah/go-course2pdf/internal/assets"
	"github.com/alnah/go-course2pdf/internal/dateutil"
	"github.com/alnah/go-course2pdf/internal/fileutil"
	"github.com/alnah/go-course2pdf/internal/module"
	"github.com/alnah/go-course2pdf/internal/pipeline"
	"github.com/alnah/go-course2pdf/internal/symbols"
	"github.com/alnah/go-course2pdf/internal/textformat"
)

// Compile-time interface implementation checks.
var (
	_ module.Formatter      = (*textformat.Formatter)(nil)
	_ pipeline.AssetChecker = (*assets.EmojiAssets)(nil)
)

// Exporter turns a course into a printable HTML document and a PDF.
// Create with NewExporter, call Export per course, and Close when done.
// Export may be called from several goroutines, but each call prints through
// the same browser; use ExporterPool for parallel PDF generation.
type Exporter struct {
	cfg          exporterConfig
	logger       *zap.Logger
	registry     *module.Registry
	text         module.Formatter
	assetLoader  assets.Loader
	normalizer   *pipeline.Normalizer
	docs         *documentBuilder
	style        string
	minifier     *minify.M
	pdfConverter pdfConverter
	now          func() time.Time
}

// NewExporter creates an Exporter. The symbol tables, style and templates
// are loaded here so a broken installation fails before any course is read.
func NewExporter(opts ...Option) (*Exporter, error) {
	e := &Exporter{
		cfg: exporterConfig{
			timeout:         defaultTimeout,
			activityTimeout: defaultActivityTimeout,
			lang:            defaultLang,
		},
		logger:      zap.NewNop(),
		registry:    module.DefaultRegistry(),
		text:        textformat.New(),
		assetLoader: assets.NewEmbeddedLoader(),
		now:         time.Now,
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.cfg.missing != MissingAbort && e.cfg.missing != MissingSkip {
		return nil, fmt.Errorf("%w: %d", ErrInvalidMissingPolicy, e.cfg.missing)
	}

	if e.cfg.assetPath != "" {
		resolver, err := assets.NewResolver(e.cfg.assetPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
		}
		e.assetLoader = resolver
		e.logger.Debug("asset path configured",
			zap.String("path", e.cfg.assetPath),
			zap.Bool("custom", resolver.HasCustomLoader()))
	}

	if err := e.resolveStyle(); err != nil {
		return nil, err
	}

	docs, err := newDocumentBuilder(e.assetLoader)
	if err != nil {
		return nil, err
	}
	e.docs = docs

	tables, err := symbols.Default()
	if err != nil {
		return nil, fmt.Errorf("loading symbol tables: %w", err)
	}
	e.normalizer, err = pipeline.NewNormalizer(pipeline.NormalizerConfig{
		Tables:          tables,
		Assets:          e.cfg.emoji,
		RootSize:        e.cfg.rootFontSize,
		BaseFontSize:    e.cfg.rootFontSize,
		InertScriptType: e.cfg.inertScriptType,
		FilesDir:        e.cfg.filesDir,
		Logger:          e.logger,
	})
	if err != nil {
		return nil, err
	}

	if e.cfg.minify {
		e.minifier = newMinifier()
	}

	// Create PDF converter if not injected (e.g., by tests)
	if e.pdfConverter == nil {
		e.pdfConverter = newRodConverter(e.cfg.timeout)
	}

	return e, nil
}

// Export renders one course. Sections are printed in order, skipping
// section 0 and sections without a supported activity. Any failure aborts
// the export; no partial document is returned.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (e *Exporter) Export(ctx context.Context, src CourseSource, input Input) (result *ExportResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	if src == nil {
		return nil, ErrNilSource
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}

	logger := e.logger.With(zap.Int64("course_id", input.CourseID))

	course, err := src.Course(ctx, input.CourseID)
	if err != nil {
		return nil, fmt.Errorf("loading course: %w", err)
	}
	teachers, err := src.Teachers(ctx, input.CourseID)
	if err != nil {
		return nil, fmt.Errorf("loading teachers: %w", err)
	}
	sections, err := src.Sections(ctx, input.CourseID)
	if err != nil {
		return nil, fmt.Errorf("loading sections: %w", err)
	}

	plans, skipped := e.plan(sections, logger)

	rendered, err := e.renderAll(ctx, src, plans, logger)
	if err != nil {
		return nil, err
	}

	layout := newHTMLLayout()
	stats, err := e.assemble(ctx, layout, plans, rendered)
	if err != nil {
		return nil, err
	}
	stats.skipped += skipped

	now := e.now()
	doc, err := e.renderDocument(course, teachers, layout, input, now)
	if err != nil {
		return nil, err
	}

	res := &ExportResult{
		HTML:       []byte(doc),
		Filename:   fmt.Sprintf("course_%d_%d.pdf", course.ID, now.Unix()),
		Sections:   stats.sections,
		Activities: stats.activities,
		Skipped:    stats.skipped,
	}
	logger.Info("course rendered",
		zap.Int("sections", res.Sections),
		zap.Int("activities", res.Activities),
		zap.Int("skipped", res.Skipped))

	// Skip PDF generation if HTMLOnly mode
	if input.HTMLOnly {
		return res, nil
	}

	page := input.Page
	if page == nil {
		page = DefaultPageSettings()
	}
	pdfCtx, cancel := context.WithTimeout(ctx, e.cfg.timeout)
	defer cancel()

	pdfBytes, err := e.pdfConverter.ToPDF(pdfCtx, doc, &pdfOptions{Page: page, Footer: input.Footer})
	if err != nil {
		if errors.Is(err, ErrPDFGeneration) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrPDFGeneration, err)
	}
	res.PDF = pdfBytes
	return res, nil
}

// Close releases resources (headless Chrome browser).
func (e *Exporter) Close() error {
	if e.pdfConverter != nil {
		return e.pdfConverter.Close()
	}
	return nil
}

// renderDocument builds the cover and outline and wraps everything in the
// document template.
func (e *Exporter) renderDocument(course *Course, teachers []Teacher, layout *htmlLayout, input Input, now time.Time) (string, error) {
	cover := input.Cover
	if cover == nil {
		cover = DefaultCover()
	}
	date, err := dateutil.ResolveDate(cover.Date, now)
	if err != nil {
		return "", err
	}

	titleStyle, ruleStyle := coverStyles()
	coverHTML, err := e.docs.renderCover(coverData{
		Title:       course.FullName,
		TitleStyle:  titleStyle,
		RuleStyle:   ruleStyle,
		AuthorLabel: cover.AuthorLabel,
		Authors:     slice.Map(teachers, func(_ int, t Teacher) string { return t.FullName() }),
		Date:        date,
		EnrolURL:    cover.EnrolURL(course.ID),
		EnrolLabel:  cover.EnrolLabel,
	})
	if err != nil {
		return "", err
	}

	body := layout.Body()
	var outline string
	if input.TOC != nil {
		outline = buildOutline(input.TOC.Title, layout.Bookmarks())
	}

	// Order matters: generated rules first, style last so it can override.
	css := buildPrintCSS(fontBody) + e.style

	doc, err := e.docs.render(documentData{
		Lang:    e.cfg.lang,
		Title:   course.FullName,
		CSS:     template.CSS(pipeline.SanitizeCSS(css)), // #nosec G203 -- style is escaped for the style element
		Cover:   template.HTML(coverHTML),                // #nosec G203 -- rendered by html/template
		Outline: template.HTML(outline),                  // #nosec G203 -- titles are escaped
		Body:    template.HTML(body),                     // #nosec G203 -- normalized fragments
	})
	if err != nil {
		return "", err
	}

	if e.minifier != nil {
		return minifyHTML(e.minifier, doc)
	}
	return doc, nil
}

// resolveStyle resolves the style input (name, path, or CSS content) to CSS content.
// Called during NewExporter after options are applied and the asset loader is configured.
func (e *Exporter) resolveStyle() error {
	input := e.cfg.styleInput
	if input == "" {
		input = assets.DefaultStyleName
	}

	// File path? (contains / or \)
	if fileutil.IsFilePath(input) {
		content, err := os.ReadFile(input) // #nosec G304 -- user-provided path
		if err != nil {
			return fmt.Errorf("loading style file %q: %w", input, err)
		}
		e.style = string(content)
		return nil
	}

	// CSS content? (contains {)
	if fileutil.IsCSS(input) {
		e.style = input
		return nil
	}

	css, err := e.assetLoader.LoadStyle(input)
	if err != nil {
		return fmt.Errorf("loading style %q: %w", input, err)
	}
	e.style = css
	return nil
}

// validateInput checks that required fields are present and valid.
//
// This is a TRUST BOUNDARY for direct library users who build Input manually.
// CLI users have their input validated earlier by Config.Validate() at config load time.
func validateInput(input Input) error {
	if input.CourseID <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidCourseID, input.CourseID)
	}
	if err := input.Page.Validate(); err != nil {
		return err
	}
	if err := input.Footer.Validate(); err != nil {
		return err
	}
	if err := input.Cover.Validate(); err != nil {
		return err
	}
	return nil
}
