package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	flag "github.com/spf13/pflag"
	"go.uber.org/zap"

	course2pdf "github.com/alnah/go-course2pdf"
	"github.com/alnah/go-course2pdf/internal/assets"
	"github.com/alnah/go-course2pdf/internal/config"
	"github.com/alnah/go-course2pdf/internal/fileutil"
	"github.com/alnah/go-course2pdf/internal/hints"
	"github.com/alnah/go-course2pdf/internal/module"
)

// Sentinel errors for CLI operations.
var (
	ErrUsage            = errors.New("invalid usage")
	ErrInvalidCourseArg = errors.New("invalid course id")
	ErrNoDatabase       = errors.New("no course database specified")
	ErrOpenDatabase     = errors.New("failed to open course database")
	ErrWriteOutput      = errors.New("failed to write output")
	ErrExporterInit     = errors.New("failed to initialize exporter")
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// CourseExporter is the interface for the export service.
type CourseExporter interface {
	Export(ctx context.Context, src course2pdf.CourseSource, input course2pdf.Input) (*course2pdf.ExportResult, error)
}

// Compile-time interface implementation check.
var _ CourseExporter = (*course2pdf.Exporter)(nil)

// exportJob groups what every course export of a run shares.
type exportJob struct {
	src       course2pdf.CourseSource
	input     course2pdf.Input
	outputDir string
	keepHTML  bool
}

// ExportOutcome holds the result of a single course export.
type ExportOutcome struct {
	CourseID   int64
	OutputPath string
	Activities int
	Skipped    int
	Err        error
	Duration   time.Duration
}

// batchError reports failed exports; it unwraps to the first failure so the
// exit code reflects it.
type batchError struct {
	failed int
	first  error
}

func (e *batchError) Error() string {
	return fmt.Sprintf("%d export(s) failed", e.failed)
}

func (e *batchError) Unwrap() error {
	return e.first
}

// runExport orchestrates the export process.
func runExport(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseExportFlags(args, env.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}

	ids, err := parseCourseIDs(positional)
	if err != nil {
		return err
	}

	cfg, err := loadCLIConfig(&flags.common, env)
	if err != nil {
		return err
	}
	mergeFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	input, err := buildInput(cfg, flags.outputMode.htmlOnly)
	if err != nil {
		return err
	}

	logger := newLogger(env.Stderr, flags.common.verbose, flags.common.quiet)
	defer func() { _ = logger.Sync() }()

	opts, err := buildExporterOptions(cfg, logger)
	if err != nil {
		return err
	}

	src, err := openSource(cfg, env, logger)
	if err != nil {
		return err
	}
	defer src.Close()

	outputDir := resolveOutputDir(cfg)
	if err := os.MkdirAll(outputDir, dirPermissions); err != nil {
		return fmt.Errorf("%w: creating %s: %v%s", ErrWriteOutput, outputDir, err, hints.ForOutputDirectory())
	}

	poolSize := min(course2pdf.ResolvePoolSize(flags.jobs), len(ids))
	logger.Debug("starting export", zap.Int("courses", len(ids)), zap.Int("pool_size", poolSize))

	pool := env.NewPool(poolSize, opts...)
	defer pool.Close()

	job := &exportJob{
		src:       src,
		input:     input,
		outputDir: outputDir,
		keepHTML:  cfg.Output.KeepHTML,
	}
	outcomes := exportBatch(ctx, pool, ids, job)

	return printOutcomes(outcomes, flags.common.quiet, flags.common.verbose, env)
}

// parseCourseIDs parses positional course ids. Duplicates are exported once.
func parseCourseIDs(args []string) ([]int64, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("%w: at least one course id is required", ErrUsage)
	}
	seen := make(map[int64]bool, len(args))
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidCourseArg, arg)
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// loadCLIConfig loads the config file, then fills unset values from the
// environment. Priority: CLI flags > env vars > config file > defaults.
func loadCLIConfig(flags *commonFlags, env *Environment) (*config.Config, error) {
	envSrc, err := newEnvSource(env, flags.envFile)
	if err != nil {
		return nil, err
	}
	if !flags.quiet {
		warnUnknownEnvVars(env.Stderr, envSrc)
	}
	envCfg := loadEnvConfig(envSrc)

	configName := flags.config
	if configName == "" {
		configName = envCfg.ConfigPath
	}

	cfg := config.DefaultConfig()
	if configName != "" {
		cfg, err = config.LoadConfig(configName)
		if err != nil {
			if errors.Is(err, config.ErrConfigNotFound) && !strings.ContainsAny(configName, `/\`) {
				return nil, fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound(config.SearchPaths(configName)))
			}
			return nil, fmt.Errorf("loading config: %w", err)
		}
	}

	applyEnvConfig(envCfg, cfg)
	if flags.db != "" {
		cfg.Database.Path = flags.db
	}
	return cfg, nil
}

// mergeFlags merges CLI flags into config. CLI values override config values.
func mergeFlags(flags *exportFlags, cfg *config.Config) {
	if flags.output != "" {
		cfg.Output.Dir = flags.output
	}
	if flags.timeout != "" {
		cfg.Timeout = flags.timeout
	}
	if flags.lang != "" {
		cfg.Lang = flags.lang
	}

	// Page
	if flags.page.size != "" {
		cfg.Page.Size = flags.page.size
	}
	if flags.page.orientation != "" {
		cfg.Page.Orientation = flags.page.orientation
	}
	if flags.page.margin > 0 {
		cfg.Page.Margin = flags.page.margin
	}

	// Footer
	if flags.footer.position != "" {
		cfg.Footer.Position = flags.footer.position
	}
	if flags.footer.text != "" {
		cfg.Footer.Text = flags.footer.text
	}
	if flags.footer.pageNumber {
		cfg.Footer.ShowPageNumber = true
	}
	if flags.footer.noPageNumber {
		cfg.Footer.ShowPageNumber = false
	}
	if flags.footer.disabled {
		cfg.Footer.Enabled = false
	}

	// Cover
	if flags.cover.authorLabel != "" {
		cfg.Cover.AuthorLabel = flags.cover.authorLabel
	}
	if flags.cover.date != "" {
		cfg.Cover.DateFormat = flags.cover.date
	}
	if flags.cover.siteURL != "" {
		cfg.Cover.SiteURL = flags.cover.siteURL
	}

	// Outline
	if flags.toc.title != "" {
		cfg.TOC.Title = flags.toc.title
	}
	if flags.toc.disabled {
		cfg.TOC.Enabled = false
	}

	// Content
	if flags.content.workers > 0 {
		cfg.Workers = flags.content.workers
	}
	if flags.content.activityTimeout != "" {
		cfg.Content.ActivityTimeout = flags.content.activityTimeout
	}
	if flags.content.onMissing != "" {
		cfg.Content.OnMissingRecord = flags.content.onMissing
	}
	if flags.content.emojiDir != "" {
		cfg.Assets.EmojiDir = flags.content.emojiDir
	}
	if flags.content.filesDir != "" {
		cfg.Content.FilesDir = flags.content.filesDir
	}
	if flags.content.rootFontSize > 0 {
		cfg.Content.RootFontSize = flags.content.rootFontSize
	}

	// Assets
	if flags.assets.style != "" {
		cfg.Style = flags.assets.style
	}
	if flags.assets.assetPath != "" {
		cfg.Assets.BasePath = flags.assets.assetPath
	}

	// Output
	if flags.outputMode.html {
		cfg.Output.KeepHTML = true
	}
	if flags.outputMode.minify {
		cfg.Output.Minify = true
	}
}

// buildInput creates the export input shared by every course of the run.
// Settings are validated here so a bad value fails before the database opens.
func buildInput(cfg *config.Config, htmlOnly bool) (course2pdf.Input, error) {
	page := course2pdf.DefaultPageSettings()
	if cfg.Page.Size != "" {
		page.Size = cfg.Page.Size
	}
	if cfg.Page.Orientation != "" {
		page.Orientation = cfg.Page.Orientation
	}
	if cfg.Page.Margin > 0 {
		page.Margin = cfg.Page.Margin
	}

	var footer *course2pdf.Footer
	if cfg.Footer.Enabled {
		footer = &course2pdf.Footer{
			Position:       cfg.Footer.Position,
			ShowPageNumber: cfg.Footer.ShowPageNumber,
			Text:           cfg.Footer.Text,
		}
	}

	cover := course2pdf.DefaultCover()
	if cfg.Cover.AuthorLabel != "" {
		cover.AuthorLabel = cfg.Cover.AuthorLabel
	}
	if cfg.Cover.DateFormat != "" {
		cover.Date = cfg.Cover.DateFormat
	}
	cover.SiteURL = cfg.Cover.SiteURL

	var toc *course2pdf.TOC
	if cfg.TOC.Enabled {
		toc = &course2pdf.TOC{Title: cfg.TOC.Title}
	}

	input := course2pdf.Input{
		Page:     page,
		Footer:   footer,
		Cover:    cover,
		TOC:      toc,
		HTMLOnly: htmlOnly,
	}

	if err := page.Validate(); err != nil {
		return input, err
	}
	if err := footer.Validate(); err != nil {
		return input, err
	}
	if err := cover.Validate(); err != nil {
		return input, fmt.Errorf("invalid cover date: %w", err)
	}
	return input, nil
}

// buildExporterOptions translates config into exporter options.
func buildExporterOptions(cfg *config.Config, logger *zap.Logger) ([]course2pdf.Option, error) {
	policy, err := course2pdf.ParseMissingRecordPolicy(cfg.Content.OnMissingRecord)
	if err != nil {
		return nil, err
	}

	opts := []course2pdf.Option{
		course2pdf.WithLogger(logger),
		course2pdf.WithMissingRecordPolicy(policy),
		course2pdf.WithWorkers(cfg.Workers),
		course2pdf.WithMinify(cfg.Output.Minify),
		course2pdf.WithLang(cfg.Lang),
	}
	if d := cfg.TimeoutDuration(); d > 0 {
		opts = append(opts, course2pdf.WithTimeout(d))
	}
	if d := cfg.ActivityTimeoutDuration(); d > 0 {
		opts = append(opts, course2pdf.WithActivityTimeout(d))
	}
	if cfg.Style != "" {
		opts = append(opts, course2pdf.WithStyle(cfg.Style))
	}
	if cfg.Assets.BasePath != "" {
		opts = append(opts, course2pdf.WithAssetPath(cfg.Assets.BasePath))
	}
	if cfg.Content.RootFontSize > 0 {
		opts = append(opts, course2pdf.WithRootFontSize(cfg.Content.RootFontSize))
	}
	if cfg.Content.InertScriptType != "" {
		opts = append(opts, course2pdf.WithInertScriptType(cfg.Content.InertScriptType))
	}
	if cfg.Content.FilesDir != "" {
		opts = append(opts, course2pdf.WithFilesDir(cfg.Content.FilesDir))
	}

	if cfg.Assets.EmojiDir != "" {
		emoji, err := assets.NewEmojiAssets(cfg.Assets.EmojiDir,
			assets.WithEmojiBaseURL(cfg.Assets.EmojiBaseURL),
			assets.WithSVGVerification(cfg.Assets.VerifyEmoji),
		)
		if err != nil {
			return nil, fmt.Errorf("emoji directory: %w%s", err, hints.ForEmojiDir())
		}
		opts = append(opts, course2pdf.WithEmojiAssets(emoji))
	}

	return opts, nil
}

// openSource opens the configured course database.
func openSource(cfg *config.Config, env *Environment, logger *zap.Logger) (Source, error) {
	if cfg.Database.Path == "" {
		return nil, fmt.Errorf("%w%s", ErrNoDatabase, hints.ForDatabase())
	}
	src, err := env.OpenStore(cfg.Database.Path, logger)
	if err != nil {
		return nil, fmt.Errorf("%w: %v%s", ErrOpenDatabase, err, hints.ForDatabase())
	}
	return src, nil
}

// resolveOutputDir returns the configured output directory, or the current one.
func resolveOutputDir(cfg *config.Config) string {
	if cfg.Output.Dir != "" {
		return cfg.Output.Dir
	}
	return "."
}

// exportBatch exports courses concurrently using the exporter pool.
// Outcomes keep the order of ids.
func exportBatch(ctx context.Context, pool Pool, ids []int64, job *exportJob) []ExportOutcome {
	if len(ids) == 0 {
		return nil
	}

	concurrency := min(pool.Size(), len(ids))

	outcomes := make([]ExportOutcome, len(ids))
	var wg sync.WaitGroup
	jobs := make(chan int, len(ids))

	for range concurrency {
		wg.Add(1)
		go func() {
			defer wg.Done()

			exp, err := pool.Acquire()
			if err != nil {
				// Exporter creation failed, mark remaining jobs as failed
				for idx := range jobs {
					outcomes[idx] = ExportOutcome{
						CourseID: ids[idx],
						Err:      fmt.Errorf("%w: %w", ErrExporterInit, err),
					}
				}
				return
			}
			defer pool.Release(exp)

			for idx := range jobs {
				if ctx.Err() != nil {
					outcomes[idx] = ExportOutcome{CourseID: ids[idx], Err: ctx.Err()}
					continue
				}
				outcomes[idx] = exportCourse(ctx, exp, ids[idx], job)
			}
		}()
	}

	for i := range ids {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return outcomes
}

// exportCourse exports one course and writes its files.
func exportCourse(ctx context.Context, exp CourseExporter, id int64, job *exportJob) ExportOutcome {
	start := time.Now()
	outcome := ExportOutcome{CourseID: id}

	input := job.input
	input.CourseID = id

	result, err := exp.Export(ctx, job.src, input)
	if err != nil {
		outcome.Err = err
		outcome.Duration = time.Since(start)
		return outcome
	}
	outcome.Activities = result.Activities
	outcome.Skipped = result.Skipped

	pdfPath := filepath.Join(job.outputDir, result.Filename)
	htmlPath := strings.TrimSuffix(pdfPath, filepath.Ext(pdfPath)) + ".html"

	if input.HTMLOnly || job.keepHTML {
		if err := fileutil.WriteFileAtomic(htmlPath, result.HTML, filePermissions); err != nil {
			outcome.Err = fmt.Errorf("%w: %v", ErrWriteOutput, err)
			outcome.Duration = time.Since(start)
			return outcome
		}
		if input.HTMLOnly {
			outcome.OutputPath = htmlPath
			outcome.Duration = time.Since(start)
			return outcome
		}
	}

	if err := fileutil.WriteFileAtomic(pdfPath, result.PDF, filePermissions); err != nil {
		outcome.Err = fmt.Errorf("%w: %v", ErrWriteOutput, err)
		outcome.Duration = time.Since(start)
		return outcome
	}

	outcome.OutputPath = pdfPath
	outcome.Duration = time.Since(start)
	return outcome
}

// printOutcomes reports every export and returns a batchError when any failed.
func printOutcomes(outcomes []ExportOutcome, quiet, verbose bool, env *Environment) error {
	var failed int
	var first error

	for _, o := range outcomes {
		if o.Err != nil {
			failed++
			if first == nil {
				first = o.Err
			}
			fmt.Fprintf(env.Stderr, "FAILED course %d: %v%s\n", o.CourseID, o.Err, hintFor(o.Err))
			continue
		}

		if quiet {
			continue
		}

		if verbose {
			fmt.Fprintf(env.Stdout, "course %d -> %s (%d activities, %d skipped, %v)\n",
				o.CourseID, o.OutputPath, o.Activities, o.Skipped, o.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", o.OutputPath)
		}
	}

	if !quiet && len(outcomes) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", len(outcomes)-failed, failed)
	}

	if failed > 0 {
		return &batchError{failed: failed, first: first}
	}
	return nil
}

// hintFor returns an actionable hint for known failures.
func hintFor(err error) string {
	switch {
	case errors.Is(err, course2pdf.ErrCourseNotFound):
		return hints.ForCourseNotFound()
	case errors.Is(err, course2pdf.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, course2pdf.ErrActivityTimeout),
		errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, course2pdf.ErrStyleNotFound):
		return hints.ForStyleNotFound(assets.EmbeddedStyles())
	case errors.Is(err, module.ErrUnsupportedType):
		return hints.ForUnsupportedTypes(module.DefaultRegistry().Supported())
	}
	return ""
}
