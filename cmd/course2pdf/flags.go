package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	envFile string
	db      string
	quiet   bool
	verbose bool
}

// pageFlags holds page layout flags.
type pageFlags struct {
	size        string
	orientation string
	margin      float64
}

// footerFlags holds footer-related flags.
type footerFlags struct {
	position     string
	text         string
	pageNumber   bool
	noPageNumber bool
	disabled     bool
}

// coverFlags holds cover page flags.
type coverFlags struct {
	authorLabel string
	date        string
	siteURL     string
}

// tocFlags holds outline flags.
type tocFlags struct {
	title    string
	disabled bool
}

// contentFlags holds activity rendering flags.
type contentFlags struct {
	workers         int
	activityTimeout string
	onMissing       string
	emojiDir        string
	filesDir        string
	rootFontSize    float64
}

// assetFlags holds asset-related flags.
type assetFlags struct {
	style     string
	assetPath string
}

// outputFlags holds output mode flags.
type outputFlags struct {
	html     bool // Write HTML alongside PDF
	htmlOnly bool // Write HTML only, skip PDF
	minify   bool
}

// exportFlags holds all flags for the export command.
type exportFlags struct {
	common     commonFlags
	output     string
	jobs       int
	timeout    string
	lang       string
	page       pageFlags
	footer     footerFlags
	cover      coverFlags
	toc        tocFlags
	content    contentFlags
	assets     assetFlags
	outputMode outputFlags
}

// coursesFlags holds flags for the courses command.
type coursesFlags struct {
	common commonFlags
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.StringVar(&f.envFile, "env-file", defaultDotEnv, "dotenv file with COURSE2PDF_* values")
	fs.StringVar(&f.db, "db", "", "course database (SQLite file)")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs and timing")
}

// addPageFlags adds page layout flags to a FlagSet.
func addPageFlags(fs *flag.FlagSet, f *pageFlags) {
	fs.StringVarP(&f.size, "page-size", "p", "", "page size: letter, a4, legal")
	fs.StringVar(&f.orientation, "orientation", "", "page orientation: portrait, landscape")
	fs.Float64Var(&f.margin, "margin", 0, "page margin in inches (0.25-3.0)")
}

// addFooterFlags adds footer flags to a FlagSet.
func addFooterFlags(fs *flag.FlagSet, f *footerFlags) {
	fs.StringVar(&f.position, "footer-position", "", "footer position: left, center, right")
	fs.StringVar(&f.text, "footer-text", "", "custom footer text")
	fs.BoolVar(&f.pageNumber, "footer-page-number", false, "show page numbers in footer")
	fs.BoolVar(&f.noPageNumber, "no-page-number", false, "hide page numbers")
	fs.BoolVar(&f.disabled, "no-footer", false, "disable footer")
}

// addCoverFlags adds cover page flags to a FlagSet.
func addCoverFlags(fs *flag.FlagSet, f *coverFlags) {
	fs.StringVar(&f.authorLabel, "author-label", "", "label before teacher names")
	fs.StringVar(&f.date, "cover-date", "", "cover date (\"auto\", \"auto:FORMAT\", or literal)")
	fs.StringVar(&f.siteURL, "site-url", "", "LMS root URL for the enrolment link")
}

// addTOCFlags adds outline flags to a FlagSet.
func addTOCFlags(fs *flag.FlagSet, f *tocFlags) {
	fs.StringVar(&f.title, "toc-title", "", "outline heading")
	fs.BoolVar(&f.disabled, "no-toc", false, "disable outline")
}

// addContentFlags adds activity rendering flags to a FlagSet.
func addContentFlags(fs *flag.FlagSet, f *contentFlags) {
	fs.IntVarP(&f.workers, "workers", "w", 0, "activities rendered in parallel per course")
	fs.StringVar(&f.activityTimeout, "activity-timeout", "", "time budget per activity (e.g., 30s)")
	fs.StringVar(&f.onMissing, "on-missing", "", "missing activity record: abort, skip")
	fs.StringVar(&f.emojiDir, "emoji-dir", "", "directory of emoji_u<key>.svg images")
	fs.StringVar(&f.filesDir, "files-dir", "", "directory of embedded course files")
	fs.Float64Var(&f.rootFontSize, "root-font-size", 0, "px per rem/em when converting units")
}

// addAssetFlags adds asset-related flags to a FlagSet.
func addAssetFlags(fs *flag.FlagSet, f *assetFlags) {
	fs.StringVar(&f.style, "style", "", "CSS style name or file path")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom asset directory")
}

// addOutputFlags adds output mode flags to a FlagSet.
func addOutputFlags(fs *flag.FlagSet, f *outputFlags) {
	fs.BoolVar(&f.html, "html", false, "write HTML alongside PDF")
	fs.BoolVar(&f.htmlOnly, "html-only", false, "write HTML only, skip PDF")
	fs.BoolVar(&f.minify, "minify", false, "minify the HTML document")
}

// parseExportFlags parses export command flags and returns positional args.
func parseExportFlags(args []string, usage io.Writer) (*exportFlags, []string, error) {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(usage)
	f := &exportFlags{}

	fs.StringVarP(&f.output, "output", "o", "", "output directory")
	fs.IntVarP(&f.jobs, "jobs", "j", 0, "courses exported in parallel (0 = auto)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "PDF generation timeout (e.g., 30s, 2m)")
	fs.StringVar(&f.lang, "lang", "", "document language")

	addCommonFlags(fs, &f.common)
	addPageFlags(fs, &f.page)
	addFooterFlags(fs, &f.footer)
	addCoverFlags(fs, &f.cover)
	addTOCFlags(fs, &f.toc)
	addContentFlags(fs, &f.content)
	addAssetFlags(fs, &f.assets)
	addOutputFlags(fs, &f.outputMode)

	fs.Usage = func() { printExportUsage(usage) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	return f, fs.Args(), nil
}

// parseCoursesFlags parses courses command flags.
func parseCoursesFlags(args []string, usage io.Writer) (*coursesFlags, error) {
	fs := flag.NewFlagSet("courses", flag.ContinueOnError)
	fs.SetOutput(usage)
	f := &coursesFlags{}
	addCommonFlags(fs, &f.common)
	fs.Usage = func() { printCoursesUsage(usage) }

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return f, nil
}
