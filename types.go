package course2pdf

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alnah/go-course2pdf/internal/dateutil"
	"github.com/alnah/go-course2pdf/internal/fileutil"
	"github.com/alnah/go-course2pdf/internal/module"
)

// Page size constants.
const (
	PageSizeLetter = "letter"
	PageSizeA4     = "a4"
	PageSizeLegal  = "legal"
)

// Orientation constants.
const (
	OrientationPortrait  = "portrait"
	OrientationLandscape = "landscape"
)

// Margin bounds in inches.
const (
	MinMargin     = 0.25
	MaxMargin     = 3.0
	DefaultMargin = 0.8 // about 20 mm
)

// Cover defaults.
const (
	DefaultAuthorLabel = "Published by"
	DefaultEnrolLabel  = "Enrol at"
	DefaultTOCTitle    = "Contents"
)

// Course structure types, shared with the data provider.
type (
	Course   = module.Course
	Section  = module.Section
	Activity = module.Activity
	Teacher  = module.Teacher
)

// CourseSource supplies the course structure and every activity record.
// Course must return an error matching ErrCourseNotFound for unknown ids;
// record lookups report missing rows with ErrRecordNotFound.
type CourseSource interface {
	module.Provider
	Course(ctx context.Context, id int64) (*Course, error)
	// Sections returns sections ordered by number, activities in course order.
	Sections(ctx context.Context, courseID int64) ([]Section, error)
	Teachers(ctx context.Context, courseID int64) ([]Teacher, error)
}

// PageSettings configures PDF page dimensions.
type PageSettings struct {
	Size        string  // "letter", "a4", "legal"
	Orientation string  // "portrait", "landscape"
	Margin      float64 // inches, applied to all sides
}

// DefaultPageSettings returns page settings with default values.
func DefaultPageSettings() *PageSettings {
	return &PageSettings{
		Size:        PageSizeA4,
		Orientation: OrientationPortrait,
		Margin:      DefaultMargin,
	}
}

// Validate checks that page settings are valid.
// Returns nil if p is nil (nil means use defaults).
func (p *PageSettings) Validate() error {
	if p == nil {
		return nil
	}

	if !isValidPageSize(p.Size) {
		return fmt.Errorf("%w: %q", ErrInvalidPageSize, p.Size)
	}

	if !isValidOrientation(p.Orientation) {
		return fmt.Errorf("%w: %q", ErrInvalidOrientation, p.Orientation)
	}

	if p.Margin < MinMargin || p.Margin > MaxMargin {
		return fmt.Errorf("%w: %.2f (must be between %.2f and %.2f)", ErrInvalidMargin, p.Margin, MinMargin, MaxMargin)
	}

	return nil
}

// isValidPageSize checks if size is a known page size (case-insensitive).
func isValidPageSize(size string) bool {
	switch strings.ToLower(size) {
	case PageSizeLetter, PageSizeA4, PageSizeLegal:
		return true
	}
	return false
}

// isValidOrientation checks if orientation is valid (case-insensitive).
func isValidOrientation(orientation string) bool {
	switch strings.ToLower(orientation) {
	case OrientationPortrait, OrientationLandscape:
		return true
	}
	return false
}

// Footer configures the PDF footer.
type Footer struct {
	Position       string // "left", "center", "right" (default: "right")
	ShowPageNumber bool
	Text           string
}

// Validate checks that footer settings are valid.
// Returns nil if f is nil (nil means no footer).
func (f *Footer) Validate() error {
	if f == nil {
		return nil
	}
	switch strings.ToLower(f.Position) {
	case "", "left", "center", "right":
		return nil
	default:
		return fmt.Errorf("%w: %q (must be left, center, or right)", ErrInvalidFooterPosition, f.Position)
	}
}

// Cover configures the cover page. The course title and teachers always
// come from the course itself.
type Cover struct {
	AuthorLabel string // label before the teacher names
	Date        string // literal date, or "auto"/"auto:FORMAT"; empty = no date
	SiteURL     string // LMS root URL; when set the enrolment link is printed last
	EnrolLabel  string
}

// DefaultCover returns the cover used when Input.Cover is nil.
func DefaultCover() *Cover {
	return &Cover{
		AuthorLabel: DefaultAuthorLabel,
		Date:        dateutil.CoverDateFormat,
		EnrolLabel:  DefaultEnrolLabel,
	}
}

// EnrolURL returns the enrolment page of courseID, or "" without SiteURL.
func (c *Cover) EnrolURL(courseID int64) string {
	if c == nil || c.SiteURL == "" {
		return ""
	}
	return fmt.Sprintf("%s/enrol/index.php?id=%d", strings.TrimRight(c.SiteURL, "/"), courseID)
}

// Validate checks the date syntax and the site URL.
func (c *Cover) Validate() error {
	if c == nil {
		return nil
	}
	if _, err := dateutil.ResolveDate(c.Date, time.Time{}); err != nil {
		return err
	}
	if c.SiteURL != "" && !fileutil.IsURL(c.SiteURL) {
		return fmt.Errorf("%w: %q (must start with http:// or https://)", ErrInvalidSiteURL, c.SiteURL)
	}
	return nil
}

// TOC enables the outline page built from bookmarks.
type TOC struct {
	Title string // empty = no heading above the outline
}

// Input contains export parameters.
type Input struct {
	CourseID int64         // required, positive
	Page     *PageSettings // nil = defaults
	Footer   *Footer       // nil = no footer
	Cover    *Cover        // nil = DefaultCover
	TOC      *TOC          // nil = no outline page
	HTMLOnly bool          // skip PDF generation
}

// ExportResult holds the output of an export.
type ExportResult struct {
	HTML       []byte // complete HTML document
	PDF        []byte // nil when Input.HTMLOnly is set
	Filename   string // course_<id>_<unix>.pdf
	Sections   int    // exported sections
	Activities int    // exported activities
	Skipped    int    // unsupported or missing activities
}

// MissingRecordPolicy decides what happens when an activity record is gone.
type MissingRecordPolicy int

const (
	// MissingAbort fails the whole export.
	MissingAbort MissingRecordPolicy = iota
	// MissingSkip logs a warning and leaves the activity out.
	MissingSkip
)

// String returns the policy name used in configuration.
func (p MissingRecordPolicy) String() string {
	switch p {
	case MissingAbort:
		return "abort"
	case MissingSkip:
		return "skip"
	}
	return fmt.Sprintf("MissingRecordPolicy(%d)", int(p))
}

// ParseMissingRecordPolicy parses "abort" or "skip"; empty means abort.
func ParseMissingRecordPolicy(s string) (MissingRecordPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "abort":
		return MissingAbort, nil
	case "skip":
		return MissingSkip, nil
	}
	return MissingAbort, fmt.Errorf("%w: %q (must be abort or skip)", ErrInvalidMissingPolicy, s)
}
