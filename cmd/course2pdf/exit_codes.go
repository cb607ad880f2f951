package main

import (
	"errors"
	"os"

	course2pdf "github.com/alnah/go-course2pdf"
	"github.com/alnah/go-course2pdf/internal/assets"
	"github.com/alnah/go-course2pdf/internal/config"
	"github.com/alnah/go-course2pdf/internal/dateutil"
)

// Exit codes for course2pdf CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful export
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // Database, file, or course data errors
	ExitBrowser = 4 // Browser/Chrome errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrInvalidCourseArg) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidConfig) ||
		errors.Is(err, course2pdf.ErrInvalidCourseID) ||
		errors.Is(err, course2pdf.ErrInvalidPageSize) ||
		errors.Is(err, course2pdf.ErrInvalidOrientation) ||
		errors.Is(err, course2pdf.ErrInvalidMargin) ||
		errors.Is(err, course2pdf.ErrInvalidFooterPosition) ||
		errors.Is(err, course2pdf.ErrInvalidSiteURL) ||
		errors.Is(err, dateutil.ErrInvalidDateFormat) ||
		errors.Is(err, course2pdf.ErrInvalidMissingPolicy) ||
		errors.Is(err, course2pdf.ErrStyleNotFound) ||
		errors.Is(err, course2pdf.ErrInvalidAssetPath) ||
		errors.Is(err, assets.ErrInvalidBasePath) {
		return ExitUsage
	}

	// Browser errors (exit 4)
	if errors.Is(err, course2pdf.ErrBrowserConnect) ||
		errors.Is(err, course2pdf.ErrPageCreate) ||
		errors.Is(err, course2pdf.ErrPageLoad) ||
		errors.Is(err, course2pdf.ErrPDFGeneration) {
		return ExitBrowser
	}

	// I/O and course data errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrNoDatabase) ||
		errors.Is(err, ErrOpenDatabase) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, course2pdf.ErrCourseNotFound) ||
		errors.Is(err, course2pdf.ErrRecordNotFound) {
		return ExitIO
	}

	return ExitGeneral
}
