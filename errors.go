package course2pdf

import (
	"errors"

	"github.com/alnah/go-course2pdf/internal/assets"
	"github.com/alnah/go-course2pdf/internal/module"
)

// Sentinel errors for library operations.
var (
	ErrPDFGeneration   = errors.New("failed to generate PDF")
	ErrBrowserConnect  = errors.New("failed to connect to browser")
	ErrPageCreate      = errors.New("failed to create browser page")
	ErrPageLoad        = errors.New("failed to load page")
	ErrActivityTimeout = errors.New("activity rendering timed out")
	ErrTemplateRender  = errors.New("template rendering failed")
	ErrPoolClosed      = errors.New("exporter pool is closed")

	// Course lookup errors. ErrCourseNotFound and ErrRecordNotFound are
	// shared with the data provider so sources can return them directly.
	ErrInvalidCourseID = errors.New("invalid course id")
	ErrNilSource       = errors.New("course source is nil")
	ErrCourseNotFound  = module.ErrCourseNotFound
	ErrRecordNotFound  = module.ErrRecordNotFound

	// Page settings validation errors.
	ErrInvalidPageSize    = errors.New("invalid page size")
	ErrInvalidOrientation = errors.New("invalid orientation")
	ErrInvalidMargin      = errors.New("invalid margin")

	// Footer validation errors.
	ErrInvalidFooterPosition = errors.New("invalid footer position")

	// Cover validation errors.
	ErrInvalidSiteURL = errors.New("invalid site URL")

	// Option errors.
	ErrInvalidMissingPolicy = errors.New("invalid missing record policy")

	// Asset loading errors.
	ErrStyleNotFound    = assets.ErrStyleNotFound
	ErrInvalidAssetPath = errors.New("invalid asset path")
)
