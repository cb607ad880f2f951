// Package module renders course activities to HTML fragments.
//
// Each supported activity type has a Renderer. A Registry maps type names to
// renderers and answers whether a type can be exported at all, so callers can
// skip unsupported activities (and empty sections) before any rendering work.
package module

import (
	"context"
	"errors"

	"github.com/alnah/go-course2pdf/internal/textformat"
)

// Sentinel errors.
var (
	ErrUnsupportedType  = errors.New("unsupported module type")
	ErrDuplicateType    = errors.New("duplicate module type")
	ErrRecordNotFound   = errors.New("record not found")
	ErrCourseNotFound   = errors.New("course not found")
	ErrInvalidQuestions = errors.New("invalid questions format")
)

// Activity is one course module occurrence inside a section.
type Activity struct {
	CMID     int64  // course module id
	Type     string // module type name, e.g. "page"
	Instance int64  // id of the row in the module's own table
}

// Course is the exported course.
type Course struct {
	ID            int64
	FullName      string
	ShortName     string
	Summary       string
	SummaryFormat textformat.Format
}

// Section is a numbered course section with its activities in course order.
type Section struct {
	ID            int64
	Number        int
	Name          string
	Summary       string
	SummaryFormat textformat.Format
	Activities    []Activity
}

// Teacher is a person credited on the cover.
type Teacher struct {
	FirstName string
	LastName  string
}

// FullName returns "First Last", or whichever part is set.
func (t Teacher) FullName() string {
	switch {
	case t.FirstName == "":
		return t.LastName
	case t.LastName == "":
		return t.FirstName
	}
	return t.FirstName + " " + t.LastName
}

// Instance holds the fields every activity table shares.
type Instance struct {
	ID          int64
	Name        string
	Intro       string
	IntroFormat textformat.Format
}

// Page is a page activity.
type Page struct {
	ID            int64
	Name          string
	Content       string
	ContentFormat textformat.Format
}

// GlossaryEntry is one concept of a glossary.
type GlossaryEntry struct {
	ID               int64
	Concept          string
	Definition       string
	DefinitionFormat textformat.Format
}

// Slide is one slide of a slideshow.
type Slide struct {
	ID            int64
	Title         string
	Content       string
	ContentFormat textformat.Format
	SortOrder     int
}

// SimpleQuiz is a simple quiz; Questions is the raw JSON document.
type SimpleQuiz struct {
	ID        int64
	Name      string
	Questions string
}

// Provider reads activity records. Missing rows are reported with
// ErrRecordNotFound.
type Provider interface {
	Instance(ctx context.Context, moduleType string, id int64) (*Instance, error)
	Page(ctx context.Context, id int64) (*Page, error)
	// GlossaryEntries returns entries ordered by concept.
	GlossaryEntries(ctx context.Context, glossaryID int64) ([]GlossaryEntry, error)
	// Slides returns slides ordered by sort order.
	Slides(ctx context.Context, slideshowID int64) ([]Slide, error)
	SimpleQuiz(ctx context.Context, id int64) (*SimpleQuiz, error)
}

// Formatter turns stored rich text into HTML.
type Formatter interface {
	Format(ctx context.Context, text string, format textformat.Format, opts textformat.Options) (string, error)
}

// Env is what a renderer needs to do its work.
type Env struct {
	Data Provider
	Text Formatter
}

// Renderer renders one activity type.
type Renderer interface {
	Type() string
	Render(ctx context.Context, env Env, act Activity) (string, error)
}
