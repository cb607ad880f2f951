package course2pdf

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/alnah/go-course2pdf/internal/module"
	"github.com/alnah/go-course2pdf/internal/textformat"
)

// ---------------------------------------------------------------------------
// Mock Implementations
// ---------------------------------------------------------------------------

type mockPDFConverter struct {
	called    bool
	inputHTML string
	inputOpts *pdfOptions
	output    []byte
	err       error
	closed    bool
}

func (m *mockPDFConverter) ToPDF(ctx context.Context, htmlContent string, opts *pdfOptions) ([]byte, error) {
	m.called = true
	m.inputHTML = htmlContent
	m.inputOpts = opts
	if m.err != nil {
		return nil, m.err
	}
	if m.output != nil {
		return m.output, nil
	}
	return []byte("%PDF-1.4 mock"), nil
}

func (m *mockPDFConverter) Close() error {
	m.closed = true
	return nil
}

// fakeSource serves one course from memory. Missing records are
// ErrRecordNotFound, as the store reports them.
type fakeSource struct {
	course    *Course
	teachers  []Teacher
	sections  []Section
	instances map[string]*module.Instance // "type:id"
	pages     map[int64]*module.Page
	glossary  map[int64][]module.GlossaryEntry
	slides    map[int64][]module.Slide
	quizzes   map[int64]*module.SimpleQuiz

	slow     time.Duration // Instance waits this long unless ctx ends first
	panicMsg string        // Instance panics with this message
}

func instanceKey(moduleType string, id int64) string {
	return fmt.Sprintf("%s:%d", moduleType, id)
}

func (f *fakeSource) Course(_ context.Context, id int64) (*Course, error) {
	if f.course == nil || f.course.ID != id {
		return nil, fmt.Errorf("%w: %d", ErrCourseNotFound, id)
	}
	return f.course, nil
}

func (f *fakeSource) Sections(context.Context, int64) ([]Section, error) {
	return f.sections, nil
}

func (f *fakeSource) Teachers(context.Context, int64) ([]Teacher, error) {
	return f.teachers, nil
}

func (f *fakeSource) Instance(ctx context.Context, moduleType string, id int64) (*module.Instance, error) {
	if f.panicMsg != "" {
		panic(f.panicMsg)
	}
	if f.slow > 0 {
		select {
		case <-time.After(f.slow):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if i, ok := f.instances[instanceKey(moduleType, id)]; ok {
		return i, nil
	}
	return nil, fmt.Errorf("%s %d: %w", moduleType, id, ErrRecordNotFound)
}

func (f *fakeSource) Page(_ context.Context, id int64) (*module.Page, error) {
	if p, ok := f.pages[id]; ok {
		return p, nil
	}
	return nil, ErrRecordNotFound
}

func (f *fakeSource) GlossaryEntries(_ context.Context, id int64) ([]module.GlossaryEntry, error) {
	if e, ok := f.glossary[id]; ok {
		return e, nil
	}
	return nil, ErrRecordNotFound
}

func (f *fakeSource) Slides(_ context.Context, id int64) ([]module.Slide, error) {
	if s, ok := f.slides[id]; ok {
		return s, nil
	}
	return nil, ErrRecordNotFound
}

func (f *fakeSource) SimpleQuiz(_ context.Context, id int64) (*module.SimpleQuiz, error) {
	if q, ok := f.quizzes[id]; ok {
		return q, nil
	}
	return nil, ErrRecordNotFound
}

type fakeAssets map[string]string

func (f fakeAssets) Lookup(key string) (string, bool) {
	ref, ok := f[key]
	return ref, ok
}

// ---------------------------------------------------------------------------
// Internal test options
// ---------------------------------------------------------------------------

func withPDFConverter(c pdfConverter) Option {
	return func(e *Exporter) {
		e.pdfConverter = c
	}
}

func withClock(now time.Time) Option {
	return func(e *Exporter) {
		e.now = func() time.Time { return now }
	}
}

// fixedNow is the export time used by tests: Friday, 15 March 2024.
var fixedNow = time.Date(2024, time.March, 15, 10, 30, 0, 0, time.UTC)

// newTestExporter builds an exporter with a mock PDF backend and a fixed clock.
func newTestExporter(t *testing.T, opts ...Option) (*Exporter, *mockPDFConverter) {
	t.Helper()

	pdf := &mockPDFConverter{}
	all := append([]Option{withPDFConverter(pdf), withClock(fixedNow)}, opts...)
	exp, err := NewExporter(all...)
	if err != nil {
		t.Fatalf("NewExporter() error = %v", err)
	}
	t.Cleanup(func() {
		_ = exp.Close()
	})
	return exp, pdf
}

// newCourseSource returns a course with the general section, a section
// holding a page and an unsupported forum, and a section holding a
// glossary, a slideshow and a quiz.
func newCourseSource() *fakeSource {
	return &fakeSource{
		course:   &Course{ID: 7, FullName: "Linear Algebra", ShortName: "LA"},
		teachers: []Teacher{{FirstName: "Grace", LastName: "Hopper"}, {FirstName: "Ada", LastName: "Lovelace"}},
		sections: []Section{
			{ID: 70, Number: 0, Name: "General", Activities: []Activity{{CMID: 1, Type: "page", Instance: 9}}},
			{ID: 71, Number: 1, Name: "Vectors", Summary: "<p>About vectors</p>", SummaryFormat: textformat.FormatHTML,
				Activities: []Activity{
					{CMID: 10, Type: "page", Instance: 1},
					{CMID: 11, Type: "forum", Instance: 1},
				}},
			{ID: 72, Number: 2, Name: "Matrices",
				Activities: []Activity{
					{CMID: 20, Type: "glossary", Instance: 2},
					{CMID: 21, Type: "slideshow", Instance: 3},
					{CMID: 22, Type: "simplequiz", Instance: 4},
				}},
		},
		instances: map[string]*module.Instance{
			instanceKey("page", 9):       {ID: 9, Name: "News"},
			instanceKey("page", 1):       {ID: 1, Name: "What is a vector", Intro: "Read this first", IntroFormat: textformat.FormatPlain},
			instanceKey("glossary", 2):   {ID: 2, Name: "Terms"},
			instanceKey("slideshow", 3):  {ID: 3, Name: "Deck"},
			instanceKey("simplequiz", 4): {ID: 4, Name: "Check"},
		},
		pages: map[int64]*module.Page{
			9: {ID: 9, Name: "News", Content: "<p>news</p>", ContentFormat: textformat.FormatHTML},
			1: {ID: 1, Name: "What is a vector", Content: "<p>A vector \U0001F600 has length π</p>", ContentFormat: textformat.FormatHTML},
		},
		glossary: map[int64][]module.GlossaryEntry{
			2: {{ID: 1, Concept: "Matrix", Definition: "grid", DefinitionFormat: textformat.FormatPlain}},
		},
		slides: map[int64][]module.Slide{
			3: {{ID: 1, Title: "Intro", Content: "<p>slide one</p>", ContentFormat: textformat.FormatHTML}},
		},
		quizzes: map[int64]*module.SimpleQuiz{
			4: {ID: 4, Name: "Check", Questions: `[{"text":"2+2?","answers":[{"text":"4"},{"text":"5"}]}]`},
		},
	}
}

// assertContains reports every want missing from doc.
func assertContains(t *testing.T, doc string, wants ...string) {
	t.Helper()
	for _, w := range wants {
		if !strings.Contains(doc, w) {
			t.Errorf("output missing %q", w)
		}
	}
}

// assertNotContains reports every unwanted string found in doc.
func assertNotContains(t *testing.T, doc string, unwanted ...string) {
	t.Helper()
	for _, u := range unwanted {
		if strings.Contains(doc, u) {
			t.Errorf("output unexpectedly contains %q", u)
		}
	}
}

// assertErrorIs fails when err does not match target.
func assertErrorIs(t *testing.T, err, target error) {
	t.Helper()
	if !errors.Is(err, target) {
		t.Errorf("error = %v, want %v", err, target)
	}
}
