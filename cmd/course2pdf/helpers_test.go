package main

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	course2pdf "github.com/alnah/go-course2pdf"
	"github.com/alnah/go-course2pdf/internal/module"
)

// ---------------------------------------------------------------------------
// Mock Implementations - For unit testing
// ---------------------------------------------------------------------------

// fakeSource implements Source with a fixed course list.
type fakeSource struct {
	courses []course2pdf.Course
	listErr error

	mu     sync.Mutex
	closed bool
}

func (f *fakeSource) Course(_ context.Context, id int64) (*course2pdf.Course, error) {
	for _, c := range f.courses {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, fmt.Errorf("%w: %d", course2pdf.ErrCourseNotFound, id)
}

func (f *fakeSource) Courses(context.Context) ([]course2pdf.Course, error) {
	return f.courses, f.listErr
}

func (f *fakeSource) Sections(context.Context, int64) ([]course2pdf.Section, error) {
	return nil, nil
}

func (f *fakeSource) Teachers(context.Context, int64) ([]course2pdf.Teacher, error) {
	return nil, nil
}

func (f *fakeSource) Instance(context.Context, string, int64) (*module.Instance, error) {
	return nil, module.ErrRecordNotFound
}

func (f *fakeSource) Page(context.Context, int64) (*module.Page, error) {
	return nil, module.ErrRecordNotFound
}

func (f *fakeSource) GlossaryEntries(context.Context, int64) ([]module.GlossaryEntry, error) {
	return nil, module.ErrRecordNotFound
}

func (f *fakeSource) Slides(context.Context, int64) ([]module.Slide, error) {
	return nil, module.ErrRecordNotFound
}

func (f *fakeSource) SimpleQuiz(context.Context, int64) (*module.SimpleQuiz, error) {
	return nil, module.ErrRecordNotFound
}

func (f *fakeSource) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeSource) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

var _ Source = (*fakeSource)(nil)

// mockExporter records inputs and returns canned results.
type mockExporter struct {
	mu    sync.Mutex
	calls []course2pdf.Input
	errs  map[int64]error
}

func newMockExporter() *mockExporter {
	return &mockExporter{errs: make(map[int64]error)}
}

func (m *mockExporter) Export(_ context.Context, _ course2pdf.CourseSource, input course2pdf.Input) (*course2pdf.ExportResult, error) {
	m.mu.Lock()
	m.calls = append(m.calls, input)
	err := m.errs[input.CourseID]
	m.mu.Unlock()

	if err != nil {
		return nil, err
	}
	result := &course2pdf.ExportResult{
		HTML:       []byte("<html>course</html>"),
		Filename:   fmt.Sprintf("course_%d_%d.pdf", input.CourseID, testNow.Unix()),
		Sections:   1,
		Activities: 2,
		Skipped:    1,
	}
	if !input.HTMLOnly {
		result.PDF = []byte("%PDF-1.4 course")
	}
	return result, nil
}

func (m *mockExporter) getCalls() []course2pdf.Input {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]course2pdf.Input(nil), m.calls...)
}

// testPool hands out one shared mock exporter.
type testPool struct {
	exp        CourseExporter
	size       int
	acquireErr error
	opts       int

	mu       sync.Mutex
	acquired int
	released int
	closed   bool
}

func (p *testPool) Acquire() (CourseExporter, error) {
	if p.acquireErr != nil {
		return nil, p.acquireErr
	}
	p.mu.Lock()
	p.acquired++
	p.mu.Unlock()
	return p.exp, nil
}

func (p *testPool) Release(CourseExporter) {
	p.mu.Lock()
	p.released++
	p.mu.Unlock()
}

func (p *testPool) Size() int { return p.size }

func (p *testPool) Close() error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	return nil
}

var _ Pool = (*testPool)(nil)

// ---------------------------------------------------------------------------
// Test environment
// ---------------------------------------------------------------------------

var testNow = time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

// testEnv bundles an Environment with the fakes behind it.
type testEnv struct {
	*Environment
	stdout   *bytes.Buffer
	stderr   *bytes.Buffer
	source   *fakeSource
	exporter *mockExporter
	pool     *testPool
	dsn      string
	openErr  error
}

// newTestEnv returns an environment whose variables come from vars.
func newTestEnv(t *testing.T, vars map[string]string) *testEnv {
	t.Helper()

	te := &testEnv{
		stdout: new(bytes.Buffer),
		stderr: new(bytes.Buffer),
		source: &fakeSource{courses: []course2pdf.Course{
			{ID: 7, ShortName: "LA101", FullName: "Linear Algebra"},
			{ID: 12, ShortName: "PHY", FullName: "Physics"},
		}},
		exporter: newMockExporter(),
	}
	te.pool = &testPool{exp: te.exporter}

	te.Environment = &Environment{
		Now:    func() time.Time { return testNow },
		Stdout: te.stdout,
		Stderr: te.stderr,
		Getenv: func(name string) string { return vars[name] },
		Environ: func() []string {
			out := make([]string, 0, len(vars))
			for k, v := range vars {
				out = append(out, k+"="+v)
			}
			return out
		},
		OpenStore: func(dsn string, _ *zap.Logger) (Source, error) {
			te.dsn = dsn
			if te.openErr != nil {
				return nil, te.openErr
			}
			return te.source, nil
		},
		NewPool: func(size int, opts ...course2pdf.Option) Pool {
			te.pool.size = size
			te.pool.opts = len(opts)
			return te.pool
		},
	}
	return te
}
