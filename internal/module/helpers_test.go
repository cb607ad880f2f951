package module

import (
	"context"
	"errors"
	"fmt"

	"github.com/alnah/go-course2pdf/internal/textformat"
)

// fakeProvider serves records from maps; absent keys are ErrRecordNotFound.
type fakeProvider struct {
	instances map[int64]*Instance
	pages     map[int64]*Page
	glossary  map[int64][]GlossaryEntry
	slides    map[int64][]Slide
	quizzes   map[int64]*SimpleQuiz
	err       error
}

func (f *fakeProvider) Instance(_ context.Context, _ string, id int64) (*Instance, error) {
	if f.err != nil {
		return nil, f.err
	}
	if i, ok := f.instances[id]; ok {
		return i, nil
	}
	return nil, ErrRecordNotFound
}

func (f *fakeProvider) Page(_ context.Context, id int64) (*Page, error) {
	if f.err != nil {
		return nil, f.err
	}
	if p, ok := f.pages[id]; ok {
		return p, nil
	}
	return nil, ErrRecordNotFound
}

func (f *fakeProvider) GlossaryEntries(_ context.Context, id int64) ([]GlossaryEntry, error) {
	if f.err != nil {
		return nil, f.err
	}
	if e, ok := f.glossary[id]; ok {
		return e, nil
	}
	return nil, ErrRecordNotFound
}

func (f *fakeProvider) Slides(_ context.Context, id int64) ([]Slide, error) {
	if f.err != nil {
		return nil, f.err
	}
	if s, ok := f.slides[id]; ok {
		return s, nil
	}
	return nil, ErrRecordNotFound
}

func (f *fakeProvider) SimpleQuiz(_ context.Context, id int64) (*SimpleQuiz, error) {
	if f.err != nil {
		return nil, f.err
	}
	if q, ok := f.quizzes[id]; ok {
		return q, nil
	}
	return nil, ErrRecordNotFound
}

// fakeFormatter tags text with its format and trust so tests can see which
// options each renderer used.
type fakeFormatter struct {
	fail string
}

var errFormat = errors.New("format failed")

func (f fakeFormatter) Format(_ context.Context, text string, format textformat.Format, opts textformat.Options) (string, error) {
	if f.fail != "" && text == f.fail {
		return "", errFormat
	}
	trust := "u"
	if opts.Trusted {
		trust = "t"
	}
	return fmt.Sprintf("[%s/%s]%s", format, trust, text), nil
}
