package store

import (
	"context"
	"fmt"

	"github.com/ecodeclub/ekit/slice"

	"github.com/alnah/go-course2pdf/internal/module"
)

var _ module.Provider = (*Store)(nil)

// Instance returns the common fields of an activity row.
func (s *Store) Instance(ctx context.Context, moduleType string, id int64) (*module.Instance, error) {
	switch moduleType {
	case "page":
		m, err := selectByID[pageModel](ctx, s, "page", id)
		if err != nil {
			return nil, err
		}
		return m.instance(), nil
	case "glossary":
		m, err := selectByID[glossaryModel](ctx, s, "glossary", id)
		if err != nil {
			return nil, err
		}
		return m.instance(), nil
	case "slideshow":
		m, err := selectByID[slideshowModel](ctx, s, "slideshow", id)
		if err != nil {
			return nil, err
		}
		return m.instance(), nil
	case "simplequiz":
		m, err := selectByID[simpleQuizModel](ctx, s, "simplequiz", id)
		if err != nil {
			return nil, err
		}
		return m.instance(), nil
	}
	return nil, fmt.Errorf("%w: %s", module.ErrUnsupportedType, moduleType)
}

// Page returns a page activity.
func (s *Store) Page(ctx context.Context, id int64) (*module.Page, error) {
	m, err := selectByID[pageModel](ctx, s, "page", id)
	if err != nil {
		return nil, err
	}
	return &module.Page{ID: m.ID, Name: m.Name, Content: m.Content, ContentFormat: m.ContentFormat}, nil
}

// GlossaryEntries returns the entries of a glossary ordered by concept.
func (s *Store) GlossaryEntries(ctx context.Context, glossaryID int64) ([]module.GlossaryEntry, error) {
	if err := s.mustExist(ctx, (*glossaryModel)(nil), "glossary", glossaryID); err != nil {
		return nil, err
	}
	var entries []glossaryEntryModel
	err := s.db.NewSelect().
		Model(&entries).
		Where("glossaryid = ?", glossaryID).
		Order("concept ASC", "id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("glossary %d entries: %w", glossaryID, err)
	}
	return slice.Map(entries, func(_ int, e glossaryEntryModel) module.GlossaryEntry {
		return module.GlossaryEntry{
			ID:               e.ID,
			Concept:          e.Concept,
			Definition:       e.Definition,
			DefinitionFormat: e.DefinitionFormat,
		}
	}), nil
}

// Slides returns the slides of a slideshow in sort order.
func (s *Store) Slides(ctx context.Context, slideshowID int64) ([]module.Slide, error) {
	if err := s.mustExist(ctx, (*slideshowModel)(nil), "slideshow", slideshowID); err != nil {
		return nil, err
	}
	var slides []slideModel
	err := s.db.NewSelect().
		Model(&slides).
		Where("slideshow = ?", slideshowID).
		Order("sortorder ASC", "id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("slideshow %d slides: %w", slideshowID, err)
	}
	return slice.Map(slides, func(_ int, sl slideModel) module.Slide {
		return module.Slide{
			ID:            sl.ID,
			Title:         sl.Name,
			Content:       sl.Content,
			ContentFormat: sl.ContentFormat,
			SortOrder:     sl.SortOrder,
		}
	}), nil
}

// SimpleQuiz returns a simple quiz with its raw questions document.
func (s *Store) SimpleQuiz(ctx context.Context, id int64) (*module.SimpleQuiz, error) {
	m, err := selectByID[simpleQuizModel](ctx, s, "simplequiz", id)
	if err != nil {
		return nil, err
	}
	return &module.SimpleQuiz{ID: m.ID, Name: m.Name, Questions: m.Questions}, nil
}

func selectByID[T any](ctx context.Context, s *Store, table string, id int64) (*T, error) {
	m := new(T)
	if err := s.db.NewSelect().Model(m).Where("id = ?", id).Scan(ctx); err != nil {
		return nil, notFound(err, table, id)
	}
	return m, nil
}

func (s *Store) mustExist(ctx context.Context, model any, table string, id int64) error {
	ok, err := s.db.NewSelect().Model(model).Where("id = ?", id).Exists(ctx)
	if err != nil {
		return fmt.Errorf("%s %d: %w", table, id, err)
	}
	if !ok {
		return fmt.Errorf("%w: %s %d", module.ErrRecordNotFound, table, id)
	}
	return nil
}
