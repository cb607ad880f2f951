package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// newTestDB creates a fresh in-memory database with the full schema.
func newTestDB(t *testing.T) *Store {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	// every connection to :memory: is a separate database
	sqldb.SetMaxOpenConns(1)
	require.NoError(t, sqldb.Ping())

	s := New(bun.NewDB(sqldb, sqlitedialect.New()))
	require.NoError(t, s.CreateSchema(context.Background()))

	t.Cleanup(func() {
		_ = s.Close()
	})

	return s
}

// insert stores each model, failing the test on error.
func insert(t *testing.T, s *Store, models ...any) {
	t.Helper()

	for _, m := range models {
		_, err := s.DB().NewInsert().Model(m).Exec(context.Background())
		require.NoError(t, err)
	}
}

// seedCourse builds a course with a general section, two numbered sections
// and one activity of every supported type plus an unsupported forum.
func seedCourse(t *testing.T, s *Store) {
	t.Helper()

	insert(t, s,
		&courseModel{ID: 1, FullName: "Algebra 101", ShortName: "ALG", Summary: "Intro", SummaryFormat: 1},
		&courseModel{ID: 2, FullName: "Empty", ShortName: "EMP"},

		&sectionModel{ID: 10, Course: 1, Section: 0, Name: "General"},
		&sectionModel{ID: 12, Course: 1, Section: 2, Name: "Second"},
		&sectionModel{ID: 11, Course: 1, Section: 1, Name: "First", Summary: "<p>start</p>", SummaryFormat: 1},

		&moduleTypeModel{ID: 1, Name: "page"},
		&moduleTypeModel{ID: 2, Name: "glossary"},
		&moduleTypeModel{ID: 3, Name: "slideshow"},
		&moduleTypeModel{ID: 4, Name: "simplequiz"},
		&moduleTypeModel{ID: 5, Name: "forum"},

		&courseModuleModel{ID: 101, Course: 1, Module: 1, Instance: 1, Section: 11},
		&courseModuleModel{ID: 103, Course: 1, Module: 5, Instance: 1, Section: 11},
		&courseModuleModel{ID: 102, Course: 1, Module: 2, Instance: 1, Section: 11},
		&courseModuleModel{ID: 104, Course: 1, Module: 3, Instance: 1, Section: 12},
		&courseModuleModel{ID: 105, Course: 1, Module: 4, Instance: 1, Section: 12},
		&courseModuleModel{ID: 106, Course: 1, Module: 99, Instance: 1, Section: 12},

		&pageModel{ID: 1, Course: 1, Name: "Welcome", Intro: "hi", IntroFormat: 1, Content: "<p>Body</p>", ContentFormat: 1},
		&glossaryModel{ID: 1, Course: 1, Name: "Terms", Intro: "words", IntroFormat: 2},
		&glossaryEntryModel{ID: 1, GlossaryID: 1, Concept: "Vector", Definition: "v", DefinitionFormat: 1},
		&glossaryEntryModel{ID: 2, GlossaryID: 1, Concept: "Matrix", Definition: "m", DefinitionFormat: 4},
		&glossaryEntryModel{ID: 3, GlossaryID: 2, Concept: "Other", Definition: "o"},
		&slideshowModel{ID: 1, Course: 1, Name: "Deck", IntroFormat: 1},
		&slideModel{ID: 1, Slideshow: 1, Name: "Last", Content: "z", SortOrder: 2},
		&slideModel{ID: 2, Slideshow: 1, Name: "First", Content: "a", SortOrder: 0},
		&slideModel{ID: 3, Slideshow: 1, Name: "Middle", Content: "m", SortOrder: 1},
		&simpleQuizModel{ID: 1, Course: 1, Name: "Check", IntroFormat: 1, Questions: `[{"text":"q","answers":[]}]`},

		&roleModel{ID: 3, ShortName: "editingteacher"},
		&roleModel{ID: 5, ShortName: "student"},
		&contextModel{ID: 50, ContextLevel: 50, InstanceID: 1},
		&contextModel{ID: 51, ContextLevel: 50, InstanceID: 2},
		&userModel{ID: 1, FirstName: "Grace", LastName: "Hopper"},
		&userModel{ID: 2, FirstName: "Ada", LastName: "Lovelace"},
		&userModel{ID: 3, FirstName: "Stu", LastName: "Dent"},
		&userModel{ID: 4, FirstName: "Alan", LastName: "Turing"},
		&roleAssignmentModel{RoleID: 3, ContextID: 50, UserID: 2},
		&roleAssignmentModel{RoleID: 3, ContextID: 50, UserID: 1},
		&roleAssignmentModel{RoleID: 5, ContextID: 50, UserID: 3},
		&roleAssignmentModel{RoleID: 3, ContextID: 51, UserID: 4},
	)
}
