package store

import (
	"github.com/uptrace/bun"

	"github.com/alnah/go-course2pdf/internal/module"
	"github.com/alnah/go-course2pdf/internal/textformat"
)

// Table models mirror the columns of the LMS schema that the export reads.

type courseModel struct {
	bun.BaseModel `bun:"table:course,alias:c"`

	ID            int64             `bun:"id,pk,autoincrement"`
	FullName      string            `bun:"fullname,notnull"`
	ShortName     string            `bun:"shortname"`
	Summary       string            `bun:"summary,type:text"`
	SummaryFormat textformat.Format `bun:"summaryformat,default:1"`
}

type sectionModel struct {
	bun.BaseModel `bun:"table:course_sections,alias:cs"`

	ID            int64             `bun:"id,pk,autoincrement"`
	Course        int64             `bun:"course,notnull"`
	Section       int               `bun:"section,notnull"`
	Name          string            `bun:"name"`
	Summary       string            `bun:"summary,type:text"`
	SummaryFormat textformat.Format `bun:"summaryformat,default:1"`
}

type moduleTypeModel struct {
	bun.BaseModel `bun:"table:modules,alias:m"`

	ID   int64  `bun:"id,pk,autoincrement"`
	Name string `bun:"name,unique,notnull"`
}

type courseModuleModel struct {
	bun.BaseModel `bun:"table:course_modules,alias:cm"`

	ID       int64 `bun:"id,pk,autoincrement"`
	Course   int64 `bun:"course,notnull"`
	Module   int64 `bun:"module,notnull"`
	Instance int64 `bun:"instance,notnull"`
	Section  int64 `bun:"section,notnull"`
}

type pageModel struct {
	bun.BaseModel `bun:"table:page,alias:p"`

	ID            int64             `bun:"id,pk,autoincrement"`
	Course        int64             `bun:"course"`
	Name          string            `bun:"name,notnull"`
	Intro         string            `bun:"intro,type:text"`
	IntroFormat   textformat.Format `bun:"introformat,default:1"`
	Content       string            `bun:"content,type:text"`
	ContentFormat textformat.Format `bun:"contentformat,default:1"`
}

type glossaryModel struct {
	bun.BaseModel `bun:"table:glossary,alias:g"`

	ID          int64             `bun:"id,pk,autoincrement"`
	Course      int64             `bun:"course"`
	Name        string            `bun:"name,notnull"`
	Intro       string            `bun:"intro,type:text"`
	IntroFormat textformat.Format `bun:"introformat,default:1"`
}

type glossaryEntryModel struct {
	bun.BaseModel `bun:"table:glossary_entries,alias:ge"`

	ID               int64             `bun:"id,pk,autoincrement"`
	GlossaryID       int64             `bun:"glossaryid,notnull"`
	Concept          string            `bun:"concept,notnull"`
	Definition       string            `bun:"definition,type:text"`
	DefinitionFormat textformat.Format `bun:"definitionformat,default:1"`
}

type slideshowModel struct {
	bun.BaseModel `bun:"table:slideshow,alias:ss"`

	ID          int64             `bun:"id,pk,autoincrement"`
	Course      int64             `bun:"course"`
	Name        string            `bun:"name,notnull"`
	Intro       string            `bun:"intro,type:text"`
	IntroFormat textformat.Format `bun:"introformat,default:1"`
}

type slideModel struct {
	bun.BaseModel `bun:"table:slideshow_slide,alias:sl"`

	ID            int64             `bun:"id,pk,autoincrement"`
	Slideshow     int64             `bun:"slideshow,notnull"`
	Name          string            `bun:"name"`
	Content       string            `bun:"content,type:text"`
	ContentFormat textformat.Format `bun:"contentformat,default:1"`
	SortOrder     int               `bun:"sortorder,default:0"`
}

type simpleQuizModel struct {
	bun.BaseModel `bun:"table:simplequiz,alias:sq"`

	ID          int64             `bun:"id,pk,autoincrement"`
	Course      int64             `bun:"course"`
	Name        string            `bun:"name,notnull"`
	Intro       string            `bun:"intro,type:text"`
	IntroFormat textformat.Format `bun:"introformat,default:1"`
	Questions   string            `bun:"questions,type:text"`
}

type roleModel struct {
	bun.BaseModel `bun:"table:role,alias:r"`

	ID        int64  `bun:"id,pk,autoincrement"`
	ShortName string `bun:"shortname,unique,notnull"`
}

type contextModel struct {
	bun.BaseModel `bun:"table:context,alias:ctx"`

	ID           int64 `bun:"id,pk,autoincrement"`
	ContextLevel int   `bun:"contextlevel,notnull"`
	InstanceID   int64 `bun:"instanceid,notnull"`
}

type roleAssignmentModel struct {
	bun.BaseModel `bun:"table:role_assignments,alias:ra"`

	ID        int64 `bun:"id,pk,autoincrement"`
	RoleID    int64 `bun:"roleid,notnull"`
	ContextID int64 `bun:"contextid,notnull"`
	UserID    int64 `bun:"userid,notnull"`
}

type userModel struct {
	bun.BaseModel `bun:"table:user,alias:u"`

	ID        int64  `bun:"id,pk,autoincrement"`
	FirstName string `bun:"firstname"`
	LastName  string `bun:"lastname"`
}

// activityRow is one course module joined with its module type name.
type activityRow struct {
	CMID     int64  `bun:"cmid"`
	Type     string `bun:"type"`
	Instance int64  `bun:"instance"`
	Section  int64  `bun:"section"`
}

// allModels lists every table, parents first.
var allModels = []any{
	(*courseModel)(nil),
	(*sectionModel)(nil),
	(*moduleTypeModel)(nil),
	(*courseModuleModel)(nil),
	(*pageModel)(nil),
	(*glossaryModel)(nil),
	(*glossaryEntryModel)(nil),
	(*slideshowModel)(nil),
	(*slideModel)(nil),
	(*simpleQuizModel)(nil),
	(*roleModel)(nil),
	(*contextModel)(nil),
	(*roleAssignmentModel)(nil),
	(*userModel)(nil),
}

func (m *pageModel) instance() *module.Instance {
	return &module.Instance{ID: m.ID, Name: m.Name, Intro: m.Intro, IntroFormat: m.IntroFormat}
}

func (m *glossaryModel) instance() *module.Instance {
	return &module.Instance{ID: m.ID, Name: m.Name, Intro: m.Intro, IntroFormat: m.IntroFormat}
}

func (m *slideshowModel) instance() *module.Instance {
	return &module.Instance{ID: m.ID, Name: m.Name, Intro: m.Intro, IntroFormat: m.IntroFormat}
}

func (m *simpleQuizModel) instance() *module.Instance {
	return &module.Instance{ID: m.ID, Name: m.Name, Intro: m.Intro, IntroFormat: m.IntroFormat}
}
