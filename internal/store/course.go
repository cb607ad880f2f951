package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ecodeclub/ekit/slice"

	"github.com/alnah/go-course2pdf/internal/module"
)

// Course context level and the role credited on the cover.
const (
	courseContextLevel = 50
	teacherRole        = "editingteacher"
)

// Course returns the course with the given id.
func (s *Store) Course(ctx context.Context, id int64) (*module.Course, error) {
	m := new(courseModel)
	err := s.db.NewSelect().Model(m).Where("id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %d", module.ErrCourseNotFound, id)
		}
		return nil, fmt.Errorf("course %d: %w", id, err)
	}
	c := toCourse(m)
	return &c, nil
}

// Courses lists every course ordered by id.
func (s *Store) Courses(ctx context.Context) ([]module.Course, error) {
	var courses []courseModel
	if err := s.db.NewSelect().Model(&courses).Order("id ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return slice.Map(courses, func(_ int, m courseModel) module.Course {
		return toCourse(&m)
	}), nil
}

func toCourse(m *courseModel) module.Course {
	return module.Course{
		ID:            m.ID,
		FullName:      m.FullName,
		ShortName:     m.ShortName,
		Summary:       m.Summary,
		SummaryFormat: m.SummaryFormat,
	}
}

// Sections returns the course sections ordered by section number, each
// with its activities ordered by course module id. Course modules whose
// module type row is missing are left out.
func (s *Store) Sections(ctx context.Context, courseID int64) ([]module.Section, error) {
	var sections []sectionModel
	err := s.db.NewSelect().
		Model(&sections).
		Where("course = ?", courseID).
		Order("section ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("sections of course %d: %w", courseID, err)
	}

	var rows []activityRow
	err = s.db.NewSelect().
		TableExpr("course_modules AS cm").
		Join("JOIN modules AS m ON m.id = cm.module").
		ColumnExpr("cm.id AS cmid, m.name AS type, cm.instance, cm.section").
		Where("cm.course = ?", courseID).
		OrderExpr("cm.id ASC").
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("activities of course %d: %w", courseID, err)
	}

	bySection := make(map[int64][]module.Activity, len(sections))
	for _, r := range rows {
		bySection[r.Section] = append(bySection[r.Section], module.Activity{
			CMID:     r.CMID,
			Type:     r.Type,
			Instance: r.Instance,
		})
	}

	return slice.Map(sections, func(_ int, m sectionModel) module.Section {
		return module.Section{
			ID:            m.ID,
			Number:        m.Section,
			Name:          m.Name,
			Summary:       m.Summary,
			SummaryFormat: m.SummaryFormat,
			Activities:    bySection[m.ID],
		}
	}), nil
}

// Teachers returns the editing teachers of a course, by last then first name.
func (s *Store) Teachers(ctx context.Context, courseID int64) ([]module.Teacher, error) {
	var users []userModel
	err := s.db.NewSelect().
		Model(&users).
		Join("JOIN role_assignments AS ra ON ra.userid = u.id").
		Join("JOIN role AS r ON r.id = ra.roleid").
		Join("JOIN context AS ctx ON ctx.id = ra.contextid").
		Where("r.shortname = ?", teacherRole).
		Where("ctx.contextlevel = ?", courseContextLevel).
		Where("ctx.instanceid = ?", courseID).
		Order("u.lastname ASC", "u.firstname ASC").
		Group("u.id").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("teachers of course %d: %w", courseID, err)
	}
	return slice.Map(users, func(_ int, u userModel) module.Teacher {
		return module.Teacher{FirstName: u.FirstName, LastName: u.LastName}
	}), nil
}
