package course2pdf

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/alnah/go-course2pdf/internal/module"
	"github.com/alnah/go-course2pdf/internal/textformat"
)

// sectionPlan is a section with the activities that have a renderer.
type sectionPlan struct {
	section    Section
	activities []Activity
}

// renderedActivity is one activity ready for layout. Intro and Body are
// normalized fragments.
type renderedActivity struct {
	Name  string
	Intro string
	Body  string
}

type exportStats struct {
	sections   int
	activities int
	skipped    int
}

// plan drops section 0, unsupported activities, and sections left without
// any activity. It returns the number of unsupported activities dropped.
func (e *Exporter) plan(sections []Section, logger *zap.Logger) ([]sectionPlan, int) {
	var plans []sectionPlan
	skipped := 0
	for _, s := range sections {
		if s.Number == 0 {
			continue
		}
		var acts []Activity
		for _, a := range s.Activities {
			if !e.registry.Supports(a.Type) {
				logger.Debug("skipping unsupported activity",
					zap.Int("section", s.Number),
					zap.Int64("cmid", a.CMID),
					zap.String("type", a.Type))
				skipped++
				continue
			}
			acts = append(acts, a)
		}
		if len(acts) == 0 {
			continue
		}
		plans = append(plans, sectionPlan{section: s, activities: acts})
	}
	return plans, skipped
}

// renderAll renders every planned activity. With more than one worker the
// activities render concurrently; results are stored by position so the
// output order matches the course order. A nil entry is a skipped activity.
func (e *Exporter) renderAll(ctx context.Context, src CourseSource, plans []sectionPlan, logger *zap.Logger) ([][]*renderedActivity, error) {
	type job struct{ si, ai int }

	out := make([][]*renderedActivity, len(plans))
	var jobs []job
	for si, p := range plans {
		out[si] = make([]*renderedActivity, len(p.activities))
		for ai := range p.activities {
			jobs = append(jobs, job{si, ai})
		}
	}

	env := module.Env{Data: src, Text: e.text}
	run := func(ctx context.Context, j job) error {
		sec := plans[j.si].section
		act := plans[j.si].activities[j.ai]
		r, err := e.renderActivity(ctx, env, act)
		if err == nil {
			out[j.si][j.ai] = r
			return nil
		}
		if errors.Is(err, ErrRecordNotFound) && e.cfg.missing == MissingSkip {
			logger.Warn("skipping activity with missing record",
				zap.Int("section", sec.Number),
				zap.Int64("cmid", act.CMID),
				zap.String("type", act.Type),
				zap.Error(err))
			return nil
		}
		return fmt.Errorf("section %d, activity %d (%s): %w", sec.Number, act.CMID, act.Type, err)
	}

	if e.cfg.workers < 2 {
		for _, j := range jobs {
			if err := run(ctx, j); err != nil {
				return nil, err
			}
		}
		return out, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.workers)
	for _, j := range jobs {
		g.Go(func() error {
			return run(gctx, j)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// renderActivity renders one activity within the per-activity budget.
func (e *Exporter) renderActivity(ctx context.Context, env module.Env, act Activity) (*renderedActivity, error) {
	actx, cancel := context.WithTimeout(ctx, e.cfg.activityTimeout)
	defer cancel()

	r, err := e.renderActivityContent(actx, env, act)
	if err != nil && errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
		return nil, fmt.Errorf("%w after %s", ErrActivityTimeout, e.cfg.activityTimeout)
	}
	return r, err
}

func (e *Exporter) renderActivityContent(ctx context.Context, env module.Env, act Activity) (*renderedActivity, error) {
	renderer, err := e.registry.Resolve(act.Type)
	if err != nil {
		return nil, err
	}

	inst, err := env.Data.Instance(ctx, act.Type, act.Instance)
	if err != nil {
		return nil, err
	}

	var intro string
	if strings.TrimSpace(inst.Intro) != "" {
		formatted, err := env.Text.Format(ctx, inst.Intro, inst.IntroFormat, textformat.Options{})
		if err != nil {
			return nil, fmt.Errorf("formatting intro: %w", err)
		}
		if intro, err = e.normalizer.Normalize(ctx, formatted); err != nil {
			return nil, err
		}
	}

	body, err := renderer.Render(ctx, env, act)
	if err != nil {
		return nil, err
	}
	if body, err = e.normalizer.Normalize(ctx, body); err != nil {
		return nil, err
	}

	return &renderedActivity{Name: inst.Name, Intro: intro, Body: body}, nil
}

// assemble writes the rendered sections through the layout sink in course
// order. Sections are numbered "N." and activities "N.M" in their
// bookmarks; numbers only count what is actually printed.
func (e *Exporter) assemble(ctx context.Context, layout layoutSink, plans []sectionPlan, rendered [][]*renderedActivity) (exportStats, error) {
	var stats exportStats
	for si, p := range plans {
		var acts []*renderedActivity
		for _, r := range rendered[si] {
			if r == nil {
				stats.skipped++
				continue
			}
			acts = append(acts, r)
		}
		if len(acts) == 0 {
			continue
		}

		summary, err := e.sectionSummary(ctx, p.section)
		if err != nil {
			return stats, fmt.Errorf("section %d summary: %w", p.section.Number, err)
		}

		stats.sections++
		name := sectionName(p.section)
		layout.AddPage()
		layout.Bookmark(fmt.Sprintf("%d. %s", stats.sections, name), 1)
		layout.SetFont(fontSection)
		layout.SetTextColor(colorSection)
		layout.Cell(name, "L")
		layout.SetTextColor(colorText)
		layout.SetFont(fontBody)
		if summary != "" {
			layout.WriteHTML(`<div class="section-summary">` + summary + `</div>`)
		}

		for ai, r := range acts {
			stats.activities++
			layout.Bookmark(fmt.Sprintf("%d.%d %s", stats.sections, ai+1, r.Name), 2)
			layout.SetFont(fontActivity)
			layout.SetTextColor(colorActivity)
			layout.Cell(r.Name, "L")
			layout.SetTextColor(colorText)
			layout.SetFont(fontBody)
			if r.Intro != "" {
				layout.WriteHTML(`<div class="intro">` + r.Intro + `</div>`)
			}
			layout.WriteHTML(`<div class="activity">` + r.Body + `</div>`)
		}
	}
	return stats, nil
}

func (e *Exporter) sectionSummary(ctx context.Context, s Section) (string, error) {
	if strings.TrimSpace(s.Summary) == "" {
		return "", nil
	}
	formatted, err := e.text.Format(ctx, s.Summary, s.SummaryFormat, textformat.Options{})
	if err != nil {
		return "", err
	}
	return e.normalizer.Normalize(ctx, formatted)
}

// sectionName falls back to "Section N" for unnamed sections.
func sectionName(s Section) string {
	if name := strings.TrimSpace(s.Name); name != "" {
		return name
	}
	return fmt.Sprintf("Section %d", s.Number)
}
