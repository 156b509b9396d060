package planner

import (
	"strings"

	"github.com/gungunda/howobot2/internal/datekey"
	"github.com/gungunda/howobot2/internal/model"
)

// Template returns a normalized copy of one weekday's blueprints.
// Callers never see a live reference into the state.
func (s *Store) Template(wd datekey.Weekday) []model.TemplateTask {
	var out []model.TemplateTask
	s.View(func(st *model.State) {
		out = normalizeTemplateTasks(st.Templates[wd], s.placeholder)
	})
	return out
}

// Templates returns the full weekly mapping, normalized, all seven keys set.
func (s *Store) Templates() model.WeeklyTemplate {
	out := model.WeeklyTemplate{}
	s.View(func(st *model.State) {
		for _, wd := range datekey.AllWeekdays() {
			out[wd] = normalizeTemplateTasks(st.Templates[wd], s.placeholder)
		}
	})
	return out
}

// SetTemplate normalizes and replaces the whole sequence for a weekday and
// persists immediately.
func (s *Store) SetTemplate(wd datekey.Weekday, tasks []model.TemplateTask) []model.TemplateTask {
	normalized := normalizeTemplateTasks(tasks, s.placeholder)
	s.Update(func(st *model.State) {
		if st.Templates == nil {
			st.Templates = model.WeeklyTemplate{}
		}
		st.Templates.EnsureWeekdays()
		st.Templates[wd] = append([]model.TemplateTask(nil), normalized...)
	})
	return normalized
}

func normalizeTemplateTasks(tasks []model.TemplateTask, placeholder string) []model.TemplateTask {
	out := make([]model.TemplateTask, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, normalizeTemplateTask(t, placeholder))
	}
	return out
}

func normalizeTemplateTask(t model.TemplateTask, placeholder string) model.TemplateTask {
	t.Title = strings.TrimSpace(t.Title)
	if t.Title == "" {
		t.Title = placeholder
	}
	if t.MinutesPlanned < 0 {
		t.MinutesPlanned = 0
	}
	return t
}
