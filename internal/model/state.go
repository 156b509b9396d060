package model

import (
	"github.com/gungunda/howobot2/internal/datekey"
)

// View names one of the client screens.
type View string

const (
	ViewDashboard View = "dashboard"
	ViewSchedule  View = "schedule"
	ViewCalendar  View = "calendar"
)

// ParseView validates a raw view string, defaulting to the dashboard.
func ParseView(s string) (View, bool) {
	switch View(s) {
	case ViewDashboard, ViewSchedule, ViewCalendar:
		return View(s), true
	}
	return ViewDashboard, false
}

type DayMeta struct {
	Note string `json:"note"`
}

// Day holds the materialized tasks for one calendar date.
// A day with no tasks is unmaterialized and a candidate for virtual
// projection, whether or not the entry exists in State.Days.
type Day struct {
	Tasks []Task  `json:"tasks"`
	Meta  DayMeta `json:"meta"`
}

func (d Day) Materialized() bool {
	return len(d.Tasks) > 0
}

// WeeklyTemplate maps each weekday bucket to its ordered blueprints.
// All seven keys are always resolvable; EnsureWeekdays repairs gaps.
type WeeklyTemplate map[datekey.Weekday][]TemplateTask

func (w WeeklyTemplate) EnsureWeekdays() {
	for _, wd := range datekey.AllWeekdays() {
		if _, ok := w[wd]; !ok {
			w[wd] = []TemplateTask{}
		}
	}
}

// State is the single mutable root of the planner session.
type State struct {
	SelectedDate string         `json:"selectedDate"`
	CurrentView  View           `json:"currentView"`
	Days         map[string]Day `json:"days"`
	Templates    WeeklyTemplate `json:"scheduleTemplates"`
}

// EnsureDay creates the Day entry for a date key on first address.
func (s *State) EnsureDay(dateKey string) Day {
	if s.Days == nil {
		s.Days = map[string]Day{}
	}
	d, ok := s.Days[dateKey]
	if !ok {
		d = Day{Tasks: []Task{}}
		s.Days[dateKey] = d
	}
	return d
}
