package model

import (
	"strings"
	"time"
)

type TaskID string

// Action records the last mutation applied to a task.
type Action string

const (
	ActionCreated Action = "created"
	ActionEdited  Action = "edited"
	ActionDeleted Action = "deleted"
)

type TaskMeta struct {
	UpdatedAt  time.Time `json:"updatedAt"`
	LastAction Action    `json:"lastAction"`
	DeviceID   string    `json:"deviceId,omitempty"`
}

// Task is a materialized, persisted task for a specific day.
type Task struct {
	ID             TaskID   `json:"id"`
	Title          string   `json:"title"`
	MinutesPlanned int      `json:"minutesPlanned"`
	DonePercent    int      `json:"donePercent"`
	Done           bool     `json:"isDone"`
	SortIndex      int      `json:"sortIndex"`
	Meta           TaskMeta `json:"meta"`
}

// Normalize repairs a task loaded from storage.
// Invariant: Done is true whenever DonePercent reaches 100. The converse does
// not hold; an explicit toggle may mark a task done below 100%, which then
// forces DonePercent to 100 at the mutation site, not here.
func (t *Task) Normalize() {
	t.Title = strings.TrimSpace(t.Title)
	if t.MinutesPlanned < 0 {
		t.MinutesPlanned = 0
	}
	t.DonePercent = ClampPercent(t.DonePercent)
	if t.DonePercent >= 100 {
		t.Done = true
	}
}

// EffectivelyDone reports completion for totals purposes.
func (t Task) EffectivelyDone() bool {
	return t.Done || t.DonePercent >= 100
}

// ClampPercent bounds a completion percentage to [0,100].
func ClampPercent(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// TemplateTask is a reusable blueprint: title and planned minutes only.
// It carries no id and no completion state.
type TemplateTask struct {
	Title          string `json:"title"`
	MinutesPlanned int    `json:"minutesPlanned"`
}
