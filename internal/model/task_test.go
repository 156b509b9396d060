package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTaskNormalize(t *testing.T) {
	task := Task{Title: "  Math ", MinutesPlanned: -5, DonePercent: 150}
	task.Normalize()

	assert.Equal(t, "Math", task.Title)
	assert.Equal(t, 0, task.MinutesPlanned)
	assert.Equal(t, 100, task.DonePercent)
	assert.True(t, task.Done, "percent at 100 implies done")
}

func TestTaskNormalize_DoneBelowHundredStays(t *testing.T) {
	// An explicit toggle may mark a task done at a lower percentage; repair
	// must not undo that.
	task := Task{Title: "Math", DonePercent: 40, Done: true}
	task.Normalize()

	assert.True(t, task.Done)
	assert.Equal(t, 40, task.DonePercent)
}

func TestEffectivelyDone(t *testing.T) {
	assert.True(t, Task{Done: true, DonePercent: 10}.EffectivelyDone())
	assert.True(t, Task{DonePercent: 100}.EffectivelyDone())
	assert.False(t, Task{DonePercent: 99}.EffectivelyDone())
}

func TestClampPercent(t *testing.T) {
	assert.Equal(t, 0, ClampPercent(-1))
	assert.Equal(t, 0, ClampPercent(0))
	assert.Equal(t, 55, ClampPercent(55))
	assert.Equal(t, 100, ClampPercent(100))
	assert.Equal(t, 100, ClampPercent(1000))
}

func TestParseView(t *testing.T) {
	for _, valid := range []string{"dashboard", "schedule", "calendar"} {
		v, ok := ParseView(valid)
		assert.True(t, ok, valid)
		assert.Equal(t, View(valid), v)
	}

	v, ok := ParseView("settings")
	assert.False(t, ok)
	assert.Equal(t, ViewDashboard, v, "invalid input lands on the dashboard")
}

func TestEnsureDay(t *testing.T) {
	var st State
	d := st.EnsureDay("2025-01-01")
	assert.NotNil(t, d.Tasks)
	assert.Contains(t, st.Days, "2025-01-01")

	st.Days["2025-01-01"] = Day{Tasks: []Task{{ID: "a"}}}
	d = st.EnsureDay("2025-01-01")
	assert.Len(t, d.Tasks, 1, "existing entry returned untouched")
}
