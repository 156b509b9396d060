package planner

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func et(minutes, pct int, done bool) EffectiveTask {
	return EffectiveTask{
		Source:         SourceReal,
		ID:             "t",
		Title:          "x",
		MinutesPlanned: minutes,
		DonePercent:    pct,
		Done:           done,
	}
}

func TestComputeTotals_Empty(t *testing.T) {
	got := ComputeTotals(nil)
	assert.Equal(t, Totals{}, got)
	assert.Equal(t, 0, got.Percent, "percent is 0 when nothing is planned")
}

func TestComputeTotals_Basic(t *testing.T) {
	got := ComputeTotals([]EffectiveTask{
		et(30, 0, false),
		et(60, 50, false),
		et(10, 100, false),
	})
	assert.Equal(t, 100, got.Planned)
	assert.Equal(t, 40, got.Done) // 0 + 30 + 10
	assert.Equal(t, 60, got.Left)
	assert.Equal(t, 40, got.Percent)
}

func TestComputeTotals_ExplicitDoneCountsFullMinutes(t *testing.T) {
	// Toggled done below 100% still counts all planned minutes.
	got := ComputeTotals([]EffectiveTask{et(45, 20, true)})
	assert.Equal(t, 45, got.Done)
	assert.Equal(t, 0, got.Left)
	assert.Equal(t, 100, got.Percent)
}

func TestComputeTotals_Monotonicity(t *testing.T) {
	// 0 <= done <= planned and left == planned - done, across a grid of
	// out-of-range percentages.
	for _, minutes := range []int{0, 1, 7, 30, 240} {
		for pct := -50; pct <= 150; pct += 25 {
			got := ComputeTotals([]EffectiveTask{
				et(minutes, pct, false),
				et(minutes, 100-pct, false),
			})
			name := fmt.Sprintf("minutes=%d pct=%d", minutes, pct)
			assert.GreaterOrEqual(t, got.Done, 0, name)
			assert.LessOrEqual(t, got.Done, got.Planned, name)
			assert.Equal(t, got.Planned-got.Done, got.Left, name)
			assert.GreaterOrEqual(t, got.Percent, 0, name)
			assert.LessOrEqual(t, got.Percent, 100, name)
		}
	}
}

func TestComputeTotals_RoundsPerTask(t *testing.T) {
	// 3 minutes at 50% rounds to 2.
	got := ComputeTotals([]EffectiveTask{et(3, 50, false)})
	assert.Equal(t, 2, got.Done)
}

func TestETALabel_AllDone(t *testing.T) {
	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.Local)
	assert.Equal(t, "all done", ETALabel(0, now, DefaultETALabels()))
	assert.Equal(t, "all done", ETALabel(-5, now, DefaultETALabels()))
}

func TestETALabel_Today(t *testing.T) {
	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.Local)
	assert.Equal(t, "today by 10:30", ETALabel(30, now, DefaultETALabels()))
}

func TestETALabel_CrossesMidnight(t *testing.T) {
	now := time.Date(2025, 1, 1, 23, 50, 0, 0, time.Local)
	assert.Equal(t, "tomorrow by 00:20", ETALabel(30, now, DefaultETALabels()))
}

func TestETALabel_DayAfterTomorrow(t *testing.T) {
	now := time.Date(2025, 1, 1, 22, 0, 0, 0, time.Local)
	assert.Equal(t, "day after tomorrow by 00:00", ETALabel(26*60, now, DefaultETALabels()))
}

func TestETALabel_FarFuture_UsesAbsoluteDate(t *testing.T) {
	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.Local)
	assert.Equal(t, "2025-01-05 by 10:00", ETALabel(4*24*60, now, DefaultETALabels()))
}

func TestETALabel_CustomLabels(t *testing.T) {
	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.Local)
	labels := ETALabels{AllDone: "fertig", Today: "heute"}
	assert.Equal(t, "fertig", ETALabel(0, now, labels))
	assert.Equal(t, "heute by 10:30", ETALabel(30, now, labels))
}

func TestDefaultETALabels_FillGaps(t *testing.T) {
	labels := ETALabels{Today: "heute"}
	now := time.Date(2025, 1, 1, 23, 50, 0, 0, time.Local)
	// Missing phrases fall back to the defaults.
	assert.Equal(t, "tomorrow by 00:20", ETALabel(30, now, labels))
}
