package planner

import (
	"fmt"
	"math"
	"time"

	"github.com/gungunda/howobot2/internal/datekey"
	"github.com/gungunda/howobot2/internal/model"
)

// Totals are the aggregate progress numbers for one day's task list.
type Totals struct {
	Planned int `json:"planned"`
	Done    int `json:"done"`
	Left    int `json:"left"`
	Percent int `json:"percent"`
}

// ComputeTotals folds an effective task list into aggregate minutes.
// Pure: no clock, no state. A task counts its full minutes once it is
// effectively done (explicit toggle or 100%); otherwise its share is
// round(minutes * percent / 100). The aggregate is clamped so done never
// exceeds planned even if per-task rounding drifts.
func ComputeTotals(tasks []EffectiveTask) Totals {
	planned := 0
	done := 0
	for _, t := range tasks {
		m := t.MinutesPlanned
		if m < 0 {
			m = 0
		}
		planned += m

		pct := model.ClampPercent(t.DonePercent)
		if t.Done || pct >= 100 {
			done += m
			continue
		}
		done += int(math.Round(float64(m) * float64(pct) / 100))
	}
	if done > planned {
		done = planned
	}
	percent := 0
	if planned > 0 {
		percent = int(math.Round(float64(done) / float64(planned) * 100))
	}
	return Totals{
		Planned: planned,
		Done:    done,
		Left:    planned - done,
		Percent: percent,
	}
}

// ETALabels are the display phrases for the finish estimate.
// Single display locale; the defaults are English and a config file may
// replace them wholesale.
type ETALabels struct {
	AllDone          string
	Today            string
	Tomorrow         string
	DayAfterTomorrow string
}

func DefaultETALabels() ETALabels {
	return ETALabels{
		AllDone:          "all done",
		Today:            "today",
		Tomorrow:         "tomorrow",
		DayAfterTomorrow: "day after tomorrow",
	}
}

func (l *ETALabels) applyDefaults() {
	def := DefaultETALabels()
	if l.AllDone == "" {
		l.AllDone = def.AllDone
	}
	if l.Today == "" {
		l.Today = def.Today
	}
	if l.Tomorrow == "" {
		l.Tomorrow = def.Tomorrow
	}
	if l.DayAfterTomorrow == "" {
		l.DayAfterTomorrow = def.DayAfterTomorrow
	}
}

// ETALabel projects a finish time for the remaining minutes and renders it
// as "<day-phrase> by HH:MM". Zero or negative remainder yields the all-done
// phrase.
func ETALabel(left int, now time.Time, labels ETALabels) string {
	labels.applyDefaults()
	if left <= 0 {
		return labels.AllDone
	}

	finish := now.Add(time.Duration(left) * time.Minute)
	offset := calendarDayOffset(now, finish)

	var phrase string
	switch offset {
	case 0:
		phrase = labels.Today
	case 1:
		phrase = labels.Tomorrow
	case 2:
		phrase = labels.DayAfterTomorrow
	default:
		phrase = datekey.Key(finish)
	}
	return fmt.Sprintf("%s by %02d:%02d", phrase, finish.Hour(), finish.Minute())
}

func calendarDayOffset(from, to time.Time) int {
	a := datekey.Midnight(from)
	b := datekey.Midnight(to)
	return int(math.Round(b.Sub(a).Hours() / 24))
}
