package planner

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/gungunda/howobot2/internal/datekey"
	"github.com/gungunda/howobot2/internal/model"
)

// Source tags the two variants of an effective task.
type Source string

const (
	SourceReal    Source = "real"
	SourceVirtual Source = "virtual"
)

// EffectiveTask is what a date actually shows: either a persisted task or a
// non-persistent projection derived from the next day's weekday template.
// Only the real variant carries mutation history; only the virtual variant
// carries its source weekday and template position.
type EffectiveTask struct {
	Source         Source          `json:"source"`
	ID             model.TaskID    `json:"id"`
	Title          string          `json:"title"`
	MinutesPlanned int             `json:"minutesPlanned"`
	DonePercent    int             `json:"donePercent"`
	Done           bool            `json:"isDone"`
	SortIndex      int             `json:"sortIndex"`
	Weekday        datekey.Weekday `json:"weekday,omitempty"`
	TemplateIndex  int             `json:"templateIndex"`
	Meta           *model.TaskMeta `json:"meta,omitempty"`
}

func (t EffectiveTask) Virtual() bool { return t.Source == SourceVirtual }

// Engine resolves dates to effective task lists and applies mutations,
// materializing virtual days on demand. It reads and writes the store's
// state but never holds an independent copy.
type Engine struct {
	Store  *Store
	Clock  Clock
	Labels ETALabels
}

func NewEngine(store *Store, clock Clock) *Engine {
	if clock == nil {
		clock = RealClock{}
	}
	return &Engine{Store: store, Clock: clock, Labels: DefaultETALabels()}
}

func newTaskID() model.TaskID {
	return model.TaskID(uuid.NewString())
}

// virtualID is deterministic per weekday and template position, so a later
// mutation against it can materialize the exact corresponding real task by
// index rather than by content equality.
func virtualID(wd datekey.Weekday, index int) model.TaskID {
	return model.TaskID(fmt.Sprintf("virt_%s_%d", wd, index))
}

func parseVirtualID(id model.TaskID) (datekey.Weekday, int, bool) {
	rest, ok := strings.CutPrefix(string(id), "virt_")
	if !ok {
		return "", 0, false
	}
	wdRaw, idxRaw, ok := strings.Cut(rest, "_")
	if !ok {
		return "", 0, false
	}
	wd, ok := datekey.ParseWeekday(wdRaw)
	if !ok {
		return "", 0, false
	}
	idx, err := strconv.Atoi(idxRaw)
	if err != nil || idx < 0 {
		return "", 0, false
	}
	return wd, idx, true
}

// ResolveDateKey canonicalizes a raw date key, falling back to today for
// malformed or non-round-tripping input.
func (e *Engine) ResolveDateKey(raw string) string {
	if _, err := datekey.Parse(raw); err != nil {
		return datekey.Key(e.Clock.Now())
	}
	return raw
}

// EffectiveTasks resolves a date to the task list it shows.
// A materialized day is authoritative and returned verbatim. An
// unmaterialized day projects the template of the *following* day's weekday:
// the planner displays what to prepare for tomorrow. Resolution never
// materializes anything.
func (e *Engine) EffectiveTasks(rawDateKey string) []EffectiveTask {
	dateKey := e.ResolveDateKey(rawDateKey)
	date, _ := datekey.Parse(dateKey)

	var out []EffectiveTask
	e.Store.View(func(st *model.State) {
		if day, ok := st.Days[dateKey]; ok && day.Materialized() {
			out = realEffective(day.Tasks)
		}
	})
	if out != nil {
		return out
	}

	wd := datekey.WeekdayOf(datekey.AddDays(date, 1))
	tpl := e.Store.Template(wd)
	out = make([]EffectiveTask, 0, len(tpl))
	for i, bt := range tpl {
		out = append(out, EffectiveTask{
			Source:         SourceVirtual,
			ID:             virtualID(wd, i),
			Title:          bt.Title,
			MinutesPlanned: bt.MinutesPlanned,
			SortIndex:      i,
			Weekday:        wd,
			TemplateIndex:  i,
		})
	}
	return out
}

func realEffective(tasks []model.Task) []EffectiveTask {
	out := make([]EffectiveTask, 0, len(tasks))
	for _, t := range tasks {
		t := t
		out = append(out, EffectiveTask{
			Source:         SourceReal,
			ID:             t.ID,
			Title:          t.Title,
			MinutesPlanned: t.MinutesPlanned,
			DonePercent:    t.DonePercent,
			Done:           t.Done,
			SortIndex:      t.SortIndex,
			TemplateIndex:  t.SortIndex,
			Meta:           &t.Meta,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SortIndex < out[j].SortIndex })
	return out
}

// materializeLocked overwrites the day's tasks with fresh real tasks built
// from the weekday's template, one per entry, SortIndex equal to template
// position. Destructive on purpose; callers only reach it through a mutation
// attempt against a virtual task.
func (e *Engine) materializeLocked(st *model.State, wd datekey.Weekday, dateKey string) {
	now := e.Clock.Now()
	tpl := normalizeTemplateTasks(st.Templates[wd], e.Store.placeholder)

	tasks := make([]model.Task, 0, len(tpl))
	for i, bt := range tpl {
		tasks = append(tasks, model.Task{
			ID:             newTaskID(),
			Title:          bt.Title,
			MinutesPlanned: bt.MinutesPlanned,
			DonePercent:    0,
			Done:           false,
			SortIndex:      i,
			Meta:           model.TaskMeta{UpdatedAt: now, LastAction: model.ActionCreated},
		})
	}

	day := st.EnsureDay(dateKey)
	day.Tasks = tasks
	st.Days[dateKey] = day
}

// ApplyTemplateToDate materializes a weekday template into a date directly.
// The schedule screen uses it; normal mutation paths go through mutateTask.
func (e *Engine) ApplyTemplateToDate(wd datekey.Weekday, rawDateKey string) {
	dateKey := e.ResolveDateKey(rawDateKey)
	e.Store.Update(func(st *model.State) {
		e.materializeLocked(st, wd, dateKey)
	})
}

// mutateTask locates the task behind an effective id and applies fn to it.
// A virtual id materializes its source weekday first, then resolves the
// corresponding real task by template position. An id that cannot be located
// is a silent no-op: no error, no state change beyond any materialization
// that already occurred.
func (e *Engine) mutateTask(rawDateKey string, id model.TaskID, fn func(t *model.Task)) bool {
	dateKey := e.ResolveDateKey(rawDateKey)
	now := e.Clock.Now()
	changed := false

	e.Store.Update(func(st *model.State) {
		day, ok := st.Days[dateKey]
		if !ok || !day.Materialized() {
			wd, index, isVirtual := parseVirtualID(id)
			if !isVirtual {
				return
			}
			e.materializeLocked(st, wd, dateKey)
			day = st.Days[dateKey]
			if index >= len(day.Tasks) {
				return
			}
			id = day.Tasks[index].ID
		}

		for i := range day.Tasks {
			if day.Tasks[i].ID != id {
				continue
			}
			fn(&day.Tasks[i])
			day.Tasks[i].Normalize()
			day.Tasks[i].Meta.UpdatedAt = now
			day.Tasks[i].Meta.LastAction = model.ActionEdited
			st.Days[dateKey] = day
			changed = true
			return
		}
	})
	return changed
}

// ToggleDone sets completion explicitly and forces the percentage to match.
func (e *Engine) ToggleDone(dateKey string, id model.TaskID, done bool) bool {
	return e.mutateTask(dateKey, id, func(t *model.Task) {
		t.Done = done
		if done {
			t.DonePercent = 100
		} else {
			t.DonePercent = 0
		}
	})
}

// BumpProgress shifts the completion percentage by delta, clamped to [0,100].
// Done tracks whether the result reached 100.
func (e *Engine) BumpProgress(dateKey string, id model.TaskID, delta int) bool {
	return e.mutateTask(dateKey, id, func(t *model.Task) {
		p := model.ClampPercent(t.DonePercent + delta)
		t.DonePercent = p
		t.Done = p >= 100
	})
}

// TaskPatch is a partial edit. nil pointer => "no change".
type TaskPatch struct {
	Title          *string `json:"title,omitempty"`
	MinutesPlanned *int    `json:"minutesPlanned,omitempty"`
}

// EditTask applies a field edit: title trimmed (blank falls back to the
// placeholder), minutes floored at zero.
func (e *Engine) EditTask(dateKey string, id model.TaskID, p TaskPatch) bool {
	return e.mutateTask(dateKey, id, func(t *model.Task) {
		if p.Title != nil {
			title := strings.TrimSpace(*p.Title)
			if title == "" {
				title = e.Store.placeholder
			}
			t.Title = title
		}
		if p.MinutesPlanned != nil {
			m := *p.MinutesPlanned
			if m < 0 {
				m = 0
			}
			t.MinutesPlanned = m
		}
	})
}

// DeleteTask removes a task, materializing first when the id is virtual.
// Deleting the last task removes the whole Day entry (unless it carries a
// note), which reverts the date to the unmaterialized state and re-enables
// virtual projection.
func (e *Engine) DeleteTask(rawDateKey string, id model.TaskID) bool {
	dateKey := e.ResolveDateKey(rawDateKey)
	changed := false

	e.Store.Update(func(st *model.State) {
		day, ok := st.Days[dateKey]
		if !ok || !day.Materialized() {
			wd, index, isVirtual := parseVirtualID(id)
			if !isVirtual {
				return
			}
			e.materializeLocked(st, wd, dateKey)
			day = st.Days[dateKey]
			if index >= len(day.Tasks) {
				return
			}
			id = day.Tasks[index].ID
		}

		kept := day.Tasks[:0:0]
		for _, t := range day.Tasks {
			if t.ID == id {
				changed = true
				continue
			}
			kept = append(kept, t)
		}
		if !changed {
			return
		}

		day.Tasks = kept
		if len(kept) == 0 && strings.TrimSpace(day.Meta.Note) == "" {
			delete(st.Days, dateKey)
			return
		}
		st.Days[dateKey] = day
	})
	return changed
}

// AddTask appends a real task to a date. An explicit add materializes the day
// by itself, independent of any template.
func (e *Engine) AddTask(rawDateKey, title string, minutes int) model.Task {
	dateKey := e.ResolveDateKey(rawDateKey)
	now := e.Clock.Now()

	title = strings.TrimSpace(title)
	if title == "" {
		title = e.Store.placeholder
	}
	if minutes < 0 {
		minutes = 0
	}

	var created model.Task
	e.Store.Update(func(st *model.State) {
		day := st.EnsureDay(dateKey)
		created = model.Task{
			ID:             newTaskID(),
			Title:          title,
			MinutesPlanned: minutes,
			SortIndex:      len(day.Tasks),
			Meta:           model.TaskMeta{UpdatedAt: now, LastAction: model.ActionCreated},
		}
		day.Tasks = append(day.Tasks, created)
		st.Days[dateKey] = day
	})
	return created
}

// Select updates the session's selected date and screen.
func (e *Engine) Select(rawDateKey string, view string) model.State {
	dateKey := e.ResolveDateKey(rawDateKey)
	e.Store.Update(func(st *model.State) {
		st.SelectedDate = dateKey
		if v, ok := model.ParseView(view); ok {
			st.CurrentView = v
		}
	})
	return e.Store.Snapshot()
}

// DayPayload is the render contract: effective tasks plus computed stats and
// a human-readable day label.
type DayPayload struct {
	Date   string          `json:"date"`
	Label  string          `json:"label"`
	Tasks  []EffectiveTask `json:"tasks"`
	Totals Totals          `json:"totals"`
	ETA    string          `json:"eta"`
}

// Day assembles everything a screen needs for one date.
func (e *Engine) Day(rawDateKey string) DayPayload {
	dateKey := e.ResolveDateKey(rawDateKey)
	date, _ := datekey.Parse(dateKey)
	tasks := e.EffectiveTasks(dateKey)
	totals := ComputeTotals(tasks)
	return DayPayload{
		Date:   dateKey,
		Label:  date.Format("Monday, 02 Jan 2006"),
		Tasks:  tasks,
		Totals: totals,
		ETA:    ETALabel(totals.Left, e.Clock.Now(), e.Labels),
	}
}
