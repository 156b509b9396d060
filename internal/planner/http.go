package planner

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/gungunda/howobot2/internal/datekey"
	"github.com/gungunda/howobot2/internal/model"
)

type Handler struct {
	engine   *Engine
	validate *validator.Validate
}

func NewHandler(engine *Engine) *Handler {
	return &Handler{
		engine:   engine,
		validate: validator.New(),
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}

func decodeJSON(r *http.Request, out any) error {
	return json.NewDecoder(r.Body).Decode(out)
}

// writeValidationErr maps validator failures to field-level messages, so the
// client can reject bad template/task input at the editing boundary without
// applying anything.
func writeValidationErr(w http.ResponseWriter, err error) {
	fields := map[string]string{}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
	}
	writeJSON(w, http.StatusBadRequest, map[string]any{
		"error":  "validation failed",
		"fields": fields,
	})
}

type taskCreate struct {
	Title          string `json:"title" validate:"required"`
	MinutesPlanned int    `json:"minutesPlanned" validate:"min=0"`
}

type templateTaskIn struct {
	Title          string `json:"title" validate:"required"`
	MinutesPlanned int    `json:"minutesPlanned" validate:"min=0"`
}

type templatePut struct {
	Tasks []templateTaskIn `json:"tasks" validate:"required,dive"`
}

// DayRoot handles /api/day (collection-level read).
func (h *Handler) DayRoot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, 405, "method not allowed")
		return
	}
	date := r.URL.Query().Get("date")
	if date == "" {
		h.engine.Store.View(func(st *model.State) { date = st.SelectedDate })
	}
	writeJSON(w, 200, h.engine.Day(date))
}

// DaySub handles /api/day/{date}/tasks[...] mutations.
func (h *Handler) DaySub(w http.ResponseWriter, r *http.Request) {
	tail := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/day/"), "/")
	parts := strings.Split(tail, "/")
	if len(parts) < 2 || parts[1] != "tasks" {
		writeErr(w, 404, "not found")
		return
	}
	date := parts[0]

	// /api/day/{date}/tasks
	if len(parts) == 2 {
		if r.Method != http.MethodPost {
			writeErr(w, 405, "method not allowed")
			return
		}
		var in taskCreate
		if err := decodeJSON(r, &in); err != nil {
			writeErr(w, 400, "bad json")
			return
		}
		if err := h.validate.Struct(in); err != nil {
			writeValidationErr(w, err)
			return
		}
		t := h.engine.AddTask(date, in.Title, in.MinutesPlanned)
		writeJSON(w, 201, map[string]any{"task": t, "day": h.engine.Day(date)})
		return
	}

	id := model.TaskID(parts[2])

	// /api/day/{date}/tasks/{id}
	if len(parts) == 3 {
		switch r.Method {
		case http.MethodPatch:
			var p TaskPatch
			if err := decodeJSON(r, &p); err != nil {
				writeErr(w, 400, "bad json")
				return
			}
			changed := h.engine.EditTask(date, id, p)
			writeJSON(w, 200, map[string]any{"changed": changed, "day": h.engine.Day(date)})
			return

		case http.MethodDelete:
			changed := h.engine.DeleteTask(date, id)
			writeJSON(w, 200, map[string]any{"changed": changed, "day": h.engine.Day(date)})
			return

		default:
			writeErr(w, 405, "method not allowed")
			return
		}
	}

	// /api/day/{date}/tasks/{id}/{op}
	if len(parts) == 4 {
		if r.Method != http.MethodPost {
			writeErr(w, 405, "method not allowed")
			return
		}
		switch parts[3] {
		case "toggle":
			var in struct {
				Done *bool `json:"isDone"`
			}
			if err := decodeJSON(r, &in); err != nil {
				writeErr(w, 400, "bad json")
				return
			}
			if in.Done == nil {
				writeErr(w, 400, `missing field "isDone"`)
				return
			}
			changed := h.engine.ToggleDone(date, id, *in.Done)
			writeJSON(w, 200, map[string]any{"changed": changed, "day": h.engine.Day(date)})
			return

		case "bump":
			var in struct {
				Delta *int `json:"delta"`
			}
			if err := decodeJSON(r, &in); err != nil {
				writeErr(w, 400, "bad json")
				return
			}
			if in.Delta == nil {
				writeErr(w, 400, `missing field "delta"`)
				return
			}
			changed := h.engine.BumpProgress(date, id, *in.Delta)
			writeJSON(w, 200, map[string]any{"changed": changed, "day": h.engine.Day(date)})
			return
		}
	}

	writeErr(w, 404, "not found")
}

// TemplatesRoot handles /api/templates (full weekly mapping).
func (h *Handler) TemplatesRoot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, 405, "method not allowed")
		return
	}
	writeJSON(w, 200, h.engine.Store.Templates())
}

// TemplatesSub handles /api/templates/{weekday}.
func (h *Handler) TemplatesSub(w http.ResponseWriter, r *http.Request) {
	raw := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/templates/"), "/")
	wd, ok := datekey.ParseWeekday(raw)
	if !ok {
		writeErr(w, 404, "unknown weekday")
		return
	}

	switch r.Method {
	case http.MethodGet:
		writeJSON(w, 200, h.engine.Store.Template(wd))
		return

	case http.MethodPut:
		var in templatePut
		if err := decodeJSON(r, &in); err != nil {
			writeErr(w, 400, "bad json")
			return
		}
		if err := h.validate.Struct(in); err != nil {
			writeValidationErr(w, err)
			return
		}
		tasks := make([]model.TemplateTask, 0, len(in.Tasks))
		for _, t := range in.Tasks {
			tasks = append(tasks, model.TemplateTask{Title: t.Title, MinutesPlanned: t.MinutesPlanned})
		}
		writeJSON(w, 200, h.engine.Store.SetTemplate(wd, tasks))
		return

	default:
		writeErr(w, 405, "method not allowed")
		return
	}
}

// TemplateApply handles /api/templates/{weekday}/apply?date=K.
func (h *Handler) TemplateApply(w http.ResponseWriter, r *http.Request, wdRaw, date string) {
	wd, ok := datekey.ParseWeekday(wdRaw)
	if !ok {
		writeErr(w, 404, "unknown weekday")
		return
	}
	h.engine.ApplyTemplateToDate(wd, date)
	writeJSON(w, 200, h.engine.Day(date))
}

// StateRoot handles /api/state.
func (h *Handler) StateRoot(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, 200, h.engine.Store.Snapshot())
		return
	default:
		writeErr(w, 405, "method not allowed")
		return
	}
}

// StateSelect handles /api/state/select.
func (h *Handler) StateSelect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, 405, "method not allowed")
		return
	}
	var in struct {
		Date string `json:"date"`
		View string `json:"view"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeErr(w, 400, "bad json")
		return
	}
	st := h.engine.Select(in.Date, in.View)
	writeJSON(w, 200, map[string]any{
		"selectedDate": st.SelectedDate,
		"currentView":  st.CurrentView,
		"day":          h.engine.Day(st.SelectedDate),
	})
}

// StateReset handles /api/state/reset.
func (h *Handler) StateReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, 405, "method not allowed")
		return
	}
	h.engine.Store.Reset(h.engine.Clock.Now())
	writeJSON(w, 200, map[string]any{"ok": true})
}

// Register wires all planner routes onto a mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/day", h.DayRoot)
	mux.HandleFunc("/api/day/", h.DaySub)
	mux.HandleFunc("/api/templates", h.TemplatesRoot)
	mux.HandleFunc("/api/templates/", h.templatesDispatch)
	mux.HandleFunc("/api/state", h.StateRoot)
	mux.HandleFunc("/api/state/select", h.StateSelect)
	mux.HandleFunc("/api/state/reset", h.StateReset)
}

func (h *Handler) templatesDispatch(w http.ResponseWriter, r *http.Request) {
	tail := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/templates/"), "/")
	parts := strings.Split(tail, "/")
	if len(parts) == 2 && parts[1] == "apply" {
		if r.Method != http.MethodPost {
			writeErr(w, 405, "method not allowed")
			return
		}
		h.TemplateApply(w, r, parts[0], r.URL.Query().Get("date"))
		return
	}
	h.TemplatesSub(w, r)
}
