package planner

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gungunda/howobot2/internal/datekey"
	"github.com/gungunda/howobot2/internal/model"
)

// KV is the synchronous string key-value persistence contract.
// It mirrors an origin-scoped browser store: small values, no transactions,
// reads and writes complete before returning.
type KV interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
}

type StoreOptions struct {
	Key              string // state document key, default "planner"
	PlaceholderTitle string // default "Task"
	Logger           *log.Logger
}

// Store owns the single mutable planner state behind one mutex.
// Every mutation is read-modify-write against the full snapshot, followed by
// a synchronous save. Save failures are logged, never raised; the in-memory
// state stays authoritative for the rest of the session.
type Store struct {
	mu          sync.Mutex
	kv          KV
	key         string
	placeholder string
	logger      *log.Logger
	state       model.State
}

func NewStore(kv KV, opts StoreOptions) *Store {
	if opts.Key == "" {
		opts.Key = "planner"
	}
	if opts.PlaceholderTitle == "" {
		opts.PlaceholderTitle = "Task"
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Store{
		kv:          kv,
		key:         opts.Key,
		placeholder: opts.PlaceholderTitle,
		logger:      opts.Logger,
		state:       model.State{},
	}
}

// Load pulls the persisted state and deep-merges it against structural
// defaults. A missing key, malformed JSON, or a partially-shaped document all
// land on a usable state; corruption is recovered locally, never surfaced.
func (s *Store) Load(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var loaded model.State
	raw, ok, err := s.kv.Get(s.key)
	if err != nil {
		s.logger.Printf("[store] load %q failed: %v", s.key, err)
	} else if ok {
		if err := json.Unmarshal([]byte(raw), &loaded); err != nil {
			s.logger.Printf("[store] state %q is not valid json, using defaults: %v", s.key, err)
			loaded = model.State{}
		}
	}
	s.state = loaded
	s.normalizeLocked(now)
}

// Reset drops the persisted document and reinitializes in-memory state.
func (s *Store) Reset(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.Delete(s.key); err != nil {
		s.logger.Printf("[store] reset delete %q failed: %v", s.key, err)
	}
	s.state = model.State{}
	s.normalizeLocked(now)
}

// View runs fn with read access to the state under the lock.
// fn must not retain references past its return.
func (s *Store) View(fn func(st *model.State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.state)
}

// Update runs fn with write access to the state and saves the result
// synchronously. This is the only mutation path.
func (s *Store) Update(fn func(st *model.State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.state)
	s.saveLocked()
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() model.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneState(s.state)
}

func (s *Store) saveLocked() {
	b, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		s.logger.Printf("[store] marshal state failed: %v", err)
		return
	}
	if err := s.kv.Set(s.key, string(b)); err != nil {
		s.logger.Printf("[store] save %q failed: %v", s.key, err)
	}
}

// normalizeLocked is the structural deep-merge: every access point below it
// can assume maps exist, all seven weekday buckets resolve, tasks satisfy
// the percent/done invariant and the selected date is a valid key.
func (s *Store) normalizeLocked(now time.Time) {
	st := &s.state

	if st.Days == nil {
		st.Days = map[string]model.Day{}
	}
	if st.Templates == nil {
		st.Templates = model.WeeklyTemplate{}
	}
	st.Templates.EnsureWeekdays()
	for wd, tpl := range st.Templates {
		st.Templates[wd] = normalizeTemplateTasks(tpl, s.placeholder)
	}

	for key, day := range st.Days {
		if day.Tasks == nil {
			day.Tasks = []model.Task{}
		}
		for i := range day.Tasks {
			t := &day.Tasks[i]
			t.Normalize()
			if t.ID == "" {
				t.ID = newTaskID()
			}
			if t.Title == "" {
				t.Title = s.placeholder
			}
		}
		st.Days[key] = day
	}

	if _, err := datekey.Parse(st.SelectedDate); err != nil {
		st.SelectedDate = datekey.Key(now)
	}
	if v, ok := model.ParseView(string(st.CurrentView)); !ok {
		st.CurrentView = v
	}
}

func cloneState(st model.State) model.State {
	out := st
	out.Days = make(map[string]model.Day, len(st.Days))
	for k, d := range st.Days {
		day := d
		day.Tasks = append([]model.Task(nil), d.Tasks...)
		out.Days[k] = day
	}
	out.Templates = make(model.WeeklyTemplate, len(st.Templates))
	for wd, tpl := range st.Templates {
		out.Templates[wd] = append([]model.TemplateTask(nil), tpl...)
	}
	return out
}
