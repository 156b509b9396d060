package serverapp

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/a-h/templ"

	"github.com/gungunda/howobot2/internal/config"
	"github.com/gungunda/howobot2/internal/httpmw"
	"github.com/gungunda/howobot2/internal/planner"
	staticfiles "github.com/gungunda/howobot2/static"
	"github.com/gungunda/howobot2/ui/page"
)

type Options struct {
	Config        *config.Config
	StaticDir     string
	UseDiskStatic bool
	Logger        *log.Logger
	Clock         planner.Clock
}

// NewHandler assembles the whole application: storage, engine, API routes,
// pages and static assets, wrapped in the middleware chain.
func NewHandler(opts Options) (http.Handler, error) {
	if opts.Config == nil {
		return nil, errors.New("config is required")
	}
	if strings.TrimSpace(opts.StaticDir) == "" {
		opts.StaticDir = "static"
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Clock == nil {
		opts.Clock = planner.RealClock{}
	}

	kv, err := openKV(opts.Config.Storage)
	if err != nil {
		return nil, err
	}

	store := planner.NewStore(kv, planner.StoreOptions{
		Key:              opts.Config.Storage.StateKey,
		PlaceholderTitle: opts.Config.Planner.PlaceholderTitle,
		Logger:           opts.Logger,
	})
	store.Load(opts.Clock.Now())

	engine := planner.NewEngine(store, opts.Clock)
	engine.Labels = planner.ETALabels{
		AllDone:          opts.Config.UI.Labels.AllDone,
		Today:            opts.Config.UI.Labels.Today,
		Tomorrow:         opts.Config.UI.Labels.Tomorrow,
		DayAfterTomorrow: opts.Config.UI.Labels.DayAfterTomorrow,
	}

	mux := http.NewServeMux()

	staticHandler := http.FileServer(http.FS(staticfiles.EmbeddedFS()))
	if opts.UseDiskStatic {
		staticHandler = http.FileServer(http.Dir(opts.StaticDir))
	}
	mux.Handle("/static/", http.StripPrefix("/static/", staticHandler))

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"ok":      true,
			"service": "howobot",
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	})

	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if _, _, err := kv.Get(opts.Config.Storage.StateKey); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{
				"ok":    false,
				"error": "planner storage unavailable",
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"ok":      true,
			"service": "howobot",
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	})

	mux.HandleFunc("/api/config", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"bumpStep": opts.Config.Planner.BumpStep,
		})
	})

	handler := planner.NewHandler(engine)
	handler.Register(mux)

	mux.Handle("/", templ.Handler(page.HomePage()))

	// The app route honors the reset=1 query parameter: persisted state is
	// cleared before the client loads, the closest server-side analogue of a
	// "checked once at startup" wire input.
	appPage := templ.Handler(page.AppPage())
	mux.HandleFunc("/app", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("reset") == "1" {
			store.Reset(opts.Clock.Now())
			http.Redirect(w, r, "/app", http.StatusSeeOther)
			return
		}
		appPage.ServeHTTP(w, r)
	})

	return httpmw.Chain(
		mux,
		httpmw.WithAccessLog(opts.Logger),
		httpmw.WithRequestID,
		httpmw.WithRecover(opts.Logger),
	), nil
}

func openKV(cfg config.Storage) (planner.KV, error) {
	switch cfg.Driver {
	case "", "file":
		return planner.NewFileKV(cfg.DataDir)
	case "sqlite":
		return planner.OpenSQLiteKV(filepath.Join(cfg.DataDir, "howobot.db"))
	default:
		return nil, errors.New("unknown storage driver: " + cfg.Driver)
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
