package web

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/cybersnake/internal/middleware"
	"github.com/mcoot/cybersnake/internal/web/handler"
	"github.com/mcoot/cybersnake/internal/web/sse"
)

// RouterConfig holds configuration for the web router
type RouterConfig struct {
	Logger      *slog.Logger
	Leaderboard handler.Leaderboard
	HubManager  *sse.HubManager
	StaticDir   string // Path to static files directory
}

// NewRouter creates a new web router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(cfg.Logger, handler.PanicPage))
	r.Use(middleware.Logging(cfg.Logger))

	// Create SSE hub manager if not provided
	hubManager := cfg.HubManager
	if hubManager == nil {
		hubManager = sse.NewHubManager(cfg.Logger)
	}

	homeHandler := handler.NewHomeHandler(cfg.Leaderboard, cfg.Logger)
	eventsHandler := handler.NewEventsHandler(hubManager)

	if cfg.StaticDir != "" {
		staticHandler := http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticDir)))
		r.PathPrefix("/static/").Handler(staticHandler)
	}

	r.HandleFunc("/", homeHandler.Home).Methods(http.MethodGet)
	r.HandleFunc(handler.EventsPath, eventsHandler.Leaderboard).Methods(http.MethodGet)

	return r
}
