package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/cybersnake/internal/api/apierr"
	"github.com/mcoot/cybersnake/internal/api/handler"
	"github.com/mcoot/cybersnake/internal/middleware"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger       *slog.Logger
	ScoreService handler.ScoreService
	// CORSOrigins lists the browser origins allowed to call the API.
	// Empty disables CORS headers.
	CORSOrigins []string
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	scoreHandler := handler.NewScoreHandler(cfg.ScoreService, cfg.Logger)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.RequestID)
	api.Use(middleware.Recovery(cfg.Logger, apierr.PanicHandler))
	api.Use(middleware.Logging(cfg.Logger))

	api.HandleFunc("/check-name", scoreHandler.CheckName).Methods(http.MethodPost)
	api.HandleFunc("/scores", scoreHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/scores", scoreHandler.Submit).Methods(http.MethodPost)
	api.HandleFunc("/health", scoreHandler.Health).Methods(http.MethodGet)

	api.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		apierr.WriteError(w, apierr.NewNotFoundError())
	})

	if len(cfg.CORSOrigins) == 0 {
		return r
	}
	return middleware.CORS(cfg.CORSOrigins)(r)
}
