package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/mcoot/cybersnake/internal/model"
	"github.com/mcoot/cybersnake/internal/web/templates/layout"
	"github.com/mcoot/cybersnake/internal/web/templates/pages"
)

// EventsPath is where the leaderboard stream is served
const EventsPath = "/events"

// Leaderboard loads the ranked records the page shows
type Leaderboard interface {
	Leaderboard(ctx context.Context) ([]*model.ScoreRecord, error)
}

// HomeHandler handles the leaderboard page
type HomeHandler struct {
	scores Leaderboard
	logger *slog.Logger
}

// NewHomeHandler creates a new HomeHandler
func NewHomeHandler(scores Leaderboard, logger *slog.Logger) *HomeHandler {
	return &HomeHandler{
		scores: scores,
		logger: logger.With(slog.String("component", "web-home")),
	}
}

// Home renders the leaderboard page
func (h *HomeHandler) Home(w http.ResponseWriter, r *http.Request) {
	entries, err := h.scores.Leaderboard(r.Context())
	if err != nil {
		h.logger.Error("failed to load leaderboard", slog.Any("error", err))
		http.Error(w, "Leaderboard unavailable", http.StatusServiceUnavailable)
		return
	}

	data := pages.HomeData{
		PageData:   layout.PageData{Title: "Leaderboard"},
		Entries:    entries,
		EventsPath: EventsPath,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pages.Home(data).Render(r.Context(), w); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
