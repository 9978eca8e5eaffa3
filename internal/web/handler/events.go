package handler

import (
	"net/http"

	"github.com/mcoot/cybersnake/internal/web/sse"
)

// EventsHandler streams leaderboard updates
type EventsHandler struct {
	hubManager *sse.HubManager
}

// NewEventsHandler creates a new EventsHandler
func NewEventsHandler(hubManager *sse.HubManager) *EventsHandler {
	return &EventsHandler{hubManager: hubManager}
}

// Leaderboard handles GET /events
func (h *EventsHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	sse.ServeSSE(w, r, h.hubManager.GetOrCreateHub(sse.TopicLeaderboard))
}
