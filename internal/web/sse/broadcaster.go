package sse

import (
	"context"
	"log/slog"

	"github.com/mcoot/cybersnake/internal/model"
	"github.com/mcoot/cybersnake/internal/web/templates/components"
)

// Broadcaster pushes leaderboard changes to SSE clients
type Broadcaster struct {
	hubManager *HubManager
	renderer   *Renderer
	logger     *slog.Logger
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hubManager *HubManager, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		hubManager: hubManager,
		renderer:   NewRenderer(),
		logger:     logger.With(slog.String("component", "sse-broadcaster")),
	}
}

// LeaderboardChanged re-renders the leaderboard and sends it to every
// subscriber. It does nothing while nobody is subscribed.
func (b *Broadcaster) LeaderboardChanged(ctx context.Context, entries []*model.ScoreRecord) {
	hub := b.hubManager.GetHub(TopicLeaderboard)
	if hub == nil {
		return
	}

	html, err := b.renderer.RenderLeaderboard(ctx, entries)
	if err != nil {
		b.logger.Error("sse failed to render leaderboard", slog.Any("error", err))
		return
	}

	hub.BroadcastEvent(EventLeaderboardUpdate, WrapForOOBSwap(components.LeaderboardID, html))
}
