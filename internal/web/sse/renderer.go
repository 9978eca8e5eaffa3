package sse

import (
	"bytes"
	"context"

	"github.com/mcoot/cybersnake/internal/model"
	"github.com/mcoot/cybersnake/internal/web/templates/components"
)

// EventLeaderboardUpdate is the event name for a re-rendered leaderboard
const EventLeaderboardUpdate = "leaderboard-update"

// Renderer converts leaderboard snapshots to HTML fragments for SSE
type Renderer struct{}

// NewRenderer creates a new Renderer
func NewRenderer() *Renderer {
	return &Renderer{}
}

// RenderLeaderboard renders the leaderboard table as HTML
func (r *Renderer) RenderLeaderboard(ctx context.Context, entries []*model.ScoreRecord) (string, error) {
	var buf bytes.Buffer
	if err := components.LeaderboardTable(entries).Render(ctx, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// WrapForOOBSwap wraps HTML in a div with hx-swap-oob for out-of-band swaps
func WrapForOOBSwap(id, html string) string {
	return `<div id="` + id + `" hx-swap-oob="true">` + html + `</div>`
}
