package pages

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/mcoot/cybersnake/internal/model"
	"github.com/mcoot/cybersnake/internal/web/templates/components"
	"github.com/mcoot/cybersnake/internal/web/templates/layout"
)

// HomeData is the data for the leaderboard page
type HomeData struct {
	layout.PageData
	Entries []*model.ScoreRecord
	// EventsPath is where the page subscribes for live updates
	EventsPath string
}

// Home renders the leaderboard page
func Home(data HomeData) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<section hx-ext="sse" sse-connect="`+templ.EscapeString(data.EventsPath)+`">
<h2>Top scores</h2>
<div sse-swap="leaderboard-update" hx-swap="none"></div>
<div id="`+components.LeaderboardID+`">
`); err != nil {
			return err
		}
		if err := components.LeaderboardTable(data.Entries).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `
</div>
<p class="hint">Play from a terminal with <code>cybersnake play</code>.</p>
</section>`)
		return err
	})
	return layout.Base(data.PageData, body)
}
