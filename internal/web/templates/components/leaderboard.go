package components

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/mcoot/cybersnake/internal/model"
)

// LeaderboardID is the id of the element live updates replace
const LeaderboardID = "leaderboard"

// DateFormat is how the last update of a record is shown
const DateFormat = "2006-01-02"

// LeaderboardTable renders the ranked entries, or a placeholder when
// nobody has scored yet
func LeaderboardTable(entries []*model.ScoreRecord) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<table class="leaderboard">`)
		b.WriteString(`<thead><tr><th>Rank</th><th>Name</th><th>Score</th><th>Date</th></tr></thead><tbody>`)
		if len(entries) == 0 {
			b.WriteString(`<tr class="empty"><td colspan="4">No scores yet</td></tr>`)
		}
		for i, rec := range entries {
			b.WriteString(`<tr class="entry">`)
			b.WriteString(`<td class="rank">` + strconv.Itoa(i+1) + `</td>`)
			b.WriteString(`<td class="name">` + templ.EscapeString(rec.Name) + `</td>`)
			b.WriteString(`<td class="score">` + strconv.Itoa(rec.BestScore) + `</td>`)
			b.WriteString(`<td class="date">` + rec.LastUpdated.UTC().Format(DateFormat) + `</td>`)
			b.WriteString(`</tr>`)
		}
		b.WriteString(`</tbody></table>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}
