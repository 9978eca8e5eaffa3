package response

import (
	"time"

	"github.com/mcoot/cybersnake/internal/model"
)

// CheckName is the response for a name check. Authenticated is omitted
// when the name is available.
type CheckName struct {
	Available     bool  `json:"available"`
	Authenticated *bool `json:"authenticated,omitempty"`
}

// CheckNameFromResult converts a model.CheckResult
func CheckNameFromResult(r model.CheckResult) CheckName {
	if r == model.CheckAvailable {
		return CheckName{Available: true}
	}
	authenticated := r == model.CheckAuthenticated
	return CheckName{Available: false, Authenticated: &authenticated}
}

// Score is a leaderboard entry or a stored record. The password hash is
// never sent.
type Score struct {
	Name  string    `json:"name"`
	Score int       `json:"score"`
	Date  time.Time `json:"date"`
}

// ScoreFromModel converts a model.ScoreRecord
func ScoreFromModel(r *model.ScoreRecord) Score {
	return Score{
		Name:  r.Name,
		Score: r.BestScore,
		Date:  r.LastUpdated,
	}
}

// ScoresFromModel converts a leaderboard, never returning nil
func ScoresFromModel(records []*model.ScoreRecord) []Score {
	out := make([]Score, len(records))
	for i, r := range records {
		out[i] = ScoreFromModel(r)
	}
	return out
}

// Health is the response for the health check
type Health struct {
	Status  string `json:"status"`
	Storage string `json:"storage"`
}
