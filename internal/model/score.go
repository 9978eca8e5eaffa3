package model

import (
	"sort"
	"time"
)

const (
	// LeaderboardSize is the number of entries returned by the leaderboard
	LeaderboardSize = 10
	// MaxNameLength is the longest accepted name, in runes
	MaxNameLength = 20
	// MaxPasswordBytes is the bcrypt input limit
	MaxPasswordBytes = 72
)

// ScoreRecord is the persisted best score for a player name
type ScoreRecord struct {
	Name         string    `json:"name"`          // unique key
	PasswordHash string    `json:"password_hash"` // bcrypt hash, immutable once set
	BestScore    int       `json:"best_score"`
	LastUpdated  time.Time `json:"last_updated"`
}

// LeaderboardEntry is a record as seen by clients: no password hash
type LeaderboardEntry struct {
	Name  string    `json:"name"`
	Score int       `json:"score"`
	Date  time.Time `json:"date"`
}

// Credential identifies a player by name and password
type Credential struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

// IsComplete reports whether both fields are set
func (c Credential) IsComplete() bool {
	return c.Name != "" && c.Password != ""
}

// CheckResult is the outcome of a name availability check
type CheckResult string

const (
	CheckAvailable     CheckResult = "available"     // No record, any password may claim it
	CheckAuthenticated CheckResult = "authenticated" // Record exists and password matches
	CheckRejected      CheckResult = "rejected"      // Record exists with another password
)

// Allowed reports whether the result lets the player start a game
func (r CheckResult) Allowed() bool {
	return r == CheckAvailable || r == CheckAuthenticated
}

// RanksBefore orders records by score descending, then by the earlier
// update, then by name so the ordering is total.
func RanksBefore(a, b *ScoreRecord) bool {
	if a.BestScore != b.BestScore {
		return a.BestScore > b.BestScore
	}
	if !a.LastUpdated.Equal(b.LastUpdated) {
		return a.LastUpdated.Before(b.LastUpdated)
	}
	return a.Name < b.Name
}

// SortLeaderboard sorts records in leaderboard order and truncates to limit.
// A limit <= 0 keeps every record.
func SortLeaderboard(records []*ScoreRecord, limit int) []*ScoreRecord {
	sort.SliceStable(records, func(i, j int) bool {
		return RanksBefore(records[i], records[j])
	})
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records
}
