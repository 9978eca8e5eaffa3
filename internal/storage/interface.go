package storage

import (
	"context"

	"github.com/mcoot/cybersnake/internal/model"
)

// UpdateFunc decides the new record for a name given the stored one.
// current is nil when no record exists. Returning a nil record leaves the
// store untouched; returning an error aborts the update with that error.
type UpdateFunc func(current *model.ScoreRecord) (*model.ScoreRecord, error)

// ScoreStore defines the interface for score persistence
type ScoreStore interface {
	// GetScore returns the record for name or model.ErrScoreNotFound
	GetScore(ctx context.Context, name string) (*model.ScoreRecord, error)

	// UpdateScore runs fn as an atomic read-modify-write on one name.
	// Concurrent updates to the same name are serialised; fn may be
	// called more than once if the store retries.
	UpdateScore(ctx context.Context, name string, fn UpdateFunc) (*model.ScoreRecord, error)

	// TopScores returns up to limit records in leaderboard order
	TopScores(ctx context.Context, limit int) ([]*model.ScoreRecord, error)

	// Ping reports whether the backend is reachable
	Ping(ctx context.Context) error

	Close() error
}
