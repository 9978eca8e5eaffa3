package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mcoot/cybersnake/internal/model"
	"github.com/mcoot/cybersnake/internal/storage"
)

// Storage is a SQLite-backed implementation of the score store.
// A single connection serialises writers, so every update transaction sees
// the latest committed row.
type Storage struct {
	db  *sql.DB
	cfg Config
}

// New opens (creating if needed) the database at cfg.Path
func New(cfg Config) (*Storage, error) {
	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	pragma := fmt.Sprintf("PRAGMA busy_timeout = %d", cfg.BusyTimeout.Milliseconds())
	if _, err := db.ExecContext(ctx, pragma); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Storage{db: db, cfg: cfg}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	return s.db.Close()
}

// Ensure Storage implements the interface
var _ storage.ScoreStore = (*Storage)(nil)

func (s *Storage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Storage) GetScore(ctx context.Context, name string) (*model.ScoreRecord, error) {
	return scanRecord(s.db.QueryRowContext(ctx, selectScore, name))
}

func (s *Storage) UpdateScore(ctx context.Context, name string, fn storage.UpdateFunc) (*model.ScoreRecord, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	current, err := scanRecord(tx.QueryRowContext(ctx, selectScore, name))
	if err != nil && !errors.Is(err, model.ErrScoreNotFound) {
		return nil, err
	}

	next, err := fn(current)
	if err != nil {
		return nil, err
	}
	if next == nil {
		return current, nil
	}

	stored := *next
	stored.Name = name
	_, err = tx.ExecContext(ctx, upsertScore,
		stored.Name, stored.PasswordHash, stored.BestScore, stored.LastUpdated.UnixNano())
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &stored, nil
}

func (s *Storage) TopScores(ctx context.Context, limit int) ([]*model.ScoreRecord, error) {
	if limit <= 0 {
		limit = -1 // no limit
	}

	rows, err := s.db.QueryContext(ctx, selectTop, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	records := []*model.ScoreRecord{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*model.ScoreRecord, error) {
	var (
		rec     model.ScoreRecord
		updated int64
	)
	if err := row.Scan(&rec.Name, &rec.PasswordHash, &rec.BestScore, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrScoreNotFound
		}
		return nil, err
	}
	rec.LastUpdated = time.Unix(0, updated).UTC()
	return &rec, nil
}
