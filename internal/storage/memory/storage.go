package memory

import (
	"context"
	"sync"

	"github.com/mcoot/cybersnake/internal/model"
	"github.com/mcoot/cybersnake/internal/storage"
)

// Storage is an in-memory implementation of the score store
type Storage struct {
	mu     sync.RWMutex
	scores map[string]*model.ScoreRecord

	locks *keyLocks
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		scores: make(map[string]*model.ScoreRecord),
		locks:  newKeyLocks(),
	}
}

// Ensure Storage implements the interface
var _ storage.ScoreStore = (*Storage)(nil)

func (s *Storage) GetScore(ctx context.Context, name string) (*model.ScoreRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.scores[name]
	if !ok {
		return nil, model.ErrScoreNotFound
	}
	return copyRecord(rec), nil
}

func (s *Storage) UpdateScore(ctx context.Context, name string, fn storage.UpdateFunc) (*model.ScoreRecord, error) {
	unlock := s.locks.lock(name)
	defer unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	var current *model.ScoreRecord
	if rec, ok := s.scores[name]; ok {
		current = copyRecord(rec)
	}
	s.mu.RUnlock()

	next, err := fn(current)
	if err != nil {
		return nil, err
	}
	if next == nil {
		return current, nil
	}

	stored := copyRecord(next)
	stored.Name = name

	s.mu.Lock()
	s.scores[name] = stored
	s.mu.Unlock()

	return copyRecord(stored), nil
}

func (s *Storage) TopScores(ctx context.Context, limit int) ([]*model.ScoreRecord, error) {
	s.mu.RLock()
	records := make([]*model.ScoreRecord, 0, len(s.scores))
	for _, rec := range s.scores {
		records = append(records, copyRecord(rec))
	}
	s.mu.RUnlock()

	return model.SortLeaderboard(records, limit), nil
}

func (s *Storage) Ping(ctx context.Context) error {
	return nil
}

func (s *Storage) Close() error {
	return nil
}

func copyRecord(rec *model.ScoreRecord) *model.ScoreRecord {
	c := *rec
	return &c
}
