package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/cybersnake/internal/model"
	"github.com/mcoot/cybersnake/internal/storage"
	"github.com/mcoot/cybersnake/internal/storage/storagetest"
)

func newTestStorage(t *testing.T) *Storage {
	cfg := DefaultConfig()
	cfg.Path = filepath.Join(t.TempDir(), "scores.db")
	s, err := New(cfg)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	return s
}

func TestContract(t *testing.T) {
	suite.Run(t, &storagetest.ContractSuite{
		NewStore: func(t *testing.T) storage.ScoreStore { return newTestStorage(t) },
	})
}

type StorageSuite struct {
	suite.Suite
	ctx context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.ctx = context.Background()
}

func (s *StorageSuite) TestDataSurvivesReopen() {
	cfg := DefaultConfig()
	cfg.Path = filepath.Join(s.T().TempDir(), "scores.db")
	at := time.Date(2024, 1, 1, 12, 0, 0, 123456789, time.UTC)

	first, err := New(cfg)
	s.Require().NoError(err)
	_, err = first.UpdateScore(s.ctx, "fox", func(*model.ScoreRecord) (*model.ScoreRecord, error) {
		return &model.ScoreRecord{Name: "fox", PasswordHash: "h", BestScore: 50, LastUpdated: at}, nil
	})
	s.Require().NoError(err)
	s.Require().NoError(first.Close())

	second, err := New(cfg)
	s.Require().NoError(err)
	defer func() { _ = second.Close() }()

	rec, err := second.GetScore(s.ctx, "fox")
	s.Require().NoError(err)
	s.Equal(50, rec.BestScore)
	s.True(rec.LastUpdated.Equal(at))
}

func (s *StorageSuite) TestInMemoryDatabase() {
	cfg := DefaultConfig()
	cfg.Path = ":memory:"

	store, err := New(cfg)
	s.Require().NoError(err)
	defer func() { _ = store.Close() }()

	top, err := store.TopScores(s.ctx, 10)
	s.Require().NoError(err)
	s.Empty(top)
}

func (s *StorageSuite) TestClosedDatabaseFailsPing() {
	store := newTestStorage(s.T())
	s.Require().NoError(store.Close())
	s.Error(store.Ping(s.ctx))
}
