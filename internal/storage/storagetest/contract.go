// Package storagetest holds the behaviour every ScoreStore must share
package storagetest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/cybersnake/internal/model"
	"github.com/mcoot/cybersnake/internal/storage"
)

var baseTime = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

// ContractSuite runs the shared ScoreStore tests against NewStore
type ContractSuite struct {
	suite.Suite

	// NewStore returns an empty store; t is the running subtest
	NewStore func(t *testing.T) storage.ScoreStore

	store storage.ScoreStore
	ctx   context.Context
}

func (s *ContractSuite) SetupTest() {
	s.store = s.NewStore(s.T())
	s.ctx = context.Background()
}

func (s *ContractSuite) TearDownTest() {
	if s.store != nil {
		_ = s.store.Close()
	}
}

// put writes a record unconditionally
func (s *ContractSuite) put(name string, score int, at time.Time) *model.ScoreRecord {
	rec, err := s.store.UpdateScore(s.ctx, name, func(*model.ScoreRecord) (*model.ScoreRecord, error) {
		return &model.ScoreRecord{Name: name, PasswordHash: "hash-" + name, BestScore: score, LastUpdated: at}, nil
	})
	s.Require().NoError(err)
	return rec
}

func (s *ContractSuite) names(records []*model.ScoreRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Name
	}
	return out
}

func (s *ContractSuite) TestPing() {
	s.NoError(s.store.Ping(s.ctx))
}

func (s *ContractSuite) TestGetScoreNotFound() {
	_, err := s.store.GetScore(s.ctx, "nobody")
	s.ErrorIs(err, model.ErrScoreNotFound)
}

func (s *ContractSuite) TestUpdateScoreCreates() {
	var seen *model.ScoreRecord
	called := false

	rec, err := s.store.UpdateScore(s.ctx, "fox", func(current *model.ScoreRecord) (*model.ScoreRecord, error) {
		called = true
		seen = current
		return &model.ScoreRecord{Name: "fox", PasswordHash: "h", BestScore: 50, LastUpdated: baseTime}, nil
	})
	s.Require().NoError(err)
	s.True(called)
	s.Nil(seen)
	s.Equal("fox", rec.Name)
	s.Equal(50, rec.BestScore)

	stored, err := s.store.GetScore(s.ctx, "fox")
	s.Require().NoError(err)
	s.Equal("fox", stored.Name)
	s.Equal("h", stored.PasswordHash)
	s.Equal(50, stored.BestScore)
	s.True(stored.LastUpdated.Equal(baseTime))
}

func (s *ContractSuite) TestUpdateScoreSeesCurrent() {
	s.put("fox", 50, baseTime)

	var seen *model.ScoreRecord
	_, err := s.store.UpdateScore(s.ctx, "fox", func(current *model.ScoreRecord) (*model.ScoreRecord, error) {
		seen = current
		return nil, nil
	})
	s.Require().NoError(err)
	s.Require().NotNil(seen)
	s.Equal(50, seen.BestScore)
	s.Equal("hash-fox", seen.PasswordHash)
}

func (s *ContractSuite) TestUpdateScoreNilDecisionKeepsRecord() {
	s.put("fox", 50, baseTime)

	rec, err := s.store.UpdateScore(s.ctx, "fox", func(*model.ScoreRecord) (*model.ScoreRecord, error) {
		return nil, nil
	})
	s.Require().NoError(err)
	s.Require().NotNil(rec)
	s.Equal(50, rec.BestScore)

	stored, err := s.store.GetScore(s.ctx, "fox")
	s.Require().NoError(err)
	s.Equal(50, stored.BestScore)
}

func (s *ContractSuite) TestUpdateScoreNilDecisionOnMissingWritesNothing() {
	rec, err := s.store.UpdateScore(s.ctx, "fox", func(*model.ScoreRecord) (*model.ScoreRecord, error) {
		return nil, nil
	})
	s.Require().NoError(err)
	s.Nil(rec)

	_, err = s.store.GetScore(s.ctx, "fox")
	s.ErrorIs(err, model.ErrScoreNotFound)
}

func (s *ContractSuite) TestUpdateScoreErrorAborts() {
	s.put("fox", 50, baseTime)
	boom := errors.New("boom")

	_, err := s.store.UpdateScore(s.ctx, "fox", func(*model.ScoreRecord) (*model.ScoreRecord, error) {
		return nil, boom
	})
	s.ErrorIs(err, boom)

	stored, err := s.store.GetScore(s.ctx, "fox")
	s.Require().NoError(err)
	s.Equal(50, stored.BestScore)
}

func (s *ContractSuite) TestUpdateScoreKeysByName() {
	rec, err := s.store.UpdateScore(s.ctx, "fox", func(*model.ScoreRecord) (*model.ScoreRecord, error) {
		return &model.ScoreRecord{Name: "impostor", PasswordHash: "h", BestScore: 1, LastUpdated: baseTime}, nil
	})
	s.Require().NoError(err)
	s.Equal("fox", rec.Name)

	_, err = s.store.GetScore(s.ctx, "impostor")
	s.ErrorIs(err, model.ErrScoreNotFound)
}

func (s *ContractSuite) TestUpdateScoreOverwrites() {
	s.put("fox", 50, baseTime)
	s.put("fox", 80, baseTime.Add(time.Minute))

	stored, err := s.store.GetScore(s.ctx, "fox")
	s.Require().NoError(err)
	s.Equal(80, stored.BestScore)
	s.True(stored.LastUpdated.Equal(baseTime.Add(time.Minute)))

	top, err := s.store.TopScores(s.ctx, 10)
	s.Require().NoError(err)
	s.Equal([]string{"fox"}, s.names(top))
}

func (s *ContractSuite) TestTopScoresEmpty() {
	top, err := s.store.TopScores(s.ctx, 10)
	s.Require().NoError(err)
	s.Empty(top)
}

func (s *ContractSuite) TestTopScoresOrdering() {
	s.put("ant", 30, baseTime)
	s.put("bee", 90, baseTime)
	s.put("cat", 60, baseTime.Add(2*time.Second))
	s.put("dog", 60, baseTime.Add(time.Second))
	s.put("eel", 60, baseTime.Add(time.Second))

	top, err := s.store.TopScores(s.ctx, 10)
	s.Require().NoError(err)
	s.Equal([]string{"bee", "dog", "eel", "cat", "ant"}, s.names(top))
	s.Equal(90, top[0].BestScore)
}

func (s *ContractSuite) TestTopScoresLimit() {
	for i := range 15 {
		s.put(fmt.Sprintf("player%02d", i), i*10, baseTime)
	}

	top, err := s.store.TopScores(s.ctx, 10)
	s.Require().NoError(err)
	s.Len(top, 10)
	s.Equal("player14", top[0].Name)
	s.Equal("player05", top[9].Name)

	all, err := s.store.TopScores(s.ctx, 0)
	s.Require().NoError(err)
	s.Len(all, 15)
}

func (s *ContractSuite) TestTopScoresTiesAtCutoff() {
	s.put("zed", 100, baseTime)
	s.put("yak", 50, baseTime.Add(3*time.Second))
	s.put("xen", 50, baseTime.Add(time.Second))
	s.put("wol", 50, baseTime.Add(2*time.Second))

	top, err := s.store.TopScores(s.ctx, 3)
	s.Require().NoError(err)
	s.Equal([]string{"zed", "xen", "wol"}, s.names(top))
}

func (s *ContractSuite) TestConcurrentUpdatesAreSerialised() {
	const writers = 20
	var wg sync.WaitGroup
	errs := make(chan error, writers)

	for range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.store.UpdateScore(s.ctx, "fox", func(current *model.ScoreRecord) (*model.ScoreRecord, error) {
				next := &model.ScoreRecord{Name: "fox", PasswordHash: "h", BestScore: 1, LastUpdated: baseTime}
				if current != nil {
					next.BestScore = current.BestScore + 1
				}
				return next, nil
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		s.Require().NoError(err)
	}

	stored, err := s.store.GetScore(s.ctx, "fox")
	s.Require().NoError(err)
	s.Equal(writers, stored.BestScore)
}

func (s *ContractSuite) TestConcurrentBestScoreWins() {
	const writers = 20
	var wg sync.WaitGroup

	for i := 1; i <= writers; i++ {
		wg.Add(1)
		go func(score int) {
			defer wg.Done()
			_, err := s.store.UpdateScore(s.ctx, "fox", func(current *model.ScoreRecord) (*model.ScoreRecord, error) {
				if current != nil && current.BestScore >= score {
					return nil, nil
				}
				return &model.ScoreRecord{Name: "fox", PasswordHash: "h", BestScore: score, LastUpdated: baseTime}, nil
			})
			s.NoError(err)
		}(i * 10)
	}
	wg.Wait()

	stored, err := s.store.GetScore(s.ctx, "fox")
	s.Require().NoError(err)
	s.Equal(writers*10, stored.BestScore)

	top, err := s.store.TopScores(s.ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(top, 1)
	s.Equal(writers*10, top[0].BestScore)
}
