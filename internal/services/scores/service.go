package scores

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/cybersnake/internal/dependencies/clock"
	"github.com/mcoot/cybersnake/internal/model"
	"github.com/mcoot/cybersnake/internal/storage"
)

// LeaderboardNotifier is told about the fresh leaderboard after a
// submission changed a record
type LeaderboardNotifier interface {
	LeaderboardChanged(ctx context.Context, entries []*model.ScoreRecord)
}

// Config holds configuration for the score service
type Config struct {
	BcryptCost      int
	LeaderboardSize int
}

// DefaultConfig returns default score service configuration
func DefaultConfig() Config {
	return Config{
		BcryptCost:      bcrypt.DefaultCost,
		LeaderboardSize: model.LeaderboardSize,
	}
}

// Service authenticates players by name and password and keeps each
// name's best score
type Service struct {
	store    storage.ScoreStore
	clock    clock.Clock
	cfg      Config
	notifier LeaderboardNotifier
	logger   *slog.Logger

	// notifyMu orders leaderboard reads with their notifications so
	// subscribers never see an older table after a newer one
	notifyMu sync.Mutex
}

// New creates a new score Service
func New(store storage.ScoreStore, clk clock.Clock, logger *slog.Logger, cfg Config) *Service {
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = DefaultConfig().BcryptCost
	}
	if cfg.LeaderboardSize <= 0 {
		cfg.LeaderboardSize = DefaultConfig().LeaderboardSize
	}
	return &Service{
		store:  store,
		clock:  clk,
		cfg:    cfg,
		logger: logger.With(slog.String("component", "score-service")),
	}
}

// SetNotifier registers the listener for leaderboard changes
func (s *Service) SetNotifier(n LeaderboardNotifier) {
	s.notifier = n
}

// CheckName reports whether name is free, owned by this password, or owned
// by someone else. The answer is advisory; SubmitScore decides again.
func (s *Service) CheckName(ctx context.Context, name, password string) (model.CheckResult, error) {
	name = NormalizeName(name)
	if err := ValidateCredential(name, password); err != nil {
		return "", err
	}

	rec, err := s.store.GetScore(ctx, name)
	if err != nil {
		if errors.Is(err, model.ErrScoreNotFound) {
			return model.CheckAvailable, nil
		}
		return "", err
	}

	if !passwordMatches(rec, password) {
		return model.CheckRejected, nil
	}
	return model.CheckAuthenticated, nil
}

// SubmitScore records score for name if it beats the stored best. The
// first submission claims the name for password; later ones must match.
// It returns the stored record, which is unchanged when score is not higher.
func (s *Service) SubmitScore(ctx context.Context, name, password string, score int) (*model.ScoreRecord, error) {
	name = NormalizeName(name)
	if err := ValidateCredential(name, password); err != nil {
		return nil, err
	}
	if err := ValidateScore(score); err != nil {
		return nil, err
	}

	changed := false
	var hash string

	rec, err := s.store.UpdateScore(ctx, name, func(current *model.ScoreRecord) (*model.ScoreRecord, error) {
		changed = false

		if current != nil {
			if !passwordMatches(current, password) {
				return nil, model.ErrCredentialMismatch
			}
			if score <= current.BestScore {
				return nil, nil
			}
			next := *current
			next.BestScore = score
			next.LastUpdated = s.clock.Now()
			changed = true
			return &next, nil
		}

		if hash == "" {
			h, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
			if err != nil {
				return nil, err
			}
			hash = string(h)
		}
		changed = true
		return &model.ScoreRecord{
			Name:         name,
			PasswordHash: hash,
			BestScore:    score,
			LastUpdated:  s.clock.Now(),
		}, nil
	})
	if err != nil {
		if errors.Is(err, model.ErrCredentialMismatch) {
			s.logger.Info("score rejected",
				slog.String("name", name),
				slog.String("reason", "credential mismatch"),
			)
		}
		return nil, err
	}

	s.logger.Info("score submitted",
		slog.String("name", name),
		slog.Int("score", score),
		slog.Int("best", rec.BestScore),
		slog.Bool("improved", changed),
	)

	if changed && s.notifier != nil {
		s.notifyLeaderboard(ctx)
	}

	return rec, nil
}

// Leaderboard returns the top records by best score
func (s *Service) Leaderboard(ctx context.Context) ([]*model.ScoreRecord, error) {
	return s.store.TopScores(ctx, s.cfg.LeaderboardSize)
}

// Ping checks the backing store
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func (s *Service) notifyLeaderboard(ctx context.Context) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	entries, err := s.Leaderboard(ctx)
	if err != nil {
		s.logger.Warn("failed to load leaderboard for notification", slog.Any("error", err))
		return
	}
	s.notifier.LeaderboardChanged(ctx, entries)
}

func passwordMatches(rec *model.ScoreRecord, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(rec.PasswordHash), []byte(password)) == nil
}
