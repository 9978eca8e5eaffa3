package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/cybersnake/internal/model"
	"github.com/mcoot/cybersnake/internal/storage"
)

// Storage is a Redis-backed implementation of the score store.
// Each record is a JSON string; a sorted set indexes names by best score.
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.ScoreStore = (*Storage)(nil)

func (s *Storage) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Storage) GetScore(ctx context.Context, name string) (*model.ScoreRecord, error) {
	return getRecord(ctx, s.client, name)
}

// UpdateScore watches the record key and commits the decision in a
// MULTI/EXEC block, retrying when another writer got there first
func (s *Storage) UpdateScore(ctx context.Context, name string, fn storage.UpdateFunc) (*model.ScoreRecord, error) {
	key := scoreKey(name)
	var result *model.ScoreRecord

	txf := func(tx *redis.Tx) error {
		current, err := getRecord(ctx, tx, name)
		if err != nil && !errors.Is(err, model.ErrScoreNotFound) {
			return err
		}

		next, err := fn(current)
		if err != nil {
			return err
		}
		if next == nil {
			result = current
			return nil
		}

		stored := *next
		stored.Name = name
		data, err := json.Marshal(&stored)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			pipe.ZAdd(ctx, leaderboardKey(), redis.Z{
				Score:  float64(stored.BestScore),
				Member: name,
			})
			return nil
		})
		if err != nil {
			return err
		}
		result = &stored
		return nil
	}

	retries := max(s.cfg.MaxTxRetries, 1)
	for range retries {
		err := s.client.Watch(ctx, txf, key)
		if err == nil {
			return result, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return nil, err
	}
	return nil, fmt.Errorf("%w: %s after %d attempts", model.ErrStoreConflict, name, retries)
}

// TopScores reads the best names from the sorted set, widened to include
// everyone tied with the last place, then applies the full ordering
func (s *Storage) TopScores(ctx context.Context, limit int) ([]*model.ScoreRecord, error) {
	var names []string
	if limit <= 0 {
		all, err := s.client.ZRevRange(ctx, leaderboardKey(), 0, -1).Result()
		if err != nil {
			return nil, err
		}
		names = all
	} else {
		top, err := s.client.ZRevRangeWithScores(ctx, leaderboardKey(), 0, int64(limit-1)).Result()
		if err != nil {
			return nil, err
		}
		if len(top) < limit {
			for _, z := range top {
				names = append(names, z.Member.(string))
			}
		} else {
			cutoff := strconv.FormatFloat(top[len(top)-1].Score, 'f', -1, 64)
			names, err = s.client.ZRangeByScore(ctx, leaderboardKey(), &redis.ZRangeBy{
				Min: cutoff,
				Max: "+inf",
			}).Result()
			if err != nil {
				return nil, err
			}
		}
	}

	if len(names) == 0 {
		return []*model.ScoreRecord{}, nil
	}

	keys := make([]string, len(names))
	for i, name := range names {
		keys[i] = scoreKey(name)
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	records := make([]*model.ScoreRecord, 0, len(values))
	for _, v := range values {
		str, ok := v.(string)
		if !ok {
			continue // index entry without a record
		}
		var rec model.ScoreRecord
		if err := json.Unmarshal([]byte(str), &rec); err != nil {
			return nil, err
		}
		records = append(records, &rec)
	}

	return model.SortLeaderboard(records, limit), nil
}

// getter is satisfied by both the client and a watched transaction
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func getRecord(ctx context.Context, c getter, name string) (*model.ScoreRecord, error) {
	data, err := c.Get(ctx, scoreKey(name)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrScoreNotFound
		}
		return nil, err
	}

	var rec model.ScoreRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}
