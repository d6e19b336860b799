package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mazewars/mazewars-go/internal/archive"
	"github.com/mazewars/mazewars-go/internal/model"
)

// Store is a Redis-backed implementation of the archive
type Store struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis archive
func New(cfg Config) (*Store, error) {
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

	return &Store{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis archive with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Store {
	return &Store{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Store) Close() error {
	return s.client.Close()
}

// Ensure Store implements the interface
var _ archive.Store = (*Store)(nil)

func (s *Store) SaveMatch(ctx context.Context, summary model.MatchSummary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return err
	}

	key := matchKey(summary.ID)
	indexKey := matchIndexKey()

	// Use pipeline for atomic save + index update
	pipe := s.client.Pipeline()
	pipe.Set(ctx, key, data, s.cfg.MatchTTL)
	pipe.ZAdd(ctx, indexKey, redis.Z{
		Score:  float64(summary.EndedAt.UnixMilli()),
		Member: key,
	})
	pipe.Expire(ctx, indexKey, s.cfg.MatchTTL) // Keep index TTL in sync
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Store) GetMatch(ctx context.Context, id model.MatchID) (model.MatchSummary, error) {
	data, err := s.client.Get(ctx, matchKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return model.MatchSummary{}, model.ErrMatchNotFound
		}
		return model.MatchSummary{}, err
	}

	var summary model.MatchSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return model.MatchSummary{}, err
	}
	return summary, nil
}

func (s *Store) ListMatches(ctx context.Context) ([]model.MatchSummary, error) {
	// Most recent first by end time
	matchKeys, err := s.client.ZRevRange(ctx, matchIndexKey(), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	if len(matchKeys) == 0 {
		return []model.MatchSummary{}, nil
	}

	values, err := s.client.MGet(ctx, matchKeys...).Result()
	if err != nil {
		return nil, err
	}

	summaries := make([]model.MatchSummary, 0, len(values))
	for _, val := range values {
		if val == nil {
			continue // Match may have expired
		}
		var summary model.MatchSummary
		if err := json.Unmarshal([]byte(val.(string)), &summary); err != nil {
			continue // Skip invalid data
		}
		summaries = append(summaries, summary)
	}

	return summaries, nil
}
