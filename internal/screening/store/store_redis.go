package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"dossier/internal/screening"
)

// RedisStore keeps screening results as JSON values with a TTL, for
// deployments where downstream scorers read verdicts out-of-band shortly
// after evaluation.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func resultKey(clientID string) string {
	return "screening:result:" + clientID
}

func (s *RedisStore) Save(ctx context.Context, result screening.Result) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal screening result: %w", err)
	}
	if err := s.client.Set(ctx, resultKey(result.ClientID), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("save screening result: %w", err)
	}
	return nil
}

func (s *RedisStore) FindByClient(ctx context.Context, clientID string) (*screening.Result, error) {
	payload, err := s.client.Get(ctx, resultKey(clientID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find screening result: %w", err)
	}
	var result screening.Result
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, fmt.Errorf("unmarshal screening result: %w", err)
	}
	return &result, nil
}
