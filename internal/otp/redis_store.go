package otp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "otp:challenge:"

// RedisStore keeps challenges in Redis so multiple instances can share one
// challenge set. Key TTL handles the expired-but-never-verified cleanup the
// memory backend needs a janitor for.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, mobile string) (Challenge, bool, error) {
	raw, err := s.client.Get(ctx, redisKeyPrefix+mobile).Bytes()
	if err == redis.Nil {
		return Challenge{}, false, nil
	}
	if err != nil {
		return Challenge{}, false, fmt.Errorf("redis get: %w", err)
	}

	var ch Challenge
	if err := json.Unmarshal(raw, &ch); err != nil {
		return Challenge{}, false, fmt.Errorf("redis decode: %w", err)
	}
	return ch, true, nil
}

func (s *RedisStore) Put(ctx context.Context, mobile string, ch Challenge) error {
	raw, err := json.Marshal(ch)
	if err != nil {
		return fmt.Errorf("redis encode: %w", err)
	}

	// Keep the key a minute past logical expiry so verification can still
	// distinguish "expired" from "never requested".
	ttl := time.Until(ch.ExpiresAt) + time.Minute
	if ttl <= 0 {
		ttl = time.Minute
	}
	if err := s.client.Set(ctx, redisKeyPrefix+mobile, raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, mobile string) error {
	if err := s.client.Del(ctx, redisKeyPrefix+mobile).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (s *RedisStore) Len(ctx context.Context) (int, error) {
	var count int
	iter := s.client.Scan(ctx, 0, redisKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		count++
	}
	if err := iter.Err(); err != nil {
		return 0, fmt.Errorf("redis scan: %w", err)
	}
	return count, nil
}
