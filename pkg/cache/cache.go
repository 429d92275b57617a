package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache TTLs
const (
	TTLMemorial = 1 * time.Minute  // public memorial pages, refreshed often
	TTLTributes = 2 * time.Minute  // approved tribute lists
	TTLDefault  = 5 * time.Minute
)

// Cache key prefixes
const (
	PrefixMemorial = "memorial:"
	PrefixTributes = "tributes:"
)

// ErrCacheMiss is returned when a key does not exist
var ErrCacheMiss = redis.Nil

// Service Redis cache for public memorial pages
type Service interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error

	GetMemorial(ctx context.Context, id string, dest interface{}) error
	SetMemorial(ctx context.Context, id string, data interface{}) error
	InvalidateMemorial(ctx context.Context, id string) error
}

type service struct {
	client *redis.Client
}

// NewService creates a new cache service
func NewService(client *redis.Client) Service {
	return &service{client: client}
}

func (s *service) Get(ctx context.Context, key string, dest interface{}) error {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

func (s *service) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal: %w", err)
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}

func (s *service) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.client.Del(ctx, keys...).Err()
}

func (s *service) GetMemorial(ctx context.Context, id string, dest interface{}) error {
	return s.Get(ctx, PrefixMemorial+id, dest)
}

func (s *service) SetMemorial(ctx context.Context, id string, data interface{}) error {
	return s.Set(ctx, PrefixMemorial+id, data, TTLMemorial)
}

func (s *service) InvalidateMemorial(ctx context.Context, id string) error {
	return s.Delete(ctx, PrefixMemorial+id, PrefixTributes+id)
}
