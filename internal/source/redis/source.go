package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rawen554/userdir/internal/models"
	"github.com/redis/go-redis/v9"
)

var (
	ErrKeyNotFound     = errors.New("users key not found")
	ErrUnsupportedType = errors.New("unsupported users key type")
)

// RedisSource reads users from one key: a string holding a JSON array, or a
// list holding one JSON object per element. It never writes.
type RedisSource struct {
	client *redis.Client
	key    string
}

func NewRedisSource(url string, key string) (*RedisSource, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("error parsing redis url: %w", err)
	}

	return &RedisSource{client: redis.NewClient(opts), key: key}, nil
}

func (s *RedisSource) Fetch(ctx context.Context) ([]models.User, error) {
	kind, err := s.client.Type(ctx, s.key).Result()
	if err != nil {
		return nil, fmt.Errorf("error reading type of %s: %w", s.key, err)
	}

	switch kind {
	case "none":
		return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, s.key)
	case "string":
		b, err := s.client.Get(ctx, s.key).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, s.key)
		} else if err != nil {
			return nil, fmt.Errorf("error reading %s: %w", s.key, err)
		}
		var users []models.User
		if err := json.Unmarshal(b, &users); err != nil {
			return nil, fmt.Errorf("error decode users: %w", err)
		}
		return users, nil
	case "list":
		items, err := s.client.LRange(ctx, s.key, 0, -1).Result()
		if err != nil {
			return nil, fmt.Errorf("error reading %s: %w", s.key, err)
		}
		users := make([]models.User, 0, len(items))
		for i, item := range items {
			var u models.User
			if err := json.Unmarshal([]byte(item), &u); err != nil {
				return nil, fmt.Errorf("error decode user at index %d: %w", i, err)
			}
			users = append(users, u)
		}
		return users, nil
	default:
		return nil, fmt.Errorf("%w: %s is a %s", ErrUnsupportedType, s.key, kind)
	}
}

func (s *RedisSource) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisSource) Close() {
	_ = s.client.Close()
}
