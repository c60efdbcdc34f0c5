package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisStore держит контексты в Redis; срок жизни задаёт TTL ключа.
type RedisStore struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

func NewRedisStore(addr, password string, db int) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	return &RedisStore{
		client:    client,
		keyPrefix: "intickets:ai-context:",
		ttl:       ContextTTL,
	}
}

func (s *RedisStore) key(userID int64) (string, error) {
	if userID == 0 {
		return "", fmt.Errorf("%w: userID is empty", ErrInvalidParam)
	}
	return s.keyPrefix + strconv.FormatInt(userID, 10), nil
}

func (s *RedisStore) Get(ctx context.Context, userID int64) (*UserContext, error) {
	key, err := s.key(userID)
	if err != nil {
		return nil, err
	}

	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}

	var uc UserContext
	if err := json.Unmarshal(data, &uc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return &uc, nil
}

// Save сохраняет контекст с TTL, отсчитанным от его CreatedAt.
func (s *RedisStore) Save(ctx context.Context, userID int64, uc UserContext) error {
	key, err := s.key(userID)
	if err != nil {
		return err
	}

	ttl := s.ttl
	if !uc.CreatedAt.IsZero() {
		ttl -= time.Since(uc.CreatedAt)
	}
	if ttl <= 0 {
		return s.client.Del(ctx, key).Err()
	}

	data, err := json.Marshal(uc)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}

func (s *RedisStore) Delete(ctx context.Context, userID int64) error {
	key, err := s.key(userID)
	if err != nil {
		return err
	}
	return s.client.Del(ctx, key).Err()
}

// PurgeExpired ничего не делает: истёкшие ключи удаляет сам Redis.
func (s *RedisStore) PurgeExpired(context.Context, time.Time) {}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
