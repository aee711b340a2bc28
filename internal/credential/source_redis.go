package credential

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisKey is used when no key is configured.
const DefaultRedisKey = "yushan:session:credential"

// RedisSource 使用 Redis 保存会话凭证，TTL 跟随过期时间。
type RedisSource struct {
	client redis.UniversalClient
	key    string
	now    func() time.Time
}

// NewRedisSource wraps an existing client.
func NewRedisSource(client redis.UniversalClient, key string) *RedisSource {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisSource{client: client, key: key, now: time.Now}
}

// RedisOptions is the subset of connection settings exposed in config.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Key      string
}

// DialRedisSource connects and pings before returning.
func DialRedisSource(ctx context.Context, opts RedisOptions) (*RedisSource, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", opts.Addr, err)
	}
	return NewRedisSource(client, opts.Key), nil
}

func (s *RedisSource) Name() string { return "redis:" + s.key }

func (s *RedisSource) Load(ctx context.Context) (*Credential, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get credential: %w", err)
	}
	var cred Credential
	if err := json.Unmarshal(data, &cred); err != nil {
		return nil, fmt.Errorf("parse redis credential: %w", err)
	}
	return &cred, nil
}

// Save writes the credential. The key lives until the access token expires,
// or indefinitely when the refresh token could still renew it.
func (s *RedisSource) Save(ctx context.Context, cred Credential) error {
	data, err := json.Marshal(cred)
	if err != nil {
		return fmt.Errorf("marshal credential: %w", err)
	}
	var ttl time.Duration
	if cred.RefreshToken == "" && !cred.ExpiresAt.IsZero() {
		ttl = cred.ExpiresAt.Sub(s.now())
		if ttl <= 0 {
			return s.Clear(ctx)
		}
	}
	if err := s.client.Set(ctx, s.key, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set credential: %w", err)
	}
	return nil
}

func (s *RedisSource) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("redis delete credential: %w", err)
	}
	return nil
}

// Close releases the underlying client.
func (s *RedisSource) Close() error {
	return s.client.Close()
}
