package service

import (
	"context"
	"sync"
	"time"

	"github.com/aelied/structureality-server/internal/util"

	"github.com/go-redis/redis/v8"
)

// TokenStore 密码重置令牌的存储。令牌一次性使用，过期自动失效。
type TokenStore interface {
	Put(ctx context.Context, token, username string, ttl time.Duration) error
	// Consume 取出并删除令牌对应的用户名。令牌不存在或已过期返回 ErrInvalidResetToken。
	Consume(ctx context.Context, token string) (string, error)
}

const resetKeyPrefix = "reset_token:"

// RedisTokenStore 基于 Redis 的令牌存储，TTL 由 Redis 过期机制保证
type RedisTokenStore struct {
	Client *redis.Client
}

func NewRedisTokenStore(client *redis.Client) *RedisTokenStore {
	return &RedisTokenStore{Client: client}
}

func (s *RedisTokenStore) Put(ctx context.Context, token, username string, ttl time.Duration) error {
	return s.Client.Set(ctx, resetKeyPrefix+token, username, ttl).Err()
}

func (s *RedisTokenStore) Consume(ctx context.Context, token string) (string, error) {
	key := resetKeyPrefix + token
	username, err := s.Client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", util.ErrInvalidResetToken
	}
	if err != nil {
		return "", err
	}
	if err := s.Client.Del(ctx, key).Err(); err != nil {
		return "", err
	}
	return username, nil
}

type memoryToken struct {
	username  string
	expiresAt time.Time
}

// MemoryTokenStore 进程内令牌存储，单实例部署或测试用。
// 过期条目由后台定时任务调用 Sweep 清理。
type MemoryTokenStore struct {
	mu     sync.Mutex
	tokens map[string]memoryToken
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{tokens: make(map[string]memoryToken)}
}

func (s *MemoryTokenStore) Put(_ context.Context, token, username string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = memoryToken{
		username:  username,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

func (s *MemoryTokenStore) Consume(_ context.Context, token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.tokens[token]
	if !ok || time.Now().After(entry.expiresAt) {
		delete(s.tokens, token)
		return "", util.ErrInvalidResetToken
	}
	delete(s.tokens, token)
	return entry.username, nil
}

// Sweep 清理过期令牌，返回清理数量
func (s *MemoryTokenStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	removed := 0
	for token, entry := range s.tokens {
		if now.After(entry.expiresAt) {
			delete(s.tokens, token)
			removed++
		}
	}
	return removed
}
