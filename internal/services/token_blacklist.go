package services

import (
	"context"
	"fmt"
	"time"

	"mferp/internal/database"
	"mferp/pkg/config"

	"github.com/go-redis/redis/v8"
)

// TokenBlacklistService 登出令牌吊销名单
// 登出时按jti写入，TTL取令牌剩余有效期，到期自动清除
type TokenBlacklistService struct {
	client *redis.Client
	prefix string
}

func NewTokenBlacklistService() *TokenBlacklistService {
	cfg := config.GetConfig()
	return &TokenBlacklistService{
		client: database.GetRedisClient(),
		prefix: cfg.Redis.Prefix,
	}
}

// NewTokenBlacklistServiceWithClient 指定客户端创建（测试用）
func NewTokenBlacklistServiceWithClient(client *redis.Client, prefix string) *TokenBlacklistService {
	return &TokenBlacklistService{client: client, prefix: prefix}
}

func (s *TokenBlacklistService) key(jti string) string {
	return fmt.Sprintf("%s:revoked:%s", s.prefix, jti)
}

// Revoke 吊销令牌
func (s *TokenBlacklistService) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		// 已过期的令牌无需入名单
		return nil
	}
	return s.client.Set(ctx, s.key(jti), 1, ttl).Err()
}

// IsRevoked 检查令牌是否已吊销
func (s *TokenBlacklistService) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := s.client.Exists(ctx, s.key(jti)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
