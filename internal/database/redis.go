package database

import (
	"fmt"
	"sync"

	"mferp/pkg/config"

	"github.com/go-redis/redis/v8"
)

var (
	redisClient *redis.Client
	redisOnce   sync.Once
)

// GetRedisClient 获取Redis客户端的单例实例（令牌吊销名单使用）
func GetRedisClient() *redis.Client {
	redisOnce.Do(func() {
		cfg := config.GetConfig()
		redisClient = redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	})
	return redisClient
}

// SetRedisClient 注入Redis客户端（测试用）
func SetRedisClient(client *redis.Client) {
	redisOnce.Do(func() {})
	redisClient = client
}

// CloseRedis 关闭Redis连接
func CloseRedis() error {
	if redisClient != nil {
		return redisClient.Close()
	}
	return nil
}
