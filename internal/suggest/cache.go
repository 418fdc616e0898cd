package suggest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache は提案結果のキャッシュインターフェース。
type Cache interface {
	// Get はプロンプトに対応するキャッシュ済み提案JSONを返す。
	// キャッシュミスの場合は("", false, nil)を返す。
	Get(ctx context.Context, prompt string) (string, bool, error)

	// Set はプロンプトに対応する提案JSONをTTL付きで保存する。
	Set(ctx context.Context, prompt string, payload string, ttl time.Duration) error
}

// RedisCache はRedisを使用したCacheの実装。
// キーはプロンプトのSHA-256ハッシュで、プロンプト本文をRedisに残さない。
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache は接続URLからRedisCacheを生成する。
// 初期化時にPINGで接続を確認する。
func NewRedisCache(redisURL string) (*RedisCache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("RedisのURLが不正です: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("Redisへの接続に失敗しました: %w", err)
	}

	return &RedisCache{client: client}, nil
}

var _ Cache = (*RedisCache)(nil)

// cacheKey はプロンプトからキャッシュキーを導出する。
func cacheKey(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return "suggest:" + hex.EncodeToString(sum[:])
}

// Get はプロンプトに対応するキャッシュ済み提案JSONを返す。
func (c *RedisCache) Get(ctx context.Context, prompt string) (string, bool, error) {
	val, err := c.client.Get(ctx, cacheKey(prompt)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("キャッシュの取得に失敗しました: %w", err)
	}
	return val, true, nil
}

// Set はプロンプトに対応する提案JSONをTTL付きで保存する。
func (c *RedisCache) Set(ctx context.Context, prompt string, payload string, ttl time.Duration) error {
	if err := c.client.Set(ctx, cacheKey(prompt), payload, ttl).Err(); err != nil {
		return fmt.Errorf("キャッシュの保存に失敗しました: %w", err)
	}
	return nil
}

// Close はRedis接続を閉じる。
func (c *RedisCache) Close() error {
	return c.client.Close()
}
