package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/nurse_mentorship/internal/model"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	versionKey = "assessments:version"
	defaultTTL = 5 * time.Minute
)

// AssessmentCache кеш публичного списка тестов в Redis.
// Ключи содержат версию, инвалидация - инкремент версии, старые ключи истекают по TTL.
type AssessmentCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisClient создаёт клиента по REDIS_URL: redis://... или host:port
func NewRedisClient(redisURL string) (*redis.Client, error) {
	if strings.Contains(redisURL, "://") {
		opts, err := redis.ParseURL(redisURL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		return redis.NewClient(opts), nil
	}

	return redis.NewClient(&redis.Options{
		Addr: redisURL,
		DB:   0,
	}), nil
}

func NewAssessmentCache(client *redis.Client, logger *zap.Logger) *AssessmentCache {
	return &AssessmentCache{
		client: client,
		ttl:    defaultTTL,
		logger: logger,
	}
}

func (c *AssessmentCache) version(ctx context.Context) (string, error) {
	v, err := c.client.Get(ctx, versionKey).Result()
	if err == redis.Nil {
		return "0", nil
	}
	return v, err
}

func (c *AssessmentCache) key(version, key string) string {
	return "assessments:v" + version + ":" + key
}

// Get возвращает закешированный список. Любая ошибка Redis - промах.
func (c *AssessmentCache) Get(ctx context.Context, key string) ([]*model.PublicAssessment, bool) {
	version, err := c.version(ctx)
	if err != nil {
		c.logger.Warn("Redis version lookup failed", zap.Error(err))
		return nil, false
	}

	raw, err := c.client.Get(ctx, c.key(version, key)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("Redis get failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}

	var items []*model.PublicAssessment
	if err := json.Unmarshal(raw, &items); err != nil {
		c.logger.Warn("Corrupted cache entry", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return items, true
}

// Set сохраняет список под текущей версией
func (c *AssessmentCache) Set(ctx context.Context, key string, items []*model.PublicAssessment) {
	version, err := c.version(ctx)
	if err != nil {
		c.logger.Warn("Redis version lookup failed", zap.Error(err))
		return
	}

	raw, err := json.Marshal(items)
	if err != nil {
		c.logger.Error("Failed to encode assessments for cache", zap.Error(err))
		return
	}

	if err := c.client.Set(ctx, c.key(version, key), raw, c.ttl).Err(); err != nil {
		c.logger.Warn("Redis set failed", zap.String("key", key), zap.Error(err))
	}
}

// Invalidate делает все записи устаревшими
func (c *AssessmentCache) Invalidate(ctx context.Context) {
	if err := c.client.Incr(ctx, versionKey).Err(); err != nil {
		c.logger.Warn("Redis invalidate failed", zap.Error(err))
	}
}
