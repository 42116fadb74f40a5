package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/crime-dashboard/internal/domain"
	"github.com/crime-dashboard/internal/domain/repository"
)

// Ключи кеша
const (
	KeyApprovedReports   = "reports:approved"
	KeyModerationSummary = "reports:moderation:summary"
)

type cacheRepository struct {
	client *redis.Client
	logger *zap.Logger
}

func NewCacheRepository(redis *Redis) repository.CacheRepository {
	return &cacheRepository{
		client: redis.Client(),
		logger: redis.logger,
	}
}

func (r *cacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil // Cache miss
	}
	if err != nil {
		r.logger.Error("Failed to get from cache", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("cache get error: %w", err)
	}

	r.logger.Debug("Cache hit", zap.String("key", key))
	return val, nil
}

func (r *cacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		r.logger.Error("Failed to set cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache set error: %w", err)
	}

	r.logger.Debug("Cache set", zap.String("key", key), zap.Duration("ttl", ttl))
	return nil
}

func (r *cacheRepository) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		r.logger.Error("Failed to delete from cache", zap.Strings("keys", keys), zap.Error(err))
		return fmt.Errorf("cache delete error: %w", err)
	}

	r.logger.Debug("Cache deleted", zap.Strings("keys", keys))
	return nil
}

func (r *cacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	val, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		r.logger.Error("Failed to check cache existence", zap.String("key", key), zap.Error(err))
		return false, fmt.Errorf("cache exists error: %w", err)
	}

	return val > 0, nil
}

// GetApprovedReports получает ленту одобренных сообщений из кеша
func (r *cacheRepository) GetApprovedReports(ctx context.Context) ([]domain.UnofficialReport, error) {
	data, err := r.Get(ctx, KeyApprovedReports)
	if err != nil || data == nil {
		return nil, err
	}

	var reports []domain.UnofficialReport
	if err := json.Unmarshal(data, &reports); err != nil {
		r.logger.Error("Failed to unmarshal approved reports from cache", zap.Error(err))
		return nil, fmt.Errorf("unmarshal approved reports: %w", err)
	}
	if reports == nil {
		reports = []domain.UnofficialReport{}
	}

	return reports, nil
}

func (r *cacheRepository) SetApprovedReports(ctx context.Context, reports []domain.UnofficialReport, ttl time.Duration) error {
	if reports == nil {
		reports = []domain.UnofficialReport{}
	}
	data, err := json.Marshal(reports)
	if err != nil {
		return fmt.Errorf("marshal approved reports: %w", err)
	}

	return r.Set(ctx, KeyApprovedReports, data, ttl)
}

// GetModerationSummary получает сводку модерации из кеша
func (r *cacheRepository) GetModerationSummary(ctx context.Context) (*domain.ModerationSummary, error) {
	data, err := r.Get(ctx, KeyModerationSummary)
	if err != nil || data == nil {
		return nil, err
	}

	var summary domain.ModerationSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		r.logger.Error("Failed to unmarshal moderation summary from cache", zap.Error(err))
		return nil, fmt.Errorf("unmarshal moderation summary: %w", err)
	}

	return &summary, nil
}

func (r *cacheRepository) SetModerationSummary(ctx context.Context, summary *domain.ModerationSummary, ttl time.Duration) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("marshal moderation summary: %w", err)
	}

	return r.Set(ctx, KeyModerationSummary, data, ttl)
}

func (r *cacheRepository) InvalidateReports(ctx context.Context) error {
	return r.Delete(ctx, KeyApprovedReports, KeyModerationSummary)
}
