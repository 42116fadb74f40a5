package usecase

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/crime-dashboard/internal/domain"
	"github.com/crime-dashboard/internal/domain/repository"
)

// ModerationStatsUseCase считает сообщения по статусам модерации
type ModerationStatsUseCase struct {
	statsRepo repository.StatsRepository
	cacheRepo repository.CacheRepository
	ttl       time.Duration
	logger    *zap.Logger
	now       func() time.Time
}

// NewModerationStatsUseCase создает новый экземпляр ModerationStatsUseCase
func NewModerationStatsUseCase(
	statsRepo repository.StatsRepository,
	cacheRepo repository.CacheRepository,
	ttl time.Duration,
	logger *zap.Logger,
) *ModerationStatsUseCase {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &ModerationStatsUseCase{
		statsRepo: statsRepo,
		cacheRepo: cacheRepo,
		ttl:       ttl,
		logger:    logger,
		now:       time.Now,
	}
}

// GetSummary возвращает сводку, используя кеш когда возможно
func (uc *ModerationStatsUseCase) GetSummary(ctx context.Context) (*domain.ModerationSummary, error) {
	// 1. Проверяем кеш
	cached, err := uc.cacheRepo.GetModerationSummary(ctx)
	if err == nil && cached != nil {
		uc.logger.Debug("Moderation summary fetched from cache")
		return cached, nil
	}
	if err != nil {
		uc.logger.Warn("Failed to get moderation summary from cache", zap.Error(err))
	}

	// 2. Считаем в БД и кешируем
	return uc.compute(ctx)
}

// RefreshSummary принудительно пересчитывает сводку
func (uc *ModerationStatsUseCase) RefreshSummary(ctx context.Context) (*domain.ModerationSummary, error) {
	uc.logger.Debug("Refreshing moderation summary")
	return uc.compute(ctx)
}

func (uc *ModerationStatsUseCase) compute(ctx context.Context) (*domain.ModerationSummary, error) {
	counts, err := uc.statsRepo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("count reports by status: %w", err)
	}

	summary := domain.NewModerationSummary(counts, uc.now().UTC())

	if err := uc.cacheRepo.SetModerationSummary(ctx, summary, uc.ttl); err != nil {
		// Не возвращаем ошибку, т.к. данные уже получены
		uc.logger.Warn("Failed to cache moderation summary", zap.Error(err))
	}

	return summary, nil
}
