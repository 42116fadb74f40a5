package repository

import (
	"context"
	"time"

	"github.com/crime-dashboard/internal/domain"
)

// CacheRepository определяет методы для работы с кешем
type CacheRepository interface {
	// Get получает значение из кеша по ключу
	Get(ctx context.Context, key string) ([]byte, error)

	// Set сохраняет значение в кеше с TTL
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete удаляет значения из кеша
	Delete(ctx context.Context, keys ...string) error

	// Exists проверяет существование ключа
	Exists(ctx context.Context, key string) (bool, error)

	// GetApprovedReports получает список одобренных сообщений; nil, nil - промах
	GetApprovedReports(ctx context.Context) ([]domain.UnofficialReport, error)

	// SetApprovedReports сохраняет список одобренных сообщений
	SetApprovedReports(ctx context.Context, reports []domain.UnofficialReport, ttl time.Duration) error

	// GetModerationSummary получает сводку модерации; nil, nil - промах
	GetModerationSummary(ctx context.Context) (*domain.ModerationSummary, error)

	// SetModerationSummary сохраняет сводку модерации
	SetModerationSummary(ctx context.Context, summary *domain.ModerationSummary, ttl time.Duration) error

	// InvalidateReports сбрасывает все ключи, зависящие от сообщений
	InvalidateReports(ctx context.Context) error
}

// QueryCache - локальный кеш результатов агрегаций в памяти процесса
type QueryCache interface {
	Get(key string) (interface{}, bool)
	Set(key string, value interface{})
	Flush()
}
