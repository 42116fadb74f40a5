package repository

import (
	"context"

	"github.com/crime-dashboard/internal/domain"
)

// StatsRepository интерфейс для получения счётчиков модерации.
// Реализуется хранилищем сообщений.
type StatsRepository interface {
	// CountByStatus считает сообщения по статусам
	CountByStatus(ctx context.Context) (map[domain.ReportStatus]int, error)
}
