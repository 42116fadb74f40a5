package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/crime-dashboard/internal/domain"
)

// ErrNotFound возвращается, когда запись не найдена или условие обновления не выполнилось
var ErrNotFound = errors.New("record not found")

// ReportRepository - хранилище неофициальных сообщений
type ReportRepository interface {
	// Create сохраняет сообщение; ID, CreatedAt и UpdatedAt заполняются базой
	Create(ctx context.Context, report *domain.UnofficialReport) error

	// GetByID возвращает сообщение или ErrNotFound
	GetByID(ctx context.Context, id uuid.UUID) (*domain.UnofficialReport, error)

	// List возвращает сообщения по фильтру, новые первыми
	List(ctx context.Context, filter domain.ReportListFilter) ([]domain.UnofficialReport, error)

	// UpdateStatus меняет статус, только если текущий равен from; иначе ErrNotFound
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.ReportStatus) (*domain.UnofficialReport, error)

	// CountByStatus считает сообщения по статусам
	CountByStatus(ctx context.Context) (map[domain.ReportStatus]int, error)
}
