package worker

import (
	"context"
)

// Worker - фоновый обработчик, которым управляет WorkerManager.
// Start блокирует до остановки воркера или отмены контекста.
type Worker interface {
	Start(ctx context.Context) error
	Stop() error
	Name() string
}
