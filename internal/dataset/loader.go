package dataset

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/crime-dashboard/internal/domain"
)

// ErrUnavailable - CSV не загрузился, а синтетические данные запрещены
var ErrUnavailable = stderrors.New("dataset unavailable")

// Snapshot - загруженный набор записей. После загрузки не меняется.
type Snapshot struct {
	Records   []domain.DistrictCrimeRecord
	Source    string
	Synthetic bool
	LoadedAt  time.Time
}

// Loader загружает CSV один раз и отдаёт закешированный снимок
type Loader struct {
	source         Source
	allowSynthetic bool
	seed           int64
	logger         *zap.Logger
	now            func() time.Time

	mu       sync.RWMutex
	snapshot *Snapshot
}

// LoaderOption настраивает Loader
type LoaderOption func(*Loader)

// WithSyntheticFallback разрешает подставлять синтетические данные при ошибке загрузки
func WithSyntheticFallback(seed int64) LoaderOption {
	return func(l *Loader) {
		l.allowSynthetic = true
		l.seed = seed
	}
}

// WithClock подменяет источник времени (для тестов)
func WithClock(now func() time.Time) LoaderOption {
	return func(l *Loader) {
		l.now = now
	}
}

func NewLoader(source Source, logger *zap.Logger, opts ...LoaderOption) *Loader {
	l := &Loader{
		source: source,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load возвращает снимок, загружая его при первом вызове.
// Неудачная загрузка без разрешённого fallback не кешируется, следующий вызов повторит попытку.
func (l *Loader) Load(ctx context.Context) (*Snapshot, error) {
	l.mu.RLock()
	snap := l.snapshot
	l.mu.RUnlock()
	if snap != nil {
		return snap, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.snapshot != nil {
		return l.snapshot, nil
	}

	snap, err := l.fetch(ctx)
	if err != nil {
		// Отмена запроса не считается отказом источника и не закрепляет синтетику
		if !l.allowSynthetic || ctx.Err() != nil {
			return nil, err
		}
		l.logger.Warn("Dataset load failed, serving synthetic data",
			zap.String("source", l.source.String()),
			zap.Error(err))
		snap = l.synthetic()
	}

	l.snapshot = snap
	return snap, nil
}

// Reload принудительно перечитывает CSV.
// При ошибке остаётся предыдущий снимок, а ошибка возвращается вызывающему.
func (l *Loader) Reload(ctx context.Context) (*Snapshot, error) {
	snap, err := l.fetch(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()

	if err != nil {
		if l.snapshot != nil {
			l.logger.Warn("Dataset reload failed, keeping previous snapshot",
				zap.String("source", l.source.String()),
				zap.Bool("previous_synthetic", l.snapshot.Synthetic),
				zap.Error(err))
			return l.snapshot, err
		}
		if !l.allowSynthetic || ctx.Err() != nil {
			return nil, err
		}
		l.snapshot = l.synthetic()
		return l.snapshot, err
	}

	l.snapshot = snap
	return snap, nil
}

func (l *Loader) fetch(ctx context.Context) (*Snapshot, error) {
	started := l.now()

	rc, err := l.source.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer rc.Close()

	records, err := Parse(rc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no records in %s", ErrUnavailable, l.source.String())
	}

	l.logger.Info("Dataset loaded",
		zap.String("source", l.source.String()),
		zap.Int("records", len(records)),
		zap.Duration("took", l.now().Sub(started)))

	return &Snapshot{
		Records:  records,
		Source:   l.source.String(),
		LoadedAt: l.now(),
	}, nil
}

func (l *Loader) synthetic() *Snapshot {
	return &Snapshot{
		Records:   Synthetic(l.seed),
		Source:    "synthetic",
		Synthetic: true,
		LoadedAt:  l.now(),
	}
}
