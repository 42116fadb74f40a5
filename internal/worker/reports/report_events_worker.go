package reports

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/crime-dashboard/internal/domain"
	"github.com/crime-dashboard/internal/domain/repository"
	"github.com/crime-dashboard/internal/worker"
)

const retryBackoff = 200 * time.Millisecond

// SummaryRefresher пересчитывает сводку модерации
type SummaryRefresher interface {
	RefreshSummary(ctx context.Context) (*domain.ModerationSummary, error)
}

// ReportEventsWorker реагирует на изменения сообщений: сбрасывает кеш ленты
// и пересчитывает сводку модерации.
type ReportEventsWorker struct {
	*worker.BaseWorker
	streamRepo repository.StreamRepository
	cacheRepo  repository.CacheRepository
	summary    SummaryRefresher
	maxRetries int
	backoff    time.Duration
}

// NewReportEventsWorker создает ReportEventsWorker
func NewReportEventsWorker(
	streamRepo repository.StreamRepository,
	cacheRepo repository.CacheRepository,
	summary SummaryRefresher,
	consumerGroup string,
	maxRetries int,
	logger *zap.Logger,
) *ReportEventsWorker {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &ReportEventsWorker{
		BaseWorker: worker.NewBaseWorker("report-events", consumerGroup, logger),
		streamRepo: streamRepo,
		cacheRepo:  cacheRepo,
		summary:    summary,
		maxRetries: maxRetries,
		backoff:    retryBackoff,
	}
}

// Start читает стрим событий до Stop или отмены контекста
func (w *ReportEventsWorker) Start(ctx context.Context) error {
	logger := w.Logger()
	logger.Info("Starting ReportEventsWorker",
		zap.String("stream", domain.StreamReportEvents),
		zap.String("consumer_group", w.ConsumerGroup()),
		zap.String("consumer_name", w.ConsumerName()),
		zap.Int("max_retries", w.maxRetries))

	if err := w.streamRepo.CreateConsumerGroup(ctx, domain.StreamReportEvents, w.ConsumerGroup()); err != nil {
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	// Stop тоже должен прерывать блокирующее чтение стрима
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-w.StopChan():
			cancel()
		case <-ctx.Done():
		}
	}()

	messages, err := w.streamRepo.ConsumeStream(ctx, domain.StreamReportEvents, w.ConsumerGroup(), w.ConsumerName())
	if err != nil {
		return fmt.Errorf("failed to consume stream: %w", err)
	}

	for {
		select {
		case <-w.StopChan():
			logger.Info("Worker stopped")
			return nil
		case <-ctx.Done():
			if w.IsStopped() {
				logger.Info("Worker stopped")
				return nil
			}
			logger.Info("Context cancelled")
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				logger.Info("Stream closed")
				return nil
			}
			w.handleMessage(ctx, msg)
		}
	}
}

// handleMessage обрабатывает одно сообщение и всегда его подтверждает:
// битые сообщения и исчерпавшие попытки не должны застревать в pending.
func (w *ReportEventsWorker) handleMessage(ctx context.Context, msg domain.StreamMessage) {
	logger := w.Logger().With(zap.String("message_id", msg.ID))

	event, err := parseEvent(msg)
	if err != nil {
		logger.Warn("Failed to parse message, skipping", zap.Error(err))
		w.ack(ctx, msg.ID)
		return
	}

	logger = logger.With(
		zap.String("type", string(event.Type)),
		zap.String("report_id", event.ReportID.String()))

	var lastErr error
	for attempt := 0; attempt <= w.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(w.backoff * time.Duration(attempt)):
			case <-ctx.Done():
				return
			}
		}

		if lastErr = w.process(ctx); lastErr == nil {
			break
		}
		logger.Warn("Failed to process report event",
			zap.Int("attempt", attempt+1),
			zap.Error(lastErr))
	}

	if lastErr != nil {
		logger.Error("Report event dropped after retries",
			zap.Int("attempts", w.maxRetries+1),
			zap.Error(lastErr))
	} else {
		logger.Debug("Report event processed")
	}

	w.ack(ctx, msg.ID)
}

func (w *ReportEventsWorker) process(ctx context.Context) error {
	if err := w.cacheRepo.InvalidateReports(ctx); err != nil {
		return fmt.Errorf("invalidate reports cache: %w", err)
	}
	if _, err := w.summary.RefreshSummary(ctx); err != nil {
		return fmt.Errorf("refresh moderation summary: %w", err)
	}
	return nil
}

func (w *ReportEventsWorker) ack(ctx context.Context, id string) {
	if err := w.streamRepo.AckMessage(ctx, domain.StreamReportEvents, w.ConsumerGroup(), id); err != nil {
		w.Logger().Error("Failed to ack message", zap.String("message_id", id), zap.Error(err))
	}
}

func parseEvent(msg domain.StreamMessage) (*domain.ReportEvent, error) {
	var event domain.ReportEvent
	if err := json.Unmarshal([]byte(msg.Data), &event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}
	if event.ReportID == uuid.Nil {
		return nil, fmt.Errorf("event has no report_id")
	}
	switch event.Type {
	case domain.ReportEventCreated, domain.ReportEventStatusChanged:
	default:
		return nil, fmt.Errorf("unknown event type %q", event.Type)
	}
	return &event, nil
}
