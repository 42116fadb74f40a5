package redis

import (
	"context"

	"github.com/crime-dashboard/internal/domain"
	"github.com/crime-dashboard/internal/domain/repository"
)

type eventPublisher struct {
	streams repository.StreamRepository
	stream  string
}

// NewEventPublisher публикует события сообщений в domain.StreamReportEvents
func NewEventPublisher(streams repository.StreamRepository) repository.EventPublisher {
	return &eventPublisher{streams: streams, stream: domain.StreamReportEvents}
}

func (p *eventPublisher) PublishReportEvent(ctx context.Context, event domain.ReportEvent) error {
	return p.streams.PublishToStream(ctx, p.stream, event)
}
