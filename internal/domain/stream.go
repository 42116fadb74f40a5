package domain

import (
	"time"

	"github.com/google/uuid"
)

// Stream names
const (
	StreamReportEvents = "stream:reports:events"
)

// ReportEventType - тип изменения сообщения
type ReportEventType string

const (
	ReportEventCreated       ReportEventType = "created"
	ReportEventStatusChanged ReportEventType = "status_changed"
)

// ReportEvent - уведомление об изменении в таблице сообщений
type ReportEvent struct {
	Type       ReportEventType `json:"type"`
	ReportID   uuid.UUID       `json:"report_id"`
	District   string          `json:"district"`
	Status     ReportStatus    `json:"status"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// NewReportEvent строит событие по текущему состоянию сообщения
func NewReportEvent(eventType ReportEventType, report *UnofficialReport, now time.Time) ReportEvent {
	return ReportEvent{
		Type:       eventType,
		ReportID:   report.ID,
		District:   report.District,
		Status:     report.Status,
		OccurredAt: now,
	}
}

// StreamMessage - сообщение из Redis Stream
type StreamMessage struct {
	ID   string
	Data string
}
