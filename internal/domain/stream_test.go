package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReportEvent(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	report := &UnofficialReport{
		ID:       uuid.New(),
		District: "Khammam",
		Status:   ReportStatusApproved,
	}

	event := NewReportEvent(ReportEventStatusChanged, report, now)

	assert.Equal(t, ReportEventStatusChanged, event.Type)
	assert.Equal(t, report.ID, event.ReportID)
	assert.Equal(t, "Khammam", event.District)
	assert.Equal(t, ReportStatusApproved, event.Status)
	assert.Equal(t, now, event.OccurredAt)
}

func TestReportEvent_WireFormat(t *testing.T) {
	id := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	event := ReportEvent{
		Type:       ReportEventCreated,
		ReportID:   id,
		District:   "Hyderabad",
		Status:     ReportStatusPending,
		OccurredAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	data, err := json.Marshal(event)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"type": "created",
		"report_id": "11111111-1111-1111-1111-111111111111",
		"district": "Hyderabad",
		"status": "pending",
		"occurred_at": "2024-03-01T12:00:00Z"
	}`, string(data))
}
