package domain

import (
	"time"

	"github.com/google/uuid"
)

// ReportStatus - статус модерации неофициального сообщения
type ReportStatus string

const (
	ReportStatusPending  ReportStatus = "pending"
	ReportStatusApproved ReportStatus = "approved"
	ReportStatusRejected ReportStatus = "rejected"
)

// IsValid проверяет, что статус из известного набора
func (s ReportStatus) IsValid() bool {
	switch s {
	case ReportStatusPending, ReportStatusApproved, ReportStatusRejected:
		return true
	}
	return false
}

// CanTransitionTo - модерация возможна только из pending в approved или rejected
func (s ReportStatus) CanTransitionTo(next ReportStatus) bool {
	if s != ReportStatusPending {
		return false
	}
	return next == ReportStatusApproved || next == ReportStatusRejected
}

// GeoPoint - координаты в градусах
type GeoPoint struct {
	Lat float64 `json:"lat" db:"lat"`
	Lng float64 `json:"lng" db:"lng"`
}

// UnofficialReport - сообщение о преступлении от гражданина
type UnofficialReport struct {
	ID            uuid.UUID    `json:"id"`
	CrimeCategory string       `json:"crime_category"`
	CrimeType     string       `json:"crime_type"`
	District      string       `json:"district"`
	Description   string       `json:"description"`
	Location      GeoPoint     `json:"location"`
	ExactLocation string       `json:"exact_location"`
	Email         *string      `json:"email,omitempty"`
	IsAnonymous   bool         `json:"is_anonymous"`
	Status        ReportStatus `json:"status"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// ReportListFilter - параметры выборки сообщений
type ReportListFilter struct {
	Status   *ReportStatus
	District string
	Limit    int
	Offset   int
}

// ModerationSummary - количество сообщений по статусам
type ModerationSummary struct {
	Pending   int       `json:"pending"`
	Approved  int       `json:"approved"`
	Rejected  int       `json:"rejected"`
	Total     int       `json:"total"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewModerationSummary собирает сводку из счётчиков по статусам
func NewModerationSummary(counts map[ReportStatus]int, now time.Time) *ModerationSummary {
	s := &ModerationSummary{
		Pending:   counts[ReportStatusPending],
		Approved:  counts[ReportStatusApproved],
		Rejected:  counts[ReportStatusRejected],
		UpdatedAt: now,
	}
	s.Total = s.Pending + s.Approved + s.Rejected
	return s
}
