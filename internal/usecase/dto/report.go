package dto

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/crime-dashboard/internal/domain"
	pkgvalidator "github.com/crime-dashboard/internal/pkg/validator"
)

func init() {
	pkgvalidator.GetValidator().RegisterStructValidation(validateReportContact, CreateReportRequest{})
}

// LocationRequest - координаты точки на карте
type LocationRequest struct {
	Lat float64 `json:"lat" validate:"min=-90,max=90"`
	Lng float64 `json:"lng" validate:"min=-180,max=180"`
}

// CreateReportRequest - форма неофициального сообщения
type CreateReportRequest struct {
	CrimeCategory string          `json:"crime_category" validate:"required"`
	CrimeType     string          `json:"crime_type" validate:"required"`
	District      string          `json:"district" validate:"required"`
	Description   string          `json:"description" validate:"required,min=10,max=5000"`
	Location      LocationRequest `json:"location"`
	ExactLocation string          `json:"exact_location" validate:"required,max=500"`
	Email         string          `json:"email" validate:"omitempty,email,max=254"`
	IsAnonymous   bool            `json:"is_anonymous"`
}

// validateReportContact: без анонимности нужен email для обратной связи
func validateReportContact(sl validator.StructLevel) {
	req := sl.Current().Interface().(CreateReportRequest)
	if !req.IsAnonymous && strings.TrimSpace(req.Email) == "" {
		sl.ReportError(req.Email, "email", "Email", "required_unless_anonymous", "")
	}
}

// UpdateReportStatusRequest - решение модератора
type UpdateReportStatusRequest struct {
	Status domain.ReportStatus `json:"status" validate:"required,oneof=approved rejected"`
}

// ListReportsRequest - параметры списка сообщений
type ListReportsRequest struct {
	Status   string `query:"status" validate:"omitempty,oneof=pending approved rejected"`
	District string `query:"district"`
	Limit    int    `query:"limit" validate:"omitempty,min=1,max=100"`
	Offset   int    `query:"offset" validate:"omitempty,min=0"`
}

// ReportResponse - сообщение для публичной ленты.
// Email не отдаётся никогда.
type ReportResponse struct {
	ID            uuid.UUID           `json:"id"`
	CrimeCategory string              `json:"crime_category"`
	CrimeType     string              `json:"crime_type"`
	District      string              `json:"district"`
	Description   string              `json:"description"`
	Location      domain.GeoPoint     `json:"location"`
	ExactLocation string              `json:"exact_location"`
	IsAnonymous   bool                `json:"is_anonymous"`
	Status        domain.ReportStatus `json:"status"`
	CreatedAt     time.Time           `json:"created_at"`
}

// AdminReportResponse - сообщение для модератора, с контактом
type AdminReportResponse struct {
	ReportResponse
	Email     *string   `json:"email,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ReportListResponse - страница сообщений
type ReportListResponse struct {
	Reports []ReportResponse `json:"reports"`
	Limit   int              `json:"limit"`
	Offset  int              `json:"offset"`
}

// AdminReportListResponse - страница сообщений для модератора
type AdminReportListResponse struct {
	Reports []AdminReportResponse `json:"reports"`
	Limit   int                   `json:"limit"`
	Offset  int                   `json:"offset"`
}

func NewReportResponse(r *domain.UnofficialReport) ReportResponse {
	return ReportResponse{
		ID:            r.ID,
		CrimeCategory: r.CrimeCategory,
		CrimeType:     r.CrimeType,
		District:      r.District,
		Description:   r.Description,
		Location:      r.Location,
		ExactLocation: r.ExactLocation,
		IsAnonymous:   r.IsAnonymous,
		Status:        r.Status,
		CreatedAt:     r.CreatedAt,
	}
}

func NewAdminReportResponse(r *domain.UnofficialReport) AdminReportResponse {
	return AdminReportResponse{
		ReportResponse: NewReportResponse(r),
		Email:          r.Email,
		UpdatedAt:      r.UpdatedAt,
	}
}
