package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/crime-dashboard/internal/pkg/errors"
	"github.com/crime-dashboard/internal/pkg/utils"
	"github.com/crime-dashboard/internal/usecase"
	"github.com/crime-dashboard/internal/usecase/dto"
)

// ReportHandler - приём и модерация неофициальных сообщений
type ReportHandler struct {
	reportUC     *usecase.ReportUseCase
	moderationUC *usecase.ModerationStatsUseCase
	logger       *zap.Logger
}

func NewReportHandler(reportUC *usecase.ReportUseCase, moderationUC *usecase.ModerationStatsUseCase, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{
		reportUC:     reportUC,
		moderationUC: moderationUC,
		logger:       logger,
	}
}

// Create godoc
// @Summary Отправить сообщение о преступлении
// @Description Анонимные сообщения сохраняются без email. Новое сообщение ждёт модерации.
// @Tags Reports
// @Accept json
// @Produce json
// @Param request body dto.CreateReportRequest true "Сообщение"
// @Success 201 {object} utils.SuccessResponse{data=dto.ReportResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/reports [post]
func (h *ReportHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateReportRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithMessage("Invalid request body"))
	}

	result, err := h.reportUC.Create(c.UserContext(), req)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendCreated(c, result)
}

// ListApproved godoc
// @Summary Одобренные сообщения
// @Tags Reports
// @Produce json
// @Param district query string false "Район"
// @Param limit query int false "Размер страницы" default(20)
// @Param offset query int false "Смещение" default(0)
// @Success 200 {object} utils.SuccessResponse{data=dto.ReportListResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/reports [get]
func (h *ReportHandler) ListApproved(c *fiber.Ctx) error {
	var req dto.ListReportsRequest
	if err := c.QueryParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithMessage(err.Error()))
	}
	req.Status = ""

	result, err := h.reportUC.ListApproved(c.UserContext(), req)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, result, &utils.Meta{
		Total:  len(result.Reports),
		Limit:  result.Limit,
		Offset: result.Offset,
	})
}

// GetApproved godoc
// @Summary Одобренное сообщение
// @Tags Reports
// @Produce json
// @Param id path string true "ID сообщения"
// @Success 200 {object} utils.SuccessResponse{data=dto.ReportResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/reports/{id} [get]
func (h *ReportHandler) GetApproved(c *fiber.Ctx) error {
	id, err := parseReportID(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.reportUC.GetApproved(c.UserContext(), id)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, result, nil)
}

// AdminList godoc
// @Summary Сообщения для модерации
// @Tags Admin
// @Produce json
// @Security ApiKeyAuth
// @Param status query string false "pending, approved или rejected"
// @Param district query string false "Район"
// @Param limit query int false "Размер страницы" default(20)
// @Param offset query int false "Смещение" default(0)
// @Success 200 {object} utils.SuccessResponse{data=dto.AdminReportListResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Router /api/v1/admin/reports [get]
func (h *ReportHandler) AdminList(c *fiber.Ctx) error {
	var req dto.ListReportsRequest
	if err := c.QueryParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithMessage(err.Error()))
	}

	result, err := h.reportUC.List(c.UserContext(), req)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, result, &utils.Meta{
		Total:  len(result.Reports),
		Limit:  result.Limit,
		Offset: result.Offset,
	})
}

// AdminGet godoc
// @Summary Сообщение в любом статусе
// @Tags Admin
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "ID сообщения"
// @Success 200 {object} utils.SuccessResponse{data=dto.AdminReportResponse}
// @Failure 401 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/admin/reports/{id} [get]
func (h *ReportHandler) AdminGet(c *fiber.Ctx) error {
	id, err := parseReportID(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.reportUC.GetByID(c.UserContext(), id)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, result, nil)
}

// UpdateStatus godoc
// @Summary Модерация сообщения
// @Description Допустим только переход из pending в approved или rejected
// @Tags Admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "ID сообщения"
// @Param request body dto.UpdateReportStatusRequest true "Новый статус"
// @Success 200 {object} utils.SuccessResponse{data=dto.AdminReportResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Router /api/v1/admin/reports/{id}/status [patch]
func (h *ReportHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := parseReportID(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	var req dto.UpdateReportStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithMessage("Invalid request body"))
	}

	result, err := h.reportUC.UpdateStatus(c.UserContext(), id, req)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, result, nil)
}

// GetModerationSummary godoc
// @Summary Сводка модерации
// @Tags Admin
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} utils.SuccessResponse{data=domain.ModerationSummary}
// @Failure 401 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/admin/reports/summary [get]
func (h *ReportHandler) GetModerationSummary(c *fiber.Ctx) error {
	summary, err := h.moderationUC.GetSummary(c.UserContext())
	if err != nil {
		h.logger.Error("Failed to get moderation summary", zap.Error(err))
		return utils.SendError(c, errors.ErrDatabaseError)
	}
	return utils.SendSuccess(c, summary, nil)
}
