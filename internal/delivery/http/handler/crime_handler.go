package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/crime-dashboard/internal/dataset"
	"github.com/crime-dashboard/internal/pkg/errors"
	"github.com/crime-dashboard/internal/pkg/utils"
	"github.com/crime-dashboard/internal/pkg/validator"
	"github.com/crime-dashboard/internal/usecase"
	"github.com/crime-dashboard/internal/usecase/dto"
)

// CrimeHandler - обработчик запросов к официальной статистике
type CrimeHandler struct {
	statsUC     *usecase.CrimeStatsUseCase
	dashboardUC *usecase.DashboardUseCase
	logger      *zap.Logger
}

// NewCrimeHandler - создание нового CrimeHandler
func NewCrimeHandler(statsUC *usecase.CrimeStatsUseCase, dashboardUC *usecase.DashboardUseCase, logger *zap.Logger) *CrimeHandler {
	return &CrimeHandler{
		statsUC:     statsUC,
		dashboardUC: dashboardUC,
		logger:      logger,
	}
}

// GetFilters godoc
// @Summary Значения фильтров
// @Description Годы, районы и категории, присутствующие в наборе данных
// @Tags Crime
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=dto.FilterOptions}
// @Failure 503 {object} utils.ErrorResponse
// @Router /api/v1/crime/filters [get]
func (h *CrimeHandler) GetFilters(c *fiber.Ctx) error {
	result, info, err := h.statsUC.GetFilterOptions(c.UserContext())
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, result, datasetMeta(info))
}

// GetCrimeTypes godoc
// @Summary Типы преступлений категории
// @Tags Crime
// @Produce json
// @Param category path string true "Категория"
// @Success 200 {object} utils.SuccessResponse{data=dto.CrimeTypesResponse}
// @Failure 503 {object} utils.ErrorResponse
// @Router /api/v1/crime/categories/{category}/types [get]
func (h *CrimeHandler) GetCrimeTypes(c *fiber.Ctx) error {
	category, err := pathParam(c, "category")
	if err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithMessage("invalid category"))
	}

	result, info, err := h.statsUC.GetCrimeTypes(c.UserContext(), category)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, result, datasetMeta(info))
}

// GetSummary godoc
// @Summary Сводка по фильтру
// @Description Общее число инцидентов, оценочные показатели раскрываемости и отобранные записи. Без фильтров RP SECUNDERABAD и CID не учитываются.
// @Tags Crime
// @Produce json
// @Param year query string false "Год или all"
// @Param district query string false "Район или all"
// @Param category query string false "Категория или all"
// @Param type query string false "Тип преступления или all"
// @Success 200 {object} utils.SuccessResponse{data=dto.SummaryResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 503 {object} utils.ErrorResponse
// @Router /api/v1/crime/summary [get]
func (h *CrimeHandler) GetSummary(c *fiber.Ctx) error {
	filter, err := parseFilter(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	result, info, err := h.statsUC.GetSummary(c.UserContext(), filter)
	if err != nil {
		return utils.SendError(c, err)
	}

	meta := datasetMeta(info)
	meta.Total = len(result.Records)
	return utils.SendSuccess(c, result, meta)
}

// GetTopDistricts godoc
// @Summary Рейтинг районов
// @Tags Crime
// @Produce json
// @Param year query string false "Год или all"
// @Param category query string false "Категория или all"
// @Param type query string false "Тип преступления или all"
// @Param limit query int false "Размер рейтинга" default(10)
// @Success 200 {object} utils.SuccessResponse{data=dto.TopDistrictsResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 503 {object} utils.ErrorResponse
// @Router /api/v1/crime/top-districts [get]
func (h *CrimeHandler) GetTopDistricts(c *fiber.Ctx) error {
	filter, err := parseFilter(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	req := dto.TopDistrictsRequest{FilterState: filter, Limit: c.QueryInt("limit", dataset.DefaultTopN)}
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	result, info, err := h.statsUC.GetTopDistricts(c.UserContext(), filter, req.Limit)
	if err != nil {
		return utils.SendError(c, err)
	}

	meta := datasetMeta(info)
	meta.Total = len(result.Districts)
	meta.Limit = req.Limit
	return utils.SendSuccess(c, result, meta)
}

// GetYearComparison godoc
// @Summary Сравнение с прошлым годом
// @Description Прошлый год восстанавливается из среднего процента изменения
// @Tags Crime
// @Produce json
// @Param year query string false "Год или all"
// @Param district query string false "Район или all"
// @Param category query string false "Категория или all"
// @Param type query string false "Тип преступления или all"
// @Success 200 {object} utils.SuccessResponse{data=dto.YearComparisonResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 503 {object} utils.ErrorResponse
// @Router /api/v1/crime/year-comparison [get]
func (h *CrimeHandler) GetYearComparison(c *fiber.Ctx) error {
	filter, err := parseFilter(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	result, info, err := h.statsUC.GetYearComparison(c.UserContext(), filter)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, result, datasetMeta(info))
}

// GetDistrictRecords godoc
// @Summary Записи района
// @Tags Crime
// @Produce json
// @Param district path string true "Район"
// @Param year query string false "Год или all"
// @Param category query string false "Категория или all"
// @Param type query string false "Тип преступления или all"
// @Success 200 {object} utils.SuccessResponse{data=dto.DistrictRecordsResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 503 {object} utils.ErrorResponse
// @Router /api/v1/crime/districts/{district}/records [get]
func (h *CrimeHandler) GetDistrictRecords(c *fiber.Ctx) error {
	district, err := pathParam(c, "district")
	if err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithMessage("invalid district"))
	}
	filter, err := parseFilter(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	result, info, err := h.statsUC.GetDistrictRecords(c.UserContext(), district, filter)
	if err != nil {
		return utils.SendError(c, err)
	}

	meta := datasetMeta(info)
	meta.Total = len(result.Records)
	return utils.SendSuccess(c, result, meta)
}

// GetMap godoc
// @Summary Районы для карты
// @Description Центры районов с суммой инцидентов и уровнем по легенде
// @Tags Crime
// @Produce json
// @Param year query string false "Год или all"
// @Param category query string false "Категория или all"
// @Param type query string false "Тип преступления или all"
// @Success 200 {object} utils.SuccessResponse{data=dto.MapResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 503 {object} utils.ErrorResponse
// @Router /api/v1/crime/map [get]
func (h *CrimeHandler) GetMap(c *fiber.Ctx) error {
	filter, err := parseFilter(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	result, info, err := h.statsUC.GetMapRegions(c.UserContext(), filter)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, result, datasetMeta(info))
}

// GetSeverityLegend godoc
// @Summary Легенда карты
// @Tags Crime
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=[]domain.Severity}
// @Router /api/v1/crime/severity-legend [get]
func (h *CrimeHandler) GetSeverityLegend(c *fiber.Ctx) error {
	return utils.SendSuccess(c, h.statsUC.GetSeverityLegend(), nil)
}

// GetDashboard godoc
// @Summary Главная страница
// @Description Сводка, топ-10 районов, сравнение по годам и число одобренных сообщений одним запросом
// @Tags Dashboard
// @Produce json
// @Param year query string false "Год или all"
// @Param district query string false "Район или all"
// @Param category query string false "Категория или all"
// @Param type query string false "Тип преступления или all"
// @Success 200 {object} utils.SuccessResponse{data=dto.DashboardResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 503 {object} utils.ErrorResponse
// @Router /api/v1/dashboard [get]
func (h *CrimeHandler) GetDashboard(c *fiber.Ctx) error {
	filter, err := parseFilter(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	result, info, err := h.dashboardUC.GetDashboard(c.UserContext(), filter)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, result, datasetMeta(info))
}

// ReloadDataset godoc
// @Summary Перечитать CSV
// @Description При ошибке продолжает работать прежний снимок, ответ 503 с деталями
// @Tags Admin
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} utils.SuccessResponse{data=dto.DatasetInfo}
// @Failure 401 {object} utils.ErrorResponse
// @Failure 503 {object} utils.ErrorResponse
// @Router /api/v1/admin/dataset/reload [post]
func (h *CrimeHandler) ReloadDataset(c *fiber.Ctx) error {
	info, err := h.statsUC.ReloadDataset(c.UserContext())
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, info, nil)
}
