package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/crime-dashboard/internal/catalog"
	"github.com/crime-dashboard/internal/domain"
	"github.com/crime-dashboard/internal/pkg/errors"
	"github.com/crime-dashboard/internal/pkg/utils"
	"github.com/crime-dashboard/internal/pkg/validator"
	"github.com/crime-dashboard/internal/usecase/dto"
)

// CatalogHandler отдаёт справочники для формы сообщения
type CatalogHandler struct {
	catalog *catalog.Catalog
	logger  *zap.Logger
}

func NewCatalogHandler(cat *catalog.Catalog, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: cat, logger: logger}
}

// GetCatalog godoc
// @Summary Справочник формы сообщения
// @Description Категории с типами преступлений и районы с координатами центров
// @Tags Catalog
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=dto.CatalogResponse}
// @Router /api/v1/catalog [get]
func (h *CatalogHandler) GetCatalog(c *fiber.Ctx) error {
	return utils.SendSuccess(c, dto.CatalogResponse{
		Categories: h.catalog.Categories(),
		Districts:  h.catalog.Districts(),
	}, nil)
}

// GetNearestDistrict godoc
// @Summary Ближайший район
// @Description Подставляет район в форму по клику на карте
// @Tags Catalog
// @Produce json
// @Param lat query number true "Широта"
// @Param lng query number true "Долгота"
// @Success 200 {object} utils.SuccessResponse{data=catalog.DistrictMatch}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/districts/nearest [get]
func (h *CatalogHandler) GetNearestDistrict(c *fiber.Ctx) error {
	if c.Query("lat") == "" || c.Query("lng") == "" {
		return utils.SendError(c, errors.ErrInvalidCoordinates.WithMessage("lat and lng are required"))
	}

	var req dto.NearestDistrictRequest
	if err := c.QueryParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidCoordinates)
	}
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidCoordinates.WithDetails(map[string]interface{}{
			"lat": req.Lat,
			"lng": req.Lng,
		}))
	}

	point := domain.GeoPoint{Lat: req.Lat, Lng: req.Lng}
	if !h.catalog.Contains(point) {
		return utils.SendError(c, errors.ErrLocationOutOfRange)
	}

	return utils.SendSuccess(c, h.catalog.NearestDistrict(point), nil)
}
