package handler

import (
	"net/url"

	"github.com/gofiber/fiber/v2"
	fiberutils "github.com/gofiber/fiber/v2/utils"
	"github.com/google/uuid"

	"github.com/crime-dashboard/internal/domain"
	"github.com/crime-dashboard/internal/pkg/errors"
	"github.com/crime-dashboard/internal/pkg/utils"
	"github.com/crime-dashboard/internal/usecase/dto"
)

// datasetMeta переносит сведения о снимке в meta ответа
func datasetMeta(info *dto.DatasetInfo) *utils.Meta {
	if info == nil {
		return nil
	}
	return &utils.Meta{Dataset: &utils.DatasetMeta{
		Source:    info.Source,
		Records:   info.Records,
		Synthetic: info.Synthetic,
		LoadedAt:  info.LoadedAt,
	}}
}

// parseFilter читает year, district, category и type из query
func parseFilter(c *fiber.Ctx) (domain.FilterState, error) {
	var f domain.FilterState
	if err := c.QueryParser(&f); err != nil {
		return f, errors.ErrInvalidRequest.WithMessage(err.Error())
	}
	return copyFilter(f).Normalize(), nil
}

// copyFilter отвязывает строки фильтра от буфера запроса fasthttp:
// они попадают в ключи и значения кеша и живут дольше запроса.
func copyFilter(f domain.FilterState) domain.FilterState {
	return domain.FilterState{
		Year:      fiberutils.CopyString(f.Year),
		District:  fiberutils.CopyString(f.District),
		Category:  fiberutils.CopyString(f.Category),
		CrimeType: fiberutils.CopyString(f.CrimeType),
	}
}

// pathParam возвращает раскодированный параметр пути, не привязанный к буферу запроса
func pathParam(c *fiber.Ctx, name string) (string, error) {
	value, err := url.PathUnescape(c.Params(name))
	if err != nil {
		return "", err
	}
	return fiberutils.CopyString(value), nil
}

func parseReportID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, errors.ErrInvalidReportID.WithDetails(map[string]interface{}{"id": c.Params("id")})
	}
	return id, nil
}
