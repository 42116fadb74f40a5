package utils

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/crime-dashboard/internal/pkg/errors"
)

type SuccessResponse struct {
	Data interface{} `json:"data"`
	Meta *Meta       `json:"meta,omitempty"`
}

type ErrorResponse struct {
	Error *errors.AppError `json:"error"`
}

type Meta struct {
	Total   int          `json:"total,omitempty"`
	Limit   int          `json:"limit,omitempty"`
	Offset  int          `json:"offset,omitempty"`
	Dataset *DatasetMeta `json:"dataset,omitempty"`
}

// DatasetMeta описывает снимок CSV, на котором посчитан ответ.
// Synthetic=true означает, что цифры сгенерированы, а не загружены.
type DatasetMeta struct {
	Source    string    `json:"source"`
	Records   int       `json:"records"`
	Synthetic bool      `json:"synthetic"`
	LoadedAt  time.Time `json:"loaded_at"`
}

func SendSuccess(c *fiber.Ctx, data interface{}, meta *Meta) error {
	return c.JSON(SuccessResponse{
		Data: data,
		Meta: meta,
	})
}

func SendCreated(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(SuccessResponse{
		Data: data,
	})
}

func SendError(c *fiber.Ctx, err error) error {
	if appErr, ok := errors.As(err); ok {
		return c.Status(appErr.StatusCode).JSON(ErrorResponse{
			Error: appErr,
		})
	}

	// Unknown error - return 500
	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
		Error: errors.ErrInternalServer,
	})
}
