package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/crime-dashboard/internal/pkg/errors"
	"github.com/crime-dashboard/internal/pkg/utils"
)

// HeaderAPIKey - альтернатива "Authorization: Bearer <key>"
const HeaderAPIKey = "X-API-Key"

// APIKey пропускает запрос только с правильным ключом.
// Пустой ключ в конфиге закрывает группу полностью.
func APIKey(key string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if key == "" {
			return utils.SendError(c, errors.ErrUnauthorized.WithMessage("Admin API is disabled"))
		}

		provided := c.Get(HeaderAPIKey)
		if provided == "" {
			auth := c.Get(fiber.HeaderAuthorization)
			if len(auth) > 7 && strings.EqualFold(auth[:7], "Bearer ") {
				provided = strings.TrimSpace(auth[7:])
			}
		}

		if subtle.ConstantTimeCompare([]byte(provided), []byte(key)) != 1 {
			return utils.SendError(c, errors.ErrUnauthorized)
		}
		return c.Next()
	}
}
