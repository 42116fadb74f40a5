package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newProtectedApp(key string) *fiber.App {
	app := fiber.New()
	app.Use(Recovery())
	app.Use(Logger(zap.NewNop()))
	app.Get("/admin", APIKey(key), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	app.Get("/panic", func(c *fiber.Ctx) error {
		panic("boom")
	})
	return app
}

func TestAPIKey(t *testing.T) {
	app := newProtectedApp("secret")

	tests := []struct {
		name   string
		header string
		value  string
		want   int
	}{
		{"no key", "", "", fiber.StatusUnauthorized},
		{"wrong key", HeaderAPIKey, "nope", fiber.StatusUnauthorized},
		{"x-api-key", HeaderAPIKey, "secret", fiber.StatusOK},
		{"bearer", fiber.HeaderAuthorization, "Bearer secret", fiber.StatusOK},
		{"bearer lowercase scheme", fiber.HeaderAuthorization, "bearer secret", fiber.StatusOK},
		{"basic scheme", fiber.HeaderAuthorization, "Basic secret", fiber.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/admin", nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestAPIKey_DisabledWhenEmpty(t *testing.T) {
	app := newProtectedApp("")

	req := httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set(HeaderAPIKey, "")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRecovery(t *testing.T) {
	app := newProtectedApp("secret")

	resp, err := app.Test(httptest.NewRequest("GET", "/panic", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}

func TestCORS(t *testing.T) {
	app := fiber.New()
	app.Use(CORS([]string{"http://localhost:5173"}))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString("ok") })

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Origin", "http://evil.example")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
}
