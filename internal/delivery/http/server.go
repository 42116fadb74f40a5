package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	fiberSwagger "github.com/swaggo/fiber-swagger"
	"go.uber.org/zap"

	"github.com/crime-dashboard/internal/config"
	"github.com/crime-dashboard/internal/delivery/http/handler"
	"github.com/crime-dashboard/internal/delivery/http/middleware"
	"github.com/crime-dashboard/internal/pkg/errors"
	"github.com/crime-dashboard/internal/pkg/utils"
)

// Handlers - набор обработчиков, которые монтирует сервер
type Handlers struct {
	Health  *handler.HealthHandler
	Crime   *handler.CrimeHandler
	Catalog *handler.CatalogHandler
	Reports *handler.ReportHandler
}

// Server - HTTP сервер на основе Fiber
type Server struct {
	app      *fiber.App
	config   *config.Config
	logger   *zap.Logger
	handlers Handlers
}

// NewServer - создание нового HTTP сервера
func NewServer(cfg *config.Config, logger *zap.Logger, handlers Handlers) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "Crime Dashboard API",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: customErrorHandler(logger),
	})

	s := &Server{
		app:      app,
		config:   cfg,
		logger:   logger,
		handlers: handlers,
	}

	s.setupMiddlewares()
	s.setupRoutes()

	return s
}

// setupMiddlewares - настройка middleware
func (s *Server) setupMiddlewares() {
	s.app.Use(middleware.Recovery())
	s.app.Use(middleware.Logger(s.logger))
	s.app.Use(middleware.CORS(s.config.Server.AllowOrigins))
	s.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
}

// setupRoutes - настройка маршрутов
func (s *Server) setupRoutes() {
	s.app.Get("/swagger/*", fiberSwagger.WrapHandler)

	api := s.app.Group("/api/v1")

	api.Get("/health", s.handlers.Health.Health)

	// Официальная статистика
	crime := api.Group("/crime")
	crime.Get("/filters", s.handlers.Crime.GetFilters)
	crime.Get("/categories/:category/types", s.handlers.Crime.GetCrimeTypes)
	crime.Get("/summary", s.handlers.Crime.GetSummary)
	crime.Get("/top-districts", s.handlers.Crime.GetTopDistricts)
	crime.Get("/year-comparison", s.handlers.Crime.GetYearComparison)
	crime.Get("/districts/:district/records", s.handlers.Crime.GetDistrictRecords)
	crime.Get("/map", s.handlers.Crime.GetMap)
	crime.Get("/severity-legend", s.handlers.Crime.GetSeverityLegend)

	api.Get("/dashboard", s.handlers.Crime.GetDashboard)

	// Справочники формы
	api.Get("/catalog", s.handlers.Catalog.GetCatalog)
	api.Get("/districts/nearest", s.handlers.Catalog.GetNearestDistrict)

	// Неофициальные сообщения
	api.Post("/reports", s.handlers.Reports.Create)
	api.Get("/reports", s.handlers.Reports.ListApproved)
	api.Get("/reports/:id", s.handlers.Reports.GetApproved)

	// Модерация
	admin := api.Group("/admin", middleware.APIKey(s.config.Auth.AdminAPIKey))
	admin.Get("/reports", s.handlers.Reports.AdminList)
	admin.Get("/reports/summary", s.handlers.Reports.GetModerationSummary)
	admin.Get("/reports/:id", s.handlers.Reports.AdminGet)
	admin.Patch("/reports/:id/status", s.handlers.Reports.UpdateStatus)
	admin.Post("/dataset/reload", s.handlers.Crime.ReloadDataset)
}

// App - доступ к fiber.App для тестов
func (s *Server) App() *fiber.App {
	return s.app
}

// Start - запуск HTTP сервера
func (s *Server) Start() error {
	addr := s.config.GetServerAddr()
	s.logger.Info("Starting HTTP server", zap.String("address", addr))
	return s.app.Listen(addr)
}

// Shutdown - graceful shutdown HTTP сервера
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.app.ShutdownWithContext(ctx)
}

// customErrorHandler - ошибки Fiber (404 маршрута, паника, слишком большое тело) в общем формате
func customErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
		}

		if code >= fiber.StatusInternalServerError {
			logger.Error("HTTP Error",
				zap.String("path", c.Path()),
				zap.Int("status", code),
				zap.Error(err),
			)
			return utils.SendError(c, errors.ErrInternalServer)
		}

		return utils.SendError(c, errors.New(codeFor(code), err.Error(), code))
	}
}

func codeFor(status int) string {
	switch status {
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case fiber.StatusRequestEntityTooLarge:
		return "REQUEST_TOO_LARGE"
	default:
		return "INVALID_REQUEST"
	}
}
