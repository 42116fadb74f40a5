package usecase

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/crime-dashboard/internal/catalog"
	"github.com/crime-dashboard/internal/domain"
	"github.com/crime-dashboard/internal/domain/repository"
	"github.com/crime-dashboard/internal/pkg/errors"
	"github.com/crime-dashboard/internal/pkg/validator"
	"github.com/crime-dashboard/internal/usecase/dto"
)

const (
	defaultReportsLimit = 20
	// approvedFeedSize - сколько последних одобренных сообщений держим в Redis
	approvedFeedSize = 100
)

// ReportUseCaseConfig - настройки приёма сообщений
type ReportUseCaseConfig struct {
	AutoApprove bool
	FeedTTL     time.Duration
}

// ReportUseCase обрабатывает неофициальные сообщения граждан
type ReportUseCase struct {
	reportRepo repository.ReportRepository
	cacheRepo  repository.CacheRepository
	publisher  repository.EventPublisher
	catalog    *catalog.Catalog
	cfg        ReportUseCaseConfig
	logger     *zap.Logger
	now        func() time.Time
}

// NewReportUseCase создает новый экземпляр ReportUseCase.
// publisher может быть nil: тогда события не публикуются.
func NewReportUseCase(
	reportRepo repository.ReportRepository,
	cacheRepo repository.CacheRepository,
	publisher repository.EventPublisher,
	cat *catalog.Catalog,
	cfg ReportUseCaseConfig,
	logger *zap.Logger,
) *ReportUseCase {
	return &ReportUseCase{
		reportRepo: reportRepo,
		cacheRepo:  cacheRepo,
		publisher:  publisher,
		catalog:    cat,
		cfg:        cfg,
		logger:     logger,
		now:        time.Now,
	}
}

// Create проверяет и сохраняет сообщение
func (uc *ReportUseCase) Create(ctx context.Context, req dto.CreateReportRequest) (*dto.ReportResponse, error) {
	req.CrimeCategory = strings.TrimSpace(req.CrimeCategory)
	req.CrimeType = strings.TrimSpace(req.CrimeType)
	req.District = strings.TrimSpace(req.District)
	req.Email = strings.TrimSpace(req.Email)

	if err := validator.Validate(req); err != nil {
		return nil, err
	}
	if err := uc.checkCatalog(req); err != nil {
		return nil, err
	}

	report := &domain.UnofficialReport{
		CrimeCategory: req.CrimeCategory,
		CrimeType:     req.CrimeType,
		District:      req.District,
		Description:   strings.TrimSpace(req.Description),
		Location:      domain.GeoPoint{Lat: req.Location.Lat, Lng: req.Location.Lng},
		ExactLocation: strings.TrimSpace(req.ExactLocation),
		IsAnonymous:   req.IsAnonymous,
		Status:        domain.ReportStatusPending,
	}
	if !req.IsAnonymous && req.Email != "" {
		email := req.Email
		report.Email = &email
	}
	if uc.cfg.AutoApprove {
		report.Status = domain.ReportStatusApproved
	}

	if err := uc.reportRepo.Create(ctx, report); err != nil {
		uc.logger.Error("Failed to save report", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	uc.logger.Info("Report submitted",
		zap.String("id", report.ID.String()),
		zap.String("district", report.District),
		zap.String("status", string(report.Status)),
		zap.Bool("anonymous", report.IsAnonymous))

	uc.afterChange(ctx, domain.ReportEventCreated, report)

	resp := dto.NewReportResponse(report)
	return &resp, nil
}

func (uc *ReportUseCase) checkCatalog(req dto.CreateReportRequest) error {
	if !uc.catalog.HasCategory(req.CrimeCategory) {
		return errors.ErrInvalidCrimeCategory.WithDetails(map[string]interface{}{
			"crime_category": req.CrimeCategory,
		})
	}
	if !uc.catalog.IsValidType(req.CrimeCategory, req.CrimeType) {
		return errors.ErrInvalidCrimeType.WithDetails(map[string]interface{}{
			"crime_category": req.CrimeCategory,
			"crime_type":     req.CrimeType,
			"allowed":        uc.catalog.TypesFor(req.CrimeCategory),
		})
	}
	if _, ok := uc.catalog.Coordinates(req.District); !ok {
		return errors.ErrValidationFailed.WithDetails(map[string]interface{}{
			"district": "unknown",
		})
	}
	point := domain.GeoPoint{Lat: req.Location.Lat, Lng: req.Location.Lng}
	if !uc.catalog.Contains(point) {
		return errors.ErrLocationOutOfRange.WithDetails(map[string]interface{}{
			"lat": point.Lat,
			"lng": point.Lng,
		})
	}
	return nil
}

// afterChange сбрасывает кеш и публикует событие; ошибки только логируются
func (uc *ReportUseCase) afterChange(ctx context.Context, eventType domain.ReportEventType, report *domain.UnofficialReport) {
	if err := uc.cacheRepo.InvalidateReports(ctx); err != nil {
		uc.logger.Warn("Failed to invalidate reports cache", zap.Error(err))
	}

	if uc.publisher == nil {
		return
	}
	event := domain.NewReportEvent(eventType, report, uc.now().UTC())
	if err := uc.publisher.PublishReportEvent(ctx, event); err != nil {
		uc.logger.Warn("Failed to publish report event",
			zap.String("type", string(eventType)),
			zap.String("id", report.ID.String()),
			zap.Error(err))
	}
}

// ListApproved - публичная лента одобренных сообщений.
// Первая страница без фильтра по району читается из Redis.
func (uc *ReportUseCase) ListApproved(ctx context.Context, req dto.ListReportsRequest) (*dto.ReportListResponse, error) {
	if err := validator.Validate(req); err != nil {
		return nil, err
	}
	limit := req.Limit
	if limit <= 0 {
		limit = defaultReportsLimit
	}

	var reports []domain.UnofficialReport
	var err error
	if req.District == "" && req.Offset+limit <= approvedFeedSize {
		reports, err = uc.approvedFeed(ctx)
		if err != nil {
			return nil, err
		}
		reports = page(reports, req.Offset, limit)
	} else {
		approved := domain.ReportStatusApproved
		reports, err = uc.reportRepo.List(ctx, domain.ReportListFilter{
			Status:   &approved,
			District: req.District,
			Limit:    limit,
			Offset:   req.Offset,
		})
		if err != nil {
			uc.logger.Error("Failed to list approved reports", zap.Error(err))
			return nil, errors.ErrDatabaseError
		}
	}

	resp := &dto.ReportListResponse{
		Reports: make([]dto.ReportResponse, 0, len(reports)),
		Limit:   limit,
		Offset:  req.Offset,
	}
	for i := range reports {
		resp.Reports = append(resp.Reports, dto.NewReportResponse(&reports[i]))
	}
	return resp, nil
}

func (uc *ReportUseCase) approvedFeed(ctx context.Context) ([]domain.UnofficialReport, error) {
	cached, err := uc.cacheRepo.GetApprovedReports(ctx)
	if err == nil && cached != nil {
		uc.logger.Debug("Approved reports fetched from cache")
		return cached, nil
	}
	if err != nil {
		uc.logger.Warn("Failed to get approved reports from cache", zap.Error(err))
	}

	approved := domain.ReportStatusApproved
	reports, err := uc.reportRepo.List(ctx, domain.ReportListFilter{Status: &approved, Limit: approvedFeedSize})
	if err != nil {
		uc.logger.Error("Failed to list approved reports", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	if err := uc.cacheRepo.SetApprovedReports(ctx, reports, uc.cfg.FeedTTL); err != nil {
		uc.logger.Warn("Failed to cache approved reports", zap.Error(err))
	}
	return reports, nil
}

func page(reports []domain.UnofficialReport, offset, limit int) []domain.UnofficialReport {
	if offset >= len(reports) {
		return nil
	}
	end := offset + limit
	if end > len(reports) {
		end = len(reports)
	}
	return reports[offset:end]
}

// GetApproved - одобренное сообщение; остальные статусы скрыты как несуществующие
func (uc *ReportUseCase) GetApproved(ctx context.Context, id uuid.UUID) (*dto.ReportResponse, error) {
	report, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if report.Status != domain.ReportStatusApproved {
		return nil, errors.ErrReportNotFound
	}
	resp := dto.NewReportResponse(report)
	return &resp, nil
}

// GetByID - сообщение в любом статусе, для модератора
func (uc *ReportUseCase) GetByID(ctx context.Context, id uuid.UUID) (*dto.AdminReportResponse, error) {
	report, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewAdminReportResponse(report)
	return &resp, nil
}

func (uc *ReportUseCase) get(ctx context.Context, id uuid.UUID) (*domain.UnofficialReport, error) {
	report, err := uc.reportRepo.GetByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, errors.ErrReportNotFound
		}
		uc.logger.Error("Failed to get report", zap.String("id", id.String()), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	return report, nil
}

// List - сообщения для модератора, с фильтром по статусу и району
func (uc *ReportUseCase) List(ctx context.Context, req dto.ListReportsRequest) (*dto.AdminReportListResponse, error) {
	if err := validator.Validate(req); err != nil {
		return nil, err
	}
	limit := req.Limit
	if limit <= 0 {
		limit = defaultReportsLimit
	}

	filter := domain.ReportListFilter{District: req.District, Limit: limit, Offset: req.Offset}
	if req.Status != "" {
		status := domain.ReportStatus(req.Status)
		filter.Status = &status
	}

	reports, err := uc.reportRepo.List(ctx, filter)
	if err != nil {
		uc.logger.Error("Failed to list reports", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	resp := &dto.AdminReportListResponse{
		Reports: make([]dto.AdminReportResponse, 0, len(reports)),
		Limit:   limit,
		Offset:  req.Offset,
	}
	for i := range reports {
		resp.Reports = append(resp.Reports, dto.NewAdminReportResponse(&reports[i]))
	}
	return resp, nil
}

// UpdateStatus модерирует сообщение: pending -> approved | rejected.
// Повторная модерация даёт INVALID_STATUS_TRANSITION.
func (uc *ReportUseCase) UpdateStatus(ctx context.Context, id uuid.UUID, req dto.UpdateReportStatusRequest) (*dto.AdminReportResponse, error) {
	if err := validator.Validate(req); err != nil {
		return nil, err
	}

	current, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !current.Status.CanTransitionTo(req.Status) {
		return nil, uc.transitionError(current.Status, req.Status)
	}

	updated, err := uc.reportRepo.UpdateStatus(ctx, id, domain.ReportStatusPending, req.Status)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			// Между чтением и обновлением сообщение успел промодерировать кто-то другой
			return nil, uc.lostRaceError(ctx, id, req.Status)
		}
		uc.logger.Error("Failed to update report status", zap.String("id", id.String()), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	uc.afterChange(ctx, domain.ReportEventStatusChanged, updated)

	resp := dto.NewAdminReportResponse(updated)
	return &resp, nil
}

// lostRaceError перечитывает сообщение, чтобы в ошибке был его фактический статус
func (uc *ReportUseCase) lostRaceError(ctx context.Context, id uuid.UUID, to domain.ReportStatus) error {
	fresh, err := uc.reportRepo.GetByID(ctx, id)
	switch {
	case err == nil:
		return uc.transitionError(fresh.Status, to)
	case stderrors.Is(err, repository.ErrNotFound):
		return errors.ErrReportNotFound
	default:
		uc.logger.Warn("Failed to re-read report after lost update", zap.String("id", id.String()), zap.Error(err))
		return uc.transitionError(domain.ReportStatus("unknown"), to)
	}
}

func (uc *ReportUseCase) transitionError(from, to domain.ReportStatus) error {
	return errors.ErrInvalidStatusTransition.WithDetails(map[string]interface{}{
		"from": string(from),
		"to":   string(to),
	})
}

// CountApproved - число одобренных сообщений для дашборда
func (uc *ReportUseCase) CountApproved(ctx context.Context) (int, error) {
	counts, err := uc.reportRepo.CountByStatus(ctx)
	if err != nil {
		return 0, err
	}
	return counts[domain.ReportStatusApproved], nil
}
