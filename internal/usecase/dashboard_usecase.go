package usecase

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/crime-dashboard/internal/dataset"
	"github.com/crime-dashboard/internal/domain"
	"github.com/crime-dashboard/internal/usecase/dto"
)

// ApprovedCounter - источник числа одобренных сообщений
type ApprovedCounter interface {
	CountApproved(ctx context.Context) (int, error)
}

// DashboardUseCase собирает главную страницу одним запросом
type DashboardUseCase struct {
	stats   *CrimeStatsUseCase
	reports ApprovedCounter
	logger  *zap.Logger
}

// NewDashboardUseCase создает DashboardUseCase; reports может быть nil
func NewDashboardUseCase(stats *CrimeStatsUseCase, reports ApprovedCounter, logger *zap.Logger) *DashboardUseCase {
	return &DashboardUseCase{stats: stats, reports: reports, logger: logger}
}

// GetDashboard параллельно считает сводку, рейтинг и сравнение по годам.
// Ошибка подсчёта сообщений не валит ответ: поле approved_reports будет null.
func (uc *DashboardUseCase) GetDashboard(ctx context.Context, filter domain.FilterState) (*dto.DashboardResponse, *dto.DatasetInfo, error) {
	var (
		summary  *dto.SummaryResponse
		top      *dto.TopDistrictsResponse
		years    *dto.YearComparisonResponse
		info     *dto.DatasetInfo
		approved *int
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		summary, info, err = uc.stats.GetSummary(gctx, filter)
		return err
	})
	g.Go(func() error {
		var err error
		top, _, err = uc.stats.GetTopDistricts(gctx, filter, dataset.DefaultTopN)
		return err
	})
	g.Go(func() error {
		var err error
		years, _, err = uc.stats.GetYearComparison(gctx, filter)
		return err
	})

	// Счётчик идёт мимо errgroup: отмена gctx при ошибке статистики его не касается
	done := make(chan struct{})
	go func() {
		defer close(done)
		if uc.reports == nil {
			return
		}
		n, err := uc.reports.CountApproved(ctx)
		if err != nil {
			uc.logger.Warn("Failed to count approved reports", zap.Error(err))
			return
		}
		approved = &n
	}()

	err := g.Wait()
	<-done
	if err != nil {
		return nil, nil, err
	}

	return &dto.DashboardResponse{
		Filter:          summary.Filter,
		TotalIncidents:  summary.TotalIncidents,
		DetectionRate:   summary.DetectionRate,
		ConvictionRate:  summary.ConvictionRate,
		PendingTrial:    summary.PendingTrialCases,
		TopDistricts:    top.Districts,
		YearComparison:  years.Series,
		ApprovedReports: approved,
	}, info, nil
}
