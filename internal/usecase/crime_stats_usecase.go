package usecase

import (
	"context"
	stderrors "errors"
	"sort"
	"strconv"

	"go.uber.org/zap"

	"github.com/crime-dashboard/internal/catalog"
	"github.com/crime-dashboard/internal/dataset"
	"github.com/crime-dashboard/internal/domain"
	"github.com/crime-dashboard/internal/domain/repository"
	"github.com/crime-dashboard/internal/pkg/errors"
	"github.com/crime-dashboard/internal/usecase/dto"
)

// DatasetLoader - источник снимков CSV
type DatasetLoader interface {
	Load(ctx context.Context) (*dataset.Snapshot, error)
	Reload(ctx context.Context) (*dataset.Snapshot, error)
}

// CrimeStatsUseCase считает агрегаты по официальной статистике.
// Результаты кешируются в памяти до следующей перезагрузки набора.
type CrimeStatsUseCase struct {
	loader  DatasetLoader
	cache   repository.QueryCache
	catalog *catalog.Catalog
	logger  *zap.Logger
}

// NewCrimeStatsUseCase создает новый экземпляр CrimeStatsUseCase
func NewCrimeStatsUseCase(
	loader DatasetLoader,
	cache repository.QueryCache,
	cat *catalog.Catalog,
	logger *zap.Logger,
) *CrimeStatsUseCase {
	return &CrimeStatsUseCase{
		loader:  loader,
		cache:   cache,
		catalog: cat,
		logger:  logger,
	}
}

type cachedResult struct {
	value interface{}
	info  dto.DatasetInfo
}

// cached возвращает значение из кеша или считает его по текущему снимку
func (uc *CrimeStatsUseCase) cached(
	ctx context.Context,
	key string,
	compute func(records []domain.DistrictCrimeRecord) interface{},
) (interface{}, *dto.DatasetInfo, error) {
	if v, ok := uc.cache.Get(key); ok {
		res := v.(cachedResult)
		info := res.info
		return res.value, &info, nil
	}

	snap, err := uc.snapshot(ctx)
	if err != nil {
		return nil, nil, err
	}

	res := cachedResult{value: compute(snap.Records), info: datasetInfo(snap)}
	uc.cache.Set(key, res)

	info := res.info
	return res.value, &info, nil
}

func (uc *CrimeStatsUseCase) snapshot(ctx context.Context) (*dataset.Snapshot, error) {
	snap, err := uc.loader.Load(ctx)
	if err != nil {
		uc.logger.Error("Dataset unavailable", zap.Error(err))
		if stderrors.Is(err, dataset.ErrUnavailable) {
			return nil, errors.ErrDatasetUnavailable
		}
		return nil, errors.ErrDatasetUnavailable.WithMessage(err.Error())
	}
	return snap, nil
}

func datasetInfo(snap *dataset.Snapshot) dto.DatasetInfo {
	return dto.DatasetInfo{
		Source:    snap.Source,
		Records:   len(snap.Records),
		Synthetic: snap.Synthetic,
		LoadedAt:  snap.LoadedAt,
	}
}

// validateFilter нормализует фильтр; год должен быть числом или "all"
func validateFilter(f domain.FilterState) (domain.FilterState, error) {
	f = f.Normalize()
	if f.Year != domain.FilterAll {
		if _, err := strconv.Atoi(f.Year); err != nil {
			return f, errors.ErrInvalidFilter.WithDetails(map[string]interface{}{"year": f.Year})
		}
	}
	return f, nil
}

// GetFilterOptions возвращает значения для фильтров дашборда
func (uc *CrimeStatsUseCase) GetFilterOptions(ctx context.Context) (*dto.FilterOptions, *dto.DatasetInfo, error) {
	v, info, err := uc.cached(ctx, "filters", func(records []domain.DistrictCrimeRecord) interface{} {
		return &dto.FilterOptions{
			Years:      dataset.Years(records),
			Districts:  dataset.Districts(records),
			Categories: dataset.Categories(records),
		}
	})
	if err != nil {
		return nil, nil, err
	}
	return v.(*dto.FilterOptions), info, nil
}

// GetCrimeTypes - типы преступлений категории; для неизвестной категории список пуст
func (uc *CrimeStatsUseCase) GetCrimeTypes(ctx context.Context, category string) (*dto.CrimeTypesResponse, *dto.DatasetInfo, error) {
	v, info, err := uc.cached(ctx, "types|"+category, func(records []domain.DistrictCrimeRecord) interface{} {
		return &dto.CrimeTypesResponse{
			Category: category,
			Types:    dataset.TypesByCategory(records, category),
		}
	})
	if err != nil {
		return nil, nil, err
	}
	return v.(*dto.CrimeTypesResponse), info, nil
}

func (uc *CrimeStatsUseCase) GetSummary(ctx context.Context, filter domain.FilterState) (*dto.SummaryResponse, *dto.DatasetInfo, error) {
	f, err := validateFilter(filter)
	if err != nil {
		return nil, nil, err
	}

	v, info, err := uc.cached(ctx, "summary|"+f.Key(), func(records []domain.DistrictCrimeRecord) interface{} {
		return &dto.SummaryResponse{
			Filter:       f,
			FilteredData: dataset.Summarize(records, f),
		}
	})
	if err != nil {
		return nil, nil, err
	}
	return v.(*dto.SummaryResponse), info, nil
}

func (uc *CrimeStatsUseCase) GetTopDistricts(ctx context.Context, filter domain.FilterState, limit int) (*dto.TopDistrictsResponse, *dto.DatasetInfo, error) {
	f, err := validateFilter(filter)
	if err != nil {
		return nil, nil, err
	}
	if limit <= 0 {
		limit = dataset.DefaultTopN
	}

	key := "top|" + strconv.Itoa(limit) + "|" + f.Key()
	v, info, err := uc.cached(ctx, key, func(records []domain.DistrictCrimeRecord) interface{} {
		return &dto.TopDistrictsResponse{
			Filter:    f,
			Districts: dataset.TopDistricts(records, f, limit),
		}
	})
	if err != nil {
		return nil, nil, err
	}
	return v.(*dto.TopDistrictsResponse), info, nil
}

func (uc *CrimeStatsUseCase) GetYearComparison(ctx context.Context, filter domain.FilterState) (*dto.YearComparisonResponse, *dto.DatasetInfo, error) {
	f, err := validateFilter(filter)
	if err != nil {
		return nil, nil, err
	}

	v, info, err := uc.cached(ctx, "years|"+f.Key(), func(records []domain.DistrictCrimeRecord) interface{} {
		return &dto.YearComparisonResponse{
			Filter:           f,
			Series:           dataset.YearComparison(records, f),
			AverageVariation: dataset.AverageVariation(dataset.Filter(records, f)),
		}
	})
	if err != nil {
		return nil, nil, err
	}
	return v.(*dto.YearComparisonResponse), info, nil
}

// GetDistrictRecords - строки одного района; фильтр по району в filter игнорируется
func (uc *CrimeStatsUseCase) GetDistrictRecords(ctx context.Context, district string, filter domain.FilterState) (*dto.DistrictRecordsResponse, *dto.DatasetInfo, error) {
	f, err := validateFilter(filter)
	if err != nil {
		return nil, nil, err
	}
	f.District = domain.FilterAll

	v, info, err := uc.cached(ctx, "district|"+district+"|"+f.Key(), func(records []domain.DistrictCrimeRecord) interface{} {
		rows := dataset.DistrictRecords(records, district, f)
		total := 0
		for _, r := range rows {
			total += r.Crimes
		}
		return &dto.DistrictRecordsResponse{District: district, Total: total, Records: rows}
	})
	if err != nil {
		return nil, nil, err
	}
	return v.(*dto.DistrictRecordsResponse), info, nil
}

// GetMapRegions - районы с известными координатами и уровнем по сумме инцидентов
func (uc *CrimeStatsUseCase) GetMapRegions(ctx context.Context, filter domain.FilterState) (*dto.MapResponse, *dto.DatasetInfo, error) {
	f, err := validateFilter(filter)
	if err != nil {
		return nil, nil, err
	}

	v, info, err := uc.cached(ctx, "map|"+f.Key(), func(records []domain.DistrictCrimeRecord) interface{} {
		totals := dataset.DistrictTotals(records, f)
		regions := make([]domain.MapRegion, 0, len(totals))
		for district, crimes := range totals {
			center, ok := uc.catalog.Coordinates(district)
			if !ok {
				uc.logger.Debug("No coordinates for district", zap.String("district", district))
				continue
			}
			regions = append(regions, domain.MapRegion{
				District: district,
				Center:   center,
				Crimes:   crimes,
				Severity: domain.SeverityFor(crimes),
			})
		}
		sort.Slice(regions, func(i, j int) bool { return regions[i].District < regions[j].District })

		return &dto.MapResponse{Filter: f, Regions: regions, Legend: domain.SeverityLegend()}
	})
	if err != nil {
		return nil, nil, err
	}
	return v.(*dto.MapResponse), info, nil
}

func (uc *CrimeStatsUseCase) GetSeverityLegend() []domain.Severity {
	return domain.SeverityLegend()
}

// DatasetInfo - сведения о текущем снимке, загружает его при необходимости
func (uc *CrimeStatsUseCase) DatasetInfo(ctx context.Context) (*dto.DatasetInfo, error) {
	snap, err := uc.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	info := datasetInfo(snap)
	return &info, nil
}

// ReloadDataset перечитывает CSV и сбрасывает кеш агрегатов.
// Если перечитать не удалось, продолжает работать прежний снимок.
func (uc *CrimeStatsUseCase) ReloadDataset(ctx context.Context) (*dto.DatasetInfo, error) {
	snap, err := uc.loader.Reload(ctx)
	if err != nil {
		uc.logger.Error("Dataset reload failed", zap.Error(err))
		if snap == nil {
			return nil, errors.ErrDatasetUnavailable
		}
		info := datasetInfo(snap)
		return &info, errors.ErrDatasetUnavailable.WithDetails(map[string]interface{}{
			"kept_source":    info.Source,
			"kept_synthetic": info.Synthetic,
		})
	}

	uc.cache.Flush()
	info := datasetInfo(snap)
	uc.logger.Info("Dataset reloaded",
		zap.String("source", info.Source),
		zap.Int("records", info.Records),
		zap.Bool("synthetic", info.Synthetic))
	return &info, nil
}
