package dto

import (
	"time"

	"github.com/crime-dashboard/internal/catalog"
	"github.com/crime-dashboard/internal/domain"
)

// DatasetInfo - сведения о снимке CSV, по которому посчитан ответ
type DatasetInfo struct {
	Source    string    `json:"source"`
	Records   int       `json:"records"`
	Synthetic bool      `json:"synthetic"`
	LoadedAt  time.Time `json:"loaded_at"`
}

// FilterOptions - значения для выпадающих списков фильтров
type FilterOptions struct {
	Years      []string `json:"years"`
	Districts  []string `json:"districts"`
	Categories []string `json:"categories"`
}

// CrimeTypesResponse - типы преступлений внутри категории
type CrimeTypesResponse struct {
	Category string   `json:"category"`
	Types    []string `json:"types"`
}

// SummaryResponse - итог по фильтру вместе с отобранными записями
type SummaryResponse struct {
	Filter domain.FilterState `json:"filter"`
	domain.FilteredData
}

// TopDistrictsRequest - фильтр и размер рейтинга
type TopDistrictsRequest struct {
	domain.FilterState
	Limit int `json:"limit" query:"limit" validate:"omitempty,min=1,max=50"`
}

// TopDistrictsResponse - рейтинг районов
type TopDistrictsResponse struct {
	Filter    domain.FilterState     `json:"filter"`
	Districts []domain.DistrictTotal `json:"districts"`
}

// YearComparisonResponse - две точки ряда: прошлый и текущий год
type YearComparisonResponse struct {
	Filter           domain.FilterState     `json:"filter"`
	Series           []domain.YearIncidents `json:"series"`
	AverageVariation float64                `json:"average_variation"`
}

// DistrictRecordsResponse - записи одного района
type DistrictRecordsResponse struct {
	District string                       `json:"district"`
	Total    int                          `json:"total"`
	Records  []domain.DistrictCrimeRecord `json:"records"`
}

// MapResponse - районы для карты и легенда
type MapResponse struct {
	Filter  domain.FilterState `json:"filter"`
	Regions []domain.MapRegion `json:"regions"`
	Legend  []domain.Severity  `json:"legend"`
}

// DashboardResponse - всё, что нужно главной странице, одним запросом
type DashboardResponse struct {
	Filter         domain.FilterState     `json:"filter"`
	TotalIncidents int                    `json:"total_incidents"`
	DetectionRate  float64                `json:"detection_rate"`
	ConvictionRate float64                `json:"conviction_rate"`
	PendingTrial   int                    `json:"pending_trial_cases"`
	TopDistricts   []domain.DistrictTotal `json:"top_districts"`
	YearComparison []domain.YearIncidents `json:"year_comparison"`
	// ApprovedReports - nil, если база сообщений недоступна
	ApprovedReports *int `json:"approved_reports"`
}

// CatalogResponse - справочник для формы сообщения
type CatalogResponse struct {
	Categories []catalog.Category `json:"categories"`
	Districts  []catalog.District `json:"districts"`
}

// NearestDistrictRequest - точка, выбранная на карте
type NearestDistrictRequest struct {
	Lat float64 `query:"lat" json:"lat" validate:"min=-90,max=90"`
	Lng float64 `query:"lng" json:"lng" validate:"min=-180,max=180"`
}
