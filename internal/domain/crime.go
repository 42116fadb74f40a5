package domain

import "strings"

// FilterAll - значение-подстановка, означающее "без фильтра по полю"
const FilterAll = "all"

// DistrictCrimeRecord - одна строка CSV со статистикой по району
type DistrictCrimeRecord struct {
	SlNo             int     `json:"sl_no"`
	District         string  `json:"district"`
	PopulationLakhs  float64 `json:"population_in_lakhs"`
	CrimeRate        float64 `json:"crime_rate"`
	Category         string  `json:"category"`
	CrimeType        string  `json:"crime_type"`
	Crimes           int     `json:"crimes"`
	Year             int     `json:"year"`
	PercentVariation float64 `json:"percent_variation"`
}

// FilterState - выбранные на дашборде фильтры.
// Каждое поле либо FilterAll, либо конкретное значение измерения.
type FilterState struct {
	Year      string `json:"year" query:"year"`
	District  string `json:"district" query:"district"`
	Category  string `json:"category" query:"category"`
	CrimeType string `json:"crime_type" query:"type"`
}

// DefaultFilter возвращает фильтр без ограничений
func DefaultFilter() FilterState {
	return FilterState{
		Year:      FilterAll,
		District:  FilterAll,
		Category:  FilterAll,
		CrimeType: FilterAll,
	}
}

// Normalize заменяет пустые значения на FilterAll и обрезает пробелы
func (f FilterState) Normalize() FilterState {
	return FilterState{
		Year:      normalizeValue(f.Year),
		District:  normalizeValue(f.District),
		Category:  normalizeValue(f.Category),
		CrimeType: normalizeValue(f.CrimeType),
	}
}

// IsDefault - true, если ни одно поле не ограничено
func (f FilterState) IsDefault() bool {
	n := f.Normalize()
	return n.Year == FilterAll && n.District == FilterAll &&
		n.Category == FilterAll && n.CrimeType == FilterAll
}

// Key - стабильный ключ фильтра для кеша
func (f FilterState) Key() string {
	n := f.Normalize()
	return strings.Join([]string{n.Year, n.District, n.Category, n.CrimeType}, "|")
}

func normalizeValue(v string) string {
	v = strings.TrimSpace(v)
	if v == "" || strings.EqualFold(v, FilterAll) {
		return FilterAll
	}
	return v
}

// FilteredData - результат фильтрации набора записей
type FilteredData struct {
	TotalIncidents    int                   `json:"total_incidents"`
	DetectionRate     float64               `json:"detection_rate"`
	ConvictionRate    float64               `json:"conviction_rate"`
	PendingTrialCases int                   `json:"pending_trial_cases"`
	Records           []DistrictCrimeRecord `json:"records"`
}

// DistrictTotal - суммарное число инцидентов по району
type DistrictTotal struct {
	District string `json:"district"`
	Crimes   int    `json:"crimes"`
}

// YearIncidents - точка ряда сравнения по годам
type YearIncidents struct {
	Year      string `json:"year"`
	Incidents int    `json:"incidents"`
}
