package dataset

import (
	"math"
	"sort"
	"strconv"

	"github.com/crime-dashboard/internal/domain"
)

const (
	// DefaultTopN - сколько районов показывать в рейтинге по умолчанию
	DefaultTopN = 10

	// Оценки, которых нет в CSV; дашборд показывает их как есть
	estimatedDetectionRate  = 72.5
	estimatedConvictionRate = 58.3
	pendingTrialShare       = 0.6
)

// Условные единицы, которые дублируют районы в общей статистике штата
var aggregateUnits = map[string]struct{}{
	"RP SECUNDERABAD": {},
	"CID":             {},
}

// Districts - отсортированный список районов
func Districts(records []domain.DistrictCrimeRecord) []string {
	return uniqueSorted(records, func(r domain.DistrictCrimeRecord) string { return r.District })
}

// Categories - отсортированный список категорий
func Categories(records []domain.DistrictCrimeRecord) []string {
	return uniqueSorted(records, func(r domain.DistrictCrimeRecord) string { return r.Category })
}

// Years - отсортированный список годов в виде строк
func Years(records []domain.DistrictCrimeRecord) []string {
	return uniqueSorted(records, func(r domain.DistrictCrimeRecord) string { return strconv.Itoa(r.Year) })
}

// TypesByCategory - типы преступлений внутри категории
func TypesByCategory(records []domain.DistrictCrimeRecord, category string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, r := range records {
		if r.Category != category {
			continue
		}
		if _, ok := seen[r.CrimeType]; ok {
			continue
		}
		seen[r.CrimeType] = struct{}{}
		out = append(out, r.CrimeType)
	}
	sort.Strings(out)
	return out
}

// Filter отбирает записи по фильтру.
// Без фильтров исключаются условные единицы RP SECUNDERABAD и CID.
func Filter(records []domain.DistrictCrimeRecord, f domain.FilterState) []domain.DistrictCrimeRecord {
	f = f.Normalize()
	excludeAggregates := f.IsDefault()

	out := make([]domain.DistrictCrimeRecord, 0)
	for _, r := range records {
		if excludeAggregates {
			if _, ok := aggregateUnits[r.District]; ok {
				continue
			}
		}
		if !matchesYear(r, f.Year) {
			continue
		}
		if f.District != domain.FilterAll && r.District != f.District {
			continue
		}
		if !matchesCategoryAndType(r, f) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Summarize считает итог по отфильтрованным записям
func Summarize(records []domain.DistrictCrimeRecord, f domain.FilterState) domain.FilteredData {
	filtered := Filter(records, f)
	total := sumCrimes(filtered)

	return domain.FilteredData{
		TotalIncidents:    total,
		DetectionRate:     estimatedDetectionRate,
		ConvictionRate:    estimatedConvictionRate,
		PendingTrialCases: int(math.Floor(float64(total) * pendingTrialShare)),
		Records:           filtered,
	}
}

// DistrictTotals суммирует инциденты по районам
func DistrictTotals(records []domain.DistrictCrimeRecord, f domain.FilterState) map[string]int {
	totals := make(map[string]int)
	for _, r := range Filter(records, f) {
		totals[r.District] += r.Crimes
	}
	return totals
}

// TopDistricts - рейтинг районов по убыванию числа инцидентов.
// При равенстве районы идут по алфавиту, так что порядок стабилен.
func TopDistricts(records []domain.DistrictCrimeRecord, f domain.FilterState, n int) []domain.DistrictTotal {
	if n <= 0 {
		n = DefaultTopN
	}

	totals := DistrictTotals(records, f)
	ranking := make([]domain.DistrictTotal, 0, len(totals))
	for district, crimes := range totals {
		ranking = append(ranking, domain.DistrictTotal{District: district, Crimes: crimes})
	}

	sort.Slice(ranking, func(i, j int) bool {
		if ranking[i].Crimes != ranking[j].Crimes {
			return ranking[i].Crimes > ranking[j].Crimes
		}
		return ranking[i].District < ranking[j].District
	})

	if len(ranking) > n {
		ranking = ranking[:n]
	}
	return ranking
}

// YearComparison строит две точки: прошлый год и текущий.
// Прошлый год восстанавливается из среднего процента изменения: prev = floor(cur / (1 + avg/100)).
func YearComparison(records []domain.DistrictCrimeRecord, f domain.FilterState) []domain.YearIncidents {
	f = f.Normalize()
	filtered := Filter(records, f)
	current := sumCrimes(filtered)

	avg := AverageVariation(filtered)
	previous := current
	if avg != 0 && avg > -100 {
		previous = int(math.Floor(float64(current) / (1 + avg/100)))
	}

	year := comparisonYear(filtered, f)
	return []domain.YearIncidents{
		{Year: strconv.Itoa(year - 1), Incidents: previous},
		{Year: strconv.Itoa(year), Incidents: current},
	}
}

// AverageVariation - средний процент изменения по записям, 0 для пустого набора
func AverageVariation(records []domain.DistrictCrimeRecord) float64 {
	if len(records) == 0 {
		return 0
	}
	var sum float64
	for _, r := range records {
		sum += r.PercentVariation
	}
	return sum / float64(len(records))
}

// DistrictRecords - записи одного района с учётом остальных фильтров
func DistrictRecords(records []domain.DistrictCrimeRecord, district string, f domain.FilterState) []domain.DistrictCrimeRecord {
	f = f.Normalize()
	out := make([]domain.DistrictCrimeRecord, 0)
	for _, r := range records {
		if r.District != district {
			continue
		}
		if !matchesYear(r, f.Year) || !matchesCategoryAndType(r, f) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func comparisonYear(filtered []domain.DistrictCrimeRecord, f domain.FilterState) int {
	if f.Year != domain.FilterAll {
		if y, err := strconv.Atoi(f.Year); err == nil {
			return y
		}
	}
	latest := 0
	for _, r := range filtered {
		if r.Year > latest {
			latest = r.Year
		}
	}
	if latest == 0 {
		return DefaultYear
	}
	return latest
}

func matchesYear(r domain.DistrictCrimeRecord, year string) bool {
	return year == domain.FilterAll || strconv.Itoa(r.Year) == year
}

func matchesCategoryAndType(r domain.DistrictCrimeRecord, f domain.FilterState) bool {
	if f.Category != domain.FilterAll && r.Category != f.Category {
		return false
	}
	if f.CrimeType != domain.FilterAll && r.CrimeType != f.CrimeType {
		return false
	}
	return true
}

func sumCrimes(records []domain.DistrictCrimeRecord) int {
	total := 0
	for _, r := range records {
		total += r.Crimes
	}
	return total
}

func uniqueSorted(records []domain.DistrictCrimeRecord, key func(domain.DistrictCrimeRecord) string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, r := range records {
		k := key(r)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
