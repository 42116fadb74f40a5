package dataset

import (
	"math/rand"

	"github.com/crime-dashboard/internal/domain"
)

var (
	syntheticDistricts = []string{
		"Cyberabad", "Hyderabad", "Karimnagar", "Khammam", "Nizamabad",
		"Rachakonda", "Ramagundam", "Siddipet",
	}
	syntheticCategories = []string{"Bodily Crimes", "Property Crime", "Economic Offences", "Cyber Crime"}
	syntheticTypes      = []string{"Hurt", "Murder", "Theft", "Fraud"}
)

// Synthetic генерирует демонстрационный набор: 8 районов x 4 категории x 4 типа за 2021 год.
// Для одного seed результат всегда одинаковый.
func Synthetic(seed int64) []domain.DistrictCrimeRecord {
	rnd := rand.New(rand.NewSource(seed))

	records := make([]domain.DistrictCrimeRecord, 0,
		len(syntheticDistricts)*len(syntheticCategories)*len(syntheticTypes))

	for i, district := range syntheticDistricts {
		for _, category := range syntheticCategories {
			for _, crimeType := range syntheticTypes {
				records = append(records, domain.DistrictCrimeRecord{
					SlNo:             i + 1,
					District:         district,
					PopulationLakhs:  rnd.Float64()*50 + 5,
					CrimeRate:        rnd.Float64()*100 + 20,
					Category:         category,
					CrimeType:        crimeType,
					Crimes:           rnd.Intn(1000) + 100,
					Year:             DefaultYear,
					PercentVariation: (rnd.Float64() - 0.5) * 20,
				})
			}
		}
	}

	return records
}
