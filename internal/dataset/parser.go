package dataset

import (
	"encoding/csv"
	stderrors "errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/crime-dashboard/internal/domain"
)

// DefaultYear подставляется, если год в строке не распознан
const DefaultYear = 2021

// Порядок колонок в CSV фиксирован
const (
	colSlNo = iota
	colDistrict
	colPopulation
	colCrimeRate
	colCategory
	colCrimeType
	colCrimes
	colYear
	colVariation
)

// Parse читает CSV со статистикой. Первая строка - заголовок.
// Нечисловые значения превращаются в 0 (год - в DefaultYear), недостающие ячейки - в нулевые значения.
func Parse(r io.Reader) ([]domain.DistrictCrimeRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.ReuseRecord = true

	if _, err := reader.Read(); err != nil {
		if stderrors.Is(err, io.EOF) {
			return nil, fmt.Errorf("csv is empty")
		}
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	var records []domain.DistrictCrimeRecord
	for {
		row, err := reader.Read()
		if stderrors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}
		if isBlank(row) {
			continue
		}

		records = append(records, parseRow(row))
	}

	return records, nil
}

func parseRow(row []string) domain.DistrictCrimeRecord {
	cell := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	year := parseInt(cell(colYear))
	if year == 0 {
		year = DefaultYear
	}

	return domain.DistrictCrimeRecord{
		SlNo:             parseInt(cell(colSlNo)),
		District:         cell(colDistrict),
		PopulationLakhs:  parseFloat(cell(colPopulation)),
		CrimeRate:        parseFloat(cell(colCrimeRate)),
		Category:         cell(colCategory),
		CrimeType:        cell(colCrimeType),
		Crimes:           parseInt(cell(colCrimes)),
		Year:             year,
		PercentVariation: parseFloat(cell(colVariation)),
	}
}

func parseInt(s string) int {
	s = strings.TrimSuffix(s, "%")
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	// "1200.0" встречается в выгрузках
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return 0
}

func parseFloat(s string) float64 {
	s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
