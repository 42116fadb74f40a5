package dataset

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crime-dashboard/internal/domain"
)

const sampleCSV = `Sl. No.,Units,Population (in Lakhs),Crime Rate 2021,Category,Crime Type,Crimes,Year,% Variation in 2021 over 2020
1,Hyderabad,39.4,181.2,Bodily Crimes,Hurt,1520,2021,12.5
2,Cyberabad,52.1,210.7,Property Crime,Theft,4210,2021,-3.2
3,Warangal,15.0,99.0,Economic Offences,Fraud,310,2020,0
`

func TestParse_WellFormedRows(t *testing.T) {
	records, err := Parse(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	want := []domain.DistrictCrimeRecord{
		{SlNo: 1, District: "Hyderabad", PopulationLakhs: 39.4, CrimeRate: 181.2, Category: "Bodily Crimes", CrimeType: "Hurt", Crimes: 1520, Year: 2021, PercentVariation: 12.5},
		{SlNo: 2, District: "Cyberabad", PopulationLakhs: 52.1, CrimeRate: 210.7, Category: "Property Crime", CrimeType: "Theft", Crimes: 4210, Year: 2021, PercentVariation: -3.2},
		{SlNo: 3, District: "Warangal", PopulationLakhs: 15.0, CrimeRate: 99.0, Category: "Economic Offences", CrimeType: "Fraud", Crimes: 310, Year: 2020, PercentVariation: 0},
	}

	if diff := cmp.Diff(want, records); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_LenientCoercion(t *testing.T) {
	input := "header\n" +
		"x,Nalgonda,n/a,12.0%,Property Crime,Theft,abc,,7.5%\n" +
		"\n" +
		"4,Medak\n" +
		"5,Nirmal,3.1,40,Bodily Crimes,Hurt,1200.0,2019,NaN\n"

	records, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 3)

	first := records[0]
	assert.Equal(t, 0, first.SlNo)
	assert.Equal(t, 0.0, first.PopulationLakhs)
	assert.Equal(t, 12.0, first.CrimeRate)
	assert.Equal(t, 0, first.Crimes)
	assert.Equal(t, DefaultYear, first.Year)
	assert.Equal(t, 7.5, first.PercentVariation)

	short := records[1]
	assert.Equal(t, "Medak", short.District)
	assert.Empty(t, short.Category)
	assert.Equal(t, DefaultYear, short.Year)

	last := records[2]
	assert.Equal(t, 1200, last.Crimes)
	assert.Equal(t, 2019, last.Year)
	assert.Zero(t, last.PercentVariation)
}

func TestParse_HeaderOnlyAndEmpty(t *testing.T) {
	records, err := Parse(strings.NewReader("a,b,c\n"))
	require.NoError(t, err)
	assert.Empty(t, records)

	_, err = Parse(strings.NewReader(""))
	assert.Error(t, err)
}

func TestParse_CountMatchesRows(t *testing.T) {
	var b strings.Builder
	b.WriteString("header\n")
	for i := 0; i < 250; i++ {
		b.WriteString("1,Hyderabad,39.4,181.2,Bodily Crimes,Hurt,10,2021,1.0\n")
	}

	records, err := Parse(strings.NewReader(b.String()))
	require.NoError(t, err)
	assert.Len(t, records, 250)
}
