package domain

// SeverityLevel - уровень криминогенности района на карте
type SeverityLevel string

const (
	SeverityLow      SeverityLevel = "low"
	SeverityMedium   SeverityLevel = "medium"
	SeverityHigh     SeverityLevel = "high"
	SeverityCritical SeverityLevel = "critical"
)

// Severity - уровень и цвет заливки для карты
type Severity struct {
	Level SeverityLevel `json:"level"`
	Color string        `json:"color"`
	Label string        `json:"label"`
}

var severityLegend = []Severity{
	{Level: SeverityLow, Color: "#f59c2f", Label: "500-3,999 crimes"},
	{Level: SeverityMedium, Color: "#c91d14", Label: "4,000-10,000 crimes"},
	{Level: SeverityHigh, Color: "#662399", Label: "10,001-20,000 crimes"},
	{Level: SeverityCritical, Color: "#050005", Label: ">20,000 crimes"},
}

// SeverityFor определяет уровень по суммарному числу преступлений
func SeverityFor(total int) Severity {
	switch {
	case total > 20000:
		return severityLegend[3]
	case total >= 10001:
		return severityLegend[2]
	case total >= 4000:
		return severityLegend[1]
	default:
		return severityLegend[0]
	}
}

// SeverityLegend возвращает легенду карты от низкого уровня к критическому
func SeverityLegend() []Severity {
	out := make([]Severity, len(severityLegend))
	copy(out, severityLegend)
	return out
}

// MapRegion - район на карте с координатами центра и уровнем
type MapRegion struct {
	District string   `json:"district"`
	Center   GeoPoint `json:"center"`
	Crimes   int      `json:"crimes"`
	Severity Severity `json:"severity"`
}
