package domain

// RiskCategory - категория риска с фиксированным цветом легенды
type RiskCategory struct {
	Name          string  `json:"name"`
	Color         string  `json:"color"`
	MinPercentile float64 `json:"min_percentile"`
}

// Категории риска по перцентилям ожидаемых жертв, от высшей к низшей
var RiskCategories = []RiskCategory{
	{Name: "Very High (Top 5%)", Color: "#8B0000", MinPercentile: 95},
	{Name: "High (90-95%)", Color: "#DC143C", MinPercentile: 90},
	{Name: "Elevated (75-90%)", Color: "#FF8C00", MinPercentile: 75},
	{Name: "Moderate (50-75%)", Color: "#FFD700", MinPercentile: 50},
	{Name: "Low-Moderate (25-50%)", Color: "#9ACD32", MinPercentile: 25},
	{Name: "Low (Bottom 25%)", Color: "#228B22", MinPercentile: 0},
}

// AssignRiskCategory возвращает категорию риска для перцентиля 0-100
func AssignRiskCategory(percentile float64) RiskCategory {
	for _, c := range RiskCategories {
		if percentile >= c.MinPercentile {
			return c
		}
	}
	return RiskCategories[len(RiskCategories)-1]
}

// RiskStats - распределение значений ожидаемых жертв по выборке
type RiskStats struct {
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	P25    float64 `json:"p25"`
	Median float64 `json:"median"`
	P75    float64 `json:"p75"`
	P90    float64 `json:"p90"`
	P95    float64 `json:"p95"`
	Max    float64 `json:"max"`
}
