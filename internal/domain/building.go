package domain

// RiskAttributes - атрибуты риска здания из входного набора данных
type RiskAttributes struct {
	ExpectedDeathsMean float64 `json:"expected_deaths_mean" validate:"gte=0"`
	ExpectedDeathsStd  float64 `json:"expected_deaths_std" validate:"gte=0"`
	NumOccupants       float64 `json:"num_occupants" validate:"gte=0"`
	MeasuredHeight     float64 `json:"citygml_measured_height"`
	HeightUnits        string  `json:"citygml_measured_height_units"`
	StoreysAboveGround int     `json:"citygml_storeys_above_ground"`
	RoofType           string  `json:"citygml_roof_type"`
}

// RiskMetrics - метрики, рассчитанные классификатором по всей выборке
type RiskMetrics struct {
	Percentile float64 `json:"risk_percentile"`
	CV         float64 `json:"cv"`
	Category   string  `json:"risk_category"`
	Color      string  `json:"category_color"`
}

// Building - одно здание на всех стадиях конвейера. Footprint и Metrics
// равны nil до соответствующих стадий.
type Building struct {
	ID        string         `json:"id"`
	Wireframe Wireframe      `json:"-"`
	Risk      RiskAttributes `json:"risk"`
	Footprint *Footprint     `json:"footprint,omitempty"`
	Metrics   *RiskMetrics   `json:"metrics,omitempty"`
}

// BatchReport - итог обработки пакета. Потеря данных всегда наблюдаема:
// число входных зданий сверяется с числом восстановленных контуров.
type BatchReport struct {
	Total         int            `json:"total"`
	Reconstructed int            `json:"reconstructed"`
	Dropped       int            `json:"dropped"`
	ByMethod      map[string]int `json:"by_method"`
	ByCategory    map[string]int `json:"by_category"`
}

// NewBatchReport создает пустой отчет
func NewBatchReport(total int) *BatchReport {
	return &BatchReport{
		Total:      total,
		ByMethod:   make(map[string]int),
		ByCategory: make(map[string]int),
	}
}
