package usecase

import (
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/building-riskmap/internal/domain"
)

// cvEpsilon предотвращает деление на ноль при нулевом среднем
const cvEpsilon = 1e-10

// RiskUseCase рассчитывает перцентили риска и категории по всей выборке
type RiskUseCase struct {
	logger *zap.Logger
}

// NewRiskUseCase создает новый экземпляр RiskUseCase
func NewRiskUseCase(logger *zap.Logger) *RiskUseCase {
	return &RiskUseCase{logger: logger}
}

// Classify присваивает каждому зданию перцентиль риска, коэффициент
// вариации, категорию и цвет. Перцентиль - средний ранг значения
// expected_deaths_mean в выборке (связанные значения получают средний
// ранг), умноженный на 100/n.
func (uc *RiskUseCase) Classify(buildings []*domain.Building, report *domain.BatchReport) *domain.RiskStats {
	if len(buildings) == 0 {
		return &domain.RiskStats{}
	}
	if report == nil {
		report = domain.NewBatchReport(len(buildings))
	}

	values := make([]float64, len(buildings))
	for i, b := range buildings {
		values[i] = b.Risk.ExpectedDeathsMean
	}
	percentiles := percentileRanks(values)

	for i, b := range buildings {
		category := domain.AssignRiskCategory(percentiles[i])
		b.Metrics = &domain.RiskMetrics{
			Percentile: percentiles[i],
			CV:         b.Risk.ExpectedDeathsStd / (b.Risk.ExpectedDeathsMean + cvEpsilon),
			Category:   category.Name,
			Color:      category.Color,
		}
		report.ByCategory[category.Name]++
	}

	stats := computeStats(values)
	uc.logger.Info("Risk classification finished",
		zap.Int("buildings", stats.Count),
		zap.Float64("min", stats.Min),
		zap.Float64("median", stats.Median),
		zap.Float64("max", stats.Max))
	for _, c := range domain.RiskCategories {
		if n := report.ByCategory[c.Name]; n > 0 {
			uc.logger.Info("Risk category",
				zap.String("category", c.Name),
				zap.Int("buildings", n),
				zap.Float64("share_pct", 100*float64(n)/float64(len(buildings))))
		}
	}
	return stats
}

// percentileRanks возвращает перцентильные ранги значений (0..100].
// Связанные значения получают средний ранг.
func percentileRanks(values []float64) []float64 {
	n := len(values)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return values[idx[a]] < values[idx[b]] })

	ranks := make([]float64, n)
	for i := 0; i < n; {
		j := i
		for j < n && values[idx[j]] == values[idx[i]] {
			j++
		}
		// средний из 1-базных рангов i+1..j
		avg := float64(i+1+j) / 2
		for k := i; k < j; k++ {
			ranks[idx[k]] = avg
		}
		i = j
	}

	out := make([]float64, n)
	for i, r := range ranks {
		out[i] = r / float64(n) * 100
	}
	return out
}

// computeStats рассчитывает распределение значений; квантили с линейной
// интерполяцией
func computeStats(values []float64) *domain.RiskStats {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	return &domain.RiskStats{
		Count:  len(sorted),
		Min:    sorted[0],
		P25:    quantile(sorted, 0.25),
		Median: quantile(sorted, 0.50),
		P75:    quantile(sorted, 0.75),
		P90:    quantile(sorted, 0.90),
		P95:    quantile(sorted, 0.95),
		Max:    sorted[len(sorted)-1],
	}
}

func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}
