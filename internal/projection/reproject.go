package projection

import (
	"github.com/building-riskmap/internal/domain"
)

// ReprojectFootprints заменяет контуры зданий копиями в WGS84.
// Сами Footprint не мутируются: для каждого здания создается новый.
// Площадь сохраняется в единицах исходной проекции (метрах для UTM).
func ReprojectFootprints(t *Transformer, buildings []*domain.Building) {
	if t.EPSG() == 4326 {
		return
	}
	for _, b := range buildings {
		if b.Footprint == nil {
			continue
		}
		b.Footprint = &domain.Footprint{
			Ring:   t.TransformRing(b.Footprint.Ring),
			Area:   b.Footprint.Area,
			Method: b.Footprint.Method,
		}
	}
}
