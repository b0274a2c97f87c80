package repository

import (
	"context"

	"github.com/building-riskmap/internal/domain"
)

// BuildingRepository определяет доступ к входному набору данных о зданиях
type BuildingRepository interface {
	// LoadBuildings читает все записи о зданиях из источника.
	// Записи с невалидными атрибутами риска пропускаются и учитываются
	// во втором возвращаемом значении.
	LoadBuildings(ctx context.Context) (buildings []*domain.Building, skipped int, err error)
}

// FootprintWriter записывает восстановленные контуры с метриками риска
type FootprintWriter interface {
	WriteFootprints(ctx context.Context, buildings []*domain.Building) error
}
