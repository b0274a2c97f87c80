package geojson

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/building-riskmap/internal/domain"
	"github.com/building-riskmap/internal/domain/repository"
	"github.com/building-riskmap/internal/pkg/errors"
	"github.com/building-riskmap/internal/pkg/validator"
)

// Загрузчик читает GeoJSON напрямую, без orb/geojson: orb.Point хранит
// только X и Y, а каркасы зданий несут третью координату, которую нельзя
// терять до реконструкции.

type buildingRepository struct {
	path   string
	logger *zap.Logger
}

// NewBuildingRepository создает репозиторий зданий поверх GeoJSON файла
func NewBuildingRepository(path string, logger *zap.Logger) repository.BuildingRepository {
	return &buildingRepository{
		path:   path,
		logger: logger,
	}
}

type rawFeatureCollection struct {
	Type     string       `json:"type"`
	Features []rawFeature `json:"features"`
}

type rawFeature struct {
	ID         json.RawMessage    `json:"id,omitempty"`
	Geometry   *rawGeometry       `json:"geometry"`
	Properties buildingProperties `json:"properties"`
}

type rawGeometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

type buildingProperties struct {
	ExpectedDeathsMean *float64 `json:"expected_deaths_mean" validate:"required,gte=0"`
	ExpectedDeathsStd  *float64 `json:"expected_deaths_std" validate:"required,gte=0"`
	NumOccupants       *float64 `json:"num_occupants" validate:"omitempty,gte=0"`
	MeasuredHeight     *float64 `json:"citygml_measured_height"`
	HeightUnits        string   `json:"citygml_measured_height_units"`
	Storeys            *int     `json:"citygml_storeys_above_ground"`
	RoofType           string   `json:"citygml_roof_type"`
}

// LoadBuildings читает все записи о зданиях. Записи с невалидными
// атрибутами риска пропускаются с предупреждением; пакет продолжается.
func (r *buildingRepository) LoadBuildings(ctx context.Context) ([]*domain.Building, int, error) {
	select {
	case <-ctx.Done():
		return nil, 0, ctx.Err()
	default:
	}

	data, err := os.ReadFile(r.path)
	if os.IsNotExist(err) {
		return nil, 0, fmt.Errorf("%w: %s", errors.ErrDatasetNotFound, r.path)
	}
	if err != nil {
		return nil, 0, fmt.Errorf("read dataset: %w", err)
	}

	var fc rawFeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, 0, fmt.Errorf("parse dataset: %w", err)
	}

	buildings := make([]*domain.Building, 0, len(fc.Features))
	skipped := 0
	for i, f := range fc.Features {
		b, err := r.toBuilding(f)
		if err != nil {
			skipped++
			r.logger.Warn("Skipping invalid building record",
				zap.Int("feature_index", i),
				zap.Error(err))
			continue
		}
		buildings = append(buildings, b)
	}

	r.logger.Info("Dataset loaded",
		zap.String("path", r.path),
		zap.Int("buildings", len(buildings)),
		zap.Int("skipped", skipped))
	return buildings, skipped, nil
}

func (r *buildingRepository) toBuilding(f rawFeature) (*domain.Building, error) {
	if f.Geometry == nil {
		return nil, fmt.Errorf("%w: feature has no geometry", errors.ErrInvalidGeometryType)
	}

	wireframe, err := parseWireframe(f.Geometry)
	if err != nil {
		return nil, err
	}

	if err := validator.Validate(f.Properties); err != nil {
		return nil, fmt.Errorf("invalid risk attributes: %w", err)
	}

	b := &domain.Building{
		ID:        featureID(f.ID),
		Wireframe: wireframe,
		Risk: domain.RiskAttributes{
			ExpectedDeathsMean: *f.Properties.ExpectedDeathsMean,
			ExpectedDeathsStd:  *f.Properties.ExpectedDeathsStd,
			HeightUnits:        f.Properties.HeightUnits,
			RoofType:           f.Properties.RoofType,
		},
	}
	if f.Properties.NumOccupants != nil {
		b.Risk.NumOccupants = *f.Properties.NumOccupants
	}
	if f.Properties.MeasuredHeight != nil {
		b.Risk.MeasuredHeight = *f.Properties.MeasuredHeight
	}
	if f.Properties.Storeys != nil {
		b.Risk.StoreysAboveGround = *f.Properties.Storeys
	}
	return b, nil
}

// parseWireframe разбирает MultiLineString или LineString, сохраняя Z
func parseWireframe(g *rawGeometry) (domain.Wireframe, error) {
	switch g.Type {
	case "MultiLineString":
		var coords [][][]float64
		if err := json.Unmarshal(g.Coordinates, &coords); err != nil {
			return nil, fmt.Errorf("parse MultiLineString coordinates: %w", err)
		}
		wf := make(domain.Wireframe, 0, len(coords))
		for _, line := range coords {
			wf = append(wf, toSegment(line))
		}
		return wf, nil
	case "LineString":
		var coords [][]float64
		if err := json.Unmarshal(g.Coordinates, &coords); err != nil {
			return nil, fmt.Errorf("parse LineString coordinates: %w", err)
		}
		return domain.Wireframe{toSegment(coords)}, nil
	default:
		return nil, fmt.Errorf("%w: %s", errors.ErrInvalidGeometryType, g.Type)
	}
}

func toSegment(line [][]float64) domain.Segment3D {
	seg := make(domain.Segment3D, 0, len(line))
	for _, c := range line {
		if len(c) < 2 {
			continue
		}
		p := domain.Point3D{X: c[0], Y: c[1]}
		if len(c) >= 3 {
			p.Z = c[2]
			p.HasZ = true
		}
		seg = append(seg, p)
	}
	return seg
}

// featureID извлекает идентификатор фичи; без него здание получает UUID,
// чтобы отброшенные здания были прослеживаемы в логах
func featureID(raw json.RawMessage) string {
	if len(raw) > 0 {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil && s != "" {
			return s
		}
		var n json.Number
		if err := json.Unmarshal(raw, &n); err == nil {
			return n.String()
		}
	}
	return uuid.New().String()
}
