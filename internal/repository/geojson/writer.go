package geojson

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	orbgeojson "github.com/paulmach/orb/geojson"
	"go.uber.org/zap"

	"github.com/building-riskmap/internal/domain"
	"github.com/building-riskmap/internal/domain/repository"
)

type footprintWriter struct {
	path   string
	logger *zap.Logger
}

// NewFootprintWriter создает писатель 2D контуров в GeoJSON
func NewFootprintWriter(path string, logger *zap.Logger) repository.FootprintWriter {
	return &footprintWriter{
		path:   path,
		logger: logger,
	}
}

// WriteFootprints сохраняет выжившие здания как FeatureCollection из
// 2D полигонов с атрибутами риска и метриками классификации
func (w *footprintWriter) WriteFootprints(ctx context.Context, buildings []*domain.Building) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	fc := orbgeojson.NewFeatureCollection()
	for _, b := range buildings {
		if b.Footprint == nil {
			continue
		}
		f := orbgeojson.NewFeature(b.Footprint.Polygon())
		f.ID = b.ID
		f.Properties = map[string]interface{}{
			"id":                            b.ID,
			"expected_deaths_mean":          b.Risk.ExpectedDeathsMean,
			"expected_deaths_std":           b.Risk.ExpectedDeathsStd,
			"num_occupants":                 b.Risk.NumOccupants,
			"citygml_measured_height":       b.Risk.MeasuredHeight,
			"citygml_measured_height_units": b.Risk.HeightUnits,
			"citygml_storeys_above_ground":  b.Risk.StoreysAboveGround,
			"citygml_roof_type":             b.Risk.RoofType,
			"footprint_method":              b.Footprint.Method,
			"footprint_area":                b.Footprint.Area,
		}
		if b.Metrics != nil {
			f.Properties["risk_percentile"] = b.Metrics.Percentile
			f.Properties["cv"] = b.Metrics.CV
			f.Properties["risk_category"] = b.Metrics.Category
			f.Properties["category_color"] = b.Metrics.Color
		}
		fc.Append(f)
	}

	data, err := json.MarshalIndent(fc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal footprints: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(w.path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(w.path, data, 0o644); err != nil {
		return fmt.Errorf("write footprints: %w", err)
	}

	w.logger.Info("Footprint data saved",
		zap.String("path", w.path),
		zap.Int("features", len(fc.Features)))
	return nil
}
