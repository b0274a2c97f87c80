package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/building-riskmap/internal/config"
	"github.com/building-riskmap/internal/delivery/htmlmap"
	"github.com/building-riskmap/internal/delivery/staticplot"
	"github.com/building-riskmap/internal/pkg/logger"
	"github.com/building-riskmap/internal/projection"
	"github.com/building-riskmap/internal/repository/geojson"
	"github.com/building-riskmap/internal/usecase"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting building risk map pipeline")
	log.Info("Configuration loaded",
		zap.String("dataset", cfg.Dataset.Path),
		zap.Int("source_epsg", cfg.Dataset.SourceEPSG),
		zap.Float64("ground_tolerance", cfg.Reconstructor.GroundTolerance),
		zap.String("output_dir", cfg.Output.Dir))

	// 3. Prepare the CRS transformer early so a bad EPSG fails the batch
	// before any work is done
	transformer, err := projection.New(cfg.Dataset.SourceEPSG)
	if err != nil {
		log.Fatal("Unsupported source CRS", zap.Error(err))
	}

	// 4. Load the building dataset
	ctx := context.Background()
	repo := geojson.NewBuildingRepository(cfg.Dataset.Path, log)
	buildings, skipped, err := repo.LoadBuildings(ctx)
	if err != nil {
		log.Fatal("Failed to load dataset", zap.Error(err))
	}
	if len(buildings) == 0 {
		log.Fatal("Dataset contains no usable buildings",
			zap.Int("skipped", skipped))
	}

	// 5. Reconstruct 2D footprints from 3D wireframes
	footprintUC := usecase.NewFootprintUseCase(usecase.ReconstructorConfig{
		GroundTolerance:  cfg.Reconstructor.GroundTolerance,
		MinSegmentLength: cfg.Reconstructor.MinSegmentLength,
		MinArea:          cfg.Reconstructor.MinArea,
	}, log)
	survivors, report := footprintUC.ReconstructBatch(buildings)
	if len(survivors) == 0 {
		log.Fatal("No valid footprints after reconstruction",
			zap.Int("total", report.Total))
	}

	// 6. Classify risk across the batch
	riskUC := usecase.NewRiskUseCase(log)
	stats := riskUC.Classify(survivors, report)

	// 7. Reproject footprints to WGS84 for web mapping
	projection.ReprojectFootprints(transformer, survivors)

	// 8. Write outputs
	if cfg.Output.WriteGeoJSON {
		writer := geojson.NewFootprintWriter(cfg.GeoJSONPath(), log)
		if err := writer.WriteFootprints(ctx, survivors); err != nil {
			log.Fatal("Failed to write footprint GeoJSON", zap.Error(err))
		}
	}

	renderer, err := htmlmap.NewRenderer(htmlmap.Options{
		Title:     cfg.Map.Title,
		Zoom:      cfg.Map.Zoom,
		ColorMode: cfg.Map.ColorMode,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize map renderer", zap.Error(err))
	}
	if err := renderer.RenderFile(cfg.MapPath(), survivors, stats); err != nil {
		log.Fatal("Failed to render interactive map", zap.Error(err))
	}

	if cfg.Output.StaticPlots {
		plots := staticplot.NewRenderer(cfg.Output.Dir, log)
		if err := plots.RenderAll(survivors); err != nil {
			log.Fatal("Failed to render static plots", zap.Error(err))
		}
	}

	// 9. Final batch report
	log.Info("Pipeline finished",
		zap.Int("input_buildings", report.Total),
		zap.Int("footprints", report.Reconstructed),
		zap.Int("dropped", report.Dropped),
		zap.Int("skipped_records", skipped),
		zap.Any("by_method", report.ByMethod),
		zap.Any("by_category", report.ByCategory))

	if report.Reconstructed < report.Total {
		log.Warn("Some buildings were lost during reconstruction",
			zap.Int("lost", report.Total-report.Reconstructed))
	}
}
