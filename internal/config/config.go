package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

type Config struct {
	Dataset       DatasetConfig
	Reconstructor ReconstructorConfig
	Output        OutputConfig
	Map           MapConfig
	Log           LogConfig
}

type DatasetConfig struct {
	Path       string
	SourceEPSG int
}

type ReconstructorConfig struct {
	GroundTolerance  float64
	MinSegmentLength float64
	MinArea          float64
}

type OutputConfig struct {
	Dir          string
	GeoJSONName  string
	MapName      string
	StaticPlots  bool
	WriteGeoJSON bool
}

type MapConfig struct {
	Title     string
	Zoom      int
	ColorMode string
}

type LogConfig struct {
	Level string
}

func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	// .env не обязателен: все параметры доступны из окружения
	if err := viper.ReadInConfig(); err != nil {
		if _, statErr := os.Stat(".env"); statErr == nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{
		Dataset: DatasetConfig{
			Path:       viper.GetString("DATASET_PATH"),
			SourceEPSG: viper.GetInt("SOURCE_EPSG"),
		},
		Reconstructor: ReconstructorConfig{
			GroundTolerance:  viper.GetFloat64("GROUND_TOLERANCE"),
			MinSegmentLength: viper.GetFloat64("MIN_SEGMENT_LENGTH"),
			MinArea:          viper.GetFloat64("MIN_AREA"),
		},
		Output: OutputConfig{
			Dir:          viper.GetString("OUTPUT_DIR"),
			GeoJSONName:  viper.GetString("OUTPUT_GEOJSON_NAME"),
			MapName:      viper.GetString("OUTPUT_MAP_NAME"),
			StaticPlots:  viper.GetBool("OUTPUT_STATIC_PLOTS"),
			WriteGeoJSON: viper.GetBool("OUTPUT_WRITE_GEOJSON"),
		},
		Map: MapConfig{
			Title:     viper.GetString("MAP_TITLE"),
			Zoom:      viper.GetInt("MAP_ZOOM"),
			ColorMode: viper.GetString("MAP_COLOR_MODE"),
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
	}

	// Set default values if not provided
	if cfg.Dataset.Path == "" {
		cfg.Dataset.Path = "buildings_with_risk_data.geojson"
	}
	if cfg.Dataset.SourceEPSG == 0 {
		cfg.Dataset.SourceEPSG = 4326
	}
	if cfg.Reconstructor.GroundTolerance == 0 {
		cfg.Reconstructor.GroundTolerance = 0.5
	}
	if cfg.Reconstructor.MinSegmentLength == 0 {
		cfg.Reconstructor.MinSegmentLength = 1e-10
	}
	if cfg.Reconstructor.MinArea == 0 {
		cfg.Reconstructor.MinArea = 1e-10
	}
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = "output"
	}
	if cfg.Output.GeoJSONName == "" {
		cfg.Output.GeoJSONName = "buildings_with_risk_2d.geojson"
	}
	if cfg.Output.MapName == "" {
		cfg.Output.MapName = "building_risk_map.html"
	}
	if !viper.IsSet("OUTPUT_WRITE_GEOJSON") {
		cfg.Output.WriteGeoJSON = true
	}
	if cfg.Map.Zoom == 0 {
		cfg.Map.Zoom = 17
	}
	if cfg.Map.ColorMode == "" {
		cfg.Map.ColorMode = "category"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	return cfg, nil
}

func (c *Config) GeoJSONPath() string {
	return filepath.Join(c.Output.Dir, c.Output.GeoJSONName)
}

func (c *Config) MapPath() string {
	return filepath.Join(c.Output.Dir, c.Output.MapName)
}
