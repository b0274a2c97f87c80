package geojson_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/building-riskmap/internal/pkg/errors"
	repo "github.com/building-riskmap/internal/repository/geojson"
)

const sampleDataset = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "id": "bldg-001",
      "geometry": {
        "type": "MultiLineString",
        "coordinates": [
          [[0, 0, 12.5], [10, 0, 12.5]],
          [[10, 0, 12.5], [10, 10, 42.5]],
          [[0, 0], [5, 5]]
        ]
      },
      "properties": {
        "expected_deaths_mean": 1.2e-6,
        "expected_deaths_std": 3.4e-7,
        "num_occupants": 12,
        "citygml_measured_height": 30.2,
        "citygml_measured_height_units": "m",
        "citygml_storeys_above_ground": 9,
        "citygml_roof_type": "flat"
      }
    },
    {
      "type": "Feature",
      "geometry": {
        "type": "LineString",
        "coordinates": [[0, 0, 1], [1, 1, 1]]
      },
      "properties": {
        "expected_deaths_mean": 2e-6,
        "expected_deaths_std": 1e-7
      }
    },
    {
      "type": "Feature",
      "geometry": {
        "type": "MultiLineString",
        "coordinates": [[[0, 0, 1], [1, 1, 1]]]
      },
      "properties": {
        "expected_deaths_std": 1e-7
      }
    },
    {
      "type": "Feature",
      "geometry": {
        "type": "Point",
        "coordinates": [0, 0]
      },
      "properties": {
        "expected_deaths_mean": 1e-6,
        "expected_deaths_std": 1e-7
      }
    }
  ]
}`

func writeTempDataset(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "buildings.geojson")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestBuildingRepository_LoadBuildings(t *testing.T) {
	path := writeTempDataset(t, sampleDataset)
	r := repo.NewBuildingRepository(path, zap.NewNop())

	buildings, skipped, err := r.LoadBuildings(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, skipped, "record without mean and point geometry are skipped")
	require.Len(t, buildings, 2)

	first := buildings[0]
	assert.Equal(t, "bldg-001", first.ID)
	assert.InDelta(t, 1.2e-6, first.Risk.ExpectedDeathsMean, 1e-12)
	assert.InDelta(t, 3.4e-7, first.Risk.ExpectedDeathsStd, 1e-12)
	assert.Equal(t, 12.0, first.Risk.NumOccupants)
	assert.Equal(t, "m", first.Risk.HeightUnits)
	assert.Equal(t, 9, first.Risk.StoreysAboveGround)
	assert.Equal(t, "flat", first.Risk.RoofType)

	require.Len(t, first.Wireframe, 3)
	// Z сохраняется при загрузке
	p := first.Wireframe[0].First()
	assert.True(t, p.HasZ)
	assert.Equal(t, 12.5, p.Z)
	assert.Equal(t, 42.5, first.Wireframe[1].Last().Z)
	// точки без третьей координаты помечаются
	assert.False(t, first.Wireframe[2].First().HasZ)

	// фича без id получает сгенерированный идентификатор
	second := buildings[1]
	assert.NotEmpty(t, second.ID)
	require.Len(t, second.Wireframe, 1)
}

func TestBuildingRepository_MissingFile(t *testing.T) {
	r := repo.NewBuildingRepository(filepath.Join(t.TempDir(), "nope.geojson"), zap.NewNop())

	_, _, err := r.LoadBuildings(context.Background())

	assert.ErrorIs(t, err, errors.ErrDatasetNotFound)
}

func TestBuildingRepository_MalformedJSON(t *testing.T) {
	path := writeTempDataset(t, `{"type": "FeatureCollection", "features": [`)
	r := repo.NewBuildingRepository(path, zap.NewNop())

	_, _, err := r.LoadBuildings(context.Background())

	assert.Error(t, err)
}

func TestBuildingRepository_NegativeRiskRejected(t *testing.T) {
	path := writeTempDataset(t, `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "geometry": {"type": "LineString", "coordinates": [[0, 0, 1], [1, 1, 1]]},
      "properties": {"expected_deaths_mean": -1e-6, "expected_deaths_std": 1e-7}
    }
  ]
}`)
	r := repo.NewBuildingRepository(path, zap.NewNop())

	buildings, skipped, err := r.LoadBuildings(context.Background())

	require.NoError(t, err)
	assert.Empty(t, buildings)
	assert.Equal(t, 1, skipped)
}
