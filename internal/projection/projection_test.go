package projection

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/building-riskmap/internal/domain"
	"github.com/building-riskmap/internal/pkg/errors"
)

func TestNew_SupportedCodes(t *testing.T) {
	for _, epsg := range []int{4326, 3857, 32633, 32733, 25832} {
		_, err := New(epsg)
		assert.NoError(t, err, "EPSG:%d", epsg)
	}
}

func TestNew_UnsupportedCode(t *testing.T) {
	_, err := New(2154)
	assert.ErrorIs(t, err, errors.ErrUnsupportedCRS)
}

func TestTransformer_Passthrough4326(t *testing.T) {
	tr, err := New(4326)
	require.NoError(t, err)

	p := orb.Point{13.4, 52.5}
	assert.Equal(t, p, tr.ToWGS84(p))
}

func TestTransformer_WebMercator(t *testing.T) {
	tr, err := New(3857)
	require.NoError(t, err)

	t.Run("origin", func(t *testing.T) {
		p := tr.ToWGS84(orb.Point{0, 0})
		assert.InDelta(t, 0, p[0], 1e-9)
		assert.InDelta(t, 0, p[1], 1e-9)
	})

	t.Run("known point", func(t *testing.T) {
		// 20037508.34 - край проекции по долготе
		p := tr.ToWGS84(orb.Point{20037508.342789244, 0})
		assert.InDelta(t, 180, p[0], 1e-6)
	})
}

func TestTransformer_UTMRoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		epsg     int
		ell      ellipsoid
		zone     int
		north    bool
		lon, lat float64
	}{
		{name: "Berlin zone 33N", epsg: 32633, ell: wgs84Ellipsoid, zone: 33, north: true, lon: 13.4, lat: 52.5},
		{name: "ETRS89 zone 32N", epsg: 25832, ell: etrs89Ellipsoid, zone: 32, north: true, lon: 9.2, lat: 48.8},
		{name: "southern hemisphere zone 33S", epsg: 32733, ell: wgs84Ellipsoid, zone: 33, north: false, lon: 14.5, lat: -22.6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := New(tt.epsg)
			require.NoError(t, err)

			forward := forwardUTM(tt.ell, tt.zone, tt.north)
			projected := forward(tt.lon, tt.lat)
			back := tr.ToWGS84(projected)

			assert.InDelta(t, tt.lon, back[0], 1e-6)
			assert.InDelta(t, tt.lat, back[1], 1e-6)
		})
	}
}

func TestTransformer_UTMCentralMeridian(t *testing.T) {
	// центральный меридиан зоны 33 (15° в.д.) на экваторе - это
	// ложный сдвиг 500000 м, northing 0
	tr, err := New(32633)
	require.NoError(t, err)

	p := tr.ToWGS84(orb.Point{500000, 0})
	assert.InDelta(t, 15, p[0], 1e-7)
	assert.InDelta(t, 0, p[1], 1e-7)
}

func TestReprojectFootprints(t *testing.T) {
	tr, err := New(32633)
	require.NoError(t, err)

	original := &domain.Footprint{
		Ring:   orb.Ring{{500000, 0}, {500010, 0}, {500010, 10}, {500000, 10}, {500000, 0}},
		Area:   100,
		Method: domain.MethodRingAssembly,
	}
	b := &domain.Building{ID: "b1", Footprint: original}

	ReprojectFootprints(tr, []*domain.Building{b})

	assert.NotSame(t, original, b.Footprint, "reprojection creates a new footprint")
	assert.Equal(t, 100.0, b.Footprint.Area, "area stays in source units")
	assert.Equal(t, domain.MethodRingAssembly, b.Footprint.Method)
	assert.InDelta(t, 15, b.Footprint.Ring[0][0], 1e-6)
	// исходный контур не изменился
	assert.Equal(t, orb.Point{500000, 0}, original.Ring[0])
}

func TestReprojectFootprints_SkipsGeographic(t *testing.T) {
	tr, err := New(4326)
	require.NoError(t, err)

	fp := &domain.Footprint{Ring: orb.Ring{{1, 2}, {3, 4}, {5, 6}, {1, 2}}}
	b := &domain.Building{Footprint: fp}

	ReprojectFootprints(tr, []*domain.Building{b})

	assert.Same(t, fp, b.Footprint)
}
