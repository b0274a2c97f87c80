package geometry_test

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/building-riskmap/internal/geometry"
)

func seg(x1, y1, x2, y2 float64) orb.LineString {
	return orb.LineString{{x1, y1}, {x2, y2}}
}

func squareSegments(x, y, size float64) []orb.LineString {
	return []orb.LineString{
		seg(x, y, x+size, y),
		seg(x+size, y, x+size, y+size),
		seg(x+size, y+size, x, y+size),
		seg(x, y+size, x, y),
	}
}

func TestPolygonize_ClosedSquare(t *testing.T) {
	rings := geometry.Polygonize(squareSegments(0, 0, 10))

	require.Len(t, rings, 1)
	ring := rings[0]
	assert.Equal(t, ring[0], ring[len(ring)-1], "ring must be closed")
	assert.Len(t, ring, 5, "square ring has 4 vertices plus closing point")
	assert.InDelta(t, 100, geometry.SignedArea(ring), 1e-9)
}

func TestPolygonize_SegmentOrderIndependence(t *testing.T) {
	segs := squareSegments(0, 0, 10)
	shuffled := []orb.LineString{segs[2], segs[0], segs[3], segs[1]}

	a := geometry.Polygonize(segs)
	b := geometry.Polygonize(shuffled)

	require.Len(t, a, 1)
	require.Len(t, b, 1)
	assert.InDelta(t, geometry.SignedArea(a[0]), geometry.SignedArea(b[0]), 1e-9)
}

func TestPolygonize_TwoAdjacentSquares(t *testing.T) {
	// два квадрата с общим ребром дают две грани
	segs := []orb.LineString{
		seg(0, 0, 1, 0),
		seg(1, 0, 1, 1),
		seg(1, 1, 0, 1),
		seg(0, 1, 0, 0),
		seg(1, 0, 2, 0),
		seg(2, 0, 2, 1),
		seg(2, 1, 1, 1),
	}

	rings := geometry.Polygonize(segs)

	require.Len(t, rings, 2)
	total := 0.0
	for _, r := range rings {
		total += geometry.SignedArea(r)
	}
	assert.InDelta(t, 2, total, 1e-9)
}

func TestPolygonize_Degenerate(t *testing.T) {
	tests := []struct {
		name     string
		segments []orb.LineString
		expected int
	}{
		{
			name:     "empty input",
			segments: nil,
			expected: 0,
		},
		{
			name: "open chain yields no faces",
			segments: []orb.LineString{
				seg(0, 0, 1, 0),
				seg(1, 0, 1, 1),
				seg(1, 1, 0, 1),
			},
			expected: 0,
		},
		{
			name: "single dangling segment",
			segments: []orb.LineString{
				seg(0, 0, 5, 5),
			},
			expected: 0,
		},
		{
			name: "zero length segment ignored",
			segments: []orb.LineString{
				seg(3, 3, 3, 3),
			},
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rings := geometry.Polygonize(tt.segments)
			assert.Len(t, rings, tt.expected)
		})
	}
}

func TestPolygonize_DanglingEdgeDoesNotBreakRing(t *testing.T) {
	// висячее ребро срезается целиком: его вершины не попадают в кольцо
	segs := append(squareSegments(0, 0, 10), seg(10, 10, 15, 15))

	rings := geometry.Polygonize(segs)

	require.Len(t, rings, 1)
	ring := rings[0]
	assert.InDelta(t, 100, geometry.SignedArea(ring), 1e-9)
	assert.Len(t, ring, 5, "dangle vertices must not appear in the ring")
	assert.True(t, geometry.IsSimple(ring))
	assert.NotContains(t, ring, orb.Point{15, 15})
}

func TestPolygonize_DanglingChainPruned(t *testing.T) {
	// цепочка из двух висячих рёбер снимается итеративно: после среза
	// внешнего ребра степень промежуточной вершины падает до единицы
	segs := append(squareSegments(0, 0, 10),
		seg(10, 10, 15, 15),
		seg(15, 15, 20, 10),
	)

	rings := geometry.Polygonize(segs)

	require.Len(t, rings, 1)
	ring := rings[0]
	assert.InDelta(t, 100, geometry.SignedArea(ring), 1e-9)
	assert.Len(t, ring, 5)
	assert.NotContains(t, ring, orb.Point{15, 15})
	assert.NotContains(t, ring, orb.Point{20, 10})
}

func TestPolygonize_DuplicateSegmentsIgnored(t *testing.T) {
	segs := squareSegments(0, 0, 4)
	segs = append(segs, seg(0, 0, 4, 0), seg(4, 0, 0, 0))

	rings := geometry.Polygonize(segs)

	require.Len(t, rings, 1)
	assert.InDelta(t, 16, geometry.SignedArea(rings[0]), 1e-9)
}

func TestSignedArea(t *testing.T) {
	ccw := orb.Ring{{0, 0}, {4, 0}, {4, 4}, {0, 4}, {0, 0}}
	cw := orb.Ring{{0, 0}, {0, 4}, {4, 4}, {4, 0}, {0, 0}}

	assert.InDelta(t, 16, geometry.SignedArea(ccw), 1e-9)
	assert.InDelta(t, -16, geometry.SignedArea(cw), 1e-9)
	assert.Equal(t, 0.0, geometry.SignedArea(orb.Ring{{0, 0}, {1, 1}}))
	assert.True(t, math.Abs(geometry.SignedArea(orb.Ring{{0, 0}, {1, 1}, {2, 2}, {0, 0}})) < 1e-12,
		"collinear ring has no area")
}
