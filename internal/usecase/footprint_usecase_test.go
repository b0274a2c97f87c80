package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/building-riskmap/internal/domain"
	"github.com/building-riskmap/internal/pkg/errors"
	"github.com/building-riskmap/internal/usecase"
)

func edge(x1, y1, z1, x2, y2, z2 float64) domain.Segment3D {
	return domain.Segment3D{
		{X: x1, Y: y1, Z: z1, HasZ: true},
		{X: x2, Y: y2, Z: z2, HasZ: true},
	}
}

// squareWireframe - каркас здания 10x10 высотой h: наземное кольцо,
// кольцо крыши и вертикальные рёбра
func squareWireframe(h float64) domain.Wireframe {
	return domain.Wireframe{
		// ground ring
		edge(0, 0, 0, 10, 0, 0),
		edge(10, 0, 0, 10, 10, 0),
		edge(10, 10, 0, 0, 10, 0),
		edge(0, 10, 0, 0, 0, 0),
		// roof ring
		edge(0, 0, h, 10, 0, h),
		edge(10, 0, h, 10, 10, h),
		edge(10, 10, h, 0, 10, h),
		edge(0, 10, h, 0, 0, h),
		// vertical edges
		edge(0, 0, 0, 0, 0, h),
		edge(10, 0, 0, 10, 0, h),
		edge(10, 10, 0, 10, 10, h),
		edge(0, 10, 0, 0, 10, h),
	}
}

func newFootprintUC(t *testing.T) *usecase.FootprintUseCase {
	t.Helper()
	return usecase.NewFootprintUseCase(usecase.DefaultReconstructorConfig(), zap.NewNop())
}

func TestFootprintUseCase_ClosedGroundRing(t *testing.T) {
	uc := newFootprintUC(t)

	fp, err := uc.Reconstruct(squareWireframe(30))

	require.NoError(t, err)
	require.NotNil(t, fp)
	assert.Equal(t, domain.MethodRingAssembly, fp.Method)
	assert.InDelta(t, 100, fp.Area, 1e-9)
	assert.Equal(t, 4, fp.VertexCount(), "vertex count matches the ground ring")
}

func TestFootprintUseCase_GroundDangleDoesNotDegradeRing(t *testing.T) {
	uc := newFootprintUC(t)
	// замкнутое наземное кольцо плюс висячее наземное ребро от угла:
	// кольцо собирается как есть, конец отростка в контур не попадает
	w := squareWireframe(30)
	w = append(w, edge(10, 10, 0, 15, 15, 0))

	fp, err := uc.Reconstruct(w)

	require.NoError(t, err)
	require.NotNil(t, fp)
	assert.Equal(t, domain.MethodRingAssembly, fp.Method)
	assert.InDelta(t, 100, fp.Area, 1e-9)
	assert.Equal(t, 4, fp.VertexCount())
	for _, p := range fp.Ring {
		assert.NotEqual(t, 15.0, p[0], "dangle endpoint must not be pulled into the footprint")
	}
}

func TestFootprintUseCase_DanglingEdgesFallBackToHull(t *testing.T) {
	uc := newFootprintUC(t)
	// наземная цепочка не замыкается
	w := domain.Wireframe{
		edge(0, 0, 0, 10, 0, 0),
		edge(10, 0, 0, 10, 10, 0),
		edge(10, 10, 0, 0, 10, 0),
		edge(0, 0, 0, 0, 0, 30),
	}

	fp, err := uc.Reconstruct(w)

	require.NoError(t, err)
	require.NotNil(t, fp)
	assert.Equal(t, domain.MethodHullFromEdges, fp.Method)
	// оболочка концов рёбер - тот же квадрат
	assert.InDelta(t, 100, fp.Area, 1e-9)
}

func TestFootprintUseCase_NoGroundSegmentsUsesPointHull(t *testing.T) {
	uc := newFootprintUC(t)
	// каждое ребро соединяет землю с крышей: ни одного наземного ребра,
	// но у земли есть четыре точки
	w := domain.Wireframe{
		edge(0, 0, 0, 5, 5, 30),
		edge(10, 0, 0, 5, 5, 30),
		edge(10, 10, 0, 5, 5, 30),
		edge(0, 10, 0, 5, 5, 30),
	}

	fp, err := uc.Reconstruct(w)

	require.NoError(t, err)
	require.NotNil(t, fp)
	assert.Equal(t, domain.MethodHullFromPoints, fp.Method)
	assert.InDelta(t, 100, fp.Area, 1e-9)
}

func TestFootprintUseCase_SelfIntersectingRingIsRepaired(t *testing.T) {
	uc := newFootprintUC(t)
	// наземное кольцо-"бантик" с одним пересечением
	w := domain.Wireframe{
		edge(0, 0, 0, 10, 0, 0),
		edge(10, 0, 0, 0, 4, 0),
		edge(0, 4, 0, 6, 4, 0),
		edge(6, 4, 0, 0, 0, 0),
	}

	fp, err := uc.Reconstruct(w)

	require.NoError(t, err)
	require.NotNil(t, fp)
	assert.Equal(t, domain.MethodRingAssembly, fp.Method)
	assert.Greater(t, fp.Area, 0.0)
	assert.InDelta(t, 12.5, fp.Area, 1e-9, "larger lobe of the bowtie")
}

func TestFootprintUseCase_Failures(t *testing.T) {
	uc := newFootprintUC(t)

	tests := []struct {
		name        string
		wireframe   domain.Wireframe
		expectedErr error
	}{
		{
			name:        "empty wireframe",
			wireframe:   domain.Wireframe{},
			expectedErr: errors.ErrNoElevationData,
		},
		{
			name: "no elevation data",
			wireframe: domain.Wireframe{
				{{X: 0, Y: 0}, {X: 10, Y: 0}},
				{{X: 10, Y: 0}, {X: 10, Y: 10}},
			},
			expectedErr: errors.ErrNoElevationData,
		},
		{
			name: "only two ground points",
			wireframe: domain.Wireframe{
				edge(0, 0, 0, 10, 0, 0),
			},
			expectedErr: errors.ErrInsufficientGroundGeometry,
		},
		{
			name: "single point segments",
			wireframe: domain.Wireframe{
				{{X: 1, Y: 1, Z: 0, HasZ: true}},
				{{X: 2, Y: 2, Z: 0, HasZ: true}},
			},
			expectedErr: errors.ErrInsufficientGroundGeometry,
		},
		{
			name: "collinear ground points",
			wireframe: domain.Wireframe{
				edge(0, 0, 0, 5, 0, 0),
				edge(5, 0, 0, 10, 0, 0),
			},
			expectedErr: errors.ErrInsufficientGroundGeometry,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fp, err := uc.Reconstruct(tt.wireframe)

			assert.Nil(t, fp)
			assert.ErrorIs(t, err, tt.expectedErr)
		})
	}
}

func TestFootprintUseCase_ZeroLengthSegmentsFiltered(t *testing.T) {
	uc := newFootprintUC(t)
	w := squareWireframe(30)
	w = append(w, edge(3, 3, 0, 3, 3, 0))

	fp, err := uc.Reconstruct(w)

	require.NoError(t, err)
	assert.InDelta(t, 100, fp.Area, 1e-9)
}

func TestFootprintUseCase_GroundToleranceIsConfigurable(t *testing.T) {
	cfg := usecase.DefaultReconstructorConfig()
	cfg.GroundTolerance = 2.0
	uc := usecase.NewFootprintUseCase(cfg, zap.NewNop())

	// кольцо слегка "гуляет" по высоте в пределах расширенного допуска
	w := domain.Wireframe{
		edge(0, 0, 0, 10, 0, 1.5),
		edge(10, 0, 1.5, 10, 10, 0.5),
		edge(10, 10, 0.5, 0, 10, 1.0),
		edge(0, 10, 1.0, 0, 0, 0),
	}

	fp, err := uc.Reconstruct(w)

	require.NoError(t, err)
	assert.Equal(t, domain.MethodRingAssembly, fp.Method)

	// со стандартным допуском 0.5 то же кольцо не собирается
	strict := newFootprintUC(t)
	fp, err = strict.Reconstruct(w)
	assert.Nil(t, fp)
	assert.Error(t, err)
}

func TestFootprintUseCase_Idempotence(t *testing.T) {
	uc := newFootprintUC(t)
	w := squareWireframe(25)

	first, err := uc.Reconstruct(w)
	require.NoError(t, err)
	second, err := uc.Reconstruct(w)
	require.NoError(t, err)

	assert.Equal(t, first.Ring, second.Ring, "reconstruction must be deterministic")
	assert.Equal(t, first.Area, second.Area)
	assert.Equal(t, first.Method, second.Method)
}

func TestFootprintUseCase_ReconstructBatch(t *testing.T) {
	uc := newFootprintUC(t)
	buildings := []*domain.Building{
		{ID: "ok-1", Wireframe: squareWireframe(30)},
		{ID: "bad", Wireframe: domain.Wireframe{edge(0, 0, 0, 1, 0, 0)}},
		{ID: "ok-2", Wireframe: squareWireframe(12)},
	}

	survivors, report := uc.ReconstructBatch(buildings)

	require.Len(t, survivors, 2)
	assert.Equal(t, 3, report.Total)
	assert.Equal(t, 2, report.Reconstructed)
	assert.Equal(t, 1, report.Dropped)
	assert.Equal(t, 2, report.ByMethod[domain.MethodRingAssembly])
	for _, b := range survivors {
		assert.NotNil(t, b.Footprint)
	}
}
