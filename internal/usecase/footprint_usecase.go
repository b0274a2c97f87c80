package usecase

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"go.uber.org/zap"

	"github.com/building-riskmap/internal/domain"
	"github.com/building-riskmap/internal/geometry"
	"github.com/building-riskmap/internal/pkg/errors"
)

// ReconstructorConfig - допуски реконструкции, настраиваемые под набор данных
type ReconstructorConfig struct {
	// GroundTolerance - допуск отнесения точки к уровню земли
	GroundTolerance float64
	// MinSegmentLength - порог отсечения вырожденных 2D сегментов
	MinSegmentLength float64
	// MinArea - минимальная площадь валидного контура
	MinArea float64
}

// DefaultReconstructorConfig возвращает допуски по умолчанию
func DefaultReconstructorConfig() ReconstructorConfig {
	return ReconstructorConfig{
		GroundTolerance:  0.5,
		MinSegmentLength: 1e-10,
		MinArea:          1e-10,
	}
}

// assemblyStrategy - одна стратегия сборки контура. Стратегии пробуются
// по порядку, от точной сборки колец к выпуклым оболочкам.
type assemblyStrategy struct {
	name     string
	assemble func(in *assemblyInput) *domain.Footprint
}

type assemblyInput struct {
	wireframe      domain.Wireframe
	minZ           float64
	groundSegments []orb.LineString
	repairFailed   bool
}

// FootprintUseCase восстанавливает 2D контуры зданий из 3D каркасов.
// Без состояния между зданиями: каждая реконструкция независима.
type FootprintUseCase struct {
	cfg        ReconstructorConfig
	logger     *zap.Logger
	strategies []assemblyStrategy
}

// NewFootprintUseCase создает новый экземпляр FootprintUseCase
func NewFootprintUseCase(cfg ReconstructorConfig, logger *zap.Logger) *FootprintUseCase {
	uc := &FootprintUseCase{
		cfg:    cfg,
		logger: logger,
	}
	uc.strategies = []assemblyStrategy{
		{name: domain.MethodRingAssembly, assemble: uc.assembleRings},
		{name: domain.MethodHullFromEdges, assemble: uc.hullFromEdges},
		{name: domain.MethodHullFromPoints, assemble: uc.hullFromPoints},
	}
	return uc
}

// Reconstruct восстанавливает контур одного здания. При неудаче возвращает
// типизированную ошибку; здание отбрасывается вызывающей стороной.
// Любой сбой геометрических операций перехватывается и превращается в
// ошибку, а не панику.
func (uc *FootprintUseCase) Reconstruct(w domain.Wireframe) (fp *domain.Footprint, err error) {
	defer func() {
		if r := recover(); r != nil {
			fp = nil
			err = fmt.Errorf("%w: %v", errors.ErrGeometryFault, r)
		}
	}()

	minZ, ok := w.MinElevation()
	if !ok {
		return nil, errors.ErrNoElevationData
	}

	in := &assemblyInput{
		wireframe:      w,
		minZ:           minZ,
		groundSegments: uc.extractGroundSegments(w, minZ),
	}

	for _, s := range uc.strategies {
		if fp := s.assemble(in); fp != nil {
			return fp, nil
		}
	}
	if in.repairFailed {
		return nil, errors.ErrGeometryRepairFailure
	}
	return nil, errors.ErrInsufficientGroundGeometry
}

// ReconstructBatch обрабатывает здания по одному, отбрасывая неудачные.
// Возвращает выжившие здания и отчет: число входных против числа
// восстановленных, чтобы потеря данных была наблюдаемой.
func (uc *FootprintUseCase) ReconstructBatch(buildings []*domain.Building) ([]*domain.Building, *domain.BatchReport) {
	report := domain.NewBatchReport(len(buildings))
	survivors := make([]*domain.Building, 0, len(buildings))

	for _, b := range buildings {
		fp, err := uc.Reconstruct(b.Wireframe)
		if err != nil {
			report.Dropped++
			uc.logger.Debug("Building dropped",
				zap.String("building_id", b.ID),
				zap.Error(err))
			continue
		}
		b.Footprint = fp
		report.Reconstructed++
		report.ByMethod[fp.Method]++
		survivors = append(survivors, b)
	}

	uc.logger.Info("Footprint reconstruction finished",
		zap.Int("total", report.Total),
		zap.Int("reconstructed", report.Reconstructed),
		zap.Int("dropped", report.Dropped))
	if report.Dropped > 0 {
		uc.logger.Warn("Some buildings could not be converted",
			zap.Int("dropped", report.Dropped))
	}
	return survivors, report
}

// extractGroundSegments отбирает рёбра, оба конца которых лежат на уровне
// земли, и проецирует их в 2D. У сегментов с более чем двумя точками
// проверяются только первая и последняя.
func (uc *FootprintUseCase) extractGroundSegments(w domain.Wireframe, minZ float64) []orb.LineString {
	var segments []orb.LineString
	for _, seg := range w {
		if len(seg) < 2 {
			continue
		}
		p1, p2 := seg.First(), seg.Last()
		if !p1.HasZ || !p2.HasZ {
			continue
		}
		if math.Abs(p1.Z-minZ) >= uc.cfg.GroundTolerance || math.Abs(p2.Z-minZ) >= uc.cfg.GroundTolerance {
			continue
		}
		ls := orb.LineString{{p1.X, p1.Y}, {p2.X, p2.Y}}
		if planar.Length(ls) > uc.cfg.MinSegmentLength {
			segments = append(segments, ls)
		}
	}
	return segments
}

// assembleRings - основная стратегия: полигонизация наземных рёбер как
// планарного графа. Из нескольких граней берётся наибольшая по площади
// (внешний контур; дыры и фрагменты отбрасываются). Невалидное кольцо
// ремонтируется нодированием самопересечений.
func (uc *FootprintUseCase) assembleRings(in *assemblyInput) *domain.Footprint {
	if len(in.groundSegments) == 0 {
		return nil
	}

	rings := geometry.Polygonize(in.groundSegments)
	if len(rings) == 0 {
		return nil
	}

	best := rings[0]
	for _, r := range rings[1:] {
		if math.Abs(geometry.SignedArea(r)) > math.Abs(geometry.SignedArea(best)) {
			best = r
		}
	}

	if !geometry.IsValidRing(best, uc.cfg.MinArea) {
		repaired, ok := geometry.RepairRing(best, uc.cfg.MinArea)
		if !ok {
			in.repairFailed = true
			uc.logger.Debug("Ring repair failed, falling back to hull",
				zap.Int("vertices", len(best)))
			return nil
		}
		best = repaired
	}

	return &domain.Footprint{
		Ring:   best,
		Area:   math.Abs(planar.Area(best)),
		Method: domain.MethodRingAssembly,
	}
}

// hullFromEdges - первый фолбэк: выпуклая оболочка концов наземных рёбер
func (uc *FootprintUseCase) hullFromEdges(in *assemblyInput) *domain.Footprint {
	if len(in.groundSegments) == 0 {
		return nil
	}

	var endpoints []orb.Point
	for _, seg := range in.groundSegments {
		endpoints = append(endpoints, seg[0], seg[len(seg)-1])
	}

	hull := geometry.ConvexHull(endpoints)
	if hull == nil || !geometry.IsValidRing(hull, uc.cfg.MinArea) {
		return nil
	}
	return &domain.Footprint{
		Ring:   hull,
		Area:   math.Abs(planar.Area(hull)),
		Method: domain.MethodHullFromEdges,
	}
}

// hullFromPoints - второй фолбэк, только когда наземных рёбер нет вовсе:
// выпуклая оболочка всех точек каркаса вблизи уровня земли
func (uc *FootprintUseCase) hullFromPoints(in *assemblyInput) *domain.Footprint {
	if len(in.groundSegments) > 0 {
		return nil
	}

	ground := in.wireframe.GroundPoints(in.minZ, uc.cfg.GroundTolerance)
	points := make([]orb.Point, 0, len(ground))
	for _, p := range ground {
		points = append(points, orb.Point{p.X, p.Y})
	}

	hull := geometry.ConvexHull(points)
	if hull == nil || !geometry.IsValidRing(hull, uc.cfg.MinArea) {
		return nil
	}
	return &domain.Footprint{
		Ring:   hull,
		Area:   math.Abs(planar.Area(hull)),
		Method: domain.MethodHullFromPoints,
	}
}
