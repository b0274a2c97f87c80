package geometry

import (
	"math"
	"sort"

	"github.com/paulmach/orb"
)

const paramEps = 1e-12

// IsSimple проверяет отсутствие самопересечений замкнутого кольца.
// Соседние рёбра, разделяющие вершину, пересечением не считаются.
func IsSimple(ring orb.Ring) bool {
	n := len(ring) - 1
	if n < 3 {
		return false
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if j == i+1 || (i == 0 && j == n-1) {
				continue
			}
			if _, _, _, ok := segmentIntersection(ring[i], ring[i+1], ring[j], ring[j+1]); ok {
				return false
			}
		}
	}
	return true
}

// IsValidRing проверяет инварианты контура: замкнутость, простота,
// площадь выше порога
func IsValidRing(ring orb.Ring, minArea float64) bool {
	if len(ring) < 4 || ring[0] != ring[len(ring)-1] {
		return false
	}
	if math.Abs(SignedArea(ring)) <= minArea {
		return false
	}
	return IsSimple(ring)
}

// RepairRing устраняет самопересечения кольца: рёбра нодируются в точках
// взаимных пересечений, полученный граф полигонизуется заново, берётся
// грань максимальной площади. Аналог операции buffer(0) в обычных
// геометрических библиотеках. Возвращает false, если после ремонта не
// осталось валидной грани с площадью выше minArea.
func RepairRing(ring orb.Ring, minArea float64) (orb.Ring, bool) {
	n := len(ring)
	if n < 4 {
		return nil, false
	}

	type cut struct {
		t float64
		p orb.Point
	}
	edges := make([][2]orb.Point, 0, n-1)
	for i := 0; i < n-1; i++ {
		edges = append(edges, [2]orb.Point{ring[i], ring[i+1]})
	}
	cuts := make([][]cut, len(edges))
	for i := 0; i < len(edges); i++ {
		for j := i + 1; j < len(edges); j++ {
			pt, t, u, ok := segmentIntersection(edges[i][0], edges[i][1], edges[j][0], edges[j][1])
			if !ok {
				continue
			}
			// разрезаются только внутренние точки рёбер; общие вершины
			// нодирования не требуют
			if t > paramEps && t < 1-paramEps {
				cuts[i] = append(cuts[i], cut{t: t, p: pt})
			}
			if u > paramEps && u < 1-paramEps {
				cuts[j] = append(cuts[j], cut{t: u, p: pt})
			}
		}
	}

	var noded []orb.LineString
	for i, e := range edges {
		cs := cuts[i]
		sort.Slice(cs, func(a, b int) bool { return cs[a].t < cs[b].t })
		prev := e[0]
		for _, c := range cs {
			if c.p != prev {
				noded = append(noded, orb.LineString{prev, c.p})
				prev = c.p
			}
		}
		if e[1] != prev {
			noded = append(noded, orb.LineString{prev, e[1]})
		}
	}

	var best orb.Ring
	bestArea := 0.0
	for _, r := range Polygonize(noded) {
		if a := SignedArea(r); a > bestArea {
			best, bestArea = r, a
		}
	}
	if best == nil || bestArea <= minArea || !IsSimple(best) {
		return nil, false
	}
	return best, true
}

// segmentIntersection находит точку пересечения отрезков [p1,p2] и [p3,p4]
// с параметрами t и u вдоль каждого из них. Для параллельных и коллинеарных
// пар возвращает ok=false.
func segmentIntersection(p1, p2, p3, p4 orb.Point) (pt orb.Point, t, u float64, ok bool) {
	rx, ry := p2[0]-p1[0], p2[1]-p1[1]
	sx, sy := p4[0]-p3[0], p4[1]-p3[1]

	denom := rx*sy - ry*sx
	if math.Abs(denom) < 1e-18 {
		return orb.Point{}, 0, 0, false
	}

	qx, qy := p3[0]-p1[0], p3[1]-p1[1]
	t = (qx*sy - qy*sx) / denom
	u = (qx*ry - qy*rx) / denom
	if t < -paramEps || t > 1+paramEps || u < -paramEps || u > 1+paramEps {
		return orb.Point{}, 0, 0, false
	}

	pt = orb.Point{p1[0] + t*rx, p1[1] + t*ry}
	return pt, t, u, true
}
