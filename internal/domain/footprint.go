package domain

import (
	"github.com/paulmach/orb"
)

// Методы реконструкции контура, в порядке убывания точности
const (
	MethodRingAssembly   = "ring-assembly"
	MethodHullFromEdges  = "hull-from-edges"
	MethodHullFromPoints = "hull-from-points"
)

// Footprint - контур здания на уровне земли. Создаётся один раз при
// реконструкции и после этого не изменяется.
// Инварианты: Area > 0, кольцо замкнуто, не менее 3 различных вершин.
type Footprint struct {
	Ring   orb.Ring `json:"ring"`
	Area   float64  `json:"area"`
	Method string   `json:"method"`
}

// Polygon возвращает контур как orb.Polygon для сериализации в GeoJSON
func (f *Footprint) Polygon() orb.Polygon {
	return orb.Polygon{f.Ring}
}

// VertexCount возвращает число вершин кольца без замыкающей точки
func (f *Footprint) VertexCount() int {
	n := len(f.Ring)
	if n > 0 && f.Ring[0] == f.Ring[n-1] {
		return n - 1
	}
	return n
}
