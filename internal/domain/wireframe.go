package domain

import "math"

// Point3D представляет вершину каркаса здания
type Point3D struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Z    float64 `json:"z"`
	HasZ bool    `json:"has_z"`
}

// Segment3D - одно ребро каркаса, обычно две точки (начало и конец).
// Промежуточные точки, если они есть, при реконструкции не учитываются.
type Segment3D []Point3D

// Wireframe - неупорядоченный набор рёбер поверхности одного здания.
// Связность между сегментами не гарантируется.
type Wireframe []Segment3D

// First возвращает первую точку сегмента
func (s Segment3D) First() Point3D {
	return s[0]
}

// Last возвращает последнюю точку сегмента
func (s Segment3D) Last() Point3D {
	return s[len(s)-1]
}

// IsEmpty проверяет, пуст ли каркас
func (w Wireframe) IsEmpty() bool {
	for _, seg := range w {
		if len(seg) > 0 {
			return false
		}
	}
	return true
}

// MinElevation возвращает минимальную высоту среди всех точек каркаса.
// Второе значение false, если ни одна точка не несёт координату Z.
func (w Wireframe) MinElevation() (float64, bool) {
	minZ := math.Inf(1)
	found := false
	for _, seg := range w {
		for _, p := range seg {
			if !p.HasZ {
				continue
			}
			found = true
			if p.Z < minZ {
				minZ = p.Z
			}
		}
	}
	if !found {
		return 0, false
	}
	return minZ, true
}

// GroundPoints возвращает все точки каркаса, лежащие в пределах tolerance
// от уровня земли minZ
func (w Wireframe) GroundPoints(minZ, tolerance float64) []Point3D {
	var points []Point3D
	for _, seg := range w {
		for _, p := range seg {
			if p.HasZ && math.Abs(p.Z-minZ) < tolerance {
				points = append(points, p)
			}
		}
	}
	return points
}
