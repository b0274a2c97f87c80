package geometry

import (
	"math"
	"sort"

	"github.com/paulmach/orb"
)

// halfEdge - направленное ребро планарного графа
type halfEdge struct {
	from, to int
	twin     int
	next     int
	angle    float64
	visited  bool
}

// Polygonize собирает замкнутые кольца из набора 2D отрезков,
// рассматривая их как рёбра планарного графа. Отрезки должны быть
// нодированы: общие точки допустимы только в концах. Для сегментов с
// промежуточными точками учитываются только первая и последняя.
// Дублирующиеся рёбра отбрасываются; висячие цепочки срезаются до обхода
// граней, иначе они вплетались бы в ограниченную грань туда-обратным
// отростком. Возвращаемые кольца замкнуты и ориентированы против
// часовой стрелки.
//
// Обход граней стандартный для планарных графов: исходящие рёбра каждой
// вершины сортируются по углу, следующим ребром грани берётся угловой
// преемник парного ребра. Ограниченные грани при таком обходе получают
// положительную площадь, внешняя грань - отрицательную и отбрасывается.
func Polygonize(segments []orb.LineString) []orb.Ring {
	vertexIndex := make(map[orb.Point]int)
	var vertices []orb.Point
	addVertex := func(p orb.Point) int {
		if i, ok := vertexIndex[p]; ok {
			return i
		}
		vertices = append(vertices, p)
		vertexIndex[p] = len(vertices) - 1
		return len(vertices) - 1
	}

	type undirected struct{ a, b orb.Point }
	seen := make(map[undirected]bool)
	type vertexPair struct{ a, b int }
	var pairs []vertexPair

	for _, seg := range segments {
		if len(seg) < 2 {
			continue
		}
		a, b := seg[0], seg[len(seg)-1]
		if a == b {
			continue
		}
		key := undirected{a, b}
		if b[0] < a[0] || (b[0] == a[0] && b[1] < a[1]) {
			key = undirected{b, a}
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		pairs = append(pairs, vertexPair{addVertex(a), addVertex(b)})
	}
	if len(pairs) == 0 {
		return nil
	}

	// итеративное срезание висячих рёбер: вершина степени 1 не может
	// лежать на замкнутой грани, а её удаление может обнажить следующую
	degree := make([]int, len(vertices))
	incident := make([][]int, len(vertices))
	for i, p := range pairs {
		degree[p.a]++
		degree[p.b]++
		incident[p.a] = append(incident[p.a], i)
		incident[p.b] = append(incident[p.b], i)
	}
	alive := make([]bool, len(pairs))
	for i := range alive {
		alive[i] = true
	}
	var queue []int
	for v, d := range degree {
		if d == 1 {
			queue = append(queue, v)
		}
	}
	for len(queue) > 0 {
		v := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		if degree[v] != 1 {
			continue
		}
		for _, ei := range incident[v] {
			if !alive[ei] {
				continue
			}
			alive[ei] = false
			p := pairs[ei]
			degree[p.a]--
			degree[p.b]--
			other := p.a
			if other == v {
				other = p.b
			}
			if degree[other] == 1 {
				queue = append(queue, other)
			}
		}
	}

	var edges []halfEdge
	for i, p := range pairs {
		if !alive[i] {
			continue
		}
		edges = append(edges,
			halfEdge{from: p.a, to: p.b, twin: len(edges) + 1},
			halfEdge{from: p.b, to: p.a, twin: len(edges)},
		)
	}
	if len(edges) == 0 {
		return nil
	}

	star := make([][]int, len(vertices))
	for i := range edges {
		e := &edges[i]
		d := vertices[e.to]
		o := vertices[e.from]
		e.angle = math.Atan2(d[1]-o[1], d[0]-o[0])
		star[e.from] = append(star[e.from], i)
	}
	for v := range star {
		s := star[v]
		sort.Slice(s, func(i, j int) bool {
			return edges[s[i]].angle < edges[s[j]].angle
		})
	}

	// next(e) = угловой преемник twin(e) вокруг вершины e.to
	for i := range edges {
		s := star[edges[i].to]
		pos := 0
		for k, idx := range s {
			if idx == edges[i].twin {
				pos = k
				break
			}
		}
		edges[i].next = s[(pos+1)%len(s)]
	}

	var rings []orb.Ring
	for i := range edges {
		if edges[i].visited {
			continue
		}
		var ring orb.Ring
		for j := i; !edges[j].visited; j = edges[j].next {
			edges[j].visited = true
			ring = append(ring, vertices[edges[j].from])
		}
		ring = append(ring, ring[0])
		if SignedArea(ring) > 0 {
			rings = append(rings, ring)
		}
	}
	return rings
}

// SignedArea возвращает ориентированную площадь замкнутого кольца:
// положительную для обхода против часовой стрелки
func SignedArea(ring orb.Ring) float64 {
	if len(ring) < 4 {
		return 0
	}
	var sum float64
	for i := 0; i < len(ring)-1; i++ {
		a, b := ring[i], ring[i+1]
		sum += a[0]*b[1] - b[0]*a[1]
	}
	return sum / 2
}
