package model

import (
	"math"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
)

// Shape is one filled region: a counter-clockwise outer loop and its clockwise holes.
type Shape struct {
	Outer []mgl32.Vec2
	Holes [][]mgl32.Vec2
}

// SignedArea returns the shoelace area of a closed loop; positive means counter-clockwise.
func SignedArea(loop []mgl32.Vec2) float32 {
	var a float32
	for i := range loop {
		p, q := loop[i], loop[(i+1)%len(loop)]
		a += p.X()*q.Y() - q.X()*p.Y()
	}
	return a / 2
}

// pointInLoop is an even-odd ray test.
func pointInLoop(p mgl32.Vec2, loop []mgl32.Vec2) bool {
	inside := false
	for i, j := 0, len(loop)-1; i < len(loop); j, i = i, i+1 {
		a, b := loop[i], loop[j]
		if (a.Y() > p.Y()) != (b.Y() > p.Y()) {
			x := a.X() + (p.Y()-a.Y())*(b.X()-a.X())/(b.Y()-a.Y())
			if p.X() < x {
				inside = !inside
			}
		}
	}
	return inside
}

// BuildShapes groups loops into shapes by nesting depth: loops inside an even number
// of other loops are outers, the rest are holes of their smallest enclosing outer.
// Orientation is normalized, so fonts with either winding convention work.
//
// Parameters:
//   - loops: closed loops in any orientation
//
// Returns:
//   - []Shape: one shape per outer loop
func BuildShapes(loops [][]mgl32.Vec2) []Shape {
	type info struct {
		loop  []mgl32.Vec2
		area  float32
		depth int
	}
	infos := make([]info, 0, len(loops))
	for _, l := range loops {
		if len(l) < 3 {
			continue
		}
		a := SignedArea(l)
		if a == 0 {
			continue
		}
		infos = append(infos, info{loop: l, area: a})
	}
	for i := range infos {
		for j := range infos {
			if i != j && pointInLoop(infos[i].loop[0], infos[j].loop) {
				infos[i].depth++
			}
		}
	}

	outerIdx := make([]int, 0, len(infos))
	shapes := make([]Shape, 0, len(infos))
	for i, in := range infos {
		if in.depth%2 != 0 {
			continue
		}
		outer := slices.Clone(in.loop)
		if in.area < 0 {
			slices.Reverse(outer)
		}
		outerIdx = append(outerIdx, i)
		shapes = append(shapes, Shape{Outer: outer})
	}

	for _, in := range infos {
		if in.depth%2 == 0 {
			continue
		}
		best := -1
		var bestArea float32
		for s, oi := range outerIdx {
			o := infos[oi]
			if !pointInLoop(in.loop[0], o.loop) {
				continue
			}
			if a := abs32(o.area); best < 0 || a < bestArea {
				best, bestArea = s, a
			}
		}
		if best < 0 {
			continue
		}
		hole := slices.Clone(in.loop)
		if in.area > 0 {
			slices.Reverse(hole)
		}
		shapes[best].Holes = append(shapes[best].Holes, hole)
	}
	return shapes
}

// Triangulate fills a shape by bridging its holes into the outer loop and ear clipping.
//
// Parameters:
//   - s: the shape to fill
//
// Returns:
//   - points: every outer and hole vertex, outer first then holes in order
//   - indices: counter-clockwise triangles indexing points
func Triangulate(s Shape) (points []mgl32.Vec2, indices []uint32) {
	points = append(points, s.Outer...)
	ring := make([]uint32, len(s.Outer))
	for i := range ring {
		ring[i] = uint32(i)
	}

	holes := make([][]uint32, 0, len(s.Holes))
	for _, h := range s.Holes {
		base := uint32(len(points))
		points = append(points, h...)
		idx := make([]uint32, len(h))
		for i := range idx {
			idx[i] = base + uint32(i)
		}
		holes = append(holes, idx)
	}

	// Bridge the holes reaching farthest right first so earlier bridges never cross later ones.
	slices.SortFunc(holes, func(a, b []uint32) int {
		ma, mb := points[a[rightmost(points, a)]].X(), points[b[rightmost(points, b)]].X()
		switch {
		case ma > mb:
			return -1
		case ma < mb:
			return 1
		}
		return 0
	})
	for _, h := range holes {
		ring = bridgeHole(points, ring, h)
	}

	return points, earClip(points, ring)
}

func rightmost(points []mgl32.Vec2, loop []uint32) int {
	best := 0
	for i, idx := range loop {
		if points[idx].X() > points[loop[best]].X() {
			best = i
		}
	}
	return best
}

// bridgeHole splices a hole into the ring through a mutually visible vertex pair,
// leaving a zero-width seam that the ear clipper treats as an ordinary edge.
func bridgeHole(points []mgl32.Vec2, ring, hole []uint32) []uint32 {
	hi := rightmost(points, hole)
	m := points[hole[hi]]

	// Cast a ray toward +X and find the nearest ring edge it hits.
	edge := -1
	hitX := float32(math.Inf(1))
	for i := range ring {
		a, b := points[ring[i]], points[ring[(i+1)%len(ring)]]
		if (a.Y() > m.Y()) == (b.Y() > m.Y()) || a.Y() == b.Y() {
			continue
		}
		x := a.X() + (m.Y()-a.Y())*(b.X()-a.X())/(b.Y()-a.Y())
		if x >= m.X() && x < hitX {
			hitX, edge = x, i
		}
	}

	var target int
	if edge < 0 {
		// No hit: fall back to the nearest ring vertex.
		bestD := float32(math.Inf(1))
		for i, idx := range ring {
			if d := points[idx].Sub(m).Len(); d < bestD {
				bestD, target = d, i
			}
		}
	} else {
		a, b := edge, (edge+1)%len(ring)
		target = a
		if points[ring[b]].X() > points[ring[a]].X() {
			target = b
		}
		// A reflex vertex inside the triangle (m, hit, target) would block visibility;
		// pick the one closest in angle to the ray instead.
		hit := mgl32.Vec2{hitX, m.Y()}
		p := points[ring[target]]
		bestTan := float32(math.Inf(1))
		for i, idx := range ring {
			q := points[idx]
			if i == target || q.ApproxEqual(p) {
				continue
			}
			if q.X() < m.X() || !inTriangle(q, m, hit, p) {
				continue
			}
			tan := abs32(q.Y()-m.Y()) / max(q.X()-m.X(), 1e-6)
			if tan < bestTan {
				bestTan, target = tan, i
			}
		}
	}

	out := make([]uint32, 0, len(ring)+len(hole)+2)
	out = append(out, ring[:target+1]...)
	for k := 0; k < len(hole); k++ {
		out = append(out, hole[(hi+k)%len(hole)])
	}
	out = append(out, hole[hi], ring[target])
	out = append(out, ring[target+1:]...)
	return out
}

// earClip triangulates a simple counter-clockwise ring.
func earClip(points []mgl32.Vec2, ring []uint32) []uint32 {
	ring = slices.Clone(ring)
	indices := make([]uint32, 0, 3*max(len(ring)-2, 0))

	for len(ring) > 3 {
		n := len(ring)
		clipped := false
		for i := 0; i < n; i++ {
			prev, cur, next := ring[(i+n-1)%n], ring[i], ring[(i+1)%n]
			if !isEar(points, ring, prev, cur, next) {
				continue
			}
			indices = append(indices, prev, cur, next)
			ring = slices.Delete(ring, i, i+1)
			clipped = true
			break
		}
		if !clipped {
			// Degenerate input (self-touching seams, collinear runs): clip the least reflex
			// vertex so the loop always terminates.
			best, bestCross := 0, float32(math.Inf(-1))
			for i := 0; i < n; i++ {
				c := cross(points[ring[(i+n-1)%n]], points[ring[i]], points[ring[(i+1)%n]])
				if c > bestCross {
					best, bestCross = i, c
				}
			}
			if bestCross > 0 {
				indices = append(indices, ring[(best+n-1)%n], ring[best], ring[(best+1)%n])
			}
			ring = slices.Delete(ring, best, best+1)
		}
	}
	if len(ring) == 3 && cross(points[ring[0]], points[ring[1]], points[ring[2]]) > 0 {
		indices = append(indices, ring[0], ring[1], ring[2])
	}
	return indices
}

func isEar(points []mgl32.Vec2, ring []uint32, prev, cur, next uint32) bool {
	a, b, c := points[prev], points[cur], points[next]
	if cross(a, b, c) <= 0 {
		return false
	}
	for _, idx := range ring {
		if idx == prev || idx == cur || idx == next {
			continue
		}
		p := points[idx]
		if p.ApproxEqual(a) || p.ApproxEqual(b) || p.ApproxEqual(c) {
			continue
		}
		if inTriangle(p, a, b, c) {
			return false
		}
	}
	return true
}

// cross is the z component of (b - a) x (c - b); positive for a left turn.
func cross(a, b, c mgl32.Vec2) float32 {
	return (b.X()-a.X())*(c.Y()-b.Y()) - (b.Y()-a.Y())*(c.X()-b.X())
}

func inTriangle(p, a, b, c mgl32.Vec2) bool {
	d1 := (p.X()-b.X())*(a.Y()-b.Y()) - (a.X()-b.X())*(p.Y()-b.Y())
	d2 := (p.X()-c.X())*(b.Y()-c.Y()) - (b.X()-c.X())*(p.Y()-c.Y())
	d3 := (p.X()-a.X())*(c.Y()-a.Y()) - (c.X()-a.X())*(p.Y()-a.Y())
	hasNeg := d1 < 0 || d2 < 0 || d3 < 0
	hasPos := d1 > 0 || d2 > 0 || d3 > 0
	return !(hasNeg && hasPos)
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
