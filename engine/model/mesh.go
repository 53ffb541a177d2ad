package model

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrEmptyMesh is returned by Validate for a mesh without triangles.
var ErrEmptyMesh = errors.New("mesh has no triangles")

// Mesh is indexed triangle geometry in object space.
type Mesh struct {
	Name     string
	Vertices []GPUVertex
	Indices  []uint32
}

// TriangleCount returns the number of triangles described by the index list.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Validate checks that the mesh is a non-empty triangle list with in-range indices.
//
// Returns:
//   - error: nil if the mesh can be uploaded as is
func (m *Mesh) Validate() error {
	if len(m.Indices) == 0 || len(m.Vertices) == 0 {
		return ErrEmptyMesh
	}
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("mesh %q: index count %d is not a multiple of 3", m.Name, len(m.Indices))
	}
	for _, idx := range m.Indices {
		if int(idx) >= len(m.Vertices) {
			return fmt.Errorf("mesh %q: index %d out of range (%d vertices)", m.Name, idx, len(m.Vertices))
		}
	}
	return nil
}

// Bounds returns the axis-aligned bounding box of the vertices.
//
// Returns:
//   - lo, hi: the minimum and maximum corners; both zero for an empty mesh
func (m *Mesh) Bounds() (lo, hi mgl32.Vec3) {
	if len(m.Vertices) == 0 {
		return lo, hi
	}
	lo = m.Vertices[0].Position
	hi = lo
	for _, v := range m.Vertices[1:] {
		for k := 0; k < 3; k++ {
			lo[k] = min(lo[k], v.Position[k])
			hi[k] = max(hi[k], v.Position[k])
		}
	}
	return lo, hi
}

// Center translates the vertices so the bounding box is centered on the origin.
//
// Returns:
//   - mgl32.Vec3: the offset that was subtracted
func (m *Mesh) Center() mgl32.Vec3 {
	lo, hi := m.Bounds()
	c := lo.Add(hi).Mul(0.5)
	for i := range m.Vertices {
		p := mgl32.Vec3(m.Vertices[i].Position).Sub(c)
		m.Vertices[i].Position = p
	}
	return c
}

// Radius returns the distance from the origin to the farthest vertex.
func (m *Mesh) Radius() float32 {
	var r2 float32
	for _, v := range m.Vertices {
		p := mgl32.Vec3(v.Position)
		r2 = max(r2, p.Dot(p))
	}
	return float32(math.Sqrt(float64(r2)))
}

// ComputeNormals replaces vertex normals with the normalized sum of the
// area-weighted normals of every triangle sharing the vertex.
func (m *Mesh) ComputeNormals() {
	acc := make([]mgl32.Vec3, len(m.Vertices))
	for t := 0; t+2 < len(m.Indices); t += 3 {
		i0, i1, i2 := m.Indices[t], m.Indices[t+1], m.Indices[t+2]
		if int(max(i0, i1, i2)) >= len(m.Vertices) {
			continue
		}
		a := mgl32.Vec3(m.Vertices[i0].Position)
		b := mgl32.Vec3(m.Vertices[i1].Position)
		c := mgl32.Vec3(m.Vertices[i2].Position)
		n := b.Sub(a).Cross(c.Sub(a))
		acc[i0] = acc[i0].Add(n)
		acc[i1] = acc[i1].Add(n)
		acc[i2] = acc[i2].Add(n)
	}
	for i, n := range acc {
		if n.Len() > 0 {
			m.Vertices[i].Normal = n.Normalize()
		} else {
			m.Vertices[i].Normal = [3]float32{0, 1, 0}
		}
	}
}
