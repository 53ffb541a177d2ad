package model

// boxFaces lists each face as its outward normal plus two in-plane axes u, v with u x v = normal.
var boxFaces = [6]struct{ n, u, v [3]float32 }{
	{n: [3]float32{1, 0, 0}, u: [3]float32{0, 0, -1}, v: [3]float32{0, 1, 0}},
	{n: [3]float32{-1, 0, 0}, u: [3]float32{0, 0, 1}, v: [3]float32{0, 1, 0}},
	{n: [3]float32{0, 1, 0}, u: [3]float32{1, 0, 0}, v: [3]float32{0, 0, -1}},
	{n: [3]float32{0, -1, 0}, u: [3]float32{1, 0, 0}, v: [3]float32{0, 0, 1}},
	{n: [3]float32{0, 0, 1}, u: [3]float32{1, 0, 0}, v: [3]float32{0, 1, 0}},
	{n: [3]float32{0, 0, -1}, u: [3]float32{-1, 0, 0}, v: [3]float32{0, 1, 0}},
}

// NewBox builds an axis-aligned box centered on the origin with flat per-face normals
// and counter-clockwise front faces.
//
// Parameters:
//   - width, height, depth: the box extents along X, Y and Z
//
// Returns:
//   - *Mesh: 24 vertices and 36 indices
func NewBox(width, height, depth float32) *Mesh {
	half := [3]float32{width / 2, height / 2, depth / 2}
	m := &Mesh{
		Name:     "box",
		Vertices: make([]GPUVertex, 0, 24),
		Indices:  make([]uint32, 0, 36),
	}

	corners := [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}
	for _, f := range boxFaces {
		base := uint32(len(m.Vertices))
		for _, c := range corners {
			var p [3]float32
			for k := 0; k < 3; k++ {
				p[k] = (f.n[k] + c[0]*f.u[k] + c[1]*f.v[k]) * half[k]
			}
			m.Vertices = append(m.Vertices, GPUVertex{Position: p, Normal: f.n})
		}
		m.Indices = append(m.Indices, base, base+1, base+2, base, base+2, base+3)
	}
	return m
}

// SpriteCorners are the corners of a unit billboard quad, expanded in view space by the
// particle shader.
var SpriteCorners = [4][2]float32{{-0.5, -0.5}, {0.5, -0.5}, {0.5, 0.5}, {-0.5, 0.5}}

// NewQuad builds the unit billboard quad in the XY plane facing +Z.
func NewQuad() *Mesh {
	m := &Mesh{Name: "quad", Indices: []uint32{0, 1, 2, 0, 2, 3}}
	for _, c := range SpriteCorners {
		m.Vertices = append(m.Vertices, GPUVertex{Position: [3]float32{c[0], c[1], 0}, Normal: [3]float32{0, 0, 1}})
	}
	return m
}
