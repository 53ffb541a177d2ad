package model

import (
	"fmt"
	"math"

	"github.com/Carmen-Shannon/oxy-showcase/engine/font"
	"github.com/go-gl/mathgl/mgl32"
)

// TextOptions controls extruded text geometry. Zero fields take the defaults
// Size 1, Height 0.4, CurveSegments 12. A bevel is added when BevelThickness or
// BevelSize is positive, with 3 segments unless BevelSegments says otherwise.
type TextOptions struct {
	// Size is the em height in world units.
	Size float32
	// Height is the extrusion depth along Z.
	Height float32
	// CurveSegments is the number of line segments per glyph curve.
	CurveSegments int
	// BevelThickness is how far each cap sits beyond the extrusion along Z.
	BevelThickness float32
	// BevelSize is how far the side walls are pushed out from the glyph outline.
	BevelSize float32
	// BevelSegments is the number of layers in each rounded bevel.
	BevelSegments int
}

func (o TextOptions) withDefaults() TextOptions {
	if o.Size <= 0 {
		o.Size = 1
	}
	if o.Height <= 0 {
		o.Height = 0.4
	}
	if o.CurveSegments <= 0 {
		o.CurveSegments = 12
	}
	if o.BevelThickness < 0 {
		o.BevelThickness = 0
	}
	if o.BevelSize < 0 {
		o.BevelSize = 0
	}
	if o.BevelSegments <= 0 {
		o.BevelSegments = 3
	}
	return o
}

func (o TextOptions) beveled() bool {
	return o.BevelThickness > 0 || o.BevelSize > 0
}

// ring is one layer of the side surface: the outline pushed out by offset, at height z.
type ring struct {
	offset float32
	z      float32
}

// rings lists the side layers from the back cap to the front cap. Without a bevel that is
// the outline at z = 0 and z = depth. With one, each cap sits BevelThickness beyond the
// extrusion and the walls between bevels are pushed out by BevelSize along a quarter circle.
func (o TextOptions) rings() []ring {
	if !o.beveled() {
		return []ring{{0, 0}, {0, o.Height}}
	}
	n := o.BevelSegments
	out := make([]ring, 0, 2*(n+1))
	for k := 0; k <= n; k++ {
		a := float64(k) / float64(n) * math.Pi / 2
		out = append(out, ring{o.BevelSize * float32(math.Sin(a)), -o.BevelThickness * float32(math.Cos(a))})
	}
	for k := n; k >= 0; k-- {
		a := float64(k) / float64(n) * math.Pi / 2
		out = append(out, ring{o.BevelSize * float32(math.Sin(a)), o.Height + o.BevelThickness*float32(math.Cos(a))})
	}
	return out
}

// NewTextMesh shapes a line of text and extrudes its glyph outlines into a solid
// with front and back caps, side walls and an optional bevel. The result is centered
// on the origin.
//
// Parameters:
//   - f: the font to shape and outline with
//   - text: the line of text
//   - opts: size, depth, curve resolution and bevel
//
// Returns:
//   - *Mesh: the extruded text
//   - error: error if shaping or outlining fails, or if the text has no visible glyphs
func NewTextMesh(f *font.Font, text string, opts TextOptions) (*Mesh, error) {
	if f == nil {
		return nil, fmt.Errorf("failed to build text %q: nil font", text)
	}
	opts = opts.withDefaults()
	scale := opts.Size / f.UnitsPerEm()

	glyphs, err := f.Shape(text)
	if err != nil {
		return nil, fmt.Errorf("failed to shape text %q: %w", text, err)
	}

	m := &Mesh{Name: "text:" + text}
	for _, g := range glyphs {
		contours, err := f.Outline(g.ID, opts.CurveSegments)
		if err != nil {
			return nil, fmt.Errorf("failed to outline text %q: %w", text, err)
		}
		if len(contours) == 0 {
			continue
		}

		loops := make([][]mgl32.Vec2, len(contours))
		for i, c := range contours {
			loop := make([]mgl32.Vec2, len(c))
			for j, p := range c {
				loop[j] = mgl32.Vec2{(g.X + p.X()) * scale, (g.Y + p.Y()) * scale}
			}
			loops[i] = loop
		}

		rings := opts.rings()
		for _, s := range BuildShapes(loops) {
			m.extrude(s, rings)
		}
	}

	if len(m.Indices) == 0 {
		return nil, fmt.Errorf("failed to build text %q: %w", text, ErrEmptyMesh)
	}
	m.Center()
	return m, nil
}

// extrude appends caps at the first and last ring heights plus the side surface of
// every loop of s.
func (m *Mesh) extrude(s Shape, rings []ring) {
	points, tris := Triangulate(s)
	back, front := rings[0].z, rings[len(rings)-1].z

	frontBase := uint32(len(m.Vertices))
	for _, p := range points {
		m.Vertices = append(m.Vertices, GPUVertex{Position: [3]float32{p.X(), p.Y(), front}, Normal: [3]float32{0, 0, 1}})
	}
	backBase := uint32(len(m.Vertices))
	for _, p := range points {
		m.Vertices = append(m.Vertices, GPUVertex{Position: [3]float32{p.X(), p.Y(), back}, Normal: [3]float32{0, 0, -1}})
	}
	for t := 0; t+2 < len(tris); t += 3 {
		a, b, c := tris[t], tris[t+1], tris[t+2]
		m.Indices = append(m.Indices, frontBase+a, frontBase+b, frontBase+c)
		m.Indices = append(m.Indices, backBase+a, backBase+c, backBase+b)
	}

	m.extrudeWalls(s.Outer, rings)
	for _, h := range s.Holes {
		m.extrudeWalls(h, rings)
	}
}

// extrudeWalls adds one flat-shaded quad per loop edge between each pair of adjacent
// rings. Outer loops are counter-clockwise and holes clockwise, so the right-hand normal
// of every edge faces out of the solid.
func (m *Mesh) extrudeWalls(loop []mgl32.Vec2, rings []ring) {
	miters := outwardMiters(loop)
	at := func(i int, r ring) mgl32.Vec3 {
		p := loop[i].Add(miters[i].Mul(r.offset))
		return mgl32.Vec3{p.X(), p.Y(), r.z}
	}

	for i := range loop {
		j := (i + 1) % len(loop)
		d := loop[j].Sub(loop[i])
		if d.Len() == 0 {
			continue
		}
		edge := mgl32.Vec2{d.Y(), -d.X()}.Normalize()

		for k := 0; k+1 < len(rings); k++ {
			p0, q0 := at(i, rings[k]), at(j, rings[k])
			q1, p1 := at(j, rings[k+1]), at(i, rings[k+1])

			n := q0.Sub(p0).Cross(p1.Sub(p0))
			if n.Len() == 0 {
				n = mgl32.Vec3{edge.X(), edge.Y(), 0}
			}
			n = n.Normalize()
			normal := [3]float32{n.X(), n.Y(), n.Z()}

			base := uint32(len(m.Vertices))
			m.Vertices = append(m.Vertices,
				GPUVertex{Position: p0, Normal: normal},
				GPUVertex{Position: q0, Normal: normal},
				GPUVertex{Position: q1, Normal: normal},
				GPUVertex{Position: p1, Normal: normal},
			)
			m.Indices = append(m.Indices, base, base+1, base+2, base, base+2, base+3)
		}
	}
}

// outwardMiters returns, per vertex, the offset that moves both adjacent edges of the
// loop outward by one unit. Sharp corners are clamped to ten units.
func outwardMiters(loop []mgl32.Vec2) []mgl32.Vec2 {
	n := len(loop)
	normals := make([]mgl32.Vec2, n)
	for i := range loop {
		d := loop[(i+1)%n].Sub(loop[i])
		if d.Len() > 0 {
			normals[i] = mgl32.Vec2{d.Y(), -d.X()}.Normalize()
		}
	}

	miters := make([]mgl32.Vec2, n)
	for i := range loop {
		in, out := normals[(i+n-1)%n], normals[i]
		switch {
		case in.Len() == 0:
			miters[i] = out
		case out.Len() == 0:
			miters[i] = in
		default:
			miters[i] = in.Add(out).Mul(1 / max(1+in.Dot(out), 0.1))
		}
	}
	return miters
}
