package model

import (
	"errors"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-showcase/engine/font"
	"github.com/go-gl/mathgl/mgl32"
)

func triangleArea(points []mgl32.Vec2, indices []uint32) float32 {
	var total float32
	for t := 0; t+2 < len(indices); t += 3 {
		total += SignedArea([]mgl32.Vec2{points[indices[t]], points[indices[t+1]], points[indices[t+2]]})
	}
	return total
}

func square(x, y, size float32) []mgl32.Vec2 {
	return []mgl32.Vec2{{x, y}, {x + size, y}, {x + size, y + size}, {x, y + size}}
}

func TestNewBox(t *testing.T) {
	m := NewBox(1, 1, 1)
	if err := m.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if len(m.Vertices) != 24 || len(m.Indices) != 36 {
		t.Fatalf("expected 24 vertices / 36 indices, got %d / %d", len(m.Vertices), len(m.Indices))
	}
	lo, hi := m.Bounds()
	if !lo.ApproxEqual(mgl32.Vec3{-0.5, -0.5, -0.5}) || !hi.ApproxEqual(mgl32.Vec3{0.5, 0.5, 0.5}) {
		t.Errorf("unexpected bounds %v %v", lo, hi)
	}

	// Every triangle must wind counter-clockwise when seen from outside, i.e. its
	// geometric normal agrees with the stored vertex normal.
	for i := 0; i < len(m.Indices); i += 3 {
		a := mgl32.Vec3(m.Vertices[m.Indices[i]].Position)
		b := mgl32.Vec3(m.Vertices[m.Indices[i+1]].Position)
		c := mgl32.Vec3(m.Vertices[m.Indices[i+2]].Position)
		n := b.Sub(a).Cross(c.Sub(a))
		if n.Dot(mgl32.Vec3(m.Vertices[m.Indices[i]].Normal)) <= 0 {
			t.Errorf("triangle %d winds against its normal", i/3)
		}
	}
}

func TestTriangulateSquare(t *testing.T) {
	shapes := BuildShapes([][]mgl32.Vec2{square(0, 0, 1)})
	if len(shapes) != 1 {
		t.Fatalf("expected 1 shape, got %d", len(shapes))
	}
	points, idx := Triangulate(shapes[0])
	if len(idx) != 6 {
		t.Errorf("expected 2 triangles, got %d", len(idx)/3)
	}
	if a := triangleArea(points, idx); math.Abs(float64(a-1)) > 1e-5 {
		t.Errorf("expected area 1, got %v", a)
	}
}

func TestTriangulateWithHole(t *testing.T) {
	outer := square(0, 0, 1)
	// Clockwise outer input: BuildShapes must normalize it.
	for i, j := 0, len(outer)-1; i < j; i, j = i+1, j-1 {
		outer[i], outer[j] = outer[j], outer[i]
	}
	hole := square(0.25, 0.25, 0.5)

	shapes := BuildShapes([][]mgl32.Vec2{outer, hole})
	if len(shapes) != 1 || len(shapes[0].Holes) != 1 {
		t.Fatalf("expected one shape with one hole, got %+v", shapes)
	}
	if SignedArea(shapes[0].Outer) <= 0 || SignedArea(shapes[0].Holes[0]) >= 0 {
		t.Fatal("expected a counter-clockwise outer and a clockwise hole")
	}

	points, idx := Triangulate(shapes[0])
	if a := triangleArea(points, idx); math.Abs(float64(a-0.75)) > 1e-4 {
		t.Errorf("expected filled area 0.75, got %v", a)
	}
	for t2 := 0; t2+2 < len(idx); t2 += 3 {
		tri := []mgl32.Vec2{points[idx[t2]], points[idx[t2+1]], points[idx[t2+2]]}
		if SignedArea(tri) < 0 {
			t.Errorf("triangle %d is clockwise", t2/3)
		}
	}
}

func TestBuildShapesSeparateOuters(t *testing.T) {
	shapes := BuildShapes([][]mgl32.Vec2{square(0, 0, 1), square(2, 0, 1)})
	if len(shapes) != 2 {
		t.Errorf("expected 2 shapes, got %d", len(shapes))
	}
}

func TestNewTextMesh(t *testing.T) {
	f, err := font.GoRegular()
	if err != nil {
		t.Fatalf("GoRegular: %v", err)
	}

	m, err := NewTextMesh(f, "Soumak", TextOptions{Size: 1})
	if err != nil {
		t.Fatalf("NewTextMesh: %v", err)
	}
	if err := m.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	lo, hi := m.Bounds()
	center := lo.Add(hi).Mul(0.5)
	if center.Len() > 1e-4 {
		t.Errorf("expected centered geometry, bounding box center %v", center)
	}
	if depth := hi.Z() - lo.Z(); math.Abs(float64(depth-0.4)) > 1e-5 {
		t.Errorf("expected extrusion depth 0.4, got %v", depth)
	}
	if width := hi.X() - lo.X(); width < 2 || width > 6 {
		t.Errorf("unexpected text width %v for size 1", width)
	}
}

func TestNewTextMeshBevel(t *testing.T) {
	f, err := font.GoRegular()
	if err != nil {
		t.Fatalf("GoRegular: %v", err)
	}

	plain, err := NewTextMesh(f, "O", TextOptions{Size: 1})
	if err != nil {
		t.Fatalf("NewTextMesh: %v", err)
	}
	beveled, err := NewTextMesh(f, "O", TextOptions{Size: 1, BevelThickness: 0.03, BevelSize: 0.02})
	if err != nil {
		t.Fatalf("NewTextMesh: %v", err)
	}
	if err := beveled.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	plo, phi := plain.Bounds()
	blo, bhi := beveled.Bounds()
	if depth := bhi.Z() - blo.Z(); math.Abs(float64(depth-0.46)) > 1e-4 {
		t.Errorf("expected depth 0.4 plus two 0.03 bevels, got %v", depth)
	}
	if grow := (bhi.X() - blo.X()) - (phi.X() - plo.X()); math.Abs(float64(grow-0.04)) > 5e-3 {
		t.Errorf("expected the bevel to widen the glyph by 2 x 0.02, got %v", grow)
	}
	if len(beveled.Indices) <= len(plain.Indices) {
		t.Errorf("bevel should add side layers, %d indices vs %d", len(beveled.Indices), len(plain.Indices))
	}

	for _, v := range beveled.Vertices {
		n := mgl32.Vec3(v.Normal)
		if math.Abs(float64(n.Len()-1)) > 1e-3 {
			t.Fatalf("non-unit normal %v", n)
		}
	}
}

func TestOutwardMiters(t *testing.T) {
	want := []mgl32.Vec2{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}
	for i, m := range outwardMiters(square(0, 0, 1)) {
		if !m.ApproxEqualThreshold(want[i], 1e-5) {
			t.Errorf("corner %d: expected miter %v, got %v", i, want[i], m)
		}
	}
}

func TestNewTextMeshBlank(t *testing.T) {
	f, err := font.GoRegular()
	if err != nil {
		t.Fatalf("GoRegular: %v", err)
	}
	if _, err := NewTextMesh(f, "   ", TextOptions{}); !errors.Is(err, ErrEmptyMesh) {
		t.Errorf("expected ErrEmptyMesh, got %v", err)
	}
	if _, err := NewTextMesh(nil, "x", TextOptions{}); err == nil {
		t.Error("expected an error for a nil font")
	}
}

func TestMarshalSizes(t *testing.T) {
	m := NewBox(1, 1, 1)
	if got := len(MarshalVertices(m.Vertices)); got != 24*GPUVertexSize {
		t.Errorf("MarshalVertices: expected %d bytes, got %d", 24*GPUVertexSize, got)
	}
	if got := len(MarshalIndices(m.Indices)); got != 36*4 {
		t.Errorf("MarshalIndices: expected %d bytes, got %d", 36*4, got)
	}
	inst := []GPUInstance{{Model: mgl32.Ident4()}}
	if got := len(MarshalInstances(inst)); got != GPUInstanceSize {
		t.Errorf("MarshalInstances: expected %d bytes, got %d", GPUInstanceSize, got)
	}
	if got := len(MarshalParticles(make([]GPUParticle, 3))); got != 3*GPUParticleSize {
		t.Errorf("MarshalParticles: expected %d bytes, got %d", 3*GPUParticleSize, got)
	}
}

func TestModelParts(t *testing.T) {
	box := NewBox(1, 1, 1)
	m := NewModel(WithName("crate.glb"), WithPart(box, mgl32.Ident4()))
	m.AddPart(box, mgl32.Translate3D(1, 0, 0))
	if m.Name() != "crate.glb" || len(m.Parts()) != 2 || m.TriangleCount() != 24 {
		t.Errorf("unexpected model state: %s, %d parts, %d triangles", m.Name(), len(m.Parts()), m.TriangleCount())
	}
}

func TestComputeNormals(t *testing.T) {
	m := &Mesh{
		Vertices: []GPUVertex{{Position: [3]float32{0, 0, 0}}, {Position: [3]float32{1, 0, 0}}, {Position: [3]float32{0, 1, 0}}},
		Indices:  []uint32{0, 1, 2},
	}
	m.ComputeNormals()
	for i, v := range m.Vertices {
		if !mgl32.Vec3(v.Normal).ApproxEqual(mgl32.Vec3{0, 0, 1}) {
			t.Errorf("vertex %d: expected +Z normal, got %v", i, v.Normal)
		}
	}
}

func TestNewQuad(t *testing.T) {
	m := NewQuad()
	if err := m.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if m.TriangleCount() != 2 {
		t.Fatalf("expected 2 triangles, got %d", m.TriangleCount())
	}
	if r := m.Radius(); r < 0.7 || r > 0.71 {
		t.Errorf("expected radius ~0.707, got %v", r)
	}
}
