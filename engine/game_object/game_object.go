package game_object

import (
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-showcase/common"
	"github.com/Carmen-Shannon/oxy-showcase/engine/model"
	"github.com/go-gl/mathgl/mgl32"
)

var objectCount atomic.Uint64

type gameObject struct {
	id      uint64
	enabled atomic.Bool
	mesh    *model.Mesh

	position mgl32.Vec3
	rotation mgl32.Vec3
	scale    mgl32.Vec3

	// base is applied before the object's own transform, e.g. a glTF node transform.
	base mgl32.Mat4
}

// GameObject is a renderable mesh with a transform. The scene owns and mutates
// game objects on the frame loop; the renderer only reads them.
type GameObject interface {
	// ID returns the object's unique identifier.
	//
	// Returns:
	//   - uint64: the object ID
	ID() uint64

	// Enabled returns whether this object is drawn.
	//
	// Returns:
	//   - bool: true if enabled
	Enabled() bool

	// Mesh returns the object's geometry.
	//
	// Returns:
	//   - *model.Mesh: the mesh, or nil if unset
	Mesh() *model.Mesh

	// Position returns the world-space translation.
	//
	// Returns:
	//   - mgl32.Vec3: the position
	Position() mgl32.Vec3

	// Rotation returns the Euler angles in radians, applied in XYZ order.
	//
	// Returns:
	//   - mgl32.Vec3: the rotation
	Rotation() mgl32.Vec3

	// Scale returns the per-axis scale.
	//
	// Returns:
	//   - mgl32.Vec3: the scale
	Scale() mgl32.Vec3

	// ModelMatrix composes translation, rotation, scale and the base transform.
	//
	// Returns:
	//   - mgl32.Mat4: the column-major model matrix
	ModelMatrix() mgl32.Mat4

	// BoundingRadius returns a world-space radius around Position that encloses the mesh.
	//
	// Returns:
	//   - float32: the radius, 0 without a mesh
	BoundingRadius() float32

	// SetEnabled sets whether the object is drawn.
	//
	// Parameters:
	//   - enabled: true to draw
	SetEnabled(enabled bool)

	// SetPosition sets the world-space translation.
	//
	// Parameters:
	//   - p: the new position
	SetPosition(p mgl32.Vec3)

	// SetRotation sets the Euler angles, each wrapped into [0, 2π).
	//
	// Parameters:
	//   - r: the new rotation in radians
	SetRotation(r mgl32.Vec3)

	// Rotate adds d to the rotation, wrapping each axis into [0, 2π).
	//
	// Parameters:
	//   - d: the rotation increment in radians
	Rotate(d mgl32.Vec3)

	// SetScale sets the per-axis scale.
	//
	// Parameters:
	//   - s: the new scale
	SetScale(s mgl32.Vec3)
}

var _ GameObject = &gameObject{}

// NewGameObject creates an enabled GameObject at the origin with unit scale.
//
// Parameters:
//   - options: functional options to configure the object
//
// Returns:
//   - GameObject: the new object
func NewGameObject(options ...GameObjectBuilderOption) GameObject {
	obj := &gameObject{
		id:    objectCount.Add(1),
		scale: mgl32.Vec3{1, 1, 1},
		base:  mgl32.Ident4(),
	}
	obj.enabled.Store(true)
	for _, option := range options {
		option(obj)
	}
	return obj
}

func (g *gameObject) ID() uint64 {
	return g.id
}

func (g *gameObject) Enabled() bool {
	return g.enabled.Load()
}

func (g *gameObject) Mesh() *model.Mesh {
	return g.mesh
}

func (g *gameObject) Position() mgl32.Vec3 {
	return g.position
}

func (g *gameObject) Rotation() mgl32.Vec3 {
	return g.rotation
}

func (g *gameObject) Scale() mgl32.Vec3 {
	return g.scale
}

func (g *gameObject) ModelMatrix() mgl32.Mat4 {
	return common.ModelMatrix(g.position, g.rotation, g.scale).Mul4(g.base)
}

func (g *gameObject) BoundingRadius() float32 {
	if g.mesh == nil {
		return 0
	}
	s := max(abs32(g.scale.X()), abs32(g.scale.Y()), abs32(g.scale.Z()))
	// The base transform may translate the mesh away from the object origin.
	offset := g.base.Col(3).Vec3().Len()
	return g.mesh.Radius()*s*baseScale(g.base) + offset*s
}

func (g *gameObject) SetEnabled(enabled bool) {
	g.enabled.Store(enabled)
}

func (g *gameObject) SetPosition(p mgl32.Vec3) {
	g.position = p
}

func (g *gameObject) SetRotation(r mgl32.Vec3) {
	g.rotation = mgl32.Vec3{common.WrapAngle(r.X()), common.WrapAngle(r.Y()), common.WrapAngle(r.Z())}
}

func (g *gameObject) Rotate(d mgl32.Vec3) {
	g.SetRotation(g.rotation.Add(d))
}

func (g *gameObject) SetScale(s mgl32.Vec3) {
	g.scale = s
}

// baseScale is the largest column length of the upper 3x3 of m.
func baseScale(m mgl32.Mat4) float32 {
	return max(m.Col(0).Vec3().Len(), m.Col(1).Vec3().Len(), m.Col(2).Vec3().Len())
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
