package model

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Part is one mesh of an imported model placed by its node's world transform.
type Part struct {
	Mesh      *Mesh
	Transform mgl32.Mat4
}

type modelImpl struct {
	name  string
	parts []Part
}

// Model is a static model imported from a file: a flat list of meshes with their
// node transforms already resolved to model space.
type Model interface {
	// Name returns the model identifier, usually its source path.
	//
	// Returns:
	//   - string: the model name
	Name() string

	// Parts returns the placed meshes of the model.
	//
	// Returns:
	//   - []Part: the parts, in file order
	Parts() []Part

	// TriangleCount returns the total triangle count over every part.
	//
	// Returns:
	//   - int: the triangle count
	TriangleCount() int

	// AddPart appends a placed mesh.
	//
	// Parameters:
	//   - mesh: the mesh
	//   - transform: its model-space transform
	AddPart(mesh *Mesh, transform mgl32.Mat4)
}

var _ Model = &modelImpl{}

// NewModel creates an empty Model.
//
// Parameters:
//   - options: functional options to configure the model
//
// Returns:
//   - Model: the new model
func NewModel(options ...ModelBuilderOption) Model {
	m := &modelImpl{}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *modelImpl) Name() string {
	return m.name
}

func (m *modelImpl) Parts() []Part {
	return m.parts
}

func (m *modelImpl) TriangleCount() int {
	n := 0
	for _, p := range m.parts {
		n += p.Mesh.TriangleCount()
	}
	return n
}

func (m *modelImpl) AddPart(mesh *Mesh, transform mgl32.Mat4) {
	m.parts = append(m.parts, Part{Mesh: mesh, Transform: transform})
}
