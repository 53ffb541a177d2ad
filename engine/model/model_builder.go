package model

import "github.com/go-gl/mathgl/mgl32"

// ModelBuilderOption is a functional option for configuring a Model via NewModel.
type ModelBuilderOption func(*modelImpl)

// WithName sets the model name.
//
// Parameters:
//   - name: the model identifier
//
// Returns:
//   - ModelBuilderOption: option function to apply
func WithName(name string) ModelBuilderOption {
	return func(m *modelImpl) {
		m.name = name
	}
}

// WithPart adds a placed mesh during construction.
//
// Parameters:
//   - mesh: the mesh
//   - transform: its model-space transform
//
// Returns:
//   - ModelBuilderOption: option function to apply
func WithPart(mesh *Mesh, transform mgl32.Mat4) ModelBuilderOption {
	return func(m *modelImpl) {
		m.parts = append(m.parts, Part{Mesh: mesh, Transform: transform})
	}
}
