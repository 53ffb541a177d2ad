package model

import (
	"encoding/binary"
	"math"
)

// GPUVertexSize is the byte stride of GPUVertex in a vertex buffer.
const GPUVertexSize = 24

// GPUInstanceSize is the byte stride of GPUInstance in an instance buffer.
const GPUInstanceSize = 64

// GPUParticleSize is the byte stride of GPUParticle in an instance buffer.
const GPUParticleSize = 12

// GPUVertex is a mesh vertex as laid out in the vertex buffer.
// The normal-material shaders read location 0 as position and location 1 as normal.
type GPUVertex struct {
	Position [3]float32 // offset  0
	Normal   [3]float32 // offset 12
}

// GPUInstance carries one object's model matrix (column-major) at locations 2 to 5.
type GPUInstance struct {
	Model [16]float32
}

// GPUParticle carries one particle's world position at location 1 of the particle pipeline.
type GPUParticle struct {
	Position [3]float32
}

func putFloats(buf []byte, values ...float32) {
	for i, v := range values {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
}

// MarshalVertices serializes vertices into a little-endian buffer ready for GPU upload.
//
// Parameters:
//   - vertices: the vertices to serialize
//
// Returns:
//   - []byte: len(vertices)*GPUVertexSize bytes
func MarshalVertices(vertices []GPUVertex) []byte {
	buf := make([]byte, len(vertices)*GPUVertexSize)
	for i, v := range vertices {
		putFloats(buf[i*GPUVertexSize:], v.Position[0], v.Position[1], v.Position[2], v.Normal[0], v.Normal[1], v.Normal[2])
	}
	return buf
}

// MarshalIndices serializes uint32 indices into a little-endian buffer.
//
// Parameters:
//   - indices: the indices to serialize
//
// Returns:
//   - []byte: len(indices)*4 bytes
func MarshalIndices(indices []uint32) []byte {
	buf := make([]byte, len(indices)*4)
	for i, idx := range indices {
		binary.LittleEndian.PutUint32(buf[i*4:], idx)
	}
	return buf
}

// MarshalInstances serializes model matrices into a little-endian buffer.
//
// Parameters:
//   - instances: the instances to serialize
//
// Returns:
//   - []byte: len(instances)*GPUInstanceSize bytes
func MarshalInstances(instances []GPUInstance) []byte {
	buf := make([]byte, len(instances)*GPUInstanceSize)
	for i, inst := range instances {
		putFloats(buf[i*GPUInstanceSize:], inst.Model[:]...)
	}
	return buf
}

// MarshalParticles serializes particle positions into a little-endian buffer.
//
// Parameters:
//   - particles: the particles to serialize
//
// Returns:
//   - []byte: len(particles)*GPUParticleSize bytes
func MarshalParticles(particles []GPUParticle) []byte {
	buf := make([]byte, len(particles)*GPUParticleSize)
	for i, p := range particles {
		putFloats(buf[i*GPUParticleSize:], p.Position[0], p.Position[1], p.Position[2])
	}
	return buf
}
