package shader

import (
	"errors"
	"fmt"
	"regexp"
	"sort"

	"github.com/cogentcore/webgpu/wgpu"
)

// ShaderType identifies the pipeline stage a shader entry point runs in.
type ShaderType int

const (
	// ShaderTypeVertex is the vertex stage of a render pipeline.
	ShaderTypeVertex ShaderType = iota

	// ShaderTypeFragment is the fragment stage, paired with a vertex shader.
	ShaderTypeFragment
)

// String returns the WGSL attribute name of the stage.
func (t ShaderType) String() string {
	switch t {
	case ShaderTypeVertex:
		return "vertex"
	case ShaderTypeFragment:
		return "fragment"
	default:
		return fmt.Sprintf("ShaderType(%d)", int(t))
	}
}

var (
	// ErrEmptySource is returned by NewShader when no WGSL source is given.
	ErrEmptySource = errors.New("shader: empty source")
	// ErrMissingEntryPoint is returned by NewShader when the source has no matching stage function.
	ErrMissingEntryPoint = errors.New("shader: entry point not found")
)

// shader is the implementation of the Shader interface.
// It holds the WGSL source plus the explicit layouts the pipeline is created with.
type shader struct {
	key                        string
	source                     string
	shaderType                 ShaderType
	entryPoint                 string
	bindGroupLayoutDescriptors map[int]wgpu.BindGroupLayoutDescriptor
	vertexLayouts              []wgpu.VertexBufferLayout
	module                     *wgpu.ShaderModuleDescriptor
}

// Shader is one stage of a render pipeline: WGSL source, its entry point, and the bind group
// and vertex buffer layouts the stage expects.
type Shader interface {
	// Key returns the unique identifier used for caching and labels.
	Key() string

	// Source returns the WGSL source code.
	Source() string

	// ShaderType returns the stage this shader runs in.
	ShaderType() ShaderType

	// EntryPoint returns the name of the stage function.
	EntryPoint() string

	// BindGroupLayoutDescriptor returns the layout declared for a group, or an empty descriptor.
	//
	// Parameters:
	//   - group: the bind group index
	//
	// Returns:
	//   - wgpu.BindGroupLayoutDescriptor: the descriptor, entries sorted by binding
	BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor

	// BindGroupLayoutDescriptors returns every declared layout keyed by group index.
	BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor

	// VertexLayouts returns the vertex buffer layouts in slot order. Fragment shaders have none.
	VertexLayouts() []wgpu.VertexBufferLayout

	// Module returns the shader module descriptor handed to the device.
	Module() *wgpu.ShaderModuleDescriptor
}

var _ Shader = &shader{}

// NewShader creates a Shader from inline WGSL source. The entry point defaults to vs_main for
// vertex shaders and fs_main for fragment shaders and must be declared in the source with the
// matching stage attribute.
//
// Parameters:
//   - key: a unique identifier for the shader
//   - shaderType: the stage the shader runs in
//   - source: the WGSL source
//   - options: functional options declaring layouts and the entry point
//
// Returns:
//   - Shader: the shader
//   - error: ErrEmptySource or ErrMissingEntryPoint when the source does not fit
func NewShader(key string, shaderType ShaderType, source string, options ...ShaderBuilderOption) (Shader, error) {
	if source == "" {
		return nil, fmt.Errorf("%s: %w", key, ErrEmptySource)
	}
	s := &shader{
		key:                        key,
		source:                     source,
		shaderType:                 shaderType,
		bindGroupLayoutDescriptors: make(map[int]wgpu.BindGroupLayoutDescriptor),
	}
	switch shaderType {
	case ShaderTypeVertex:
		s.entryPoint = "vs_main"
	case ShaderTypeFragment:
		s.entryPoint = "fs_main"
	}
	for _, opt := range options {
		opt(s)
	}

	entry := regexp.MustCompile(`@` + shaderType.String() + `\s+fn\s+` + regexp.QuoteMeta(s.entryPoint) + `\s*\(`)
	if !entry.MatchString(source) {
		return nil, fmt.Errorf("%s: @%s fn %s: %w", key, shaderType, s.entryPoint, ErrMissingEntryPoint)
	}

	s.module = &wgpu.ShaderModuleDescriptor{
		Label: key,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: source,
		},
	}
	return s, nil
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) ShaderType() ShaderType {
	return s.shaderType
}

func (s *shader) EntryPoint() string {
	return s.entryPoint
}

func (s *shader) BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor {
	return s.bindGroupLayoutDescriptors[group]
}

func (s *shader) BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor {
	return s.bindGroupLayoutDescriptors
}

func (s *shader) VertexLayouts() []wgpu.VertexBufferLayout {
	return s.vertexLayouts
}

func (s *shader) Module() *wgpu.ShaderModuleDescriptor {
	return s.module
}

func sortEntries(entries []wgpu.BindGroupLayoutEntry) {
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Binding < entries[j].Binding
	})
}
