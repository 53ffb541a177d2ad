package shader

import (
	"errors"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
)

const testSource = `
@vertex
fn vs_main(@location(0) p: vec3<f32>) -> @builtin(position) vec4<f32> {
	return vec4<f32>(p, 1.0);
}

@fragment fn fs_main() -> @location(0) vec4<f32> {
	return vec4<f32>(1.0);
}

@vertex fn alt_main(@location(0) p: vec3<f32>) -> @builtin(position) vec4<f32> {
	return vec4<f32>(p, 1.0);
}
`

func TestNewShaderDefaults(t *testing.T) {
	vs, err := NewShader("test vs", ShaderTypeVertex, testSource)
	if err != nil {
		t.Fatalf("NewShader: %v", err)
	}
	if vs.EntryPoint() != "vs_main" {
		t.Errorf("expected vs_main, got %q", vs.EntryPoint())
	}
	if vs.Module() == nil || vs.Module().WGSLDescriptor == nil || vs.Module().WGSLDescriptor.Code != testSource {
		t.Error("module descriptor does not carry the source")
	}
	if vs.Module().Label != "test vs" {
		t.Errorf("unexpected label %q", vs.Module().Label)
	}

	fs, err := NewShader("test fs", ShaderTypeFragment, testSource)
	if err != nil {
		t.Fatalf("NewShader: %v", err)
	}
	if fs.EntryPoint() != "fs_main" {
		t.Errorf("expected fs_main, got %q", fs.EntryPoint())
	}
	if len(fs.VertexLayouts()) != 0 {
		t.Error("fragment shader should have no vertex layouts")
	}
}

func TestNewShaderErrors(t *testing.T) {
	tests := []struct {
		name    string
		typ     ShaderType
		source  string
		options []ShaderBuilderOption
		want    error
	}{
		{name: "empty", typ: ShaderTypeVertex, source: "", want: ErrEmptySource},
		{name: "wrong stage", typ: ShaderTypeFragment, source: "@vertex fn fs_main() {}", want: ErrMissingEntryPoint},
		{name: "unknown entry", typ: ShaderTypeVertex, source: testSource, options: []ShaderBuilderOption{WithEntryPoint("nope")}, want: ErrMissingEntryPoint},
		{name: "prefix only", typ: ShaderTypeVertex, source: "@vertex fn vs_main_2() {}", want: ErrMissingEntryPoint},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewShader(tt.name, tt.typ, tt.source, tt.options...)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestWithEntryPoint(t *testing.T) {
	s, err := NewShader("alt", ShaderTypeVertex, testSource, WithEntryPoint("alt_main"))
	if err != nil {
		t.Fatalf("NewShader: %v", err)
	}
	if s.EntryPoint() != "alt_main" {
		t.Errorf("expected alt_main, got %q", s.EntryPoint())
	}
}

func TestWithBindGroupLayoutSortsAndMerges(t *testing.T) {
	s, err := NewShader("layouts", ShaderTypeFragment, testSource,
		WithBindGroupLayout(1,
			wgpu.BindGroupLayoutEntry{Binding: 1, Visibility: wgpu.ShaderStageFragment},
		),
		WithBindGroupLayout(1,
			wgpu.BindGroupLayoutEntry{Binding: 0, Visibility: wgpu.ShaderStageFragment},
		),
		WithBindGroupLayout(0,
			wgpu.BindGroupLayoutEntry{Binding: 0, Visibility: wgpu.ShaderStageVertex},
		),
	)
	if err != nil {
		t.Fatalf("NewShader: %v", err)
	}
	if n := len(s.BindGroupLayoutDescriptors()); n != 2 {
		t.Fatalf("expected 2 groups, got %d", n)
	}
	g1 := s.BindGroupLayoutDescriptor(1)
	if len(g1.Entries) != 2 || g1.Entries[0].Binding != 0 || g1.Entries[1].Binding != 1 {
		t.Errorf("group 1 entries not merged in binding order: %+v", g1.Entries)
	}
	if g1.Label != "layouts group 1" {
		t.Errorf("unexpected label %q", g1.Label)
	}
	if len(s.BindGroupLayoutDescriptor(5).Entries) != 0 {
		t.Error("undeclared group should be empty")
	}
}

func TestWithVertexLayouts(t *testing.T) {
	layouts := []wgpu.VertexBufferLayout{
		{ArrayStride: 24, StepMode: wgpu.VertexStepModeVertex},
		{ArrayStride: 64, StepMode: wgpu.VertexStepModeInstance},
	}
	s, err := NewShader("vertex", ShaderTypeVertex, testSource, WithVertexLayouts(layouts...))
	if err != nil {
		t.Fatalf("NewShader: %v", err)
	}
	got := s.VertexLayouts()
	if len(got) != 2 || got[1].StepMode != wgpu.VertexStepModeInstance {
		t.Errorf("unexpected layouts %+v", got)
	}
}
