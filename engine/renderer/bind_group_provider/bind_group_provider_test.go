package bind_group_provider

import "testing"

func TestNewBindGroupProvider(t *testing.T) {
	p := NewBindGroupProvider("boxes", WithIndexCount(36), WithInstanceCount(4))
	if p.Label() != "boxes" {
		t.Errorf("expected label boxes, got %q", p.Label())
	}
	if p.IndexCount() != 36 || p.InstanceCount() != 4 {
		t.Errorf("unexpected counts %d/%d", p.IndexCount(), p.InstanceCount())
	}
	if p.Drawable() {
		t.Error("provider without buffers should not be drawable")
	}
	if p.Buffer(0) != nil || p.TextureView(0) != nil || p.Sampler(0) != nil {
		t.Error("unset bindings should be nil")
	}
	if p.BindGroup() != nil || p.BindGroupLayout() != nil || p.InstanceBuffer() != nil {
		t.Error("GPU objects should be nil before initialization")
	}
}

func TestReleaseEmpty(t *testing.T) {
	p := NewBindGroupProvider("empty", WithIndexCount(6), WithInstanceCount(2))
	p.SetBuffer(0, nil)
	p.SetTexture(1, nil, nil)
	p.SetSampler(2, nil)
	p.Release()
	p.Release()
	if p.IndexCount() != 0 || p.InstanceCount() != 0 || p.InstanceCapacity() != 0 {
		t.Error("Release should reset draw counts")
	}
}
