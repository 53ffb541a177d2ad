// Package common contains plain data types and helpers shared across the engine packages.
package common

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// TextureStagingData holds RGBA8 pixel data pending GPU upload.
type TextureStagingData struct {
	// Pixels holds tightly packed RGBA rows, 4 bytes per pixel.
	Pixels []byte
	Width  uint32
	Height uint32
}

// Valid reports whether the pixel buffer matches the declared dimensions.
//
// Returns:
//   - bool: true if Pixels holds exactly Width*Height*4 bytes and neither dimension is zero
func (t TextureStagingData) Valid() bool {
	return t.Width > 0 && t.Height > 0 && len(t.Pixels) == int(t.Width*t.Height*4)
}

// WhiteTexture returns a 1x1 opaque white texture, bound wherever an optional texture is missing.
//
// Returns:
//   - TextureStagingData: the staging data
func WhiteTexture() TextureStagingData {
	return TextureStagingData{Pixels: []byte{255, 255, 255, 255}, Width: 1, Height: 1}
}

// SamplerStagingData holds the configuration for a sampler pending GPU creation.
// Zero fields fall back to linear filtering with repeat addressing.
type SamplerStagingData struct {
	AddressModeU, AddressModeV, AddressModeW wgpu.AddressMode
	MagFilter, MinFilter                     wgpu.FilterMode
	MipmapFilter                             wgpu.MipmapFilterMode
	LodMinClamp, LodMaxClamp                 float32
	Compare                                  wgpu.CompareFunction
	MaxAnisotropy                            uint16
}
