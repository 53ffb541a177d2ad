package loader

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"github.com/Carmen-Shannon/oxy-showcase/common"
	"github.com/cogentcore/webgpu/wgpu"
	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// maxDecodePixels caps the pixel count of any decoded image. 8192x4096 is the largest
// environment map the showcase ships with.
const maxDecodePixels = 8192 * 4096

// ErrImageTooLarge is returned when an image header declares more than maxDecodePixels.
var ErrImageTooLarge = errors.New("image too large")

// checkDimensions rejects non-positive sizes and sizes above maxDecodePixels.
func checkDimensions(w, h int) error {
	if w <= 0 || h <= 0 {
		return fmt.Errorf("invalid image size %dx%d", w, h)
	}
	if w > maxDecodePixels/h {
		return fmt.Errorf("%w: %dx%d", ErrImageTooLarge, w, h)
	}
	return nil
}

// Texture is a decoded image ready for GPU upload.
type Texture struct {
	Name    string
	Format  string
	Data    common.TextureStagingData
	Sampler common.SamplerStagingData
}

type textureLoaderBackend struct {
	maxSize int
}

var _ loaderBackend[*Texture] = &textureLoaderBackend{}

func newTextureLoaderBackend(maxSize int) *textureLoaderBackend {
	return &textureLoaderBackend{maxSize: maxSize}
}

func (b *textureLoaderBackend) Decode(src source) (*Texture, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(src.data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image header: %w", err)
	}
	if err := checkDimensions(cfg.Width, cfg.Height); err != nil {
		return nil, err
	}

	img, format, err := image.Decode(bytes.NewReader(src.data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	rgba := toRGBA(img, b.maxSize)
	return &Texture{
		Name:   src.name,
		Format: format,
		Data: common.TextureStagingData{
			Pixels: rgba.Pix,
			Width:  uint32(rgba.Rect.Dx()),
			Height: uint32(rgba.Rect.Dy()),
		},
		Sampler: common.SamplerStagingData{
			AddressModeU: wgpu.AddressModeClampToEdge,
			AddressModeV: wgpu.AddressModeClampToEdge,
			AddressModeW: wgpu.AddressModeClampToEdge,
			MagFilter:    wgpu.FilterModeLinear,
			MinFilter:    wgpu.FilterModeLinear,
			MipmapFilter: wgpu.MipmapFilterModeLinear,
			LodMaxClamp:  32,
		},
	}, nil
}

// toRGBA converts img to a zero-origin RGBA image, scaling it down so its longest
// side is at most maxSize when maxSize is positive.
func toRGBA(img image.Image, maxSize int) *image.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxSize > 0 && (w > maxSize || h > maxSize) {
		if w >= h {
			w, h = maxSize, max(h*maxSize/w, 1)
		} else {
			w, h = max(w*maxSize/h, 1), maxSize
		}
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
		return dst
	}

	if rgba, ok := img.(*image.RGBA); ok && b.Min == (image.Point{}) && rgba.Stride == 4*w {
		return rgba
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.Draw(dst, dst.Bounds(), img, b.Min, xdraw.Src)
	return dst
}
