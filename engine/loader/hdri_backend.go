package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/Carmen-Shannon/oxy-showcase/common"
	"github.com/mdouchement/hdr"
	"github.com/mdouchement/hdr/codec/rgbe"
)

// ErrUnsupportedHDR is returned when a Radiance file decodes to an image without float access.
var ErrUnsupportedHDR = errors.New("unsupported radiance hdr layout")

// HDRImage is a linear, high dynamic range RGB image in row-major order, top row first.
type HDRImage struct {
	Name   string
	Width  int
	Height int
	// Pixels holds three float32 components per pixel.
	Pixels []float32
}

// At returns the linear RGB value at (x, y).
func (h *HDRImage) At(x, y int) [3]float32 {
	i := (y*h.Width + x) * 3
	return [3]float32{h.Pixels[i], h.Pixels[i+1], h.Pixels[i+2]}
}

// ToneMapped maps the image to displayable RGBA8 using the Reinhard operator
// followed by sRGB-ish gamma 2.2.
//
// Parameters:
//   - exposure: linear multiplier applied before tone mapping, 0 means 1
//
// Returns:
//   - common.TextureStagingData: the 8-bit texture
func (h *HDRImage) ToneMapped(exposure float32) common.TextureStagingData {
	if exposure <= 0 {
		exposure = 1
	}
	out := make([]byte, h.Width*h.Height*4)
	for i := 0; i < h.Width*h.Height; i++ {
		for c := 0; c < 3; c++ {
			v := h.Pixels[i*3+c] * exposure
			v = v / (1 + v)
			out[i*4+c] = uint8(math.Round(math.Pow(float64(v), 1/2.2) * 255))
		}
		out[i*4+3] = 255
	}
	return common.TextureStagingData{Pixels: out, Width: uint32(h.Width), Height: uint32(h.Height)}
}

type hdriLoaderBackend struct{}

var _ loaderBackend[*HDRImage] = &hdriLoaderBackend{}

func newHDRILoaderBackend() *hdriLoaderBackend {
	return &hdriLoaderBackend{}
}

func (b *hdriLoaderBackend) Decode(src source) (*HDRImage, error) {
	img, err := DecodeHDR(bytes.NewReader(src.data))
	if err != nil {
		return nil, err
	}
	img.Name = src.name
	return img, nil
}

// DecodeHDR reads a Radiance RGBE image. Dimensions are checked against the decode
// pixel cap before any pixel storage is allocated.
//
// Parameters:
//   - r: the encoded file
//
// Returns:
//   - *HDRImage: the decoded linear image
//   - error: error if the header or pixel data is malformed, or the image is too large
func DecodeHDR(r io.Reader) (*HDRImage, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read hdr: %w", err)
	}

	cfg, err := rgbe.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to read hdr header: %w", err)
	}
	if err := checkDimensions(cfg.Width, cfg.Height); err != nil {
		return nil, err
	}

	decoded, err := rgbe.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode hdr: %w", err)
	}
	src, ok := decoded.(hdr.Image)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedHDR, decoded)
	}

	b := src.Bounds()
	img := &HDRImage{Width: b.Dx(), Height: b.Dy(), Pixels: make([]float32, b.Dx()*b.Dy()*3)}
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			cr, cg, cb, _ := src.HDRAt(b.Min.X+x, b.Min.Y+y).HDRRGBA()
			i := (y*img.Width + x) * 3
			img.Pixels[i], img.Pixels[i+1], img.Pixels[i+2] = float32(cr), float32(cg), float32(cb)
		}
	}
	return img, nil
}
