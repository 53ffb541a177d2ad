// Package font parses TrueType/OpenType faces and exposes what text geometry needs:
// shaped glyph runs and flattened glyph outlines, both in font units.
package font

import (
	"bytes"
	"errors"
	"fmt"

	gotext "github.com/go-text/typesetting/font"
	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// ErrEmptyFont is returned when Parse is given no data.
var ErrEmptyFont = errors.New("font data is empty")

// Font is a parsed font face. It is safe for concurrent use: every call allocates
// its own sfnt.Buffer and shaping face.
type Font struct {
	name       string
	outlines   *sfnt.Font
	shaping    *gotext.Font
	unitsPerEm float32
}

// Glyph is one shaped glyph positioned on the baseline, in font units.
type Glyph struct {
	ID      sfnt.GlyphIndex
	X, Y    float32
	Advance float32
}

// Contour is a closed outline loop in font units with Y pointing up.
// The closing edge from the last point back to the first is implicit.
type Contour []mgl32.Vec2

// Parse parses TrueType or OpenType data. Outlines always come from x/image/sfnt;
// shaping uses go-text when it can read the face and falls back to sfnt advances
// and kerning otherwise.
//
// Parameters:
//   - data: the raw font file
//
// Returns:
//   - *Font: the parsed font
//   - error: error if the data is empty or not a font
func Parse(data []byte) (*Font, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFont
	}

	outlines, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font outlines: %w", err)
	}

	f := &Font{
		outlines:   outlines,
		unitsPerEm: float32(outlines.UnitsPerEm()),
	}

	var buf sfnt.Buffer
	if name, err := outlines.Name(&buf, sfnt.NameIDFamily); err == nil {
		f.name = name
	}

	if face, err := gotext.ParseTTF(bytes.NewReader(data)); err == nil {
		f.shaping = face.Font
	}

	return f, nil
}

// GoRegular returns the Go Regular face bundled with golang.org/x/image.
//
// Returns:
//   - *Font: the parsed font
//   - error: error if parsing fails
func GoRegular() (*Font, error) {
	return Parse(goregular.TTF)
}

// Name returns the font family name, or an empty string if the face has none.
func (f *Font) Name() string {
	return f.name
}

// UnitsPerEm returns the size of the em square in font units.
func (f *Font) UnitsPerEm() float32 {
	return f.unitsPerEm
}

// ppem loads outlines and advances at one pixel per font unit.
func (f *Font) ppem() fixed.Int26_6 {
	return fixed.I(int(f.unitsPerEm))
}

// Outline returns the glyph's contours with curves flattened into curveSegments steps.
// Blank glyphs such as space return no contours.
//
// Parameters:
//   - id: the glyph index
//   - curveSegments: line segments per quadratic or cubic curve (minimum 1)
//
// Returns:
//   - []Contour: the closed contours in font units
//   - error: error if the glyph cannot be loaded
func (f *Font) Outline(id sfnt.GlyphIndex, curveSegments int) ([]Contour, error) {
	if curveSegments < 1 {
		curveSegments = 1
	}

	var buf sfnt.Buffer
	segments, err := f.outlines.LoadGlyph(&buf, id, f.ppem(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load glyph %d: %w", id, err)
	}

	var (
		contours []Contour
		current  Contour
		pen      mgl32.Vec2
	)
	flush := func() {
		current = closeContour(current)
		if len(current) >= 3 {
			contours = append(contours, current)
		}
		current = nil
	}
	add := func(p mgl32.Vec2) {
		if n := len(current); n > 0 && current[n-1].ApproxEqual(p) {
			return
		}
		current = append(current, p)
	}

	for _, seg := range segments {
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			flush()
			pen = toVec(seg.Args[0])
			add(pen)
		case sfnt.SegmentOpLineTo:
			pen = toVec(seg.Args[0])
			add(pen)
		case sfnt.SegmentOpQuadTo:
			c, end := toVec(seg.Args[0]), toVec(seg.Args[1])
			for i := 1; i <= curveSegments; i++ {
				add(quadPoint(pen, c, end, float32(i)/float32(curveSegments)))
			}
			pen = end
		case sfnt.SegmentOpCubeTo:
			c1, c2, end := toVec(seg.Args[0]), toVec(seg.Args[1]), toVec(seg.Args[2])
			for i := 1; i <= curveSegments; i++ {
				add(cubePoint(pen, c1, c2, end, float32(i)/float32(curveSegments)))
			}
			pen = end
		}
	}
	flush()

	return contours, nil
}

// toVec converts an sfnt point (Y down) into font units with Y up.
func toVec(p fixed.Point26_6) mgl32.Vec2 {
	return mgl32.Vec2{float32(p.X) / 64, -float32(p.Y) / 64}
}

// closeContour drops a trailing point that repeats the first one.
func closeContour(c Contour) Contour {
	if n := len(c); n > 1 && c[0].ApproxEqual(c[n-1]) {
		return c[:n-1]
	}
	return c
}

func quadPoint(p0, p1, p2 mgl32.Vec2, t float32) mgl32.Vec2 {
	u := 1 - t
	return p0.Mul(u * u).Add(p1.Mul(2 * u * t)).Add(p2.Mul(t * t))
}

func cubePoint(p0, p1, p2, p3 mgl32.Vec2, t float32) mgl32.Vec2 {
	u := 1 - t
	return p0.Mul(u * u * u).
		Add(p1.Mul(3 * u * u * t)).
		Add(p2.Mul(3 * u * t * t)).
		Add(p3.Mul(t * t * t))
}
