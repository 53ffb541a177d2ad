package font

import (
	"errors"
	"testing"
)

func mustGoRegular(t *testing.T) *Font {
	t.Helper()
	f, err := GoRegular()
	if err != nil {
		t.Fatalf("GoRegular: %v", err)
	}
	return f
}

func TestParseEmpty(t *testing.T) {
	if _, err := Parse(nil); !errors.Is(err, ErrEmptyFont) {
		t.Errorf("expected ErrEmptyFont, got %v", err)
	}
}

func TestParseGarbage(t *testing.T) {
	if _, err := Parse([]byte("definitely not a font")); err == nil {
		t.Error("expected an error for garbage data")
	}
}

func TestGoRegularMetadata(t *testing.T) {
	f := mustGoRegular(t)
	if f.UnitsPerEm() <= 0 {
		t.Errorf("expected positive units per em, got %v", f.UnitsPerEm())
	}
	if f.Name() == "" {
		t.Error("expected a family name")
	}
}

func TestShapeAdvancesLeftToRight(t *testing.T) {
	f := mustGoRegular(t)
	glyphs, err := f.Shape("Soumak")
	if err != nil {
		t.Fatalf("Shape: %v", err)
	}
	if len(glyphs) != 6 {
		t.Fatalf("expected 6 glyphs, got %d", len(glyphs))
	}
	for i := 1; i < len(glyphs); i++ {
		if glyphs[i].X <= glyphs[i-1].X {
			t.Errorf("glyph %d at %v is not right of glyph %d at %v", i, glyphs[i].X, i-1, glyphs[i-1].X)
		}
		if glyphs[i].ID == 0 {
			t.Errorf("glyph %d mapped to .notdef", i)
		}
	}
}

func TestShapeFallbackMatchesGlyphCount(t *testing.T) {
	f := mustGoRegular(t)
	f.shaping = nil
	glyphs, err := f.Shape("Dutta")
	if err != nil {
		t.Fatalf("Shape: %v", err)
	}
	if len(glyphs) != 5 {
		t.Errorf("expected 5 glyphs, got %d", len(glyphs))
	}
}

func TestShapeEmpty(t *testing.T) {
	f := mustGoRegular(t)
	glyphs, err := f.Shape("")
	if err != nil || glyphs != nil {
		t.Errorf("expected no glyphs and no error, got %v, %v", glyphs, err)
	}
}

func TestOutlineContours(t *testing.T) {
	f := mustGoRegular(t)
	glyphs, err := f.Shape("o .")
	if err != nil {
		t.Fatalf("Shape: %v", err)
	}

	tests := []struct {
		name     string
		index    int
		contours int
	}{
		{"o has an outer loop and a hole", 0, 2},
		{"space is blank", 1, 0},
		{"period is one loop", 2, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			contours, err := f.Outline(glyphs[tt.index].ID, 12)
			if err != nil {
				t.Fatalf("Outline: %v", err)
			}
			if len(contours) != tt.contours {
				t.Errorf("expected %d contours, got %d", tt.contours, len(contours))
			}
			for _, c := range contours {
				if c[0].ApproxEqual(c[len(c)-1]) {
					t.Error("contour repeats its first point at the end")
				}
			}
		})
	}
}

func TestOutlineYUp(t *testing.T) {
	f := mustGoRegular(t)
	glyphs, _ := f.Shape("l")
	contours, err := f.Outline(glyphs[0].ID, 4)
	if err != nil {
		t.Fatalf("Outline: %v", err)
	}
	var maxY float32
	for _, c := range contours {
		for _, p := range c {
			maxY = max(maxY, p.Y())
		}
	}
	if maxY <= 0 {
		t.Errorf("expected the ascender above the baseline, max y = %v", maxY)
	}
}
