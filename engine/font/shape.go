package font

import (
	"github.com/go-text/typesetting/di"
	gotext "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/norm"
)

// Shape lays out a single line of text left to right starting at the origin.
// The text is NFC-normalized first so composed and decomposed input shape identically.
//
// Parameters:
//   - text: the line to shape
//
// Returns:
//   - []Glyph: positioned glyphs in font units
//   - error: error if a glyph lookup fails on the fallback path
func (f *Font) Shape(text string) ([]Glyph, error) {
	runes := []rune(norm.NFC.String(text))
	if len(runes) == 0 {
		return nil, nil
	}
	if f.shaping != nil {
		return f.shapeHarfbuzz(runes), nil
	}
	return f.shapeSimple(runes)
}

func (f *Font) shapeHarfbuzz(runes []rune) []Glyph {
	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: di.DirectionLTR,
		Face:      gotext.NewFace(f.shaping),
		Size:      f.ppem(),
		Script:    detectScript(runes),
		Language:  language.NewLanguage("en"),
	}

	var shaper shaping.HarfbuzzShaper
	out := shaper.Shape(input)

	glyphs := make([]Glyph, 0, len(out.Glyphs))
	var pen float32
	for _, g := range out.Glyphs {
		adv := fixedToFloat(g.Advance)
		glyphs = append(glyphs, Glyph{
			ID:      sfnt.GlyphIndex(uint16(g.GlyphID)),
			X:       pen + fixedToFloat(g.XOffset),
			Y:       fixedToFloat(g.YOffset),
			Advance: adv,
		})
		pen += adv
	}
	return glyphs
}

// shapeSimple maps runes one to one and applies pairwise kerning from the kern table.
func (f *Font) shapeSimple(runes []rune) ([]Glyph, error) {
	var buf sfnt.Buffer
	ppem := f.ppem()

	glyphs := make([]Glyph, 0, len(runes))
	var pen float32
	prev := sfnt.GlyphIndex(0)
	for i, r := range runes {
		gid, err := f.outlines.GlyphIndex(&buf, r)
		if err != nil {
			return nil, err
		}
		if i > 0 {
			if k, err := f.outlines.Kern(&buf, prev, gid, ppem, xfont.HintingNone); err == nil {
				pen += fixedToFloat(k)
			}
		}
		adv, err := f.outlines.GlyphAdvance(&buf, gid, ppem, xfont.HintingNone)
		if err != nil {
			return nil, err
		}
		glyphs = append(glyphs, Glyph{ID: gid, X: pen, Advance: fixedToFloat(adv)})
		pen += fixedToFloat(adv)
		prev = gid
	}
	return glyphs, nil
}

// detectScript returns the script of the first non-space rune.
func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		if r == ' ' || r == '\t' {
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}

func fixedToFloat(v fixed.Int26_6) float32 {
	return float32(v) / 64
}
