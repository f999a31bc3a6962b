package tillfont

import (
	"image/color"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

// Rupee is the currency glyph every amount is prefixed with.
const Rupee = '₹'

// Font is proggy TinySZ8pt7b with a 6x8 bitmap rupee glyph added.
//
// Concurrent access is not safe due to internal glyph reuse.
var Font tinyfont.Fonter = &font{base: &proggy.TinySZ8pt7b}

type font struct {
	base  tinyfont.Fonter
	rupee rupeeGlyph
}

func (f *font) GetYAdvance() uint8 { return f.base.GetYAdvance() }

func (f *font) GetGlyph(r rune) tinyfont.Glypher {
	if r != Rupee {
		return f.base.GetGlyph(r)
	}
	if f.rupee.advance == 0 {
		f.rupee.advance = f.base.GetGlyph('0').Info().XAdvance
		if f.rupee.advance < rupeeWidth {
			f.rupee.advance = rupeeWidth
		}
	}
	return &f.rupee
}

const (
	rupeeWidth  = 6
	rupeeHeight = 8
)

// Rows are stored as 0b00xxxxxx (bit5 = leftmost pixel).
var rupeeBitmap = [rupeeHeight]byte{
	0x3E, // #####.
	0x04, // ...#..
	0x3E, // #####.
	0x04, // ...#..
	0x38, // ###...
	0x18, // .##...
	0x0C, // ..##..
	0x06, // ...##.
}

type rupeeGlyph struct {
	advance uint8
}

func (g *rupeeGlyph) Draw(display drivers.Displayer, x, y int16, c color.RGBA) {
	for row := 0; row < rupeeHeight; row++ {
		b := rupeeBitmap[row]
		for col := 0; col < rupeeWidth; col++ {
			if b&(0x20>>col) == 0 {
				continue
			}
			display.SetPixel(x+int16(col), y-int16(rupeeHeight-1-row), c)
		}
	}
}

func (g *rupeeGlyph) Info() tinyfont.GlyphInfo {
	return tinyfont.GlyphInfo{
		Rune:     Rupee,
		Width:    rupeeWidth,
		Height:   rupeeHeight,
		XAdvance: g.advance,
		XOffset:  0,
		YOffset:  -(rupeeHeight - 1),
	}
}
