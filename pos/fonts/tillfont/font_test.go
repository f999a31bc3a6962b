package tillfont

import (
	"image/color"
	"testing"

	"tinygo.org/x/tinyfont"
)

type pixelCounter struct {
	set map[[2]int16]bool
}

func (p *pixelCounter) Size() (x, y int16) { return 64, 16 }
func (p *pixelCounter) SetPixel(x, y int16, c color.RGBA) {
	p.set[[2]int16{x, y}] = true
}
func (p *pixelCounter) Display() error { return nil }

func TestRupeeGlyphDraws(t *testing.T) {
	d := &pixelCounter{set: map[[2]int16]bool{}}
	tinyfont.WriteLine(d, Font, 0, 10, string(Rupee), color.RGBA{A: 0xFF})
	if len(d.set) == 0 {
		t.Fatal("expected rupee glyph to set pixels")
	}
	for px := range d.set {
		if px[0] < 0 || px[0] >= rupeeWidth || px[1] > 10 || px[1] < 10-rupeeHeight+1 {
			t.Fatalf("pixel %v outside glyph box", px)
		}
	}
}

func TestRupeeAdvanceMatchesDigits(t *testing.T) {
	info := Font.GetGlyph(Rupee).Info()
	digit := Font.GetGlyph('0').Info()
	if info.XAdvance < rupeeWidth {
		t.Fatalf("rupee XAdvance = %d, want >= %d", info.XAdvance, rupeeWidth)
	}
	if digit.XAdvance >= rupeeWidth && info.XAdvance != digit.XAdvance {
		t.Fatalf("rupee XAdvance = %d, digit XAdvance = %d", info.XAdvance, digit.XAdvance)
	}
}

func TestASCIIFallsThroughToBase(t *testing.T) {
	if got := Font.GetGlyph('A').Info().Rune; got != 'A' {
		t.Fatalf("GetGlyph('A').Info().Rune = %q", got)
	}
}
