package till

import (
	"image/color"

	"till/hal"

	"tinygo.org/x/drivers"
)

// canvas draws into an RGB565 framebuffer and doubles as a tinyfont displayer.
type canvas struct {
	fb hal.Framebuffer
}

func (c canvas) Size() (x, y int16) {
	if c.fb == nil {
		return 0, 0
	}
	return int16(c.fb.Width()), int16(c.fb.Height())
}

func (c canvas) SetPixel(x, y int16, col color.RGBA) {
	c.put(int(x), int(y), rgb565From888(col.R, col.G, col.B))
}

func (c canvas) Display() error { return nil }

func (c canvas) put(x, y int, pixel uint16) {
	if c.fb == nil || c.fb.Format() != hal.PixelFormatRGB565 {
		return
	}
	if x < 0 || x >= c.fb.Width() || y < 0 || y >= c.fb.Height() {
		return
	}
	buf := c.fb.Buffer()
	off := y*c.fb.StrideBytes() + x*2
	if off < 0 || off+1 >= len(buf) {
		return
	}
	buf[off] = byte(pixel)
	buf[off+1] = byte(pixel >> 8)
}

func (c canvas) clear(pixel uint16) {
	if c.fb == nil {
		return
	}
	buf := c.fb.Buffer()
	lo := byte(pixel)
	hi := byte(pixel >> 8)
	for i := 0; i+1 < len(buf); i += 2 {
		buf[i] = lo
		buf[i+1] = hi
	}
}

func (c canvas) fill(r rect, pixel uint16) {
	for y := r.y; y < r.y+r.h; y++ {
		for x := r.x; x < r.x+r.w; x++ {
			c.put(x, y, pixel)
		}
	}
}

func (c canvas) outline(r rect, pixel uint16) {
	if r.w <= 0 || r.h <= 0 {
		return
	}
	c.hline(r.x, r.x+r.w-1, r.y, pixel)
	c.hline(r.x, r.x+r.w-1, r.y+r.h-1, pixel)
	c.vline(r.x, r.y, r.y+r.h-1, pixel)
	c.vline(r.x+r.w-1, r.y, r.y+r.h-1, pixel)
}

func (c canvas) hline(x0, x1, y int, pixel uint16) {
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	for x := x0; x <= x1; x++ {
		c.put(x, y, pixel)
	}
}

func (c canvas) vline(x, y0, y1 int, pixel uint16) {
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	for y := y0; y <= y1; y++ {
		c.put(x, y, pixel)
	}
}

// region is a clipped window of a canvas with its own origin, used as the
// journal terminal's display.
type region struct {
	c canvas
	r rect
}

func (d region) Size() (x, y int16) { return int16(d.r.w), int16(d.r.h) }

func (d region) SetPixel(x, y int16, col color.RGBA) {
	if int(x) < 0 || int(x) >= d.r.w || int(y) < 0 || int(y) >= d.r.h {
		return
	}
	d.c.put(d.r.x+int(x), d.r.y+int(y), rgb565From888(col.R, col.G, col.B))
}

func (d region) Display() error { return nil }

func (d region) FillRectangle(x, y, width, height int16, col color.RGBA) error {
	r := rect{x: int(x), y: int(y), w: int(width), h: int(height)}.clip(rect{w: d.r.w, h: d.r.h})
	r.x += d.r.x
	r.y += d.r.y
	d.c.fill(r, rgb565From888(col.R, col.G, col.B))
	return nil
}

func (d region) SetScroll(line int16) {}

func (d region) SetRotation(rotation drivers.Rotation) error { return nil }

type rect struct {
	x, y, w, h int
}

func (r rect) contains(x, y int) bool {
	return x >= r.x && x < r.x+r.w && y >= r.y && y < r.y+r.h
}

func (r rect) inset(n int) rect {
	return rect{x: r.x + n, y: r.y + n, w: r.w - 2*n, h: r.h - 2*n}
}

func (r rect) clip(bounds rect) rect {
	x0 := max(r.x, bounds.x)
	y0 := max(r.y, bounds.y)
	x1 := min(r.x+r.w, bounds.x+bounds.w)
	y1 := min(r.y+r.h, bounds.y+bounds.h)
	if x1 <= x0 || y1 <= y0 {
		return rect{x: x0, y: y0}
	}
	return rect{x: x0, y: y0, w: x1 - x0, h: y1 - y0}
}

func rgb565From888(r, g, b uint8) uint16 {
	return uint16((uint16(r>>3)&0x1F)<<11 | (uint16(g>>2)&0x3F)<<5 | (uint16(b>>3) & 0x1F))
}
