//go:build !tinygo && cgo

package hal

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

type hostPointer struct {
	ch      chan PointerEvent
	touches []ebiten.TouchID
}

func newHostPointer() *hostPointer {
	return &hostPointer{ch: make(chan PointerEvent, 16)}
}

func (p *hostPointer) Events() <-chan PointerEvent { return p.ch }

// poll must run inside ebiten's Update: cursor positions are reported in layout
// (framebuffer) coordinates there.
func (p *hostPointer) poll() {
	emit := func(ev PointerEvent) {
		select {
		case p.ch <- ev:
		default:
		}
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		emit(PointerEvent{X: x, Y: y, Press: true})
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		emit(PointerEvent{X: x, Y: y, Press: false})
	}

	p.touches = inpututil.AppendJustPressedTouchIDs(p.touches[:0])
	for _, id := range p.touches {
		x, y := ebiten.TouchPosition(id)
		emit(PointerEvent{X: x, Y: y, Press: true})
	}
}
