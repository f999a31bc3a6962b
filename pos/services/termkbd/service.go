package termkbd

import (
	"unicode/utf8"

	"till/hal"
	"till/pos/kernel"
	"till/pos/proto"
)

const (
	// Ticks are 1ms on host.
	repeatDelayTicks = 350
	repeatRateTicks  = 60
)

// Service turns HAL key events into a VT100 byte stream delivered as MsgTermInput.
// Navigation and erase keys auto-repeat while held.
type Service struct {
	in     hal.Input
	outCap kernel.Capability

	pending []byte

	heldCode hal.KeyCode
	heldData []byte

	nextRepeatTick uint64
}

func New(in hal.Input, outCap kernel.Capability) *Service {
	return &Service{in: in, outCap: outCap}
}

func (s *Service) Run(ctx *kernel.Context) {
	if ctx == nil || s.in == nil {
		return
	}
	kbd := s.in.Keyboard()
	if kbd == nil {
		return
	}
	events := kbd.Events()
	if events == nil {
		return
	}

	done := make(chan struct{})
	defer close(done)

	tickCh := make(chan uint64, 16)
	go func() {
		last := ctx.NowTick()
		for {
			select {
			case <-done:
				return
			default:
			}
			last = ctx.WaitTick(last)
			select {
			case tickCh <- last:
			default:
			}
		}
	}()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			s.handleKeyEvent(ctx, ev)
		case tick := <-tickCh:
			s.handleRepeat(tick)
			s.flush(ctx)
		}
	}
}

func (s *Service) handleKeyEvent(ctx *kernel.Context, ev hal.KeyEvent) {
	if !ev.Press {
		if s.heldData != nil && ev.Code == s.heldCode {
			s.heldData = nil
			s.nextRepeatTick = 0
		}
		return
	}

	data := vt100FromKey(ev)
	if len(data) == 0 {
		return
	}
	s.pending = append(s.pending, data...)
	s.flush(ctx)

	if !repeatableKey(ev.Code) {
		return
	}
	s.heldCode = ev.Code
	s.heldData = append(s.heldData[:0], data...)
	s.nextRepeatTick = ctx.NowTick() + repeatDelayTicks
}

func (s *Service) handleRepeat(tick uint64) {
	if s.heldData == nil || tick < s.nextRepeatTick {
		return
	}
	s.pending = append(s.pending, s.heldData...)
	s.nextRepeatTick = tick + repeatRateTicks
}

// flush sends as many whole keys as one message carries. A full queue keeps the
// bytes for the next tick; any other failure drops them.
func (s *Service) flush(ctx *kernel.Context) {
	if len(s.pending) == 0 {
		return
	}
	if !s.outCap.Valid() {
		s.pending = nil
		return
	}

	chunk := s.pending[:keyBoundary(s.pending, kernel.MaxMessageBytes)]

	switch ctx.SendToCapResult(s.outCap, uint16(proto.MsgTermInput), chunk, kernel.Capability{}) {
	case kernel.SendOK:
		s.pending = s.pending[len(chunk):]
	case kernel.SendErrQueueFull:
	default:
		s.pending = nil
	}
}

// keyBoundary returns the length of the longest prefix of b, at most limit bytes, that
// does not end inside an escape sequence or a UTF-8 sequence.
func keyBoundary(b []byte, limit int) int {
	if len(b) <= limit {
		return len(b)
	}
	n := 0
	for n < len(b) {
		k := keyLen(b[n:])
		if n+k > limit {
			break
		}
		n += k
	}
	if n == 0 {
		return limit
	}
	return n
}

// keyLen returns the byte length of the key that starts b.
func keyLen(b []byte) int {
	if b[0] != 0x1b {
		_, size := utf8.DecodeRune(b)
		return size
	}
	if len(b) < 2 || b[1] != '[' {
		return 1
	}
	for i := 2; i < len(b); i++ {
		if b[i] >= 0x40 && b[i] <= 0x7e {
			return i + 1
		}
	}
	return len(b)
}

func repeatableKey(code hal.KeyCode) bool {
	switch code {
	case hal.KeyUp, hal.KeyDown, hal.KeyLeft, hal.KeyRight,
		hal.KeyBackspace, hal.KeyDelete:
		return true
	default:
		return false
	}
}

var vt100Keys = map[hal.KeyCode]string{
	hal.KeyEnter:     "\n",
	hal.KeyEscape:    "\x1b",
	hal.KeyBackspace: "\x7f",
	hal.KeyTab:       "\t",
	hal.KeyUp:        "\x1b[A",
	hal.KeyDown:      "\x1b[B",
	hal.KeyRight:     "\x1b[C",
	hal.KeyLeft:      "\x1b[D",
	hal.KeyDelete:    "\x1b[3~",
	hal.KeyHome:      "\x1b[H",
	hal.KeyEnd:       "\x1b[F",
}

func vt100FromKey(ev hal.KeyEvent) []byte {
	if ev.Rune != 0 {
		return []byte(string(ev.Rune))
	}
	if seq, ok := vt100Keys[ev.Code]; ok {
		return []byte(seq)
	}
	return nil
}
