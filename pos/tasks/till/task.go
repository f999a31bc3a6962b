package till

import (
	"till/hal"
	"till/internal/profile"
	"till/pos/client/logger"
	"till/pos/fonts/tillfont"
	"till/pos/kernel"
	"till/pos/proto"

	"tinygo.org/x/tinyfont"
)

// Task runs the till view. It mounts as soon as it starts and unmounts on
// MsgAppShutdown or when its endpoint closes.
type Task struct {
	disp    hal.Display
	ep      kernel.Capability
	logCap  kernel.Capability
	profile profile.Profile

	fb hal.Framebuffer
	cv canvas

	font       tinyfont.Fonter
	fontHeight int16
	fontAscent int16

	w int
	h int

	widget *Widget
	hits   layout
	top    int

	nowTick uint64
	inbuf   []byte
}

func New(disp hal.Display, ep kernel.Capability, logCap kernel.Capability, p profile.Profile) *Task {
	return &Task{disp: disp, ep: ep, logCap: logCap, profile: p, widget: NewWidget()}
}

func (t *Task) Run(ctx *kernel.Context) {
	ch, ok := ctx.RecvChan(t.ep)
	if !ok {
		return
	}
	if !t.init() {
		return
	}

	done := make(chan struct{})
	defer close(done)

	tickCh := make(chan uint64, 8)
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

	t.mount(ctx)
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				t.unmount(ctx)
				return
			}
			switch proto.Kind(msg.Kind) {
			case proto.MsgAppShutdown:
				t.unmount(ctx)
				return

			case proto.MsgTermInput:
				if !t.widget.Mounted() {
					continue
				}
				t.handleInput(ctx, msg.Payload())

			case proto.MsgPointer:
				x, y, press, ok := proto.DecodePointerPayload(msg.Payload())
				if !ok || !press || !t.widget.Mounted() {
					continue
				}
				t.widget.Press(t.hits.hit(x, y))
				t.update(ctx)
			}

		case now := <-tickCh:
			if !t.widget.Mounted() {
				continue
			}
			blink := (t.nowTick / caretPeriod) != (now / caretPeriod)
			t.nowTick = now
			if blink && t.widget.Active() == inputElement {
				t.render()
			}
		}
	}
}

func (t *Task) init() bool {
	if t.disp == nil {
		return false
	}
	t.fb = t.disp.Framebuffer()
	if t.fb == nil || t.fb.Format() != hal.PixelFormatRGB565 {
		return false
	}
	t.w = t.fb.Width()
	t.h = t.fb.Height()
	if t.w <= 0 || t.h <= 0 {
		return false
	}
	t.cv = canvas{fb: t.fb}

	t.font = tillfont.Font
	t.fontHeight = int16(t.font.GetYAdvance())
	t.fontAscent = -int16(t.font.GetGlyph('M').Info().YOffset)
	if t.fontAscent <= 0 || t.fontAscent > t.fontHeight {
		t.fontAscent = t.fontHeight - 2
	}
	return t.fontHeight > 0
}

func (t *Task) mount(ctx *kernel.Context) {
	if t.widget.Mounted() {
		return
	}
	t.widget.Mount()
	t.top = 0
	t.inbuf = t.inbuf[:0]
	_ = logger.Logf(ctx, t.logCap, "till: mounted (%s)", t.profile.Name)
	t.update(ctx)
}

func (t *Task) unmount(ctx *kernel.Context) {
	if !t.widget.Mounted() {
		return
	}
	t.widget.Unmount()
	t.inbuf = nil
	t.render()
	_ = logger.Log(ctx, t.logCap, "till: unmounted")
}

// update renders, then runs deferred focus transfers against the fresh handle table.
// A transfer that moved focus needs one more pass to show it.
func (t *Task) update(ctx *kernel.Context) {
	t.render()
	if t.widget.Flush(t.hits.has) {
		t.render()
	}
	for _, line := range t.widget.TakeJournal() {
		_ = logger.Log(ctx, t.logCap, "till: "+line)
	}
}

// handleInput decodes keys from b. Each key gets its own render and focus flush, so
// a key never sees a focus transfer requested by the previous one still pending.
func (t *Task) handleInput(ctx *kernel.Context, b []byte) {
	if ctx != nil {
		t.nowTick = ctx.NowTick()
	}
	t.inbuf = append(t.inbuf, b...)
	buf := t.inbuf
	for len(buf) > 0 {
		n, k, ok := nextKey(buf)
		if !ok {
			break
		}
		buf = buf[n:]
		t.widget.handleKey(k)
		t.update(ctx)
	}
	t.inbuf = append(t.inbuf[:0], buf...)
}
