package app

import (
	"strings"
	"sync"
	"testing"
	"time"

	"till/hal"
	"till/internal/profile"
)

type lineLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *lineLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, s)
}

func (l *lineLogger) WriteLineBytes(b []byte) { l.WriteLineString(string(b)) }

func (l *lineLogger) has(s string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, line := range l.lines {
		if line == s {
			return true
		}
	}
	return false
}

type testFramebuffer struct {
	buf []byte
}

func (f *testFramebuffer) Width() int              { return 320 }
func (f *testFramebuffer) Height() int             { return 320 }
func (f *testFramebuffer) Format() hal.PixelFormat { return hal.PixelFormatRGB565 }
func (f *testFramebuffer) StrideBytes() int        { return 640 }
func (f *testFramebuffer) Buffer() []byte          { return f.buf }
func (f *testFramebuffer) Present() error          { return nil }

func (f *testFramebuffer) ClearRGB(r, g, b uint8) {
	for i := range f.buf {
		f.buf[i] = 0
	}
}

type testHAL struct {
	log   *lineLogger
	fb    *testFramebuffer
	keys  chan hal.KeyEvent
	ptr   chan hal.PointerEvent
	ticks chan uint64
}

func newTestHAL() *testHAL {
	return &testHAL{
		log:   &lineLogger{},
		fb:    &testFramebuffer{buf: make([]byte, 320*320*2)},
		keys:  make(chan hal.KeyEvent, 16),
		ptr:   make(chan hal.PointerEvent, 4),
		ticks: make(chan uint64, 16),
	}
}

func (h *testHAL) Logger() hal.Logger   { return h.log }
func (h *testHAL) Display() hal.Display { return h }
func (h *testHAL) Input() hal.Input     { return h }
func (h *testHAL) Time() hal.Time       { return h }

func (h *testHAL) Framebuffer() hal.Framebuffer { return h.fb }
func (h *testHAL) Keyboard() hal.Keyboard       { return testKeyboard{h.keys} }
func (h *testHAL) Pointer() hal.Pointer         { return testPointer{h.ptr} }
func (h *testHAL) Ticks() <-chan uint64         { return h.ticks }

type testKeyboard struct{ ch chan hal.KeyEvent }

func (k testKeyboard) Events() <-chan hal.KeyEvent { return k.ch }

type testPointer struct{ ch chan hal.PointerEvent }

func (p testPointer) Events() <-chan hal.PointerEvent { return p.ch }

func waitForLine(t *testing.T, h *testHAL, stop <-chan struct{}, want string) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for !h.log.has(want) {
		select {
		case <-deadline:
			h.log.mu.Lock()
			defer h.log.mu.Unlock()
			t.Fatalf("missing log line %q; got:\n%s", want, strings.Join(h.log.lines, "\n"))
		case <-stop:
			return
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestNewWithConfigRunsTill(t *testing.T) {
	h := newTestHAL()
	step := NewWithConfig(h, Config{Profile: profile.Profile{Name: "Test Shop", Address: "1 Main St", Footer: "Bye"}})
	if err := step(); err != nil {
		t.Fatalf("step: %v", err)
	}

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		var seq uint64
		for {
			select {
			case <-stop:
				return
			case <-time.After(time.Millisecond):
				seq++
				h.ticks <- seq
			}
		}
	}()

	waitForLine(t, h, stop, "till: build dev")
	waitForLine(t, h, stop, "till: mounted (Test Shop)")

	for _, r := range "42 " {
		h.keys <- hal.KeyEvent{Rune: r, Press: true}
		h.keys <- hal.KeyEvent{Rune: r, Press: false}
	}
	waitForLine(t, h, stop, "till: + Item 1  42.00")

	h.keys <- hal.KeyEvent{Rune: 'f', Press: true}
	h.keys <- hal.KeyEvent{Code: hal.KeyEnter, Press: true}
	waitForLine(t, h, stop, "till: - Item 1  42.00")
}

func TestShutdownUnmountsAndDrainsLogger(t *testing.T) {
	h := newTestHAL()
	sys := Start(h, Config{Profile: profile.Default()})

	stop := make(chan struct{})
	waitForLine(t, h, stop, "till: mounted (Shopping Cart)")

	for _, r := range "7 " {
		h.keys <- hal.KeyEvent{Rune: r, Press: true}
	}
	waitForLine(t, h, stop, "till: + Item 1  7.00")

	// No host ticks were ever sent; Shutdown has to move the clock itself.
	if err := sys.Shutdown(2 * time.Second); err != nil {
		t.Fatalf("Shutdown() = %v", err)
	}
	if !h.log.has("till: unmounted") {
		h.log.mu.Lock()
		defer h.log.mu.Unlock()
		t.Fatalf("missing unmount line; got:\n%s", strings.Join(h.log.lines, "\n"))
	}
	if err := sys.Shutdown(time.Second); err != nil {
		t.Fatalf("second Shutdown() = %v", err)
	}
}
