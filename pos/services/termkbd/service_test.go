package termkbd

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"till/hal"
	"till/pos/kernel"
	"till/pos/proto"
)

const testTimeout = 1 * time.Second

type fakeKeyboard struct {
	ch chan hal.KeyEvent
}

func (k *fakeKeyboard) Events() <-chan hal.KeyEvent { return k.ch }

type fakeInput struct {
	kbd *fakeKeyboard
}

func (in fakeInput) Keyboard() hal.Keyboard { return in.kbd }
func (in fakeInput) Pointer() hal.Pointer   { return nil }

type recvTask struct {
	cap kernel.Capability
	out chan<- kernel.Message
}

func (t *recvTask) Run(ctx *kernel.Context) {
	ch, ok := ctx.RecvChan(t.cap)
	if !ok {
		return
	}
	for msg := range ch {
		t.out <- msg
	}
}

func recvWithTimeout[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(testTimeout):
		t.Fatal("timed out waiting for message")
	}
	var zero T
	return zero
}

func TestVT100FromKey(t *testing.T) {
	cases := []struct {
		ev   hal.KeyEvent
		want string
	}{
		{hal.KeyEvent{Press: true, Rune: ' '}, " "},
		{hal.KeyEvent{Press: true, Rune: 'f'}, "f"},
		{hal.KeyEvent{Press: true, Rune: '₹'}, "₹"},
		{hal.KeyEvent{Code: hal.KeyEnter, Press: true}, "\n"},
		{hal.KeyEvent{Code: hal.KeyEscape, Press: true}, "\x1b"},
		{hal.KeyEvent{Code: hal.KeyUp, Press: true}, "\x1b[A"},
		{hal.KeyEvent{Code: hal.KeyDown, Press: true}, "\x1b[B"},
		{hal.KeyEvent{Code: hal.KeyDelete, Press: true}, "\x1b[3~"},
		{hal.KeyEvent{Code: hal.KeyUnknown, Press: true}, ""},
	}
	for _, tc := range cases {
		if got := string(vt100FromKey(tc.ev)); got != tc.want {
			t.Fatalf("vt100FromKey(%+v) = %q, want %q", tc.ev, got, tc.want)
		}
	}
}

func TestHandleRepeatHonorsDelayAndRate(t *testing.T) {
	s := &Service{heldCode: hal.KeyDown, heldData: []byte("\x1b[B"), nextRepeatTick: 350}

	s.handleRepeat(349)
	if len(s.pending) != 0 {
		t.Fatalf("pending before delay = %q", s.pending)
	}
	s.handleRepeat(350)
	if string(s.pending) != "\x1b[B" {
		t.Fatalf("pending after delay = %q", s.pending)
	}
	if s.nextRepeatTick != 350+repeatRateTicks {
		t.Fatalf("nextRepeatTick = %d, want %d", s.nextRepeatTick, 350+repeatRateTicks)
	}
}

func TestServiceForwardsKeysAsTermInput(t *testing.T) {
	k := kernel.New()
	ep := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	out := make(chan kernel.Message, 8)
	k.AddTask(&recvTask{cap: ep.Restrict(kernel.RightRecv), out: out})

	kbd := &fakeKeyboard{ch: make(chan hal.KeyEvent, 8)}
	k.AddTask(New(fakeInput{kbd: kbd}, ep.Restrict(kernel.RightSend)))

	kbd.ch <- hal.KeyEvent{Press: true, Rune: '5'}
	kbd.ch <- hal.KeyEvent{Code: hal.KeyDown, Press: true}
	kbd.ch <- hal.KeyEvent{Code: hal.KeyDown, Press: false}

	var got []byte
	for len(got) < 4 {
		msg := recvWithTimeout(t, out)
		if proto.Kind(msg.Kind) != proto.MsgTermInput {
			t.Fatalf("kind = %s, want term_input", proto.Kind(msg.Kind))
		}
		got = append(got, msg.Payload()...)
	}
	if string(got) != "5\x1b[B" {
		t.Fatalf("forwarded bytes = %q", got)
	}
}

func TestKeyBoundary(t *testing.T) {
	cases := []struct {
		in    string
		limit int
		want  int
	}{
		{"12", 8, 2},
		{"1234\x1b[B", 5, 4},
		{"1234\x1b[B", 6, 4},
		{"1234\x1b[B", 7, 7},
		{"123\x1b[3~", 6, 3},
		{"12\x1b\x1b[A", 3, 3},
		{"1₹", 3, 1},
		{"\x1b[3~", 2, 2},
	}
	for _, tc := range cases {
		if got := keyBoundary([]byte(tc.in), tc.limit); got != tc.want {
			t.Fatalf("keyBoundary(%q, %d) = %d, want %d", tc.in, tc.limit, got, tc.want)
		}
	}
}

type flushTask struct {
	s     *Service
	times int
}

func (t *flushTask) Run(ctx *kernel.Context) {
	for i := 0; i < t.times; i++ {
		t.s.flush(ctx)
	}
}

func TestFlushKeepsEscapeSequencesWhole(t *testing.T) {
	k := kernel.New()
	ep := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	out := make(chan kernel.Message, 8)
	k.AddTask(&recvTask{cap: ep.Restrict(kernel.RightRecv), out: out})

	// 127 digits put the ESC of the arrow key on the last byte a message can hold.
	s := New(nil, ep.Restrict(kernel.RightSend))
	s.pending = []byte(strings.Repeat("1", kernel.MaxMessageBytes-1) + "\x1b[B")
	k.AddTask(&flushTask{s: s, times: 2})

	firstMsg := recvWithTimeout(t, out)
	first := firstMsg.Payload()
	if len(first) != kernel.MaxMessageBytes-1 || bytes.IndexByte(first, 0x1b) >= 0 {
		t.Fatalf("first message = %q, want %d digits only", first, kernel.MaxMessageBytes-1)
	}
	secondMsg := recvWithTimeout(t, out)
	second := secondMsg.Payload()
	if string(second) != "\x1b[B" {
		t.Fatalf("second message = %q, want %q", second, "\x1b[B")
	}
}
