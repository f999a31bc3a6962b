package pointer

import (
	"testing"
	"time"

	"till/hal"
	"till/pos/kernel"
	"till/pos/proto"
)

type fakePointer struct {
	ch chan hal.PointerEvent
}

func (p *fakePointer) Events() <-chan hal.PointerEvent { return p.ch }

type fakeInput struct {
	ptr *fakePointer
}

func (in fakeInput) Keyboard() hal.Keyboard { return nil }
func (in fakeInput) Pointer() hal.Pointer   { return in.ptr }

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

func TestServiceForwardsPressesOnly(t *testing.T) {
	k := kernel.New()
	ep := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	out := make(chan kernel.Message, 4)
	k.AddTask(&recvTask{cap: ep.Restrict(kernel.RightRecv), out: out})

	ptr := &fakePointer{ch: make(chan hal.PointerEvent, 4)}
	k.AddTask(New(fakeInput{ptr: ptr}, ep.Restrict(kernel.RightSend)))

	ptr.ch <- hal.PointerEvent{X: 1, Y: 2, Press: false}
	ptr.ch <- hal.PointerEvent{X: 40, Y: 90, Press: true}

	select {
	case msg := <-out:
		if proto.Kind(msg.Kind) != proto.MsgPointer {
			t.Fatalf("kind = %s, want pointer", proto.Kind(msg.Kind))
		}
		x, y, press, ok := proto.DecodePointerPayload(msg.Payload())
		if !ok || x != 40 || y != 90 || !press {
			t.Fatalf("payload = (%d, %d, %v, %v)", x, y, press, ok)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for pointer message")
	}

	select {
	case msg := <-out:
		t.Fatalf("unexpected extra message kind %s", proto.Kind(msg.Kind))
	case <-time.After(20 * time.Millisecond):
	}
}
