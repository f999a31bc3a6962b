package pointer

import (
	"till/hal"
	"till/pos/kernel"
	"till/pos/proto"
)

// Service forwards HAL pointer presses as MsgPointer messages. Releases are dropped:
// the till acts on press, like a focus-on-mousedown host.
type Service struct {
	in     hal.Input
	outCap kernel.Capability
}

func New(in hal.Input, outCap kernel.Capability) *Service {
	return &Service{in: in, outCap: outCap}
}

func (s *Service) Run(ctx *kernel.Context) {
	if ctx == nil || s.in == nil {
		return
	}
	ptr := s.in.Pointer()
	if ptr == nil {
		return
	}
	events := ptr.Events()
	if events == nil {
		return
	}

	for ev := range events {
		if !ev.Press {
			continue
		}
		// A press that cannot be queued within a few ticks is stale by the time it lands.
		_ = ctx.SendToCapRetry(s.outCap, uint16(proto.MsgPointer), proto.PointerPayload(ev.X, ev.Y, true), kernel.Capability{}, 16)
	}
}
