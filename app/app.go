package app

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"till/hal"
	"till/internal/buildinfo"
	"till/internal/profile"
	"till/pos/kernel"
	"till/pos/proto"
	"till/pos/services/logger"
	"till/pos/services/pointer"
	"till/pos/services/termkbd"
	"till/pos/tasks/till"

	logclient "till/pos/client/logger"
)

// ErrShutdownTimeout reports a task that did not exit while shutting down.
var ErrShutdownTimeout = errors.New("shutdown timed out")

type Config struct {
	Profile profile.Profile
}

// System is a running kernel with the till and its services.
type System struct {
	k *kernel.Kernel

	logEP  kernel.Capability
	logID  kernel.TaskID
	tillID kernel.TaskID

	stop     chan struct{}
	stopOnce sync.Once
}

// New starts the till with the default shop profile.
func New(h hal.HAL) func() error {
	return NewWithConfig(h, Config{Profile: profile.Default()})
}

// NewWithConfig starts the kernel, its services and the till task. The returned step
// function is called once per host frame.
func NewWithConfig(h hal.HAL, cfg Config) func() error {
	return Start(h, cfg).Step
}

// Start boots the system. Call Shutdown once the host stops driving frames.
func Start(h hal.HAL, cfg Config) *System {
	installPanicHandler(h)

	if l := h.Logger(); l != nil {
		l.WriteLineString("till: build " + buildinfo.Line())
	}

	k := kernel.New()

	logEP := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	tillEP := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)

	s := &System{k: k, logEP: logEP, stop: make(chan struct{})}
	s.logID = k.AddTask(logger.New(h.Logger(), logEP.Restrict(kernel.RightRecv)))
	s.tillID = k.AddTask(till.New(h.Display(), tillEP.Restrict(kernel.RightRecv), logEP.Restrict(kernel.RightSend), cfg.Profile))
	k.AddTask(termkbd.New(h.Input(), tillEP.Restrict(kernel.RightSend)))
	k.AddTask(pointer.New(h.Input(), tillEP.Restrict(kernel.RightSend)))
	k.AddTask(&control{stop: s.stop, till: tillEP.Restrict(kernel.RightSend), logCap: logEP.Restrict(kernel.RightSend)})

	if ht := h.Time(); ht != nil {
		if ch := ht.Ticks(); ch != nil {
			go func() {
				for seq := range ch {
					k.TickTo(seq)
				}
			}()
		}
	}

	return s
}

// Step runs once per host frame.
func (s *System) Step() error { return nil }

// Shutdown asks the till to unmount, then waits for it to exit and for the logger to
// drain. The host no longer ticks at this point, so Shutdown drives the kernel clock
// itself while it waits.
func (s *System) Shutdown(timeout time.Duration) error {
	s.stopOnce.Do(func() { close(s.stop) })

	clock := time.NewTicker(time.Millisecond)
	defer clock.Stop()
	deadline := time.After(timeout)
	wait := func(done <-chan struct{}) error {
		for {
			select {
			case <-done:
				return nil
			case <-clock.C:
				s.k.Tick()
			case <-deadline:
				return ErrShutdownTimeout
			}
		}
	}

	if err := wait(s.k.Done(s.tillID)); err != nil {
		return fmt.Errorf("till: %w", err)
	}
	s.k.CloseEndpoint(s.logEP)
	if err := wait(s.k.Done(s.logID)); err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	if info, ok := kernel.FirstPanic(); ok {
		return fmt.Errorf("task %d panicked: %v", info.TaskID, info.Value)
	}
	return nil
}

// control forwards the host's stop request to the till as MsgAppShutdown.
type control struct {
	stop   <-chan struct{}
	till   kernel.Capability
	logCap kernel.Capability
}

const shutdownRetryTicks = 500

func (c *control) Run(ctx *kernel.Context) {
	<-c.stop
	res := ctx.SendToCapRetry(c.till, uint16(proto.MsgAppShutdown), nil, kernel.Capability{}, shutdownRetryTicks)
	if res != kernel.SendOK {
		_ = logclient.Logf(ctx, c.logCap, "till: shutdown: %s", res)
	}
}
