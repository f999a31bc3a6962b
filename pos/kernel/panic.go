package kernel

import (
	"runtime/debug"
	"sync"
)

// PanicInfo describes a recovered task panic.
type PanicInfo struct {
	TaskID TaskID
	Value  any
	Stack  []byte
}

// The first task panic of the process wins; later ones are recovered and dropped.
var panics struct {
	mu      sync.Mutex
	handler func(PanicInfo)
	first   *PanicInfo
}

// SetPanicHandler installs the process-wide handler run on the first task panic.
// fn must not panic.
func SetPanicHandler(fn func(PanicInfo)) {
	panics.mu.Lock()
	panics.handler = fn
	panics.mu.Unlock()
}

// FirstPanic returns the first recovered task panic, if any.
func FirstPanic() (PanicInfo, bool) {
	panics.mu.Lock()
	defer panics.mu.Unlock()
	if panics.first == nil {
		return PanicInfo{}, false
	}
	return *panics.first, true
}

func triggerPanic(info PanicInfo) {
	info.Stack = debug.Stack()

	panics.mu.Lock()
	if panics.first != nil {
		panics.mu.Unlock()
		return
	}
	panics.first = &info
	fn := panics.handler
	panics.mu.Unlock()

	if fn != nil {
		fn(info)
	}
}
