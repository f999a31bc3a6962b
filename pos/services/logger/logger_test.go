package logger

import (
	"sync"
	"testing"
	"time"

	"till/pos/kernel"
	"till/pos/proto"
)

type memLogger struct {
	mu    sync.Mutex
	lines []string
	added chan struct{}
}

func (l *memLogger) WriteLineString(s string) {
	l.mu.Lock()
	l.lines = append(l.lines, s)
	l.mu.Unlock()
	l.added <- struct{}{}
}

func (l *memLogger) WriteLineBytes(b []byte) { l.WriteLineString(string(b)) }

type sendTask struct {
	to   kernel.Capability
	msgs []struct {
		kind proto.Kind
		line string
	}
}

func (t *sendTask) Run(ctx *kernel.Context) {
	for _, m := range t.msgs {
		_ = ctx.SendToCapRetry(t.to, uint16(m.kind), []byte(m.line), kernel.Capability{}, 100)
	}
}

func TestServiceWritesOnlyLogLines(t *testing.T) {
	k := kernel.New()
	ep := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	log := &memLogger{added: make(chan struct{}, 4)}

	k.AddTask(New(log, ep.Restrict(kernel.RightRecv)))
	k.AddTask(&sendTask{
		to: ep.Restrict(kernel.RightSend),
		msgs: []struct {
			kind proto.Kind
			line string
		}{
			{proto.MsgTermInput, "ignored"},
			{proto.MsgLogLine, "till: mounted"},
			{proto.MsgLogLine, "till: added ₹100.00"},
		},
	})

	for i := 0; i < 2; i++ {
		select {
		case <-log.added:
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for log line")
		}
	}

	log.mu.Lock()
	defer log.mu.Unlock()
	want := []string{"till: mounted", "till: added ₹100.00"}
	if len(log.lines) != len(want) {
		t.Fatalf("lines = %q, want %q", log.lines, want)
	}
	for i := range want {
		if log.lines[i] != want[i] {
			t.Fatalf("lines[%d] = %q, want %q", i, log.lines[i], want[i])
		}
	}
}
