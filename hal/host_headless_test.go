//go:build !tinygo

package hal

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"
)

func TestRunTicksStopsAtLimit(t *testing.T) {
	h := newHost(io.Discard)
	tc := make(chan time.Time, 8)
	for i := 0; i < 8; i++ {
		tc <- time.Now()
	}

	steps := 0
	err := runTicks(context.Background(), h, func() error {
		steps++
		return nil
	}, tc, 3)
	if err != nil {
		t.Fatalf("runTicks() error = %v", err)
	}
	if steps != 3 {
		t.Fatalf("steps = %d, want 3", steps)
	}
}

func TestRunTicksPropagatesStepError(t *testing.T) {
	h := newHost(io.Discard)
	tc := make(chan time.Time, 1)
	tc <- time.Now()

	boom := errors.New("boom")
	err := runTicks(context.Background(), h, func() error { return boom }, tc, 0)
	if !errors.Is(err, boom) {
		t.Fatalf("runTicks() error = %v, want %v", err, boom)
	}
}

func TestRunTicksHonorsCancel(t *testing.T) {
	h := newHost(io.Discard)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := runTicks(ctx, h, nil, make(chan time.Time), 0)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("runTicks() error = %v, want context.Canceled", err)
	}
}
