//go:build !tinygo

package hal

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"time"
)

// HeadlessConfig controls the no-window host runner.
type HeadlessConfig struct {
	Enabled bool
	Hz      int
	Ticks   uint64

	// SnapshotPath, when set, receives a PNG of the last presented frame on exit.
	SnapshotPath string
}

// RunHeadless runs the till without opening a window.
func RunHeadless(ctx context.Context, newApp func(HAL) func() error, cfg HeadlessConfig) error {
	if cfg.Hz <= 0 {
		cfg.Hz = 60
	}

	h := New().(*hostHAL)
	step := newApp(h)

	d := time.Second / time.Duration(cfg.Hz)
	if d <= 0 {
		return fmt.Errorf("invalid headless hz: %d", cfg.Hz)
	}
	t := time.NewTicker(d)
	defer t.Stop()

	err := runTicks(ctx, h, step, t.C, cfg.Ticks)
	if cfg.SnapshotPath != "" {
		if serr := writeSnapshot(h.fb, cfg.SnapshotPath); serr != nil && err == nil {
			err = serr
		}
	}
	return err
}

func runTicks(ctx context.Context, h *hostHAL, step func() error, tc <-chan time.Time, limit uint64) error {
	var tick uint64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-tc:
			h.t.step(1)
			if step != nil {
				if err := step(); err != nil {
					return err
				}
			}
			tick++
			if limit > 0 && tick >= limit {
				return nil
			}
		}
	}
}

func writeSnapshot(fb *hostFramebuffer, path string) error {
	img := image.NewRGBA(image.Rect(0, 0, fb.width, fb.height))
	scratch := make([]byte, len(fb.front))
	fb.snapshotRGB565(scratch)
	expandRGB565(img.Pix, scratch)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("snapshot encode: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("snapshot close: %w", err)
	}
	return nil
}
