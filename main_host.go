//go:build !tinygo

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"till/app"
	"till/hal"
	"till/internal/buildinfo"
	"till/internal/profile"
)

const shutdownTimeout = 2 * time.Second

func main() {
	var cfg hal.HeadlessConfig
	var profilePath string
	var scale int
	flag.BoolVar(&cfg.Enabled, "headless", false, "Run without a window.")
	flag.IntVar(&cfg.Hz, "hz", 60, "Tick rate in headless mode.")
	flag.Uint64Var(&cfg.Ticks, "ticks", 0, "Stop after N ticks in headless mode (0 = run forever).")
	flag.StringVar(&cfg.SnapshotPath, "snapshot", "", "Write the last frame as PNG when headless mode stops.")
	flag.StringVar(&profilePath, "profile", "", "Shop profile YAML (default: till.yaml or configs/till.yaml if present).")
	flag.IntVar(&scale, "scale", 2, "Window pixel scale.")
	flag.Parse()

	p, err := profile.Load(profilePath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	var sys *app.System
	newApp := func(h hal.HAL) func() error {
		sys = app.Start(h, app.Config{Profile: p})
		return sys.Step
	}

	if cfg.Enabled {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		err = hal.RunHeadless(ctx, newApp, cfg)
		stop()
		if errors.Is(err, context.Canceled) {
			err = nil
		}
	} else {
		title := fmt.Sprintf("%s (%s)", p.Name, buildinfo.Short())
		err = hal.RunWindow(newApp, hal.WindowConfig{Title: title, Scale: scale})
	}
	if sys != nil {
		if serr := sys.Shutdown(shutdownTimeout); serr != nil && err == nil {
			err = serr
		}
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
