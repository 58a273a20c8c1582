package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"orrery/internal/assets"
	"orrery/internal/config"
	"orrery/internal/debug"
	"orrery/internal/env"
	"orrery/internal/frame"
	"orrery/internal/graphics"
	"orrery/internal/logger"
	"orrery/internal/scene"
)

func main() {
	if err := env.Load(".env"); err != nil {
		fmt.Fprintln(os.Stderr, "env:", err)
		os.Exit(1)
	}
	cfg, err := config.Load(config.Path)
	if err == nil {
		err = cfg.ApplyEnv()
	}
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogPath)
	slog.SetDefault(log.Slog())
	err = run(cfg, log)
	if err != nil {
		slog.Error("setup failed", "error", err)
	}
	_ = log.Close()
	if err != nil {
		os.Exit(1)
	}
}

type loaded struct {
	bundle *assets.Bundle
	err    error
}

func run(cfg config.Config, log *logger.Logger) error {
	reg, err := loadScene(cfg.Scene)
	if err != nil {
		return err
	}
	classes := reg.MeshClassesInUse()
	slog.Info("scene loaded", "bodies", reg.Len(), "root", reg.Root().Name(), "meshes", len(classes))

	src, err := assets.NewSource(cfg.Assets)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Fetch resources while the window comes up; nothing is drawn until they arrive.
	res := make(chan loaded, 1)
	go func() {
		b, err := assets.Load(ctx, src, classes)
		res <- loaded{b, err}
	}()

	graphics.Open(graphics.Window{
		Width:     cfg.Window.Width,
		Height:    cfg.Window.Height,
		Title:     cfg.Window.Title,
		TargetFPS: cfg.Window.TargetFPS,
	})
	defer graphics.Close()

	l := <-res
	if l.err != nil {
		return fmt.Errorf("loading resources from %s: %w", src, l.err)
	}
	slog.Info("resources loaded", "source", src.String(), "meshes", len(l.bundle.Meshes))

	rast, err := graphics.NewRasterizer(l.bundle, classes)
	if err != nil {
		return err
	}
	defer rast.Unload()

	rc, err := frame.NewRenderContext(cfg.FrameCamera(), cfg.Window.Width, cfg.Window.Height)
	if err != nil {
		return err
	}
	if w, h := graphics.Size(); w > 0 && h > 0 {
		if err := rc.Resize(w, h); err != nil {
			return err
		}
	}

	overlay := debug.New()
	overlay.ShowFPS = cfg.ShowFPS
	overlay.ShowTime = cfg.ShowTime
	overlay.ShowMemAlloc = cfg.ShowMemAlloc

	drv := frame.New(reg, rast, frame.SystemClock{})
	drv.Start()
	slog.Info("frame driver running", "state", drv.State())

	var simTime float64
	resize := func(w, h int) {
		if err := rc.Resize(w, h); err != nil {
			slog.Debug("resize ignored", "error", err)
			return
		}
		slog.Info("resize", "width", w, "height", h)
	}
	draw3D := func() {
		t, err := drv.Frame(rc)
		if err != nil {
			slog.Error("frame", "error", err)
			return
		}
		simTime = t
	}
	draw2D := func() {
		overlay.Draw(simTime)
	}
	graphics.Run(rc.Camera(), resize, draw3D, draw2D)
	slog.Info("window closed", "frames", drv.Frames(), "lines_logged", len(log.Lines()))
	return nil
}

func loadScene(path string) (*scene.Registry, error) {
	if path == "" {
		return scene.Default()
	}
	return scene.Load(path)
}
