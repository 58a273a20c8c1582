package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl32"

	"orrery/internal/env"
	"orrery/internal/frame"
	"orrery/internal/transform"
)

// Path is the default config file, relative to the process working directory.
const Path = "config/orrery.json"

// ErrInvalid is returned by Validate.
var ErrInvalid = errors.New("config: invalid")

// Window describes the initial window. The window is always resizable.
type Window struct {
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Title     string `json:"title"`
	TargetFPS int    `json:"target_fps"`
}

// Camera is the fixed camera. FovDeg is the vertical field of view in degrees.
type Camera struct {
	Eye    [3]float32 `json:"eye"`
	Target [3]float32 `json:"target"`
	Up     [3]float32 `json:"up"`
	FovDeg float32    `json:"fov_deg"`
	Near   float32    `json:"near"`
	Far    float32    `json:"far"`
}

// Config holds renderer preferences. Body parameters live in the scene table, not here.
type Config struct {
	Window Window `json:"window"`
	Camera Camera `json:"camera"`
	// Assets is a directory or http(s) base URL; empty uses the embedded assets.
	Assets string `json:"assets,omitempty"`
	// Scene is a YAML body table; empty uses the built-in solar system.
	Scene        string `json:"scene,omitempty"`
	LogPath      string `json:"log_path"`
	ShowFPS      bool   `json:"show_fps"`
	ShowMemAlloc bool   `json:"show_memalloc"`
	ShowTime     bool   `json:"show_time"`
}

// Default returns the built-in scene settings (overlays off).
func Default() Config {
	return Config{
		Window: Window{Width: 1024, Height: 768, Title: "orrery", TargetFPS: 60},
		Camera: Camera{
			Eye:    [3]float32{0, 5, 10},
			Target: [3]float32{0, 0, 0},
			Up:     [3]float32{0, 1, 0},
			FovDeg: 60,
			Near:   0.1,
			Far:    100,
		},
		LogPath: "logs/orrery.txt",
	}
}

// Load reads config from path. A missing file yields Default(); fields absent from the file
// keep their default values. A file that does not parse is an error.
func Load(path string) (Config, error) {
	c := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return c, fmt.Errorf("config: %w", err)
	}
	if err := json.Unmarshal(data, &c); err != nil {
		return Default(), fmt.Errorf("config: %s: %w", path, err)
	}
	return c, nil
}

// ApplyEnv overlays ORRERY_ASSETS, ORRERY_SCENE, ORRERY_LOG, ORRERY_WIDTH, ORRERY_HEIGHT and
// ORRERY_FPS from the environment.
func (c *Config) ApplyEnv() error {
	if v, ok := env.String("ORRERY_ASSETS"); ok {
		c.Assets = v
	}
	if v, ok := env.String("ORRERY_SCENE"); ok {
		c.Scene = v
	}
	if v, ok := env.String("ORRERY_LOG"); ok && v != "" {
		c.LogPath = v
	}
	for key, dst := range map[string]*int{
		"ORRERY_WIDTH":  &c.Window.Width,
		"ORRERY_HEIGHT": &c.Window.Height,
		"ORRERY_FPS":    &c.Window.TargetFPS,
	} {
		n, ok, err := env.Int(key)
		if err != nil {
			return fmt.Errorf("config: %w", err)
		}
		if ok {
			*dst = n
		}
	}
	return nil
}

// Validate checks the window and camera. The camera checks mirror what the projection and
// view constructors require.
func (c Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("%w: window %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	}
	if c.Window.TargetFPS < 0 {
		return fmt.Errorf("%w: target_fps %d", ErrInvalid, c.Window.TargetFPS)
	}
	cam := c.Camera
	if !(cam.FovDeg > 0 && cam.FovDeg < 180) {
		return fmt.Errorf("%w: fov_deg %g out of (0, 180)", ErrInvalid, cam.FovDeg)
	}
	if !(cam.Near > 0 && cam.Far > cam.Near) {
		return fmt.Errorf("%w: need 0 < near < far, got %g, %g", ErrInvalid, cam.Near, cam.Far)
	}
	if _, err := transform.LookAt(cam.Eye, cam.Target, cam.Up); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// FrameCamera converts the camera settings for the render context.
func (c Config) FrameCamera() frame.Camera {
	return frame.Camera{
		Eye:    transform.Vec3(c.Camera.Eye),
		Target: transform.Vec3(c.Camera.Target),
		Up:     transform.Vec3(c.Camera.Up),
		FovY:   mgl32.DegToRad(c.Camera.FovDeg),
		Near:   c.Camera.Near,
		Far:    c.Camera.Far,
	}
}
