package graphics

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"

	"orrery/internal/frame"
)

// Window describes the window opened by Open.
type Window struct {
	Width, Height int
	Title         string
	TargetFPS     int
}

// Open creates a resizable window and its OpenGL context. GPU resources (shaders, meshes)
// can only be created after Open returns.
func Open(w Window) {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint | rl.FlagVsyncHint)
	rl.SetTraceLogLevel(rl.LogWarning)
	rl.InitWindow(int32(w.Width), int32(w.Height), w.Title)
	if w.TargetFPS > 0 {
		rl.SetTargetFPS(int32(w.TargetFPS))
	}
}

// Close destroys the window and its context.
func Close() {
	rl.CloseWindow()
}

// Size returns the current framebuffer size in pixels.
func Size() (width, height int) {
	return rl.GetScreenWidth(), rl.GetScreenHeight()
}

// Run is the display-refresh loop. Each iteration it calls resize when the window size changed,
// then clears the screen and calls draw3D (inside a depth-tested 3D pass set up for cam)
// followed by draw2D (overlays). It returns when the window is closed.
func Run(cam frame.Camera, resize func(width, height int), draw3D, draw2D func()) {
	cam3D := camera3D(cam)
	for !rl.WindowShouldClose() {
		if rl.IsWindowResized() {
			resize(Size())
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.Black)
		// BeginMode3D flushes the batch and enables depth testing; the rasterizer loads the
		// render context's view and projection before each draw.
		rl.BeginMode3D(cam3D)
		draw3D()
		rl.EndMode3D()
		draw2D()
		rl.EndDrawing()
	}
}

func camera3D(c frame.Camera) rl.Camera3D {
	return rl.Camera3D{
		Position:   rl.NewVector3(c.Eye.X(), c.Eye.Y(), c.Eye.Z()),
		Target:     rl.NewVector3(c.Target.X(), c.Target.Y(), c.Target.Z()),
		Up:         rl.NewVector3(c.Up.X(), c.Up.Y(), c.Up.Z()),
		Fovy:       mgl32.RadToDeg(c.FovY),
		Projection: rl.CameraPerspective,
	}
}
