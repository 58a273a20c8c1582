package debug

import (
	"fmt"
	"runtime"

	"github.com/dustin/go-humanize"
	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	fontSize   = 20
	padding    = 12
	lineHeight = fontSize + 4
	// updateInterval: only refresh the text every N frames to reduce allocations.
	updateInterval = 30
)

// Overlay draws optional diagnostics in the top-right corner: FPS, simulation time, and heap
// size. All are off by default.
type Overlay struct {
	ShowFPS      bool
	ShowTime     bool
	ShowMemAlloc bool
	frameCount   uint32
	fpsText      string
	timeText     string
	memText      string
	memStats     runtime.MemStats
}

// New returns an overlay with everything hidden.
func New() *Overlay {
	return &Overlay{}
}

// Enabled reports whether any line is shown.
func (o *Overlay) Enabled() bool {
	return o.ShowFPS || o.ShowTime || o.ShowMemAlloc
}

// Draw renders the enabled lines. simTime is the driver's current time in seconds.
// Call after the 3D pass.
func (o *Overlay) Draw(simTime float64) {
	if !o.Enabled() {
		return
	}
	o.frameCount++
	update := o.frameCount%updateInterval == 1

	screenW := int32(rl.GetScreenWidth())
	y := int32(padding)
	draw := func(text string) {
		w := rl.MeasureText(text, fontSize)
		rl.DrawText(text, screenW-w-padding, y, fontSize, rl.Green)
		y += lineHeight
	}

	if o.ShowFPS {
		if update {
			o.fpsText = fmt.Sprintf("FPS: %d", rl.GetFPS())
		}
		draw(o.fpsText)
	}
	if o.ShowTime {
		o.timeText = fmt.Sprintf("t = %.2fs", simTime)
		draw(o.timeText)
	}
	if o.ShowMemAlloc {
		if update {
			runtime.ReadMemStats(&o.memStats)
			o.memText = "Mem: " + humanize.IBytes(o.memStats.Alloc)
		}
		draw(o.memText)
	}
}
