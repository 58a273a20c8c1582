package frame

import (
	"errors"
	"time"

	"orrery/internal/orbit"
	"orrery/internal/scene"
	"orrery/internal/transform"
)

// ErrIdle is returned by Frame before Start.
var ErrIdle = errors.New("frame: driver not started")

// State is the driver's lifecycle state.
type State int

const (
	Idle State = iota
	Running
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "idle"
}

// Clock is a monotonic time source.
type Clock interface {
	Now() time.Time
}

// SystemClock reads time.Now, whose monotonic reading makes differences immune to wall-clock steps.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Submission is everything the rasterizer needs to draw one body.
type Submission struct {
	Body       *orbit.Body
	Mesh       orbit.MeshClass
	World      transform.Mat4
	View       transform.Mat4
	Projection transform.Mat4
}

// Rasterizer draws submissions. It binds the shared mesh for the submission's class and issues
// one indexed draw.
type Rasterizer interface {
	Submit(s Submission)
}

// Placement is one body's world transform at a given time.
type Placement struct {
	Body  *orbit.Body
	World transform.Mat4
}

// Driver turns display-refresh ticks into per-body draw submissions. It is Idle until Start
// and Running afterwards; there is no terminal state. Not safe for concurrent use: the host
// loop calls Frame and RenderContext.Resize from the same goroutine.
type Driver struct {
	reg    *scene.Registry
	rast   Rasterizer
	clock  Clock
	epoch  time.Time
	state  State
	last   float64
	frames uint64
}

// New returns an Idle driver. Simulation time is measured from this call.
func New(reg *scene.Registry, r Rasterizer, clock Clock) *Driver {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Driver{reg: reg, rast: r, clock: clock, epoch: clock.Now()}
}

// Start moves the driver from Idle to Running. Call it once resources are loaded and the
// rasterizer is ready; later calls do nothing. It reports whether the transition happened.
func (d *Driver) Start() bool {
	if d.state == Running {
		return false
	}
	d.state = Running
	return true
}

func (d *Driver) State() State { return d.state }

// Frames returns the number of frames submitted so far.
func (d *Driver) Frames() uint64 { return d.frames }

// Elapsed returns the current simulation time in seconds. It never decreases.
func (d *Driver) Elapsed() float64 {
	t := d.clock.Now().Sub(d.epoch).Seconds()
	if t < d.last {
		return d.last
	}
	return t
}

// Evaluate returns every body's world transform at time t, in draw order.
func (d *Driver) Evaluate(t float64) []Placement {
	bodies := d.reg.Bodies()
	out := make([]Placement, len(bodies))
	for i, b := range bodies {
		out[i] = Placement{Body: b, World: b.World(t)}
	}
	return out
}

// Frame samples the clock and submits one draw per body, in draw order, with the view and
// projection from rc. It returns the simulation time used.
func (d *Driver) Frame(rc *RenderContext) (float64, error) {
	if d.state != Running {
		return 0, ErrIdle
	}
	t := d.Elapsed()
	d.last = t
	view, proj := rc.View(), rc.Projection()
	for _, p := range d.Evaluate(t) {
		d.rast.Submit(Submission{
			Body:       p.Body,
			Mesh:       p.Body.Mesh(),
			World:      p.World,
			View:       view,
			Projection: proj,
		})
	}
	d.frames++
	return t, nil
}
