package orbit

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"orrery/internal/transform"
)

// MeshClass selects one of the shared geometry resources.
type MeshClass int

const (
	Octahedron MeshClass = iota
	Tetrahedron
)

// MeshClasses lists every mesh class in resource-load order.
var MeshClasses = []MeshClass{Octahedron, Tetrahedron}

func (c MeshClass) String() string {
	switch c {
	case Octahedron:
		return "octahedron"
	case Tetrahedron:
		return "tetrahedron"
	default:
		return fmt.Sprintf("MeshClass(%d)", int(c))
	}
}

// ParseMeshClass maps "octahedron" or "tetrahedron" (case-insensitive) to a MeshClass.
func ParseMeshClass(s string) (MeshClass, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "octahedron":
		return Octahedron, nil
	case "tetrahedron":
		return Tetrahedron, nil
	}
	return 0, fmt.Errorf("orbit: unknown mesh class %q", s)
}

// ErrInvalidParams is returned by NewBody for parameters that break the model's preconditions.
var ErrInvalidParams = errors.New("orbit: invalid body parameters")

// Params are the static parameters of one body. Angular velocities are in radians per second;
// their sign sets the direction of travel.
type Params struct {
	Name                 string
	Mesh                 MeshClass
	ScaleRatio           float64
	OrbitRadius          float64
	OrbitAngularVelocity float64
	SpinAngularVelocity  float64
}

// Body is one node of the orbital hierarchy. It is immutable once built.
type Body struct {
	p      Params
	parent *Body
}

// NewBody validates p and returns a body orbiting parent. A nil parent makes a root body,
// which sits at the origin and must have zero orbit radius.
func NewBody(p Params, parent *Body) (*Body, error) {
	switch {
	case p.Name == "":
		return nil, fmt.Errorf("%w: empty name", ErrInvalidParams)
	case !(p.ScaleRatio > 0) || math.IsInf(p.ScaleRatio, 0):
		return nil, fmt.Errorf("%w: %s: scale ratio %g must be positive", ErrInvalidParams, p.Name, p.ScaleRatio)
	case !(p.OrbitRadius >= 0) || math.IsInf(p.OrbitRadius, 0):
		return nil, fmt.Errorf("%w: %s: orbit radius %g must be non-negative", ErrInvalidParams, p.Name, p.OrbitRadius)
	case parent == nil && p.OrbitRadius != 0:
		return nil, fmt.Errorf("%w: %s: root body cannot orbit (radius %g)", ErrInvalidParams, p.Name, p.OrbitRadius)
	case math.IsNaN(p.OrbitAngularVelocity) || math.IsNaN(p.SpinAngularVelocity):
		return nil, fmt.Errorf("%w: %s: angular velocity is NaN", ErrInvalidParams, p.Name)
	}
	if p.Mesh != Octahedron && p.Mesh != Tetrahedron {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidParams, p.Name, p.Mesh)
	}
	return &Body{p: p, parent: parent}, nil
}

func (b *Body) Name() string                  { return b.p.Name }
func (b *Body) Mesh() MeshClass               { return b.p.Mesh }
func (b *Body) ScaleRatio() float64           { return b.p.ScaleRatio }
func (b *Body) OrbitRadius() float64          { return b.p.OrbitRadius }
func (b *Body) OrbitAngularVelocity() float64 { return b.p.OrbitAngularVelocity }
func (b *Body) SpinAngularVelocity() float64  { return b.p.SpinAngularVelocity }
func (b *Body) Parent() *Body                 { return b.parent }
func (b *Body) IsRoot() bool                  { return b.parent == nil }

// Locked reports whether the body is tidally locked (spin velocity equals orbit velocity).
func (b *Body) Locked() bool {
	return !b.IsRoot() && b.p.SpinAngularVelocity == b.p.OrbitAngularVelocity
}

// angle narrows an accumulated angle to float32. Angles are not wrapped.
func angle(vel, t float64) float32 {
	return float32(vel * t)
}

// Local is the body's own spin and size: rotateY(spin·t)·scale(r).
func (b *Body) Local(t float64) transform.Mat4 {
	r := float32(b.p.ScaleRatio)
	return transform.Compose(
		transform.RotateY(angle(b.p.SpinAngularVelocity, t)),
		transform.Scale(r, r, r),
	)
}

// OrbitChain is the accumulated orbital motion of every ancestor, excluding their spin and
// scale. It is the identity for the root.
func (b *Body) OrbitChain(t float64) transform.Mat4 {
	if b.parent == nil {
		return transform.Identity()
	}
	return b.parent.OrbitTransform(t)
}

// OrbitTransform places the body's frame on its orbit:
// OrbitChain(t)·rotateY(orbitVel·t)·translate(radius, 0, 0). For the root it is the identity.
func (b *Body) OrbitTransform(t float64) transform.Mat4 {
	if b.parent == nil {
		return transform.Identity()
	}
	return transform.Compose(
		b.OrbitChain(t),
		transform.RotateY(angle(b.p.OrbitAngularVelocity, t)),
		transform.Translate(float32(b.p.OrbitRadius), 0, 0),
	)
}

// World maps the body's mesh coordinates into scene space at time t (seconds):
// OrbitTransform(t)·Local(t). Spin and scale stay local and are never inherited by children.
func (b *Body) World(t float64) transform.Mat4 {
	return transform.Compose(b.OrbitTransform(t), b.Local(t))
}
