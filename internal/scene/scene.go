package scene

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"orrery/internal/orbit"
)

//go:embed scene.yaml
var defaultScene []byte

// ErrInvalidBody is returned when the body table breaks the hierarchy rules.
var ErrInvalidBody = errors.New("scene: invalid body")

// BodyDef is the YAML definition of one body (see scene.yaml).
// Rates are in revolutions per second; the sign sets the direction.
type BodyDef struct {
	Name          string  `yaml:"name"`
	Parent        string  `yaml:"parent,omitempty"`
	Mesh          string  `yaml:"mesh"`
	Scale         float64 `yaml:"scale"`
	OrbitRadius   float64 `yaml:"orbit_radius,omitempty"`
	OrbitRate     float64 `yaml:"orbit_rate,omitempty"`
	SpinRate      float64 `yaml:"spin_rate,omitempty"`
	TidallyLocked bool    `yaml:"tidally_locked,omitempty"`
}

type file struct {
	Bodies []BodyDef `yaml:"bodies"`
}

// params converts rates to angular velocities. A locked body spins at its orbit rate.
func (d BodyDef) params() (orbit.Params, error) {
	mesh, err := orbit.ParseMeshClass(d.Mesh)
	if err != nil {
		return orbit.Params{}, fmt.Errorf("%w: %s: %v", ErrInvalidBody, d.Name, err)
	}
	spin := d.SpinRate
	if d.TidallyLocked {
		if spin != 0 && spin != d.OrbitRate {
			return orbit.Params{}, fmt.Errorf("%w: %s: tidally locked but spin_rate %g != orbit_rate %g",
				ErrInvalidBody, d.Name, spin, d.OrbitRate)
		}
		spin = d.OrbitRate
	}
	return orbit.Params{
		Name:                 d.Name,
		Mesh:                 mesh,
		ScaleRatio:           d.Scale,
		OrbitRadius:          d.OrbitRadius,
		OrbitAngularVelocity: 2 * math.Pi * d.OrbitRate,
		SpinAngularVelocity:  2 * math.Pi * spin,
	}, nil
}

// Registry is the fixed body hierarchy. It is built once and never changes; Bodies iterates
// in draw order (declaration order).
type Registry struct {
	bodies []*orbit.Body
	byName map[string]*orbit.Body
	root   *orbit.Body
}

// New builds a registry from defs. Every parent must be declared before its satellites and
// exactly one body (the root) has no parent.
func New(defs []BodyDef) (*Registry, error) {
	if len(defs) == 0 {
		return nil, fmt.Errorf("%w: no bodies", ErrInvalidBody)
	}
	r := &Registry{byName: make(map[string]*orbit.Body, len(defs))}
	for i, d := range defs {
		if d.Name == "" {
			return nil, fmt.Errorf("%w: body %d has no name", ErrInvalidBody, i+1)
		}
		if _, dup := r.byName[d.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate name %q", ErrInvalidBody, d.Name)
		}
		var parent *orbit.Body
		if d.Parent == "" {
			if r.root != nil {
				return nil, fmt.Errorf("%w: %s: second root (root is %s)", ErrInvalidBody, d.Name, r.root.Name())
			}
		} else {
			p, ok := r.byName[d.Parent]
			if !ok {
				return nil, fmt.Errorf("%w: %s: parent %q not declared before it", ErrInvalidBody, d.Name, d.Parent)
			}
			parent = p
		}
		params, err := d.params()
		if err != nil {
			return nil, err
		}
		b, err := orbit.NewBody(params, parent)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidBody, err)
		}
		if parent == nil {
			r.root = b
		}
		r.bodies = append(r.bodies, b)
		r.byName[d.Name] = b
	}
	if r.root == nil {
		return nil, fmt.Errorf("%w: no root body", ErrInvalidBody)
	}
	return r, nil
}

// Decode reads a YAML body table (see scene.yaml). Unknown keys are rejected.
func Decode(rd io.Reader) (*Registry, error) {
	dec := yaml.NewDecoder(rd)
	dec.KnownFields(true)
	var f file
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("scene: decode: %w", err)
	}
	return New(f.Bodies)
}

// Load reads a body table from path.
func Load(path string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("scene: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Default returns the built-in solar system: sun, earth, moon, mars, phobos, deimos.
func Default() (*Registry, error) {
	return Decode(bytes.NewReader(defaultScene))
}

// Bodies returns the bodies in draw order.
func (r *Registry) Bodies() []*orbit.Body {
	out := make([]*orbit.Body, len(r.bodies))
	copy(out, r.bodies)
	return out
}

// Len returns the number of bodies.
func (r *Registry) Len() int { return len(r.bodies) }

// Root returns the body that orbits nothing.
func (r *Registry) Root() *orbit.Body { return r.root }

// Lookup returns the body with the given name.
func (r *Registry) Lookup(name string) (*orbit.Body, bool) {
	b, ok := r.byName[name]
	return b, ok
}

// MeshClass returns the mesh class of the named body.
func (r *Registry) MeshClass(name string) (orbit.MeshClass, bool) {
	b, ok := r.byName[name]
	if !ok {
		return 0, false
	}
	return b.Mesh(), true
}

// MeshClassesInUse returns the distinct mesh classes referenced by the table, in
// orbit.MeshClasses order. Only these need loading and uploading.
func (r *Registry) MeshClassesInUse() []orbit.MeshClass {
	used := make(map[orbit.MeshClass]bool)
	for _, b := range r.bodies {
		used[b.Mesh()] = true
	}
	var out []orbit.MeshClass
	for _, c := range orbit.MeshClasses {
		if used[c] {
			out = append(out, c)
		}
	}
	return out
}
