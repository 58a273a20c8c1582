package scene

import (
	"errors"
	"math"
	"strings"
	"testing"

	"orrery/internal/orbit"
	"orrery/internal/transform"
)

func TestDefault_Hierarchy(t *testing.T) {
	reg, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	order := []string{"sun", "earth", "moon", "mars", "phobos", "deimos"}
	bodies := reg.Bodies()
	if len(bodies) != len(order) || reg.Len() != len(order) {
		t.Fatalf("got %d bodies; want %d", len(bodies), len(order))
	}
	for i, name := range order {
		if bodies[i].Name() != name {
			t.Fatalf("draw order[%d] = %s; want %s", i, bodies[i].Name(), name)
		}
	}
	parents := map[string]string{"earth": "sun", "mars": "sun", "moon": "earth", "phobos": "mars", "deimos": "mars"}
	for child, parent := range parents {
		b, ok := reg.Lookup(child)
		if !ok {
			t.Fatalf("Lookup(%s) missing", child)
		}
		if b.Parent() == nil || b.Parent().Name() != parent {
			t.Fatalf("%s parent = %v; want %s", child, b.Parent(), parent)
		}
	}
	if reg.Root().Name() != "sun" || !reg.Root().IsRoot() {
		t.Fatalf("root = %s; want sun", reg.Root().Name())
	}
}

func TestDefault_TidalLocking(t *testing.T) {
	reg, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	locked := map[string]bool{"sun": false, "earth": false, "mars": false, "moon": true, "phobos": true, "deimos": true}
	for name, want := range locked {
		b, _ := reg.Lookup(name)
		if got := b.SpinAngularVelocity() == b.OrbitAngularVelocity(); got != want {
			t.Errorf("%s spin==orbit is %v; want %v", name, got, want)
		}
		if b.Locked() != want {
			t.Errorf("%s Locked() = %v; want %v", name, b.Locked(), want)
		}
	}
}

func TestDefault_MeshClasses(t *testing.T) {
	reg, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	want := map[string]orbit.MeshClass{
		"sun": orbit.Octahedron, "earth": orbit.Octahedron, "mars": orbit.Octahedron,
		"moon": orbit.Tetrahedron, "phobos": orbit.Tetrahedron, "deimos": orbit.Tetrahedron,
	}
	for name, mc := range want {
		if got, ok := reg.MeshClass(name); !ok || got != mc {
			t.Errorf("MeshClass(%s) = %v, %v; want %v", name, got, ok, mc)
		}
	}
	if _, ok := reg.MeshClass("pluto"); ok {
		t.Fatalf("MeshClass(pluto) found")
	}
	if got := reg.MeshClassesInUse(); len(got) != 2 || got[0] != orbit.Octahedron || got[1] != orbit.Tetrahedron {
		t.Fatalf("MeshClassesInUse = %v; want [octahedron tetrahedron]", got)
	}
}

func TestMeshClassesInUse_OnlyReferenced(t *testing.T) {
	reg, err := New([]BodyDef{
		{Name: "star", Mesh: "octahedron", Scale: 1},
		{Name: "rock", Parent: "star", Mesh: "octahedron", Scale: 0.2, OrbitRadius: 3, OrbitRate: 0.1},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := reg.MeshClassesInUse(); len(got) != 1 || got[0] != orbit.Octahedron {
		t.Fatalf("MeshClassesInUse = %v; want [octahedron]", got)
	}
}

func TestDefault_Earth(t *testing.T) {
	reg, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	earth, _ := reg.Lookup("earth")
	want := transform.Compose(transform.Translate(2, 0, 0), transform.Scale(0.5, 0.5, 0.5))
	if got := earth.World(0); !transform.ApproxEqual(got, want, 1e-5) {
		t.Fatalf("earth world(0) = %v; want %v", got, want)
	}
	if got := earth.OrbitTransform(5); !transform.ApproxEqual(got, transform.Translate(2, 0, 0), 1e-4) {
		t.Fatalf("earth orbit(5) = %v; want translate(2,0,0)", got)
	}
	if got, want := earth.SpinAngularVelocity()*5, 2*math.Pi*1.236*5; math.Abs(got-want) > 1e-9 {
		t.Fatalf("spin after 5s = %v; want %v", got, want)
	}
}

func TestZeroTime_AllBodiesUnrotated(t *testing.T) {
	reg, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	for _, b := range reg.Bodies() {
		// At t=0 every body sits at the sum of its ancestors' radii along +X.
		var x float64
		for p := b; p != nil; p = p.Parent() {
			x += p.OrbitRadius()
		}
		r := float32(b.ScaleRatio())
		want := transform.Compose(transform.Translate(float32(x), 0, 0), transform.Scale(r, r, r))
		if got := b.World(0); !transform.ApproxEqual(got, want, 1e-5) {
			t.Errorf("%s world(0) = %v; want %v", b.Name(), got, want)
		}
	}
}

func TestDecode_Errors(t *testing.T) {
	tcs := []struct {
		name string
		yaml string
	}{
		{"empty", "bodies: []"},
		{"two roots", `
bodies:
  - {name: a, mesh: octahedron, scale: 1}
  - {name: b, mesh: octahedron, scale: 1}`},
		{"no root", `
bodies:
  - {name: a, parent: b, mesh: octahedron, scale: 1, orbit_radius: 1}`},
		{"parent after child", `
bodies:
  - {name: sun, mesh: octahedron, scale: 1}
  - {name: moon, parent: earth, mesh: tetrahedron, scale: 1, orbit_radius: 1}
  - {name: earth, parent: sun, mesh: octahedron, scale: 1, orbit_radius: 2}`},
		{"duplicate", `
bodies:
  - {name: sun, mesh: octahedron, scale: 1}
  - {name: sun, parent: sun, mesh: octahedron, scale: 1}`},
		{"bad mesh", `
bodies:
  - {name: sun, mesh: cube, scale: 1}`},
		{"zero scale", `
bodies:
  - {name: sun, mesh: octahedron}`},
		{"orbiting root", `
bodies:
  - {name: sun, mesh: octahedron, scale: 1, orbit_radius: 3}`},
		{"locked with other spin", `
bodies:
  - {name: sun, mesh: octahedron, scale: 1}
  - {name: moon, parent: sun, mesh: tetrahedron, scale: 1, orbit_radius: 1, orbit_rate: 1, spin_rate: 2, tidally_locked: true}`},
	}
	for _, tc := range tcs {
		if _, err := Decode(strings.NewReader(tc.yaml)); !errors.Is(err, ErrInvalidBody) {
			t.Errorf("%s: err = %v; want ErrInvalidBody", tc.name, err)
		}
	}
}

func TestDecode_UnknownField(t *testing.T) {
	_, err := Decode(strings.NewReader("bodies:\n  - {name: sun, mesh: octahedron, scale: 1, colour: red}\n"))
	if err == nil {
		t.Fatalf("unknown field accepted")
	}
}

func TestDecode_NegativeRate(t *testing.T) {
	reg, err := Decode(strings.NewReader(`
bodies:
  - {name: sun, mesh: octahedron, scale: 1}
  - {name: retro, parent: sun, mesh: tetrahedron, scale: 0.2, orbit_radius: 1, orbit_rate: -0.25, tidally_locked: true}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	b, _ := reg.Lookup("retro")
	if want := -math.Pi / 2; b.OrbitAngularVelocity() != want || b.SpinAngularVelocity() != want {
		t.Fatalf("velocities = %v, %v; want %v", b.OrbitAngularVelocity(), b.SpinAngularVelocity(), want)
	}
	// Quarter period at -pi/2 rad/s turns +X towards +Z.
	if got := transform.TranslationOf(b.World(1)); !got.ApproxEqualThreshold(transform.Vec3{0, 0, 1}, 1e-5) {
		t.Fatalf("retro at t=1: %v; want (0,0,1)", got)
	}
}
