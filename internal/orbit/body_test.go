package orbit

import (
	"errors"
	"math"
	"testing"

	"orrery/internal/transform"
)

const eps = 1e-4

func mustBody(t *testing.T, p Params, parent *Body) *Body {
	t.Helper()
	b, err := NewBody(p, parent)
	if err != nil {
		t.Fatalf("NewBody(%s): %v", p.Name, err)
	}
	return b
}

// system builds a sun, a planet orbiting it, and a locked moon orbiting the planet.
func system(t *testing.T) (sun, planet, moon *Body) {
	sun = mustBody(t, Params{Name: "sun", Mesh: Octahedron, ScaleRatio: 1, SpinAngularVelocity: 0.3}, nil)
	planet = mustBody(t, Params{
		Name: "planet", Mesh: Octahedron, ScaleRatio: 0.5, OrbitRadius: 2,
		OrbitAngularVelocity: 2 * math.Pi / 5, SpinAngularVelocity: 2 * math.Pi * 1.236,
	}, sun)
	moon = mustBody(t, Params{
		Name: "moon", Mesh: Tetrahedron, ScaleRatio: 0.2, OrbitRadius: 0.7,
		OrbitAngularVelocity: 2 * math.Pi, SpinAngularVelocity: 2 * math.Pi,
	}, planet)
	return sun, planet, moon
}

func TestRootStaysAtOrigin(t *testing.T) {
	sun, _, _ := system(t)
	for _, tm := range []float64{0, 0.25, 1, 7.5, 3600} {
		if got := transform.TranslationOf(sun.World(tm)); !got.ApproxEqualThreshold(transform.Vec3{}, eps) {
			t.Fatalf("sun translation at t=%v = %v; want origin", tm, got)
		}
		want := transform.Compose(transform.RotateY(float32(0.3*tm)), transform.UniformScale(1))
		if !transform.ApproxEqual(sun.World(tm), want, eps) {
			t.Fatalf("sun world at t=%v = %v; want spin·scale", tm, sun.World(tm))
		}
	}
}

func TestWorldAtZeroHasNoRotation(t *testing.T) {
	sun, planet, moon := system(t)
	tcs := []struct {
		body *Body
		want transform.Mat4
	}{
		{sun, transform.UniformScale(1)},
		{planet, transform.Compose(transform.Translate(2, 0, 0), transform.UniformScale(0.5))},
		{moon, transform.Compose(transform.Translate(2.7, 0, 0), transform.UniformScale(0.2))},
	}
	for _, tc := range tcs {
		if got := tc.body.World(0); !transform.ApproxEqual(got, tc.want, eps) {
			t.Errorf("%s world(0) = %v; want %v", tc.body.Name(), got, tc.want)
		}
	}
}

func TestFullOrbitReturnsToStart(t *testing.T) {
	_, planet, _ := system(t)
	orbit := planet.OrbitTransform(5)
	if !transform.ApproxEqual(orbit, transform.Translate(2, 0, 0), eps) {
		t.Fatalf("orbit after one period = %v; want translate(2,0,0)", orbit)
	}
	want := transform.Compose(
		transform.Translate(2, 0, 0),
		transform.RotateY(float32(2*math.Pi*1.236*5)),
		transform.UniformScale(0.5),
	)
	if got := planet.World(5); !transform.ApproxEqual(got, want, eps) {
		t.Fatalf("world after one period = %v; want %v", got, want)
	}
}

func TestSpinAndScaleAreNotInherited(t *testing.T) {
	_, planet, moon := system(t)
	for _, tm := range []float64{0.1, 1.3, 4.2} {
		// The moon's centre is its orbit radius away from the planet's centre regardless of
		// the planet's scale.
		pc := transform.TranslationOf(planet.World(tm))
		mc := transform.TranslationOf(moon.World(tm))
		if d := mc.Sub(pc).Len(); math.Abs(float64(d)-0.7) > eps {
			t.Fatalf("t=%v: moon-planet distance %v; want 0.7", tm, d)
		}
		if !transform.ApproxEqual(moon.OrbitChain(tm), planet.OrbitTransform(tm), eps) {
			t.Fatalf("t=%v: moon chain differs from planet orbit", tm)
		}
	}
}

func TestNestedOrbitPosition(t *testing.T) {
	_, planet, moon := system(t)
	tm := 1.25 // planet quarter turn, moon 1.25 turns
	pc := transform.TranslationOf(planet.World(tm))
	if !pc.ApproxEqualThreshold(transform.Vec3{0, 0, -2}, eps) {
		t.Fatalf("planet at %v; want (0,0,-2)", pc)
	}
	// The moon's offset is turned by the planet's pi/2 and its own 2.5pi: net pi, so it
	// sits on the -X side of the planet.
	mc := transform.TranslationOf(moon.World(tm))
	if !mc.ApproxEqualThreshold(transform.Vec3{-0.7, 0, -2}, eps) {
		t.Fatalf("moon at %v; want (-0.7,0,-2)", mc)
	}
}

func TestLocked(t *testing.T) {
	sun, planet, moon := system(t)
	if sun.Locked() || planet.Locked() {
		t.Fatalf("sun/planet reported as locked")
	}
	if !moon.Locked() {
		t.Fatalf("moon not reported as locked")
	}
}

func TestNewBody_Invalid(t *testing.T) {
	sun, _, _ := system(t)
	tcs := []struct {
		name   string
		p      Params
		parent *Body
	}{
		{"empty name", Params{ScaleRatio: 1}, sun},
		{"zero scale", Params{Name: "x"}, sun},
		{"negative radius", Params{Name: "x", ScaleRatio: 1, OrbitRadius: -1}, sun},
		{"orbiting root", Params{Name: "x", ScaleRatio: 1, OrbitRadius: 1}, nil},
		{"nan velocity", Params{Name: "x", ScaleRatio: 1, SpinAngularVelocity: math.NaN()}, sun},
		{"unknown mesh", Params{Name: "x", ScaleRatio: 1, Mesh: MeshClass(9)}, sun},
	}
	for _, tc := range tcs {
		if _, err := NewBody(tc.p, tc.parent); !errors.Is(err, ErrInvalidParams) {
			t.Errorf("%s: err = %v; want ErrInvalidParams", tc.name, err)
		}
	}
}

func TestParseMeshClass(t *testing.T) {
	for _, c := range MeshClasses {
		got, err := ParseMeshClass(c.String())
		if err != nil || got != c {
			t.Fatalf("ParseMeshClass(%q) = %v, %v", c.String(), got, err)
		}
	}
	if got, err := ParseMeshClass(" Tetrahedron "); err != nil || got != Tetrahedron {
		t.Fatalf("ParseMeshClass mixed case = %v, %v", got, err)
	}
	if _, err := ParseMeshClass("cube"); err == nil {
		t.Fatalf("ParseMeshClass(cube) succeeded")
	}
}
