package transform

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Mat4 is a 4x4 homogeneous transform stored column-major (OpenGL layout).
// Points are column vectors: the transform applied to p is M·p.
type Mat4 = mgl32.Mat4

// Vec3 is a point or direction in scene space.
type Vec3 = mgl32.Vec3

var (
	// ErrDegenerateView is returned by LookAt when eye == target or up is parallel to the view direction.
	ErrDegenerateView = errors.New("transform: degenerate view")
	// ErrInvalidProjection is returned by Perspective for out-of-range near/far, FOV, or viewport.
	ErrInvalidProjection = errors.New("transform: invalid projection")
)

// degenerateEps is the smallest view-direction length and |dir × up| accepted by LookAt.
const degenerateEps = 1e-6

// Identity returns the identity transform.
func Identity() Mat4 {
	return mgl32.Ident4()
}

// RotateY returns a right-handed rotation of angle radians about the vertical (+Y) axis.
// Positive angles turn +X towards -Z.
func RotateY(angle float32) Mat4 {
	return mgl32.HomogRotate3DY(angle)
}

// Translate returns a translation by (x, y, z).
func Translate(x, y, z float32) Mat4 {
	return mgl32.Translate3D(x, y, z)
}

// Scale returns a non-uniform scale.
func Scale(sx, sy, sz float32) Mat4 {
	return mgl32.Scale3D(sx, sy, sz)
}

// UniformScale returns Scale(s, s, s).
func UniformScale(s float32) Mat4 {
	return mgl32.Scale3D(s, s, s)
}

// Compose returns ms[0]·ms[1]·…·ms[n-1]. The rightmost transform is applied to a point first,
// so callers list transforms outermost (orbit) first and innermost (spin) last.
// Compose() with no arguments is the identity.
func Compose(ms ...Mat4) Mat4 {
	out := mgl32.Ident4()
	for _, m := range ms {
		out = out.Mul4(m)
	}
	return out
}

// LookAt builds a view transform for a camera at eye facing target. up resolves roll.
func LookAt(eye, target, up Vec3) (Mat4, error) {
	dir := target.Sub(eye)
	if dir.Len() < degenerateEps {
		return Mat4{}, fmt.Errorf("%w: eye %v equals target", ErrDegenerateView, eye)
	}
	if up.Len() < degenerateEps || dir.Normalize().Cross(up.Normalize()).Len() < degenerateEps {
		return Mat4{}, fmt.Errorf("%w: up %v parallel to view direction", ErrDegenerateView, up)
	}
	return mgl32.LookAtV(eye, target, up), nil
}

// Perspective builds a right-handed projection with clip-space depth in [-1, 1].
// fovY is the vertical field of view in radians; the aspect ratio is width/height.
func Perspective(near, far, fovY, width, height float32) (Mat4, error) {
	switch {
	case !(near > 0) || !(far > near):
		return Mat4{}, fmt.Errorf("%w: need 0 < near < far, got near=%g far=%g", ErrInvalidProjection, near, far)
	case !(fovY > 0) || !(fovY < math32.Pi):
		return Mat4{}, fmt.Errorf("%w: fov %g out of (0, pi)", ErrInvalidProjection, fovY)
	case !(width > 0) || !(height > 0):
		return Mat4{}, fmt.Errorf("%w: viewport %gx%g", ErrInvalidProjection, width, height)
	}
	return mgl32.Perspective(fovY, width/height, near, far), nil
}

// Apply transforms the point p (w = 1) by m and returns the result after the homogeneous divide.
func Apply(m Mat4, p Vec3) Vec3 {
	v := m.Mul4x1(p.Vec4(1))
	if v.W() != 0 && v.W() != 1 {
		return v.Vec3().Mul(1 / v.W())
	}
	return v.Vec3()
}

// TranslationOf returns the translation column of an affine transform.
func TranslationOf(m Mat4) Vec3 {
	return Vec3{m[12], m[13], m[14]}
}

// ApproxEqual reports whether every element of a and b differs by at most eps.
func ApproxEqual(a, b Mat4, eps float32) bool {
	return a.ApproxEqualThreshold(b, eps)
}
