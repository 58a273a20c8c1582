package frame

import (
	"fmt"

	"orrery/internal/transform"
)

// Camera holds the fixed camera placement and lens. FovY is in radians.
type Camera struct {
	Eye, Target, Up transform.Vec3
	FovY            float32
	Near, Far       float32
}

// RenderContext is the camera state shared by every submission in a frame. The view is fixed
// at construction; only Resize changes the projection.
type RenderContext struct {
	cam        Camera
	view       transform.Mat4
	projection transform.Mat4
}

// NewRenderContext computes the view once and the projection for a width x height viewport.
func NewRenderContext(cam Camera, width, height int) (*RenderContext, error) {
	view, err := transform.LookAt(cam.Eye, cam.Target, cam.Up)
	if err != nil {
		return nil, fmt.Errorf("frame: camera: %w", err)
	}
	rc := &RenderContext{cam: cam, view: view}
	if err := rc.Resize(width, height); err != nil {
		return nil, err
	}
	return rc, nil
}

// Resize recomputes the projection for the new viewport size. On error (e.g. a minimised
// window reporting 0x0) the previous projection is kept.
func (rc *RenderContext) Resize(width, height int) error {
	p, err := transform.Perspective(rc.cam.Near, rc.cam.Far, rc.cam.FovY, float32(width), float32(height))
	if err != nil {
		return fmt.Errorf("frame: resize %dx%d: %w", width, height, err)
	}
	rc.projection = p
	return nil
}

func (rc *RenderContext) View() transform.Mat4       { return rc.view }
func (rc *RenderContext) Projection() transform.Mat4 { return rc.projection }
func (rc *RenderContext) Camera() Camera             { return rc.cam }
