package assets

import (
	"errors"
	"fmt"
	"io"
	"math"

	json "github.com/goccy/go-json"
)

// ErrMalformedMesh is returned for mesh data whose arrays do not line up.
var ErrMalformedMesh = errors.New("assets: malformed mesh")

// Mesh is shared, read-only geometry: one position and one color per vertex, and triangles
// indexing into them. Positions are homogeneous; colors are RGBA in [0, 1].
type Mesh struct {
	Positions [][]float32 `json:"positions"`
	Colors    [][]float32 `json:"colors"`
	Triangles [][]uint16  `json:"triangles"`
}

// Components per element: xyzw positions, RGBA colors, triangle corners.
const (
	positionLen = 4
	colorLen    = 4
	triangleLen = 3
)

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int { return len(m.Positions) }

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int { return len(m.Triangles) }

// Validate checks the invariants the rasterizer relies on.
func (m *Mesh) Validate() error {
	switch {
	case len(m.Positions) == 0:
		return fmt.Errorf("%w: no positions", ErrMalformedMesh)
	case len(m.Positions) > math.MaxUint16+1:
		return fmt.Errorf("%w: %d vertices exceed 16-bit indices", ErrMalformedMesh, len(m.Positions))
	case len(m.Colors) != len(m.Positions):
		return fmt.Errorf("%w: %d colors for %d positions", ErrMalformedMesh, len(m.Colors), len(m.Positions))
	case len(m.Triangles) == 0:
		return fmt.Errorf("%w: no triangles", ErrMalformedMesh)
	}
	for i, p := range m.Positions {
		if len(p) != positionLen {
			return fmt.Errorf("%w: position %d has %d components, want %d", ErrMalformedMesh, i, len(p), positionLen)
		}
		if p[3] == 0 {
			return fmt.Errorf("%w: position %d has w = 0", ErrMalformedMesh, i)
		}
	}
	for i, c := range m.Colors {
		if len(c) != colorLen {
			return fmt.Errorf("%w: color %d has %d components, want %d", ErrMalformedMesh, i, len(c), colorLen)
		}
	}
	for i, tri := range m.Triangles {
		if len(tri) != triangleLen {
			return fmt.Errorf("%w: triangle %d has %d indices, want %d", ErrMalformedMesh, i, len(tri), triangleLen)
		}
		for _, idx := range tri {
			if int(idx) >= len(m.Positions) {
				return fmt.Errorf("%w: triangle %d index %d out of range", ErrMalformedMesh, i, idx)
			}
		}
	}
	return nil
}

// Vertices returns positions as packed xyz after the homogeneous divide. The mesh must be valid.
func (m *Mesh) Vertices() []float32 {
	out := make([]float32, 0, 3*len(m.Positions))
	for _, p := range m.Positions {
		out = append(out, p[0]/p[3], p[1]/p[3], p[2]/p[3])
	}
	return out
}

// ColorBytes returns colors as packed RGBA8, clamping each channel to [0, 1].
func (m *Mesh) ColorBytes() []uint8 {
	out := make([]uint8, 0, 4*len(m.Colors))
	for _, c := range m.Colors {
		for _, ch := range c {
			out = append(out, uint8(math.Round(float64(min(max(ch, 0), 1))*255)))
		}
	}
	return out
}

// Indices returns the triangle list flattened.
func (m *Mesh) Indices() []uint16 {
	out := make([]uint16, 0, triangleLen*len(m.Triangles))
	for _, t := range m.Triangles {
		out = append(out, t...)
	}
	return out
}

// DecodeMesh reads a JSON mesh and validates it.
func DecodeMesh(r io.Reader) (*Mesh, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	var m Mesh
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("assets: decode mesh: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}
