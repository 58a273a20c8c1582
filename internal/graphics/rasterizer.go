package graphics

import (
	"errors"
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"orrery/internal/assets"
	"orrery/internal/frame"
	"orrery/internal/orbit"
	"orrery/internal/transform"
)

// ErrShader is returned when the shader program fails to compile or link.
var ErrShader = errors.New("graphics: shader compile/link failed")

// gpuMesh is one uploaded mesh class. Its CPU arrays are kept alive for the mesh's lifetime
// because raylib holds pointers to them.
type gpuMesh struct {
	mesh     rl.Mesh
	vertices []float32
	colors   []uint8
	indices  []uint16
}

// Rasterizer draws submissions with one shared shader and one GPU mesh per mesh class.
// It implements frame.Rasterizer.
type Rasterizer struct {
	meshes map[orbit.MeshClass]*gpuMesh
	mtl    rl.Material
	shader rl.Shader
}

// NewRasterizer compiles the shader program and uploads the bundle's mesh for each class.
// It must be called after Open.
func NewRasterizer(b *assets.Bundle, classes []orbit.MeshClass) (*Rasterizer, error) {
	shader := rl.LoadShaderFromMemory(b.VertexShader, b.FragmentShader)
	if !rl.IsShaderValid(shader) {
		return nil, ErrShader
	}
	r := &Rasterizer{
		meshes: make(map[orbit.MeshClass]*gpuMesh, len(classes)),
		shader: shader,
	}
	r.mtl = rl.LoadMaterialDefault()
	r.mtl.Shader = shader
	for _, class := range classes {
		m, ok := b.Mesh(class)
		if !ok {
			r.Unload()
			return nil, fmt.Errorf("graphics: no %v mesh loaded", class)
		}
		if err := m.Validate(); err != nil {
			r.Unload()
			return nil, fmt.Errorf("graphics: %v mesh: %w", class, err)
		}
		r.meshes[class] = upload(m)
	}
	return r, nil
}

func upload(m *assets.Mesh) *gpuMesh {
	g := &gpuMesh{
		vertices: m.Vertices(),
		colors:   m.ColorBytes(),
		indices:  m.Indices(),
	}
	g.mesh = rl.Mesh{
		VertexCount:   int32(m.VertexCount()),
		TriangleCount: int32(m.TriangleCount()),
		Vertices:      &g.vertices[0],
		Colors:        &g.colors[0],
		Indices:       &g.indices[0],
	}
	rl.UploadMesh(&g.mesh, false)
	return g
}

// Submit binds the body's mesh class and issues one indexed draw with its world transform.
// Submissions for unknown classes are dropped.
func (r *Rasterizer) Submit(s frame.Submission) {
	g, ok := r.meshes[s.Mesh]
	if !ok {
		return
	}
	rl.SetMatrixProjection(toRL(s.Projection))
	rl.SetMatrixModelview(toRL(s.View))
	rl.DrawMesh(g.mesh, r.mtl, toRL(s.World))
}

// Unload releases the shader. Mesh buffers point into Go memory, so they are not passed to
// rl.UnloadMesh; their GPU objects are released with the context when the window closes.
func (r *Rasterizer) Unload() {
	clear(r.meshes)
	rl.UnloadShader(r.shader)
}

// toRL copies a column-major matrix into raylib's layout (also column-major; M<n> is element n).
func toRL(m transform.Mat4) rl.Matrix {
	return rl.Matrix{
		M0: m[0], M1: m[1], M2: m[2], M3: m[3],
		M4: m[4], M5: m[5], M6: m[6], M7: m[7],
		M8: m[8], M9: m[9], M10: m[10], M11: m[11],
		M12: m[12], M13: m[13], M14: m[14], M15: m[15],
	}
}
