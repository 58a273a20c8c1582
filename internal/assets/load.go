package assets

import (
	"context"
	"fmt"
	"io"

	"golang.org/x/sync/errgroup"

	"orrery/internal/orbit"
)

// Resource names, relative to a Source.
const (
	VertexShaderName   = "shaders/vertex.glsl"
	FragmentShaderName = "shaders/fragment.glsl"
)

// MeshName returns the resource name of a mesh class, e.g. "meshes/octahedron.json".
func MeshName(c orbit.MeshClass) string {
	return "meshes/" + c.String() + ".json"
}

// Bundle is everything fetched before the first frame.
type Bundle struct {
	VertexShader   string
	FragmentShader string
	Meshes         map[orbit.MeshClass]*Mesh
}

// Mesh returns the shared mesh for class c.
func (b *Bundle) Mesh(c orbit.MeshClass) (*Mesh, bool) {
	m, ok := b.Meshes[c]
	return m, ok
}

// Load fetches both shaders and one mesh per listed class concurrently. The first failure
// cancels the rest and is returned; there is no partial bundle.
func Load(ctx context.Context, src Source, classes []orbit.MeshClass) (*Bundle, error) {
	if len(classes) == 0 {
		return nil, fmt.Errorf("assets: no mesh classes requested")
	}
	g, ctx := errgroup.WithContext(ctx)
	b := &Bundle{}
	g.Go(func() error {
		s, err := readText(ctx, src, VertexShaderName)
		b.VertexShader = s
		return err
	})
	g.Go(func() error {
		s, err := readText(ctx, src, FragmentShaderName)
		b.FragmentShader = s
		return err
	})
	meshes := make([]*Mesh, len(classes))
	for i, c := range classes {
		g.Go(func() error {
			m, err := readMesh(ctx, src, MeshName(c))
			meshes[i] = m
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	b.Meshes = make(map[orbit.MeshClass]*Mesh, len(meshes))
	for i, c := range classes {
		b.Meshes[c] = meshes[i]
	}
	return b, nil
}

func readText(ctx context.Context, src Source, name string) (string, error) {
	rc, err := src.Open(ctx, name)
	if err != nil {
		return "", fmt.Errorf("assets: %s: %w", name, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return "", fmt.Errorf("assets: %s: %w", name, err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("assets: %s: empty", name)
	}
	return string(data), nil
}

func readMesh(ctx context.Context, src Source, name string) (*Mesh, error) {
	rc, err := src.Open(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("assets: %s: %w", name, err)
	}
	defer rc.Close()
	m, err := DecodeMesh(rc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return m, nil
}
