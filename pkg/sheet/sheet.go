// Package sheet builds a 3D preview solid for a flat pattern: the
// merged outline is ordered into a polygon, extruded to the sheet
// thickness with the sdfx kernel, and tessellated to a render mesh.
package sheet

import (
	"fmt"
	"sort"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"

	"github.com/chazu/flatlay/pkg/geom"
	"github.com/chazu/flatlay/pkg/outline"
)

// previewMeshCells controls marching cubes tessellation resolution.
const previewMeshCells = 100

// Mesh is a renderable triangle mesh. All arrays are flat: vertices
// has 3 floats per vertex, normals 3 per vertex, indices 3 per
// triangle.
type Mesh struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int { return len(m.Vertices) / 3 }

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int { return len(m.Indices) / 3 }

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool { return len(m.Vertices) == 0 }

// OutlineLoop orders merged outline edges into a single closed vertex
// loop. ok is false when the edges do not form exactly one closed
// loop (open chains, junction vertices, or disjoint pieces).
func OutlineLoop(edges []outline.Edge) ([]geom.Vec2, bool) {
	if len(edges) < 3 {
		return nil, false
	}

	next := make(map[int][]int) // vertex key -> edge indices
	for i, e := range edges {
		next[e.A] = append(next[e.A], i)
		next[e.B] = append(next[e.B], i)
	}
	for _, eis := range next {
		if len(eis) != 2 {
			return nil, false
		}
	}

	// Start at the lowest vertex key for reproducible winding.
	keys := make([]int, 0, len(next))
	for k := range next {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	start := keys[0]

	var loop []geom.Vec2
	visited := make([]bool, len(edges))
	cur := start
	for range edges {
		ei := -1
		for _, c := range next[cur] {
			if !visited[c] {
				ei = c
				break
			}
		}
		if ei == -1 {
			return nil, false
		}
		visited[ei] = true
		e := edges[ei]
		if cur == e.A {
			loop = append(loop, e.PA)
			cur = e.B
		} else {
			loop = append(loop, e.PB)
			cur = e.A
		}
	}
	if cur != start || len(loop) != len(edges) {
		return nil, false
	}
	return loop, true
}

// PreviewSlab extrudes a closed flat outline into a thickness-high
// slab solid and tessellates it with marching cubes.
func PreviewSlab(loop []geom.Vec2, thickness float64) (*Mesh, error) {
	if len(loop) < 3 {
		return nil, fmt.Errorf("sheet: outline has %d points, need at least 3", len(loop))
	}
	if thickness <= 0 {
		return nil, fmt.Errorf("sheet: thickness %v must be positive", thickness)
	}

	points := make([]v2.Vec, 0, len(loop))
	for _, p := range loop {
		points = append(points, v2.Vec{X: p.X, Y: p.Y})
	}
	profile, err := sdf.Polygon2D(points)
	if err != nil {
		return nil, fmt.Errorf("sheet: polygon: %w", err)
	}
	solid := sdf.Extrude3D(profile, thickness)

	renderer := render.NewMarchingCubesUniform(previewMeshCells)
	triangles := render.ToTriangles(solid, renderer)

	mesh := &Mesh{}
	for i, tri := range triangles {
		n := tri.Normal()
		nx, ny, nz := float32(n.X), float32(n.Y), float32(n.Z)
		for j := 0; j < 3; j++ {
			v := tri[j]
			mesh.Vertices = append(mesh.Vertices, float32(v.X), float32(v.Y), float32(v.Z))
			mesh.Normals = append(mesh.Normals, nx, ny, nz)
			mesh.Indices = append(mesh.Indices, uint32(i*3+j))
		}
	}
	return mesh, nil
}
