// Package boundary extracts the open boundary of a triangulated region:
// the set of edges that belong to exactly one triangle. Vertices are
// interned into an integer-indexed arena so edges can be keyed by
// (lo, hi) index pairs with no pointer graphs.
package boundary

import (
	"math"
	"sort"

	"github.com/chazu/flatlay/pkg/flatmesh"
	"github.com/chazu/flatlay/pkg/geom"
)

// Edge is one boundary edge. A and B are arena vertex keys; PA and PB
// are the first-seen coordinates for those keys. Length is always > 0.
type Edge struct {
	A, B     int
	PA, PB   geom.Vec3
	Length   float64
	Midpoint geom.Vec3
}

// NewEdge fills in the derived fields.
func NewEdge(a, b int, pa, pb geom.Vec3) Edge {
	return Edge{
		A: a, B: b,
		PA: pa, PB: pb,
		Length:   pa.Distance(pb),
		Midpoint: pa.Add(pb).Scale(0.5),
	}
}

// Arena interns vertex positions into stable integer keys. Coordinates
// within the quantization tolerance map to the same key, so vertices
// shared between independently generated triangles compare equal. The
// first-seen exact position is kept for each key.
type Arena struct {
	points []geom.Vec3
	cells  map[[3]int64]int
	tol    float64
}

// NewArena creates an arena with the given quantization tolerance.
// Tolerances at or below zero fall back to 1e-6.
func NewArena(tol float64) *Arena {
	if tol <= 0 {
		tol = 1e-6
	}
	return &Arena{cells: make(map[[3]int64]int), tol: tol}
}

// Intern returns the key for p, allocating one on first sight.
func (a *Arena) Intern(p geom.Vec3) int {
	cell := [3]int64{
		int64(math.Round(p.X / a.tol)),
		int64(math.Round(p.Y / a.tol)),
		int64(math.Round(p.Z / a.tol)),
	}
	if k, ok := a.cells[cell]; ok {
		return k
	}
	k := len(a.points)
	a.points = append(a.points, p)
	a.cells[cell] = k
	return k
}

// Point returns the first-seen position for a key.
func (a *Arena) Point(k int) geom.Vec3 { return a.points[k] }

// Len returns the number of distinct vertices interned.
func (a *Arena) Len() int { return len(a.points) }

// pairKey orders an edge's two vertex keys canonically.
type pairKey struct{ lo, hi int }

func makePair(a, b int) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{a, b}
}

// edgeRecord is one entry of the multiplicity table.
type edgeRecord struct {
	count int
	a, b  int // first-seen orientation
	tris  []int
}

// table counts how many triangles touch each unordered vertex pair.
type table struct {
	records map[pairKey]*edgeRecord
}

func newTable() *table {
	return &table{records: make(map[pairKey]*edgeRecord)}
}

func (t *table) add(a, b, tri int) {
	key := makePair(a, b)
	rec := t.records[key]
	if rec == nil {
		rec = &edgeRecord{a: a, b: b}
		t.records[key] = rec
	}
	rec.count++
	rec.tris = append(rec.tris, tri)
}

// boundaryEdges returns the edges with multiplicity exactly 1, in a
// deterministic (sorted key) order. Zero-length edges — those whose two
// endpoints quantized to the same key — never make it into the table,
// because add is skipped for them by the extractors.
func (t *table) boundaryEdges(arena *Arena) []Edge {
	keys := make([]pairKey, 0, len(t.records))
	for k, rec := range t.records {
		if rec.count == 1 {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].lo != keys[j].lo {
			return keys[i].lo < keys[j].lo
		}
		return keys[i].hi < keys[j].hi
	})

	edges := make([]Edge, 0, len(keys))
	for _, k := range keys {
		rec := t.records[k]
		e := NewEdge(rec.a, rec.b, arena.Point(rec.a), arena.Point(rec.b))
		if e.Length <= 0 {
			continue
		}
		edges = append(edges, e)
	}
	return edges
}

// Face3D is the input to 3D boundary extraction: a triangle soup with
// an optional index buffer and an optional rigid world transform.
type Face3D struct {
	Positions []float64 // local-space [x,y,z] triplets
	Indices   []int     // optional; empty means consecutive triplets
	Transform *geom.Rigid
}

func (f *Face3D) vertex(i int) geom.Vec3 {
	p := geom.Vec3{
		X: f.Positions[i*3],
		Y: f.Positions[i*3+1],
		Z: f.Positions[i*3+2],
	}
	if f.Transform != nil {
		p = f.Transform.Apply(p)
	}
	return p
}

func (f *Face3D) triangleCount() int {
	if len(f.Indices) > 0 {
		return len(f.Indices) / 3
	}
	return len(f.Positions) / 9
}

func (f *Face3D) triangle(t int) (geom.Vec3, geom.Vec3, geom.Vec3) {
	if len(f.Indices) > 0 {
		return f.vertex(f.Indices[t*3]), f.vertex(f.Indices[t*3+1]), f.vertex(f.Indices[t*3+2])
	}
	return f.vertex(t * 3), f.vertex(t*3 + 1), f.vertex(t*3 + 2)
}

// ExtractFace3D returns the boundary edges of a 3D triangulated face in
// world space, along with the vertex arena used to key them. The
// quantization tolerance scales with the face's bounding-box diagonal
// so neighboring triangles from independent tessellations still share
// vertex keys. A face with no triangles yields an empty boundary.
func ExtractFace3D(face *Face3D) ([]Edge, *Arena) {
	n := face.triangleCount()
	if n == 0 {
		return nil, NewArena(0)
	}

	// World-space bounding box for the tolerance.
	lo := face.vertex(firstIndex(face))
	hi := lo
	for t := 0; t < n; t++ {
		p0, p1, p2 := face.triangle(t)
		for _, p := range []geom.Vec3{p0, p1, p2} {
			lo = geom.Vec3{X: min(lo.X, p.X), Y: min(lo.Y, p.Y), Z: min(lo.Z, p.Z)}
			hi = geom.Vec3{X: max(hi.X, p.X), Y: max(hi.Y, p.Y), Z: max(hi.Z, p.Z)}
		}
	}
	tol := max(1e-6, hi.Distance(lo)*1e-6)

	arena := NewArena(tol)
	tab := newTable()
	for t := 0; t < n; t++ {
		p0, p1, p2 := face.triangle(t)
		k0 := arena.Intern(p0)
		k1 := arena.Intern(p1)
		k2 := arena.Intern(p2)
		addIfReal(tab, k0, k1, t)
		addIfReal(tab, k1, k2, t)
		addIfReal(tab, k2, k0, t)
	}
	return tab.boundaryEdges(arena), arena
}

func firstIndex(face *Face3D) int {
	if len(face.Indices) > 0 {
		return face.Indices[0]
	}
	return 0
}

// addIfReal skips degenerate edges whose endpoints collapsed to the
// same quantized key.
func addIfReal(t *table, a, b, tri int) {
	if a == b {
		return
	}
	t.add(a, b, tri)
}

// ExtractFlat returns the boundary of the flattened-mesh region whose
// triangles carry the given face id. Native vertex indices are already
// canonical, so no quantization happens; the returned arena simply maps
// the mesh indices that appear. An unknown face id yields an empty
// boundary.
func ExtractFlat(mesh *flatmesh.Mesh, faceID int) ([]Edge, *Arena) {
	arena := NewArena(0)
	tab := newTable()

	native := make(map[int]int) // mesh vertex index -> arena key
	intern := func(i int) int {
		if k, ok := native[i]; ok {
			return k
		}
		k := arena.Intern(mesh.Vertex(i))
		native[i] = k
		return k
	}

	for t := 0; t < mesh.TriangleCount(); t++ {
		if mesh.TriangleFaceIDs[t] != faceID {
			continue
		}
		k0 := intern(mesh.Triangles[t*3])
		k1 := intern(mesh.Triangles[t*3+1])
		k2 := intern(mesh.Triangles[t*3+2])
		addIfReal(tab, k0, k1, t)
		addIfReal(tab, k1, k2, t)
		addIfReal(tab, k2, k0, t)
	}
	return tab.boundaryEdges(arena), arena
}

// Centroid returns the length-weighted centroid of a boundary's edge
// midpoints. ok is false for an empty or fully degenerate edge set.
func Centroid(edges []Edge) (geom.Vec3, bool) {
	var sum geom.Vec3
	var weight float64
	for _, e := range edges {
		sum = sum.Add(e.Midpoint.Scale(e.Length))
		weight += e.Length
	}
	if weight == 0 {
		return geom.Vec3{}, false
	}
	return sum.Scale(1 / weight), true
}
