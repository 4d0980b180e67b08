// Package outline turns raw boundary edges into the logical polygon
// outline of a face: it merges runs of colinear segments left over from
// arbitrary triangulation, and computes endpoint signatures used to
// disambiguate edge correspondences during alignment.
package outline

import (
	"sort"

	"github.com/chazu/flatlay/pkg/boundary"
	"github.com/chazu/flatlay/pkg/geom"
)

// colinearEps bounds |cross| relative to |v1|·|v2| in the merge test.
const colinearEps = 1e-6

// Edge is a boundary edge projected into a 2D working plane. A and B
// are the vertex keys carried over from extraction.
type Edge struct {
	A, B     int
	PA, PB   geom.Vec2
	Length   float64
	Midpoint geom.Vec2
}

// NewEdge fills in the derived fields.
func NewEdge(a, b int, pa, pb geom.Vec2) Edge {
	return Edge{
		A: a, B: b,
		PA: pa, PB: pb,
		Length:   pa.Distance(pb),
		Midpoint: pa.Add(pb).Scale(0.5),
	}
}

// other returns the endpoint key opposite k, and its position.
func (e Edge) other(k int) (int, geom.Vec2) {
	if k == e.A {
		return e.B, e.PB
	}
	return e.A, e.PA
}

// at returns the position of endpoint key k.
func (e Edge) at(k int) geom.Vec2 {
	if k == e.A {
		return e.PA
	}
	return e.PB
}

// ProjectXY drops the z coordinate; the projector for flattened meshes.
func ProjectXY(p geom.Vec3) geom.Vec2 { return geom.Vec2{X: p.X, Y: p.Y} }

// FromBoundary projects extracted 3D boundary edges into a 2D plane.
// For flattened meshes use ProjectXY; for a 3D reference face use the
// face basis's Project.
func FromBoundary(edges []boundary.Edge, project func(geom.Vec3) geom.Vec2) []Edge {
	out := make([]Edge, 0, len(edges))
	for _, e := range edges {
		out = append(out, NewEdge(e.A, e.B, project(e.PA), project(e.PB)))
	}
	return out
}

// Adjacency maps a vertex key to the indices of the edges touching it.
type Adjacency map[int][]int

// NewAdjacency builds the vertex-to-edge index map for an edge list.
func NewAdjacency(edges []Edge) Adjacency {
	adj := make(Adjacency)
	for i, e := range edges {
		adj[e.A] = append(adj[e.A], i)
		adj[e.B] = append(adj[e.B], i)
	}
	return adj
}

// colinear reports whether two directions lie on the same line.
func colinear(v1, v2 geom.Vec2) bool {
	cross := v1.Cross(v2)
	if cross < 0 {
		cross = -cross
	}
	return cross <= colinearEps*v1.Length()*v2.Length()
}

// MergeColinear collapses every maximal run of consecutive colinear
// edges into a single edge spanning the run's extreme endpoints.
//
// Traversal is deterministic: seed edges are taken in input order, and
// runs only extend through vertices where exactly one unvisited
// colinear continuation exists. Junctions with several colinear
// continuations end the run rather than guessing. Already-merged input
// (no colinear consecutive pair) comes back unchanged.
func MergeColinear(edges []Edge) []Edge {
	adj := NewAdjacency(edges)
	visited := make([]bool, len(edges))

	// extend walks from vertex k away from the run, marking edges
	// visited, and returns the far endpoint reached.
	extend := func(k int, dir geom.Vec2) int {
		for {
			next := -1
			for _, ei := range adj[k] {
				if visited[ei] {
					continue
				}
				_, oPos := edges[ei].other(k)
				if colinear(dir, oPos.Sub(edges[ei].at(k))) {
					if next != -1 {
						return k // ambiguous junction, stop the run
					}
					next = ei
				}
			}
			if next == -1 {
				return k
			}
			visited[next] = true
			k, _ = edges[next].other(k)
		}
	}

	var merged []Edge
	for i := range edges {
		if visited[i] {
			continue
		}
		visited[i] = true
		e := edges[i]
		dir := e.PB.Sub(e.PA)
		endB := extend(e.B, dir)
		endA := extend(e.A, dir.Scale(-1))
		merged = append(merged, NewEdge(endA, endB, pointOf(edges, adj, endA), pointOf(edges, adj, endB)))
	}
	return merged
}

// pointOf looks up any edge touching vertex k to recover its position.
func pointOf(edges []Edge, adj Adjacency, k int) geom.Vec2 {
	for _, ei := range adj[k] {
		return edges[ei].at(k)
	}
	return geom.Vec2{}
}

// Centroid returns the length-weighted centroid of the edges'
// midpoints. ok is false for an empty or degenerate set.
func Centroid(edges []Edge) (geom.Vec2, bool) {
	var sum geom.Vec2
	var weight float64
	for _, e := range edges {
		sum = sum.Add(e.Midpoint.Scale(e.Length))
		weight += e.Length
	}
	if weight == 0 {
		return geom.Vec2{}, false
	}
	return sum.Scale(1 / weight), true
}

// CentroidPtr is Centroid as a nullable value, nil when undefined.
func CentroidPtr(edges []Edge) *geom.Vec2 {
	if c, ok := Centroid(edges); ok {
		return &c
	}
	return nil
}

// Signature fingerprints one endpoint of an edge: the signed angle to
// the longest adjacent edge at that vertex, and that neighbor's length.
type Signature struct {
	Angle float64
	Len   float64
}

// SignatureAt computes the signature of edges[ei] at vertex key k.
// Returns nil when the vertex has no other edge to compare against,
// which callers treat as "fall back to geometry-only scoring".
func SignatureAt(edges []Edge, adj Adjacency, ei, k int) *Signature {
	e := edges[ei]
	_, otherPos := e.other(k)
	origin := e.at(k)

	// Longest neighbor at k, excluding the edge itself. Ties resolve
	// to the lowest edge index so results don't depend on map order.
	best := -1
	candidates := append([]int(nil), adj[k]...)
	sort.Ints(candidates)
	for _, ni := range candidates {
		if ni == ei {
			continue
		}
		if best == -1 || edges[ni].Length > edges[best].Length {
			best = ni
		}
	}
	if best == -1 {
		return nil
	}

	_, neighborPos := edges[best].other(k)
	thisDir := otherPos.Sub(origin).Normalize()
	neighborDir := neighborPos.Sub(origin).Normalize()
	return &Signature{
		Angle: geom.SignedAngle(thisDir, neighborDir),
		Len:   edges[best].Length,
	}
}

// SignatureDistance scores how different two signatures are. refLen
// normalizes the length term; smaller is better. Nil signatures on
// either side contribute zero, per the geometry-only fallback.
func SignatureDistance(a, b *Signature, refLen float64) float64 {
	if a == nil || b == nil {
		return 0
	}
	da := geom.WrapAngle(a.Angle - b.Angle)
	dl := 0.0
	if refLen > 0 {
		dl = (a.Len - b.Len) / refLen
	}
	return da*da + dl*dl
}
