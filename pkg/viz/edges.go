package viz

import (
	"math"
	"sort"

	"github.com/chazu/flatlay/pkg/flatmesh"
	"github.com/chazu/flatlay/pkg/geom"
	"github.com/chazu/flatlay/pkg/outline"
)

type edgePair struct{ lo, hi int }

func makeEdgePair(a, b int) edgePair {
	if a > b {
		a, b = b, a
	}
	return edgePair{a, b}
}

// edgeInfo accumulates per-edge incidence over the whole flat mesh.
type edgeInfo struct {
	count int
	faces map[int]bool
}

// buildEdgeMap counts triangle incidence and the distinct face ids
// touching every edge of the mesh.
func buildEdgeMap(mesh *flatmesh.Mesh) map[edgePair]*edgeInfo {
	m := make(map[edgePair]*edgeInfo)
	for t := 0; t < mesh.TriangleCount(); t++ {
		fid := mesh.TriangleFaceIDs[t]
		for j := 0; j < 3; j++ {
			a := mesh.Triangles[t*3+j]
			b := mesh.Triangles[t*3+(j+1)%3]
			if a == b {
				continue
			}
			key := makeEdgePair(a, b)
			info := m[key]
			if info == nil {
				info = &edgeInfo{faces: make(map[int]bool)}
				m[key] = info
			}
			info.count++
			info.faces[fid] = true
		}
	}
	return m
}

// sortedPairs returns the map keys in deterministic order.
func sortedPairs(m map[edgePair]*edgeInfo) []edgePair {
	keys := make([]edgePair, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].lo != keys[j].lo {
			return keys[i].lo < keys[j].lo
		}
		return keys[i].hi < keys[j].hi
	})
	return keys
}

// classifyEdges splits the mesh's edges into solid outer boundary lines
// and dashed inner seam lines, and builds a centerline for every bend
// face from its seam edges.
func classifyEdges(mesh *flatmesh.Mesh) ([]Segment, []Centerline) {
	edgeMap := buildEdgeMap(mesh)
	keys := sortedPairs(edgeMap)

	toEdge := func(k edgePair) outline.Edge {
		return outline.NewEdge(k.lo, k.hi,
			outline.ProjectXY(mesh.Vertex(k.lo)),
			outline.ProjectXY(mesh.Vertex(k.hi)))
	}

	var outer, seam []outline.Edge
	seamFaces := make(map[int][]outline.Edge) // bend faceID -> its seam edges
	for _, k := range keys {
		info := edgeMap[k]
		e := toEdge(k)
		if e.Length <= 0 {
			continue
		}
		switch {
		case info.count == 1:
			outer = append(outer, e)
		case len(info.faces) >= 2:
			seam = append(seam, e)
			for fid := range info.faces {
				if meta, ok := mesh.Meta(fid); ok && meta.IsBend() {
					seamFaces[fid] = append(seamFaces[fid], e)
				}
			}
		}
	}

	outerMerged := outline.MergeColinear(outer)
	seamMerged := outline.MergeColinear(seam)

	// Dash density keys off the shortest merged seam edge so dashes
	// stay visually consistent across model scales.
	shortest := math.Inf(1)
	for _, e := range seamMerged {
		if e.Length < shortest {
			shortest = e.Length
		}
	}

	var segments []Segment
	for _, e := range outerMerged {
		segments = append(segments, Segment{A: e.PA, B: e.PB, Kind: EdgeOuter})
	}
	for _, e := range seamMerged {
		dashes := 1
		if shortest > 0 && !math.IsInf(shortest, 1) {
			dashes = int(math.Round(e.Length / (shortest / seamDashDivisor)))
			if dashes < 1 {
				dashes = 1
			}
		}
		segments = append(segments, Segment{
			A: e.PA, B: e.PB,
			Kind:      EdgeSeam,
			Dashed:    true,
			DashCount: dashes,
		})
	}

	var centers []Centerline
	bendIDs := make([]int, 0, len(seamFaces))
	for fid := range seamFaces {
		bendIDs = append(bendIDs, fid)
	}
	sort.Ints(bendIDs)
	for _, fid := range bendIDs {
		if c, ok := bendCenterline(fid, seamFaces[fid]); ok {
			centers = append(centers, c)
		}
	}
	return segments, centers
}

// bendCenterline approximates the fold line of a bend face from its
// seam edges: the edges are merged, split into two side groups by
// which side of the dominant direction they fall on, each side is
// averaged into a line, and the result spans both groups' combined
// parametric extent at the midpoint offset. ok is false when the seams
// don't form two sides (degenerate or one-sided bends).
func bendCenterline(faceID int, seams []outline.Edge) (Centerline, bool) {
	merged := outline.MergeColinear(seams)
	if len(merged) < 2 {
		return Centerline{}, false
	}

	centroid, ok := outline.Centroid(merged)
	if !ok {
		return Centerline{}, false
	}

	// Dominant direction: that of the longest merged seam edge.
	longest := merged[0]
	for _, e := range merged[1:] {
		if e.Length > longest.Length {
			longest = e
		}
	}
	dir := longest.PB.Sub(longest.PA).Normalize()
	if dir.Length() == 0 {
		return Centerline{}, false
	}
	perp := dir.Perp()

	type group struct {
		offsetSum  float64 // length-weighted perpendicular offsets
		weight     float64
		tMin, tMax float64
		any        bool
	}
	var side [2]group
	for _, e := range merged {
		off := perp.Dot(e.Midpoint.Sub(centroid))
		gi := 0
		if off < 0 {
			gi = 1
		}
		g := &side[gi]
		g.offsetSum += off * e.Length
		g.weight += e.Length
		for _, p := range []geom.Vec2{e.PA, e.PB} {
			t := dir.Dot(p.Sub(centroid))
			if !g.any || t < g.tMin {
				g.tMin = t
			}
			if !g.any || t > g.tMax {
				g.tMax = t
			}
			g.any = true
		}
	}
	if !side[0].any || !side[1].any {
		return Centerline{}, false
	}

	mid := (side[0].offsetSum/side[0].weight + side[1].offsetSum/side[1].weight) / 2
	tMin := math.Min(side[0].tMin, side[1].tMin)
	tMax := math.Max(side[0].tMax, side[1].tMax)

	base := centroid.Add(perp.Scale(mid))
	return Centerline{
		A:      base.Add(dir.Scale(tMin)),
		B:      base.Add(dir.Scale(tMax)),
		FaceID: faceID,
	}, true
}
