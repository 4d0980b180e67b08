// Package viz turns one unfold-engine debug step plus the flattened
// meshes into renderable primitives: per-face colored triangle meshes,
// classified edge lines (solid outer boundary, dashed inner seams),
// bend-face centerlines, and step-diffed curves.
package viz

import (
	"sort"

	"github.com/chazu/flatlay/pkg/flatmesh"
	"github.com/chazu/flatlay/pkg/geom"
)

// seamDashDivisor sets dash density: the shortest merged seam edge is
// drawn with this many dashes, and longer edges scale proportionally.
const seamDashDivisor = 4

// addedWeightFactor boosts the stroke weight of newly added curves.
const addedWeightFactor = 2

// ColoredMesh is the triangle soup of one face, ready to render.
type ColoredMesh struct {
	Positions []float32 `json:"positions"` // [x0,y0,z0, ...]
	Indices   []uint32  `json:"indices"`
	Color     string    `json:"color"`
	FaceID    int       `json:"faceId"`
	Bend      bool      `json:"bend"`
}

// EdgeKind classifies a rendered edge segment.
type EdgeKind string

const (
	// EdgeOuter edges belong to exactly one triangle.
	EdgeOuter EdgeKind = "outer"
	// EdgeSeam edges are shared between two or more distinct faces.
	EdgeSeam EdgeKind = "seam"
)

// Segment is one classified edge line in the flat plane.
type Segment struct {
	A, B      geom.Vec2 `json:"a"`
	Kind      EdgeKind  `json:"kind"`
	Dashed    bool      `json:"dashed"`
	DashCount int       `json:"dashCount,omitempty"`
}

// Centerline approximates the fold line of one bend face.
type Centerline struct {
	A, B   geom.Vec2 `json:"a"`
	FaceID int       `json:"faceId"`
}

// Curve is one step path with diff-aware stroke weight.
type Curve struct {
	Points []geom.Vec2 `json:"points"`
	Closed bool        `json:"closed"`
	Color  string      `json:"color,omitempty"`
	Weight float64     `json:"weight"`
	Label  string      `json:"label,omitempty"`
	Added  bool        `json:"added"`
}

// Visualization is everything a panel renders for one debug step. It
// is built fresh per step and replaced wholesale, never mutated.
type Visualization struct {
	ColoredMeshes []ColoredMesh `json:"coloredMeshes"`
	EdgeLines     []Segment     `json:"edgeLines"`
	Centerlines   []Centerline  `json:"centerlines"`
	Curves        []Curve       `json:"curves"`
	Empty         bool          `json:"empty"`
	Message       string        `json:"message,omitempty"`
}

// BuildStep assembles the visualization for a step. prev may be nil
// (first step); entries may be empty, in which case only the step's
// own curves are rendered. A step with no geometry at all yields an
// explicit empty-state visualization instead of a blank result.
func BuildStep(step *flatmesh.Step, prev *flatmesh.Step, entries map[string]*flatmesh.Mesh) *Visualization {
	v := &Visualization{}

	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		mesh := entries[name]
		if mesh == nil || mesh.TriangleCount() == 0 {
			continue
		}
		v.ColoredMeshes = append(v.ColoredMeshes, colorFaces(mesh)...)
		lines, centers := classifyEdges(mesh)
		v.EdgeLines = append(v.EdgeLines, lines...)
		v.Centerlines = append(v.Centerlines, centers...)
	}

	if step != nil {
		var prevLabels map[string]bool
		if prev != nil {
			prevLabels = prev.EdgeLabels()
		}
		for _, p := range step.Paths {
			weight := p.StrokeWidth
			if weight <= 0 {
				weight = 1
			}
			added := p.EdgeLabel != "" && !prevLabels[p.EdgeLabel]
			if added {
				weight *= addedWeightFactor
			}
			v.Curves = append(v.Curves, Curve{
				Points: p.Points,
				Closed: p.Closed,
				Color:  p.Color,
				Weight: weight,
				Label:  p.EdgeLabel,
				Added:  added,
			})
		}
	}

	if len(v.ColoredMeshes) == 0 && len(v.Curves) == 0 {
		v.Empty = true
		v.Message = "no geometry for this step"
	}
	return v
}

// colorFaces groups the mesh's triangles by face id and assigns each
// group its class color, or a hash-derived one when the face has no
// metadata entry.
func colorFaces(mesh *flatmesh.Mesh) []ColoredMesh {
	byFace := make(map[int][]int) // faceID -> triangle indices
	for t := 0; t < mesh.TriangleCount(); t++ {
		fid := mesh.TriangleFaceIDs[t]
		byFace[fid] = append(byFace[fid], t)
	}

	ids := make([]int, 0, len(byFace))
	for fid := range byFace {
		ids = append(ids, fid)
	}
	sort.Ints(ids)

	var out []ColoredMesh
	for _, fid := range ids {
		meta, known := mesh.Meta(fid)
		bend := known && meta.IsBend()
		color := hashColor(fid)
		if known {
			if bend {
				color = bendColor
			} else {
				color = planarColor
			}
		}

		cm := ColoredMesh{Color: color, FaceID: fid, Bend: bend}
		for _, t := range byFace[fid] {
			for j := 0; j < 3; j++ {
				p := mesh.Vertex(mesh.Triangles[t*3+j])
				cm.Indices = append(cm.Indices, uint32(len(cm.Positions)/3))
				cm.Positions = append(cm.Positions, float32(p.X), float32(p.Y), float32(p.Z))
			}
		}
		out = append(out, cm)
	}
	return out
}
