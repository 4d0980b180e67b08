// Package flatmesh defines the read-only data the external flat-pattern
// engine hands to this tool: flattened triangle meshes with per-triangle
// face ids, per-step unfold debug output, and neutral-factor offset info.
package flatmesh

import (
	"fmt"
	"math"

	"github.com/chazu/flatlay/pkg/geom"
)

// FaceTypeCylindrical marks a bend face in FaceMeta.Type.
const FaceTypeCylindrical = "cylindrical"

// FaceMeta classifies one face of the flattened body.
type FaceMeta struct {
	Type   string  `json:"type"`
	Radius float64 `json:"radius,omitempty"`
}

// IsBend reports whether the face is a cylindrical bend face with a
// finite positive radius. Everything else counts as planar.
func (m FaceMeta) IsBend() bool {
	return m.Type == FaceTypeCylindrical && m.Radius > 0 && !math.IsInf(m.Radius, 1)
}

// DiagnosticRay is a ray cast the engine performed while validating its
// own offset computation. We only display and tally these.
type DiagnosticRay struct {
	Origin             geom.Vec3  `json:"origin"`
	Direction          geom.Vec3  `json:"direction"`
	Length             float64    `json:"length"`
	HitsOriginal       bool       `json:"hitsOriginal"`
	HitsOffsetPositive bool       `json:"hitsOffsetPositive"`
	OriginalHitPoint   *geom.Vec3 `json:"originalHitPoint,omitempty"`
	OffsetHitPoint     *geom.Vec3 `json:"offsetHitPoint,omitempty"`
}

// Mesh is one flattened patch: vertex positions in the flat plane
// (z constant), triangles as flat index triplets, and a face id per
// triangle linking back to the source body's faces.
type Mesh struct {
	Positions       []float64        `json:"positions"` // [x0,y0,z0, x1,y1,z1, ...]
	Triangles       []int            `json:"triangles"` // [i0,i1,i2, ...] triplets
	TriangleFaceIDs []int            `json:"triangleFaceIds"`
	FaceMetaByID    map[int]FaceMeta `json:"faceMetaById,omitempty"`
	DiagnosticRays  []DiagnosticRay  `json:"diagnosticRays,omitempty"`
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int { return len(m.Positions) / 3 }

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int { return len(m.Triangles) / 3 }

// Vertex returns vertex i as a point. No bounds check; callers must
// validate the mesh first.
func (m *Mesh) Vertex(i int) geom.Vec3 {
	return geom.Vec3{
		X: m.Positions[i*3],
		Y: m.Positions[i*3+1],
		Z: m.Positions[i*3+2],
	}
}

// Meta returns the metadata for a face id, reporting whether it exists.
func (m *Mesh) Meta(faceID int) (FaceMeta, bool) {
	meta, ok := m.FaceMetaByID[faceID]
	return meta, ok
}

// Validate checks the internal consistency of the arrays.
func (m *Mesh) Validate() error {
	if len(m.Positions)%3 != 0 {
		return fmt.Errorf("positions length %d is not a multiple of 3", len(m.Positions))
	}
	if len(m.Triangles)%3 != 0 {
		return fmt.Errorf("triangles length %d is not a multiple of 3", len(m.Triangles))
	}
	if len(m.TriangleFaceIDs) != m.TriangleCount() {
		return fmt.Errorf("have %d triangle face ids for %d triangles",
			len(m.TriangleFaceIDs), m.TriangleCount())
	}
	n := m.VertexCount()
	for _, idx := range m.Triangles {
		if idx < 0 || idx >= n {
			return fmt.Errorf("triangle index %d out of range [0,%d)", idx, n)
		}
	}
	return nil
}

// RaySummary tallies the engine's diagnostic ray casts.
type RaySummary struct {
	Total          int `json:"total"`
	HitOriginal    int `json:"hitOriginal"`
	HitOffset      int `json:"hitOffset"`
	MissedOriginal int `json:"missedOriginal"`
}

// SummarizeRays counts hit/miss outcomes across the mesh's rays.
func (m *Mesh) SummarizeRays() RaySummary {
	s := RaySummary{Total: len(m.DiagnosticRays)}
	for _, r := range m.DiagnosticRays {
		if r.HitsOriginal {
			s.HitOriginal++
		} else {
			s.MissedOriginal++
		}
		if r.HitsOffsetPositive {
			s.HitOffset++
		}
	}
	return s
}

// OffsetInfo carries the neutral-factor numbers the engine used. The
// values are display-only here; the offset math lives in the engine.
type OffsetInfo struct {
	NeutralFactor  float64 `json:"neutralFactor"`
	Thickness      float64 `json:"thickness"`
	OffsetDistance float64 `json:"offsetDistance"`
	AFaceCount     int     `json:"aFaceCount"`
}

func (o OffsetInfo) String() string {
	return fmt.Sprintf("k=%.3f t=%.3f offset=%.4f (%d A-faces)",
		o.NeutralFactor, o.Thickness, o.OffsetDistance, o.AFaceCount)
}
