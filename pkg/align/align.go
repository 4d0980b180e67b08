// Package align solves the rigid placement that overlays a flattened
// 2D patch onto its originating 3D face. It anchors on the face's
// longest boundary edge, enumerates every length-compatible flattened
// edge in both endpoint orderings as a candidate mapping, scores each
// candidate, and returns the minimum-score transform.
package align

import (
	"math"
	"sort"

	"github.com/chazu/flatlay/pkg/geom"
	"github.com/chazu/flatlay/pkg/outline"
)

// Weights are the solver's scoring knobs. The defaults reproduce the
// empirically tuned behavior; they are configuration, not physics.
type Weights struct {
	// Signature scales the endpoint-signature distance term.
	Signature float64 `yaml:"signature" json:"signature"`
	// LengthPenalty scales the squared anchor/candidate length
	// mismatch, breaking near-ties toward closer-length edges.
	LengthPenalty float64 `yaml:"length_penalty" json:"lengthPenalty"`
	// LengthTolerance is the relative length window for candidate
	// selection. When no edge qualifies, all edges are considered.
	LengthTolerance float64 `yaml:"length_tolerance" json:"lengthTolerance"`
}

// DefaultWeights returns the tuned defaults.
func DefaultWeights() Weights {
	return Weights{
		Signature:       1,
		LengthPenalty:   1e-6,
		LengthTolerance: 0.01,
	}
}

// Placement is the solved rigid transform carrying the flattened
// patch's local 2D frame into world space.
type Placement struct {
	Position geom.Vec3 `json:"position"`
	Rotation geom.Quat `json:"rotation"`

	// Angle and Offset are the planar solution the world transform was
	// composed from, kept for diagnostics.
	Angle  float64   `json:"angle"`
	Offset geom.Vec2 `json:"offset"`
	Score  float64   `json:"score"`
}

// candidate is one enumerated mapping of a flattened edge onto the
// anchor, with its solved planar transform and score.
type candidate struct {
	edge    int
	flipped bool
	angle   float64
	offset  geom.Vec2
	score   float64
}

// Solve returns the best rigid placement mapping flatEdges onto
// refEdges in the given face basis, or nil when no placement exists:
// empty edge sets, a degenerate basis, or a zero-length anchor all
// yield nil rather than an error. Centroids are optional; when both
// are present they add a disambiguating residual term.
func Solve(refEdges []outline.Edge, basis geom.FaceBasis, flatEdges []outline.Edge,
	refCentroid, flatCentroid *geom.Vec2, w Weights) *Placement {

	if len(refEdges) == 0 || len(flatEdges) == 0 || !basis.Valid() {
		return nil
	}

	// Longest reference edge is the anchor. Stable sort keeps input
	// order among equal lengths so tie-breaking is reproducible.
	order := make([]int, len(refEdges))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return refEdges[order[i]].Length > refEdges[order[j]].Length
	})
	anchorIdx := order[0]
	anchor := refEdges[anchorIdx]
	if anchor.Length <= 0 {
		return nil
	}

	// Length-compatible candidates, falling back to every edge when
	// the tolerance window is empty.
	var pool []int
	for i, e := range flatEdges {
		if math.Abs(e.Length-anchor.Length) <= w.LengthTolerance*anchor.Length {
			pool = append(pool, i)
		}
	}
	if len(pool) == 0 {
		pool = make([]int, len(flatEdges))
		for i := range pool {
			pool[i] = i
		}
	}

	refAdj := outline.NewAdjacency(refEdges)
	flatAdj := outline.NewAdjacency(flatEdges)
	sigA := outline.SignatureAt(refEdges, refAdj, anchorIdx, anchor.A)
	sigB := outline.SignatureAt(refEdges, refAdj, anchorIdx, anchor.B)

	candidates := enumerate(anchor, anchorIdx, refEdges, flatEdges, pool,
		refCentroid, flatCentroid, flatAdj, sigA, sigB, w)
	if len(candidates) == 0 {
		return nil
	}

	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.score < best.score {
			best = c
		}
	}

	rotation := basis.Rotation().Mul(geom.QuatFromAxisAngle(geom.Vec3{Z: 1}, best.angle))
	position := basis.Unproject(best.offset)
	return &Placement{
		Position: position,
		Rotation: rotation,
		Angle:    best.angle,
		Offset:   best.offset,
		Score:    best.score,
	}
}

// enumerate scores every pool edge in both endpoint orderings.
func enumerate(anchor outline.Edge, anchorIdx int, refEdges, flatEdges []outline.Edge,
	pool []int, refCentroid, flatCentroid *geom.Vec2, flatAdj outline.Adjacency,
	sigA, sigB *outline.Signature, w Weights) []candidate {

	anchorAngle := anchor.PB.Sub(anchor.PA).Angle()

	var out []candidate
	for _, fi := range pool {
		fe := flatEdges[fi]
		if fe.Length <= 0 {
			continue
		}
		for _, flipped := range []bool{false, true} {
			p, q := fe.PA, fe.PB
			kp, kq := fe.A, fe.B
			if flipped {
				p, q = q, p
				kp, kq = kq, kp
			}

			// Rotation from the difference of direction angles, then
			// the translation that averages both endpoint residuals
			// so small length mismatches are split evenly.
			angle := anchorAngle - q.Sub(p).Angle()
			rp := p.Rotate(angle)
			rq := q.Rotate(angle)
			offset := anchor.PA.Sub(rp).Add(anchor.PB.Sub(rq)).Scale(0.5)

			mp := rp.Add(offset)
			mq := rq.Add(offset)
			score := mp.Sub(anchor.PA).Dot(mp.Sub(anchor.PA)) +
				mq.Sub(anchor.PB).Dot(mq.Sub(anchor.PB))

			if refCentroid != nil && flatCentroid != nil {
				mc := flatCentroid.Rotate(angle).Add(offset)
				d := mc.Sub(*refCentroid)
				score += d.Dot(d)
			}

			fsigP := outline.SignatureAt(flatEdges, flatAdj, fi, kp)
			fsigQ := outline.SignatureAt(flatEdges, flatAdj, fi, kq)
			score += w.Signature * (outline.SignatureDistance(sigA, fsigP, anchor.Length) +
				outline.SignatureDistance(sigB, fsigQ, anchor.Length))

			dl := fe.Length - anchor.Length
			score += w.LengthPenalty * dl * dl

			out = append(out, candidate{
				edge:    fi,
				flipped: flipped,
				angle:   angle,
				offset:  offset,
				score:   score,
			})
		}
	}
	return out
}
