package flatmesh

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/chazu/flatlay/pkg/geom"
)

// Path is one curve drawn by an unfold debug step.
type Path struct {
	Points      []geom.Vec2 `json:"points"`
	Closed      bool        `json:"closed"`
	EdgeLabel   string      `json:"edgeLabel,omitempty"`
	FaceID      int         `json:"faceId"`
	FaceName    string      `json:"faceName,omitempty"`
	Color       string      `json:"color,omitempty"`
	StrokeWidth float64     `json:"strokeWidth,omitempty"`
}

// Step is one entry of the engine's ordered unfold debug trace.
type Step struct {
	Label       string          `json:"label"`
	Paths       []Path          `json:"paths"`
	Basis       *geom.FaceBasis `json:"basis,omitempty"`
	BaseBasis   *geom.FaceBasis `json:"baseBasis,omitempty"`
	AddedFaceID *int            `json:"addedFaceId,omitempty"`
	FaceID      *int            `json:"faceId,omitempty"`
	BaseFaceID  *int            `json:"baseFaceId,omitempty"`
}

// EdgeLabels returns the set of non-empty edge labels drawn by the step.
func (s *Step) EdgeLabels() map[string]bool {
	labels := make(map[string]bool)
	for _, p := range s.Paths {
		if p.EdgeLabel != "" {
			labels[p.EdgeLabel] = true
		}
	}
	return labels
}

// RefFace is the 3D face the flattened patch originated from: its world
// triangle soup and its local frame. The app converts this to a
// boundary extraction input when solving placements.
type RefFace struct {
	Positions []float64      `json:"positions"` // world-space triplets
	Indices   []int          `json:"indices,omitempty"`
	Basis     geom.FaceBasis `json:"basis"`
	FaceID    int            `json:"faceId"`
}

// Session bundles a full engine dump: flattened meshes keyed by entry
// name, reference 3D faces keyed the same way, the ordered debug steps,
// and the neutral-factor numbers.
type Session struct {
	Entries  map[string]*Mesh    `json:"entries"`
	RefFaces map[string]*RefFace `json:"refFaces,omitempty"`
	Steps    []Step              `json:"steps"`
	Offset   *OffsetInfo         `json:"offsetInfo,omitempty"`
}

// LoadSession reads and validates a session dump from a JSON file.
func LoadSession(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("flatmesh: read session: %w", err)
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("flatmesh: parse session: %w", err)
	}
	for name, mesh := range s.Entries {
		if mesh == nil {
			return nil, fmt.Errorf("flatmesh: entry %q is null", name)
		}
		if err := mesh.Validate(); err != nil {
			return nil, fmt.Errorf("flatmesh: entry %q: %w", name, err)
		}
	}
	return &s, nil
}
