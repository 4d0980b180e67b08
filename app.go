package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chazu/flatlay/internal/log"
	"github.com/chazu/flatlay/pkg/align"
	"github.com/chazu/flatlay/pkg/boundary"
	"github.com/chazu/flatlay/pkg/config"
	"github.com/chazu/flatlay/pkg/flatmesh"
	"github.com/chazu/flatlay/pkg/outline"
	"github.com/chazu/flatlay/pkg/sheet"
	"github.com/chazu/flatlay/pkg/viz"
)

// PanelState is the debug panel's lifecycle state.
type PanelState string

const (
	StateIdle         PanelState = "idle"
	StateFaceSelected PanelState = "faceSelected"
	StateStepIndexed  PanelState = "stepIndexed"
)

// VisualizationState is the panel's current renderable output. It is
// rebuilt and swapped wholesale on every step change; the previous
// value is simply dropped, so tear-down is a single assignment.
type VisualizationState struct {
	Entry     string             `json:"entry"`
	StepIndex int                `json:"stepIndex"`
	Viz       *viz.Visualization `json:"viz"`
	Placement *align.Placement   `json:"placement,omitempty"`
}

// SelectResult is returned to the frontend when a solid is selected.
type SelectResult struct {
	Found     bool             `json:"found"`
	Placement *align.Placement `json:"placement,omitempty"`
	Offset    string           `json:"offset,omitempty"`
}

// App is the Wails backend. It exposes methods to the frontend via
// bindings. All state mutation happens under mu; a generation counter
// implements cancel-and-restart, so a superseded pass is discarded
// instead of queued behind the new one.
type App struct {
	ctx context.Context
	cfg config.Config

	mu         sync.Mutex
	session    *flatmesh.Session
	state      PanelState
	entry      string
	placement  *align.Placement
	stepIndex  int
	vis        *VisualizationState
	generation uint64
	autoStop   chan struct{}
}

// NewApp creates a new App with the given configuration.
func NewApp(cfg config.Config) *App {
	return &App{cfg: cfg, state: StateIdle}
}

// startup is called by Wails on app startup. The context is saved so
// we can call Wails runtime methods later if needed.
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
}

// LoadSession reads an engine session dump and resets the panel.
func (a *App) LoadSession(path string) error {
	s, err := flatmesh.LoadSession(path)
	if err != nil {
		log.L().Error("load session failed", "path", path, "err", err)
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.stopAutoPlayLocked()
	a.generation++
	a.session = s
	a.state = StateIdle
	a.entry = ""
	a.placement = nil
	a.stepIndex = 0
	a.vis = nil
	log.L().Info("session loaded", "path", path,
		"entries", len(s.Entries), "steps", len(s.Steps))
	return nil
}

// SelectEntry runs the alignment solve for one entry and moves the
// panel to FaceSelected. A failed solve is not an error: the result
// reports Found=false and the frontend keeps or hides its overlay.
func (a *App) SelectEntry(name string) SelectResult {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stopAutoPlayLocked()
	a.generation++

	if a.session == nil {
		return SelectResult{}
	}
	mesh := a.session.Entries[name]
	ref := a.session.RefFaces[name]
	if mesh == nil || ref == nil {
		log.L().Warn("unknown entry selected", "entry", name)
		return SelectResult{}
	}

	placement := solveEntry(mesh, ref, a.cfg.Solver)
	a.state = StateFaceSelected
	a.entry = name
	a.placement = placement
	a.vis = nil

	res := SelectResult{Found: placement != nil, Placement: placement}
	if a.session.Offset != nil {
		res.Offset = a.session.Offset.String()
	}
	return res
}

// solveEntry extracts both boundaries, merges them, and solves the
// flat-to-world placement. Returns nil when alignment is unavailable.
func solveEntry(mesh *flatmesh.Mesh, ref *flatmesh.RefFace, w align.Weights) *align.Placement {
	face := &boundary.Face3D{Positions: ref.Positions, Indices: ref.Indices}
	refRaw, _ := boundary.ExtractFace3D(face)
	refMerged := outline.MergeColinear(outline.FromBoundary(refRaw, ref.Basis.Project))

	flatRaw, _ := boundary.ExtractFlat(mesh, ref.FaceID)
	flatMerged := outline.MergeColinear(outline.FromBoundary(flatRaw, outline.ProjectXY))

	return align.Solve(refMerged, ref.Basis, flatMerged,
		outline.CentroidPtr(refMerged), outline.CentroidPtr(flatMerged), w)
}

// SetStep builds the visualization for step i and replaces the panel
// output wholesale. Out-of-range indices yield an explicit empty state.
func (a *App) SetStep(i int) *VisualizationState {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stopAutoPlayLocked()
	a.generation++
	return a.setStepLocked(i)
}

func (a *App) setStepLocked(i int) *VisualizationState {
	if a.session == nil {
		return nil
	}

	var step, prev *flatmesh.Step
	if i >= 0 && i < len(a.session.Steps) {
		step = &a.session.Steps[i]
		if i > 0 {
			prev = &a.session.Steps[i-1]
		}
	}

	a.state = StateStepIndexed
	a.stepIndex = i
	a.vis = &VisualizationState{
		Entry:     a.entry,
		StepIndex: i,
		Viz:       viz.BuildStep(step, prev, a.session.Entries),
		Placement: a.placement,
	}
	return a.vis
}

// StepCount returns the number of debug steps in the session.
func (a *App) StepCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.session == nil {
		return 0
	}
	return len(a.session.Steps)
}

// CurrentStep returns the last step index set via SetStep or auto-play.
func (a *App) CurrentStep() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stepIndex
}

// State reports the panel's current lifecycle state.
func (a *App) State() PanelState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// StartAutoPlay advances through the remaining steps on the configured
// cadence. Starting while already playing is a no-op; any manual
// interaction stops playback via the generation counter.
func (a *App) StartAutoPlay() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.autoStop != nil || a.session == nil {
		return
	}

	stop := make(chan struct{})
	a.autoStop = stop
	gen := a.generation
	interval := time.Duration(a.cfg.AutoPlayMs) * time.Millisecond

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				a.mu.Lock()
				if a.generation != gen || a.session == nil {
					// Superseded by a manual interaction.
					a.mu.Unlock()
					return
				}
				next := a.stepIndex + 1
				if next >= len(a.session.Steps) {
					a.stopAutoPlayLocked()
					a.mu.Unlock()
					return
				}
				a.setStepLocked(next)
				a.mu.Unlock()
			}
		}
	}()
}

// StopAutoPlay halts auto-play. Safe to call when not playing.
func (a *App) StopAutoPlay() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stopAutoPlayLocked()
}

func (a *App) stopAutoPlayLocked() {
	if a.autoStop != nil {
		close(a.autoStop)
		a.autoStop = nil
	}
}

// RaySummary tallies the engine's diagnostic ray casts for one entry.
func (a *App) RaySummary(name string) flatmesh.RaySummary {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.session == nil || a.session.Entries[name] == nil {
		return flatmesh.RaySummary{}
	}
	return a.session.Entries[name].SummarizeRays()
}

// PreviewSlab builds a 3D slab preview of one entry's flat outline for
// the given face id, extruded to the session's sheet thickness.
func (a *App) PreviewSlab(name string, faceID int) (*sheet.Mesh, error) {
	a.mu.Lock()
	var mesh *flatmesh.Mesh
	thickness := 1.0
	if a.session != nil {
		mesh = a.session.Entries[name]
		if a.session.Offset != nil && a.session.Offset.Thickness > 0 {
			thickness = a.session.Offset.Thickness
		}
	}
	a.mu.Unlock()

	if mesh == nil {
		return nil, fmt.Errorf("no entry %q in session", name)
	}
	raw, _ := boundary.ExtractFlat(mesh, faceID)
	merged := outline.MergeColinear(outline.FromBoundary(raw, outline.ProjectXY))
	loop, ok := sheet.OutlineLoop(merged)
	if !ok {
		return nil, fmt.Errorf("face %d outline of %q is not a closed loop", faceID, name)
	}
	return sheet.PreviewSlab(loop, thickness)
}
