package main

import (
	"strings"
	"testing"

	"github.com/chazu/flatlay/pkg/config"
	"github.com/chazu/flatlay/pkg/geom"
)

func newTestApp() *App {
	return NewApp(config.Defaults())
}

// TestE2EPlateSession exercises the full pipeline against the example
// session dump: load → select entry (solve placement) → step through
// the debug trace. This is the same path the Wails bindings take, but
// without the Wails runtime.
func TestE2EPlateSession(t *testing.T) {
	app := newTestApp()

	if err := app.LoadSession("examples/plate_session.json"); err != nil {
		t.Fatalf("LoadSession failed: %v", err)
	}
	if got := app.State(); got != StateIdle {
		t.Errorf("state after load = %q, want %q", got, StateIdle)
	}
	if got := app.StepCount(); got != 2 {
		t.Fatalf("StepCount = %d, want 2", got)
	}

	res := app.SelectEntry("plate")
	if !res.Found {
		t.Fatal("expected a placement for the plate entry")
	}
	if res.Placement == nil {
		t.Fatal("Found without a placement")
	}
	if app.State() != StateFaceSelected {
		t.Errorf("state after select = %q, want %q", app.State(), StateFaceSelected)
	}
	if !strings.Contains(res.Offset, "k=0.440") {
		t.Errorf("offset summary %q should include the neutral factor", res.Offset)
	}

	// The fixture's reference face is the flat rectangle mapped through
	// its basis, so the solved transform must carry every flat corner
	// onto a world corner of the reference face.
	rigid := geom.Rigid{
		Rotation:    res.Placement.Rotation,
		Translation: res.Placement.Position,
	}
	flatCorners := []geom.Vec3{
		{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 5}, {X: 0, Y: 5},
	}
	worldCorners := []geom.Vec3{
		{X: 1, Y: 2, Z: 3}, {X: 1, Y: 12, Z: 3},
		{X: 1, Y: 12, Z: 8}, {X: 1, Y: 2, Z: 8},
	}
	for _, fc := range flatCorners {
		w := rigid.Apply(fc)
		best := 1e18
		for _, wc := range worldCorners {
			if d := w.Distance(wc); d < best {
				best = d
			}
		}
		if best > 1e-6 {
			t.Errorf("corner %+v maps to %+v, %.3g away from any reference corner", fc, w, best)
		}
	}

	vs := app.SetStep(0)
	if vs == nil || vs.Viz == nil {
		t.Fatal("SetStep(0) returned no visualization")
	}
	if vs.Viz.Empty {
		t.Error("step 0 should not be empty")
	}
	if len(vs.Viz.Curves) != 1 {
		t.Errorf("step 0 curves = %d, want 1", len(vs.Viz.Curves))
	}
	if app.State() != StateStepIndexed {
		t.Errorf("state after SetStep = %q, want %q", app.State(), StateStepIndexed)
	}

	vs = app.SetStep(1)
	if len(vs.Viz.Curves) != 2 {
		t.Errorf("step 1 curves = %d, want 2", len(vs.Viz.Curves))
	}
	if vs.StepIndex != 1 || app.CurrentStep() != 1 {
		t.Errorf("step index = %d/%d, want 1", vs.StepIndex, app.CurrentStep())
	}

	vs = app.SetStep(99)
	if vs == nil || vs.Viz == nil || !vs.Viz.Empty {
		t.Error("out-of-range step should yield the explicit empty state")
	}
}

func TestRaySummaryBinding(t *testing.T) {
	app := newTestApp()
	if err := app.LoadSession("examples/plate_session.json"); err != nil {
		t.Fatal(err)
	}
	s := app.RaySummary("plate")
	if s.Total != 2 || s.HitOriginal != 1 || s.MissedOriginal != 1 || s.HitOffset != 1 {
		t.Errorf("ray summary = %+v, want total 2, 1 hit, 1 miss, 1 offset hit", s)
	}
}

func TestPreviewSlabBinding(t *testing.T) {
	app := newTestApp()
	if err := app.LoadSession("examples/plate_session.json"); err != nil {
		t.Fatal(err)
	}
	mesh, err := app.PreviewSlab("plate", 7)
	if err != nil {
		t.Fatalf("PreviewSlab failed: %v", err)
	}
	if mesh.IsEmpty() {
		t.Error("preview slab should have geometry")
	}
}
