package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/chazu/flatlay/pkg/config"
)

func TestDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	def := config.Defaults()
	if cfg.Solver != def.Solver {
		t.Errorf("solver weights = %+v, want defaults %+v", cfg.Solver, def.Solver)
	}
	if cfg.AutoPlayMs != def.AutoPlayMs {
		t.Errorf("autoplay = %d, want %d", cfg.AutoPlayMs, def.AutoPlayMs)
	}
}

func TestLoadOverridesWeights(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flatlay.yaml")
	data := []byte("solver:\n  signature: 2.5\n  length_penalty: 0.001\n  length_tolerance: 0.05\nautoplay_ms: 200\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Solver.Signature != 2.5 {
		t.Errorf("signature = %v, want 2.5", cfg.Solver.Signature)
	}
	if cfg.Solver.LengthPenalty != 0.001 {
		t.Errorf("length_penalty = %v, want 0.001", cfg.Solver.LengthPenalty)
	}
	if cfg.Solver.LengthTolerance != 0.05 {
		t.Errorf("length_tolerance = %v, want 0.05", cfg.Solver.LengthTolerance)
	}
	if cfg.AutoPlayMs != 200 {
		t.Errorf("autoplay = %d, want 200", cfg.AutoPlayMs)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flatlay.yaml")
	if err := os.WriteFile(path, []byte("autoplay_ms: -5\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := config.Load(path); err == nil {
		t.Error("negative autoplay cadence should be rejected")
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv(config.EnvAutoPlayMs, "123")
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.AutoPlayMs != 123 {
		t.Errorf("autoplay = %d, want env override 123", cfg.AutoPlayMs)
	}
}
