package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/ballsim/internal/sim"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Substeps != sim.DefaultSubsteps {
		t.Errorf("expected %d substeps, got %d", sim.DefaultSubsteps, cfg.Substeps)
	}
	if cfg.Run.Dt <= 0 || cfg.Run.Duration <= 0 {
		t.Error("run dt and duration should be positive")
	}
	sc, err := cfg.ToSim()
	if err != nil {
		t.Fatalf("ToSim: %v", err)
	}
	if err := sc.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestPresetsValid(t *testing.T) {
	for _, name := range ListPresets() {
		t.Run(name, func(t *testing.T) {
			cfg := GetPreset(name)
			if cfg == nil {
				t.Fatal("expected preset, got nil")
			}
			sc, err := cfg.ToSim()
			if err != nil {
				t.Fatalf("ToSim: %v", err)
			}
			if _, err := sim.New(sc); err != nil {
				t.Errorf("preset does not build: %v", err)
			}
		})
	}
}

func TestGetPresetNotFound(t *testing.T) {
	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestGetPresetIsCopy(t *testing.T) {
	a := GetPreset("classic")
	a.Arena.Layers[0].Sides = 3
	a.Balls.Materials[0] = "glass"
	b := GetPreset("classic")
	if b.Arena.Layers[0].Sides == 3 || b.Balls.Materials[0] == "glass" {
		t.Error("preset mutated through a copy")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sim.yaml")
	cfg := GetPreset("hexagon")
	cfg.Seed = 77
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Seed != 77 || len(loaded.Arena.Layers) != 2 {
		t.Errorf("loaded %+v", loaded)
	}
	if loaded.Arena.Layers[1].Facing != "outward" {
		t.Errorf("facing = %q", loaded.Arena.Layers[1].Facing)
	}
}

func TestUnknownMaterial(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Balls.Materials = []string{"rubber", "unobtainium"}
	if _, err := cfg.ToSim(); !errors.Is(err, ErrUnknownMaterial) {
		t.Errorf("expected ErrUnknownMaterial, got %v", err)
	}
}

func TestCustomMaterial(t *testing.T) {
	cfg := DefaultConfig()
	putty, err := cfg.material("rubber")
	if err != nil {
		t.Fatal(err)
	}
	putty.Name = "putty"
	putty.Restitution = 0.1
	cfg.CustomMaterials = append(cfg.CustomMaterials, putty)
	cfg.Balls.Materials = []string{"putty"}
	sc, err := cfg.ToSim()
	if err != nil {
		t.Fatal(err)
	}
	if sc.Materials[0].Restitution != 0.1 {
		t.Errorf("custom material not used: %+v", sc.Materials[0])
	}
}

func TestPresetUnknown(t *testing.T) {
	if _, err := Preset("nope"); !errors.Is(err, ErrUnknownPreset) {
		t.Errorf("expected ErrUnknownPreset, got %v", err)
	}
}

func TestSetParam(t *testing.T) {
	cfg := DefaultConfig()
	for _, name := range ParamNames() {
		if err := cfg.Clone().SetParam(name, 2); err != nil {
			t.Errorf("SetParam(%s): %v", name, err)
		}
	}
	if err := cfg.SetParam("warp_factor", 9); !errors.Is(err, sim.ErrUnknownParam) {
		t.Errorf("expected ErrUnknownParam, got %v", err)
	}

	if err := cfg.SetParam("rotation_speed", 1.5); err != nil {
		t.Fatal(err)
	}
	for i, l := range cfg.Arena.Layers {
		if l.Speed != 1.5 && l.Speed != -1.5 {
			t.Errorf("layer %d speed %f", i, l.Speed)
		}
	}
	if err := cfg.SetParam("substeps", 12); err != nil || cfg.Substeps != 12 {
		t.Errorf("substeps = %d, err %v", cfg.Substeps, err)
	}
	if got := cfg.GetParams()["substeps"]; got != 12 {
		t.Errorf("GetParams substeps = %f", got)
	}
}

func TestLoadRejectsNaN(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nan.yaml")
	if err := os.WriteFile(path, []byte("thermal:\n  cooling_rate: .nan\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	sc, err := cfg.ToSim()
	if err != nil {
		t.Fatalf("ToSim: %v", err)
	}
	if _, err := sim.New(sc); !errors.Is(err, sim.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig for nan cooling rate, got %v", err)
	}
}
