package main

import (
	"math"
	"testing"

	"github.com/pthm-cable/warren/config"
)

func TestDefaultsMatchConfig(t *testing.T) {
	pv := NewParamVector()
	got := pv.ExtractFromConfig(config.Default())
	want := pv.DefaultVector()

	if len(got) != pv.Dim() {
		t.Fatalf("extracted %d values, want %d", len(got), pv.Dim())
	}
	for i, spec := range pv.Specs {
		if got[i] != want[i] {
			t.Errorf("%s: config %v, spec default %v", spec.Name, got[i], want[i])
		}
	}
}

func TestNormalizeRoundtrip(t *testing.T) {
	pv := NewParamVector()
	raw := pv.DefaultVector()
	back := pv.Denormalize(pv.Normalize(raw))
	for i := range raw {
		if math.Abs(back[i]-raw[i]) > 1e-9 {
			t.Errorf("%s: %v -> %v", pv.Specs[i].Name, raw[i], back[i])
		}
	}
}

func TestClampRoundsIntoBounds(t *testing.T) {
	pv := NewParamVector()
	v := make([]float64, pv.Dim())
	for i, spec := range pv.Specs {
		switch i % 3 {
		case 0:
			v[i] = spec.Min - 10
		case 1:
			v[i] = spec.Max + 10
		default:
			v[i] = spec.Min + 0.6
		}
	}

	for i, c := range pv.Clamp(v) {
		spec := pv.Specs[i]
		if c < spec.Min || c > spec.Max || c != math.Round(c) {
			t.Errorf("%s: clamped to %v", spec.Name, c)
		}
	}
}

func TestApplyToConfig(t *testing.T) {
	pv := NewParamVector()
	values := make([]float64, pv.Dim())
	for i, spec := range pv.Specs {
		values[i] = spec.Max
	}

	cfg := config.Default()
	pv.ApplyToConfig(cfg, values)

	extracted := pv.ExtractFromConfig(cfg)
	for i, spec := range pv.Specs {
		if extracted[i] != spec.Max {
			t.Errorf("%s: extracted %v, want %v", spec.Name, extracted[i], spec.Max)
		}
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("applied config invalid: %v", err)
	}
	if cfg.Fox.Nutrition != 0 || cfg.Rabbit.Metabolism != 1 {
		t.Error("locked parameters changed")
	}
}
