package aurora_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/soypat/aurora"
)

func TestDefaultConfigValid(t *testing.T) {
	err := aurora.DefaultConfig().Validate()
	if err != nil {
		t.Fatal(err)
	}
}

func TestConfigValidate(t *testing.T) {
	var tests = []struct {
		mod    func(*aurora.Config)
		errsub string
	}{
		{mod: func(c *aurora.Config) { c.Iterations = 0 }, errsub: "iterations"},
		{mod: func(c *aurora.Config) { c.Iterations = 151 }, errsub: "iterations"},
		{mod: func(c *aurora.Config) { c.Depth = -0.1 }, errsub: "depth"},
		{mod: func(c *aurora.Config) { c.Depth = 1 }, errsub: "inner sphere"},
		{mod: func(c *aurora.Config) { c.Smoothing = 2 }, errsub: "smoothing"},
		{mod: func(c *aurora.Config) { c.Displacement = 0.31 }, errsub: "displacement"},
		{mod: func(c *aurora.Config) { c.Mode = aurora.ShellTangent }, errsub: "tangent"},
		{mod: func(c *aurora.Config) { c.Mode = 0 }, errsub: "shell mode"},
		{mod: func(c *aurora.Config) { c.Speed = -1 }, errsub: "speed"},
	}
	for _, test := range tests {
		cfg := aurora.DefaultConfig()
		test.mod(&cfg)
		err := cfg.Validate()
		if err == nil {
			t.Errorf("expected error containing %q", test.errsub)
		} else if !strings.Contains(err.Error(), test.errsub) {
			t.Errorf("expected error containing %q, got %q", test.errsub, err)
		}
	}
	// All violations are reported together.
	cfg := aurora.DefaultConfig()
	cfg.Iterations = 1000
	cfg.Depth = 3
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "iterations") || !strings.Contains(err.Error(), "depth") {
		t.Errorf("expected joined errors, got %v", err)
	}
}

func TestConfigJSON(t *testing.T) {
	cfg := aurora.DefaultConfig()
	cfg.ColorA = aurora.RGB{R: 1, G: 0, B: 0.5019608}
	cfg.Mode = aurora.ShellFixedStepFalloff
	b, err := json.Marshal(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), `"colorA":"#ff0080"`) || !strings.Contains(string(b), `"mode":"falloff"`) {
		t.Errorf("unexpected encoding %s", b)
	}
	var got aurora.Config
	err = json.Unmarshal(b, &got)
	if err != nil {
		t.Fatal(err)
	}
	if got.Mode != cfg.Mode || got.ColorA.Hex() != "#ff0080" || got.Iterations != cfg.Iterations {
		t.Errorf("config mismatch after decoding: %+v", got)
	}
}

func TestConfigPatch(t *testing.T) {
	cfg := aurora.DefaultConfig()
	next, err := cfg.Patch([]byte(`{"iterations": 120, "colorB": "#f80"}`))
	if err != nil {
		t.Fatal(err)
	}
	if next.Iterations != 120 || next.Depth != cfg.Depth {
		t.Errorf("patch should only touch named fields: %+v", next)
	}
	if next.ColorB.Hex() != "#ff8800" {
		t.Errorf("short hex colour parsed wrong: %s", next.ColorB.Hex())
	}
	_, err = cfg.Patch([]byte(`{"mode": "spiral"}`))
	if err == nil {
		t.Error("expected unknown mode error")
	}
	_, err = cfg.Patch([]byte(`{"colorA": "#12345"}`))
	if err == nil {
		t.Error("expected bad colour error")
	}
}

func TestShellModeString(t *testing.T) {
	for _, m := range []aurora.ShellMode{aurora.ShellTangent, aurora.ShellSingleSegment, aurora.ShellHollowSplit, aurora.ShellFixedStepFalloff} {
		var got aurora.ShellMode
		err := got.UnmarshalText([]byte(m.String()))
		if err != nil || got != m {
			t.Errorf("mode %v did not round trip: %v %v", m, got, err)
		}
	}
	if s := aurora.ShellMode(99).String(); s != "ShellMode(99)" {
		t.Errorf("unexpected invalid mode string %q", s)
	}
}
