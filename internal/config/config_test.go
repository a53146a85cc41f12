package config

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Extract.TargetWidth != 300 || cfg.Extract.TargetHeight != 300 {
		t.Errorf("Expected 300x300 target, got %dx%d", cfg.Extract.TargetWidth, cfg.Extract.TargetHeight)
	}
	if !cfg.Extract.Invert {
		t.Error("Expected invert to default to true")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should be valid: %v", err)
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")
	cfg := Default()
	cfg.Extract.TargetWidth = 512
	cfg.Output.Format = "webp"
	cfg.Debug.Histogram = true

	if err := cfg.SaveToFile(path); err != nil {
		t.Fatalf("SaveToFile failed: %v", err)
	}
	loaded, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}
	if loaded.Extract.TargetWidth != 512 || loaded.Output.Format != "webp" || !loaded.Debug.Histogram {
		t.Errorf("Unexpected config after round trip: %+v", loaded)
	}
}

func TestLoadKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"extract": {"target_width": 128}}`), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}
	if cfg.Extract.TargetWidth != 128 {
		t.Errorf("Expected target width 128, got %d", cfg.Extract.TargetWidth)
	}
	if cfg.Extract.TargetHeight != 300 || cfg.Output.Quality != 90 {
		t.Errorf("Expected defaults for missing fields, got %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("Expected an error for a missing file")
	}
	path := filepath.Join(t.TempDir(), "bad.json")
	os.WriteFile(path, []byte("{"), 0644)
	if _, err := LoadFromFile(path); err == nil {
		t.Error("Expected an error for invalid JSON")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"zero width", func(c *Config) { c.Extract.TargetWidth = 0 }, "target_width"},
		{"bad background", func(c *Config) { c.Extract.Background = "#12345" }, "background"},
		{"bad format", func(c *Config) { c.Output.Format = "gif" }, "format"},
		{"bad quality", func(c *Config) { c.Output.Quality = 101 }, "quality"},
		{"negative preview", func(c *Config) { c.Debug.PreviewSize = -1 }, "preview_size"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg := Default()
			c.mutate(cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), c.field) {
				t.Errorf("Expected error mentioning %s, got %v", c.field, err)
			}
		})
	}
}

func TestParseColor(t *testing.T) {
	cases := []struct {
		in   string
		want color.NRGBA
	}{
		{"#ffffff", color.NRGBA{255, 255, 255, 255}},
		{"000000", color.NRGBA{0, 0, 0, 255}},
		{"#f80", color.NRGBA{255, 136, 0, 255}},
		{"", color.NRGBA{255, 255, 255, 255}},
	}
	for _, c := range cases {
		got, err := ParseColor(c.in)
		if err != nil {
			t.Errorf("ParseColor(%q) failed: %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParseColor(%q) = %v, want %v", c.in, got, c.want)
		}
	}

	for _, bad := range []string{"#12", "#gggggg", "#1234567"} {
		if _, err := ParseColor(bad); err == nil {
			t.Errorf("Expected an error for %q", bad)
		}
	}

	cfg := Default()
	cfg.Extract.Background = "nope"
	if cfg.BackgroundColor() != color.White {
		t.Error("Expected white for an invalid background")
	}
}

func TestOutputDirFor(t *testing.T) {
	in := filepath.Join("photos", "roll1", "scan.jpg")

	cfg := Default()
	if got := cfg.OutputDirFor(in); got != filepath.Join("photos", "roll1") {
		t.Errorf("Expected the input directory by default, got %q", got)
	}

	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"output": {"output_dir": "crops"}}`), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}
	if got := cfg.OutputDirFor(in); got != "crops" {
		t.Errorf("Expected the configured directory, got %q", got)
	}
}
