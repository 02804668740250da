package skyscatter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatal(err)
	}
	if *cfg != DefaultConfig() {
		t.Fatalf("got %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	path := writeConfig(t, `{
		"detail": 0,
		"outputDir": "out",
		"orders": 2,
		"png": true,
		"atmosphere": {"groundAlbedo": 0.3, "maxSunZenithDeg": 102}
	}`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Detail != 0 || cfg.OutputDir != "out" || cfg.Orders != 2 || !cfg.PNG {
		t.Fatalf("got %+v", cfg)
	}
	// untouched keys keep their defaults
	if cfg.Prefix != Prefix || cfg.Gamma != Gamma || cfg.Atmosphere.MieAnisotropy != 0.8 {
		t.Fatalf("defaults lost: %+v", cfg)
	}
	if cfg.Atmosphere.GroundAlbedo != 0.3 || cfg.Atmosphere.MaxSunZenithDeg != 102 {
		t.Fatalf("atmosphere block: %+v", cfg.Atmosphere)
	}
	if cfg.Resolution().Transmittance != [2]int{32, 8} {
		t.Fatalf("resolution %v", cfg.Resolution())
	}
	if !strings.Contains(cfg.String(), "detail=0") {
		t.Fatalf("string %q", cfg.String())
	}
}

func TestLoadConfigErrors(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("missing file accepted")
	}
	path := writeConfig(t, `{"detail": "high"}`)
	if _, err := LoadConfig(path); err == nil || !strings.Contains(err.Error(), path) {
		t.Fatalf("got %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name string
		edit func(c *Config)
		want string
	}{
		{"detail high", func(c *Config) { c.Detail = 6 }, "detail level 6"},
		{"detail low", func(c *Config) { c.Detail = -1 }, "detail level -1"},
		{"orders", func(c *Config) { c.Orders = 0 }, "orders"},
		{"workers", func(c *Config) { c.Workers = -2 }, "workers"},
		{"dir", func(c *Config) { c.OutputDir = "" }, "output directory"},
		{"prefix", func(c *Config) { c.Prefix = "" }, "prefix"},
		{"gamma", func(c *Config) { c.Gamma = 0 }, "gamma"},
		{"g", func(c *Config) { c.Atmosphere.MieAnisotropy = -1 }, "anisotropy"},
		{"albedo", func(c *Config) { c.Atmosphere.GroundAlbedo = 1.2 }, "albedo"},
		{"zenith", func(c *Config) { c.Atmosphere.MaxSunZenithDeg = 90 }, "sun zenith"},
	}
	for _, c := range cases {
		cfg := DefaultConfig()
		c.edit(&cfg)
		err := cfg.Validate()
		if err == nil || !strings.Contains(err.Error(), c.want) {
			t.Fatalf("%s: got %v want %q", c.name, err, c.want)
		}
	}
	for d := MinDetail; d <= MaxDetail; d++ {
		cfg := DefaultConfig()
		cfg.Detail = d
		if err := cfg.Validate(); err != nil {
			t.Fatalf("detail %d rejected: %v", d, err)
		}
	}
}
