package skyscatter

import (
	"encoding/json"
	"fmt"
	"os"
)

type Config struct {
	Detail     int         `json:"detail"`
	OutputDir  string      `json:"outputDir"`
	Prefix     string      `json:"prefix"`
	Orders     int         `json:"orders"`
	Workers    int         `json:"workers,omitempty"` // <= 0 is runtime.NumCPU()
	PNG        bool        `json:"png,omitempty"`
	Gamma      Real        `json:"gamma,omitempty"`
	Atmosphere EarthParams `json:"atmosphere"`
}

// DefaultConfig returns the built-in defaults from const.go.
func DefaultConfig() Config {
	return Config{
		Detail:     Detail,
		OutputDir:  OutputDir,
		Prefix:     Prefix,
		Orders:     Orders,
		Gamma:      Gamma,
		Atmosphere: DefaultEarthParams(),
	}
}

// LoadConfig reads a JSON config on top of the defaults. Keys missing from the
// file keep their default. An empty path returns the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return &cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if cfg.Gamma <= 0 {
		cfg.Gamma = Gamma
	}
	DebugLog("Loaded config from %s: detail=%d orders=%d output=%s prefix=%s png=%v", path, cfg.Detail, cfg.Orders, cfg.OutputDir, cfg.Prefix, cfg.PNG)
	return &cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Detail < MinDetail || c.Detail > MaxDetail {
		return fmt.Errorf("detail level %d outside [%d, %d]", c.Detail, MinDetail, MaxDetail)
	}
	if c.Orders < 1 {
		return fmt.Errorf("scattering orders must be >= 1, got %d", c.Orders)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0, got %d", c.Workers)
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output directory is empty")
	}
	if c.Prefix == "" {
		return fmt.Errorf("file prefix is empty")
	}
	if !(c.Gamma > 0) || !isFinite(c.Gamma) {
		return fmt.Errorf("gamma must be > 0, got %g", c.Gamma)
	}
	p := c.Atmosphere
	if !(p.MieAnisotropy > -1 && p.MieAnisotropy < 1) {
		return fmt.Errorf("mie anisotropy must be in (-1, 1), got %g", p.MieAnisotropy)
	}
	if !isFinite(p.MieAngstrom) {
		return fmt.Errorf("mie angstrom exponent must be finite, got %g", p.MieAngstrom)
	}
	if !(p.GroundAlbedo >= 0 && p.GroundAlbedo <= 1) {
		return fmt.Errorf("ground albedo must be in [0, 1], got %g", p.GroundAlbedo)
	}
	// the sun axis needs a cutoff strictly below the horizon
	if !(p.MaxSunZenithDeg > 90 && p.MaxSunZenithDeg <= 180) {
		return fmt.Errorf("max sun zenith must be in (90, 180] degrees, got %g", p.MaxSunZenithDeg)
	}
	return nil
}

// Resolution is the table resolution for the configured detail level.
func (c *Config) Resolution() Resolution { return BaseResolution().Scaled(c.Detail) }

func (c *Config) String() string {
	return fmt.Sprintf("detail=%d (%s) orders=%d workers=%d output=%s prefix=%s png=%v gamma=%g",
		c.Detail, c.Resolution(), c.Orders, c.Workers, c.OutputDir, c.Prefix, c.PNG, c.Gamma)
}
