package skyscatter

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lukaszgryglicki/skyscatter/internal/tablefile"
)

// Table file names, joined as <prefix>-<name>-<detail>x.float32.
const (
	FileParameters       = "atmosphere-parameters"
	FileTransmittance    = "transmittance"
	FileScattering       = "scattering-combined"
	FileIrradiance       = "irradiance"
	FileIrradianceDirect = "irradiance-direct"
)

// TablePath is where a table of the given name is written.
func TablePath(dir, prefix, name string, detail int) string {
	return filepath.Join(dir, fmt.Sprintf("%s-%s-%dx.float32", prefix, name, detail))
}

// Parameters flattens what the render time consumer needs besides the tables.
func Parameters(a *Atmosphere) []float32 {
	res := a.Resolution
	s := res.Scattering
	v := []Real{
		a.Bottom, a.Top, a.SunAngularRadius, a.MuSMin,
		a.Rayleigh.Scattering[ChR], a.Rayleigh.Scattering[ChG], a.Rayleigh.Scattering[ChB],
		a.Mie.Scattering[ChR], a.Mie.Scattering[ChG], a.Mie.Scattering[ChB],
		a.Mie.G,
		Real(res.Transmittance[0]), Real(res.Transmittance[1]),
		Real(s.R), Real(s.M), Real(s.MS), Real(s.N),
		Real(res.Irradiance[0]), Real(res.Irradiance[1]),
		a.SolarIrradiance[ChR], a.SolarIrradiance[ChG], a.SolarIrradiance[ChB],
	}
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(x)
	}
	return out
}

func texels3(buf []mgl64.Vec3) [][4]float32 {
	out := make([][4]float32, len(buf))
	for i, v := range buf {
		out[i] = [4]float32{float32(v[ChR]), float32(v[ChG]), float32(v[ChB]), 0}
	}
	return out
}

func texels4(buf []mgl64.Vec4) [][4]float32 {
	out := make([][4]float32, len(buf))
	for i, v := range buf {
		out[i] = [4]float32{float32(v[ChR]), float32(v[ChG]), float32(v[ChB]), float32(v[ChA])}
	}
	return out
}

func grid2Table(g *Grid2[mgl64.Vec3]) *tablefile.Table {
	return tablefile.Grid2(g.Nx, g.Ny, texels3(g.Buf))
}

// WriteTables writes the parameters and the four tables, returning the paths written.
func WriteTables(tab *Tables, dir, prefix string, detail int) ([]string, error) {
	sc := tab.Scattering
	files := []struct {
		name  string
		table *tablefile.Table
	}{
		{FileParameters, tablefile.Floats(Parameters(tab.Atm))},
		{FileTransmittance, grid2Table(tab.Transmittance.Grid)},
		{FileScattering, tablefile.Grid3(sc.Nx, sc.Ny, sc.Nz, texels4(sc.Buf))},
		{FileIrradiance, grid2Table(tab.Irradiance)},
		{FileIrradianceDirect, grid2Table(tab.DirectIrradiance)},
	}
	var written []string
	for _, f := range files {
		path := TablePath(dir, prefix, f.name, detail)
		if err := tablefile.WriteFile(path, f.table); err != nil {
			return written, fmt.Errorf("write %s: %w", f.name, err)
		}
		Logger().Info("wrote table", "path", path, "dims", f.table.Dims(), "count", f.table.Count())
		written = append(written, path)
	}
	return written, nil
}

// Run validates cfg, precomputes every table and writes them to cfg.OutputDir.
// An invalid cfg is rejected before any computation or output.
func Run(cfg *Config) ([]string, error) {
	if cfg == nil {
		return nil, fmt.Errorf("run: nil config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	Workers = cfg.Workers
	DebugLog("Run: %s", cfg)

	atm, err := Earth(cfg.Atmosphere, cfg.Resolution())
	if err != nil {
		return nil, fmt.Errorf("earth preset: %w", err)
	}
	start := time.Now()
	tab, err := Precompute(atm, cfg.Orders)
	if err != nil {
		return nil, err
	}
	DebugLog("Precompute: %d orders, time: %s", cfg.Orders, time.Since(start))
	tab.Passes.Stats()

	written, err := WriteTables(tab, cfg.OutputDir, cfg.Prefix, cfg.Detail)
	if err != nil {
		return written, err
	}

	if cfg.PNG {
		dir := filepath.Join(cfg.OutputDir, "pngs")
		pngs, err := SavePreviews(tab, dir, fmt.Sprintf("%s-%dx", cfg.Prefix, cfg.Detail), cfg.Gamma)
		if err != nil {
			// previews are a debugging aid, the tables are already written
			Logger().Warn("preview failed", "err", err)
		}
		written = append(written, pngs...)
		DebugLog("Saved %d previews under %s", len(pngs), dir)
	}
	return written, nil
}
