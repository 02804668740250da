package skyscatter

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ScatteringResolution is the 4-D scattering parameterization size.
// The table is stored as (N*R, M, MS): N slices of width R along x.
type ScatteringResolution struct {
	R  int // altitude
	M  int // view zenith, split in halves for ground and sky rays
	MS int // sun zenith
	N  int // view-sun azimuth
}

// Size returns the stored 3-D table size.
func (s ScatteringResolution) Size() (nx, ny, nz int) { return s.N * s.R, s.M, s.MS }

type Resolution struct {
	Transmittance [2]int // (mu, r)
	Scattering    ScatteringResolution
	Irradiance    [2]int // (mu_s, r)
}

// BaseResolution returns the detail 0 resolutions.
func BaseResolution() Resolution {
	return Resolution{
		Transmittance: [2]int{BaseTransmittanceMu, BaseTransmittanceR},
		Scattering: ScatteringResolution{
			R: BaseScatteringR, M: BaseScatteringMu, MS: BaseScatteringMuS, N: BaseScatteringNu,
		},
		Irradiance: [2]int{BaseIrradianceMuS, BaseIrradianceR},
	}
}

func (r Resolution) String() string {
	nx, ny, nz := r.Scattering.Size()
	return fmt.Sprintf("transmittance %dx%d, scattering %dx%dx%d, irradiance %dx%d",
		r.Transmittance[0], r.Transmittance[1], nx, ny, nz, r.Irradiance[0], r.Irradiance[1])
}

// Scaled multiplies every axis by 2^detail.
func (r Resolution) Scaled(detail int) Resolution {
	k := 1 << uint(detail)
	s := r.Scattering
	return Resolution{
		Transmittance: [2]int{r.Transmittance[0] * k, r.Transmittance[1] * k},
		Scattering:    ScatteringResolution{R: s.R * k, M: s.M * k, MS: s.MS * k, N: s.N * k},
		Irradiance:    [2]int{r.Irradiance[0] * k, r.Irradiance[1] * k},
	}
}

func (r Resolution) validate() error {
	s := r.Scattering
	if r.Transmittance[0] < 2 || r.Transmittance[1] < 2 {
		return fmt.Errorf("transmittance resolution must be at least 2 per axis, got %v", r.Transmittance)
	}
	if r.Irradiance[0] < 2 || r.Irradiance[1] < 2 {
		return fmt.Errorf("irradiance resolution must be at least 2 per axis, got %v", r.Irradiance)
	}
	if s.R < 2 || s.MS < 2 || s.N < 1 || s.M < 4 || s.M%2 != 0 {
		return fmt.Errorf("scattering resolution needs R, MS >= 2, N >= 1 and an even M >= 4, got %+v", s)
	}
	return nil
}

type Rayleigh struct {
	Density    DensityProfile
	Scattering mgl64.Vec3 // per meter, also the extinction
}

type Mie struct {
	Density    DensityProfile
	Scattering mgl64.Vec3
	Extinction mgl64.Vec3
	G          Real // anisotropy
}

type Absorption struct {
	Density    DensityProfile
	Extinction mgl64.Vec3
}

// Atmosphere is the immutable physical description shared by every pass.
type Atmosphere struct {
	Bottom           Real // planet radius, meters
	Top              Real // top of the atmosphere, meters
	SunAngularRadius Real // radians

	Rayleigh   Rayleigh
	Mie        Mie
	Absorption Absorption

	SolarIrradiance mgl64.Vec3
	GroundAlbedo    mgl64.Vec3
	MuSMin          Real // cosine of the maximum sun zenith angle

	Resolution Resolution

	// cached
	h Real // distance from the ground horizon to the top boundary
}

// NewAtmosphere validates the description and fills cached values.
func NewAtmosphere(a Atmosphere) (*Atmosphere, error) {
	if !(a.Bottom > 0) || !(a.Top > a.Bottom) {
		return nil, fmt.Errorf("radii must satisfy 0 < bottom < top, got bottom=%g top=%g", a.Bottom, a.Top)
	}
	if a.SunAngularRadius < 0 || a.SunAngularRadius >= math.Pi/2 {
		return nil, fmt.Errorf("sun angular radius must be in [0, pi/2), got %g", a.SunAngularRadius)
	}
	// the sun axis reparameterization needs a cutoff below the horizon
	if !(a.MuSMin >= -1 && a.MuSMin < 0) {
		return nil, fmt.Errorf("minimum sun zenith cosine must be in [-1, 0), got %g", a.MuSMin)
	}
	if a.Mie.G <= -1 || a.Mie.G >= 1 {
		return nil, fmt.Errorf("mie anisotropy must be in (-1, 1), got %g", a.Mie.G)
	}
	for _, c := range []struct {
		n string
		v mgl64.Vec3
	}{
		{"rayleigh scattering", a.Rayleigh.Scattering},
		{"mie scattering", a.Mie.Scattering},
		{"mie extinction", a.Mie.Extinction},
		{"absorption extinction", a.Absorption.Extinction},
		{"solar irradiance", a.SolarIrradiance},
		{"ground albedo", a.GroundAlbedo},
	} {
		for i := 0; i < 3; i++ {
			if !isFinite(c.v[i]) || c.v[i] < 0 {
				return nil, fmt.Errorf("%s must be finite and >= 0 per channel, got %v", c.n, c.v)
			}
		}
	}
	if err := a.Resolution.validate(); err != nil {
		return nil, err
	}
	atm := a
	atm.h = math.Sqrt(a.Top*a.Top - a.Bottom*a.Bottom)
	DebugLog("Created atmosphere bottom=%g top=%g mu_s_min=%g resolution=%+v", atm.Bottom, atm.Top, atm.MuSMin, atm.Resolution)
	return &atm, nil
}

// H is the distance from a ground horizon point to the top boundary.
func (a *Atmosphere) H() Real { return a.h }

func (a *Atmosphere) assertRMu(r, mu Real) {
	if r < a.Bottom || r > a.Top {
		panic(fmt.Sprintf("radius %g outside [%g, %g]", r, a.Bottom, a.Top))
	}
	assertCosine("mu", mu)
}

func assertCosine(name string, c Real) {
	if !(c >= -1 && c <= 1) {
		panic(fmt.Sprintf("%s = %g outside [-1, 1]", name, c))
	}
}

// ClampRadius keeps a derived radius inside the shell.
func (a *Atmosphere) ClampRadius(r Real) Real { return mgl64.Clamp(r, a.Bottom, a.Top) }

// discriminant of the ray/sphere intersection, r^2(mu^2-1) + h^2.
func discriminant(r, mu, h Real) Real { return r*r*(mu*mu-1) + h*h }

// discriminantRMu is the same quantity as (r mu)^2 - r^2 + h^2, the form used by
// the scattering coordinate mapping.
func discriminantRMu(r, mu, h Real) Real {
	rmu := r * mu
	return rmu*rmu - r*r + h*h
}

// DistanceToTop is the distance along (r, mu) to the top boundary.
func (a *Atmosphere) DistanceToTop(r, mu Real) Real {
	if r > a.Top {
		panic(fmt.Sprintf("radius %g above top %g", r, a.Top))
	}
	assertCosine("mu", mu)
	d := discriminant(r, mu, a.Top)
	return math.Max(0, -r*mu+math.Sqrt(math.Max(0, d)))
}

// DistanceToBottom is the distance along (r, mu) to the ground.
func (a *Atmosphere) DistanceToBottom(r, mu Real) Real {
	if r < a.Bottom {
		panic(fmt.Sprintf("radius %g below bottom %g", r, a.Bottom))
	}
	assertCosine("mu", mu)
	d := discriminant(r, mu, a.Bottom)
	return math.Max(0, -r*mu-math.Sqrt(math.Max(0, d)))
}

func (a *Atmosphere) DistanceToBoundary(r, mu Real, intersectsGround bool) Real {
	if intersectsGround {
		return a.DistanceToBottom(r, mu)
	}
	return a.DistanceToTop(r, mu)
}

// IntersectsGround reports whether the ray (r, mu) hits the planet.
func (a *Atmosphere) IntersectsGround(r, mu Real) bool {
	if r < a.Bottom {
		panic(fmt.Sprintf("radius %g below bottom %g", r, a.Bottom))
	}
	assertCosine("mu", mu)
	return mu < 0 && discriminant(r, mu, a.Bottom) >= 0
}
