package skyscatter

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// OpticalDepth integrates the density profile p along (r, mu) up to the top boundary
// using the trapezoidal rule.
func (a *Atmosphere) OpticalDepth(r, mu Real, p DensityProfile) Real {
	a.assertRMu(r, mu)
	dx := a.DistanceToTop(r, mu) / OpticalDepthSamples
	sum := 0.0
	for i := 0; i <= OpticalDepthSamples; i++ {
		di := Real(i) * dx
		// radius at distance di along the ray
		ri := math.Sqrt(di*di + 2*r*mu*di + r*r)
		w := 1.0
		if i == 0 || i == OpticalDepthSamples {
			w = 0.5
		}
		sum += p.Density(ri-a.Bottom) * w * dx
	}
	return sum
}

// TransmittanceToTop evaluates the transmittance from (r, mu) to the top boundary directly.
func (a *Atmosphere) TransmittanceToTop(r, mu Real) mgl64.Vec3 {
	tau := a.Rayleigh.Scattering.Mul(a.OpticalDepth(r, mu, a.Rayleigh.Density)).
		Add(a.Mie.Extinction.Mul(a.OpticalDepth(r, mu, a.Mie.Density))).
		Add(a.Absorption.Extinction.Mul(a.OpticalDepth(r, mu, a.Absorption.Density)))
	return expv(tau.Mul(-1))
}

// TransmittanceTable is the precomputed transmittance to the top boundary with its lookups.
type TransmittanceTable struct {
	Atm  *Atmosphere
	Grid *Grid2[mgl64.Vec3]
}

// ComputeTransmittance fills the transmittance table, one texel per (mu, r) node.
func ComputeTransmittance(a *Atmosphere) *TransmittanceTable {
	res := a.Resolution.Transmittance
	g := NewGrid2[mgl64.Vec3](res[0], res[1])
	forEachTexel("transmittance", g.Len(), func(i int) {
		x, y := i%g.Nx, i/g.Nx
		g.Buf[i] = a.TransmittanceToTop(a.TransmittanceTexel(x, y))
	})
	return &TransmittanceTable{Atm: a, Grid: g}
}

// Top looks up the transmittance from (r, mu) to the top boundary.
func (t *TransmittanceTable) Top(r, mu Real) mgl64.Vec3 {
	return t.Grid.Sample(t.Atm.TransmittanceCoord(r, mu))
}

// Between is the transmittance over distance d along (r, mu), as a ratio of two
// table lookups. Ground rays use the reversed direction so both lookups stay valid.
func (t *TransmittanceTable) Between(r, mu, d Real, intersectsGround bool) mgl64.Vec3 {
	a := t.Atm
	rd := a.ClampRadius(math.Sqrt(d*d + 2*r*mu*d + r*r))
	muD := clampCosine((r*mu + d) / rd)
	if intersectsGround {
		return ratioTo1(t.Top(rd, -muD), t.Top(r, -mu))
	}
	return ratioTo1(t.Top(r, mu), t.Top(rd, muD))
}

// ratioTo1 is n/d per channel capped at 1, with an opaque denominator giving 0.
func ratioTo1(n, d mgl64.Vec3) mgl64.Vec3 {
	var v mgl64.Vec3
	for i := range v {
		if d[i] > 0 {
			v[i] = math.Min(n[i]/d[i], 1)
		}
	}
	return v
}

// Sun is the transmittance toward the sun, faded by the visible fraction of the
// disc above the horizon.
func (t *TransmittanceTable) Sun(r, muS Real) mgl64.Vec3 {
	a := t.Atm
	sinH := a.Bottom / r
	cosH := -math.Sqrt(math.Max(0, 1-sinH*sinH))
	alpha := a.SunAngularRadius
	if alpha == 0 {
		// point sun: hard cutoff at the horizon
		if muS < cosH {
			return mgl64.Vec3{}
		}
		return t.Top(r, muS)
	}
	return t.Top(r, muS).Mul(smoothstep(-sinH*alpha, sinH*alpha, muS-cosH))
}

// DirectIrradiance is the sun irradiance reaching a horizontal surface at r,
// using the average cosine over a partially set sun.
func (t *TransmittanceTable) DirectIrradiance(r, muS Real) mgl64.Vec3 {
	a := t.Atm
	alpha := a.SunAngularRadius
	var avgCos Real
	switch {
	case alpha == 0:
		avgCos = math.Max(0, muS)
	case muS < -alpha:
		avgCos = 0
	case muS > alpha:
		avgCos = muS
	default:
		avgCos = (muS + alpha) * (muS + alpha) / (4 * alpha)
	}
	return mulv(a.SolarIrradiance, t.Top(r, muS)).Mul(avgCos)
}

// ComputeDirectIrradiance fills the direct irradiance table.
func ComputeDirectIrradiance(t *TransmittanceTable) *Grid2[mgl64.Vec3] {
	a := t.Atm
	res := a.Resolution.Irradiance
	g := NewGrid2[mgl64.Vec3](res[0], res[1])
	forEachTexel("direct irradiance", g.Len(), func(i int) {
		g.Buf[i] = t.DirectIrradiance(a.IrradianceTexel(i%g.Nx, i/g.Nx))
	})
	return g
}
