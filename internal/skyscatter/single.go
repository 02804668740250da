package skyscatter

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// pointAlong returns r, mu and mu_s at distance d along the ray (r, mu) for a sun
// at (mu_s, nu).
func (a *Atmosphere) pointAlong(r, mu, muS, nu, d Real) (rd, muD, muSD Real) {
	rd = a.ClampRadius(math.Sqrt(d*d + 2*r*mu*d + r*r))
	muD = clampCosine((r*mu + d) / rd)
	muSD = clampCosine((r*muS + d*nu) / rd)
	return
}

// singleScatteringIntegrand is the sunlight scattered toward the viewer at distance
// d, before the scattering coefficients and phase functions are applied.
func (t *TransmittanceTable) singleScatteringIntegrand(s ScatteringSample, d Real) (rayleigh, mie mgl64.Vec3) {
	a := t.Atm
	rd, _, muSD := a.pointAlong(s.R, s.Mu, s.MuS, s.Nu, d)
	tr := mulv(t.Between(s.R, s.Mu, d, s.IntersectsGround), t.Sun(rd, muSD))
	alt := rd - a.Bottom
	return tr.Mul(a.Rayleigh.Density.Density(alt)), tr.Mul(a.Mie.Density.Density(alt))
}

// SingleScattering integrates single scattering along the view ray to the
// nearest boundary. Both results exclude the phase function.
func (t *TransmittanceTable) SingleScattering(s ScatteringSample) (rayleigh, mie mgl64.Vec3) {
	a := t.Atm
	a.assertRMu(s.R, s.Mu)
	assertCosine("mu_s", s.MuS)
	assertCosine("nu", s.Nu)
	dx := a.DistanceToBoundary(s.R, s.Mu, s.IntersectsGround) / SingleScatteringSamples
	for i := 0; i <= SingleScatteringSamples; i++ {
		ray, mie1 := t.singleScatteringIntegrand(s, Real(i)*dx)
		w := 1.0
		if i == 0 || i == SingleScatteringSamples {
			w = 0.5
		}
		rayleigh = rayleigh.Add(ray.Mul(w))
		mie = mie.Add(mie1.Mul(w))
	}
	rayleigh = mulv(mulv(rayleigh.Mul(dx), a.SolarIrradiance), a.Rayleigh.Scattering)
	mie = mulv(mulv(mie.Mul(dx), a.SolarIrradiance), a.Mie.Scattering)
	return
}

// ComputeSingleScattering fills the Rayleigh and Mie single scattering tables.
func ComputeSingleScattering(t *TransmittanceTable) (rayleigh, mie *Grid3[mgl64.Vec3]) {
	a := t.Atm
	nx, ny, nz := a.Resolution.Scattering.Size()
	rayleigh = NewGrid3[mgl64.Vec3](nx, ny, nz)
	mie = NewGrid3[mgl64.Vec3](nx, ny, nz)
	forEachTexel("single scattering", rayleigh.Len(), func(i int) {
		s := a.ScatteringTexel(rayleigh.coords(i))
		rayleigh.Buf[i], mie.Buf[i] = t.SingleScattering(s)
	})
	return
}
