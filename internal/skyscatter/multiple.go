package skyscatter

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ScatteringSource is the radiance of the previous scattering order arriving
// from a direction.
type ScatteringSource interface {
	Radiance(s ScatteringSample) mgl64.Vec3
}

// BaseOrder serves single scattering, which is stored without phase functions.
type BaseOrder struct {
	Atm      *Atmosphere
	Rayleigh *Grid3[mgl64.Vec3]
	Mie      *Grid3[mgl64.Vec3]
}

func (b BaseOrder) Radiance(s ScatteringSample) mgl64.Vec3 {
	ray := lookupScattering(b.Atm, b.Rayleigh, s)
	mie := lookupScattering(b.Atm, b.Mie, s)
	return ray.Mul(RayleighPhase(s.Nu)).Add(mie.Mul(MiePhase(s.Nu, b.Atm.Mie.G)))
}

// HigherOrder serves a delta multiple scattering table, phase already included.
type HigherOrder struct {
	Atm   *Atmosphere
	Table *Grid3[mgl64.Vec3]
}

func (h HigherOrder) Radiance(s ScatteringSample) mgl64.Vec3 {
	return lookupScattering(h.Atm, h.Table, s)
}

// incoming builds the sample for light arriving at r along mu toward a sun at (mu_s, nu).
func (a *Atmosphere) incoming(r, mu, muS, nu Real) ScatteringSample {
	mu, muS = clampCosine(mu), clampCosine(muS)
	return ScatteringSample{R: r, Mu: mu, MuS: muS, Nu: clampCosine(nu), IntersectsGround: a.IntersectsGround(r, mu)}
}

func (a *Atmosphere) lookupIrradiance(g *Grid2[mgl64.Vec3], r, muS Real) mgl64.Vec3 {
	return g.Sample(a.IrradianceCoord(r, clampCosine(muS)))
}

// frame returns the view and sun directions in a frame with the zenith on +z
// and the view in the xz plane.
func frame(mu, muS, nu Real) (view, sun mgl64.Vec3) {
	view = mgl64.Vec3{math.Sqrt(math.Max(0, 1-mu*mu)), 0, mu}
	sx := 0.0
	if view[0] != 0 {
		sx = (nu - mu*muS) / view[0]
	}
	sy := math.Sqrt(math.Max(0, 1-sx*sx-muS*muS))
	return view, mgl64.Vec3{sx, sy, muS}
}

// ScatteringDensity is the radiance scattered at (r) toward the view direction,
// integrated over all incident directions. Incident light is the previous order
// plus the ground reflection of the previous order's irradiance.
func (t *TransmittanceTable) ScatteringDensity(src ScatteringSource, irradiance *Grid2[mgl64.Vec3], s ScatteringSample) mgl64.Vec3 {
	a := t.Atm
	a.assertRMu(s.R, s.Mu)
	zenith := mgl64.Vec3{0, 0, 1}
	view, sun := frame(s.Mu, s.MuS, s.Nu)

	const polar = DensityPolarSamples
	dTheta := math.Pi / polar
	dPhi := math.Pi / polar
	alt := s.R - a.Bottom
	rayleigh := a.Rayleigh.Scattering.Mul(a.Rayleigh.Density.Density(alt))
	mie := a.Mie.Scattering.Mul(a.Mie.Density.Density(alt))

	var sum mgl64.Vec3
	for l := 0; l < polar; l++ {
		theta := (Real(l) + 0.5) * dTheta
		cosT, sinT := math.Cos(theta), math.Sin(theta)
		ground := a.IntersectsGround(s.R, cosT)

		// ground reflection seen along this polar angle
		var dGround Real
		var groundTr mgl64.Vec3
		if ground {
			dGround = a.DistanceToBottom(s.R, cosT)
			groundTr = mulv(t.Between(s.R, cosT, dGround, true), a.GroundAlbedo).Mul(1 / math.Pi)
		}
		for m := 0; m < 2*polar; m++ {
			phi := (Real(m) + 0.5) * dPhi
			in := mgl64.Vec3{math.Cos(phi) * sinT, math.Sin(phi) * sinT, cosT}
			dOmega := dTheta * dPhi * sinT

			radiance := src.Radiance(a.incoming(s.R, in[2], s.MuS, sun.Dot(in)))
			if ground {
				normal := zenith.Mul(s.R).Add(in.Mul(dGround)).Normalize()
				e := a.lookupIrradiance(irradiance, a.Bottom, normal.Dot(sun))
				radiance = radiance.Add(mulv(groundTr, e))
			}
			nu := view.Dot(in)
			scatter := rayleigh.Mul(RayleighPhase(nu)).Add(mie.Mul(MiePhase(nu, a.Mie.G)))
			sum = sum.Add(mulv(radiance, scatter).Mul(dOmega))
		}
	}
	return sum
}

func scatteringDensityInto(dst *Grid3[mgl64.Vec3], t *TransmittanceTable, src ScatteringSource, irradiance *Grid2[mgl64.Vec3]) {
	a := t.Atm
	forEachTexel("scattering density", dst.Len(), func(i int) {
		dst.Buf[i] = t.ScatteringDensity(src, irradiance, a.ScatteringTexel(dst.coords(i)))
	})
}

// MultipleScattering integrates the scattering density along the view ray.
func (t *TransmittanceTable) MultipleScattering(density *Grid3[mgl64.Vec3], s ScatteringSample) mgl64.Vec3 {
	a := t.Atm
	a.assertRMu(s.R, s.Mu)
	dx := a.DistanceToBoundary(s.R, s.Mu, s.IntersectsGround) / MultipleScatteringSamples
	var sum mgl64.Vec3
	for i := 0; i <= MultipleScatteringSamples; i++ {
		d := Real(i) * dx
		rd, muD, muSD := a.pointAlong(s.R, s.Mu, s.MuS, s.Nu, d)
		in := lookupScattering(a, density, ScatteringSample{
			R: rd, Mu: muD, MuS: muSD, Nu: s.Nu, IntersectsGround: s.IntersectsGround,
		})
		w := 1.0
		if i == 0 || i == MultipleScatteringSamples {
			w = 0.5
		}
		sum = sum.Add(mulv(in, t.Between(s.R, s.Mu, d, s.IntersectsGround)).Mul(w * dx))
	}
	return sum
}

func multipleScatteringInto(dst *Grid3[mgl64.Vec3], t *TransmittanceTable, density *Grid3[mgl64.Vec3]) {
	a := t.Atm
	forEachTexel("multiple scattering", dst.Len(), func(i int) {
		dst.Buf[i] = t.MultipleScattering(density, a.ScatteringTexel(dst.coords(i)))
	})
}

// IndirectIrradiance is the sky irradiance on a horizontal surface at r from one
// scattering order, integrated over the upper hemisphere.
func (a *Atmosphere) IndirectIrradiance(src ScatteringSource, r, muS Real) mgl64.Vec3 {
	a.assertRMu(r, muS)
	const polar = IrradianceSamples / 2
	dTheta := math.Pi / IrradianceSamples
	dPhi := math.Pi / IrradianceSamples
	sun := mgl64.Vec3{math.Sqrt(math.Max(0, 1-muS*muS)), 0, muS}

	var sum mgl64.Vec3
	for j := 0; j < polar; j++ {
		theta := (Real(j) + 0.5) * dTheta
		cosT, sinT := math.Cos(theta), math.Sin(theta)
		for i := 0; i < 2*IrradianceSamples; i++ {
			phi := (Real(i) + 0.5) * dPhi
			in := mgl64.Vec3{math.Cos(phi) * sinT, math.Sin(phi) * sinT, cosT}
			s := ScatteringSample{R: r, Mu: cosT, MuS: muS, Nu: clampCosine(in.Dot(sun))}
			sum = sum.Add(src.Radiance(s).Mul(cosT * dTheta * dPhi * sinT))
		}
	}
	return sum
}

// ComputeIndirectIrradiance fills a new delta irradiance table from one order.
func ComputeIndirectIrradiance(a *Atmosphere, src ScatteringSource) *Grid2[mgl64.Vec3] {
	res := a.Resolution.Irradiance
	g := NewGrid2[mgl64.Vec3](res[0], res[1])
	indirectIrradianceInto(g, a, src)
	return g
}

func indirectIrradianceInto(dst *Grid2[mgl64.Vec3], a *Atmosphere, src ScatteringSource) {
	forEachTexel("indirect irradiance", dst.Len(), func(i int) {
		r, muS := a.IrradianceTexel(i%dst.Nx, i/dst.Nx)
		dst.Buf[i] = a.IndirectIrradiance(src, r, muS)
	})
}
