package skyscatter

import "math"

// ScatteringSample is a decoded point of the 4-D scattering domain.
type ScatteringSample struct {
	R                Real // radius, meters
	Mu               Real // view zenith cosine
	MuS              Real // sun zenith cosine
	Nu               Real // view-sun cosine
	IntersectsGround bool
}

// ScatteringCoord holds unit texture coordinates of the 4-D parameterization.
type ScatteringCoord struct {
	Nu, MuS, Mu, R Real
}

// textureCoord maps a unit parameter so 0 and 1 land on the first and last texel centers.
func textureCoord(x Real, n int) Real {
	nn := Real(n)
	return 0.5/nn + x*(1-1/nn)
}

func textureParam(u Real, n int) Real {
	nn := Real(n)
	return (u - 0.5/nn) / (1 - 1/nn)
}

// rho is the distance from (r) to the ground horizon.
func (a *Atmosphere) rho(r Real) Real {
	return math.Sqrt(math.Max(0, r*r-a.Bottom*a.Bottom))
}

// TransmittanceCoord returns (u along mu, v along r) for the transmittance table.
func (a *Atmosphere) TransmittanceCoord(r, mu Real) (u, v Real) {
	a.assertRMu(r, mu)
	rho := a.rho(r)
	d := a.DistanceToTop(r, mu)
	dMin, dMax := a.Top-r, a.h+rho
	res := a.Resolution.Transmittance
	return textureCoord((d-dMin)/(dMax-dMin), res[0]), textureCoord(rho/a.h, res[1])
}

// TransmittanceParam inverts TransmittanceCoord.
func (a *Atmosphere) TransmittanceParam(u, v Real) (r, mu Real) {
	res := a.Resolution.Transmittance
	xMu, xR := textureParam(u, res[0]), textureParam(v, res[1])
	rho := a.h * xR
	r = a.ClampRadius(math.Sqrt(rho*rho + a.Bottom*a.Bottom))
	dMin, dMax := a.Top-r, a.h+rho
	d := dMin + xMu*(dMax-dMin)
	if d == 0 {
		return r, 1
	}
	return r, a.skyMu(r, d)
}

// skyMu is the view cosine at r of a ray reaching the top after distance d > 0.
// The factored form keeps d == Top-r exact near the top boundary.
func (a *Atmosphere) skyMu(r, d Real) Real {
	return clampCosine(((a.Top-r)*(a.Top+r) - d*d) / (2 * r * d))
}

// TransmittanceTexel decodes the texel (x, y) of the transmittance table.
func (a *Atmosphere) TransmittanceTexel(x, y int) (r, mu Real) {
	res := a.Resolution.Transmittance
	return a.TransmittanceParam((Real(x)+0.5)/Real(res[0]), (Real(y)+0.5)/Real(res[1]))
}

// feasibleNu clips nu to the range allowed by the spherical law of cosines.
func feasibleNu(mu, muS, nu Real) Real {
	s := math.Sqrt(math.Max(0, (1-mu*mu)*(1-muS*muS)))
	return math.Max(mu*muS-s, math.Min(nu, mu*muS+s))
}

// sunAxis returns the bounds and the cutoff constant A of the mu_s reparameterization.
func (a *Atmosphere) sunAxis() (dMin, dMax, A Real) {
	dMin, dMax = a.Top-a.Bottom, a.h
	A = -2 * a.MuSMin * a.Bottom / (dMax - dMin)
	return
}

// ScatteringCoord maps a physical sample to unit texture coordinates.
func (a *Atmosphere) ScatteringCoord(s ScatteringSample) ScatteringCoord {
	a.assertRMu(s.R, s.Mu)
	assertCosine("mu_s", s.MuS)
	assertCosine("nu", s.Nu)
	res := a.Resolution.Scattering
	r, mu, H := s.R, s.Mu, a.h
	rho := a.rho(r)

	var c ScatteringCoord
	c.R = textureCoord(rho/H, res.R)

	disc := discriminantRMu(r, mu, a.Bottom)
	if s.IntersectsGround {
		d := -r*mu - math.Sqrt(math.Max(0, disc))
		dMin, dMax := r-a.Bottom, rho
		x := 0.0
		if dMax != dMin {
			x = (d - dMin) / (dMax - dMin)
		}
		c.Mu = 0.5 - 0.5*textureCoord(x, res.M/2)
	} else {
		d := -r*mu + math.Sqrt(math.Max(0, disc+H*H))
		dMin, dMax := a.Top-r, rho+H
		c.Mu = 0.5 + 0.5*textureCoord((d-dMin)/(dMax-dMin), res.M/2)
	}

	dMin, dMax, A := a.sunAxis()
	x := (a.DistanceToTop(a.Bottom, s.MuS) - dMin) / (dMax - dMin)
	c.MuS = textureCoord(math.Max(0, 1-x/A)/(1+x), res.MS)
	c.Nu = (feasibleNu(mu, s.MuS, s.Nu) + 1) / 2
	return c
}

// ScatteringParam inverts ScatteringCoord. Mu, mu_s and r come back exactly;
// nu is clipped to what mu and mu_s allow.
func (a *Atmosphere) ScatteringParam(c ScatteringCoord) ScatteringSample {
	res := a.Resolution.Scattering
	H := a.h
	rho := H * textureParam(c.R, res.R)
	r := a.ClampRadius(math.Sqrt(rho*rho + a.Bottom*a.Bottom))

	var s ScatteringSample
	s.R = r
	if c.Mu < 0.5 {
		dMin, dMax := r-a.Bottom, rho
		d := dMin + (dMax-dMin)*textureParam(1-2*c.Mu, res.M/2)
		s.Mu = -1
		if d != 0 {
			s.Mu = clampCosine(-(rho*rho + d*d) / (2 * r * d))
		}
		s.IntersectsGround = true
	} else {
		dMin, dMax := a.Top-r, rho+H
		d := dMin + (dMax-dMin)*textureParam(2*c.Mu-1, res.M/2)
		s.Mu = 1
		if d != 0 {
			s.Mu = a.skyMu(r, d)
		}
	}

	dMin, dMax, A := a.sunAxis()
	xMuS := textureParam(c.MuS, res.MS)
	ad := (A - xMuS*A) / (1 + xMuS*A)
	d := dMin + math.Min(ad, A)*(dMax-dMin)
	s.MuS = 1
	if d != 0 {
		s.MuS = clampCosine((H*H - d*d) / (2 * a.Bottom * d))
	}
	s.Nu = feasibleNu(s.Mu, s.MuS, clampCosine(2*c.Nu-1))
	return s
}

// ScatteringTexel decodes texel (x, y, z) of the (N*R, M, MS) scattering table.
func (a *Atmosphere) ScatteringTexel(x, y, z int) ScatteringSample {
	res := a.Resolution.Scattering
	iNu, iR := x/res.R, x%res.R
	uNu := 0.5
	if res.N > 1 {
		uNu = Real(iNu) / Real(res.N-1)
	}
	return a.ScatteringParam(ScatteringCoord{
		Nu:  uNu,
		MuS: (Real(z) + 0.5) / Real(res.MS),
		Mu:  (Real(y) + 0.5) / Real(res.M),
		R:   (Real(iR) + 0.5) / Real(res.R),
	})
}

// IrradianceCoord returns (u along mu_s, v along r).
func (a *Atmosphere) IrradianceCoord(r, muS Real) (u, v Real) {
	a.assertRMu(r, muS)
	res := a.Resolution.Irradiance
	xR := (r - a.Bottom) / (a.Top - a.Bottom)
	return textureCoord(muS*0.5+0.5, res[0]), textureCoord(xR, res[1])
}

func (a *Atmosphere) IrradianceParam(u, v Real) (r, muS Real) {
	res := a.Resolution.Irradiance
	r = a.ClampRadius(a.Bottom + textureParam(v, res[1])*(a.Top-a.Bottom))
	return r, clampCosine(2*textureParam(u, res[0]) - 1)
}

func (a *Atmosphere) IrradianceTexel(x, y int) (r, muS Real) {
	res := a.Resolution.Irradiance
	return a.IrradianceParam((Real(x)+0.5)/Real(res[0]), (Real(y)+0.5)/Real(res[1]))
}

// lookupScattering samples a (N*R, M, MS) table, blending the two nu slices around the sample.
func lookupScattering[T Texel[T]](a *Atmosphere, g *Grid3[T], s ScatteringSample) T {
	c := a.ScatteringCoord(s)
	n := Real(a.Resolution.Scattering.N)
	texX := c.Nu * (n - 1)
	x0 := math.Floor(texX)
	lerp := texX - x0
	v := g.Sample((x0+c.R)/n, c.Mu, c.MuS)
	if lerp > 0 {
		v1 := g.Sample((x0+1+c.R)/n, c.Mu, c.MuS)
		v = v.Mul(1 - lerp).Add(v1.Mul(lerp))
	}
	return v
}
