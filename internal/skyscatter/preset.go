package skyscatter

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Spectral samples cover [lambdaMin, lambdaMax] nm in spectralBins equal bins.
const (
	lambdaMin    = 360.0
	lambdaMax    = 840.0
	spectralBins = 48
	dobson       = 2.687e20 // molecules per m^2
)

// Wavelengths (nm) standing in for the red, green and blue channels.
var rgbLambdas = [3]Real{680, 550, 440}

// Solar irradiance at the top of the atmosphere, W/m^2/nm.
var solarIrradiance = [spectralBins]Real{
	1.11776, 1.14259, 1.01249, 1.14716, 1.72765, 1.73054, 1.68870, 1.61253,
	1.91198, 2.03474, 2.02042, 2.02212, 1.93377, 1.95809, 1.91686, 1.82980,
	1.86850, 1.89310, 1.85149, 1.85040, 1.83410, 1.83450, 1.81470, 1.78158,
	1.75330, 1.69650, 1.68194, 1.64654, 1.60480, 1.52143, 1.55622, 1.51130,
	1.47400, 1.44820, 1.41018, 1.36775, 1.34188, 1.31429, 1.28303, 1.26758,
	1.23670, 1.20820, 1.18737, 1.14683, 1.12362, 1.10580, 1.07124, 1.04992,
}

// Ozone absorption cross section, m^2 per molecule.
var ozoneCrossSection = [spectralBins]Real{
	1.180e-27, 2.182e-28, 2.818e-28, 6.636e-28, 1.527e-27, 2.763e-27, 5.520e-27,
	8.451e-27, 1.582e-26, 2.316e-26, 3.669e-26, 4.924e-26, 7.752e-26, 9.016e-26,
	1.480e-25, 1.602e-25, 2.139e-25, 2.755e-25, 3.091e-25, 3.500e-25, 4.266e-25,
	4.672e-25, 4.398e-25, 4.701e-25, 5.019e-25, 4.305e-25, 3.740e-25, 3.215e-25,
	2.662e-25, 2.238e-25, 1.852e-25, 1.473e-25, 1.209e-25, 9.423e-26, 7.455e-26,
	6.566e-26, 5.105e-26, 4.150e-26, 4.228e-26, 3.237e-26, 2.451e-26, 2.801e-26,
	2.534e-26, 1.624e-26, 1.465e-26, 2.078e-26, 1.383e-26, 7.105e-27,
}

// EarthParams are the tunable knobs of the Earth preset.
type EarthParams struct {
	MieAnisotropy   Real `json:"mieAnisotropy"`
	MieAngstrom     Real `json:"mieAngstrom"` // wavelength exponent of mie extinction
	GroundAlbedo    Real `json:"groundAlbedo"`
	MaxSunZenithDeg Real `json:"maxSunZenithDeg"` // degrees, friendlier than a cosine
}

func DefaultEarthParams() EarthParams {
	return EarthParams{
		MieAnisotropy:   0.8,
		MieAngstrom:     0,
		GroundAlbedo:    0.1,
		MaxSunZenithDeg: 120,
	}
}

// spectral linearly interpolates a bin table at wavelength l (nm), clamping at the ends.
func spectral(l Real, table *[spectralBins]Real) Real {
	x := (l-lambdaMin)/((lambdaMax-lambdaMin)/spectralBins) - 0.5
	i0 := int(mgl64.Clamp(math.Floor(x), 0, spectralBins-1))
	i1 := min(i0+1, spectralBins-1)
	t := mgl64.Clamp(x-Real(i0), 0, 1)
	return table[i0]*(1-t) + table[i1]*t
}

// Earth builds the Earth atmosphere at the given resolution.
func Earth(p EarthParams, res Resolution) (*Atmosphere, error) {
	const (
		rayleighK    = 1.24062e-6
		rayleighH    = 8000.0
		mieBeta      = 5.328e-3
		mieAlbedo    = 0.9
		mieH         = 1200.0
		ozoneTopAlt  = 25000.0
		ozoneWidth   = 15000.0
		ozoneColumns = 300.0 // Dobson units
	)
	ozoneDensity := ozoneColumns * dobson / ozoneWidth

	var rs, ms, me, ae, irr mgl64.Vec3
	for ch, l := range rgbLambdas {
		l4 := l * l * l * l
		rs[ch] = rayleighK / (l4 * 1e-12)
		me[ch] = mieBeta / mieH * math.Pow(l*1e-3, -p.MieAngstrom)
		ms[ch] = me[ch] * mieAlbedo
		ae[ch] = ozoneDensity * spectral(l, &ozoneCrossSection)
		irr[ch] = spectral(l, &solarIrradiance)
	}
	inf := math.Inf(1)
	return NewAtmosphere(Atmosphere{
		Bottom:           6.36e6,
		Top:              6.42e6,
		SunAngularRadius: 0.004675,
		Rayleigh: Rayleigh{
			Density:    MonoLayer(NewDensityLayer(0, 1, 0, 0, rayleighH)),
			Scattering: rs,
		},
		Mie: Mie{
			Density:    MonoLayer(NewDensityLayer(0, 1, 0, 0, mieH)),
			Scattering: ms,
			Extinction: me,
			G:          p.MieAnisotropy,
		},
		Absorption: Absorption{
			Density: TwoLayer(
				NewDensityLayer(ozoneTopAlt, 0, 1/ozoneWidth, -2.0/3, inf),
				NewDensityLayer(0, 0, -1/ozoneWidth, 8.0/3, inf),
			),
			Extinction: ae,
		},
		SolarIrradiance: irr,
		GroundAlbedo:    mgl64.Vec3{p.GroundAlbedo, p.GroundAlbedo, p.GroundAlbedo},
		MuSMin:          math.Cos(p.MaxSunZenithDeg * math.Pi / 180),
		Resolution:      res,
	})
}
