package skyscatter

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestOpticalDepthConstantProfile(t *testing.T) {
	atm := testEarth(t, 0)
	flat := MonoLayer(NewDensityLayer(0, 0, 0, 1, 1))
	r := atm.Bottom + 1000
	for _, mu := range []Real{1, 0.5, 0.1} {
		want := atm.DistanceToTop(r, mu)
		if got := atm.OpticalDepth(r, mu, flat); !nearly(got, want, 1e-6*want) {
			t.Fatalf("mu=%v: got %v want path length %v", mu, got, want)
		}
	}
}

func TestOpticalDepthExponentialZenith(t *testing.T) {
	atm := testEarth(t, 0)
	const H = 8000.0
	p := MonoLayer(NewDensityLayer(0, 1, 0, 0, H))
	d := atm.Top - atm.Bottom
	want := H * (1 - math.Exp(-d/H))
	if got := atm.OpticalDepth(atm.Bottom, 1, p); !nearly(got, want, 1e-3*want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestTransmittanceTableMatchesDirect(t *testing.T) {
	atm := testEarth(t, 0)
	tt := ComputeTransmittance(atm)
	for y := 0; y < tt.Grid.Ny; y++ {
		for x := 0; x < tt.Grid.Nx; x++ {
			r, mu := atm.TransmittanceTexel(x, y)
			got, want := tt.Top(r, mu), atm.TransmittanceToTop(r, mu)
			if !got.ApproxEqualThreshold(want, 1e-6) {
				t.Fatalf("texel (%d,%d) r=%v mu=%v: table %v direct %v", x, y, r, mu, got, want)
			}
		}
	}
}

func TestTransmittanceRangeAndMonotone(t *testing.T) {
	base := testEarth(t, 0)
	prev := mgl64.Vec3{1, 1, 1}
	for _, k := range []Real{1, 2, 4} {
		a := *base
		a.Rayleigh.Scattering = base.Rayleigh.Scattering.Mul(k)
		atm, err := NewAtmosphere(a)
		if err != nil {
			t.Fatal(err)
		}
		tr := ComputeTransmittance(atm).Top(atm.Bottom, 1)
		for ch := ChR; ch <= ChB; ch++ {
			if !(tr[ch] > 0 && tr[ch] <= 1) {
				t.Fatalf("scale %v: channel %d = %v outside (0, 1]", k, ch, tr[ch])
			}
			if !(tr[ch] < prev[ch]) {
				t.Fatalf("scale %v: channel %d = %v did not decrease from %v", k, ch, tr[ch], prev[ch])
			}
		}
		prev = tr
	}
}

func TestTransmittanceBlueAttenuatedMore(t *testing.T) {
	atm := testEarth(t, 0)
	tr := atm.TransmittanceToTop(atm.Bottom, 0.2)
	if !(tr[ChB] < tr[ChG] && tr[ChG] < tr[ChR]) {
		t.Fatalf("expected red > green > blue, got %v", tr)
	}
	if got := atm.TransmittanceToTop(atm.Top, 1); got != (mgl64.Vec3{1, 1, 1}) {
		t.Fatalf("zero length path got %v", got)
	}
}

func TestTransmittanceBetween(t *testing.T) {
	atm := testEarth(t, 0)
	tt := ComputeTransmittance(atm)
	r := atm.Bottom + 2000
	if got := tt.Between(r, 0.3, 0, false); !got.ApproxEqualThreshold(mgl64.Vec3{1, 1, 1}, 1e-9) {
		t.Fatalf("zero distance got %v", got)
	}
	near, far := tt.Between(r, 0.3, 1000, false), tt.Between(r, 0.3, 20000, false)
	for ch := ChR; ch <= ChB; ch++ {
		if !(far[ch] < near[ch] && near[ch] <= 1 && far[ch] >= 0) {
			t.Fatalf("channel %d: near %v far %v", ch, near[ch], far[ch])
		}
	}
	down := tt.Between(r, -0.5, atm.DistanceToBottom(r, -0.5), true)
	for ch := ChR; ch <= ChB; ch++ {
		if !(down[ch] > 0 && down[ch] <= 1) {
			t.Fatalf("ground ray channel %d = %v", ch, down[ch])
		}
	}
}

func TestRatioTo1(t *testing.T) {
	got := ratioTo1(mgl64.Vec3{1, 0.5, 0.2}, mgl64.Vec3{0, 1, 0.1})
	if got != (mgl64.Vec3{0, 0.5, 1}) {
		t.Fatalf("got %v", got)
	}
}

func TestSunVisibility(t *testing.T) {
	atm := testEarth(t, 0)
	tt := ComputeTransmittance(atm)
	if got := tt.Sun(atm.Bottom, -0.3); got != (mgl64.Vec3{}) {
		t.Fatalf("sun below horizon got %v", got)
	}
	if got, want := tt.Sun(atm.Bottom, 1), tt.Top(atm.Bottom, 1); got != want {
		t.Fatalf("sun at zenith got %v want %v", got, want)
	}
	// the horizon splits the disc in half
	half := tt.Sun(atm.Bottom, 0)
	full := tt.Top(atm.Bottom, 0)
	if !half.ApproxEqualThreshold(full.Mul(0.5), 1e-9) {
		t.Fatalf("sun on horizon got %v want half of %v", half, full)
	}
}

func TestDirectIrradiance(t *testing.T) {
	atm := testEarth(t, 0)
	tt := ComputeTransmittance(atm)
	alpha := atm.SunAngularRadius
	if got := tt.DirectIrradiance(atm.Bottom, -2*alpha); got != (mgl64.Vec3{}) {
		t.Fatalf("set sun got %v", got)
	}
	want := mulv(atm.SolarIrradiance, tt.Top(atm.Top, 1))
	if got := tt.DirectIrradiance(atm.Top, 1); !got.ApproxEqualThreshold(want, 1e-12) {
		t.Fatalf("zenith sun at top got %v want %v", got, want)
	}
	// average cosine is continuous at both ends of the penumbra
	lo := tt.DirectIrradiance(atm.Bottom, -alpha)
	hi := tt.DirectIrradiance(atm.Bottom, alpha)
	edge := mulv(atm.SolarIrradiance, tt.Top(atm.Bottom, alpha)).Mul(alpha)
	if !lo.ApproxEqualThreshold(mgl64.Vec3{}, 1e-12) || !hi.ApproxEqualThreshold(edge, 1e-9) {
		t.Fatalf("penumbra ends got %v %v", lo, hi)
	}

	g := ComputeDirectIrradiance(tt)
	if g.Nx != atm.Resolution.Irradiance[0] || g.Ny != atm.Resolution.Irradiance[1] {
		t.Fatalf("size %dx%d", g.Nx, g.Ny)
	}
	for i, v := range g.Buf {
		for ch := ChR; ch <= ChB; ch++ {
			if v[ch] < 0 || !isFinite(v[ch]) {
				t.Fatalf("texel %d = %v", i, v)
			}
		}
	}
}
