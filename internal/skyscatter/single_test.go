package skyscatter

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestSingleScatteringZeroLengthRay(t *testing.T) {
	atm := testEarth(t, 0)
	tt := ComputeTransmittance(atm)
	ray, mie := tt.SingleScattering(ScatteringSample{R: atm.Top, Mu: 1, MuS: 0.5, Nu: 0.5})
	if ray != (mgl64.Vec3{}) || mie != (mgl64.Vec3{}) {
		t.Fatalf("looking out of the top got %v %v", ray, mie)
	}
}

func TestSingleScatteringNightSide(t *testing.T) {
	atm := testEarth(t, 0)
	tt := ComputeTransmittance(atm)
	ray, mie := tt.SingleScattering(ScatteringSample{R: atm.Bottom, Mu: 1, MuS: -0.5, Nu: -0.5})
	if ray != (mgl64.Vec3{}) || mie != (mgl64.Vec3{}) {
		t.Fatalf("sun far below the horizon got %v %v", ray, mie)
	}
}

func TestSingleScatteringBlueSky(t *testing.T) {
	atm := testEarth(t, 0)
	tt := ComputeTransmittance(atm)
	ray, mie := tt.SingleScattering(ScatteringSample{R: atm.Bottom, Mu: 1, MuS: 0.7, Nu: 0.7})
	if !(ray[ChB] > ray[ChG] && ray[ChG] > ray[ChR] && ray[ChR] > 0) {
		t.Fatalf("rayleigh should be blue, got %v", ray)
	}
	for ch := ChR; ch <= ChB; ch++ {
		if !(mie[ch] > 0) {
			t.Fatalf("mie channel %d = %v", ch, mie[ch])
		}
	}
}

func TestSingleScatteringGroundRayShorter(t *testing.T) {
	atm := testEarth(t, 0)
	tt := ComputeTransmittance(atm)
	r := atm.Bottom + 1000
	sky, _ := tt.SingleScattering(ScatteringSample{R: r, Mu: 0.05, MuS: 0.5, Nu: 0})
	down, _ := tt.SingleScattering(ScatteringSample{R: r, Mu: -0.9, MuS: 0.5, Nu: 0, IntersectsGround: true})
	if !(down[ChB] < sky[ChB]) {
		t.Fatalf("short ground ray should scatter less: down %v sky %v", down, sky)
	}
}

func TestComputeSingleScattering(t *testing.T) {
	atm := testEarth(t, 0)
	ray, mie := ComputeSingleScattering(ComputeTransmittance(atm))
	nx, ny, nz := atm.Resolution.Scattering.Size()
	if ray.Nx != nx || ray.Ny != ny || ray.Nz != nz || mie.Len() != ray.Len() {
		t.Fatalf("sizes %dx%dx%d %d", ray.Nx, ray.Ny, ray.Nz, mie.Len())
	}
	positive := 0
	for i := range ray.Buf {
		for ch := ChR; ch <= ChB; ch++ {
			for _, v := range []Real{ray.Buf[i][ch], mie.Buf[i][ch]} {
				if v < 0 || !isFinite(v) {
					t.Fatalf("texel %d: %v %v", i, ray.Buf[i], mie.Buf[i])
				}
			}
		}
		if ray.Buf[i][ChB] > 0 {
			positive++
		}
	}
	if positive == 0 {
		t.Fatal("no lit texels")
	}
}
