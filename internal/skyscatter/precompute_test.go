package skyscatter

import (
	"reflect"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestPrecomputeSizesAtDetailZero(t *testing.T) {
	atm := testEarth(t, 0)
	tab, err := Precompute(atm, 1)
	if err != nil {
		t.Fatal(err)
	}
	if g := tab.Transmittance.Grid; g.Nx != 32 || g.Ny != 8 {
		t.Fatalf("transmittance %dx%d want 32x8", g.Nx, g.Ny)
	}
	if g := tab.Scattering; g.Nx != 4 || g.Ny != 16 || g.Nz != 4 {
		t.Fatalf("scattering %dx%dx%d want 4x16x4", g.Nx, g.Ny, g.Nz)
	}
	for _, g := range []*Grid2[mgl64.Vec3]{tab.DirectIrradiance, tab.Irradiance} {
		if g.Nx != 8 || g.Ny != 2 {
			t.Fatalf("irradiance %dx%d want 8x2", g.Nx, g.Ny)
		}
	}
	for i, v := range tab.Irradiance.Buf {
		if v != (mgl64.Vec3{}) {
			t.Fatalf("single order run has indirect irradiance at %d: %v", i, v)
		}
	}
	for i, v := range tab.Scattering.Buf {
		if v[ChA] != tab.SingleMie.Buf[i][ChR] {
			t.Fatalf("texel %d: alpha %v want single mie red %v", i, v[ChA], tab.SingleMie.Buf[i][ChR])
		}
	}
}

func TestPrecomputeRejectsBadInput(t *testing.T) {
	if _, err := Precompute(nil, 2); err == nil {
		t.Fatal("nil atmosphere accepted")
	}
	if _, err := Precompute(testEarth(t, 0), 0); err == nil {
		t.Fatal("zero orders accepted")
	}
}

func TestPrecomputePassSequence(t *testing.T) {
	tab, err := Precompute(testEarth(t, 0), 3)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		"transmittance", "direct-irradiance", "single-scattering[1]",
		"indirect-irradiance[2]", "scattering-density[2]", "multiple-scattering[2]", "accumulate[2]",
		"indirect-irradiance[3]", "scattering-density[3]", "multiple-scattering[3]", "accumulate[3]",
	}
	recs := tab.Passes.Records()
	if len(recs) != len(want) {
		t.Fatalf("got %d passes want %d", len(recs), len(want))
	}
	for i, r := range recs {
		if r.Name() != want[i] {
			t.Fatalf("pass %d is %s want %s", i, r.Name(), want[i])
		}
		if r.Texels <= 0 || r.Elapsed < 0 {
			t.Fatalf("pass %s: %+v", r.Name(), r)
		}
	}
}

func TestPrecomputeOrdersDiminish(t *testing.T) {
	tab, err := Precompute(testEarth(t, 0), 5)
	if err != nil {
		t.Fatal(err)
	}
	deltas := tab.Passes.ByKind(PassMultipleScattering)
	if len(deltas) != 4 {
		t.Fatalf("got %d multiple scattering passes", len(deltas))
	}
	for i := 1; i < len(deltas); i++ {
		prev, cur := deltas[i-1], deltas[i]
		if !(cur.Mean > 0) {
			t.Fatalf("order %d contributes nothing", cur.Order)
		}
		if cur.Mean > prev.Mean*1.05 {
			t.Fatalf("order %d mean %g exceeds order %d mean %g", cur.Order, cur.Mean, prev.Order, prev.Mean)
		}
	}
	totals := tab.Passes.ByKind(PassAccumulate)
	for i := 1; i < len(totals); i++ {
		if totals[i].Mean < totals[i-1].Mean {
			t.Fatalf("accumulated total shrank at order %d", totals[i].Order)
		}
	}
	for i, v := range tab.Irradiance.Buf {
		for ch := ChR; ch <= ChB; ch++ {
			if v[ch] < 0 || !isFinite(v[ch]) {
				t.Fatalf("irradiance texel %d = %v", i, v)
			}
		}
	}
}

func TestPrecomputeIndependentOfWorkers(t *testing.T) {
	atm := testEarth(t, 0)
	withWorkers(t, 1)
	one, err := Precompute(atm, 3)
	if err != nil {
		t.Fatal(err)
	}
	withWorkers(t, 4)
	four, err := Precompute(atm, 3)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(one.Scattering.Buf, four.Scattering.Buf) {
		t.Fatal("scattering differs between 1 and 4 workers")
	}
	if !reflect.DeepEqual(one.Irradiance.Buf, four.Irradiance.Buf) {
		t.Fatal("irradiance differs between 1 and 4 workers")
	}
}

func TestPassKindString(t *testing.T) {
	if PassAccumulate.String() != "accumulate" || PassKind(99).String() != "PassKind(99)" {
		t.Fatalf("got %s %s", PassAccumulate, PassKind(99))
	}
	r := PassRecord{Kind: PassScatteringDensity, Order: 4}
	if r.Name() != "scattering-density[4]" {
		t.Fatalf("got %s", r.Name())
	}
}
