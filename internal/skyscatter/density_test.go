package skyscatter

import (
	"math"
	"testing"
)

func TestDensityLayerUnitAtGround(t *testing.T) {
	for _, H := range []Real{1, 1200, 8000, 1e9, math.Inf(1)} {
		l := NewDensityLayer(0, 1, 0, 0, H)
		if got := l.Density(0); got != 1 {
			t.Fatalf("H=%v: density at altitude 0 got %v want exactly 1", H, got)
		}
	}
}

func TestDensityLayerClamped(t *testing.T) {
	l := NewDensityLayer(0, 0, 1.0/1000, -1, math.Inf(1))
	cases := []struct{ alt, want Real }{
		{0, 0}, {500, 0}, {1500, 0.5}, {2000, 1}, {5000, 1},
	}
	for _, c := range cases {
		if got := l.Density(c.alt); !nearly(got, c.want, 1e-12) {
			t.Fatalf("altitude %v: got %v want %v", c.alt, got, c.want)
		}
	}
}

func TestDensityLayerExponential(t *testing.T) {
	l := NewDensityLayer(0, 1, 0, 0, 8000)
	if got := l.Density(8000); !nearly(got, math.Exp(-1), 1e-15) {
		t.Fatalf("got %v want %v", got, math.Exp(-1))
	}
}

func TestDensityProfileLayerSelection(t *testing.T) {
	// ozone-like tent: rises to 1 at 25 km, falls to 0 at 40 km
	p := TwoLayer(
		NewDensityLayer(25000, 0, 1.0/15000, -2.0/3, math.Inf(1)),
		NewDensityLayer(0, 0, -1.0/15000, 8.0/3, math.Inf(1)),
	)
	cases := []struct{ alt, want Real }{
		{0, 0}, {10000, 0}, {17500, 0.5}, {25000, 1}, {32500, 0.5}, {40000, 0}, {60000, 0},
	}
	for _, c := range cases {
		if got := p.Density(c.alt); !nearly(got, c.want, 1e-12) {
			t.Fatalf("altitude %v: got %v want %v", c.alt, got, c.want)
		}
	}
}

func TestMonoLayerUsesUpper(t *testing.T) {
	p := MonoLayer(NewDensityLayer(0, 1, 0, 0, 1200))
	if got := p.Density(0); got != 1 {
		t.Fatalf("got %v want 1", got)
	}
}

func TestDensityLayerZeroH(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for H == 0")
		}
	}()
	_ = NewDensityLayer(0, 1, 0, 0, 0)
}
