package skyscatter

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// DensityLayer is one piece of a DensityProfile:
// clamp(exp(-altitude/H)*Exponential + Linear*altitude + Constant, 0, 1).
type DensityLayer struct {
	Thickness   Real // altitude where the next layer takes over; ignored for the top layer
	Exponential Real
	Linear      Real // per meter
	Constant    Real
	InvH        Real // 1/H, zero for an infinite scale height
}

// NewDensityLayer builds a layer from a scale height in meters; H may be +Inf.
func NewDensityLayer(thickness, exponential, linear, constant, H Real) DensityLayer {
	if H == 0 || math.IsNaN(H) {
		panic("density layer scale height must be non-zero")
	}
	return DensityLayer{
		Thickness:   thickness,
		Exponential: exponential,
		Linear:      linear,
		Constant:    constant,
		InvH:        1 / H,
	}
}

// Density evaluates the layer at an altitude above the bottom boundary.
func (l DensityLayer) Density(altitude Real) Real {
	d := l.Exponential*math.Exp(-altitude*l.InvH) + l.Linear*altitude + l.Constant
	return mgl64.Clamp(d, 0, 1)
}

// DensityProfile is one or two layers; the lower layer applies below its thickness.
type DensityProfile struct {
	Layers [2]DensityLayer
}

// MonoLayer wraps a single layer; the empty lower layer has zero thickness and is never selected.
func MonoLayer(l DensityLayer) DensityProfile {
	return DensityProfile{Layers: [2]DensityLayer{NewDensityLayer(0, 0, 0, 0, 1), l}}
}

func TwoLayer(lower, upper DensityLayer) DensityProfile {
	return DensityProfile{Layers: [2]DensityLayer{lower, upper}}
}

func (p DensityProfile) Density(altitude Real) Real {
	if altitude < p.Layers[0].Thickness {
		return p.Layers[0].Density(altitude)
	}
	return p.Layers[1].Density(altitude)
}
