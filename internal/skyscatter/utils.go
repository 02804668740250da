package skyscatter

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

func isFinite(x Real) bool { return !math.IsInf(x, 0) && !math.IsNaN(x) }

func smoothstep(a, b, t Real) Real {
	x := mgl64.Clamp((t-a)/(b-a), 0, 1)
	return x * x * (3 - 2*x)
}

func clampCosine(mu Real) Real { return mgl64.Clamp(mu, -1, 1) }

// component-wise helpers, mgl64 only scales by scalars

func mulv(a, b mgl64.Vec3) mgl64.Vec3 { return mgl64.Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]} }

func expv(a mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{math.Exp(a[0]), math.Exp(a[1]), math.Exp(a[2])}
}
