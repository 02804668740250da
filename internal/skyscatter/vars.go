package skyscatter

import "github.com/go-gl/mathgl/mgl64"

type Real = float64

var (
	Debug   = false // set to true for per-pass progress output
	Workers = 0     // goroutines per pass, <= 0 means runtime.NumCPU()
	// Compile time checks that the texel types satisfy the grid element contract
	_ Texel[mgl64.Vec3] = mgl64.Vec3{}
	_ Texel[mgl64.Vec4] = mgl64.Vec4{}
	// and that both scattering sources can feed the higher order passes
	_ ScatteringSource = BaseOrder{}
	_ ScatteringSource = HigherOrder{}
)
