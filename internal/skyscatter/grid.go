package skyscatter

import (
	"fmt"
	"math"
)

// Texel is the element contract of a Grid: values that can be blended.
// mgl64.Vec3 and mgl64.Vec4 satisfy it as is.
type Texel[T any] interface {
	Add(T) T
	Mul(float64) T
}

// Grid2 is a dense row-major (y, x) table.
type Grid2[T Texel[T]] struct {
	Nx, Ny int
	Buf    []T
}

// NewGrid2 allocates a zero-initialized grid.
func NewGrid2[T Texel[T]](nx, ny int) *Grid2[T] {
	if nx <= 0 || ny <= 0 {
		panic(fmt.Sprintf("grid resolution must be positive, got %dx%d", nx, ny))
	}
	return &Grid2[T]{Nx: nx, Ny: ny, Buf: make([]T, nx*ny)}
}

func (g *Grid2[T]) idx(x, y int) int { return y*g.Nx + x }

func (g *Grid2[T]) At(x, y int) T { return g.Buf[g.idx(x, y)] }

func (g *Grid2[T]) Set(x, y int, v T) { g.Buf[g.idx(x, y)] = v }

// Len is the texel count.
func (g *Grid2[T]) Len() int { return len(g.Buf) }

// Clone returns an independent copy.
func (g *Grid2[T]) Clone() *Grid2[T] {
	c := &Grid2[T]{Nx: g.Nx, Ny: g.Ny, Buf: make([]T, len(g.Buf))}
	copy(c.Buf, g.Buf)
	return c
}

// Sample bilinearly interpolates at texture coordinates (u, v) in [0, 1].
// Texel centers sit at (i+0.5)/n; coordinates beyond the outer centers clamp.
func (g *Grid2[T]) Sample(u, v Real) T {
	x0, x1, fx := axis(u, g.Nx)
	y0, y1, fy := axis(v, g.Ny)
	a := g.At(x0, y0).Mul(1 - fx).Add(g.At(x1, y0).Mul(fx))
	b := g.At(x0, y1).Mul(1 - fx).Add(g.At(x1, y1).Mul(fx))
	return a.Mul(1 - fy).Add(b.Mul(fy))
}

// Grid3 is a dense row-major (z, y, x) table.
type Grid3[T Texel[T]] struct {
	Nx, Ny, Nz int
	Buf        []T
}

func NewGrid3[T Texel[T]](nx, ny, nz int) *Grid3[T] {
	if nx <= 0 || ny <= 0 || nz <= 0 {
		panic(fmt.Sprintf("grid resolution must be positive, got %dx%dx%d", nx, ny, nz))
	}
	return &Grid3[T]{Nx: nx, Ny: ny, Nz: nz, Buf: make([]T, nx*ny*nz)}
}

func (g *Grid3[T]) idx(x, y, z int) int { return (z*g.Ny+y)*g.Nx + x }

func (g *Grid3[T]) At(x, y, z int) T { return g.Buf[g.idx(x, y, z)] }

func (g *Grid3[T]) Set(x, y, z int, v T) { g.Buf[g.idx(x, y, z)] = v }

func (g *Grid3[T]) Len() int { return len(g.Buf) }

// coords recovers (x, y, z) from a flat index.
func (g *Grid3[T]) coords(i int) (x, y, z int) {
	x = i % g.Nx
	y = (i / g.Nx) % g.Ny
	z = i / (g.Nx * g.Ny)
	return
}

// Sample trilinearly interpolates at (u, v, w) in [0, 1].
func (g *Grid3[T]) Sample(u, v, w Real) T {
	x0, x1, fx := axis(u, g.Nx)
	y0, y1, fy := axis(v, g.Ny)
	z0, z1, fz := axis(w, g.Nz)
	lerpX := func(y, z int) T {
		return g.At(x0, y, z).Mul(1 - fx).Add(g.At(x1, y, z).Mul(fx))
	}
	lerpY := func(z int) T {
		return lerpX(y0, z).Mul(1 - fy).Add(lerpX(y1, z).Mul(fy))
	}
	return lerpY(z0).Mul(1 - fz).Add(lerpY(z1).Mul(fz))
}

// axis returns the two neighbouring indices along one axis and the blend weight.
// The scaled coordinate is shifted by half a texel and clamped to [0, n-1].
func axis(t Real, n int) (i0, i1 int, f Real) {
	x := t*Real(n) - 0.5
	if !(x > 0) { // also catches NaN
		return 0, 0, 0
	}
	if x >= Real(n-1) {
		return n - 1, n - 1, 0
	}
	fl := math.Floor(x)
	i0 = int(fl)
	return i0, i0 + 1, x - fl
}
