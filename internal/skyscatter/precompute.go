package skyscatter

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Tables is the finished table set of one precomputation.
type Tables struct {
	Atm              *Atmosphere
	Transmittance    *TransmittanceTable
	DirectIrradiance *Grid2[mgl64.Vec3]
	// Irradiance is the indirect sky irradiance summed over orders 2..N.
	Irradiance *Grid2[mgl64.Vec3]
	// Scattering holds, per texel, rayleigh single scattering plus all higher
	// orders divided by the rayleigh phase in RGB, and the red single mie
	// scattering in A.
	Scattering *Grid3[mgl64.Vec4]
	// SingleMie is the full mie single scattering table.
	SingleMie *Grid3[mgl64.Vec3]
	Passes    *PassLog
}

// Precompute runs every pass for scattering orders 1..orders. Passes run
// strictly in sequence; each one is parallel over its texels.
func Precompute(atm *Atmosphere, orders int) (*Tables, error) {
	if atm == nil {
		return nil, fmt.Errorf("precompute: nil atmosphere")
	}
	if orders < 1 {
		return nil, fmt.Errorf("precompute: scattering orders must be >= 1, got %d", orders)
	}
	passes := &PassLog{}
	tab := &Tables{Atm: atm, Passes: passes}
	nx, ny, nz := atm.Resolution.Scattering.Size()
	ires := atm.Resolution.Irradiance
	DebugLog("Precomputing %d orders, scattering %dx%dx%d", orders, nx, ny, nz)

	tres := atm.Resolution.Transmittance
	passes.timed(PassTransmittance, 0, tres[0]*tres[1], func() Real {
		tab.Transmittance = ComputeTransmittance(atm)
		return meanLen3(tab.Transmittance.Grid.Buf)
	})
	tt := tab.Transmittance

	passes.timed(PassDirectIrradiance, 0, ires[0]*ires[1], func() Real {
		tab.DirectIrradiance = ComputeDirectIrradiance(tt)
		return meanLen3(tab.DirectIrradiance.Buf)
	})

	var rayleigh *Grid3[mgl64.Vec3]
	passes.timed(PassSingleScattering, 1, nx*ny*nz, func() Real {
		rayleigh, tab.SingleMie = ComputeSingleScattering(tt)
		return meanLen3(rayleigh.Buf)
	})
	tab.Scattering = NewGrid3[mgl64.Vec4](nx, ny, nz)
	for i, v := range rayleigh.Buf {
		tab.Scattering.Buf[i] = v.Vec4(tab.SingleMie.Buf[i][ChR])
	}
	tab.Irradiance = NewGrid2[mgl64.Vec3](ires[0], ires[1])

	if orders == 1 {
		return tab, nil
	}

	// Explicit double buffers: prev* are read during an order, next* written.
	var prevSource ScatteringSource = BaseOrder{Atm: atm, Rayleigh: rayleigh, Mie: tab.SingleMie}
	prevIrradiance := tab.DirectIrradiance.Clone()
	nextIrradiance := NewGrid2[mgl64.Vec3](ires[0], ires[1])
	density := NewGrid3[mgl64.Vec3](nx, ny, nz)
	prevDelta := NewGrid3[mgl64.Vec3](nx, ny, nz)
	nextDelta := NewGrid3[mgl64.Vec3](nx, ny, nz)

	for n := 2; n <= orders; n++ {
		passes.timed(PassIndirectIrradiance, n, nextIrradiance.Len(), func() Real {
			indirectIrradianceInto(nextIrradiance, atm, prevSource)
			return meanLen3(nextIrradiance.Buf)
		})
		passes.timed(PassScatteringDensity, n, density.Len(), func() Real {
			scatteringDensityInto(density, tt, prevSource, prevIrradiance)
			return meanLen3(density.Buf)
		})
		passes.timed(PassMultipleScattering, n, nextDelta.Len(), func() Real {
			multipleScatteringInto(nextDelta, tt, density)
			return meanLen3(nextDelta.Buf)
		})
		passes.timed(PassAccumulate, n, nextDelta.Len(), func() Real {
			accumulate(tab, nextDelta, nextIrradiance)
			return meanLen4(tab.Scattering.Buf)
		})

		prevDelta, nextDelta = nextDelta, prevDelta
		prevIrradiance, nextIrradiance = nextIrradiance, prevIrradiance
		prevSource = HigherOrder{Atm: atm, Table: prevDelta}
	}
	return tab, nil
}

// accumulate adds one order to the totals. Radiance is stored divided by the
// rayleigh phase of the texel, which the consumer applies again.
func accumulate(tab *Tables, delta *Grid3[mgl64.Vec3], irradiance *Grid2[mgl64.Vec3]) {
	atm := tab.Atm
	forEachTexel("accumulate", delta.Len(), func(i int) {
		s := atm.ScatteringTexel(delta.coords(i))
		add := delta.Buf[i].Mul(1 / RayleighPhase(s.Nu))
		tab.Scattering.Buf[i] = tab.Scattering.Buf[i].Add(add.Vec4(0))
	})
	for i, v := range irradiance.Buf {
		tab.Irradiance.Buf[i] = tab.Irradiance.Buf[i].Add(v)
	}
}
