package skyscatter

import "math"

// RayleighPhase is the Rayleigh phase function for the view-sun cosine nu.
func RayleighPhase(nu Real) Real {
	k := 3 / (16 * math.Pi)
	return k * (1 + nu*nu)
}

// MiePhase is the Cornette-Shanks phase function with anisotropy g.
func MiePhase(nu, g Real) Real {
	k := 3 / (8 * math.Pi) * (1 - g*g) / (2 + g*g)
	return k * (1 + nu*nu) / math.Pow(1+g*g-2*g*nu, 1.5)
}
