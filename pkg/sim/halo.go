package sim

/**
 * SPDX-License-Identifier: MIT
 * Copyright 2026 the sage authors
 */

import (
	"math"
)

// virialMass prefers the spherical-overdensity estimate for FOF roots
// and falls back to particle count times particle mass for subhalos.
func (r *Run) virialMass(h int) float64 {
	halo := &r.halos[h]
	if int32(h) == halo.FirstHaloInFOFgroup && halo.Mvir >= 0.0 {
		return float64(halo.Mvir)
	}
	return float64(halo.Len) * r.par.Cosmology.PartMass
}

// virialRadius inverts the 200 rho_crit overdensity definition at the
// halo's snapshot redshift.
func (r *Run) virialRadius(h int) float64 {
	z := r.par.Derived.ZZ[r.halos[h].SnapNum]
	rhoCrit := r.par.Derived.Cosmo.RhoCritAt(z)
	fac := 1.0 / (200.0 * 4.0 / 3.0 * math.Pi * rhoCrit)
	return math.Cbrt(r.virialMass(h) * fac)
}

// virialVelocity is the circular velocity at the virial radius.
func (r *Run) virialVelocity(h int) float64 {
	rvir := r.virialRadius(h)
	if rvir <= 0.0 {
		return 0.0
	}
	return math.Sqrt(r.par.Derived.G * r.virialMass(h) / rvir)
}

// diskRadius follows the Mo, Mao & White (1998) spin-based scale
// radius, with a floor when the halo kinematics are degenerate.
func (r *Run) diskRadius(h int, vvir, rvir float64) float64 {
	if vvir > 0.0 && rvir > 0.0 {
		spin := r.halos[h].Spin
		mag := math.Sqrt(float64(spin[0])*float64(spin[0]) +
			float64(spin[1])*float64(spin[1]) +
			float64(spin[2])*float64(spin[2]))
		spinParameter := mag / (1.414 * vvir * rvir)
		return (spinParameter / 1.414) * rvir
	}
	return 0.1 * rvir
}
