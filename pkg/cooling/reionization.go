package cooling

/**
 * SPDX-License-Identifier: MIT
 * Copyright 2026 the sage authors
 */

import (
	"math"
)

// ReionizationModifier suppresses the baryon fraction of small halos
// after reionization, following the Gnedin (2000) filtering-mass model
// with the Kravtsov et al. (2004) Appendix B fitting formulas. z0 and
// zr bracket the epoch: overlap ends at z0, the medium is fully ionized
// by zr. mvir is in code mass units; the return value is in (0, 1].
func ReionizationModifier(c Cosmology, z0, zr, mvir, z float64) float64 {

	// alpha gives the best fit to the Gnedin data
	const alpha = 6.0
	const tvir = 1.0e4

	a := 1.0 / (1.0 + z)
	a0 := 1.0 / (1.0 + z0)
	ar := 1.0 / (1.0 + zr)

	var fOfA float64
	switch {
	case a <= a0:
		fOfA = 3.0 * a / ((2.0 + alpha) * (5.0 + 2.0*alpha)) * math.Pow(a/a0, alpha)
	case a < ar:
		fOfA = (3.0/a)*a0*a0*(1.0/(2.0+alpha)-2.0*math.Pow(a0/a, alpha/2.0)/(5.0+2.0*alpha)) +
			a*a/10.0 - (a0*a0/10.0)*(5.0-4.0*math.Pow(a0/a, 0.5))
	default:
		fOfA = (3.0 / a) * (a0*a0*(1.0/(2.0+alpha)-2.0*math.Pow(a0/a, alpha/2.0)/(5.0+2.0*alpha)) +
			(ar*ar/10.0)*(5.0-4.0*math.Pow(ar/a, 0.5)) -
			(a0*a0/10.0)*(5.0-4.0*math.Pow(a0/a, 0.5)) +
			a*ar/3.0 - (ar*ar/3.0)*(3.0-2.0*math.Pow(ar/a, -0.5)))
	}

	// filtering mass in units of 10^10 Msun/h; mu = 0.59 gives mu^-1.5 = 2.21
	mJeans := 25.0 * math.Pow(c.Omega, -0.5) * 2.21
	mFiltering := mJeans * math.Pow(fOfA, 1.5)

	// characteristic mass of a halo at virial temperature 10^4 K
	vChar := math.Sqrt(tvir / 36.0) // km/s
	omegaZ := c.Omega * (math.Pow(1.0+z, 3.0) /
		(c.Omega*math.Pow(1.0+z, 3.0) + c.OmegaLambda))
	xZ := omegaZ - 1.0
	deltaCritZ := 18.0*math.Pi*math.Pi + 82.0*xZ - 39.0*xZ*xZ
	hubbleZ := c.Hubble * math.Sqrt(c.Omega*math.Pow(1.0+z, 3.0)+c.OmegaLambda)

	mChar := vChar * vChar * vChar / (c.G * hubbleZ * math.Sqrt(0.5*deltaCritZ))

	massToUse := mFiltering
	if mChar > massToUse {
		massToUse = mChar
	}

	modifier := 1.0 / math.Pow(1.0+0.26*(massToUse/mvir), 3.0)
	return modifier

}
