// Package cooling carries the cosmology and gas-physics tabulations the
// evolution kernel leans on: the Friedmann lookback integral, a
// metal-dependent net cooling grid, and the reionization baryon filter.
// Everything here is a pure function of its arguments; the kernel owns
// all mutable state.
package cooling

/**
 * SPDX-License-Identifier: MIT
 * Copyright 2026 the sage authors
 */

import (
	"math"
)

// Physical constants, cgs.
const (
	Gravity        = 6.672e-8
	SolarMass      = 1.989e33
	SpeedOfLight   = 2.9979e10
	ProtonMass     = 1.6726e-24
	Boltzmann      = 1.38066e-16
	HubbleCGS      = 3.2407789e-18 // h/sec
	SecPerMegayear = 3.155e13
	SecPerYear     = 3.155e7
)

// Cosmology bundles the background parameters in code units.
type Cosmology struct {
	Omega       float64
	OmegaLambda float64
	G           float64 // gravitational constant, code units
	Hubble      float64 // H0, code units
}

// LookbackIntegral evaluates the dimensionless Friedmann integral
//
//	int_{1/(1+z)}^{1} da / sqrt(Omega/a + (1-Omega-Lambda) + Lambda a^2)
//
// so that the lookback time to redshift z is the integral over Hubble.
func LookbackIntegral(z, omega, omegaLambda float64) float64 {
	af := 1.0 / (1.0 + z)
	f := func(a float64) float64 {
		return 1.0 / math.Sqrt(omega/a+(1.0-omega-omegaLambda)+omegaLambda*a*a)
	}
	return romberg(f, af, 1.0, 1e-8)
}

// TimeToPresent returns the lookback time from z to the present in code
// time units.
func (c Cosmology) TimeToPresent(z float64) float64 {
	return LookbackIntegral(z, c.Omega, c.OmegaLambda) / c.Hubble
}

// HubbleAt returns H(z) in code units.
func (c Cosmology) HubbleAt(z float64) float64 {
	zplus1 := 1.0 + z
	return c.Hubble * math.Sqrt(c.Omega*zplus1*zplus1*zplus1+
		(1.0-c.Omega-c.OmegaLambda)*zplus1*zplus1+c.OmegaLambda)
}

// RhoCritAt returns the critical density at redshift z in code units.
func (c Cosmology) RhoCritAt(z float64) float64 {
	h := c.HubbleAt(z)
	return 3.0 * h * h / (8.0 * math.Pi * c.G)
}

// romberg integrates f over [a, b] by successive trapezoid refinement
// with Richardson extrapolation, stopping at relative tolerance tol.
func romberg(f func(float64) float64, a, b, tol float64) float64 {
	const maxIter = 20

	var r [maxIter][maxIter]float64
	h := b - a
	r[0][0] = 0.5 * h * (f(a) + f(b))

	for i := 1; i < maxIter; i++ {
		h *= 0.5
		sum := 0.0
		for k := 1; k <= 1<<(i-1); k++ {
			sum += f(a + float64(2*k-1)*h)
		}
		r[i][0] = 0.5*r[i-1][0] + h*sum

		pow4 := 1.0
		for j := 1; j <= i; j++ {
			pow4 *= 4.0
			r[i][j] = r[i][j-1] + (r[i][j-1]-r[i-1][j-1])/(pow4-1.0)
		}

		if i > 2 && math.Abs(r[i][i]-r[i-1][i-1]) < tol*math.Abs(r[i][i]) {
			return r[i][i]
		}
	}

	return r[maxIter-1][maxIter-1]
}
