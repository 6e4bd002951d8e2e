package sim

/**
 * SPDX-License-Identifier: MIT
 * Copyright 2026 the sage authors
 */

import (
	"github.com/darrencroton/sage-sub001/pkg/cooling"
	"github.com/darrencroton/sage-sub001/pkg/galaxy"
)

// infallRecipe balances the FOF group's baryon budget against the
// cosmic mean once per evolve call. Satellite ejecta and intra-cluster
// stars are handed to the central here; whatever the budget still
// misses rains onto the central's hot halo over the substeps.
func (r *Run) infallRecipe(central, ngal int, z float64) float64 {

	gal := r.arena.Gal
	c := &gal[central]

	var totStellar, totBH, totCold, totHot, totEjected, totICS, totSat float64

	for i := 0; i < ngal; i++ {
		g := &gal[i]

		totStellar += g.StellarMass
		totBH += g.BlackHoleMass
		totCold += g.ColdGas
		totHot += g.HotGas
		totEjected += g.EjectedMass
		totICS += g.ICS

		if i != central {
			totSat += g.StellarMass + g.BlackHoleMass + g.ColdGas + g.HotGas

			// satellite ejecta and ICS always belong to the central
			c.EjectedMass += g.EjectedMass
			c.MetalsEjectedMass += g.MetalsEjectedMass
			g.EjectedMass = 0.0
			g.MetalsEjectedMass = 0.0

			c.ICS += g.ICS
			c.MetalsICS += g.MetalsICS
			g.ICS = 0.0
			g.MetalsICS = 0.0
		}
	}

	c.TotalSatelliteBaryons = totSat

	modifier := 1.0
	if r.par.Recipes.ReionizationOn == 1 {
		modifier = cooling.ReionizationModifier(r.par.Derived.Cosmo,
			r.par.Recipes.ReionizationZ0, r.par.Recipes.ReionizationZr, c.Mvir, z)
	}

	return modifier*r.par.Cosmology.BaryonFrac*c.Mvir -
		(totStellar + totBH + totCold + totHot + totEjected + totICS)

}

// addInfallToHot applies one substep's infall to the central. A
// shrinking halo drains hot gas, metals pro rata, before the deficit
// eats into the ejected reservoir.
func (r *Run) addInfallToHot(central int, infall float64) {

	c := &r.arena.Gal[central]

	if infall < 0.0 && c.MetalsHotGas > 0.0 {
		metallicity := galaxy.Metallicity(c.HotGas, c.MetalsHotGas)
		c.MetalsHotGas += infall * metallicity
		if c.MetalsHotGas < 0.0 {
			c.MetalsHotGas = 0.0
		}
	}

	c.HotGas += infall

	if c.HotGas < 0.0 {
		c.EjectedMass += c.HotGas
		if c.EjectedMass < 0.0 {
			c.EjectedMass = 0.0
			c.MetalsEjectedMass = 0.0
		}
		c.HotGas = 0.0
		c.MetalsHotGas = 0.0
	}

}

// reincorporateGas returns ejected gas to the hot halo in deep enough
// potentials, on a timescale tied to the halo's dynamical time.
func (r *Run) reincorporateGas(central int, dt float64) {

	c := &r.arena.Gal[central]

	// SN wind speed 630 km/s; reincorporation needs an escape velocity
	// above V_SN/sqrt(2)
	vCrit := 445.48 * r.par.Recipes.ReIncorporationFactor

	if c.Vvir <= vCrit || c.Rvir <= 0.0 {
		return
	}

	reincorporated := (c.Vvir/vCrit - 1.0) * c.EjectedMass / (c.Rvir / c.Vvir) * dt
	if reincorporated > c.EjectedMass {
		reincorporated = c.EjectedMass
	}
	if reincorporated <= 0.0 {
		return
	}

	metallicity := galaxy.Metallicity(c.EjectedMass, c.MetalsEjectedMass)
	c.EjectedMass -= reincorporated
	c.MetalsEjectedMass -= metallicity * reincorporated
	c.HotGas += reincorporated
	c.MetalsHotGas += metallicity * reincorporated

}

// stripFromSatellite removes a substep's worth of the satellite's
// excess over its expected baryon budget and deposits it, metals and
// all, in the central's hot halo.
func (r *Run) stripFromSatellite(fofRoot, central, p int) {

	g := &r.arena.Gal[p]
	c := &r.arena.Gal[central]

	modifier := 1.0
	if r.par.Recipes.ReionizationOn == 1 {
		z := r.par.Derived.ZZ[r.halos[fofRoot].SnapNum]
		modifier = cooling.ReionizationModifier(r.par.Derived.Cosmo,
			r.par.Recipes.ReionizationZ0, r.par.Recipes.ReionizationZr, g.Mvir, z)
	}

	stripped := -1.0 * (modifier*r.par.Cosmology.BaryonFrac*g.Mvir -
		(g.StellarMass + g.ColdGas + g.HotGas + g.EjectedMass + g.BlackHoleMass + g.ICS)) /
		float64(galaxy.Steps)

	if stripped <= 0.0 {
		return
	}

	metallicity := galaxy.Metallicity(g.HotGas, g.MetalsHotGas)
	strippedMetals := stripped * metallicity
	if stripped > g.HotGas {
		stripped = g.HotGas
	}
	if strippedMetals > g.MetalsHotGas {
		strippedMetals = g.MetalsHotGas
	}

	g.HotGas -= stripped
	g.MetalsHotGas -= strippedMetals
	c.HotGas += stripped
	c.MetalsHotGas += strippedMetals

}
