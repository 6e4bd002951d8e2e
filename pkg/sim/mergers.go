package sim

/**
 * SPDX-License-Identifier: MIT
 * Copyright 2026 the sage authors
 */

import (
	"math"

	"github.com/darrencroton/sage-sub001/pkg/cooling"
	"github.com/darrencroton/sage-sub001/pkg/galaxy"
)

// burst modes for collisionalStarburst.
const (
	burstModeMerger      = 0
	burstModeInstability = 1
)

// dealWithGalaxyMerger folds satellite p into its merger target:
// reservoirs combine, the black hole feeds, a starburst fires, and a
// major merger additionally sweeps the remnant disk into the bulge.
func (r *Run) dealWithGalaxyMerger(p, target, central int, time, dt float64, step int) {

	gal := r.arena.Gal

	mi := gal[p].StellarMass + gal[p].ColdGas
	ma := gal[target].StellarMass + gal[target].ColdGas

	massRatio := 1.0
	if ma > 0.0 {
		massRatio = mi / ma
	}
	if massRatio > 1.0 {
		massRatio = 1.0 / massRatio
	}

	r.addGalaxiesTogether(target, p)

	if r.par.Recipes.AGNrecipeOn > 0 {
		r.growBlackHole(target, massRatio)
	}

	r.collisionalStarburst(massRatio, target, central, dt, burstModeMerger, step)

	if massRatio > 0.1 {
		gal[target].TimeOfLastMinorMerger = time
	}

	if massRatio > r.par.Recipes.ThreshMajorMerger {
		r.makeBulgeFromBurst(target)
		gal[target].TimeOfLastMajorMerger = time
		gal[p].MergeType = galaxy.MergeMajor
	} else {
		gal[p].MergeType = galaxy.MergeMinor
	}

}

// addGalaxiesTogether pours every reservoir of satellite p into the
// target. Satellite stars always land in the target's bulge.
func (r *Run) addGalaxiesTogether(t, p int) {

	gal := r.arena.Gal
	to := &gal[t]
	from := &gal[p]

	to.ColdGas += from.ColdGas
	to.MetalsColdGas += from.MetalsColdGas

	to.StellarMass += from.StellarMass
	to.MetalsStellarMass += from.MetalsStellarMass
	to.BulgeMass += from.StellarMass
	to.MetalsBulgeMass += from.MetalsStellarMass

	to.HotGas += from.HotGas
	to.MetalsHotGas += from.MetalsHotGas

	to.EjectedMass += from.EjectedMass
	to.MetalsEjectedMass += from.MetalsEjectedMass

	to.ICS += from.ICS
	to.MetalsICS += from.MetalsICS

	to.BlackHoleMass += from.BlackHoleMass

	for step := 0; step < galaxy.Steps; step++ {
		to.SfrBulge[step] += from.SfrDisk[step] + from.SfrBulge[step]
		to.SfrBulgeColdGas[step] += from.SfrDiskColdGas[step] + from.SfrBulgeColdGas[step]
		to.SfrBulgeColdGasMetals[step] += from.SfrDiskColdGasMetals[step] + from.SfrBulgeColdGasMetals[step]
	}

}

// growBlackHole accretes cold gas onto the target's black hole, a la
// Kauffmann & Haehnelt (2000), and launches the quasar wind.
func (r *Run) growBlackHole(p int, massRatio float64) {

	g := &r.arena.Gal[p]

	if g.ColdGas <= 0.0 || g.Vvir <= 0.0 {
		return
	}

	accrete := r.par.Recipes.BlackHoleGrowthRate * massRatio /
		(1.0 + math.Pow(280.0/g.Vvir, 2.0)) * g.ColdGas
	if accrete > g.ColdGas {
		accrete = g.ColdGas
	}

	metallicity := galaxy.Metallicity(g.ColdGas, g.MetalsColdGas)
	g.ColdGas -= accrete
	g.MetalsColdGas -= metallicity * accrete
	g.BlackHoleMass += accrete

	r.quasarModeWind(p, accrete)

}

// quasarModeWind compares the wind energy of a quasar episode against
// the binding energy of the gas phases and blows out what it beats.
func (r *Run) quasarModeWind(p int, accreted float64) {

	g := &r.arena.Gal[p]

	quasarEnergy := r.par.Recipes.QuasarModeEfficiency * 0.1 * accreted *
		math.Pow(cooling.SpeedOfLight/r.par.Units.VelocityInCMPerS, 2.0)
	coldGasEnergy := 0.5 * g.ColdGas * g.Vvir * g.Vvir
	hotGasEnergy := 0.5 * g.HotGas * g.Vvir * g.Vvir

	if quasarEnergy > coldGasEnergy {
		g.EjectedMass += g.ColdGas
		g.MetalsEjectedMass += g.MetalsColdGas
		g.ColdGas = 0.0
		g.MetalsColdGas = 0.0
	}

	if quasarEnergy > coldGasEnergy+hotGasEnergy {
		g.EjectedMass += g.HotGas
		g.MetalsEjectedMass += g.MetalsHotGas
		g.HotGas = 0.0
		g.MetalsHotGas = 0.0
	}

	g.QuasarModeBHaccretionMass += accreted

}

// collisionalStarburst fires the Somerville et al. (2001) burst: a
// fraction of the cold gas forms stars at once, with the usual
// supernova loop on top. Burst stars count toward the bulge SFR.
func (r *Run) collisionalStarburst(massRatio float64, p, central int, dt float64, mode, step int) {

	gal := r.arena.Gal
	g := &gal[p]
	rec := &r.par.Recipes

	// the burst efficiency coefficients follow TJ Cox's thesis; disk
	// instabilities burst their unstable fraction directly
	var eburst float64
	if mode == burstModeInstability {
		eburst = massRatio
	} else {
		eburst = 0.56 * math.Pow(massRatio, 0.7)
	}

	stars := eburst * g.ColdGas
	if stars < 0.0 {
		stars = 0.0
	}

	var reheated float64
	if rec.SupernovaRecipeOn == 1 {
		reheated = rec.FeedbackReheatingEpsilon * stars
	}

	if stars+reheated > g.ColdGas && stars+reheated > 0.0 {
		fac := g.ColdGas / (stars + reheated)
		stars *= fac
		reheated *= fac
	}

	var ejected float64
	if rec.SupernovaRecipeOn == 1 && gal[central].Vvir > 0.0 {
		ejected = (rec.FeedbackEjectionEfficiency*
			(r.par.Derived.EtaSNcode*r.par.Derived.EnergySNcode)/
			(gal[central].Vvir*gal[central].Vvir) -
			rec.FeedbackReheatingEpsilon) * stars
		if ejected < 0.0 {
			ejected = 0.0
		}
	}

	g.SfrBulge[step] += stars / dt
	g.SfrBulgeColdGas[step] += g.ColdGas
	g.SfrBulgeColdGasMetals[step] += g.MetalsColdGas

	metallicity := galaxy.Metallicity(g.ColdGas, g.MetalsColdGas)
	r.updateFromStarFormation(p, stars, metallicity)

	metallicity = galaxy.Metallicity(g.ColdGas, g.MetalsColdGas)
	r.updateFromFeedback(p, central, reheated, ejected, metallicity)

	// new metals from the burst
	if g.ColdGas > 1.0e-8 && mode == burstModeMerger {
		fracLeave := rec.FracZleaveDisk * math.Exp(-1.0*gal[central].Mvir/30.0)
		g.MetalsColdGas += rec.Yield * (1.0 - fracLeave) * stars
		depositHotMetals(&gal[central], rec.Yield*fracLeave*stars)
	} else if mode == burstModeMerger {
		depositHotMetals(&gal[central], rec.Yield*stars)
	}

}

// makeBulgeFromBurst sweeps the whole remnant disk into the bulge
// after a major merger.
func (r *Run) makeBulgeFromBurst(p int) {

	g := &r.arena.Gal[p]

	g.BulgeMass = g.StellarMass
	g.MetalsBulgeMass = g.MetalsStellarMass

	for step := 0; step < galaxy.Steps; step++ {
		g.SfrBulge[step] += g.SfrDisk[step]
		g.SfrBulgeColdGas[step] += g.SfrDiskColdGas[step]
		g.SfrBulgeColdGasMetals[step] += g.SfrDiskColdGasMetals[step]
		g.SfrDisk[step] = 0.0
		g.SfrDiskColdGas[step] = 0.0
		g.SfrDiskColdGasMetals[step] = 0.0
	}

}

// disruptSatelliteToICS tears a satellite apart: stars join the
// central's intra-cluster light, gas returns to the hot and ejected
// phases, and the black hole sinks into the central's.
func (r *Run) disruptSatelliteToICS(central, p int) {

	gal := r.arena.Gal
	c := &gal[central]
	g := &gal[p]

	c.HotGas += g.ColdGas + g.HotGas
	c.MetalsHotGas += g.MetalsColdGas + g.MetalsHotGas

	c.EjectedMass += g.EjectedMass
	c.MetalsEjectedMass += g.MetalsEjectedMass

	c.ICS += g.ICS + g.StellarMass
	c.MetalsICS += g.MetalsICS + g.MetalsStellarMass

	c.BlackHoleMass += g.BlackHoleMass

	g.MergeType = galaxy.MergeDisrupted
	g.Type = galaxy.TypeMerged

}
