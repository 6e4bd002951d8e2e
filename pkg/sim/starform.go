package sim

/**
 * SPDX-License-Identifier: MIT
 * Copyright 2026 the sage authors
 */

import (
	"math"

	"github.com/darrencroton/sage-sub001/pkg/galaxy"
)

// starformationAndFeedback forms stars out of the cold disk above the
// Kauffmann (1996) surface-density threshold and runs the supernova
// loop: reheating into the central's hot halo and, when the wind energy
// allows, ejection out of it. New metals split between the disk and the
// central's hot phase.
func (r *Run) starformationAndFeedback(p, central int, time, dt float64, step int) {

	gal := r.arena.Gal
	g := &gal[p]
	rec := &r.par.Recipes

	var strdot float64
	if rec.SFprescription == 0 {
		// typical star-forming region is 3 disk scale lengths
		reff := 3.0 * g.DiskScaleRadius
		if g.Vvir > 0.0 && reff > 0.0 {
			tdyn := reff / g.Vvir
			coldCrit := 0.19 * g.Vvir * reff
			if g.ColdGas > coldCrit && tdyn > 0.0 {
				strdot = rec.SfrEfficiency * (g.ColdGas - coldCrit) / tdyn
			}
		}
	}

	stars := strdot * dt
	if stars < 0.0 {
		stars = 0.0
	}

	var reheated float64
	if rec.SupernovaRecipeOn == 1 {
		reheated = rec.FeedbackReheatingEpsilon * stars
	}

	// never consume more cold gas than exists
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

	g.SfrDisk[step] += stars / dt
	g.SfrDiskColdGas[step] = g.ColdGas
	g.SfrDiskColdGasMetals[step] = g.MetalsColdGas

	metallicity := galaxy.Metallicity(g.ColdGas, g.MetalsColdGas)
	r.updateFromStarFormation(p, stars, metallicity)

	metallicity = galaxy.Metallicity(g.ColdGas, g.MetalsColdGas)
	r.updateFromFeedback(p, central, reheated, ejected, metallicity)

	if rec.DiskInstabilityOn == 1 {
		r.checkDiskInstability(p, central, time, dt, step)
	}

	// instantaneous recycling of new metals, SN-II only
	if g.ColdGas > 1.0e-8 {
		fracLeave := rec.FracZleaveDisk * math.Exp(-1.0*gal[central].Mvir/30.0)
		g.MetalsColdGas += rec.Yield * (1.0 - fracLeave) * stars
		depositHotMetals(&gal[central], rec.Yield*fracLeave*stars)
	} else {
		depositHotMetals(&gal[central], rec.Yield*stars)
	}

}

// depositHotMetals adds freshly produced metals to a hot halo, capped
// at the gas that exists to carry them.
func depositHotMetals(c *galaxy.Galaxy, metals float64) {
	c.MetalsHotGas += metals
	if c.MetalsHotGas > c.HotGas {
		c.MetalsHotGas = c.HotGas
	}
}

// updateFromStarFormation locks the surviving fraction of the newly
// formed stars into the stellar reservoir.
func (r *Run) updateFromStarFormation(p int, stars, metallicity float64) {
	g := &r.arena.Gal[p]
	keep := (1.0 - r.par.Recipes.RecycleFraction) * stars

	g.ColdGas -= keep
	g.MetalsColdGas -= metallicity * keep
	g.StellarMass += keep
	g.MetalsStellarMass += metallicity * keep
}

// updateFromFeedback reheats cold gas into the central's hot halo and
// ejects hot gas out of it, clamped to what each reservoir holds.
func (r *Run) updateFromFeedback(p, central int, reheated, ejected, metallicity float64) {

	if r.par.Recipes.SupernovaRecipeOn != 1 {
		return
	}

	gal := r.arena.Gal
	g := &gal[p]
	c := &gal[central]

	if reheated > g.ColdGas {
		reheated = g.ColdGas
	}

	g.ColdGas -= reheated
	g.MetalsColdGas -= metallicity * reheated
	c.HotGas += reheated
	c.MetalsHotGas += metallicity * reheated

	if ejected > c.HotGas {
		ejected = c.HotGas
	}
	metallicityHot := galaxy.Metallicity(c.HotGas, c.MetalsHotGas)

	c.HotGas -= ejected
	c.MetalsHotGas -= metallicityHot * ejected
	c.EjectedMass += ejected
	c.MetalsEjectedMass += metallicityHot * ejected

	g.OutflowRate += reheated

}

// checkDiskInstability tests the Mo, Mao & White (1998) criterion and
// restores stability by moving excess disk stars to the bulge and
// bursting excess gas, feeding the black hole on the way.
func (r *Run) checkDiskInstability(p, central int, time, dt float64, step int) {

	g := &r.arena.Gal[p]
	d := &r.par.Derived

	diskmass := g.ColdGas + (g.StellarMass - g.BulgeMass)
	if diskmass <= 0.0 || g.Vmax <= 0.0 {
		return
	}

	mcrit := g.Vmax * g.Vmax * (3.0 * g.DiskScaleRadius) / d.G
	if diskmass <= mcrit {
		return
	}

	gasFraction := g.ColdGas / diskmass
	unstableGas := gasFraction * (diskmass - mcrit)
	unstableStars := (1.0 - gasFraction) * (diskmass - mcrit)

	if unstableStars > 0.0 {
		metallicity := galaxy.Metallicity(g.StellarMass-g.BulgeMass,
			g.MetalsStellarMass-g.MetalsBulgeMass)
		g.BulgeMass += unstableStars
		g.MetalsBulgeMass += metallicity * unstableStars
		if g.BulgeMass > g.StellarMass {
			g.BulgeMass = g.StellarMass
			g.MetalsBulgeMass = g.MetalsStellarMass
		}
	}

	if unstableGas > 0.0 && g.ColdGas > 0.0 {
		unstableGasFraction := unstableGas / g.ColdGas
		if r.par.Recipes.AGNrecipeOn > 0 {
			r.growBlackHole(p, unstableGasFraction)
		}
		r.collisionalStarburst(unstableGasFraction, p, central, dt, burstModeInstability, step)
	}

}
