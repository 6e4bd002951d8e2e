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

// coolingRecipe computes how much of the hot halo condenses over dt,
// assuming an isothermal hot profile and the tabulated net cooling
// function. The AGN radio mode reduces the condensation when switched
// on. The energy accumulators fill here and convert to rates at output.
func (r *Run) coolingRecipe(p int, dt float64) float64 {

	g := &r.arena.Gal[p]
	d := &r.par.Derived

	if g.HotGas <= 0.0 || g.Vvir <= 0.0 || g.Rvir <= 0.0 {
		return 0.0
	}

	tcool := g.Rvir / g.Vvir
	temp := 35.9 * g.Vvir * g.Vvir // virial temperature in Kelvin

	logZ := -10.0
	if g.MetalsHotGas > 0.0 {
		logZ = math.Log10(g.MetalsHotGas / g.HotGas)
	}

	lambda := cooling.Rate(math.Log10(temp), logZ)
	x := cooling.ProtonMass * cooling.Boltzmann * temp / lambda // g cm^3
	x /= d.UnitDensityInCGS * d.UnitTimeInS                     // code units

	// isothermal density profile: rho(r) = rho0 / r^2
	rhoAtRcool := x / tcool * 0.885 // 0.885 = 3/2 mu, mu = 0.59
	rho0 := g.HotGas / (4.0 * math.Pi * g.Rvir)
	rcool := math.Sqrt(rho0 / rhoAtRcool)

	var coolingGas float64
	if rcool > g.Rvir {
		// infall-limited regime
		coolingGas = g.HotGas / tcool * dt
	} else {
		// hot-halo regime
		coolingGas = (g.HotGas / g.Rvir) * (rcool / (2.0 * tcool)) * dt
	}

	if coolingGas > g.HotGas {
		coolingGas = g.HotGas
	}
	if coolingGas < 0.0 {
		coolingGas = 0.0
	}

	if r.par.Recipes.AGNrecipeOn > 0 {
		coolingGas = r.agnHeating(coolingGas, p, dt, x, rcool)
	}

	if coolingGas > 0.0 {
		g.Cooling += 0.5 * coolingGas * g.Vvir * g.Vvir
	}

	return coolingGas

}

// agnHeating runs the radio-mode feedback loop: quiet black-hole
// accretion out of the hot phase offsets cooling, and the heated
// radius only ever ratchets outward.
func (r *Run) agnHeating(coolingGas float64, p int, dt, x, rcool float64) float64 {

	g := &r.arena.Gal[p]
	d := &r.par.Derived
	rec := &r.par.Recipes

	// past heating episodes keep their radius suppressed
	if g.RHeat < rcool {
		coolingGas = (1.0 - g.RHeat/rcool) * coolingGas
	} else {
		coolingGas = 0.0
	}

	if g.HotGas <= 0.0 {
		return coolingGas
	}

	var agnRate float64
	switch rec.AGNrecipeOn {
	case 2:
		// Bondi-Hoyle accretion
		agnRate = (2.5 * math.Pi * d.G) * (0.375 * 0.6 * x) * g.BlackHoleMass * rec.RadioModeEfficiency
	case 3:
		// cold cloud accretion, a trickle of the cooling flow
		if g.BlackHoleMass > 0.0001*g.Mvir*math.Pow(rcool/g.Rvir, 3.0) {
			agnRate = 0.0001 * coolingGas / dt
		}
	default:
		// empirical recipe scaled to the halo
		agnRate = rec.RadioModeEfficiency /
			(r.par.Units.MassInG / d.UnitTimeInS * cooling.SecPerYear / cooling.SolarMass) *
			(g.BlackHoleMass / 0.01) * math.Pow(g.Vvir/200.0, 3.0)
		if g.Mvir > 0.0 {
			agnRate *= (g.HotGas / g.Mvir) / 0.1
		}
	}

	// Eddington limit; 0.1 radiative efficiency
	eddRate := 1.3e38 * g.BlackHoleMass * 1e10 / r.par.Cosmology.HubbleH /
		(d.UnitEnergyInCGS / d.UnitTimeInS) / (0.1 * 9.0e10)
	if agnRate > eddRate {
		agnRate = eddRate
	}

	accreted := agnRate * dt
	if accreted > g.HotGas {
		accreted = g.HotGas
	}

	// 1.34e5 = sqrt(2 eta c^2), heating the gas back to virial
	coeff := math.Pow(1.34e5/g.Vvir, 2.0)
	heated := coeff * accreted
	if heated > coolingGas {
		accreted = coolingGas / coeff
		heated = coolingGas
	}

	metallicity := galaxy.Metallicity(g.HotGas, g.MetalsHotGas)
	g.BlackHoleMass += accreted
	g.HotGas -= accreted
	g.MetalsHotGas -= metallicity * accreted

	if g.RHeat < rcool && coolingGas > 0.0 {
		rHeatNew := (heated / coolingGas) * rcool
		if rHeatNew > g.RHeat {
			g.RHeat = rHeatNew
		}
	}

	if heated > 0.0 {
		g.Heating += 0.5 * heated * g.Vvir * g.Vvir
	}

	return coolingGas - heated

}

// coolGasOntoGalaxy moves condensed gas from the hot halo to the cold
// disk, metals riding along.
func (r *Run) coolGasOntoGalaxy(p int, coolingGas float64) {

	g := &r.arena.Gal[p]

	if coolingGas <= 0.0 {
		return
	}

	if coolingGas < g.HotGas {
		metallicity := galaxy.Metallicity(g.HotGas, g.MetalsHotGas)
		g.ColdGas += coolingGas
		g.MetalsColdGas += metallicity * coolingGas
		g.HotGas -= coolingGas
		g.MetalsHotGas -= metallicity * coolingGas
	} else {
		g.ColdGas += g.HotGas
		g.MetalsColdGas += g.MetalsHotGas
		g.HotGas = 0.0
		g.MetalsHotGas = 0.0
	}

}
