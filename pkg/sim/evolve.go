package sim

/**
 * SPDX-License-Identifier: MIT
 * Copyright 2026 the sage authors
 */

import (
	"fmt"

	"github.com/darrencroton/sage-sub001/pkg/galaxy"
)

// evolveGalaxies integrates one FOF group from its progenitors'
// snapshot to the current one in fixed substeps. Each substep applies
// the physics pipeline over the working set in index order, then runs
// the merger/disruption stage over the same slice; mutations to the
// central are visible to later galaxies within the substep. Afterwards
// the accumulated energies convert to rates and the survivors attach to
// their halos in the persistent arena.
func (r *Run) evolveGalaxies(fofRoot, ngal int) error {

	if ngal == 0 {
		return nil
	}

	a := r.arena
	gal := a.Gal
	d := &r.par.Derived
	steps := float64(galaxy.Steps)

	central := int(gal[0].CentralGal)
	if central < 0 || central >= ngal ||
		gal[central].Type != galaxy.TypeCentral ||
		int(gal[central].HaloNr) != fofRoot {
		return &InvariantError{File: r.path, Tree: r.tree, Halo: fofRoot, Substep: -1,
			Msg: "FOF root has no usable central galaxy"}
	}

	deltaT := d.Age[gal[0].SnapNum] - d.Age[r.halos[fofRoot].SnapNum]
	if deltaT <= 0.0 {
		// a group born at this snapshot has no interval to integrate
		return r.attachGalaxies(ngal)
	}

	// the infall budget is settled once per evolve, not per substep
	infalling := r.infallRecipe(central, ngal, d.ZZ[r.halos[fofRoot].SnapNum])

	for step := 0; step < galaxy.Steps; step++ {

		for p := 0; p < ngal; p++ {
			g := &gal[p]
			if g.MergeType != galaxy.MergeNone || g.Type == galaxy.TypeMerged {
				continue
			}

			time := d.Age[gal[0].SnapNum] - (float64(step)+0.5)*(deltaT/steps)
			if g.DT < 0.0 {
				g.DT = deltaT
			}

			if p == central {
				r.addInfallToHot(central, infalling/steps)
				if r.par.Recipes.ReIncorporationFactor > 0.0 {
					r.reincorporateGas(central, deltaT/steps)
				}
			} else if g.Type == galaxy.TypeSatellite && g.HotGas > 0.0 {
				r.stripFromSatellite(fofRoot, central, p)
			}

			coolingGas := r.coolingRecipe(p, deltaT/steps)
			r.coolGasOntoGalaxy(p, coolingGas)

			r.starformationAndFeedback(p, central, time, deltaT/steps, step)
		}

		// satellite disruption and merger events
		for p := 0; p < ngal; p++ {
			g := &gal[p]
			if (g.Type != galaxy.TypeSatellite && g.Type != galaxy.TypeOrphan) ||
				g.MergeType != galaxy.MergeNone {
				continue
			}

			if g.MergTime > mergTimeMax {
				return &InvariantError{File: r.path, Tree: r.tree,
					Halo: int(g.HaloNr), Substep: step,
					Msg: "satellite carries no merger clock"}
			}

			g.MergTime -= deltaT / steps

			// the subhalo sheds mass linearly across the interval
			currentMvir := g.Mvir - g.DeltaMvir*(1.0-(float64(step)+1.0)/steps)
			galaxyBaryons := g.StellarMass + g.ColdGas

			if galaxyBaryons > 0.0 &&
				currentMvir/galaxyBaryons > r.par.Recipes.ThresholdSatDisruption {
				continue
			}

			target := central
			if g.Type == galaxy.TypeOrphan {
				target = int(g.CentralGal)
			}
			if target >= 0 && target < ngal && gal[target].MergeType != galaxy.MergeNone {
				target = int(gal[target].CentralGal)
			}
			if target < 0 || target >= ngal || gal[target].MergeType != galaxy.MergeNone {
				return &InvariantError{File: r.path, Tree: r.tree,
					Halo: int(g.HaloNr), Substep: step,
					Msg: fmt.Sprintf("galaxy %d has no live merger target", p)}
			}

			// provisional index into the output record space
			g.MergeIntoID = int32(a.NumGals + target)

			if g.MergTime > 0.0 {
				// the subhalo dissolved with time to spare: disruption
				r.disruptSatelliteToICS(target, p)
			} else {
				time := d.Age[gal[0].SnapNum] - (float64(step)+0.5)*(deltaT/steps)
				r.dealWithGalaxyMerger(p, target, central, time, deltaT/steps, step)
				g.Type = galaxy.TypeMerged
			}
		}

		err := r.checkReservoirs(ngal, step)
		if err != nil {
			return err
		}
	}

	// accumulated energies become rates exactly once, here
	for p := 0; p < ngal; p++ {
		gal[p].Cooling /= deltaT
		gal[p].Heating /= deltaT
		gal[p].OutflowRate /= deltaT
	}

	return r.attachGalaxies(ngal)

}

// checkReservoirs enforces the non-negativity invariant after every
// substep. The physics clamps everywhere, so a violation here is a
// kernel bug, not bad input.
func (r *Run) checkReservoirs(ngal, step int) error {

	const eps = 1e-8

	for p := 0; p < ngal; p++ {
		g := &r.arena.Gal[p]

		for _, v := range []struct {
			name        string
			gas, metals float64
		}{
			{"ColdGas", g.ColdGas, g.MetalsColdGas},
			{"StellarMass", g.StellarMass, g.MetalsStellarMass},
			{"BulgeMass", g.BulgeMass, g.MetalsBulgeMass},
			{"HotGas", g.HotGas, g.MetalsHotGas},
			{"EjectedMass", g.EjectedMass, g.MetalsEjectedMass},
			{"ICS", g.ICS, g.MetalsICS},
		} {
			if v.gas < 0.0 || v.metals < 0.0 {
				return &InvariantError{File: r.path, Tree: r.tree,
					Halo: int(g.HaloNr), Substep: step,
					Msg: fmt.Sprintf("galaxy %d has negative %s (%g, metals %g)",
						p, v.name, v.gas, v.metals)}
			}
			if v.metals > v.gas*(1.0+1e-6)+eps {
				return &InvariantError{File: r.path, Tree: r.tree,
					Halo: int(g.HaloNr), Substep: step,
					Msg: fmt.Sprintf("galaxy %d has more %s metals (%g) than mass (%g)",
						p, v.name, v.metals, v.gas)}
			}
		}

		if g.BlackHoleMass < 0.0 {
			return &InvariantError{File: r.path, Tree: r.tree,
				Halo: int(g.HaloNr), Substep: step,
				Msg: fmt.Sprintf("galaxy %d has negative BlackHoleMass", p)}
		}
	}

	return nil

}

// attachGalaxies is the back half of the output stage: survivors append
// to the persistent arena under their halo, and merged galaxies stamp
// their merger outcome onto their last persisted record so catalogue
// readers can rebuild the merger trees.
func (r *Run) attachGalaxies(ngal int) error {

	a := r.arena
	gal := a.Gal

	currentHalo := -1
	for p := 0; p < ngal; p++ {
		g := &gal[p]

		if int(g.HaloNr) != currentHalo {
			currentHalo = int(g.HaloNr)
			r.aux[currentHalo].FirstGalaxy = int32(a.NumGals)
			r.aux[currentHalo].NGalaxies = 0
		}

		if g.MergeType != galaxy.MergeNone {
			// merged galaxies are not emitted, so indices above them
			// shift down: the correction counts earlier casualties with
			// a greater target index. Satellites target the FOF central
			// and orphans the central of their own halo's slice, so one
			// evaluation can hold several distinct targets.
			offset := int32(0)
			for i := 0; i < p; i++ {
				if gal[i].MergeType != galaxy.MergeNone && gal[i].MergeIntoID > g.MergeIntoID {
					offset++
				}
			}

			hist := int(r.aux[currentHalo].FirstGalaxy) - 1
			for hist >= 0 && a.HaloGal[hist].GalaxyNr != g.GalaxyNr {
				hist--
			}
			if hist < 0 {
				return &InvariantError{File: r.path, Tree: r.tree,
					Halo: currentHalo, Substep: -1,
					Msg: fmt.Sprintf("merged galaxy %d has no persisted history", g.GalaxyNr)}
			}

			a.HaloGal[hist].MergeType = g.MergeType
			a.HaloGal[hist].MergeIntoID = g.MergeIntoID - offset
			a.HaloGal[hist].MergeIntoSnapNum = r.halos[currentHalo].SnapNum
			continue
		}

		g.SnapNum = r.halos[currentHalo].SnapNum
		_, err := a.Append(*g)
		if err != nil {
			return err
		}
		r.aux[currentHalo].NGalaxies++
	}

	return nil

}
