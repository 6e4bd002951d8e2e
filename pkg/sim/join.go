package sim

/**
 * SPDX-License-Identifier: MIT
 * Copyright 2026 the sage authors
 */

import (
	"math"

	"github.com/darrencroton/sage-sub001/pkg/galaxy"
)

// mergTimeUnset flags a galaxy with no merger clock. Any value above
// mergTimeMax counts as unset.
const (
	mergTimeUnset = 999.9
	mergTimeMax   = 999.0
)

// joinProgenitors inherits the galaxies of every progenitor of halo h
// into the working set, starting at slot ngalstart, and retypes them:
// the galaxies of the most massive occupied progenitor follow the halo,
// everything else becomes an orphan on a merger clock. Returns the new
// working-set length.
func (r *Run) joinProgenitors(h, ngalstart int) (int, error) {

	a := r.arena
	halo := &r.halos[h]
	fof := int(halo.FirstHaloInFOFgroup)

	// Most massive progenitor that actually contains a galaxy. The
	// first progenitor is not always the largest branch.
	firstOccupied := int(halo.FirstProgenitor)
	var lenOccMax int32
	for prog := halo.FirstProgenitor; prog >= 0; prog = r.halos[prog].NextProgenitor {
		if r.halos[prog].Len > lenOccMax && r.aux[prog].NGalaxies > 0 {
			lenOccMax = r.halos[prog].Len
			firstOccupied = int(prog)
		}
	}

	ngal := ngalstart

	for prog := int(halo.FirstProgenitor); prog >= 0; prog = int(r.halos[prog].NextProgenitor) {
		for i := int32(0); i < r.aux[prog].NGalaxies; i++ {

			err := a.EnsureWorking(ngal)
			if err != nil {
				return 0, err
			}

			g := &a.Gal[ngal]
			*g = a.HaloGal[r.aux[prog].FirstGalaxy+i]
			g.HaloNr = int32(h)
			g.DT = -1.0
			g.CentralMvir = r.virialMass(fof)

			// A progenitor shouldn't hand us a galaxy that has already
			// merged; drop it from further processing if it does.
			if g.MergeType != galaxy.MergeNone {
				g.Type = galaxy.TypeMerged
				ngal++
				continue
			}

			if g.Type == galaxy.TypeCentral || g.Type == galaxy.TypeSatellite {

				prevMvir, prevVvir, prevVmax := g.Mvir, g.Vvir, g.Vmax

				if prog == firstOccupied {
					// this galaxy follows the halo
					g.MostBoundID = halo.MostBoundID
					g.Pos = halo.Pos
					g.Vel = halo.Vel
					g.Len = halo.Len
					g.Vmax = float64(halo.Vmax)
					g.DeltaMvir = r.virialMass(h) - g.Mvir
					if r.virialMass(h) > g.Mvir {
						// Rvir and Vvir only ever grow
						g.Rvir = r.virialRadius(h)
						g.Vvir = r.virialVelocity(h)
					}
					g.Mvir = r.virialMass(h)

					g.Cooling = 0.0
					g.Heating = 0.0
					g.QuasarModeBHaccretionMass = 0.0
					g.OutflowRate = 0.0
					for step := 0; step < galaxy.Steps; step++ {
						g.SfrDisk[step] = 0.0
						g.SfrBulge[step] = 0.0
						g.SfrDiskColdGas[step] = 0.0
						g.SfrDiskColdGasMetals[step] = 0.0
						g.SfrBulgeColdGas[step] = 0.0
						g.SfrBulgeColdGasMetals[step] = 0.0
					}

					if h == fof {
						// a central galaxy
						g.MergeType = galaxy.MergeNone
						g.MergeIntoID = -1
						g.MergTime = mergTimeUnset
						g.DiskScaleRadius = r.diskRadius(h, g.Vvir, g.Rvir)
						g.Type = galaxy.TypeCentral
					} else {
						// a satellite still holding its subhalo
						g.MergeType = galaxy.MergeNone
						g.MergeIntoID = -1
						if g.Type == galaxy.TypeCentral || g.MergTime > mergTimeMax {
							// it just fell in, or never started a clock
							g.InfallMvir = prevMvir
							g.InfallVvir = prevVvir
							g.InfallVmax = prevVmax
							g.MergTime = r.estimateMergingTime(h, fof, ngal)
						}
						g.Type = galaxy.TypeSatellite
					}
				} else {
					// an orphan: its subhalo dissolved into this one,
					// so it merges or disrupts on the current clock
					g.DeltaMvir = -g.Mvir
					g.Mvir = 0.0
					if g.Type == galaxy.TypeCentral || g.MergTime > mergTimeMax {
						g.MergTime = 0.0
						g.InfallMvir = prevMvir
						g.InfallVvir = prevVvir
						g.InfallVmax = prevVmax
					}
					g.Type = galaxy.TypeOrphan
				}
			}

			ngal++
		}
	}

	// A FOF root with no inherited galaxy seeds a fresh one. Subhalos
	// never do; a galaxy born there could never be fed.
	if ngal == ngalstart && h == fof {
		err := a.EnsureWorking(ngal)
		if err != nil {
			return 0, err
		}
		r.initGalaxy(ngal, h)
		ngal++
	}

	central := int32(-1)
	for i := ngalstart; i < ngal; i++ {
		t := a.Gal[i].Type
		if t == galaxy.TypeCentral || t == galaxy.TypeSatellite {
			if central >= 0 {
				return 0, &InvariantError{File: r.path, Tree: r.tree, Halo: h, Substep: -1,
					Msg: "more than one central galaxy in halo"}
			}
			central = int32(i)
		}
	}
	for i := ngalstart; i < ngal; i++ {
		a.Gal[i].CentralGal = central
	}

	return ngal, nil

}

// initGalaxy seeds a fresh central in slot p for FOF root h.
func (r *Run) initGalaxy(p, h int) {

	halo := &r.halos[h]
	g := &r.arena.Gal[p]

	*g = galaxy.Galaxy{}

	g.Type = galaxy.TypeCentral
	g.GalaxyNr = r.arena.NextGalaxyNr()
	g.HaloNr = int32(h)
	g.CentralGal = int32(p)
	g.SnapNum = halo.SnapNum - 1
	if g.SnapNum < 0 {
		g.SnapNum = 0
	}

	g.MostBoundID = halo.MostBoundID
	g.Pos = halo.Pos
	g.Vel = halo.Vel
	g.Len = halo.Len

	g.Mvir = r.virialMass(h)
	g.DeltaMvir = 0.0
	g.CentralMvir = g.Mvir
	g.Rvir = r.virialRadius(h)
	g.Vvir = r.virialVelocity(h)
	g.Vmax = float64(halo.Vmax)
	g.DiskScaleRadius = r.diskRadius(h, g.Vvir, g.Rvir)

	g.MergeType = galaxy.MergeNone
	g.MergeIntoID = -1
	g.MergeIntoSnapNum = -1
	g.MergTime = mergTimeUnset
	g.DT = -1.0

	g.TimeOfLastMajorMerger = -1.0
	g.TimeOfLastMinorMerger = -1.0

	g.InfallMvir = -1.0
	g.InfallVvir = -1.0
	g.InfallVmax = -1.0

}

// estimateMergingTime is the dynamical-friction clock of Binney &
// Tremaine, started when a galaxy's halo falls into a larger one.
func (r *Run) estimateMergingTime(satHalo, motherHalo, p int) float64 {

	if satHalo == motherHalo {
		r.log.Debugf("tree %d: merging time requested for halo %d against itself", r.tree, satHalo)
		return -1.0
	}

	coulomb := math.Log(float64(r.halos[motherHalo].Len)/float64(r.halos[satHalo].Len) + 1.0)

	g := &r.arena.Gal[p]
	satelliteMass := r.virialMass(satHalo) + g.StellarMass + g.ColdGas
	satelliteRadius := r.virialRadius(motherHalo)

	if satelliteMass <= 0.0 || coulomb <= 0.0 {
		return -1.0
	}

	return 2.0 * 1.17 * satelliteRadius * satelliteRadius * r.virialVelocity(motherHalo) /
		(coulomb * r.par.Derived.G * satelliteMass)

}
