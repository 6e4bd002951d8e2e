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

// saveTree distributes the tree's persisted galaxies over the
// per-snapshot catalogue writers, in arena order so the stamped merger
// indices stay meaningful to readers.
func (r *Run) saveTree() error {

	a := r.arena

	for _, snap := range r.par.Derived.OutputSnaps {
		w := r.writers[snap]

		var records []galaxy.Output
		for i := 0; i < a.NumGals; i++ {
			g := &a.HaloGal[i]
			if int(g.SnapNum) != snap {
				continue
			}
			rec, err := r.prepareOutput(g)
			if err != nil {
				return err
			}
			records = append(records, rec)
		}

		err := w.AppendTree(r.tree, records)
		if err != nil {
			return err
		}
	}

	return nil

}

// prepareOutput converts a working record into the packed catalogue
// layout: SFR arrays collapse to rates in Msun/yr, energies go out as
// log10 cgs rates, times in Megayears.
func (r *Run) prepareOutput(g *galaxy.Galaxy) (galaxy.Output, error) {

	d := &r.par.Derived
	halo := &r.halos[g.HaloNr]
	steps := float64(galaxy.Steps)

	var o galaxy.Output

	o.SnapNum = g.SnapNum
	o.Type = g.Type

	index, err := galaxy.EncodeGalaxyIndex(r.fileNr, r.tree, g.GalaxyNr)
	if err != nil {
		return o, &InvariantError{File: r.path, Tree: r.tree,
			Halo: int(g.HaloNr), Substep: -1, Msg: err.Error()}
	}
	o.GalaxyIndex = index

	centralNr := g.GalaxyNr
	fof := halo.FirstHaloInFOFgroup
	if r.aux[fof].NGalaxies > 0 {
		centralNr = r.arena.HaloGal[r.aux[fof].FirstGalaxy].GalaxyNr
	}
	o.CentralGalaxyIndex, err = galaxy.EncodeGalaxyIndex(r.fileNr, r.tree, centralNr)
	if err != nil {
		return o, &InvariantError{File: r.path, Tree: r.tree,
			Halo: int(g.HaloNr), Substep: -1, Msg: err.Error()}
	}

	o.SAGEHaloIndex = g.HaloNr
	o.SAGETreeIndex = int32(r.tree)
	o.SimulationHaloIndex = halo.MostBoundID
	if o.SimulationHaloIndex < 0 {
		o.SimulationHaloIndex = -o.SimulationHaloIndex
	}

	o.MergeType = g.MergeType
	o.MergeIntoID = g.MergeIntoID
	o.MergeIntoSnapNum = g.MergeIntoSnapNum
	o.DT = float32(g.DT * d.UnitTimeInMegayears)

	o.Pos = g.Pos
	o.Vel = g.Vel
	o.Spin = halo.Spin

	o.Len = g.Len
	o.Mvir = float32(g.Mvir)
	o.CentralMvir = float32(g.CentralMvir)
	o.Rvir = float32(g.Rvir)
	o.Vvir = float32(g.Vvir)
	o.Vmax = float32(g.Vmax)
	o.VelDisp = halo.VelDisp

	o.ColdGas = float32(g.ColdGas)
	o.StellarMass = float32(g.StellarMass)
	o.BulgeMass = float32(g.BulgeMass)
	o.HotGas = float32(g.HotGas)
	o.EjectedMass = float32(g.EjectedMass)
	o.BlackHoleMass = float32(g.BlackHoleMass)
	o.ICS = float32(g.ICS)

	o.MetalsColdGas = float32(g.MetalsColdGas)
	o.MetalsStellarMass = float32(g.MetalsStellarMass)
	o.MetalsBulgeMass = float32(g.MetalsBulgeMass)
	o.MetalsHotGas = float32(g.MetalsHotGas)
	o.MetalsEjectedMass = float32(g.MetalsEjectedMass)
	o.MetalsICS = float32(g.MetalsICS)

	// average the substep SFRs into Msun/yr
	sfrUnit := r.par.Units.MassInG / d.UnitTimeInS * cooling.SecPerYear / cooling.SolarMass
	var sfrDisk, sfrBulge, diskZ, bulgeZ float64
	for step := 0; step < galaxy.Steps; step++ {
		sfrDisk += g.SfrDisk[step] / steps
		sfrBulge += g.SfrBulge[step] / steps
		if g.SfrDiskColdGas[step] > 0.0 {
			diskZ += g.SfrDiskColdGasMetals[step] / g.SfrDiskColdGas[step] / steps
		}
		if g.SfrBulgeColdGas[step] > 0.0 {
			bulgeZ += g.SfrBulgeColdGasMetals[step] / g.SfrBulgeColdGas[step] / steps
		}
	}
	o.SfrDisk = float32(sfrDisk * sfrUnit)
	o.SfrBulge = float32(sfrBulge * sfrUnit)
	o.SfrDiskZ = float32(diskZ)
	o.SfrBulgeZ = float32(bulgeZ)

	o.DiskScaleRadius = float32(g.DiskScaleRadius)

	if g.Cooling > 0.0 {
		o.Cooling = float32(math.Log10(g.Cooling * d.UnitEnergyInCGS / d.UnitTimeInS))
	}
	if g.Heating > 0.0 {
		o.Heating = float32(math.Log10(g.Heating * d.UnitEnergyInCGS / d.UnitTimeInS))
	}

	o.QuasarModeBHaccretionMass = float32(g.QuasarModeBHaccretionMass)
	o.TimeOfLastMajorMerger = float32(g.TimeOfLastMajorMerger * d.UnitTimeInMegayears)
	o.TimeOfLastMinorMerger = float32(g.TimeOfLastMinorMerger * d.UnitTimeInMegayears)
	o.OutflowRate = float32(g.OutflowRate * sfrUnit)

	o.InfallMvir = float32(g.InfallMvir)
	o.InfallVvir = float32(g.InfallVvir)
	o.InfallVmax = float32(g.InfallVmax)

	return o, nil

}
