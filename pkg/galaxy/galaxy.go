// Package galaxy holds the galaxy data model: the in-progress record the
// evolution kernel mutates, the growable arenas that own those records,
// and the packed catalogue format written per output snapshot.
package galaxy

/**
 * SPDX-License-Identifier: MIT
 * Copyright 2026 the sage authors
 */

// Steps is the number of integration substeps per snapshot interval.
const Steps = 10

// Galaxy types.
const (
	TypeCentral   = 0 // central galaxy of its FOF root
	TypeSatellite = 1 // satellite still hosted by a resolved subhalo
	TypeOrphan    = 2 // satellite whose subhalo has dissolved
	TypeMerged    = 3 // inactive, already merged or disrupted
)

// Merger channels recorded in MergeType.
const (
	MergeNone      = 0
	MergeMinor     = 1
	MergeMajor     = 2
	MergeInstable  = 3 // reserved for the disk-instability channel
	MergeDisrupted = 4 // disrupted into intra-cluster stars
)

// Galaxy is the working record of one galaxy. The kernel refers to
// galaxies by integer index, never by pointer, so arena growth cannot
// invalidate anything user-visible.
type Galaxy struct {
	SnapNum int32
	Type    int32

	GalaxyNr   int32
	CentralGal int32
	HaloNr     int32

	MostBoundID int64

	MergeType        int32
	MergeIntoID      int32
	MergeIntoSnapNum int32
	DT               float64

	Pos [3]float32
	Vel [3]float32

	Len         int32
	Mvir        float64
	DeltaMvir   float64
	CentralMvir float64
	Rvir        float64
	Vvir        float64
	Vmax        float64

	// baryonic reservoirs
	ColdGas       float64
	StellarMass   float64
	BulgeMass     float64
	HotGas        float64
	EjectedMass   float64
	BlackHoleMass float64
	ICS           float64

	// metals in each reservoir
	MetalsColdGas     float64
	MetalsStellarMass float64
	MetalsBulgeMass   float64
	MetalsHotGas      float64
	MetalsEjectedMass float64
	MetalsICS         float64

	// star formation, per substep
	SfrDisk               [Steps]float64
	SfrBulge              [Steps]float64
	SfrDiskColdGas        [Steps]float64
	SfrDiskColdGasMetals  [Steps]float64
	SfrBulgeColdGas       [Steps]float64
	SfrBulgeColdGasMetals [Steps]float64

	DiskScaleRadius           float64
	MergTime                  float64
	Cooling                   float64
	Heating                   float64
	RHeat                     float64
	QuasarModeBHaccretionMass float64
	TimeOfLastMajorMerger     float64
	TimeOfLastMinorMerger     float64
	OutflowRate               float64
	TotalSatelliteBaryons     float64

	// halo properties at infall
	InfallMvir float64
	InfallVvir float64
	InfallVmax float64
}

// Metallicity is the mass fraction of metals in a gas reservoir, zero
// for an empty or degenerate reservoir.
func Metallicity(gas, metals float64) float64 {
	if gas > 0.0 && metals > 0.0 {
		return metals / gas
	}
	return 0.0
}
