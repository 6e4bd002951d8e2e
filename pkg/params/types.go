// Package params loads the model parameter file and derives from it the
// immutable run-wide quantities: code units, snapshot expansion factors,
// lookback times, and the resolved output snapshot set. A Params value
// is frozen after Load; the kernel never writes back into it.
package params

/**
 * SPDX-License-Identifier: MIT
 * Copyright 2026 the sage authors
 */

import (
	"github.com/darrencroton/sage-sub001/pkg/cooling"
)

// TreeType names for the files section.
const (
	TreeTypeLHaloBinary = "lhalo_binary"
	TreeTypeGenesisHDF5 = "genesis_lhalo_hdf5"
)

// Params is the full model parameter surface, one TOML file.
type Params struct {
	Files     FileSettings      `toml:"files"`
	Cosmology CosmologySettings `toml:"cosmology"`
	Units     UnitSettings      `toml:"units"`
	Recipes   RecipeSettings    `toml:"recipes"`
	Output    OutputSettings    `toml:"output"`

	Derived Derived `toml:"-"`
}

// FileSettings locates the input trees and names the outputs.
type FileSettings struct {
	FileNameGalaxies string `toml:"galaxies,omitempty"`
	OutputDir        string `toml:"output-dir,omitempty"`
	SimulationDir    string `toml:"simulation-dir,omitempty"`
	TreeName         string `toml:"tree-name,omitempty"`
	TreeType         string `toml:"tree-type,omitempty"`
	FileWithSnapList string `toml:"snap-list,omitempty"`
	FirstFile        int    `toml:"first-file,omitzero"`
	LastFile         int    `toml:"last-file,omitzero"`
}

// CosmologySettings is the background cosmology of the simulation the
// trees were grown in.
type CosmologySettings struct {
	Omega       float64 `toml:"omega,omitzero"`
	OmegaLambda float64 `toml:"omega-lambda,omitzero"`
	BaryonFrac  float64 `toml:"baryon-frac,omitzero"`
	HubbleH     float64 `toml:"hubble-h,omitzero"`
	PartMass    float64 `toml:"part-mass,omitzero"`
	BoxSize     float64 `toml:"box-size,omitzero"`
}

// UnitSettings define the internal code units in cgs.
type UnitSettings struct {
	LengthInCM       float64 `toml:"length-cm,omitzero"`
	MassInG          float64 `toml:"mass-g,omitzero"`
	VelocityInCMPerS float64 `toml:"velocity-cm-s,omitzero"`
}

// RecipeSettings switch and scale the physics modules.
type RecipeSettings struct {
	SFprescription    int `toml:"sf-prescription,omitzero"`
	AGNrecipeOn       int `toml:"agn-recipe,omitzero"`
	SupernovaRecipeOn int `toml:"supernova-recipe,omitzero"`
	ReionizationOn    int `toml:"reionization,omitzero"`
	DiskInstabilityOn int `toml:"disk-instability,omitzero"`

	SfrEfficiency              float64 `toml:"sfr-efficiency,omitzero"`
	FeedbackReheatingEpsilon   float64 `toml:"feedback-reheating-epsilon,omitzero"`
	FeedbackEjectionEfficiency float64 `toml:"feedback-ejection-efficiency,omitzero"`
	ReIncorporationFactor      float64 `toml:"reincorporation-factor,omitzero"`
	RadioModeEfficiency        float64 `toml:"radio-mode-efficiency,omitzero"`
	QuasarModeEfficiency       float64 `toml:"quasar-mode-efficiency,omitzero"`
	BlackHoleGrowthRate        float64 `toml:"black-hole-growth-rate,omitzero"`
	ThreshMajorMerger          float64 `toml:"thresh-major-merger,omitzero"`
	ThresholdSatDisruption     float64 `toml:"threshold-sat-disruption,omitzero"`
	Yield                      float64 `toml:"yield,omitzero"`
	RecycleFraction            float64 `toml:"recycle-fraction,omitzero"`
	FracZleaveDisk             float64 `toml:"frac-z-leave-disk,omitzero"`
	ReionizationZ0             float64 `toml:"reionization-z0,omitzero"`
	ReionizationZr             float64 `toml:"reionization-zr,omitzero"`
	EnergySN                   float64 `toml:"energy-sn,omitzero"`
	EtaSN                      float64 `toml:"eta-sn,omitzero"`
}

// OutputSettings pick the snapshots that produce catalogue files. An
// empty snapshot list means every snapshot up to the last.
type OutputSettings struct {
	LastSnapshot int   `toml:"last-snapshot,omitzero"`
	Snapshots    []int `toml:"snapshots,omitempty"`
}

// Derived holds everything computed once at startup. The AA/ZZ/Age
// tables are immutable after Load.
type Derived struct {
	UnitTimeInS          float64
	UnitTimeInMegayears  float64
	UnitDensityInCGS     float64
	UnitPressureInCGS    float64
	UnitCoolingRateInCGS float64
	UnitEnergyInCGS      float64

	G       float64 // gravitational constant, code units
	Hubble  float64 // H0, code units
	RhoCrit float64

	EnergySNcode float64
	EtaSNcode    float64

	AA  []float64 // expansion factor per snapshot
	ZZ  []float64 // redshift per snapshot
	Age []float64 // lookback time per snapshot, code units

	OutputSnaps []int

	Cosmo cooling.Cosmology
}
