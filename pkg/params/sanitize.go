package params

/**
 * SPDX-License-Identifier: MIT
 * Copyright 2026 the sage authors
 */

import (
	"fmt"
)

// Sanitize validates the parameter surface. It runs after defaults and
// before anything derived is computed.
func (p *Params) Sanitize() error {

	if p.Files.OutputDir == "" {
		return &ConfigError{Field: "files.output-dir", Msg: "required"}
	}
	if p.Files.SimulationDir == "" {
		return &ConfigError{Field: "files.simulation-dir", Msg: "required"}
	}
	if p.Files.TreeName == "" {
		return &ConfigError{Field: "files.tree-name", Msg: "required"}
	}
	if p.Files.FileWithSnapList == "" {
		return &ConfigError{Field: "files.snap-list", Msg: "required"}
	}
	if p.Files.TreeType != TreeTypeLHaloBinary && p.Files.TreeType != TreeTypeGenesisHDF5 {
		return &ConfigError{Field: "files.tree-type",
			Msg: fmt.Sprintf("unknown tree type %q", p.Files.TreeType)}
	}
	if p.Files.FirstFile < 0 || p.Files.LastFile < p.Files.FirstFile {
		return &ConfigError{Field: "files.first-file",
			Msg: fmt.Sprintf("bad file range [%d, %d]", p.Files.FirstFile, p.Files.LastFile)}
	}

	if p.Cosmology.Omega <= 0.0 || p.Cosmology.Omega > 1.0 {
		return &ConfigError{Field: "cosmology.omega",
			Msg: fmt.Sprintf("%g outside (0, 1]", p.Cosmology.Omega)}
	}
	if p.Cosmology.OmegaLambda < 0.0 || p.Cosmology.OmegaLambda > 1.0 {
		return &ConfigError{Field: "cosmology.omega-lambda",
			Msg: fmt.Sprintf("%g outside [0, 1]", p.Cosmology.OmegaLambda)}
	}
	if p.Cosmology.BaryonFrac <= 0.0 || p.Cosmology.BaryonFrac > 1.0 {
		return &ConfigError{Field: "cosmology.baryon-frac",
			Msg: fmt.Sprintf("%g outside (0, 1]", p.Cosmology.BaryonFrac)}
	}
	if p.Cosmology.HubbleH <= 0.0 {
		return &ConfigError{Field: "cosmology.hubble-h", Msg: "must be positive"}
	}
	if p.Cosmology.PartMass <= 0.0 {
		return &ConfigError{Field: "cosmology.part-mass", Msg: "must be positive"}
	}

	if p.Units.LengthInCM <= 0.0 || p.Units.MassInG <= 0.0 || p.Units.VelocityInCMPerS <= 0.0 {
		return &ConfigError{Field: "units", Msg: "units must be positive"}
	}

	r := &p.Recipes
	if r.SFprescription != 0 {
		return &ConfigError{Field: "recipes.sf-prescription",
			Msg: fmt.Sprintf("unknown prescription %d", r.SFprescription)}
	}
	if r.AGNrecipeOn < 0 || r.AGNrecipeOn > 3 {
		return &ConfigError{Field: "recipes.agn-recipe",
			Msg: fmt.Sprintf("%d outside [0, 3]", r.AGNrecipeOn)}
	}
	for _, flag := range []struct {
		name  string
		value int
	}{
		{"recipes.supernova-recipe", r.SupernovaRecipeOn},
		{"recipes.reionization", r.ReionizationOn},
		{"recipes.disk-instability", r.DiskInstabilityOn},
	} {
		if flag.value != 0 && flag.value != 1 {
			return &ConfigError{Field: flag.name,
				Msg: fmt.Sprintf("%d is not a boolean flag", flag.value)}
		}
	}
	if r.RecycleFraction < 0.0 || r.RecycleFraction >= 1.0 {
		return &ConfigError{Field: "recipes.recycle-fraction",
			Msg: fmt.Sprintf("%g outside [0, 1)", r.RecycleFraction)}
	}
	if r.ThreshMajorMerger <= 0.0 || r.ThreshMajorMerger > 1.0 {
		return &ConfigError{Field: "recipes.thresh-major-merger",
			Msg: fmt.Sprintf("%g outside (0, 1]", r.ThreshMajorMerger)}
	}
	if r.ThresholdSatDisruption < 0.0 {
		return &ConfigError{Field: "recipes.threshold-sat-disruption", Msg: "must not be negative"}
	}
	if r.FracZleaveDisk < 0.0 || r.FracZleaveDisk > 1.0 {
		return &ConfigError{Field: "recipes.frac-z-leave-disk",
			Msg: fmt.Sprintf("%g outside [0, 1]", r.FracZleaveDisk)}
	}
	if r.ReionizationZr > r.ReionizationZ0 {
		return &ConfigError{Field: "recipes.reionization-zr",
			Msg: "full-reionization redshift above overlap redshift"}
	}

	if p.Output.LastSnapshot < 0 {
		return &ConfigError{Field: "output.last-snapshot", Msg: "must not be negative"}
	}
	seen := make(map[int]bool, len(p.Output.Snapshots))
	for _, snap := range p.Output.Snapshots {
		if snap < 0 || snap > p.Output.LastSnapshot {
			return &ConfigError{Field: "output.snapshots",
				Msg: fmt.Sprintf("snapshot %d outside [0, %d]", snap, p.Output.LastSnapshot)}
		}
		if seen[snap] {
			return &ConfigError{Field: "output.snapshots",
				Msg: fmt.Sprintf("snapshot %d listed twice", snap)}
		}
		seen[snap] = true
	}

	return nil

}
