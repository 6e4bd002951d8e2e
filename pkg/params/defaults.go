package params

/**
 * SPDX-License-Identifier: MIT
 * Copyright 2026 the sage authors
 */

import (
	"github.com/darrencroton/sage-sub001/pkg/elog"
)

// WithDefaults sets default values for certain fields if they are not set
func WithDefaults(p *Params, logger elog.View) error {

	if p.Files.FileNameGalaxies == "" {
		p.Files.FileNameGalaxies = "model"
	}
	if p.Files.TreeType == "" {
		p.Files.TreeType = TreeTypeLHaloBinary
	}

	if p.Units.LengthInCM == 0 {
		logger.Debugf("using default length unit (Mpc/h)")
		p.Units.LengthInCM = 3.08568e24
	}
	if p.Units.MassInG == 0 {
		logger.Debugf("using default mass unit (1e10 Msun/h)")
		p.Units.MassInG = 1.989e43
	}
	if p.Units.VelocityInCMPerS == 0 {
		logger.Debugf("using default velocity unit (km/s)")
		p.Units.VelocityInCMPerS = 1.0e5
	}

	if p.Cosmology.BaryonFrac == 0 {
		p.Cosmology.BaryonFrac = 0.17
	}

	r := &p.Recipes
	if r.SfrEfficiency == 0 {
		r.SfrEfficiency = 0.05
	}
	if r.FeedbackReheatingEpsilon == 0 {
		r.FeedbackReheatingEpsilon = 3.0
	}
	if r.FeedbackEjectionEfficiency == 0 {
		r.FeedbackEjectionEfficiency = 0.3
	}
	if r.ReIncorporationFactor == 0 {
		r.ReIncorporationFactor = 0.15
	}
	if r.RadioModeEfficiency == 0 {
		r.RadioModeEfficiency = 0.08
	}
	if r.QuasarModeEfficiency == 0 {
		r.QuasarModeEfficiency = 0.005
	}
	if r.BlackHoleGrowthRate == 0 {
		r.BlackHoleGrowthRate = 0.015
	}
	if r.ThreshMajorMerger == 0 {
		r.ThreshMajorMerger = 0.3
	}
	if r.ThresholdSatDisruption == 0 {
		r.ThresholdSatDisruption = 1.0
	}
	if r.Yield == 0 {
		r.Yield = 0.025
	}
	if r.RecycleFraction == 0 {
		r.RecycleFraction = 0.43
	}
	if r.ReionizationZ0 == 0 {
		r.ReionizationZ0 = 8.0
	}
	if r.ReionizationZr == 0 {
		r.ReionizationZr = 7.0
	}
	if r.EnergySN == 0 {
		r.EnergySN = 1.0e51
	}
	if r.EtaSN == 0 {
		r.EtaSN = 5.0e-3
	}

	return nil

}
