package cooling

/**
 * SPDX-License-Identifier: MIT
 * Copyright 2026 the sage authors
 */

import (
	"math"
)

// Net cooling grid, collisional ionization equilibrium. Tracks run over
// [Fe/H] at fixed temperature spacing; values are log10 of the cooling
// function in erg cm^3 / s. The first track is metal-free gas.
const (
	logTempMin  = 4.0
	logTempStep = 0.25
	nTemp       = 19
	zSun        = 0.02
)

var tableFeH = [8]float64{-10.0, -3.0, -2.0, -1.5, -1.0, -0.5, 0.0, 0.5}

var tableLambda = [8][nTemp]float64{
	// [Fe/H] = -inf, pure H/He
	{-23.85, -21.85, -21.95, -22.10, -22.20, -22.25, -22.60, -22.85, -22.95,
		-23.05, -23.10, -23.10, -23.05, -23.00, -22.95, -22.90, -22.85, -22.75, -22.70},
	// [Fe/H] = -3.0
	{-23.80, -21.85, -21.90, -22.05, -22.15, -22.15, -22.45, -22.70, -22.85,
		-23.00, -23.05, -23.05, -23.00, -22.95, -22.95, -22.90, -22.80, -22.75, -22.65},
	// [Fe/H] = -2.0
	{-23.70, -21.80, -21.85, -21.95, -22.00, -21.95, -22.10, -22.40, -22.60,
		-22.80, -22.95, -23.00, -22.95, -22.90, -22.90, -22.85, -22.80, -22.70, -22.65},
	// [Fe/H] = -1.5
	{-23.60, -21.80, -21.80, -21.85, -21.85, -21.75, -21.85, -22.15, -22.40,
		-22.65, -22.85, -22.90, -22.90, -22.85, -22.85, -22.80, -22.75, -22.70, -22.60},
	// [Fe/H] = -1.0
	{-23.50, -21.75, -21.75, -21.70, -21.60, -21.50, -21.60, -21.90, -22.15,
		-22.45, -22.70, -22.80, -22.80, -22.80, -22.80, -22.75, -22.70, -22.65, -22.60},
	// [Fe/H] = -0.5
	{-23.35, -21.70, -21.65, -21.55, -21.40, -21.30, -21.40, -21.65, -21.95,
		-22.25, -22.50, -22.65, -22.70, -22.70, -22.70, -22.70, -22.65, -22.60, -22.55},
	// [Fe/H] = 0.0
	{-23.20, -21.65, -21.55, -21.40, -21.25, -21.15, -21.20, -21.45, -21.75,
		-22.05, -22.30, -22.50, -22.60, -22.65, -22.65, -22.65, -22.60, -22.55, -22.50},
	// [Fe/H] = +0.5
	{-23.05, -21.60, -21.45, -21.25, -21.10, -21.00, -21.05, -21.25, -21.55,
		-21.85, -22.15, -22.35, -22.50, -22.55, -22.60, -22.60, -22.55, -22.50, -22.45},
}

// Rate returns the net cooling function in erg cm^3 / s for gas at
// log10 temperature logTemp with metal mass fraction logZ (log10).
// Inputs outside the grid clamp to its edges.
func Rate(logTemp, logZ float64) float64 {

	feh := logZ - math.Log10(zSun)
	if logZ <= -10.0 {
		feh = tableFeH[0]
	}

	zi := 0
	for zi < len(tableFeH)-2 && tableFeH[zi+1] < feh {
		zi++
	}
	zf := (feh - tableFeH[zi]) / (tableFeH[zi+1] - tableFeH[zi])
	if zf < 0.0 {
		zf = 0.0
	}
	if zf > 1.0 {
		zf = 1.0
	}

	t := (logTemp - logTempMin) / logTempStep
	ti := int(t)
	if ti < 0 {
		ti = 0
	}
	if ti > nTemp-2 {
		ti = nTemp - 2
	}
	tf := t - float64(ti)
	if tf < 0.0 {
		tf = 0.0
	}
	if tf > 1.0 {
		tf = 1.0
	}

	lo := tableLambda[zi][ti]*(1.0-tf) + tableLambda[zi][ti+1]*tf
	hi := tableLambda[zi+1][ti]*(1.0-tf) + tableLambda[zi+1][ti+1]*tf
	logLambda := lo*(1.0-zf) + hi*zf

	return math.Pow(10.0, logLambda)

}
