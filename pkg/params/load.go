package params

/**
 * SPDX-License-Identifier: MIT
 * Copyright 2026 the sage authors
 */

import (
	"bufio"
	"fmt"
	"os"
	"strconv"

	"github.com/sisatech/toml"

	"github.com/darrencroton/sage-sub001/pkg/cooling"
	"github.com/darrencroton/sage-sub001/pkg/elog"
)

// ConfigError reports a bad or missing parameter; always fatal before
// any tree is loaded.
type ConfigError struct {
	Field string
	Msg   string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("parameter %s: %s", e.Field, e.Msg)
}

// Load reads a parameter file, applies defaults, validates, and
// computes the derived quantities. The returned Params is final.
func Load(path string, logger elog.View) (*Params, error) {

	p, err := Parse(path)
	if err != nil {
		return nil, err
	}

	err = p.Finish(logger)
	if err != nil {
		return nil, err
	}

	return p, nil

}

// Parse reads a parameter file without defaults or validation, so
// override files can still merge on top. Finish completes the load.
func Parse(path string) (*Params, error) {

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading parameter file: %w", err)
	}

	p := new(Params)
	err = toml.Unmarshal(data, p)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	return p, nil

}

// Finish applies defaults, validates, and computes derived quantities.
// The Params is immutable afterwards.
func (p *Params) Finish(logger elog.View) error {

	err := WithDefaults(p, logger)
	if err != nil {
		return err
	}

	err = p.Sanitize()
	if err != nil {
		return err
	}

	return p.finalize(logger)

}

// finalize computes code units, the snapshot tables and the resolved
// output set. Nothing here mutates after it returns.
func (p *Params) finalize(logger elog.View) error {

	d := &p.Derived

	d.UnitTimeInS = p.Units.LengthInCM / p.Units.VelocityInCMPerS
	d.UnitTimeInMegayears = d.UnitTimeInS / cooling.SecPerMegayear
	d.UnitDensityInCGS = p.Units.MassInG / (p.Units.LengthInCM * p.Units.LengthInCM * p.Units.LengthInCM)
	d.UnitPressureInCGS = p.Units.MassInG / p.Units.LengthInCM / (d.UnitTimeInS * d.UnitTimeInS)
	d.UnitCoolingRateInCGS = d.UnitPressureInCGS / d.UnitTimeInS
	d.UnitEnergyInCGS = p.Units.MassInG * p.Units.LengthInCM * p.Units.LengthInCM / (d.UnitTimeInS * d.UnitTimeInS)

	d.G = cooling.Gravity / (p.Units.LengthInCM * p.Units.LengthInCM * p.Units.LengthInCM) *
		p.Units.MassInG * d.UnitTimeInS * d.UnitTimeInS
	d.Hubble = cooling.HubbleCGS * d.UnitTimeInS

	d.EnergySNcode = p.Recipes.EnergySN / d.UnitEnergyInCGS * p.Cosmology.HubbleH
	d.EtaSNcode = p.Recipes.EtaSN * (p.Units.MassInG / cooling.SolarMass) / p.Cosmology.HubbleH

	d.Cosmo = cooling.Cosmology{
		Omega:       p.Cosmology.Omega,
		OmegaLambda: p.Cosmology.OmegaLambda,
		G:           d.G,
		Hubble:      d.Hubble,
	}
	d.RhoCrit = d.Cosmo.RhoCritAt(0.0)

	err := p.readSnapList()
	if err != nil {
		return err
	}

	d.ZZ = make([]float64, len(d.AA))
	d.Age = make([]float64, len(d.AA))
	for i, a := range d.AA {
		d.ZZ[i] = 1.0/a - 1.0
		d.Age[i] = d.Cosmo.TimeToPresent(d.ZZ[i])
	}

	if len(p.Output.Snapshots) == 0 {
		d.OutputSnaps = make([]int, p.Output.LastSnapshot+1)
		for i := range d.OutputSnaps {
			d.OutputSnaps[i] = i
		}
		logger.Debugf("no output snapshots listed, writing all %d", len(d.OutputSnaps))
	} else {
		d.OutputSnaps = append([]int(nil), p.Output.Snapshots...)
	}

	logger.Infof("loaded %d snapshot epochs, z = %.3f .. %.3f",
		len(d.AA), d.ZZ[0], d.ZZ[len(d.ZZ)-1])

	return nil

}

// readSnapList parses the expansion-factor list, one float per snapshot.
func (p *Params) readSnapList() error {

	f, err := os.Open(p.Files.FileWithSnapList)
	if err != nil {
		return fmt.Errorf("reading snapshot list: %w", err)
	}
	defer f.Close()

	var aa []float64
	scanner := bufio.NewScanner(f)
	scanner.Split(bufio.ScanWords)
	for scanner.Scan() {
		a, err := strconv.ParseFloat(scanner.Text(), 64)
		if err != nil {
			return &ConfigError{Field: "files.snap-list",
				Msg: fmt.Sprintf("bad expansion factor %q", scanner.Text())}
		}
		if a <= 0.0 || a > 1.0 {
			return &ConfigError{Field: "files.snap-list",
				Msg: fmt.Sprintf("expansion factor %g outside (0,1]", a)}
		}
		aa = append(aa, a)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading snapshot list: %w", err)
	}

	if len(aa) < p.Output.LastSnapshot+1 {
		return &ConfigError{Field: "files.snap-list",
			Msg: fmt.Sprintf("lists %d snapshots, last-snapshot is %d",
				len(aa), p.Output.LastSnapshot)}
	}

	p.Derived.AA = aa
	return nil

}
