/**
 * SPDX-License-Identifier: MIT
 * Copyright 2026 the sage authors
 */
package main

import (
	"fmt"
	"os"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"

	"github.com/darrencroton/sage-sub001/pkg/memtrack"
	"github.com/darrencroton/sage-sub001/pkg/params"
	"github.com/darrencroton/sage-sub001/pkg/sim"
)

var runCmd = &cobra.Command{
	Use:   "run PARAMFILE",
	Short: "Evolve galaxies over the configured merger-tree files",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {

		path, err := homedir.Expand(args[0])
		if err != nil {
			log.Errorf("%v", err)
			os.Exit(1)
		}

		par, err := loadParams(path)
		if err != nil {
			log.Errorf("%v", err)
			os.Exit(1)
		}

		err = os.MkdirAll(par.Files.OutputDir, 0777)
		if err != nil {
			log.Errorf("%v", err)
			os.Exit(1)
		}

		mem := memtrack.New(log)

		err = sim.ProcessFiles(par, log, mem, flagWorkers)
		if err != nil {
			log.Errorf("%v", err)
			os.Exit(1)
		}

		if leaks := mem.ReportLeaks(); leaks > 0 {
			log.Warnf("finished with %d tracked blocks still live", leaks)
		}

		log.Printf("done")
	},
}

func loadParams(path string) (*params.Params, error) {

	par, err := params.Parse(path)
	if err != nil {
		return nil, err
	}

	// overrides fold in before defaults and validation, so a bad
	// override cannot half-apply
	for _, o := range flagOverride {
		expanded, err := homedir.Expand(o)
		if err != nil {
			return nil, err
		}
		err = par.MergeFile(expanded)
		if err != nil {
			return nil, fmt.Errorf("override %s: %w", o, err)
		}
	}

	err = par.Finish(log)
	if err != nil {
		return nil, err
	}

	return par, nil

}
