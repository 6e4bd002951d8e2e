/**
 * SPDX-License-Identifier: MIT
 * Copyright 2026 the sage authors
 */
package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/darrencroton/sage-sub001/pkg/elog"
)

var log elog.View

var (
	flagJSON     bool
	flagVerbose  bool
	flagDebug    bool
	flagWorkers  int
	flagOverride []string
)

func commandInit() {

	// setup logging across all commands
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&flagDebug, "debug", "d", false, "enable debug output")
	rootCmd.PersistentFlags().BoolVarP(&flagJSON, "json", "j", false, "enable json output")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {

		logger := &elog.CLI{}

		if flagJSON {
			logger.DisableTTY = true
			logrus.SetFormatter(&logrus.JSONFormatter{})
		} else {
			logrus.SetFormatter(logger)
		}

		logrus.SetLevel(logrus.TraceLevel)

		if flagDebug {
			logger.IsDebug = true
			logger.IsVerbose = true
		} else if flagVerbose {
			logger.IsVerbose = true
		}

		log = logger
		return nil
	}

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(inspectCmd)

	addRunFlags(runCmd.Flags())
}

func addRunFlags(f *pflag.FlagSet) {
	f.IntVarP(&flagWorkers, "workers", "w", 1, "process up to this many input files concurrently")
	f.StringArrayVar(&flagOverride, "override", nil, "extra parameter file merged over the main one (repeatable)")
}

var rootCmd = &cobra.Command{
	Use:   "sage",
	Short: "Semi-analytic galaxy evolution over dark-matter merger trees",
	Long: `Evolves a population of galaxies over the merger trees of a
cosmological dark-matter simulation, writing one galaxy catalogue per
requested output snapshot.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "View version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("Version: %s\n", release)
		fmt.Printf("Ref: %s\n", commit)
		fmt.Printf("Released: %s\n", date)
	},
}
