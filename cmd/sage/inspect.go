/**
 * SPDX-License-Identifier: MIT
 * Copyright 2026 the sage authors
 */
package main

import (
	"fmt"
	"os"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/sisatech/tablewriter"
	"github.com/spf13/cobra"

	"github.com/darrencroton/sage-sub001/pkg/mtree"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect TREEFILE",
	Short: "Summarize the contents of a merger-tree file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {

		path, err := homedir.Expand(args[0])
		if err != nil {
			log.Errorf("%v", err)
			os.Exit(1)
		}

		src, err := mtree.OpenBinary(path)
		if err != nil {
			log.Errorf("%v", err)
			os.Exit(1)
		}
		defer src.Close()

		fmt.Printf("Trees: %d\n", src.Ntrees())
		fmt.Printf("Halos: %d\n", src.TotNHalos())

		counts := src.HalosPerTree()
		largest := 0
		for i := range counts {
			if counts[i] > counts[largest] {
				largest = i
			}
		}
		fmt.Printf("Largest tree: %d (%d halos)\n\n", largest, counts[largest])

		table := tablewriter.NewWriter(os.Stdout)
		table.SetAlignment(tablewriter.ALIGN_LEFT)
		table.SetBorder(false)
		table.SetColumnSeparator("")
		table.SetHeader([]string{"TREE", "HALOS", "ROOTS", "SNAP RANGE"})

		limit := len(counts)
		if limit > 32 {
			limit = 32
		}
		for tree := 0; tree < limit; tree++ {
			halos, err := src.LoadTree(tree)
			if err != nil {
				log.Errorf("%v", err)
				os.Exit(1)
			}

			roots := 0
			minSnap, maxSnap := halos[0].SnapNum, halos[0].SnapNum
			for i := range halos {
				if halos[i].FirstHaloInFOFgroup == int32(i) {
					roots++
				}
				if halos[i].SnapNum < minSnap {
					minSnap = halos[i].SnapNum
				}
				if halos[i].SnapNum > maxSnap {
					maxSnap = halos[i].SnapNum
				}
			}

			table.Append([]string{
				fmt.Sprintf("%d", tree),
				fmt.Sprintf("%d", len(halos)),
				fmt.Sprintf("%d", roots),
				fmt.Sprintf("%d-%d", minSnap, maxSnap),
			})
		}

		table.Render()

		if limit < len(counts) {
			fmt.Printf("... %d more trees\n", len(counts)-limit)
		}
	},
}
