package sim

/**
 * SPDX-License-Identifier: MIT
 * Copyright 2026 the sage authors
 */

import (
	"errors"
	"fmt"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/darrencroton/sage-sub001/pkg/elog"
	"github.com/darrencroton/sage-sub001/pkg/galaxy"
	"github.com/darrencroton/sage-sub001/pkg/memtrack"
	"github.com/darrencroton/sage-sub001/pkg/mtree"
	"github.com/darrencroton/sage-sub001/pkg/params"
)

// HaloAux is the transient per-halo bookkeeping of one tree.
type HaloAux struct {
	DoneFlag    uint8 // traversal has constructed this halo's galaxies
	HaloFlag    uint8 // FOF stage: 0 untouched, 1 scheduled, 2 evolved
	NGalaxies   int32
	FirstGalaxy int32
}

// Run owns all mutable state for one input file: the tree source, the
// per-tree halo block and aux array, the galaxy arenas, and one
// catalogue writer per output snapshot. Runs never share state.
type Run struct {
	par *params.Params
	log elog.View
	mem *memtrack.Tracker

	fileNr int
	path   string
	src    mtree.Source

	writers map[int]*galaxy.CatalogueWriter

	// state of the tree being processed
	tree   int
	halos  []mtree.Halo
	aux    []HaloAux
	arena  *galaxy.Arena
	haloH  memtrack.Handle
	arenaH memtrack.Handle
}

// NewRun prepares a run for one input file. Nothing is opened yet.
func NewRun(par *params.Params, logger elog.View, mem *memtrack.Tracker, fileNr int) *Run {
	return &Run{
		par:    par,
		log:    logger,
		mem:    mem,
		fileNr: fileNr,
	}
}

func (r *Run) treePath() string {
	return filepath.Join(r.par.Files.SimulationDir,
		fmt.Sprintf("%s.%d", r.par.Files.TreeName, r.fileNr))
}

func (r *Run) cataloguePath(snap int) string {
	return filepath.Join(r.par.Files.OutputDir,
		fmt.Sprintf("%s_z%1.3f_%d", r.par.Files.FileNameGalaxies,
			r.par.Derived.ZZ[snap], r.fileNr))
}

// Execute processes every tree in the file and publishes the per-snapshot
// catalogues. On error nothing is published.
func (r *Run) Execute() error {

	r.path = r.treePath()

	if r.par.Files.TreeType != params.TreeTypeLHaloBinary {
		return &mtree.FormatError{Path: r.path, Tree: -1,
			Msg: fmt.Sprintf("tree type %q requires an external tree source", r.par.Files.TreeType)}
	}

	src, err := mtree.OpenBinary(r.path)
	if err != nil {
		return err
	}
	r.src = src
	defer func() {
		r.src.Close()
		r.src = nil
	}()

	r.writers = make(map[int]*galaxy.CatalogueWriter, len(r.par.Derived.OutputSnaps))
	defer func() {
		for _, w := range r.writers {
			if w != nil {
				w.Abort()
			}
		}
	}()
	for _, snap := range r.par.Derived.OutputSnaps {
		w, err := galaxy.NewCatalogueWriter(r.cataloguePath(snap), src.Ntrees())
		if err != nil {
			return err
		}
		r.writers[snap] = w
	}

	r.log.Infof("file %d: %d trees, %d halos", r.fileNr, src.Ntrees(), src.TotNHalos())
	progress := r.log.NewProgress(fmt.Sprintf("file %d", r.fileNr), "trees", int64(src.Ntrees()))

	for tree := 0; tree < src.Ntrees(); tree++ {
		err = r.processTree(tree)
		if err != nil {
			progress.Finish(false)
			return err
		}
		progress.Increment(1)
	}
	progress.Finish(true)

	for snap, w := range r.writers {
		err = w.Close()
		r.writers[snap] = nil
		if err != nil {
			return err
		}
	}

	return nil

}

// processTree loads one tree, walks it, and flushes its galaxies.
func (r *Run) processTree(tree int) error {

	halos, err := r.src.LoadTree(tree)
	if err != nil {
		return err
	}

	r.tree = tree
	r.halos = halos
	r.aux = make([]HaloAux, len(halos))
	r.arena = galaxy.NewArena(tree, len(halos))

	r.haloH = r.mem.Alloc("halo block", uint64(len(halos))*mtree.HaloSize)
	r.arenaH = r.mem.Alloc("galaxy arena",
		uint64(r.arena.MaxGals+len(r.arena.Gal))*uint64(galaxySize))
	defer func() {
		r.mem.Free(r.arenaH)
		r.mem.Free(r.haloH)
		r.halos = nil
		r.aux = nil
		r.arena = nil
	}()

	for halo := range r.halos {
		if r.aux[halo].DoneFlag == 0 {
			err = r.constructGalaxies(halo, 0)
			if err != nil {
				return err
			}
		}
	}

	err = r.checkCoverage()
	if err != nil {
		return err
	}

	return r.saveTree()

}

// galaxySize approximates one working record for the memory tracker.
const galaxySize = 1024

// checkCoverage asserts the traversal postcondition: every halo was
// constructed and every FOF root fully evolved.
func (r *Run) checkCoverage() error {
	for i := range r.halos {
		if r.aux[i].DoneFlag != 1 {
			return &InvariantError{File: r.path, Tree: r.tree, Halo: i, Substep: -1,
				Msg: "halo never constructed"}
		}
		if int32(i) == r.halos[i].FirstHaloInFOFgroup && r.aux[i].HaloFlag != 2 {
			return &InvariantError{File: r.path, Tree: r.tree, Halo: i, Substep: -1,
				Msg: "FOF root never evolved"}
		}
	}
	return nil
}

// ProcessFiles fans the configured file range out over at most workers
// concurrent runs. IOError and FormatError skip the affected file;
// kernel invariant violations and arena exhaustion abort the batch.
func ProcessFiles(par *params.Params, logger elog.View, mem *memtrack.Tracker, workers int) error {

	if workers < 1 {
		workers = 1
	}

	var group errgroup.Group
	group.SetLimit(workers)

	for fileNr := par.Files.FirstFile; fileNr <= par.Files.LastFile; fileNr++ {
		fileNr := fileNr
		group.Go(func() error {
			err := NewRun(par, logger, mem, fileNr).Execute()
			if err == nil {
				return nil
			}

			var ioErr *mtree.IOError
			var fmtErr *mtree.FormatError
			if errors.As(err, &ioErr) || errors.As(err, &fmtErr) {
				logger.Errorf("skipping file %d: %v", fileNr, err)
				return nil
			}
			return err
		})
	}

	return group.Wait()

}
