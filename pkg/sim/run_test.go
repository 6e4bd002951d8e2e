package sim

/**
 * SPDX-License-Identifier: MIT
 * Copyright 2026 the sage authors
 */

import (
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darrencroton/sage-sub001/pkg/galaxy"
	"github.com/darrencroton/sage-sub001/pkg/memtrack"
	"github.com/darrencroton/sage-sub001/pkg/mtree"
	"github.com/darrencroton/sage-sub001/pkg/params"
)

func writeTestTree(t *testing.T, par *params.Params, fileNr int, trees [][]mtree.Halo) {
	t.Helper()
	path := filepath.Join(par.Files.SimulationDir,
		par.Files.TreeName+"."+string(rune('0'+fileNr)))
	require.NoError(t, mtree.WriteTrees(path, trees, mtree.WriterOptions{}))
}

func chainTree() []mtree.Halo {
	prog := selfRoot(0, 0)
	prog.Descendant = 1
	prog.Mvir = 0.4
	prog.Len = 80
	prog.Spin = [3]float32{0.01, 0, 0}
	prog.MostBoundID = 42

	root := selfRoot(1, 1)
	root.FirstProgenitor = 0
	root.Mvir = 0.5
	root.Len = 100
	root.Spin = [3]float32{0.01, 0, 0}
	root.MostBoundID = 42

	return []mtree.Halo{prog, root}
}

func TestExecuteEndToEnd(t *testing.T) {
	par := testParams(t, nil)
	writeTestTree(t, par, 0, [][]mtree.Halo{chainTree()})

	mem := memtrack.New(testLogger())
	require.NoError(t, NewRun(par, testLogger(), mem, 0).Execute())
	assert.Zero(t, mem.ReportLeaks())

	for snap, z := range map[int]string{0: "1.000", 1: "0.000"} {
		path := filepath.Join(par.Files.OutputDir, "model_z"+z+"_0")
		cat, err := galaxy.ReadCatalogue(path)
		require.NoError(t, err, "snapshot %d", snap)

		require.Len(t, cat.Records, 1)
		assert.Equal(t, []int32{1}, cat.TreeNgals)

		rec := cat.Records[0]
		assert.Equal(t, int32(snap), rec.SnapNum)
		assert.Equal(t, int32(galaxy.TypeCentral), rec.Type)
		assert.Equal(t, int32(galaxy.MergeNone), rec.MergeType)
		assert.Equal(t, int32(0), rec.SAGETreeIndex)
		assert.Equal(t, int64(42), rec.SimulationHaloIndex)

		index, err := galaxy.EncodeGalaxyIndex(0, 0, 0)
		require.NoError(t, err)
		assert.Equal(t, index, rec.GalaxyIndex)
		assert.Equal(t, index, rec.CentralGalaxyIndex)
	}
}

func TestProcessFilesSkipsMissing(t *testing.T) {
	par := testParams(t, func(p *params.Params) {
		p.Files.FirstFile = 0
		p.Files.LastFile = 1
	})
	writeTestTree(t, par, 0, [][]mtree.Halo{chainTree()})
	// file 1 never written

	err := ProcessFiles(par, testLogger(), memtrack.New(testLogger()), 2)
	require.NoError(t, err)

	_, err = galaxy.ReadCatalogue(filepath.Join(par.Files.OutputDir, "model_z0.000_0"))
	assert.NoError(t, err)
	_, err = galaxy.ReadCatalogue(filepath.Join(par.Files.OutputDir, "model_z0.000_1"))
	assert.Error(t, err)
}

func TestZeroTreesOpensNoOutputs(t *testing.T) {
	par := testParams(t, nil)

	// hand-craft a headered file claiming zero trees
	path := filepath.Join(par.Files.SimulationDir, "trees.0")
	buf := make([]byte, 20)
	binary.LittleEndian.PutUint32(buf[0:], mtree.Magic)
	buf[4] = mtree.Version
	require.NoError(t, os.WriteFile(path, buf, 0644))

	err := NewRun(par, testLogger(), memtrack.New(testLogger()), 0).Execute()
	var fmtErr *mtree.FormatError
	require.True(t, errors.As(err, &fmtErr))

	entries, err := filepath.Glob(filepath.Join(par.Files.OutputDir, "model_*"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestExecuteUnsupportedTreeType(t *testing.T) {
	par := testParams(t, func(p *params.Params) {
		p.Files.TreeType = params.TreeTypeGenesisHDF5
	})

	err := NewRun(par, testLogger(), memtrack.New(testLogger()), 0).Execute()
	var fmtErr *mtree.FormatError
	assert.True(t, errors.As(err, &fmtErr))
}
