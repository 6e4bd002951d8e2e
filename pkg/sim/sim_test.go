package sim

/**
 * SPDX-License-Identifier: MIT
 * Copyright 2026 the sage authors
 */

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/darrencroton/sage-sub001/pkg/elog"
	"github.com/darrencroton/sage-sub001/pkg/galaxy"
	"github.com/darrencroton/sage-sub001/pkg/memtrack"
	"github.com/darrencroton/sage-sub001/pkg/mtree"
	"github.com/darrencroton/sage-sub001/pkg/params"
)

func testLogger() elog.View {
	return &elog.CLI{DisableTTY: true}
}

// testParams builds a two-snapshot configuration (z = 1 and z = 0) with
// every feedback channel quiet unless the test switches it on.
func testParams(t *testing.T, mutate func(*params.Params)) *params.Params {
	t.Helper()

	dir := t.TempDir()
	snaplist := filepath.Join(dir, "snaplist.txt")
	require.NoError(t, os.WriteFile(snaplist, []byte("0.5 1.0\n"), 0644))

	p := new(params.Params)
	p.Files = params.FileSettings{
		FileNameGalaxies: "model",
		OutputDir:        dir,
		SimulationDir:    dir,
		TreeName:         "trees",
		FileWithSnapList: snaplist,
	}
	p.Cosmology = params.CosmologySettings{
		Omega:       0.25,
		OmegaLambda: 0.75,
		BaryonFrac:  0.17,
		HubbleH:     0.73,
		PartMass:    0.1,
		BoxSize:     62.5,
	}
	p.Output = params.OutputSettings{
		LastSnapshot: 1,
		Snapshots:    []int{0, 1},
	}

	if mutate != nil {
		mutate(p)
	}

	require.NoError(t, p.Finish(testLogger()))
	return p
}

// newTestRun wires a Run around an in-memory tree, bypassing file IO.
func newTestRun(par *params.Params, halos []mtree.Halo) *Run {
	r := NewRun(par, testLogger(), memtrack.New(testLogger()), 0)
	r.path = "synthetic"
	r.tree = 0
	r.halos = halos
	r.aux = make([]HaloAux, len(halos))
	r.arena = galaxy.NewArena(0, len(halos))
	return r
}

// seedGalaxy persists a galaxy under an already-evolved halo, the state
// a progenitor snapshot leaves behind.
func seedGalaxy(t *testing.T, r *Run, haloNr int, g galaxy.Galaxy) int32 {
	t.Helper()

	g.HaloNr = int32(haloNr)
	g.GalaxyNr = r.arena.NextGalaxyNr()
	g.SnapNum = r.halos[haloNr].SnapNum
	g.MergeIntoID = -1
	g.MergeIntoSnapNum = -1

	idx, err := r.arena.Append(g)
	require.NoError(t, err)

	if r.aux[haloNr].NGalaxies == 0 {
		r.aux[haloNr].FirstGalaxy = int32(idx)
	}
	r.aux[haloNr].NGalaxies++
	r.aux[haloNr].DoneFlag = 1
	r.aux[haloNr].HaloFlag = 2

	return g.GalaxyNr
}

func (r *Run) construct(t *testing.T) {
	t.Helper()
	for halo := range r.halos {
		if r.aux[halo].DoneFlag == 0 {
			require.NoError(t, r.constructGalaxies(halo, 0))
		}
	}
	require.NoError(t, r.checkCoverage())
}

// galaxyByNr finds a persisted galaxy by number, newest record first.
func galaxyByNr(r *Run, nr int32) *galaxy.Galaxy {
	for i := r.arena.NumGals - 1; i >= 0; i-- {
		if r.arena.HaloGal[i].GalaxyNr == nr {
			return &r.arena.HaloGal[i]
		}
	}
	return nil
}

func baryonsAtSnap(r *Run, snap int32) float64 {
	var sum float64
	for i := 0; i < r.arena.NumGals; i++ {
		g := &r.arena.HaloGal[i]
		if g.SnapNum != snap {
			continue
		}
		sum += g.ColdGas + g.StellarMass + g.HotGas + g.EjectedMass + g.BlackHoleMass + g.ICS
	}
	return sum
}

// selfRoot returns a FOF root with no links beyond itself.
func selfRoot(index, snap int32) mtree.Halo {
	return mtree.Halo{
		Descendant:          -1,
		FirstProgenitor:     -1,
		NextProgenitor:      -1,
		FirstHaloInFOFgroup: index,
		NextHaloInFOFgroup:  -1,
		SnapNum:             snap,
	}
}
