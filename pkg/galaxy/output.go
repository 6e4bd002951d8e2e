package galaxy

/**
 * SPDX-License-Identifier: MIT
 * Copyright 2026 the sage authors
 */

import (
	"fmt"
)

// Output is one persisted catalogue record, in the packed on-disk
// layout. The per-substep SFR arrays of the working record collapse to
// the four rate scalars here.
type Output struct {
	SnapNum int32
	Type    int32

	GalaxyIndex        int64
	CentralGalaxyIndex int64

	SAGEHaloIndex       int32
	SAGETreeIndex       int32
	SimulationHaloIndex int64

	MergeType        int32
	MergeIntoID      int32
	MergeIntoSnapNum int32
	DT               float32

	Pos  [3]float32
	Vel  [3]float32
	Spin [3]float32

	Len         int32
	Mvir        float32
	CentralMvir float32
	Rvir        float32
	Vvir        float32
	Vmax        float32
	VelDisp     float32

	ColdGas       float32
	StellarMass   float32
	BulgeMass     float32
	HotGas        float32
	EjectedMass   float32
	BlackHoleMass float32
	ICS           float32

	MetalsColdGas     float32
	MetalsStellarMass float32
	MetalsBulgeMass   float32
	MetalsHotGas      float32
	MetalsEjectedMass float32
	MetalsICS         float32

	SfrDisk   float32
	SfrBulge  float32
	SfrDiskZ  float32
	SfrBulgeZ float32

	DiskScaleRadius           float32
	Cooling                   float32
	Heating                   float32
	QuasarModeBHaccretionMass float32
	TimeOfLastMajorMerger     float32
	TimeOfLastMinorMerger     float32
	OutflowRate               float32

	InfallMvir float32
	InfallVvir float32
	InfallVmax float32
}

// GalaxyIndex multipliers. A galaxy number lives below the tree
// multiplier and a tree index below the file multiplier, so the triple
// packs into one collision-free long.
const (
	treeMul = 1000000
	fileMul = 1000000000000
)

// EncodeGalaxyIndex packs (file, tree, galaxyNr) into a unique long.
func EncodeGalaxyIndex(fileNr, tree int, galaxyNr int32) (int64, error) {
	if galaxyNr < 0 || int64(galaxyNr) >= treeMul {
		return 0, fmt.Errorf("galaxy number %d outside [0,%d)", galaxyNr, int64(treeMul))
	}
	if tree < 0 || int64(tree) >= fileMul/treeMul {
		return 0, fmt.Errorf("tree index %d outside [0,%d)", tree, int64(fileMul/treeMul))
	}
	if fileNr < 0 {
		return 0, fmt.Errorf("negative file number %d", fileNr)
	}
	return int64(galaxyNr) + treeMul*int64(tree) + fileMul*int64(fileNr), nil
}

// DecodeGalaxyIndex recovers the (file, tree, galaxyNr) triple.
func DecodeGalaxyIndex(index int64) (fileNr, tree int, galaxyNr int32) {
	fileNr = int(index / fileMul)
	index %= fileMul
	tree = int(index / treeMul)
	galaxyNr = int32(index % treeMul)
	return
}
