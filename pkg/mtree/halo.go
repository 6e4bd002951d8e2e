package mtree

/**
 * SPDX-License-Identifier: MIT
 * Copyright 2026 the sage authors
 */

// Halo is one merger-tree record, in the fixed on-disk layout. Tree
// pointer fields index into the per-tree halo block; -1 means none.
type Halo struct {
	// merger tree pointers
	Descendant          int32
	FirstProgenitor     int32
	NextProgenitor      int32
	FirstHaloInFOFgroup int32
	NextHaloInFOFgroup  int32

	// properties of the halo
	Len         int32
	MMean200    float32
	Mvir        float32 // m200c in simulation units
	MTopHat     float32
	Pos         [3]float32
	Vel         [3]float32
	VelDisp     float32
	Vmax        float32
	Spin        [3]float32
	MostBoundID int64

	// original file position
	SnapNum      int32
	FileNr       int32
	SubhaloIndex int32
	SubHalfMass  float32
}

// HaloSize is the exact on-disk record size. The int64 field sits at
// offset 80 so the C layout carries no padding.
const HaloSize = 104

// Sanity bounds on the two metadata ints, used for legacy endianness
// detection.
const (
	MaxNtrees    = 1000000
	MaxTotNHalos = 100000000
)
