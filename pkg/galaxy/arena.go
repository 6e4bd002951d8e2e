package galaxy

/**
 * SPDX-License-Identifier: MIT
 * Copyright 2026 the sage authors
 */

import (
	"fmt"
)

// Arena sizing policy.
const (
	// InitialFoFGalaxies is the smallest working-set capacity.
	InitialFoFGalaxies = 1000
	// MinGrowth is the smallest additive step when the working set grows.
	MinGrowth = 1000
	// MaxArraySize caps the working set; hitting it means the input is
	// corrupt rather than merely large.
	MaxArraySize = 1000000000
	// MaxGalFac scales the persistent capacity off the tree's halo count.
	MaxGalFac = 1
)

// ResourceError reports that an arena limit was hit. It is always fatal.
type ResourceError struct {
	Tree int
	Msg  string
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("tree %d: %s", e.Tree, e.Msg)
}

// Arena owns the two galaxy arrays of one tree: the transient working
// set rebuilt per FOF evaluation and the persistent per-tree set flushed
// to the output writer. It also issues per-tree galaxy numbers.
type Arena struct {
	// Gal is the working set. Valid entries are [0, ngal) of the
	// current FOF evaluation; the kernel tracks ngal itself.
	Gal []Galaxy
	// HaloGal is the persistent set; NumGals entries are live.
	HaloGal []Galaxy

	NumGals int
	MaxGals int

	tree    int
	counter int32
}

// NewArena sizes both arrays for a tree with nhalos halos.
func NewArena(tree, nhalos int) *Arena {
	maxGals := MaxGalFac * nhalos
	if maxGals < MinGrowth {
		maxGals = MinGrowth
	}

	fof := maxGals / 10
	if fof < InitialFoFGalaxies {
		fof = InitialFoFGalaxies
	}

	return &Arena{
		Gal:     make([]Galaxy, fof),
		HaloGal: make([]Galaxy, maxGals),
		MaxGals: maxGals,
		tree:    tree,
	}
}

// EnsureWorking grows the working set so that index n is usable. Growth
// is geometric with an additive floor; indices already handed out stay
// valid because callers hold indices, not pointers.
func (a *Arena) EnsureWorking(n int) error {
	if n < len(a.Gal) {
		return nil
	}

	grown := len(a.Gal) + len(a.Gal)/2
	if grown < len(a.Gal)+MinGrowth {
		grown = len(a.Gal) + MinGrowth
	}
	if grown <= n {
		grown = n + MinGrowth
	}
	if grown > MaxArraySize {
		return &ResourceError{Tree: a.tree,
			Msg: fmt.Sprintf("working galaxy array would exceed %d entries", MaxArraySize)}
	}

	next := make([]Galaxy, grown)
	copy(next, a.Gal)
	a.Gal = next
	return nil
}

// Append moves a surviving galaxy into the persistent set and returns
// its persistent index.
func (a *Arena) Append(g Galaxy) (int, error) {
	if a.NumGals >= a.MaxGals {
		return 0, &ResourceError{Tree: a.tree,
			Msg: fmt.Sprintf("persistent galaxy array full at %d entries", a.MaxGals)}
	}
	a.HaloGal[a.NumGals] = g
	a.NumGals++
	return a.NumGals - 1, nil
}

// NextGalaxyNr issues a strictly increasing per-tree galaxy number.
func (a *Arena) NextGalaxyNr() int32 {
	nr := a.counter
	a.counter++
	return nr
}
