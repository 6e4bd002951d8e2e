// Package sim is the tree-driven evolution kernel: it walks each merger
// tree depth-first, assembles the working galaxy set of every FOF group
// from its progenitors, and integrates the baryonic physics in substeps
// between snapshots. A Run owns all mutable state for one input file;
// parameters are read-only throughout.
package sim

/**
 * SPDX-License-Identifier: MIT
 * Copyright 2026 the sage authors
 */

import (
	"fmt"
)

// InvariantError reports a broken kernel invariant: more than one
// central in a halo, a negative reservoir, a dangling central index.
// Always fatal; the message carries enough context to find the spot.
type InvariantError struct {
	File    string
	Tree    int
	Halo    int
	Substep int
	Msg     string
}

func (e *InvariantError) Error() string {
	s := fmt.Sprintf("%s: tree %d", e.File, e.Tree)
	if e.Halo >= 0 {
		s += fmt.Sprintf(", halo %d", e.Halo)
	}
	if e.Substep >= 0 {
		s += fmt.Sprintf(", substep %d", e.Substep)
	}
	return s + ": " + e.Msg
}
