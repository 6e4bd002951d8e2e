package sim

/**
 * SPDX-License-Identifier: MIT
 * Copyright 2026 the sage authors
 */

// constructGalaxies is the depth-first post-order walk over one tree.
// It guarantees that every progenitor of a halo, and every progenitor
// of its FOF siblings, has its galaxies built before the FOF group is
// joined and evolved. The DoneFlag/HaloFlag pair is the whole state
// machine; a pointer cycle would defeat it, so recursion depth is
// bounded by the tree size and overflowing it is fatal.
func (r *Run) constructGalaxies(halo, depth int) error {

	if depth > len(r.halos) {
		return &InvariantError{File: r.path, Tree: r.tree, Halo: halo, Substep: -1,
			Msg: "progenitor chain deeper than the tree, pointer cycle"}
	}

	for prog := r.halos[halo].FirstProgenitor; prog >= 0; prog = r.halos[prog].NextProgenitor {
		if r.aux[prog].DoneFlag == 0 {
			err := r.constructGalaxies(int(prog), depth+1)
			if err != nil {
				return err
			}
		}
	}

	// marked post-order: a progenitor cycle re-enters this halo while
	// its flag is still 0 and runs into the depth bound above
	r.aux[halo].DoneFlag = 1

	fof := int(r.halos[halo].FirstHaloInFOFgroup)

	if r.aux[fof].HaloFlag == 0 {
		r.aux[fof].HaloFlag = 1
		hops := 0
		for s := fof; s >= 0; s = int(r.halos[s].NextHaloInFOFgroup) {
			if hops++; hops > len(r.halos) {
				return &InvariantError{File: r.path, Tree: r.tree, Halo: fof, Substep: -1,
					Msg: "FOF sibling chain longer than the tree, pointer cycle"}
			}
			for prog := r.halos[s].FirstProgenitor; prog >= 0; prog = r.halos[prog].NextProgenitor {
				if r.aux[prog].DoneFlag == 0 {
					err := r.constructGalaxies(int(prog), depth+1)
					if err != nil {
						return err
					}
				}
			}
		}
	}

	// All progenitors across the whole FOF group now exist, so the
	// group can be joined and evolved in one pass.
	if r.aux[fof].HaloFlag == 1 {
		r.aux[fof].HaloFlag = 2

		ngal := 0
		var err error
		for s := fof; s >= 0; s = int(r.halos[s].NextHaloInFOFgroup) {
			ngal, err = r.joinProgenitors(s, ngal)
			if err != nil {
				return err
			}
		}

		return r.evolveGalaxies(fof, ngal)
	}

	return nil

}
