package mtree

/**
 * SPDX-License-Identifier: MIT
 * Copyright 2026 the sage authors
 */

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"
)

// WriterOptions control the container layout a Writer produces.
type WriterOptions struct {
	// Legacy suppresses the 12-byte header, producing a host-endian
	// file in the pre-header layout.
	Legacy bool
	// BigEndian writes payload values big-endian. Ignored for legacy
	// files, which are always host-endian.
	BigEndian bool
}

// WriteTrees writes a complete merger-tree file: metadata, the tree
// table, then each tree's halo block back to back.
func WriteTrees(path string, trees [][]Halo, opts WriterOptions) error {

	var tot int64
	for _, t := range trees {
		tot += int64(len(t))
	}
	if len(trees) == 0 || len(trees) > MaxNtrees || tot == 0 || tot > MaxTotNHalos {
		return &FormatError{Path: path, Tree: -1,
			Msg: fmt.Sprintf("refusing to write impossible metadata: Ntrees=%d totNHalos=%d", len(trees), tot)}
	}

	order := binary.ByteOrder(binary.LittleEndian)
	if opts.Legacy {
		order = hostOrder()
	} else if opts.BigEndian {
		order = binary.BigEndian
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)

	if !opts.Legacy {
		var endian uint8
		if opts.BigEndian {
			endian = 1
		}
		hdr := fileHeader{Magic: Magic, Version: Version, Endian: endian}
		err = binary.Write(w, order, &hdr)
		if err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}

	err = binary.Write(w, order, int32(len(trees)))
	if err == nil {
		err = binary.Write(w, order, int32(tot))
	}
	for _, t := range trees {
		if err != nil {
			break
		}
		err = binary.Write(w, order, int32(len(t)))
	}
	for _, t := range trees {
		if err != nil {
			break
		}
		err = binary.Write(w, order, t)
	}
	if err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	err = w.Flush()
	if err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	return nil

}
