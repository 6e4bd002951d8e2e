package mtree

/**
 * SPDX-License-Identifier: MIT
 * Copyright 2026 the sage authors
 */

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// Magic identifies a headered tree file. Legacy files begin directly
// with the Ntrees metadata int and are auto-detected by sanity bounds.
const Magic = 0x53414745

// Version is the only headered layout revision this reader understands.
const Version = 1

const headerSize = 12

type fileHeader struct {
	Magic    uint32
	Version  uint8
	Endian   uint8
	Reserved uint16
	Pad      uint32
}

// BinarySource reads the native fixed-record merger-tree layout.
type BinarySource struct {
	path string
	f    *os.File

	order         binary.ByteOrder
	dataStart     int64
	ntrees        int
	totNHalos     int
	treeNHalos    []int32
	treeFirstHalo []int64
}

func hostOrder() binary.ByteOrder {
	var probe [4]byte
	binary.NativeEndian.PutUint32(probe[:], 1)
	if probe[0] == 1 {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

func oppositeOrder(o binary.ByteOrder) binary.ByteOrder {
	if o == binary.ByteOrder(binary.LittleEndian) {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

func metadataSane(ntrees, totNHalos int32) bool {
	return ntrees > 0 && ntrees <= MaxNtrees &&
		totNHalos > 0 && totNHalos <= MaxTotNHalos
}

// OpenBinary opens a merger-tree file and reads its tree table. Halo
// blocks are left on disk until LoadTree asks for them.
func OpenBinary(path string) (*BinarySource, error) {

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &IOError{Kind: FileNotFound, Path: path, Err: err}
		}
		return nil, &IOError{Kind: InvalidHeader, Path: path, Err: err}
	}

	src := &BinarySource{path: path, f: f}
	err = src.readMetadata()
	if err != nil {
		f.Close()
		return nil, err
	}

	return src, nil

}

func (src *BinarySource) readMetadata() error {

	var probe [headerSize]byte
	n, err := io.ReadFull(src.f, probe[:])
	if err != nil && n < 8 {
		return &IOError{Kind: TruncatedRead, Path: src.path, Err: err}
	}

	magicLE := binary.LittleEndian.Uint32(probe[:4])
	magicBE := binary.BigEndian.Uint32(probe[:4])

	if magicLE == Magic || magicBE == Magic {
		err = src.readHeadered(probe)
	} else {
		err = src.readLegacy(probe)
	}
	if err != nil {
		return err
	}

	return src.readTreeTable()

}

func (src *BinarySource) readHeadered(probe [headerSize]byte) error {

	hdr := new(fileHeader)
	hdr.Version = probe[4]
	hdr.Endian = probe[5]

	if hdr.Version != Version {
		return &IOError{Kind: VersionMismatch, Path: src.path,
			Err: fmt.Errorf("file version %d, reader version %d", hdr.Version, Version)}
	}

	switch hdr.Endian {
	case 0:
		src.order = binary.LittleEndian
	case 1:
		src.order = binary.BigEndian
	default:
		return &IOError{Kind: InvalidHeader, Path: src.path,
			Err: fmt.Errorf("bad endian flag %d", hdr.Endian)}
	}

	src.dataStart = headerSize

	var meta [8]byte
	_, err := io.ReadFull(src.f, meta[:])
	if err != nil {
		return &IOError{Kind: TruncatedRead, Path: src.path, Err: err}
	}

	ntrees := int32(src.order.Uint32(meta[:4]))
	tot := int32(src.order.Uint32(meta[4:]))
	if !metadataSane(ntrees, tot) {
		return &FormatError{Path: src.path, Tree: -1,
			Msg: fmt.Sprintf("impossible metadata: Ntrees=%d totNHalos=%d", ntrees, tot)}
	}

	src.ntrees = int(ntrees)
	src.totNHalos = int(tot)
	return nil

}

// readLegacy handles headerless files: the first eight bytes are the two
// metadata ints in an unknown byte order. Try host order, then the
// opposite, and only then give up.
func (src *BinarySource) readLegacy(probe [headerSize]byte) error {

	src.dataStart = 0

	order := hostOrder()
	for attempt := 0; attempt < 2; attempt++ {
		ntrees := int32(order.Uint32(probe[:4]))
		tot := int32(order.Uint32(probe[4:8]))
		if metadataSane(ntrees, tot) {
			src.order = order
			src.ntrees = int(ntrees)
			src.totNHalos = int(tot)
			return nil
		}
		order = oppositeOrder(order)
	}

	return &IOError{Kind: InvalidHeader, Path: src.path, Err: ErrEndianness}

}

func (src *BinarySource) readTreeTable() error {

	_, err := src.f.Seek(src.dataStart+8, io.SeekStart)
	if err != nil {
		return &IOError{Kind: TruncatedRead, Path: src.path, Err: err}
	}

	src.treeNHalos = make([]int32, src.ntrees)
	err = binary.Read(src.f, src.order, src.treeNHalos)
	if err != nil {
		return &IOError{Kind: TruncatedRead, Path: src.path, Err: err}
	}

	src.treeFirstHalo = make([]int64, src.ntrees)
	var sum int64
	for i, nh := range src.treeNHalos {
		if nh < 0 {
			return &FormatError{Path: src.path, Tree: i,
				Msg: fmt.Sprintf("negative halo count %d", nh)}
		}
		src.treeFirstHalo[i] = sum
		sum += int64(nh)
	}
	if sum != int64(src.totNHalos) {
		return &FormatError{Path: src.path, Tree: -1,
			Msg: fmt.Sprintf("tree table sums to %d halos, metadata says %d", sum, src.totNHalos)}
	}

	fi, err := src.f.Stat()
	if err != nil {
		return &IOError{Kind: TruncatedRead, Path: src.path, Err: err}
	}
	want := src.dataStart + 8 + 4*int64(src.ntrees) + HaloSize*int64(src.totNHalos)
	if fi.Size() < want {
		return &IOError{Kind: TruncatedRead, Path: src.path,
			Err: fmt.Errorf("file is %d bytes, layout requires %d", fi.Size(), want)}
	}
	if fi.Size() > want {
		return &FormatError{Path: src.path, Tree: -1,
			Msg: fmt.Sprintf("%d trailing bytes after halo data", fi.Size()-want)}
	}

	return nil

}

// Ntrees reports the number of trees in the file.
func (src *BinarySource) Ntrees() int {
	return src.ntrees
}

// TotNHalos reports the total number of halos across all trees.
func (src *BinarySource) TotNHalos() int {
	return src.totNHalos
}

// HalosPerTree returns the per-tree halo counts, in file order.
func (src *BinarySource) HalosPerTree() []int32 {
	return src.treeNHalos
}

// LoadTree reads the halo block of one tree and validates its links.
func (src *BinarySource) LoadTree(tree int) ([]Halo, error) {

	if tree < 0 || tree >= src.ntrees {
		return nil, &FormatError{Path: src.path, Tree: tree,
			Msg: fmt.Sprintf("tree index out of range [0,%d)", src.ntrees)}
	}

	nh := int(src.treeNHalos[tree])
	offset := src.dataStart + 8 + 4*int64(src.ntrees) + HaloSize*src.treeFirstHalo[tree]
	_, err := src.f.Seek(offset, io.SeekStart)
	if err != nil {
		return nil, &IOError{Kind: TruncatedRead, Path: src.path, Err: err}
	}

	halos := make([]Halo, nh)
	err = binary.Read(src.f, src.order, halos)
	if err != nil {
		return nil, &IOError{Kind: TruncatedRead, Path: src.path, Err: err}
	}

	err = validateLinks(src.path, tree, halos)
	if err != nil {
		return nil, err
	}

	return halos, nil

}

// Close releases the underlying file.
func (src *BinarySource) Close() error {
	return src.f.Close()
}

func validateLinks(path string, tree int, halos []Halo) error {

	nh := int32(len(halos))
	inRange := func(i int32) bool {
		return i >= -1 && i < nh
	}

	for i := range halos {
		h := &halos[i]
		if !inRange(h.Descendant) || !inRange(h.FirstProgenitor) ||
			!inRange(h.NextProgenitor) || !inRange(h.FirstHaloInFOFgroup) ||
			!inRange(h.NextHaloInFOFgroup) {
			return &FormatError{Path: path, Tree: tree,
				Msg: fmt.Sprintf("halo %d has a link outside [0,%d)", i, nh)}
		}
		if h.FirstHaloInFOFgroup < 0 {
			return &FormatError{Path: path, Tree: tree,
				Msg: fmt.Sprintf("halo %d has no FOF root", i)}
		}
	}

	return nil

}
