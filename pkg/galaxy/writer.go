package galaxy

/**
 * SPDX-License-Identifier: MIT
 * Copyright 2026 the sage authors
 */

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/thanhpk/randstr"
)

// CatalogueWriter emits the per-snapshot galaxy file: an int32 tree
// count, an int32 total, a per-tree count table, then the packed Output
// records in tree order. Records stream to a temp file; the header is
// finalized and the file renamed into place on Close, so concurrent
// workers never collide on a half-written catalogue.
type CatalogueWriter struct {
	f         *os.File
	tmpPath   string
	finalPath string
	ntrees    int
	total     int32
	treeNgals []int32
}

// NewCatalogueWriter opens a catalogue for a file holding ntrees trees.
func NewCatalogueWriter(path string, ntrees int) (*CatalogueWriter, error) {

	tmp := fmt.Sprintf("%s.%s.tmp", path, randstr.Hex(8))
	f, err := os.Create(tmp)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", tmp, err)
	}

	w := &CatalogueWriter{
		f:         f,
		tmpPath:   tmp,
		finalPath: path,
		ntrees:    ntrees,
		treeNgals: make([]int32, ntrees),
	}

	// placeholder header, rewritten on Close
	err = w.writeHeader()
	if err != nil {
		f.Close()
		os.Remove(tmp)
		return nil, err
	}

	return w, nil

}

func (w *CatalogueWriter) writeHeader() error {
	err := binary.Write(w.f, binary.NativeEndian, int32(w.ntrees))
	if err == nil {
		err = binary.Write(w.f, binary.NativeEndian, w.total)
	}
	if err == nil {
		err = binary.Write(w.f, binary.NativeEndian, w.treeNgals)
	}
	if err != nil {
		return fmt.Errorf("writing %s: %w", w.tmpPath, err)
	}
	return nil
}

// AppendTree writes one tree's records. Trees must arrive in file order.
func (w *CatalogueWriter) AppendTree(tree int, records []Output) error {
	if tree < 0 || tree >= w.ntrees {
		return fmt.Errorf("%s: tree index %d outside [0,%d)", w.finalPath, tree, w.ntrees)
	}

	err := binary.Write(w.f, binary.NativeEndian, records)
	if err != nil {
		return fmt.Errorf("writing %s: %w", w.tmpPath, err)
	}

	w.treeNgals[tree] += int32(len(records))
	w.total += int32(len(records))
	return nil
}

// Close finalizes the header and renames the catalogue into place.
func (w *CatalogueWriter) Close() error {

	_, err := w.f.Seek(0, io.SeekStart)
	if err == nil {
		err = w.writeHeader()
	}
	if err == nil {
		err = w.f.Close()
	}
	if err != nil {
		w.f.Close()
		os.Remove(w.tmpPath)
		return err
	}

	err = os.Rename(w.tmpPath, w.finalPath)
	if err != nil {
		os.Remove(w.tmpPath)
		return fmt.Errorf("finalizing %s: %w", w.finalPath, err)
	}

	return nil

}

// Abort discards the temp file without publishing the catalogue.
func (w *CatalogueWriter) Abort() {
	w.f.Close()
	os.Remove(w.tmpPath)
}

// Catalogue is a fully read back galaxy file.
type Catalogue struct {
	TreeNgals []int32
	Records   []Output
}

// ReadCatalogue loads a catalogue written by CatalogueWriter.
func ReadCatalogue(path string) (*Catalogue, error) {

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var ntrees, total int32
	err = binary.Read(f, binary.NativeEndian, &ntrees)
	if err == nil {
		err = binary.Read(f, binary.NativeEndian, &total)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if ntrees < 0 || total < 0 {
		return nil, fmt.Errorf("%s: impossible counts Ntrees=%d total=%d", path, ntrees, total)
	}

	cat := &Catalogue{
		TreeNgals: make([]int32, ntrees),
		Records:   make([]Output, total),
	}
	err = binary.Read(f, binary.NativeEndian, cat.TreeNgals)
	if err == nil {
		err = binary.Read(f, binary.NativeEndian, cat.Records)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var sum int32
	for _, n := range cat.TreeNgals {
		sum += n
	}
	if sum != total {
		return nil, fmt.Errorf("%s: tree counts sum to %d, header says %d", path, sum, total)
	}

	return cat, nil

}
