package mtree

/**
 * SPDX-License-Identifier: MIT
 * Copyright 2026 the sage authors
 */

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testHalo(i, n int32) Halo {
	h := Halo{
		Descendant:          -1,
		FirstProgenitor:     -1,
		NextProgenitor:      -1,
		FirstHaloInFOFgroup: 0,
		NextHaloInFOFgroup:  -1,
		Len:                 100 + i,
		MMean200:            1.5 + float32(i),
		Mvir:                2.5 + float32(i),
		MTopHat:             3.5 + float32(i),
		Pos:                 [3]float32{1, 2, float32(i)},
		Vel:                 [3]float32{-1, -2, float32(i)},
		VelDisp:             42.5,
		Vmax:                160.25,
		Spin:                [3]float32{0.01, 0.02, 0.03},
		MostBoundID:         1000000000000 + int64(i),
		SnapNum:             i,
		FileNr:              0,
		SubhaloIndex:        i,
		SubHalfMass:         0.125,
	}
	if i < n-1 {
		h.NextHaloInFOFgroup = i + 1
	}
	return h
}

func testTrees() [][]Halo {
	one := []Halo{testHalo(0, 1)}
	three := []Halo{testHalo(0, 3), testHalo(1, 3), testHalo(2, 3)}
	return [][]Halo{one, three}
}

func writeTestFile(t *testing.T, opts WriterOptions) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "trees.0")
	require.NoError(t, WriteTrees(path, testTrees(), opts))
	return path
}

func checkRoundTrip(t *testing.T, path string) {
	src, err := OpenBinary(path)
	require.NoError(t, err)
	defer src.Close()

	assert.Equal(t, 2, src.Ntrees())
	assert.Equal(t, 4, src.TotNHalos())
	assert.Equal(t, []int32{1, 3}, src.HalosPerTree())

	want := testTrees()
	for i := range want {
		got, err := src.LoadTree(i)
		require.NoError(t, err)
		assert.Equal(t, want[i], got)
	}
}

func TestBinaryRoundTrip(t *testing.T) {
	checkRoundTrip(t, writeTestFile(t, WriterOptions{}))
}

func TestBinaryRoundTripBigEndian(t *testing.T) {
	checkRoundTrip(t, writeTestFile(t, WriterOptions{BigEndian: true}))
}

func TestBinaryRoundTripLegacy(t *testing.T) {
	checkRoundTrip(t, writeTestFile(t, WriterOptions{Legacy: true}))
}

func TestOpenMissingFile(t *testing.T) {
	_, err := OpenBinary(filepath.Join(t.TempDir(), "nope.0"))
	var ioErr *IOError
	require.True(t, errors.As(err, &ioErr))
	assert.Equal(t, FileNotFound, ioErr.Kind)
}

func TestOpenVersionMismatch(t *testing.T) {
	path := writeTestFile(t, WriterOptions{})
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	data[4] = 99
	require.NoError(t, os.WriteFile(path, data, 0644))

	_, err = OpenBinary(path)
	var ioErr *IOError
	require.True(t, errors.As(err, &ioErr))
	assert.Equal(t, VersionMismatch, ioErr.Kind)
}

func TestOpenTruncated(t *testing.T) {
	path := writeTestFile(t, WriterOptions{})
	fi, err := os.Stat(path)
	require.NoError(t, err)
	require.NoError(t, os.Truncate(path, fi.Size()-HaloSize))

	_, err = OpenBinary(path)
	var ioErr *IOError
	require.True(t, errors.As(err, &ioErr))
	assert.Equal(t, TruncatedRead, ioErr.Kind)
}

func TestOpenUndeterminedEndianness(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.0")
	junk := make([]byte, 256)
	for i := range junk {
		junk[i] = 0xff
	}
	require.NoError(t, os.WriteFile(path, junk, 0644))

	_, err := OpenBinary(path)
	assert.True(t, errors.Is(err, ErrEndianness))
}

func TestOpenTrailingBytes(t *testing.T) {
	path := writeTestFile(t, WriterOptions{})
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	require.NoError(t, err)
	_, err = f.Write([]byte{1, 2, 3})
	require.NoError(t, err)
	require.NoError(t, f.Close())

	_, err = OpenBinary(path)
	var fmtErr *FormatError
	assert.True(t, errors.As(err, &fmtErr))
}

func TestLoadTreeBadLinks(t *testing.T) {
	trees := testTrees()
	trees[1][2].FirstProgenitor = 17

	path := filepath.Join(t.TempDir(), "trees.0")
	require.NoError(t, WriteTrees(path, trees, WriterOptions{}))

	src, err := OpenBinary(path)
	require.NoError(t, err)
	defer src.Close()

	_, err = src.LoadTree(0)
	assert.NoError(t, err)

	_, err = src.LoadTree(1)
	var fmtErr *FormatError
	require.True(t, errors.As(err, &fmtErr))
	assert.Equal(t, 1, fmtErr.Tree)
}

func TestLoadTreeOutOfRange(t *testing.T) {
	src, err := OpenBinary(writeTestFile(t, WriterOptions{}))
	require.NoError(t, err)
	defer src.Close()

	_, err = src.LoadTree(2)
	var fmtErr *FormatError
	assert.True(t, errors.As(err, &fmtErr))
}

func TestWriteRefusesEmpty(t *testing.T) {
	err := WriteTrees(filepath.Join(t.TempDir(), "trees.0"), nil, WriterOptions{})
	var fmtErr *FormatError
	assert.True(t, errors.As(err, &fmtErr))
}
