package galaxy

/**
 * SPDX-License-Identifier: MIT
 * Copyright 2026 the sage authors
 */

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArenaSizing(t *testing.T) {
	a := NewArena(0, 50)
	assert.Equal(t, MinGrowth, a.MaxGals)
	assert.Equal(t, InitialFoFGalaxies, len(a.Gal))

	big := NewArena(0, 40000)
	assert.Equal(t, 40000, big.MaxGals)
	assert.Equal(t, 4000, len(big.Gal))
}

func TestArenaGrowthKeepsContents(t *testing.T) {
	a := NewArena(0, 10)

	for i := 0; i < len(a.Gal); i++ {
		a.Gal[i].GalaxyNr = int32(i)
	}

	before := len(a.Gal)
	require.NoError(t, a.EnsureWorking(before))
	assert.Greater(t, len(a.Gal), before)

	for i := 0; i < before; i++ {
		assert.Equal(t, int32(i), a.Gal[i].GalaxyNr)
	}
}

func TestArenaGrowthFloor(t *testing.T) {
	a := NewArena(0, 10)
	before := len(a.Gal)
	require.NoError(t, a.EnsureWorking(before))
	assert.GreaterOrEqual(t, len(a.Gal), before+MinGrowth)
}

func TestArenaPersistentOverflow(t *testing.T) {
	a := NewArena(7, 1)

	for i := 0; i < a.MaxGals; i++ {
		_, err := a.Append(Galaxy{GalaxyNr: int32(i)})
		require.NoError(t, err)
	}

	_, err := a.Append(Galaxy{})
	var resErr *ResourceError
	require.ErrorAs(t, err, &resErr)
	assert.Equal(t, 7, resErr.Tree)
}

func TestGalaxyNrStrictlyIncreasing(t *testing.T) {
	a := NewArena(0, 10)
	prev := int32(-1)
	for i := 0; i < 100; i++ {
		nr := a.NextGalaxyNr()
		assert.Greater(t, nr, prev)
		prev = nr
	}
}

func TestMetallicity(t *testing.T) {
	assert.Equal(t, 0.1, Metallicity(1.0, 0.1))
	assert.Equal(t, 0.0, Metallicity(0.0, 0.1))
	assert.Equal(t, 0.0, Metallicity(1.0, 0.0))
	assert.Equal(t, 0.0, Metallicity(-1.0, -1.0))
}
