// Package memtrack accounts for the large allocations the engine makes:
// halo blocks and galaxy arenas. Blocks free in any order;
// freeing the most recent allocation stays O(1). The tracker is
// process-wide, created at startup and leak-scanned at exit.
package memtrack

/**
 * SPDX-License-Identifier: MIT
 * Copyright 2026 the sage authors
 */

import (
	"fmt"
	"sync"

	"github.com/cloudfoundry/bytefmt"

	"github.com/darrencroton/sage-sub001/pkg/elog"
)

const (
	alignment = 8
	minAlloc  = 8

	// high-water reports fire every time the mark grows by this much
	reportStride = 10 << 20
)

// Handle names a live tracked block.
type Handle uint64

type block struct {
	handle Handle
	tag    string
	size   uint64
}

// Tracker follows every live block and the totals across them.
type Tracker struct {
	mu sync.Mutex

	blocks []block
	next   Handle

	totMem       uint64
	highMark     uint64
	lastReported uint64

	log elog.Logger
}

// New returns an empty tracker reporting through logger.
func New(logger elog.Logger) *Tracker {
	return &Tracker{log: logger, next: 1}
}

// Alloc records a block of the given size, tagged for the leak report.
// Sizes round up to the 8-byte alignment with an 8-byte floor.
func (t *Tracker) Alloc(tag string, size uint64) Handle {
	if size < minAlloc {
		size = minAlloc
	}
	if r := size % alignment; r != 0 {
		size += alignment - r
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	h := t.next
	t.next++
	t.blocks = append(t.blocks, block{handle: h, tag: tag, size: size})

	t.totMem += size
	if t.totMem > t.highMark {
		t.highMark = t.totMem
		if t.highMark >= t.lastReported+reportStride {
			t.lastReported = t.highMark
			t.log.Infof("memory high water mark now %s (%s live)",
				bytefmt.ByteSize(t.highMark), bytefmt.ByteSize(t.totMem))
		}
	}

	return h
}

// Free releases a tracked block. The last allocation frees without a
// search; anything else walks the live list.
func (t *Tracker) Free(h Handle) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	n := len(t.blocks)
	if n > 0 && t.blocks[n-1].handle == h {
		t.totMem -= t.blocks[n-1].size
		t.blocks = t.blocks[:n-1]
		return nil
	}

	for i := n - 2; i >= 0; i-- {
		if t.blocks[i].handle == h {
			t.totMem -= t.blocks[i].size
			t.blocks = append(t.blocks[:i], t.blocks[i+1:]...)
			return nil
		}
	}

	return fmt.Errorf("free of unknown block %d", h)
}

// TotMem reports the bytes currently live.
func (t *Tracker) TotMem() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.totMem
}

// HighMark reports the largest TotMem ever observed.
func (t *Tracker) HighMark() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.highMark
}

// ReportLeaks logs every block still live and returns how many there
// were. Run at teardown.
func (t *Tracker) ReportLeaks() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, b := range t.blocks {
		t.log.Warnf("leaked block %q (%s)", b.tag, bytefmt.ByteSize(b.size))
	}
	if len(t.blocks) > 0 {
		t.log.Warnf("%d blocks (%s) still live at teardown",
			len(t.blocks), bytefmt.ByteSize(t.totMem))
	}

	return len(t.blocks)
}
