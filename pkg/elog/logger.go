// Package elog is the engine's terminal view: leveled messages through
// logrus and per-file progress bars through mpb. The kernel only ever
// holds the View interface, so tests run against a bar-less instance.
package elog

/**
 * SPDX-License-Identifier: MIT
 * Copyright 2026 the sage authors
 */

import (
	"bytes"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/vbauerster/mpb/v5"
	"github.com/vbauerster/mpb/v5/decor"
)

// Logger is the message surface the engine writes to. Debugf and Infof
// are gated by the verbosity flags; the rest always print.
type Logger interface {
	Debugf(format string, x ...interface{})
	Infof(format string, x ...interface{})
	Printf(format string, x ...interface{})
	Warnf(format string, x ...interface{})
	Errorf(format string, x ...interface{})
}

// Progress follows one long-running count, such as the trees of an
// input file.
type Progress interface {
	Increment(n int64)
	Finish(success bool)
}

// View is what a Run holds: a logger that can also open progress bars.
type View interface {
	Logger
	NewProgress(label, units string, total int64) Progress
}

// CLI renders the view on a terminal. While any bar is live, log lines
// are held in a buffer so mpb owns the tty; the buffer drains when the
// last bar retires.
type CLI struct {
	DisableColors bool
	DisableTTY    bool
	IsDebug       bool
	IsVerbose     bool

	mu        sync.Mutex
	container *mpb.Progress
	live      int
	held      *bytes.Buffer
}

// Debugf prints only when the debug flag is up.
func (c *CLI) Debugf(format string, x ...interface{}) {
	if c.IsDebug {
		logrus.Debugf(format, x...)
	}
}

// Infof prints when either verbosity flag is up.
func (c *CLI) Infof(format string, x ...interface{}) {
	if c.IsVerbose || c.IsDebug {
		logrus.Infof(format, x...)
	}
}

// Printf always prints.
func (c *CLI) Printf(format string, x ...interface{}) {
	logrus.Printf(format, x...)
}

// Warnf always prints.
func (c *CLI) Warnf(format string, x ...interface{}) {
	logrus.Warnf(format, x...)
}

// Errorf always prints.
func (c *CLI) Errorf(format string, x ...interface{}) {
	logrus.Errorf(format, x...)
}

// NewProgress opens a bar counting toward total in the given units.
// The first live bar takes over the terminal; a TTY-less view or a
// degenerate total counts silently.
func (c *CLI) NewProgress(label, units string, total int64) Progress {

	if c.DisableTTY || total <= 0 {
		return silent{}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.live == 0 {
		c.held = new(bytes.Buffer)
		logrus.SetOutput(c.held)
		c.container = mpb.New(mpb.WithWidth(64))
	}
	c.live++

	var counter decor.Decorator
	switch units {
	case "":
		counter = decor.Percentage()
	case "bytes":
		counter = decor.Counters(decor.UnitKiB, "% .1f / % .1f")
	default:
		counter = decor.CountersNoUnit("%d / %d " + units)
	}

	b := c.container.AddBar(total,
		mpb.PrependDecorators(
			decor.Name(label, decor.WC{W: len(label) + 1, C: decor.DidentRight}),
			decor.OnComplete(decor.AverageETA(decor.ET_STYLE_GO, decor.WC{W: 4}), "done"),
		),
		mpb.AppendDecorators(counter),
	)

	return &ticker{view: c, bar: b, total: total}
}

// release retires one bar; the last one out hands the terminal back to
// logrus and drains the held lines.
func (c *CLI) release() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.live--
	if c.live > 0 {
		return
	}

	c.container.Wait()
	c.container = nil
	logrus.SetOutput(os.Stdout)
	_, _ = c.held.WriteTo(os.Stdout)
	c.held = nil
}

// flushStride bounds how many increments accumulate before the bar
// redraws; a file of a million one-halo trees must not mean a million
// redraws.
const flushStride = 64

type ticker struct {
	view    *CLI
	bar     *mpb.Bar
	total   int64
	count   int64
	pending int64
	done    bool
}

func (tk *ticker) Increment(n int64) {
	tk.pending += n
	tk.count += n
	if tk.pending >= flushStride || tk.count >= tk.total {
		tk.bar.IncrInt64(tk.pending)
		tk.pending = 0
	}
}

func (tk *ticker) Finish(success bool) {
	if tk.done {
		return
	}
	tk.done = true

	if tk.pending > 0 {
		tk.bar.IncrInt64(tk.pending)
		tk.pending = 0
	}
	if !success || tk.count < tk.total {
		tk.bar.Abort(false)
	}

	tk.view.release()
}

type silent struct{}

func (silent) Increment(n int64)   {}
func (silent) Finish(success bool) {}

// Format writes bare message lines, colored by level. logrus's own
// layouts are too loud for a batch tool whose output is mostly a
// progress bar.
func (c *CLI) Format(entry *logrus.Entry) ([]byte, error) {

	msg := entry.Message + "\n"
	if c.DisableColors {
		return []byte(msg), nil
	}

	switch entry.Level {
	case logrus.TraceLevel, logrus.DebugLevel:
		msg = color.New(color.Faint).Sprint(msg)
	case logrus.WarnLevel:
		msg = color.New(color.FgYellow).Sprint(msg)
	case logrus.ErrorLevel, logrus.FatalLevel, logrus.PanicLevel:
		msg = color.New(color.FgRed).Sprint(msg)
	}

	return []byte(msg), nil
}
