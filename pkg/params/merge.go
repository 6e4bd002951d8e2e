package params

/**
 * SPDX-License-Identifier: MIT
 * Copyright 2026 the sage authors
 */

import (
	"fmt"
	"os"

	"github.com/imdario/mergo"
	"github.com/sisatech/toml"
)

// MergeFile folds an override parameter file into p. Values set in the
// override win; unset values keep what p already has. Must be called
// before Load's sanitize/finalize stages, so it is exposed for callers
// that assemble a Params by hand and then call Sanitize themselves.
func (p *Params) MergeFile(path string) error {

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading override file: %w", err)
	}

	o := new(Params)
	err = toml.Unmarshal(data, o)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	return p.Merge(o)

}

// Merge folds the set fields of o into p.
func (p *Params) Merge(o *Params) error {
	err := mergo.Merge(p, o, mergo.WithOverride)
	if err != nil {
		return fmt.Errorf("merging parameters: %w", err)
	}
	return nil
}
