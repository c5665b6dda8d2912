// This file is part of barg.
//
// Copyright (C) 2015-2025  David Gamba Rios
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package residual implements the Residual Collector (spec.md §4.6): it
// walks argv once, skipping slots already consumed by the Bind & Validate
// Engine, and gathers whatever remains into the spare-arguments vector.
package residual

import (
	"fmt"

	"github.com/gobarg/barg/internal/text"
	"github.com/gobarg/barg/internal/tracelog"
)

// Collect walks argv once in order. taken marks slots consumed by a
// successful bind. A "--" token causes the next token to be taken
// literally even if it starts with "-". Any other remaining token that
// starts with "-" is an UnknownFlag error.
func Collect(argv []string, taken map[int]bool) ([]string, error) {
	log := tracelog.Named("residual")
	var spare []string
	i := 0
	for i < len(argv) {
		if taken[i] {
			i++
			continue
		}
		tok := argv[i]
		if tok == "--" {
			i++
			if i < len(argv) {
				if !taken[i] {
					spare = append(spare, argv[i])
				}
				i++
			}
			continue
		}
		if len(tok) > 0 && tok[0] == '-' && tok != "-" {
			return nil, fmt.Errorf("%w: %s", text.ErrUnknownFlag, fmt.Sprintf(text.MsgUnknownFlag, tok))
		}
		spare = append(spare, tok)
		i++
	}
	if spare == nil {
		spare = []string{}
	}
	log.Trace("collected residual tokens", "spare", spare)
	return spare, nil
}

// CheckRequired signals MissingSpare when spare is empty but required.
func CheckRequired(spare []string, required bool) error {
	if required && len(spare) == 0 {
		return fmt.Errorf("%w: %s", text.ErrMissingSpare, text.MsgMissingSpare)
	}
	return nil
}
