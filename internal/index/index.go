// This file is part of barg.
//
// Copyright (C) 2015-2025  David Gamba Rios
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package index implements the Indexing Phase (spec.md §4.4): it scans
// normalized argv and builds a flag-occurrence index mapping each
// encountered flag token to the ordered list of value-slot indices that
// follow it.
package index

import "github.com/gobarg/barg/internal/tracelog"

// IsFlag reports whether tok is a flag token: starts with '-', is not the
// lone dash "-", and is not the "--" terminator.
func IsFlag(tok string) bool {
	return len(tok) > 1 && tok[0] == '-' && tok != "--"
}

// Index - flag token -> ordered value-slot indices.
type Index map[string][]int

// Build scans normalized argv and returns the flag-occurrence index. "--"
// and the single token that follows it are skipped entirely, since that
// pair is an escape, not a flag occurrence.
func Build(argv []string) Index {
	log := tracelog.Named("index")
	idx := Index{}
	i := 0
	for i < len(argv) {
		tok := argv[i]
		if tok == "--" {
			i += 2
			continue
		}
		if IsFlag(tok) {
			idx[tok] = append(idx[tok], i+1)
		}
		i++
	}
	log.Trace("built flag-occurrence index", "argv", argv, "index", idx)
	return idx
}
