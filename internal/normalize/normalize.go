// This file is part of barg.
//
// Copyright (C) 2015-2025  David Gamba Rios
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package normalize implements the Argv Normalizer (spec.md §4.3): it
// expands bundled short flags and splits an attached numeric value from a
// short flag, while treating "--" as a hard end-of-options escape for the
// single token that follows it.
package normalize

import (
	"regexp"

	"github.com/gobarg/barg/internal/tracelog"
)

// attachedNumeric matches a short flag with a trailing numeric-ish value
// glued on, e.g. "-t2", "-t2_3.5". Length is checked by the caller.
var attachedNumeric = regexp.MustCompile(`^-[A-Za-z][0-9_.]*$`)

// bundled matches a run of bundled short flags, e.g. "-abc". Length is
// checked by the caller.
var bundled = regexp.MustCompile(`^-[A-Za-z]+$`)

// Normalize rewrites argv per spec.md §4.3. The result is idempotent:
// Normalize(Normalize(argv)) == Normalize(argv).
func Normalize(argv []string) []string {
	log := tracelog.Named("normalize")
	out := make([]string, 0, len(argv))
	i := 0
	for i < len(argv) {
		tok := argv[i]

		if tok == "--" {
			out = append(out, tok)
			i++
			if i < len(argv) {
				out = append(out, argv[i])
				i++
			}
			continue
		}

		if len(tok) >= 3 && attachedNumeric.MatchString(tok) {
			log.Trace("splitting attached numeric", "token", tok, "flag", tok[:2], "value", tok[2:])
			out = append(out, tok[:2], tok[2:])
			i++
			continue
		}

		if len(tok) >= 3 && bundled.MatchString(tok) {
			log.Trace("expanding bundled short flags", "token", tok)
			for _, r := range tok[1:] {
				out = append(out, "-"+string(r))
			}
			i++
			continue
		}

		out = append(out, tok)
		i++
	}
	log.Trace("normalized argv", "in", argv, "out", out)
	return out
}
