// This file is part of barg.
//
// Copyright (C) 2015-2025  David Gamba Rios
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package palette implements the Palette Resolver (spec.md §4.2): it
// assigns colon-separated ANSI SGR parameter strings to the six named
// roles, falling back from Configuration to the environment to a
// terminal-aware built-in default.
package palette

import (
	"fmt"
	"strings"
)

// EnvVarName is the process-wide fallback palette variable, per spec.md §6.
const EnvVarName = "BARG_COLOR_PALETTE"

// Role - one of the six named palette roles, in DSL declaration order.
type Role int

const (
	Accent Role = iota
	Command
	Required
	ErrorRole
	StringDefault
	OtherDefault
	roleCount
)

// Palette - resolved SGR codes for each role, plus whether color is
// enabled at all. Codes are opaque strings, per spec.md §9: this package
// never interprets them beyond wrapping them in a raw SGR escape.
type Palette struct {
	codes   [roleCount]string
	Enabled bool
}

// defaultCodes is used only when nothing configures a palette at all and
// the target stream is a terminal.
var defaultCodes = [roleCount]string{
	Accent:        "1;36",
	Command:       "1",
	Required:      "1;31",
	ErrorRole:     "31",
	StringDefault: "32",
	OtherDefault:  "33",
}

// Resolve implements the fallback chain: explicit configuration value,
// then the BARG_COLOR_PALETTE environment variable, then (added, see
// SPEC_FULL.md §4.2) a built-in default gated on isTerminal when neither
// source is set at all.
func Resolve(configValue string, lookupEnv func(string) (string, bool), isTerminal func() bool) Palette {
	if configValue != "" {
		return fromSpec(configValue)
	}
	if v, ok := lookupEnv(EnvVarName); ok && v != "" {
		return fromSpec(v)
	}
	if isTerminal != nil && isTerminal() {
		return Palette{codes: defaultCodes, Enabled: true}
	}
	return Palette{Enabled: false}
}

func fromSpec(value string) Palette {
	parts := strings.Split(value, ":")
	var codes [roleCount]string
	allEmpty := true
	for i := 0; i < int(roleCount); i++ {
		if i < len(parts) {
			codes[i] = parts[i]
		}
		if codes[i] != "" {
			allEmpty = false
		}
	}
	return Palette{codes: codes, Enabled: !allEmpty}
}

// Wrap applies role's SGR code around s, or returns s unchanged when color
// is disabled or the role has no assigned code.
func (p Palette) Wrap(role Role, s string) string {
	if !p.Enabled {
		return s
	}
	code := p.codes[role]
	if code == "" {
		return s
	}
	if strings.HasSuffix(s, "\n") {
		body := s[:len(s)-1]
		return fmt.Sprintf("\033[%sm%s\033[0m\n", code, body)
	}
	return fmt.Sprintf("\033[%sm%s\033[0m", code, s)
}

// Code returns the raw SGR parameter string assigned to role, "" if unset.
func (p Palette) Code(role Role) string {
	return p.codes[role]
}
