// This file is part of barg.
//
// Copyright (C) 2015-2025  David Gamba Rios
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package completion implements the Completion Generator (spec.md §4.8):
// given the declaration list and the user's in-progress argv, it emits
// shell-completion suggestions as a TSV stream or, via the nucomp adapter,
// as a JSON array.
package completion

import (
	"encoding/json"
	"fmt"
	"strings"

	runewidth "github.com/mattn/go-runewidth"

	"github.com/gobarg/barg/internal/decl"
	"github.com/gobarg/barg/internal/tracelog"
)

// ColorCode - the suggestion category, per spec.md §4.8.
type ColorCode int

const (
	ColorSubcommand   ColorCode = 0
	ColorOptionalFlag ColorCode = 1
	ColorRequiredFlag ColorCode = 2
	ColorEnumValue    ColorCode = 3
)

// Suggestion - one completion candidate.
type Suggestion struct {
	Value       string
	Color       ColorCode
	Description string
}

// Suggest implements the context rules of spec.md §4.8. argv is the
// user's in-progress token vector (not including the program name or the
// @nucomp/@tsvcomp marker). subcommandRequired mirrors Configuration's
// flag of the same name.
func Suggest(decls []decl.Declaration, subcommands []decl.Subcommand, subcommandRequired bool, argv []string) []Suggestion {
	log := tracelog.Named("completion")
	log.Trace("suggesting completions", "argv", argv)
	cur := ""
	if len(argv) > 0 {
		cur = argv[len(argv)-1]
	}
	prevArgs := argv
	if len(argv) > 0 {
		prevArgs = argv[:len(argv)-1]
	}

	if len(subcommands) > 0 && len(argv) <= 1 {
		var out []Suggestion
		for _, sc := range subcommands {
			if strings.HasPrefix(sc.Name, cur) {
				out = append(out, Suggestion{Value: sc.Name, Color: ColorSubcommand, Description: sc.Description})
			}
		}
		if subcommandRequired && strings.HasPrefix(cur, "-") {
			out = append(out, helpSuggestions(cur)...)
		}
		return out
	}

	if len(prevArgs) > 0 {
		if d, ok := enumDeclForFlag(decls, prevArgs[len(prevArgs)-1]); ok {
			var out []Suggestion
			for _, choice := range d.Choices {
				if strings.HasPrefix(choice, cur) {
					out = append(out, Suggestion{Value: choice, Color: ColorEnumValue})
				}
			}
			return out
		}
	}

	used := usedFlags(prevArgs)
	suppressLong := strings.HasPrefix(cur, "-") && !strings.HasPrefix(cur, "--")
	suppressShort := strings.HasPrefix(cur, "--")

	var out []Suggestion
	for _, d := range decls {
		if d.Kind == decl.KindSwitch {
			for _, a := range d.Arms {
				out = append(out, armSuggestions(a.Short, a.Long, cur, used, suppressShort, suppressLong, colorFor(d))...)
			}
			continue
		}
		if used["-"+string(d.Pattern.Short)] || used["--"+d.Pattern.Long] {
			continue
		}
		out = append(out, armSuggestions(d.Pattern.Short, d.Pattern.Long, cur, used, suppressShort, suppressLong, colorFor(d))...)
	}
	return out
}

func colorFor(d decl.Declaration) ColorCode {
	if d.Required {
		return ColorRequiredFlag
	}
	return ColorOptionalFlag
}

func armSuggestions(short byte, long string, cur string, used map[string]bool, suppressShort, suppressLong bool, color ColorCode) []Suggestion {
	var out []Suggestion
	if short != 0 && !suppressShort && !used["-"+string(short)] {
		v := "-" + string(short)
		if strings.HasPrefix(v, cur) {
			out = append(out, Suggestion{Value: v, Color: color})
		}
	}
	if long != "" && !suppressLong && !used["--"+long] {
		v := "--" + long
		if strings.HasPrefix(v, cur) {
			out = append(out, Suggestion{Value: v, Color: color})
		}
	}
	return out
}

func usedFlags(argv []string) map[string]bool {
	used := map[string]bool{}
	for _, tok := range argv {
		if strings.HasPrefix(tok, "-") {
			used[tok] = true
		}
	}
	return used
}

func enumDeclForFlag(decls []decl.Declaration, tok string) (decl.Declaration, bool) {
	for _, d := range decls {
		if d.Kind != decl.KindEnum {
			continue
		}
		if (d.Pattern.HasShort() && tok == "-"+string(d.Pattern.Short)) || (d.Pattern.HasLong() && tok == "--"+d.Pattern.Long) {
			return d, true
		}
	}
	return decl.Declaration{}, false
}

func helpSuggestions(cur string) []Suggestion {
	var out []Suggestion
	if strings.HasPrefix("-h", cur) {
		out = append(out, Suggestion{Value: "-h", Color: ColorOptionalFlag})
	}
	if strings.HasPrefix("--help", cur) {
		out = append(out, Suggestion{Value: "--help", Color: ColorOptionalFlag})
	}
	return out
}

// RenderTSV writes the "value\tcolor_code\tdescription" stream, one
// suggestion per line.
func RenderTSV(suggestions []Suggestion) string {
	var b strings.Builder
	for _, s := range suggestions {
		fmt.Fprintf(&b, "%s\t%d\t%s\n", s.Value, s.Color, s.Description)
	}
	return b.String()
}

// nucompStyleFg maps a ColorCode to the foreground color name the nucomp
// adapter's consumers (Nushell's completer) expect.
var nucompStyleFg = map[ColorCode]string{
	ColorSubcommand:   "green",
	ColorOptionalFlag: "cyan",
	ColorRequiredFlag: "red",
	ColorEnumValue:    "yellow",
}

type nucompEntry struct {
	Value       string          `json:"value"`
	Display     string          `json:"display"`
	Description string          `json:"description"`
	Style       nucompEntryStyle `json:"style"`
}

type nucompEntryStyle struct {
	Fg string `json:"fg"`
}

// RenderNucomp reshapes the same suggestion stream into the JSON array the
// nucomp adapter emits. Each entry's display field is right-padded to the
// widest suggestion's rune width, the same alignment primitive the Help
// Generator uses, so a menu mixing flag names and multi-byte enum values
// still lines up in the terminal that renders it.
func RenderNucomp(suggestions []Suggestion) (string, error) {
	width := 0
	for _, s := range suggestions {
		if w := runewidth.StringWidth(s.Value); w > width {
			width = w
		}
	}

	entries := make([]nucompEntry, 0, len(suggestions))
	for _, s := range suggestions {
		pad := strings.Repeat(" ", width-runewidth.StringWidth(s.Value))
		entries = append(entries, nucompEntry{
			Value:       s.Value,
			Display:     s.Value + pad,
			Description: s.Description,
			Style:       nucompEntryStyle{Fg: nucompStyleFg[s.Color]},
		})
	}
	out, err := json.Marshal(entries)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
