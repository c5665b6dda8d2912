// This file is part of barg.
//
// Copyright (C) 2015-2025  David Gamba Rios
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package help implements the Help Generator (spec.md §4.7): it renders
// the declaration list and configuration into the four-region text block
// callers print on --help.
package help

import (
	"fmt"
	"strings"

	runewidth "github.com/mattn/go-runewidth"

	"github.com/gobarg/barg/internal/decl"
	"github.com/gobarg/barg/internal/palette"
	"github.com/gobarg/barg/internal/tracelog"
)

const descriptionLimit = 45

// Render produces the full help text for the given scope. activeSubcommand
// is "" at top level. epilog is the caller-supplied array named by
// epilog_source, already resolved by the host; it is only appended at top
// level.
func Render(cfg decl.Configuration, subcommands []decl.Subcommand, decls []decl.Declaration, activeSubcommand string, pal palette.Palette, epilog []string) string {
	tracelog.Named("help").Debug("rendering help text", "subcommand", activeSubcommand, "declarations", len(decls))
	var b strings.Builder

	b.WriteString(pal.Wrap(palette.Command, title(cfg, subcommands, activeSubcommand)))
	b.WriteString("\n\n")

	b.WriteString(usageLine(cfg, subcommands, decls, activeSubcommand))
	b.WriteString("\n")

	if activeSubcommand == "" && len(subcommands) > 0 {
		b.WriteString("\nAvailable subcommands:\n")
		b.WriteString(renderSubcommands(subcommands, pal))
	}

	b.WriteString("\nOptions:\n")
	b.WriteString(renderOptions(cfg, decls, pal))

	if activeSubcommand == "" && len(epilog) > 0 {
		b.WriteString("\n")
		for _, line := range epilog {
			b.WriteString(strings.ReplaceAll(line, "{acc}", pal.Code(palette.Accent)))
			b.WriteString("\n")
		}
	}

	return b.String()
}

func title(cfg decl.Configuration, subcommands []decl.Subcommand, activeSubcommand string) string {
	if activeSubcommand != "" {
		for _, sc := range subcommands {
			if sc.Name == activeSubcommand {
				if sc.Description != "" {
					return fmt.Sprintf("%s %s: %s", cfg.ProgramName, sc.Name, sc.Description)
				}
				return fmt.Sprintf("%s %s", cfg.ProgramName, sc.Name)
			}
		}
		return fmt.Sprintf("%s %s", cfg.ProgramName, activeSubcommand)
	}
	if cfg.Summary != "" {
		return fmt.Sprintf("%s: %s", cfg.ProgramName, cfg.Summary)
	}
	return cfg.ProgramName
}

func usageLine(cfg decl.Configuration, subcommands []decl.Subcommand, decls []decl.Declaration, activeSubcommand string) string {
	var b strings.Builder
	b.WriteString("Usage: ")
	b.WriteString(cfg.ProgramName)
	switch {
	case activeSubcommand != "":
		b.WriteString(" ")
		b.WriteString(activeSubcommand)
	case len(subcommands) > 0:
		b.WriteString(" COMMAND")
	}
	b.WriteString(" [OPTIONS]")
	if spareRequired(cfg, subcommands, activeSubcommand) {
		b.WriteString(" [...]")
	}
	return b.String()
}

func spareRequired(cfg decl.Configuration, subcommands []decl.Subcommand, activeSubcommand string) bool {
	if activeSubcommand == "" {
		return cfg.SpareArgsRequired
	}
	for _, sc := range subcommands {
		if sc.Name == activeSubcommand {
			return sc.NeedsSpare
		}
	}
	return false
}

func renderSubcommands(subcommands []decl.Subcommand, pal palette.Palette) string {
	width := 0
	for _, sc := range subcommands {
		if w := runewidth.StringWidth(sc.Name); w > width {
			width = w
		}
	}
	var b strings.Builder
	for _, sc := range subcommands {
		name := pal.Wrap(palette.Command, sc.Name)
		pad := strings.Repeat(" ", width-runewidth.StringWidth(sc.Name))
		b.WriteString(fmt.Sprintf("  %s%s  %s\n", name, pad, truncate(sc.Description)))
	}
	return b.String()
}

type optLine struct {
	left string
	mid  string
	desc string
}

func renderOptions(cfg decl.Configuration, decls []decl.Declaration, pal palette.Palette) string {
	var lines []optLine
	for _, d := range decls {
		lines = append(lines, optionLines(d, cfg, pal)...)
	}
	if cfg.HelpEnabled {
		lines = append(lines, optLine{left: "-h, --help", mid: "flag", desc: "Show this help message and exit"})
	}

	leftWidth, midWidth := 0, 0
	for _, l := range lines {
		if w := runewidth.StringWidth(l.left); w > leftWidth {
			leftWidth = w
		}
		if w := runewidth.StringWidth(l.mid); w > midWidth {
			midWidth = w
		}
	}

	var b strings.Builder
	for _, l := range lines {
		leftPad := strings.Repeat(" ", leftWidth-runewidth.StringWidth(l.left))
		midPad := strings.Repeat(" ", midWidth-runewidth.StringWidth(l.mid))
		b.WriteString(fmt.Sprintf("  %s%s  %s%s  %s\n", l.left, leftPad, l.mid, midPad, l.desc))
	}
	return b.String()
}

func optionLines(d decl.Declaration, cfg decl.Configuration, pal palette.Palette) []optLine {
	if d.Kind == decl.KindSwitch {
		name := d.SwitchName
		if name == "" {
			name = "choice"
		}
		var out []optLine
		for _, a := range d.Arms {
			left := armLabel(a)
			out = append(out, optLine{left: left, mid: name, desc: withDefault(a.Help, "", d, cfg, pal)})
		}
		return out
	}

	left := patternLabel(d.Pattern, pal)
	mid := typeLabel(d, pal)
	return []optLine{{left: left, mid: mid, desc: withDefault(d.Description, defaultText(d), d, cfg, pal)}}
}

func armLabel(a decl.Arm) string {
	switch {
	case a.HasShort() && a.HasLong():
		return fmt.Sprintf("-%c, --%s", a.Short, a.Long)
	case a.HasShort():
		return fmt.Sprintf("-%c", a.Short)
	default:
		return "--" + a.Long
	}
}

func patternLabel(p decl.Pattern, pal palette.Palette) string {
	switch {
	case p.HasShort() && p.HasLong():
		return fmt.Sprintf("-%c, --%s", p.Short, p.Long)
	case p.HasShort():
		return fmt.Sprintf("-%c", p.Short)
	default:
		return "--" + p.Long
	}
}

func typeLabel(d decl.Declaration, pal palette.Palette) string {
	base := d.ValueType.String()
	switch d.Kind {
	case decl.KindFlag:
		return "flag"
	case decl.KindEnum:
		return "enum"
	case decl.KindVector:
		return "[" + base + "]"
	}
	if d.Required {
		return pal.Wrap(palette.Required, "<"+base+">")
	}
	return base
}

func defaultText(d decl.Declaration) string {
	switch d.Kind {
	case decl.KindFlag:
		return fmt.Sprintf("%v", d.BoolDefault)
	case decl.KindEnum:
		return d.EnumDefault()
	}
	if d.Default == nil {
		return ""
	}
	return fmt.Sprintf("%v", d.Default)
}

func withDefault(desc, def string, d decl.Declaration, cfg decl.Configuration, pal palette.Palette) string {
	desc = truncate(desc)
	if cfg.ShowDefaults && def != "" {
		desc = strings.TrimSpace(desc + " " + pal.Wrap(defaultRole(d), fmt.Sprintf("(def: %s)", def)))
	}
	return desc
}

// defaultRole picks the string-default or other-default palette role
// depending on whether the declaration's default is itself string-typed,
// per spec.md §4.2's six named roles.
func defaultRole(d decl.Declaration) palette.Role {
	if d.Kind == decl.KindEnum || (d.Kind != decl.KindFlag && d.ValueType == decl.TypeStr) {
		return palette.StringDefault
	}
	return palette.OtherDefault
}

func truncate(s string) string {
	return runewidth.Truncate(s, descriptionLimit, "...")
}
