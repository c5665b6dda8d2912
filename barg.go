// This file is part of barg.
//
// Copyright (C) 2015-2025  David Gamba Rios
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

/*
Package barg parses a small embedded DSL describing a program's options,
subcommands, and metadata, then binds a vector of command-line tokens
against it.

Usage

	const dsl = `
	meta {
		summary: "does a thing"
	}
	a/alpha :flag => ALPHA
	t/times :int => TIMES
	`

	result, err := barg.Parse(dsl, os.Args[1:])
	if err != nil {
		os.Exit(result.ExitCode)
	}
	if result.Bool("ALPHA") {
		fmt.Println("alpha mode, times:", result.Int("TIMES"))
	}
*/
package barg

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gobarg/barg/internal/bind"
	"github.com/gobarg/barg/internal/completion"
	"github.com/gobarg/barg/internal/decl"
	"github.com/gobarg/barg/internal/dsl"
	"github.com/gobarg/barg/internal/help"
	"github.com/gobarg/barg/internal/index"
	"github.com/gobarg/barg/internal/normalize"
	"github.com/gobarg/barg/internal/palette"
	"github.com/gobarg/barg/internal/residual"
	"github.com/gobarg/barg/internal/text"
	"github.com/gobarg/barg/internal/tracelog"
)

const (
	completionMarkerNucomp = "@nucomp"
	completionMarkerTsv    = "@tsvcomp"
)

// Parse runs the full seven-stage pipeline: it parses dslText into a
// Configuration, subcommand list, and declaration list, validates every
// scope, resolves subcommand routing and help/completion interception,
// then normalizes, indexes, binds, and collects residuals from argv.
func Parse(dslText string, argv []string, opts ...Option) (*Result, error) {
	s := defaultSettings()
	for _, o := range opts {
		o(s)
	}

	log := tracelog.Named("barg")
	originalArgvLen := len(argv)
	result := &Result{}

	programName := filepath.Base(os.Args[0])
	doc, err := dsl.Parse(dslText, programName)
	cfg := doc.Configuration
	pal := palette.Resolve(cfg.ColorPalette, s.getenv, s.isTerminal)
	if err != nil {
		log.Error("failed to parse definition", "error", err)
		return errorResult(s, cfg, pal, result, err), err
	}

	if err := validateAllScopes(doc); err != nil {
		log.Error("invalid definition", "error", err)
		return errorResult(s, cfg, pal, result, err), err
	}

	if len(argv) > 0 && (argv[0] == completionMarkerNucomp || argv[0] == completionMarkerTsv) {
		return runCompletion(doc, argv, s)
	}

	subcommand, remainder := routeSubcommand(doc.Subcommands, argv)
	result.Subcommand = subcommand
	normalized := normalize.Normalize(remainder)
	log.Debug("normalized argv", "subcommand", subcommand, "argv", normalized)

	if cfg.HelpEnabled && helpRequested(normalized) {
		helpText := help.Render(cfg, doc.Subcommands, decl.ActiveDeclarations(doc.Declarations, subcommand), subcommand, pal, s.epilogs[cfg.EpilogSource])
		fmt.Fprint(s.output, helpText)
		result.HelpText = helpText
		return result, nil
	}

	if cfg.SubcommandRequired && subcommand == "" {
		names := subcommandNames(doc.Subcommands)
		err := fmt.Errorf("%w: %s", text.ErrMissingSubcommand, fmt.Sprintf(text.MsgMissingSubcommand, strings.Join(names, ", ")))
		return errorResult(s, cfg, pal, result, err), err
	}

	active := decl.ActiveDeclarations(doc.Declarations, subcommand)
	idx := index.Build(normalized)

	bound, err := bind.Bind(active, normalized, idx, cfg.AllowEmptyValues)
	if err != nil {
		log.Error("bind failed", "error", err)
		return errorResult(s, cfg, pal, result, err), err
	}
	result.Bindings = bound.Bindings
	result.ArgvTable = bound.ArgvTable

	spare, err := residual.Collect(normalized, bound.Taken)
	if err != nil {
		log.Error("residual collection failed", "error", err)
		return errorResult(s, cfg, pal, result, err), err
	}
	result.Spare = spare
	if err := residual.CheckRequired(spare, spareRequired(cfg, doc.Subcommands, subcommand)); err != nil {
		return errorResult(s, cfg, pal, result, err), err
	}

	if originalArgvLen == 0 && !doc.Always {
		result.ExitCode = 1
	}
	return result, nil
}

// validateAllScopes checks the scope invariants (spec.md §3) across every
// scope combination the definition can resolve to: global-always plus
// global-only, and global-always plus each declared subcommand.
func validateAllScopes(doc dsl.Document) error {
	if err := decl.ValidateScope("@", decl.ActiveDeclarations(doc.Declarations, "")); err != nil {
		return err
	}
	for _, sc := range doc.Subcommands {
		if err := decl.ValidateScope("@"+sc.Name, decl.ActiveDeclarations(doc.Declarations, sc.Name)); err != nil {
			return err
		}
	}
	return nil
}

func routeSubcommand(subcommands []decl.Subcommand, argv []string) (subcommand string, remainder []string) {
	if len(argv) == 0 {
		return "", argv
	}
	for _, sc := range subcommands {
		if sc.Name == argv[0] {
			return sc.Name, argv[1:]
		}
	}
	return "", argv
}

func subcommandNames(subcommands []decl.Subcommand) []string {
	names := make([]string, len(subcommands))
	for i, sc := range subcommands {
		names[i] = sc.Name
	}
	return names
}

func spareRequired(cfg decl.Configuration, subcommands []decl.Subcommand, subcommand string) bool {
	if subcommand == "" {
		return cfg.SpareArgsRequired
	}
	for _, sc := range subcommands {
		if sc.Name == subcommand {
			return sc.NeedsSpare
		}
	}
	return false
}

// helpRequested scans normalized argv for a bare -h/--help token, stopping
// at a literal "--" since spec.md §6 excludes tokens after the escape.
func helpRequested(argv []string) bool {
	for _, tok := range argv {
		if tok == "--" {
			return false
		}
		if tok == "-h" || tok == "--help" {
			return true
		}
	}
	return false
}

func runCompletion(doc dsl.Document, argv []string, s *settings) (*Result, error) {
	userArgv := []string{}
	if len(argv) > 2 {
		userArgv = argv[2:]
	}
	subcommand, remainder := routeSubcommand(doc.Subcommands, userArgv)
	active := decl.ActiveDeclarations(doc.Declarations, subcommand)
	suggestions := completion.Suggest(active, doc.Subcommands, doc.Configuration.SubcommandRequired, remainder)

	var out string
	var err error
	if argv[0] == completionMarkerNucomp {
		out, err = completion.RenderNucomp(suggestions)
	} else {
		out = completion.RenderTSV(suggestions)
	}
	if err != nil {
		return nil, err
	}
	fmt.Fprint(s.output, out)
	return &Result{CompletionText: out, ExitCode: 0}, nil
}

// errorResult fills in the exit code computed from the configured error
// hook, per spec.md §6's error-hook contract: a hook returning 0 "continues
// the program", so partial carries whatever bindings/subcommand/spare the
// pipeline had already produced before the error. When no hook is
// configured, the error is rendered color-aware to stderr (or stdout when
// `use_stderr` is false) unless `quiet_exit` suppresses the text, per
// spec.md §7.
func errorResult(s *settings, cfg decl.Configuration, pal palette.Palette, partial *Result, err error) *Result {
	label, description := text.Describe(err)
	code := 1
	if hook, ok := s.errorHooks[cfg.OnErrorHook]; ok && cfg.OnErrorHook != "" {
		code = hook(label, description)
	} else if !cfg.QuietExit {
		renderError(s, cfg, pal, label, description)
	}
	partial.ExitCode = code
	return partial
}

// renderError writes "label: description" to the error stream, with label
// wrapped in the palette's error role.
func renderError(s *settings, cfg decl.Configuration, pal palette.Palette, label, description string) {
	w := s.errOutput
	if !cfg.UseStderr {
		w = s.output
	}
	fmt.Fprintf(w, "%s: %s\n", pal.Wrap(palette.ErrorRole, label), description)
}
