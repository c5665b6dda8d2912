// This file is part of barg.
//
// Copyright (C) 2015-2025  David Gamba Rios
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package barg

import (
	"io"
	"os"

	isatty "github.com/mattn/go-isatty"
)

// ErrorHook mirrors the hook contract of spec.md §6: it is called with the
// error's kind label and detail description, and its return value becomes
// the process exit code; 0 suppresses the error.
type ErrorHook func(kindLabel, description string) int

type settings struct {
	errorHooks map[string]ErrorHook
	epilogs    map[string][]string
	getenv     func(string) (string, bool)
	isTerminal func() bool
	output     io.Writer
	errOutput  io.Writer
}

func defaultSettings() *settings {
	return &settings{
		errorHooks: map[string]ErrorHook{},
		epilogs:    map[string][]string{},
		getenv:     os.LookupEnv,
		isTerminal: func() bool { return isatty.IsTerminal(os.Stdout.Fd()) },
		output:     os.Stdout,
		errOutput:  os.Stderr,
	}
}

// Option configures a Parse call. Options are the Go-native stand-in for
// the DSL's by-name indirection (on_error_hook, epilog_source): the DSL
// text only names a hook or an epilog array, and the embedding host wires
// the actual value in through one of these.
type Option func(*settings)

// WithErrorHook registers a Go function under name so a `meta {
// on_error_hook: name }` declaration can resolve it.
func WithErrorHook(name string, hook ErrorHook) Option {
	return func(s *settings) { s.errorHooks[name] = hook }
}

// WithEpilog registers an epilog line array under name so a `meta {
// epilog_source: name }` declaration can resolve it.
func WithEpilog(name string, lines []string) Option {
	return func(s *settings) { s.epilogs[name] = lines }
}

// WithEnvLookup overrides the BARG_COLOR_PALETTE lookup function, mainly
// for tests.
func WithEnvLookup(getenv func(string) (string, bool)) Option {
	return func(s *settings) { s.getenv = getenv }
}

// WithTerminalDetector overrides the isatty-backed terminal check the
// Palette Resolver uses for its built-in default.
func WithTerminalDetector(isTerminal func() bool) Option {
	return func(s *settings) { s.isTerminal = isTerminal }
}

// WithOutput overrides the stream help and completion text are rendered
// against, for tests or embedding into a non-stdout UI.
func WithOutput(w io.Writer) Option {
	return func(s *settings) { s.output = w }
}

// WithErrorOutput overrides the stream an unhandled error is rendered
// against when `use_stderr` is true (the default), for tests or embedding
// into a non-stderr UI.
func WithErrorOutput(w io.Writer) Option {
	return func(s *settings) { s.errOutput = w }
}
