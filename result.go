// This file is part of barg.
//
// Copyright (C) 2015-2025  David Gamba Rios
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package barg

// Result is everything a successful (or help/completion-short-circuited)
// Parse produces, per spec.md §6's "Outputs to the embedding host".
type Result struct {
	// Bindings holds one entry per declaration, keyed by its binding
	// name. Scalars are string/int64/float64, vectors are slices of the
	// same, flags are bool, switches are string.
	Bindings map[string]any

	// Subcommand is BARG_SUBCOMMAND: the selected subcommand name, or "".
	Subcommand string

	// ArgvTable is BARG_ARGV_TABLE: binding name -> "!" iff it was set
	// from argv rather than left at its default.
	ArgvTable map[string]string

	// Spare is the ordered residual positional tokens.
	Spare []string

	// HelpText is non-empty when -h/--help short-circuited the parse.
	HelpText string

	// CompletionText is non-empty when a @nucomp/@tsvcomp request
	// short-circuited the parse.
	CompletionText string

	// ExitCode follows spec.md §6's exit-code rule: 0 on a successful
	// parse that consumed at least one argv token, 1 when argv was empty
	// and the #[always] directive was absent, and on any error 1, or the
	// configured error hook's return value when a hook handled it.
	ExitCode int
}

// SpareCount is BARG_SPARE_ARGS_COUNT.
func (r *Result) SpareCount() int {
	return len(r.Spare)
}

// Called reports whether binding was set from argv rather than left at
// its default.
func (r *Result) Called(binding string) bool {
	return r.ArgvTable[binding] != ""
}

// String returns the string value of binding, or "" if unset/wrong type.
func (r *Result) String(binding string) string {
	s, _ := r.Bindings[binding].(string)
	return s
}

// Int returns the int64 value of binding, or 0 if unset/wrong type.
func (r *Result) Int(binding string) int64 {
	n, _ := r.Bindings[binding].(int64)
	return n
}

// Float returns the float64 value of binding, or 0 if unset/wrong type.
func (r *Result) Float(binding string) float64 {
	f, _ := r.Bindings[binding].(float64)
	return f
}

// Bool returns the bool value of binding, or false if unset/wrong type.
func (r *Result) Bool(binding string) bool {
	b, _ := r.Bindings[binding].(bool)
	return b
}

// StringSlice returns the []string value of binding, or nil if
// unset/wrong type.
func (r *Result) StringSlice(binding string) []string {
	s, _ := r.Bindings[binding].([]string)
	return s
}

// IntSlice returns the []int64 value of binding, or nil if unset/wrong
// type.
func (r *Result) IntSlice(binding string) []int64 {
	s, _ := r.Bindings[binding].([]int64)
	return s
}

// FloatSlice returns the []float64 value of binding, or nil if
// unset/wrong type.
func (r *Result) FloatSlice(binding string) []float64 {
	s, _ := r.Bindings[binding].([]float64)
	return s
}
