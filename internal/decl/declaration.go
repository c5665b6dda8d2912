// This file is part of barg.
//
// Copyright (C) 2015-2025  David Gamba Rios
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package decl holds the normalized option/subcommand model the Definition
// Parser produces and every later pipeline stage consumes.
package decl

import (
	"fmt"
	"regexp"

	multierror "github.com/hashicorp/go-multierror"

	"github.com/gobarg/barg/internal/text"
)

// Kind - the tagged variant of a Declaration's value shape.
type Kind int

const (
	KindFlag Kind = iota
	KindScalar
	KindVector
	KindEnum
	KindSwitch
)

func (k Kind) String() string {
	switch k {
	case KindFlag:
		return "flag"
	case KindScalar:
		return "scalar"
	case KindVector:
		return "vector"
	case KindEnum:
		return "enum"
	case KindSwitch:
		return "switch"
	default:
		return "unknown"
	}
}

// ValueType - the scalar/vector payload type.
type ValueType int

const (
	TypeStr ValueType = iota
	TypeInt
	TypeFloat
	TypeNum
)

func (t ValueType) String() string {
	switch t {
	case TypeInt:
		return "int"
	case TypeFloat:
		return "float"
	case TypeNum:
		return "num"
	default:
		return "str"
	}
}

// ScopeKind - which programs a Declaration is visible to.
type ScopeKind int

const (
	ScopeGlobalOnly ScopeKind = iota
	ScopeGlobalAlways
	ScopeSubcommand
)

// Scope - the resolved DSL scope prefix (`@`, absent, or `@name`).
type Scope struct {
	Kind ScopeKind
	Name string // only set when Kind == ScopeSubcommand
}

func (s Scope) String() string {
	switch s.Kind {
	case ScopeGlobalOnly:
		return "@"
	case ScopeSubcommand:
		return "@" + s.Name
	default:
		return ""
	}
}

// Active reports whether this scope applies given the currently selected
// subcommand (empty string means no subcommand was selected).
func (s Scope) Active(subcommand string) bool {
	switch s.Kind {
	case ScopeGlobalAlways:
		return true
	case ScopeGlobalOnly:
		return subcommand == ""
	case ScopeSubcommand:
		return s.Name == subcommand
	}
	return false
}

// Pattern - the short/long flag spelling for a non-switch Declaration.
type Pattern struct {
	Short byte   // 0 if unset
	Long  string // "" if unset
}

func (p Pattern) HasShort() bool { return p.Short != 0 }
func (p Pattern) HasLong() bool  { return p.Long != "" }

func (p Pattern) String() string {
	switch {
	case p.HasShort() && p.HasLong():
		return fmt.Sprintf("-%c/--%s", p.Short, p.Long)
	case p.HasShort():
		return fmt.Sprintf("-%c", p.Short)
	default:
		return "--" + p.Long
	}
}

// Arm - one mutually exclusive choice inside a Switch declaration.
type Arm struct {
	Short byte
	Long  string
	Value string
	Help  string
}

func (a Arm) HasShort() bool { return a.Short != 0 }
func (a Arm) HasLong() bool  { return a.Long != "" }

// Declaration - the normalized form of one option, per spec.md §3.
type Declaration struct {
	Scope       Scope
	Required    bool
	Kind        Kind
	ValueType   ValueType // meaningful for KindScalar/KindVector
	BoolDefault bool      // meaningful for KindFlag
	Choices     []string  // meaningful for KindEnum, first is implicit default
	Arms        []Arm     // meaningful for KindSwitch, first match wins
	Pattern     Pattern   // meaningful for non-switch kinds
	SwitchName  string    // meaningful for KindSwitch: the user-visible type-column name
	Default     any       // optional literal: string, int64, float64, or bool
	Binding     string
	Description string
}

// EnumDefault returns the effective default choice for an Enum
// declaration: the explicit default if given, else the first choice.
func (d Declaration) EnumDefault() string {
	if s, ok := d.Default.(string); ok && s != "" {
		return s
	}
	if len(d.Choices) > 0 {
		return d.Choices[0]
	}
	return ""
}

// SwitchDefault returns the effective default value string for a Switch
// declaration: the explicit default if given, else "0".
func (d Declaration) SwitchDefault() string {
	if s, ok := d.Default.(string); ok && s != "" {
		return s
	}
	return "0"
}

var bindingRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// ReservedBindings - the fixed portability set from the Glossary. Kept
// non-empty by default as a courtesy to hosts that bind results into a
// shell-like namespace; a pure-library embedding never collides with it in
// practice since these names would be unusual binding choices anyway.
var ReservedBindings = map[string]bool{
	"PATH": true, "IFS": true, "HOME": true, "UID": true, "PWD": true,
	"SHELL": true, "PS1": true, "PS2": true, "OLDPWD": true,
}

// ValidateBinding checks the binding name syntax and the reserved set.
func ValidateBinding(name string) error {
	if !bindingRe.MatchString(name) {
		return fmt.Errorf("%w: %s", text.ErrIllegalBinding, fmt.Sprintf(text.MsgIllegalBinding, name))
	}
	if ReservedBindings[name] {
		return fmt.Errorf("%w: %s", text.ErrIllegalBinding, fmt.Sprintf(text.MsgIllegalBinding, name))
	}
	return nil
}

// Configuration - the parsed `meta { … }` block, per spec.md §3.
type Configuration struct {
	ProgramName        string
	Summary            string
	ColorPalette       string
	OnErrorHook        string
	EpilogSource       string
	SpareArgsBinding   string
	SpareArgsRequired  bool
	SubcommandRequired bool
	AllowEmptyValues   bool
	ShowDefaults       bool
	HelpEnabled        bool
	CompletionEnabled  bool
	QuietExit          bool
	UseStderr          bool
}

// DefaultConfiguration returns a Configuration with every default from
// spec.md §3 applied; programName should be filepath.Base(os.Args[0]).
func DefaultConfiguration(programName string) Configuration {
	return Configuration{
		ProgramName:       programName,
		SpareArgsBinding:  "BARG_SPARE_ARGS",
		CompletionEnabled: true,
		UseStderr:         true,
	}
}

// Subcommand - one entry of the `commands { … }` block.
type Subcommand struct {
	Name        string
	Description string
	NeedsSpare  bool
}

// ValidateScope checks the three invariants of spec.md §3 that are scoped
// to a single active scope: binding uniqueness, pattern uniqueness among
// non-switch declarations, and per-arm distinctness within switches.
// activeDecls must already be filtered to the declarations relevant to one
// active scope (global-always plus either global-only or one subcommand).
func ValidateScope(scopeLabel string, activeDecls []Declaration) error {
	var errs *multierror.Error

	seenBinding := map[string]bool{}
	seenShort := map[byte]bool{}
	seenLong := map[string]bool{}

	for _, d := range activeDecls {
		if seenBinding[d.Binding] {
			errs = multierror.Append(errs, fmt.Errorf("%w: %s", text.ErrDSLSyntax,
				fmt.Sprintf("duplicate binding %q in scope %q", d.Binding, scopeLabel)))
		}
		seenBinding[d.Binding] = true

		if d.Kind == KindSwitch {
			armShort := map[byte]bool{}
			armLong := map[string]bool{}
			for _, a := range d.Arms {
				if a.HasShort() {
					if armShort[a.Short] {
						errs = multierror.Append(errs, fmt.Errorf("%w: %s", text.ErrDSLSyntax,
							fmt.Sprintf("duplicate short arm '-%c' in switch %q", a.Short, d.Binding)))
					}
					armShort[a.Short] = true
				}
				if a.HasLong() {
					if armLong[a.Long] {
						errs = multierror.Append(errs, fmt.Errorf("%w: %s", text.ErrDSLSyntax,
							fmt.Sprintf("duplicate long arm '--%s' in switch %q", a.Long, d.Binding)))
					}
					armLong[a.Long] = true
				}
			}
			continue
		}

		if d.Kind == KindEnum && len(d.Choices) == 0 {
			errs = multierror.Append(errs, fmt.Errorf("%w: %s", text.ErrDSLSyntax,
				fmt.Sprintf("enum %q has no choices", d.Binding)))
		}

		if d.Pattern.HasShort() {
			if seenShort[d.Pattern.Short] {
				errs = multierror.Append(errs, fmt.Errorf("%w: %s", text.ErrDSLSyntax,
					fmt.Sprintf(text.MsgDuplicatePattern, fmt.Sprintf("-%c", d.Pattern.Short), scopeLabel)))
			}
			seenShort[d.Pattern.Short] = true
		}
		if d.Pattern.HasLong() {
			if seenLong[d.Pattern.Long] {
				errs = multierror.Append(errs, fmt.Errorf("%w: %s", text.ErrDSLSyntax,
					fmt.Sprintf(text.MsgDuplicatePattern, "--"+d.Pattern.Long, scopeLabel)))
			}
			seenLong[d.Pattern.Long] = true
		}
	}

	if errs != nil {
		errs.ErrorFormat = func(es []error) string {
			s := fmt.Sprintf("%d declaration error(s) in scope %q:", len(es), scopeLabel)
			for _, e := range es {
				s += "\n  - " + e.Error()
			}
			return s
		}
		return errs
	}
	return nil
}

// ActiveDeclarations filters decls to those visible for the given selected
// subcommand (empty string = no subcommand selected).
func ActiveDeclarations(decls []Declaration, subcommand string) []Declaration {
	out := make([]Declaration, 0, len(decls))
	for _, d := range decls {
		if d.Scope.Active(subcommand) {
			out = append(out, d)
		}
	}
	return out
}
