// This file is part of barg.
//
// Copyright (C) 2015-2025  David Gamba Rios
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package text centralizes every user-facing error label and message
// template used across the parsing pipeline, mirroring the teacher
// library's own text package.
package text

import "errors"

// Error kinds - one sentinel per label in spec.md §7. Wrap with fmt.Errorf
// and "%w" so callers can errors.Is against the kind regardless of detail.
var (
	ErrInvalidOption     = errors.New("InvalidOption")
	ErrIllegalBinding    = errors.New("IllegalBinding")
	ErrDSLSyntax         = errors.New("DSLSyntax")
	ErrMissingSubcommand = errors.New("MissingSubcommand")
	ErrMissingRequired   = errors.New("MissingRequired")
	ErrParamLikeValue    = errors.New("ParamLikeValue")
	ErrTypeMismatch      = errors.New("TypeMismatch")
	ErrUnknownFormat     = errors.New("UnknownFormat")
	ErrInvalidChoice     = errors.New("InvalidChoice")
	ErrUnknownFlag       = errors.New("UnknownFlag")
	ErrMissingSpare      = errors.New("MissingSpare")
	ErrRegexUnsupported  = errors.New("RegexUnsupported")

	// ErrHelpRequested indicates help was rendered and handled; not a
	// parse failure.
	ErrHelpRequested = errors.New("help requested")

	// ErrCompletionRequested indicates a completion stream was rendered;
	// not a parse failure.
	ErrCompletionRequested = errors.New("completion requested")
)

// kinds lists every labeled sentinel in the order KindLabel checks them.
var kinds = []error{
	ErrInvalidOption, ErrIllegalBinding, ErrDSLSyntax, ErrMissingSubcommand,
	ErrMissingRequired, ErrParamLikeValue, ErrTypeMismatch, ErrUnknownFormat,
	ErrInvalidChoice, ErrUnknownFlag, ErrMissingSpare, ErrRegexUnsupported,
}

// KindLabel returns the label of the first sentinel in the kinds set that
// err wraps, or "Error" if none match.
func KindLabel(err error) string {
	for _, k := range kinds {
		if errors.Is(err, k) {
			return k.Error()
		}
	}
	return "Error"
}

// Describe splits err into its label and detail message, following the
// "%w: detail" convention every error in this package is built with.
func Describe(err error) (label, description string) {
	label = KindLabel(err)
	msg := err.Error()
	prefix := label + ": "
	if len(msg) > len(prefix) && msg[:len(prefix)] == prefix {
		return label, msg[len(prefix):]
	}
	return label, msg
}

// Message templates, one placeholder set per error kind.
const (
	MsgInvalidMetaKey       = "unrecognized meta key %q"
	MsgIllegalBinding       = "binding name %q is not a valid identifier or collides with a reserved name"
	MsgDSLSyntax            = "could not parse DSL text after declaration %q: %q"
	MsgDuplicatePattern     = "duplicate option pattern %q in scope %q"
	MsgMissingSubcommand    = "a subcommand is required, available: %s"
	MsgMissingRequiredOpt   = "missing required option for binding %q"
	MsgMissingRequiredSwtch = "missing required switch for binding %q"
	MsgParamLikeValue       = "value for %q looks like a flag, escape it with -- if intentional"
	MsgMissingValue         = "flag %q is missing its value"
	MsgTypeMismatch         = "value %q for %q is not a %s"
	MsgUnknownFormat        = "value %q for %q does not match the %s literal grammar"
	MsgInvalidChoice        = "value %q for %q is not one of %s"
	MsgUnknownFlag          = "unrecognized flag %q"
	MsgMissingSpare         = "spare arguments are required but none were given"
	MsgRegexUnsupported     = "host regex engine does not support required feature: %s"
)
