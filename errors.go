// This file is part of barg.
//
// Copyright (C) 2015-2025  David Gamba Rios
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package barg

import "github.com/gobarg/barg/internal/text"

// Sentinel errors, one per label in spec.md §7. Test a failed Parse against
// these with errors.Is rather than matching on message text.
var (
	ErrInvalidOption     = text.ErrInvalidOption
	ErrIllegalBinding    = text.ErrIllegalBinding
	ErrDSLSyntax         = text.ErrDSLSyntax
	ErrMissingSubcommand = text.ErrMissingSubcommand
	ErrMissingRequired   = text.ErrMissingRequired
	ErrParamLikeValue    = text.ErrParamLikeValue
	ErrTypeMismatch      = text.ErrTypeMismatch
	ErrUnknownFormat     = text.ErrUnknownFormat
	ErrInvalidChoice     = text.ErrInvalidChoice
	ErrUnknownFlag       = text.ErrUnknownFlag
	ErrMissingSpare      = text.ErrMissingSpare
	ErrRegexUnsupported  = text.ErrRegexUnsupported
)
