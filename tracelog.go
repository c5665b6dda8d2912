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

	"github.com/gobarg/barg/internal/tracelog"
)

// SetDebugOutput switches the library's internal trace logger to debug
// level, writing to w. It is silent by default; set the BARG_DEBUG
// environment variable before the process starts for the same effect
// without a code change.
func SetDebugOutput(w io.Writer) {
	tracelog.Enable(w)
}

// EnableFileDebugLog switches the internal trace logger to debug level,
// writing to a size-rotated file at path.
func EnableFileDebugLog(path string) {
	tracelog.EnableFile(path)
}

// DisableDebugOutput reverts the internal trace logger to discarding
// everything.
func DisableDebugOutput() {
	tracelog.Disable()
}
