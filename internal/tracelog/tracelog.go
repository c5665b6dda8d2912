// This file is part of barg.
//
// Copyright (C) 2015-2025  David Gamba Rios
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package tracelog carries the library's internal debug logger (spec.md
// §9: "a process-wide internal trace logger, off by default"). It
// generalizes the teacher's bare *log.Logger Debug/Logger package vars to
// a leveled hclog.Logger, since multiple pipeline stages (the Definition
// Parser, the Bind & Validate Engine) want leveled, named sub-loggers
// rather than one flat stream.
package tracelog

import (
	"io"
	"os"
	"sync"

	hclog "github.com/hashicorp/go-hclog"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

var (
	mu     sync.RWMutex
	logger hclog.Logger = hclog.NewNullLogger()
)

// Logger returns the current process-wide trace logger. Discards
// everything until Enable or EnableFile is called.
func Logger() hclog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Named returns a sub-logger scoped to one pipeline stage (e.g. "dsl",
// "bind"), inheriting the current output and level.
func Named(name string) hclog.Logger {
	return Logger().Named(name)
}

// Enable switches the trace logger to hclog.Debug level writing to w.
func Enable(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	logger = hclog.New(&hclog.LoggerOptions{
		Name:   "barg",
		Level:  hclog.Debug,
		Output: w,
	})
}

// EnableFile switches the trace logger to hclog.Debug level writing to a
// size-rotated file sink at path.
func EnableFile(path string) {
	Enable(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     28,
		Compress:   true,
	})
}

// Disable reverts the trace logger to a null logger.
func Disable() {
	mu.Lock()
	defer mu.Unlock()
	logger = hclog.NewNullLogger()
}

func init() {
	if os.Getenv("BARG_DEBUG") != "" {
		Enable(os.Stderr)
	}
}
