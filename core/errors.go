//----------------------------------------------------------------------
// This file is part of dtnsim.
//
// dtnsim is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License,
// or (at your option) any later version.
//
// dtnsim is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Affero General Public License for more details.
//
// SPDX-License-Identifier: AGPL-3.0-or-later
//----------------------------------------------------------------------

package core

import (
	"fmt"
	"log"
)

//----------------------------------------------------------------------
// Two kinds of error, per the settings-vs-invariant split: a settings
// error is detected at construction and returned normally; a SimError
// is a runtime invariant violation, fatal by design, and is reported the
// way ForwardTable.sanityCheck used to: log the diagnostic, then panic.
//----------------------------------------------------------------------

// SettingsError flags a bad construction-time configuration value
// (negative range/speed, missing required key).
type SettingsError struct {
	Field string
	Msg   string
}

func (e *SettingsError) Error() string {
	return fmt.Sprintf("settings error: %s: %s", e.Field, e.Msg)
}

// NewSettingsError builds a SettingsError.
func NewSettingsError(field, msg string) *SettingsError {
	return &SettingsError{Field: field, Msg: msg}
}

//----------------------------------------------------------------------

// SimError represents a programmer error or data corruption detected at
// runtime: out-of-range address lookup, disconnect of a connection absent
// from the peer, unknown bus key, an interrupted real-time sleep. It is
// never recovered from.
type SimError struct {
	Msg string
}

func (e *SimError) Error() string {
	return e.Msg
}

// Fatalf logs a diagnostic and panics with a SimError, mirroring
// ForwardTable.sanityCheck's log-then-panic idiom.
func Fatalf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	log.Printf("[FATAL] %s", msg)
	panic(&SimError{Msg: msg})
}

// FatalfRun behaves like Fatalf but stamps the diagnostic with ctx's
// RunID, so fatal logs from concurrent or sequential runs in the same
// process are distinguishable.
func FatalfRun(ctx *Context, format string, args ...any) {
	Fatalf("run %s: %s", ctx.RunID(), fmt.Sprintf(format, args...))
}
