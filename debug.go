// lightware-sf40
// Copyright (c) 2025 Julian Della Guardia.
// SPDX-License-Identifier: LGPL-3.0-or-later
//
// This file is part of lightware-sf40.
//
// lightware-sf40 is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 3 of the License, or (at your option) any later version.
//
// lightware-sf40 is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with lightware-sf40; if not, write to the Free Software Foundation,
// Inc., 51 Franklin Street, Fifth Floor, Boston, MA  02110-1301, USA.

package sf40

import (
	"log"
	"os"
	"sync/atomic"
)

var debugEnabled atomic.Bool

func init() {
	if os.Getenv("SF40_DEBUG") != "" {
		debugEnabled.Store(true)
	}
}

// SetDebugEnabled toggles debug logging for the package. Debug output is
// also enabled when the SF40_DEBUG environment variable is set.
func SetDebugEnabled(enabled bool) {
	debugEnabled.Store(enabled)
}

func debugf(format string, args ...any) {
	if debugEnabled.Load() {
		log.Printf("sf40: "+format, args...)
	}
}

func debugln(args ...any) {
	if debugEnabled.Load() {
		log.Println(append([]any{"sf40:"}, args...)...)
	}
}
