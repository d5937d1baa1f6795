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

// Package frame provides the SF40/C wire format: the start marker, the
// packed 16-bit header, the proprietary checksum and packet encode/decode.
package frame

// Frame markers and size limits
const (
	// StartByte opens every packet on the wire.
	StartByte = 0xAA

	// MaxResponseSize is the largest complete packet the device emits.
	MaxResponseSize = 1028

	// MinPayloadLength is the smallest legal payload (the command byte alone).
	MinPayloadLength = 1

	// MaxPayloadLength is the largest legal payload: MaxResponseSize minus
	// start byte, header and checksum. It is also the ceiling of the 10-bit
	// length field, so a decoded header can never exceed it.
	MaxPayloadLength = MaxResponseSize - 5

	// PrefixSize is the fixed lead-in of a packet: start byte plus the
	// 16-bit header word.
	PrefixSize = 3

	// ChecksumSize is the trailing checksum width.
	ChecksumSize = 2
)
