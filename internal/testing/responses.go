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

// Package testing provides canned SF40 wire images shared by tests.
package testing

import (
	"encoding/binary"

	"github.com/julian19072001/Lightware-SF40-c/internal/frame"
)

// BuildResponse frames a response packet for cmd carrying data.
func BuildResponse(cmd byte, data []byte) []byte {
	return frame.Build(cmd, data, false)
}

// BuildAck frames a bare write acknowledgment for cmd.
func BuildAck(cmd byte) []byte {
	return frame.Build(cmd, nil, true)
}

// BuildStringResponse frames a 16-byte zero padded string response, as
// the identity parameters return.
func BuildStringResponse(cmd byte, s string) []byte {
	data := make([]byte, 16)
	copy(data, s)
	return frame.Build(cmd, data, false)
}

// BuildUint32Response frames a little-endian 32-bit value response.
func BuildUint32Response(cmd byte, value uint32) []byte {
	data := make([]byte, 4)
	binary.LittleEndian.PutUint32(data, value)
	return frame.Build(cmd, data, false)
}

// BuildUint16Response frames a little-endian 16-bit value response.
func BuildUint16Response(cmd byte, value uint16) []byte {
	data := make([]byte, 2)
	binary.LittleEndian.PutUint16(data, value)
	return frame.Build(cmd, data, false)
}

// StreamFrameParams describes a synthetic distance stream frame.
type StreamFrameParams struct {
	AlarmState      byte
	PointsPerSecond uint16
	ForwardOffset   int16
	MotorVoltage    int16
	RevolutionIndex uint8
	PointTotal      uint16
	PointStartIndex uint16
	Distances       []int16
}

// BuildStreamFrame frames an unsolicited distance output packet
// (command 48) from params.
func BuildStreamFrame(params StreamFrameParams) []byte {
	data := make([]byte, 14+2*len(params.Distances))
	data[0] = params.AlarmState
	binary.LittleEndian.PutUint16(data[1:], params.PointsPerSecond)
	binary.LittleEndian.PutUint16(data[3:], uint16(params.ForwardOffset))
	binary.LittleEndian.PutUint16(data[5:], uint16(params.MotorVoltage))
	data[7] = params.RevolutionIndex
	binary.LittleEndian.PutUint16(data[8:], params.PointTotal)
	binary.LittleEndian.PutUint16(data[10:], uint16(len(params.Distances)))
	binary.LittleEndian.PutUint16(data[12:], params.PointStartIndex)
	for i, distance := range params.Distances {
		binary.LittleEndian.PutUint16(data[14+2*i:], uint16(distance))
	}
	return frame.Build(48, data, false)
}
