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

// SF40/C command identifiers, per the laser scanner manual. The protocol
// engine treats these opaquely; each selects one device parameter.
const (
	cmdProductName     = 0
	cmdHardwareVersion = 1
	cmdFirmwareVersion = 2
	cmdSerialNumber    = 3
	cmdUserData        = 9
	cmdToken           = 10
	cmdSaveParameters  = 12
	cmdReset           = 14
	cmdIncomingVoltage = 20
	cmdStream          = 30
	cmdDistanceOutput  = 48
	cmdLaserFiring     = 50
	cmdTemperature     = 55
	cmdBaudRate        = 90
	cmdDistance        = 105
	cmdMotorState      = 106
	cmdMotorVoltage    = 107
	cmdOutputRate      = 108
	cmdForwardOffset   = 109
	cmdRevolutions     = 110
	cmdAlarmState      = 111
	cmdAlarm1          = 112
)

// BaudRate is the device's serial speed enumeration (parameter 90).
type BaudRate byte

// Supported serial speeds.
const (
	Baud115200 BaudRate = 4
	Baud230400 BaudRate = 5
	Baud460800 BaudRate = 6
	Baud921600 BaudRate = 7
)

// BitsPerSecond returns the line rate for the enumeration value, or 0 if
// the value is not one the device defines.
func (b BaudRate) BitsPerSecond() int {
	switch b {
	case Baud115200:
		return 115200
	case Baud230400:
		return 230400
	case Baud460800:
		return 460800
	case Baud921600:
		return 921600
	default:
		return 0
	}
}

// OutputRate is the scan output rate enumeration (parameter 108), in
// points per second.
type OutputRate byte

// Supported output rates.
const (
	OutputRate20010 OutputRate = 0
	OutputRate10005 OutputRate = 1
	OutputRate6670  OutputRate = 2
	OutputRate2001  OutputRate = 3
)

// PointsPerSecond returns the nominal sample rate for the enumeration
// value, or 0 if the value is not one the device defines.
func (r OutputRate) PointsPerSecond() int {
	switch r {
	case OutputRate20010:
		return 20010
	case OutputRate10005:
		return 10005
	case OutputRate6670:
		return 6670
	case OutputRate2001:
		return 2001
	default:
		return 0
	}
}

// MotorState is the motor controller state machine position
// (parameter 106).
type MotorState byte

// Motor controller states.
const (
	MotorPreStartup MotorState = 1
	MotorWaitOnRevs MotorState = 2
	MotorNormal     MotorState = 3
	MotorError      MotorState = 4
)

func (s MotorState) String() string {
	switch s {
	case MotorPreStartup:
		return "pre-startup"
	case MotorWaitOnRevs:
		return "waiting on revolutions"
	case MotorNormal:
		return "normal"
	case MotorError:
		return "error"
	default:
		return "unknown"
	}
}

// StreamMode selects what the device emits unsolicited (parameter 30).
type StreamMode byte

// Stream modes.
const (
	// StreamNone disables unsolicited output.
	StreamNone StreamMode = 0
	// StreamDistance emits continuous distance data frames.
	StreamDistance StreamMode = 3
)
