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

/*
Package sf40 provides a pure Go driver for the Lightware SF40/C scanning
laser rangefinder.

The SF40/C is a 360 degree scanning lidar that speaks a small binary
protocol over a serial link: framed packets with a proprietary 16-bit
checksum, request/response transactions correlated by command
identifier, and an unsolicited distance stream while streaming mode is
active. This library implements the protocol engine and the device
parameter surface on top of an injected byte channel.

Features:
  - Packet framing and validation with the device's checksum
  - Request/response transactions with a bounded poll loop
  - Continuous distance stream decoding and revolution assembly
  - Full parameter surface: identity, voltages, temperature, motor,
    laser, output rate, forward offset, zone alarms
  - Serial transport over go.bug.st/serial, mock channel for tests

Basic usage:

	import (
	    sf40 "github.com/julian19072001/Lightware-SF40-c"
	    "github.com/julian19072001/Lightware-SF40-c/transport/serial"
	)

	channel, err := serial.New("/dev/ttyUSB0", serial.WithBaudRate(921600))
	if err != nil {
	    log.Fatal(err)
	}
	defer channel.Close()

	device, err := sf40.New(channel)
	if err != nil {
	    log.Fatal(err)
	}

	name, err := device.ProductName()
	if err != nil {
	    log.Fatal(err)
	}
	fmt.Println("connected to", name)

Streaming:

	if err := device.SetStreamMode(sf40.StreamDistance); err != nil {
	    log.Fatal(err)
	}
	for {
	    frame, err := device.NextStreamFrame(ctx)
	    if err != nil {
	        break
	    }
	    fmt.Println(frame.Distances)
	}

The scan subpackage assembles stream frames into whole revolutions and
drives callbacks from its own read loop.

Error handling:

All operations return errors that can be inspected with errors.Is:

	if errors.Is(err, sf40.ErrTimeout) {
	    // no response within the transaction budget; re-issue if wanted
	}

Framing errors (ErrBadStartByte, ErrInvalidLength, ErrChecksumMismatch)
never surface from a transaction; malformed packets are dropped and the
poll loop continues until the budget elapses. The engine performs no
automatic retries at any layer.

Thread safety:

A Device serializes all channel access internally; at most one
transaction is in flight at a time. Methods may be called from multiple
goroutines, but the channel must not be shared outside the Device.
*/
package sf40
