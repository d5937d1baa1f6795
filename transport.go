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

// Channel is the byte-oriented link to the rangefinder. It is injected
// into Device so that the protocol engine never touches process-wide
// state; independent devices use independent channels, and tests use a
// MockChannel.
//
// Implementations are expected to be usable from one goroutine at a
// time; Device provides the serialization.
type Channel interface {
	// SendByte transmits a single byte.
	SendByte(b byte) error

	// ReadByte returns the next received byte, blocking until one
	// arrives or the channel fails.
	ReadByte() (byte, error)

	// CanReadByte reports without blocking whether a received byte is
	// waiting.
	CanReadByte() bool

	// FlushBuffer discards any buffered unread bytes.
	FlushBuffer() error

	// Close closes the channel.
	Close() error

	// Type returns the channel type.
	Type() ChannelType
}

// ChannelType represents the kind of link carrying the protocol.
type ChannelType string

const (
	// ChannelSerial is a serial/UART link.
	ChannelSerial ChannelType = "serial"
	// ChannelMock is an in-memory channel for testing.
	ChannelMock ChannelType = "mock"
)

// Trace receives protocol-level events from a Device. All fields are
// optional; nil hooks are skipped. Hooks run on the goroutine driving
// the device and must not call back into it.
type Trace struct {
	// OnSend is called with the complete wire image of each outbound
	// packet before transmission.
	OnSend func(packet []byte)

	// OnPacket is called with the payload of each successfully framed
	// inbound packet, whether or not it correlates with a request.
	OnPacket func(payload []byte)

	// OnDrop is called when an inbound packet attempt is discarded,
	// with the framing error that caused the discard.
	OnDrop func(err error)
}

func (t *Trace) send(packet []byte) {
	if t != nil && t.OnSend != nil {
		t.OnSend(packet)
	}
}

func (t *Trace) packet(payload []byte) {
	if t != nil && t.OnPacket != nil {
		t.OnPacket(payload)
	}
}

func (t *Trace) drop(err error) {
	if t != nil && t.OnDrop != nil {
		t.OnDrop(err)
	}
}
