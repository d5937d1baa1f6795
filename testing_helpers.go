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
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/julian19072001/Lightware-SF40-c/internal/frame"
)

// MockChannel is an in-memory Channel for deterministic tests. Bytes
// queued with QueueRead are handed out by ReadByte; bytes sent with
// SendByte are recorded and reassembled into packets, and an optional
// responder turns each complete outbound packet into queued response
// bytes.
type MockChannel struct {
	// Responder, when set, is called with the complete wire image of
	// each outbound packet; its return value is queued for reading.
	Responder func(packet []byte) []byte

	mu      sync.Mutex
	readBuf []byte
	written []byte
	pending []byte
	closed  bool
}

// NewMockChannel creates an empty mock channel.
func NewMockChannel() *MockChannel {
	return &MockChannel{}
}

// SendByte records b and, once a complete packet has accumulated, feeds
// it to the responder.
func (m *MockChannel) SendByte(b byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return NewChannelError("send", "mock", ErrChannelClosed, ErrorTypePermanent)
	}

	m.written = append(m.written, b)
	m.pending = append(m.pending, b)

	if total, ok := pendingPacketSize(m.pending); ok && len(m.pending) >= total {
		packet := m.pending[:total]
		m.pending = nil
		if m.Responder != nil {
			m.readBuf = append(m.readBuf, m.Responder(packet)...)
		}
	}
	return nil
}

// pendingPacketSize derives the full wire size of an outbound packet
// once enough of its header has been seen.
func pendingPacketSize(pending []byte) (int, bool) {
	if len(pending) < frame.PrefixSize {
		return 0, false
	}
	header := frame.DecodeHeader(binary.LittleEndian.Uint16(pending[1:3]))
	return frame.PrefixSize + header.PayloadLength + frame.ChecksumSize, true
}

// ReadByte pops the next queued byte. Unlike a real channel it fails
// instead of blocking when nothing is queued, so a test bug cannot hang
// the suite.
func (m *MockChannel) ReadByte() (byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return 0, NewChannelError("read", "mock", ErrChannelClosed, ErrorTypePermanent)
	}
	if len(m.readBuf) == 0 {
		return 0, NewChannelError("read", "mock", fmt.Errorf("%w: no bytes queued", ErrChannelRead), ErrorTypePermanent)
	}
	b := m.readBuf[0]
	m.readBuf = m.readBuf[1:]
	return b, nil
}

// CanReadByte reports whether queued bytes remain.
func (m *MockChannel) CanReadByte() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return !m.closed && len(m.readBuf) > 0
}

// FlushBuffer discards all queued read bytes.
func (m *MockChannel) FlushBuffer() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readBuf = nil
	return nil
}

// Close marks the channel closed; subsequent operations fail.
func (m *MockChannel) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Type returns ChannelMock.
func (*MockChannel) Type() ChannelType {
	return ChannelMock
}

// Port returns a placeholder port name.
func (*MockChannel) Port() string {
	return "mock"
}

// QueueRead appends bytes to be returned by subsequent reads.
func (m *MockChannel) QueueRead(data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readBuf = append(m.readBuf, data...)
}

// Written returns a copy of every byte sent so far.
func (m *MockChannel) Written() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]byte(nil), m.written...)
}

// NewMockChannelWithResponder creates a mock channel with a packet
// responder installed.
func NewMockChannelWithResponder(responder func(packet []byte) []byte) *MockChannel {
	return &MockChannel{Responder: responder}
}
