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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julian19072001/Lightware-SF40-c/internal/frame"
)

func TestMockChannelReassemblesPackets(t *testing.T) {
	t.Parallel()
	var packets [][]byte
	channel := NewMockChannelWithResponder(func(packet []byte) []byte {
		packets = append(packets, append([]byte(nil), packet...))
		return nil
	})

	first := frame.Build(3, nil, false)
	second := frame.Build(109, []byte{0x2C, 0x01}, true)
	for _, b := range append(append([]byte(nil), first...), second...) {
		require.NoError(t, channel.SendByte(b))
	}

	require.Len(t, packets, 2)
	assert.Equal(t, first, packets[0])
	assert.Equal(t, second, packets[1])
}

func TestMockChannelReadQueue(t *testing.T) {
	t.Parallel()
	channel := NewMockChannel()
	assert.False(t, channel.CanReadByte())

	channel.QueueRead([]byte{0x01, 0x02})
	assert.True(t, channel.CanReadByte())

	b, err := channel.ReadByte()
	require.NoError(t, err)
	assert.Equal(t, byte(0x01), b)

	require.NoError(t, channel.FlushBuffer())
	assert.False(t, channel.CanReadByte())

	_, err = channel.ReadByte()
	assert.ErrorIs(t, err, ErrChannelRead)
}

func TestMockChannelClosed(t *testing.T) {
	t.Parallel()
	channel := NewMockChannel()
	require.NoError(t, channel.Close())

	assert.ErrorIs(t, channel.SendByte(0xAA), ErrChannelClosed)
	_, err := channel.ReadByte()
	assert.ErrorIs(t, err, ErrChannelClosed)
	assert.False(t, channel.CanReadByte())
	assert.Equal(t, ChannelMock, channel.Type())
}

func TestTraceNilSafety(t *testing.T) {
	t.Parallel()
	var trace *Trace
	trace.send(nil)
	trace.packet(nil)
	trace.drop(nil)

	partial := &Trace{}
	partial.send([]byte{0xAA})
	partial.packet(nil)
	partial.drop(ErrTimeout)
}
