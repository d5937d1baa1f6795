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
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julian19072001/Lightware-SF40-c/internal/frame"
	testutil "github.com/julian19072001/Lightware-SF40-c/internal/testing"
)

func newTestDevice(t *testing.T, channel Channel, opts ...Option) *Device {
	t.Helper()
	device, err := New(channel, opts...)
	require.NoError(t, err)
	return device
}

func TestRequestTimeout(t *testing.T) {
	t.Parallel()
	// A channel that never reports a readable byte must produce
	// ErrTimeout after the budget, never hang.
	channel := NewMockChannel()
	device := newTestDevice(t, channel,
		WithTimeout(20*time.Millisecond),
		WithPollInterval(time.Millisecond))

	start := time.Now()
	_, err := device.Request(cmdSerialNumber, nil, false)
	elapsed := time.Since(start)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTimeout)
	assert.Less(t, elapsed, time.Second, "request did not respect its deadline")
}

func TestRequestReadTransaction(t *testing.T) {
	t.Parallel()
	channel := NewMockChannelWithResponder(func(_ []byte) []byte {
		return testutil.BuildStringResponse(cmdSerialNumber, "SN0042")
	})
	device := newTestDevice(t, channel)

	serialNumber, err := device.SerialNumber()
	require.NoError(t, err)
	assert.Equal(t, "SN0042", serialNumber)

	// The request on the wire is the signed 6-byte read packet.
	assert.Equal(t, []byte{0xAA, 0x40, 0x00, 0x03, 0x13, 0xAF}, channel.Written())
}

func TestRequestWriteWireImage(t *testing.T) {
	t.Parallel()
	channel := NewMockChannelWithResponder(func(packet []byte) []byte {
		return testutil.BuildAck(cmdForwardOffset)
	})
	device := newTestDevice(t, channel)

	require.NoError(t, device.SetForwardOffset(300))
	assert.Equal(t, frame.Build(cmdForwardOffset, []byte{0x2C, 0x01}, true), channel.Written())
}

func TestRequestCorrelation(t *testing.T) {
	t.Parallel()
	// An uncorrelated response must be discarded and polling must
	// continue until the matching command identifier arrives.
	channel := NewMockChannelWithResponder(func(_ []byte) []byte {
		response := testutil.BuildUint32Response(cmdRevolutions, 1234)
		return append(response, testutil.BuildStringResponse(cmdSerialNumber, "SN7")...)
	})
	device := newTestDevice(t, channel)

	serialNumber, err := device.SerialNumber()
	require.NoError(t, err)
	assert.Equal(t, "SN7", serialNumber)
}

func TestRequestOnlyUncorrelatedTimesOut(t *testing.T) {
	t.Parallel()
	channel := NewMockChannelWithResponder(func(_ []byte) []byte {
		return testutil.BuildUint32Response(cmdRevolutions, 1234)
	})
	device := newTestDevice(t, channel, WithTimeout(20*time.Millisecond))

	_, err := device.SerialNumber()
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestRequestDiscardsMalformedPacket(t *testing.T) {
	t.Parallel()
	var drops []error
	trace := &Trace{OnDrop: func(err error) { drops = append(drops, err) }}

	channel := NewMockChannelWithResponder(func(_ []byte) []byte {
		good := testutil.BuildStringResponse(cmdSerialNumber, "SN9")
		corrupted := append([]byte(nil), good...)
		corrupted[len(corrupted)-1] ^= 0xFF
		return append(corrupted, good...)
	})
	device := newTestDevice(t, channel, WithTrace(trace))

	serialNumber, err := device.SerialNumber()
	require.NoError(t, err)
	assert.Equal(t, "SN9", serialNumber)

	require.Len(t, drops, 1)
	assert.ErrorIs(t, drops[0], ErrChecksumMismatch)
}

func TestRequestContextCancellation(t *testing.T) {
	t.Parallel()
	channel := NewMockChannel()
	device := newTestDevice(t, channel, WithTimeout(5*time.Second))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := device.RequestContext(ctx, cmdSerialNumber, nil, false)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRequestReadRejectsData(t *testing.T) {
	t.Parallel()
	device := newTestDevice(t, NewMockChannel())

	_, err := device.Request(cmdSerialNumber, []byte{1}, false)
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestRequestRejectsOversizedPayload(t *testing.T) {
	t.Parallel()
	device := newTestDevice(t, NewMockChannel())

	_, err := device.Request(cmdUserData, make([]byte, frame.MaxPayloadLength), true)
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestRequestsAreSequential(t *testing.T) {
	t.Parallel()
	// Two goroutines issuing requests must not interleave their bytes on
	// the wire: each written packet must parse back intact.
	channel := NewMockChannelWithResponder(func(packet []byte) []byte {
		// Echo the command back as an acknowledgment.
		return testutil.BuildAck(packet[3])
	})
	device := newTestDevice(t, channel)

	done := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			_, err := device.Request(cmdLaserFiring, []byte{1}, true)
			done <- err
		}()
	}
	for i := 0; i < 2; i++ {
		require.NoError(t, <-done)
	}

	written := channel.Written()
	expected := frame.Build(cmdLaserFiring, []byte{1}, true)
	require.Len(t, written, 2*len(expected))
	assert.Equal(t, expected, written[:len(expected)])
	assert.Equal(t, expected, written[len(expected):])
}

func TestSetTimeoutValidation(t *testing.T) {
	t.Parallel()
	device := newTestDevice(t, NewMockChannel())

	require.NoError(t, device.SetTimeout(time.Second))
	assert.ErrorIs(t, device.SetTimeout(0), ErrInvalidParameter)
}

func TestNewOptionFailure(t *testing.T) {
	t.Parallel()
	_, err := New(NewMockChannel(), WithPollInterval(-time.Millisecond))
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestDeviceClose(t *testing.T) {
	t.Parallel()
	channel := NewMockChannel()
	device := newTestDevice(t, channel)

	require.NoError(t, device.Close())

	err := channel.SendByte(0xAA)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrChannelClosed)
}

func TestFlushDiscardsBufferedBytes(t *testing.T) {
	t.Parallel()
	channel := NewMockChannel()
	channel.QueueRead([]byte{0x01, 0x02, 0x03})
	device := newTestDevice(t, channel)

	require.NoError(t, device.Flush())
	assert.False(t, channel.CanReadByte())
}

func TestChannelAccessor(t *testing.T) {
	t.Parallel()
	channel := NewMockChannel()
	device := newTestDevice(t, channel)
	assert.Equal(t, Channel(channel), device.Channel())
}
