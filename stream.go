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
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/julian19072001/Lightware-SF40-c/internal/frame"
)

// MaxStreamPoints is the most distance samples the device packs into a
// single stream frame.
const MaxStreamPoints = 200

// streamHeaderSize is the fixed part of a stream payload: command byte
// plus the frame header fields, before the distance samples.
const streamHeaderSize = 15

// StreamFrame is one unsolicited distance data frame, emitted
// continuously while StreamDistance mode is active. A full revolution
// spans several frames; PointStartIndex and PointTotal place this
// frame's samples within it.
type StreamFrame struct {
	// AlarmState holds the packed alarm flags at the time of the frame.
	AlarmState AlarmState
	// PointsPerSecond is the current output rate.
	PointsPerSecond uint16
	// ForwardOffset is the orientation offset in degrees.
	ForwardOffset int16
	// MotorVoltage is the motor drive voltage in raw units.
	MotorVoltage int16
	// RevolutionIndex increments as each revolution begins and wraps
	// to 0 after 255.
	RevolutionIndex uint8
	// PointTotal is the total number of points in this revolution.
	PointTotal uint16
	// PointCount is the number of points in this frame.
	PointCount uint16
	// PointStartIndex is the revolution index of the first point in
	// this frame.
	PointStartIndex uint16
	// Distances holds PointCount distance samples in centimeters.
	Distances []int16
}

// DecodeStreamFrame interprets a framed packet payload as a stream
// frame. It fails with ErrNotStreamData when the payload's command byte
// is not the distance output identifier, and with ErrInvalidLength when
// the payload is too short for its own point count.
func DecodeStreamFrame(payload []byte) (*StreamFrame, error) {
	if len(payload) == 0 {
		return nil, fmt.Errorf("stream frame: %w: empty payload", ErrInvalidLength)
	}
	if payload[0] != cmdDistanceOutput {
		return nil, fmt.Errorf("command %d: %w", payload[0], ErrNotStreamData)
	}
	if len(payload) < streamHeaderSize {
		return nil, fmt.Errorf("stream frame: %w: %d payload bytes, header needs %d",
			ErrInvalidLength, len(payload), streamHeaderSize)
	}

	sf := &StreamFrame{
		AlarmState:      AlarmState(payload[1]),
		PointsPerSecond: binary.LittleEndian.Uint16(payload[2:]),
		ForwardOffset:   int16(binary.LittleEndian.Uint16(payload[4:])),
		MotorVoltage:    int16(binary.LittleEndian.Uint16(payload[6:])),
		RevolutionIndex: payload[8],
		PointTotal:      binary.LittleEndian.Uint16(payload[9:]),
		PointCount:      binary.LittleEndian.Uint16(payload[11:]),
		PointStartIndex: binary.LittleEndian.Uint16(payload[13:]),
	}

	count := int(sf.PointCount)
	if count > MaxStreamPoints {
		return nil, fmt.Errorf("stream frame: %w: point count %d exceeds capacity %d",
			ErrInvalidLength, count, MaxStreamPoints)
	}
	if len(payload) < streamHeaderSize+2*count {
		return nil, fmt.Errorf("stream frame: %w: %d payload bytes for %d points",
			ErrInvalidLength, len(payload), count)
	}

	sf.Distances = make([]int16, count)
	for i := range sf.Distances {
		sf.Distances[i] = int16(binary.LittleEndian.Uint16(payload[streamHeaderSize+2*i:]))
	}
	return sf, nil
}

// NextStreamFrame waits for the next unsolicited stream frame on the
// channel. Packets that fail framing or are not stream data are dropped
// and the wait continues; the only exits are a decoded frame, a channel
// failure, or ctx ending. Streaming must already be enabled via
// SetStreamMode.
func (d *Device) NextStreamFrame(ctx context.Context) (*StreamFrame, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("stream read: %w", err)
		}

		sf, err := d.pollStreamFrame()
		if err != nil {
			return nil, err
		}
		if sf != nil {
			return sf, nil
		}
		time.Sleep(d.config.PollInterval)
	}
}

// pollStreamFrame attempts one framing pass under the device lock. It
// returns (nil, nil) when no byte is waiting or the packet was dropped,
// so a concurrent Request can interleave between frames.
func (d *Device) pollStreamFrame() (*StreamFrame, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.channel.CanReadByte() {
		return nil, nil
	}

	packet, err := frame.Read(d.channel)
	if err != nil {
		var chErr *ChannelError
		if errors.As(err, &chErr) {
			return nil, err
		}
		d.trace.drop(err)
		debugf("dropped stream packet: %v", err)
		return nil, nil
	}
	d.trace.packet(packet.Payload)

	sf, err := DecodeStreamFrame(packet.Payload)
	if err != nil {
		// Request/response traffic interleaves with the stream; anything
		// that framed but is not stream data is simply not ours.
		d.trace.drop(err)
		debugf("skipped non-stream packet: %v", err)
		return nil, nil
	}
	return sf, nil
}
