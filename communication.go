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
	"fmt"
	"time"

	"github.com/julian19072001/Lightware-SF40-c/internal/frame"
)

// Request performs one command transaction: it transmits a request for
// cmd and polls for the correlated response. For read requests data must
// be nil; for write requests it carries the value to store. The returned
// slice is the response payload after the command byte (empty for a bare
// acknowledgment).
//
// Responses are correlated solely by command identifier. Malformed and
// mismatched packets are dropped and polling continues until the
// transaction budget elapses, at which point Request fails with
// ErrTimeout. No retry happens at this layer; callers re-issue if they
// want one.
func (d *Device) Request(cmd byte, data []byte, write bool) ([]byte, error) {
	return d.RequestContext(context.Background(), cmd, data, write)
}

// RequestContext is Request honouring context cancellation in addition
// to the transaction budget.
func (d *Device) RequestContext(ctx context.Context, cmd byte, data []byte, write bool) ([]byte, error) {
	if !write && len(data) > 0 {
		return nil, fmt.Errorf("%w: read request carries data", ErrInvalidParameter)
	}
	if 1+len(data) > frame.MaxPayloadLength {
		return nil, fmt.Errorf("%w: request payload %d bytes", ErrInvalidParameter, 1+len(data))
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.send(cmd, data, write); err != nil {
		return nil, err
	}
	return d.awaitResponse(ctx, cmd)
}

func (d *Device) send(cmd byte, data []byte, write bool) error {
	packet := frame.Build(cmd, data, write)
	d.trace.send(packet)
	debugf("send command %d, %d byte packet", cmd, len(packet))

	for _, b := range packet {
		if err := d.channel.SendByte(b); err != nil {
			return NewChannelError("send", channelPort(d.channel), fmt.Errorf("%w: %w", ErrChannelWrite, err), ErrorTypePermanent)
		}
	}
	return nil
}

// awaitResponse runs the poll loop against an explicit wall-clock
// deadline. Each iteration either frames one packet or sleeps for the
// poll interval; a byte-level stall inside a framing attempt is bounded
// only by the channel itself.
func (d *Device) awaitResponse(ctx context.Context, cmd byte) ([]byte, error) {
	deadline := time.Now().Add(d.config.Timeout)

	for {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("command %d: %w", cmd, err)
		}
		if !time.Now().Before(deadline) {
			return nil, fmt.Errorf("command %d: %w", cmd, ErrTimeout)
		}

		if !d.channel.CanReadByte() {
			time.Sleep(d.config.PollInterval)
			continue
		}

		packet, err := frame.Read(d.channel)
		if err != nil {
			// Malformed attempt: drop it and keep polling. Later bytes
			// may resynchronize on the next start marker.
			d.trace.drop(err)
			debugf("dropped packet: %v", err)
			continue
		}
		d.trace.packet(packet.Payload)

		if packet.Command() != cmd {
			debugf("discarding uncorrelated response: command %d, awaiting %d", packet.Command(), cmd)
			continue
		}
		return packet.Data(), nil
	}
}

// readCommand requests the current value of a parameter.
func (d *Device) readCommand(cmd byte) ([]byte, error) {
	return d.Request(cmd, nil, false)
}

// writeCommand stores a parameter value and returns the response data,
// which for most commands is the value read back.
func (d *Device) writeCommand(cmd byte, data []byte) ([]byte, error) {
	return d.Request(cmd, data, true)
}

func channelPort(ch Channel) string {
	if p, ok := ch.(interface{ Port() string }); ok {
		return p.Port()
	}
	return string(ch.Type())
}
