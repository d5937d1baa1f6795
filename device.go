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
	"fmt"
	"sync"
	"time"
)

// DeviceConfig contains configuration options for the Device.
type DeviceConfig struct {
	// Timeout is the transaction budget: how long a request waits for a
	// correlated response before failing with ErrTimeout.
	Timeout time.Duration
	// PollInterval is how long the transaction loop sleeps between
	// checks for readable bytes.
	PollInterval time.Duration
}

// DefaultDeviceConfig returns the default device configuration. The
// 100ms budget matches the response behaviour of the scanner across its
// supported baud rates.
func DefaultDeviceConfig() *DeviceConfig {
	return &DeviceConfig{
		Timeout:      100 * time.Millisecond,
		PollInterval: time.Millisecond,
	}
}

// Device is a single SF40/C laser scanner on a byte channel.
//
// Thread safety: at most one transaction is in flight at a time. All
// channel access is serialized by an internal mutex, so Device methods
// may be called from multiple goroutines, but a request issued while a
// stream read is blocked on the channel waits for that read to finish.
// The channel itself must not be shared with code outside the Device.
type Device struct {
	channel Channel
	config  *DeviceConfig
	trace   *Trace

	// mu is the single mutual-exclusion boundary around the channel and
	// the in-flight transaction.
	mu sync.Mutex
}

// New creates a device on the given channel.
func New(channel Channel, opts ...Option) (*Device, error) {
	device := &Device{
		channel: channel,
		config:  DefaultDeviceConfig(),
	}

	for _, opt := range opts {
		if err := opt(device); err != nil {
			return nil, err
		}
	}

	return device, nil
}

// Channel returns the underlying channel.
func (d *Device) Channel() Channel {
	return d.channel
}

// SetTimeout sets the transaction budget.
func (d *Device) SetTimeout(timeout time.Duration) error {
	if timeout <= 0 {
		return fmt.Errorf("%w: timeout %v", ErrInvalidParameter, timeout)
	}
	d.config.Timeout = timeout
	return nil
}

// Flush discards any bytes buffered on the channel, such as stream
// frames accumulated while no reader was active.
func (d *Device) Flush() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.channel.FlushBuffer(); err != nil {
		return fmt.Errorf("flush channel: %w", err)
	}
	return nil
}

// Close closes the device's channel.
func (d *Device) Close() error {
	if d.channel == nil {
		return nil
	}
	if err := d.channel.Close(); err != nil {
		return fmt.Errorf("close channel: %w", err)
	}
	return nil
}
