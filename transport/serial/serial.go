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

// Package serial implements the sf40.Channel contract over a serial
// port using go.bug.st/serial.
package serial

import (
	"fmt"
	"sync"

	goserial "go.bug.st/serial"

	sf40 "github.com/julian19072001/Lightware-SF40-c"
)

// defaultBaudRate is the SF40/C factory serial speed.
const defaultBaudRate = 115200

// readBufferSize bounds bytes buffered between the port reader and the
// protocol engine. A full distance stream frame is under half a
// kilobyte; this holds several revolutions worth.
const readBufferSize = 16384

// Config holds serial channel options.
type Config struct {
	baudRate int
}

// Option is a functional option for configuring the channel.
type Option func(*Config)

// WithBaudRate sets the line rate in bits per second. The device ships
// at 115200 and can be reconfigured up to 921600 via its baud rate
// parameter.
func WithBaudRate(baudRate int) Option {
	return func(c *Config) {
		c.baudRate = baudRate
	}
}

// WithDeviceBaudRate sets the line rate from the device's baud rate
// enumeration.
func WithDeviceBaudRate(rate sf40.BaudRate) Option {
	return func(c *Config) {
		c.baudRate = rate.BitsPerSecond()
	}
}

// Channel is a serial port implementation of sf40.Channel. A background
// goroutine drains the port into an internal buffer so that
// CanReadByte can poll without blocking.
type Channel struct {
	port     goserial.Port
	portName string

	buf    chan byte
	closed chan struct{}

	mu        sync.Mutex
	readErr   error
	closeOnce sync.Once
}

// New opens the serial port at portName with 8N1 framing and returns a
// channel over it.
func New(portName string, opts ...Option) (*Channel, error) {
	config := &Config{baudRate: defaultBaudRate}
	for _, opt := range opts {
		opt(config)
	}
	if config.baudRate <= 0 {
		return nil, fmt.Errorf("%w: baud rate %d", sf40.ErrInvalidParameter, config.baudRate)
	}

	mode := &goserial.Mode{
		BaudRate: config.baudRate,
		DataBits: 8,
		Parity:   goserial.NoParity,
		StopBits: goserial.OneStopBit,
	}
	port, err := goserial.Open(portName, mode)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", portName, err)
	}

	channel := &Channel{
		port:     port,
		portName: portName,
		buf:      make(chan byte, readBufferSize),
		closed:   make(chan struct{}),
	}
	go channel.pump()
	return channel, nil
}

// pump drains the port into the byte buffer until the port fails, which
// includes the port being closed.
func (c *Channel) pump() {
	defer close(c.buf)
	chunk := make([]byte, 256)
	for {
		n, err := c.port.Read(chunk)
		if err != nil {
			c.setReadErr(err)
			return
		}
		for _, b := range chunk[:n] {
			select {
			case c.buf <- b:
			case <-c.closed:
				return
			}
		}
	}
}

func (c *Channel) setReadErr(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.readErr == nil {
		c.readErr = err
	}
}

func (c *Channel) getReadErr() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.readErr
}

// SendByte transmits a single byte.
func (c *Channel) SendByte(b byte) error {
	if _, err := c.port.Write([]byte{b}); err != nil {
		return sf40.NewChannelError("send", c.portName,
			fmt.Errorf("%w: %w", sf40.ErrChannelWrite, err), sf40.ErrorTypePermanent)
	}
	return nil
}

// ReadByte returns the next received byte, blocking until one arrives
// or the port fails.
func (c *Channel) ReadByte() (byte, error) {
	b, ok := <-c.buf
	if !ok {
		err := c.getReadErr()
		if err == nil {
			err = sf40.ErrChannelClosed
		}
		return 0, sf40.NewChannelError("read", c.portName,
			fmt.Errorf("%w: %w", sf40.ErrChannelRead, err), sf40.ErrorTypePermanent)
	}
	return b, nil
}

// CanReadByte reports whether a received byte is buffered.
func (c *Channel) CanReadByte() bool {
	return len(c.buf) > 0
}

// FlushBuffer discards buffered bytes and resets the port's input
// queue.
func (c *Channel) FlushBuffer() error {
	for {
		select {
		case _, ok := <-c.buf:
			if !ok {
				return nil
			}
		default:
			if err := c.port.ResetInputBuffer(); err != nil {
				return fmt.Errorf("reset input buffer on %s: %w", c.portName, err)
			}
			return nil
		}
	}
}

// Close closes the port and stops the reader.
func (c *Channel) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.closed)
		err = c.port.Close()
	})
	if err != nil {
		return fmt.Errorf("close %s: %w", c.portName, err)
	}
	return nil
}

// Type returns sf40.ChannelSerial.
func (*Channel) Type() sf40.ChannelType {
	return sf40.ChannelSerial
}

// Port returns the port name the channel was opened on.
func (c *Channel) Port() string {
	return c.portName
}
