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
	"errors"
	"fmt"

	"github.com/julian19072001/Lightware-SF40-c/internal/frame"
)

// Framing errors, re-exported from the frame layer. These are local and
// non-fatal: the engine drops the malformed attempt and keeps polling.
var (
	// ErrBadStartByte means a packet did not open with the start marker.
	ErrBadStartByte = frame.ErrBadStartByte
	// ErrInvalidLength means a header carried an out-of-range payload
	// length, or a response payload was shorter than its fixed layout.
	ErrInvalidLength = frame.ErrInvalidLength
	// ErrChecksumMismatch means a packet failed checksum validation.
	ErrChecksumMismatch = frame.ErrChecksumMismatch
)

// Transaction and decode errors
var (
	// ErrTimeout means no correlated response arrived within the
	// transaction budget. Distinct from framing errors: the request may
	// simply be lost, and the caller decides whether to re-issue it.
	ErrTimeout = errors.New("response timeout")
	// ErrNotStreamData means a framed packet was not a distance stream
	// frame.
	ErrNotStreamData = errors.New("packet is not stream data")
	// ErrInvalidResponse means a correlated response payload did not
	// match the expected layout for its command.
	ErrInvalidResponse = errors.New("invalid response")
	// ErrInvalidParameter means a caller-supplied argument is out of
	// range for the device.
	ErrInvalidParameter = errors.New("invalid parameter")
)

// Channel errors
var (
	// ErrChannelClosed means the channel was closed while in use.
	ErrChannelClosed = errors.New("channel closed")
	// ErrChannelRead means the channel failed while receiving.
	ErrChannelRead = errors.New("channel read failed")
	// ErrChannelWrite means the channel failed while transmitting.
	ErrChannelWrite = errors.New("channel write failed")
)

// ErrorType classifies an error for callers deciding whether to re-issue
// a request. The engine itself never retries.
type ErrorType string

const (
	// ErrorTypeTransient marks errors likely to clear on a re-issued
	// request (timeouts, corrupted packets).
	ErrorTypeTransient ErrorType = "transient"
	// ErrorTypePermanent marks errors that will not clear without
	// intervention (closed channel, bad arguments).
	ErrorTypePermanent ErrorType = "permanent"
)

// ChannelError wraps a channel failure with the operation and port that
// produced it.
type ChannelError struct {
	Err       error
	Op        string
	Port      string
	Type      ErrorType
	Retryable bool
}

func (e *ChannelError) Error() string {
	if e.Port != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Port, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ChannelError) Unwrap() error {
	return e.Err
}

// NewChannelError creates a ChannelError with an explicit classification.
func NewChannelError(op, port string, err error, errType ErrorType) *ChannelError {
	return &ChannelError{
		Op:        op,
		Port:      port,
		Err:       err,
		Type:      errType,
		Retryable: errType == ErrorTypeTransient,
	}
}

// IsRetryable reports whether re-issuing the failed request could
// plausibly succeed.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var chErr *ChannelError
	if errors.As(err, &chErr) {
		return chErr.Retryable
	}

	switch {
	case errors.Is(err, ErrTimeout),
		errors.Is(err, ErrBadStartByte),
		errors.Is(err, ErrInvalidLength),
		errors.Is(err, ErrChecksumMismatch):
		return true
	default:
		return false
	}
}

// GetErrorType classifies err for reporting.
func GetErrorType(err error) ErrorType {
	if IsRetryable(err) {
		return ErrorTypeTransient
	}
	return ErrorTypePermanent
}
