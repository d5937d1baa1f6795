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

// Package scan drives continuous distance acquisition: it enables the
// device's distance stream, decodes the unsolicited frames, and
// assembles them into whole revolutions.
package scan

import (
	"context"
	"fmt"

	sf40 "github.com/julian19072001/Lightware-SF40-c"
)

// Revolution is one full rotation of the scan head, assembled from the
// stream frames that share a revolution index.
type Revolution struct {
	// Distances holds one sample per point, in centimeters, indexed by
	// point position within the revolution. Positions never filled in
	// remain zero when the revolution is incomplete.
	Distances []int16
	// Index is the device's wrapping revolution counter value.
	Index uint8
	// Received is how many points actually arrived.
	Received int
	// Complete reports whether every point of the revolution arrived.
	Complete bool
}

// Scanner owns a streaming session on a device. Configure the callbacks
// before calling Start; they run on the scanner's goroutine, so a slow
// callback delays frame intake.
type Scanner struct {
	// OnFrame, when set, is called for every decoded stream frame.
	OnFrame func(*sf40.StreamFrame)
	// OnRevolution, when set, is called once per revolution, when its
	// last frame arrives or when the device moves on to the next
	// revolution with this one still incomplete.
	OnRevolution func(*Revolution)

	device  *sf40.Device
	current *Revolution
}

// NewScanner creates a scanner for the device.
func NewScanner(device *sf40.Device) *Scanner {
	return &Scanner{device: device}
}

// Start enables distance streaming and blocks reading frames until ctx
// ends, at which point it disables streaming and returns nil. Any other
// return is a device failure.
func (s *Scanner) Start(ctx context.Context) error {
	if err := s.device.SetStreamMode(sf40.StreamDistance); err != nil {
		return fmt.Errorf("enable streaming: %w", err)
	}
	defer func() {
		// Best effort: leave the device quiet so stale frames do not
		// confuse the next transaction on the channel.
		if err := s.device.SetStreamMode(sf40.StreamNone); err != nil {
			_ = s.device.Flush()
		}
	}()

	for {
		frame, err := s.device.NextStreamFrame(ctx)
		if err != nil {
			if ctx.Err() != nil {
				s.flush()
				return nil
			}
			return fmt.Errorf("stream read: %w", err)
		}
		s.ingest(frame)
	}
}

// ingest folds one stream frame into the revolution being assembled.
func (s *Scanner) ingest(frame *sf40.StreamFrame) {
	if s.OnFrame != nil {
		s.OnFrame(frame)
	}

	if s.current != nil && s.current.Index != frame.RevolutionIndex {
		s.emit()
	}
	if s.current == nil {
		s.current = &Revolution{
			Index:     frame.RevolutionIndex,
			Distances: make([]int16, frame.PointTotal),
		}
	}

	start := int(frame.PointStartIndex)
	if start+len(frame.Distances) > len(s.current.Distances) {
		// The frame claims points beyond the revolution's own total;
		// the revolution cannot be trusted, so drop the frame.
		return
	}
	copy(s.current.Distances[start:], frame.Distances)
	s.current.Received += len(frame.Distances)

	if s.current.Received >= len(s.current.Distances) {
		s.current.Complete = true
		s.emit()
	}
}

// flush emits whatever partial revolution is pending.
func (s *Scanner) flush() {
	if s.current != nil {
		s.emit()
	}
}

func (s *Scanner) emit() {
	revolution := s.current
	s.current = nil
	if s.OnRevolution != nil && revolution != nil {
		s.OnRevolution(revolution)
	}
}
