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

package scan

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sf40 "github.com/julian19072001/Lightware-SF40-c"
	testutil "github.com/julian19072001/Lightware-SF40-c/internal/testing"
)

// newStreamingChannel builds a mock channel whose responder acknowledges
// stream mode writes and, on enable, also queues the given canned stream
// frames behind the acknowledgment.
func newStreamingChannel(frames ...[]byte) *sf40.MockChannel {
	return sf40.NewMockChannelWithResponder(func(packet []byte) []byte {
		if packet[3] != 30 { // stream mode parameter
			return nil
		}
		response := testutil.BuildAck(packet[3])
		if packet[4] != 0 { // enabling: emit the canned stream
			for _, frame := range frames {
				response = append(response, frame...)
			}
		}
		return response
	})
}

func TestScannerAssemblesRevolution(t *testing.T) {
	t.Parallel()
	channel := newStreamingChannel(
		testutil.BuildStreamFrame(testutil.StreamFrameParams{
			RevolutionIndex: 9,
			PointTotal:      6,
			PointStartIndex: 0,
			Distances:       []int16{10, 20, 30},
		}),
		testutil.BuildStreamFrame(testutil.StreamFrameParams{
			RevolutionIndex: 9,
			PointTotal:      6,
			PointStartIndex: 3,
			Distances:       []int16{40, -50, 60},
		}),
	)
	device, err := sf40.New(channel)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var frames int
	var revolutions []*Revolution
	scanner := NewScanner(device)
	scanner.OnFrame = func(*sf40.StreamFrame) { frames++ }
	scanner.OnRevolution = func(revolution *Revolution) {
		revolutions = append(revolutions, revolution)
		cancel()
	}

	require.NoError(t, scanner.Start(ctx))

	assert.Equal(t, 2, frames)
	require.Len(t, revolutions, 1)
	revolution := revolutions[0]
	assert.Equal(t, uint8(9), revolution.Index)
	assert.True(t, revolution.Complete)
	assert.Equal(t, 6, revolution.Received)
	assert.Equal(t, []int16{10, 20, 30, 40, -50, 60}, revolution.Distances)
}

func TestScannerEmitsIncompleteRevolutionOnIndexChange(t *testing.T) {
	t.Parallel()
	channel := newStreamingChannel(
		testutil.BuildStreamFrame(testutil.StreamFrameParams{
			RevolutionIndex: 1,
			PointTotal:      4,
			PointStartIndex: 0,
			Distances:       []int16{10, 20},
		}),
		testutil.BuildStreamFrame(testutil.StreamFrameParams{
			RevolutionIndex: 2,
			PointTotal:      2,
			PointStartIndex: 0,
			Distances:       []int16{30},
		}),
	)
	device, err := sf40.New(channel)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var revolutions []*Revolution
	scanner := NewScanner(device)
	scanner.OnRevolution = func(revolution *Revolution) {
		revolutions = append(revolutions, revolution)
		cancel()
	}

	require.NoError(t, scanner.Start(ctx))

	// The stale revolution is emitted incomplete when the index moves
	// on; the trailing partial is flushed at shutdown.
	require.Len(t, revolutions, 2)
	assert.Equal(t, uint8(1), revolutions[0].Index)
	assert.False(t, revolutions[0].Complete)
	assert.Equal(t, 2, revolutions[0].Received)
	assert.Equal(t, []int16{10, 20, 0, 0}, revolutions[0].Distances)
}

func TestScannerDropsOutOfRangeFrame(t *testing.T) {
	t.Parallel()
	channel := newStreamingChannel(
		// Start index beyond the revolution's own point total.
		testutil.BuildStreamFrame(testutil.StreamFrameParams{
			RevolutionIndex: 5,
			PointTotal:      2,
			PointStartIndex: 10,
			Distances:       []int16{10, 20},
		}),
		testutil.BuildStreamFrame(testutil.StreamFrameParams{
			RevolutionIndex: 5,
			PointTotal:      2,
			PointStartIndex: 0,
			Distances:       []int16{30, 40},
		}),
	)
	device, err := sf40.New(channel)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var revolutions []*Revolution
	scanner := NewScanner(device)
	scanner.OnRevolution = func(revolution *Revolution) {
		revolutions = append(revolutions, revolution)
		cancel()
	}

	require.NoError(t, scanner.Start(ctx))

	require.NotEmpty(t, revolutions)
	assert.True(t, revolutions[0].Complete)
	assert.Equal(t, []int16{30, 40}, revolutions[0].Distances)
}
