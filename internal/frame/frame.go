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

package frame

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Framing errors. All are local to a single packet attempt: the caller
// discards the attempt and may resynchronize by reading further bytes.
var (
	// ErrBadStartByte means the first byte of a packet was not StartByte.
	ErrBadStartByte = errors.New("bad start byte")
	// ErrInvalidLength means the header carried a payload length outside
	// [MinPayloadLength, MaxPayloadLength].
	ErrInvalidLength = errors.New("invalid payload length")
	// ErrChecksumMismatch means the trailing checksum did not match the
	// checksum computed over the received bytes.
	ErrChecksumMismatch = errors.New("checksum mismatch")
)

// Header is the decoded form of the 16-bit header word: bit 0 carries the
// write flag, bits 6-15 the payload length. Bits 1-5 are reserved and
// transmitted as zero.
type Header struct {
	Write         bool
	PayloadLength int
}

// EncodeHeader packs h into the 16-bit wire word.
func EncodeHeader(h Header) uint16 {
	word := uint16(h.PayloadLength) << 6
	if h.Write {
		word |= 1
	}
	return word
}

// DecodeHeader unpacks the 16-bit wire word.
func DecodeHeader(word uint16) Header {
	return Header{
		Write:         word&1 == 1,
		PayloadLength: int(word >> 6),
	}
}

// Packet is one complete, checksum-validated unit from the wire. The
// payload holds the command identifier followed by the command data.
type Packet struct {
	Payload []byte
	Write   bool
}

// Command returns the command identifier of the packet.
func (p *Packet) Command() byte {
	return p.Payload[0]
}

// Data returns the command data following the command identifier. It may
// be empty.
func (p *Packet) Data() []byte {
	return p.Payload[1:]
}

// ByteReader is the read side of the serial channel, consumed one byte at
// a time. Reads block until a byte arrives or the channel fails.
type ByteReader interface {
	ReadByte() (byte, error)
}

// Build assembles and signs an outbound packet for cmd. For write
// requests data carries the value to store; read requests send the
// command byte alone.
func Build(cmd byte, data []byte, write bool) []byte {
	payloadLength := 1 + len(data)
	packet := make([]byte, 0, PrefixSize+payloadLength+ChecksumSize)
	packet = append(packet, StartByte)

	word := EncodeHeader(Header{Write: write, PayloadLength: payloadLength})
	packet = append(packet, byte(word), byte(word>>8))
	packet = append(packet, cmd)
	packet = append(packet, data...)

	crc := Checksum(packet)
	return append(packet, byte(crc), byte(crc>>8))
}

// Read consumes bytes from r until one complete packet has been assembled
// and validated. It does not implement a timeout; bounding the wait is
// the caller's responsibility.
func Read(r ByteReader) (*Packet, error) {
	prefix := make([]byte, PrefixSize)
	if err := readFull(r, prefix); err != nil {
		return nil, err
	}
	if prefix[0] != StartByte {
		return nil, fmt.Errorf("%w: 0x%02X", ErrBadStartByte, prefix[0])
	}

	header := DecodeHeader(binary.LittleEndian.Uint16(prefix[1:]))
	if header.PayloadLength < MinPayloadLength || header.PayloadLength > MaxPayloadLength {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLength, header.PayloadLength)
	}

	rest := make([]byte, header.PayloadLength+ChecksumSize)
	if err := readFull(r, rest); err != nil {
		return nil, err
	}

	payload := rest[:header.PayloadLength]
	got := binary.LittleEndian.Uint16(rest[header.PayloadLength:])
	want := Checksum(append(prefix, payload...))
	if got != want {
		return nil, fmt.Errorf("%w: received 0x%04X, computed 0x%04X", ErrChecksumMismatch, got, want)
	}

	return &Packet{Write: header.Write, Payload: payload}, nil
}

func readFull(r ByteReader, buf []byte) error {
	for i := range buf {
		b, err := r.ReadByte()
		if err != nil {
			return fmt.Errorf("read byte %d: %w", i, err)
		}
		buf[i] = b
	}
	return nil
}
