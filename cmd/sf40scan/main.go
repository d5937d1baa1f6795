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

// Command sf40scan connects to a Lightware SF40/C laser scanner over a
// serial port, prints its identity and health parameters, and can run a
// continuous distance scan until interrupted.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	sf40 "github.com/julian19072001/Lightware-SF40-c"
	"github.com/julian19072001/Lightware-SF40-c/scan"
	"github.com/julian19072001/Lightware-SF40-c/transport/serial"
)

type config struct {
	devicePath *string
	baudRate   *int
	timeout    *time.Duration
	stream     *bool
	debug      *bool
}

func parseFlags() *config {
	cfg := &config{
		devicePath: flag.String("device", "",
			"Serial device path (e.g., /dev/ttyUSB0 or COM3)"),
		baudRate: flag.Int("baud", 115200,
			"Serial baud rate (device supports 115200, 230400, 460800, 921600)"),
		timeout: flag.Duration("timeout", 100*time.Millisecond,
			"Per-request response timeout"),
		stream: flag.Bool("stream", false,
			"Run a continuous distance scan until interrupted"),
		debug: flag.Bool("debug", false, "Enable debug output"),
	}
	flag.Parse()

	if *cfg.debug {
		sf40.SetDebugEnabled(true)
	}
	return cfg
}

func connect(cfg *config) (*sf40.Device, error) {
	channel, err := serial.New(*cfg.devicePath, serial.WithBaudRate(*cfg.baudRate))
	if err != nil {
		return nil, fmt.Errorf("open serial channel: %w", err)
	}

	device, err := sf40.New(channel, sf40.WithTimeout(*cfg.timeout))
	if err != nil {
		_ = channel.Close()
		return nil, fmt.Errorf("create device: %w", err)
	}

	// Drop any stream frames buffered from a previous session.
	if err := device.Flush(); err != nil {
		_ = device.Close()
		return nil, fmt.Errorf("flush channel: %w", err)
	}
	return device, nil
}

func printIdentity(device *sf40.Device) error {
	name, err := device.ProductName()
	if err != nil {
		return fmt.Errorf("read product name: %w", err)
	}
	_, _ = fmt.Printf("Product:        %s\n", name)

	if version, err := device.FirmwareVersion(); err == nil {
		_, _ = fmt.Printf("Firmware:       %d\n", version)
	}
	if serialNumber, err := device.SerialNumber(); err == nil {
		_, _ = fmt.Printf("Serial number:  %s\n", serialNumber)
	}
	if voltage, err := device.IncomingVoltage(); err == nil {
		_, _ = fmt.Printf("Supply voltage: %.2f V\n", voltage)
	}
	if temperature, err := device.Temperature(); err == nil {
		_, _ = fmt.Printf("Temperature:    %.2f C\n", temperature)
	}
	if state, err := device.MotorState(); err == nil {
		_, _ = fmt.Printf("Motor state:    %s\n", state)
	}
	return nil
}

func runScan(ctx context.Context, device *sf40.Device) error {
	scanner := scan.NewScanner(device)
	scanner.OnRevolution = func(revolution *scan.Revolution) {
		closest := int16(0)
		for _, distance := range revolution.Distances {
			if distance > 0 && (closest == 0 || distance < closest) {
				closest = distance
			}
		}
		_, _ = fmt.Printf("revolution %3d: %4d points, closest %d cm\n",
			revolution.Index, revolution.Received, closest)
	}

	_, _ = fmt.Println("Scanning (Ctrl-C to stop)...")
	if err := scanner.Start(ctx); err != nil {
		return fmt.Errorf("scan session: %w", err)
	}
	return nil
}

func main() {
	cfg := parseFlags()
	if *cfg.devicePath == "" {
		_, _ = fmt.Fprintln(os.Stderr, "missing -device (e.g., -device /dev/ttyUSB0)")
		flag.Usage()
		os.Exit(2)
	}

	device, err := connect(cfg)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to connect: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = device.Close() }()

	if err := printIdentity(device); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	if !*cfg.stream {
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := runScan(ctx, device); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
