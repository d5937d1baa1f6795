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
	"bytes"
	"encoding/binary"
	"fmt"
)

// userDataSize is the fixed width of the user data parameter.
const userDataSize = 16

// AlarmState is the packed alarm flag byte (parameter 111): bits 0-6 are
// alarms 1-7, bit 7 is set when any alarm is active.
type AlarmState byte

// Alarm reports whether alarm n (1-7) is active.
func (s AlarmState) Alarm(n int) bool {
	if n < 1 || n > 7 {
		return false
	}
	return s&(1<<(n-1)) != 0
}

// Any reports whether any alarm is active.
func (s AlarmState) Any() bool {
	return s&0x80 != 0
}

// AlarmConfig is the configuration of one of the seven zone alarms
// (parameters 112-118).
type AlarmConfig struct {
	// Enabled controls whether the alarm is evaluated.
	Enabled bool
	// Direction is the primary direction in degrees.
	Direction int16
	// Width is the angular width in degrees around the primary
	// direction.
	Width int16
	// Distance is the trigger distance in centimeters.
	Distance int16
}

// DistanceReading is the response to a distance query (parameter 105)
// over a sector of the most recent revolution.
type DistanceReading struct {
	// AverageDistance is the mean distance over the sector, in cm.
	AverageDistance int16
	// ClosestDistance is the nearest return in the sector, in cm.
	ClosestDistance int16
	// FurthestDistance is the farthest return in the sector, in cm.
	FurthestDistance int16
	// Angle is the direction of the closest return, in tenths of a
	// degree.
	Angle int16
	// CalculationTime is how long the device spent computing the
	// result, in microseconds.
	CalculationTime uint32
}

// ProductName returns the device model string (always "SF40" for this
// hardware).
func (d *Device) ProductName() (string, error) {
	data, err := d.readCommand(cmdProductName)
	if err != nil {
		return "", err
	}
	return deviceString(data), nil
}

// HardwareVersion returns the hardware revision.
func (d *Device) HardwareVersion() (uint32, error) {
	return d.readUint32(cmdHardwareVersion)
}

// FirmwareVersion returns the firmware revision.
func (d *Device) FirmwareVersion() (uint32, error) {
	return d.readUint32(cmdFirmwareVersion)
}

// SerialNumber returns the device serial number string.
func (d *Device) SerialNumber() (string, error) {
	data, err := d.readCommand(cmdSerialNumber)
	if err != nil {
		return "", err
	}
	return deviceString(data), nil
}

// UserData returns the 16 bytes of free-form storage on the device.
func (d *Device) UserData() ([]byte, error) {
	data, err := d.readCommand(cmdUserData)
	if err != nil {
		return nil, err
	}
	if err := checkResponseLen(cmdUserData, data, userDataSize); err != nil {
		return nil, err
	}
	return append([]byte(nil), data[:userDataSize]...), nil
}

// SetUserData stores up to 16 bytes of free-form data on the device.
// Shorter values are zero padded.
func (d *Device) SetUserData(data []byte) error {
	if len(data) > userDataSize {
		return fmt.Errorf("%w: user data %d bytes, limit %d", ErrInvalidParameter, len(data), userDataSize)
	}
	padded := make([]byte, userDataSize)
	copy(padded, data)
	_, err := d.writeCommand(cmdUserData, padded)
	return err
}

// Token returns the next safety token. A token is single use: it
// authorizes exactly one persistent write or device reset.
func (d *Device) Token() (uint16, error) {
	data, err := d.readCommand(cmdToken)
	if err != nil {
		return 0, err
	}
	if err := checkResponseLen(cmdToken, data, 2); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(data), nil
}

// SaveParameters makes the current parameter values persist across
// power cycles. It fetches a fresh token to authorize the write.
func (d *Device) SaveParameters() error {
	return d.tokenWrite(cmdSaveParameters)
}

// Reset restarts the device. It fetches a fresh token to authorize the
// restart. The device does not respond once it accepts the command, so
// a timeout here does not necessarily mean the reset failed.
func (d *Device) Reset() error {
	return d.tokenWrite(cmdReset)
}

func (d *Device) tokenWrite(cmd byte) error {
	token, err := d.Token()
	if err != nil {
		return fmt.Errorf("fetch token: %w", err)
	}
	payload := make([]byte, 2)
	binary.LittleEndian.PutUint16(payload, token)
	_, err = d.writeCommand(cmd, payload)
	return err
}

// IncomingVoltage returns the supply voltage in volts, converted from
// the device's raw ADC counts.
func (d *Device) IncomingVoltage() (float64, error) {
	counts, err := d.readUint32(cmdIncomingVoltage)
	if err != nil {
		return 0, err
	}
	return voltageFromCounts(counts), nil
}

// voltageFromCounts converts raw ADC counts to volts: a 12-bit reading
// against a 2.048V reference through a 5.7:1 divider.
func voltageFromCounts(counts uint32) float64 {
	return float64(counts) / 4095.0 * 2.048 * 5.7
}

// StreamMode returns the current unsolicited output mode.
func (d *Device) StreamMode() (StreamMode, error) {
	v, err := d.readUint32(cmdStream)
	if err != nil {
		return StreamNone, err
	}
	return StreamMode(v), nil
}

// SetStreamMode selects what the device emits unsolicited. Pass
// StreamDistance to start continuous distance output and StreamNone to
// stop it.
func (d *Device) SetStreamMode(mode StreamMode) error {
	payload := make([]byte, 4)
	binary.LittleEndian.PutUint32(payload, uint32(mode))
	_, err := d.writeCommand(cmdStream, payload)
	return err
}

// LaserFiring reports whether the laser is enabled.
func (d *Device) LaserFiring() (bool, error) {
	data, err := d.readCommand(cmdLaserFiring)
	if err != nil {
		return false, err
	}
	if err := checkResponseLen(cmdLaserFiring, data, 1); err != nil {
		return false, err
	}
	return data[0] != 0, nil
}

// SetLaserFiring enables or disables the laser.
func (d *Device) SetLaserFiring(enabled bool) error {
	value := byte(0)
	if enabled {
		value = 1
	}
	_, err := d.writeCommand(cmdLaserFiring, []byte{value})
	return err
}

// Temperature returns the internal temperature in degrees Celsius,
// converted from the device's 1/100 degree counts.
func (d *Device) Temperature() (float64, error) {
	counts, err := d.readUint32(cmdTemperature)
	if err != nil {
		return 0, err
	}
	return float64(int32(counts)) / 100.0, nil
}

// BaudRate returns the configured serial speed enumeration.
func (d *Device) BaudRate() (BaudRate, error) {
	data, err := d.readCommand(cmdBaudRate)
	if err != nil {
		return 0, err
	}
	if err := checkResponseLen(cmdBaudRate, data, 1); err != nil {
		return 0, err
	}
	return BaudRate(data[0]), nil
}

// SetBaudRate selects the serial speed. The new rate takes effect only
// after the parameter is saved and the device restarted, so the current
// channel stays valid.
func (d *Device) SetBaudRate(rate BaudRate) error {
	if rate.BitsPerSecond() == 0 {
		return fmt.Errorf("%w: baud rate code %d", ErrInvalidParameter, rate)
	}
	_, err := d.writeCommand(cmdBaudRate, []byte{byte(rate)})
	return err
}

// Distance queries the most recent revolution over a sector:
// direction and width in degrees, minimumDistance in cm below which
// returns are ignored.
func (d *Device) Distance(direction, width, minimumDistance int16) (*DistanceReading, error) {
	payload := make([]byte, 6)
	binary.LittleEndian.PutUint16(payload[0:], uint16(direction))
	binary.LittleEndian.PutUint16(payload[2:], uint16(width))
	binary.LittleEndian.PutUint16(payload[4:], uint16(minimumDistance))

	data, err := d.writeCommand(cmdDistance, payload)
	if err != nil {
		return nil, err
	}
	if err := checkResponseLen(cmdDistance, data, 12); err != nil {
		return nil, err
	}

	return &DistanceReading{
		AverageDistance:  int16(binary.LittleEndian.Uint16(data[0:])),
		ClosestDistance:  int16(binary.LittleEndian.Uint16(data[2:])),
		FurthestDistance: int16(binary.LittleEndian.Uint16(data[4:])),
		Angle:            int16(binary.LittleEndian.Uint16(data[6:])),
		CalculationTime:  binary.LittleEndian.Uint32(data[8:]),
	}, nil
}

// MotorState returns the motor controller state.
func (d *Device) MotorState() (MotorState, error) {
	data, err := d.readCommand(cmdMotorState)
	if err != nil {
		return 0, err
	}
	if err := checkResponseLen(cmdMotorState, data, 1); err != nil {
		return 0, err
	}
	return MotorState(data[0]), nil
}

// MotorVoltage returns the motor drive voltage in the device's raw
// units.
func (d *Device) MotorVoltage() (int16, error) {
	return d.readInt16(cmdMotorVoltage)
}

// OutputRate returns the configured scan output rate enumeration.
func (d *Device) OutputRate() (OutputRate, error) {
	data, err := d.readCommand(cmdOutputRate)
	if err != nil {
		return 0, err
	}
	if err := checkResponseLen(cmdOutputRate, data, 1); err != nil {
		return 0, err
	}
	return OutputRate(data[0]), nil
}

// SetOutputRate selects the scan output rate.
func (d *Device) SetOutputRate(rate OutputRate) error {
	if rate.PointsPerSecond() == 0 {
		return fmt.Errorf("%w: output rate code %d", ErrInvalidParameter, rate)
	}
	_, err := d.writeCommand(cmdOutputRate, []byte{byte(rate)})
	return err
}

// ForwardOffset returns the orientation offset in degrees that rotates
// the zero-degree direction of the scan.
func (d *Device) ForwardOffset() (int16, error) {
	return d.readInt16(cmdForwardOffset)
}

// SetForwardOffset sets the orientation offset in degrees.
func (d *Device) SetForwardOffset(degrees int16) error {
	payload := make([]byte, 2)
	binary.LittleEndian.PutUint16(payload, uint16(degrees))
	_, err := d.writeCommand(cmdForwardOffset, payload)
	return err
}

// Revolutions returns the number of motor revolutions since startup.
func (d *Device) Revolutions() (uint32, error) {
	return d.readUint32(cmdRevolutions)
}

// AlarmState returns the packed alarm flags.
func (d *Device) AlarmState() (AlarmState, error) {
	data, err := d.readCommand(cmdAlarmState)
	if err != nil {
		return 0, err
	}
	if err := checkResponseLen(cmdAlarmState, data, 1); err != nil {
		return 0, err
	}
	return AlarmState(data[0]), nil
}

// Alarm returns the configuration of zone alarm n (1-7).
func (d *Device) Alarm(n int) (*AlarmConfig, error) {
	cmd, err := alarmCommand(n)
	if err != nil {
		return nil, err
	}
	data, err := d.readCommand(cmd)
	if err != nil {
		return nil, err
	}
	if err := checkResponseLen(cmd, data, 7); err != nil {
		return nil, err
	}
	return &AlarmConfig{
		Enabled:   data[0] != 0,
		Direction: int16(binary.LittleEndian.Uint16(data[1:])),
		Width:     int16(binary.LittleEndian.Uint16(data[3:])),
		Distance:  int16(binary.LittleEndian.Uint16(data[5:])),
	}, nil
}

// SetAlarm stores the configuration of zone alarm n (1-7).
func (d *Device) SetAlarm(n int, config *AlarmConfig) error {
	cmd, err := alarmCommand(n)
	if err != nil {
		return err
	}
	if config == nil {
		return fmt.Errorf("%w: nil alarm config", ErrInvalidParameter)
	}

	payload := make([]byte, 7)
	if config.Enabled {
		payload[0] = 1
	}
	binary.LittleEndian.PutUint16(payload[1:], uint16(config.Direction))
	binary.LittleEndian.PutUint16(payload[3:], uint16(config.Width))
	binary.LittleEndian.PutUint16(payload[5:], uint16(config.Distance))

	_, err = d.writeCommand(cmd, payload)
	return err
}

func alarmCommand(n int) (byte, error) {
	if n < 1 || n > 7 {
		return 0, fmt.Errorf("%w: alarm %d, valid range 1-7", ErrInvalidParameter, n)
	}
	return cmdAlarm1 + byte(n-1), nil
}

func (d *Device) readUint32(cmd byte) (uint32, error) {
	data, err := d.readCommand(cmd)
	if err != nil {
		return 0, err
	}
	if err := checkResponseLen(cmd, data, 4); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(data), nil
}

func (d *Device) readInt16(cmd byte) (int16, error) {
	data, err := d.readCommand(cmd)
	if err != nil {
		return 0, err
	}
	if err := checkResponseLen(cmd, data, 2); err != nil {
		return 0, err
	}
	return int16(binary.LittleEndian.Uint16(data)), nil
}

// deviceString converts a fixed-width, zero padded device string field.
func deviceString(data []byte) string {
	if i := bytes.IndexByte(data, 0); i >= 0 {
		data = data[:i]
	}
	return string(data)
}

func checkResponseLen(cmd byte, data []byte, want int) error {
	if len(data) < want {
		return fmt.Errorf("command %d: %w: %d data bytes, expected %d", cmd, ErrInvalidResponse, len(data), want)
	}
	return nil
}
