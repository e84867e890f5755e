// Package layout defines the fixed-size record exchanged with the driver.
//
// Field order and sizes are part of the driver protocol. Padding fields
// keep every float64 on an 8 byte boundary; they are written as zeros.
package layout

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/timzifer/accelconf/settings"
)

// ErrCapacity reports more profiles or devices than the record can hold.
var ErrCapacity = errors.New("record capacity exceeded")

// Vec2Record is a pair of doubles.
type Vec2Record struct {
	X float64
	Y float64
}

// AccelArgsRecord is the fixed-size form of settings.AccelArgs.
type AccelArgsRecord struct {
	Mode            int32
	Gain            uint8
	_               [3]byte
	Offset          float64
	Acceleration    float64
	DecayRate       float64
	GrowthRate      float64
	Motivity        float64
	ExponentClassic float64
	Scale           float64
	Weight          float64
	ExponentPower   float64
	Limit           float64
	Midpoint        float64
	Smooth          float64
	Cap             Vec2Record
	CapMode         int32
	Length          int32
	Data            [settings.LutDataCapacity]float32
}

// ProfileRecord is the fixed-size form of settings.Profile.
type ProfileRecord struct {
	Name                   [settings.MaxNameLen * 2]byte
	CombineMagnitudes      uint8
	_                      [7]byte
	LpNorm                 float64
	DomainXY               Vec2Record
	RangeXY                Vec2Record
	Sensitivity            float64
	YXSensRatio            float64
	ArgsX                  AccelArgsRecord
	ArgsY                  AccelArgsRecord
	MinimumSpeed           float64
	MaximumSpeed           float64
	DirectionalMultipliers Vec2Record
	Rotation               float64
	Snap                   float64
}

// DriverRecord is one profile slot: the profile and its derived state.
type DriverRecord struct {
	Profile     ProfileRecord
	RotationCos float64
	RotationSin float64
}

// DeviceConfigRecord is the fixed-size form of settings.DeviceConfig.
type DeviceConfigRecord struct {
	Disable      uint8
	SetExtraInfo uint8
	_            [2]byte
	DPI          int32
	PollingRate  int32
	_            [4]byte
	MinimumTime  float64
	MaximumTime  float64
}

// DeviceRecord is one device slot.
type DeviceRecord struct {
	Name    [settings.MaxNameLen * 2]byte
	Profile [settings.MaxNameLen * 2]byte
	ID      [settings.MaxDevIDLen * 2]byte
	Config  DeviceConfigRecord
}

// Record is the complete driver configuration.
type Record struct {
	DefaultDeviceConfig DeviceConfigRecord
	ProfileCount        uint32
	_                   [4]byte
	Profiles            [settings.MaxProfiles]DriverRecord
	DeviceCount         uint32
	_                   [4]byte
	Devices             [settings.MaxDevices]DeviceRecord
}

// Size is the encoded size of a Record in bytes.
func Size() int {
	return binary.Size(new(Record))
}

// Encode writes r in little-endian byte order.
func Encode(w io.Writer, r *Record) error {
	if r == nil {
		return errors.New("nil record")
	}
	if err := binary.Write(w, binary.LittleEndian, r); err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	return nil
}

// Decode reads a record written by Encode.
func Decode(rd io.Reader) (*Record, error) {
	r := new(Record)
	if err := binary.Read(rd, binary.LittleEndian, r); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	return r, nil
}
