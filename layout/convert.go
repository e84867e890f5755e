package layout

import (
	"encoding/binary"
	"fmt"

	"github.com/timzifer/accelconf/accel"
	"github.com/timzifer/accelconf/settings"
)

// Build projects the default device config, the per-profile driver state
// and the device bindings into a record.
func Build(def settings.DeviceConfig, drivers []accel.DriverSettings, devices []settings.DeviceSettings) (*Record, error) {
	if len(drivers) > settings.MaxProfiles {
		return nil, fmt.Errorf("%w: %d profiles (max %d)", ErrCapacity, len(drivers), settings.MaxProfiles)
	}
	if len(devices) > settings.MaxDevices {
		return nil, fmt.Errorf("%w: %d devices (max %d)", ErrCapacity, len(devices), settings.MaxDevices)
	}
	r := new(Record)
	r.DefaultDeviceConfig = deviceConfigRecord(def)
	r.ProfileCount = uint32(len(drivers))
	for i, ds := range drivers {
		prof, err := profileRecord(ds.Profile)
		if err != nil {
			return nil, fmt.Errorf("profile %d (%s): %w", i, ds.Profile.Name, err)
		}
		r.Profiles[i] = DriverRecord{
			Profile:     prof,
			RotationCos: ds.Derived.RotationCos,
			RotationSin: ds.Derived.RotationSin,
		}
	}
	r.DeviceCount = uint32(len(devices))
	for i, dev := range devices {
		rec, err := deviceRecord(dev)
		if err != nil {
			return nil, fmt.Errorf("device %d (%s): %w", i, dev.ID, err)
		}
		r.Devices[i] = rec
	}
	return r, nil
}

// DefaultDevice returns the default device config stored in r.
func (r *Record) DefaultDevice() settings.DeviceConfig {
	return deviceConfig(r.DefaultDeviceConfig)
}

// Drivers returns the populated profile slots in record order.
func (r *Record) Drivers() ([]accel.DriverSettings, error) {
	if r.ProfileCount > settings.MaxProfiles {
		return nil, fmt.Errorf("%w: record claims %d profiles (max %d)", ErrCapacity, r.ProfileCount, settings.MaxProfiles)
	}
	out := make([]accel.DriverSettings, 0, r.ProfileCount)
	for i := 0; i < int(r.ProfileCount); i++ {
		slot := &r.Profiles[i]
		prof, err := profileFromRecord(&slot.Profile)
		if err != nil {
			return nil, fmt.Errorf("profile slot %d: %w", i, err)
		}
		out = append(out, accel.DriverSettings{
			Profile: prof,
			Derived: accel.Derived{RotationCos: slot.RotationCos, RotationSin: slot.RotationSin},
		})
	}
	return out, nil
}

// Bindings returns the populated device slots in record order.
func (r *Record) Bindings() ([]settings.DeviceSettings, error) {
	if r.DeviceCount > settings.MaxDevices {
		return nil, fmt.Errorf("%w: record claims %d devices (max %d)", ErrCapacity, r.DeviceCount, settings.MaxDevices)
	}
	out := make([]settings.DeviceSettings, 0, r.DeviceCount)
	for i := 0; i < int(r.DeviceCount); i++ {
		dev, err := deviceFromRecord(&r.Devices[i])
		if err != nil {
			return nil, fmt.Errorf("device slot %d: %w", i, err)
		}
		out = append(out, dev)
	}
	return out, nil
}

func boolByte(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

func vec2Record(v settings.Vec2) Vec2Record { return Vec2Record{X: v.X, Y: v.Y} }

func vec2(v Vec2Record) settings.Vec2 { return settings.Vec2{X: v.X, Y: v.Y} }

// putWide writes s as NUL terminated UTF-16LE, truncating to fit dst.
func putWide(dst []byte, s string) error {
	encoded, err := settings.EncodeWide(s)
	if err != nil {
		return err
	}
	limit := len(dst) - 2
	if len(encoded) > limit {
		encoded = encoded[:limit]
		// Drop a high surrogate whose low half was cut off.
		if n := len(encoded); n >= 2 {
			if u := binary.LittleEndian.Uint16(encoded[n-2:]); u >= 0xD800 && u < 0xDC00 {
				encoded = encoded[:n-2]
			}
		}
	}
	n := copy(dst, encoded)
	for i := n; i < len(dst); i++ {
		dst[i] = 0
	}
	return nil
}

func argsRecord(a settings.AccelArgs) (AccelArgsRecord, error) {
	mode, ok := a.Mode.Code()
	if !ok {
		return AccelArgsRecord{}, fmt.Errorf("unknown accel mode %q", a.Mode)
	}
	capMode, ok := a.CapMode.Code()
	if !ok {
		return AccelArgsRecord{}, fmt.Errorf("unknown cap mode %q", a.CapMode)
	}
	rec := AccelArgsRecord{
		Mode:            mode,
		Gain:            boolByte(a.Gain),
		Offset:          a.Offset,
		Acceleration:    a.Acceleration,
		DecayRate:       a.DecayRate,
		GrowthRate:      a.GrowthRate,
		Motivity:        a.Motivity,
		ExponentClassic: a.ExponentClassic,
		Scale:           a.Scale,
		Weight:          a.Weight,
		ExponentPower:   a.ExponentPower,
		Limit:           a.Limit,
		Midpoint:        a.Midpoint,
		Smooth:          a.Smooth,
		Cap:             vec2Record(a.Cap),
		CapMode:         capMode,
	}
	n := copy(rec.Data[:], a.Data)
	length := a.Length
	if length > n {
		length = n
	}
	if length < 0 {
		length = 0
	}
	rec.Length = int32(length)
	return rec, nil
}

func argsFromRecord(rec *AccelArgsRecord) (settings.AccelArgs, error) {
	mode, err := settings.AccelModeFromCode(rec.Mode)
	if err != nil {
		return settings.AccelArgs{}, err
	}
	capMode, err := settings.CapModeFromCode(rec.CapMode)
	if err != nil {
		return settings.AccelArgs{}, err
	}
	length := int(rec.Length)
	if length < 0 || length > len(rec.Data) {
		return settings.AccelArgs{}, fmt.Errorf("lookup table length %d out of range", rec.Length)
	}
	a := settings.AccelArgs{
		Mode:            mode,
		Gain:            rec.Gain != 0,
		Offset:          rec.Offset,
		Acceleration:    rec.Acceleration,
		DecayRate:       rec.DecayRate,
		GrowthRate:      rec.GrowthRate,
		Motivity:        rec.Motivity,
		ExponentClassic: rec.ExponentClassic,
		Scale:           rec.Scale,
		Weight:          rec.Weight,
		ExponentPower:   rec.ExponentPower,
		Limit:           rec.Limit,
		Midpoint:        rec.Midpoint,
		Smooth:          rec.Smooth,
		Cap:             vec2(rec.Cap),
		CapMode:         capMode,
		Length:          length,
	}
	if length > 0 {
		a.Data = append([]float32(nil), rec.Data[:length]...)
	}
	return a, nil
}

func profileRecord(p settings.Profile) (ProfileRecord, error) {
	rec := ProfileRecord{
		CombineMagnitudes:      boolByte(p.CombineMagnitudes),
		LpNorm:                 p.LpNorm,
		DomainXY:               vec2Record(p.DomainXY),
		RangeXY:                vec2Record(p.RangeXY),
		Sensitivity:            p.Sensitivity,
		YXSensRatio:            p.YXSensRatio,
		MinimumSpeed:           p.MinimumSpeed,
		MaximumSpeed:           p.MaximumSpeed,
		DirectionalMultipliers: vec2Record(p.DirectionalMultipliers),
		Rotation:               p.Rotation,
		Snap:                   p.Snap,
	}
	if err := putWide(rec.Name[:], p.Name); err != nil {
		return ProfileRecord{}, fmt.Errorf("name: %w", err)
	}
	var err error
	if rec.ArgsX, err = argsRecord(p.ArgsX); err != nil {
		return ProfileRecord{}, fmt.Errorf("x args: %w", err)
	}
	if rec.ArgsY, err = argsRecord(p.ArgsY); err != nil {
		return ProfileRecord{}, fmt.Errorf("y args: %w", err)
	}
	return rec, nil
}

func profileFromRecord(rec *ProfileRecord) (settings.Profile, error) {
	name, err := settings.DecodeWide(rec.Name[:])
	if err != nil {
		return settings.Profile{}, fmt.Errorf("name: %w", err)
	}
	argsX, err := argsFromRecord(&rec.ArgsX)
	if err != nil {
		return settings.Profile{}, fmt.Errorf("x args: %w", err)
	}
	argsY, err := argsFromRecord(&rec.ArgsY)
	if err != nil {
		return settings.Profile{}, fmt.Errorf("y args: %w", err)
	}
	return settings.Profile{
		Name:                   name,
		CombineMagnitudes:      rec.CombineMagnitudes != 0,
		LpNorm:                 rec.LpNorm,
		DomainXY:               vec2(rec.DomainXY),
		RangeXY:                vec2(rec.RangeXY),
		Sensitivity:            rec.Sensitivity,
		YXSensRatio:            rec.YXSensRatio,
		ArgsX:                  argsX,
		ArgsY:                  argsY,
		MinimumSpeed:           rec.MinimumSpeed,
		MaximumSpeed:           rec.MaximumSpeed,
		DirectionalMultipliers: vec2(rec.DirectionalMultipliers),
		Rotation:               rec.Rotation,
		Snap:                   rec.Snap,
	}, nil
}

func deviceConfigRecord(c settings.DeviceConfig) DeviceConfigRecord {
	return DeviceConfigRecord{
		Disable:      boolByte(c.Disable),
		SetExtraInfo: boolByte(c.SetExtraInfo),
		DPI:          c.DPI,
		PollingRate:  c.PollingRate,
		MinimumTime:  c.MinimumTime,
		MaximumTime:  c.MaximumTime,
	}
}

func deviceConfig(rec DeviceConfigRecord) settings.DeviceConfig {
	return settings.DeviceConfig{
		Disable:      rec.Disable != 0,
		SetExtraInfo: rec.SetExtraInfo != 0,
		DPI:          rec.DPI,
		PollingRate:  rec.PollingRate,
		MinimumTime:  rec.MinimumTime,
		MaximumTime:  rec.MaximumTime,
	}
}

func deviceRecord(d settings.DeviceSettings) (DeviceRecord, error) {
	rec := DeviceRecord{Config: deviceConfigRecord(d.Config)}
	if err := putWide(rec.Name[:], d.Name); err != nil {
		return DeviceRecord{}, fmt.Errorf("name: %w", err)
	}
	if err := putWide(rec.Profile[:], d.Profile); err != nil {
		return DeviceRecord{}, fmt.Errorf("profile: %w", err)
	}
	if err := putWide(rec.ID[:], d.ID); err != nil {
		return DeviceRecord{}, fmt.Errorf("id: %w", err)
	}
	return rec, nil
}

func deviceFromRecord(rec *DeviceRecord) (settings.DeviceSettings, error) {
	name, err := settings.DecodeWide(rec.Name[:])
	if err != nil {
		return settings.DeviceSettings{}, fmt.Errorf("name: %w", err)
	}
	profile, err := settings.DecodeWide(rec.Profile[:])
	if err != nil {
		return settings.DeviceSettings{}, fmt.Errorf("profile: %w", err)
	}
	id, err := settings.DecodeWide(rec.ID[:])
	if err != nil {
		return settings.DeviceSettings{}, fmt.Errorf("id: %w", err)
	}
	return settings.DeviceSettings{
		Name:    name,
		Profile: profile,
		ID:      id,
		Config:  deviceConfig(rec.Config),
	}, nil
}
