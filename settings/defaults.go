package settings

// DefaultProfileName is the name given to the built-in profile.
const DefaultProfileName = "default"

// DefaultDeviceID identifies the synthetic binding that carries the
// default device config during validation.
const DefaultDeviceID = "Default"

// DefaultAccelArgs returns the curve parameters of a new axis.
func DefaultAccelArgs() AccelArgs {
	return AccelArgs{
		Mode:            ModeNoAccel,
		Gain:            true,
		Offset:          0,
		Acceleration:    0.005,
		DecayRate:       0.1,
		GrowthRate:      1,
		Motivity:        1.5,
		ExponentClassic: 2,
		Scale:           1,
		Weight:          1,
		ExponentPower:   0.05,
		Limit:           1.5,
		Midpoint:        5,
		Smooth:          0.5,
		Cap:             Vec2{X: 15, Y: 1.5},
		CapMode:         CapOutput,
	}
}

// DefaultProfile returns the built-in profile.
func DefaultProfile() Profile {
	return Profile{
		Name:              DefaultProfileName,
		CombineMagnitudes: true,
		LpNorm:            2,
		DomainXY:          Vec2{X: 1, Y: 1},
		RangeXY:           Vec2{X: 1, Y: 1},
		Sensitivity:       1,
		YXSensRatio:       1,
		ArgsX:             DefaultAccelArgs(),
		ArgsY:             DefaultAccelArgs(),
	}
}

// DefaultDeviceConfig returns the config applied to unbound devices.
func DefaultDeviceConfig() DeviceConfig {
	return DeviceConfig{
		DPI:         1000,
		MinimumTime: DefaultTimeMin,
		MaximumTime: DefaultTimeMax,
	}
}

// DefaultDeviceSettings returns an empty binding carrying DefaultDeviceConfig.
func DefaultDeviceSettings() DeviceSettings {
	return DeviceSettings{Config: DefaultDeviceConfig()}
}
