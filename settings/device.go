package settings

import "gopkg.in/yaml.v3"

// DeviceConfig holds the runtime parameters applied to one input device.
type DeviceConfig struct {
	Disable      bool    `yaml:"disable"`
	SetExtraInfo bool    `yaml:"setExtraInfo,omitempty"`
	DPI          int32   `yaml:"DPI (normalizes sens to 1000dpi and converts input speed unit: counts/ms -> in/s)"`
	PollingRate  int32   `yaml:"Polling rate Hz (keep at 0 for automatic adjustment)"`
	MinimumTime  float64 `yaml:"minimumTime"`
	MaximumTime  float64 `yaml:"maximumTime"`
}

// deviceConfigText is the written form: optional fields are left out while
// they hold their defaults.
type deviceConfigText struct {
	Disable      bool     `yaml:"disable"`
	SetExtraInfo bool     `yaml:"setExtraInfo,omitempty"`
	DPI          int32    `yaml:"DPI (normalizes sens to 1000dpi and converts input speed unit: counts/ms -> in/s)"`
	PollingRate  int32    `yaml:"Polling rate Hz (keep at 0 for automatic adjustment)"`
	MinimumTime  *float64 `yaml:"minimumTime,omitempty"`
	MaximumTime  *float64 `yaml:"maximumTime,omitempty"`
}

// MarshalYAML omits setExtraInfo unless set and the time clamp bounds
// unless they differ from DefaultTimeMin and DefaultTimeMax.
func (c DeviceConfig) MarshalYAML() (interface{}, error) {
	out := deviceConfigText{
		Disable:      c.Disable,
		SetExtraInfo: c.SetExtraInfo,
		DPI:          c.DPI,
		PollingRate:  c.PollingRate,
	}
	if c.MinimumTime != DefaultTimeMin {
		v := c.MinimumTime
		out.MinimumTime = &v
	}
	if c.MaximumTime != DefaultTimeMax {
		v := c.MaximumTime
		out.MaximumTime = &v
	}
	return out, nil
}

// UnmarshalYAML populates absent optional fields with their defaults.
func (c *DeviceConfig) UnmarshalYAML(value *yaml.Node) error {
	type plain DeviceConfig
	raw := plain{
		MinimumTime: DefaultTimeMin,
		MaximumTime: DefaultTimeMax,
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	*c = DeviceConfig(raw)
	return nil
}

// DeviceSettings binds a profile and a device config to a hardware id.
type DeviceSettings struct {
	Name    string       `yaml:"name"`
	Profile string       `yaml:"profile"`
	ID      string       `yaml:"id"`
	Config  DeviceConfig `yaml:"config"`
}
