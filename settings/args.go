package settings

import "gopkg.in/yaml.v3"

// Vec2 is a pair of per-axis values.
type Vec2 struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// AccelArgs holds the raw parameters of one acceleration curve. Only the
// fields relevant to Mode are interpreted; the rest are carried unchanged.
type AccelArgs struct {
	Mode            AccelMode `yaml:"mode"`
	Gain            bool      `yaml:"Gain / Velocity"`
	Offset          float64   `yaml:"offset"`
	Acceleration    float64   `yaml:"acceleration"`
	DecayRate       float64   `yaml:"decayRate"`
	GrowthRate      float64   `yaml:"growthRate"`
	Motivity        float64   `yaml:"motivity"`
	ExponentClassic float64   `yaml:"exponentClassic"`
	Scale           float64   `yaml:"scale"`
	Weight          float64   `yaml:"weight"`
	ExponentPower   float64   `yaml:"exponentPower"`
	Limit           float64   `yaml:"limit"`
	Midpoint        float64   `yaml:"midpoint"`
	Smooth          float64   `yaml:"smooth"`
	Cap             Vec2      `yaml:"Cap / Jump"`
	CapMode         CapMode   `yaml:"Cap mode"`

	// Length is the number of samples in Data that carry meaning.
	Length int `yaml:"-"`
	// Data is the lookup-table payload. It is variable length in memory;
	// the fixed capacity only exists in the driver record.
	Data []float32 `yaml:"data"`
}

// UnmarshalYAML derives Length from the number of samples supplied. Absent
// enums take the value with driver code 0.
func (a *AccelArgs) UnmarshalYAML(value *yaml.Node) error {
	type plain AccelArgs
	raw := plain{Mode: ModeClassic, CapMode: CapInOut}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	*a = AccelArgs(raw)
	if len(a.Data) == 0 {
		a.Data = nil
	}
	a.Length = len(a.Data)
	return nil
}

// Active returns the populated lookup-table samples.
func (a AccelArgs) Active() []float32 {
	n := a.Length
	if n < 0 {
		n = 0
	}
	if n > len(a.Data) {
		n = len(a.Data)
	}
	if n == 0 {
		return nil
	}
	return append([]float32(nil), a.Data[:n]...)
}

// Clone returns a copy that shares no memory with a.
func (a AccelArgs) Clone() AccelArgs {
	out := a
	if a.Data != nil {
		out.Data = append([]float32(nil), a.Data...)
	}
	return out
}

// TextView returns the representation written to the settings text: the
// populated samples in lookup mode and no samples in any other mode.
// Table data in other modes is driver scratch space and is never persisted.
func (a AccelArgs) TextView() AccelArgs {
	out := a
	if a.Mode == ModeLookup {
		out.Data = a.Active()
	} else {
		out.Data = nil
	}
	out.Length = len(out.Data)
	return out
}
