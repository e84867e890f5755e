package settings

// Profile is a named curve configuration that devices can be bound to.
type Profile struct {
	Name string `yaml:"name"`

	// CombineMagnitudes applies ArgsX to the combined (x, y) magnitude.
	// When false ArgsX and ArgsY shape each axis independently.
	CombineMagnitudes bool    `yaml:"Whole/combined accel (set false for 'by component' mode)"`
	LpNorm            float64 `yaml:"lpNorm"`
	DomainXY          Vec2    `yaml:"Stretches domain for horizontal vs vertical inputs"`
	RangeXY           Vec2    `yaml:"Stretches accel range for horizontal vs vertical inputs"`

	Sensitivity float64 `yaml:"Sensitivity multiplier"`
	YXSensRatio float64 `yaml:"Y/X sensitivity ratio (vertical sens multiplier)"`

	ArgsX AccelArgs `yaml:"Whole or horizontal accel parameters"`
	ArgsY AccelArgs `yaml:"Vertical accel parameters"`

	MinimumSpeed float64 `yaml:"-"`
	MaximumSpeed float64 `yaml:"Input Speed Cap"`

	DirectionalMultipliers Vec2    `yaml:"Negative directional multipliers"`
	Rotation               float64 `yaml:"Degrees of rotation"`
	Snap                   float64 `yaml:"Degrees of angle snapping"`
}

// Clone returns a deep copy of the profile.
func (p Profile) Clone() Profile {
	out := p
	out.ArgsX = p.ArgsX.Clone()
	out.ArgsY = p.ArgsY.Clone()
	return out
}

// TextView returns the copy of p that is written to the settings text.
func (p Profile) TextView() Profile {
	out := p
	out.ArgsX = p.ArgsX.TextView()
	out.ArgsY = p.ArgsY.TextView()
	return out
}
