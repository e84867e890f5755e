package validate

import (
	"fmt"

	"github.com/timzifer/accelconf/settings"
)

// Rule pairs a boolean expression that must hold with the message emitted
// when it does not.
type Rule struct {
	Expr    string
	Message string
}

// argsEnv is the expression environment of a single axis.
type argsEnv struct {
	Mode            string    `expr:"mode"`
	Gain            bool      `expr:"gain"`
	Offset          float64   `expr:"offset"`
	Acceleration    float64   `expr:"acceleration"`
	DecayRate       float64   `expr:"decayRate"`
	GrowthRate      float64   `expr:"growthRate"`
	Motivity        float64   `expr:"motivity"`
	ExponentClassic float64   `expr:"exponentClassic"`
	Scale           float64   `expr:"scale"`
	Weight          float64   `expr:"weight"`
	ExponentPower   float64   `expr:"exponentPower"`
	Limit           float64   `expr:"limit"`
	Midpoint        float64   `expr:"midpoint"`
	Smooth          float64   `expr:"smooth"`
	CapX            float64   `expr:"capX"`
	CapY            float64   `expr:"capY"`
	CapMode         string    `expr:"capMode"`
	Length          int       `expr:"length"`
	Data            []float64 `expr:"data"`
	MaxLength       int       `expr:"maxLength"`
}

func newArgsEnv(a settings.AccelArgs) argsEnv {
	active := a.Active()
	data := make([]float64, len(active))
	for i, v := range active {
		data[i] = float64(v)
	}
	return argsEnv{
		Mode:            string(a.Mode),
		Gain:            a.Gain,
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
		CapX:            a.Cap.X,
		CapY:            a.Cap.Y,
		CapMode:         string(a.CapMode),
		Length:          a.Length,
		Data:            data,
		MaxLength:       settings.LutDataCapacity,
	}
}

// profileEnv is the expression environment of profile-level rules.
type profileEnv struct {
	NameLength        int     `expr:"nameLength"`
	MaxNameLength     int     `expr:"maxNameLength"`
	CombineMagnitudes bool    `expr:"combineMagnitudes"`
	LpNorm            float64 `expr:"lpNorm"`
	DomainX           float64 `expr:"domainX"`
	DomainY           float64 `expr:"domainY"`
	RangeX            float64 `expr:"rangeX"`
	RangeY            float64 `expr:"rangeY"`
	Sensitivity       float64 `expr:"sensitivity"`
	YXSensRatio       float64 `expr:"yxSensRatio"`
	MinimumSpeed      float64 `expr:"minimumSpeed"`
	MaximumSpeed      float64 `expr:"maximumSpeed"`
	DirectionalX      float64 `expr:"directionalX"`
	DirectionalY      float64 `expr:"directionalY"`
	Rotation          float64 `expr:"rotation"`
	Snap              float64 `expr:"snap"`
}

func newProfileEnv(p settings.Profile) profileEnv {
	return profileEnv{
		NameLength:        settings.WideLen(p.Name),
		MaxNameLength:     settings.MaxNameLen,
		CombineMagnitudes: p.CombineMagnitudes,
		LpNorm:            p.LpNorm,
		DomainX:           p.DomainXY.X,
		DomainY:           p.DomainXY.Y,
		RangeX:            p.RangeXY.X,
		RangeY:            p.RangeXY.Y,
		Sensitivity:       p.Sensitivity,
		YXSensRatio:       p.YXSensRatio,
		MinimumSpeed:      p.MinimumSpeed,
		MaximumSpeed:      p.MaximumSpeed,
		DirectionalX:      p.DirectionalMultipliers.X,
		DirectionalY:      p.DirectionalMultipliers.Y,
		Rotation:          p.Rotation,
		Snap:              p.Snap,
	}
}

// deviceEnv is the expression environment of device rules.
type deviceEnv struct {
	NameLength    int     `expr:"nameLength"`
	ProfileLength int     `expr:"profileLength"`
	IDLength      int     `expr:"idLength"`
	MaxNameLength int     `expr:"maxNameLength"`
	MaxIDLength   int     `expr:"maxIdLength"`
	Disable       bool    `expr:"disable"`
	DPI           int     `expr:"dpi"`
	PollingRate   int     `expr:"pollingRate"`
	MinimumTime   float64 `expr:"minimumTime"`
	MaximumTime   float64 `expr:"maximumTime"`
}

func newDeviceEnv(d settings.DeviceSettings) deviceEnv {
	return deviceEnv{
		NameLength:    settings.WideLen(d.Name),
		ProfileLength: settings.WideLen(d.Profile),
		IDLength:      settings.WideLen(d.ID),
		MaxNameLength: settings.MaxNameLen,
		MaxIDLength:   settings.MaxDevIDLen,
		Disable:       d.Config.Disable,
		DPI:           int(d.Config.DPI),
		PollingRate:   int(d.Config.PollingRate),
		MinimumTime:   d.Config.MinimumTime,
		MaximumTime:   d.Config.MaximumTime,
	}
}

// Rule order is the emission order.
var argsRules = []Rule{
	{`mode != "lut" || length >= 2`, "lookup table needs at least 2 values"},
	{`mode != "lut" || length <= maxLength`, fmt.Sprintf("lookup table holds at most %d values", settings.LutDataCapacity)},
	{`mode != "lut" || all(data, {# >= 0})`, "lookup table values must be >= 0"},
	{`mode not in ["classic", "jump"] || (capX >= 0 && capY >= 0)`, "cap / jump values must be >= 0"},
	{`mode not in ["classic", "natural", "power"] || offset >= 0`, "offset must be >= 0"},
	{`mode != "classic" || acceleration >= 0`, "acceleration must be >= 0"},
	{`mode != "classic" || exponentClassic > 1`, "exponent must be > 1"},
	{`mode != "jump" || (smooth >= 0 && smooth <= 1)`, "smooth must be between 0 and 1"},
	{`mode != "natural" || decayRate > 0`, "decay rate must be > 0"},
	{`mode != "natural" || limit > 1`, "limit must be > 1"},
	{`mode != "motivity" || growthRate > 0`, "growth rate must be > 0"},
	{`mode != "motivity" || motivity > 1`, "motivity must be > 1"},
	{`mode != "motivity" || midpoint > 0`, "midpoint must be > 0"},
	{`mode != "power" || scale > 0`, "scale must be > 0"},
	{`mode != "power" || exponentPower > 0`, "exponent must be > 0"},
}

var profileRules = []Rule{
	{`nameLength < maxNameLength`, fmt.Sprintf("name must be shorter than %d characters", settings.MaxNameLen)},
	{`!combineMagnitudes || lpNorm > 0`, "lp norm must be > 0"},
	{`combineMagnitudes || (domainX == 1 && domainY == 1 && rangeX == 1 && rangeY == 1)`, "domain and range stretches require combined magnitudes"},
	{`domainX > 0 && domainY > 0`, "domain stretch must be > 0"},
	{`rangeX > 0 && rangeY > 0`, "range stretch must be > 0"},
	{`sensitivity != 0`, "sensitivity must not be 0"},
	{`yxSensRatio > 0`, "Y/X sensitivity ratio must be > 0"},
	{`minimumSpeed >= 0`, "minimum speed must be >= 0"},
	{`maximumSpeed >= 0`, "input speed cap must be >= 0"},
	{`maximumSpeed == 0 || minimumSpeed <= maximumSpeed`, "input speed cap must be >= minimum speed"},
	{`directionalX >= 0 && directionalY >= 0`, "negative directional multipliers must be >= 0"},
	{`snap >= 0 && snap <= 45`, "angle snapping must be between 0 and 45 degrees"},
}

var deviceRules = []Rule{
	{`nameLength < maxNameLength`, fmt.Sprintf("name must be shorter than %d characters", settings.MaxNameLen)},
	{`profileLength < maxNameLength`, fmt.Sprintf("profile name must be shorter than %d characters", settings.MaxNameLen)},
	{`idLength < maxIdLength`, fmt.Sprintf("device id must be shorter than %d characters", settings.MaxDevIDLen)},
	{`dpi > 0`, "dpi must be > 0"},
	{`pollingRate >= 0`, "polling rate must be >= 0"},
	{`minimumTime > 0`, "minimum time must be > 0"},
	{`maximumTime >= minimumTime`, "maximum time must be >= minimum time"},
}
