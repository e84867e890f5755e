// Package accel holds the runtime accelerator instance built for each
// profile. Curve evaluation itself is delegated to an Evaluator.
package accel

import (
	"math"

	"github.com/timzifer/accelconf/settings"
)

// Derived is state computed from a profile when an instance is built.
type Derived struct {
	RotationCos float64
	RotationSin float64
}

// DriverSettings is the per-profile state the driver consumes: the
// normalized profile plus its derived values.
type DriverSettings struct {
	Profile settings.Profile
	Derived Derived
}

// Clone returns a deep copy.
func (ds DriverSettings) Clone() DriverSettings {
	out := ds
	out.Profile = ds.Profile.Clone()
	return out
}

// Evaluator applies a curve to one input delta.
type Evaluator interface {
	Modify(in settings.Vec2, ds *DriverSettings, dpiFactor, elapsed float64) settings.Vec2
}

// EvaluatorFunc adapts a function to the Evaluator interface.
type EvaluatorFunc func(in settings.Vec2, ds *DriverSettings, dpiFactor, elapsed float64) settings.Vec2

// Modify calls f.
func (f EvaluatorFunc) Modify(in settings.Vec2, ds *DriverSettings, dpiFactor, elapsed float64) settings.Vec2 {
	return f(in, ds, dpiFactor, elapsed)
}

// Instance is the accelerator built for one profile.
type Instance struct {
	settings DriverSettings
	eval     Evaluator
}

// New builds an instance from a profile. A nil evaluator selects NoAccel.
func New(p settings.Profile, eval Evaluator) *Instance {
	return FromDriverSettings(Init(p), eval)
}

// FromDriverSettings wraps settings read back from the driver as they are.
func FromDriverSettings(ds DriverSettings, eval Evaluator) *Instance {
	if eval == nil {
		eval = NoAccel{}
	}
	return &Instance{settings: ds.Clone(), eval: eval}
}

// Init normalizes a profile and computes its derived state.
func Init(p settings.Profile) DriverSettings {
	prof := p.Clone()
	normalizeArgs(&prof.ArgsX)
	normalizeArgs(&prof.ArgsY)
	rad := prof.Rotation * math.Pi / 180
	return DriverSettings{
		Profile: prof,
		Derived: Derived{
			RotationCos: math.Cos(rad),
			RotationSin: math.Sin(rad),
		},
	}
}

func normalizeArgs(a *settings.AccelArgs) {
	if a.Length < 0 {
		a.Length = 0
	}
	if a.Length > len(a.Data) {
		a.Length = len(a.Data)
	}
	if a.Length > settings.LutDataCapacity {
		a.Length = settings.LutDataCapacity
	}
	if len(a.Data) > settings.LutDataCapacity {
		a.Data = a.Data[:settings.LutDataCapacity]
	}
}

// Accelerate transforms a raw device delta.
func (i *Instance) Accelerate(x, y int, dpiFactor, elapsed float64) (float64, float64) {
	out := i.eval.Modify(settings.Vec2{X: float64(x), Y: float64(y)}, &i.settings, dpiFactor, elapsed)
	return out.X, out.Y
}

// Profile returns a copy of the instance's normalized profile.
func (i *Instance) Profile() settings.Profile {
	return i.settings.Profile.Clone()
}

// Settings returns a copy of the state projected into the driver record.
func (i *Instance) Settings() DriverSettings {
	return i.settings.Clone()
}

// NoAccel applies rotation, sensitivity and the negative directional
// multipliers and leaves speed untouched.
type NoAccel struct{}

// Modify implements Evaluator.
func (NoAccel) Modify(in settings.Vec2, ds *DriverSettings, _, _ float64) settings.Vec2 {
	p := &ds.Profile
	out := in
	if p.Rotation != 0 {
		out = settings.Vec2{
			X: in.X*ds.Derived.RotationCos - in.Y*ds.Derived.RotationSin,
			Y: in.X*ds.Derived.RotationSin + in.Y*ds.Derived.RotationCos,
		}
	}
	out.X *= p.Sensitivity
	out.Y *= p.Sensitivity * p.YXSensRatio
	if out.X < 0 && p.DirectionalMultipliers.X > 0 {
		out.X *= p.DirectionalMultipliers.X
	}
	if out.Y < 0 && p.DirectionalMultipliers.Y > 0 {
		out.Y *= p.DirectionalMultipliers.Y
	}
	return out
}
