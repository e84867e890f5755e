package accel

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/timzifer/accelconf/settings"
)

func TestNewDerivesRotation(t *testing.T) {
	p := settings.DefaultProfile()
	p.Rotation = 90
	inst := New(p, nil)

	ds := inst.Settings()
	require.InDelta(t, 0, ds.Derived.RotationCos, 1e-12)
	require.InDelta(t, 1, ds.Derived.RotationSin, 1e-12)

	x, y := inst.Accelerate(1, 0, 1, 1)
	require.InDelta(t, 0, x, 1e-12)
	require.InDelta(t, 1, y, 1e-12)
}

func TestNoAccelScalesAndFlips(t *testing.T) {
	p := settings.DefaultProfile()
	p.Sensitivity = 2
	p.YXSensRatio = 0.5
	p.DirectionalMultipliers = settings.Vec2{X: 3, Y: 0}
	inst := New(p, nil)

	x, y := inst.Accelerate(-1, 4, 1, 1)
	require.Equal(t, -6.0, x)
	require.Equal(t, 4.0, y)
}

func TestInstanceUsesEvaluator(t *testing.T) {
	var gotDPI, gotTime float64
	eval := EvaluatorFunc(func(in settings.Vec2, ds *DriverSettings, dpiFactor, elapsed float64) settings.Vec2 {
		gotDPI, gotTime = dpiFactor, elapsed
		return settings.Vec2{X: in.X * 10, Y: in.Y * 10}
	})
	inst := New(settings.DefaultProfile(), eval)
	x, y := inst.Accelerate(1, 2, 1.6, 0.125)
	require.Equal(t, 10.0, x)
	require.Equal(t, 20.0, y)
	require.Equal(t, 1.6, gotDPI)
	require.Equal(t, 0.125, gotTime)
}

func TestInitNormalizesLookupLength(t *testing.T) {
	p := settings.DefaultProfile()
	p.ArgsX.Mode = settings.ModeLookup
	p.ArgsX.Data = []float32{1, 2}
	p.ArgsX.Length = 9
	p.ArgsY.Length = -1

	ds := Init(p)
	require.Equal(t, 2, ds.Profile.ArgsX.Length)
	require.Zero(t, ds.Profile.ArgsY.Length)
	require.Equal(t, 9, p.ArgsX.Length, "input profile is left alone")
}

func TestProfileAndSettingsReturnCopies(t *testing.T) {
	p := settings.DefaultProfile()
	p.ArgsX.Data = []float32{1, 2}
	p.ArgsX.Length = 2
	inst := New(p, nil)

	got := inst.Profile()
	got.ArgsX.Data[0] = 100
	got.Name = "changed"
	require.Equal(t, float32(1), inst.Profile().ArgsX.Data[0])
	require.Equal(t, settings.DefaultProfileName, inst.Settings().Profile.Name)

	ds := inst.Settings()
	again := FromDriverSettings(ds, nil)
	ds.Profile.ArgsX.Data[1] = 50
	require.Equal(t, float32(2), again.Profile().ArgsX.Data[1])
}
