package layout

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/timzifer/accelconf/accel"
	"github.com/timzifer/accelconf/settings"
)

func sampleProfile() settings.Profile {
	p := settings.DefaultProfile()
	p.Name = "Präzision"
	p.CombineMagnitudes = false
	p.Rotation = 3.5
	p.ArgsX.Mode = settings.ModeLookup
	p.ArgsX.Data = []float32{1, 2, 3}
	p.ArgsX.Length = 3
	p.ArgsY.Mode = settings.ModeClassic
	p.ArgsY.CapMode = settings.CapInOut
	return p
}

func sampleDevice() settings.DeviceSettings {
	return settings.DeviceSettings{
		Name:    "G Pro",
		Profile: "Präzision",
		ID:      `HID\VID_046D&PID_C08B`,
		Config: settings.DeviceConfig{
			DPI:          1600,
			PollingRate:  1000,
			SetExtraInfo: true,
			MinimumTime:  0.2,
			MaximumTime:  100,
		},
	}
}

func TestSizeIsStable(t *testing.T) {
	require.Greater(t, Size(), 0)
	require.Zero(t, Size()%8, "record size must keep 8 byte alignment")

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, new(Record)))
	require.Equal(t, Size(), buf.Len())
}

func TestBuildAndReadBack(t *testing.T) {
	def := settings.DefaultDeviceConfig()
	def.PollingRate = 500
	drivers := []accel.DriverSettings{accel.Init(sampleProfile()), accel.Init(settings.DefaultProfile())}
	devices := []settings.DeviceSettings{sampleDevice()}

	rec, err := Build(def, drivers, devices)
	require.NoError(t, err)
	require.Equal(t, uint32(2), rec.ProfileCount)
	require.Equal(t, uint32(1), rec.DeviceCount)
	require.Equal(t, int32(3), rec.Profiles[0].Profile.ArgsX.Length)
	require.Equal(t, float32(0), rec.Profiles[0].Profile.ArgsX.Data[3], "unused capacity is zero padded")

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, rec))
	decoded, err := Decode(&buf)
	require.NoError(t, err)

	require.Equal(t, def, decoded.DefaultDevice())

	gotDrivers, err := decoded.Drivers()
	require.NoError(t, err)
	require.Equal(t, drivers, gotDrivers)

	gotDevices, err := decoded.Bindings()
	require.NoError(t, err)
	require.Equal(t, devices, gotDevices)
}

func TestBuildRejectsOverCapacity(t *testing.T) {
	drivers := make([]accel.DriverSettings, settings.MaxProfiles+1)
	for i := range drivers {
		drivers[i] = accel.Init(settings.DefaultProfile())
	}
	_, err := Build(settings.DefaultDeviceConfig(), drivers, nil)
	require.True(t, errors.Is(err, ErrCapacity))

	devices := make([]settings.DeviceSettings, settings.MaxDevices+1)
	_, err = Build(settings.DefaultDeviceConfig(), nil, devices)
	require.ErrorIs(t, err, ErrCapacity)
}

func TestBuildRejectsUnknownMode(t *testing.T) {
	p := settings.DefaultProfile()
	p.ArgsY.Mode = "warp"
	_, err := Build(settings.DefaultDeviceConfig(), []accel.DriverSettings{accel.Init(p)}, nil)
	require.ErrorContains(t, err, `unknown accel mode "warp"`)
}

func TestRecordCountsAreChecked(t *testing.T) {
	rec := new(Record)
	rec.ProfileCount = settings.MaxProfiles + 1
	_, err := rec.Drivers()
	require.ErrorIs(t, err, ErrCapacity)

	rec.DeviceCount = settings.MaxDevices + 1
	_, err = rec.Bindings()
	require.ErrorIs(t, err, ErrCapacity)
}

func TestNamesAreTruncatedToCapacity(t *testing.T) {
	dev := sampleDevice()
	dev.ID = strings.Repeat("x", settings.MaxDevIDLen+20)
	rec, err := Build(settings.DefaultDeviceConfig(), nil, []settings.DeviceSettings{dev})
	require.NoError(t, err)
	devices, err := rec.Bindings()
	require.NoError(t, err)
	require.Len(t, devices[0].ID, settings.MaxDevIDLen-1)
}

func TestTruncationKeepsSurrogatePairsWhole(t *testing.T) {
	dev := sampleDevice()
	prefix := strings.Repeat("x", settings.MaxDevIDLen-2)
	dev.ID = prefix + "😀"
	require.Equal(t, settings.MaxDevIDLen, settings.WideLen(dev.ID))

	rec, err := Build(settings.DefaultDeviceConfig(), nil, []settings.DeviceSettings{dev})
	require.NoError(t, err)
	devices, err := rec.Bindings()
	require.NoError(t, err)
	require.Equal(t, prefix, devices[0].ID)
	require.NotContains(t, devices[0].ID, "\uFFFD")
}
