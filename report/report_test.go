package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/timzifer/accelconf/settings"
	"github.com/timzifer/accelconf/validate"
)

func badProfile(name string) settings.Profile {
	p := settings.DefaultProfile()
	p.Name = name
	p.Sensitivity = 0
	return p
}

func TestProfilesEmpty(t *testing.T) {
	r := Profiles(validate.Default(), []settings.Profile{settings.DefaultProfile(), settings.DefaultProfile()})
	require.True(t, r.Empty())
	require.Equal(t, "", r.String())

	var nilReport *ProfileErrors
	require.True(t, nilReport.Empty())
}

func TestSingleProfileOmitsLabel(t *testing.T) {
	r := Profiles(validate.Default(), []settings.Profile{badProfile("only")})
	require.False(t, r.Empty())
	require.Equal(t, "\tsensitivity must not be 0\n", r.String())
	require.NotContains(t, r.String(), "profile:")
}

func TestMultipleProfilesAreLabelled(t *testing.T) {
	r := Profiles(validate.Default(), []settings.Profile{
		badProfile("first"),
		settings.DefaultProfile(),
		badProfile("third"),
	})
	require.Len(t, r.Entries, 2)
	out := r.String()
	require.Equal(t, 1, strings.Count(out, "profile: first\n"))
	require.Equal(t, 1, strings.Count(out, "profile: third\n"))
	require.NotContains(t, out, "profile: default")
}

func TestAxisLabels(t *testing.T) {
	p := settings.DefaultProfile()
	p.ArgsX.Mode = settings.ModePower
	p.ArgsX.Scale = 0
	p.YXSensRatio = 0

	r := Profiles(validate.Default(), []settings.Profile{p})
	require.Equal(t, "\tscale must be > 0\n\tY/X sensitivity ratio must be > 0\n", r.String())
	require.Equal(t, 1, r.Entries[0].LastX)
	require.Equal(t, 1, r.Entries[0].LastY)

	p.CombineMagnitudes = false
	p.ArgsY.Mode = settings.ModeJump
	p.ArgsY.Smooth = 2
	r = Profiles(validate.Default(), []settings.Profile{p})
	require.Equal(t, "\tx: scale must be > 0\n\ty: smooth must be between 0 and 1\n\tY/X sensitivity ratio must be > 0\n", r.String())
	require.Equal(t, 1, r.Entries[0].LastX)
	require.Equal(t, 2, r.Entries[0].LastY)
}

func TestCombinedProfileReportsYAxis(t *testing.T) {
	bad := settings.DefaultProfile()
	bad.Name = "bad"
	bad.ArgsY.Mode = settings.ModeClassic
	bad.ArgsY.ExponentClassic = 0.5
	good := settings.DefaultProfile()
	good.Name = "good"
	require.True(t, bad.CombineMagnitudes)

	r := Profiles(validate.Default(), []settings.Profile{good, bad})
	require.False(t, r.Empty())
	require.Len(t, r.Entries, 1)
	require.Equal(t, 0, r.Entries[0].LastX)
	require.Equal(t, 1, r.Entries[0].LastY)
	require.Equal(t, "profile: bad\n\ty: exponent must be > 1\n", r.String())
}

func TestDeviceReport(t *testing.T) {
	ok := settings.DefaultDeviceSettings()
	ok.ID = "HID\\VID_046D"

	broken := settings.DefaultDeviceSettings()
	broken.ID = "HID\\VID_1532"
	broken.Name = "Viper"
	broken.Config.DPI = 0

	unnamed := settings.DefaultDeviceSettings()
	unnamed.ID = "HID\\VID_0000"
	unnamed.Name = "   "
	unnamed.Config.PollingRate = -5

	r := Devices(validate.Default(), []settings.DeviceSettings{ok, broken, unnamed})
	require.Len(t, r.Entries, 2)
	require.Equal(t,
		"device: HID\\VID_1532\n  name: Viper\n\tx: dpi must be > 0\n"+
			"device: HID\\VID_0000\n\tx: polling rate must be >= 0\n",
		r.String())

	single := Devices(validate.Default(), []settings.DeviceSettings{broken})
	require.Equal(t, "\tx: dpi must be > 0\n", single.String())
}
