package settings

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestAccelModeCodesRoundTrip(t *testing.T) {
	for i, mode := range AccelModes() {
		code, ok := mode.Code()
		require.True(t, ok)
		require.Equal(t, int32(i), code)
		back, err := AccelModeFromCode(code)
		require.NoError(t, err)
		require.Equal(t, mode, back)
	}
	_, err := AccelModeFromCode(int32(len(AccelModes())))
	require.Error(t, err)
	_, ok := AccelMode("bogus").Code()
	require.False(t, ok)
}

func TestAccelModeUnmarshalRejectsUnknownNames(t *testing.T) {
	var args AccelArgs
	err := yaml.Unmarshal([]byte("mode: turbo\n"), &args)
	require.Error(t, err)
	require.Contains(t, err.Error(), `unknown accel mode "turbo"`)

	require.NoError(t, yaml.Unmarshal([]byte("mode: lut\nCap mode: in_out\n"), &args))
	require.Equal(t, ModeLookup, args.Mode)
	require.Equal(t, CapInOut, args.CapMode)
}

func TestJoinModes(t *testing.T) {
	require.Equal(t, "classic | jump | natural | motivity | power | lut | noaccel", JoinAccelModes())
	require.Equal(t, "in_out | input | output", JoinCapModes())
}

func TestAccelArgsUnmarshalDerivesLength(t *testing.T) {
	var args AccelArgs
	require.NoError(t, yaml.Unmarshal([]byte("mode: lut\ndata: [1.0, 2.0, 3.0]\n"), &args))
	require.Equal(t, 3, args.Length)
	require.Equal(t, []float32{1, 2, 3}, args.Data)

	var empty AccelArgs
	require.NoError(t, yaml.Unmarshal([]byte("mode: classic\ndata: []\n"), &empty))
	require.Zero(t, empty.Length)
	require.Nil(t, empty.Data)
}

func TestAccelArgsTextView(t *testing.T) {
	lut := AccelArgs{Mode: ModeLookup, Length: 2, Data: []float32{4, 5, 6, 7}}
	view := lut.TextView()
	require.Equal(t, []float32{4, 5}, view.Data)
	require.Equal(t, 2, view.Length)

	view.Data[0] = 99
	require.Equal(t, float32(4), lut.Data[0], "view must not alias the source")

	classic := AccelArgs{Mode: ModeClassic, Length: 3, Data: []float32{1, 2, 3}}
	hidden := classic.TextView()
	require.Nil(t, hidden.Data)
	require.Zero(t, hidden.Length)
	require.Len(t, classic.Data, 3)
}

func TestProfileCloneIsDeep(t *testing.T) {
	p := DefaultProfile()
	p.ArgsX.Data = []float32{1, 2}
	p.ArgsX.Length = 2

	clone := p.Clone()
	clone.ArgsX.Data[1] = 42
	require.Equal(t, float32(2), p.ArgsX.Data[1])
}

func TestDeviceConfigOmitsDefaults(t *testing.T) {
	out, err := yaml.Marshal(DefaultDeviceConfig())
	require.NoError(t, err)
	text := string(out)
	require.NotContains(t, text, "minimumTime")
	require.NotContains(t, text, "maximumTime")
	require.NotContains(t, text, "setExtraInfo")
	require.Contains(t, text, "disable: false")

	cfg := DefaultDeviceConfig()
	cfg.MinimumTime = 0.5
	cfg.SetExtraInfo = true
	out, err = yaml.Marshal(cfg)
	require.NoError(t, err)
	text = string(out)
	require.Contains(t, text, "minimumTime: 0.5")
	require.Contains(t, text, "setExtraInfo: true")
	require.NotContains(t, text, "maximumTime")
}

func TestDeviceConfigPopulatesDefaults(t *testing.T) {
	src := strings.Join([]string{
		"disable: true",
		"'DPI (normalizes sens to 1000dpi and converts input speed unit: counts/ms -> in/s)': 1600",
		"'Polling rate Hz (keep at 0 for automatic adjustment)': 1000",
		"maximumTime: 50",
		"",
	}, "\n")
	var cfg DeviceConfig
	require.NoError(t, yaml.Unmarshal([]byte(src), &cfg))
	require.Equal(t, DeviceConfig{
		Disable:     true,
		DPI:         1600,
		PollingRate: 1000,
		MinimumTime: DefaultTimeMin,
		MaximumTime: 50,
	}, cfg)
}

func TestDeviceConfigRejectsOutOfRangeIntegers(t *testing.T) {
	for _, src := range []string{
		"'DPI (normalizes sens to 1000dpi and converts input speed unit: counts/ms -> in/s)': 2147483648",
		"'Polling rate Hz (keep at 0 for automatic adjustment)': -2147483649",
	} {
		var cfg DeviceConfig
		require.Error(t, yaml.Unmarshal([]byte(src), &cfg), src)
	}
}

func TestWideStrings(t *testing.T) {
	require.Equal(t, 5, WideLen("mouse"))
	require.Equal(t, 2, WideLen("😀"), "astral runes take a surrogate pair")

	encoded, err := EncodeWide("Maus ä")
	require.NoError(t, err)
	padded := append(encoded, make([]byte, 10)...)
	decoded, err := DecodeWide(padded)
	require.NoError(t, err)
	require.Equal(t, "Maus ä", decoded)
}

func TestParseVersion(t *testing.T) {
	v, err := ParseVersion("v1.6")
	require.NoError(t, err)
	require.Equal(t, SemVer{Major: 1, Minor: 6}, v)
	require.Equal(t, "1.6.0", v.String())

	v, err = ParseVersion("1.7.2-rc.1+build.5")
	require.NoError(t, err)
	require.Equal(t, SemVer{Major: 1, Minor: 7, Patch: 2}, v)

	for _, bad := range []string{"1.x", "", "01.2.3", "70000.0.0"} {
		_, err = ParseVersion(bad)
		require.Error(t, err, bad)
	}

	require.True(t, CurrentVersion().Compatible(SemVer{Major: 1, Minor: 9}))
	require.False(t, CurrentVersion().Compatible(SemVer{Major: 2}))
}
