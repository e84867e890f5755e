package settings

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// AccelMode selects the acceleration curve of an axis.
type AccelMode string

const (
	// ModeClassic is a polynomial curve with an optional cap.
	ModeClassic AccelMode = "classic"
	// ModeJump switches between two sensitivities around a threshold.
	ModeJump AccelMode = "jump"
	// ModeNatural approaches a limit with an exponential decay.
	ModeNatural AccelMode = "natural"
	// ModeMotivity is a sigmoid centred on a midpoint.
	ModeMotivity AccelMode = "motivity"
	// ModePower scales input speed by a power function.
	ModePower AccelMode = "power"
	// ModeLookup interpolates a user supplied table.
	ModeLookup AccelMode = "lut"
	// ModeNoAccel leaves the input unchanged apart from sensitivity.
	ModeNoAccel AccelMode = "noaccel"
)

var accelModes = []AccelMode{ModeClassic, ModeJump, ModeNatural, ModeMotivity, ModePower, ModeLookup, ModeNoAccel}

// AccelModes lists every mode in driver code order.
func AccelModes() []AccelMode {
	return append([]AccelMode(nil), accelModes...)
}

// Code returns the numeric value the driver uses for the mode.
func (m AccelMode) Code() (int32, bool) {
	for i, mode := range accelModes {
		if mode == m {
			return int32(i), true
		}
	}
	return 0, false
}

// AccelModeFromCode maps a driver code back to its mode.
func AccelModeFromCode(code int32) (AccelMode, error) {
	if code < 0 || int(code) >= len(accelModes) {
		return "", fmt.Errorf("unknown accel mode code %d", code)
	}
	return accelModes[code], nil
}

// UnmarshalYAML accepts the symbolic mode names only.
func (m *AccelMode) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return fmt.Errorf("decode accel mode: %w", err)
	}
	mode := AccelMode(strings.TrimSpace(raw))
	if _, ok := mode.Code(); !ok {
		return fmt.Errorf("line %d: unknown accel mode %q (want %s)", value.Line, raw, JoinAccelModes())
	}
	*m = mode
	return nil
}

// JoinAccelModes renders the legal modes as "classic | jump | ...".
func JoinAccelModes() string {
	names := make([]string, len(accelModes))
	for i, mode := range accelModes {
		names[i] = string(mode)
	}
	return strings.Join(names, " | ")
}

// CapMode selects which side of a classic curve the cap applies to.
type CapMode string

const (
	CapInOut  CapMode = "in_out"
	CapInput  CapMode = "input"
	CapOutput CapMode = "output"
)

var capModes = []CapMode{CapInOut, CapInput, CapOutput}

// CapModes lists every cap mode in driver code order.
func CapModes() []CapMode {
	return append([]CapMode(nil), capModes...)
}

// Code returns the numeric value the driver uses for the cap mode.
func (c CapMode) Code() (int32, bool) {
	for i, mode := range capModes {
		if mode == c {
			return int32(i), true
		}
	}
	return 0, false
}

// CapModeFromCode maps a driver code back to its cap mode.
func CapModeFromCode(code int32) (CapMode, error) {
	if code < 0 || int(code) >= len(capModes) {
		return "", fmt.Errorf("unknown cap mode code %d", code)
	}
	return capModes[code], nil
}

// UnmarshalYAML accepts the symbolic cap mode names only.
func (c *CapMode) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return fmt.Errorf("decode cap mode: %w", err)
	}
	mode := CapMode(strings.TrimSpace(raw))
	if _, ok := mode.Code(); !ok {
		return fmt.Errorf("line %d: unknown cap mode %q (want %s)", value.Line, raw, JoinCapModes())
	}
	*c = mode
	return nil
}

// JoinCapModes renders the legal cap modes as "in_out | input | output".
func JoinCapModes() string {
	names := make([]string, len(capModes))
	for i, mode := range capModes {
		names[i] = string(mode)
	}
	return strings.Join(names, " | ")
}
