// Package report aggregates validation results over collections of
// profiles and device bindings into printable reports.
package report

import (
	"fmt"
	"strings"

	"github.com/timzifer/accelconf/settings"
	"github.com/timzifer/accelconf/validate"
)

// ProfileEntry is a profile that produced at least one message.
type ProfileEntry struct {
	Profile  settings.Profile
	Messages []validate.Message
	LastX    int
	LastY    int
}

// ProfileErrors is the report over a list of profiles.
type ProfileErrors struct {
	single  bool
	Entries []ProfileEntry
}

// Profiles validates every profile in order and keeps the failing ones.
func Profiles(v *validate.Validator, profiles []settings.Profile) *ProfileErrors {
	report := &ProfileErrors{single: len(profiles) == 1}
	for _, prof := range profiles {
		res := v.Profile(prof)
		if res.Empty() {
			continue
		}
		lastX, lastY := res.Cuts()
		report.Entries = append(report.Entries, ProfileEntry{
			Profile:  prof,
			Messages: res.Messages,
			LastX:    lastX,
			LastY:    lastY,
		})
	}
	return report
}

// Empty reports whether every profile passed.
func (r *ProfileErrors) Empty() bool {
	return r == nil || len(r.Entries) == 0
}

// String renders the report. The profile label is left out when only one
// profile was checked.
func (r *ProfileErrors) String() string {
	if r.Empty() {
		return ""
	}
	var sb strings.Builder
	for _, entry := range r.Entries {
		if !r.single {
			fmt.Fprintf(&sb, "profile: %s\n", entry.Profile.Name)
		}
		for _, msg := range entry.Messages {
			switch {
			case msg.Scope == validate.ScopeX && !entry.Profile.CombineMagnitudes:
				fmt.Fprintf(&sb, "\tx: %s\n", msg.Text)
			case msg.Scope == validate.ScopeY:
				fmt.Fprintf(&sb, "\ty: %s\n", msg.Text)
			default:
				fmt.Fprintf(&sb, "\t%s\n", msg.Text)
			}
		}
	}
	return sb.String()
}

// DeviceEntry is a device binding that produced at least one message.
type DeviceEntry struct {
	Device   settings.DeviceSettings
	Messages []validate.Message
}

// DeviceErrors is the report over a list of device bindings.
type DeviceErrors struct {
	single  bool
	Entries []DeviceEntry
}

// Devices validates every binding in order and keeps the failing ones.
func Devices(v *validate.Validator, devices []settings.DeviceSettings) *DeviceErrors {
	report := &DeviceErrors{single: len(devices) == 1}
	for _, dev := range devices {
		res := v.Device(dev)
		if res.Empty() {
			continue
		}
		report.Entries = append(report.Entries, DeviceEntry{Device: dev, Messages: res.Messages})
	}
	return report
}

// Empty reports whether every binding passed.
func (r *DeviceErrors) Empty() bool {
	return r == nil || len(r.Entries) == 0
}

// String renders the report. The device label is left out when only one
// binding was checked.
func (r *DeviceErrors) String() string {
	if r.Empty() {
		return ""
	}
	var sb strings.Builder
	for _, entry := range r.Entries {
		if !r.single {
			fmt.Fprintf(&sb, "device: %s\n", entry.Device.ID)
			if strings.TrimSpace(entry.Device.Name) != "" {
				fmt.Fprintf(&sb, "  name: %s\n", entry.Device.Name)
			}
		}
		// Device messages share the axis prefix of the profile renderer.
		for _, msg := range entry.Messages {
			fmt.Fprintf(&sb, "\tx: %s\n", msg.Text)
		}
	}
	return sb.String()
}
