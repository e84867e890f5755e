// Package config holds the driver settings document: the profiles, device
// bindings and default device config that are validated, written to the
// driver and round-tripped through the settings text.
package config

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/timzifer/accelconf/accel"
	"github.com/timzifer/accelconf/driver"
	"github.com/timzifer/accelconf/layout"
	"github.com/timzifer/accelconf/report"
	"github.com/timzifer/accelconf/settings"
	"github.com/timzifer/accelconf/validate"
)

// Document is a validated set of driver settings. It owns copies of
// everything it was built from and is never modified after construction.
type Document struct {
	version       string
	defaultDevice settings.DeviceConfig
	profiles      []settings.Profile
	devices       []settings.DeviceSettings
	accels        []*accel.Instance

	evaluator accel.Evaluator
	validator *validate.Validator
}

// Option customises document construction.
type Option func(*Document)

// WithEvaluator sets the curve evaluator used by the accelerator instances.
func WithEvaluator(eval accel.Evaluator) Option {
	return func(d *Document) {
		d.evaluator = eval
	}
}

// WithValidator replaces the built-in rule set.
func WithValidator(v *validate.Validator) Option {
	return func(d *Document) {
		if v != nil {
			d.validator = v
		}
	}
}

func newDocument(opts []Option) (*Document, error) {
	d := &Document{version: settings.Version}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	if d.validator == nil {
		v, err := validate.New()
		if err != nil {
			return nil, err
		}
		d.validator = v
	}
	return d, nil
}

// New validates the given settings and builds a document from them. Any
// capacity or rule violation is returned as *ValidationError. An empty
// profile list is replaced by the built-in default profile.
func New(version string, def settings.DeviceConfig, profiles []settings.Profile, devices []settings.DeviceSettings, opts ...Option) (*Document, error) {
	d, err := newDocument(opts)
	if err != nil {
		return nil, err
	}
	if version != "" {
		d.version = version
	}
	d.defaultDevice = def
	d.profiles = cloneProfiles(profiles)
	d.devices = cloneDevices(devices)

	if msg := d.Errors(); msg != "" {
		return nil, &ValidationError{Report: msg}
	}
	if len(d.profiles) == 0 {
		d.profiles = []settings.Profile{settings.DefaultProfile()}
	}
	d.accels = make([]*accel.Instance, len(d.profiles))
	for i, prof := range d.profiles {
		d.accels[i] = accel.New(prof, d.evaluator)
	}
	return d, nil
}

// LoadDefault returns a document with the built-in profile and default
// device config and no device bindings.
func LoadDefault(opts ...Option) (*Document, error) {
	d, err := newDocument(opts)
	if err != nil {
		return nil, err
	}
	prof := settings.DefaultProfile()
	d.defaultDevice = settings.DefaultDeviceConfig()
	d.profiles = []settings.Profile{prof}
	d.accels = []*accel.Instance{accel.New(prof, d.evaluator)}
	return d, nil
}

// LoadActive reads the record currently held by the driver and rebuilds
// the document from it in record order.
func LoadActive(t driver.Transport, opts ...Option) (*Document, error) {
	rec, err := t.Read()
	if err != nil {
		return nil, err
	}
	return fromRecord(rec, opts)
}

func fromRecord(rec *layout.Record, opts []Option) (*Document, error) {
	d, err := newDocument(opts)
	if err != nil {
		return nil, err
	}
	drivers, err := rec.Drivers()
	if err != nil {
		return nil, fmt.Errorf("decode driver record: %w", err)
	}
	devices, err := rec.Bindings()
	if err != nil {
		return nil, fmt.Errorf("decode driver record: %w", err)
	}
	d.defaultDevice = rec.DefaultDevice()
	d.profiles = make([]settings.Profile, len(drivers))
	d.accels = make([]*accel.Instance, len(drivers))
	for i, ds := range drivers {
		d.profiles[i] = ds.Profile.Clone()
		d.accels[i] = accel.FromDriverSettings(ds, d.evaluator)
	}
	d.devices = cloneDevices(devices)
	return d, nil
}

// Errors validates the document and returns the rendered report, or the
// empty string when everything passed. Count overflows are listed first.
// The default device config is checked as a binding with id "Default".
func (d *Document) Errors() string {
	var buf bytes.Buffer
	if len(d.profiles) > settings.MaxProfiles {
		fmt.Fprintf(&buf, "Number of profiles (%d) exceeds max (%d)\n", len(d.profiles), settings.MaxProfiles)
	}
	if len(d.devices) > settings.MaxDevices {
		fmt.Fprintf(&buf, "Number of devices (%d) exceeds max (%d)\n", len(d.devices), settings.MaxDevices)
	}

	profErrs := report.Profiles(d.validator, d.profiles)
	if !profErrs.Empty() {
		buf.WriteString(profErrs.String())
	}

	def := settings.DefaultDeviceSettings()
	def.ID = settings.DefaultDeviceID
	def.Config = d.defaultDevice
	devices := append(d.devices[:len(d.devices):len(d.devices)], def)
	devErrs := report.Devices(d.validator, devices)
	if !devErrs.Empty() {
		buf.WriteString(devErrs.String())
	}
	return buf.String()
}

// Version returns the format version the document was written with.
func (d *Document) Version() string { return d.version }

// DefaultDeviceConfig returns the config applied to unbound devices.
func (d *Document) DefaultDeviceConfig() settings.DeviceConfig { return d.defaultDevice }

// Profiles returns a copy of the profiles.
func (d *Document) Profiles() []settings.Profile { return cloneProfiles(d.profiles) }

// Devices returns a copy of the device bindings.
func (d *Document) Devices() []settings.DeviceSettings { return cloneDevices(d.devices) }

// Accelerators returns the accelerator instances, index aligned with Profiles.
func (d *Document) Accelerators() []*accel.Instance {
	return append([]*accel.Instance(nil), d.accels...)
}

// ToLayout projects the document into the driver record. Profiles are taken
// from their accelerator instances, which carry the normalized state.
func (d *Document) ToLayout() (*layout.Record, error) {
	drivers := make([]accel.DriverSettings, len(d.accels))
	for i, inst := range d.accels {
		drivers[i] = inst.Settings()
	}
	return layout.Build(d.defaultDevice, drivers, d.devices)
}

// Activate writes the document to the driver.
func (d *Document) Activate(t driver.Transport) error {
	rec, err := d.ToLayout()
	if err != nil {
		return err
	}
	return t.Write(rec)
}

// documentText is the settings text form of a document.
type documentText struct {
	Version             string                    `yaml:"version"`
	DefaultDeviceConfig settings.DeviceConfig     `yaml:"defaultDeviceConfig"`
	Profiles            []settings.Profile        `yaml:"profiles"`
	Devices             []settings.DeviceSettings `yaml:"devices"`
}

// FromText parses and validates a settings text. Text that cannot be read
// yields *ParseError; readable text that breaks a rule yields
// *ValidationError with the full report.
func FromText(text string, opts ...Option) (*Document, error) {
	if err := checkStructure([]byte(text)); err != nil {
		return nil, &ParseError{Err: err}
	}
	var raw documentText
	if err := yaml.Unmarshal([]byte(text), &raw); err != nil {
		return nil, &ParseError{Err: err}
	}
	return New(raw.Version, raw.DefaultDeviceConfig, raw.Profiles, raw.Devices, opts...)
}

// ToText renders the document as settings text. Lookup tables are written
// with their populated samples only and omitted in other modes. The legal
// enum values are listed at the top as documentation.
func (d *Document) ToText() (string, error) {
	view := documentText{
		Version:             d.version,
		DefaultDeviceConfig: d.defaultDevice,
		Profiles:            make([]settings.Profile, len(d.profiles)),
		Devices:             d.Devices(),
	}
	for i, prof := range d.profiles {
		view.Profiles[i] = prof.TextView()
	}
	if view.Devices == nil {
		view.Devices = []settings.DeviceSettings{}
	}

	var root yaml.Node
	if err := root.Encode(&view); err != nil {
		return "", fmt.Errorf("encode settings: %w", err)
	}
	root.Content = append([]*yaml.Node{
		strNode(AccelModesKey), strNode(settings.JoinAccelModes()),
		strNode(CapModesKey), strNode(settings.JoinCapModes()),
	}, root.Content...)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&root); err != nil {
		return "", fmt.Errorf("encode settings: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("encode settings: %w", err)
	}
	return buf.String(), nil
}

func strNode(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

func cloneProfiles(in []settings.Profile) []settings.Profile {
	if len(in) == 0 {
		return nil
	}
	out := make([]settings.Profile, len(in))
	for i, p := range in {
		out[i] = p.Clone()
	}
	return out
}

func cloneDevices(in []settings.DeviceSettings) []settings.DeviceSettings {
	if len(in) == 0 {
		return nil
	}
	return append([]settings.DeviceSettings(nil), in...)
}
