package settings

import "time"

// Capacity limits shared with the driver. Every fixed-size field of the
// binary record is derived from these values.
const (
	// MaxNameLen is the capacity of profile and device names in UTF-16 code
	// units, including the terminating NUL.
	MaxNameLen = 256
	// MaxDevIDLen is the capacity of hardware ids in UTF-16 code units,
	// including the terminating NUL.
	MaxDevIDLen = 200
	// MaxProfiles is the number of profile slots in the driver record.
	MaxProfiles = 32
	// MaxDevices is the number of device slots in the driver record.
	MaxDevices = 128
	// MaxLutPoints is the number of (x, y) points a lookup table can hold.
	MaxLutPoints = 257
	// LutDataCapacity is the number of raw lookup-table samples per axis.
	LutDataCapacity = MaxLutPoints * 2
)

// Time clamp defaults in milliseconds.
const (
	DefaultTimeMin = 0.1
	DefaultTimeMax = 200.0
)

// WriteDelay is how long the driver needs to pick up a freshly written record.
const WriteDelay = 10 * time.Millisecond
