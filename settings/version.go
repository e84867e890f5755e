package settings

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/mod/semver"
)

// Version is the settings format version written by this module.
const Version = "1.6.1"

// SemVer is a parsed major.minor.patch version.
type SemVer struct {
	Major uint16
	Minor uint16
	Patch uint16
}

// ParseVersion parses a semantic version with or without the leading "v".
// Missing minor and patch parts are zero; prerelease and build suffixes are
// dropped.
func ParseVersion(s string) (SemVer, error) {
	tag := strings.TrimSpace(s)
	if !strings.HasPrefix(tag, "v") {
		tag = "v" + tag
	}
	if !semver.IsValid(tag) {
		return SemVer{}, fmt.Errorf("invalid version %q", s)
	}
	core := strings.TrimSuffix(semver.Canonical(tag), semver.Prerelease(tag))
	var nums [3]uint16
	for i, part := range strings.SplitN(core[1:], ".", 3) {
		n, err := strconv.ParseUint(part, 10, 16)
		if err != nil {
			return SemVer{}, fmt.Errorf("invalid version %q: %w", s, err)
		}
		nums[i] = uint16(n)
	}
	return SemVer{Major: nums[0], Minor: nums[1], Patch: nums[2]}, nil
}

// CurrentVersion returns Version parsed.
func CurrentVersion() SemVer {
	v, err := ParseVersion(Version)
	if err != nil {
		panic(err)
	}
	return v
}

// Compatible reports whether a record written by other can be read by a
// build of version v. Only the major version has to match.
func (v SemVer) Compatible(other SemVer) bool {
	return semver.Major(v.tag()) == semver.Major(other.tag())
}

func (v SemVer) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

func (v SemVer) tag() string { return "v" + v.String() }
