package external

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jmylchreest/huepick/pkg/plugin"
)

// MinCompatibleVersion is the oldest engine protocol version huepick accepts.
const MinCompatibleVersion = "0.1.0"

// Version represents a parsed protocol version.
type Version struct {
	Major int
	Minor int
	Patch int
}

// Parse parses a version string in "MAJOR.MINOR.PATCH" format.
func Parse(version string) (Version, error) {
	parts := strings.Split(version, ".")
	if len(parts) != 3 {
		return Version{}, fmt.Errorf("invalid version format: %s (expected MAJOR.MINOR.PATCH)", version)
	}

	var nums [3]int
	for i, name := range []string{"major", "minor", "patch"} {
		n, err := strconv.Atoi(parts[i])
		if err != nil || n < 0 {
			return Version{}, fmt.Errorf("invalid %s version: %s", name, parts[i])
		}
		nums[i] = n
	}

	return Version{Major: nums[0], Minor: nums[1], Patch: nums[2]}, nil
}

// String returns the string representation of the version.
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// less reports whether v is older than other.
func (v Version) less(other Version) bool {
	if v.Major != other.Major {
		return v.Major < other.Major
	}
	if v.Minor != other.Minor {
		return v.Minor < other.Minor
	}
	return v.Patch < other.Patch
}

// IsCompatible checks an engine's protocol version against this build.
// The major version must match and the version must not be older than
// MinCompatibleVersion. Newer minor and patch versions are accepted.
func IsCompatible(engineVersion string) (bool, error) {
	v, err := Parse(engineVersion)
	if err != nil {
		return false, fmt.Errorf("failed to parse engine version: %w", err)
	}

	current := currentVersion()
	if v.Major != current.Major {
		return false, fmt.Errorf(
			"incompatible major version: engine is %s, huepick requires %d.x.x",
			v, current.Major,
		)
	}

	minVersion, err := Parse(MinCompatibleVersion)
	if err != nil {
		return false, fmt.Errorf("failed to parse minimum compatible version: %w", err)
	}
	if v.less(minVersion) {
		return false, fmt.Errorf("engine version %s is too old, minimum required is %s", v, MinCompatibleVersion)
	}

	return true, nil
}

func currentVersion() Version {
	v, err := Parse(plugin.ProtocolVersion)
	if err != nil {
		panic(fmt.Sprintf("invalid ProtocolVersion constant: %v", err))
	}
	return v
}
