package external

import (
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		version     string
		expectError bool
		major       int
		minor       int
		patch       int
	}{
		{"0.1.0", false, 0, 1, 0},
		{"1.0.0", false, 1, 0, 0},
		{"10.99.42", false, 10, 99, 42},
		{"invalid", true, 0, 0, 0},
		{"1", true, 0, 0, 0},
		{"1.2", true, 0, 0, 0},
		{"1.x.0", true, 0, 0, 0},
		{"1.-2.0", true, 0, 0, 0},
	}

	for _, tt := range tests {
		v, err := Parse(tt.version)
		if tt.expectError {
			if err == nil {
				t.Errorf("Parse(%q) expected error but got none", tt.version)
			}
			continue
		}
		if err != nil {
			t.Errorf("Parse(%q) unexpected error: %v", tt.version, err)
		}
		if v.Major != tt.major || v.Minor != tt.minor || v.Patch != tt.patch {
			t.Errorf("Parse(%q) = %s, want %d.%d.%d", tt.version, v, tt.major, tt.minor, tt.patch)
		}
	}
}

func TestIsCompatible(t *testing.T) {
	tests := []struct {
		engineVersion string
		compatible    bool
		errorContains string
	}{
		{"0.1.0", true, ""},
		{"0.1.7", true, ""},
		{"0.4.2", true, ""},
		{"0.0.9", false, "too old"},
		{"1.0.0", false, "incompatible major version"},
		{"invalid", false, "failed to parse"},
	}

	for _, tt := range tests {
		compatible, err := IsCompatible(tt.engineVersion)
		if compatible != tt.compatible {
			t.Errorf("IsCompatible(%q) = %v, want %v", tt.engineVersion, compatible, tt.compatible)
		}
		if tt.errorContains == "" {
			if err != nil {
				t.Errorf("IsCompatible(%q) unexpected error: %v", tt.engineVersion, err)
			}
			continue
		}
		if err == nil || !strings.Contains(err.Error(), tt.errorContains) {
			t.Errorf("IsCompatible(%q) error = %v, want error containing %q", tt.engineVersion, err, tt.errorContains)
		}
	}
}

func TestVersionString(t *testing.T) {
	v := Version{Major: 1, Minor: 5, Patch: 3}
	if v.String() != "1.5.3" {
		t.Errorf("Version.String() = %q, want %q", v.String(), "1.5.3")
	}
}
