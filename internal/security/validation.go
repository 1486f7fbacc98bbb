// Package security provides validation for untrusted engine executables and
// their output.
package security

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// ValidateEnginePath checks that an engine path names an executable regular
// file.
func ValidateEnginePath(enginePath string) error {
	if enginePath == "" {
		return fmt.Errorf("empty engine path")
	}

	absPath, err := filepath.Abs(filepath.Clean(enginePath))
	if err != nil {
		return fmt.Errorf("invalid engine path: %w", err)
	}

	// Stat follows symlinks, so a link to an executable is accepted.
	info, err := os.Stat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("engine not found: %s", enginePath)
		}
		return fmt.Errorf("failed to access engine: %w", err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("engine is not a regular file: %s", enginePath)
	}
	if runtime.GOOS != "windows" && info.Mode().Perm()&0o111 == 0 {
		return fmt.Errorf("engine is not executable: %s", enginePath)
	}

	return nil
}

// SafeUint8 safely converts an integer to uint8 with bounds checking.
// Values outside 0-255 are clamped to the valid range.
func SafeUint8(val int) uint8 {
	if val < 0 {
		return 0
	}
	if val > 255 {
		return 255
	}
	return uint8(val)
}

// SafeUint8FromUint32 safely converts uint32 to uint8 with bounds checking.
func SafeUint8FromUint32(val uint32) uint8 {
	if val > 255 {
		return 255
	}
	return uint8(val)
}

// LimitedBuffer is an io.Writer that keeps at most Max bytes and silently
// discards the rest, so a chatty process cannot exhaust memory.
type LimitedBuffer struct {
	buf       bytes.Buffer
	Max       int
	truncated bool
}

// NewLimitedBuffer creates a LimitedBuffer keeping up to maxBytes.
func NewLimitedBuffer(maxBytes int) *LimitedBuffer {
	return &LimitedBuffer{Max: maxBytes}
}

// Write implements io.Writer. It always reports len(p) bytes written.
func (l *LimitedBuffer) Write(p []byte) (int, error) {
	if room := l.Max - l.buf.Len(); room < len(p) {
		l.truncated = true
		if room > 0 {
			l.buf.Write(p[:room])
		}
		return len(p), nil
	}
	l.buf.Write(p)
	return len(p), nil
}

// String returns the kept bytes, marked when output was dropped.
func (l *LimitedBuffer) String() string {
	if l.truncated {
		return l.buf.String() + " [truncated]"
	}
	return l.buf.String()
}
