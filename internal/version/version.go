// Package version holds the huepick build stamp, set with ldflags:
//
//	go build -ldflags "-X github.com/jmylchreest/huepick/internal/version.Version=1.0.0 \
//	  -X github.com/jmylchreest/huepick/internal/version.Commit=$(git rev-parse HEAD)"
package version

import (
	"fmt"
	"runtime"
)

var (
	// Version is the release version, "dev" for local builds.
	Version = "dev"

	// Commit is the git commit the binary was built from.
	Commit = ""
)

// Short returns the bare version for cobra's --version flag.
func Short() string {
	return Version
}

// String returns the line printed by `huepick version`.
func String() string {
	if Commit == "" {
		return fmt.Sprintf("huepick version %s (%s)", Version, runtime.Version())
	}
	return fmt.Sprintf("huepick version %s (commit %s, %s)", Version, shortCommit(Commit), runtime.Version())
}

func shortCommit(commit string) string {
	if len(commit) > 8 {
		return commit[:8]
	}
	return commit
}
