package version

import (
	"fmt"
	"runtime"
)

// Build-time variables injected via -ldflags
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// String returns the full version string
func String() string {
	return fmt.Sprintf("deepself %s\ncommit: %s\nbuilt: %s\ngo: %s\nplatform: %s/%s",
		Version, GitCommit, BuildDate, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// Short returns just the version number
func Short() string {
	return Version
}

// UserAgent returns the User-Agent sent with every API request
func UserAgent() string {
	return fmt.Sprintf("deepself-cli/%s (%s/%s)", Version, runtime.GOOS, runtime.GOARCH)
}
