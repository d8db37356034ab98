// Package version carries the build identity stamped into the coppercheck
// binary via -ldflags.
package version

var (
	// Version is the release version of the copper engine.
	Version = "0.1.0"

	// BuildTime is the UTC timestamp of the build.
	BuildTime = "unknown"

	// GitCommit is the source revision the binary was built from.
	GitCommit = "unknown"
)
