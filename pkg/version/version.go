// Package version contains version information for restql-assist.
package version

var (
	// Version is the current version of restql-assist.
	Version = "dev"
	// BuildTime is the time when the binary was built.
	BuildTime = "unknown"
	// GitCommit is the git commit hash of the build.
	GitCommit = "unknown"
)

// String formats the build information on one line
func String() string {
	return Version + " (commit " + GitCommit + ", built " + BuildTime + ")"
}
