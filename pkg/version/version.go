// Package version provides version information for paperpack.
// These variables are set via ldflags during the build process.
package version

// Version is the current version of the binary.
// Set via -ldflags "-X github.com/paperpack/paperpack/pkg/version.Version=..."
var Version = "dev"

// BuildDate is the date when the binary was built.
// Set via -ldflags "-X github.com/paperpack/paperpack/pkg/version.BuildDate=..."
var BuildDate = "unknown"

// GitCommit is the git commit hash used to build the binary.
// Set via -ldflags "-X github.com/paperpack/paperpack/pkg/version.GitCommit=..."
var GitCommit = "unknown"

// String returns a formatted version string.
func String() string {
	return Version
}

// FullString returns a detailed version string including build info.
func FullString() string {
	if Version == "dev" {
		return "paperpack development version"
	}
	return "paperpack " + Version
}

// Info returns all version information as a map.
func Info() map[string]string {
	return map[string]string{
		"version":   Version,
		"buildDate": BuildDate,
		"gitCommit": GitCommit,
	}
}
