// Package version holds build metadata, overridable via -ldflags.
package version

var (
	// Version is the semantic release version.
	Version = "0.1.0"
	// Commit is the git revision the binary was built from.
	Commit = ""
	// BuildDate is the build timestamp.
	BuildDate = ""
)
