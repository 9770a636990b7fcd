package buildinfo

var (
	// Version is the release number for this build
	Version = "dev"

	// Commit is the specific git hash
	Commit = "UNKNOWN"

	// BuildDate is the build timestamp
	BuildDate = "UNKNOWN"
)
