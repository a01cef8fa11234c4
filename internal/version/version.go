package version

import "fmt"

// These variables are set at build time via ldflags
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// String returns the full version string shown by --version.
func String() string {
	return fmt.Sprintf("taskboard %s (commit: %s, built: %s)", Version, shortCommit(), BuildTime)
}

// Short returns the version reported to MCP clients.
func Short() string {
	if Commit == "unknown" {
		return Version
	}
	return fmt.Sprintf("%s+%s", Version, shortCommit())
}

func shortCommit() string {
	if len(Commit) > 7 {
		return Commit[:7]
	}
	return Commit
}
