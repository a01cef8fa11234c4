package version

import (
	"strings"
	"testing"
)

func TestShort(t *testing.T) {
	origVersion, origCommit := Version, Commit
	t.Cleanup(func() { Version, Commit = origVersion, origCommit })

	Version, Commit = "1.2.0", "unknown"
	if got := Short(); got != "1.2.0" {
		t.Errorf("Short() = %q, want 1.2.0", got)
	}

	Commit = "0123456789abcdef"
	if got := Short(); got != "1.2.0+0123456" {
		t.Errorf("Short() = %q, want 1.2.0+0123456", got)
	}
	if !strings.Contains(String(), "commit: 0123456") {
		t.Errorf("String() = %q, want short commit", String())
	}
}
