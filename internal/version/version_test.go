package version

import (
	"strings"
	"testing"
)

func TestVersion(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}
	if BuildTime == "" || GitCommit == "" {
		t.Error("build info should be initialized")
	}
}

func TestString(t *testing.T) {
	s := String()
	if !strings.HasPrefix(s, Version) {
		t.Errorf("String() = %q, expected prefix %q", s, Version)
	}
	if !strings.Contains(s, "commit "+GitCommit) {
		t.Errorf("String() = %q, expected commit info", s)
	}
}
