package version

import (
	"runtime/debug"
	"strings"
	"testing"
)

func withVars(t *testing.T, v, commit, date string) {
	t.Helper()
	oldV, oldC, oldD, oldRead := Version, Commit, Date, readBuildInfo
	Version, Commit, Date = v, commit, date
	readBuildInfo = func() (*debug.BuildInfo, bool) { return nil, false }
	t.Cleanup(func() {
		Version, Commit, Date, readBuildInfo = oldV, oldC, oldD, oldRead
	})
}

func TestSummary(t *testing.T) {
	withVars(t, "v1.2.0", "abcdef123456", "2026-01-01")
	if got := Summary(); got != "v1.2.0 (abcdef1)" {
		t.Errorf("Unexpected summary %q", got)
	}
}

func TestSummary_Dev(t *testing.T) {
	withVars(t, "", "none", "unknown")
	if got := Summary(); got != "dev" {
		t.Errorf("Expected dev, got %q", got)
	}
}

func TestSummary_BuildInfoFallback(t *testing.T) {
	withVars(t, "dev", "none", "unknown")
	readBuildInfo = func() (*debug.BuildInfo, bool) {
		return &debug.BuildInfo{Main: debug.Module{Version: "v0.3.1"}}, true
	}
	if got := Summary(); got != "v0.3.1" {
		t.Errorf("Expected module version, got %q", got)
	}
}

func TestDetails(t *testing.T) {
	withVars(t, "v1.0.0", "1234", "2026-02-03")
	got := Details()
	for _, want := range []string{"healthchat v1.0.0", "commit:   1234", "built:    2026-02-03", "platform: " + Platform()} {
		if !strings.Contains(got, want) {
			t.Errorf("Expected %q in details:\n%s", want, got)
		}
	}
}
