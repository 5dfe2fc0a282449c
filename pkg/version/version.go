package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

// These variables are set via ldflags during build.
var (
	Version   = "dev"
	Commit    = "none"
	Date      = "unknown"
	GoVersion = runtime.Version()
)

var readBuildInfo = debug.ReadBuildInfo

func Platform() string {
	return runtime.GOOS + "/" + runtime.GOARCH
}

// Summary is the short form shown in the TUI footer: "v1.2.0 (abc1234)".
func Summary() string {
	v := current()
	if c := shortCommit(); c != "" {
		return fmt.Sprintf("%s (%s)", v, c)
	}
	return v
}

// Details is the multi-line form printed by the version command.
func Details() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "healthchat %s\n", current())
	if c := shortCommit(); c != "" {
		fmt.Fprintf(&sb, "  commit:   %s\n", c)
	}
	if Date != "" && Date != "unknown" {
		fmt.Fprintf(&sb, "  built:    %s\n", Date)
	}
	fmt.Fprintf(&sb, "  go:       %s\n", GoVersion)
	fmt.Fprintf(&sb, "  platform: %s\n", Platform())
	return sb.String()
}

// current falls back to the module version when no ldflags were given,
// which covers `go install healthchat/cmd/healthchat@vX`.
func current() string {
	if Version != "" && Version != "dev" {
		return Version
	}
	if info, ok := readBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "dev"
}

func shortCommit() string {
	if Commit == "" || Commit == "none" {
		return ""
	}
	if len(Commit) > 7 {
		return Commit[:7]
	}
	return Commit
}
