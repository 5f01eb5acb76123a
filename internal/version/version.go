// Package version reports the server's build version.
package version

import (
	"fmt"
	"runtime/debug"
)

// Set through -ldflags "-X bennypowers.dev/lupls/internal/version.Version=v0.1.0".
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

// readBuildInfo is swapped in tests.
var readBuildInfo = debug.ReadBuildInfo

// GetVersion prefers the ldflags value, then the module version recorded by
// `go install`, then "dev".
func GetVersion() string {
	if Version != "dev" {
		return Version
	}
	if info, ok := readBuildInfo(); ok {
		if v := info.Main.Version; v != "" && v != "(devel)" {
			return v
		}
	}
	return "dev"
}

// GetFullVersion appends the short commit when known.
func GetFullVersion() string {
	v := GetVersion()
	commit := GitCommit
	if commit == "unknown" {
		commit = vcsRevision()
	}
	if commit == "" || commit == "unknown" {
		return v
	}
	if len(commit) > 7 {
		commit = commit[:7]
	}
	return fmt.Sprintf("%s (%s)", v, commit)
}

// GetBuildInfo is printed by `lupos-language-server version --verbose`.
func GetBuildInfo() map[string]string {
	info := map[string]string{
		"version":   GetVersion(),
		"commit":    GitCommit,
		"buildTime": BuildTime,
	}
	if bi, ok := readBuildInfo(); ok {
		info["go"] = bi.GoVersion
	}
	return info
}

func vcsRevision() string {
	bi, ok := readBuildInfo()
	if !ok {
		return ""
	}
	for _, s := range bi.Settings {
		if s.Key == "vcs.revision" {
			return s.Value
		}
	}
	return ""
}
