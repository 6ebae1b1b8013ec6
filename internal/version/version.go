// Package version reports the build version of gqlint.
package version

import (
	"fmt"
	"runtime/debug"
	"strings"
)

// Set at build time with -ldflags "-X bennypowers.dev/gqlint/internal/version.Version=..."
var (
	Version   = "dev"
	GitCommit = "unknown"
	GitTag    = "unknown"
	BuildTime = "unknown"
	GitDirty  = "" // "dirty" when built from a modified tree
)

// readBuildInfo is swapped out in tests
var readBuildInfo = debug.ReadBuildInfo

// GetVersion returns the ldflags version, then the module version from build
// info, then a tag-commit string, falling back to "dev"
func GetVersion() string {
	if Version != "dev" {
		return Version
	}

	if info, ok := readBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}

	if GitTag == "unknown" || GitCommit == "unknown" {
		return "dev"
	}

	v := GitTag
	if short := shortCommit(GitCommit); short != "" && !strings.HasSuffix(GitTag, short) {
		v += "-" + short
	}
	if GitDirty == "dirty" {
		v += "-dirty"
	}
	return v
}

// GetFullVersion adds the commit to the version when known
func GetFullVersion() string {
	if GitCommit == "unknown" {
		return GetVersion()
	}
	return fmt.Sprintf("%s (commit: %s)", GetVersion(), GitCommit)
}

// GetBuildInfo returns the version fields keyed by name, for JSON output
func GetBuildInfo() map[string]string {
	return map[string]string{
		"version":   GetVersion(),
		"gitCommit": GitCommit,
		"gitTag":    GitTag,
		"buildTime": BuildTime,
		"gitDirty":  GitDirty,
	}
}

func shortCommit(commit string) string {
	if len(commit) > 7 {
		return commit[:7]
	}
	return commit
}
