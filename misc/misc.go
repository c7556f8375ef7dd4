// Package misc keeps program identification set at build time.
package misc

import "runtime/debug"

// Set with -ldflags "-X cssc/misc.version=... -X cssc/misc.gitHash=...".
var (
	version = "dev"
	gitHash = ""
)

const appName = "cssc"

// GetAppName returns program name.
func GetAppName() string { return appName }

// GetVersion returns program version.
func GetVersion() string { return version }

// GetGitHash returns short commit hash program was built from, taken from
// build information when not set explicitly.
func GetGitHash() string {
	if gitHash != "" {
		return gitHash
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" {
				return s.Value[:min(len(s.Value), 8)]
			}
		}
	}
	return "unknown"
}

// GetFullVersion returns version with commit hash, e.g. "1.2.0 (0a1b2c3d)".
func GetFullVersion() string {
	return GetVersion() + " (" + GetGitHash() + ")"
}
