// Package version reports the binary's version from build metadata.
package version

import (
	"runtime/debug"
)

// Version can be overridden at build time with
// -ldflags "-X github.com/alex-buyanov/duplicate-finder/version.Version=v1.2.3".
var Version = "dev"

// Get returns the version string, preferring the compile-time value, then
// module build info, then the VCS revision.
func Get() string {
	if Version != "dev" && Version != "" {
		return Version
	}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "dev"
	}
	if v := info.Main.Version; v != "" && v != "(devel)" {
		return v
	}
	for _, setting := range info.Settings {
		if setting.Key == "vcs.revision" && len(setting.Value) >= 7 {
			return "dev-" + setting.Value[:7]
		}
	}
	return "dev"
}
