// Where: internal/version/version.go
// What: Version information from the embedded build info.
// Why: Let operators tie a published plan to the planner build that produced it.
package version

import (
	"runtime/debug"
	"strings"
)

var readBuildInfo = debug.ReadBuildInfo

// GetVersion returns "<module version> (<revision>[, dirty])", or "dev"
// when no build information is embedded.
func GetVersion() string {
	info, ok := readBuildInfo()
	if !ok || info == nil {
		return "dev"
	}
	return describe(info)
}

func describe(info *debug.BuildInfo) string {
	version := strings.TrimSpace(info.Main.Version)
	if version == "" || version == "(devel)" {
		version = "dev"
	}

	var revision string
	var modified bool
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
			if len(revision) > 7 {
				revision = revision[:7]
			}
		case "vcs.modified":
			modified = setting.Value == "true"
		}
	}

	if revision == "" {
		return version
	}
	details := revision
	if modified {
		details += ", dirty"
	}
	return version + " (" + details + ")"
}
