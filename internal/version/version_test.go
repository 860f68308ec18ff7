// Where: internal/version/version_test.go
// What: Tests for build info formatting.
package version

import (
	"runtime/debug"
	"testing"
)

func TestDescribe(t *testing.T) {
	cases := []struct {
		name string
		info debug.BuildInfo
		want string
	}{
		{name: "devel without vcs", info: debug.BuildInfo{Main: debug.Module{Version: "(devel)"}}, want: "dev"},
		{
			name: "tagged clean",
			info: debug.BuildInfo{
				Main:     debug.Module{Version: "v0.3.0"},
				Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "0123456789abcdef"}, {Key: "vcs.modified", Value: "false"}},
			},
			want: "v0.3.0 (0123456)",
		},
		{
			name: "dirty tree",
			info: debug.BuildInfo{
				Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "abc"}, {Key: "vcs.modified", Value: "true"}},
			},
			want: "dev (abc, dirty)",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := describe(&tc.info); got != tc.want {
				t.Fatalf("describe()=%q, want %q", got, tc.want)
			}
		})
	}
}

func TestGetVersionWithoutBuildInfo(t *testing.T) {
	orig := readBuildInfo
	t.Cleanup(func() { readBuildInfo = orig })
	readBuildInfo = func() (*debug.BuildInfo, bool) { return nil, false }
	if got := GetVersion(); got != "dev" {
		t.Fatalf("GetVersion()=%q", got)
	}
}
