// Where: internal/infra/logging/logging_test.go
// What: Tests for logger level selection.
package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewHonoursVerbose(t *testing.T) {
	cases := []struct {
		name      string
		verbose   bool
		wantDebug bool
	}{
		{name: "quiet", verbose: false, wantDebug: false},
		{name: "verbose", verbose: true, wantDebug: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := New(&buf, tc.verbose)
			logger.Debug("planned service")
			logger.Warn("retrying")
			_ = logger.Sync()

			out := buf.String()
			if strings.Contains(out, "planned service") != tc.wantDebug {
				t.Fatalf("debug visibility mismatch: %q", out)
			}
			if !strings.Contains(out, "WARN") || !strings.Contains(out, "retrying") {
				t.Fatalf("warning missing: %q", out)
			}
		})
	}
}
