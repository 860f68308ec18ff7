// Where: internal/infra/ui/console_test.go
// What: Tests for console formatting.
package ui

import (
	"bytes"
	"strings"
	"testing"
)

func TestConsoleEmojiFallbacks(t *testing.T) {
	cases := []struct {
		name  string
		emoji bool
		write func(*Console)
		want  string
	}{
		{name: "success emoji", emoji: true, write: func(c *Console) { c.Success("published") }, want: "✅ published\n"},
		{name: "success plain", emoji: false, write: func(c *Console) { c.Success("published") }, want: "[ok] published\n"},
		{name: "warn plain", emoji: false, write: func(c *Console) { c.Warn("gated") }, want: "[warn] gated\n"},
		{name: "error plain", emoji: false, write: func(c *Console) { c.Error("boom") }, want: "[error] boom\n"},
		{name: "header plain", emoji: false, write: func(c *Console) { c.Header("🧭", "dev") }, want: "dev\n"},
		{name: "section", emoji: true, write: func(c *Console) { c.Section("🧭", "dev") }, want: "\n🧭 dev\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			tc.write(NewWithEmoji(&buf, tc.emoji))
			if buf.String() != tc.want {
				t.Fatalf("got %q, want %q", buf.String(), tc.want)
			}
		})
	}
}

func TestConsoleTableAligns(t *testing.T) {
	var buf bytes.Buffer
	New(&buf).Table([]string{"STATE", "DB"}, [][]string{{"STOPPED", "false"}, {"RUNNING", "true"}})
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %q", buf.String())
	}
	col := strings.Index(lines[0], "DB")
	if strings.Index(lines[1], "false") != col || strings.Index(lines[2], "true") != col {
		t.Fatalf("columns not aligned:\n%s", buf.String())
	}
}
