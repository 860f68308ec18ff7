// Where: internal/infra/ui/console.go
// What: Console output helpers for plan summaries and command results.
// Why: Keep human-readable output consistent across commands.
package ui

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// Console writes formatted output.
type Console struct {
	Out          io.Writer
	EmojiEnabled bool
}

// New creates a console with emoji enabled.
func New(out io.Writer) *Console {
	return &Console{Out: out, EmojiEnabled: true}
}

// NewWithEmoji creates a console with explicit emoji settings.
func NewWithEmoji(out io.Writer, enabled bool) *Console {
	return &Console{Out: out, EmojiEnabled: enabled}
}

// Header prints a title line, e.g. "🧭 dev (RUNNING)".
func (c *Console) Header(emoji, title string) {
	fmt.Fprintf(c.Out, "%s%s\n", c.emojiPrefix(emoji), title)
}

// Section prints a blank line and then a header.
func (c *Console) Section(emoji, title string) {
	fmt.Fprintln(c.Out)
	c.Header(emoji, title)
}

// Item prints an indented key/value pair.
func (c *Console) Item(key string, value any) {
	fmt.Fprintf(c.Out, "   %-24s %v\n", key+":", value)
}

// Line prints an indented line.
func (c *Console) Line(msg string) {
	fmt.Fprintf(c.Out, "   %s\n", msg)
}

// Table prints rows aligned under headers.
func (c *Console) Table(headers []string, rows [][]string) {
	tw := tabwriter.NewWriter(c.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "   %s\n", strings.Join(headers, "\t"))
	for _, row := range rows {
		fmt.Fprintf(tw, "   %s\n", strings.Join(row, "\t"))
	}
	_ = tw.Flush()
}

// Success prints a success message.
func (c *Console) Success(msg string) {
	c.prefixed("✅", "[ok] ", msg)
}

// Info prints a plain message.
func (c *Console) Info(msg string) {
	fmt.Fprintln(c.Out, msg)
}

// Warn prints a warning.
func (c *Console) Warn(msg string) {
	c.prefixed("⚠️", "[warn] ", msg)
}

// Error prints an error.
func (c *Console) Error(msg string) {
	c.prefixed("❌", "[error] ", msg)
}

func (c *Console) prefixed(emoji, fallback, msg string) {
	prefix := c.emojiPrefix(emoji)
	if prefix == "" {
		prefix = fallback
	}
	fmt.Fprintf(c.Out, "%s%s\n", prefix, msg)
}

func (c *Console) emojiPrefix(emoji string) string {
	if !c.EmojiEnabled || strings.TrimSpace(emoji) == "" {
		return ""
	}
	return emoji + " "
}
