// Where: internal/infra/interaction/interaction.go
// What: Interactive primitives for confirmations, selections, and TTY detection.
// Why: Keep prompting out of command handlers so they stay testable.
package interaction

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
)

// ErrNotInteractive reports a prompt requested without a terminal.
var ErrNotInteractive = errors.New("interactive terminal required")

// Prompter asks the operator for decisions.
type Prompter interface {
	Confirm(title string) (bool, error)
	Select(title string, options []string) (string, error)
}

// IsTerminal reports whether the file refers to a terminal device.
var IsTerminal = func(file *os.File) bool {
	if file == nil {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

var runConfirmPrompt = func(title string, value *bool) error {
	return huh.NewConfirm().
		Title(title).
		Affirmative("Yes").
		Negative("No").
		Value(value).
		Run()
}

var runSelectPrompt = func(title string, options []huh.Option[string], selected *string) error {
	return huh.NewSelect[string]().
		Title(title).
		Options(options...).
		Value(selected).
		Run()
}

// HuhPrompter implements Prompter with the huh TUI library.
type HuhPrompter struct{}

func (HuhPrompter) Confirm(title string) (bool, error) {
	var ok bool
	if err := runConfirmPrompt(title, &ok); err != nil {
		return false, fmt.Errorf("prompt confirm: %w", err)
	}
	return ok, nil
}

func (HuhPrompter) Select(title string, options []string) (string, error) {
	if len(options) == 0 {
		return "", nil
	}
	huhOptions := make([]huh.Option[string], len(options))
	for i, opt := range options {
		huhOptions[i] = huh.NewOption(opt, opt)
	}
	var selected string
	if err := runSelectPrompt(title, huhOptions, &selected); err != nil {
		return "", fmt.Errorf("prompt select: %w", err)
	}
	return selected, nil
}

// LinePrompter reads answers line by line, for terminals where the TUI is unavailable.
type LinePrompter struct {
	In  io.Reader
	Out io.Writer
}

func (p LinePrompter) Confirm(title string) (bool, error) {
	return PromptYesNoWithIO(p.In, p.Out, title)
}

func (p LinePrompter) Select(title string, options []string) (string, error) {
	if len(options) == 0 {
		return "", nil
	}
	_, _ = fmt.Fprintf(p.out(), "%s [%s]: ", title, strings.Join(options, "/"))
	line, err := bufio.NewReader(p.in()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read selection: %w", err)
	}
	answer := strings.TrimSpace(line)
	for _, opt := range options {
		if opt == answer {
			return opt, nil
		}
	}
	return "", fmt.Errorf("prompt select: %q is not one of %v", answer, options)
}

func (p LinePrompter) in() io.Reader {
	if p.In == nil {
		return os.Stdin
	}
	return p.In
}

func (p LinePrompter) out() io.Writer {
	if p.Out == nil {
		return os.Stderr
	}
	return p.Out
}

// PromptYesNoWithIO prints a confirmation prompt to out and reads the answer from in.
func PromptYesNoWithIO(in io.Reader, out io.Writer, message string) (bool, error) {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stderr
	}
	reader := bufio.NewReader(in)
	_, _ = fmt.Fprintf(out, "%s [y/N]: ", message)
	line, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("read confirmation: %w", err)
	}
	trimmed := strings.TrimSpace(strings.ToLower(line))
	return trimmed == "y" || trimmed == "yes", nil
}
