// Where: internal/infra/interaction/interaction_test.go
// What: Tests for prompts and terminal detection.
// Why: Keep non-interactive paths deterministic in tests.
package interaction

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/charmbracelet/huh"
)

func TestIsTerminalNilAndPipe(t *testing.T) {
	if IsTerminal(nil) {
		t.Fatal("IsTerminal(nil) must be false")
	}
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("create pipe: %v", err)
	}
	defer func() {
		_ = r.Close()
		_ = w.Close()
	}()
	if IsTerminal(r) {
		t.Fatal("IsTerminal(pipe) must be false")
	}
}

func TestPromptYesNoWithIO(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{input: "y\n", want: true},
		{input: "YES\n", want: true},
		{input: "n\n", want: false},
		{input: "\n", want: false},
		{input: "", want: false},
	}
	for _, tc := range cases {
		var out bytes.Buffer
		got, err := PromptYesNoWithIO(strings.NewReader(tc.input), &out, "Publish production?")
		if err != nil {
			t.Fatalf("input %q: %v", tc.input, err)
		}
		if got != tc.want {
			t.Fatalf("input %q: got %v, want %v", tc.input, got, tc.want)
		}
		if out.String() != "Publish production? [y/N]: " {
			t.Fatalf("unexpected prompt %q", out.String())
		}
	}
}

func TestHuhPrompterConfirmUsesRunner(t *testing.T) {
	orig := runConfirmPrompt
	t.Cleanup(func() { runConfirmPrompt = orig })

	var gotTitle string
	runConfirmPrompt = func(title string, value *bool) error {
		gotTitle = title
		*value = true
		return nil
	}
	ok, err := (HuhPrompter{}).Confirm("Publish production?")
	if err != nil || !ok {
		t.Fatalf("Confirm() = %v, %v", ok, err)
	}
	if gotTitle != "Publish production?" {
		t.Fatalf("title = %q", gotTitle)
	}
}

func TestHuhPrompterConfirmWrapsError(t *testing.T) {
	orig := runConfirmPrompt
	t.Cleanup(func() { runConfirmPrompt = orig })
	runConfirmPrompt = func(string, *bool) error { return errors.New("tty unavailable") }

	_, err := (HuhPrompter{}).Confirm("Publish?")
	if err == nil || err.Error() != "prompt confirm: tty unavailable" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestHuhPrompterSelectUsesRunner(t *testing.T) {
	orig := runSelectPrompt
	t.Cleanup(func() { runSelectPrompt = orig })

	var gotOptions int
	runSelectPrompt = func(_ string, options []huh.Option[string], selected *string) error {
		gotOptions = len(options)
		*selected = "staging"
		return nil
	}
	got, err := (HuhPrompter{}).Select("Environment", []string{"dev", "staging", "production"})
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if got != "staging" || gotOptions != 3 {
		t.Fatalf("Select() = %q with %d options", got, gotOptions)
	}
}

func TestHuhPrompterSelectEmptyOptionsSkipsRunner(t *testing.T) {
	orig := runSelectPrompt
	t.Cleanup(func() { runSelectPrompt = orig })
	called := false
	runSelectPrompt = func(string, []huh.Option[string], *string) error {
		called = true
		return nil
	}
	got, err := (HuhPrompter{}).Select("Environment", nil)
	if err != nil || got != "" || called {
		t.Fatalf("Select() = %q, %v, called=%v", got, err, called)
	}
}

func TestLinePrompterSelect(t *testing.T) {
	var out bytes.Buffer
	p := LinePrompter{In: strings.NewReader("dev\n"), Out: &out}
	got, err := p.Select("Environment", []string{"dev", "production"})
	if err != nil || got != "dev" {
		t.Fatalf("Select() = %q, %v", got, err)
	}
	p = LinePrompter{In: strings.NewReader("prod\n"), Out: &out}
	if _, err := p.Select("Environment", []string{"dev", "production"}); err == nil {
		t.Fatal("expected error for unknown option")
	}
}
