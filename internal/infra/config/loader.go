// Where: internal/infra/config/loader.go
// What: Stack configuration load/save.
// Why: Decode stack.yaml into immutable value structs, validated before planning.
package config

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/poruru-code/stackplan/internal/domain/stack"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig reports a stack file that fails decoding or validation.
var ErrInvalidConfig = errors.New("invalid stack configuration file")

//go:embed defaults/stack.yaml defaults/stack.schema.json
var defaultsFS embed.FS

var (
	validateOnce sync.Once
	structValid  *validator.Validate
)

// DefaultStack returns the raw embedded default stack document.
func DefaultStack() []byte {
	data, err := defaultsFS.ReadFile("defaults/stack.yaml")
	if err != nil {
		panic(fmt.Sprintf("embedded default stack missing: %v", err))
	}
	return data
}

// Load reads a stack file. An empty path loads the embedded default.
func Load(path string) (stack.Stack, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Parse(DefaultStack())
	}
	payload, err := os.ReadFile(path)
	if err != nil {
		return stack.Stack{}, fmt.Errorf("read stack config: %w", err)
	}
	cfg, err := Parse(payload)
	if err != nil {
		return stack.Stack{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse validates content against the schema, decodes it, and runs struct
// and cross-reference validation.
func Parse(content []byte) (stack.Stack, error) {
	if err := validateSchema(content); err != nil {
		return stack.Stack{}, err
	}

	var cfg stack.Stack
	decoder := yaml.NewDecoder(bytes.NewReader(content))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return stack.Stack{}, fmt.Errorf("%w: decode: %w", ErrInvalidConfig, err)
	}
	if err := validateStruct(cfg); err != nil {
		return stack.Stack{}, err
	}
	if err := cfg.Validate(); err != nil {
		return stack.Stack{}, err
	}
	return cfg, nil
}

// Save writes cfg to path, creating parent directories.
func Save(path string, cfg stack.Stack) error {
	payload, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("encode stack config: %w", err)
	}
	return writeFile(path, payload)
}

// WriteDefault writes the embedded default stack to path. Existing files are
// kept unless force is set.
func WriteDefault(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("stack config already exists: %s", path)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("stat stack config: %w", err)
		}
	}
	return writeFile(path, DefaultStack())
}

func writeFile(path string, payload []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create stack config dir: %w", err)
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return fmt.Errorf("write stack config: %w", err)
	}
	return nil
}

func validateStruct(cfg stack.Stack) error {
	validateOnce.Do(func() {
		structValid = validator.New()
		structValid.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("yaml"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})

	err := structValid.Struct(cfg)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	problems := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		problem := fmt.Sprintf("%s: failed %q", fe.Namespace(), fe.Tag())
		if fe.Param() != "" {
			problem = fmt.Sprintf("%s: failed %q (%s)", fe.Namespace(), fe.Tag(), fe.Param())
		}
		problems = append(problems, problem)
	}
	sort.Strings(problems)
	return fmt.Errorf("%w:\n  - %s", ErrInvalidConfig, strings.Join(problems, "\n  - "))
}
