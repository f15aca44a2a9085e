// SPDX-License-Identifier: MPL-2.0

package bindings

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/invowk/cmdresolve/pkg/types"
)

var (
	// ErrUnsupportedFormat is returned for a bindings file with an unknown extension.
	ErrUnsupportedFormat = errors.New("unsupported bindings format")
	// ErrInvalidAssignment is returned for a malformed name=value assignment.
	ErrInvalidAssignment = errors.New("invalid variable assignment")
	// ErrUnsupportedValue is returned when a value cannot be turned into a binding.
	ErrUnsupportedValue = errors.New("unsupported binding value")
)

type (
	// Bindings maps variable names to their textual values.
	Bindings map[string]string

	// ParseError reports a malformed bindings file with its location.
	ParseError struct {
		File   string
		Line   int
		Reason string
		Err    error
	}
)

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Reason)
	}
	return fmt.Sprintf("%s: %s", e.File, e.Reason)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Names returns the bound names in sorted order.
func (b Bindings) Names() []string {
	return slices.Sorted(maps.Keys(b))
}

// Merge returns a new Bindings with later layers overriding earlier ones.
func Merge(layers ...Bindings) Bindings {
	out := make(Bindings)
	for _, layer := range layers {
		maps.Copy(out, layer)
	}
	return out
}

// ParseAssignment splits a name=value command-line assignment. The value may be
// empty; the name must be a valid variable name.
func ParseAssignment(s string) (name, value string, err error) {
	name, value, found := strings.Cut(s, "=")
	if !found {
		return "", "", fmt.Errorf("%w %q: missing '='", ErrInvalidAssignment, s)
	}
	name = strings.TrimPrefix(strings.TrimSpace(name), "$")
	if err := types.VariableName(name).Validate(); err != nil {
		return "", "", fmt.Errorf("%w %q: %w", ErrInvalidAssignment, s, err)
	}
	return name, value, nil
}

// ParseAssignments applies ParseAssignment to every element, later ones winning.
func ParseAssignments(assignments []string) (Bindings, error) {
	out := make(Bindings, len(assignments))
	for _, a := range assignments {
		name, value, err := ParseAssignment(a)
		if err != nil {
			return nil, err
		}
		out[name] = value
	}
	return out, nil
}

// LoadFile reads a bindings file, choosing the decoder by extension.
func LoadFile(path string) (Bindings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read bindings file: %w", err)
	}
	return Parse(data, path)
}

// Parse decodes bindings content; filename selects the format and labels errors.
func Parse(data []byte, filename string) (Bindings, error) {
	switch ext := types.FilesystemPath(filename).FormatExt(); ext {
	case ".toml":
		return parseTOML(data, filename)
	case ".env":
		return parseEnv(data, filename)
	case ".cue":
		return parseCUE(data, filename)
	default:
		return nil, fmt.Errorf("%w %q (use .toml, .env or .cue)", ErrUnsupportedFormat, ext)
	}
}

// flatten turns a decoded document into bindings. Nested maps contribute dotted
// names and lists of scalars are joined with single spaces.
func flatten(out Bindings, prefix string, doc map[string]any) error {
	for key, raw := range doc {
		name := key
		if prefix != "" {
			name = prefix + "." + key
		}
		if nested, ok := raw.(map[string]any); ok {
			if err := flatten(out, name, nested); err != nil {
				return err
			}
			continue
		}
		if err := types.VariableName(name).Validate(); err != nil {
			return err
		}
		value, err := stringify(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		out[name] = value
	}
	return nil
}

// stringify renders a scalar the way template conditions read it: booleans
// become the True/False tokens so "#if $flag" behaves as expected.
func stringify(v any) (string, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case bool:
		if x {
			return "True", nil
		}
		return "False", nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case int:
		return strconv.Itoa(x), nil
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), nil
	case nil:
		return "", fmt.Errorf("%w: null", ErrUnsupportedValue)
	case []any:
		parts := make([]string, 0, len(x))
		for _, elem := range x {
			if _, nested := elem.([]any); nested {
				return "", fmt.Errorf("%w: nested list", ErrUnsupportedValue)
			}
			if _, nested := elem.(map[string]any); nested {
				return "", fmt.Errorf("%w: table inside list", ErrUnsupportedValue)
			}
			s, err := stringify(elem)
			if err != nil {
				return "", err
			}
			parts = append(parts, s)
		}
		return strings.Join(parts, " "), nil
	case fmt.Stringer:
		return x.String(), nil
	default:
		return fmt.Sprint(x), nil
	}
}
