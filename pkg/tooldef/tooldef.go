// SPDX-License-Identifier: MPL-2.0

package tooldef

import (
	_ "embed"
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/invowk/cmdresolve/pkg/cmdtemplate"
	"github.com/invowk/cmdresolve/pkg/cueutil"
	"github.com/invowk/cmdresolve/pkg/types"
)

//go:embed tool_schema.cue
var toolSchemaSrc []byte

var toolSchema = cueutil.MustCompileSchema(toolSchemaSrc, "#Tool")

var (
	// ErrInvalidTool is the sentinel wrapped by InvalidToolError.
	ErrInvalidTool = errors.New("invalid tool description")
	// ErrMissingRequired is the sentinel wrapped by MissingRequiredError.
	ErrMissingRequired = errors.New("required variables not supplied")
)

type (
	// Tool is a decoded tool description.
	Tool struct {
		Name        string                `json:"name"`
		Description types.DescriptionText `json:"description,omitempty"`
		Command     string                `json:"command"`
		Defaults    map[string]string     `json:"defaults,omitempty"`
		Variables   []Variable            `json:"variables,omitempty"`

		// File is the path the tool was loaded from, for messages.
		File string `json:"-"`
	}

	// Variable documents one template variable.
	Variable struct {
		Name        string                `json:"name"`
		Description types.DescriptionText `json:"description,omitempty"`
		Required    bool                  `json:"required,omitempty"`
	}

	// InvalidToolError collects semantic problems that the schema cannot express.
	InvalidToolError struct {
		Problems []*cueutil.ValidationError
	}

	// MissingRequiredError lists required variables absent from the bindings.
	MissingRequiredError struct {
		Tool  string
		Names []string
	}
)

func (e *InvalidToolError) Error() string {
	msgs := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		msgs[i] = p.Error()
	}
	return strings.Join(msgs, "; ")
}

func (e *InvalidToolError) Unwrap() error { return ErrInvalidTool }

func (e *MissingRequiredError) Error() string {
	return fmt.Sprintf("tool %s: required variables not supplied: %s", e.Tool, strings.Join(e.Names, ", "))
}

func (e *MissingRequiredError) Unwrap() error { return ErrMissingRequired }

// Load reads and validates a tool description file.
func Load(path string) (*Tool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tool file: %w", err)
	}
	return Parse(data, path)
}

// Parse decodes and validates tool description content.
func Parse(data []byte, filename string) (*Tool, error) {
	tool, err := cueutil.Decode[Tool](toolSchema, data, cueutil.WithFilename(filename))
	if err != nil {
		return nil, err
	}

	tool.File = filename
	if err := tool.Validate(); err != nil {
		return nil, err
	}
	return tool, nil
}

// Validate checks that variables are declared once, that required variables
// carry no default, and that every default and declared variable is referenced
// by the command.
func (t *Tool) Validate() error {
	script, err := t.Script()
	if err != nil {
		return err
	}

	var problems []*cueutil.ValidationError
	report := func(path, msg, suggestion string) {
		problems = append(problems, &cueutil.ValidationError{
			FilePath:   t.File,
			CUEPath:    cueutil.CUEPath(path),
			Message:    msg,
			Suggestion: suggestion,
		})
	}

	if err := t.Description.Validate(); err != nil {
		report("description", err.Error(), "remove the field or write a description")
	}

	referenced := make(map[string]bool)
	for _, name := range script.Variables() {
		referenced[name] = true
	}

	seen := make(map[string]int)
	for i, v := range t.Variables {
		path := fmt.Sprintf("variables[%d].name", i)
		if first, dup := seen[v.Name]; dup {
			report(path, fmt.Sprintf("variable %q already declared at variables[%d]", v.Name, first), "remove the duplicate entry")
			continue
		}
		seen[v.Name] = i
		if err := v.Description.Validate(); err != nil {
			report(fmt.Sprintf("variables[%d].description", i), err.Error(), "remove the field or write a description")
		}
		if !referenced[v.Name] {
			report(path, fmt.Sprintf("variable %q is not referenced by the command", v.Name), "reference $"+v.Name+" or remove the entry")
		}
		if _, ok := t.Defaults[v.Name]; ok && v.Required {
			report(fmt.Sprintf("variables[%d].required", i), fmt.Sprintf("variable %q is required but has a default", v.Name), "drop the default or the required flag")
		}
	}

	for _, name := range slices.Sorted(maps.Keys(t.Defaults)) {
		if !referenced[name] {
			report("defaults."+name, fmt.Sprintf("default for %q is not referenced by the command", name), "reference $"+name+" or remove the default")
		}
	}

	if len(problems) > 0 {
		return &InvalidToolError{Problems: problems}
	}
	return nil
}

// Script translates the command template.
func (t *Tool) Script(opts ...cmdtemplate.Option) (*cmdtemplate.Script, error) {
	script, err := cmdtemplate.Translate(t.Command, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: command: %w", t.File, err)
	}
	return script, nil
}

// Bindings layers supplied over the tool defaults and checks that every
// required variable ended up bound.
func (t *Tool) Bindings(supplied map[string]string) (map[string]string, error) {
	out := make(map[string]string, len(t.Defaults)+len(supplied))
	maps.Copy(out, t.Defaults)
	maps.Copy(out, supplied)

	var missing []string
	for _, v := range t.Variables {
		if _, ok := out[v.Name]; v.Required && !ok {
			missing = append(missing, v.Name)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingRequiredError{Tool: t.Name, Names: missing}
	}
	return out, nil
}

// Describe returns the documentation for name, if declared.
func (t *Tool) Describe(name string) (Variable, bool) {
	for _, v := range t.Variables {
		if v.Name == name {
			return v, true
		}
	}
	return Variable{}, false
}
