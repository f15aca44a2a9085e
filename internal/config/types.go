// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/invowk/cmdresolve/pkg/cmdtemplate"
)

const (
	// ShellDialectBash parses resolved commands as Bash.
	ShellDialectBash ShellDialect = "bash"
	// ShellDialectPOSIX parses resolved commands as POSIX sh.
	ShellDialectPOSIX ShellDialect = "posix"
	// ShellDialectMksh parses resolved commands as mksh.
	ShellDialectMksh ShellDialect = "mksh"

	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"
)

var (
	// ErrInvalidShellDialect is returned when a ShellDialect value is not recognized.
	ErrInvalidShellDialect = errors.New("invalid shell dialect")
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidDefaultValue is returned when the unbound-variable sentinel is blank.
	ErrInvalidDefaultValue = errors.New("invalid default value")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ShellDialect selects the mvdan/sh parser variant used to check resolved commands.
	ShellDialect string

	// InvalidShellDialectError is returned when a ShellDialect value is not recognized.
	InvalidShellDialectError struct {
		Value ShellDialect
	}

	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// DefaultValue is the sentinel bound to template variables the caller did not supply.
	DefaultValue string

	// InvalidDefaultValueError is returned when a DefaultValue is empty or blank.
	InvalidDefaultValueError struct {
		Value DefaultValue
	}

	// InvalidConfigError collects field-level validation errors. errors.Is matches
	// ErrInvalidConfig and the sentinel of every field error.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// DefaultValue is bound to variables missing from the caller's bindings.
		DefaultValue DefaultValue `json:"default_value" mapstructure:"default_value"`
		// StrictVariables turns missing bindings into an error instead of defaulting them.
		StrictVariables bool `json:"strict_variables" mapstructure:"strict_variables"`
		// Shell configures checking and running of resolved commands.
		Shell ShellConfig `json:"shell" mapstructure:"shell"`
		// UI configures the user interface.
		UI UIConfig `json:"ui" mapstructure:"ui"`
	}

	// ShellConfig configures the embedded shell.
	ShellConfig struct {
		// Validate parses every resolved command before printing it.
		Validate bool `json:"validate" mapstructure:"validate"`
		// Dialect selects the parser variant.
		Dialect ShellDialect `json:"dialect" mapstructure:"dialect"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// ColorScheme sets the color scheme
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		// Verbose enables debug logging
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}
)

// Validate returns an InvalidConfigError listing every invalid field.
func (c Config) Validate() error {
	var errs []error
	if err := c.DefaultValue.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.Shell.Dialect.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.UI.ColorScheme.Validate(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	if len(e.FieldErrors) == 1 {
		return "invalid config: " + e.FieldErrors[0].Error()
	}
	return fmt.Sprintf("invalid config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidConfig followed by the field errors.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}

// String returns the string representation of the DefaultValue.
func (v DefaultValue) String() string { return string(v) }

// Validate returns an error if the sentinel is empty or whitespace-only.
func (v DefaultValue) Validate() error {
	if strings.TrimSpace(string(v)) == "" {
		return &InvalidDefaultValueError{Value: v}
	}
	return nil
}

// Error implements the error interface for InvalidDefaultValueError.
func (e *InvalidDefaultValueError) Error() string {
	return fmt.Sprintf("invalid default value %q: must be non-empty", e.Value)
}

// Unwrap returns ErrInvalidDefaultValue for errors.Is() compatibility.
func (e *InvalidDefaultValueError) Unwrap() error { return ErrInvalidDefaultValue }

// String returns the string representation of the ShellDialect.
func (d ShellDialect) String() string { return string(d) }

// Validate returns an error if the dialect is not one of the defined values.
func (d ShellDialect) Validate() error {
	switch d {
	case ShellDialectBash, ShellDialectPOSIX, ShellDialectMksh:
		return nil
	default:
		return &InvalidShellDialectError{Value: d}
	}
}

// Error implements the error interface for InvalidShellDialectError.
func (e *InvalidShellDialectError) Error() string {
	return fmt.Sprintf("invalid shell dialect %q (valid: bash, posix, mksh)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidShellDialectError) Unwrap() error { return ErrInvalidShellDialect }

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// Validate returns an error if the color scheme is not one of the defined values.
func (cs ColorScheme) Validate() error {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return nil
	default:
		return &InvalidColorSchemeError{Value: cs}
	}
}

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		DefaultValue:    DefaultValue(cmdtemplate.DefaultValue),
		StrictVariables: false,
		Shell: ShellConfig{
			Validate: true,
			Dialect:  ShellDialectBash,
		},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
			Verbose:     false,
		},
	}
}

// ResolveOptions translates the configuration into resolver options.
func (c *Config) ResolveOptions() []cmdtemplate.Option {
	return []cmdtemplate.Option{
		cmdtemplate.WithDefaultValue(string(c.DefaultValue)),
		cmdtemplate.WithStrictVariables(c.StrictVariables),
	}
}
