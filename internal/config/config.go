// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/invowk/cmdresolve/internal/issue"
	"github.com/invowk/cmdresolve/pkg/cueutil"

	"github.com/spf13/viper"
)

const (
	// AppName is the application name.
	AppName = "cmdresolve"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// EnvPrefix prefixes environment variable overrides, e.g. CMDRESOLVE_SHELL_DIALECT.
	EnvPrefix = "CMDRESOLVE"
)

// ErrConfigExists is returned by CreateDefaultConfig when the file is already present.
var ErrConfigExists = errors.New("config file already exists")

//go:embed config_schema.cue
var configSchemaSrc []byte

var configSchema = cueutil.MustCompileSchema(configSchemaSrc, "#Config")

// ConfigDir returns the cmdresolve directory under the user configuration
// directory: %AppData% on Windows, ~/Library/Application Support on macOS and
// $XDG_CONFIG_HOME (or ~/.config) elsewhere.
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate user config directory: %w", err)
	}
	return filepath.Join(base, AppName), nil
}

// ResolvePath reports which config file Load would read. found is false when no
// file exists and defaults would be used; path is then the default location.
func ResolvePath(opts LoadOptions) (path string, found bool, err error) {
	if opts.ConfigFilePath != "" {
		p := string(opts.ConfigFilePath)
		return p, isRegularFile(p), nil
	}

	cfgDir, err := configDirWithOverride(string(opts.ConfigDirPath))
	if err != nil {
		return "", false, err
	}
	name := ConfigFileName + "." + ConfigFileExt
	candidates := []string{filepath.Join(cfgDir, name), name}
	for _, c := range candidates {
		if isRegularFile(c) {
			return c, true, nil
		}
	}
	return candidates[0], false, nil
}

// loadWithOptions performs option-driven config loading without mutating
// package-level state.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	if err := opts.Validate(); err != nil {
		return nil, "", err
	}

	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("default_value", defaults.DefaultValue)
	v.SetDefault("strict_variables", defaults.StrictVariables)
	v.SetDefault("shell.validate", defaults.Shell.Validate)
	v.SetDefault("shell.dialect", defaults.Shell.Dialect)
	v.SetDefault("ui.color_scheme", defaults.UI.ColorScheme)
	v.SetDefault("ui.verbose", defaults.UI.Verbose)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path, found, err := ResolvePath(opts)
	if err != nil {
		return nil, "", err
	}

	// An explicit --config path must exist; the default locations are optional.
	if opts.ConfigFilePath != "" && !found {
		return nil, "", issue.NewErrorContext().
			WithOperation("load configuration").
			WithResource(path).
			WithSuggestion("Verify the file path is correct").
			WithSuggestion("Use 'cmdresolve config show' to see the default configuration").
			WithIssue(issue.ConfigLoadFailedId).
			Wrap(fmt.Errorf("config file not found: %s", path)).
			BuildError()
	}

	resolvedPath := ""
	if found {
		if err := loadCUEIntoViper(v, path); err != nil {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(path).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Verify the configuration values match the expected schema").
				WithSuggestion("See 'cmdresolve config --help' for configuration options").
				WithIssue(issue.ConfigLoadFailedId).
				Wrap(err).
				BuildError()
		}
		resolvedPath = path
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	// Environment overrides bypass the CUE schema, so validate the merged result.
	if err := cfg.Validate(); err != nil {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(resolvedPath).
			WithSuggestion("Check " + EnvPrefix + "_* environment variables for typos").
			WithIssue(issue.ConfigLoadFailedId).
			Wrap(err).
			BuildError()
	}

	return &cfg, resolvedPath, nil
}

// configDirWithOverride resolves the configuration directory, honoring
// explicit provider options before platform defaults.
func configDirWithOverride(configDirPath string) (string, error) {
	if configDirPath != "" {
		return configDirPath, nil
	}

	return ConfigDir()
}

// loadCUEIntoViper validates a CUE file against #Config and merges it into
// Viper. Every schema field is optional, so validation is non-concrete and the
// document decodes to a map.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	configMap, err := cueutil.Decode[map[string]any](configSchema, data,
		cueutil.WithFilename(path), cueutil.WithConcrete(false))
	if err != nil {
		return err
	}

	// Merge preserves defaults and env overrides.
	if err := v.MergeConfigMap(*configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}

	return nil
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// CreateDefaultConfig writes the default configuration to path, creating parent
// directories. It returns ErrConfigExists unless force is set.
func CreateDefaultConfig(path string, force bool) error {
	if !force && isRegularFile(path) {
		return fmt.Errorf("%w: %s", ErrConfigExists, path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, []byte(GenerateCUE(DefaultConfig())), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GenerateCUE renders cfg as a commented CUE document that validates against
// the #Config schema.
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder
	sb.WriteString("// cmdresolve configuration file\n\n")

	sb.WriteString("// Bound to template variables without a value.\n")
	fmt.Fprintf(&sb, "default_value: %q\n", cfg.DefaultValue)
	sb.WriteString("// Fail instead of binding default_value.\n")
	fmt.Fprintf(&sb, "strict_variables: %t\n\n", cfg.StrictVariables)

	fmt.Fprintf(&sb, "shell: {\n\tvalidate: %t\n", cfg.Shell.Validate)
	fmt.Fprintf(&sb, "\t// %s | %s | %s\n", ShellDialectBash, ShellDialectPOSIX, ShellDialectMksh)
	fmt.Fprintf(&sb, "\tdialect: %q\n}\n\n", cfg.Shell.Dialect)

	sb.WriteString("ui: {\n")
	fmt.Fprintf(&sb, "\t// %s | %s | %s\n", ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight)
	fmt.Fprintf(&sb, "\tcolor_scheme: %q\n\tverbose: %t\n}\n", cfg.UI.ColorScheme, cfg.UI.Verbose)

	return sb.String()
}
