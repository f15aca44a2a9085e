// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/invowk/cmdresolve/internal/issue"
	"github.com/invowk/cmdresolve/internal/testutil"
	"github.com/invowk/cmdresolve/pkg/types"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	return testutil.WriteFile(t, dir, ConfigFileName+"."+ConfigFileExt, content)
}

func TestConfigDir_Override(t *testing.T) {
	SetConfigDirOverride("/custom/dir")
	defer Reset()

	dir, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() error: %v", err)
	}
	if dir != "/custom/dir" {
		t.Errorf("ConfigDir() = %q, want /custom/dir", dir)
	}
}

func TestConfigDir_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	Reset()

	dir, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() error: %v", err)
	}
	if filepath.Base(dir) != AppName {
		t.Errorf("ConfigDir() = %q, want it to end with %q", dir, AppName)
	}
	if runtime.GOOS == "linux" && dir != filepath.Join("/xdg", AppName) {
		t.Errorf("ConfigDir() = %q, want it under $XDG_CONFIG_HOME", dir)
	}
}

func TestGenerateCUE_ListsChoices(t *testing.T) {
	t.Parallel()

	out := GenerateCUE(DefaultConfig())
	for _, want := range []string{
		`default_value: "None"`,
		"// bash | posix | mksh",
		"// auto | dark | light",
		"verbose: false",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("GenerateCUE() missing %q:\n%s", want, out)
		}
	}
}

func TestLoad_DefaultsWhenNoConfigFile(t *testing.T) {
	t.Parallel()

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: types.FilesystemPath(t.TempDir())})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	want := DefaultConfig()
	if *cfg != *want {
		t.Errorf("Load() = %+v, want defaults %+v", *cfg, *want)
	}
}

func TestLoad_FromConfigDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeConfig(t, dir, `
default_value: "<unset>"
strict_variables: true
shell: dialect: "posix"
`)

	cfg, path, err := loadWithOptions(context.Background(), LoadOptions{ConfigDirPath: types.FilesystemPath(dir)})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if path != filepath.Join(dir, "config.cue") {
		t.Errorf("resolved path = %q", path)
	}
	if cfg.DefaultValue != "<unset>" || !cfg.StrictVariables {
		t.Errorf("file values not applied: %+v", *cfg)
	}
	if cfg.Shell.Dialect != ShellDialectPOSIX {
		t.Errorf("Shell.Dialect = %q, want posix", cfg.Shell.Dialect)
	}
	// Fields absent from the file keep their defaults.
	if !cfg.Shell.Validate || cfg.UI.ColorScheme != ColorSchemeAuto {
		t.Errorf("defaults lost: %+v", *cfg)
	}
}

func TestLoad_ExplicitPath(t *testing.T) {
	t.Parallel()

	path := testutil.WriteFile(t, t.TempDir(), "custom.cue", `ui: verbose: true`)

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{ConfigFilePath: types.FilesystemPath(path)})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !cfg.UI.Verbose {
		t.Error("UI.Verbose should be true")
	}
}

func TestLoad_ExplicitPathNotFound(t *testing.T) {
	t.Parallel()

	missing := filepath.Join(t.TempDir(), "nope.cue")
	_, err := NewProvider().Load(context.Background(), LoadOptions{ConfigFilePath: types.FilesystemPath(missing)})
	if err == nil {
		t.Fatal("expected error for missing explicit config")
	}

	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		t.Fatalf("error is %T, want *issue.ActionableError", err)
	}
	if ae.IssueID != issue.ConfigLoadFailedId {
		t.Errorf("IssueID = %d", ae.IssueID)
	}
	if !strings.Contains(err.Error(), missing) {
		t.Errorf("error should name the file: %v", err)
	}
}

func TestLoad_SchemaViolations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantSub string
	}{
		{name: "bad dialect", content: `shell: dialect: "zsh"`, wantSub: "dialect"},
		{name: "wrong type", content: `strict_variables: "yes"`, wantSub: "strict_variables"},
		{name: "unknown field", content: `colour: "red"`, wantSub: "colour"},
		{name: "blank default", content: `default_value: "  "`, wantSub: "default_value"},
		{name: "syntax error", content: `ui: {`, wantSub: "config.cue"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			writeConfig(t, dir, tt.content)

			_, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: types.FilesystemPath(dir)})
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), "load configuration") {
				t.Errorf("error should name the operation: %v", err)
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error %q should contain %q", err, tt.wantSub)
			}
		})
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("CMDRESOLVE_STRICT_VARIABLES", "true")
	t.Setenv("CMDRESOLVE_SHELL_DIALECT", "mksh")

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: types.FilesystemPath(t.TempDir())})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !cfg.StrictVariables {
		t.Error("env override for strict_variables not applied")
	}
	if cfg.Shell.Dialect != ShellDialectMksh {
		t.Errorf("Shell.Dialect = %q, want mksh", cfg.Shell.Dialect)
	}
}

func TestLoad_EnvOverrideInvalid(t *testing.T) {
	t.Setenv("CMDRESOLVE_SHELL_DIALECT", "fish")

	_, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: types.FilesystemPath(t.TempDir())})
	if !errors.Is(err, ErrInvalidShellDialect) {
		t.Errorf("Load() = %v, want ErrInvalidShellDialect", err)
	}
}

func TestLoad_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewProvider().Load(ctx, LoadOptions{}); !errors.Is(err, context.Canceled) {
		t.Errorf("Load() = %v, want context.Canceled", err)
	}
}

func TestCreateDefaultConfig_RoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.cue")

	if err := CreateDefaultConfig(path, false); err != nil {
		t.Fatalf("CreateDefaultConfig() error: %v", err)
	}
	if err := CreateDefaultConfig(path, false); !errors.Is(err, ErrConfigExists) {
		t.Errorf("second CreateDefaultConfig() = %v, want ErrConfigExists", err)
	}
	if err := CreateDefaultConfig(path, true); err != nil {
		t.Errorf("forced CreateDefaultConfig() error: %v", err)
	}

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{ConfigFilePath: types.FilesystemPath(path)})
	if err != nil {
		t.Fatalf("generated config does not load: %v", err)
	}
	if *cfg != *DefaultConfig() {
		t.Errorf("round trip = %+v, want %+v", *cfg, *DefaultConfig())
	}
}

func TestResolvePath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path, found, err := ResolvePath(LoadOptions{ConfigDirPath: types.FilesystemPath(dir)})
	if err != nil {
		t.Fatalf("ResolvePath() error: %v", err)
	}
	if found || path != filepath.Join(dir, "config.cue") {
		t.Errorf("ResolvePath() = %q, %v", path, found)
	}

	writeConfig(t, dir, "")
	if _, found, _ := ResolvePath(LoadOptions{ConfigDirPath: types.FilesystemPath(dir)}); !found {
		t.Error("ResolvePath() should find the written file")
	}
}
