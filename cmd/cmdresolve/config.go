// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/invowk/cmdresolve/internal/config"
	"github.com/invowk/cmdresolve/internal/issue"
	"github.com/invowk/cmdresolve/pkg/types"
)

// newConfigCommand creates the `cmdresolve config` command tree.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage cmdresolve configuration",
		Long: `Manage cmdresolve configuration.

Configuration is read from the first of:
  - the --config flag
  - Linux: ~/.config/cmdresolve/config.cue
    macOS: ~/Library/Application Support/cmdresolve/config.cue
    Windows: %APPDATA%\cmdresolve\config.cue
  - ./config.cue

Every key can be overridden with a CMDRESOLVE_ environment variable,
e.g. CMDRESOLVE_SHELL_DIALECT=posix.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd, app)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output the effective configuration as CUE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.session(cmd)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), config.GenerateCUE(cfg))
			return nil
		},
	})

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(cmd, app, force)
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing configuration file")
	cfgCmd.AddCommand(initCmd)

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigPath(cmd, app)
		},
	})

	return cfgCmd
}

func loadOptions(cmd *cobra.Command) config.LoadOptions {
	return config.LoadOptions{ConfigFilePath: types.FilesystemPath(configPathFromContext(cmd.Context()))}
}

func showConfig(cmd *cobra.Command, app *App) error {
	cfg, err := app.Config.Load(cmd.Context(), loadOptions(cmd))
	if err != nil {
		// config show always includes the catalog entry.
		app.verbose = true
		return app.fail(cmd, err)
	}

	out := cmd.OutOrStdout()
	keyStyle := VariableStyle
	valueStyle := SuccessStyle

	fmt.Fprintln(out, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(out)

	path, found, pathErr := config.ResolvePath(loadOptions(cmd))
	if pathErr == nil && found {
		fmt.Fprintf(out, "%s: %s\n", keyStyle.Render("Config file"), path)
	} else {
		fmt.Fprintf(out, "%s: %s\n", keyStyle.Render("Config file"), MutedStyle.Render("(using defaults)"))
	}
	fmt.Fprintln(out)

	fmt.Fprintf(out, "%s: %s\n", keyStyle.Render("default_value"), valueStyle.Render(string(cfg.DefaultValue)))
	fmt.Fprintf(out, "%s: %s\n", keyStyle.Render("strict_variables"), valueStyle.Render(fmt.Sprintf("%v", cfg.StrictVariables)))

	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s:\n", keyStyle.Render("shell"))
	fmt.Fprintf(out, "  validate: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.Shell.Validate)))
	fmt.Fprintf(out, "  dialect: %s\n", valueStyle.Render(string(cfg.Shell.Dialect)))

	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s:\n", keyStyle.Render("ui"))
	fmt.Fprintf(out, "  color_scheme: %s\n", valueStyle.Render(string(cfg.UI.ColorScheme)))
	fmt.Fprintf(out, "  verbose: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.UI.Verbose)))

	return nil
}

func initConfig(cmd *cobra.Command, app *App, force bool) error {
	path, _, err := config.ResolvePath(loadOptions(cmd))
	if err != nil {
		return app.fail(cmd, actionable(err, "locate configuration", "", issue.ConfigLoadFailedId))
	}

	if err := config.CreateDefaultConfig(path, force); err != nil {
		ctx := issue.NewErrorContext().
			WithOperation("create configuration").
			WithResource(path).
			WithIssue(issue.ConfigLoadFailedId).
			Wrap(err)
		if errors.Is(err, config.ErrConfigExists) {
			ctx.WithSuggestion("Use --force to overwrite it")
		}
		return app.fail(cmd, ctx.BuildError())
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s Created default configuration at %s\n", successIcon, path)
	return nil
}

func showConfigPath(cmd *cobra.Command, app *App) error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return app.fail(cmd, actionable(err, "locate configuration", "", issue.ConfigLoadFailedId))
	}
	path, found, err := config.ResolvePath(loadOptions(cmd))
	if err != nil {
		return app.fail(cmd, actionable(err, "locate configuration", "", issue.ConfigLoadFailedId))
	}

	state := "not found, using defaults"
	if found {
		state = "found"
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Config directory: %s\n", cfgDir)
	fmt.Fprintf(out, "Config file: %s (%s)\n", filepath.Clean(path), state)
	return nil
}
