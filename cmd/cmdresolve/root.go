// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the cmdresolve CLI commands.
package cmd

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/invowk/cmdresolve/internal/config"
	"github.com/invowk/cmdresolve/pkg/types"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// rootFlags holds the persistent flags of the root command.
type rootFlags struct {
	verbose bool
	cfgFile string
}

func newRootCommand(app *App) *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:   "cmdresolve",
		Short: "Resolve conditional command-line templates",
		Long: TitleStyle.Render("cmdresolve") + MutedStyle.Render(" - Resolve conditional command-line templates") + `

cmdresolve turns a command template into the exact command line to run.
Templates interpolate $name and ${name} variables and select fragments
with #if / #elif / #else / #end directives. Variables that are not bound
resolve to None.

Templates come from a CUE tool description (--tool) or a raw template
file (--template). Bindings come from --var flags and TOML, dotenv or
CUE files (--vars-file).

` + MutedStyle.Render("Examples:") + `
  cmdresolve resolve --tool bwa.cue --var reads=r1.fq
  cmdresolve vars --tool bwa.cue
  cmdresolve check --template cmd.tmpl --vars-file params.toml
  cmdresolve run --tool bwa.cue --vars-file params.env
  cmdresolve config show`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			app.verboseFlag = flags.verbose
			if flags.verbose {
				app.Logger.SetLevel(log.DebugLevel)
			}
			cmd.SetContext(contextWithConfigPath(cmd.Context(), flags.cfgFile))
			return nil
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&flags.cfgFile, "config", "", "config file (default is "+defaultConfigHint()+")")

	rootCmd.SetIn(app.stdin)
	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)

	rootCmd.AddCommand(
		newResolveCommand(app),
		newVarsCommand(app),
		newCheckCommand(app),
		newRunCommand(app),
		newConfigCommand(app),
	)

	return rootCmd
}

func defaultConfigHint() string {
	dir, err := config.ConfigDir()
	if err != nil {
		return "$HOME/.config/" + config.AppName + "/config.cue"
	}
	return dir + "/config.cue"
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version != "dev" {
		return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "dev (built from source)"
}

// Run executes the CLI with args and returns the process exit code.
func Run(ctx context.Context, args []string, deps Dependencies) types.ExitCode {
	app, err := NewApp(deps)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return types.ExitFailure
	}

	rootCmd := newRootCommand(app)
	rootCmd.SetArgs(args)

	// fang overrides rootCmd.Version, so the version goes through WithVersion.
	err = fang.Execute(
		ctx,
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(handleError),
	)
	return exitCodeOf(err)
}

// Execute runs the CLI with the process arguments and exits. It is called by main.main().
func Execute() {
	os.Exit(int(Run(context.Background(), os.Args[1:], Dependencies{})))
}
