// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"mvdan.cc/sh/v3/syntax"

	"github.com/invowk/cmdresolve/internal/config"
	"github.com/invowk/cmdresolve/internal/issue"
	"github.com/invowk/cmdresolve/internal/shell"
)

// templateFlags are the template and binding flags shared by resolve, vars, check and run.
type templateFlags struct {
	tool      string
	template  string
	vars      []string
	varsFiles []string
	strict    bool
}

func (f *templateFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&f.tool, "tool", "t", "", "CUE tool description file")
	flags.StringVarP(&f.template, "template", "f", "", "raw template file ('-' reads stdin)")
	flags.StringArrayVar(&f.vars, "var", nil, "bind a variable (name=value, repeatable)")
	flags.StringArrayVar(&f.varsFiles, "vars-file", nil, "load bindings from a .toml, .env or .cue file (repeatable)")
	flags.BoolVar(&f.strict, "strict", false, "fail on variables without a binding instead of using the default value")

	cmd.MarkFlagsMutuallyExclusive("tool", "template")
	cmd.MarkFlagsOneRequired("tool", "template")
}

func (f *templateFlags) request(cmd *cobra.Command) ResolveRequest {
	req := ResolveRequest{
		ToolPath:     f.tool,
		TemplatePath: f.template,
		Vars:         f.vars,
		VarsFiles:    f.varsFiles,
	}
	if cmd.Flags().Changed("strict") {
		strict := f.strict
		req.Strict = &strict
	}
	return req
}

// resolveCommand loads the configuration, prepares the template and resolves it.
func (a *App) resolveCommand(cmd *cobra.Command, f *templateFlags) (*config.Config, string, error) {
	cfg, err := a.session(cmd)
	if err != nil {
		return nil, "", err
	}

	prepared, err := a.Templates.Prepare(cmd.Context(), f.request(cmd), cfg)
	if err != nil {
		return nil, "", a.fail(cmd, err)
	}

	command, err := prepared.Resolve()
	if err != nil {
		return nil, "", a.fail(cmd, err)
	}
	a.Logger.Debug("resolved template", "source", prepared.Source, "command", command)
	return cfg, command, nil
}

// checkShell parses command with the configured dialect.
func checkShell(command string, cfg *config.Config) (syntax.LangVariant, error) {
	lang, err := shell.ParseDialect(string(cfg.Shell.Dialect))
	if err != nil {
		return lang, err
	}
	if err := shell.Validate(command, lang); err != nil {
		return lang, issue.NewErrorContext().
			WithOperation("check resolved command").
			WithResource(command).
			WithSuggestions(suggestionsFor(err)...).
			WithSuggestion("Set shell.validate: false to skip this check").
			WithIssue(issue.ShellSyntaxErrorId).
			Wrap(err).
			BuildError()
	}
	return lang, nil
}

func newResolveCommand(app *App) *cobra.Command {
	f := &templateFlags{}
	var check bool

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Print the resolved command line",
		Long: `Resolve a template against its bindings and print the command line.

Variables referenced by the template but not bound resolve to the default
value (None unless configured otherwise). With --strict they are an error.
When shell.validate is enabled the result is also parsed as shell; --check
overrides the configured setting.`,
		Example: `  cmdresolve resolve --tool bwa.cue --var reads=r1.fq --var threads=8
  cmdresolve resolve --template cmd.tmpl --vars-file params.toml
  echo 'echo $greeting' | cmdresolve resolve --template - --var greeting=hi`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, command, err := app.resolveCommand(cmd, f)
			if err != nil {
				return err
			}

			validate := cfg.Shell.Validate
			if cmd.Flags().Changed("check") {
				validate = check
			}
			if validate {
				if _, err := checkShell(command, cfg); err != nil {
					return app.fail(cmd, err)
				}
			}

			fmt.Fprintln(cmd.OutOrStdout(), command)
			return nil
		},
	}

	f.register(cmd)
	cmd.Flags().BoolVar(&check, "check", false, "parse the resolved command as shell (default from shell.validate)")
	return cmd
}

func newVarsCommand(app *App) *cobra.Command {
	f := &templateFlags{}

	cmd := &cobra.Command{
		Use:   "vars",
		Short: "List the variables a template references",
		Long: `List every variable the template references with its binding status:

  supplied  bound by --var or a vars file
  default   bound by the tool's defaults
  unset     not bound; resolves to the default value
  missing   not bound and required by the tool or by --strict`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.session(cmd)
			if err != nil {
				return err
			}
			req := f.request(cmd)
			prepared, err := app.Templates.Prepare(cmd.Context(), req, cfg)
			if err != nil {
				return app.fail(cmd, err)
			}

			strict := cfg.StrictVariables
			if req.Strict != nil {
				strict = *req.Strict
			}

			rows := varRows(prepared, string(cfg.DefaultValue), strict)
			out := cmd.OutOrStdout()
			if len(rows) == 0 {
				fmt.Fprintln(out, MutedStyle.Render("(no variables)"))
				return nil
			}

			width := 0
			for _, r := range rows {
				width = max(width, len(r.name))
			}
			for _, r := range rows {
				line := VariableStyle.Render(fmt.Sprintf("%-*s", width, r.name)) + "  " + r.status.render()
				if r.value != "" {
					line += "  " + r.value
				}
				if r.description != "" {
					line += "  " + MutedStyle.Render("# "+r.description)
				}
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}

	f.register(cmd)
	return cmd
}

// descriptionWidth caps the description column of the vars listing.
const descriptionWidth = 60

type varRow struct {
	name        string
	status      bindingStatus
	value       string
	description string
}

func varRows(p *Prepared, defaultValue string, strict bool) []varRow {
	rows := make([]varRow, 0, len(p.Script.Variables()))
	for _, name := range p.Script.Variables() {
		row := varRow{name: name}
		required := false
		if p.Tool != nil {
			if v, ok := p.Tool.Describe(name); ok {
				row.description = v.Description.Summary(descriptionWidth)
				required = v.Required
			}
		}

		if v, ok := p.Supplied[name]; ok {
			row.status, row.value = statusSupplied, v
		} else if v, ok := p.Bound[name]; ok {
			row.status, row.value = statusDefault, v
		} else if required || strict {
			row.status = statusMissing
		} else {
			row.status, row.value = statusUnset, defaultValue
		}
		rows = append(rows, row)
	}
	return rows
}

func newCheckCommand(app *App) *cobra.Command {
	f := &templateFlags{}
	var format bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Resolve a template and check the result is valid shell",
		Long: `Resolve a template and parse the result with the configured shell dialect
(shell.dialect: bash, posix or mksh), regardless of shell.validate.

With --format the command is printed in canonical shell formatting.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, command, err := app.resolveCommand(cmd, f)
			if err != nil {
				return err
			}

			lang, err := checkShell(command, cfg)
			if err != nil {
				return app.fail(cmd, err)
			}

			out := cmd.OutOrStdout()
			if format {
				formatted, err := shell.Format(command, lang)
				if err != nil {
					return app.fail(cmd, actionable(err, "format resolved command", "", issue.ShellSyntaxErrorId))
				}
				fmt.Fprintln(out, formatted)
				return nil
			}

			fmt.Fprintf(out, "%s resolved command is valid %s shell\n", successIcon, cfg.Shell.Dialect)
			return nil
		},
	}

	f.register(cmd)
	cmd.Flags().BoolVar(&format, "format", false, "print the command in canonical shell formatting")
	return cmd
}

func newRunCommand(app *App) *cobra.Command {
	f := &templateFlags{}
	var (
		workdir string
		env     []string
		dryRun  bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Resolve a template and execute it in the embedded shell",
		Long: `Resolve a template and execute the command with the embedded POSIX/bash
interpreter. External programs are looked up on PATH; the exit status of the
command becomes the exit status of cmdresolve.`,
		Example: `  cmdresolve run --tool bwa.cue --vars-file sample.toml
  cmdresolve run --template cmd.tmpl --var out=result.txt -C /data`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, command, err := app.resolveCommand(cmd, f)
			if err != nil {
				return err
			}

			lang, err := checkShell(command, cfg)
			if err != nil {
				return app.fail(cmd, err)
			}

			if dryRun {
				fmt.Fprintln(cmd.OutOrStdout(), command)
				return nil
			}

			opts := []shell.RunnerOption{
				shell.WithDialect(lang),
				shell.WithLogger(app.Logger),
				shell.WithEnv(append(os.Environ(), env...)),
			}
			if workdir != "" {
				opts = append(opts, shell.WithDir(workdir))
			}

			code, err := shell.NewRunner(opts...).Run(cmd.Context(), command, shell.IO{
				Stdin:  cmd.InOrStdin(),
				Stdout: cmd.OutOrStdout(),
				Stderr: cmd.ErrOrStderr(),
			})
			if errors.Is(err, context.Canceled) {
				app.Logger.Warn("command interrupted", "command", command)
				return &ExitError{Code: code}
			}
			if err != nil {
				return app.fail(cmd, actionable(err, "run command", command, issue.ScriptExecutionFailedId))
			}
			if !code.IsSuccess() {
				app.Logger.Debug("command exited", "code", code)
				return &ExitError{Code: code}
			}
			return nil
		},
	}

	f.register(cmd)
	cmd.Flags().StringVarP(&workdir, "workdir", "C", "", "working directory for the command")
	cmd.Flags().StringArrayVar(&env, "env", nil, "extra environment variable for the command (NAME=value, repeatable)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the command instead of running it")
	return cmd
}
