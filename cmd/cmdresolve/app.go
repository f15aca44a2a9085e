// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/invowk/cmdresolve/internal/bindings"
	"github.com/invowk/cmdresolve/internal/config"
	"github.com/invowk/cmdresolve/internal/issue"
	"github.com/invowk/cmdresolve/pkg/cmdtemplate"
	"github.com/invowk/cmdresolve/pkg/tooldef"
	"github.com/invowk/cmdresolve/pkg/types"
)

type (
	configPathContextKey struct{}

	// App wires CLI services and shared dependencies. It is the composition root for
	// the CLI layer: every Cobra handler receives an App and delegates through it.
	App struct {
		Config    ConfigProvider
		Templates TemplateService
		Logger    *log.Logger
		stdin     io.Reader
		stdout    io.Writer
		stderr    io.Writer

		// Per-invocation UI state, set by the root command and session.
		verboseFlag bool
		verbose     bool
		stylePath   string
	}

	// Dependencies defines the injection points for building an App. Nil fields are
	// replaced with production defaults by NewApp.
	Dependencies struct {
		Config    ConfigProvider
		Templates TemplateService
		Logger    *log.Logger
		Stdin     io.Reader
		Stdout    io.Writer
		Stderr    io.Writer
	}

	// ResolveRequest captures the template inputs shared by resolve, vars, check and run.
	ResolveRequest struct {
		// ToolPath is a CUE tool description (--tool).
		ToolPath string
		// TemplatePath is a raw template file, or "-" for stdin (--template).
		TemplatePath string
		// Vars are name=value assignments from --var, applied last.
		Vars []string
		// VarsFiles are bindings files from --vars-file, applied in order.
		VarsFiles []string
		// Strict overrides strict_variables from the configuration when non-nil.
		Strict *bool
	}

	// Prepared is a translated template with its bindings, ready to resolve.
	Prepared struct {
		// Source names where the template came from.
		Source string
		// Tool is set when the template came from a tool description.
		Tool *tooldef.Tool
		// Script is the translated template.
		Script *cmdtemplate.Script
		// Supplied holds the caller's bindings (files and --var).
		Supplied bindings.Bindings
		// Bound is Supplied layered over the tool defaults, if any.
		Bound map[string]string
		// Options are the resolver options derived from config and flags.
		Options []cmdtemplate.Option
	}

	// TemplateService loads templates and their bindings.
	TemplateService interface {
		Prepare(ctx context.Context, req ResolveRequest, cfg *config.Config) (*Prepared, error)
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	templateService struct {
		stdin  io.Reader
		logger *log.Logger
	}
)

// NewApp creates a CLI app with default implementations for nil dependencies.
func NewApp(deps Dependencies) (*App, error) {
	if deps.Stdin == nil {
		deps.Stdin = os.Stdin
	}
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Logger == nil {
		deps.Logger = log.NewWithOptions(deps.Stderr, log.Options{
			Prefix: config.AppName,
			Level:  log.WarnLevel,
		})
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Templates == nil {
		deps.Templates = &templateService{stdin: deps.Stdin, logger: deps.Logger}
	}

	return &App{
		Config:    deps.Config,
		Templates: deps.Templates,
		Logger:    deps.Logger,
		stdin:     deps.Stdin,
		stdout:    deps.Stdout,
		stderr:    deps.Stderr,
		stylePath: string(config.ColorSchemeAuto),
	}, nil
}

func contextWithConfigPath(ctx context.Context, configPath string) context.Context {
	return context.WithValue(ctx, configPathContextKey{}, configPath)
}

func configPathFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	path, _ := ctx.Value(configPathContextKey{}).(string)
	return path
}

// loadConfig loads the configuration for this invocation. A broken file at the
// default location degrades to defaults with a warning; an explicit --config
// path must load.
func (a *App) loadConfig(ctx context.Context) (*config.Config, error) {
	path := configPathFromContext(ctx)
	cfg, err := a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: types.FilesystemPath(path)})
	if err == nil {
		return cfg, nil
	}
	if path != "" || errors.Is(err, context.Canceled) {
		return nil, err
	}
	a.Logger.Warn("using default configuration", "error", err)
	return config.DefaultConfig(), nil
}

// session loads the configuration and applies its UI settings. On failure the
// error has already been reported.
func (a *App) session(cmd *cobra.Command) (*config.Config, error) {
	a.verbose = a.verboseFlag

	cfg, err := a.loadConfig(cmd.Context())
	if err != nil {
		return nil, a.fail(cmd, err)
	}

	a.verbose = a.verboseFlag || cfg.UI.Verbose
	a.stylePath = string(cfg.UI.ColorScheme)
	if a.verbose {
		a.Logger.SetLevel(log.DebugLevel)
	}
	return cfg, nil
}

// fail reports err on the command's stderr and returns a bare ExitError.
func (a *App) fail(cmd *cobra.Command, err error) error {
	renderError(cmd.ErrOrStderr(), err, a.verbose, a.stylePath)
	return &ExitError{Code: exitCodeForIssue(classifyError(err))}
}

// Prepare loads the template named by req, translates it and collects bindings.
func (s *templateService) Prepare(ctx context.Context, req ResolveRequest, cfg *config.Config) (*Prepared, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	opts := append(cfg.ResolveOptions(), cmdtemplate.WithLogger(s.logger))
	if req.Strict != nil {
		opts = append(opts, cmdtemplate.WithStrictVariables(*req.Strict))
	}

	supplied, err := loadBindings(req)
	if err != nil {
		return nil, err
	}

	p := &Prepared{Supplied: supplied, Options: opts}

	if req.ToolPath != "" {
		tool, err := tooldef.Load(req.ToolPath)
		if err != nil {
			return nil, actionable(err, "load tool file", req.ToolPath, issue.ToolFileParseErrorId)
		}
		// Load already translated the command once, so only option errors remain.
		script, err := tool.Script(opts...)
		if err != nil {
			return nil, actionable(err, "translate template", req.ToolPath, 0)
		}
		p.Source, p.Tool, p.Script = req.ToolPath, tool, script
		p.Bound = bindings.Merge(tool.Defaults, supplied)
		return p, nil
	}

	text, err := s.readTemplate(req.TemplatePath)
	if err != nil {
		return nil, actionable(err, "read template", req.TemplatePath, 0)
	}
	script, err := cmdtemplate.Translate(text, opts...)
	if err != nil {
		return nil, actionable(err, "translate template", req.TemplatePath, 0)
	}
	p.Source, p.Script, p.Bound = req.TemplatePath, script, supplied
	return p, nil
}

func (s *templateService) readTemplate(path string) (string, error) {
	if types.FilesystemPath(path).IsStdin() {
		data, err := io.ReadAll(s.stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// loadBindings layers the vars files in order, then the --var assignments.
func loadBindings(req ResolveRequest) (bindings.Bindings, error) {
	layers := make([]bindings.Bindings, 0, len(req.VarsFiles)+1)
	for _, path := range req.VarsFiles {
		b, err := bindings.LoadFile(path)
		if err != nil {
			return nil, actionable(err, "load variable bindings", path, issue.BindingsParseErrorId)
		}
		layers = append(layers, b)
	}

	flags, err := bindings.ParseAssignments(req.Vars)
	if err != nil {
		return nil, actionable(err, "parse --var", "", issue.BindingsParseErrorId)
	}
	layers = append(layers, flags)

	return bindings.Merge(layers...), nil
}

// Resolve binds and renders the prepared template. Tool templates additionally
// require every variable the tool marks as required.
func (p *Prepared) Resolve() (string, error) {
	bound := p.Bound
	if p.Tool != nil {
		b, err := p.Tool.Bindings(p.Supplied)
		if err != nil {
			return "", actionable(err, "bind variables", p.Tool.Name, issue.UnknownVariableId)
		}
		bound = b
	}
	if len(bound) == 0 {
		return "", actionable(cmdtemplate.ErrInvalidVariableBindings, "resolve template", p.Source, 0)
	}
	command, err := p.Script.Render(bound, p.Options...)
	if err != nil {
		return "", actionable(err, "resolve template", p.Source, 0)
	}
	return command, nil
}
