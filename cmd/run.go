package cmd

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"slices"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/deepself/deepself-cli/internal/clierr"
	"github.com/deepself/deepself-cli/internal/config"
	"github.com/deepself/deepself-cli/internal/credentials"
	"github.com/deepself/deepself-cli/internal/output"
	"github.com/deepself/deepself-cli/internal/prompt"
	"github.com/deepself/deepself-cli/internal/version"
)

// Env is the process environment a run sees
type Env struct {
	Stdin      io.Reader
	Stdout     io.Writer
	Stderr     io.Writer
	Getenv     func(string) string
	HTTPClient *http.Client
}

// StdEnv returns the real process environment
func StdEnv() Env {
	return Env{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Getenv: os.Getenv,
	}
}

// kongExit carries an exit code requested during parsing (help, version)
type kongExit struct {
	code int
}

// Run parses args, executes the selected command and returns the exit code
func Run(ctx context.Context, args []string, env Env) (code int) {
	if env.Getenv == nil {
		env.Getenv = os.Getenv
	}
	if len(args) == 0 {
		args = []string{"--help"}
	}

	cli := CLI{}
	parser, err := kong.New(&cli,
		kong.Name("deepself"),
		kong.Description("Command-line client for the Deepself API"),
		kong.Writers(env.Stdout, env.Stderr),
		kong.Exit(func(code int) { panic(kongExit{code: code}) }),
		kong.Vars{"version": version.Short()},
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
	)
	if err != nil {
		// The grammar is static; this only fails on a programming error
		panic(err)
	}

	defer func() {
		if r := recover(); r != nil {
			exit, ok := r.(kongExit)
			if !ok {
				panic(r)
			}
			code = exit.code
		}
	}()

	kongCtx, err := parser.Parse(args)
	if err != nil {
		p := output.New(env.Stdout, env.Stderr, output.Options{Format: parseErrorFormat(args, env), Color: config.ColorNever})
		p.Error(clierr.Usage("%s", err.Error()))
		if !p.Machine() {
			p.Info("Run 'deepself --help' for usage.")
		}
		return clierr.ExitUsage
	}

	cmdCtx, err := newContext(ctx, cli.Globals, env)
	if err != nil {
		p := output.New(env.Stdout, env.Stderr, output.Options{Color: config.ColorNever})
		p.Error(err)
		return clierr.ExitCode(err)
	}
	cmdCtx.Out.SetCommand(commandName(kongCtx.Command()))

	if err := kongCtx.Run(cmdCtx); err != nil {
		// Interrupted runs exit 1 without an error report
		if errors.Is(err, context.Canceled) && ctx.Err() != nil {
			return clierr.ExitAPI
		}
		cmdCtx.Out.Error(err)
		cmdCtx.Logger.Debug("command failed", "command", kongCtx.Command(), "error", err)
		return clierr.ExitCode(err)
	}
	return clierr.ExitOK
}

// newContext resolves credentials, preferences and output settings once
func newContext(ctx context.Context, g Globals, env Env) (*Context, error) {
	level := slog.LevelWarn
	if g.Debug || env.Getenv("DEBUG") != "" {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(env.Stderr, &slog.HandlerOptions{Level: level}))

	dir := configDir(env)

	store := credentials.NewStore(dir)
	store.Getenv = env.Getenv
	store.Logger = logger

	prefsPath := config.Path(dir)
	prefs, err := config.LoadFile(prefsPath)
	if err != nil {
		logger.Warn("using default preferences", "path", prefsPath, "error", err)
	}

	format, err := resolveFormat(g, prefs)
	if err != nil {
		return nil, err
	}

	color := prefs.Color
	if env.Getenv("NO_COLOR") != "" {
		color = config.ColorNever
	}

	interactive := prompt.IsInteractive(g.NoInteractive, env.Stdin, env.Getenv)

	return &Context{
		Context: ctx,
		Globals: g,
		Out: output.New(env.Stdout, env.Stderr, output.Options{
			Format:   format,
			Quiet:    g.Quiet,
			Color:    color,
			Markdown: prefs.Markdown,
		}),
		Prompt:      prompt.New(env.Stdin, env.Stderr, interactive),
		Store:       store,
		Settings:    store.Resolve(),
		Prefs:       prefs,
		PrefsPath:   prefsPath,
		HistoryPath: config.HistoryPath(dir),
		Stdin:       env.Stdin,
		Getenv:      env.Getenv,
		Logger:      logger,
		httpClient:  env.HTTPClient,
	}, nil
}

// parseErrorFormat reads --json, --output and the preference from raw args
// that kong rejected, with the precedence of resolveFormat
func parseErrorFormat(args []string, env Env) output.Format {
	if slices.Contains(args, "--json") {
		return output.JSON
	}

	var flag string
scan:
	for i, arg := range args {
		switch {
		case arg == "--":
			break scan
		case arg == "-o" || arg == "--output":
			if i+1 < len(args) {
				flag = args[i+1]
			}
		case strings.HasPrefix(arg, "--output="):
			flag = strings.TrimPrefix(arg, "--output=")
		case strings.HasPrefix(arg, "-o"):
			flag = strings.TrimPrefix(strings.TrimPrefix(arg, "-o"), "=")
		}
	}
	if flag != "" {
		if f, err := output.ParseFormat(flag); err == nil {
			return f
		}
		return output.Human
	}

	prefs, _ := config.LoadFile(config.Path(configDir(env)))
	if f, err := output.ParseFormat(prefs.Output); err == nil {
		return f
	}
	return output.Human
}

func configDir(env Env) string {
	if dir := env.Getenv(credentials.EnvConfigDir); dir != "" {
		return dir
	}
	return credentials.Dir()
}

// resolveFormat applies --json > --output > preference
func resolveFormat(g Globals, prefs *config.Config) (output.Format, error) {
	switch {
	case g.JSON:
		return output.JSON, nil
	case g.Output != "":
		return output.ParseFormat(g.Output)
	}
	return output.ParseFormat(prefs.Output)
}

// commandName turns "models get <model-id>" into "models.get"
func commandName(path string) string {
	var parts []string
	for _, field := range strings.Fields(path) {
		if strings.HasPrefix(field, "<") || strings.HasPrefix(field, "[") {
			continue
		}
		parts = append(parts, field)
	}
	name := strings.Join(parts, ".")
	if alias, ok := commandAliases[name]; ok {
		return alias
	}
	return name
}
