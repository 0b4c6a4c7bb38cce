package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/idilsaglam/todomvc/internal/app"
	"github.com/idilsaglam/todomvc/internal/config"
	"github.com/idilsaglam/todomvc/internal/logging"
	"github.com/idilsaglam/todomvc/internal/store/jsonstore"
	"github.com/idilsaglam/todomvc/internal/tui"
	"github.com/idilsaglam/todomvc/internal/ui"
)

// Options carry the loaded config and the process streams.
type Options struct {
	Config *config.Config
	Logger *log.Logger
	In     io.Reader
	Out    io.Writer
	Err    io.Writer
}

func (o *Options) defaults() {
	if o.In == nil {
		o.In = os.Stdin
	}
	if o.Out == nil {
		o.Out = os.Stdout
	}
	if o.Err == nil {
		o.Err = os.Stderr
	}
	if o.Logger == nil {
		o.Logger = logging.NewFromConfig(o.Err, o.Config.LogLevel, o.Config.LogFormat)
	}
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(ctx context.Context, args []string, opt Options) int {
	opt.defaults()
	ui.SetTheme(opt.Config.Theme)
	ui.SetColorForcing(false, opt.Config.NoColor)

	cmd, a := "run", []string(nil)
	if len(args) > 0 {
		cmd, a = args[0], args[1:]
	}

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp(opt.Out)
		return 0

	case "run":
		if len(a) != 0 {
			ui.Fail(opt.Err, "usage: todomvc run")
			return 2
		}
		return doRun(ctx, opt)

	case "script":
		if len(a) > 1 {
			ui.Fail(opt.Err, "usage: todomvc script [file]")
			return 2
		}
		in := opt.In
		if len(a) == 1 && a[0] != "-" {
			f, err := os.Open(a[0])
			if err != nil {
				ui.Fail(opt.Err, "open: "+err.Error())
				return 1
			}
			defer f.Close()
			in = f
		}
		return doScript(in, opt)
	}

	ui.Fail(opt.Err, "unknown subcommand: "+cmd)
	fmt.Fprintln(opt.Err)
	PrintHelp(opt.Err)
	return 2
}

func PrintHelp(w io.Writer) {
	fmt.Fprintf(w, `todomvc - TodoMVC in the terminal

Usage:
  todomvc [flags] [subcommand]

Subcommands:
  run                Interactive list (default)
  script [file]      Run commands from file (or stdin) and print the list
  help               Show this help

Script commands:
  add <text>         Add a todo (empty text is rejected)
  toggle <n>         Toggle the n-th visible todo
  rm <n>             Remove the n-th visible todo
  edit <n> [text]    Replace its content; empty text removes it
  toggle-all         Complete all, or reactivate all if all are completed
  clear-completed    Remove completed todos
  filter <name>      all, active or completed
  ls                 Print the list

Flags:
  --config <file>    TOML config file
  --mode <mode>      production or development (traces store mutations)
  --filter <name>    Initial filter
  --seed <file>      JSON file with initial todos (never written back)
  --theme <name>     classic, neon or mono
  --no-color         Disable colored output
  --log-level, --log-format, --trace-file

Examples:
  todomvc
  printf 'add Buy milk\nadd Walk dog\ntoggle 1\nls\n' | todomvc script
  todomvc --seed todos.json --filter active
`)
}

// newApp builds the stores from config. console receives mutation traces in
// development mode; pass nil when the terminal belongs to the TUI.
func newApp(opt Options, console *log.Logger) (*app.App, *logging.Tracer, error) {
	cfg := opt.Config
	filter, err := cfg.InitialFilter()
	if err != nil {
		return nil, nil, err
	}
	opts := []app.Option{app.WithFilter(filter)}

	if cfg.SeedFile != "" {
		todos, err := jsonstore.Load(cfg.SeedFile)
		if err != nil {
			return nil, nil, fmt.Errorf("seed: %w", err)
		}
		opts = append(opts, app.WithSeed(todos))
		opt.Logger.Debug("loaded seed", "file", cfg.SeedFile, "todos", len(todos))
	}

	var tracer *logging.Tracer
	if cfg.Development() {
		tracer, err = logging.NewTracer(console, cfg.TraceFile)
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, app.WithTracer(tracer))
	}

	a, err := app.New(opts...)
	if err != nil {
		tracer.Close()
		return nil, nil, err
	}
	return a, tracer, nil
}

func doRun(ctx context.Context, opt Options) int {
	a, tracer, err := newApp(opt, nil)
	if err != nil {
		ui.Fail(opt.Err, err.Error())
		return 1
	}
	defer tracer.Close()

	if err := tui.Run(ctx, a, tui.Options{In: opt.In, Out: opt.Out}); err != nil {
		ui.Fail(opt.Err, "tui: "+err.Error())
		return 1
	}
	return 0
}

func doScript(in io.Reader, opt Options) int {
	a, tracer, err := newApp(opt, opt.Logger)
	if err != nil {
		ui.Fail(opt.Err, err.Error())
		return 1
	}
	defer tracer.Close()
	return runScript(a, in, opt.Out, opt.Err)
}
