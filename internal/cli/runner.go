package cli

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/idilsaglam/tada/internal/config"
	"github.com/idilsaglam/tada/internal/logging"
	"github.com/idilsaglam/tada/internal/model"
	"github.com/idilsaglam/tada/internal/script"
	"github.com/idilsaglam/tada/internal/store"
	"github.com/idilsaglam/tada/internal/tui"
	"github.com/idilsaglam/tada/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Env carries the process streams so the runner can be driven from tests.
type Env struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	// Interactive starts the terminal UI. Defaults to tui.Run.
	Interactive func(ctx context.Context, cfg *config.Config, log *logging.Logger) error
}

// Main parses root flags, loads config and dispatches the subcommand.
// It returns an exit code (0 ok, 1 error, 2 usage).
func Main(ctx context.Context, argv []string, env Env) int {
	if env.Stdin == nil {
		env.Stdin = os.Stdin
	}
	if env.Stdout == nil {
		env.Stdout = os.Stdout
	}
	if env.Stderr == nil {
		env.Stderr = os.Stderr
	}
	if env.Interactive == nil {
		env.Interactive = tui.Run
	}
	ui.SetOutput(env.Stdout, env.Stderr)

	fs := flag.NewFlagSet("todo", flag.ContinueOnError)
	fs.SetOutput(env.Stderr)
	fs.Usage = func() { PrintHelp(env.Stderr); fs.PrintDefaults() }

	cfg, err := config.Load(fs, argv)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		ui.Fail("config: " + err.Error())
		return 2
	}
	ui.SetTheme(cfg.Theme)
	if cfg.NoColor {
		ui.SetColorForcing(false, true)
	}

	args := fs.Args()
	cmd := "ui"
	if len(args) > 0 {
		cmd, args = args[0], args[1:]
	}

	// The TUI owns the terminal, so it only logs to a file.
	fallback := env.Stderr
	if cmd == "ui" {
		fallback = nil
	}
	log, err := logging.New(logging.Options{
		Level:      cfg.LogLevel,
		Format:     cfg.LogFormat,
		File:       cfg.LogFile,
		Timestamps: cfg.LogTimestamps,
		Fallback:   fallback,
	})
	if err != nil {
		ui.Fail("log: " + err.Error())
		return 1
	}
	defer log.Close()
	if cfg.ConfigFile != "" {
		log.Debug("config loaded", "file", cfg.ConfigFile)
	}

	return Run(ctx, cmd, args, cfg, log, env)
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(ctx context.Context, cmd string, args []string, cfg *config.Config, log *logging.Logger, env Env) int {
	switch cmd {
	case "help", "-h", "--help":
		PrintHelp(env.Stdout)
		return 0

	case "version":
		fmt.Fprintln(env.Stdout, "todo", Version)
		return 0

	case "ui":
		if len(args) != 0 {
			ui.Fail("usage: todo [flags] ui")
			return 2
		}
		if err := env.Interactive(ctx, cfg, log); err != nil {
			log.Error("tui failed", "err", err)
			ui.Fail("tui: " + err.Error())
			return 1
		}
		return 0

	case "replay":
		return doReplay(args, cfg, log, env)
	}

	ui.Fail("unknown subcommand: " + cmd)
	fmt.Fprintln(env.Stderr)
	PrintHelp(env.Stderr)
	return 2
}

func PrintHelp(w io.Writer) {
	fmt.Fprintf(w, `todo - a tiny in-memory todo list with countdowns

Usage:
  todo [flags] [subcommand] [args]

Subcommands:
  ui                        Interactive list (default)
  replay [-json] <file|->   Apply an action script (JSON or YAML) and print the result
  version                   Print the version

Flags:
  -variant basic|edit|timer   widget generation (default timer)
  -limit N                    countdown for new items, in seconds
  -interval D                 tick interval, e.g. 1s
  -theme classic|neon|mono    replay output theme
  -config PATH                config file (default ./tada.toml)
  -log-level, -log-format, -log-file

Examples:
  todo -variant edit
  todo replay demo.yaml
  echo '{"actions":[{"type":"set_draft","text":"milk"},{"type":"add"}]}' | todo replay -
`)
}

// -------------- subcommand impls ----------------

func doReplay(args []string, cfg *config.Config, log *logging.Logger, env Env) int {
	fs := flag.NewFlagSet("replay", flag.ContinueOnError)
	fs.SetOutput(env.Stderr)
	asJSON := fs.Bool("json", false, "print the final items as JSON")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		ui.Fail("usage: todo replay [-json] <file|->")
		return 2
	}
	path := fs.Arg(0)

	sc, err := script.Load(path, env.Stdin)
	if err != nil {
		log.Error("script rejected", "path", path, "err", err)
		ui.Fail("replay: " + err.Error())
		return 1
	}

	// Script settings override the config.
	opts := cfg.ReducerOptions()
	scOpts, err := sc.Options()
	if err != nil {
		ui.Fail("replay: " + err.Error())
		return 1
	}
	r := store.New(append(opts, scOpts...)...)

	s, n := sc.Replay(r, store.Initial(), func(i int, a store.Action, next store.State) {
		log.Debug("step", "n", i, "action", a.Kind(), "items", next.Len())
	})
	log.Info("replayed", "path", path, "variant", r.Variant(), "actions", n, "items", s.Len())

	if *asJSON {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		items := s.Items
		if items == nil {
			items = []model.Item{}
		}
		if err := enc.Encode(items); err != nil {
			ui.Fail("json marshal: " + err.Error())
			return 1
		}
		return 0
	}
	ui.Panel(env.Stdout, stateLines(s, r))
	ui.OK(fmt.Sprintf("replayed %d actions", n))
	return 0
}

// -------------- rendering helpers --------------

func stateLines(s store.State, r *store.Reducer) []string {
	t := ui.Current()
	header := fmt.Sprintf("%s  %s %d  %s",
		ui.C(t.Title, "Todos"),
		ui.C(t.Accent, "Total"), s.Len(),
		ui.C(t.Muted, r.Variant().String()),
	)
	lines := []string{header, ""}
	lines = append(lines, itemLines(s.Items, r)...)
	if s.Draft != "" {
		lines = append(lines, "", ui.C(t.Muted, "draft: ")+s.Draft)
	}
	return lines
}

func itemLines(items []model.Item, r *store.Reducer) []string {
	t := ui.Current()
	if len(items) == 0 {
		return []string{ui.C(t.Muted, "no items")}
	}
	timed := r.Variant() == store.Timed
	out := make([]string, 0, len(items))
	for i, it := range items {
		idx := fmt.Sprintf("%2d.", i+1)
		text := it.Text
		if rs := []rune(text); len(rs) > 80 {
			text = string(rs[:77]) + "..."
		}
		line := fmt.Sprintf("%s %s %s", ui.Dim(idx), ui.C(t.Muted, t.Bullet), text)
		if timed {
			color := t.Pending
			if it.Remaining <= 3 {
				color = t.Error
			}
			line += "  " + ui.C(color, t.Clock+" "+ui.Countdown(it.Remaining, r.TimeLimit(), 10))
		}
		out = append(out, line)
	}
	return out
}
