// Package main is the entry point for the spanbuf command.
//
// spanbuf runs Lua against a marker-tracking buffer: either a script file
// (optionally re-run whenever it changes) or chunks typed line by line on
// standard input.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/dshills/spanbuf/internal/config"
	"github.com/dshills/spanbuf/internal/logging"
	"github.com/dshills/spanbuf/internal/watch"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// options holds the parsed command line.
type options struct {
	ConfigPath string
	Text       string
	TextFile   string
	ScriptPath string
	Watch      bool
	Dump       bool
	LogLevel   string
	Timeout    time.Duration
}

func main() {
	os.Exit(run())
}

func run() int {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	switch {
	case errors.Is(err, errStop), errors.Is(err, flag.ErrHelp):
		return 0
	case err != nil:
		return 2
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}
	if opts.Watch {
		cfg.Script.Watch = true
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	log := logging.New(logging.Config{Level: cfg.LogLevel(), Output: os.Stderr, Prefix: "spanbuf"})

	text := opts.Text
	if opts.TextFile != "" {
		data, err := os.ReadFile(opts.TextFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		text = string(data)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app := &app{
		cfg:     cfg,
		log:     log,
		text:    text,
		dump:    opts.Dump,
		timeout: opts.Timeout,
		out:     os.Stdout,
		errOut:  os.Stderr,
	}

	switch {
	case opts.ScriptPath != "" && cfg.Script.Watch:
		err = app.watchScript(ctx, opts.ScriptPath)
	case opts.ScriptPath != "":
		err = app.runScript(ctx, opts.ScriptPath)
	default:
		err = app.repl(ctx, os.Stdin, term.IsTerminal(int(os.Stdin.Fd())))
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// errStop ends the program successfully after flag parsing, e.g. -version.
var errStop = errors.New("stop")

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	var showVersion bool

	fs := flag.NewFlagSet("spanbuf", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.ConfigPath, "config", "", "Path to configuration file")
	fs.StringVar(&opts.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	fs.StringVar(&opts.Text, "text", "", "Initial buffer text")
	fs.StringVar(&opts.TextFile, "text-file", "", "Read the initial buffer text from a file")
	fs.StringVar(&opts.ScriptPath, "script", "", "Lua script to run instead of reading stdin")
	fs.BoolVar(&opts.Watch, "watch", false, "Re-run the script whenever it changes")
	fs.BoolVar(&opts.Dump, "dump", false, "Print the buffer state as JSON after each run")
	fs.StringVar(&opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.DurationVar(&opts.Timeout, "timeout", 0, "Abort a script run after this long (0 = no limit)")
	fs.BoolVar(&showVersion, "version", false, "Show version information")
	fs.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "spanbuf - scriptable marker-tracking text buffer\n\n")
		fmt.Fprintf(stderr, "Usage: spanbuf [options]\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  spanbuf -text 'hello'                 Lua prompt over \"hello\"\n")
		fmt.Fprintf(stderr, "  spanbuf -script edit.lua -dump        Run a script and dump the result\n")
		fmt.Fprintf(stderr, "  spanbuf -script edit.lua -watch       Re-run on every save\n")
	}

	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	if showVersion {
		fmt.Fprintf(stderr, "spanbuf %s\nCommit: %s\nBuilt: %s\n", version, commit, date)
		return opts, errStop
	}

	var err error
	switch {
	case opts.LogLevel != "" && !validLevel(opts.LogLevel):
		err = fmt.Errorf("invalid log level %q (must be debug, info, warn, or error)", opts.LogLevel)
	case opts.Watch && opts.ScriptPath == "":
		err = errors.New("-watch requires -script")
	case fs.NArg() > 0:
		err = fmt.Errorf("unexpected arguments %v", fs.Args())
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	return opts, err
}

func validLevel(s string) bool {
	_, ok := logging.ParseLevel(s)
	return ok
}

// watchScript re-runs the script on every settled change until ctx ends.
func (a *app) watchScript(ctx context.Context, path string) error {
	w, err := watch.New(path, watch.WithLogger(a.log))
	if err != nil {
		return err
	}
	defer w.Close()

	if err := a.runScript(ctx, path); err != nil {
		fmt.Fprintf(a.errOut, "Error: %v\n", err)
	}
	a.log.Info("watching %s", w.Path())

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.Changes():
			a.log.Info("%s changed, re-running", path)
			if err := a.runScript(ctx, path); err != nil {
				fmt.Fprintf(a.errOut, "Error: %v\n", err)
			}
		case err := <-w.Errors():
			a.log.Warn("watch: %v", err)
		}
	}
}
