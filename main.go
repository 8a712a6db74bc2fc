package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/goforj/godump"

	"github.com/jcorbin/tinybasic/internal/arena"
	"github.com/jcorbin/tinybasic/internal/console"
	"github.com/jcorbin/tinybasic/internal/expr"
	"github.com/jcorbin/tinybasic/internal/fileinput"
	"github.com/jcorbin/tinybasic/internal/library"
	"github.com/jcorbin/tinybasic/internal/logio"
)

func main() {
	ctx := context.Background()
	log := logio.NewLogger(os.Stderr)

	var cfg Config
	var configPath string
	flag.StringVar(&configPath, "config", "", "load settings from a TOML file")
	flag.IntVar(&cfg.ArenaSize, "arena", arena.DefaultSize, "program memory size in bytes")
	flag.IntVar(&cfg.MaxTokens, "tokens", expr.DefaultMaxTokens, "expression token limit")
	flag.BoolVar(&cfg.Trace, "trace", false, "enable trace logging")
	flag.BoolVar(&cfg.TraceTokens, "trace-tokens", false, "dump expression tokens after each evaluation pass")
	flag.DurationVar(&cfg.Timeout, "timeout", 0, "specify a time limit")
	flag.StringVar(&cfg.Library, "library", "", "directory of programs for SAVE and LOAD")
	flag.StringVar(&cfg.SQLite, "sqlite", "", "SQLite database of programs for SAVE and LOAD")
	flag.StringVar(&cfg.History, "history", "", "file to keep interactive history in")
	flag.BoolVar(&cfg.Stats, "stats", false, "report statistics about the last run on exit")
	flag.BoolVar(&cfg.Dump, "dump", false, "dump interpreter state on exit")
	flag.Parse()

	if configPath != "" {
		set := make(map[string]bool)
		flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
		log.ErrorIf(cfg.load(configPath, set))
	}
	if log.ExitCode() == 0 {
		log.ErrorIf(cfg.check())
	}
	if log.ExitCode() == 0 {
		log.ErrorIf(run(ctx, cfg, flag.Args(), log))
	}
	os.Exit(log.ExitCode())
}

func run(ctx context.Context, cfg Config, files []string, log *logio.Logger) error {
	opts := []VMOption{
		WithArenaSize(cfg.ArenaSize),
		WithMaxTokens(cfg.MaxTokens),
		WithOutput(os.Stdout),
	}
	if cfg.Trace {
		opts = append(opts, WithLogf(log.Leveledf("TRACE")))
	}
	if cfg.TraceTokens {
		opts = append(opts, WithTokenTrace(dumpTokens))
	}

	lib, err := openLibrary(cfg)
	if err != nil {
		return err
	}
	if lib != nil {
		opts = append(opts, WithLibrary(lib))
	}

	interactive := console.IsTerminal(os.Stdin) && console.IsTerminal(os.Stdout)
	var intr *console.Interrupt
	if interactive {
		intr = console.NotifyInterrupt()
		defer intr.Stop()
		opts = append(opts, WithInput(console.NewTerminal(os.Stdin, int(os.Stdin.Fd()), intr)))
	} else {
		opts = append(opts, WithInput(os.Stdin))
	}

	vm := New(opts...)
	defer func() { log.ErrorIf(vm.Close()) }()
	defer func() {
		if cfg.Stats {
			reportStats(log, vm.Stats())
		}
		if cfg.Dump {
			vmDumper{vm: vm, out: os.Stderr, rawRecords: true}.dump()
		}
	}()

	if cfg.Timeout != 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	if len(files) > 0 {
		in := fileinput.Input{}
		defer in.Close()
		for _, name := range files {
			f, err := os.Open(name)
			if err != nil {
				return err
			}
			in.Queue = append(in.Queue, f)
		}
		if err := vm.Interpret(ctx, &in); err != nil {
			return err
		}
		if !interactive {
			return nil
		}
	}

	if !interactive {
		return vm.Run(ctx)
	}

	fmt.Printf("\nTiny BASIC\nExpression limit: %d tokens\nCode memory: %d bytes\n\n",
		cfg.MaxTokens, cfg.ArenaSize)
	sh := newShell(cfg.History, intr)
	err = vm.Interpret(ctx, sh)
	if cerr := sh.Close(); err == nil {
		err = cerr
	}
	if err == io.EOF {
		err = nil
	}
	return err
}

func openLibrary(cfg Config) (library.Library, error) {
	switch {
	case cfg.SQLite != "":
		lib, err := library.OpenSQLite(cfg.SQLite)
		if err != nil {
			return nil, err
		}
		return lib, nil
	case cfg.Library != "":
		return library.Dir(cfg.Library), nil
	}
	return nil, nil
}

type tokenPass struct {
	Pass   string
	Tokens string
}

func dumpTokens(pass string, toks []expr.Token) {
	godump.Dump(tokenPass{Pass: pass, Tokens: expr.Tokens(toks)})
}
