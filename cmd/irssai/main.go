package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"golang.org/x/term"
)

// Information to find out exactly which commit the binary was built from.
// These are filled at build time with the -X linker flag.
var (
	Tag       = "unknown"
	Commit    = "unknown"
	BuildTime = "unknown"
)

type options struct {
	configPath string
	bots       []string
	noColor    bool
	logLevel   string
}

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	var opts options
	var showVersion bool

	flagSet := pflag.NewFlagSet("irssai", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.StringVarP(&opts.configPath, "config", "c", "", "path to a YAML or JSON5 config file (default: built-in GPT and Ollama bots)")
	flagSet.StringSliceVarP(&opts.bots, "bot", "b", nil, "bot to talk to, repeatable (default: all configured bots)")
	flagSet.BoolVar(&opts.noColor, "no-color", false, "disable ANSI colors")
	flagSet.StringVar(&opts.logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")
	flagSet.BoolVar(&showVersion, "version", false, "print version and exit")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if showVersion {
		fmt.Fprintf(stdout, "irssai %s (commit %s, built %s)\n", Tag, Commit, BuildTime)
		return nil
	}
	if rest := flagSet.Args(); len(rest) > 0 {
		return fmt.Errorf("unexpected argument: %s", rest[0])
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return chat(ctx, opts, stdin, stdout, stderr, isTerminal(stdout))
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
