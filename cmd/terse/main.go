package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/mgomes/tersescript/terse"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := runCLI(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, renderError(err))
		os.Exit(1)
	}
}

func runCLI(args []string) error {
	if len(args) < 2 {
		return usageError()
	}
	switch args[1] {
	case "run":
		return runCommand(args[2:])
	case "check":
		return checkCommand(args[2:])
	case "fmt":
		return fmtCommand(args[2:])
	case "analyze":
		return analyzeCommand(args[2:])
	case "repl":
		return replCommand(args[2:])
	case "help", "-h", "--help":
		printUsage()
		return nil
	default:
		return usageError()
	}
}

func runCommand(args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	var flags runFlags
	flags.register(fs)
	dumpJSON := fs.Bool("json", false, "print the global scope as JSON after each script")
	if err := fs.Parse(args); err != nil {
		return err
	}
	paths := fs.Args()
	if len(paths) == 0 {
		return errors.New("terse run: script path required")
	}

	cfg, err := flags.resolve(fs)
	if err != nil {
		return err
	}
	logger, err := newLogger(os.Stderr, cfg.LogLevel)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// A single script streams its output; several run concurrently and
	// print in argument order once they finish.
	if len(paths) == 1 {
		engineCfg := cfg.engineConfig(logger, 0)
		engineCfg.Stdout = os.Stdout
		result, err := runScriptFile(ctx, paths[0], engineCfg)
		if err != nil {
			return err
		}
		if *dumpJSON {
			return writeGlobalsJSON(os.Stdout, result.Globals)
		}
		return nil
	}

	jobs := cfg.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	results := make([]*terse.Result, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, path := range paths {
		g.Go(func() error {
			result, err := runScriptFile(gctx, path, cfg.engineConfig(logger, i))
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}
	waitErr := g.Wait()

	for _, result := range results {
		if result == nil {
			break
		}
		for _, line := range result.Output {
			fmt.Println(line)
		}
		if *dumpJSON {
			if err := writeGlobalsJSON(os.Stdout, result.Globals); err != nil {
				return err
			}
		}
	}
	return waitErr
}

func runScriptFile(ctx context.Context, path string, cfg terse.Config) (*terse.Result, error) {
	script, err := compileFile(path, cfg)
	if err != nil {
		return nil, err
	}
	result, err := script.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: execution failed: %w", path, err)
	}
	return result, nil
}

func compileFile(path string, cfg terse.Config) (*terse.Script, error) {
	input, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	engine, err := terse.NewEngine(cfg)
	if err != nil {
		return nil, err
	}
	script, err := engine.Compile(string(input))
	if err != nil {
		return nil, fmt.Errorf("%s: compile failed: %w", path, err)
	}
	return script, nil
}

// writeGlobalsJSON prints the global scope as one JSON object with names in
// sorted order.
func writeGlobalsJSON(w io.Writer, globals *terse.Env) error {
	names := globals.Names()
	values := make([]terse.Value, len(names))
	for i, name := range names {
		values[i], _ = globals.Get(name)
	}
	data, err := json.MarshalIndent(terse.NewMap(names, values), "", "  ")
	if err != nil {
		return fmt.Errorf("encode globals: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func checkCommand(args []string) error {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	if err := fs.Parse(args); err != nil {
		return err
	}
	paths := fs.Args()
	if len(paths) == 0 {
		return errors.New("terse check: script path required")
	}
	for _, path := range paths {
		if _, err := compileFile(path, terse.Config{}); err != nil {
			return err
		}
		fmt.Printf("%s: ok\n", path)
	}
	return nil
}

func usageError() error {
	printUsage()
	return errors.New("invalid command")
}

func printUsage() {
	prog := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [flags] [args...]\n", prog)
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  run <script>...     run scripts and print their output")
	fmt.Fprintln(os.Stderr, "  check <script>...   parse scripts without running them")
	fmt.Fprintln(os.Stderr, "  fmt <path>...       normalize indentation and whitespace")
	fmt.Fprintln(os.Stderr, "  analyze <script>    report unreachable code and bad jumps")
	fmt.Fprintln(os.Stderr, "  repl                start an interactive session")
	fmt.Fprintln(os.Stderr, "Run flags:")
	fmt.Fprintln(os.Stderr, "  -config <file>        YAML config (default $TERSE_CONFIG or .terse.yaml)")
	fmt.Fprintln(os.Stderr, "  -json                 print globals as JSON after each script")
	fmt.Fprintln(os.Stderr, "  -jobs <n>             scripts to run concurrently")
	fmt.Fprintln(os.Stderr, "  -seed <n>             seed RAND for reproducible runs")
	fmt.Fprintln(os.Stderr, "  -step-quota <n>       abort after n statements")
	fmt.Fprintln(os.Stderr, "  -recursion-limit <n>  maximum call depth")
	fmt.Fprintln(os.Stderr, "  -exec-timeout <d>     timeout for each EXEC command")
	fmt.Fprintln(os.Stderr, "  -no-exec              disable the EXEC builtins")
	fmt.Fprintln(os.Stderr, "  -log-level <level>    debug, info, warn or error")
}

// renderError colors the headline of an error and leaves code frames and
// stack lines plain.
func renderError(err error) string {
	head, rest, found := strings.Cut(err.Error(), "\n")
	out := errorStyle.Render(head)
	if found {
		out += "\n" + rest
	}
	return out
}

type flagErrorSink struct{}

func (flagErrorSink) Write(p []byte) (int, error) {
	return len(p), nil
}
