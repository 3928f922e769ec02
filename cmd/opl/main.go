package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/opl-lang/opl/opl"
)

const version = "0.3.0"

func main() {
	if err := runCLI(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
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
	case "ast":
		return astCommand(args[2:])
	case "repl":
		return replCommand(args[2:])
	case "lsp":
		return runLSP()
	case "version", "-v", "--version":
		fmt.Printf("opl %s\n", version)
		return nil
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
	configPath := fs.String("config", "", "YAML file with run settings")
	logLevel := fs.String("log-level", "", "log level: debug, info, warn or error")
	logFile := fs.String("log-file", "", "write logs to this file instead of stderr")
	steps := fs.Int("steps", -1, "maximum statements to evaluate (0 = unlimited)")
	recursion := fs.Int("recursion", -1, "maximum call depth")
	checkOnly := fs.Bool("check", false, "only compile the script without executing")
	if err := fs.Parse(args); err != nil {
		return err
	}
	remaining := fs.Args()
	if len(remaining) == 0 {
		return errors.New("opl run: script path required")
	}

	cfg := defaultRunConfig()
	if *configPath != "" {
		loaded, err := loadRunConfig(*configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	cfg.applyFlags(*steps, *recursion, *logLevel, *logFile)
	if err := cfg.validate(); err != nil {
		return err
	}

	source, err := readScript(remaining[0])
	if err != nil {
		return err
	}

	logger, closeLog, err := newLogger(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return err
	}
	defer closeLog()

	engine, err := opl.NewEngine(opl.Config{
		StepQuota:      cfg.StepQuota,
		RecursionLimit: cfg.RecursionLimit,
		Stdout:         os.Stdout,
		Stdin:          os.Stdin,
		Logger:         logger,
	})
	if err != nil {
		return fmt.Errorf("configure engine: %w", err)
	}
	script, err := engine.Compile(source)
	if err != nil {
		return fmt.Errorf("compile failed: %w", err)
	}
	if *checkOnly {
		return nil
	}

	logger.Info("run started", "script", remaining[0])
	if err := script.Run(context.Background()); err != nil {
		logger.Error("run failed", "script", remaining[0], "error", err)
		return fmt.Errorf("execution failed: %w", err)
	}
	return nil
}

func astCommand(args []string) error {
	fs := flag.NewFlagSet("ast", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return errors.New("opl ast: script path required")
	}
	source, err := readScript(fs.Arg(0))
	if err != nil {
		return err
	}
	program, err := opl.Parse(source)
	if err != nil {
		return fmt.Errorf("compile failed: %w", err)
	}
	return opl.Dump(os.Stdout, program)
}

func replCommand(args []string) error {
	fs := flag.NewFlagSet("repl", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	plain := fs.Bool("plain", false, "use a line-oriented prompt instead of the full-screen UI")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *plain {
		return runShell()
	}
	return runREPL()
}

func readScript(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve script path: %w", err)
	}
	input, err := os.ReadFile(abs)
	if err != nil {
		return "", fmt.Errorf("read script: %w", err)
	}
	return string(input), nil
}

func usageError() error {
	printUsage()
	return errors.New("invalid command")
}

func printUsage() {
	prog := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [flags] [args]\n", prog)
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  run [flags] <script>       execute a script")
	fmt.Fprintln(os.Stderr, "  check <script>             parse a script and report lint warnings")
	fmt.Fprintln(os.Stderr, "  fmt [-w] [-check] <path>   normalise whitespace in .opl files")
	fmt.Fprintln(os.Stderr, "  ast <script>               print the syntax tree")
	fmt.Fprintln(os.Stderr, "  repl [-plain]              start an interactive session")
	fmt.Fprintln(os.Stderr, "  lsp                        serve the language server protocol on stdio")
	fmt.Fprintln(os.Stderr, "  version                    print the version")
	fmt.Fprintln(os.Stderr, "Run flags:")
	fmt.Fprintln(os.Stderr, "  -config <file>      YAML settings (step_quota, recursion_limit, log_level, log_file)")
	fmt.Fprintln(os.Stderr, "  -steps <n>          maximum statements to evaluate (0 = unlimited)")
	fmt.Fprintln(os.Stderr, "  -recursion <n>      maximum call depth")
	fmt.Fprintln(os.Stderr, "  -log-level <level>  debug, info, warn or error (default warn)")
	fmt.Fprintln(os.Stderr, "  -log-file <file>    append JSON logs to a file")
	fmt.Fprintln(os.Stderr, "  -check              only compile the script without executing")
}

type flagErrorSink struct{}

func (flagErrorSink) Write(p []byte) (int, error) {
	return len(p), nil
}
