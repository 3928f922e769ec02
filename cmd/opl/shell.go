package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/opl-lang/opl/opl"
	"github.com/peterh/liner"
)

const (
	historyFile = ".opl_history"
	promptMain  = "opl> "
	promptCont  = "...> "
)

// prompter is the part of *liner.State the shell loop reads from.
type prompter interface {
	Prompt(prompt string) (string, error)
}

func runShell() error {
	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	engine, err := opl.NewEngine(opl.Config{Stdout: os.Stdout, Stdin: os.Stdin})
	if err != nil {
		return err
	}
	session := engine.NewSession()
	ln.SetCompleter(func(line string) []string {
		start := strings.LastIndexFunc(line, func(r rune) bool { return !isWordRune(r) }) + 1
		if start == len(line) {
			return nil
		}
		var out []string
		for _, name := range completionCandidates(engine, session, line[start:]) {
			out = append(out, line[:start]+name)
		}
		return out
	})

	fmt.Printf("OPL %s. Type :quit to exit.\n", version)
	shellLoop(ln, session, os.Stdout, os.Stderr, ln.AppendHistory)
	return nil
}

// shellLoop reads entries until end of input or :quit, evaluating each
// against session. Values other than Null are echoed to out.
func shellLoop(p prompter, session *opl.Session, out, errOut io.Writer, remember func(string)) {
	for {
		code, ok := readByParseProbe(p, promptMain, promptCont)
		if !ok {
			fmt.Fprintln(out)
			return
		}

		trimmed := strings.TrimSpace(code)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, ":") {
			switch strings.ToLower(trimmed) {
			case ":quit", ":q":
				return
			case ":reset":
				session.Reset()
				fmt.Fprintln(out, "Environment reset")
			default:
				fmt.Fprintln(out, "unknown command. Type :quit to exit.")
			}
			continue
		}

		if remember != nil {
			remember(strings.ReplaceAll(code, "\n", " "))
		}
		v, err := session.Eval(context.Background(), code)
		if err != nil {
			fmt.Fprintln(errOut, err.Error())
			continue
		}
		if !v.IsNull() {
			fmt.Fprintln(out, v.String())
		}
	}
}

// readByParseProbe keeps prompting with the continuation prompt while the
// buffered source fails to parse only because it ended too early.
func readByParseProbe(p prompter, prompt, cont string) (string, bool) {
	var b strings.Builder

	for {
		current := prompt
		if b.Len() > 0 {
			current = cont
		}
		line, err := p.Prompt(current)
		if errors.Is(err, io.EOF) {
			if b.Len() > 0 {
				return b.String(), true
			}
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			return "", false
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if _, perr := opl.Parse(src); perr != nil && opl.IsIncomplete(perr) {
			continue
		}
		return src, true
	}
}
