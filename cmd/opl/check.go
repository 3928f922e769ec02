package main

import (
	"errors"
	"flag"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/opl-lang/opl/opl"
)

type lintWarning struct {
	Function string
	Pos      opl.Position
	Message  string
}

func checkCommand(args []string) error {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	if err := fs.Parse(args); err != nil {
		return err
	}

	remaining := fs.Args()
	if len(remaining) == 0 {
		return errors.New("opl check: script path required")
	}

	scriptPath, err := filepath.Abs(remaining[0])
	if err != nil {
		return fmt.Errorf("resolve script path: %w", err)
	}
	source, err := readScript(scriptPath)
	if err != nil {
		return err
	}

	program, err := opl.Parse(source)
	if err != nil {
		return fmt.Errorf("check compile failed: %w", err)
	}

	warnings := lintProgram(program)
	if len(warnings) == 0 {
		fmt.Println("No issues found")
		return nil
	}

	for _, warning := range warnings {
		line := max(warning.Pos.Line, 1)
		column := max(warning.Pos.Column, 1)
		fmt.Printf("%s:%d:%d: %s (%s)\n", scriptPath, line, column, warning.Message, warning.Function)
	}

	return fmt.Errorf("check found %d issue(s)", len(warnings))
}

func lintProgram(program *opl.Program) []lintWarning {
	warnings := make([]lintWarning, 0)
	lintStatements("<script>", program.Statements, &warnings)

	sort.SliceStable(warnings, func(i, j int) bool {
		if warnings[i].Pos.Line != warnings[j].Pos.Line {
			return warnings[i].Pos.Line < warnings[j].Pos.Line
		}
		if warnings[i].Pos.Column != warnings[j].Pos.Column {
			return warnings[i].Pos.Column < warnings[j].Pos.Column
		}
		return warnings[i].Function < warnings[j].Function
	})

	return warnings
}

// lintStatements reports statements that can never run and returns whether
// the sequence always ends in return, break or continue.
func lintStatements(function string, statements []opl.Statement, warnings *[]lintWarning) bool {
	terminated := false
	for _, stmt := range statements {
		if terminated {
			*warnings = append(*warnings, lintWarning{
				Function: function,
				Pos:      stmt.Pos(),
				Message:  "unreachable statement",
			})
			continue
		}
		if statementTerminates(function, stmt, warnings) {
			terminated = true
		}
	}
	return terminated
}

func statementTerminates(function string, stmt opl.Statement, warnings *[]lintWarning) bool {
	switch typed := stmt.(type) {
	case *opl.ReturnStmt, *opl.BreakStmt, *opl.ContinueStmt:
		return true
	case *opl.BlockStmt:
		return lintStatements(function, typed.Statements, warnings)
	case *opl.IfStmt:
		consequent := lintStatements(function, typed.Consequent.Statements, warnings)
		if typed.Alternate == nil {
			return false
		}
		alternate := lintStatements(function, typed.Alternate.Statements, warnings)
		return consequent && alternate
	case *opl.WhileStmt:
		lintStatements(function, typed.Body.Statements, warnings)
		return false
	case *opl.ForStmt:
		lintStatements(function, typed.Body.Statements, warnings)
		return false
	case *opl.FunctionStmt:
		lintStatements(typed.Name, typed.Body.Statements, warnings)
		return false
	case *opl.ClassStmt:
		for _, member := range typed.Members {
			if method, ok := member.Node.(*opl.FunctionStmt); ok {
				lintStatements(typed.Name+"."+method.Name, method.Body.Statements, warnings)
			}
		}
		return false
	default:
		return false
	}
}
