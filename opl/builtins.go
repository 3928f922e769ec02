package opl

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

func registerStandardBuiltins(e *Engine) {
	e.RegisterBuiltin("Print", -1, builtinPrint)
	e.RegisterBuiltin("Println", -1, builtinPrintln)
	e.RegisterBuiltin("Length", 1, builtinLength)
	e.RegisterBuiltin("StringToInt", 1, builtinStringToInt)
	e.RegisterBuiltin("IntToString", 1, builtinIntToString)
	e.RegisterBuiltin("StringToFloat", 1, builtinStringToFloat)
	e.RegisterBuiltin("FloatToString", 1, builtinFloatToString)
	e.RegisterBuiltin("Input", -1, builtinInput)
	e.RegisterBuiltin("Append", -1, builtinAppend)
	e.RegisterBuiltin("NotNull", 1, builtinNotNull)
}

func writeValues(w io.Writer, args []Value, suffix string) error {
	var b strings.Builder
	for _, arg := range args {
		b.WriteString(arg.String())
	}
	b.WriteString(suffix)
	_, err := io.WriteString(w, b.String())
	return err
}

func builtinPrint(exec *Execution, frame *Scope, args []Value) (Value, error) {
	return NewNull(), writeValues(exec.Stdout(), args, "")
}

func builtinPrintln(exec *Execution, frame *Scope, args []Value) (Value, error) {
	return NewNull(), writeValues(exec.Stdout(), args, "\n")
}

func builtinLength(exec *Execution, frame *Scope, args []Value) (Value, error) {
	switch args[0].Kind() {
	case KindString, KindArray:
		return NewInteger(int32(args[0].Len())), nil
	default:
		return NewNull(), errTypeMismatch("Length needs a String or Array, got %s", args[0].Kind())
	}
}

func builtinStringToInt(exec *Execution, frame *Scope, args []Value) (Value, error) {
	if args[0].Kind() != KindString {
		return NewNull(), errTypeMismatch("StringToInt needs a String, got %s", args[0].Kind())
	}
	n, err := parseInteger(strings.TrimSpace(args[0].String()))
	if err != nil {
		return NewNull(), err
	}
	return NewInteger(n), nil
}

func builtinIntToString(exec *Execution, frame *Scope, args []Value) (Value, error) {
	if args[0].Kind() != KindInteger {
		return NewNull(), errTypeMismatch("IntToString needs an Integer, got %s", args[0].Kind())
	}
	return NewString(args[0].Text()), nil
}

func builtinStringToFloat(exec *Execution, frame *Scope, args []Value) (Value, error) {
	if args[0].Kind() != KindString {
		return NewNull(), errTypeMismatch("StringToFloat needs a String, got %s", args[0].Kind())
	}
	f, err := parseFloat(strings.TrimSpace(args[0].String()))
	if err != nil {
		return NewNull(), err
	}
	return NewFloat(f), nil
}

func builtinFloatToString(exec *Execution, frame *Scope, args []Value) (Value, error) {
	if args[0].Kind() != KindFloat {
		return NewNull(), errTypeMismatch("FloatToString needs a Float, got %s", args[0].Kind())
	}
	return NewString(args[0].Text()), nil
}

// builtinInput prints its arguments as a prompt and reads one line. It
// yields Null once the input is exhausted.
func builtinInput(exec *Execution, frame *Scope, args []Value) (Value, error) {
	if len(args) > 0 {
		if err := writeValues(exec.Stdout(), args, ""); err != nil {
			return NewNull(), err
		}
	}
	line, err := exec.engine.stdin.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return NewNull(), fmt.Errorf("read input: %w", err)
	}
	if err != nil && line == "" {
		return NewNull(), nil
	}
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return NewString(line), nil
}

// builtinAppend pushes its arguments onto the Array bound to `this` and
// returns a copy of the grown array.
func builtinAppend(exec *Execution, frame *Scope, args []Value) (Value, error) {
	this, err := frame.Lookup("this")
	if err != nil || this.Kind() != KindArray {
		return NewNull(), errTypeMismatch("Append must be called on an Array")
	}
	this.appendElements(args...)
	return this.Copy(), nil
}

func builtinNotNull(exec *Execution, frame *Scope, args []Value) (Value, error) {
	return NewBool(!args[0].IsNull()), nil
}
