package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/jcorbin/tinybasic/internal/console"
	"github.com/jcorbin/tinybasic/internal/expr"
	"github.com/jcorbin/tinybasic/internal/fileinput"
	"github.com/jcorbin/tinybasic/internal/library"
	"github.com/jcorbin/tinybasic/internal/panicerr"
)

func New(opts ...VMOption) *VM {
	var vm VM
	defaultOptions.apply(&vm)
	VMOptions(opts...).apply(&vm)
	vm.init()
	return &vm
}

// LineSource supplies entered lines to Interpret.
type LineSource interface {
	ReadLine() ([]byte, error)
}

// Run interprets lines read from the VM's input until it is exhausted.
func (vm *VM) Run(ctx context.Context) error {
	return vm.Interpret(ctx, inputLines{vm})
}

// Interpret executes every line read from src, reporting statement errors to
// the VM's output and continuing. If src can report the Location of the last
// line read, errors are reported along with it.
//
// Returns nil once src is exhausted. Any other error returned, like context
// cancellation or a corrupt program arena, leaves the VM unable to continue.
func (vm *VM) Interpret(ctx context.Context, src LineSource) error {
	for {
		line, err := src.ReadLine()
		if errors.Is(err, io.EOF) {
			return nil
		} else if errors.Is(err, console.ErrLineTooLong) {
			vm.Report(err)
			continue
		} else if err != nil {
			return err
		}
		if err := vm.Exec(ctx, line); err != nil {
			if fatal(err) {
				return err
			}
			if loc, ok := src.(interface{ Location() fileinput.Location }); ok {
				err = fileinput.LineError{Location: loc.Location(), Err: err}
			}
			vm.Report(err)
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
}

// Exec executes one entered line: a numbered line is stored, deleting the
// line if no text follows the number; anything else is executed
// immediately.
func (vm *VM) Exec(ctx context.Context, line []byte) error {
	err := panicerr.Recover("VM", func() error {
		return vm.exec(ctx, line)
	})
	var halted haltError
	if errors.As(err, &halted) {
		err = halted.error
	}
	if ferr := vm.out.Flush(); err == nil && ferr != nil {
		err = outputError{ferr}
	}
	return err
}

// Report writes a statement error to the VM's output.
func (vm *VM) Report(err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(vm.out, err)
	vm.out.Flush()
}

func fatal(err error) bool {
	var outErr outputError
	return panicerr.IsPanic(err) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.As(err, &outErr)
}

type inputLines struct{ vm *VM }

func (il inputLines) ReadLine() ([]byte, error) { return il.vm.in.ReadLine(0) }

func WithInput(r io.Reader) VMOption           { return withInput(r) }
func WithOutput(w io.Writer) VMOption          { return withOutput(w) }
func WithTee(w io.Writer) VMOption             { return withTee(w) }
func WithArenaSize(size int) VMOption          { return withArenaSize(size) }
func WithMaxTokens(n int) VMOption             { return withMaxTokens(n) }
func WithLibrary(lib library.Library) VMOption { return withLibrary(lib) }

func WithLogf(logfn func(mess string, args ...interface{})) VMOption { return withLogfn(logfn) }

func WithTokenTrace(trace func(pass string, toks []expr.Token)) VMOption {
	return tokenTraceOption(trace)
}
