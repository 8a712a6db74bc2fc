package main

import (
	"bytes"
	"io"

	"github.com/jcorbin/tinybasic/internal/arena"
	"github.com/jcorbin/tinybasic/internal/console"
	"github.com/jcorbin/tinybasic/internal/expr"
	"github.com/jcorbin/tinybasic/internal/library"
)

type VMOption interface{ apply(vm *VM) }

var defaultOptions = VMOptions(
	withInput(bytes.NewReader(nil)),
	withOutput(io.Discard),
	withArenaSize(arena.DefaultSize),
	withMaxTokens(expr.DefaultMaxTokens),
)

// VMOptions combines any number of options into one.
func VMOptions(opts ...VMOption) VMOption {
	var res options
	for _, opt := range opts {
		switch impl := opt.(type) {
		case nil:
		case options:
			res = append(res, impl...)
		default:
			res = append(res, impl)
		}
	}
	if len(res) == 1 {
		return res[0]
	}
	return res
}

type options []VMOption

func (opts options) apply(vm *VM) {
	for _, opt := range opts {
		opt.apply(vm)
	}
}

type withLogfn func(mess string, args ...interface{})

func (logfn withLogfn) apply(vm *VM) {
	vm.logfn = logfn
}

type inputOption struct{ io.Reader }
type outputOption struct{ io.Writer }
type teeOption struct{ io.Writer }
type arenaSizeOption int
type maxTokensOption int
type libraryOption struct{ library.Library }
type tokenTraceOption func(pass string, toks []expr.Token)

func withInput(r io.Reader) inputOption             { return inputOption{r} }
func withOutput(w io.Writer) outputOption           { return outputOption{w} }
func withTee(w io.Writer) teeOption                 { return teeOption{w} }
func withArenaSize(size int) arenaSizeOption        { return arenaSizeOption(size) }
func withMaxTokens(n int) maxTokensOption           { return maxTokensOption(n) }
func withLibrary(lib library.Library) libraryOption { return libraryOption{lib} }

func (i inputOption) apply(vm *VM) {
	if in, ok := i.Reader.(input); ok {
		vm.in = in
	} else {
		vm.in = console.NewReader(i.Reader)
	}
}

func (o outputOption) apply(vm *VM) {
	if vm.out != nil {
		vm.out.Flush()
	}
	vm.out = console.NewWriter(o.Writer)
}

func (o teeOption) apply(vm *VM) {
	vm.out = console.Writers(vm.out, console.NewWriter(o.Writer))
}

func (size arenaSizeOption) apply(vm *VM) {
	vm.arenaSize = int(size)
	vm.store = nil
}

func (n maxTokensOption) apply(vm *VM) {
	vm.maxTokens = int(n)
	vm.eval = nil
}

// The VM takes ownership of its library, closing it in VM.Close.
func (lib libraryOption) apply(vm *VM) {
	vm.lib = lib.Library
	if lib.Library != nil {
		vm.closers = append(vm.closers, lib.Library)
	}
}

func (trace tokenTraceOption) apply(vm *VM) {
	vm.trace = trace
	if vm.eval != nil {
		vm.eval.Trace = trace
	}
}
