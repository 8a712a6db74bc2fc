package main

import (
	"time"

	"github.com/jcorbin/tinybasic/internal/arena"
	"github.com/jcorbin/tinybasic/internal/expr"
	"github.com/jcorbin/tinybasic/internal/library"
)

// MaxLine bounds stored line numbers, which must lie in [1, MaxLine).
const MaxLine = 10000

// MaxInputLine is the longest line accepted by INPUT.
const MaxInputLine = 255

// VM is a BASIC interpreter: a program arena, the variable table, an
// expression evaluator, and the execution cursor.
type VM struct {
	ioCore

	arenaSize int
	maxTokens int
	trace     func(pass string, toks []expr.Token)

	store *arena.Arena
	eval  *expr.Evaluator
	vars  expr.Vars
	lib   library.Library

	// line is the number of the line currently running, 0 when idle.
	line arena.Number

	stats RunStats
}

// RunStats describes the most recent program run.
type RunStats struct {
	Start      time.Time
	Elapsed    time.Duration
	Statements int
}

func (vm *VM) init() {
	if vm.store == nil {
		vm.store = arena.New(vm.arenaSize)
	}
	if vm.eval == nil {
		vm.eval = expr.New(vm.maxTokens)
	}
	vm.eval.Trace = vm.trace
}

// Running returns true while a program is running.
func (vm *VM) Running() bool { return vm.line != 0 }

// Stats returns statistics about the most recent run.
func (vm *VM) Stats() RunStats { return vm.stats }

// Free returns the number of free program bytes.
func (vm *VM) Free() int { return vm.store.Free() }
