package main

import (
	"context"
	"time"

	"github.com/jcorbin/tinybasic/internal/arena"
	"github.com/jcorbin/tinybasic/internal/console"
)

func (vm *VM) exec(ctx context.Context, line []byte) error {
	line = trimBlanks(line)
	if len(line) == 0 {
		return nil
	}

	if isDigit(line[0]) {
		if err := vm.storeLine(line); err != nil {
			return StmtError{Text: string(line), Err: err}
		}
		return nil
	}

	// statements like INPUT may reuse the buffer that line was read into
	text := string(line)

	vm.logf("exec", "%v", text)
	fl, err := vm.dispatch(line)
	if err != nil {
		return StmtError{Text: text, Err: err}
	}
	if fl.kind != flowJump {
		return nil
	}
	off, found := vm.store.Find(fl.target)
	if !found {
		return StmtError{Text: text, Err: lineNotFound(fl.target)}
	}
	return vm.run(ctx, off)
}

// run executes stored lines starting with the one whose text is at off,
// until the program ends, halts, or fails.
func (vm *VM) run(ctx context.Context, off int) error {
	vm.stats = RunStats{Start: time.Now()}
	defer func() {
		vm.stats.Elapsed = time.Since(vm.stats.Start)
		vm.logf("halt", "line %v after %v statements in %v",
			vm.line, vm.stats.Statements, vm.stats.Elapsed)
		vm.line = 0
	}()

	for {
		rec, err := vm.store.At(off - arena.HeaderSize)
		if err != nil {
			panic(err)
		}
		vm.line = rec.Number

		if err := vm.poll(ctx); err != nil {
			return StmtError{Line: rec.Number, Text: string(rec.Text), Err: err}
		}

		vm.stats.Statements++
		fl, err := vm.dispatch(rec.Text)
		vm.logf("exec", "%v %s -> %v", rec.Number, rec.Text, fl)
		if err != nil {
			return StmtError{Line: rec.Number, Text: string(rec.Text), Err: err}
		}

		switch fl.kind {
		case flowHalt:
			return nil

		case flowJump:
			var found bool
			if off, found = vm.store.Find(fl.target); !found {
				return StmtError{Line: rec.Number, Text: string(rec.Text), Err: lineNotFound(fl.target)}
			}

		default:
			next := rec.End()
			if next >= vm.store.Len() {
				return nil
			}
			off = next + arena.HeaderSize
		}
	}
}

// poll checks for cancellation once per statement: either of ctx, or by a
// byte pending on an input that supports breaking.
func (vm *VM) poll(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if vm.inputPending() {
		b, err := vm.in.ReadByte()
		if err != nil {
			return err
		}
		vm.logf("break", "read %v", console.Caret(b))
		return ErrBreak
	}
	return nil
}
