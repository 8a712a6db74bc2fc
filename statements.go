package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/jcorbin/tinybasic/internal/arena"
	"github.com/jcorbin/tinybasic/internal/console"
	"github.com/jcorbin/tinybasic/internal/expr"
	"github.com/jcorbin/tinybasic/internal/fileinput"
	"github.com/jcorbin/tinybasic/internal/library"
)

//// Variables

// Name    Function
// LET     evaluate an expression and assign it to a variable; the keyword may
//         be omitted, as in "A = A + 1"
func (vm *VM) let(args []byte) (flow, error) {
	letter, rest, err := parseVar(args)
	if err != nil {
		return halt, err
	}
	rest = trimLeftBlanks(rest)
	if len(rest) == 0 || rest[0] != '=' {
		return halt, syntaxErrorf("expected = after %c", letter)
	}
	val, err := vm.evaluate(rest[1:])
	if err != nil {
		return halt, err
	}
	vm.vars.Set(letter, val)
	return next, nil
}

// Name    Function
// INPUT   prompt with "? ", read a line, and assign the value of the
//         expression entered to a variable
func (vm *VM) input(args []byte) (flow, error) {
	letter, err := parseOnlyVar(args)
	if err != nil {
		return halt, err
	}
	vm.writeString("? ")
	line, err := vm.readLine(MaxInputLine)
	if errors.Is(err, console.ErrLineTooLong) {
		return halt, syntaxErrorf("input longer than %v bytes", MaxInputLine)
	} else if err != nil {
		return halt, err
	}
	val, err := vm.evaluate(line)
	if err != nil {
		return halt, err
	}
	vm.vars.Set(letter, val)
	return next, nil
}

// Name    Function
// CHAR    read a single byte, a keypress on a terminal, and assign its value
//         to a variable
func (vm *VM) char(args []byte) (flow, error) {
	letter, err := parseOnlyVar(args)
	if err != nil {
		return halt, err
	}
	b, err := vm.readKey()
	if err != nil {
		return halt, err
	}
	vm.logf("char", "%c = %v", letter, console.Caret(b))
	vm.vars.Set(letter, int32(b))
	return next, nil
}

//// Output

// Name    Function
// PRINT   write a sequence of ':' separated "strings" and expression values,
//         followed by a line feed unless the sequence ends with ':'
func (vm *VM) print(args []byte) (flow, error) {
	rest := trimLeftBlanks(args)
	if len(rest) == 0 {
		vm.writeByte('\n')
		return next, nil
	}

	lf := true
	for {
		rest = trimLeftBlanks(rest)
		if len(rest) == 0 {
			lf = false
			break
		}

		if rest[0] == '"' {
			end := bytes.IndexByte(rest[1:], '"')
			if end < 0 {
				return halt, syntaxErrorf("unterminated string")
			}
			vm.write(rest[1 : 1+end])
			rest = trimLeftBlanks(rest[end+2:])
		} else {
			end := bytes.IndexByte(rest, ':')
			if end < 0 {
				end = len(rest)
			}
			val, err := vm.evaluate(rest[:end])
			if err != nil {
				return halt, err
			}
			vm.writeInt(val)
			rest = rest[end:]
		}

		if len(rest) == 0 || rest[0] != ':' {
			break
		}
		rest = rest[1:]
	}
	if len(rest) != 0 {
		return halt, syntaxErrorf("unexpected %q", rest)
	}
	if lf {
		vm.writeByte('\n')
	}
	return next, nil
}

// Name    Function
// CLEAR   clear the screen and home the cursor
func (vm *VM) clear(args []byte) (flow, error) {
	if err := noArgs(args); err != nil {
		return halt, err
	}
	vm.writeString("\033[2J\033[H")
	return next, nil
}

// Name    Function
// REM     do nothing; the rest of the line is a remark
func (vm *VM) rem(args []byte) (flow, error) { return next, nil }

//// Control Flow

// Name    Function
// GOTO    continue running at the line numbered by an expression; entered
//         immediately, starts running the program there
func (vm *VM) gotoLine(args []byte) (flow, error) {
	val, err := vm.evaluate(args)
	if err != nil {
		return halt, err
	}
	if val <= 0 || val >= MaxLine {
		return halt, syntaxErrorf("GOTO target %v out of range", val)
	}
	return jump(arena.Number(val)), nil
}

// Name    Function
// IF      compare two expressions with one of = <> < <= > >=, and if true
//         execute the statement after THEN; a bare line number after THEN
//         is a GOTO
func (vm *VM) ifThen(args []byte) (flow, error) {
	args = trimLeftBlanks(args)
	i := bytes.IndexAny(args, "<>=")
	if i < 0 {
		return halt, syntaxErrorf("missing comparison")
	}
	cmp, n := parseComparison(args[i:])
	left, rest := args[:i], args[i+n:]
	j := indexThen(rest)
	if j < 0 {
		return halt, syntaxErrorf("missing THEN")
	}
	right, stmt := rest[:j], trimBlanks(rest[j+len("THEN"):])
	if len(stmt) == 0 {
		return halt, syntaxErrorf("missing statement after THEN")
	}

	a, err := vm.evaluate(left)
	if err != nil {
		return halt, err
	}
	b, err := vm.evaluate(right)
	if err != nil {
		return halt, err
	}
	if !cmp.test(a, b) {
		return next, nil
	}
	if isDigit(stmt[0]) {
		target, err := parseLineNumber(stmt)
		if err != nil {
			return halt, err
		}
		return jump(target), nil
	}
	return vm.dispatch(stmt)
}

// Name    Function
// END     stop running
func (vm *VM) end(args []byte) (flow, error) {
	if err := noArgs(args); err != nil {
		return halt, err
	}
	return halt, nil
}

//// Program Management; none of these may be used while running

// Name    Function
// RUN     run the program from its first line
func (vm *VM) runProgram(args []byte) (flow, error) {
	if err := noArgs(args); err != nil {
		return halt, err
	}
	if vm.store.Empty() {
		return halt, ErrNoProgram
	}
	rec, err := vm.store.At(0)
	if err != nil {
		panic(err)
	}
	return jump(rec.Number), nil
}

// Name    Function
// LIST    write every line of the program
func (vm *VM) list(args []byte) (flow, error) {
	if err := noArgs(args); err != nil {
		return halt, err
	}
	vm.outputHalt(vm.writeListing(vm.out))
	return next, nil
}

// Name    Function
// NEW     erase the program and zero all variables
func (vm *VM) newProgram(args []byte) (flow, error) {
	if err := noArgs(args); err != nil {
		return halt, err
	}
	vm.store.Reset()
	vm.vars.Reset()
	return next, nil
}

// Name    Function
// MEMORY  write the number of free program bytes
func (vm *VM) memory(args []byte) (flow, error) {
	if err := noArgs(args); err != nil {
		return halt, err
	}
	vm.printf("%d bytes free\n", vm.store.Free())
	return next, nil
}

// Name    Function
// SAVE    store the program listing in the library under a name
func (vm *VM) save(args []byte) (flow, error) {
	name, err := vm.programName(args)
	if err != nil {
		return halt, err
	}
	var buf bytes.Buffer
	if err := vm.writeListing(&buf); err != nil {
		return halt, err
	}
	if err := vm.lib.Save(name, buf.Bytes()); err != nil {
		return halt, err
	}
	vm.logf("save", "%q %v bytes", name, buf.Len())
	return next, nil
}

// Name    Function
// LOAD    replace the program with one from the library; variables are kept
//         and lines not starting with a number are skipped
func (vm *VM) load(args []byte) (flow, error) {
	name, err := vm.programName(args)
	if err != nil {
		return halt, err
	}
	prog, err := vm.lib.Load(name)
	if err != nil {
		return halt, err
	}

	vm.store.Reset()
	defer vm.withLogPrefix(name + ": ")()
	in := fileinput.Input{
		Queue: []io.Reader{console.NamedReader(name, bytes.NewReader(prog))},
	}
	for {
		line, err := in.ReadLine()
		if err == io.EOF {
			break
		} else if err != nil {
			return halt, err
		}
		line = trimLeftBlanks(line)
		if len(line) == 0 || !isDigit(line[0]) {
			continue
		}
		if err := vm.storeLine(line); err != nil {
			return halt, fileinput.LineError{Location: in.Location(), Err: err}
		}
	}
	return next, nil
}

//// Helpers

func (vm *VM) evaluate(src []byte) (int32, error) {
	val, err := vm.eval.Eval(src, &vm.vars)
	if err != nil {
		return 0, err
	}
	vm.logf("eval", "%s = %v", trimBlanks(src), val)
	return val, nil
}

// storeLine stores a line that begins with its line number, deleting the
// line if no text follows.
func (vm *VM) storeLine(line []byte) error {
	i := 0
	for i < len(line) && isDigit(line[i]) {
		i++
	}
	n, err := parseLineNumber(line[:i])
	if err != nil {
		return err
	}
	text := trimBlanks(line[i:])
	if len(text) == 0 {
		vm.logf("store", "delete %v", n)
	} else {
		vm.logf("store", "%v %s", n, text)
	}
	return vm.store.Upsert(n, text)
}

// writeListing writes the program in its listing form: each line number,
// one space, the line text, and a line feed.
func (vm *VM) writeListing(w io.Writer) error {
	it := vm.store.Iter()
	for it.Next() {
		rec := it.Record()
		if _, err := fmt.Fprintf(w, "%d %s\n", rec.Number, rec.Text); err != nil {
			return err
		}
	}
	if err := it.Err(); err != nil {
		panic(err)
	}
	return nil
}

func (vm *VM) programName(args []byte) (string, error) {
	if vm.lib == nil {
		return "", ErrNoLibrary
	}
	name := trimBlanks(args)
	if len(name) >= 2 && name[0] == '"' && name[len(name)-1] == '"' {
		name = name[1 : len(name)-1]
	}
	if len(name) == 0 {
		return "", syntaxErrorf("missing program name")
	}
	if err := library.CheckName(string(name)); err != nil {
		return "", err
	}
	return string(name), nil
}

func parseLineNumber(s []byte) (arena.Number, error) {
	n, err := strconv.ParseUint(string(s), 10, 16)
	if err != nil || n == 0 || n >= MaxLine {
		return 0, fmt.Errorf("%w %q", ErrInvalidLine, s)
	}
	return arena.Number(n), nil
}

func parseVar(args []byte) (byte, []byte, error) {
	args = trimLeftBlanks(args)
	if len(args) == 0 || !expr.IsVar(args[0]) {
		return 0, nil, syntaxErrorf("expected variable")
	}
	return args[0], args[1:], nil
}

func parseOnlyVar(args []byte) (byte, error) {
	letter, rest, err := parseVar(args)
	if err == nil {
		err = noArgs(rest)
	}
	return letter, err
}

func noArgs(args []byte) error {
	if rest := trimBlanks(args); len(rest) != 0 {
		return syntaxErrorf("unexpected %q", rest)
	}
	return nil
}

// indexThen returns the offset of the THEN keyword within s, or -1.
func indexThen(s []byte) int {
	for j := 0; j+len("THEN") <= len(s); j++ {
		if _, ok := matchWord(s[j:], "THEN"); ok {
			return j
		}
	}
	return -1
}

type comparison uint8

const (
	cmpEqual comparison = iota
	cmpNotEqual
	cmpLess
	cmpLessEqual
	cmpGreater
	cmpGreaterEqual
)

// parseComparison parses the comparison operator at the start of s,
// returning its width.
func parseComparison(s []byte) (comparison, int) {
	var second byte
	if len(s) > 1 {
		second = s[1]
	}
	switch {
	case s[0] == '<' && second == '>':
		return cmpNotEqual, 2
	case s[0] == '<' && second == '=':
		return cmpLessEqual, 2
	case s[0] == '<':
		return cmpLess, 1
	case s[0] == '>' && second == '=':
		return cmpGreaterEqual, 2
	case s[0] == '>':
		return cmpGreater, 1
	}
	return cmpEqual, 1
}

func (cmp comparison) test(a, b int32) bool {
	switch cmp {
	case cmpNotEqual:
		return a != b
	case cmpLess:
		return a < b
	case cmpLessEqual:
		return a <= b
	case cmpGreater:
		return a > b
	case cmpGreaterEqual:
		return a >= b
	}
	return a == b
}
