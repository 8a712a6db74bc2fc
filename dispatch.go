package main

import (
	"bytes"
	"strconv"

	"github.com/jcorbin/tinybasic/internal/arena"
	"github.com/jcorbin/tinybasic/internal/expr"
)

// flow tells the run loop where to go after a statement.
type flow struct {
	kind   flowKind
	target arena.Number
}

type flowKind uint8

const (
	flowNext flowKind = iota // fall through to the following line
	flowJump                 // continue at target
	flowHalt                 // stop running without error
)

var (
	next = flow{kind: flowNext}
	halt = flow{kind: flowHalt}
)

func jump(target arena.Number) flow { return flow{kind: flowJump, target: target} }

func (fl flow) String() string {
	switch fl.kind {
	case flowNext:
		return "next"
	case flowJump:
		return "jump " + strconv.Itoa(int(fl.target))
	case flowHalt:
		return "halt"
	}
	return "flow(" + strconv.Itoa(int(fl.kind)) + ")"
}

// keyword binds a statement name to its handler; handlers receive the text
// following the name. Any returned error halts a running program.
type keyword struct {
	name     string
	run      func(vm *VM, args []byte) (flow, error)
	idleOnly bool
}

var keywords []keyword

func init() {
	keywords = []keyword{
		{name: "LET", run: (*VM).let},
		{name: "PRINT", run: (*VM).print},
		{name: "CHAR", run: (*VM).char},
		{name: "GOTO", run: (*VM).gotoLine},
		{name: "IF", run: (*VM).ifThen},
		{name: "INPUT", run: (*VM).input},
		{name: "REM", run: (*VM).rem},
		{name: "CLEAR", run: (*VM).clear},
		{name: "END", run: (*VM).end},
		{name: "RUN", run: (*VM).runProgram, idleOnly: true},
		{name: "LIST", run: (*VM).list, idleOnly: true},
		{name: "NEW", run: (*VM).newProgram, idleOnly: true},
		{name: "MEMORY", run: (*VM).memory, idleOnly: true},
		{name: "SAVE", run: (*VM).save, idleOnly: true},
		{name: "LOAD", run: (*VM).load, idleOnly: true},
	}
}

// lookup finds the keyword that stmt begins with, returning the text after
// it. A keyword matches case-insensitively, and must be followed by a blank
// or the end of the statement.
func lookup(stmt []byte) (*keyword, []byte) {
	for i := range keywords {
		kw := &keywords[i]
		if rest, ok := matchWord(stmt, kw.name); ok {
			return kw, rest
		}
	}
	return nil, stmt
}

func matchWord(s []byte, word string) ([]byte, bool) {
	n := len(word)
	if len(s) < n || !bytes.EqualFold(s[:n], []byte(word)) {
		return s, false
	}
	if len(s) > n && !isBlank(s[n]) {
		return s, false
	}
	return s[n:], true
}

// dispatch executes a single statement.
func (vm *VM) dispatch(stmt []byte) (flow, error) {
	stmt = trimBlanks(stmt)
	if kw, args := lookup(stmt); kw != nil {
		if kw.idleOnly && vm.line != 0 {
			return halt, ErrNotAvailable
		}
		return kw.run(vm, args)
	}
	if isImplicitLet(stmt) {
		return vm.let(stmt)
	}
	if len(stmt) == 0 {
		return halt, syntaxErrorf("missing statement")
	}
	return halt, ErrUnknownCommand
}

// isImplicitLet returns true for statements like "A = 1" or "A=1".
func isImplicitLet(stmt []byte) bool {
	return len(stmt) > 1 && expr.IsVar(stmt[0]) && (stmt[1] == '=' || isBlank(stmt[1]))
}

func isBlank(c byte) bool { return c == ' ' || c == '\t' }
func isDigit(c byte) bool { return '0' <= c && c <= '9' }

func trimLeftBlanks(s []byte) []byte {
	for len(s) > 0 && isBlank(s[0]) {
		s = s[1:]
	}
	return s
}

func trimBlanks(s []byte) []byte {
	s = trimLeftBlanks(s)
	for len(s) > 0 && isBlank(s[len(s)-1]) {
		s = s[:len(s)-1]
	}
	return s
}
