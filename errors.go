package main

import (
	"errors"
	"fmt"

	"github.com/jcorbin/tinybasic/internal/arena"
)

var (
	ErrSyntax         = errors.New("syntax error")
	ErrUnknownCommand = errors.New("unknown command")
	ErrLineNotFound   = errors.New("line not found")
	ErrInvalidLine    = errors.New("invalid line number")
	ErrNotAvailable   = errors.New("not available while running")
	ErrNoProgram      = errors.New("no code to run, go write some")
	ErrNoLibrary      = errors.New("no program library configured")
	ErrBreak          = errors.New("break")
)

// StmtError reports a failed statement, along with the line it was stored
// under; Line is 0 for immediate statements.
type StmtError struct {
	Line arena.Number
	Text string
	Err  error
}

func (err StmtError) Error() string {
	if err.Line != 0 {
		return fmt.Sprintf("%v at line %v: %v", err.Err, err.Line, err.Text)
	}
	return fmt.Sprintf("%v: %v", err.Err, err.Text)
}

func (err StmtError) Unwrap() error { return err.Err }

type lineNotFound arena.Number

func (n lineNotFound) Error() string      { return fmt.Sprintf("line %d not found", n) }
func (lineNotFound) Is(target error) bool { return target == ErrLineNotFound }

func syntaxErrorf(mess string, args ...interface{}) error {
	return fmt.Errorf("%w: %v", ErrSyntax, fmt.Sprintf(mess, args...))
}

type haltError struct{ error }

func (err haltError) Error() string {
	if err.error != nil {
		return fmt.Sprintf("halted: %v", err.error)
	}
	return "halted"
}
func (err haltError) Unwrap() error { return err.error }
