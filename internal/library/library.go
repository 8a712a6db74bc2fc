// Package library persists named programs for SAVE and LOAD.
//
// A program is stored in its listing form: one line per record, the decimal
// line number, one space, then the statement text, each terminated by a
// newline.
package library

import (
	"errors"
	"fmt"
	"strings"
)

// Library stores programs by name.
type Library interface {
	// Save stores prog under name, replacing any prior program.
	Save(name string, prog []byte) error
	// Load retrieves the program stored under name, returning an error
	// matching ErrNotFound if there is none.
	Load(name string) ([]byte, error)
	// Close releases resources.
	Close() error
}

var (
	ErrNotFound = errors.New("program not found")
	ErrBadName  = errors.New("invalid program name")
)

// CheckName returns an error matching ErrBadName unless name is usable by
// every Library implementation: non-empty, with no path separators, dots
// leading, or control bytes.
func CheckName(name string) error {
	if name == "" || strings.HasPrefix(name, ".") ||
		strings.ContainsAny(name, `/\:`) ||
		strings.IndexFunc(name, func(r rune) bool { return r < 0x20 || r == 0x7f }) >= 0 {
		return fmt.Errorf("%w %q", ErrBadName, name)
	}
	return nil
}

func notFound(name string) error { return fmt.Errorf("%w: %q", ErrNotFound, name) }
