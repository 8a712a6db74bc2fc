package arena

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfSpace is matched by any SpaceError.
	ErrOutOfSpace = errors.New("out of memory")

	// ErrZeroNumber indicates an attempt to store line number 0.
	ErrZeroNumber = errors.New("line number 0 cannot be stored")

	// ErrNUL indicates line text with an embedded NUL byte.
	ErrNUL = errors.New("line text contains NUL")

	// ErrCorrupt is matched by any CorruptError.
	ErrCorrupt = errors.New("arena corrupt")
)

// SpaceError indicates that a record did not fit into the arena.
type SpaceError struct {
	Need int
	Free int
}

func (err SpaceError) Error() string {
	return fmt.Sprintf("out of memory: need %v bytes, %v free", err.Need, err.Free)
}

// Is matches ErrOutOfSpace.
func (err SpaceError) Is(target error) bool { return target == ErrOutOfSpace }

// CorruptError indicates that the arena does not hold a valid record at an
// offset where one must be; arena contents can no longer be trusted.
type CorruptError struct {
	Offset int
	Reason string
}

func (err CorruptError) Error() string {
	return fmt.Sprintf("arena corrupt @%v: %v", err.Offset, err.Reason)
}

// Is matches ErrCorrupt.
func (err CorruptError) Is(target error) bool { return target == ErrCorrupt }
