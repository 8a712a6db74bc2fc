// Package fileinput reads lines sequentially through a queue of named input
// streams, tracking the location of each line for user feedback.
package fileinput

import (
	"fmt"
	"io"

	"github.com/jcorbin/tinybasic/internal/console"
)

// Location names a line in an Input file.
type Location struct {
	Name string
	Line int
}

func (loc Location) String() string { return fmt.Sprintf("%v:%v", loc.Name, loc.Line) }

// Input implements sequential line reading through a Queue of one or more
// input streams. Streams that implement io.Closer are closed once exhausted.
type Input struct {
	Queue []io.Reader

	// MaxLine, if positive, limits line length; longer lines are reported
	// as console.ErrLineTooLong with their location.
	MaxLine int

	cur *console.Reader
	src io.Reader
	loc Location
}

// Location returns the location of the line most recently read.
func (in *Input) Location() Location { return in.loc }

// ReadLine reads the next line, moving on to the next queued stream as each
// one is exhausted. Returns io.EOF once every stream is exhausted. The
// returned slice is only valid until the next call.
func (in *Input) ReadLine() ([]byte, error) {
	for {
		if in.cur == nil && !in.nextIn() {
			return nil, io.EOF
		}
		line, err := in.cur.ReadLine(in.MaxLine)
		if err == io.EOF {
			in.closeIn()
			continue
		}
		in.loc.Line++
		if err != nil {
			return nil, LineError{in.loc, err}
		}
		return line, nil
	}
}

// Close closes the current and any queued streams that implement io.Closer.
func (in *Input) Close() (err error) {
	if cerr := in.closeIn(); err == nil {
		err = cerr
	}
	for _, r := range in.Queue {
		if cl, ok := r.(io.Closer); ok {
			if cerr := cl.Close(); err == nil {
				err = cerr
			}
		}
	}
	in.Queue = nil
	return err
}

func (in *Input) closeIn() (err error) {
	if in.src != nil {
		if cl, ok := in.src.(io.Closer); ok {
			err = cl.Close()
		}
	}
	in.cur, in.src = nil, nil
	return err
}

func (in *Input) nextIn() bool {
	if len(in.Queue) == 0 {
		return false
	}
	in.src = in.Queue[0]
	in.Queue = in.Queue[1:]
	in.cur = console.NewReader(in.src)
	in.loc = Location{Name: in.cur.Name(), Line: 0}
	return true
}

// LineError associates an error with the location of the line that caused it.
type LineError struct {
	Location
	Err error
}

func (err LineError) Error() string { return fmt.Sprintf("%v: %v", err.Location, err.Err) }
func (err LineError) Unwrap() error { return err.Err }
