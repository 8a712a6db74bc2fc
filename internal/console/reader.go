// Package console provides the byte oriented I/O used by the interpreter:
// a buffered byte reader with line reading, flushable writers, and terminal
// support for interrupts and single keypress reads.
package console

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
)

// ErrLineTooLong is returned by ReadLine when a line exceeds its limit; the
// rest of the line is consumed.
var ErrLineTooLong = errors.New("input line too long")

// Reader is a buffered byte source. If the underlying reader implements
// Name() string, so does the Reader.
type Reader struct {
	br   *bufio.Reader
	name string
	line bytes.Buffer
}

// NewReader returns a Reader around r; if r already is one, it is returned.
func NewReader(r io.Reader) *Reader {
	if cr, ok := r.(*Reader); ok {
		return cr
	}
	return &Reader{br: bufio.NewReader(r), name: nameOf(r)}
}

// Name returns the name of the underlying reader.
func (r *Reader) Name() string { return r.name }

// Read implements io.Reader.
func (r *Reader) Read(p []byte) (int, error) { return r.br.Read(p) }

// ReadByte reads a single byte.
func (r *Reader) ReadByte() (byte, error) { return r.br.ReadByte() }

// Buffered returns the number of bytes that can be read without blocking.
func (r *Reader) Buffered() int { return r.br.Buffered() }

// ReadLine reads through the next line feed, returning the line without its
// terminator or any carriage return before it. A final line without a line
// feed is returned with a nil error; io.EOF is only returned when no bytes
// remain. If max > 0 and the line is longer, ErrLineTooLong is returned.
// The returned slice is only valid until the next call.
func (r *Reader) ReadLine(max int) ([]byte, error) {
	r.line.Reset()
	for {
		frag, err := r.br.ReadSlice('\n')
		r.line.Write(frag)
		if err == bufio.ErrBufferFull {
			continue
		}
		if err == io.EOF && r.line.Len() > 0 {
			err = nil
		}
		if err != nil {
			return nil, err
		}
		break
	}
	line := bytes.TrimSuffix(r.line.Bytes(), []byte{'\n'})
	line = bytes.TrimSuffix(line, []byte{'\r'})
	if max > 0 && len(line) > max {
		return nil, ErrLineTooLong
	}
	return line, nil
}

// NamedReader attaches a name to an io.Reader, as reported by Reader.Name.
func NamedReader(name string, r io.Reader) io.Reader {
	return namedReader{r, name}
}

type namedReader struct {
	io.Reader
	name string
}

func (nr namedReader) Name() string { return nr.name }

func nameOf(obj interface{}) string {
	if nom, ok := obj.(interface{ Name() string }); ok {
		return nom.Name()
	}
	return fmt.Sprintf("<unnamed %T>", obj)
}
