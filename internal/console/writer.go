package console

import (
	"bufio"
	"io"
)

// Writer is a flushable byte sink.
type Writer interface {
	io.Writer
	io.ByteWriter
	Flush() error
}

var discardWriter Writer = nopFlusher{byteWriter{io.Discard}}

// NewWriter creates a Writer around w: in memory buffers get a noop Flush,
// Writers are returned as is, and anything else is wrapped in a bufio.Writer.
func NewWriter(w io.Writer) Writer {
	// discard writer does not need flushing
	if w == io.Discard {
		return discardWriter
	}

	if cw, is := w.(Writer); is {
		return cw
	}

	// in memory buffers, as implemented by types like bytes.Buffer and
	// strings.Builder, do not need to be flushed
	type buffer interface {
		io.Writer
		Cap() int
		Len() int
		Grow(n int)
		Reset()
	}
	if _, isBuffer := w.(buffer); isBuffer {
		if bw, ok := w.(byteSink); ok {
			return nopFlusher{bw}
		}
		return nopFlusher{byteWriter{w}}
	}

	return bufio.NewWriter(w)
}

type byteSink interface {
	io.Writer
	io.ByteWriter
}

type nopFlusher struct{ byteSink }

func (nf nopFlusher) Flush() error { return nil }

type byteWriter struct{ io.Writer }

func (bw byteWriter) WriteByte(c byte) error {
	_, err := bw.Write([]byte{c})
	return err
}

// Writers combines any number of Writers into a single one that writes into
// and flushes all of them.
func Writers(ws ...Writer) Writer {
	switch ws := appendWriter(nil, ws...); len(ws) {
	case 0:
		return nil
	case 1:
		return ws[0]
	default:
		return ws
	}
}

type multiWriter []Writer

func (ws multiWriter) Write(p []byte) (n int, err error) {
	for _, w := range ws {
		n, err = w.Write(p)
		if err != nil {
			return n, err
		}
		if n != len(p) {
			return n, io.ErrShortWrite
		}
	}
	return len(p), nil
}

func (ws multiWriter) WriteByte(c byte) error {
	for _, w := range ws {
		if err := w.WriteByte(c); err != nil {
			return err
		}
	}
	return nil
}

func (ws multiWriter) Flush() (err error) {
	for _, w := range ws {
		if ferr := w.Flush(); err == nil {
			err = ferr
		}
	}
	return err
}

func appendWriter(all multiWriter, some ...Writer) multiWriter {
	for _, one := range some {
		if many, ok := one.(multiWriter); ok {
			all = append(all, many...)
		} else if one != nil {
			all = append(all, one)
		}
	}
	return all
}
