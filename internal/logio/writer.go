package logio

import (
	"bytes"
	"sync"
)

// Writer turns written bytes into log messages, one per completed line,
// passed through Logf. It is safe to use from multiple goroutines.
type Writer struct {
	Logf func(string, ...interface{})

	mu  sync.Mutex
	buf bytes.Buffer
}

// Write buffers p, logging any completed lines.
func (lw *Writer) Write(p []byte) (n int, err error) {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	lw.buf.Write(p)
	lw.flushLines(false)
	return len(p), nil
}

// WriteByte buffers c, logging the line it completes, if any.
func (lw *Writer) WriteByte(c byte) error {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	lw.buf.WriteByte(c)
	if c == '\n' {
		lw.flushLines(false)
	}
	return nil
}

// Flush logs any partial line still buffered.
func (lw *Writer) Flush() error {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	lw.flushLines(true)
	return nil
}

func (lw *Writer) flushLines(all bool) {
	for lw.buf.Len() > 0 {
		if i := bytes.IndexByte(lw.buf.Bytes(), '\n'); i >= 0 {
			lw.Logf("%s", lw.buf.Next(i))
			lw.buf.Next(1)
		} else if all {
			lw.Logf("%s", lw.buf.Next(lw.buf.Len()))
		} else {
			break
		}
	}
}
