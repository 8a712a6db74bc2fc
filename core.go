package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jcorbin/tinybasic/internal/console"
)

// input is the byte source read by statements like INPUT and CHAR. It may
// additionally implement:
//   - InputPending() bool to support breaking a running program
//   - ReadKey() (byte, error) to read single keypresses for CHAR
type input interface {
	io.ByteReader
	ReadLine(max int) ([]byte, error)
}

type ioCore struct {
	logging
	in      input
	out     console.Writer
	closers []io.Closer
}

// Close flushes output, then closes any resources owned by the VM.
func (ioc *ioCore) Close() (err error) {
	if ioc.out != nil {
		err = ioc.out.Flush()
	}
	for i := len(ioc.closers) - 1; i >= 0; i-- {
		if cerr := ioc.closers[i].Close(); err == nil {
			err = cerr
		}
	}
	ioc.closers = nil
	return err
}

func (ioc *ioCore) halt(err error) {
	// ignore any panics while trying to flush output
	func() {
		defer func() { recover() }()
		if ioc.out != nil {
			if ferr := ioc.out.Flush(); err == nil {
				err = ferr
			}
		}
	}()

	// ignore any panics while logging
	func() {
		defer func() { recover() }()
		ioc.logf("halt", "error: %v", err)
	}()

	panic(haltError{err})
}

// outputError marks a failure to write output, after which the VM cannot
// usefully continue.
type outputError struct{ error }

func (err outputError) Unwrap() error { return err.error }

func (ioc *ioCore) outputHalt(err error) {
	if err != nil {
		ioc.halt(outputError{err})
	}
}

func (ioc *ioCore) writeByte(b byte) { ioc.outputHalt(ioc.out.WriteByte(b)) }

func (ioc *ioCore) write(p []byte) {
	_, err := ioc.out.Write(p)
	ioc.outputHalt(err)
}

func (ioc *ioCore) writeString(s string) {
	_, err := io.WriteString(ioc.out, s)
	ioc.outputHalt(err)
}

func (ioc *ioCore) writeInt(n int32) {
	var buf [16]byte
	ioc.write(strconv.AppendInt(buf[:0], int64(n), 10))
}

func (ioc *ioCore) printf(mess string, args ...interface{}) {
	_, err := fmt.Fprintf(ioc.out, mess, args...)
	ioc.outputHalt(err)
}

func (ioc *ioCore) flush() { ioc.outputHalt(ioc.out.Flush()) }

func (ioc *ioCore) inputPending() bool {
	if ip, ok := ioc.in.(interface{ InputPending() bool }); ok {
		return ip.InputPending()
	}
	return false
}

// readKey reads one byte, as a single keypress when the input supports it.
func (ioc *ioCore) readKey() (byte, error) {
	ioc.flush()
	if kr, ok := ioc.in.(interface{ ReadKey() (byte, error) }); ok {
		return kr.ReadKey()
	}
	return ioc.in.ReadByte()
}

func (ioc *ioCore) readLine(max int) ([]byte, error) {
	ioc.flush()
	return ioc.in.ReadLine(max)
}

type logging struct {
	logfn func(mess string, args ...interface{})

	markWidth int
}

func (log *logging) withLogPrefix(prefix string) func() {
	logfn := log.logfn
	if logfn == nil {
		return func() {}
	}
	log.logfn = func(mess string, args ...interface{}) {
		logfn(prefix+mess, args...)
	}
	return func() {
		log.logfn = logfn
	}
}

func (log *logging) logf(mark, mess string, args ...interface{}) {
	if log.logfn == nil {
		return
	}
	if n := log.markWidth - len(mark); n > 0 {
		mark += strings.Repeat(" ", n)
	} else if n < 0 {
		log.markWidth = len(mark)
	}
	if len(args) > 0 {
		mess = fmt.Sprintf(mess, args...)
	}
	log.logfn("%v %v", mark, mess)
}
