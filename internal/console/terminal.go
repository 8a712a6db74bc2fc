package console

import (
	"io"
	"os"
	"os/signal"
	"sync/atomic"

	"golang.org/x/term"
)

// ETX is the byte read in place of a pending interrupt.
const ETX = 0x03

// Interrupt records interrupt signals until they are taken.
type Interrupt struct {
	pending atomic.Bool
	sigs    chan os.Signal
	done    chan struct{}
}

// NotifyInterrupt starts recording os.Interrupt signals instead of letting
// them terminate the process; Stop restores default handling.
func NotifyInterrupt() *Interrupt {
	intr := &Interrupt{
		sigs: make(chan os.Signal, 1),
		done: make(chan struct{}),
	}
	signal.Notify(intr.sigs, os.Interrupt)
	go intr.watch()
	return intr
}

func (intr *Interrupt) watch() {
	for {
		select {
		case <-intr.sigs:
			intr.pending.Store(true)
		case <-intr.done:
			return
		}
	}
}

// Raise records an interrupt as if a signal had arrived.
func (intr *Interrupt) Raise() { intr.pending.Store(true) }

// Pending returns true if an interrupt has been recorded and not yet taken.
func (intr *Interrupt) Pending() bool { return intr.pending.Load() }

// Take clears any recorded interrupt, returning true if there was one.
func (intr *Interrupt) Take() bool { return intr.pending.Swap(false) }

// Stop restores default signal handling.
func (intr *Interrupt) Stop() {
	if intr.sigs != nil {
		signal.Stop(intr.sigs)
		close(intr.done)
		intr.sigs = nil
	}
}

// IsTerminal returns true if f is connected to a terminal.
func IsTerminal(f *os.File) bool { return term.IsTerminal(int(f.Fd())) }

// Terminal is a Reader connected to a terminal. A recorded interrupt is
// reported by InputPending, and read as a single ETX byte.
type Terminal struct {
	*Reader
	fd   int
	intr *Interrupt
}

// NewTerminal creates a Terminal reading r, which must be the terminal
// open on file descriptor fd.
func NewTerminal(r io.Reader, fd int, intr *Interrupt) *Terminal {
	return &Terminal{
		Reader: NewReader(r),
		fd:     fd,
		intr:   intr,
	}
}

// InputPending returns true if an interrupt is waiting to be read.
func (t *Terminal) InputPending() bool {
	return t.intr != nil && t.intr.Pending()
}

// ReadByte returns ETX if an interrupt is pending, otherwise the next byte.
func (t *Terminal) ReadByte() (byte, error) {
	if t.intr != nil && t.intr.Take() {
		return ETX, nil
	}
	return t.Reader.ReadByte()
}

// ReadKey reads a single keypress without waiting for a line feed, by
// briefly putting the terminal into raw mode. Already buffered input is
// returned first. If raw mode cannot be entered, it reads like ReadByte.
func (t *Terminal) ReadKey() (byte, error) {
	if t.Reader.Buffered() > 0 {
		return t.ReadByte()
	}
	state, err := term.MakeRaw(t.fd)
	if err != nil {
		return t.ReadByte()
	}
	defer term.Restore(t.fd, state)
	return t.ReadByte()
}
