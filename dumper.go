package main

import (
	"fmt"
	"io"
	"strconv"
)

type vmDumper struct {
	vm  *VM
	out io.Writer

	offWidth int

	// rawRecords includes each record's encoded bytes
	rawRecords bool
}

func (dump vmDumper) dump() {
	fmt.Fprintf(dump.out, "# VM Dump\n")
	fmt.Fprintf(dump.out, "  line: %v\n", dump.vm.line)
	fmt.Fprintf(dump.out, "  arena: %v/%v bytes used\n", dump.vm.store.Len(), dump.vm.store.Size())
	dump.dumpVars()
	dump.dumpArena()
}

func (dump *vmDumper) dumpVars() {
	var buf lineBuffer
	buf.WriteString("  vars:")
	for i, val := range dump.vm.vars {
		if val != 0 {
			buf.WriteByte(' ')
			buf.WriteByte(byte('A' + i))
			buf.WriteByte('=')
			buf.WriteString(strconv.Itoa(int(val)))
		}
	}
	buf.WriteTo(dump.out)
}

func (dump *vmDumper) dumpArena() {
	store := dump.vm.store
	if dump.offWidth == 0 {
		dump.offWidth = len(strconv.Itoa(store.Size()))
	}
	fmt.Fprintf(dump.out, "# Arena\n")

	var buf lineBuffer
	it := store.Iter()
	for it.Next() {
		rec := it.Record()
		fmt.Fprintf(&buf, "  @%*v %v %q", dump.offWidth, rec.Offset, rec.Number, rec.Text)
		if dump.rawRecords {
			fmt.Fprintf(&buf, " % x", store.Bytes()[rec.Offset:rec.End()])
		}
		buf.WriteTo(dump.out)
	}
	if err := it.Err(); err != nil {
		fmt.Fprintf(&buf, "  !!! %v", err)
		buf.WriteTo(dump.out)
	}
	if free := store.Free(); free > 0 {
		fmt.Fprintf(&buf, "  @%*v free %v", dump.offWidth, store.Len(), free)
		buf.WriteTo(dump.out)
	}
}

// lineBuffer is a bytes.Buffer-like that writes complete lines.
type lineBuffer struct {
	buf []byte
}

func (lb *lineBuffer) Len() int { return len(lb.buf) }

func (lb *lineBuffer) Write(p []byte) (int, error) {
	lb.buf = append(lb.buf, p...)
	return len(p), nil
}

func (lb *lineBuffer) WriteByte(c byte) error {
	lb.buf = append(lb.buf, c)
	return nil
}

func (lb *lineBuffer) WriteString(s string) (int, error) {
	lb.buf = append(lb.buf, s...)
	return len(s), nil
}

// WriteTo writes the buffered line, adding a line feed, and resets.
func (lb *lineBuffer) WriteTo(w io.Writer) (int64, error) {
	if len(lb.buf) == 0 || lb.buf[len(lb.buf)-1] != '\n' {
		lb.buf = append(lb.buf, '\n')
	}
	n, err := w.Write(lb.buf)
	lb.buf = lb.buf[:0]
	return int64(n), err
}
