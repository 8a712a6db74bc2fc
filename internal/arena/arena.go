// Package arena implements a fixed capacity program store: numbered lines of
// text packed back to back in a single byte buffer, sorted by line number.
//
// Each record is encoded as a little endian line number, followed by the line
// text, followed by a NUL terminator:
//
//	[lo][hi][text ...][0]
//
// There is no free list. Any insert or delete shifts all following records
// immediately, so the used region [0, Len) is always a contiguous sorted run
// of complete records.
package arena

import (
	"bytes"
	"encoding/binary"
)

// DefaultSize is the arena capacity used when none is specified.
const DefaultSize = 8192

// HeaderSize is the encoded width of a record's line number.
const HeaderSize = 2

// Number is a stored line number; 0 is never stored.
type Number uint16

// Arena holds zero or more records inside a buffer whose capacity is fixed at
// construction time.
type Arena struct {
	buf []byte
	end int
}

// New creates an empty arena able to hold size bytes of records.
func New(size int) *Arena {
	if size <= 0 {
		size = DefaultSize
	}
	return &Arena{buf: make([]byte, size)}
}

// Size returns the arena capacity in bytes.
func (a *Arena) Size() int { return len(a.buf) }

// Len returns the first unused offset; records occupy [0, Len).
func (a *Arena) Len() int { return a.end }

// Free returns the number of unused bytes.
func (a *Arena) Free() int { return len(a.buf) - a.end }

// Empty returns true if no records are stored.
func (a *Arena) Empty() bool { return a.end == 0 }

// Bytes returns the used region of the arena, which aliases arena storage and
// is only valid until the next mutation.
func (a *Arena) Bytes() []byte { return a.buf[:a.end:a.end] }

// Reset discards all records.
func (a *Arena) Reset() {
	for i := range a.buf[:a.end] {
		a.buf[i] = 0
	}
	a.end = 0
}

// Find returns the text offset of the record numbered n, just past its
// header. If no such record exists, it returns Len and false.
// Panics with a CorruptError if a record cannot be decoded.
func (a *Arena) Find(n Number) (int, bool) {
	it := a.Iter()
	for it.Next() {
		if rec := it.Record(); rec.Number == n {
			return rec.TextOffset(), true
		}
	}
	it.mustEnd()
	return a.end, false
}

// InsertionPoint returns the record offset of the first record whose number
// is >= n, or Len if there is none.
// Panics with a CorruptError if a record cannot be decoded.
func (a *Arena) InsertionPoint(n Number) int {
	it := a.Iter()
	for it.Next() {
		if rec := it.Record(); rec.Number >= n {
			return rec.Offset
		}
	}
	it.mustEnd()
	return a.end
}

// Upsert replaces the record numbered n with text, inserting it at its sorted
// position if there was none. Trailing blanks are trimmed from text; if
// nothing remains, any existing record is deleted.
//
// Returns a SpaceError if the arena cannot hold the new record; the arena is
// unchanged on any error.
func (a *Arena) Upsert(n Number, text []byte) error {
	if n == 0 {
		return ErrZeroNumber
	}
	text = bytes.TrimRight(text, " \t")
	if i := bytes.IndexByte(text, 0); i >= 0 {
		return ErrNUL
	}

	at, oldSize := a.InsertionPoint(n), 0
	if at < a.end {
		rec, err := a.At(at)
		if err != nil {
			return err
		}
		if rec.Number == n {
			oldSize = rec.Size()
		}
	}

	newSize := 0
	if len(text) > 0 {
		newSize = HeaderSize + len(text) + 1
		if free := a.Free() + oldSize; newSize > free {
			return SpaceError{Need: newSize, Free: free}
		}
	}

	if oldSize > 0 {
		a.shiftLeft(at+oldSize, oldSize)
	}
	if newSize > 0 {
		a.shiftRight(at, newSize)
		binary.LittleEndian.PutUint16(a.buf[at:], uint16(n))
		copy(a.buf[at+HeaderSize:], text)
		a.buf[at+newSize-1] = 0
	}
	return nil
}

// Delete removes the record numbered n, if any.
func (a *Arena) Delete(n Number) error { return a.Upsert(n, nil) }

// shiftLeft moves [from, end) left by amount bytes, shrinking the used region.
func (a *Arena) shiftLeft(from, amount int) {
	copy(a.buf[from-amount:], a.buf[from:a.end])
	a.end -= amount
	for i := a.end; i < a.end+amount; i++ {
		a.buf[i] = 0
	}
}

// shiftRight moves [from, end) right by amount bytes, growing the used region.
func (a *Arena) shiftRight(from, amount int) {
	copy(a.buf[from+amount:], a.buf[from:a.end])
	a.end += amount
}

// At decodes the record starting at offset off.
// Returns a CorruptError if off does not address a complete record.
func (a *Arena) At(off int) (Record, error) {
	if off < 0 || off+HeaderSize >= a.end {
		return Record{}, CorruptError{off, "record header out of bounds"}
	}
	num := Number(binary.LittleEndian.Uint16(a.buf[off:]))
	if num == 0 {
		return Record{}, CorruptError{off, "zero line number"}
	}
	text := a.buf[off+HeaderSize : a.end]
	i := bytes.IndexByte(text, 0)
	if i < 0 {
		return Record{}, CorruptError{off, "unterminated text"}
	}
	return Record{
		Number: num,
		Offset: off,
		Text:   text[:i:i],
	}, nil
}

// Record is a decoded view of one stored line. Text aliases arena storage and
// is only valid until the next mutation.
type Record struct {
	Number Number
	Offset int
	Text   []byte
}

// TextOffset returns the offset of the record's text, just past its header.
func (rec Record) TextOffset() int { return rec.Offset + HeaderSize }

// Size returns the encoded size of the record.
func (rec Record) Size() int { return HeaderSize + len(rec.Text) + 1 }

// End returns the offset of the following record.
func (rec Record) End() int { return rec.Offset + rec.Size() }

// Iter walks records in ascending line number order. An Iter may be restarted
// by calling Arena.Iter again.
//
//	it := a.Iter()
//	for it.Next() {
//		rec := it.Record()
//	}
//	if err := it.Err(); err != nil {
//		return err
//	}
type Iter struct {
	a    *Arena
	next int
	rec  Record
	err  error
}

// Iter returns an iterator positioned before the first record.
func (a *Arena) Iter() Iter { return Iter{a: a} }

// Next advances to the next record, returning false when done or on error.
func (it *Iter) Next() bool {
	if it.err != nil || it.next >= it.a.end {
		return false
	}
	it.rec, it.err = it.a.At(it.next)
	if it.err != nil {
		return false
	}
	it.next = it.rec.End()
	return true
}

// Record returns the current record.
func (it *Iter) Record() Record { return it.rec }

// Err returns any decoding error that stopped iteration.
func (it *Iter) Err() error { return it.err }

func (it *Iter) mustEnd() {
	if it.err != nil {
		panic(it.err)
	}
}
