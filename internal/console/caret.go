package console

import "strconv"

// Caret returns a printable form of b: caret notation like ^C for control
// bytes, a hex escape for bytes above 0x7f, and b itself otherwise.
func Caret(b byte) string {
	switch {
	case b < 0x20 || b == 0x7f:
		return "^" + string(rune(b^0x40))
	case b >= 0x80:
		return `\x` + strconv.FormatUint(uint64(b), 16)
	}
	return string(rune(b))
}
