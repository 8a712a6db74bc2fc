package arena

// Corrupt overwrites raw bytes for testing.
func (a *Arena) Corrupt(off int, b ...byte) { copy(a.buf[off:], b) }
