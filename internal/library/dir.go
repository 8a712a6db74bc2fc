package library

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// Ext is the file extension used by Dir.
const Ext = ".bas"

// Dir is a library of program files within a directory, one file per
// program named by the program name plus Ext.
type Dir string

// Path returns the file path used for the named program.
func (dir Dir) Path(name string) string {
	return filepath.Join(string(dir), name+Ext)
}

// Save writes prog to its file, creating the directory if needed.
func (dir Dir) Save(name string, prog []byte) error {
	if err := CheckName(name); err != nil {
		return err
	}
	if err := os.MkdirAll(string(dir), 0o755); err != nil {
		return err
	}
	return os.WriteFile(dir.Path(name), prog, 0o644)
}

// Load reads the program's file.
func (dir Dir) Load(name string) ([]byte, error) {
	if err := CheckName(name); err != nil {
		return nil, err
	}
	prog, err := os.ReadFile(dir.Path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, notFound(name)
	}
	return prog, err
}

// Close is a no-op.
func (dir Dir) Close() error { return nil }
