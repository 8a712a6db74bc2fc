package library

import "sync"

// Memory is an in-memory library for testing.
type Memory struct {
	mu    sync.RWMutex
	progs map[string][]byte
}

// NewMemory creates an empty in-memory library.
func NewMemory() *Memory {
	return &Memory{progs: make(map[string][]byte)}
}

// Save stores a copy of prog.
func (m *Memory) Save(name string, prog []byte) error {
	if err := CheckName(name); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.progs[name] = append([]byte(nil), prog...)
	return nil
}

// Load returns a copy of the stored program.
func (m *Memory) Load(name string) ([]byte, error) {
	if err := CheckName(name); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	prog, ok := m.progs[name]
	if !ok {
		return nil, notFound(name)
	}
	return append([]byte(nil), prog...), nil
}

// Names returns the stored program names in no particular order.
func (m *Memory) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.progs))
	for name := range m.progs {
		names = append(names, name)
	}
	return names
}

// Close is a no-op.
func (m *Memory) Close() error { return nil }
