package hotpatch

import "fmt"

// regionMemory is a stand-in host memory region for tests: a byte buffer
// addressed from base.
type regionMemory struct {
	base Address
	data []byte

	failWrites bool
}

func newRegion(base Address, size int) *regionMemory {
	return &regionMemory{base: base, data: make([]byte, size)}
}

func (m *regionMemory) offset(addr Address, n int) (int, error) {
	off := int(addr) - int(m.base)
	if addr < m.base || off+n > len(m.data) {
		return 0, fmt.Errorf("outside region: %#x+%d", uintptr(addr), n)
	}
	return off, nil
}

func (m *regionMemory) ReadAt(addr Address, p []byte) error {
	off, err := m.offset(addr, len(p))
	if err != nil {
		return err
	}
	copy(p, m.data[off:])
	return nil
}

func (m *regionMemory) WriteAt(addr Address, p []byte) error {
	if m.failWrites {
		return fmt.Errorf("write refused")
	}
	off, err := m.offset(addr, len(p))
	if err != nil {
		return err
	}
	copy(m.data[off:], p)
	return nil
}
