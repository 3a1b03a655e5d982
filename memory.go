package hotpatch

import "unsafe"

// Address is a raw location in the host process image. It is a handle, not
// owned memory: nothing here allocates, frees or tracks the lifetime of what
// it points at.
type Address uintptr

// Memory is the address space patches are applied to. The real
// implementation is ProcessMemory; tests substitute an in-memory region.
type Memory interface {
	ReadAt(addr Address, p []byte) error
	WriteAt(addr Address, p []byte) error
}

// ProcessMemory reads and writes the current process's own address space.
//
// WriteAt makes the target pages writable first and leaves them that way,
// so a later revert of the same region cannot fail on page protection.
type ProcessMemory struct{}

func (ProcessMemory) ReadAt(addr Address, p []byte) error {
	if addr == 0 {
		return ErrInvalidArgument
	}
	copy(p, unsafe.Slice((*byte)(unsafe.Pointer(uintptr(addr))), len(p)))
	return nil
}

func (ProcessMemory) WriteAt(addr Address, p []byte) error {
	if addr == 0 {
		return ErrInvalidArgument
	}
	if err := mprotect(uintptr(addr), len(p), protRWX); err != nil {
		return err
	}
	copy(unsafe.Slice((*byte)(unsafe.Pointer(uintptr(addr))), len(p)), p)
	return nil
}
