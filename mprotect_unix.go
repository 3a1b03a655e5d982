//go:build unix

package hotpatch

import (
	"syscall"
	"unsafe"
)

const (
	protRW  = syscall.PROT_READ | syscall.PROT_WRITE
	protRWX = syscall.PROT_READ | syscall.PROT_WRITE | syscall.PROT_EXEC
)

func mprotect(addr uintptr, n int, flags int) error {
	pageSize := syscall.Getpagesize()

	// Round address down to page boundary.
	// Example: addr=4196 with pageSize=4096 becomes 4096.
	pageStart := addr - (addr % uintptr(pageSize))

	// Cover the offset from pageStart to addr plus the requested length,
	// rounded up to complete pages.
	totalBytes := int(addr-pageStart) + n
	regionSize := (totalBytes + pageSize - 1) / pageSize * pageSize

	// Convert the memory region to a byte slice for mprotect.
	region := unsafe.Slice((*byte)(unsafe.Pointer(pageStart)), regionSize)

	return syscall.Mprotect(region, flags)
}
