//go:build windows

package hotpatch

import (
	"syscall"

	"golang.org/x/sys/windows"
)

const (
	protRW  = windows.PAGE_READWRITE
	protRWX = windows.PAGE_EXECUTE_READWRITE
)

func mprotect(addr uintptr, n int, flags int) error {
	pageSize := syscall.Getpagesize()

	// Round address down to page boundary.
	pageStart := addr &^ (uintptr(pageSize) - 1)

	// Round up to cover complete pages.
	regionSize := (int(addr-pageStart) + n + pageSize - 1) &^ (pageSize - 1)

	var oldFlags uint32
	return windows.VirtualProtect(pageStart, uintptr(regionSize), uint32(flags), &oldFlags)
}
