package hotpatch

import (
	"fmt"
	"reflect"
)

// FuncEntry resolves a Go function value to its entry address and the number
// of bytes before the next function begins. The length bounds what a hook
// may overwrite without spilling into a neighbor.
//
// If fn has been inlined at its call sites, hooking the returned address
// will silently have no effect on those calls. If possible, add a noinline
// directive:
//
//	//go:noinline
//	func myfunc() {
//		...
//	}
func FuncEntry(fn any) (Address, int, error) {
	fnv := reflect.ValueOf(fn)
	if fnv.Kind() != reflect.Func {
		return 0, 0, fmt.Errorf("%w: not a function, kind: %v", ErrInvalidArgument, fnv.Kind())
	}

	entry := fnv.Pointer()

	info := findfunc(entry)
	if info.datap == nil {
		return 0, 0, fmt.Errorf("no function found at %#x", entry)
	}

	// To find the length, look at the offsets of every function and find
	// the one that comes immediately after this one.
	funcOffset := uint32(entry - info.datap.text)
	length := uint32(info.datap.etext - entry)

	for _, ft := range info.datap.ftab {
		// Does this function come before the one we're looking for?
		if ft.entryoff <= funcOffset {
			continue
		}

		if d := ft.entryoff - funcOffset; d < length {
			length = d
		}
	}

	return Address(entry), int(length), nil
}
