package hotpatch

import _ "unsafe"

type funcInfo struct {
	fn    *runtimeFunc
	datap *moduledata
}

// runtimeFunc stands in for the runtime's _func. Only the moduledata half
// of the lookup result is used, so the body stays opaque.
type runtimeFunc struct{}

// moduledata records information about the layout of the executable image.
// Field order and sizes must track the runtime's moduledata
// (runtime/symtab.go) up through etext; everything after is unused here and
// omitted.
type moduledata struct {
	pcHeader    uintptr
	funcnametab []byte
	cutab       []uint32
	filetab     []byte
	pctab       []byte
	pclntable   []byte
	ftab        []functab
	findfunctab uintptr

	minpc, maxpc uintptr
	text, etext  uintptr
}

type functab struct {
	entryoff uint32 // relative to runtime.text
	funcoff  uint32
}

//go:linkname findfunc runtime.findfunc
func findfunc(pc uintptr) funcInfo
