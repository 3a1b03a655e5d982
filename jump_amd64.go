package hotpatch

import (
	"encoding/binary"
	"fmt"
	"math"

	"golang.org/x/arch/x86/x86asm"
)

const (
	jumpSize = 5 // 1 byte opcode + 4 byte displacement

	opcodeJMP  = 0xe9 // JMP rel32
	opcodeINT3 = 0xcc
)

// buildJump encodes an unconditional jump, to be written at src, that lands
// on dest.
func buildJump(src, dest Address) ([]byte, error) {
	offset := int64(dest) - (int64(src) + jumpSize)
	if offset < math.MinInt32 || offset > math.MaxInt32 {
		return nil, fmt.Errorf("JMP target out of rel32 range: %d bytes", offset)
	}

	buf := make([]byte, jumpSize)
	buf[0] = opcodeJMP
	binary.LittleEndian.PutUint32(buf[1:], uint32(int32(offset)))
	return buf, nil
}

// checkEntry decodes the instructions the jump would overwrite and rejects
// entries that cannot take one: undecodable bytes, or INT3 padding, which
// means the "function" is shorter than the jump itself.
func checkEntry(code []byte) error {
	covered := 0
	for covered < jumpSize {
		if covered >= len(code) {
			return fmt.Errorf("entry too short: %d bytes", len(code))
		}
		if code[covered] == opcodeINT3 {
			return fmt.Errorf("INT3 padding at entry+%d", covered)
		}
		inst, err := x86asm.Decode(code[covered:], 64)
		if err != nil {
			return fmt.Errorf("undecodable instruction at entry+%d: %w", covered, err)
		}
		covered += inst.Len
	}
	return nil
}
