package hotpatch

import (
	"encoding/binary"
	"fmt"

	"golang.org/x/arch/arm64/arm64asm"
)

const jumpSize = 4

// -----------------------------------
// | 000101 | ... 26 bit address ... |
// -----------------------------------
const _B = uint32(5 << 26)

// buildJump encodes a B instruction, to be written at src, that lands on
// dest. B takes a 26-bit signed instruction offset, so dest must be within
// 128MiB of src.
func buildJump(src, dest Address) ([]byte, error) {
	offset := int64(dest) - int64(src)
	if offset < -(1<<27) || offset >= (1<<27) {
		return nil, fmt.Errorf("B target out of range: %d bytes exceeds 128MiB", offset)
	}

	buf := make([]byte, jumpSize)
	binary.LittleEndian.PutUint32(buf, _B|(uint32(offset>>2)&(1<<26-1)))
	return buf, nil
}

// checkEntry rejects entries whose first instruction cannot be decoded.
// Null words are linker padding, not a function.
func checkEntry(code []byte) error {
	if len(code) < jumpSize {
		return fmt.Errorf("entry too short: %d bytes", len(code))
	}
	raw := code[:jumpSize]
	if binary.LittleEndian.Uint32(raw) == 0 {
		return fmt.Errorf("null padding at entry")
	}
	if _, err := arm64asm.Decode(raw); err != nil {
		return fmt.Errorf("undecodable instruction at entry: %w", err)
	}
	return nil
}
