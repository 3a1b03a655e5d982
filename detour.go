package hotpatch

import "fmt"

// entryScan is how many bytes Attach reads when validating a hook target.
const entryScan = 32

// JumpBackend installs hooks in the current process by writing a relative
// jump over the original function's entry. Every jump goes through the
// Store as a recoverable patch, so reverting the store unhooks too.
//
// Attach only validates and stages; nothing is written to the image until
// CommitTransaction, and a mid-commit failure unwinds the jumps already
// written. Unlike a detour library with thread suspension, the write itself
// is not atomic with respect to a thread sitting inside the first
// instructions of a hooked function.
type JumpBackend struct {
	store  *Store
	open   bool
	staged []Attachment
}

func NewJumpBackend(store *Store) *JumpBackend {
	return &JumpBackend{store: store}
}

func (b *JumpBackend) BeginTransaction() error {
	if b.open {
		return fmt.Errorf("%w: transaction already open", ErrInvalidState)
	}
	b.open = true
	b.staged = b.staged[:0]
	return nil
}

func (b *JumpBackend) Attach(original, replacement Address) error {
	if !b.open {
		return fmt.Errorf("%w: attach outside transaction", ErrInvalidState)
	}

	code := make([]byte, entryScan)
	if err := b.store.mem.ReadAt(original, code); err != nil {
		return fmt.Errorf("read entry at %#x: %w", uintptr(original), err)
	}
	if err := checkEntry(code); err != nil {
		return err
	}
	// Catch out-of-range targets now, not at commit.
	if _, err := buildJump(original, replacement); err != nil {
		return err
	}

	b.staged = append(b.staged, Attachment{Original: original, Replacement: replacement})
	return nil
}

func (b *JumpBackend) CommitTransaction() error {
	if !b.open {
		return fmt.Errorf("%w: commit outside transaction", ErrInvalidState)
	}
	b.open = false

	for i, at := range b.staged {
		jmp, err := buildJump(at.Original, at.Replacement)
		if err == nil {
			err = b.store.Patch(at.Original, jmp, true)
		}
		if err != nil {
			for _, done := range b.staged[:i] {
				b.store.Revert(done.Original)
			}
			b.staged = nil
			return fmt.Errorf("hook at %#x: %w", uintptr(at.Original), err)
		}
	}

	b.staged = nil
	return nil
}

func (b *JumpBackend) AbortTransaction() error {
	// Nothing is written before commit, so abort only drops the staged
	// requests.
	b.open = false
	b.staged = nil
	return nil
}

// Detach removes an installed hook by reverting its entry patch. It reports
// whether a hook was present and reverted.
func (b *JumpBackend) Detach(original Address) bool {
	return b.store.Revert(original)
}
