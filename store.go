package hotpatch

import (
	"fmt"
	"sync"
)

// patchRecord tracks one active overwrite.
type patchRecord struct {
	original    []byte // bytes present before the overwrite, nil when not recoverable
	replacement []byte
	recoverable bool
}

// Store applies, tracks and reverts raw byte overwrites in a Memory.
//
// At most one record is active per address. Patching an address that already
// holds a patch reverts the existing one first, so the fresh capture reads
// the bytes from before the first patch rather than the intermediate state.
type Store struct {
	mem   Memory
	arena bufArena

	mu      sync.Mutex
	patches map[Address]*patchRecord
}

// NewStore returns an empty store over mem. Call RevertAll before discarding
// it to undo everything it still tracks.
func NewStore(mem Memory) *Store {
	return &Store{
		mem:     mem,
		patches: make(map[Address]*patchRecord),
	}
}

// Fill overwrites size bytes at dst with the fill byte. When recoverable,
// the current bytes at dst are captured first so Revert can restore them.
func (s *Store) Fill(dst Address, fill byte, size int, recoverable bool) error {
	if dst == 0 || size <= 0 {
		return fmt.Errorf("%w: fill %d bytes at %#x", ErrInvalidArgument, size, uintptr(dst))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	scratch, err := s.arena.Allocate(size)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAllocation, err)
	}
	for i := range scratch {
		scratch[i] = fill
	}

	return s.apply(dst, scratch, recoverable)
}

// Patch overwrites len(data) bytes at dst with data. Same contract as Fill.
func (s *Store) Patch(dst Address, data []byte, recoverable bool) error {
	if dst == 0 || len(data) == 0 {
		return fmt.Errorf("%w: patch %d bytes at %#x", ErrInvalidArgument, len(data), uintptr(dst))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	scratch, err := s.arena.Allocate(len(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAllocation, err)
	}
	copy(scratch, data)

	return s.apply(dst, scratch, recoverable)
}

// apply installs scratch at dst. The scratch buffer is fully prepared before
// host memory is touched, and on any failure it is freed and no record is
// kept, so a call either patches completely or not at all.
//
// Called with s.mu held. Takes ownership of scratch.
func (s *Store) apply(dst Address, scratch []byte, recoverable bool) error {
	if old, ok := s.patches[dst]; ok {
		if removed, _ := s.revert(dst, old); !removed {
			s.arena.Free(scratch)
			return fmt.Errorf("revert of prior patch at %#x failed", uintptr(dst))
		}
	}

	var original []byte
	if recoverable {
		var err error
		original, err = s.arena.Allocate(len(scratch))
		if err != nil {
			s.arena.Free(scratch)
			return fmt.Errorf("%w: %v", ErrAllocation, err)
		}
		if err := s.mem.ReadAt(dst, original); err != nil {
			s.arena.Free(original)
			s.arena.Free(scratch)
			return fmt.Errorf("capture %d bytes at %#x: %w", len(scratch), uintptr(dst), err)
		}
	}

	if err := s.mem.WriteAt(dst, scratch); err != nil {
		s.arena.Free(original)
		s.arena.Free(scratch)
		return fmt.Errorf("write %d bytes at %#x: %w", len(scratch), uintptr(dst), err)
	}

	s.patches[dst] = &patchRecord{
		original:    original,
		replacement: scratch,
		recoverable: recoverable,
	}
	return nil
}

// Revert restores the captured bytes for dst and reports whether it wrote
// them back. A record without captured bytes is dropped without a write and
// Revert reports false. Reverting an unpatched address is a no-op.
func (s *Store) Revert(dst Address) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.patches[dst]
	if !ok {
		return false
	}
	_, restored := s.revert(dst, rec)
	return restored
}

// revert undoes one record. A failed restore write keeps the record: the
// patch is still live in host memory and must stay tracked.
//
// Called with s.mu held.
func (s *Store) revert(dst Address, rec *patchRecord) (removed, restored bool) {
	if rec.recoverable {
		if err := s.mem.WriteAt(dst, rec.original); err != nil {
			return false, false
		}
		restored = true
	}

	delete(s.patches, dst)
	s.arena.Free(rec.original)
	s.arena.Free(rec.replacement)
	return true, restored
}

// RevertAll reverts every recoverable record and drops the rest, in
// unspecified order. Invoked on teardown.
func (s *Store) RevertAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for dst, rec := range s.patches {
		s.revert(dst, rec)
	}
}

// Active reports how many patches the store currently tracks.
func (s *Store) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.patches)
}
