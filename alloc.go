package hotpatch

import (
	"errors"
	"fmt"
	"sync"

	"github.com/pboyd/malloc"
)

// bufArena allocates the byte buffers owned by patch records. The buffers
// live outside the Go heap so captured bytes never move while a patch is
// active.
type bufArena struct {
	*malloc.Arena
	mu       sync.Mutex
	initOnce sync.Once
}

func (a *bufArena) init(startSize int) error {
	var err error
	a.initOnce.Do(func() {
		be := malloc.MmapBackend(protRW, 0)

		a.Arena = malloc.NewArena(uint64(startSize), malloc.Backend(be))
		if a.Arena == nil {
			err = errors.New("unable to initialize arena")
		}
	})
	return err
}

func (a *bufArena) Allocate(size int) ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Note that init only runs on the first allocation.
	err := a.init(size)
	if err != nil {
		return nil, fmt.Errorf("error initializing arena: %w", err)
	}

	return malloc.MallocSlice[byte](a.Arena, size)
}

func (a *bufArena) Free(buf []byte) {
	if buf == nil {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	malloc.FreeSlice(a.Arena, buf)
}
