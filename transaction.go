package hotpatch

import "fmt"

// Backend is the hooking subsystem the transaction manager drives. The four
// primitives mirror the usual detour-library shape: redirects are staged
// with Attach and only become live (all of them, atomically with respect to
// other threads) at CommitTransaction. AbortTransaction undoes whatever has
// been staged or applied in the current transaction.
type Backend interface {
	BeginTransaction() error
	Attach(original, replacement Address) error
	CommitTransaction() error
	AbortTransaction() error
}

// Attachment is one requested function redirection.
type Attachment struct {
	Original    Address
	Replacement Address
}

// TxState is the lifecycle state of a Tx.
type TxState uint8

const (
	TxOpen TxState = iota
	TxCommitted
	TxAborted
)

func (s TxState) String() string {
	switch s {
	case TxOpen:
		return "open"
	case TxCommitted:
		return "committed"
	case TxAborted:
		return "aborted"
	}
	return fmt.Sprintf("TxState(%d)", uint8(s))
}

// Tx is a one-shot hook transaction. It is created by Begin, mutated by
// Attach, and fixed forever by the first Commit or Abort. A Tx must not be
// left open: arm the rollback right after Begin and let Commit disarm it.
//
//	tx, err := hotpatch.Begin(backend)
//	if err != nil {
//		return err
//	}
//	defer tx.Abort()
//	...
//	return tx.Commit()
type Tx struct {
	backend Backend
	state   TxState
	staged  []Attachment
}

// Begin opens a transaction on the backend. A non-nil error means the
// backend refused and no Tx exists to commit or abort.
func Begin(backend Backend) (*Tx, error) {
	if err := backend.BeginTransaction(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransactionStart, err)
	}
	return &Tx{backend: backend}, nil
}

// State returns the transaction's current state.
func (tx *Tx) State() TxState { return tx.state }

// Staged returns the redirections requested so far, in request order.
func (tx *Tx) Staged() []Attachment {
	out := make([]Attachment, len(tx.staged))
	copy(out, tx.staged)
	return out
}

// Attach stages a redirect of original to replacement. On backend failure
// the transaction stays open, but the caller should abort rather than keep
// attaching: a partial hook set must never be committed.
func (tx *Tx) Attach(original, replacement Address) error {
	if tx.state != TxOpen {
		return fmt.Errorf("%w: attach on %s transaction", ErrInvalidState, tx.state)
	}
	if original == 0 || replacement == 0 {
		return fmt.Errorf("%w: attach with nil function", ErrInvalidArgument)
	}

	if err := tx.backend.Attach(original, replacement); err != nil {
		return fmt.Errorf("%w: %#x -> %#x: %v", ErrAttach, uintptr(original), uintptr(replacement), err)
	}

	tx.staged = append(tx.staged, Attachment{Original: original, Replacement: replacement})
	return nil
}

// Commit makes all staged redirections live. On failure the backend's abort
// primitive is invoked, every staged redirection is reverted and the
// transaction lands in TxAborted; the host functions are left untouched
// either way except for a full, successful commit.
func (tx *Tx) Commit() error {
	if tx.state != TxOpen {
		return fmt.Errorf("%w: commit on %s transaction", ErrInvalidState, tx.state)
	}

	if err := tx.backend.CommitTransaction(); err != nil {
		tx.state = TxAborted
		tx.backend.AbortTransaction()
		return fmt.Errorf("commit: %w", err)
	}

	tx.state = TxCommitted
	return nil
}

// Abort reverts all staged redirections. Aborting an already aborted
// transaction is a no-op; aborting after a successful commit is refused
// with ErrInvalidState.
func (tx *Tx) Abort() error {
	switch tx.state {
	case TxAborted:
		return nil
	case TxCommitted:
		return fmt.Errorf("%w: abort on committed transaction", ErrInvalidState)
	}

	tx.state = TxAborted
	return tx.backend.AbortTransaction()
}
