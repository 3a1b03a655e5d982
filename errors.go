package hotpatch

import "errors"

var (
	// ErrInvalidArgument means a nil address, zero size or empty byte
	// sequence was passed.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrAllocation means a scratch or record buffer could not be obtained.
	ErrAllocation = errors.New("allocation failed")
	// ErrTransactionStart means the hooking backend refused to open a
	// transaction.
	ErrTransactionStart = errors.New("transaction start failed")
	// ErrAttach means the backend rejected a redirect request.
	ErrAttach = errors.New("attach rejected")
	// ErrInvalidState means the operation is not allowed in the
	// transaction's current state.
	ErrInvalidState = errors.New("invalid transaction state")
)
