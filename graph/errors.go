package graph

import "errors"

var (
	// ErrStoreLocked is returned when a read-write open finds another
	// process already holding the store's write lock.
	ErrStoreLocked = errors.New("store is locked by another process")

	// ErrReadOnly is returned by mutating operations on a store opened
	// in read-only mode.
	ErrReadOnly = errors.New("store is read-only")

	// ErrNotFound is returned when a requested subject has no
	// statements in the graph.
	ErrNotFound = errors.New("not found")
)
