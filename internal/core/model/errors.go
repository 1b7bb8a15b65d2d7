package model

import "errors"

// Error kinds surfaced by the query core. Callers match with errors.Is;
// wrapped messages carry the offending name or parameter.
var (
	// ErrNotFound means a referenced entity name does not exist in the snapshot.
	ErrNotFound = errors.New("entity not found")

	// ErrEmptyGraph means an aggregate operation has no data to aggregate.
	ErrEmptyGraph = errors.New("graph has no relationships")

	// ErrInvalidParameter means the caller supplied an out-of-range parameter.
	ErrInvalidParameter = errors.New("invalid parameter")
)
