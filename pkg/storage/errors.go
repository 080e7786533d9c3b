// Package storage pkg/storage/errors.go provides errors for the storage package.
package storage

import "errors"

var (
	ErrFailedToWrite     = errors.New("failed to write point")
	ErrFailedToClean     = errors.New("failed to clean")
	ErrFailedToBeginTx   = errors.New("failed to begin transaction")
	ErrFailedToInsert    = errors.New("failed to insert")
	ErrFailedToInit      = errors.New("failed to initialize schema")
	ErrFailedToEnableWAL = errors.New("failed to enable WAL mode")
	ErrFailedOpenDB      = errors.New("failed to open database")
	ErrNilPoint          = errors.New("nil data point")
	ErrUnknownBackend    = errors.New("unknown storage backend")
)
