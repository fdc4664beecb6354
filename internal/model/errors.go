package model

import "errors"

// Sentinel errors the pipeline branches on. I/O and parse failures are
// wrapped with fmt.Errorf("%w") at the call site instead.
var (
	ErrNotFound     = errors.New("not found")
	ErrEmptyArchive = errors.New("empty zip archive")
)
