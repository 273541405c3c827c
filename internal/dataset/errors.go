package dataset

import "errors"

// Dataset loading errors.
var (
	ErrUnknownFormat = errors.New("unknown column format")
	ErrUnknownInput  = errors.New("unknown input format")
	ErrEmptyInput    = errors.New("input has no header or records")
	ErrBadRecord     = errors.New("malformed record")
)
