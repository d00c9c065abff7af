package source

import (
	"errors"
	"fmt"
)

// Operations reported by IOFailure.
const (
	OpRead   = "read"
	OpDecode = "decode"
	OpWrite  = "write"
)

// ErrDecode marks content that is not valid UTF-8 (or BOM-tagged UTF-16).
var ErrDecode = errors.New("invalid UTF-8 content")

// IOFailure is the error kind for every storage problem: missing files,
// permissions, and undecodable content.
type IOFailure struct {
	Op   string
	Path string
	Err  error
}

func (e *IOFailure) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOFailure) Unwrap() error {
	return e.Err
}
