package toml

import (
	"errors"
	"fmt"
)

var (
	ErrSyntax       = errors.New("toml syntax error")
	ErrDuplicateKey = errors.New("duplicate key")
	ErrKeyConflict  = errors.New("key redefined with a different type")
	ErrUnknownKey   = errors.New("unknown key")
	ErrType         = errors.New("type mismatch")
	ErrTarget       = errors.New("decode target must be a non-nil pointer")
)

// ParseError locates a syntax or structure error in the source
type ParseError struct {
	Line int
	Msg  string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("toml line %d: %s", e.Line, e.Msg)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
