package parser

import (
	"errors"
	"fmt"
)

// Sentinel errors for broad classification with errors.Is.
var (
	ErrResourceNotFound = errors.New("resource not found")
	ErrParse            = errors.New("parse error")
	ErrRaggedRow        = errors.New("ragged row")
)

// ResourceNotFoundError is returned when a table resource does not exist or
// cannot be opened for reading. It is raised before any parsing happens.
type ResourceNotFoundError struct {
	Path string
	Err  error
}

func (e *ResourceNotFoundError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("expected file not found: %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("expected file not found: %s", e.Path)
}

func (e *ResourceNotFoundError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func (e *ResourceNotFoundError) Is(target error) bool {
	return target == ErrResourceNotFound
}

// ParseError reports a token that is neither a decimal nor a p/q literal.
// Path and Line are zero-valued when the token was parsed outside a table load.
type ParseError struct {
	Token string
	Path  string
	Line  int
	Err   error
}

func (e *ParseError) Error() string {
	if e == nil {
		return "<nil>"
	}
	base := fmt.Sprintf("invalid numeric token %q", e.Token)
	if e.Path != "" {
		base = fmt.Sprintf("%s:%d: %s", e.Path, e.Line, base)
	} else if e.Line > 0 {
		base = fmt.Sprintf("line %d: %s", e.Line, base)
	}
	if e.Err != nil {
		base += fmt.Sprintf(": %v", e.Err)
	}
	return base
}

func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// RaggedRowError is only raised by loads that opt into WithRectangular.
type RaggedRowError struct {
	Path string
	Line int
	Want int
	Got  int
}

func (e *RaggedRowError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s:%d: row has %d columns, expected %d", e.Path, e.Line, e.Got, e.Want)
}

func (e *RaggedRowError) Is(target error) bool {
	return target == ErrRaggedRow
}
