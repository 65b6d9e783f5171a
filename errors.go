package main

import (
	"errors"
	"fmt"
)

// ParseError is reported by a scanner back end that cannot read a
// statement, such as an unterminated string literal.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse error at line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("parse error: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// EngineFault means the engine abandoned the file. The caller must treat
// it as "no change"; the original text is untouched.
type EngineFault struct {
	Err error
}

func (e *EngineFault) Error() string {
	return fmt.Sprintf("import block left unchanged: %v", e.Err)
}

func (e *EngineFault) Unwrap() error {
	return e.Err
}

// Reasons a member list is left unsorted.
var (
	ErrUnterminatedList = errors.New("member list has no closing brace")
	ErrMixedListLayout  = errors.New("members share a line with the opening or closing brace")
	ErrCommentInList    = errors.New("member list contains a comment")
	ErrInvalidMember    = errors.New("invalid member")
)
