package benchresults

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyInput     = errors.New("benchmark results are empty")
	ErrMissingColumn  = errors.New("missing required column")
	ErrNoMatch        = errors.New("no matching record")
	ErrAmbiguousMatch = errors.New("more than one matching record")
)

// ParseError reports a malformed line in a results table
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// MatchError reports a lookup that did not match exactly one record
type MatchError struct {
	Threads int
	Regions int
	Mode    Mode
	Count   int
}

func (e *MatchError) Error() string {
	return fmt.Sprintf("exactly one match required for regions=%d threads=%d mode=%s, found %d",
		e.Regions, e.Threads, e.Mode, e.Count)
}

// Unwrap lets callers test with errors.Is against ErrNoMatch or ErrAmbiguousMatch
func (e *MatchError) Unwrap() error {
	if e.Count == 0 {
		return ErrNoMatch
	}
	return ErrAmbiguousMatch
}
