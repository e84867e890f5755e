package config

import "strings"

// ParseError reports settings text that could not be read at all:
// malformed syntax, a missing required key or a value of the wrong type.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return "parse settings: " + e.Err.Error()
}

func (e *ParseError) Unwrap() error { return e.Err }

// ValidationError carries the rendered report of every capacity and
// semantic violation found in a document.
type ValidationError struct {
	Report string
}

func (e *ValidationError) Error() string {
	return "invalid settings:\n" + strings.TrimRight(e.Report, "\n")
}
