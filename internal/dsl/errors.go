// Package dsl tokenizes and parses the fact/rule/goal DSL the reasoner
// learns and proves over. Parsing is tolerant: malformed input always
// yields a structured ParseError, never a panic.
package dsl

import "fmt"

// ParseError reports a malformed line by position, never by panicking.
type ParseError struct {
	Line int
	Col  int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("dsl:%d:%d: %s", e.Line, e.Col, e.Msg)
}
