// Package reasonerr defines the named error kinds this engine's
// external-facing operations can return (§7), so callers can discriminate
// them with errors.As instead of string-matching an error message. Every
// internal subsystem error that isn't one of these kinds is still returned
// as a plain wrapped error (fmt.Errorf("...: %w", err)), matching the
// teacher's convention for everything outside this taxonomy.
package reasonerr

import "fmt"

// ParseError reports a malformed line in either DSL (learn-side or
// goal-side), carrying its 1-indexed line/column for caller display.
type ParseError struct {
	Line int
	Col  int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at %d:%d: %s", e.Line, e.Col, e.Msg)
}

// InvalidGoal reports a structurally invalid goal passed to Prove/Query
// (§4.7.6's `invalid_goal:<sub-reason>`).
type InvalidGoal struct {
	Reason string
}

func (e *InvalidGoal) Error() string {
	return "invalid goal: " + e.Reason
}

// UnknownOperator reports a rule premise referencing a relation symbol
// with no known operator semantics (§4.7.6's `unknown_operator:<op>`).
type UnknownOperator struct {
	Op string
}

func (e *UnknownOperator) Error() string {
	return "unknown operator: " + e.Op
}

// ConfigError reports a session configuration that failed validation
// (§10.2); session construction with an invalid config is fatal.
type ConfigError struct {
	Msg string
}

func (e *ConfigError) Error() string {
	return "config error: " + e.Msg
}
