package dsl

import "strings"

// LineKind classifies one line of either the goal or the learn-side DSL.
type LineKind string

const (
	LineBlank     LineKind = "blank"
	LineComment   LineKind = "comment"
	LinePragma    LineKind = "pragma"
	LineStatement LineKind = "statement"
)

// PragmaKind names a recognised control comment.
type PragmaKind string

const (
	PragmaGoalLogic  PragmaKind = "goal_logic"
	PragmaDeclareOps PragmaKind = "declare_ops"
	PragmaAction     PragmaKind = "action"
)

// Pragma is one parsed control comment, e.g. `// goal_logic: And`.
type Pragma struct {
	Kind  PragmaKind
	Value string
}

// Statement is one tokenized, non-comment DSL line: an optional `@tag`
// prefix followed by an operator and its arguments.
type Statement struct {
	Tag     string // stripped of the leading '@', "" if absent
	Op      string
	Args    []string
	Retract bool // trailing "RETRACT" token seen
	Raw     string
}

// classifyLine determines whether raw is blank, a comment, a recognised
// control pragma, or a statement to hand to a caller-specific parser.
// Recognised pragma kinds are parsed inline; unrecognised `//` comments are
// reported as LineComment and silently ignored by callers, per §4.6 rule 3
// ("unknown control comments ignored").
func classifyLine(raw string, lineNo int) (LineKind, *Pragma, *Statement, *ParseError) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return LineBlank, nil, nil, nil
	}
	if strings.HasPrefix(trimmed, "//") {
		body := strings.TrimSpace(strings.TrimPrefix(trimmed, "//"))
		if p := parsePragma(body); p != nil {
			return LinePragma, p, nil, nil
		}
		return LineComment, nil, nil, nil
	}
	stmt, err := tokenizeStatement(trimmed, lineNo)
	if err != nil {
		return LineStatement, nil, nil, err
	}
	return LineStatement, nil, stmt, nil
}

func parsePragma(body string) *Pragma {
	idx := strings.IndexByte(body, ':')
	if idx < 0 {
		return nil
	}
	key := strings.TrimSpace(body[:idx])
	value := strings.TrimSpace(body[idx+1:])
	switch PragmaKind(key) {
	case PragmaGoalLogic, PragmaDeclareOps, PragmaAction:
		return &Pragma{Kind: PragmaKind(key), Value: value}
	default:
		return nil
	}
}

// tokenizeStatement splits a non-comment line into an optional `@tag`
// prefix, an operator token, and the remaining argument tokens.
func tokenizeStatement(line string, lineNo int) (*Statement, *ParseError) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, &ParseError{Line: lineNo, Col: 1, Msg: "empty statement"}
	}

	stmt := &Statement{Raw: line}
	i := 0
	if strings.HasPrefix(fields[0], "@") {
		stmt.Tag = strings.TrimPrefix(fields[0], "@")
		i = 1
	}
	if i >= len(fields) {
		return nil, &ParseError{Line: lineNo, Col: 1, Msg: "statement has a tag but no operator"}
	}
	stmt.Op = fields[i]
	i++
	for ; i < len(fields); i++ {
		if strings.EqualFold(fields[i], "RETRACT") {
			stmt.Retract = true
			continue
		}
		stmt.Args = append(stmt.Args, fields[i])
	}
	return stmt, nil
}

// SplitLines splits a DSL blob into raw lines, preserving line numbers
// (1-indexed) for error reporting.
func SplitLines(text string) []string {
	return strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
}
