package dsl

import "strings"

// GoalStatement is one parsed goal-DSL line: `OP arg1 arg2 …` with an
// optional `@name[:tag]` prefix stripped into Tag.
type GoalStatement struct {
	Tag  string
	Op   string
	Args []string
	Raw  string
}

// GoalPrefixed reports whether the statement's tag marks it as a goal
// statement (§4.6 rule 5: "@goal…" or "@g…").
func (s GoalStatement) GoalPrefixed() bool {
	if s.Tag == "" {
		return false
	}
	name := s.Tag
	if idx := strings.IndexByte(name, ':'); idx >= 0 {
		name = name[:idx]
	}
	name = strings.ToLower(name)
	return strings.HasPrefix(name, "goal") || strings.HasPrefix(name, "g")
}

// GoalBlob is the tokenized result of a question-DSL input: every
// non-comment statement plus whichever control pragmas were seen, in
// first-occurrence-wins order per statement kind.
type GoalBlob struct {
	Statements        []GoalStatement
	GoalLogic         string // "", "And", or "Or" — "" means unset
	Action            string // "", "prove", or "query"
	DeclaredOperators []string
	Errors            []*ParseError
}

// ParseGoalBlob tokenizes a question-DSL blob per §4.5/§4.6: comments and
// blank lines are dropped, control pragmas are scanned (first occurrence
// wins, unknown pragma keys are ignored by classifyLine itself), and every
// remaining line becomes a GoalStatement. Malformed statement lines are
// collected as errors rather than aborting the parse.
func ParseGoalBlob(text string) GoalBlob {
	var blob GoalBlob
	seenLogic, seenAction, seenOps := false, false, false

	for i, raw := range SplitLines(text) {
		lineNo := i + 1
		kind, pragma, stmt, err := classifyLine(raw, lineNo)
		switch kind {
		case LineBlank, LineComment:
			continue
		case LinePragma:
			switch pragma.Kind {
			case PragmaGoalLogic:
				if !seenLogic {
					blob.GoalLogic = pragma.Value
					seenLogic = true
				}
			case PragmaAction:
				if !seenAction {
					blob.Action = pragma.Value
					seenAction = true
				}
			case PragmaDeclareOps:
				if !seenOps {
					for _, op := range strings.Split(pragma.Value, ",") {
						op = strings.TrimSpace(op)
						if op != "" {
							blob.DeclaredOperators = append(blob.DeclaredOperators, op)
						}
					}
					seenOps = true
				}
			}
		case LineStatement:
			if err != nil {
				blob.Errors = append(blob.Errors, err)
				continue
			}
			gs := GoalStatement{Tag: stmt.Tag, Op: stmt.Op, Args: stmt.Args, Raw: stmt.Raw}
			blob.Statements = append(blob.Statements, gs)
		}
	}
	return blob
}

// ContainsVariable reports whether any argument of the statement is a
// variable token (contains '?').
func (s GoalStatement) ContainsVariable() bool {
	for _, a := range s.Args {
		if strings.Contains(a, "?") {
			return true
		}
	}
	return strings.Contains(s.Op, "?")
}
