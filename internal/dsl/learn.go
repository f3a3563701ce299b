package dsl

import (
	"strconv"
	"strings"
)

// isAVariants maps an IS_A-family operator token to the existence level
// name it implies (§6: "IS_A, IS_A_CERTAIN, IS_A_PROVEN, IS_A_POSSIBLE,
// IS_A_UNPROVEN — set existence per §3").
var isAVariants = map[string]string{
	"IS_A":          "CERTAIN",
	"IS_A_CERTAIN":  "CERTAIN",
	"IS_A_PROVEN":   "DEMONSTRATED",
	"IS_A_POSSIBLE": "POSSIBLE",
	"IS_A_UNPROVEN": "UNPROVEN",
}

const existencePrefix = "_existence="

// FactStatement is one parsed fact assertion or retraction.
type FactStatement struct {
	Tag       string
	Relation  string
	Args      []string
	Existence string // resolved level name, "" means "use the default (CERTAIN)"
	Retract   bool
	Raw       string
}

// OperatorDecl is a parsed `@rel:rel __Relation` operator declaration: a
// relation symbol plus whichever property tokens followed it.
type OperatorDecl struct {
	Name       string
	Transitive bool
	Symmetric  bool
	Functional bool
}

// RuleBlock is a parsed `@name BEGIN … END` rule definition: a body of
// goal-shaped premise lines and a final `return` line forming the
// conclusion.
type RuleBlock struct {
	Name   string
	Body   []GoalStatement
	Return *GoalStatement
}

// ConceptCommand is a parsed PROTECT/UNPROTECT/BOOST/FORGET directive
// (§6: "learn(dslText) ... protect/boost/forget per commands"). Only the
// fields relevant to Kind are populated.
type ConceptCommand struct {
	Kind      string // "protect", "unprotect", "boost", "forget"
	Label     string // PROTECT, UNPROTECT, BOOST target
	Amount    int    // BOOST amount
	Concept   string // FORGET CONCEPT selector
	Pattern   string // FORGET PATTERN selector
	Threshold string // FORGET THRESHOLD selector, an existence level name
	OlderThan string // FORGET OLDER_THAN selector, a time.ParseDuration string
	DryRun    bool
	Raw       string
}

// Program is the tokenized result of a learn-side DSL blob.
type Program struct {
	Facts           []FactStatement
	OperatorDecls   []OperatorDecl
	Rules           []RuleBlock
	ConceptCommands []ConceptCommand
	Errors          []*ParseError
}

// ParseProgram tokenizes a learn-side DSL blob per §6: fact assertions,
// IS_A variants, operator declarations, `BEGIN…END` rule blocks, and
// RETRACT lines. Unrecognised operators are left as ordinary fact
// assertions; it is the caller's (Session's) job to apply
// autoDeclareUnknownOperators vs. unknown_operator per its configuration.
func ParseProgram(text string) Program {
	var prog Program
	lines := SplitLines(text)

	var openRule *RuleBlock
	for i, raw := range lines {
		lineNo := i + 1
		kind, _, stmt, err := classifyLine(raw, lineNo)
		if kind == LineBlank || kind == LineComment || kind == LinePragma {
			continue
		}
		if err != nil {
			prog.Errors = append(prog.Errors, err)
			continue
		}

		if openRule != nil {
			if strings.EqualFold(stmt.Op, "END") && len(stmt.Args) == 0 {
				prog.Rules = append(prog.Rules, *openRule)
				openRule = nil
				continue
			}
			gs := GoalStatement{Tag: stmt.Tag, Op: stmt.Op, Args: stmt.Args, Raw: stmt.Raw}
			if strings.EqualFold(stmt.Op, "return") {
				ret := gs
				if len(gs.Args) > 0 {
					ret.Op = gs.Args[0]
					ret.Args = gs.Args[1:]
				}
				openRule.Return = &ret
			} else {
				openRule.Body = append(openRule.Body, gs)
			}
			continue
		}

		if strings.EqualFold(stmt.Op, "BEGIN") && len(stmt.Args) == 0 {
			openRule = &RuleBlock{Name: stmt.Tag}
			continue
		}

		if decl, ok := parseOperatorDecl(stmt); ok {
			prog.OperatorDecls = append(prog.OperatorDecls, decl)
			continue
		}

		if cmd, ok, cerr := parseConceptCommand(stmt, lineNo); ok || cerr != nil {
			if cerr != nil {
				prog.Errors = append(prog.Errors, cerr)
			} else {
				prog.ConceptCommands = append(prog.ConceptCommands, cmd)
			}
			continue
		}

		prog.Facts = append(prog.Facts, parseFactStatement(stmt))
	}

	if openRule != nil {
		prog.Errors = append(prog.Errors, &ParseError{Line: len(lines), Col: 1, Msg: "unterminated rule block: " + openRule.Name})
	}
	return prog
}

// parseOperatorDecl recognises `@rel:rel __Relation [transitive] [symmetric]
// [functional]`: a tag of the form "rel:<name>" naming a relation being
// declared, with the relation's own token literally `__Relation` plus
// trailing property flags.
func parseOperatorDecl(stmt *Statement) (OperatorDecl, bool) {
	if !strings.HasPrefix(stmt.Tag, "rel:") || stmt.Op != "__Relation" {
		return OperatorDecl{}, false
	}
	decl := OperatorDecl{Name: strings.TrimPrefix(stmt.Tag, "rel:")}
	for _, flag := range stmt.Args {
		switch strings.ToLower(flag) {
		case "transitive":
			decl.Transitive = true
		case "symmetric":
			decl.Symmetric = true
		case "functional":
			decl.Functional = true
		}
	}
	return decl, true
}

// parseConceptCommand recognises `PROTECT <label>`, `UNPROTECT <label>`,
// `BOOST <label> <amount>`, and `FORGET CONCEPT|PATTERN|THRESHOLD|
// OLDER_THAN <selector> [DRYRUN]`. ok is false for any other statement,
// leaving it to fall through to parseFactStatement; a non-nil error means
// the line WAS one of these commands but malformed.
func parseConceptCommand(stmt *Statement, lineNo int) (ConceptCommand, bool, *ParseError) {
	switch strings.ToUpper(stmt.Op) {
	case "PROTECT":
		if len(stmt.Args) != 1 {
			return ConceptCommand{}, true, &ParseError{Line: lineNo, Col: 1, Msg: "PROTECT needs exactly one concept label"}
		}
		return ConceptCommand{Kind: "protect", Label: stmt.Args[0], Raw: stmt.Raw}, true, nil

	case "UNPROTECT":
		if len(stmt.Args) != 1 {
			return ConceptCommand{}, true, &ParseError{Line: lineNo, Col: 1, Msg: "UNPROTECT needs exactly one concept label"}
		}
		return ConceptCommand{Kind: "unprotect", Label: stmt.Args[0], Raw: stmt.Raw}, true, nil

	case "BOOST":
		if len(stmt.Args) != 2 {
			return ConceptCommand{}, true, &ParseError{Line: lineNo, Col: 1, Msg: "BOOST needs a concept label and an amount"}
		}
		amount, err := strconv.Atoi(stmt.Args[1])
		if err != nil {
			return ConceptCommand{}, true, &ParseError{Line: lineNo, Col: 1, Msg: "BOOST amount must be an integer: " + stmt.Args[1]}
		}
		return ConceptCommand{Kind: "boost", Label: stmt.Args[0], Amount: amount, Raw: stmt.Raw}, true, nil

	case "FORGET":
		return parseForgetCommand(stmt, lineNo)

	default:
		return ConceptCommand{}, false, nil
	}
}

// parseForgetCommand handles FORGET's selector sub-syntax: a selector
// keyword, its value, and an optional trailing DRYRUN flag.
func parseForgetCommand(stmt *Statement, lineNo int) (ConceptCommand, bool, *ParseError) {
	args := stmt.Args
	dryRun := false
	if n := len(args); n > 0 && strings.EqualFold(args[n-1], "DRYRUN") {
		dryRun = true
		args = args[:n-1]
	}
	if len(args) != 2 {
		return ConceptCommand{}, true, &ParseError{Line: lineNo, Col: 1, Msg: "FORGET needs a selector keyword and a value"}
	}

	cmd := ConceptCommand{Kind: "forget", DryRun: dryRun, Raw: stmt.Raw}
	switch strings.ToUpper(args[0]) {
	case "CONCEPT":
		cmd.Concept = args[1]
	case "PATTERN":
		cmd.Pattern = args[1]
	case "THRESHOLD":
		cmd.Threshold = args[1]
	case "OLDER_THAN":
		cmd.OlderThan = args[1]
	default:
		return ConceptCommand{}, true, &ParseError{Line: lineNo, Col: 1, Msg: "unrecognised FORGET selector: " + args[0]}
	}
	return cmd, true, nil
}

func parseFactStatement(stmt *Statement) FactStatement {
	fs := FactStatement{Tag: stmt.Tag, Relation: stmt.Op, Retract: stmt.Retract, Raw: stmt.Raw}
	if level, ok := isAVariants[stmt.Op]; ok {
		fs.Relation = "IS_A"
		fs.Existence = level
	}
	for _, a := range stmt.Args {
		if strings.HasPrefix(a, existencePrefix) {
			fs.Existence = strings.TrimPrefix(a, existencePrefix)
			continue
		}
		fs.Args = append(fs.Args, a)
	}
	return fs
}
