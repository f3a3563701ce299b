// Package validation hosts the question-DSL GoalValidator: it normalises a
// goal blob into one or more goal lines plus the logic/action/operator
// metadata the reasoner needs, and never panics on malformed input.
package validation

import (
	"strings"

	"hdcreason/internal/dsl"
)

// GoalLogic names how a multi-goal blob's sub-results combine.
type GoalLogic string

const (
	LogicSingle GoalLogic = "Single"
	LogicAnd    GoalLogic = "And"
	LogicOr     GoalLogic = "Or"
)

// Action names whether a goal should be proved or queried.
type Action string

const (
	ActionProve Action = "prove"
	ActionQuery Action = "query"
)

// Result is the outcome of validating a question-DSL blob (§4.6).
type Result struct {
	Valid             bool
	Reason            string
	Goals             []string
	GoalLogic         GoalLogic
	Action            Action
	DeclaredOperators []string
}

// GoalValidator validates and normalises question-DSL input. It is pure:
// identical input text always produces an identical Result (§3 invariant 7).
type GoalValidator struct{}

// NewGoalValidator returns a GoalValidator. It carries no state.
func NewGoalValidator() *GoalValidator {
	return &GoalValidator{}
}

// Validate applies §4.6's rules 1-5 in order.
func (v *GoalValidator) Validate(questionDSL string) Result {
	if strings.TrimSpace(questionDSL) == "" {
		return Result{Valid: false, Reason: "empty_question_dsl"}
	}

	blob := dsl.ParseGoalBlob(questionDSL)
	if len(blob.Statements) == 0 {
		return Result{Valid: false, Reason: "no_statements"}
	}

	declaredOps := append([]string(nil), blob.DeclaredOperators...)

	if len(blob.Statements) == 1 {
		stmt := blob.Statements[0]
		goal := normaliseGoal(stmt)
		action := Action(blob.Action)
		if action == "" {
			if stmt.ContainsVariable() {
				action = ActionQuery
			} else {
				action = ActionProve
			}
		}
		return Result{
			Valid:             true,
			Goals:             []string{goal},
			GoalLogic:         LogicSingle,
			Action:            action,
			DeclaredOperators: declaredOps,
		}
	}

	goals := make([]string, 0, len(blob.Statements))
	for _, stmt := range blob.Statements {
		if !stmt.GoalPrefixed() {
			return Result{Valid: false, Reason: "multi_statement_no_goal"}
		}
		goals = append(goals, normaliseGoal(stmt))
	}

	logic := GoalLogic(blob.GoalLogic)
	if logic == "" {
		logic = LogicAnd
	}
	action := Action(blob.Action)
	if action == "" {
		action = ActionProve
		for _, stmt := range blob.Statements {
			if stmt.ContainsVariable() {
				action = ActionQuery
				break
			}
		}
	}

	return Result{
		Valid:             true,
		Goals:             goals,
		GoalLogic:         logic,
		Action:            action,
		DeclaredOperators: declaredOps,
	}
}

// normaliseGoal renders a statement (tag already stripped by the DSL
// tokenizer) back into a plain "OP arg1 arg2 …" goal line.
func normaliseGoal(stmt dsl.GoalStatement) string {
	parts := append([]string{stmt.Op}, stmt.Args...)
	return strings.Join(parts, " ")
}
