package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmptyInput(t *testing.T) {
	v := NewGoalValidator()
	res := v.Validate("   ")
	assert.False(t, res.Valid)
	assert.Equal(t, "empty_question_dsl", res.Reason)
}

func TestValidateOnlyComments(t *testing.T) {
	v := NewGoalValidator()
	res := v.Validate("// just a note\n")
	assert.False(t, res.Valid)
	assert.Equal(t, "no_statements", res.Reason)
}

func TestValidateSingleGoalInfersProve(t *testing.T) {
	v := NewGoalValidator()
	res := v.Validate("IS_A Dog animal")
	assert.True(t, res.Valid)
	assert.Equal(t, LogicSingle, res.GoalLogic)
	assert.Equal(t, ActionProve, res.Action)
	assert.Equal(t, []string{"IS_A Dog animal"}, res.Goals)
}

func TestValidateSingleGoalWithVariableInfersQuery(t *testing.T) {
	v := NewGoalValidator()
	res := v.Validate("HAS Dog ?x")
	assert.True(t, res.Valid)
	assert.Equal(t, ActionQuery, res.Action)
}

func TestValidateExplicitActionWins(t *testing.T) {
	v := NewGoalValidator()
	res := v.Validate("// action: query\nIS_A Dog animal")
	assert.Equal(t, ActionQuery, res.Action)
}

func TestValidateMultiStatementRequiresGoalTag(t *testing.T) {
	v := NewGoalValidator()
	res := v.Validate("IS_A Dog animal\nHAS Dog tail")
	assert.False(t, res.Valid)
	assert.Equal(t, "multi_statement_no_goal", res.Reason)
}

func TestValidateMultiGoalDefaultsToAnd(t *testing.T) {
	v := NewGoalValidator()
	res := v.Validate("@goal1 IS_A Dog animal\n@goal2 HAS Dog tail")
	assert.True(t, res.Valid)
	assert.Equal(t, LogicAnd, res.GoalLogic)
	assert.Equal(t, []string{"IS_A Dog animal", "HAS Dog tail"}, res.Goals)
}

func TestValidateMultiGoalExplicitOr(t *testing.T) {
	v := NewGoalValidator()
	res := v.Validate("// goal_logic: Or\n@goal1 IS_A Dog animal\n@goal2 IS_A Dog fish")
	assert.Equal(t, LogicOr, res.GoalLogic)
}

func TestValidateDeclaredOperatorsPropagate(t *testing.T) {
	v := NewGoalValidator()
	res := v.Validate("// declare_ops: FOO, BAR\nFOO Dog animal")
	assert.Equal(t, []string{"FOO", "BAR"}, res.DeclaredOperators)
}

func TestValidateIsPure(t *testing.T) {
	v := NewGoalValidator()
	text := "@goal1 IS_A Dog animal\n@goal2 HAS Dog tail"
	first := v.Validate(text)
	second := v.Validate(text)
	assert.Equal(t, first, second)
}
