package describe

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"hdcreason/internal/types"
)

func TestDescribeNilResult(t *testing.T) {
	d := NewDefaultDescriber()
	assert.Equal(t, "No result was produced.", d.Describe("prove", nil, ""))
}

func TestDescribeProveSuccess(t *testing.T) {
	d := NewDefaultDescriber()
	res := &types.ReasoningResult{Valid: true, Method: "direct", Steps: []types.Step{{Rule: "axiom"}}}
	assert.Equal(t, "Proved via direct in 1 step.", d.Describe("prove", res, ""))
}

func TestDescribeProveFailureWithReason(t *testing.T) {
	d := NewDefaultDescriber()
	res := &types.ReasoningResult{Valid: false, Reason: "no_matching_rule"}
	assert.Equal(t, "Could not prove the goal (no_matching_rule).", d.Describe("prove", res, ""))
}

func TestDescribeCompound(t *testing.T) {
	d := NewDefaultDescriber()
	res := &types.ReasoningResult{
		Valid:  false,
		Method: "compound_goal_and",
		Parts: []*types.ReasoningResult{
			{Valid: true},
			{Valid: false},
		},
	}
	out := d.Describe("prove", res, "")
	assert.Contains(t, out, "failed")
	assert.Contains(t, out, "goal 1: true")
	assert.Contains(t, out, "goal 2: false")
}

func TestDescribeQueryNoAnswers(t *testing.T) {
	d := NewDefaultDescriber()
	res := &types.ReasoningResult{Success: false}
	assert.Equal(t, `Query "IS_A ?x animal" found no answers.`, d.Describe("query", res, "IS_A ?x animal"))
}

func TestDescribeQueryWithAnswers(t *testing.T) {
	d := NewDefaultDescriber()
	res := &types.ReasoningResult{
		Success: true,
		Matches: []types.Match{
			{Bindings: map[string]types.Binding{"?x": types.AnswerBinding{Answer: "Dog"}}},
			{Bindings: map[string]types.Binding{"?x": types.AnswerBinding{Answer: "Cat"}}},
		},
	}
	out := d.Describe("query", res, "IS_A ?x animal")
	assert.Contains(t, out, "Dog")
	assert.Contains(t, out, "Cat")
}
