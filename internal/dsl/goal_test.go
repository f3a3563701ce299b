package dsl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGoalBlobSingleStatement(t *testing.T) {
	blob := ParseGoalBlob("IS_A Dog animal")
	require.Len(t, blob.Statements, 1)
	assert.Equal(t, "IS_A", blob.Statements[0].Op)
	assert.Empty(t, blob.Errors)
}

func TestParseGoalBlobScansPragmas(t *testing.T) {
	text := "// goal_logic: And\n// declare_ops: FOO, BAR\n// action: query\n@goal1 IS_A Dog animal\n@goal2 HAS Dog tail"
	blob := ParseGoalBlob(text)
	assert.Equal(t, "And", blob.GoalLogic)
	assert.Equal(t, "query", blob.Action)
	assert.Equal(t, []string{"FOO", "BAR"}, blob.DeclaredOperators)
	assert.Len(t, blob.Statements, 2)
}

func TestParseGoalBlobFirstPragmaWins(t *testing.T) {
	text := "// goal_logic: And\n// goal_logic: Or\nIS_A Dog animal"
	blob := ParseGoalBlob(text)
	assert.Equal(t, "And", blob.GoalLogic)
}

func TestParseGoalBlobSkipsBlankAndComments(t *testing.T) {
	text := "\n// a note\n\nIS_A Dog animal\n"
	blob := ParseGoalBlob(text)
	require.Len(t, blob.Statements, 1)
}

func TestGoalPrefixedRecognisesGoalAndGTags(t *testing.T) {
	assert.True(t, GoalStatement{Tag: "goal1"}.GoalPrefixed())
	assert.True(t, GoalStatement{Tag: "g2:export"}.GoalPrefixed())
	assert.False(t, GoalStatement{Tag: "rel:foo"}.GoalPrefixed())
	assert.False(t, GoalStatement{}.GoalPrefixed())
}

func TestContainsVariable(t *testing.T) {
	assert.True(t, GoalStatement{Args: []string{"Dog", "?x"}}.ContainsVariable())
	assert.False(t, GoalStatement{Args: []string{"Dog", "animal"}}.ContainsVariable())
}

func TestParseGoalBlobCollectsStatementErrors(t *testing.T) {
	blob := ParseGoalBlob("@onlytag")
	assert.Empty(t, blob.Statements)
	require.Len(t, blob.Errors, 1)
}
