package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hdcreason/internal/reasoning"
	"hdcreason/internal/sessioncfg"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	s, err := New(sessioncfg.Default())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := sessioncfg.Default()
	cfg.Geometry = 0
	_, err := New(cfg)
	assert.Error(t, err)
}

func TestLoadCorePopulatesTaxonomy(t *testing.T) {
	s := newTestSession(t)
	report := s.LoadCore(true)
	assert.True(t, report.Success, report.Errors)

	result := s.Prove("IS_A Dog Animal", reasoning.Options{})
	assert.True(t, result.Valid)
}

func TestLoadCoreIsIdempotent(t *testing.T) {
	s := newTestSession(t)
	first := s.LoadCore(false)
	second := s.LoadCore(false)
	assert.True(t, first.Success)
	assert.True(t, second.Success)
}

func TestLearnFactThenProveDirect(t *testing.T) {
	s := newTestSession(t)
	report := s.Learn("Likes Alice Bob")
	require.True(t, report.Success)
	assert.Equal(t, 1, report.Facts)

	result := s.Prove("Likes Alice Bob", reasoning.Options{})
	assert.True(t, result.Valid)
}

func TestLearnRuleExpandsOnProve(t *testing.T) {
	s := newTestSession(t)
	report := s.Learn("Parent Alice Bob\nParent Bob Carol\n@grandparent BEGIN\nParent ?x ?y\nParent ?y ?z\nreturn Grandparent ?x ?z\nEND")
	require.True(t, report.Success)

	result := s.Prove("Grandparent Alice Carol", reasoning.Options{})
	assert.True(t, result.Valid)
}

func TestLearnRetractRemovesFact(t *testing.T) {
	s := newTestSession(t)
	require.True(t, s.Learn("Likes Alice Bob").Success)
	require.True(t, s.Learn("Likes Alice Bob RETRACT").Success)

	result := s.Prove("Likes Alice Bob", reasoning.Options{})
	assert.False(t, result.Valid)
}

func TestLearnReportsErrorsWithoutAbortingLine(t *testing.T) {
	s := newTestSession(t)
	report := s.Learn("Likes\nLikes Alice Bob")
	assert.False(t, report.Success)
	assert.Equal(t, 1, report.Facts)
}

func TestQueryReturnsBindings(t *testing.T) {
	s := newTestSession(t)
	require.True(t, s.Learn("IS_A Dog Mammal").Success)

	result := s.Query("IS_A Dog ?x", reasoning.Options{})
	assert.True(t, result.Success)
	assert.NotEmpty(t, result.Matches)
}

func TestDescribeResultRendersProse(t *testing.T) {
	s := newTestSession(t)
	require.True(t, s.Learn("Likes Alice Bob").Success)

	result := s.Prove("Likes Alice Bob", reasoning.Options{})
	text := s.DescribeResult("prove", result, "")
	assert.NotEmpty(t, text)
}

func TestStatsTracksCallCounts(t *testing.T) {
	s := newTestSession(t)
	require.True(t, s.Learn("Likes Alice Bob").Success)
	s.Prove("Likes Alice Bob", reasoning.Options{})
	s.Query("Likes Alice ?x", reasoning.Options{})

	stats := s.Stats()
	assert.Equal(t, 1, stats.ProveCalls)
	assert.Equal(t, 1, stats.QueryCalls)
	assert.Equal(t, 1, stats.FactsLearned)
}

func TestProveAutoDeclaresGoalOperators(t *testing.T) {
	s := newTestSession(t)
	require.True(t, s.Learn("Likes Alice Bob\nLikes Bob Carol").Success)

	result := s.Prove("// declare_ops: Likes\nLikes Alice Bob", reasoning.Options{})
	require.True(t, result.Valid)
	assert.True(t, result.Success)
	_, declared := s.reasoner.OperatorMeta("Likes")
	assert.True(t, declared)
}

func TestPushPopDiscardsHypotheticalFacts(t *testing.T) {
	s := newTestSession(t)
	require.True(t, s.Learn("Likes Alice Bob").Success)

	require.NoError(t, s.Push(false))
	require.True(t, s.Learn("Likes Alice Carol").Success)

	result := s.Prove("Likes Alice Carol", reasoning.Options{})
	assert.True(t, result.Valid)

	require.NoError(t, s.Pop())
	result = s.Prove("Likes Alice Carol", reasoning.Options{})
	assert.False(t, result.Valid)

	result = s.Prove("Likes Alice Bob", reasoning.Options{})
	assert.True(t, result.Valid)
}

func TestCommitFoldsHypotheticalFactIntoStore(t *testing.T) {
	s := newTestSession(t)

	require.NoError(t, s.Push(false))
	require.True(t, s.Learn("Likes Alice Bob").Success)
	require.NoError(t, s.Commit())

	result := s.Prove("Likes Alice Bob", reasoning.Options{})
	assert.True(t, result.Valid)
}

func TestLearnProtectPreventsForget(t *testing.T) {
	s := newTestSession(t)
	report := s.Learn("Likes Alice Bob\nPROTECT Alice\nFORGET CONCEPT Alice")
	require.True(t, report.Success, report.Errors)

	result := s.Prove("Likes Alice Bob", reasoning.Options{})
	assert.True(t, result.Valid)
}

func TestLearnForgetRemovesUnprotectedFact(t *testing.T) {
	s := newTestSession(t)
	report := s.Learn("Likes Alice Bob\nFORGET CONCEPT Alice")
	require.True(t, report.Success, report.Errors)

	result := s.Prove("Likes Alice Bob", reasoning.Options{})
	assert.False(t, result.Valid)
}

func TestLearnBoostRaisesUsagePriority(t *testing.T) {
	s := newTestSession(t)
	report := s.Learn("Likes Alice Bob\nBOOST Alice 10")
	require.True(t, report.Success, report.Errors)
}
