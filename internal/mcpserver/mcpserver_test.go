package mcpserver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hdcreason/internal/session"
	"hdcreason/internal/sessioncfg"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	sess, err := session.New(sessioncfg.Default())
	require.NoError(t, err)
	t.Cleanup(func() { _ = sess.Close() })
	return NewServer(sess)
}

func TestHandleLearnRejectsEmptyDSL(t *testing.T) {
	s := newTestServer(t)
	_, _, err := s.handleLearn(context.Background(), nil, LearnRequest{})
	assert.Error(t, err)
}

func TestHandleLearnThenProve(t *testing.T) {
	s := newTestServer(t)
	_, learnResp, err := s.handleLearn(context.Background(), nil, LearnRequest{DSL: "Likes Alice Bob"})
	require.NoError(t, err)
	assert.True(t, learnResp.Success)
	assert.Equal(t, 1, learnResp.Facts)

	_, result, err := s.handleProve(context.Background(), nil, GoalRequest{Goal: "Likes Alice Bob"})
	require.NoError(t, err)
	assert.True(t, result.Valid)
}

func TestHandleQueryReturnsMatches(t *testing.T) {
	s := newTestServer(t)
	_, _, err := s.handleLearn(context.Background(), nil, LearnRequest{DSL: "IS_A Dog Mammal"})
	require.NoError(t, err)

	_, result, err := s.handleQuery(context.Background(), nil, GoalRequest{Goal: "IS_A Dog ?x"})
	require.NoError(t, err)
	assert.True(t, result.Success)
}

func TestHandleDescribeResult(t *testing.T) {
	s := newTestServer(t)
	_, _, err := s.handleLearn(context.Background(), nil, LearnRequest{DSL: "Likes Alice Bob"})
	require.NoError(t, err)
	_, proveResult, err := s.handleProve(context.Background(), nil, GoalRequest{Goal: "Likes Alice Bob"})
	require.NoError(t, err)

	_, desc, err := s.handleDescribeResult(context.Background(), nil, DescribeRequest{Action: "prove", Result: proveResult})
	require.NoError(t, err)
	assert.NotEmpty(t, desc.Description)
}

func TestHandleLoadCore(t *testing.T) {
	s := newTestServer(t)
	_, resp, err := s.handleLoadCore(context.Background(), nil, LoadCoreRequest{IncludeIndex: true})
	require.NoError(t, err)
	assert.True(t, resp.Success)
}
