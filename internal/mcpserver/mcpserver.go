// Package mcpserver exposes one Session's learn/prove/query/
// describe_result/load_core operations as MCP tools (§11's
// "modelcontextprotocol/go-sdk" wiring: a thin MCP server mirroring the
// teacher's RegisterTools/stdio-transport shape).
package mcpserver

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"hdcreason/internal/reasoning"
	"hdcreason/internal/session"
	"hdcreason/internal/types"
)

// Server adapts a Session to the MCP tool-call protocol.
type Server struct {
	session *session.Session
}

// NewServer wraps sess for MCP tool registration.
func NewServer(sess *session.Session) *Server {
	return &Server{session: sess}
}

// RegisterTools registers learn, prove, query, describe_result, and
// load_core on mcpServer.
func (s *Server) RegisterTools(mcpServer *mcp.Server) {
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "learn",
		Description: "Assert facts, rules, and operator declarations from a DSL blob",
	}, s.handleLearn)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "prove",
		Description: "Attempt to prove a goal line or compound goal blob",
	}, s.handleProve)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "query",
		Description: "Resolve variable bindings for a goal line",
	}, s.handleQuery)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "describe_result",
		Description: "Render a prior prove/query result as English prose",
	}, s.handleDescribeResult)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "load_core",
		Description: "Pre-populate built-in concepts and relations",
	}, s.handleLoadCore)
}

// LearnRequest is the learn tool's input.
type LearnRequest struct {
	DSL string `json:"dsl"`
}

// LearnResponse is the learn tool's output.
type LearnResponse struct {
	Success  bool     `json:"success"`
	Facts    int      `json:"facts"`
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

func (s *Server) handleLearn(ctx context.Context, req *mcp.CallToolRequest, input LearnRequest) (*mcp.CallToolResult, *LearnResponse, error) {
	if input.DSL == "" {
		return nil, nil, fmt.Errorf("mcpserver: dsl must not be empty")
	}
	report := s.session.Learn(input.DSL)
	return nil, &LearnResponse{Success: report.Success, Facts: report.Facts, Errors: report.Errors, Warnings: report.Warnings}, nil
}

// GoalRequest is shared by the prove and query tools.
type GoalRequest struct {
	Goal               string `json:"goal"`
	TimeoutMs          int    `json:"timeoutMs,omitempty"`
	IncludeSearchTrace bool   `json:"includeSearchTrace,omitempty"`
	IgnoreNegation     bool   `json:"ignoreNegation,omitempty"`
}

func (r GoalRequest) toOptions() reasoning.Options {
	opts := reasoning.Options{IncludeSearchTrace: r.IncludeSearchTrace, IgnoreNegation: r.IgnoreNegation}
	if r.TimeoutMs > 0 {
		opts.Timeout = time.Duration(r.TimeoutMs) * time.Millisecond
	}
	return opts
}

func (s *Server) handleProve(ctx context.Context, req *mcp.CallToolRequest, input GoalRequest) (*mcp.CallToolResult, *types.ReasoningResult, error) {
	if input.Goal == "" {
		return nil, nil, fmt.Errorf("mcpserver: goal must not be empty")
	}
	result := s.session.Prove(input.Goal, input.toOptions())
	return nil, result, nil
}

func (s *Server) handleQuery(ctx context.Context, req *mcp.CallToolRequest, input GoalRequest) (*mcp.CallToolResult, *types.ReasoningResult, error) {
	if input.Goal == "" {
		return nil, nil, fmt.Errorf("mcpserver: goal must not be empty")
	}
	result := s.session.Query(input.Goal, input.toOptions())
	return nil, result, nil
}

// DescribeRequest is the describe_result tool's input. The caller passes
// back whatever result JSON a prior prove/query call returned.
type DescribeRequest struct {
	Action   string                 `json:"action"`
	Result   *types.ReasoningResult `json:"result"`
	QueryDSL string                 `json:"queryDsl,omitempty"`
}

// DescribeResponse is the describe_result tool's output.
type DescribeResponse struct {
	Description string `json:"description"`
}

func (s *Server) handleDescribeResult(ctx context.Context, req *mcp.CallToolRequest, input DescribeRequest) (*mcp.CallToolResult, *DescribeResponse, error) {
	text := s.session.DescribeResult(input.Action, input.Result, input.QueryDSL)
	return nil, &DescribeResponse{Description: text}, nil
}

// LoadCoreRequest is the load_core tool's input.
type LoadCoreRequest struct {
	IncludeIndex bool `json:"includeIndex,omitempty"`
}

// LoadCoreResponse is the load_core tool's output.
type LoadCoreResponse struct {
	Success bool     `json:"success"`
	Errors  []string `json:"errors,omitempty"`
}

func (s *Server) handleLoadCore(ctx context.Context, req *mcp.CallToolRequest, input LoadCoreRequest) (*mcp.CallToolResult, *LoadCoreResponse, error) {
	report := s.session.LoadCore(input.IncludeIndex)
	return nil, &LoadCoreResponse{Success: report.Success, Errors: report.Errors}, nil
}
