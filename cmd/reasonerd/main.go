// Package main provides the entry point for the reasonerd MCP server.
//
// This server is designed to be spawned as a child process by an MCP
// client and communicates via stdio using the Model Context Protocol. It
// exposes one Session's learn/prove/query/describe_result/load_core
// operations as five MCP tools.
//
// Environment variables: see internal/sessioncfg for the full list
// (REASONER_HDC_STRATEGY, REASONER_GEOMETRY, REASONER_PRIORITY, ...).
package main

import (
	"context"
	"log"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"hdcreason/internal/mcpserver"
	"hdcreason/internal/session"
	"hdcreason/internal/sessioncfg"
)

func main() {
	if os.Getenv("DEBUG") == "true" {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
		log.Println("Starting reasonerd in debug mode...")
	}

	cfg := sessioncfg.FromEnv()
	sess, err := session.New(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize session: %v", err)
	}
	defer func() {
		if err := sess.Close(); err != nil {
			log.Printf("Warning: failed to close session: %v", err)
		}
	}()
	log.Printf("Initialized session: strategy=%s priority=%s storage=%s", cfg.HdcStrategy, cfg.ReasoningPriority, cfg.Storage.Type)

	if report := sess.LoadCore(false); !report.Success {
		log.Printf("Warning: load_core reported errors: %v", report.Errors)
	}

	mcpSrv := mcpserver.NewServer(sess)

	mcpServer := mcp.NewServer(&mcp.Implementation{
		Name:    "hdcreason-server",
		Version: "0.1.0",
	}, nil)
	log.Println("Created MCP server")

	mcpSrv.RegisterTools(mcpServer)
	log.Println("Registered tools: learn, prove, query, describe_result, load_core")

	transport := &mcp.StdioTransport{}
	log.Println("Created stdio transport")

	ctx := context.Background()
	log.Println("Starting MCP server...")
	if err := mcpServer.Run(ctx, transport); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
