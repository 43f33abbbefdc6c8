package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/susilcse/PAM-AI-Rule-Engine/internal/audit"
	"github.com/susilcse/PAM-AI-Rule-Engine/internal/rulestore"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes contract rule tools.
type Server struct {
	rules      *rulestore.Store
	auditStore *audit.Store
	mcp        *server.MCPServer
}

// NewServer creates a new MCP server with the given dependencies. The audit
// store may be nil, in which case tool calls are not audited.
func NewServer(rules *rulestore.Store, auditStore *audit.Store) *Server {
	s := &Server{
		rules:      rules,
		auditStore: auditStore,
	}

	s.mcp = server.NewMCPServer(
		"pamrules",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(listContractsTool, s.handleListContracts)
	s.mcp.AddTool(getRulesTool, s.handleGetRules)
	s.mcp.AddTool(calculateRevenueTool, s.handleCalculateRevenue)
	s.mcp.AddTool(modifyRulesTool, s.handleModifyRules)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
