package mcpserver

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/ashaai/asha-server/internal/vectordb"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes the listings index as tools, so
// agent clients can search jobs and events directly.
type Server struct {
	store vectordb.VectorStore
	topK  int
	mcp   *server.MCPServer
}

// NewServer creates an MCP server backed by the given vector store.
func NewServer(store vectordb.VectorStore, topK int) *Server {
	if topK <= 0 {
		topK = 5
	}
	s := &Server{
		store: store,
		topK:  topK,
	}

	s.mcp = server.NewMCPServer(
		"asha",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(searchListingsTool, s.handleSearchListings)
	s.mcp.AddTool(upcomingEventsTool, s.handleUpcomingEvents)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
