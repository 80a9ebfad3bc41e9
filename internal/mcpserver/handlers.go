package mcpserver

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ashaai/asha-server/internal/chat"
	"github.com/ashaai/asha-server/internal/listings"
	"github.com/ashaai/asha-server/internal/vectordb"
)

// handleSearchListings performs semantic search over the listings index.
func (s *Server) handleSearchListings(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}

	limit := request.GetInt("limit", s.topK)
	if limit <= 0 {
		limit = s.topK
	}

	categories := []listings.Category{listings.CategoryJobs, listings.CategoryEvents}
	if c := request.GetString("category", ""); c != "" {
		categories = []listings.Category{listings.Category(c)}
	}

	var results []vectordb.SearchResult
	for _, category := range categories {
		r, err := s.store.Search(ctx, category, query, limit)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
		}
		results = append(results, r...)
	}

	if len(results) == 0 {
		return mcp.NewToolResultText("No listings found. The index may not be built yet. Run `asha index` to build it."), nil
	}

	return mcp.NewToolResultText(formatResults(results)), nil
}

// handleUpcomingEvents searches the events partition and drops past events.
func (s *Server) handleUpcomingEvents(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := request.GetString("query", "upcoming events")
	limit := request.GetInt("limit", s.topK)
	if limit <= 0 {
		limit = s.topK
	}

	results, err := s.store.Search(ctx, listings.CategoryEvents, query, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	upcoming := chat.FilterUpcoming(results, time.Now())
	if len(upcoming) == 0 {
		return mcp.NewToolResultText("No upcoming events found."), nil
	}

	return mcp.NewToolResultText(formatResults(upcoming)), nil
}

// formatResults converts search results into a text format for agent
// consumption.
func formatResults(results []vectordb.SearchResult) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d result(s):\n", len(results)))

	for i, r := range results {
		sb.WriteString(fmt.Sprintf("\n--- Result %d ---\n", i+1))
		sb.WriteString(fmt.Sprintf("Category: %s\n", r.Document.Metadata.Category))
		if !r.Document.Metadata.StartsOn.IsZero() {
			sb.WriteString(fmt.Sprintf("Date: %s\n", r.Document.Metadata.StartsOn.Format("2006-01-02")))
		}
		if r.Document.Metadata.Link != "" {
			sb.WriteString(fmt.Sprintf("Link: %s\n", r.Document.Metadata.Link))
		}
		sb.WriteString(fmt.Sprintf("Relevance: %.2f\n\n", r.Similarity))
		sb.WriteString(strings.TrimSpace(r.Document.Content))
		sb.WriteString("\n")
	}

	return sb.String()
}
