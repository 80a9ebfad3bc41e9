package mcpserver

import "github.com/mark3labs/mcp-go/mcp"

// searchListingsTool defines the search_listings MCP tool.
var searchListingsTool = mcp.NewTool("search_listings",
	mcp.WithDescription("Search HerKey job and event listings semantically. Returns matching listings with their links."),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("Natural language search query"),
	),
	mcp.WithString("category",
		mcp.Description("Restrict the search to one listing category"),
		mcp.Enum("jobs", "events"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of results to return (default 5)"),
	),
)

// upcomingEventsTool defines the upcoming_events MCP tool.
var upcomingEventsTool = mcp.NewTool("upcoming_events",
	mcp.WithDescription("List upcoming HerKey events. Past events are filtered out."),
	mcp.WithString("query",
		mcp.Description("Optional topic to narrow the events down"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of events to return (default 5)"),
	),
)
