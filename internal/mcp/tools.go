package mcp

import "github.com/mark3labs/mcp-go/mcp"

var generateToolDef = mcp.NewTool("digest_generate",
	mcp.WithDescription("Run one digest generation: ask the agent for today's AI tool releases across the enabled categories, sanitize the response, and record it in history. Fails if a generation is already in progress or every category is disabled."),
)

var latestToolDef = mcp.NewTool("digest_latest",
	mcp.WithDescription("Return the most recently recorded digest, or an empty result if history is empty."),
)

var historySearchToolDef = mcp.NewTool("history_search",
	mcp.WithDescription("Search stored digests by date, summary, category, or tool name/description. An empty query returns the full history, newest first."),
	mcp.WithString("query",
		mcp.Description("Case-insensitive substring to match. Optional."),
	),
)

var historyClearToolDef = mcp.NewTool("history_clear",
	mcp.WithDescription("Delete all stored digests. Irreversible."),
)

var settingsGetToolDef = mcp.NewTool("settings_get",
	mcp.WithDescription("Return the current settings: category toggles, delivery time, timezone, and notification target."),
)

var settingsUpdateToolDef = mcp.NewTool("settings_update",
	mcp.WithDescription("Update settings. Only provided fields change; category toggles not mentioned keep their current value."),
	mcp.WithObject("category_enabled",
		mcp.Description("Map of category name to enabled flag. Unknown categories are ignored."),
	),
	mcp.WithString("delivery_time",
		mcp.Description("Delivery time as HH:MM (24-hour)."),
	),
	mcp.WithString("timezone",
		mcp.Description("IANA timezone name, e.g. America/New_York."),
	),
	mcp.WithString("notification_number",
		mcp.Description("Notification phone number, digits only."),
	),
	mcp.WithString("notification_country_code",
		mcp.Description("Country calling code, e.g. +1."),
	),
)

var scheduleStatusToolDef = mcp.NewTool("schedule_status",
	mcp.WithDescription("Return the external generation schedule and its most recent executions. Fails if no schedule service is configured."),
	mcp.WithNumber("log_limit",
		mcp.Description("Maximum number of executions to return. Default 10."),
	),
)
