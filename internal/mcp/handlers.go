package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpann/aidigest/internal/apperr"
	"github.com/hpann/aidigest/internal/generate"
	"github.com/hpann/aidigest/internal/history"
	"github.com/hpann/aidigest/internal/schedule"
	"github.com/hpann/aidigest/internal/settings"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	generator *generate.Generator
	history   *history.Store
	settings  *settings.Store

	// sched is nil when no schedule service is configured.
	sched      *schedule.Client
	scheduleID string
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(g *generate.Generator, h *history.Store, s *settings.Store, sched *schedule.Client, scheduleID string) *Handlers {
	return &Handlers{
		generator:  g,
		history:    h,
		settings:   s,
		sched:      sched,
		scheduleID: scheduleID,
	}
}

// Request types for each tool

// SearchRequest represents the arguments for history_search.
type SearchRequest struct {
	Query string `json:"query,omitempty"`
}

// SettingsUpdateRequest represents the arguments for settings_update.
// Pointer fields distinguish "not provided" from a zero value.
type SettingsUpdateRequest struct {
	CategoryEnabled         map[string]bool `json:"category_enabled,omitempty"`
	DeliveryTime            *string         `json:"delivery_time,omitempty"`
	Timezone                *string         `json:"timezone,omitempty"`
	NotificationNumber      *string         `json:"notification_number,omitempty"`
	NotificationCountryCode *string         `json:"notification_country_code,omitempty"`
}

// ScheduleStatusRequest represents the arguments for schedule_status.
type ScheduleStatusRequest struct {
	LogLimit int `json:"log_limit,omitempty"`
}

// Handler implementations

// HandleGenerate handles the digest_generate tool call.
func (h *Handlers) HandleGenerate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	d, err := h.generator.Run(ctx)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(map[string]any{
		"digest":     d,
		"tool_count": d.ToolCount(),
		"new_tools":  d.NewToolCount(),
	})
}

// HandleLatest handles the digest_latest tool call.
func (h *Handlers) HandleLatest(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	entries := h.history.Load()
	if len(entries) == 0 {
		return successResult(map[string]any{"digest": nil})
	}
	return successResult(map[string]any{"digest": entries[0]})
}

// HandleHistorySearch handles the history_search tool call.
func (h *Handlers) HandleHistorySearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[SearchRequest](req)
	if err != nil {
		return errorResult(apperr.NewInvalidRequest(err.Error())), nil
	}

	entries := history.Search(h.history.Load(), input.Query)
	return successResult(map[string]any{
		"entries": entries,
		"total":   len(entries),
	})
}

// HandleHistoryClear handles the history_clear tool call.
func (h *Handlers) HandleHistoryClear(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	h.history.Clear()
	return successResult(map[string]any{"cleared": true})
}

// HandleSettingsGet handles the settings_get tool call.
func (h *Handlers) HandleSettingsGet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return successResult(h.settings.Load())
}

// HandleSettingsUpdate handles the settings_update tool call.
func (h *Handlers) HandleSettingsUpdate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[SettingsUpdateRequest](req)
	if err != nil {
		return errorResult(apperr.NewInvalidRequest(err.Error())), nil
	}

	s := h.settings.Load()
	for _, c := range settings.Categories {
		if v, ok := input.CategoryEnabled[c]; ok {
			s.CategoryEnabled[c] = v
		}
	}
	if input.DeliveryTime != nil {
		s.DeliveryTime = *input.DeliveryTime
	}
	if input.Timezone != nil {
		s.Timezone = *input.Timezone
	}
	if input.NotificationNumber != nil {
		s.NotificationNumber = *input.NotificationNumber
	}
	if input.NotificationCountryCode != nil {
		s.NotificationCountryCode = *input.NotificationCountryCode
	}

	if err := h.settings.Save(s); err != nil {
		return errorResult(err), nil
	}

	// Re-load so the caller sees the validated, persisted values.
	return successResult(h.settings.Load())
}

// HandleScheduleStatus handles the schedule_status tool call.
func (h *Handlers) HandleScheduleStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if h.sched == nil {
		return errorResult(apperr.NewInvalidRequest("no schedule service configured")), nil
	}

	input, err := decode[ScheduleStatusRequest](req)
	if err != nil {
		return errorResult(apperr.NewInvalidRequest(err.Error())), nil
	}
	limit := input.LogLimit
	if limit <= 0 {
		limit = 10
	}

	schedules, err := h.sched.List(ctx)
	if err != nil {
		return errorResult(apperr.NewTransport(err)), nil
	}

	var found *schedule.Schedule
	for i := range schedules {
		if h.scheduleID == "" || schedules[i].ID == h.scheduleID {
			found = &schedules[i]
			break
		}
	}
	if found == nil {
		return errorResult(apperr.NewNotFound("schedule")), nil
	}

	logs, err := h.sched.Logs(ctx, found.ID, limit)
	if err != nil {
		logs = nil
	}

	return successResult(map[string]any{
		"schedule":   found,
		"human":      schedule.CronToHuman(found.CronExpression),
		"executions": logs,
	})
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Note: Internal error details are not exposed to prevent leaking sensitive info.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if aErr, ok := err.(*apperr.Error); ok {
		errorObj := map[string]any{
			"code":    aErr.Code,
			"message": aErr.Message,
			"status":  aErr.Status,
		}
		if aErr.Code != apperr.ErrInternal && aErr.Details != nil {
			errorObj["details"] = aErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
