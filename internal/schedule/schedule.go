// Package schedule is a read-mostly client for the external schedule
// service that triggers automatic digest generation. The schedule itself is
// managed elsewhere; this package lists it, fetches its execution log, and
// issues pause/resume commands.
package schedule

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Schedule is the service's record of one recurring job.
type Schedule struct {
	ID             string `json:"id"`
	IsActive       bool   `json:"is_active"`
	CronExpression string `json:"cron_expression"`
	Timezone       string `json:"timezone"`
	NextRunTime    string `json:"next_run_time,omitempty"`
	LastRunAt      string `json:"last_run_at,omitempty"`
	LastRunSuccess bool   `json:"last_run_success"`
}

// ExecutionLog is one past run of a schedule.
type ExecutionLog struct {
	ID         string `json:"id"`
	ScheduleID string `json:"schedule_id"`
	StartedAt  string `json:"started_at"`
	FinishedAt string `json:"finished_at,omitempty"`
	Success    bool   `json:"success"`
	Error      string `json:"error,omitempty"`
}

type listResponse struct {
	Success   bool       `json:"success"`
	Schedules []Schedule `json:"schedules"`
	Error     string     `json:"error,omitempty"`
}

type logsResponse struct {
	Success    bool           `json:"success"`
	Executions []ExecutionLog `json:"executions"`
	Error      string         `json:"error,omitempty"`
}

// Client talks to the schedule service over HTTP.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a schedule client for the given base URL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// List returns all schedules known to the service.
func (c *Client) List(ctx context.Context) ([]Schedule, error) {
	var out listResponse
	if err := c.get(ctx, "/schedules", nil, &out); err != nil {
		return nil, err
	}
	if !out.Success {
		return nil, serviceError(out.Error)
	}
	return out.Schedules, nil
}

// Logs returns up to limit past executions of the given schedule, newest
// first. limit <= 0 means the service default.
func (c *Client) Logs(ctx context.Context, scheduleID string, limit int) ([]ExecutionLog, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var out logsResponse
	if err := c.get(ctx, "/schedules/"+url.PathEscape(scheduleID)+"/logs", q, &out); err != nil {
		return nil, err
	}
	if !out.Success {
		return nil, serviceError(out.Error)
	}
	return out.Executions, nil
}

// Pause suspends the schedule. Callers re-List afterwards; the command
// response carries no schedule state of its own.
func (c *Client) Pause(ctx context.Context, scheduleID string) error {
	return c.post(ctx, "/schedules/"+url.PathEscape(scheduleID)+"/pause")
}

// Resume reactivates the schedule.
func (c *Client) Resume(ctx context.Context, scheduleID string) error {
	return c.post(ctx, "/schedules/"+url.PathEscape(scheduleID)+"/resume")
}

func (c *Client) get(ctx context.Context, path string, q url.Values, out any) error {
	if c.baseURL == "" {
		return fmt.Errorf("schedule: no endpoint configured")
	}
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("schedule: failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("schedule: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("schedule: failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("schedule: unexpected status %d", resp.StatusCode)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("schedule: failed to parse response: %w", err)
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string) error {
	if c.baseURL == "" {
		return fmt.Errorf("schedule: no endpoint configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(nil))
	if err != nil {
		return fmt.Errorf("schedule: failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("schedule: request failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("schedule: unexpected status %d", resp.StatusCode)
	}
	return nil
}

func serviceError(msg string) error {
	if msg == "" {
		msg = "the schedule service reported a failure without details"
	}
	return fmt.Errorf("schedule: %s", msg)
}
