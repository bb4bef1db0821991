// Package agent is the transport to the digest agent. The agent does web
// research and replies with a JSON envelope whose shape varies between
// runs; callers hand the raw response to the extraction step rather than
// decoding it here.
package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Result is the agent's reported outcome. Success false means the call
// itself worked but the agent reported a failure; Response carries the
// undecoded payload either way.
type Result struct {
	Success  bool   `json:"success"`
	Response any    `json:"response"`
	Error    string `json:"error,omitempty"`
}

// Invoker sends one message to the agent and returns its reported result.
// A non-nil error means the call never produced a result (network failure,
// non-2xx status, unparseable body).
type Invoker interface {
	Invoke(ctx context.Context, message, agentID string) (*Result, error)
}

// HTTPInvoker invokes the agent over a JSON POST endpoint.
type HTTPInvoker struct {
	endpoint string
	client   *http.Client
}

// NewHTTPInvoker creates an invoker for the given endpoint. The timeout
// bounds the whole call; agent runs involve web research and are slow, so
// callers typically pass minutes, not seconds.
func NewHTTPInvoker(endpoint string, timeout time.Duration) *HTTPInvoker {
	return &HTTPInvoker{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

type invokeRequest struct {
	Message string `json:"message"`
	AgentID string `json:"agent_id,omitempty"`
}

func (h *HTTPInvoker) Invoke(ctx context.Context, message, agentID string) (*Result, error) {
	if h.endpoint == "" {
		return nil, fmt.Errorf("agent: no endpoint configured")
	}

	jsonData, err := json.Marshal(invokeRequest{Message: message, AgentID: agentID})
	if err != nil {
		return nil, fmt.Errorf("agent: failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("agent: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("agent: request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("agent: failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("agent: unexpected status %d", resp.StatusCode)
	}

	var result Result
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("agent: failed to parse response: %w", err)
	}

	return &result, nil
}
