package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// Config holds application configuration.
type Config struct {
	// AgentEndpoint is the URL the generate pipeline POSTs its digest
	// request to. Empty means no agent is configured; generation fails
	// with a transport error.
	AgentEndpoint string `json:"agent_endpoint,omitempty"`

	// AgentID identifies the agent on the invoke endpoint.
	AgentID string `json:"agent_id,omitempty"`

	// ScheduleEndpoint is the base URL of the schedule service used for
	// the schedule status view and pause/resume. Optional.
	ScheduleEndpoint string `json:"schedule_endpoint,omitempty"`

	// ScheduleID selects which schedule the dashboard displays. Empty
	// means the first schedule returned by the service.
	ScheduleID string `json:"schedule_id,omitempty"`

	// HTTPTimeoutSecs bounds agent and schedule HTTP calls.
	// 0 means the default of 120 seconds (agent calls do web research
	// and are slow).
	HTTPTimeoutSecs int `json:"http_timeout_secs,omitempty"`

	// WebBind is the interface the web dashboard listens on.
	WebBind string `json:"web_bind,omitempty"`

	// WebPort is the web dashboard port.
	WebPort int `json:"web_port,omitempty"`

	// DBMaxOpenConns limits the maximum number of open database connections.
	// If set to 1, all database access is serialized (reduces "database is locked" errors).
	// 0 means use sql.DB default (unlimited). Only set if you experience contention.
	DBMaxOpenConns int `json:"db_max_open_conns,omitempty"`

	// DBMaxIdleConns limits the maximum number of idle database connections.
	// 0 means use sql.DB default. Typically set equal to DBMaxOpenConns.
	DBMaxIdleConns int `json:"db_max_idle_conns,omitempty"`

	// DisabledTools is a list of MCP tool names to exclude from registration.
	// All tools are enabled by default. Unknown tool names are logged as warnings.
	DisabledTools []string `json:"disabled_tools,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		HTTPTimeoutSecs: 120,
		WebBind:         "127.0.0.1",
		WebPort:         8418,
	}
}

// Load loads configuration from baseDir/config.json.
// Returns default config if the file doesn't exist.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.aidigest.
func Load(baseDir string) (*Config, error) {
	cfg, err := loadFileRaw(filepath.Join(baseDir, "config.json"))
	if err != nil {
		return nil, err
	}
	return Merge(DefaultConfig(), cfg), nil
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars; arrays are merged and deduplicated.
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	// Scalars: overlay wins if non-zero, else base
	result.AgentEndpoint = overlay.AgentEndpoint
	if result.AgentEndpoint == "" {
		result.AgentEndpoint = base.AgentEndpoint
	}

	result.AgentID = overlay.AgentID
	if result.AgentID == "" {
		result.AgentID = base.AgentID
	}

	result.ScheduleEndpoint = overlay.ScheduleEndpoint
	if result.ScheduleEndpoint == "" {
		result.ScheduleEndpoint = base.ScheduleEndpoint
	}

	result.ScheduleID = overlay.ScheduleID
	if result.ScheduleID == "" {
		result.ScheduleID = base.ScheduleID
	}

	result.HTTPTimeoutSecs = overlay.HTTPTimeoutSecs
	if result.HTTPTimeoutSecs == 0 {
		result.HTTPTimeoutSecs = base.HTTPTimeoutSecs
	}

	result.WebBind = overlay.WebBind
	if result.WebBind == "" {
		result.WebBind = base.WebBind
	}

	result.WebPort = overlay.WebPort
	if result.WebPort == 0 {
		result.WebPort = base.WebPort
	}

	result.DBMaxOpenConns = overlay.DBMaxOpenConns
	if result.DBMaxOpenConns == 0 {
		result.DBMaxOpenConns = base.DBMaxOpenConns
	}

	result.DBMaxIdleConns = overlay.DBMaxIdleConns
	if result.DBMaxIdleConns == 0 {
		result.DBMaxIdleConns = base.DBMaxIdleConns
	}

	// Arrays: merge and deduplicate
	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)

	return result
}

// mergeStringSlice combines two slices, trims whitespace, and removes duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, s := range a {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}
	for _, s := range b {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
