// Package generate orchestrates one digest generation: gate on settings,
// invoke the agent, extract and sanitize the response, and record the
// result in history. At most one generation runs at a time; a second
// request while one is outstanding is rejected, never queued.
package generate

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hpann/aidigest/internal/agent"
	"github.com/hpann/aidigest/internal/apperr"
	"github.com/hpann/aidigest/internal/digest"
	"github.com/hpann/aidigest/internal/extract"
	"github.com/hpann/aidigest/internal/history"
	"github.com/hpann/aidigest/internal/settings"
)

// Status is the orchestrator's externally visible state.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusRequesting Status = "requesting"
	StatusSuccess    Status = "success"
	StatusFailed     Status = "failed"
)

// Generator runs digest generations. Safe for concurrent use; concurrent
// Run calls beyond the first fail with GENERATION_IN_FLIGHT.
type Generator struct {
	invoker  agent.Invoker
	agentID  string
	history  *history.Store
	settings *settings.Store
	now      func() time.Time

	inFlight atomic.Bool

	mu        sync.Mutex
	status    Status
	lastError string
}

// New creates a generator wired to the given transport and stores.
func New(invoker agent.Invoker, agentID string, h *history.Store, s *settings.Store) *Generator {
	return &Generator{
		invoker:  invoker,
		agentID:  agentID,
		history:  h,
		settings: s,
		now:      time.Now,
		status:   StatusIdle,
	}
}

// NewWithClock is New with an injected clock, for tests.
func NewWithClock(invoker agent.Invoker, agentID string, h *history.Store, s *settings.Store, now func() time.Time) *Generator {
	g := New(invoker, agentID, h, s)
	g.now = now
	return g
}

// Status returns the current state and, when failed, the last error text.
func (g *Generator) Status() (Status, string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.status, g.lastError
}

// BuildMessage composes the request the agent receives: today's date is
// implicit ("from today"), the enabled categories are explicit.
func BuildMessage(enabled []string) string {
	return fmt.Sprintf(
		"Search the web for the latest AI tool releases, updates, and noteworthy tools from today. Cover all categories: %s. Compile a comprehensive categorized digest.",
		strings.Join(enabled, ", "),
	)
}

// Run performs one full generation. On success the returned digest has
// already been appended to history. Every failure is an *apperr.Error;
// none triggers an automatic retry.
func (g *Generator) Run(ctx context.Context) (digest.Digest, error) {
	if !g.inFlight.CompareAndSwap(false, true) {
		return digest.Digest{}, apperr.NewGenerationInFlight()
	}
	defer g.inFlight.Store(false)

	g.setStatus(StatusRequesting, "")

	d, err := g.run(ctx)
	if err != nil {
		g.setStatus(StatusFailed, err.Error())
		return digest.Digest{}, err
	}
	g.setStatus(StatusSuccess, "")
	return d, nil
}

func (g *Generator) run(ctx context.Context) (digest.Digest, error) {
	enabled := settings.EnabledCategories(g.settings.Load())
	if len(enabled) == 0 {
		// Gated before any transport call.
		return digest.Digest{}, apperr.NewNoCategoriesEnabled()
	}

	result, err := g.invoker.Invoke(ctx, BuildMessage(enabled), g.agentID)
	if err != nil {
		return digest.Digest{}, apperr.NewTransport(err)
	}
	if !result.Success {
		return digest.Digest{}, apperr.NewTransportReportedFailure(result.Error)
	}

	payload, fail := extract.Extract(result.Response)
	if fail != nil {
		return digest.Digest{}, apperr.NewExtractionFailed(fail.Excerpt)
	}

	today := g.now().Format("2006-01-02")
	d := digest.Sanitize(payload, today)
	if len(d.Categories) == 0 {
		return digest.Digest{}, apperr.NewEmptyResult()
	}

	g.history.Append(d)
	return d, nil
}

func (g *Generator) setStatus(s Status, errText string) {
	g.mu.Lock()
	g.status = s
	g.lastError = errText
	g.mu.Unlock()
}
