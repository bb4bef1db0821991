package web

import (
	"net/http"
	"strings"
	"time"

	"github.com/hpann/aidigest/internal/apperr"
	"github.com/hpann/aidigest/internal/digest"
	"github.com/hpann/aidigest/internal/history"
	"github.com/hpann/aidigest/internal/schedule"
	"github.com/hpann/aidigest/internal/settings"
)

// Handlers contains HTTP route handlers for the dashboard.
type Handlers struct {
	deps     Deps
	renderer *Renderer
}

// HandleDashboard handles GET / — the latest digest plus generation status.
func (h *Handlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	entries := h.deps.History.Load()

	data := DashboardPageData{
		PageData: PageData{
			Title:   "Today's Digest",
			Version: h.renderer.version,
			Nav:     "dashboard",
		},
	}
	if len(entries) > 0 {
		data.Latest = &entries[0]
		data.RenderedSummary = renderMarkdown(entries[0].Summary)
	} else if r.URL.Query().Get("sample") == "1" {
		// Preview-only: nothing is written to history.
		d := digest.Sample()
		data.Latest = &history.Entry{
			Date:            d.DigestDate,
			Categories:      d.Categories,
			TotalToolsFound: d.TotalToolsFound,
			Summary:         d.Summary,
		}
		data.RenderedSummary = renderMarkdown(d.Summary)
		data.Sample = true
	}
	data.Status, data.LastError = h.deps.Generator.Status()

	h.renderer.renderPage(w, r, "dashboard", data)
}

// HandleGenerate handles POST /generate — run one digest generation.
// The request blocks until the agent responds; a second POST while one is
// outstanding gets a 409.
func (h *Handlers) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	if _, err := h.deps.Generator.Run(r.Context()); err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", "/")
		w.WriteHeader(http.StatusOK)
		return
	}
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		renderJSON(w, http.StatusOK, map[string]any{"generated": true})
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

// HandleHistory handles GET /history — browse past digests, optionally
// filtered by a search query.
func (h *Handlers) HandleHistory(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	entries := history.Search(h.deps.History.Load(), query)
	groups, dates := history.GroupByDate(entries)

	h.renderer.renderPage(w, r, "history", HistoryPageData{
		PageData: PageData{
			Title:   "History",
			Version: h.renderer.version,
			Nav:     "history",
		},
		Query:   query,
		Dates:   dates,
		Groups:  groups,
		Total:   len(entries),
		Cleared: r.URL.Query().Get("cleared") == "1",
	})
}

// HandleHistoryClear handles POST /history/clear — drop all stored digests.
func (h *Handlers) HandleHistoryClear(w http.ResponseWriter, r *http.Request) {
	h.deps.History.Clear()

	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", "/history?cleared=1")
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, "/history?cleared=1", http.StatusFound)
}

// HandleSettings handles GET /settings.
func (h *Handlers) HandleSettings(w http.ResponseWriter, r *http.Request) {
	h.renderer.renderPage(w, r, "settings", SettingsPageData{
		PageData: PageData{
			Title:   "Settings",
			Version: h.renderer.version,
			Nav:     "settings",
		},
		Settings:   h.deps.Settings.Load(),
		Categories: settings.Categories,
		Saved:      r.URL.Query().Get("saved") == "1",
	})
}

// HandleSettingsSave handles POST /settings — replace the stored settings
// with the submitted form. Unchecked categories are absent from the form,
// so every known category is rebuilt from the checkbox values.
func (h *Handlers) HandleSettingsSave(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderer.renderError(w, r, apperr.NewInvalidRequest("invalid form data"))
		return
	}

	checked := make(map[string]bool, len(r.Form["categories"]))
	for _, c := range r.Form["categories"] {
		checked[c] = true
	}

	s := h.deps.Settings.Load()
	for _, c := range settings.Categories {
		s.CategoryEnabled[c] = checked[c]
	}
	if v := r.FormValue("delivery_time"); v != "" {
		s.DeliveryTime = v
	}
	if v := r.FormValue("timezone"); v != "" {
		s.Timezone = v
	}
	s.NotificationNumber = strings.TrimSpace(r.FormValue("notification_number"))
	if v := r.FormValue("notification_country_code"); v != "" {
		s.NotificationCountryCode = v
	}

	if err := h.deps.Settings.Save(s); err != nil {
		// Save failure is surfaced on the settings page, not swallowed.
		h.renderer.renderPageStatus(w, r, http.StatusInternalServerError, "settings", SettingsPageData{
			PageData: PageData{
				Title:   "Settings",
				Version: h.renderer.version,
				Nav:     "settings",
			},
			Settings:   s,
			Categories: settings.Categories,
			SaveError:  err.Error(),
		})
		return
	}

	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", "/settings?saved=1")
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, "/settings?saved=1", http.StatusFound)
}

// HandleSchedule handles GET /schedule — show the external schedule and its
// recent executions. The fetch is bound to the request context, so a closed
// connection cancels it.
func (h *Handlers) HandleSchedule(w http.ResponseWriter, r *http.Request) {
	data := SchedulePageData{
		PageData: PageData{
			Title:   "Schedule",
			Version: h.renderer.version,
			Nav:     "schedule",
		},
		Configured: h.deps.Schedule != nil,
	}

	if data.Configured {
		sched, logs, err := h.fetchSchedule(r)
		if err != nil {
			data.FetchError = err.Error()
		} else if sched != nil {
			data.Schedule = sched
			data.Logs = logs
			data.Human = schedule.CronToHuman(sched.CronExpression)
			if next := schedule.NextRun(sched.CronExpression, sched.Timezone, time.Now()); !next.IsZero() {
				data.NextRun = next.Format("2006-01-02 15:04 MST")
			}
		}
	}

	h.renderer.renderPage(w, r, "schedule", data)
}

func (h *Handlers) fetchSchedule(r *http.Request) (*schedule.Schedule, []schedule.ExecutionLog, error) {
	schedules, err := h.deps.Schedule.List(r.Context())
	if err != nil {
		return nil, nil, err
	}

	var found *schedule.Schedule
	for i := range schedules {
		if h.deps.ScheduleID == "" || schedules[i].ID == h.deps.ScheduleID {
			found = &schedules[i]
			break
		}
	}
	if found == nil {
		return nil, nil, nil
	}

	logs, err := h.deps.Schedule.Logs(r.Context(), found.ID, 10)
	if err != nil {
		// Show the schedule even when its log fetch fails.
		return found, nil, nil
	}
	return found, logs, nil
}

// HandleSchedulePause handles POST /schedule/pause.
func (h *Handlers) HandleSchedulePause(w http.ResponseWriter, r *http.Request) {
	h.scheduleCommand(w, r, func() error {
		return h.deps.Schedule.Pause(r.Context(), r.FormValue("id"))
	})
}

// HandleScheduleResume handles POST /schedule/resume.
func (h *Handlers) HandleScheduleResume(w http.ResponseWriter, r *http.Request) {
	h.scheduleCommand(w, r, func() error {
		return h.deps.Schedule.Resume(r.Context(), r.FormValue("id"))
	})
}

func (h *Handlers) scheduleCommand(w http.ResponseWriter, r *http.Request, cmd func() error) {
	if h.deps.Schedule == nil {
		h.renderer.renderError(w, r, apperr.NewInvalidRequest("no schedule service configured"))
		return
	}
	if err := r.ParseForm(); err != nil {
		h.renderer.renderError(w, r, apperr.NewInvalidRequest("invalid form data"))
		return
	}
	if r.FormValue("id") == "" {
		h.renderer.renderError(w, r, apperr.NewInvalidRequest("schedule id is required"))
		return
	}

	if err := cmd(); err != nil {
		h.renderer.renderError(w, r, apperr.NewTransport(err))
		return
	}

	// The command response carries no state; the page re-lists on load.
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", "/schedule")
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, "/schedule", http.StatusFound)
}
