// Package settings persists user configuration for digest generation:
// which categories to request, when to deliver, and an optional notification
// target. Loading is forgiving (field-level defaults); saving is wholesale
// and must surface failure.
package settings

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/hpann/aidigest/internal/apperr"
	"github.com/hpann/aidigest/internal/storage"
)

// StorageKey names the persisted settings record.
const StorageKey = "ai_digest_settings"

// Categories is the fixed, canonical category list the agent is asked to
// cover. EnabledCategories preserves this order regardless of map iteration.
var Categories = []string{
	"Productivity & Workflow",
	"Creative & Design",
	"Development & Coding",
	"Business & Analytics",
	"Research & Learning",
}

// Defaults.
const (
	DefaultDeliveryTime = "14:30"
	DefaultTimezone     = "America/New_York"
	DefaultCountryCode  = "+1"
)

var (
	deliveryTimeRe = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
	countryCodeRe  = regexp.MustCompile(`^\+\d{1,4}$`)
	digitsRe       = regexp.MustCompile(`^\d*$`)
)

// Settings holds the persisted user configuration.
type Settings struct {
	// CategoryEnabled maps each known category name to its toggle.
	CategoryEnabled map[string]bool `json:"category_enabled"`

	// DeliveryTime is HH:MM local wall-clock. Advisory: nothing in this
	// process schedules on it; it is displayed and forwarded only.
	DeliveryTime string `json:"delivery_time"`

	// Timezone is an IANA zone name, also advisory.
	Timezone string `json:"timezone"`

	// NotificationNumber is digits-only; NotificationCountryCode is "+NN".
	// Both optional.
	NotificationNumber      string `json:"notification_number"`
	NotificationCountryCode string `json:"notification_country_code"`
}

// Default returns the hard-coded default settings: every category enabled.
func Default() Settings {
	enabled := make(map[string]bool, len(Categories))
	for _, c := range Categories {
		enabled[c] = true
	}
	return Settings{
		CategoryEnabled:         enabled,
		DeliveryTime:            DefaultDeliveryTime,
		Timezone:                DefaultTimezone,
		NotificationNumber:      "",
		NotificationCountryCode: DefaultCountryCode,
	}
}

// Store reads and writes the settings record through an injected KV.
type Store struct {
	kv storage.KV
}

// NewStore creates a settings store over the given KV.
func NewStore(kv storage.KV) *Store {
	return &Store{kv: kv}
}

// Load returns the persisted settings, default-filling any missing or
// invalid field. An absent or unparseable record yields pure defaults; a
// partially valid record keeps its valid fields. Load never fails.
func (s *Store) Load() Settings {
	out := Default()

	raw, ok, err := s.kv.Get(StorageKey)
	if err != nil || !ok {
		return out
	}

	var stored Settings
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return out
	}

	// Unknown keys in the stored map are ignored; known keys keep their
	// stored toggle, everything else stays default-on.
	for _, c := range Categories {
		if v, ok := stored.CategoryEnabled[c]; ok {
			out.CategoryEnabled[c] = v
		}
	}

	if deliveryTimeRe.MatchString(stored.DeliveryTime) {
		out.DeliveryTime = stored.DeliveryTime
	}
	if strings.TrimSpace(stored.Timezone) != "" {
		out.Timezone = stored.Timezone
	}
	if digitsRe.MatchString(stored.NotificationNumber) {
		out.NotificationNumber = stored.NotificationNumber
	}
	if countryCodeRe.MatchString(stored.NotificationCountryCode) {
		out.NotificationCountryCode = stored.NotificationCountryCode
	}

	return out
}

// Save replaces the persisted record wholesale. Unlike history writes,
// failure here is surfaced so the UI can report "failed to save".
func (s *Store) Save(settings Settings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return apperr.NewInternal(err)
	}
	if err := s.kv.Set(StorageKey, string(data)); err != nil {
		return apperr.NewSettingsSaveFailed(err)
	}
	return nil
}

// IsGenerationAllowed reports whether at least one category is enabled.
func IsGenerationAllowed(s Settings) bool {
	for _, enabled := range s.CategoryEnabled {
		if enabled {
			return true
		}
	}
	return false
}

// EnabledCategories returns the enabled categories in canonical order.
func EnabledCategories(s Settings) []string {
	out := make([]string, 0, len(Categories))
	for _, c := range Categories {
		if s.CategoryEnabled[c] {
			out = append(out, c)
		}
	}
	return out
}
