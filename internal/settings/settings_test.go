package settings

import (
	"encoding/json"
	"testing"

	"github.com/hpann/aidigest/internal/apperr"
	"github.com/hpann/aidigest/internal/storage"
)

func TestDefault(t *testing.T) {
	s := Default()

	if len(s.CategoryEnabled) != len(Categories) {
		t.Errorf("len(CategoryEnabled) = %d, want %d", len(s.CategoryEnabled), len(Categories))
	}
	for _, c := range Categories {
		if !s.CategoryEnabled[c] {
			t.Errorf("category %q should default to enabled", c)
		}
	}
	if s.DeliveryTime != "14:30" || s.Timezone != "America/New_York" {
		t.Errorf("defaults = %+v", s)
	}
}

func TestLoad_AbsentRecord(t *testing.T) {
	s := NewStore(storage.NewMemory()).Load()
	if !IsGenerationAllowed(s) {
		t.Error("defaults should allow generation")
	}
}

func TestLoad_CorruptRecord(t *testing.T) {
	kv := storage.NewMemory()
	if err := kv.Set(StorageKey, "garbage"); err != nil {
		t.Fatal(err)
	}

	s := NewStore(kv).Load()
	if s.Timezone != DefaultTimezone {
		t.Errorf("Timezone = %q, want default", s.Timezone)
	}
}

func TestLoad_FieldLevelFallback(t *testing.T) {
	// Stored record has a valid delivery time but no timezone: the stored
	// value survives and only the missing field is defaulted.
	kv := storage.NewMemory()
	if err := kv.Set(StorageKey, `{"delivery_time": "08:15"}`); err != nil {
		t.Fatal(err)
	}

	s := NewStore(kv).Load()
	if s.DeliveryTime != "08:15" {
		t.Errorf("DeliveryTime = %q, want stored 08:15", s.DeliveryTime)
	}
	if s.Timezone != DefaultTimezone {
		t.Errorf("Timezone = %q, want default %q", s.Timezone, DefaultTimezone)
	}
}

func TestLoad_InvalidFieldsDefaulted(t *testing.T) {
	kv := storage.NewMemory()
	record := `{
		"delivery_time": "25:99",
		"timezone": "  ",
		"notification_number": "not-digits",
		"notification_country_code": "44"
	}`
	if err := kv.Set(StorageKey, record); err != nil {
		t.Fatal(err)
	}

	s := NewStore(kv).Load()
	if s.DeliveryTime != DefaultDeliveryTime {
		t.Errorf("DeliveryTime = %q, want default", s.DeliveryTime)
	}
	if s.Timezone != DefaultTimezone {
		t.Errorf("Timezone = %q, want default", s.Timezone)
	}
	if s.NotificationNumber != "" {
		t.Errorf("NotificationNumber = %q, want empty", s.NotificationNumber)
	}
	if s.NotificationCountryCode != DefaultCountryCode {
		t.Errorf("NotificationCountryCode = %q, want default", s.NotificationCountryCode)
	}
}

func TestLoad_CategoryToggles(t *testing.T) {
	kv := storage.NewMemory()
	record := `{"category_enabled": {"Creative & Design": false, "Unknown Category": true}}`
	if err := kv.Set(StorageKey, record); err != nil {
		t.Fatal(err)
	}

	s := NewStore(kv).Load()
	if s.CategoryEnabled["Creative & Design"] {
		t.Error("stored false toggle should survive")
	}
	if !s.CategoryEnabled["Productivity & Workflow"] {
		t.Error("unmentioned category should default to enabled")
	}
	if _, ok := s.CategoryEnabled["Unknown Category"]; ok {
		t.Error("unknown categories should be dropped")
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	kv := storage.NewMemory()
	store := NewStore(kv)

	s := Default()
	s.CategoryEnabled["Business & Analytics"] = false
	s.DeliveryTime = "07:00"
	s.Timezone = "Europe/London"
	s.NotificationNumber = "5551234"
	s.NotificationCountryCode = "+44"

	if err := store.Save(s); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got := store.Load()
	if got.DeliveryTime != "07:00" || got.Timezone != "Europe/London" {
		t.Errorf("got = %+v", got)
	}
	if got.CategoryEnabled["Business & Analytics"] {
		t.Error("disabled toggle should round-trip")
	}
	if got.NotificationNumber != "5551234" || got.NotificationCountryCode != "+44" {
		t.Errorf("notification fields = %q %q", got.NotificationCountryCode, got.NotificationNumber)
	}
}

func TestSave_SurfacesFailure(t *testing.T) {
	kv := storage.NewMemory()
	kv.FailWrites = true

	err := NewStore(kv).Save(Default())
	if err == nil {
		t.Fatal("Save should surface write failure")
	}
	if !apperr.Is(err, apperr.ErrSettingsSaveFailed) {
		t.Errorf("error = %v, want SETTINGS_SAVE_FAILED", err)
	}
}

func TestSave_IsWholesale(t *testing.T) {
	kv := storage.NewMemory()
	store := NewStore(kv)

	first := Default()
	first.NotificationNumber = "12345"
	if err := store.Save(first); err != nil {
		t.Fatal(err)
	}

	second := Default()
	if err := store.Save(second); err != nil {
		t.Fatal(err)
	}

	raw, _, err := kv.Get(StorageKey)
	if err != nil {
		t.Fatal(err)
	}
	var stored Settings
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		t.Fatal(err)
	}
	if stored.NotificationNumber != "" {
		t.Error("save should replace the record wholesale, not merge")
	}
}

func TestIsGenerationAllowed(t *testing.T) {
	s := Default()
	if !IsGenerationAllowed(s) {
		t.Error("all enabled: generation should be allowed")
	}

	for _, c := range Categories {
		s.CategoryEnabled[c] = false
	}
	if IsGenerationAllowed(s) {
		t.Error("all disabled: generation should be blocked")
	}

	s.CategoryEnabled["Research & Learning"] = true
	if !IsGenerationAllowed(s) {
		t.Error("one enabled: generation should be allowed")
	}
}

func TestEnabledCategories_CanonicalOrder(t *testing.T) {
	s := Default()
	s.CategoryEnabled["Creative & Design"] = false

	got := EnabledCategories(s)
	want := []string{
		"Productivity & Workflow",
		"Development & Coding",
		"Business & Analytics",
		"Research & Learning",
	}
	if len(got) != len(want) {
		t.Fatalf("got = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
