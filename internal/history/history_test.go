package history

import (
	"fmt"
	"testing"
	"time"

	"github.com/hpann/aidigest/internal/digest"
	"github.com/hpann/aidigest/internal/storage"
)

func testDigest(date string) digest.Digest {
	return digest.Digest{
		DigestDate: date,
		Categories: []digest.Category{
			{CategoryName: "Coding", Tools: []digest.Tool{{Name: "DebugLens", Description: "explains traces"}}},
		},
		TotalToolsFound: 1,
		Summary:         "one tool today",
	}
}

func TestLoad_AbsentRecord(t *testing.T) {
	s := NewStore(storage.NewMemory())

	log := s.Load()
	if len(log) != 0 {
		t.Errorf("len = %d, want 0", len(log))
	}
}

func TestLoad_CorruptRecord(t *testing.T) {
	kv := storage.NewMemory()
	if err := kv.Set(StorageKey, "{not json"); err != nil {
		t.Fatal(err)
	}

	log := NewStore(kv).Load()
	if len(log) != 0 {
		t.Errorf("len = %d, want 0 for corrupt record", len(log))
	}
}

func TestLoad_NullRecord(t *testing.T) {
	kv := storage.NewMemory()
	if err := kv.Set(StorageKey, "null"); err != nil {
		t.Fatal(err)
	}

	log := NewStore(kv).Load()
	if log == nil {
		t.Error("Load should never return a nil log")
	}
}

func TestAppend_PrependsNewestFirst(t *testing.T) {
	s := NewStore(storage.NewMemory())

	s.Append(testDigest("2026-02-19"))
	log := s.Append(testDigest("2026-02-20"))

	if len(log) != 2 {
		t.Fatalf("len = %d, want 2", len(log))
	}
	if log[0].Date != "2026-02-20" || log[1].Date != "2026-02-19" {
		t.Errorf("order = [%s, %s], want newest first", log[0].Date, log[1].Date)
	}
}

func TestAppend_CopiesDigestFields(t *testing.T) {
	s := NewStore(storage.NewMemory())

	log := s.Append(testDigest("2026-02-20"))
	e := log[0]

	if e.Date != "2026-02-20" || e.TotalToolsFound != 1 || e.Summary != "one tool today" {
		t.Errorf("entry = %+v", e)
	}
	if len(e.Categories) != 1 || e.Categories[0].Tools[0].Name != "DebugLens" {
		t.Errorf("categories = %+v", e.Categories)
	}
	if e.Timestamp == "" {
		t.Error("Timestamp should be set")
	}
	if _, err := time.Parse(time.RFC3339, e.Timestamp); err != nil {
		t.Errorf("Timestamp %q is not RFC3339: %v", e.Timestamp, err)
	}
}

func TestAppend_Bound(t *testing.T) {
	s := NewStore(storage.NewMemory())

	var log Log
	for i := 0; i < Cap+5; i++ {
		log = s.Append(testDigest(fmt.Sprintf("2026-01-%02d", i%28+1)))
	}

	if len(log) != Cap {
		t.Errorf("len = %d, want %d", len(log), Cap)
	}

	// The retained entries are the most recent appends, newest first.
	reloaded := s.Load()
	if len(reloaded) != Cap {
		t.Errorf("persisted len = %d, want %d", len(reloaded), Cap)
	}
	if reloaded[0].ID != log[0].ID {
		t.Error("newest entry should survive truncation")
	}
}

func TestAppend_IDUniqueness(t *testing.T) {
	// Identical content, identical clock reading: IDs must still differ.
	fixed := time.Date(2026, 2, 20, 14, 30, 0, 0, time.UTC)
	s := NewStoreWithClock(storage.NewMemory(), func() time.Time { return fixed })

	s.Append(testDigest("2026-02-20"))
	log := s.Append(testDigest("2026-02-20"))

	if log[0].ID == log[1].ID {
		t.Errorf("duplicate IDs: %s", log[0].ID)
	}
}

func TestAppend_WriteFailureSwallowed(t *testing.T) {
	kv := storage.NewMemory()
	s := NewStore(kv)
	s.Append(testDigest("2026-02-19"))

	kv.FailWrites = true
	log := s.Append(testDigest("2026-02-20"))

	// In-memory result is still correct for the session.
	if len(log) != 2 || log[0].Date != "2026-02-20" {
		t.Errorf("log = %+v", log)
	}

	// But durability was lost: the persisted record still has one entry.
	kv.FailWrites = false
	if got := s.Load(); len(got) != 1 {
		t.Errorf("persisted len = %d, want 1", len(got))
	}
}

func TestClear(t *testing.T) {
	s := NewStore(storage.NewMemory())
	s.Append(testDigest("2026-02-20"))

	log := s.Clear()
	if len(log) != 0 {
		t.Errorf("len = %d, want 0", len(log))
	}
	if got := s.Load(); len(got) != 0 {
		t.Errorf("persisted len = %d, want 0 after clear", len(got))
	}
}

func TestSearch_CaseInsensitiveToolName(t *testing.T) {
	s := NewStore(storage.NewMemory())
	s.Append(digest.Digest{
		DigestDate: "2026-02-21",
		Categories: []digest.Category{
			{CategoryName: "Creative & Design", Tools: []digest.Tool{{Name: "PixelForge 3.0"}}},
		},
	})
	log := s.Append(testDigest("2026-02-22"))

	got := Search(log, "pixel")
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	if got[0].Date != "2026-02-21" {
		t.Errorf("matched entry date = %s", got[0].Date)
	}
}

func TestSearch_MatchesAllFields(t *testing.T) {
	entry := Entry{
		Date:    "2026-02-21",
		Summary: "Highlights in automation",
		Categories: []digest.Category{
			{CategoryName: "Productivity & Workflow", Tools: []digest.Tool{
				{Name: "TaskPilot", Description: "prioritizes your backlog"},
			}},
		},
	}
	log := Log{entry}

	for _, q := range []string{"2026-02-21", "highlights", "workflow", "taskpilot", "backlog"} {
		if got := Search(log, q); len(got) != 1 {
			t.Errorf("query %q: len = %d, want 1", q, len(got))
		}
	}

	if got := Search(log, "nonexistent"); len(got) != 0 {
		t.Errorf("query nonexistent: len = %d, want 0", len(got))
	}
}

func TestSearch_EmptyQueryReturnsAll(t *testing.T) {
	s := NewStore(storage.NewMemory())
	s.Append(testDigest("2026-02-19"))
	log := s.Append(testDigest("2026-02-20"))

	for _, q := range []string{"", "   "} {
		got := Search(log, q)
		if len(got) != 2 {
			t.Fatalf("query %q: len = %d, want 2", q, len(got))
		}
		if got[0].ID != log[0].ID || got[1].ID != log[1].ID {
			t.Errorf("query %q: order changed", q)
		}
	}
}

func TestGroupByDate_KeyOrder(t *testing.T) {
	log := Log{
		{ID: "a", Date: "2026-02-19"},
		{ID: "b", Date: "2026-02-21"},
		{ID: "c", Date: "2026-02-20"},
	}

	grouped, keys := GroupByDate(log)

	want := []string{"2026-02-21", "2026-02-20", "2026-02-19"}
	if len(keys) != len(want) {
		t.Fatalf("keys = %v", keys)
	}
	for i, k := range want {
		if keys[i] != k {
			t.Errorf("keys[%d] = %s, want %s", i, keys[i], k)
		}
	}
	for _, k := range keys {
		if len(grouped[k]) != 1 {
			t.Errorf("group %s: len = %d, want 1", k, len(grouped[k]))
		}
	}
}

func TestGroupByDate_PreservesRelativeOrder(t *testing.T) {
	log := Log{
		{ID: "newer", Date: "2026-02-20"},
		{ID: "older", Date: "2026-02-20"},
	}

	grouped, _ := GroupByDate(log)
	day := grouped["2026-02-20"]
	if day[0].ID != "newer" || day[1].ID != "older" {
		t.Errorf("within-date order = [%s, %s]", day[0].ID, day[1].ID)
	}
}

func TestToolsForDate(t *testing.T) {
	log := Log{
		{TotalToolsFound: 3},
		{TotalToolsFound: 5},
	}
	if got := ToolsForDate(log); got != 8 {
		t.Errorf("ToolsForDate = %d, want 8", got)
	}
}

func TestPersistRoundTrip_SQLite(t *testing.T) {
	kv, err := storage.Open(t.TempDir())
	if err != nil {
		t.Fatalf("storage.Open: %v", err)
	}
	defer kv.Close()

	s := NewStore(kv)
	s.Append(testDigest("2026-02-20"))

	got := NewStore(kv).Load()
	if len(got) != 1 || got[0].Date != "2026-02-20" {
		t.Errorf("reloaded log = %+v", got)
	}
}
