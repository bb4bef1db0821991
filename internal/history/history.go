// Package history is the append-only, size-bounded log of past digests.
// Entries are persisted newest-first under a single storage record; writes
// are best-effort and the in-memory result stays authoritative for the
// session.
package history

import (
	"crypto/rand"
	"encoding/json"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/hpann/aidigest/internal/digest"
	"github.com/hpann/aidigest/internal/storage"
)

// StorageKey names the persisted history record.
const StorageKey = "ai_tools_digest_history"

// Cap bounds the number of retained entries. On append the log is truncated
// to Cap; older entries fall off silently.
const Cap = 100

// Entry is a persisted, immutable record of one past digest generation.
type Entry struct {
	// ID is a ULID, unique even for entries created in the same millisecond
	ID string `json:"id"`

	// Date is the digest's calendar date (copied from Digest.DigestDate)
	Date string `json:"date"`

	// Timestamp is the ISO instant of creation; orders entries within a day
	Timestamp string `json:"timestamp"`

	Categories      []digest.Category `json:"categories"`
	TotalToolsFound int               `json:"total_tools_found"`
	Summary         string            `json:"summary"`
}

// Log is an ordered sequence of entries, newest first.
type Log []Entry

// Store reads and writes the history record through an injected KV.
type Store struct {
	kv  storage.KV
	now func() time.Time
}

// NewStore creates a history store over the given KV.
func NewStore(kv storage.KV) *Store {
	return &Store{kv: kv, now: time.Now}
}

// NewStoreWithClock creates a store with a fixed clock for tests.
func NewStoreWithClock(kv storage.KV, now func() time.Time) *Store {
	return &Store{kv: kv, now: now}
}

// Load reads the persisted log. Absent or corrupt records yield an empty
// log; Load never fails.
func (s *Store) Load() Log {
	raw, ok, err := s.kv.Get(StorageKey)
	if err != nil || !ok {
		return Log{}
	}

	var entries Log
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return Log{}
	}
	if entries == nil {
		return Log{}
	}
	return entries
}

// Append wraps d into a fresh entry, prepends it to the persisted log,
// truncates to Cap, persists, and returns the resulting log. Persistence
// failures are swallowed: the returned log is correct for the session even
// when the write did not stick.
func (s *Store) Append(d digest.Digest) Log {
	now := s.now()

	entry := Entry{
		ID:              newID(now),
		Date:            d.DigestDate,
		Timestamp:       now.UTC().Format(time.RFC3339),
		Categories:      d.Categories,
		TotalToolsFound: d.TotalToolsFound,
		Summary:         d.Summary,
	}

	updated := append(Log{entry}, s.Load()...)
	if len(updated) > Cap {
		updated = updated[:Cap]
	}

	s.persist(updated)
	return updated
}

// Clear erases the persisted log and returns an empty one.
func (s *Store) Clear() Log {
	if err := s.kv.Delete(StorageKey); err != nil {
		log.Printf("history: clear failed: %v", err)
	}
	return Log{}
}

func (s *Store) persist(entries Log) {
	data, err := json.Marshal(entries)
	if err != nil {
		log.Printf("history: marshal failed: %v", err)
		return
	}
	if err := s.kv.Set(StorageKey, string(data)); err != nil {
		log.Printf("history: write failed (in-memory log remains valid): %v", err)
	}
}

// newID generates a ULID stamped with the given time.
func newID(now time.Time) string {
	return ulid.MustNew(ulid.Timestamp(now), rand.Reader).String()
}

// Search filters entries by case-insensitive substring match against the
// date, summary, category names, and tool names/descriptions. An empty or
// whitespace query returns the log unfiltered, order preserved.
func Search(entries Log, query string) Log {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return entries
	}

	out := Log{}
	for _, e := range entries {
		if matches(e, q) {
			out = append(out, e)
		}
	}
	return out
}

func matches(e Entry, q string) bool {
	if strings.Contains(strings.ToLower(e.Date), q) {
		return true
	}
	if strings.Contains(strings.ToLower(e.Summary), q) {
		return true
	}
	for _, c := range e.Categories {
		if strings.Contains(strings.ToLower(c.CategoryName), q) {
			return true
		}
		for _, t := range c.Tools {
			if strings.Contains(strings.ToLower(t.Name), q) ||
				strings.Contains(strings.ToLower(t.Description), q) {
				return true
			}
		}
	}
	return false
}

// GroupByDate buckets entries by calendar date. Keys are returned sorted
// descending; ISO dates sort lexicographically, so descending string order
// is reverse-chronological. Entries within a date keep the log's relative
// order.
func GroupByDate(entries Log) (map[string]Log, []string) {
	grouped := make(map[string]Log)
	for _, e := range entries {
		grouped[e.Date] = append(grouped[e.Date], e)
	}

	keys := make([]string, 0, len(grouped))
	for k := range grouped {
		keys = append(keys, k)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))

	return grouped, keys
}

// ToolsForDate sums the reported tool counts for a date bucket, for the
// history view's per-date badge.
func ToolsForDate(entries Log) int {
	n := 0
	for _, e := range entries {
		n += e.TotalToolsFound
	}
	return n
}
