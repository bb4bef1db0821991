package digest

import (
	"encoding/json"
	"testing"
)

const fallback = "2026-01-01"

// decodeJSON produces the map[string]any shape the extractor hands to Sanitize.
func decodeJSON(t *testing.T, s string) any {
	t.Helper()
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		t.Fatalf("bad test JSON: %v", err)
	}
	return v
}

func TestSanitize_Totality(t *testing.T) {
	// Sanitize must return a valid Digest for any input, never panic.
	inputs := []any{
		nil,
		"a string",
		42,
		3.14,
		true,
		[]any{"not", "an", "object"},
		map[string]any{},
		map[string]any{"categories": "not an array"},
		map[string]any{"categories": []any{nil, "x", 7}},
		map[string]any{"digest_date": 20260101, "summary": []any{}},
	}

	for i, in := range inputs {
		d := Sanitize(in, fallback)
		if d.DigestDate == "" {
			t.Errorf("input %d: DigestDate empty", i)
		}
		if d.Categories == nil {
			t.Errorf("input %d: Categories nil", i)
		}
		if d.TotalToolsFound < 0 {
			t.Errorf("input %d: TotalToolsFound = %d, want >= 0", i, d.TotalToolsFound)
		}
		for _, c := range d.Categories {
			if len(c.Tools) == 0 {
				t.Errorf("input %d: category %q has no tools", i, c.CategoryName)
			}
		}
	}
}

func TestSanitize_HappyPath(t *testing.T) {
	raw := decodeJSON(t, `{
		"digest_date": "2026-02-21",
		"categories": [
			{"category_name": "Coding", "tools": [
				{"name": "CodeReview AI", "description": "reviews code", "url": "https://codereview.ai", "is_new": true}
			]}
		],
		"total_tools_found": 1,
		"summary": "one tool"
	}`)

	d := Sanitize(raw, fallback)
	if d.DigestDate != "2026-02-21" {
		t.Errorf("DigestDate = %q, want 2026-02-21", d.DigestDate)
	}
	if len(d.Categories) != 1 || len(d.Categories[0].Tools) != 1 {
		t.Fatalf("unexpected shape: %+v", d.Categories)
	}
	tool := d.Categories[0].Tools[0]
	if tool.Name != "CodeReview AI" || !tool.IsNew || tool.URL != "https://codereview.ai" {
		t.Errorf("tool = %+v", tool)
	}
	if d.TotalToolsFound != 1 || d.Summary != "one tool" {
		t.Errorf("TotalToolsFound = %d, Summary = %q", d.TotalToolsFound, d.Summary)
	}
}

func TestSanitize_CountRecomputation(t *testing.T) {
	raw := decodeJSON(t, `{
		"categories": [
			{"category_name": "A", "tools": [{"name": "x"}]},
			{"category_name": "B", "tools": [{"name": "y"}, {"name": "z"}]}
		]
	}`)

	d := Sanitize(raw, fallback)
	if d.TotalToolsFound != 3 {
		t.Errorf("TotalToolsFound = %d, want 3 (recomputed)", d.TotalToolsFound)
	}
}

func TestSanitize_CountNonNumeric(t *testing.T) {
	raw := decodeJSON(t, `{
		"total_tools_found": "lots",
		"categories": [{"category_name": "A", "tools": [{"name": "x"}]}]
	}`)

	d := Sanitize(raw, fallback)
	if d.TotalToolsFound != 1 {
		t.Errorf("TotalToolsFound = %d, want 1", d.TotalToolsFound)
	}
}

func TestSanitize_CountNegative(t *testing.T) {
	raw := decodeJSON(t, `{
		"total_tools_found": -5,
		"categories": [{"category_name": "A", "tools": [{"name": "x"}]}]
	}`)

	d := Sanitize(raw, fallback)
	if d.TotalToolsFound != 1 {
		t.Errorf("TotalToolsFound = %d, want 1 (negative count rejected)", d.TotalToolsFound)
	}
}

func TestSanitize_CategoryDropping(t *testing.T) {
	raw := decodeJSON(t, `{
		"categories": [
			{"category_name": "Empty", "tools": [{"description": "no name"}]},
			{"category_name": "NoTools", "tools": []},
			{"tools": [{"name": "orphan"}]},
			{"category_name": "Kept", "tools": [{"name": "survivor"}, {"nope": true}]}
		]
	}`)

	d := Sanitize(raw, fallback)
	if len(d.Categories) != 1 {
		t.Fatalf("len(Categories) = %d, want 1", len(d.Categories))
	}
	if d.Categories[0].CategoryName != "Kept" {
		t.Errorf("surviving category = %q, want Kept", d.Categories[0].CategoryName)
	}
	if len(d.Categories[0].Tools) != 1 || d.Categories[0].Tools[0].Name != "survivor" {
		t.Errorf("surviving tools = %+v", d.Categories[0].Tools)
	}
}

func TestSanitize_FallbackDate(t *testing.T) {
	cases := []any{
		map[string]any{},
		map[string]any{"digest_date": ""},
		map[string]any{"digest_date": 12345},
	}
	for i, raw := range cases {
		d := Sanitize(raw, fallback)
		if d.DigestDate != fallback {
			t.Errorf("case %d: DigestDate = %q, want fallback %q", i, d.DigestDate, fallback)
		}
	}
}

func TestSanitize_ToolOrderPreserved(t *testing.T) {
	raw := decodeJSON(t, `{
		"categories": [{"category_name": "A", "tools": [
			{"name": "first"}, {"name": "second"}, {"name": "third"}
		]}]
	}`)

	d := Sanitize(raw, fallback)
	got := d.Categories[0].Tools
	want := []string{"first", "second", "third"}
	for i, w := range want {
		if got[i].Name != w {
			t.Errorf("tool[%d] = %q, want %q", i, got[i].Name, w)
		}
	}
}

func TestDigest_Counts(t *testing.T) {
	s := Sample()
	if s.ToolCount() != 12 {
		t.Errorf("ToolCount = %d, want 12", s.ToolCount())
	}
	if s.NewToolCount() != 6 {
		t.Errorf("NewToolCount = %d, want 6", s.NewToolCount())
	}
}
