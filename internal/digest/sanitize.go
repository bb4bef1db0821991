package digest

// Sanitize converts an arbitrary untyped value purporting to be a digest
// payload into a well-formed Digest. It is total: any input, including nil,
// arrays, or deeply malformed objects, yields a Digest meeting the invariants
// documented on the type. The worst case is a Digest with zero categories,
// which callers treat as "no usable data".
//
// fallbackDate is used when the payload carries no non-empty digest_date
// string; callers supply today's date in ISO form (YYYY-MM-DD).
func Sanitize(raw any, fallbackDate string) Digest {
	d := Digest{
		DigestDate: fallbackDate,
		Categories: []Category{},
	}

	obj, ok := raw.(map[string]any)
	if !ok {
		return d
	}

	if date, ok := obj["digest_date"].(string); ok && date != "" {
		d.DigestDate = date
	}

	if cats, ok := obj["categories"].([]any); ok {
		d.Categories = sanitizeCategories(cats)
	}

	// The agent-supplied count is only trusted when it is actually a
	// non-negative number; otherwise the surviving tools are counted.
	if total, ok := asNumber(obj["total_tools_found"]); ok {
		d.TotalToolsFound = total
	} else {
		d.TotalToolsFound = d.ToolCount()
	}

	if summary, ok := obj["summary"].(string); ok {
		d.Summary = summary
	}

	return d
}

// sanitizeCategories keeps only non-null objects with a string category_name
// and at least one surviving tool.
func sanitizeCategories(raw []any) []Category {
	out := []Category{}
	for _, item := range raw {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		name, ok := obj["category_name"].(string)
		if !ok {
			continue
		}

		var tools []Tool
		if rawTools, ok := obj["tools"].([]any); ok {
			tools = sanitizeTools(rawTools)
		}
		if len(tools) == 0 {
			continue
		}

		out = append(out, Category{CategoryName: name, Tools: tools})
	}
	return out
}

// sanitizeTools keeps only non-null objects with a string name. Description
// and URL default to empty strings; is_new defaults to false.
func sanitizeTools(raw []any) []Tool {
	out := []Tool{}
	for _, item := range raw {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		name, ok := obj["name"].(string)
		if !ok {
			continue
		}

		t := Tool{Name: name}
		if desc, ok := obj["description"].(string); ok {
			t.Description = desc
		}
		if url, ok := obj["url"].(string); ok {
			t.URL = url
		}
		if isNew, ok := obj["is_new"].(bool); ok {
			t.IsNew = isNew
		}
		out = append(out, t)
	}
	return out
}

// asNumber accepts the numeric shapes JSON decoding can produce. Negative
// counts are rejected so the recomputed sum is used instead.
func asNumber(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		if n < 0 {
			return 0, false
		}
		return int(n), true
	case int:
		if n < 0 {
			return 0, false
		}
		return n, true
	}
	return 0, false
}
