package digest

// Tool is one reported AI product inside a category.
type Tool struct {
	// Name is required; a tool without a string name is dropped during sanitization
	Name string `json:"name"`

	// Description may be empty; markdown-lite text
	Description string `json:"description"`

	// URL is an external link when present
	URL string `json:"url"`

	// IsNew marks a brand-new release
	IsNew bool `json:"is_new"`
}

// Category is a named grouping of tools. Tool order is the agent-reported
// order, preserved for display.
type Category struct {
	CategoryName string `json:"category_name"`
	Tools        []Tool `json:"tools"`
}

// Digest is one normalized snapshot of categorized AI-tool findings for a
// given date. A Digest produced by Sanitize always satisfies:
//   - DigestDate is a non-empty string
//   - every Category has at least one Tool, every Tool has a non-empty Name
//   - TotalToolsFound >= 0
//
// Digests are immutable after construction; History wraps copies of them.
type Digest struct {
	DigestDate      string     `json:"digest_date"`
	Categories      []Category `json:"categories"`
	TotalToolsFound int        `json:"total_tools_found"`
	Summary         string     `json:"summary"`
}

// ToolCount returns the number of tools across all categories.
func (d Digest) ToolCount() int {
	n := 0
	for _, c := range d.Categories {
		n += len(c.Tools)
	}
	return n
}

// NewToolCount returns the number of tools flagged as new releases.
func (d Digest) NewToolCount() int {
	n := 0
	for _, c := range d.Categories {
		for _, t := range c.Tools {
			if t.IsNew {
				n++
			}
		}
	}
	return n
}
