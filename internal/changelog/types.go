package changelog

import "time"

// Category is the semantic bucket a pull request lands in.
// The enumeration is fixed and ordered; sections render in this order.
type Category int

const (
	CategoryAdded Category = iota
	CategoryChanged
	CategoryFixed
)

// String returns the heading name for the category.
func (c Category) String() string {
	switch c {
	case CategoryAdded:
		return "Added"
	case CategoryChanged:
		return "Changed"
	case CategoryFixed:
		return "Fixed"
	default:
		return "Added"
	}
}

// Categories returns all categories in rendering order.
func Categories() []Category {
	return []Category{CategoryAdded, CategoryChanged, CategoryFixed}
}

// Author identifies who opened a pull request.
// Name holds the human display name when the account has one, otherwise
// the login handle.
type Author struct {
	Name string
	URL  string
}

// Record is the resolved metadata for one merged pull request.
// Immutable once fetched.
type Record struct {
	Number    int
	Title     string
	URL       string
	MergedAt  time.Time
	Body      string
	Additions int
	Deletions int
	Author    Author
}

// Changes groups records by category, preserving fetch order within each.
type Changes struct {
	Added   []Record
	Changed []Record
	Fixed   []Record
}

// Append files a record under the given category.
func (c *Changes) Append(cat Category, r Record) {
	switch cat {
	case CategoryChanged:
		c.Changed = append(c.Changed, r)
	case CategoryFixed:
		c.Fixed = append(c.Fixed, r)
	default:
		c.Added = append(c.Added, r)
	}
}

// Group returns the records filed under the given category.
func (c Changes) Group(cat Category) []Record {
	switch cat {
	case CategoryChanged:
		return c.Changed
	case CategoryFixed:
		return c.Fixed
	default:
		return c.Added
	}
}

// IsEmpty returns true if no category holds any record.
func (c Changes) IsEmpty() bool {
	return len(c.Added) == 0 && len(c.Changed) == 0 && len(c.Fixed) == 0
}

// Count returns the total number of records across all categories.
func (c Changes) Count() int {
	return len(c.Added) + len(c.Changed) + len(c.Fixed)
}

// Release is the new section this run produces: a version label, the
// release date, and the classified pull requests.
type Release struct {
	Version string
	Date    time.Time
	Changes Changes
}

// Section is one previously existing release section of the document:
// the text of its "## " heading and the raw body that followed it.
// Bodies are reproduced verbatim when rendering.
type Section struct {
	Title string
	Body  string
}

// Document is the previously existing changelog, decomposed into its
// document-level title, description, and ordered sections (newest first).
// It is read once at startup and never mutated.
type Document struct {
	Title       string
	Description string
	Sections    []Section
}
