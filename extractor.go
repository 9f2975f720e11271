package menuscrape

import "iter"

// Candidate is a tentative menu item before deduplication, together with
// the byte span of the content it was recovered from.
type Candidate struct {
	Item  *MenuItem
	Start int
	End   int
}

// Anchor locates an incomplete candidate so a fallback search can be
// scoped to its neighborhood instead of the whole document.
type Anchor struct {
	ID    string
	Start int
	End   int
}

// AnchorOf returns the anchor of a candidate.
func AnchorOf(c Candidate) Anchor {
	a := Anchor{Start: c.Start, End: c.End}
	if c.Item != nil {
		a.ID = c.Item.ID
	}
	return a
}

// Extractor recovers candidate menu items from a content blob.
type Extractor interface {
	// Extract lazily yields candidates in content order. A non-nil error
	// reports one fragment that could not be parsed; consumers skip it and
	// keep iterating. Extract never mutates or retains content.
	Extract(content string) iter.Seq2[Candidate, error]
}

// FallbackExtractor recovers items with tolerant text patterns.
type FallbackExtractor interface {
	Extractor

	// ExtractNear searches only the neighborhood of anchor for the fields
	// its candidate is missing. The bool result is false when nothing was
	// found, which is a valid outcome for items such as napkins that have
	// no price or description anywhere on the page.
	ExtractNear(content string, anchor Anchor) (Candidate, bool)
}

// Extraction is the outcome of extracting one content blob.
type Extraction struct {
	// Items are unique by ID, all named, in first-seen order.
	Items []*MenuItem

	// Diagnostic counts.
	Structured int // candidates from structured fragments
	Fallback   int // candidates from pattern matching
	Backfilled int // fields filled in from a later candidate
	Malformed  int // structured fragments that failed to parse
	Dropped    int // IDs that never recovered a name
}

// Empty reports whether the content yielded no menu items at all.
// This is a valid outcome, e.g. for a page without menu content.
func (e *Extraction) Empty() bool {
	return e == nil || len(e.Items) == 0
}

// MenuExtractor runs the complete extraction pipeline over one page.
type MenuExtractor interface {
	// ExtractMenu never fails; malformed input degrades to fewer items.
	ExtractMenu(content string) *Extraction
}

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms an HTML fragment, such as a description that
	// embeds markup, into Markdown text.
	Convert(html string) (string, error)
}
