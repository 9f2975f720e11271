// Package menuscrape extracts menu items from rendered restaurant-ordering
// pages. Items are recovered from embedded structured data first and from
// tolerant text patterns second, then merged into one collection keyed by
// the page's own item identifier.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, re2/, sqlite/, rod/).
package menuscrape
