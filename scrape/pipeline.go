// Package scrape composes the extractors into the menu extraction pipeline
// and runs it over many pages.
package scrape

import (
	"strings"

	"github.com/fwojciec/menuscrape"
)

// Ensure Pipeline implements menuscrape.MenuExtractor at compile time.
var _ menuscrape.MenuExtractor = (*Pipeline)(nil)

// Pipeline extracts menu items in a fixed priority order:
//
//  1. structured fragments, in content order
//  2. a scoped pattern search near each structured item still missing a
//     name, price or description
//  3. pattern records across the whole content
//
// Every candidate is folded into a Catalog, so an earlier source always
// wins and later ones only fill in missing fields. Items keep the order in
// which the Catalog first saw their IDs: structured items come first in
// content order, then items only the pattern search found, in content
// order, even when those appear earlier in the page than a structured one.
//
// Pipeline holds no per-call state and is safe for concurrent use when its
// extractors are.
type Pipeline struct {
	Structured menuscrape.Extractor
	Fallback   menuscrape.FallbackExtractor

	// Converter normalizes descriptions that embed markup. Optional.
	Converter menuscrape.Converter
}

// ExtractMenu runs the pipeline over content.
func (p *Pipeline) ExtractMenu(content string) *menuscrape.Extraction {
	result := &menuscrape.Extraction{}
	catalog := menuscrape.NewCatalog()

	// First structured candidate per ID, for scoping the pattern search.
	var first []menuscrape.Candidate
	if p.Structured != nil {
		for c, err := range p.Structured.Extract(content) {
			if err != nil {
				result.Malformed++
				continue
			}
			result.Structured++
			if catalog.Add(c.Item) {
				first = append(first, c)
			}
		}
	}

	if p.Fallback != nil {
		for _, c := range first {
			item, _ := catalog.Get(c.Item.ID)
			if item.Complete() && !item.Partial() {
				continue
			}
			if near, ok := p.Fallback.ExtractNear(content, menuscrape.AnchorOf(c)); ok {
				result.Fallback++
				catalog.Add(near.Item)
			}
		}

		for c, err := range p.Fallback.Extract(content) {
			if err != nil {
				result.Malformed++
				continue
			}
			result.Fallback++
			catalog.Add(c.Item)
		}
	}

	result.Items = catalog.Items()
	result.Backfilled = catalog.Backfilled()
	result.Dropped = catalog.Len() - len(result.Items)

	if p.Converter != nil {
		for _, item := range result.Items {
			item.Description = p.convert(item.Description)
		}
	}
	return result
}

// convert returns s as Markdown when it contains markup. Conversion
// failures keep the raw value.
func (p *Pipeline) convert(s string) string {
	if !strings.Contains(s, "<") {
		return s
	}
	md, err := p.Converter.Convert(s)
	if err != nil {
		return s
	}
	if md = strings.TrimSpace(md); md == "" {
		return s
	}
	return md
}
