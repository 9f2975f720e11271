package goquery

import (
	"iter"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/menuscrape"
	"github.com/tidwall/gjson"
)

// Ensure StructuredMatcher implements menuscrape.Extractor at compile time.
var _ menuscrape.Extractor = (*StructuredMatcher)(nil)

// StructuredMatcher extracts menu items from JSON embedded in a page,
// such as hydration state in script elements or JSON-LD blocks.
// StructuredMatcher is safe for concurrent use.
type StructuredMatcher struct {
	typenames map[string]bool
}

// MatcherOption configures a StructuredMatcher.
type MatcherOption func(*StructuredMatcher)

// WithTypenames sets the __typename/@type values treated as menu items.
// Defaults to DefaultTypenames.
func WithTypenames(names ...string) MatcherOption {
	return func(m *StructuredMatcher) {
		m.typenames = make(map[string]bool, len(names))
		for _, n := range names {
			m.typenames[n] = true
		}
	}
}

// NewStructuredMatcher creates a new StructuredMatcher.
func NewStructuredMatcher(opts ...MatcherOption) *StructuredMatcher {
	m := &StructuredMatcher{}
	WithTypenames(DefaultTypenames...)(m)
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// region is a piece of the content to scan. Base is the offset of text in
// the content, or -1 when it could not be located.
type region struct {
	text string
	base int
}

// Extract yields a candidate for every item-shaped JSON fragment, in
// content order. Fragments that fail to parse yield an EMALFORMED error and
// scanning continues. Content without any fragment yields nothing.
func (m *StructuredMatcher) Extract(content string) iter.Seq2[menuscrape.Candidate, error] {
	return func(yield func(menuscrape.Candidate, error) bool) {
		for _, r := range scriptRegions(content) {
			for _, c := range m.scanRegion(r) {
				if !yield(c.candidate, c.err) {
					return
				}
			}
		}
	}
}

type result struct {
	candidate menuscrape.Candidate
	err       error
}

// scanRegion parses the fragments of one region. Regions holding escaped
// JSON are scanned a second time with one level of escaping removed.
func (m *StructuredMatcher) scanRegion(r region) []result {
	var results []result
	add := func(res result) {
		if res.err != nil || res.candidate.Item != nil {
			results = append(results, res)
		}
	}

	for _, f := range scanFragments(r.text, m.typenames) {
		add(parseFragment(r.text[f.start:f.end], r.offset(f.start), r.offset(f.end)))
	}

	if escapedMarker(r.text) {
		text, pos := unescapeQuotes(r.text)
		for _, f := range scanFragments(text, m.typenames) {
			start, end := r.offset(pos[f.start]), r.offset(pos[f.end-1]+1)
			add(parseFragment(text[f.start:f.end], start, end))
		}
		// Keep content order across both passes. Errors carry no
		// position and sort first.
		sort.SliceStable(results, func(a, b int) bool {
			return position(results[a]) < position(results[b])
		})
	}
	return results
}

func position(r result) int {
	if r.err != nil {
		return -1
	}
	return r.candidate.Start
}

func (r region) offset(i int) int {
	if r.base < 0 {
		return -1
	}
	return r.base + i
}

// parseFragment converts one JSON object into a candidate. Objects without
// an id produce neither a candidate nor an error.
func parseFragment(raw string, start, end int) result {
	if !gjson.Valid(raw) {
		return result{err: menuscrape.Errorf(menuscrape.EMALFORMED, "invalid item fragment at offset %d", start)}
	}

	fields := gjson.Parse(raw).Map()
	item := &menuscrape.MenuItem{
		ID:          lookup(fields, idKeys),
		Name:        lookup(fields, nameKeys),
		Price:       lookup(fields, priceKeys),
		Description: lookup(fields, descriptionKeys),
		ImageURL:    lookup(fields, imageKeys),
		Rating:      lookup(fields, ratingKeys),
		Strategy:    menuscrape.StrategyStructured,
	}
	if item.Price == "" {
		item.Price = offerPrice(fields["offers"])
	}
	if item.ID == "" {
		return result{}
	}

	return result{candidate: menuscrape.Candidate{Item: item, Start: start, End: end}}
}

// lookup returns the first non-empty scalar value among keys.
func lookup(fields map[string]gjson.Result, keys []string) string {
	for _, k := range keys {
		if v := scalar(fields[k]); v != "" {
			return v
		}
	}
	return ""
}

// scalar renders a string or number as text. Arrays yield their first
// scalar element; objects, null and the literal "null" yield "".
func scalar(v gjson.Result) string {
	switch v.Type {
	case gjson.String:
		s := strings.TrimSpace(v.String())
		if s == "null" {
			return ""
		}
		return s
	case gjson.Number:
		return v.Raw
	case gjson.JSON:
		if v.IsArray() {
			for _, el := range v.Array() {
				if s := scalar(el); s != "" {
					return s
				}
			}
		}
	}
	return ""
}

// offerPrice formats a schema.org offer (or the first of several) as a
// display price.
func offerPrice(offers gjson.Result) string {
	if offers.IsArray() {
		arr := offers.Array()
		if len(arr) == 0 {
			return ""
		}
		offers = arr[0]
	}
	if !offers.IsObject() {
		return ""
	}
	amount := scalar(offers.Get("price"))
	if amount == "" {
		return ""
	}
	if offers.Get("price").Type == gjson.String && !startsWithDigit(amount) {
		return amount
	}
	code := strings.ToUpper(scalar(offers.Get("priceCurrency")))
	if symbol, ok := currencySymbols[code]; ok {
		return symbol + amount
	}
	if code != "" {
		return amount + " " + code
	}
	return amount
}

func startsWithDigit(s string) bool {
	return s != "" && s[0] >= '0' && s[0] <= '9'
}

// scriptRegions returns the bodies of the page's script elements. Content
// without script elements, such as a raw JSON dump, is scanned whole.
func scriptRegions(content string) []region {
	whole := []region{{text: content, base: 0}}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return whole
	}
	scripts := doc.Find("script")
	if scripts.Length() == 0 {
		return whole
	}

	var regions []region
	cursor := 0
	scripts.Each(func(_ int, sel *goquery.Selection) {
		body := sel.Text()
		if strings.TrimSpace(body) == "" {
			return
		}
		// The parser normalizes some input (e.g. CRLF), in which case the
		// body cannot be located and spans are unknown.
		base := -1
		if idx := strings.Index(content[cursor:], body); idx >= 0 {
			base = cursor + idx
			cursor = base + len(body)
		}
		regions = append(regions, region{text: body, base: base})
	})
	return regions
}
