// Package re2 recovers menu items from page content with tolerant text
// patterns, for content whose embedded data is missing, malformed or
// incomplete. Patterns run on RE2, so matching stays linear in the size of
// hostile input.
package re2

import (
	"iter"
	"sort"
	"strings"

	"github.com/fwojciec/menuscrape"
	"github.com/tidwall/gjson"
	"github.com/wasilibs/go-re2"
	"golang.org/x/net/html"
)

// Ensure PatternExtractor implements menuscrape.FallbackExtractor at compile time.
var _ menuscrape.FallbackExtractor = (*PatternExtractor)(nil)

// DefaultRadius bounds how far past its opening a record may extend.
const DefaultRadius = 2048

// maxOccurrences bounds how many mentions of an ID ExtractNear inspects.
const maxOccurrences = 8

// lookBehind is how far before a type marker the opening brace of its
// object is searched for.
const lookBehind = 256

// PatternExtractor recovers menu items with text patterns.
// PatternExtractor is safe for concurrent use.
type PatternExtractor struct {
	radius  int
	reTyped *re2.Regexp
}

// Option configures a PatternExtractor.
type Option func(*PatternExtractor)

// WithRadius sets how far past its opening a record may extend.
// Defaults to DefaultRadius.
func WithRadius(n int) Option {
	return func(e *PatternExtractor) {
		e.radius = n
	}
}

// WithTypenames sets the __typename/@type values that open a serialized item.
// Defaults to DefaultTypenames.
func WithTypenames(names ...string) Option {
	return func(e *PatternExtractor) {
		e.reTyped = typedPattern(names)
	}
}

// NewPatternExtractor creates a new PatternExtractor.
func NewPatternExtractor(opts ...Option) *PatternExtractor {
	e := &PatternExtractor{radius: DefaultRadius}
	for _, opt := range opts {
		opt(e)
	}
	if e.reTyped == nil {
		e.reTyped = typedPattern(DefaultTypenames)
	}
	return e
}

type anchorKind int

const (
	anchorTyped   anchorKind = iota // serialized item type marker
	anchorRowText                   // element whose text opens with an id token
	anchorRowAttr                   // element carrying an item id attribute
)

// anchor marks where a record opens. End is the end of the match.
type anchor struct {
	kind  anchorKind
	start int
	end   int
	tag   string
	id    string
	name  string
}

// Extract recovers every record in content, in content order. Records are
// opened by a serialized type marker, an element whose text starts with an
// opaque id token (id-99 Napkins) or an element with an item id attribute.
// Rows end with their element; serialized records end at the next opening.
// Records without an id are discarded. Extract never yields an error.
func (e *PatternExtractor) Extract(content string) iter.Seq2[menuscrape.Candidate, error] {
	return func(yield func(menuscrape.Candidate, error) bool) {
		anchors := e.scanAnchors(content, 0)
		for i, a := range anchors {
			end := e.regionEnd(content, anchors, i)
			item := record(a, content[a.start:end])
			if item.ID == "" {
				continue
			}
			if !yield(menuscrape.Candidate{Item: item, Start: a.start, End: end}, nil) {
				return
			}
		}
	}
}

// ExtractNear looks for the fields of the item identified by a around the
// other mentions of its ID, such as a rendered row that carries a price
// block. Mentions inside the anchor's own span are skipped, and so are
// mentions inside a record that belongs to another item. The bool result
// is false when no field was found.
func (e *PatternExtractor) ExtractNear(content string, a menuscrape.Anchor) (menuscrape.Candidate, bool) {
	if a.ID == "" {
		return menuscrape.Candidate{}, false
	}

	found := &menuscrape.MenuItem{ID: a.ID, Strategy: menuscrape.StrategyFallback}
	first, last := -1, -1

	for _, occ := range occurrences(content, a) {
		item, start, end, ok := e.near(content, occ, a.ID)
		if !ok {
			continue
		}
		if found.Backfill(item) > 0 {
			if first < 0 {
				first = start
			}
			last = max(last, end)
		}
	}

	if first < 0 {
		return menuscrape.Candidate{}, false
	}
	return menuscrape.Candidate{Item: found, Start: first, End: last}, true
}

// near recovers fields for id from the mention at occ. A mention inside a
// record uses the innermost such record when it carries the same ID and is
// rejected otherwise. A free mention opens a window that ends at the next
// record opening or the radius.
func (e *PatternExtractor) near(content string, occ int, id string) (*menuscrape.MenuItem, int, int, bool) {
	// Records never extend past the radius, so any record holding occ
	// opens within it.
	from := max(0, occ-e.radius)
	to := min(len(content), occ+e.radius)
	local := e.scanAnchors(content[from:to], from)

	end, inner, innerEnd := to, -1, 0
	for i, la := range local {
		if la.start > occ {
			end = la.start
			break
		}
		if rend := e.recordEnd(content, local, i); occ < rend {
			inner, innerEnd = i, rend
		}
	}

	if inner >= 0 {
		la := local[inner]
		item := record(la, content[la.start:innerEnd])
		if item.ID != id {
			return nil, 0, 0, false
		}
		return item, la.start, innerEnd, true
	}
	return fields(content[occ:end], true), occ, end, true
}

// scanAnchors returns the record openings in text ordered by position.
// Positions are offset by base.
func (e *PatternExtractor) scanAnchors(text string, base int) []anchor {
	var anchors []anchor
	for _, m := range e.reTyped.FindAllStringIndex(text, -1) {
		// Open at the object's brace so members serialized before the
		// type marker belong to the record.
		start := m[0]
		from := max(0, m[0]-lookBehind)
		if brace := strings.LastIndexByte(text[from:m[0]], '{'); brace >= 0 {
			start = from + brace
		}
		anchors = append(anchors, anchor{kind: anchorTyped, start: base + start, end: base + m[1]})
	}
	for _, m := range reRowText.FindAllStringSubmatchIndex(text, -1) {
		anchors = append(anchors, anchor{
			kind:  anchorRowText,
			start: base + m[0],
			end:   base + m[1],
			tag:   text[m[2]:m[3]],
			id:    text[m[4]:m[5]],
			name:  text[m[6]:m[7]],
		})
	}
	for _, m := range reRowAttr.FindAllStringSubmatchIndex(text, -1) {
		anchors = append(anchors, anchor{
			kind:  anchorRowAttr,
			start: base + m[0],
			end:   base + m[1],
			tag:   text[m[2]:m[3]],
			id:    strings.TrimSpace(text[m[4]:m[5]]),
		})
	}
	sort.SliceStable(anchors, func(i, j int) bool { return anchors[i].start < anchors[j].start })
	return anchors
}

// regionEnd returns where the record opened by anchors[i] ends: at the
// close of a row's element, or for serialized records and unclosed rows at
// the next opening. Records never extend past the radius.
func (e *PatternExtractor) regionEnd(content string, anchors []anchor, i int) int {
	a := anchors[i]
	limit := min(len(content), a.start+e.radius)
	next := limit
	if i+1 < len(anchors) {
		next = min(next, anchors[i+1].start)
	}
	if a.kind == anchorTyped {
		return next
	}
	if end := elementEnd(content, a.start, limit, a.tag); end >= 0 {
		return end
	}
	return next
}

// recordEnd is regionEnd tightened to the closing brace of a serialized
// object when the brace can be matched past the type marker.
func (e *PatternExtractor) recordEnd(content string, anchors []anchor, i int) int {
	end := e.regionEnd(content, anchors, i)
	if a := anchors[i]; a.kind == anchorTyped {
		if obj := objectEnd(content, a.start, end); obj >= a.end {
			return obj
		}
	}
	return end
}

// objectEnd returns the offset just past the brace closing the object that
// opens at content[start], or -1 when it does not close before limit.
// Braces inside plain string literals are ignored; escaped serializations
// are balanced on their raw braces.
func objectEnd(content string, start, limit int) int {
	limit = min(limit, len(content))
	if start < 0 || start >= limit || content[start] != '{' {
		return -1
	}
	depth, quoted := 0, false
	for i := start; i < limit; i++ {
		c := content[i]
		switch {
		case quoted:
			if c == '\\' {
				i++
			} else if c == '"' {
				quoted = false
			}
		case c == '"' && content[i-1] != '\\':
			quoted = true
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return -1
}

// record builds the item opened by a from its region of the content.
func record(a anchor, region string) *menuscrape.MenuItem {
	if a.kind == anchorTyped {
		item := fields(region, false)
		item.ID = submatch(reID, region)
		return item
	}

	item := &menuscrape.MenuItem{
		ID:          a.id,
		Price:       priceToken(region),
		Description: descriptionAttr(region),
		Strategy:    menuscrape.StrategyFallback,
	}
	switch a.kind {
	case anchorRowText:
		item.Name = rowName(a.name)
	case anchorRowAttr:
		item.Name = firstText(region, item.Description)
	}
	return item
}

// fields recovers the optional fields of an item from serialized members
// within region and, when markup is set, from price tokens and description
// elements too. The ID is left empty.
func fields(region string, markup bool) *menuscrape.MenuItem {
	item := &menuscrape.MenuItem{
		Name:        decode(submatch(reName, region)),
		Price:       decode(submatch(rePriceField, region)),
		Description: decode(submatch(reDescription, region)),
		ImageURL:    decode(submatch(reImage, region)),
		Rating:      decode(submatch(reRating, region)),
		Strategy:    menuscrape.StrategyFallback,
	}
	if item.Rating == "null" {
		item.Rating = ""
	}
	if markup && item.Price == "" {
		item.Price = priceToken(region)
	}
	if markup && item.Description == "" {
		item.Description = descriptionAttr(region)
	}
	return item
}

// occurrences returns the offsets of whole-token mentions of a's ID outside
// a's own span.
func occurrences(content string, a menuscrape.Anchor) []int {
	var out []int
	for from := 0; len(out) < maxOccurrences; {
		idx := strings.Index(content[from:], a.ID)
		if idx < 0 {
			break
		}
		occ := from + idx
		from = occ + len(a.ID)

		if a.Start >= 0 && occ >= a.Start && occ < a.End {
			continue
		}
		if !boundary(content, occ-1) || !boundary(content, from) {
			continue
		}
		out = append(out, occ)
	}
	return out
}

// boundary reports whether content[i] does not continue an identifier.
func boundary(content string, i int) bool {
	if i < 0 || i >= len(content) {
		return true
	}
	c := content[i]
	return !(c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_')
}

func submatch(re *re2.Regexp, s string) string {
	m := re.FindStringSubmatch(s)
	if len(m) < 2 {
		return ""
	}
	return strings.TrimSpace(strings.TrimSuffix(m[1], `\`))
}

// decode resolves JSON string escapes such as \u0026 in a captured value,
// including values that were escaped twice inside a script string.
// Values that are not valid JSON string contents are returned unchanged.
func decode(s string) string {
	for range 2 {
		if !strings.Contains(s, `\`) {
			break
		}
		quoted := `"` + s + `"`
		if !gjson.Valid(quoted) {
			break
		}
		s = gjson.Parse(quoted).String()
	}
	return s
}

// clean unescapes HTML entities and collapses whitespace.
func clean(s string) string {
	return strings.TrimSpace(reSpaces.ReplaceAllString(html.UnescapeString(s), " "))
}

// rowName returns the text following an id token, cut before any price.
func rowName(text string) string {
	name := clean(text)
	if loc := rePrice.FindStringIndex(name); loc != nil {
		name = strings.TrimSpace(name[:loc[0]])
	}
	return name
}

// firstText returns the first text run of region that is neither a price
// nor skip.
func firstText(region, skip string) string {
	for _, m := range reText.FindAllStringSubmatch(region, -1) {
		text := clean(m[1])
		if text == "" || text == skip {
			continue
		}
		if loc := rePrice.FindStringIndex(text); loc != nil && loc[0] == 0 && loc[1] == len(text) {
			continue
		}
		return text
	}
	return ""
}

func priceToken(region string) string {
	return clean(rePrice.FindString(region))
}

func descriptionAttr(region string) string {
	m := reDesc.FindStringSubmatch(region)
	if len(m) < 2 {
		return ""
	}
	return clean(m[1])
}
