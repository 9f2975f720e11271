package re2

import (
	"regexp"
	"strings"

	"github.com/wasilibs/go-re2"
)

// Row patterns capture the tag of the element that opens the row, so the
// row can be bounded by the element's closing tag.
var (
	reRowText = re2.MustCompile(`<([a-zA-Z][a-zA-Z0-9]*)\b[^>]*>\s*(?i:id)[-_:]([A-Za-z0-9][A-Za-z0-9_-]*)(?:\s+|\s*(?:<[^>]*>\s*)+)([^<]+)`)
	reRowAttr = re2.MustCompile(`<([a-zA-Z][a-zA-Z0-9]*)\b[^>]*?\bdata-(?:item-id|product-id|id)\s*=\s*"([^"]+)"`)
	rePrice   = re2.MustCompile(`(?:[A-Z]{1,2})?[$€£¥₹]\s?\d+(?:[.,]\d+)*|\d+(?:[.,]\d+)*\s?(?:USD|EUR|GBP|CZK|Kč|€)`)
	reDesc    = re2.MustCompile(`<[a-zA-Z][a-zA-Z0-9]*\s[^>]*?(?:class|data-testid|itemprop)\s*=\s*"[^"]*[Dd]escription[^"]*"[^>]*>([^<]+)<`)
	reText    = re2.MustCompile(`>([^<]+)<`)
	reSpaces  = re2.MustCompile(`\s+`)
)

// Every serialized-member pattern tolerates one level of backslash
// escaping, so the same expressions match state held inside JavaScript
// string literals.
var (
	reID          = jsonField(`[^"\\]+`, "id", "itemId")
	reName        = jsonField(`[^"]*?`, "name", "title")
	rePriceField  = jsonField(`[^"]*?`, "displayPrice", "price", "priceString")
	reDescription = jsonField(`[^"]*?`, "description", "desc")
	reImage       = jsonField(`[^"]*?`, "imageUrl", "image")
	reRating      = jsonField(`[^"]*?`, "ratingDisplayString")
)

// DefaultTypenames are the object types whose serialized members are
// recovered key by key.
var DefaultTypenames = []string{"MenuPageItem", "MenuItem"}

// typedPattern matches the type marker that opens a serialized item.
func typedPattern(typenames []string) *re2.Regexp {
	quoted := make([]string, len(typenames))
	for i, n := range typenames {
		quoted[i] = regexp.QuoteMeta(n)
	}
	return re2.MustCompile(`\\?"(?:__typename|@type)\\?"\s*:\s*\\?"(?:` + strings.Join(quoted, "|") + `)\\?"`)
}

// jsonField matches a string member whose key is one of keys and whose
// value matches value. The value is the first submatch.
func jsonField(value string, keys ...string) *re2.Regexp {
	return re2.MustCompile(`\\?"(?:` + strings.Join(keys, "|") + `)\\?"\s*:\s*\\?"(` + value + `)\\?"`)
}

// elementEnd returns the offset just past the closing tag of the element
// with the given tag that opens at content[start], searching no further
// than limit. Nested elements with the same tag are skipped. It returns
// -1 when the element is not closed before limit. Tags are matched on the
// original bytes so offsets stay valid for any input.
func elementEnd(content string, start, limit int, tag string) int {
	limit = min(limit, len(content))
	if start < 0 || start >= limit {
		return -1
	}
	region := content[start:limit]
	open, closing := "<"+tag, "</"+tag

	depth := 0
	for i := 0; i < len(region); i++ {
		j := strings.IndexByte(region[i:], '<')
		if j < 0 {
			break
		}
		i += j
		switch {
		case hasPrefixFold(region, i, closing) && tagBoundary(region, i+len(closing)):
			depth--
			if depth == 0 {
				if k := strings.IndexByte(region[i:], '>'); k >= 0 {
					return start + i + k + 1
				}
				return limit
			}
		case hasPrefixFold(region, i, open) && tagBoundary(region, i+len(open)):
			depth++
		}
	}
	return -1
}

// hasPrefixFold reports whether s[i:] begins with prefix, ignoring case.
func hasPrefixFold(s string, i int, prefix string) bool {
	return i+len(prefix) <= len(s) && strings.EqualFold(s[i:i+len(prefix)], prefix)
}

func tagBoundary(s string, i int) bool {
	if i >= len(s) {
		return true
	}
	c := s[i] | 0x20
	return !(c >= 'a' && c <= 'z' || s[i] >= '0' && s[i] <= '9' || s[i] == '-')
}
