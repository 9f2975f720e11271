package goquery

import (
	"sort"
	"strings"
)

// fragment is a JSON object located inside a larger text.
// End is exclusive.
type fragment struct {
	start int
	end   int
}

// frame tracks an object whose closing brace has not been seen yet.
type frame struct {
	start   int
	marked  bool // typed as a menu item
	foreign bool // typed as something else
	id      bool
	name    bool
	detail  bool
}

func (f frame) item() bool {
	if f.marked {
		return true
	}
	return !f.foreign && f.id && f.name && f.detail
}

// scanFragments returns the objects in text that look like menu items:
// objects typed with one of typenames, or untyped objects carrying an id,
// a name and a price or description. Brace matching honours string
// literals, so nested objects never cut a fragment short. Fragments are
// returned in order of their opening brace.
func scanFragments(text string, typenames map[string]bool) []fragment {
	var stack []frame
	var out []fragment

scan:
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '"':
			end := skipString(text, i)
			if end < 0 {
				break scan
			}
			if len(stack) > 0 {
				if vend, ok := markKey(text, i, end, &stack[len(stack)-1], typenames); ok {
					end = vend
				}
			}
			i = end
		case '{':
			stack = append(stack, frame{start: i})
		case '}':
			if len(stack) == 0 {
				continue
			}
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if top.item() {
				out = append(out, fragment{start: top.start, end: i + 1})
			}
		}
	}

	sort.SliceStable(out, func(a, b int) bool { return out[a].start < out[b].start })
	return out
}

// markKey records the string at text[start:end+1] on f when it is an object
// key. For type keys the value is consumed too and its end returned.
func markKey(text string, start, end int, f *frame, typenames map[string]bool) (int, bool) {
	colon := skipSpace(text, end+1)
	if colon >= len(text) || text[colon] != ':' {
		return 0, false
	}
	key := text[start+1 : end]

	switch classify(key) {
	case keyID:
		f.id = true
	case keyName:
		f.name = true
	case keyDetail:
		f.detail = true
	}

	if key != typenameKey && key != typeKey {
		return 0, false
	}
	vstart := skipSpace(text, colon+1)
	if vstart >= len(text) || text[vstart] != '"' {
		return 0, false
	}
	vend := skipString(text, vstart)
	if vend < 0 {
		return 0, false
	}
	if typenames[text[vstart+1:vend]] {
		f.marked = true
	} else {
		f.foreign = true
	}
	return vend, true
}

// skipString returns the index of the quote closing the string literal
// that opens at text[i], or -1 if the literal is unterminated.
func skipString(text string, i int) int {
	for j := i + 1; j < len(text); j++ {
		switch text[j] {
		case '\\':
			j++
		case '"':
			return j
		}
	}
	return -1
}

func skipSpace(text string, i int) int {
	for i < len(text) {
		switch text[i] {
		case ' ', '\t', '\n', '\r':
			i++
		default:
			return i
		}
	}
	return i
}

// escapedMarker reports whether text holds a type key inside a
// backslash-escaped JSON string, as emitted by streamed page state.
func escapedMarker(text string) bool {
	return strings.Contains(text, `\"`+typenameKey+`\"`) ||
		strings.Contains(text, `\"`+typeKey+`\"`) ||
		strings.Contains(text, `\"id\"`)
}

// unescapeQuotes undoes one level of backslash escaping so JSON embedded
// in a JavaScript string literal can be scanned. Bare quotes delimit the
// enclosing JavaScript strings and are replaced with apostrophes so they
// cannot pair with the unescaped JSON quotes. pos maps every byte of the
// result to its offset in s.
func unescapeQuotes(s string) (string, []int) {
	var b strings.Builder
	b.Grow(len(s))
	pos := make([]int, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\\' && i+1 < len(s) && (s[i+1] == '"' || s[i+1] == '\\' || s[i+1] == '/'):
			b.WriteByte(s[i+1])
			pos = append(pos, i)
			i++
			continue
		case c == '"':
			c = '\''
		}
		b.WriteByte(c)
		pos = append(pos, i)
	}
	return b.String(), pos
}
