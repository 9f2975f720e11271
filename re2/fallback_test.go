package re2_test

import (
	"strings"
	"testing"

	"github.com/fwojciec/menuscrape"
	"github.com/fwojciec/menuscrape/re2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func items(t *testing.T, e *re2.PatternExtractor, content string) []*menuscrape.MenuItem {
	t.Helper()

	var out []*menuscrape.MenuItem
	for c, err := range e.Extract(content) {
		require.NoError(t, err)
		out = append(out, c.Item)
	}
	return out
}

func TestPatternExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("recovers id token row without price", func(t *testing.T) {
		t.Parallel()

		got := items(t, re2.NewPatternExtractor(), `<html><body><div>id-99 Napkins</div></body></html>`)

		require.Len(t, got, 1)
		assert.Equal(t, "99", got[0].ID)
		assert.Equal(t, "Napkins", got[0].Name)
		assert.Empty(t, got[0].Price)
		assert.Empty(t, got[0].Description)
		assert.Equal(t, menuscrape.StrategyFallback, got[0].Strategy)
	})

	t.Run("cuts row name before the price", func(t *testing.T) {
		t.Parallel()

		got := items(t, re2.NewPatternExtractor(), `<ul><li>id-42 Burger $9.99</li></ul>`)

		require.Len(t, got, 1)
		assert.Equal(t, "42", got[0].ID)
		assert.Equal(t, "Burger", got[0].Name)
		assert.Equal(t, "$9.99", got[0].Price)
	})

	t.Run("bounds a row by its element", func(t *testing.T) {
		t.Parallel()

		got := items(t, re2.NewPatternExtractor(), `<div>id-99 Napkins</div><div>Total $12.00</div>`)

		require.Len(t, got, 1)
		assert.Equal(t, "Napkins", got[0].Name)
		assert.Empty(t, got[0].Price)
	})

	t.Run("keeps row spans inside content with multibyte and invalid text", func(t *testing.T) {
		t.Parallel()

		// Given a row whose text changes byte length when case folded
		for _, tail := range []string{strings.Repeat("Ⱥ", 20), "\xff\xfe caf\xe9", "ÜBER " + strings.Repeat("\xff", 8)} {
			content := `<div>id-99 Napkins ` + tail + `</div><div>Total $12.00</div>`

			// When extracting
			var got []menuscrape.Candidate
			require.NotPanics(t, func() {
				for c, err := range re2.NewPatternExtractor().Extract(content) {
					require.NoError(t, err)
					got = append(got, c)
				}
			})

			// Then the row is recovered and bounded by its own element
			require.Len(t, got, 1)
			assert.Equal(t, "99", got[0].Item.ID)
			assert.True(t, strings.HasPrefix(got[0].Item.Name, "Napkins"))
			assert.Empty(t, got[0].Item.Price)
			assert.Equal(t, strings.Index(content, "</div>")+len("</div>"), got[0].End)
		}
	})

	t.Run("matches closing tags regardless of case", func(t *testing.T) {
		t.Parallel()

		got := items(t, re2.NewPatternExtractor(), `<DIV>id-99 Napkins</Div><DIV>Total $12.00</DIV>`)

		require.Len(t, got, 1)
		assert.Equal(t, "Napkins", got[0].Name)
		assert.Empty(t, got[0].Price)
	})

	t.Run("recovers attribute row with description and price", func(t *testing.T) {
		t.Parallel()

		content := `<div data-item-id="55" class="row"><h3>Soup</h3>` +
			`<p class="item-description">Hot &amp; sour</p><span>$4.50</span></div>`

		got := items(t, re2.NewPatternExtractor(), content)

		require.Len(t, got, 1)
		assert.Equal(t, "55", got[0].ID)
		assert.Equal(t, "Soup", got[0].Name)
		assert.Equal(t, "$4.50", got[0].Price)
		assert.Equal(t, "Hot & sour", got[0].Description)
	})

	t.Run("recovers typed record key by key", func(t *testing.T) {
		t.Parallel()

		// Trailing comma makes the object invalid JSON.
		content := `<script>{"items":[{"__typename":"MenuPageItem","id":"7","name":"Mac & Cheese",` +
			`"displayPrice":"$3.49","description":"Baked","imageUrl":"https://img.test/7.jpg",` +
			`"ratingDisplayString":"null",}]}</script>`

		got := items(t, re2.NewPatternExtractor(), content)

		require.Len(t, got, 1)
		assert.Equal(t, "7", got[0].ID)
		assert.Equal(t, "Mac & Cheese", got[0].Name)
		assert.Equal(t, "$3.49", got[0].Price)
		assert.Equal(t, "Baked", got[0].Description)
		assert.Equal(t, "https://img.test/7.jpg", got[0].ImageURL)
		assert.Empty(t, got[0].Rating)
	})

	t.Run("keeps members serialized before the type marker", func(t *testing.T) {
		t.Parallel()

		content := `[{"id":"3","name":"Cola","__typename":"MenuPageItem","displayPrice":"$1.00"}]`

		got := items(t, re2.NewPatternExtractor(), content)

		require.Len(t, got, 1)
		assert.Equal(t, "3", got[0].ID)
		assert.Equal(t, "Cola", got[0].Name)
		assert.Equal(t, "$1.00", got[0].Price)
	})

	t.Run("recovers escaped typed record", func(t *testing.T) {
		t.Parallel()

		content := `<script>self.push("{\"__typename\":\"MenuPageItem\",\"id\":\"8\",` +
			`\"name\":\"Tea \\u0026 Cake\",\"displayPrice\":\"$2.00\"}")</script>`

		got := items(t, re2.NewPatternExtractor(), content)

		require.Len(t, got, 1)
		assert.Equal(t, "8", got[0].ID)
		assert.Equal(t, "Tea & Cake", got[0].Name)
		assert.Equal(t, "$2.00", got[0].Price)
	})

	t.Run("does not borrow fields from the next record", func(t *testing.T) {
		t.Parallel()

		content := `[{"__typename":"MenuPageItem","id":"1","name":"A"},` +
			`{"__typename":"MenuPageItem","id":"2","name":"B","displayPrice":"$2.00"}]`

		got := items(t, re2.NewPatternExtractor(), content)

		require.Len(t, got, 2)
		assert.Equal(t, "1", got[0].ID)
		assert.Empty(t, got[0].Price)
		assert.Equal(t, "2", got[1].ID)
		assert.Equal(t, "$2.00", got[1].Price)
	})

	t.Run("never synthesizes ids", func(t *testing.T) {
		t.Parallel()

		content := `<div class="row"><h3>Salad</h3><span>$5.00</span></div>` +
			`<script>{"__typename":"MenuPageItem","name":"Ghost"}</script>`

		got := items(t, re2.NewPatternExtractor(), content)

		assert.Empty(t, got)
	})

	t.Run("yields records in content order", func(t *testing.T) {
		t.Parallel()

		content := `<div>id-10 First</div>` +
			`<script>{"__typename":"MenuPageItem","id":"20","name":"Second"}</script>` +
			`<div data-item-id="30"><b>Third</b></div>`

		got := items(t, re2.NewPatternExtractor(), content)

		require.Len(t, got, 3)
		assert.Equal(t, "10", got[0].ID)
		assert.Equal(t, "20", got[1].ID)
		assert.Equal(t, "30", got[2].ID)
		assert.Equal(t, "Third", got[2].Name)
	})

	t.Run("reports record spans", func(t *testing.T) {
		t.Parallel()

		row := `<div>id-99 Napkins</div>`
		content := `<p>intro</p>` + row

		var got []menuscrape.Candidate
		for c, err := range re2.NewPatternExtractor().Extract(content) {
			require.NoError(t, err)
			got = append(got, c)
		}

		require.Len(t, got, 1)
		assert.Equal(t, row, content[got[0].Start:got[0].End])
	})

	t.Run("stops when consumer breaks", func(t *testing.T) {
		t.Parallel()

		content := strings.Repeat(`<div>id-1 Item</div>`, 5)

		n := 0
		for range re2.NewPatternExtractor().Extract(content) {
			n++
			break
		}

		assert.Equal(t, 1, n)
	})

	t.Run("empty content yields nothing", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, items(t, re2.NewPatternExtractor(), ""))
	})
}

func TestPatternExtractor_WithTypenames(t *testing.T) {
	t.Parallel()

	content := `{"__typename":"StoreItem","id":"5","name":"Cola"}`

	assert.Empty(t, items(t, re2.NewPatternExtractor(), content))

	got := items(t, re2.NewPatternExtractor(re2.WithTypenames("StoreItem")), content)
	require.Len(t, got, 1)
	assert.Equal(t, "5", got[0].ID)
}

func TestPatternExtractor_ExtractNear(t *testing.T) {
	t.Parallel()

	t.Run("finds price in the rendered row of the same item", func(t *testing.T) {
		t.Parallel()

		// Given a structured fragment without a price
		fragment := `{"__typename":"MenuPageItem","id":"42","name":"Burger"}`
		content := `<script>` + fragment + `</script>` +
			`<div data-item-id="42"><span class="price">$9.99</span></div>`
		start := strings.Index(content, fragment)
		anchor := menuscrape.Anchor{ID: "42", Start: start, End: start + len(fragment)}

		// When searching near it
		c, ok := re2.NewPatternExtractor().ExtractNear(content, anchor)

		// Then the row's price is recovered
		require.True(t, ok)
		assert.Equal(t, "42", c.Item.ID)
		assert.Equal(t, "$9.99", c.Item.Price)
		assert.Empty(t, c.Item.Name)
		assert.Equal(t, menuscrape.StrategyFallback, c.Item.Strategy)
	})

	t.Run("searches windows around other mentions", func(t *testing.T) {
		t.Parallel()

		fragment := `{"__typename":"MenuPageItem","id":"42","name":"Burger"}`
		content := `<script>` + fragment + `</script>` +
			`<section><h4>Item 42</h4><p class="description">Juicy</p><b>$9.99</b></section>`
		start := strings.Index(content, fragment)
		anchor := menuscrape.Anchor{ID: "42", Start: start, End: start + len(fragment)}

		c, ok := re2.NewPatternExtractor().ExtractNear(content, anchor)

		require.True(t, ok)
		assert.Equal(t, "$9.99", c.Item.Price)
		assert.Equal(t, "Juicy", c.Item.Description)
	})

	t.Run("ignores mentions inside longer tokens", func(t *testing.T) {
		t.Parallel()

		fragment := `{"__typename":"MenuPageItem","id":"42","name":"Burger"}`
		content := `<script>` + fragment + `</script><div data-item-id="420"><b>$1.00</b></div>`
		start := strings.Index(content, fragment)
		anchor := menuscrape.Anchor{ID: "42", Start: start, End: start + len(fragment)}

		_, ok := re2.NewPatternExtractor().ExtractNear(content, anchor)

		assert.False(t, ok)
	})

	t.Run("absent optional fields are not an error", func(t *testing.T) {
		t.Parallel()

		fragment := `{"__typename":"MenuPageItem","id":"77","name":"Plastic Utensils","ratingDisplayString":"null"}`
		content := `<script>` + fragment + `</script>`
		anchor := menuscrape.Anchor{ID: "77", Start: len(`<script>`), End: len(`<script>`) + len(fragment)}

		_, ok := re2.NewPatternExtractor().ExtractNear(content, anchor)

		assert.False(t, ok)
	})

	t.Run("ignores mentions inside another item's record", func(t *testing.T) {
		t.Parallel()

		// Given an item mentioned from within a different item's record
		fragment := `{"__typename":"MenuPageItem","id":"7","name":"Plastic Utensils"}`
		content := `[` + fragment + `,{"__typename":"MenuPageItem","id":"42","name":"Burger","pairsWith":["7"],"displayPrice":"$9.99","description":"Beef patty"}]`
		anchor := menuscrape.Anchor{ID: "7", Start: 1, End: 1 + len(fragment)}

		// When searching near it
		_, ok := re2.NewPatternExtractor().ExtractNear(content, anchor)

		// Then nothing is borrowed from the other record
		assert.False(t, ok)
	})

	t.Run("ignores mentions inside another item's row", func(t *testing.T) {
		t.Parallel()

		fragment := `{"__typename":"MenuPageItem","id":"7","name":"Plastic Utensils"}`
		content := `<script>` + fragment + `</script>` +
			`<div data-item-id="42"><p>Goes with 7</p><span class="price">$9.99</span></div>`
		anchor := menuscrape.Anchor{ID: "7", Start: len(`<script>`), End: len(`<script>`) + len(fragment)}

		_, ok := re2.NewPatternExtractor().ExtractNear(content, anchor)

		assert.False(t, ok)
	})

	t.Run("uses another serialized copy of the same item", func(t *testing.T) {
		t.Parallel()

		fragment := `{"__typename":"MenuPageItem","id":"7","name":"Plastic Utensils"}`
		content := `[` + fragment + `,{"__typename":"MenuPageItem","id":"42","name":"Burger"}]` +
			`<script>{"__typename":"MenuPageItem","id":"7","displayPrice":"$0.50"}</script>`
		anchor := menuscrape.Anchor{ID: "7", Start: 1, End: 1 + len(fragment)}

		c, ok := re2.NewPatternExtractor().ExtractNear(content, anchor)

		require.True(t, ok)
		assert.Equal(t, "$0.50", c.Item.Price)
		assert.Empty(t, c.Item.Description)
	})

	t.Run("empty id finds nothing", func(t *testing.T) {
		t.Parallel()

		_, ok := re2.NewPatternExtractor().ExtractNear(`<div>$1.00</div>`, menuscrape.Anchor{})

		assert.False(t, ok)
	})
}
