package goquery_test

import (
	"strings"
	"testing"

	"github.com/fwojciec/menuscrape"
	"github.com/fwojciec/menuscrape/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure StructuredMatcher implements menuscrape.Extractor.
var _ menuscrape.Extractor = (*goquery.StructuredMatcher)(nil)

// collect drains the matcher, separating candidates from fragment errors.
func collect(t *testing.T, content string) ([]menuscrape.Candidate, []error) {
	t.Helper()

	var candidates []menuscrape.Candidate
	var errs []error
	for c, err := range goquery.NewStructuredMatcher().Extract(content) {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		candidates = append(candidates, c)
	}
	return candidates, errs
}

func TestStructuredMatcher_Extract(t *testing.T) {
	t.Parallel()

	t.Run("extracts untyped item with id name and price", func(t *testing.T) {
		t.Parallel()

		content := `<html><body>
<script>window.__STATE__ = {"items":[{"id":"42","name":"Burger","price":"$9.99"}]};</script>
<div>id-99 Napkins</div>
</body></html>`

		candidates, errs := collect(t, content)

		require.Empty(t, errs)
		require.Len(t, candidates, 1)
		item := candidates[0].Item
		assert.Equal(t, "42", item.ID)
		assert.Equal(t, "Burger", item.Name)
		assert.Equal(t, "$9.99", item.Price)
		assert.Empty(t, item.Description)
		assert.Equal(t, menuscrape.StrategyStructured, item.Strategy)
	})

	t.Run("reports the fragment span in the content", func(t *testing.T) {
		t.Parallel()

		fragment := `{"id":"42","name":"Burger","price":"$9.99"}`
		content := `<html><script>var s = [` + fragment + `];</script></html>`

		candidates, _ := collect(t, content)

		require.Len(t, candidates, 1)
		assert.Equal(t, fragment, content[candidates[0].Start:candidates[0].End])
	})

	t.Run("extracts every field of a typed menu page item", func(t *testing.T) {
		t.Parallel()

		content := `<script>{"__typename":"MenuPageItem","id":"1","name":"Orange Chicken",` +
			`"description":"Crispy chicken wok-tossed in a sweet sauce","displayPrice":"$11.40",` +
			`"imageUrl":"https://img.example.com/1.jpg","ratingDisplayString":"94% (1.2k)",` +
			`"badges":[{"text":"Most liked"}]}</script>`

		candidates, errs := collect(t, content)

		require.Empty(t, errs)
		require.Len(t, candidates, 1)
		assert.Equal(t, &menuscrape.MenuItem{
			ID:          "1",
			Name:        "Orange Chicken",
			Price:       "$11.40",
			Description: "Crispy chicken wok-tossed in a sweet sauce",
			ImageURL:    "https://img.example.com/1.jpg",
			Rating:      "94% (1.2k)",
			Strategy:    menuscrape.StrategyStructured,
		}, candidates[0].Item)
	})

	t.Run("keeps typed items without price or description", func(t *testing.T) {
		t.Parallel()

		content := `<script>{"__typename":"MenuPageItem","id":"7","name":"Plastic Utensils","ratingDisplayString":"null"}</script>`

		candidates, errs := collect(t, content)

		require.Empty(t, errs)
		require.Len(t, candidates, 1)
		item := candidates[0].Item
		assert.Equal(t, "Plastic Utensils", item.Name)
		assert.Empty(t, item.Price)
		assert.Empty(t, item.Description)
		assert.Empty(t, item.Rating)
	})

	t.Run("extracts items from escaped JSON inside a string literal", func(t *testing.T) {
		t.Parallel()

		content := `<script>self.__push("{\"__typename\":\"MenuPageItem\",\"id\":\"7\",` +
			`\"name\":\"Plastic Utensils\",\"description\":\"Fork and \\\"spork\\\"\"}")</script>`

		candidates, errs := collect(t, content)

		require.Empty(t, errs)
		require.Len(t, candidates, 1)
		c := candidates[0]
		assert.Equal(t, "7", c.Item.ID)
		assert.Equal(t, "Plastic Utensils", c.Item.Name)
		assert.Equal(t, `Fork and "spork"`, c.Item.Description)
		assert.True(t, strings.HasPrefix(content[c.Start:c.End], `{\"__typename\"`))
		assert.True(t, strings.HasSuffix(content[c.Start:c.End], `}`))
	})

	t.Run("skips malformed fragments and keeps scanning", func(t *testing.T) {
		t.Parallel()

		content := `<script>[{"__typename":"MenuPageItem","id":"5","name":"Broken","displayPrice":},` +
			`{"__typename":"MenuPageItem","id":"6","name":"Fries","displayPrice":"$3.10"}]</script>`

		candidates, errs := collect(t, content)

		require.Len(t, errs, 1)
		assert.Equal(t, menuscrape.EMALFORMED, menuscrape.ErrorCode(errs[0]))
		require.Len(t, candidates, 1)
		assert.Equal(t, "6", candidates[0].Item.ID)
	})

	t.Run("ignores objects typed as something other than an item", func(t *testing.T) {
		t.Parallel()

		content := `<script>{"__typename":"MenuCategory","id":"c1","name":"Popular","description":"Top picks"}</script>`

		candidates, errs := collect(t, content)

		assert.Empty(t, errs)
		assert.Empty(t, candidates)
	})

	t.Run("ignores objects without price or description unless typed", func(t *testing.T) {
		t.Parallel()

		content := `<script>{"store":{"id":"s1","name":"Panda Express"}}</script>`

		candidates, _ := collect(t, content)

		assert.Empty(t, candidates)
	})

	t.Run("drops item-shaped objects without an id", func(t *testing.T) {
		t.Parallel()

		content := `<script>{"__typename":"MenuPageItem","name":"Mystery","displayPrice":"$1.00"}</script>`

		candidates, errs := collect(t, content)

		assert.Empty(t, errs)
		assert.Empty(t, candidates)
	})

	t.Run("extracts schema.org menu items from JSON-LD", func(t *testing.T) {
		t.Parallel()

		content := `<script type="application/ld+json">{"@context":"https://schema.org","@type":"Menu",` +
			`"hasMenuSection":[{"@type":"MenuSection","name":"Starters","hasMenuItem":[` +
			`{"@type":"MenuItem","@id":"#dumplings","name":"Dumplings","description":"Six pieces",` +
			`"offers":{"@type":"Offer","price":"8.50","priceCurrency":"USD"}}]}]}</script>`

		candidates, errs := collect(t, content)

		require.Empty(t, errs)
		require.Len(t, candidates, 1)
		item := candidates[0].Item
		assert.Equal(t, "#dumplings", item.ID)
		assert.Equal(t, "Dumplings", item.Name)
		assert.Equal(t, "$8.50", item.Price)
		assert.Equal(t, "Six pieces", item.Description)
	})

	t.Run("renders numeric ids as text", func(t *testing.T) {
		t.Parallel()

		content := `<script>{"id":123,"name":"Soda","price":"$2.00"}</script>`

		candidates, _ := collect(t, content)

		require.Len(t, candidates, 1)
		assert.Equal(t, "123", candidates[0].Item.ID)
	})

	t.Run("scans content without script elements as a whole", func(t *testing.T) {
		t.Parallel()

		content := `[{"id":"1","name":"Fries","description":"Salted"},{"id":"2","name":"Shake","description":"Vanilla"}]`

		candidates, _ := collect(t, content)

		require.Len(t, candidates, 2)
		assert.Equal(t, "1", candidates[0].Item.ID)
		assert.Equal(t, "2", candidates[1].Item.ID)
		assert.Equal(t, 1, candidates[0].Start)
	})

	t.Run("yields candidates in content order across scripts", func(t *testing.T) {
		t.Parallel()

		content := `<script>{"id":"b","name":"Second","price":"$2"}</script>` +
			`<p>text</p><script>{"id":"a","name":"Third","price":"$3"}</script>`

		candidates, _ := collect(t, content)

		require.Len(t, candidates, 2)
		assert.Equal(t, "b", candidates[0].Item.ID)
		assert.Equal(t, "a", candidates[1].Item.ID)
		assert.Less(t, candidates[0].Start, candidates[1].Start)
	})

	t.Run("returns nothing for content without fragments", func(t *testing.T) {
		t.Parallel()

		candidates, errs := collect(t, `<html><body><p>Closed today</p></body></html>`)

		assert.Empty(t, candidates)
		assert.Empty(t, errs)
	})

	t.Run("stops when the consumer stops", func(t *testing.T) {
		t.Parallel()

		content := `<script>[{"id":"1","name":"A","price":"$1"},{"id":"2","name":"B","price":"$2"}]</script>`

		var seen int
		for range goquery.NewStructuredMatcher().Extract(content) {
			seen++
			break
		}

		assert.Equal(t, 1, seen)
	})
}

func TestStructuredMatcher_WithTypenames(t *testing.T) {
	t.Parallel()

	content := `<script>{"__typename":"StoreItem","id":"9","name":"Kimchi"}</script>`

	var ids []string
	for c, err := range goquery.NewStructuredMatcher(goquery.WithTypenames("StoreItem")).Extract(content) {
		require.NoError(t, err)
		ids = append(ids, c.Item.ID)
	}

	assert.Equal(t, []string{"9"}, ids)
}
