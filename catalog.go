package menuscrape

// Catalog is an ordered collection of menu items keyed by ID.
// The first item seen for an ID is the base record; later items with the
// same ID only fill in fields the base is missing.
//
// Catalog is not safe for concurrent use.
type Catalog struct {
	order      []string
	items      map[string]*MenuItem
	backfilled int
}

// NewCatalog returns an empty Catalog.
func NewCatalog() *Catalog {
	return &Catalog{items: make(map[string]*MenuItem)}
}

// Add merges item into the catalog and reports whether its ID was new.
// Items without an ID are dropped. The catalog stores a copy of item.
func (c *Catalog) Add(item *MenuItem) bool {
	if item == nil || item.ID == "" {
		return false
	}
	if base, ok := c.items[item.ID]; ok {
		c.backfilled += base.Backfill(item)
		return false
	}
	c.items[item.ID] = item.Clone()
	c.order = append(c.order, item.ID)
	return true
}

// Merge adds every entry of other in other's order, applying the same
// backfill rule as Add. Used to combine the catalogs of several pages.
func (c *Catalog) Merge(other *Catalog) {
	if other == nil {
		return
	}
	for _, id := range other.order {
		c.Add(other.items[id])
	}
}

// Get returns the current record for id, including unnamed records.
func (c *Catalog) Get(id string) (*MenuItem, bool) {
	item, ok := c.items[id]
	if !ok {
		return nil, false
	}
	return item.Clone(), true
}

// Len returns the number of distinct IDs seen, named or not.
func (c *Catalog) Len() int {
	return len(c.order)
}

// Backfilled returns the number of fields filled in from later items.
func (c *Catalog) Backfilled() int {
	return c.backfilled
}

// Items returns copies of the named items in first-seen order.
// IDs that never recovered a name are left out.
func (c *Catalog) Items() []*MenuItem {
	items := make([]*MenuItem, 0, len(c.order))
	for _, id := range c.order {
		item := c.items[id]
		if item.Name == "" {
			continue
		}
		items = append(items, item.Clone())
	}
	return items
}
