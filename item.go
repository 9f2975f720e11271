package menuscrape

// Strategy records which extractor produced a menu item.
// It is not part of an item's identity.
type Strategy string

// Extraction strategies in priority order.
const (
	StrategyStructured Strategy = "structured"
	StrategyFallback   Strategy = "fallback"
)

// MenuItem is a single entry of a restaurant menu.
// An empty string means the field is absent on the page.
type MenuItem struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Price       string   `json:"price,omitempty"`
	Description string   `json:"description,omitempty"`
	ImageURL    string   `json:"image_url,omitempty"`
	Rating      string   `json:"rating,omitempty"`
	Strategy    Strategy `json:"-"`
}

// Complete reports whether the item has both an ID and a name.
func (m *MenuItem) Complete() bool {
	return m.ID != "" && m.Name != ""
}

// Partial reports whether a complete item is still missing its price or
// description. Partial items are worth a scoped fallback search.
func (m *MenuItem) Partial() bool {
	return m.Complete() && (m.Price == "" || m.Description == "")
}

// Validate returns an error if the item cannot be emitted.
func (m *MenuItem) Validate() error {
	if m.ID == "" {
		return Errorf(EINVALID, "menu item ID required")
	}
	if m.Name == "" {
		return Errorf(EINVALID, "menu item %q name required", m.ID)
	}
	return nil
}

// Backfill copies every non-empty field of other into the fields of m
// that are still empty. Populated fields are never overwritten and the
// strategy of m is kept.
func (m *MenuItem) Backfill(other *MenuItem) (filled int) {
	if other == nil {
		return 0
	}
	fill := func(dst *string, src string) {
		if *dst == "" && src != "" {
			*dst = src
			filled++
		}
	}
	fill(&m.Name, other.Name)
	fill(&m.Price, other.Price)
	fill(&m.Description, other.Description)
	fill(&m.ImageURL, other.ImageURL)
	fill(&m.Rating, other.Rating)
	return filled
}

// Clone returns a copy of the item.
func (m *MenuItem) Clone() *MenuItem {
	c := *m
	return &c
}
