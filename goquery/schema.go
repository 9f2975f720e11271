package goquery

import "slices"

// Field-name conventions for menu items embedded as JSON.
// Aliases are tried in order; the first non-empty value wins.
var (
	idKeys          = []string{"id", "itemId", "@id", "identifier"}
	nameKeys        = []string{"name", "title"}
	priceKeys       = []string{"displayPrice", "price", "priceString"}
	descriptionKeys = []string{"description", "desc"}
	imageKeys       = []string{"imageUrl", "image"}
	ratingKeys      = []string{"ratingDisplayString"}
)

// Keys whose string value names the schema of the enclosing object.
const (
	typenameKey = "__typename"
	typeKey     = "@type"
)

// DefaultTypenames are the object types treated as menu items.
var DefaultTypenames = []string{"MenuPageItem", "MenuItem"}

// currencySymbols maps ISO 4217 codes to the symbol used in display prices.
var currencySymbols = map[string]string{
	"USD": "$",
	"CAD": "$",
	"AUD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"INR": "₹",
}

type keyClass int

const (
	keyOther keyClass = iota
	keyID
	keyName
	keyDetail
)

// classify reports which part of the item schema a JSON key belongs to.
func classify(key string) keyClass {
	switch {
	case slices.Contains(idKeys, key):
		return keyID
	case slices.Contains(nameKeys, key):
		return keyName
	case slices.Contains(priceKeys, key), slices.Contains(descriptionKeys, key), key == "offers":
		return keyDetail
	}
	return keyOther
}

