package mock

import "github.com/fwojciec/menuscrape"

var _ menuscrape.Converter = (*Converter)(nil)

// Converter is a mock implementation of menuscrape.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
