// Package htmltomarkdown normalizes menu descriptions that embed markup
// into Markdown text.
package htmltomarkdown

import (
	"fmt"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/fwojciec/menuscrape"
)

// Ensure Converter implements menuscrape.Converter at compile time.
var _ menuscrape.Converter = (*Converter)(nil)

// Converter renders description markup as CommonMark. Descriptions carry
// inline emphasis, line breaks and the odd ingredient list, never tables.
type Converter struct {
	md *converter.Converter
}

// NewConverter creates a new Converter.
func NewConverter() *Converter {
	return &Converter{
		md: converter.NewConverter(converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
		)),
	}
}

// Convert transforms an HTML fragment into trimmed Markdown.
func (c *Converter) Convert(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", menuscrape.Errorf(menuscrape.EINVALID, "empty HTML input")
	}

	md, err := c.md.ConvertString(html)
	if err != nil {
		return "", fmt.Errorf("convert description: %w", err)
	}
	return strings.TrimSpace(md), nil
}
