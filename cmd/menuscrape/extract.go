package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fwojciec/menuscrape"
	"github.com/fwojciec/menuscrape/fs"
)

// Run executes the extract command. Items from every file are merged into
// one catalog and printed as a JSON array.
func (c *ExtractCmd) Run(deps *Dependencies) error {
	catalog := menuscrape.NewCatalog()

	for _, path := range c.Files {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %v\n", err)
			return err
		}

		extraction := deps.Extractor.ExtractMenu(string(data))
		if extraction.Empty() {
			fmt.Fprintf(deps.Stderr, "  %s: no menu items found\n", path)
			continue
		}
		for _, item := range extraction.Items {
			catalog.Add(item)
		}
	}

	items := catalog.Items()
	if items == nil {
		items = []*menuscrape.MenuItem{}
	}

	if c.Out != "" {
		store := fs.NewJSONStore(c.Out, c.Name)
		if err := store.WriteMenu(deps.Ctx, &menuscrape.Menu{Items: items}); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %v\n", err)
			return err
		}
		fmt.Fprintf(deps.Stderr, "Wrote %s\n", store.Path())
	}

	enc := json.NewEncoder(deps.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(items)
}
