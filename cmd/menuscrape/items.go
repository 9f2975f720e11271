package main

import (
	"encoding/json"
	"fmt"

	"github.com/fwojciec/menuscrape"
)

// Run executes the items command.
func (c *ItemsCmd) Run(deps *Dependencies) error {
	items, err := deps.Menus.FindMenuItems(deps.Ctx, c.MenuID)
	if err != nil {
		if menuscrape.ErrorCode(err) == menuscrape.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: menu %q not found. Use 'menuscrape list' to see stored menus.\n", c.MenuID)
		} else {
			fmt.Fprintf(deps.Stderr, "error: %s\n", menuscrape.ErrorMessage(err))
		}
		return err
	}

	if c.JSON {
		if items == nil {
			items = []*menuscrape.MenuItem{}
		}
		enc := json.NewEncoder(deps.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(items)
	}

	fmt.Fprintf(deps.Stdout, "Items for %s (%d total):\n\n", c.MenuID, len(items))
	for i, item := range items {
		fmt.Fprintf(deps.Stdout, "  %d. %s", i+1, item.Name)
		if item.Price != "" {
			fmt.Fprintf(deps.Stdout, "  %s", item.Price)
		}
		fmt.Fprintf(deps.Stdout, "  [%s]\n", item.ID)
		if item.Description != "" {
			fmt.Fprintf(deps.Stdout, "     %s\n", item.Description)
		}
	}

	return nil
}
