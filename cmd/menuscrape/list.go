package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/menuscrape"
)

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	filter := menuscrape.MenuFilter{Limit: c.Limit}
	if c.URL != "" {
		filter.URL = &c.URL
	}

	menus, err := deps.Menus.FindMenus(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", menuscrape.ErrorMessage(err))
		return err
	}

	if len(menus) == 0 {
		fmt.Fprintln(deps.Stdout, "No menus found. Use 'menuscrape scrape' to add one.")
		return nil
	}

	for _, m := range menus {
		fmt.Fprintf(deps.Stdout, "%s  %s  %d items  %s\n",
			m.ID, m.URL, m.ItemCount, m.ScrapedAt.Local().Format(time.DateTime))
	}

	return nil
}
