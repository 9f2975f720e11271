package main

import (
	"fmt"

	"github.com/fwojciec/menuscrape"
)

// Run executes the delete command.
func (c *DeleteCmd) Run(deps *Dependencies) error {
	if !c.Force {
		fmt.Fprintf(deps.Stderr, "error: use --force to confirm deletion\n")
		return menuscrape.Errorf(menuscrape.EINVALID, "use --force to confirm deletion")
	}

	if err := deps.Menus.DeleteMenu(deps.Ctx, c.MenuID); err != nil {
		if menuscrape.ErrorCode(err) == menuscrape.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: menu %q not found. Use 'menuscrape list' to see stored menus.\n", c.MenuID)
		} else {
			fmt.Fprintf(deps.Stderr, "error: %s\n", menuscrape.ErrorMessage(err))
		}
		return err
	}

	fmt.Fprintf(deps.Stdout, "Deleted menu %s\n", c.MenuID)
	return nil
}
