// Package fs exports scraped menus to the local filesystem.
package fs

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/fwojciec/menuscrape"
)

// DefaultName is the export file name used when none is given.
const DefaultName = "menu_items"

// Ensure JSONStore implements menuscrape.MenuWriter at compile time.
var _ menuscrape.MenuWriter = (*JSONStore)(nil)

// JSONStore writes a menu's items as a JSON array to dir/name.json.
// Each write replaces the file atomically, so readers never see a
// partially written export.
type JSONStore struct {
	dir  string
	name string
}

// NewJSONStore creates a new JSONStore. An empty name means DefaultName.
func NewJSONStore(dir, name string) *JSONStore {
	if name == "" {
		name = DefaultName
	}
	return &JSONStore{dir: dir, name: strings.TrimSuffix(name, ".json")}
}

// Path returns the file the store writes to.
func (s *JSONStore) Path() string {
	return filepath.Join(s.dir, s.name+".json")
}

// WriteMenu writes the menu's items, replacing any previous export.
// A menu without items is written as an empty array.
func (s *JSONStore) WriteMenu(ctx context.Context, menu *menuscrape.Menu) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	items := menu.Items
	if items == nil {
		items = []*menuscrape.MenuItem{}
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("encode menu items: %w", err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, s.name+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), s.Path())
}

// NameFromURL derives an export name from a page URL: the last path
// segment, or the host for root URLs.
// Example: https://example.com/store/panda-express-123/ → panda-express-123
func NameFromURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}

	p := strings.Trim(u.Path, "/")
	if p == "" {
		if u.Hostname() == "" {
			return DefaultName, nil
		}
		return strings.ReplaceAll(u.Hostname(), ".", "-"), nil
	}

	return path.Base(p), nil
}
