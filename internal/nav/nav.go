package nav

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"hrmportal/internal/perm"
)

// Item is one navigation menu entry. An absent Require list means the
// entry is visible to every authenticated user.
type Item struct {
	Path    string   `yaml:"path" json:"path"`
	Label   string   `yaml:"label" json:"label"`
	Icon    string   `yaml:"icon,omitempty" json:"icon,omitempty"`
	Require []string `yaml:"require,omitempty" json:"require,omitempty"`
}

// Menu is the static ordered navigation declaration, loaded from the
// manifest at startup. Order in the manifest is presentation order.
type Menu struct {
	Items []Item `yaml:"items"`
}

func Load(path string) (Menu, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Menu{}, fmt.Errorf("read nav manifest: %w", err)
	}
	return Parse(raw)
}

func Parse(raw []byte) (Menu, error) {
	var menu Menu
	if err := yaml.Unmarshal(raw, &menu); err != nil {
		return Menu{}, fmt.Errorf("parse nav manifest: %w", err)
	}
	if err := menu.validate(); err != nil {
		return Menu{}, err
	}
	return menu, nil
}

func (m Menu) validate() error {
	if len(m.Items) == 0 {
		return fmt.Errorf("nav manifest declares no items")
	}
	seen := map[string]struct{}{}
	for i, item := range m.Items {
		if item.Path == "" || !strings.HasPrefix(item.Path, "/") {
			return fmt.Errorf("nav item %d: path %q must start with /", i, item.Path)
		}
		if item.Label == "" {
			return fmt.Errorf("nav item %d (%s): label is required", i, item.Path)
		}
		if _, dup := seen[item.Path]; dup {
			return fmt.Errorf("nav item %d: duplicate path %s", i, item.Path)
		}
		seen[item.Path] = struct{}{}
		for _, req := range item.Require {
			if strings.TrimSpace(req) == "" {
				return fmt.Errorf("nav item %s: empty permission in require list", item.Path)
			}
		}
	}
	return nil
}

// Filter returns the ordered subsequence of the menu visible to a user
// with the given raw permissions: entries whose Require list is absent
// or satisfied by at least one held permission. The filter is stable;
// manifest order is preserved.
func (m Menu) Filter(userRaw []perm.RawEntry) []Item {
	visible := make([]Item, 0, len(m.Items))
	for _, item := range m.Items {
		if perm.HasAny(userRaw, item.Require) {
			visible = append(visible, item)
		}
	}
	return visible
}

// Requirements returns the permission requirement declared for a path,
// so the server can guard page routes from the same manifest that
// drives menu visibility. The second result is false for paths the
// manifest does not know.
func (m Menu) Requirements(path string) ([]string, bool) {
	for _, item := range m.Items {
		if item.Path == path {
			return item.Require, true
		}
	}
	return nil, false
}
