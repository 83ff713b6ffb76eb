package shopper

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
	"shop-automation/internal/types"
)

// ErrInvalidList means the shopping list document could not be used
var ErrInvalidList = errors.New("invalid shopping list")

type listFile struct {
	Items *[]listEntry `yaml:"items"`
}

type listEntry struct {
	Name       string  `yaml:"name"`
	Amount     string  `yaml:"amount"`
	Link       *string `yaml:"link"`
	BackupLink string  `yaml:"backup_link"`
	hasLink    bool
}

func (e *listEntry) UnmarshalYAML(node *yaml.Node) error {
	type plain listEntry
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*e = listEntry(p)
	if node.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(node.Content); i += 2 {
			if node.Content[i].Value == "link" {
				e.hasLink = true
			}
		}
	}
	return nil
}

// ParseList reads a YAML (or JSON) shopping list. Every item needs a name and
// a link key; the link itself may be empty.
func ParseList(r io.Reader) ([]types.ShoppingListItem, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read shopping list: %w", err)
	}

	var file listFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidList, err)
	}

	if file.Items == nil {
		return nil, fmt.Errorf("%w: missing items key", ErrInvalidList)
	}

	items := make([]types.ShoppingListItem, 0, len(*file.Items))
	for i, entry := range *file.Items {
		if entry.Name == "" {
			return nil, fmt.Errorf("%w: item %d has no name", ErrInvalidList, i+1)
		}
		if !entry.hasLink {
			return nil, fmt.Errorf("%w: item %q has no link key", ErrInvalidList, entry.Name)
		}
		item := types.ShoppingListItem{
			Name:       entry.Name,
			Amount:     entry.Amount,
			BackupLink: entry.BackupLink,
		}
		if entry.Link != nil {
			item.PrimaryLink = *entry.Link
		}
		items = append(items, item)
	}
	return items, nil
}
