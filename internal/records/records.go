// Package records persists scraped product options as per-product YAML files.
package records

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
	"shop-automation/internal/types"
	"shop-automation/utils"
)

const fileName = "shopping.yml"

var keyReplacer = strings.NewReplacer(" ", "_", "/", "_", `\`, "_")

// Key normalizes a product name into its directory name
func Key(name string) string {
	key := keyReplacer.Replace(strings.ToLower(name))
	// "", "." and ".." would resolve outside the product's own directory
	if strings.Trim(key, ".") == "" {
		return strings.Repeat("_", max(len(key), 1))
	}
	return key
}

// Options is the ordered list of product records found for one site
type Options []types.ProductRecord

// MarshalYAML writes options as an opt_1, opt_2, ... mapping in order
func (o Options) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for i, record := range o {
		var value yaml.Node
		if err := value.Encode(record); err != nil {
			return nil, err
		}
		key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: "opt_" + strconv.Itoa(i+1)}
		node.Content = append(node.Content, key, &value)
	}
	return node, nil
}

// UnmarshalYAML reads an opt_N mapping in document order
func (o *Options) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping of options", node.Line)
	}
	var options Options
	for i := 0; i+1 < len(node.Content); i += 2 {
		var record types.ProductRecord
		if err := node.Content[i+1].Decode(&record); err != nil {
			return err
		}
		options = append(options, record)
	}
	*o = options
	return nil
}

// Store keeps product files under a database directory
type Store struct {
	root string
	site string
}

// NewStore returns a store rooted at dir that files records under site
func NewStore(dir, site string) *Store {
	return &Store{root: dir, site: site}
}

// Path returns <root>/<key>/shopping.yml for name
func (s *Store) Path(name string) string {
	return filepath.Join(s.root, Key(name), fileName)
}

// Exists reports whether a product file is already present for name
func (s *Store) Exists(name string) bool {
	return utils.FileExists(s.Path(name))
}

// Save writes the records for name, creating its directory
func (s *Store) Save(name string, products []types.ProductRecord) (string, error) {
	data, err := yaml.Marshal(map[string]Options{s.site: products})
	if err != nil {
		return "", fmt.Errorf("failed to marshal products: %w", err)
	}
	path := s.Path(name)
	if err := utils.WriteFileAtomic(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

// Load reads the records saved for name
func (s *Store) Load(name string) ([]types.ProductRecord, error) {
	data, err := os.ReadFile(s.Path(name))
	if err != nil {
		return nil, err
	}
	var file map[string]Options
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", s.Path(name), err)
	}
	return file[s.site], nil
}
