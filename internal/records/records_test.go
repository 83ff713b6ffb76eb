package records

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
	"shop-automation/internal/types"
)

func TestKey(t *testing.T) {
	tests := []struct {
		name     string
		expected string
	}{
		{"Whole Milk", "whole_milk"},
		{"Salt/Vinegar Crisps", "salt_vinegar_crisps"},
		{`Tea\Coffee`, "tea_coffee"},
		{"bread", "bread"},
		{"..", "__"},
		{".", "_"},
		{"", "_"},
		{"v1.5 cola", "v1.5_cola"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Key(tt.name))
		})
	}
}

func TestStore_SaveLayout(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir, "supervalu")
	quantity := "1 L"

	path, err := store.Save("Whole Milk", []types.ProductRecord{
		{Name: "SuperValu Fresh Milk", URL: "https://shop.supervalu.ie/product/milk-1", Price: "€1.29", PricePerUnit: "€1.29 per l", Quantity: &quantity},
		{Name: "Avonmore Milk", URL: "https://shop.supervalu.ie/product/milk-2", Price: "€1.99", PricePerUnit: "€1.99"},
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "whole_milk", "shopping.yml"), path)
	assert.True(t, store.Exists("Whole Milk"))
	assert.True(t, store.Exists("WHOLE MILK"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc map[string]yaml.Node
	require.NoError(t, yaml.Unmarshal(data, &doc))
	site, ok := doc["supervalu"]
	require.True(t, ok)
	require.Len(t, site.Content, 4)
	assert.Equal(t, "opt_1", site.Content[0].Value)
	assert.Equal(t, "opt_2", site.Content[2].Value)
	assert.Contains(t, string(data), "quantity: 1 L")
	assert.Equal(t, 1, strings.Count(string(data), "quantity:"))
}

func TestStore_Load(t *testing.T) {
	store := NewStore(t.TempDir(), "supervalu")
	_, err := store.Save("eggs", []types.ProductRecord{{Name: "Free Range Eggs", Price: "€3.49", PricePerUnit: "€3.49"}})
	require.NoError(t, err)

	products, err := store.Load("eggs")

	require.NoError(t, err)
	want := []types.ProductRecord{{Name: "Free Range Eggs", Price: "€3.49", PricePerUnit: "€3.49"}}
	if diff := cmp.Diff(want, products); diff != "" {
		t.Errorf("Loaded records mismatch (-want +got):\n%s", diff)
	}
}

func TestStore_PathStaysInsideRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "db")
	store := NewStore(root, "supervalu")

	for _, name := range []string{"..", ".", "../..", `..\..`} {
		path := store.Path(name)
		rel, err := filepath.Rel(root, path)
		require.NoError(t, err)
		assert.False(t, strings.HasPrefix(rel, ".."), "%q resolved to %s", name, path)
		assert.Equal(t, 2, len(strings.Split(rel, string(filepath.Separator))), "%q resolved to %s", name, path)
	}
}

func TestStore_ExistsMissing(t *testing.T) {
	store := NewStore(t.TempDir(), "supervalu")

	assert.False(t, store.Exists("butter"))
	_, err := store.Load("butter")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestOptions_UnmarshalRejectsSequence(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir, "supervalu")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "jam"), 0o755))
	require.NoError(t, os.WriteFile(store.Path("jam"), []byte("supervalu:\n  - name: Jam\n"), 0o644))

	_, err := store.Load("jam")

	assert.Error(t, err)
}
