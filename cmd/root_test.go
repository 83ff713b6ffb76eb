package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"shop-automation/internal/types"
)

func TestRootCmd_Subcommands(t *testing.T) {
	root := newRootCmd()

	var names []string
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	assert.ElementsMatch(t, []string{"scrape", "login", "shop"}, names)
}

func TestScrapeCmd_RequiresNames(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	root := newRootCmd()
	root.SetArgs([]string{"scrape", "--db-path", t.TempDir()})
	root.SetIn(strings.NewReader("\n   \n"))
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})

	err := root.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no products provided")
}

func TestShopCmd_RequiresListArgument(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"shop"})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})

	assert.Error(t, root.Execute())
}

func TestReadList(t *testing.T) {
	list := "items:\n  - name: Milk\n    link: /product/milk\n"

	fromStdin, err := readList(strings.NewReader(list), "-")
	require.NoError(t, err)
	assert.Equal(t, []types.ShoppingListItem{{Name: "Milk", PrimaryLink: "/product/milk"}}, fromStdin)

	path := filepath.Join(t.TempDir(), "list.yml")
	require.NoError(t, os.WriteFile(path, []byte(list), 0o644))
	fromFile, err := readList(strings.NewReader(""), path)
	require.NoError(t, err)
	assert.Equal(t, fromStdin, fromFile)

	_, err = readList(strings.NewReader(""), filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}
