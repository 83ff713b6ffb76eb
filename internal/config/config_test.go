package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"shop-automation/utils"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	v, err := New("")
	require.NoError(t, err)

	config, err := Load(v)

	require.NoError(t, err)
	assert.Equal(t, "https://shop.supervalu.ie", config.BaseURL)
	assert.True(t, config.Headless)
	assert.Equal(t, 3, config.MaxResults)
	assert.Equal(t, 3*time.Second, config.SettleDelay)
	assert.Equal(t, 10*time.Second, config.ProductWait)
	assert.Equal(t, "../config/db", config.DBPath)

	dataDir, err := utils.DataLocalDir()
	require.NoError(t, err)
	assert.Equal(t, dataDir, config.DataDir)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SHOP_DB_PATH", "~/groceries/db")
	t.Setenv("SHOP_VISIBLE", "true")
	t.Setenv("SHOP_DELAYS_ITEM", "250ms")
	t.Setenv("SHOP_BASE_URL", "http://localhost:8080/")
	v, err := New("")
	require.NoError(t, err)

	config, err := Load(v)

	require.NoError(t, err)
	home, err := homedir.Dir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "groceries", "db"), config.DBPath)
	assert.False(t, config.Headless)
	assert.Equal(t, 250*time.Millisecond, config.ItemDelay)
	assert.Equal(t, "http://localhost:8080", config.BaseURL)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shop.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
db_path: /srv/shop/db
data_dir: /srv/shop/data
max_results: 2
delays:
  settle: 1s
  consent: 0s
credentials:
  email: file@example.com
  password: secret
`), 0o644))

	v, err := New(path)
	require.NoError(t, err)
	config, err := Load(v)

	require.NoError(t, err)
	assert.Equal(t, "/srv/shop/db", config.DBPath)
	assert.Equal(t, "/srv/shop/data", config.DataDir)
	assert.Equal(t, 2, config.MaxResults)
	assert.Equal(t, time.Second, config.SettleDelay)
	assert.Equal(t, time.Duration(0), config.ConsentDelay)
	assert.Equal(t, 5*time.Second, config.LoginSettleDelay)
	assert.Equal(t, "file@example.com", Credentials(v).Email)
}

func TestLoad_RejectsBadValues(t *testing.T) {
	for _, value := range []string{"0", "-1", "4", "10"} {
		t.Run("max_results="+value, func(t *testing.T) {
			t.Setenv("SHOP_MAX_RESULTS", value)
			v, err := New("")
			require.NoError(t, err)

			_, err = Load(v)

			assert.Error(t, err)
		})
	}
}

func TestNew_MalformedConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shop.yaml")
	require.NoError(t, os.WriteFile(path, []byte("delays: [\n"), 0o644))

	_, err := New(path)

	assert.Error(t, err)
}

func TestCredentials_FromEnvironment(t *testing.T) {
	t.Setenv("SUPERVALU_EMAIL", "  me@example.com ")
	t.Setenv("SUPERVALU_PASSWORD", "p@ss 'word'")
	v, err := New("")
	require.NoError(t, err)

	creds := Credentials(v)

	assert.Equal(t, "me@example.com", creds.Email)
	assert.Equal(t, "p@ss 'word'", creds.Password)
	assert.False(t, creds.Empty())
}

func TestCredentials_Missing(t *testing.T) {
	t.Setenv("SUPERVALU_EMAIL", "")
	t.Setenv("SUPERVALU_PASSWORD", "")
	v, err := New("")
	require.NoError(t, err)

	assert.True(t, Credentials(v).Empty())
}
