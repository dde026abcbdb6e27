package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRegistry(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sites")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRegistry_GetSites(t *testing.T) {
	path := writeRegistry(t, `
[home]
host = https://192.168.1.1
api_key = secret-home

[office]
host = https://10.0.0.1
api_key = secret-office
verify_tls = true
`)

	registry, err := NewRegistry(path)
	require.NoError(t, err)

	sites, err := registry.GetSites(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"home", "office"}, sites)
}

func TestRegistry_GetProfile(t *testing.T) {
	path := writeRegistry(t, `
[home]
host = https://192.168.1.1
api_key = secret-home

[office]
host = https://10.0.0.1
api_key = secret-office
verify_tls = true
`)

	registry, err := NewRegistry(path)
	require.NoError(t, err)
	ctx := context.Background()

	home, err := registry.GetProfile(ctx, "home")
	require.NoError(t, err)
	assert.Equal(t, "home", home.Name)
	assert.Equal(t, "https://192.168.1.1", home.Host)
	assert.Equal(t, "secret-home", home.APIKey)
	assert.False(t, home.VerifyTLS, "self-signed controllers are the default")

	office, err := registry.GetProfile(ctx, "office")
	require.NoError(t, err)
	assert.True(t, office.VerifyTLS)
}

func TestRegistry_GetProfileValidation(t *testing.T) {
	path := writeRegistry(t, `
[no-host]
api_key = secret

[no-key]
host = https://192.168.1.1
`)

	registry, err := NewRegistry(path)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = registry.GetProfile(ctx, "no-host")
	assert.ErrorContains(t, err, "no host")

	_, err = registry.GetProfile(ctx, "no-key")
	assert.ErrorContains(t, err, "no api_key")

	_, err = registry.GetProfile(ctx, "missing")
	assert.ErrorContains(t, err, "not found")
}

func TestNewRegistry_MissingFile(t *testing.T) {
	_, err := NewRegistry(filepath.Join(t.TempDir(), "does-not-exist"))
	assert.Error(t, err)
}
