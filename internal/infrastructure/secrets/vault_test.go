package secrets_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rosverk/rosreg/internal/config"
	"github.com/rosverk/rosreg/internal/infrastructure/secrets"
	"github.com/rosverk/rosreg/pkg/logger"
)

func newFileConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Database.Password = "from-file"
	cfg.Export.TokenSecret = "file-secret"
	return cfg
}

// kvServer fakes Vault's KVv2 read endpoint for a single secret.
func kvServer(t *testing.T, wantPath string, data map[string]any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, wantPath, r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"data":     data,
				"metadata": map[string]any{"version": 1},
			},
		})
	}))
}

func TestResolverDisabledIsInert(t *testing.T) {
	r, err := secrets.NewResolver(&config.VaultConfig{Enabled: false}, logger.NewNoopLogger())
	require.NoError(t, err)

	cfg := newFileConfig()
	require.NoError(t, r.Apply(context.Background(), cfg))
	assert.Equal(t, "from-file", cfg.Database.Password)
	assert.Equal(t, "file-secret", cfg.Export.TokenSecret)
}

func TestResolverAppliesVaultValues(t *testing.T) {
	ts := kvServer(t, "/v1/rosreg/data/app", map[string]any{
		"db_password":         "vault-password",
		"export_token_secret": "vault-token-secret",
	})
	defer ts.Close()

	vaultCfg := &config.VaultConfig{
		Enabled:   true,
		Address:   ts.URL,
		Token:     "dev-token",
		MountPath: "rosreg",
		SecretKey: "app",
	}
	r, err := secrets.NewResolver(vaultCfg, logger.NewNoopLogger())
	require.NoError(t, err)

	cfg := newFileConfig()
	require.NoError(t, r.Apply(context.Background(), cfg))
	assert.Equal(t, "vault-password", cfg.Database.Password)
	assert.Equal(t, "vault-token-secret", cfg.Export.TokenSecret)
}

func TestResolverKeepsFileValuesForMissingKeys(t *testing.T) {
	ts := kvServer(t, "/v1/rosreg/data/app", map[string]any{
		"db_password": "vault-password",
	})
	defer ts.Close()

	vaultCfg := &config.VaultConfig{
		Enabled:   true,
		Address:   ts.URL,
		Token:     "dev-token",
		MountPath: "rosreg",
		SecretKey: "app",
	}
	r, err := secrets.NewResolver(vaultCfg, logger.NewNoopLogger())
	require.NoError(t, err)

	cfg := newFileConfig()
	require.NoError(t, r.Apply(context.Background(), cfg))
	assert.Equal(t, "vault-password", cfg.Database.Password)
	assert.Equal(t, "file-secret", cfg.Export.TokenSecret)
}

func TestResolverReportsUnreachableVault(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	ts.Close() // connection refused from here on

	vaultCfg := &config.VaultConfig{
		Enabled:   true,
		Address:   ts.URL,
		Token:     "dev-token",
		MountPath: "rosreg",
		SecretKey: "app",
	}
	r, err := secrets.NewResolver(vaultCfg, logger.NewNoopLogger())
	require.NoError(t, err)

	err = r.Apply(context.Background(), newFileConfig())
	require.Error(t, err)
}
