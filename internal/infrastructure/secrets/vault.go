// Package secrets resolves sensitive configuration values from HashiCorp
// Vault at startup. With Vault disabled the resolver is inert and every
// value comes straight from the configuration file, so local development
// needs no Vault process.
package secrets

import (
	"context"

	vault "github.com/hashicorp/vault/api"

	"github.com/rosverk/rosreg/internal/config"
	"github.com/rosverk/rosreg/pkg/errors"
	"github.com/rosverk/rosreg/pkg/logger"
)

// Keys looked up inside the Vault secret. A key absent from the secret
// leaves the corresponding file-provided value untouched.
const (
	keyDBPassword        = "db_password"
	keyExportTokenSecret = "export_token_secret"
)

// Resolver reads secret material from Vault's KVv2 engine.
type Resolver struct {
	client *vault.Client
	cfg    *config.VaultConfig
	logger logger.Logger
}

// NewResolver builds a Vault client from cfg. Token auth only; deployments
// that need AppRole should mint a token out of band and pass it in.
func NewResolver(cfg *config.VaultConfig, log logger.Logger) (*Resolver, error) {
	r := &Resolver{cfg: cfg, logger: log.WithComponent("secrets")}
	if !cfg.Enabled {
		return r, nil
	}

	vaultCfg := vault.DefaultConfig()
	vaultCfg.Address = cfg.Address

	client, err := vault.NewClient(vaultCfg)
	if err != nil {
		return nil, errors.ErrInternal.WithError(err).WithMessage("building vault client")
	}
	client.SetToken(cfg.Token)
	r.client = client
	return r, nil
}

// Apply overwrites the secret-bearing fields of cfg with the values stored
// in Vault. Keys missing from the Vault secret keep their file-provided
// values, so a partially populated secret is fine.
func (r *Resolver) Apply(ctx context.Context, cfg *config.Config) error {
	if r.client == nil {
		return nil
	}

	secret, err := r.client.KVv2(r.cfg.MountPath).Get(ctx, r.cfg.SecretKey)
	if err != nil {
		return errors.ErrServiceUnavailable.WithError(err).
			WithMessagef("reading vault secret %s/%s", r.cfg.MountPath, r.cfg.SecretKey)
	}
	if secret == nil || secret.Data == nil {
		return errors.ErrNotFound.WithMessagef("vault secret %s/%s is empty", r.cfg.MountPath, r.cfg.SecretKey)
	}

	applied := 0
	if v, ok := stringValue(secret.Data, keyDBPassword); ok {
		cfg.Database.Password = v
		applied++
	}
	if v, ok := stringValue(secret.Data, keyExportTokenSecret); ok {
		cfg.Export.TokenSecret = v
		applied++
	}

	r.logger.Info(ctx, "secrets resolved from vault",
		logger.String("mount", r.cfg.MountPath),
		logger.String("secret", r.cfg.SecretKey),
		logger.Int("applied", applied),
	)
	return nil
}

func stringValue(data map[string]interface{}, key string) (string, bool) {
	v, ok := data[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}
