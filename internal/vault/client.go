// Package vault wraps the HashiCorp Vault client used to source runtime
// secrets (database password, JWT signing secret). When Vault is disabled
// the config-file values are used as-is.
package vault

import (
	"fmt"

	"github.com/hashicorp/vault/api"
)

// Config holds Vault configuration
type Config struct {
	Enabled    bool   `json:"enabled"`
	Address    string `json:"address"`
	Token      string `json:"token"`
	SecretPath string `json:"secret_path"`
	TLSEnabled bool   `json:"tls_enabled"`
	CACert     string `json:"ca_cert"`
}

// Client wraps the HashiCorp Vault client
type Client struct {
	client *api.Client
	config Config
}

// NewClient creates a new Vault client
func NewClient(cfg Config) (*Client, error) {
	if !cfg.Enabled {
		return &Client{config: cfg}, nil
	}

	vaultConfig := api.DefaultConfig()
	vaultConfig.Address = cfg.Address

	if cfg.TLSEnabled && cfg.CACert != "" {
		tlsConfig := &api.TLSConfig{CACert: cfg.CACert}
		if err := vaultConfig.ConfigureTLS(tlsConfig); err != nil {
			return nil, fmt.Errorf("failed to configure TLS: %w", err)
		}
	}

	client, err := api.NewClient(vaultConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create vault client: %w", err)
	}
	client.SetToken(cfg.Token)

	return &Client{client: client, config: cfg}, nil
}

// Enabled reports whether secrets are sourced from Vault.
func (c *Client) Enabled() bool {
	return c.config.Enabled
}

// GetSecret reads a single string field from the configured KV v2 secret
// path, e.g. "db_password" or "jwt_secret".
func (c *Client) GetSecret(key string) (string, error) {
	if !c.config.Enabled {
		return "", fmt.Errorf("vault is not enabled")
	}

	secret, err := c.client.Logical().Read(c.config.SecretPath)
	if err != nil {
		return "", fmt.Errorf("failed to read secret from vault: %w", err)
	}
	if secret == nil || secret.Data == nil {
		return "", fmt.Errorf("no secret found at %s", c.config.SecretPath)
	}

	// KV v2 nests the payload under "data".
	data := secret.Data
	if nested, ok := secret.Data["data"].(map[string]interface{}); ok {
		data = nested
	}

	value, ok := data[key].(string)
	if !ok {
		return "", fmt.Errorf("secret key %q not found at %s", key, c.config.SecretPath)
	}
	return value, nil
}
