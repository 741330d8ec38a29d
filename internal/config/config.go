// Package config loads and saves the pgextgate project configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/pgops-dev/pgextgate/pkg/pgextgate"
)

// ErrConfigNotFound is returned when the config file does not exist.
// Callers can check for this with errors.Is(err, config.ErrConfigNotFound).
var ErrConfigNotFound = errors.New("config file not found")

type ConnectionConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	Username       string `yaml:"username"`
	Database       string `yaml:"database"`
	SSLMode        string `yaml:"sslmode"`
	AuthMethod     string `yaml:"auth_method,omitempty"`
	AzureTenantID  string `yaml:"azure_tenant_id,omitempty"`
	AzureClientID  string `yaml:"azure_client_id,omitempty"`
	AWSRegion      string `yaml:"aws_region,omitempty"`
	GoogleInstance string `yaml:"google_instance,omitempty"`
}

type ProjectConfig struct {
	// SharePath is the server's share directory (pg_config --sharedir);
	// control files live under its extension/ subdirectory.
	SharePath string `yaml:"share_path"`

	// Whitelist is the set of approved extensions.
	Whitelist []pgextgate.WhitelistEntry `yaml:"whitelist"`

	Connection ConnectionConfig `yaml:"connection,omitempty"`
}

const ConfigFileName = "pgextgate.yaml"

func Load(sourcePath string) (*ProjectConfig, error) {
	configPath := filepath.Join(sourcePath, ConfigFileName)
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", configPath, err)
	}
	return &cfg, nil
}

// Save writes the configuration back to pgextgate.yaml in sourcePath.
// Used by `pgextgate init` and the interactive whitelist editor.
func Save(sourcePath string, cfg *ProjectConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	configPath := filepath.Join(sourcePath, ConfigFileName)
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", configPath, err)
	}
	return nil
}

// Validate checks the fields required for control-metadata resolution.
func (c *ProjectConfig) Validate() error {
	if c.SharePath == "" {
		return fmt.Errorf("share_path is required: %w", pgextgate.ErrInvalidConfig)
	}
	for i, entry := range c.Whitelist {
		if entry.Name == "" {
			return fmt.Errorf("whitelist entry %d has no name: %w", i, pgextgate.ErrInvalidConfig)
		}
	}
	return nil
}
