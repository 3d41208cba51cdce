// Package config handles configuration loading and management
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/polyforge/polyforge/pkg/types"
)

// NotificationConfig represents notification preferences
type NotificationConfig struct {
	Enabled bool `json:"enabled" yaml:"enabled"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	File  string         `json:"file,omitempty" yaml:"file,omitempty"`
	Level types.LogLevel `json:"level,omitempty" yaml:"level,omitempty"`
}

// Config is the optional on-disk configuration. When present it extends or
// replaces entries of the built-in service table.
type Config struct {
	Version       string                    `json:"version" yaml:"version"`
	Services      []types.ServiceDescriptor `json:"services" yaml:"services"`
	Notifications *NotificationConfig       `json:"notifications,omitempty" yaml:"notifications,omitempty"`
	Logging       *LoggingConfig            `json:"logging,omitempty" yaml:"logging,omitempty"`
}

// Manager handles configuration operations
type Manager struct{}

// NewManager creates a new configuration manager
func NewManager() *Manager {
	return &Manager{}
}

// LoadConfig loads configuration from a file. Both JSON and YAML are
// accepted.
func (m *Manager) LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config

	// Try JSON first.
	if err := json.Unmarshal(data, &cfg); err == nil {
		return m.validateConfig(&cfg)
	}

	if err := yaml.Unmarshal(data, &cfg); err == nil {
		return m.validateConfig(&cfg)
	}

	return nil, fmt.Errorf("failed to parse config as JSON or YAML")
}

// ValidateConfig validates a configuration
func (m *Manager) ValidateConfig(cfg *Config) error {
	if cfg.Version != "" && cfg.Version != "1.0" {
		return fmt.Errorf("unsupported config version: %s", cfg.Version)
	}

	ids := make(map[string]bool)
	for i, svc := range cfg.Services {
		if svc.ID == "" {
			return fmt.Errorf("service %d: missing id", i)
		}
		if ids[svc.ID] {
			return fmt.Errorf("duplicate service id: %s", svc.ID)
		}
		ids[svc.ID] = true

		if !types.IsKnownTechnology(svc.Kind) {
			return fmt.Errorf("service %q: unknown technology kind %q (known: %v)",
				svc.ID, svc.Kind, types.KnownTechnologies())
		}
		if svc.RootPath == "" {
			return fmt.Errorf("service %q: missing root path", svc.ID)
		}
	}

	return nil
}

// MergeServices overlays config services onto the built-in table: entries
// with a matching id replace the default, new ids are appended.
func MergeServices(defaults, overrides []types.ServiceDescriptor) []types.ServiceDescriptor {
	merged := make([]types.ServiceDescriptor, 0, len(defaults)+len(overrides))
	replaced := make(map[string]types.ServiceDescriptor, len(overrides))
	for _, svc := range overrides {
		replaced[svc.ID] = svc
	}

	for _, svc := range defaults {
		if o, ok := replaced[svc.ID]; ok {
			merged = append(merged, o)
			delete(replaced, svc.ID)
			continue
		}
		merged = append(merged, svc)
	}
	for _, svc := range overrides {
		if _, ok := replaced[svc.ID]; ok {
			merged = append(merged, svc)
			delete(replaced, svc.ID)
		}
	}
	return merged
}

// Private methods

func (m *Manager) validateConfig(cfg *Config) (*Config, error) {
	if err := m.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
