package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the full modalstack configuration
type Config struct {
	Overlay   OverlayConfig   `json:"overlay"`
	Keys      KeyConfig       `json:"keys"`
	Telemetry TelemetryConfig `json:"telemetry"`
	Log       LogConfig       `json:"log"`
}

// OverlayConfig holds the defaults applied to overlays that leave a flag unset
type OverlayConfig struct {
	DismissOnEsc                 *bool  `json:"dismissOnEsc,omitempty"`
	DismissOnOutsideClick        *bool  `json:"dismissOnOutsideClick,omitempty"`
	ConfirmDismissOnOutsideClick *bool  `json:"confirmDismissOnOutsideClick,omitempty"`
	// SkipNonDismissible sends Escape and outside clicks past a topmost
	// overlay that refuses them instead of stopping there
	SkipNonDismissible           bool   `json:"skipNonDismissible"`
	ConfirmButtonLabel           string `json:"confirmButtonLabel" validate:"required,max=40"`
	CancelButtonLabel            string `json:"cancelButtonLabel" validate:"required,max=40"`
}

// KeyConfig contains key binding overrides
type KeyConfig struct {
	Dismiss []string `json:"dismiss" validate:"min=1,dive,keyname"`
}

// TelemetryConfig contains OpenTelemetry export settings
type TelemetryConfig struct {
	Endpoint    string `json:"endpoint" validate:"omitempty,hostname_port"`
	ServiceName string `json:"serviceName" validate:"required"`
	Insecure    bool   `json:"insecure"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level string `json:"level" validate:"oneof=debug info warn error"`
	File  string `json:"file"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Overlay: OverlayConfig{
			DismissOnEsc:                 boolPtr(true),
			DismissOnOutsideClick:        boolPtr(true),
			ConfirmDismissOnOutsideClick: boolPtr(false),
			SkipNonDismissible:           false,
			ConfirmButtonLabel:           "Confirm",
			CancelButtonLabel:            "Cancel",
		},
		Keys: KeyConfig{
			Dismiss: []string{"esc"},
		},
		Telemetry: TelemetryConfig{
			ServiceName: "modalstack",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// configFiles are tried in order inside the project directory
var configFiles = []string{".modalstack.json", ".modalstack.yaml", ".modalstack.yml"}

// LoadConfig loads configuration from the project path with priority:
// 1. .modalstack.json
// 2. .modalstack.yaml / .modalstack.yml
// 3. Defaults
func LoadConfig(projectPath string) (*Config, error) {
	for _, name := range configFiles {
		path := filepath.Join(projectPath, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		return LoadFile(path)
	}
	return DefaultConfig(), nil
}

// LoadFile loads a single config file. The format follows the extension.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yamlToJSON(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	}

	cfg, err := ParseVersionedConfig(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}

	cfg = MergeWithDefaults(cfg)
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", filepath.Base(path), err)
	}
	return cfg, nil
}

// SaveConfig saves configuration to the specified path with version information
func SaveConfig(cfg *Config, path string) error {
	data, err := MarshalVersionedConfig(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var doc map[string]interface{}
		if err := json.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
		if data, err = yaml.Marshal(doc); err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeWithDefaults fills in missing values with defaults
func MergeWithDefaults(cfg *Config) *Config {
	defaults := DefaultConfig()

	// Merge Overlay config
	if cfg.Overlay.DismissOnEsc == nil {
		cfg.Overlay.DismissOnEsc = defaults.Overlay.DismissOnEsc
	}
	if cfg.Overlay.DismissOnOutsideClick == nil {
		cfg.Overlay.DismissOnOutsideClick = defaults.Overlay.DismissOnOutsideClick
	}
	if cfg.Overlay.ConfirmDismissOnOutsideClick == nil {
		cfg.Overlay.ConfirmDismissOnOutsideClick = defaults.Overlay.ConfirmDismissOnOutsideClick
	}
	if cfg.Overlay.ConfirmButtonLabel == "" {
		cfg.Overlay.ConfirmButtonLabel = defaults.Overlay.ConfirmButtonLabel
	}
	if cfg.Overlay.CancelButtonLabel == "" {
		cfg.Overlay.CancelButtonLabel = defaults.Overlay.CancelButtonLabel
	}

	// Merge Keys config
	if len(cfg.Keys.Dismiss) == 0 {
		cfg.Keys.Dismiss = defaults.Keys.Dismiss
	}

	// Merge Telemetry config
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = defaults.Telemetry.ServiceName
	}

	// Merge Log config
	if cfg.Log.Level == "" {
		cfg.Log.Level = defaults.Log.Level
	}

	return cfg
}

// Load is a convenience function that loads config from current directory
func Load() (*Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get current directory: %w", err)
	}
	return LoadConfig(cwd)
}

func yamlToJSON(data []byte) ([]byte, error) {
	var doc map[string]interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc == nil {
		doc = map[string]interface{}{}
	}
	return json.Marshal(doc)
}

func boolPtr(b bool) *bool {
	return &b
}
