package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	// Overlay defaults
	require.NotNil(t, cfg.Overlay.DismissOnEsc)
	assert.True(t, *cfg.Overlay.DismissOnEsc)
	require.NotNil(t, cfg.Overlay.DismissOnOutsideClick)
	assert.True(t, *cfg.Overlay.DismissOnOutsideClick)
	require.NotNil(t, cfg.Overlay.ConfirmDismissOnOutsideClick)
	assert.False(t, *cfg.Overlay.ConfirmDismissOnOutsideClick)
	assert.False(t, cfg.Overlay.SkipNonDismissible)
	assert.Equal(t, "Confirm", cfg.Overlay.ConfirmButtonLabel)
	assert.Equal(t, "Cancel", cfg.Overlay.CancelButtonLabel)

	// Keys, telemetry and log defaults
	assert.Equal(t, []string{"esc"}, cfg.Keys.Dismiss)
	assert.Equal(t, "modalstack", cfg.Telemetry.ServiceName)
	assert.Empty(t, cfg.Telemetry.Endpoint)
	assert.Equal(t, "info", cfg.Log.Level)

	assert.NoError(t, Validate(cfg))
}

func TestLoadConfigFromJSON(t *testing.T) {
	tmpDir := t.TempDir()

	configJSON := `{
		"version": 1,
		"overlay": {
			"dismissOnOutsideClick": false,
			"confirmButtonLabel": "Yes, delete"
		},
		"keys": {"dismiss": ["esc", "q"]}
	}`
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ".modalstack.json"), []byte(configJSON), 0644))

	cfg, err := LoadConfig(tmpDir)
	require.NoError(t, err)

	assert.False(t, *cfg.Overlay.DismissOnOutsideClick)
	assert.Equal(t, "Yes, delete", cfg.Overlay.ConfirmButtonLabel)
	assert.Equal(t, []string{"esc", "q"}, cfg.Keys.Dismiss)

	// Unset values fall back to defaults
	assert.True(t, *cfg.Overlay.DismissOnEsc)
	assert.Equal(t, "Cancel", cfg.Overlay.CancelButtonLabel)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadConfigFromYAML(t *testing.T) {
	tmpDir := t.TempDir()

	configYAML := `version: 1
overlay:
  confirmDismissOnOutsideClick: true
  skipNonDismissible: true
telemetry:
  endpoint: localhost:4318
log:
  level: debug
  file: /tmp/modalstack.log
`
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ".modalstack.yaml"), []byte(configYAML), 0644))

	cfg, err := LoadConfig(tmpDir)
	require.NoError(t, err)

	assert.True(t, *cfg.Overlay.ConfirmDismissOnOutsideClick)
	assert.True(t, cfg.Overlay.SkipNonDismissible)
	assert.Equal(t, "localhost:4318", cfg.Telemetry.Endpoint)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "/tmp/modalstack.log", cfg.Log.File)
}

func TestLoadConfigPriority(t *testing.T) {
	tmpDir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ".modalstack.json"),
		[]byte(`{"overlay": {"confirmButtonLabel": "from-json"}}`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ".modalstack.yml"),
		[]byte("overlay:\n  confirmButtonLabel: from-yaml\n"), 0644))

	cfg, err := LoadConfig(tmpDir)
	require.NoError(t, err)

	// .modalstack.json takes precedence
	assert.Equal(t, "from-json", cfg.Overlay.ConfirmButtonLabel)
}

func TestLoadConfigNoFiles(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigInvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ".modalstack.json"), []byte(`{invalid json}`), 0644))

	_, err := LoadConfig(tmpDir)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), ".modalstack.json")
}

func TestLoadConfigInvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		config string
		field  string
	}{
		{
			name:   "unknown log level",
			config: `{"log": {"level": "verbose"}}`,
			field:  "Log.Level",
		},
		{
			name:   "bad dismiss key",
			config: `{"keys": {"dismiss": ["escape key"]}}`,
			field:  "Keys.Dismiss[0]",
		},
		{
			name:   "endpoint without port",
			config: `{"telemetry": {"endpoint": "collector"}}`,
			field:  "Telemetry.Endpoint",
		},
		{
			name:   "label too long",
			config: `{"overlay": {"cancelButtonLabel": "this label is far too long to fit on any button"}}`,
			field:  "Overlay.CancelButtonLabel",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ".modalstack.json"), []byte(tt.config), 0644))

			_, err := LoadConfig(tmpDir)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestSaveConfig(t *testing.T) {
	tmpDir := t.TempDir()

	for _, name := range []string{"saved.json", "saved.yaml"} {
		name := name
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Overlay.ConfirmButtonLabel = "Proceed"
			cfg.Keys.Dismiss = []string{"esc", "ctrl+g"}

			path := filepath.Join(tmpDir, name)
			require.NoError(t, SaveConfig(cfg, path))

			loaded, err := LoadFile(path)
			require.NoError(t, err)
			assert.Equal(t, "Proceed", loaded.Overlay.ConfirmButtonLabel)
			assert.Equal(t, []string{"esc", "ctrl+g"}, loaded.Keys.Dismiss)
		})
	}
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := &Config{
		Overlay: OverlayConfig{
			DismissOnEsc:       boolPtr(false),
			ConfirmButtonLabel: "Go",
		},
		Log: LogConfig{Level: "error"},
	}

	merged := MergeWithDefaults(cfg)

	// Custom values are kept
	assert.False(t, *merged.Overlay.DismissOnEsc)
	assert.Equal(t, "Go", merged.Overlay.ConfirmButtonLabel)
	assert.Equal(t, "error", merged.Log.Level)

	// Missing values are filled in
	assert.True(t, *merged.Overlay.DismissOnOutsideClick)
	assert.False(t, *merged.Overlay.ConfirmDismissOnOutsideClick)
	assert.Equal(t, "Cancel", merged.Overlay.CancelButtonLabel)
	assert.Equal(t, []string{"esc"}, merged.Keys.Dismiss)
	assert.Equal(t, "modalstack", merged.Telemetry.ServiceName)
}

func TestMergeWithDefaultsEmptyConfig(t *testing.T) {
	merged := MergeWithDefaults(&Config{})
	assert.Equal(t, DefaultConfig(), merged)
}
