package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeTestConfig writes a config file to a temp dir and returns its path.
func writeTestConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("writing test config: %v", err)
	}
	return path
}

const minimalConfig = `
platform:
  base_url: "http://homeassistant.local:8123"
  access_token: "test-token"
`

func TestLoadMinimalConfig(t *testing.T) {
	path := writeTestConfig(t, minimalConfig)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Platform.BaseURL != "http://homeassistant.local:8123" {
		t.Errorf("base_url: got %q", cfg.Platform.BaseURL)
	}
	if cfg.Platform.AccessToken != "test-token" {
		t.Errorf("access_token: got %q", cfg.Platform.AccessToken)
	}

	// Defaults should be filled in
	if cfg.Platform.CallTimeout != 10 {
		t.Errorf("call_timeout default: got %d, want 10", cfg.Platform.CallTimeout)
	}
	if cfg.Platform.HistoryTimeout != 15 {
		t.Errorf("history_timeout default: got %d, want 15", cfg.Platform.HistoryTimeout)
	}
	if cfg.Dashboard.DefaultCols != 8 || cfg.Dashboard.DefaultRows != 5 {
		t.Errorf("grid defaults: got %dx%d, want 8x5", cfg.Dashboard.DefaultCols, cfg.Dashboard.DefaultRows)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("logging level default: got %q", cfg.Logging.Level)
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := writeTestConfig(t, minimalConfig+`
api:
  port: 9000
dashboard:
  default_cols: 12
  default_rows: 6
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.API.Port != 9000 {
		t.Errorf("api.port: got %d, want 9000", cfg.API.Port)
	}
	if cfg.Dashboard.DefaultCols != 12 {
		t.Errorf("default_cols: got %d, want 12", cfg.Dashboard.DefaultCols)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeTestConfig(t, minimalConfig)

	t.Setenv("FUSION_PLATFORM_ACCESS_TOKEN", "env-token")
	t.Setenv("FUSION_API_PORT", "7070")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Platform.AccessToken != "env-token" {
		t.Errorf("access_token: got %q, want env override", cfg.Platform.AccessToken)
	}
	if cfg.API.Port != 7070 {
		t.Errorf("api.port: got %d, want 7070", cfg.API.Port)
	}
}

func TestValidateRejectsMissingToken(t *testing.T) {
	path := writeTestConfig(t, `
platform:
  base_url: "http://homeassistant.local:8123"
`)

	_, err := Load(path)
	if err == nil {
		t.Fatal("expected validation error for missing access token")
	}
	if !strings.Contains(err.Error(), "access_token") {
		t.Errorf("error should mention access_token: %v", err)
	}
}

func TestValidateRejectsBadScheme(t *testing.T) {
	path := writeTestConfig(t, `
platform:
  base_url: "ftp://homeassistant.local"
  access_token: "t"
`)

	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error for ftp scheme")
	}
}

func TestValidateWebSocketSchemeAccepted(t *testing.T) {
	path := writeTestConfig(t, `
platform:
  base_url: "wss://ha.example.org"
  access_token: "t"
`)

	if _, err := Load(path); err != nil {
		t.Fatalf("wss scheme should be accepted: %v", err)
	}
}

func TestValidateInfluxRequiresURL(t *testing.T) {
	path := writeTestConfig(t, minimalConfig+`
influxdb:
  enabled: true
`)

	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error for enabled influxdb without url")
	}
}

func TestValidateMQTTTopicPrefix(t *testing.T) {
	path := writeTestConfig(t, minimalConfig+`
mqtt:
  enabled: true
  topic_prefix: "fusion/#"
`)

	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error for wildcard in topic prefix")
	}
}
