package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vango-dev/vango-ext/internal/errors"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFileName)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.Server.Port != DefaultPort {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, DefaultPort)
	}
	if cfg.Server.Host != DefaultHost {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, DefaultHost)
	}
	if cfg.Bridge.Timeout != DefaultBridgeTimeout {
		t.Errorf("Bridge.Timeout = %v, want %v", cfg.Bridge.Timeout, DefaultBridgeTimeout)
	}
	if cfg.Components.Namespace != DefaultNamespace {
		t.Errorf("Components.Namespace = %q, want %q", cfg.Components.Namespace, DefaultNamespace)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadWithoutFile(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Path() != "" {
		t.Errorf("Path = %q, want empty", cfg.Path())
	}
	if cfg.Addr() != "localhost:4000" {
		t.Errorf("Addr = %q", cfg.Addr())
	}
}

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, `{
  "name": "demo",
  "server": {"host": "0.0.0.0", "port": 8080, "watch": true, "allowedOrigins": ["https://example.com"]},
  "bridge": {"url": "ws://localhost:9000/bridge", "timeout": "250ms"},
  "theme": {"color-accent": "#2563eb"},
  "components": {"dir": "ui"},
  "publish": {"bucket": "catalogs"},
  "log": {"level": "debug", "format": "json"}
}
`)

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Name != "demo" {
		t.Errorf("Name = %q", cfg.Name)
	}
	if cfg.Addr() != "0.0.0.0:8080" {
		t.Errorf("Addr = %q", cfg.Addr())
	}
	if !cfg.Server.Watch {
		t.Error("Server.Watch should be true")
	}
	if len(cfg.Server.AllowedOrigins) != 1 || cfg.Server.AllowedOrigins[0] != "https://example.com" {
		t.Errorf("Server.AllowedOrigins = %v", cfg.Server.AllowedOrigins)
	}
	if cfg.Bridge.Timeout != 250*time.Millisecond {
		t.Errorf("Bridge.Timeout = %v", cfg.Bridge.Timeout)
	}
	if cfg.Theme["color-accent"] != "#2563eb" {
		t.Errorf("Theme = %v", cfg.Theme)
	}
	if cfg.ComponentsPath() != filepath.Join(tmpDir, "ui") {
		t.Errorf("ComponentsPath = %q", cfg.ComponentsPath())
	}
	// Unset keys keep their defaults.
	if cfg.Components.Namespace != DefaultNamespace {
		t.Errorf("Components.Namespace = %q", cfg.Components.Namespace)
	}
	if cfg.Publish.Key != DefaultCatalogKey {
		t.Errorf("Publish.Key = %q", cfg.Publish.Key)
	}
	if err := cfg.ValidatePublish(); err != nil {
		t.Errorf("ValidatePublish: %v", err)
	}
	if cfg.Dir() != tmpDir {
		t.Errorf("Dir = %q, want %q", cfg.Dir(), tmpDir)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, `{"server": {"port": 8080}}`)

	t.Setenv("VANGOEXT_SERVER_PORT", "9090")
	t.Setenv("VANGOEXT_PUBLISH_BUCKET", "from-env")
	t.Setenv("VANGOEXT_BRIDGE_TIMEOUT", "2s")

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Publish.Bucket != "from-env" {
		t.Errorf("Publish.Bucket = %q", cfg.Publish.Bucket)
	}
	if cfg.Bridge.Timeout != 2*time.Second {
		t.Errorf("Bridge.Timeout = %v", cfg.Bridge.Timeout)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		code    string
		detail  string
	}{
		{"invalid json", `{"server": `, "E120", "Failed to parse"},
		{"port out of range", `{"server": {"port": 70000}}`, "E122", "70000"},
		{"log level", `{"log": {"level": "loud"}}`, "E120", "loud"},
		{"log format", `{"log": {"format": "xml"}}`, "E120", "xml"},
		{"bridge url", `{"bridge": {"url": "http://x"}}`, "E120", "http://x"},
		{"namespace not an identifier", `{"components": {"namespace": "my-ns"}}`, "E120", "my-ns"},
		{"built-in namespace", `{"components": {"namespace": "XMLUIExtensions"}}`, "E120", "XMLUIExtensions"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeConfig(t, dir, tt.content)

			_, err := Load(dir)
			if !errors.HasCode(err, tt.code) {
				t.Fatalf("error = %v, want %s", err, tt.code)
			}
			if !strings.Contains(err.Error(), tt.detail) {
				t.Errorf("error %q should mention %q", err, tt.detail)
			}
		})
	}
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.json"))
	if !errors.HasCode(err, "E120") {
		t.Fatalf("error = %v, want E120", err)
	}
}

func TestValidatePublish(t *testing.T) {
	err := New().ValidatePublish()
	if !errors.HasCode(err, "E121") {
		t.Fatalf("error = %v, want E121", err)
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := LogConfig{Level: "warn", Format: "json"}.NewLogger(&buf)

	logger.Info("hidden")
	logger.Warn("shown", "k", "v")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info record should be filtered: %s", out)
	}
	if !strings.Contains(out, `"msg":"shown"`) || !strings.Contains(out, `"k":"v"`) {
		t.Errorf("unexpected output: %s", out)
	}
}

func TestExists(t *testing.T) {
	dir := t.TempDir()
	if Exists(dir) {
		t.Error("Exists should be false before writing")
	}
	writeConfig(t, dir, `{}`)
	if !Exists(dir) {
		t.Error("Exists should be true after writing")
	}
}
