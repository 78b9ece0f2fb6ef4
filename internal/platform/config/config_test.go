package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"gwconsole/internal/pkg/validator"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("GATEWAY_URL", "")
	t.Setenv("NEXT_PUBLIC_GATEWAY_URL", "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.Gateway.URL != "http://localhost:8080" {
		t.Errorf("Expected default gateway url, got %s", cfg.Gateway.URL)
	}
	if cfg.Server.Port != 3000 {
		t.Errorf("Expected default port 3000, got %d", cfg.Server.Port)
	}
	if cfg.Gateway.Timeout != 30*time.Second {
		t.Errorf("Expected default timeout 30s, got %v", cfg.Gateway.Timeout)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Expected default log level info, got %s", cfg.Logging.Level)
	}
}

func TestLoad_MissingFileIsNotFatal(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("expected missing config file to be ignored, got %v", err)
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  port: 4000
gateway:
  url: http://gateway.internal:9000/
session:
  path: /var/lib/gwconsole/session.db
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("SESSION_SECRET", "from-env")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.Server.Port != 4000 {
		t.Errorf("Expected port 4000, got %d", cfg.Server.Port)
	}
	if cfg.Gateway.URL != "http://gateway.internal:9000" {
		t.Errorf("Expected trailing slash trimmed, got %s", cfg.Gateway.URL)
	}
	if cfg.Session.Path != "/var/lib/gwconsole/session.db" {
		t.Errorf("Expected session path from file, got %s", cfg.Session.Path)
	}
	if cfg.Session.Secret != "from-env" {
		t.Errorf("Expected secret from env, got %q", cfg.Session.Secret)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Expected level debug, got %s", cfg.Logging.Level)
	}
}

func TestLoad_PublicGatewayURLFallback(t *testing.T) {
	t.Setenv("GATEWAY_URL", "")
	t.Setenv("NEXT_PUBLIC_GATEWAY_URL", "https://gw.example.com")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Gateway.URL != "https://gw.example.com" {
		t.Errorf("Expected public gateway url, got %s", cfg.Gateway.URL)
	}
}

func TestLoad_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	if err := os.WriteFile(path, []byte("server: [unterminated"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error, got nil")
	}
}

func TestLoad_AuthRateLimitFromEnv(t *testing.T) {
	t.Setenv("SERVER_AUTH_RATE_LIMIT", "3")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Server.AuthRateLimit != 3 {
		t.Errorf("Expected rate limit 3, got %d", cfg.Server.AuthRateLimit)
	}
}

func TestLoad_RejectsNonHTTPGatewayURL(t *testing.T) {
	t.Setenv("GATEWAY_URL", "gateway.internal:9000")

	_, err := Load("")
	if !errors.Is(err, validator.ErrURLScheme) {
		t.Errorf("Expected scheme error, got %v", err)
	}
}
