package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Success(t *testing.T) {
	setMinimalEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.App.Env != "production" {
		t.Fatalf("expected App.Env to be production, got %q", cfg.App.Env)
	}
	if cfg.App.Port != "8080" {
		t.Fatalf("expected default port 8080, got %q", cfg.App.Port)
	}
	if cfg.Catalog.BaseURL != "http://localhost:3333" {
		t.Fatalf("unexpected catalog base url %q", cfg.Catalog.BaseURL)
	}
	if got := cfg.Catalog.Timeout; got != 5*time.Second {
		t.Fatalf("expected catalog timeout 5s, got %v", got)
	}
	if cfg.Storage.Driver != StorageDriverMemory {
		t.Fatalf("expected memory storage by default, got %q", cfg.Storage.Driver)
	}
	if cfg.Storage.Key != "@RocketShoes:cart" {
		t.Fatalf("unexpected storage key %q", cfg.Storage.Key)
	}
	if cfg.Session.MaxSessions != 10000 || cfg.Session.IdleTTL != 30*time.Minute {
		t.Fatalf("unexpected session limits %+v", cfg.Session)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	setMinimalEnv(t)
	if err := os.Unsetenv(EnvAppEnv); err != nil {
		t.Fatalf("failed to unset %s: %v", EnvAppEnv, err)
	}

	if _, err := Load(); err == nil {
		t.Fatal("expected missing required env to return an error")
	}
}

func TestLoad_StorageDrivers(t *testing.T) {
	cases := []struct {
		name    string
		env     map[string]string
		wantErr bool
	}{
		{name: "redis without address", env: map[string]string{EnvStorageDriver: "redis"}, wantErr: true},
		{name: "redis with url", env: map[string]string{EnvStorageDriver: "REDIS", EnvRedisURL: "redis://localhost:6379/0"}},
		{name: "sql without dsn", env: map[string]string{EnvStorageDriver: "sql"}, wantErr: true},
		{name: "sql sqlite", env: map[string]string{EnvStorageDriver: "sql", EnvDBDSN: "file::memory:"}},
		{name: "sql unknown driver", env: map[string]string{EnvStorageDriver: "sql", EnvDBDriver: "mysql", EnvDBDSN: "x"}, wantErr: true},
		{name: "unknown storage", env: map[string]string{EnvStorageDriver: "s3"}, wantErr: true},
		{name: "zero session limit", env: map[string]string{EnvSessionMax: "0"}, wantErr: true},
		{name: "zero idle ttl", env: map[string]string{EnvSessionIdleTTL: "0s"}, wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			setMinimalEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			if tc.wantErr && err == nil {
				t.Fatal("expected error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func setMinimalEnv(t *testing.T) {
	t.Helper()

	t.Setenv(EnvAppEnv, "production")
	t.Setenv(EnvCatalogBaseURL, "http://localhost:3333")
}

func TestAppConfigEnvHelpers(t *testing.T) {
	devConfig := AppConfig{Env: "DEV"}
	if !devConfig.IsDev() {
		t.Fatalf("expected IsDev true for %q", devConfig.Env)
	}
	if devConfig.IsProd() {
		t.Fatalf("expected IsProd false for %q", devConfig.Env)
	}

	prodConfig := AppConfig{Env: "prod"}
	if !prodConfig.IsProd() {
		t.Fatalf("expected IsProd true for %q", prodConfig.Env)
	}
	if prodConfig.IsDev() {
		t.Fatalf("expected IsDev false for %q", prodConfig.Env)
	}
}
