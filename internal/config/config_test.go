package config

import (
	"strings"
	"testing"
	"time"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name        string
		config      Config
		wantErr     bool
		errorString string
	}{
		{
			name: "valid config",
			config: Config{
				Port:      "8080",
				DBPath:    "./test.db",
				JWTSecret: "una-clave-larga-y-secreta",
				TokenTTL:  24 * time.Hour,
			},
			wantErr: false,
		},
		{
			name: "non-numeric port",
			config: Config{
				Port:      "abc",
				DBPath:    "./test.db",
				JWTSecret: "una-clave-larga-y-secreta",
				TokenTTL:  time.Hour,
			},
			wantErr:     true,
			errorString: "invalid port 'abc'",
		},
		{
			name: "port out of range",
			config: Config{
				Port:      "70000",
				DBPath:    "./test.db",
				JWTSecret: "una-clave-larga-y-secreta",
				TokenTTL:  time.Hour,
			},
			wantErr:     true,
			errorString: "invalid port 70000",
		},
		{
			name: "missing database path",
			config: Config{
				Port:      "8080",
				DBPath:    "",
				JWTSecret: "una-clave-larga-y-secreta",
				TokenTTL:  time.Hour,
			},
			wantErr:     true,
			errorString: "database path cannot be empty",
		},
		{
			name: "weak jwt secret",
			config: Config{
				Port:      "8080",
				DBPath:    "./test.db",
				JWTSecret: "corta",
				TokenTTL:  time.Hour,
			},
			wantErr:     true,
			errorString: "JWT_SECRET",
		},
		{
			name: "token ttl too short",
			config: Config{
				Port:      "8080",
				DBPath:    "./test.db",
				JWTSecret: "una-clave-larga-y-secreta",
				TokenTTL:  time.Second,
			},
			wantErr:     true,
			errorString: "invalid token TTL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Validate() error = nil, want error containing %q", tt.errorString)
				}
				if !strings.Contains(err.Error(), tt.errorString) {
					t.Errorf("Validate() error = %v, want error containing %q", err, tt.errorString)
				}
			} else if err != nil {
				t.Errorf("Validate() error = %v, want nil", err)
			}
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "DB_PATH", "JWT_SECRET", "TOKEN_TTL", "STATIC_PATH"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.Port != "8080" {
		t.Errorf("Load() Port = %v, want 8080", cfg.Port)
	}
	if cfg.DBPath != "./data/gastos.db" {
		t.Errorf("Load() DBPath = %v, want ./data/gastos.db", cfg.DBPath)
	}
	if cfg.TokenTTL != 24*time.Hour {
		t.Errorf("Load() TokenTTL = %v, want 24h", cfg.TokenTTL)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_PATH", "/tmp/test.db")
	t.Setenv("JWT_SECRET", "una-clave-larga-y-secreta")
	t.Setenv("TOKEN_TTL", "45m")

	cfg := Load()
	if cfg.Port != "9090" {
		t.Errorf("Load() Port = %v, want 9090", cfg.Port)
	}
	if cfg.DBPath != "/tmp/test.db" {
		t.Errorf("Load() DBPath = %v, want /tmp/test.db", cfg.DBPath)
	}
	if cfg.TokenTTL != 45*time.Minute {
		t.Errorf("Load() TokenTTL = %v, want 45m", cfg.TokenTTL)
	}
}

func TestLoadInvalidDurationUsesDefault(t *testing.T) {
	t.Setenv("TOKEN_TTL", "invalid")

	cfg := Load()
	if cfg.TokenTTL != 24*time.Hour {
		t.Errorf("Load() TokenTTL = %v, want 24h default for invalid input", cfg.TokenTTL)
	}
}
