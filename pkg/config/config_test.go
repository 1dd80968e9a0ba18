package config

import (
	"strings"
	"testing"
)

func baseConfig() *Config {
	return &Config{
		Environment:          EnvDevelopment,
		AdminAccounts:        "admin, treasury",
		LedgerAccount:        "market-ledger",
		FeePercentage:        2,
		TokenUnit:            1_000_000,
		SessionAuthKey:       "dev-auth-key-32-bytes-long!!!",
		SessionEncryptionKey: "dev-encryption-key-32-bytes!!",
		LogLevel:             "info",
		CORSAllowedOrigins:   "*",
	}
}

func TestAdmins(t *testing.T) {
	cfg := baseConfig()
	admins := cfg.Admins()
	if len(admins) != 2 || admins[0] != "admin" || admins[1] != "treasury" {
		t.Fatalf("unexpected admins: %v", admins)
	}
	if cfg.FeeRecipient() != "admin" {
		t.Fatalf("fee recipient: got %q", cfg.FeeRecipient())
	}

	cfg.AdminAccounts = " , "
	if len(cfg.Admins()) != 0 || cfg.FeeRecipient() != "" {
		t.Fatal("blank admin list must parse to empty")
	}
}

func TestValidate(t *testing.T) {
	t.Run("accepts sane defaults", func(t *testing.T) {
		if err := Validate(baseConfig()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"no admins", func(c *Config) { c.AdminAccounts = "" }, "ADMIN_ACCOUNTS"},
		{"no ledger account", func(c *Config) { c.LedgerAccount = " " }, "LEDGER_ACCOUNT"},
		{"fee above bound", func(c *Config) { c.FeePercentage = 11 }, "FEE_PERCENTAGE"},
		{"zero token unit", func(c *Config) { c.TokenUnit = 0 }, "TOKEN_UNIT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := baseConfig()
			tt.mutate(cfg)
			err := Validate(cfg)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error mentioning %s, got %v", tt.want, err)
			}
		})
	}
}

func TestValidateForProduction(t *testing.T) {
	t.Run("no-op outside production", func(t *testing.T) {
		cfg := baseConfig()
		cfg.LogLevel = "debug"
		if err := ValidateForProduction(cfg); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("rejects unsafe production settings", func(t *testing.T) {
		cfg := baseConfig()
		cfg.Environment = EnvProduction
		cfg.SessionAuthKey = "short"
		cfg.LogLevel = "debug"

		err := ValidateForProduction(cfg)
		if err == nil {
			t.Fatal("expected error")
		}
		for _, want := range []string{"SESSION_AUTH_KEY", "LOG_LEVEL", "CORS_ALLOWED_ORIGINS"} {
			if !strings.Contains(err.Error(), want) {
				t.Errorf("error missing %s: %v", want, err)
			}
		}
	})
}
