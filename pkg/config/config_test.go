package config

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("Expected default port 8080, got %s", cfg.Server.Port)
	}
	if cfg.DB.Path != "lendbook.db" {
		t.Errorf("Expected default db path lendbook.db, got %s", cfg.DB.Path)
	}
	if !cfg.Ledger.InitialCapital.Equal(decimal.NewFromInt(15_000_000)) {
		t.Errorf("Expected default initial capital 15000000, got %s", cfg.Ledger.InitialCapital)
	}
	if cfg.Ledger.RevalueSchedule != "@every 1m" {
		t.Errorf("Expected default schedule @every 1m, got %s", cfg.Ledger.RevalueSchedule)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("LENDBOOK_PORT", "9090")
	t.Setenv("LENDBOOK_INITIAL_CAPITAL", "250000.50")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Server.Port != "9090" {
		t.Errorf("Expected port 9090, got %s", cfg.Server.Port)
	}
	if !cfg.Ledger.InitialCapital.Equal(decimal.RequireFromString("250000.50")) {
		t.Errorf("Expected initial capital 250000.50, got %s", cfg.Ledger.InitialCapital)
	}
}

func TestLoadBadCapital(t *testing.T) {
	t.Setenv("LENDBOOK_INITIAL_CAPITAL", "lots")

	if _, err := Load(""); err == nil {
		t.Error("Expected error for unparseable capital")
	}
}

func TestValidateNegativeCapital(t *testing.T) {
	cfg := &Config{
		Server: ServerConfig{Port: "8080"},
		DB:     DBConfig{Path: "lendbook.db"},
		Ledger: LedgerConfig{
			InitialCapital:  decimal.NewFromInt(-1),
			RevalueSchedule: "@every 1m",
		},
	}
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for negative capital")
	}
}
