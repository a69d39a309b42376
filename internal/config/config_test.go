package config

import (
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load with defaults failed: %v", err)
	}

	if cfg.App.Name != "invpredict" {
		t.Fatalf("unexpected app name %q", cfg.App.Name)
	}
	if !cfg.Model.Enabled {
		t.Fatal("model should be enabled by default")
	}
	if cfg.History.Limit != 20 {
		t.Fatalf("unexpected history limit %d", cfg.History.Limit)
	}
	if cfg.Export.ChartWidth != 1280 || cfg.Export.ChartHeight != 720 {
		t.Fatalf("unexpected chart dimensions %dx%d", cfg.Export.ChartWidth, cfg.Export.ChartHeight)
	}
	if cfg.Database.DSN != "" {
		t.Fatalf("database should be unset by default, got %q", cfg.Database.DSN)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Fatalf("unexpected logging defaults %+v", cfg.Logging)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := Config{}
	cfg.History.Limit = 0
	cfg.Export.ChartWidth = 1280
	cfg.Export.ChartHeight = 720
	if err := cfg.Validate(); err == nil {
		t.Fatal("zero history limit should fail validation")
	}

	cfg.History.Limit = 20
	cfg.Export.ChartWidth = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("zero chart width should fail validation")
	}
}

func TestResolveLimit(t *testing.T) {
	cfg := Config{}
	cfg.History.Limit = 20

	if got := cfg.ResolveLimit(0); got != 20 {
		t.Fatalf("zero override should use the config default, got %d", got)
	}
	if got := cfg.ResolveLimit(5); got != 5 {
		t.Fatalf("positive override should win, got %d", got)
	}
}
