package main

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigFromFileOverrides(t *testing.T) {
	path := writeConfig(t, `{
		"danger_dist": 150,
		"warning_dist": 250,
		"chaos_level": 0.3,
		"reverse_steps": 10
	}`)
	cfg, err := loadConfigFromFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Rules.DangerDist != 150 || cfg.Rules.WarningDist != 250 {
		t.Fatalf("rule overrides not applied: %+v", cfg.Rules)
	}
	if cfg.Chaos.Level != 0.3 {
		t.Fatalf("chaos level = %v", cfg.Chaos.Level)
	}
	if cfg.Maneuver.ReverseSteps != 10 {
		t.Fatalf("reverse steps = %v", cfg.Maneuver.ReverseSteps)
	}
	// Untouched keys keep their defaults.
	if cfg.Rules.MaxRange != 400 {
		t.Fatalf("max range = %v", cfg.Rules.MaxRange)
	}
}

func TestLoadConfigFromFileRejectsUnknownKey(t *testing.T) {
	path := writeConfig(t, `{"danger_distance": 150}`)
	if _, err := loadConfigFromFile(path); err == nil {
		t.Fatal("unknown key accepted")
	}
}

func TestLoadConfigFromFileRejectsInvalidThresholds(t *testing.T) {
	path := writeConfig(t, `{"warning_dist": 10}`)
	if _, err := loadConfigFromFile(path); err == nil {
		t.Fatal("warning below danger accepted")
	}
}

func TestLoadConfigFromFileRejectsNonNumber(t *testing.T) {
	path := writeConfig(t, `{"danger_dist": "close"}`)
	if _, err := loadConfigFromFile(path); err == nil {
		t.Fatal("string value accepted")
	}
}
