package main

import (
	"encoding/json"
	"fmt"
	"os"

	"navcore/internal/engine"
)

// loadConfigFromFile reads engine overrides from a JSON file. Absent keys
// keep their defaults; unknown keys are rejected so typos do not silently
// run with default thresholds.
func loadConfigFromFile(path string) (engine.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return engine.Config{}, err
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return engine.Config{}, fmt.Errorf("parse %s: %w", path, err)
	}

	cfg := engine.DefaultConfig()
	for key, value := range raw {
		v, ok := asFloat64(value)
		if !ok {
			return engine.Config{}, fmt.Errorf("config key %q: want a number, got %T", key, value)
		}
		switch key {
		case "max_range":
			cfg.Rules.MaxRange = v
		case "side_critical_dist":
			cfg.Rules.SideCriticalDist = v
		case "danger_dist":
			cfg.Rules.DangerDist = v
		case "warning_dist":
			cfg.Rules.WarningDist = v
		case "robot_width":
			cfg.Rules.RobotWidth = v
		case "robot_clearance":
			cfg.Rules.RobotClearance = v
		case "chaos_level":
			cfg.Chaos.Level = v
		case "chaos_min_safe_distance":
			cfg.ChaosMinSafeDistance = v
		case "match_tolerance":
			cfg.MatchTolerance = v
		case "rule_fuse_threshold":
			cfg.RuleFuseThreshold = v
		case "vague_threshold":
			cfg.VagueThreshold = v
		case "critical_dist":
			cfg.Maneuver.CriticalDist = v
		case "avoid_dist":
			cfg.Maneuver.AvoidDist = v
		case "reverse_steps":
			cfg.Maneuver.ReverseSteps = int(v)
		default:
			return engine.Config{}, fmt.Errorf("unknown config key %q", key)
		}
	}

	if err := cfg.Validate(); err != nil {
		return engine.Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func asFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
