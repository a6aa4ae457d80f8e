package engine

import (
	"fmt"

	"navcore/internal/chaos"
	"navcore/internal/concept"
	"navcore/internal/maneuver"
	"navcore/internal/rules"
)

// Config aggregates the per-component configurations plus the arbitration
// thresholds that belong to the engine itself.
type Config struct {
	Rules    rules.Config
	Chaos    chaos.Params
	Maneuver maneuver.Config

	// MatchTolerance is the minimum similarity for a concept match to be
	// treated as meaningful at all.
	MatchTolerance float64

	// ChaosMinSafeDistance disables chaos modulation when any sensor reads
	// at or below this distance, in mm.
	ChaosMinSafeDistance float64

	// RuleFuseThreshold: a specific rule overrides the learned match when
	// the adjusted confidence falls below it.
	RuleFuseThreshold float64

	// VagueThreshold: below it the engine emits a cautious forward instead
	// of acting on the matched concept.
	VagueThreshold float64
}

func DefaultConfig() Config {
	return Config{
		Rules:                rules.DefaultConfig(),
		Chaos:                chaos.DefaultParams(),
		Maneuver:             maneuver.DefaultConfig(),
		MatchTolerance:       concept.DefaultTolerance,
		ChaosMinSafeDistance: 120.0,
		RuleFuseThreshold:    0.7,
		VagueThreshold:       0.5,
	}
}

func (c Config) Validate() error {
	if err := c.Rules.Validate(); err != nil {
		return fmt.Errorf("rules: %w", err)
	}
	if err := c.Maneuver.Validate(); err != nil {
		return fmt.Errorf("maneuver: %w", err)
	}
	if c.MatchTolerance < 0 || c.MatchTolerance >= 1 {
		return fmt.Errorf("match tolerance %v outside [0, 1)", c.MatchTolerance)
	}
	if c.ChaosMinSafeDistance < 0 {
		return fmt.Errorf("chaos min safe distance must not be negative, got %v", c.ChaosMinSafeDistance)
	}
	if c.RuleFuseThreshold <= 0 || c.RuleFuseThreshold > 1 {
		return fmt.Errorf("rule fuse threshold %v outside (0, 1]", c.RuleFuseThreshold)
	}
	if c.VagueThreshold <= 0 || c.VagueThreshold >= c.RuleFuseThreshold {
		return fmt.Errorf("vague threshold %v outside (0, %v)", c.VagueThreshold, c.RuleFuseThreshold)
	}
	return nil
}
