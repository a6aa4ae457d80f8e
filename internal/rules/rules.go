// Package rules implements the deterministic distance-threshold ladder that
// backs every other decision path. It needs no learned state and never fails.
package rules

import (
	"fmt"
	"math"

	"navcore/internal/model"
)

// DefaultLabel marks the ladder's catch-all branch. The arbiter treats any
// other label as a specific rule worth fusing over a weak learned match.
const DefaultLabel = "DEFAULT_CAUTIOUS"

// Config holds the robot geometry and the threshold ladder, all in mm except
// the ratios, which are fractions of MaxRange.
type Config struct {
	MaxRange float64

	SideCriticalDist    float64
	EmergencyFrontRatio float64
	TrappedFrontRatio   float64
	TrappedSideRatio    float64
	DangerDist          float64
	WarningDist         float64

	RobotWidth      float64
	RobotClearance  float64
	TightPassageMul float64
}

func DefaultConfig() Config {
	return Config{
		MaxRange:            400.0,
		SideCriticalDist:    60.0,
		EmergencyFrontRatio: 0.25,
		TrappedFrontRatio:   0.15,
		TrappedSideRatio:    0.25,
		DangerDist:          60.0,
		WarningDist:         100.0,
		RobotWidth:          220.0,
		RobotClearance:      30.0,
		TightPassageMul:     1.5,
	}
}

// Validate rejects threshold orderings that would scramble the ladder.
func (c Config) Validate() error {
	if c.MaxRange <= 0 {
		return fmt.Errorf("max range must be positive, got %v", c.MaxRange)
	}
	if c.SideCriticalDist <= 0 || c.SideCriticalDist >= c.MaxRange {
		return fmt.Errorf("side critical distance %v outside (0, %v)", c.SideCriticalDist, c.MaxRange)
	}
	if c.EmergencyFrontRatio <= 0 || c.EmergencyFrontRatio >= 1 {
		return fmt.Errorf("emergency front ratio %v outside (0, 1)", c.EmergencyFrontRatio)
	}
	if c.TrappedFrontRatio <= 0 || c.TrappedFrontRatio > c.EmergencyFrontRatio {
		return fmt.Errorf("trapped front ratio %v outside (0, %v]", c.TrappedFrontRatio, c.EmergencyFrontRatio)
	}
	if c.TrappedSideRatio <= 0 || c.TrappedSideRatio >= 1 {
		return fmt.Errorf("trapped side ratio %v outside (0, 1)", c.TrappedSideRatio)
	}
	if c.DangerDist <= 0 {
		return fmt.Errorf("danger distance must be positive, got %v", c.DangerDist)
	}
	if c.WarningDist <= c.DangerDist {
		return fmt.Errorf("warning distance %v must exceed danger distance %v", c.WarningDist, c.DangerDist)
	}
	if c.WarningDist > c.MaxRange {
		return fmt.Errorf("warning distance %v exceeds max range %v", c.WarningDist, c.MaxRange)
	}
	if c.RobotWidth <= 0 {
		return fmt.Errorf("robot width must be positive, got %v", c.RobotWidth)
	}
	if c.RobotClearance < 0 {
		return fmt.Errorf("robot clearance must not be negative, got %v", c.RobotClearance)
	}
	if c.TightPassageMul < 1 {
		return fmt.Errorf("tight passage multiplier %v must be >= 1", c.TightPassageMul)
	}
	return nil
}

// MinPassageWidth is the narrowest gap the robot fits through with margins.
func (c Config) MinPassageWidth() float64 {
	return c.RobotWidth + 2*c.RobotClearance
}

// SafePassageSpeed scales speed down as the gap closes toward the minimum.
func (c Config) SafePassageSpeed(left, right float64) float64 {
	total := left + right
	min := c.MinPassageWidth()
	switch {
	case total < min:
		return 0
	case total < min*c.TightPassageMul:
		return 40
	default:
		return 90
	}
}

// Result is one rule verdict: an action, a speed pair, and the label of the
// branch that fired.
type Result struct {
	Action     model.Action
	SpeedLeft  float64
	SpeedRight float64
	Label      string
}

// IsDefault reports whether the catch-all branch fired.
func (r Result) IsDefault() bool {
	return r.Label == DefaultLabel
}

// Evaluate walks the ladder top to bottom and returns the first branch that
// matches. Branch order is load-bearing: critical escapes shadow side
// collisions, which shadow front braking, and so on down to the catch-all.
func (c Config) Evaluate(front, left, right float64) Result {
	df := front / c.MaxRange
	dl := left / c.MaxRange
	dr := right / c.MaxRange
	sideCritical := c.SideCriticalDist / c.MaxRange

	// Trapped: both flanks critical, or front plus both flanks closing in.
	if (dl < sideCritical && dr < sideCritical) ||
		(df < c.TrappedFrontRatio && dl < c.TrappedSideRatio && dr < c.TrappedSideRatio) {
		return Result{model.ActionEscape, -100, 100, "TRAPPED_ESCAPE"}
	}

	if dr < sideCritical {
		return Result{model.ActionTurnLeft, 40, 140, "SIDE_COLLISION_RIGHT"}
	}
	if dl < sideCritical {
		return Result{model.ActionTurnRight, 140, 40, "SIDE_COLLISION_LEFT"}
	}

	if df < c.EmergencyFrontRatio {
		if dl > dr {
			return Result{model.ActionTurnLeft, 30, 130, "EMERGENCY_BRAKE_LEFT"}
		}
		return Result{model.ActionTurnRight, 130, 30, "EMERGENCY_BRAKE_RIGHT"}
	}

	if df < c.DangerDist/c.MaxRange {
		if dl > dr {
			return Result{model.ActionTurnLeft, 40, 110, "AVOID_FRONT_LEFT"}
		}
		return Result{model.ActionTurnRight, 110, 40, "AVOID_FRONT_RIGHT"}
	}

	if df < c.WarningDist/c.MaxRange {
		if dl > dr {
			return Result{model.ActionTurnLeft, 50, 90, "WARNING_STEER_LEFT"}
		}
		return Result{model.ActionTurnRight, 90, 50, "WARNING_STEER_RIGHT"}
	}

	totalPassage := left + right
	if totalPassage < c.MinPassageWidth() {
		if dl > dr {
			return Result{model.ActionTurnLeft, 40, 80, "TOO_NARROW_LEFT"}
		}
		return Result{model.ActionTurnRight, 80, 40, "TOO_NARROW_RIGHT"}
	}

	if totalPassage < c.MinPassageWidth()*c.TightPassageMul {
		correction := (left - right) / 2 * 0.3
		speed := c.SafePassageSpeed(left, right)
		return Result{model.ActionForward, speed - correction, speed + correction, "TIGHT_PASSAGE"}
	}

	if dl < 0.4 && dr < 0.4 && df > 0.4 {
		bias := (dl - dr) * 20
		return Result{model.ActionForward, 80 - bias, 80 + bias, "CORRIDOR"}
	}

	if math.Abs(dl-dr) > 0.15 {
		if dl > dr {
			return Result{model.ActionForward, 80, 130, "SEEK_SPACE_LEFT"}
		}
		return Result{model.ActionForward, 130, 80, "SEEK_SPACE_RIGHT"}
	}

	if df > 0.6 && dl > 0.3 && dr > 0.3 {
		return Result{model.ActionForward, 120, 120, "CLEAR_PATH"}
	}

	return Result{model.ActionForward, 80, 80, DefaultLabel}
}
