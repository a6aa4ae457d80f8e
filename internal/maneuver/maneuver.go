// Package maneuver implements the reactive state machine that overrides
// concept-based decisions when the robot is too close to an obstacle:
// a two-phase emergency escape (back up, align toward open space) and a
// single-phase avoidance turn with anti-oscillation guards.
package maneuver

import (
	"fmt"
	"time"

	"navcore/internal/model"
)

type Kind string

const (
	KindEmergencyEscape Kind = "EMERGENCY_ESCAPE"
	KindAvoidanceTurn   Kind = "AVOIDANCE_TURN"
)

type Phase string

const (
	PhaseReverse   Phase = "REVERSE"
	PhaseAlignTurn Phase = "ALIGN_TURN"
)

type Direction string

const (
	DirectionLeft  Direction = "LEFT"
	DirectionRight Direction = "RIGHT"
)

// Config carries the maneuver thresholds. Distances are millimeters.
type Config struct {
	CriticalDist    float64
	AvoidDist       float64
	AvoidHysteresis float64
	ReverseSteps    int
	SafeExitDist    float64
	ImprovementExit float64
	TargetClearDist float64
	TurnCooldown    time.Duration
}

func DefaultConfig() Config {
	return Config{
		CriticalDist:    60,
		AvoidDist:       200,
		AvoidHysteresis: 20,
		ReverseSteps:    20,
		SafeExitDist:    100,
		ImprovementExit: 20,
		TargetClearDist: 300,
		TurnCooldown:    2 * time.Second,
	}
}

func (c Config) Validate() error {
	if c.CriticalDist <= 0 {
		return fmt.Errorf("critical distance must be positive, got %v", c.CriticalDist)
	}
	if c.AvoidDist <= c.CriticalDist {
		return fmt.Errorf("avoid distance %v must exceed critical distance %v", c.AvoidDist, c.CriticalDist)
	}
	if c.ReverseSteps <= 0 {
		return fmt.Errorf("reverse steps must be positive, got %d", c.ReverseSteps)
	}
	return nil
}

// Maneuver is the state of one in-flight maneuver.
type Maneuver struct {
	Kind           Kind
	Phase          Phase
	StepCount      int
	TurnDir        model.Action
	StartTargetVal float64
}

// StateMachine tracks the active maneuver, the recent turn history used
// for oscillation detection, and the hysteresis timestamp of the last
// completed avoidance turn.
type StateMachine struct {
	cfg Config
	mem *DirectionMemory
	now func() time.Time

	current             *Maneuver
	lastTurn            model.Action
	lastTurnTime        time.Time
	oscillationDetected bool
}

func NewStateMachine(cfg Config) *StateMachine {
	return &StateMachine{
		cfg: cfg,
		mem: NewDirectionMemory(directionMemoryCapacity),
		now: time.Now,
	}
}

func (sm *StateMachine) Active() bool {
	return sm.current != nil
}

func (sm *StateMachine) Current() *Maneuver {
	return sm.current
}

func (sm *StateMachine) Memory() *DirectionMemory {
	return sm.mem
}

// OscillationDetected reports whether the anti-oscillation guard has
// fired at least once this session.
func (sm *StateMachine) OscillationDetected() bool {
	return sm.oscillationDetected
}

// EmergencyTriggered reports whether the robot is critically close or
// trapped and must escape before any other decision path runs.
func (sm *StateMachine) EmergencyTriggered(front, left, right float64) bool {
	if front < sm.cfg.CriticalDist {
		return true
	}
	if left < sm.cfg.CriticalDist && right < sm.cfg.CriticalDist {
		return true
	}
	if left < sm.cfg.CriticalDist/2 || right < sm.cfg.CriticalDist/2 {
		return true
	}
	return false
}

// AvoidanceTriggered reports whether a side obstacle is close enough to
// start a turn, with a small asymmetry requirement so a centered corridor
// does not trigger.
func (sm *StateMachine) AvoidanceTriggered(left, right float64) bool {
	if left < sm.cfg.AvoidDist || right < sm.cfg.AvoidDist {
		return abs(left-right) > sm.cfg.AvoidHysteresis
	}
	return false
}

// StartEmergency begins the back-up-and-align escape, turning toward
// whichever side has more room.
func (sm *StateMachine) StartEmergency(left, right float64) model.Decision {
	turnDir := model.ActionTurnLeft
	if left < right {
		turnDir = model.ActionTurnRight
	}
	sm.current = &Maneuver{
		Kind:    KindEmergencyEscape,
		Phase:   PhaseReverse,
		TurnDir: turnDir,
	}
	return maneuverStep(model.ActionReverse, -100, -100, "EMERGENCY_START", model.CategoryEmergency)
}

// StartAvoidance begins a turn toward open space. If the recent turn
// history looks oscillatory, or the opposite turn finished within the
// cooldown window, it forces a forward move instead of starting.
func (sm *StateMachine) StartAvoidance(left, right float64) model.Decision {
	if sm.mem.Oscillating() {
		sm.oscillationDetected = true
		return model.Decision{
			Action:     model.ActionForward,
			SpeedLeft:  70,
			SpeedRight: 70,
			Confidence: 1.0,
			Concept:    "FORCE_FORWARD",
			Category:   model.CategoryAvoidance,
			Source:     model.SourceAntiOscillation,
		}
	}

	var action model.Action
	var startTarget float64
	if left < right {
		action = model.ActionTurnRight
		startTarget = right
	} else {
		action = model.ActionTurnLeft
		startTarget = left
	}

	if sm.lastTurn != "" && sm.lastTurn != action && sm.now().Sub(sm.lastTurnTime) < sm.cfg.TurnCooldown {
		return model.Decision{
			Action:     model.ActionForward,
			SpeedLeft:  60,
			SpeedRight: 60,
			Confidence: 1.0,
			Concept:    "HYSTERESIS_FORWARD",
			Category:   model.CategoryAvoidance,
			Source:     model.SourceAntiOscillation,
		}
	}

	sm.mem.RecordAction(action)
	sm.current = &Maneuver{
		Kind:           KindAvoidanceTurn,
		TurnDir:        action,
		StartTargetVal: startTarget,
	}
	return maneuverStep(action, 120, 120, "AVOID_START", model.CategoryAvoidance)
}

// Step advances the active maneuver by one cycle. The caller must only
// invoke it while Active reports true.
func (sm *StateMachine) Step(left, right float64) model.Decision {
	m := sm.current
	if m == nil {
		return maneuverStep(model.ActionStop, 0, 0, "UNKNOWN_MANEUVER", model.CategoryEmergency)
	}

	switch m.Kind {
	case KindEmergencyEscape:
		if m.Phase == PhaseReverse {
			m.StepCount++
			if m.StepCount >= sm.cfg.ReverseSteps {
				m.Phase = PhaseAlignTurn
			}
			label := fmt.Sprintf("REVERSING_%d", m.StepCount)
			return maneuverStep(model.ActionReverse, -100, -100, label, model.CategoryEmergency)
		}
		if left > sm.cfg.SafeExitDist && right > sm.cfg.SafeExitDist {
			sm.current = nil
			return maneuverStep(model.ActionStop, 0, 0, "SAFE_REACHED", model.CategoryEmergency)
		}
		spdL, spdR := turnSpeeds(m.TurnDir)
		return maneuverStep(m.TurnDir, spdL, spdR, "ALIGNING_TO_SAFE", model.CategoryEmergency)

	case KindAvoidanceTurn:
		target := left
		if m.TurnDir == model.ActionTurnRight {
			target = right
		}
		improvement := target - m.StartTargetVal
		if improvement >= sm.cfg.ImprovementExit || target > sm.cfg.TargetClearDist {
			sm.lastTurn = m.TurnDir
			sm.lastTurnTime = sm.now()
			sm.current = nil
			return maneuverStep(model.ActionForward, 100, 100, "PATH_IMPROVED", model.CategoryAvoidance)
		}
		spdL, spdR := turnSpeeds(m.TurnDir)
		return maneuverStep(m.TurnDir, spdL, spdR, "AVOIDING_OBSTACLE", model.CategoryAvoidance)
	}

	return maneuverStep(model.ActionStop, 0, 0, "UNKNOWN_MANEUVER", model.CategoryEmergency)
}

// Reset clears the active maneuver and turn history.
func (sm *StateMachine) Reset() {
	sm.current = nil
	sm.lastTurn = ""
	sm.lastTurnTime = time.Time{}
	sm.oscillationDetected = false
	sm.mem = NewDirectionMemory(directionMemoryCapacity)
}

// turnSpeeds maps a turn direction to wheel speeds under the fixed
// convention: TurnRight drives the left wheel faster, TurnLeft the right.
func turnSpeeds(dir model.Action) (float64, float64) {
	if dir == model.ActionTurnRight {
		return 120, 40
	}
	return 40, 120
}

func maneuverStep(action model.Action, spdL, spdR float64, concept string, category model.Category) model.Decision {
	return model.Decision{
		Action:     action,
		SpeedLeft:  spdL,
		SpeedRight: spdR,
		Confidence: 1.0,
		Concept:    concept,
		Category:   category,
		Source:     model.SourceManeuver,
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
