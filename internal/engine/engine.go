// Package engine arbitrates between the maneuver state machine, the rule
// ladder, the concept matcher, online-learned vectors and the chaos
// modulator, producing one motor decision per sensor reading.
package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"sync"

	"navcore/internal/chaos"
	"navcore/internal/concept"
	"navcore/internal/learning"
	"navcore/internal/maneuver"
	"navcore/internal/model"
	"navcore/internal/vector"
)

// Engine is the decision arbiter. One Decide call per control tick; the
// caller owns the tick rate. Safe for concurrent use, though decisions
// are serialized internally because every cycle mutates maneuver, chaos
// and learning state.
type Engine struct {
	cfg        Config
	vectorizer vector.Vectorizer
	concepts   *concept.Store
	learning   *learning.Store
	chaos      *chaos.Modulator
	maneuvers  *maneuver.StateMachine
	logger     *slog.Logger

	mu           sync.Mutex
	cycle        int
	olUsage      int
	lastDecision *model.Decision
	lastVector   []float64
}

// New builds an engine. A nil logger disables logging; an unloaded concept
// store is allowed and leaves the engine running on rules and maneuvers
// alone.
func New(cfg Config, concepts *concept.Store, learn *learning.Store, logger *slog.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("engine config: %w", err)
	}
	if concepts == nil {
		concepts = concept.Empty()
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	e := &Engine{
		cfg:        cfg,
		vectorizer: vector.NewVectorizer(cfg.Rules.MaxRange),
		concepts:   concepts,
		learning:   learn,
		chaos:      chaos.NewModulator(cfg.Chaos),
		maneuvers:  maneuver.NewStateMachine(cfg.Maneuver),
		logger:     logger,
	}
	if !concepts.Loaded() {
		logger.Warn("concept model not loaded, running degraded on rules and maneuvers")
	}
	return e, nil
}

// Decide runs one arbitration cycle for a sensor reading.
//
// Priority order: an active maneuver always finishes first, then the
// emergency and avoidance triggers may start one. Only with no maneuver
// in play does the learned path run: vectorize, match, boost, fuse with
// the rule ladder, and finally blend chaos into plain forward motion.
func (e *Engine) Decide(reading model.SensorReading) model.Decision {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.cycle++
	reading = e.vectorizer.Sanitize(reading)
	front, left, right := reading.Front, reading.Left, reading.Right

	if e.maneuvers.Active() {
		return e.finish(e.maneuvers.Step(left, right))
	}
	if e.maneuvers.EmergencyTriggered(front, left, right) {
		e.logger.Warn("emergency escape triggered",
			"front", front, "left", left, "right", right)
		return e.finish(e.maneuvers.StartEmergency(left, right))
	}
	if e.maneuvers.AvoidanceTriggered(left, right) {
		return e.finish(e.maneuvers.StartAvoidance(left, right))
	}

	sensorVec := e.vectorizer.Vectorize(reading)
	e.lastVector = sensorVec

	rule := e.cfg.Rules.Evaluate(front, left, right)

	// The oscillator advances every cycle; its output is only usable
	// with clearance around the robot.
	cx, cy, cz := e.chaos.Step()
	minDist := math.Min(front, math.Min(left, right))
	if minDist <= e.cfg.ChaosMinSafeDistance {
		cx, cy, cz = 0, 0, 0
	}

	match := e.concepts.BestMatch(sensorVec, e.cfg.MatchTolerance)
	conceptName := match.Name
	similarity := match.Similarity
	source := model.SourceConceptMatch

	if e.learning != nil {
		if olName, olSim, ok := e.learning.Match(sensorVec); ok && olSim > similarity {
			conceptName = olName
			similarity = olSim
			source = model.SourceOnlineMatch
			e.olUsage++
			e.logger.Debug("online vector preferred", "concept", olName, "similarity", olSim)
		}
	}

	adjusted := similarity
	if e.learning != nil {
		adjusted = e.learning.Adjusted(similarity, match.Category)
	}
	adjusted = vector.Clamp(adjusted, 0, 1)

	var action model.Action
	var spdL, spdR float64
	switch {
	case !rule.IsDefault() && adjusted < e.cfg.RuleFuseThreshold:
		action, spdL, spdR = rule.Action, rule.SpeedLeft, rule.SpeedRight
		conceptName = rule.Label
		source = model.SourceRuleFuse
		cx, cy, cz = 0, 0, 0
	case adjusted > e.cfg.VagueThreshold:
		action, spdL, spdR = concept.ActionForConcept(conceptName)
	default:
		action, spdL, spdR = model.ActionForward, 80, 80
		conceptName = "FORWARD_UNCERTAIN"
		source = model.SourceVague
	}

	if source == model.SourceConceptMatch || source == model.SourceOnlineMatch {
		e.maneuvers.Memory().RecordConcept(conceptName)
	}

	if action == model.ActionForward && source != model.SourceRuleFuse &&
		(cx != 0 || cy != 0 || cz != 0) {
		spdL, spdR = e.chaos.Blend(spdL, spdR, cx, cy, cz)
	}

	return e.finish(model.Decision{
		Action:     action,
		SpeedLeft:  spdL,
		SpeedRight: spdR,
		Confidence: adjusted,
		Concept:    conceptName,
		Category:   match.Category,
		Source:     source,
	})
}

func (e *Engine) finish(d model.Decision) model.Decision {
	d.Cycle = e.cycle
	e.lastDecision = &d
	return d
}

// Feedback reports the outcome of the most recent decision. An empty
// category defaults to the category of that decision. Without a prior
// decision the call is a no-op.
func (e *Engine) Feedback(ctx context.Context, success bool, category model.Category) error {
	e.mu.Lock()
	last := e.lastDecision
	lastVec := e.lastVector
	e.mu.Unlock()

	if e.learning == nil || last == nil {
		return nil
	}
	if category == "" {
		category = last.Category
	}
	return e.learning.Feedback(ctx, success, category, last.Concept, lastVec)
}

// Save persists the learning state regardless of the feedback throttle.
func (e *Engine) Save(ctx context.Context) error {
	if e.learning == nil {
		return nil
	}
	return e.learning.Save(ctx)
}

// Reset clears all per-session state: cycle counter, chaos trajectory,
// active maneuver and direction memory. Learned weights are untouched.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.cycle = 0
	e.olUsage = 0
	e.lastDecision = nil
	e.lastVector = nil
	e.chaos.Reset()
	e.maneuvers.Reset()
}

// Stats is a point-in-time snapshot of engine health counters.
type Stats struct {
	CycleCount          int                  `json:"cycle_count"`
	ModelLoaded         bool                 `json:"model_loaded"`
	ConceptCount        int                  `json:"concept_count"`
	WeightCategories    int                  `json:"weight_categories"`
	OnlineVectors       int                  `json:"online_vectors"`
	OnlineUsageCount    int                  `json:"online_usage_count"`
	DirectionMemory     []maneuver.Direction `json:"direction_memory"`
	PreferredDirection  maneuver.Direction   `json:"preferred_direction,omitempty"`
	OscillationDetected bool                 `json:"oscillation_detected"`
}

func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := Stats{
		CycleCount:          e.cycle,
		ModelLoaded:         e.concepts.Loaded(),
		ConceptCount:        e.concepts.Len(),
		OnlineUsageCount:    e.olUsage,
		DirectionMemory:     e.maneuvers.Memory().Recent(5),
		PreferredDirection:  e.maneuvers.Memory().Preferred(),
		OscillationDetected: e.maneuvers.OscillationDetected(),
	}
	if e.learning != nil {
		s.WeightCategories = len(e.learning.Weights())
		s.OnlineVectors = len(e.learning.VectorNames())
	}
	return s
}
