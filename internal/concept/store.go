// Package concept holds the persisted concept database and the ordered
// mapping from concept names to motor actions.
package concept

import (
	"fmt"
	"strings"

	"navcore/internal/model"
	"navcore/internal/vector"
)

// LowConfidenceCategory marks a best-match result that fell below tolerance
// or came from an unloaded store. It is not a real concept category.
const LowConfidenceCategory model.Category = "low_confidence"

// DefaultTolerance is the minimum similarity for a usable match.
const DefaultTolerance = 0.25

// Store is a read-only set of named reference vectors. Vectors are unit
// normalized at load so matching reduces to a dot product.
type Store struct {
	names      []string
	vectors    [][]float64
	categories []model.Category
	loaded     bool
}

// Empty returns an unloaded store; every query degrades to the fallback
// match. Used when the persisted model is missing or corrupt.
func Empty() *Store {
	return &Store{}
}

// NewStore builds a matching store from a persisted model. Concepts whose
// vectors have the wrong dimension are rejected rather than silently skipped.
func NewStore(m model.ConceptModel) (*Store, error) {
	dim := m.VectorDim
	if dim == 0 {
		dim = model.VectorDim
	}
	s := &Store{
		names:      make([]string, 0, len(m.Concepts)),
		vectors:    make([][]float64, 0, len(m.Concepts)),
		categories: make([]model.Category, 0, len(m.Concepts)),
	}
	for _, c := range m.Concepts {
		if len(c.Vector) != dim {
			return nil, fmt.Errorf("concept %s: vector dim %d, want %d", c.Name, len(c.Vector), dim)
		}
		s.names = append(s.names, c.Name)
		s.vectors = append(s.vectors, vector.Normalized(c.Vector))
		s.categories = append(s.categories, c.Category)
	}
	s.loaded = len(s.names) > 0
	return s, nil
}

// Loaded reports whether the store holds any concepts.
func (s *Store) Loaded() bool {
	return s.loaded
}

// Len returns the number of stored concepts.
func (s *Store) Len() int {
	return len(s.names)
}

// Match is one best-match query result.
type Match struct {
	Name       string
	Similarity float64
	Category   model.Category
}

// BestMatch returns the stored concept most similar to the sensor vector.
// An unloaded store or a best similarity below tolerance yields the fixed
// forward fallback; the call never fails.
func (s *Store) BestMatch(sensorVec []float64, tolerance float64) Match {
	if !s.loaded {
		return Match{Name: "FORWARD", Similarity: 0, Category: LowConfidenceCategory}
	}

	bestIdx := -1
	bestSim := 0.0
	for i, v := range s.vectors {
		sim := vector.Dot(v, sensorVec)
		if bestIdx < 0 || sim > bestSim {
			bestIdx = i
			bestSim = sim
		}
	}

	if bestSim < tolerance {
		return Match{Name: "FORWARD", Similarity: bestSim, Category: LowConfidenceCategory}
	}
	return Match{Name: s.names[bestIdx], Similarity: bestSim, Category: s.categories[bestIdx]}
}

// actionRule maps concept-name fragments to an action and a speed pair.
type actionRule struct {
	fragments  []string
	action     model.Action
	speedLeft  float64
	speedRight float64
}

// actionRules is evaluated strictly in order. Fragments are not mutually
// exclusive ("LEFT_WALL" also contains "LEFT"), so emergency and wall rules
// must shadow the legacy generic ones below them.
//
// Direction convention: a left-side obstacle name maps to TURN_RIGHT
// (left wheel faster), and mirrored for the right side.
var actionRules = []actionRule{
	{[]string{"TRAPPED", "EMERGENCY_ESCAPE"}, model.ActionEscape, -120, 120},
	{[]string{"COLLISION", "CAUTIOUS_STOP"}, model.ActionStop, 0, 0},
	{[]string{"LEFT_WALL", "LEFT_OBSTACLE"}, model.ActionTurnRight, 140, 40},
	{[]string{"RIGHT_WALL", "RIGHT_OBSTACLE"}, model.ActionTurnLeft, 40, 140},
	{[]string{"FRONT_OBSTACLE_RIGHT"}, model.ActionTurnLeft, 40, 140},
	{[]string{"FRONT_OBSTACLE_LEFT"}, model.ActionTurnRight, 140, 40},
	{[]string{"EXPLORATION_LEFT"}, model.ActionTurnLeft, 30, 150},
	{[]string{"EXPLORATION_RIGHT"}, model.ActionTurnRight, 150, 30},
	{[]string{"CORRIDOR"}, model.ActionForward, 90, 90},
	{[]string{"CLEAR_PATH"}, model.ActionForward, 120, 120},
	{[]string{"NORMAL", "FORWARD"}, model.ActionForward, 100, 100},
	{[]string{"ESCAPE", "STUCK"}, model.ActionEscape, -120, 120},
	{[]string{"TURN_LEFT", "LEFT"}, model.ActionTurnLeft, 30, 150},
	{[]string{"TURN_RIGHT", "RIGHT"}, model.ActionTurnRight, 150, 30},
	{[]string{"STOP"}, model.ActionStop, 0, 0},
}

// ActionForConcept resolves a concept name to an action and speed pair via
// the ordered fragment table. Unknown names default to a plain forward.
func ActionForConcept(name string) (model.Action, float64, float64) {
	upper := strings.ToUpper(name)
	for _, rule := range actionRules {
		for _, fragment := range rule.fragments {
			if strings.Contains(upper, fragment) {
				return rule.action, rule.speedLeft, rule.speedRight
			}
		}
	}
	return model.ActionForward, 100, 100
}
