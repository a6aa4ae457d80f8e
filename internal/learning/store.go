// Package learning holds the two adaptive layers of the decision engine:
// per-category confidence weights adjusted by feedback, and a small set of
// online-learned vectors that capture situations the base concept model
// handles poorly.
package learning

import (
	"context"
	"fmt"
	"sync"

	"navcore/internal/model"
	"navcore/internal/storage"
	"navcore/internal/vector"
)

const (
	WeightStep = 0.1
	WeightMin  = 0.5
	WeightMax  = 1.5

	// MatchThreshold is the minimum cosine similarity for an online vector
	// to override the base concept match.
	MatchThreshold = 0.6

	blendAlpha  = 0.15
	decayFactor = 0.95
	dropNorm    = 0.1
	saveEvery   = 20
)

// Store keeps the mutable learning state and persists it through a
// storage.Store. Saves are throttled: one save per saveEvery feedbacks,
// plus an immediate save after every failure so corrections survive a
// crash.
type Store struct {
	backend storage.Store
	id      string

	mu            sync.RWMutex
	sessionID     string
	weights       map[string]float64
	vectors       map[string][]float64
	feedbackCount int
}

func NewStore(backend storage.Store, id, sessionID string) *Store {
	return &Store{
		backend:   backend,
		id:        id,
		sessionID: sessionID,
		weights:   make(map[string]float64),
		vectors:   make(map[string][]float64),
	}
}

// Load restores previously saved state. A missing record is not an error;
// the store starts empty and weights default to 1.0.
func (s *Store) Load(ctx context.Context) error {
	state, ok, err := s.backend.GetLearningState(ctx, s.id)
	if err != nil {
		return fmt.Errorf("load learning state: %w", err)
	}
	if !ok {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.weights = state.Weights
	s.vectors = state.Vectors
	return nil
}

// Weight returns the confidence weight for a category, 1.0 if unseen.
func (s *Store) Weight(category model.Category) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.weightLocked(category)
}

func (s *Store) weightLocked(category model.Category) float64 {
	if w, ok := s.weights[string(category)]; ok {
		return w
	}
	return 1.0
}

// Adjusted scales a raw similarity by the category weight, capped at 1.0.
func (s *Store) Adjusted(similarity float64, category model.Category) float64 {
	adjusted := similarity * s.Weight(category)
	if adjusted > 1.0 {
		return 1.0
	}
	return adjusted
}

// Feedback applies the outcome of a past decision. Success nudges the
// category weight up and reinforces the online vector for the concept;
// failure nudges the weight down and decays the vector, dropping it once
// it shrinks below dropNorm.
func (s *Store) Feedback(ctx context.Context, success bool, category model.Category, concept string, vec []float64) error {
	s.mu.Lock()

	w := s.weightLocked(category)
	if success {
		w += WeightStep
	} else {
		w -= WeightStep
	}
	s.weights[string(category)] = vector.Clamp(w, WeightMin, WeightMax)

	if concept != "" && len(vec) > 0 {
		if success {
			s.reinforceLocked(concept, vec)
		} else {
			s.decayLocked(concept)
		}
	}

	s.feedbackCount++
	persist := !success || s.feedbackCount%saveEvery == 0
	s.mu.Unlock()

	if persist {
		return s.Save(ctx)
	}
	return nil
}

func (s *Store) reinforceLocked(concept string, vec []float64) {
	existing, ok := s.vectors[concept]
	if !ok || len(existing) != len(vec) {
		s.vectors[concept] = append([]float64(nil), vec...)
		return
	}
	blended := make([]float64, len(existing))
	for i := range existing {
		blended[i] = (1-blendAlpha)*existing[i] + blendAlpha*vec[i]
	}
	s.vectors[concept] = blended
}

func (s *Store) decayLocked(concept string) {
	existing, ok := s.vectors[concept]
	if !ok {
		return
	}
	for i := range existing {
		existing[i] *= decayFactor
	}
	if vector.Norm(existing) < dropNorm {
		delete(s.vectors, concept)
	}
}

// Match finds the online vector closest to vec by cosine similarity.
// ok is false when no vector clears MatchThreshold.
func (s *Store) Match(vec []float64) (string, float64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bestName := ""
	bestSim := 0.0
	for name, candidate := range s.vectors {
		sim := vector.Cosine(vec, candidate)
		if sim > bestSim {
			bestName = name
			bestSim = sim
		}
	}
	if bestSim <= MatchThreshold {
		return "", bestSim, false
	}
	return bestName, bestSim, true
}

// Save writes the current state through the backend.
func (s *Store) Save(ctx context.Context) error {
	s.mu.RLock()
	state := model.LearningState{
		VersionedRecord: model.VersionedRecord{
			SchemaVersion: storage.CurrentSchemaVersion,
			CodecVersion:  storage.CurrentCodecVersion,
		},
		ID:        s.id,
		SessionID: s.sessionID,
		Weights:   make(map[string]float64, len(s.weights)),
		Vectors:   make(map[string][]float64, len(s.vectors)),
	}
	for k, v := range s.weights {
		state.Weights[k] = v
	}
	for k, v := range s.vectors {
		state.Vectors[k] = append([]float64(nil), v...)
	}
	s.mu.RUnlock()

	if err := s.backend.SaveLearningState(ctx, state); err != nil {
		return fmt.Errorf("save learning state: %w", err)
	}
	return nil
}

// Weights returns a copy of the category weights.
func (s *Store) Weights() map[string]float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]float64, len(s.weights))
	for k, v := range s.weights {
		out[k] = v
	}
	return out
}

// VectorNames returns the names of the stored online vectors.
func (s *Store) VectorNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.vectors))
	for name := range s.vectors {
		names = append(names, name)
	}
	return names
}

func (s *Store) FeedbackCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.feedbackCount
}
