package storage

import (
	"context"
	"sync"

	"navcore/internal/model"
)

type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	concepts    map[string]model.ConceptModel
	learning    map[string]model.LearningState
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = true
	s.concepts = make(map[string]model.ConceptModel)
	s.learning = make(map[string]model.LearningState)
	return nil
}

func (s *MemoryStore) SaveConceptModel(_ context.Context, m model.ConceptModel) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.concepts[m.Name] = copyConceptModel(m)
	return nil
}

func (s *MemoryStore) GetConceptModel(_ context.Context, name string) (model.ConceptModel, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.concepts[name]
	if !ok {
		return model.ConceptModel{}, false, nil
	}
	return copyConceptModel(m), true, nil
}

func (s *MemoryStore) SaveLearningState(_ context.Context, state model.LearningState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.learning[state.ID] = copyLearningState(state)
	return nil
}

func (s *MemoryStore) GetLearningState(_ context.Context, id string) (model.LearningState, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.learning[id]
	if !ok {
		return model.LearningState{}, false, nil
	}
	return copyLearningState(state), true, nil
}

func copyConceptModel(m model.ConceptModel) model.ConceptModel {
	copied := m
	copied.Concepts = make([]model.Concept, len(m.Concepts))
	for i, c := range m.Concepts {
		copied.Concepts[i] = model.Concept{
			Name:     c.Name,
			Vector:   append([]float64(nil), c.Vector...),
			Category: c.Category,
		}
	}
	return copied
}

func copyLearningState(state model.LearningState) model.LearningState {
	copied := state
	copied.Weights = make(map[string]float64, len(state.Weights))
	for k, v := range state.Weights {
		copied.Weights[k] = v
	}
	copied.Vectors = make(map[string][]float64, len(state.Vectors))
	for k, v := range state.Vectors {
		copied.Vectors[k] = append([]float64(nil), v...)
	}
	return copied
}
