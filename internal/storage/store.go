package storage

import (
	"context"

	"navcore/internal/model"
)

// Store defines persistence operations for concept models and learning state.
type Store interface {
	Init(ctx context.Context) error
	SaveConceptModel(ctx context.Context, m model.ConceptModel) error
	GetConceptModel(ctx context.Context, name string) (model.ConceptModel, bool, error)
	SaveLearningState(ctx context.Context, state model.LearningState) error
	GetLearningState(ctx context.Context, id string) (model.LearningState, bool, error)
}
