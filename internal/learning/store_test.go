package learning

import (
	"context"
	"math"
	"testing"

	"navcore/internal/model"
	"navcore/internal/storage"
)

func newTestStore(t *testing.T) (*Store, storage.Store) {
	t.Helper()
	backend := storage.NewMemoryStore()
	if err := backend.Init(context.Background()); err != nil {
		t.Fatalf("init backend: %v", err)
	}
	return NewStore(backend, "learning", "session-test"), backend
}

func TestWeightDefaultsToOne(t *testing.T) {
	s, _ := newTestStore(t)
	if w := s.Weight(model.CategoryNavigation); w != 1.0 {
		t.Fatalf("default weight = %v, want 1.0", w)
	}
}

func TestFeedbackAdjustsWeights(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	if err := s.Feedback(ctx, true, model.CategoryNavigation, "", nil); err != nil {
		t.Fatalf("feedback: %v", err)
	}
	if w := s.Weight(model.CategoryNavigation); math.Abs(w-1.1) > 1e-9 {
		t.Fatalf("weight after success = %v, want 1.1", w)
	}

	if err := s.Feedback(ctx, false, model.CategoryNavigation, "", nil); err != nil {
		t.Fatalf("feedback: %v", err)
	}
	if w := s.Weight(model.CategoryNavigation); math.Abs(w-1.0) > 1e-9 {
		t.Fatalf("weight after failure = %v, want 1.0", w)
	}
}

func TestWeightClamped(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	for i := 0; i < 20; i++ {
		if err := s.Feedback(ctx, true, model.CategoryAvoidance, "", nil); err != nil {
			t.Fatalf("feedback: %v", err)
		}
	}
	if w := s.Weight(model.CategoryAvoidance); w != WeightMax {
		t.Fatalf("weight = %v, want clamped to %v", w, WeightMax)
	}

	for i := 0; i < 20; i++ {
		if err := s.Feedback(ctx, false, model.CategoryAvoidance, "", nil); err != nil {
			t.Fatalf("feedback: %v", err)
		}
	}
	if w := s.Weight(model.CategoryAvoidance); w != WeightMin {
		t.Fatalf("weight = %v, want clamped to %v", w, WeightMin)
	}
}

func TestAdjustedCappedAtOne(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	for i := 0; i < 5; i++ {
		if err := s.Feedback(ctx, true, model.CategoryNavigation, "", nil); err != nil {
			t.Fatalf("feedback: %v", err)
		}
	}
	if got := s.Adjusted(0.9, model.CategoryNavigation); got != 1.0 {
		t.Fatalf("adjusted = %v, want capped at 1.0", got)
	}
	if got := s.Adjusted(0.5, model.CategoryNavigation); got <= 0.5 {
		t.Fatalf("adjusted = %v, want boosted above raw similarity", got)
	}
}

func TestOnlineVectorInsertAndBlend(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	obs := []float64{1, 0, 0}

	if err := s.Feedback(ctx, true, model.CategoryNavigation, "CLEAR_PATH", obs); err != nil {
		t.Fatalf("feedback: %v", err)
	}
	name, sim, ok := s.Match([]float64{1, 0, 0})
	if !ok || name != "CLEAR_PATH" {
		t.Fatalf("match = %q ok=%v, want CLEAR_PATH", name, ok)
	}
	if sim < 0.999 {
		t.Fatalf("similarity = %v, want ~1", sim)
	}

	// Repeated success with a shifted observation should pull the stored
	// vector toward it without replacing it outright.
	shifted := []float64{0, 1, 0}
	if err := s.Feedback(ctx, true, model.CategoryNavigation, "CLEAR_PATH", shifted); err != nil {
		t.Fatalf("feedback: %v", err)
	}
	_, simAfter, _ := s.Match([]float64{1, 0, 0})
	if simAfter >= sim {
		t.Fatalf("similarity did not move toward new observation: %v -> %v", sim, simAfter)
	}
}

func TestOnlineVectorDecayAndDrop(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	obs := []float64{1, 0, 0}

	if err := s.Feedback(ctx, true, model.CategoryNavigation, "CLEAR_PATH", obs); err != nil {
		t.Fatalf("feedback: %v", err)
	}
	// 0.95^n < 0.1 needs n > 44.
	for i := 0; i < 50; i++ {
		if err := s.Feedback(ctx, false, model.CategoryNavigation, "CLEAR_PATH", obs); err != nil {
			t.Fatalf("feedback: %v", err)
		}
	}
	if names := s.VectorNames(); len(names) != 0 {
		t.Fatalf("vector survived decay: %v", names)
	}
}

func TestMatchBelowThreshold(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	if err := s.Feedback(ctx, true, model.CategoryNavigation, "CLEAR_PATH", []float64{1, 0, 0}); err != nil {
		t.Fatalf("feedback: %v", err)
	}
	if _, _, ok := s.Match([]float64{0, 1, 1}); ok {
		t.Fatal("orthogonal query matched above threshold")
	}
}

func TestFailurePersistsImmediately(t *testing.T) {
	ctx := context.Background()
	s, backend := newTestStore(t)

	if err := s.Feedback(ctx, false, model.CategoryEmergency, "", nil); err != nil {
		t.Fatalf("feedback: %v", err)
	}
	state, ok, err := backend.GetLearningState(ctx, "learning")
	if err != nil || !ok {
		t.Fatalf("state not persisted after failure: ok=%v err=%v", ok, err)
	}
	if state.Weights[string(model.CategoryEmergency)] != 0.9 {
		t.Fatalf("persisted weight = %v, want 0.9", state.Weights[string(model.CategoryEmergency)])
	}
	if state.SessionID != "session-test" {
		t.Fatalf("persisted session id = %q", state.SessionID)
	}
}

func TestSuccessSaveThrottled(t *testing.T) {
	ctx := context.Background()
	s, backend := newTestStore(t)

	for i := 0; i < saveEvery-1; i++ {
		if err := s.Feedback(ctx, true, model.CategoryNavigation, "", nil); err != nil {
			t.Fatalf("feedback: %v", err)
		}
	}
	if _, ok, _ := backend.GetLearningState(ctx, "learning"); ok {
		t.Fatal("state persisted before throttle interval elapsed")
	}
	if err := s.Feedback(ctx, true, model.CategoryNavigation, "", nil); err != nil {
		t.Fatalf("feedback: %v", err)
	}
	if _, ok, _ := backend.GetLearningState(ctx, "learning"); !ok {
		t.Fatalf("state not persisted after %d feedbacks", saveEvery)
	}
}

func TestLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, backend := newTestStore(t)

	if err := s.Feedback(ctx, true, model.CategoryNavigation, "CLEAR_PATH", []float64{1, 0, 0}); err != nil {
		t.Fatalf("feedback: %v", err)
	}
	if err := s.Save(ctx); err != nil {
		t.Fatalf("save: %v", err)
	}

	restored := NewStore(backend, "learning", "session-new")
	if err := restored.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	if w := restored.Weight(model.CategoryNavigation); math.Abs(w-1.1) > 1e-9 {
		t.Fatalf("restored weight = %v, want 1.1", w)
	}
	if name, _, ok := restored.Match([]float64{1, 0, 0}); !ok || name != "CLEAR_PATH" {
		t.Fatalf("restored match = %q ok=%v", name, ok)
	}
}

func TestLoadMissingStateIsNotFatal(t *testing.T) {
	s, _ := newTestStore(t)
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("load with no saved state: %v", err)
	}
}
